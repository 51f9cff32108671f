package dataset

import (
	"context"
	"fmt"

	"placefacts/internal/enrich"
	"placefacts/internal/models"
	"placefacts/pkg/location"
	"placefacts/pkg/wikipedia"
)

// Reverser resolves coordinates to an address.
type Reverser interface {
	Reverse(ctx context.Context, lat, lon float64) (*location.Location, error)
}

// ReverseGeocodeStage fills city and country from a reverse geocoder for
// pages whose categories did not name a known city.
func ReverseGeocodeStage(r Reverser) enrich.Stage[wikipedia.PageItem] {
	return enrich.NewStage(func(ctx context.Context, item *wikipedia.PageItem) error {
		lm := &item.Landmark
		if models.Resolved(lm.City) {
			return nil
		}
		loc, err := r.Reverse(ctx, lm.Coordinates.Lat, lm.Coordinates.Lon)
		if err != nil {
			return fmt.Errorf("reverse geocode %q: %w", item.Title, err)
		}
		if loc.City != "" {
			lm.City = loc.City
		}
		if !models.Resolved(lm.Country) && loc.Country != "" {
			lm.Country = loc.Country
		}
		return nil
	})
}
