// Package location resolves coordinates to a city and country through the
// Nominatim reverse geocoding API.
package location

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"golang.org/x/time/rate"
)

const defaultBaseURL = "https://nominatim.openstreetmap.org"

// Location holds enriched info about a place
type Location struct {
	Name    string
	City    string
	Country string
	Road    string
	Type    string
	OsmID   string
}

// NominatimResponse is shaped for the reverse API response
type NominatimResponse struct {
	PlaceID     int64  `json:"place_id"`
	Licence     string `json:"licence"`
	OsmType     string `json:"osm_type"`
	OsmID       int64  `json:"osm_id"`
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	Class       string `json:"class"`
	Type        string `json:"type"`
	AddressType string `json:"addresstype"`
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
	Error       string `json:"error"`
	Address     struct {
		Tourism     string `json:"tourism"`
		Road        string `json:"road"`
		Suburb      string `json:"suburb"`
		City        string `json:"city"`
		Town        string `json:"town"`
		Village     string `json:"village"`
		State       string `json:"state"`
		Country     string `json:"country"`
		CountryCode string `json:"country_code"`
	} `json:"address"`
}

// Geocoder calls Nominatim at most once per second, as its usage policy asks.
type Geocoder struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
	language   string
	limiter    *rate.Limiter
}

func NewGeocoder(language string) *Geocoder {
	if language == "" {
		language = "en"
	}
	return &Geocoder{
		httpClient: http.DefaultClient,
		baseURL:    defaultBaseURL,
		userAgent:  "PlacefactsDatasetBuilder/1.0",
		language:   language,
		limiter:    rate.NewLimiter(rate.Limit(1), 1),
	}
}

// Reverse looks up the place at lat, lon.
func (g *Geocoder) Reverse(ctx context.Context, lat, lon float64) (*Location, error) {
	if err := g.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("lat", strconv.FormatFloat(lat, 'f', 6, 64))
	params.Set("lon", strconv.FormatFloat(lon, 'f', 6, 64))
	params.Set("format", "jsonv2")
	params.Set("addressdetails", "1")
	params.Set("accept-language", g.language)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"/reverse?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", g.userAgent)

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status: %s", resp.Status)
	}

	var result NominatimResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, err
	}
	if result.Error != "" {
		return nil, fmt.Errorf("no results for %f,%f: %s", lat, lon, result.Error)
	}

	city := result.Address.City
	if city == "" {
		city = result.Address.Town
	}
	if city == "" {
		city = result.Address.Village
	}

	return &Location{
		Name:    result.Name,
		City:    city,
		Country: result.Address.Country,
		Road:    result.Address.Road,
		Type:    result.Type,
		OsmID:   fmt.Sprintf("%s/%d", result.OsmType, result.OsmID),
	}, nil
}
