package landmark

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/sirupsen/logrus"

	"placefacts/internal/models"
	coords "placefacts/models"
)

// ErrDatasetLoad wraps every failure to read or decode a dataset.
var ErrDatasetLoad = errors.New("dataset load failed")

// Source produces the raw landmark records of a dataset.
type Source interface {
	Load(ctx context.Context) ([]models.Landmark, error)
	String() string
}

// Load reads landmarks from src, drops invalid records and returns a Matcher.
// A source that cannot be read yields an empty Matcher rather than an error,
// so the bot can still start and answer "nothing nearby".
func Load(ctx context.Context, src Source, logger logrus.FieldLogger) *Matcher {
	logger = logger.WithField("source", src.String())

	landmarks, err := src.Load(ctx)
	var rejected RecordErrors
	switch {
	case errors.As(err, &rejected):
		for _, e := range rejected {
			logger.WithError(e).Debug("Skipping undecodable landmark")
		}
	case err != nil:
		logger.WithError(err).Warn("Landmarks dataset unavailable, using empty dataset")
		return NewMatcher(nil)
	}

	valid, dropped := Sanitize(landmarks, logger)
	dropped += len(rejected)
	if dropped > 0 {
		logger.Infof("Dropped %d invalid landmark records", dropped)
	}
	logger.Infof("Loaded %d landmarks", len(valid))
	return NewMatcher(valid)
}

// Sanitize returns the landmarks with a name and valid coordinates, filling
// defaults for type, city and country. The input order is preserved.
func Sanitize(landmarks []models.Landmark, logger logrus.FieldLogger) ([]models.Landmark, int) {
	valid := make([]models.Landmark, 0, len(landmarks))
	dropped := 0
	for _, l := range landmarks {
		if strings.TrimSpace(l.Name) == "" || !l.Coordinates.Valid() {
			logger.WithFields(logrus.Fields{
				"id":   l.ID,
				"name": l.Name,
				"lat":  l.Coordinates.Lat,
				"lon":  l.Coordinates.Lon,
			}).Debug("Skipping invalid landmark")
			dropped++
			continue
		}
		l.Type = l.PlaceType()
		if !models.Resolved(l.City) {
			l.City = models.Unknown
		}
		if !models.Resolved(l.Country) {
			l.Country = models.Unknown
		}
		valid = append(valid, l)
	}
	return valid, dropped
}

// RecordErrors lists the dataset records that could not be decoded. It is
// returned together with the records that could.
type RecordErrors []error

func (e RecordErrors) Error() string {
	return fmt.Sprintf("%d landmark records could not be decoded", len(e))
}

// rawLandmark distinguishes missing coordinates from a genuine (0, 0).
type rawLandmark struct {
	models.Landmark
	Coordinates *struct {
		Lat *float64 `json:"lat"`
		Lon *float64 `json:"lon"`
	} `json:"coordinates"`
}

// Decode reads a dataset document. Records are decoded one at a time: a
// malformed record is reported in RecordErrors and the rest are kept.
// Records without both coordinates are given NaN coordinates so that
// Sanitize rejects them.
func Decode(r io.Reader) ([]models.Landmark, error) {
	var doc struct {
		Locations []json.RawMessage `json:"locations"`
	}
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: decoding dataset: %w", ErrDatasetLoad, err)
	}

	out := make([]models.Landmark, 0, len(doc.Locations))
	var rejected RecordErrors
	for i, msg := range doc.Locations {
		var raw rawLandmark
		if err := json.Unmarshal(msg, &raw); err != nil {
			rejected = append(rejected, fmt.Errorf("record %d: %w", i, err))
			continue
		}
		l := raw.Landmark
		l.Coordinates = coords.Coordinates{Lat: math.NaN(), Lon: math.NaN()}
		if c := raw.Coordinates; c != nil && c.Lat != nil && c.Lon != nil {
			l.Coordinates = coords.Coordinates{Lat: *c.Lat, Lon: *c.Lon}
		}
		out = append(out, l)
	}
	if len(rejected) > 0 {
		return out, rejected
	}
	return out, nil
}

// FileSource reads a dataset document from the local filesystem.
type FileSource struct {
	Path string
}

func (s FileSource) Load(_ context.Context) ([]models.Landmark, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDatasetLoad, err)
	}
	defer f.Close()
	return Decode(f)
}

func (s FileSource) String() string {
	return "file:" + s.Path
}
