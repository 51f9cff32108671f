// Package dataset assembles the landmark dataset offline from Wikipedia
// categories and writes it as a JSON document.
package dataset

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"

	"placefacts/internal/models"
)

// SourceName is recorded in every generated dataset.
const SourceName = "Wikipedia API"

// Processor streams the landmarks of one category.
type Processor interface {
	ProcessCategoryAsync(ctx context.Context, lang, category string, limit int) <-chan models.Landmark
}

type Builder struct {
	processor Processor
	limit     int
	logger    logrus.FieldLogger
	now       func() time.Time
}

// NewBuilder returns a Builder processing at most limit pages per category.
func NewBuilder(processor Processor, limit int, logger logrus.FieldLogger) *Builder {
	if limit <= 0 {
		limit = 10
	}
	return &Builder{processor: processor, limit: limit, logger: logger, now: time.Now}
}

// Build processes categories in order and returns the deduplicated dataset.
// It stops early, returning what it has, when ctx is done.
func (b *Builder) Build(ctx context.Context, categories []CategorySpec) models.Dataset {
	b.logger.Infof("Starting dataset generation for %d categories", len(categories))

	var (
		collected []models.Landmark
		names     = make([]string, 0, len(categories))
	)
	for _, c := range categories {
		if ctx.Err() != nil {
			b.logger.Warn("Dataset generation interrupted")
			break
		}
		names = append(names, c.Name)
		before := len(collected)
		for lm := range b.processor.ProcessCategoryAsync(ctx, c.Lang, c.Name, b.limit) {
			collected = append(collected, lm)
		}
		b.logger.WithField("category", c.Name).Infof("Collected %d landmarks", len(collected)-before)
	}

	unique := Dedupe(collected)
	for i := range unique {
		unique[i].ID = models.IntID(i + 1)
	}
	if dropped := len(collected) - len(unique); dropped > 0 {
		b.logger.Infof("Removed %d duplicate landmarks", dropped)
	}

	return models.Dataset{
		GeneratedAt:         b.now().Format(time.RFC3339),
		Source:              SourceName,
		TotalLocations:      len(unique),
		CategoriesProcessed: names,
		Locations:           unique,
	}
}

type coordKey struct{ lat, lon float64 }

func roundCoord(v float64) float64 {
	return math.Round(v*1e4) / 1e4
}

// Dedupe drops landmarks whose coordinates, rounded to 4 decimal places,
// match an earlier one. The first occurrence wins and order is kept.
func Dedupe(landmarks []models.Landmark) []models.Landmark {
	seen := make(map[coordKey]struct{}, len(landmarks))
	unique := make([]models.Landmark, 0, len(landmarks))
	for _, lm := range landmarks {
		k := coordKey{roundCoord(lm.Coordinates.Lat), roundCoord(lm.Coordinates.Lon)}
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		unique = append(unique, lm)
	}
	return unique
}

// Encode renders ds as indented UTF-8 JSON.
func Encode(ds models.Dataset) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(ds); err != nil {
		return nil, fmt.Errorf("encode dataset: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteFile writes ds to path, creating parent directories as needed.
func WriteFile(path string, ds models.Dataset) error {
	data, err := Encode(ds)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write dataset %s: %w", path, err)
	}
	return nil
}
