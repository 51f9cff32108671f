package dataset

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"placefacts/internal/landmark"
	"placefacts/internal/models"
	coords "placefacts/models"
)

type fakeProcessor struct {
	byCategory map[string][]models.Landmark
	limits     []int
}

func (f *fakeProcessor) ProcessCategoryAsync(_ context.Context, _, category string, limit int) <-chan models.Landmark {
	f.limits = append(f.limits, limit)
	out := make(chan models.Landmark)
	go func() {
		defer close(out)
		for _, lm := range f.byCategory[category] {
			out <- lm
		}
	}()
	return out
}

func place(name string, lat, lon float64) models.Landmark {
	return models.Landmark{Name: name, Coordinates: coords.Coordinates{Lat: lat, Lon: lon}, Description: name}
}

func TestBuilder_Build(t *testing.T) {
	logger, _ := test.NewNullLogger()
	proc := &fakeProcessor{byCategory: map[string][]models.Landmark{
		"Museums": {place("Louvre", 48.8606, 2.3376), place("Orsay", 48.8600, 2.3266)},
		"Sights":  {place("Louvre again", 48.86061, 2.33762), place("Eiffel Tower", 48.8584, 2.2945)},
	}}

	b := NewBuilder(proc, 5, logger)
	b.now = func() time.Time { return time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC) }

	ds := b.Build(context.Background(), []CategorySpec{{Name: "Museums", Lang: "en"}, {Name: "Sights", Lang: "en"}})

	assert.Equal(t, "2024-01-02T03:04:05Z", ds.GeneratedAt)
	assert.Equal(t, SourceName, ds.Source)
	assert.Equal(t, []string{"Museums", "Sights"}, ds.CategoriesProcessed)
	require.Equal(t, 3, ds.TotalLocations)
	require.Len(t, ds.Locations, 3)

	var names []string
	for i, lm := range ds.Locations {
		assert.Equal(t, models.IntID(i+1), lm.ID)
		names = append(names, lm.Name)
	}
	assert.Equal(t, []string{"Louvre", "Orsay", "Eiffel Tower"}, names)
	assert.Equal(t, []int{5, 5}, proc.limits)
}

func TestBuilder_StopsWhenCanceled(t *testing.T) {
	logger, _ := test.NewNullLogger()
	proc := &fakeProcessor{byCategory: map[string][]models.Landmark{"A": {place("a", 1, 1)}}}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ds := NewBuilder(proc, 0, logger).Build(ctx, []CategorySpec{{Name: "A"}})
	assert.Zero(t, ds.TotalLocations)
	assert.Empty(t, proc.limits)
}

func TestDedupe(t *testing.T) {
	tests := []struct {
		name string
		in   []models.Landmark
		want []string
	}{
		{
			name: "keeps first of near duplicates",
			in:   []models.Landmark{place("first", 55.75391, 37.62081), place("second", 55.75389, 37.62079)},
			want: []string{"first"},
		},
		{
			name: "keeps points more than the rounding step apart",
			in:   []models.Landmark{place("a", 55.7539, 37.6208), place("b", 55.7541, 37.6208)},
			want: []string{"a", "b"},
		},
		{
			name: "empty input",
			in:   nil,
			want: nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []string
			for _, lm := range Dedupe(tt.in) {
				got = append(got, lm.Name)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestWriteFile_RoundTripsThroughLoader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "landmarks.json")
	ds := models.Dataset{
		GeneratedAt:         "2024-01-02T03:04:05Z",
		Source:              SourceName,
		TotalLocations:      1,
		CategoriesProcessed: []string{"Площади Москвы"},
		Locations: []models.Landmark{{
			ID: "1", Name: "Красная площадь", Coordinates: coords.Coordinates{Lat: 55.7539, Lon: 37.6208},
			Description: "Главная площадь <Москвы>", Type: "square", City: "Moscow", Country: "Russia", Language: "ru",
		}},
	}
	require.NoError(t, WriteFile(path, ds))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "Красная площадь")
	assert.Contains(t, string(raw), "<Москвы>")
	assert.Contains(t, string(raw), "\n  \"source\"")

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.EqualValues(t, 1, decoded["total_locations"])
	first := decoded["locations"].([]any)[0].(map[string]any)
	assert.Equal(t, float64(1), first["id"], "sequential ids are written as numbers")

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	got, err := landmark.Decode(f)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Красная площадь", got[0].Name)
	assert.Equal(t, 55.7539, got[0].Coordinates.Lat)
	assert.Equal(t, models.IntID(1), got[0].ID)
}
