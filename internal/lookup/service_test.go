package lookup

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"placefacts/internal/facts"
	"placefacts/internal/landmark"
	"placefacts/internal/models"
	coords "placefacts/models"
)

type stubGenerator struct {
	text  string
	calls int
}

func (g *stubGenerator) Generate(_ context.Context, lm models.Landmark, _ coords.Coordinates) facts.Fact {
	g.calls++
	return facts.Fact{Text: g.text + " " + lm.Name, Source: facts.SourceGenerated}
}

type panickingGenerator struct{}

func (panickingGenerator) Generate(context.Context, models.Landmark, coords.Coordinates) facts.Fact {
	panic("boom")
}

type failingClient struct{}

func (failingClient) Complete(context.Context, facts.Completion) (string, error) {
	return "", errors.New("service unavailable")
}

type captureRecorder struct {
	events []Event
	err    error
}

func (r *captureRecorder) Record(_ context.Context, e Event) error {
	r.events = append(r.events, e)
	return r.err
}

func redSquare() models.Landmark {
	return models.Landmark{
		ID:           "1",
		Name:         "Red Square",
		Coordinates:  coords.Coordinates{Lat: 55.7539, Lon: 37.6208},
		Description:  "The central square of Moscow.",
		Categories:   []string{"площадь"},
		Type:         "square",
		City:         "Moscow",
		Country:      "Russia",
		WikipediaURL: "https://en.wikipedia.org/wiki/Red_Square",
	}
}

func TestProcess_MatchNearRedSquare(t *testing.T) {
	logger, _ := test.NewNullLogger()
	gen := &stubGenerator{text: "Fact about"}
	rec := &captureRecorder{}
	svc := NewService(landmark.NewMatcher([]models.Landmark{redSquare()}), gen, Options{}, rec, logger)

	res, ok := svc.Process(context.Background(), Query{Lat: 55.7540, Lon: 37.6210, RequesterID: 42})
	require.True(t, ok)
	require.NotNil(t, res)

	assert.Equal(t, "Red Square", res.Name)
	assert.Less(t, res.DistanceKm, 0.1)
	assert.Equal(t, "Fact about Red Square", res.Fact)
	assert.Equal(t, facts.SourceGenerated, res.FactSource)
	assert.Equal(t, "square", res.Type)
	assert.Equal(t, "https://en.wikipedia.org/wiki/Red_Square", res.WikipediaURL)
	assert.NotEmpty(t, res.RequestID)

	require.Len(t, rec.events, 1)
	ev := rec.events[0]
	assert.Equal(t, res.RequestID, ev.RequestID)
	assert.Equal(t, int64(42), ev.RequesterID)
	assert.Equal(t, 55.7540, ev.InputCoordinates.Lat)
	assert.Equal(t, "Red Square", ev.Place)
}

func TestProcess_NothingInRange(t *testing.T) {
	logger, _ := test.NewNullLogger()
	gen := &stubGenerator{}
	rec := &captureRecorder{}
	svc := NewService(landmark.NewMatcher([]models.Landmark{redSquare()}), gen, Options{MaxDistanceKm: 10}, rec, logger)

	// Roughly 260 km west of Moscow.
	res, ok := svc.Process(context.Background(), Query{Lat: 55.75, Lon: 33.5})
	assert.False(t, ok)
	assert.Nil(t, res)
	assert.Zero(t, gen.calls)
	assert.Empty(t, rec.events)
}

func TestProcess_EmptyDataset(t *testing.T) {
	logger, _ := test.NewNullLogger()
	svc := NewService(landmark.NewMatcher(nil), &stubGenerator{}, Options{}, nil, logger)

	res, ok := svc.Process(context.Background(), Query{Lat: 55.7540, Lon: 37.6210})
	assert.False(t, ok)
	assert.Nil(t, res)
}

func TestProcess_GenerationFailureFallsBack(t *testing.T) {
	logger, _ := test.NewNullLogger()
	lm := redSquare()
	gen := facts.NewGenerator(failingClient{}, facts.Options{}, logger)
	svc := NewService(landmark.NewMatcher([]models.Landmark{lm}), gen, Options{}, &captureRecorder{}, logger)

	res, ok := svc.Process(context.Background(), Query{Lat: 55.7540, Lon: 37.6210})
	require.True(t, ok)
	assert.Equal(t, facts.Fallback(lm), res.Fact)
	assert.Equal(t, facts.SourceFallback, res.FactSource)
	assert.True(t, strings.HasPrefix(res.Fact, "This is a square: "))
}

func TestProcess_TieReturnsFirst(t *testing.T) {
	logger, _ := test.NewNullLogger()
	east := models.Landmark{ID: "1", Name: "East", Coordinates: coords.Coordinates{Lat: 0, Lon: 0.01}}
	west := models.Landmark{ID: "2", Name: "West", Coordinates: coords.Coordinates{Lat: 0, Lon: -0.01}}
	svc := NewService(landmark.NewMatcher([]models.Landmark{east, west}), &stubGenerator{}, Options{}, &captureRecorder{}, logger)

	for i := 0; i < 5; i++ {
		res, ok := svc.Process(context.Background(), Query{Lat: 0, Lon: 0})
		require.True(t, ok)
		assert.Equal(t, "East", res.Name)
	}
}

func TestProcess_RecoversPanic(t *testing.T) {
	logger, hook := test.NewNullLogger()
	svc := NewService(landmark.NewMatcher([]models.Landmark{redSquare()}), panickingGenerator{}, Options{}, &captureRecorder{}, logger)

	var (
		res *Result
		ok  bool
	)
	assert.NotPanics(t, func() {
		res, ok = svc.Process(context.Background(), Query{Lat: 55.7540, Lon: 37.6210, RequesterID: 7})
	})
	assert.False(t, ok)
	assert.Nil(t, res)

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, "Location pipeline failed", entry.Message)
	assert.Equal(t, int64(7), entry.Data["requester_id"])
}

func TestProcess_RecorderErrorIsNotSurfaced(t *testing.T) {
	logger, _ := test.NewNullLogger()
	rec := &captureRecorder{err: errors.New("broker down")}
	svc := NewService(landmark.NewMatcher([]models.Landmark{redSquare()}), &stubGenerator{}, Options{}, rec, logger)

	res, ok := svc.Process(context.Background(), Query{Lat: 55.7540, Lon: 37.6210})
	assert.True(t, ok)
	assert.NotNil(t, res)
}

func TestProcess_CanceledContext(t *testing.T) {
	logger, _ := test.NewNullLogger()
	gen := &stubGenerator{}
	svc := NewService(landmark.NewMatcher([]models.Landmark{redSquare()}), gen, Options{}, nil, logger)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, ok := svc.Process(ctx, Query{Lat: 55.7540, Lon: 37.6210})
	assert.False(t, ok)
	assert.Nil(t, res)
	assert.Zero(t, gen.calls)
}
