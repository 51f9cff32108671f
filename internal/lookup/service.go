// Package lookup answers a location query: it finds the nearest landmark,
// asks for a fact about it and assembles the reply.
package lookup

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"placefacts/internal/facts"
	"placefacts/internal/landmark"
	"placefacts/internal/models"
	"placefacts/internal/monitoring"
	coords "placefacts/models"
)

// Query is a single location request.
type Query struct {
	Lat         float64
	Lon         float64
	RequesterID int64
}

// Result is the assembled answer for a matched query.
type Result struct {
	RequestID    string
	Name         string
	DistanceKm   float64
	Coordinates  coords.Coordinates
	Fact         string
	FactSource   facts.Source
	WikipediaURL string
	Type         string
}

type Options struct {
	MaxDistanceKm float64
}

// NearestFinder is the part of landmark.Matcher used by Service.
type NearestFinder interface {
	FindNearest(lat, lon, maxDistanceKm float64) (landmark.MatchResult, bool)
}

// FactGenerator is the part of facts.Generator used by Service.
type FactGenerator interface {
	Generate(ctx context.Context, lm models.Landmark, query coords.Coordinates) facts.Fact
}

type Service struct {
	matcher   NearestFinder
	generator FactGenerator
	opts      Options
	recorder  Recorder
	logger    logrus.FieldLogger
	now       func() time.Time
}

// NewService wires the pipeline. A nil recorder falls back to a LogRecorder.
func NewService(matcher NearestFinder, generator FactGenerator, opts Options, recorder Recorder, logger logrus.FieldLogger) *Service {
	if opts.MaxDistanceKm <= 0 {
		opts.MaxDistanceKm = landmark.DefaultMaxDistanceKm
	}
	if recorder == nil {
		recorder = NewLogRecorder(logger)
	}
	return &Service{
		matcher:   matcher,
		generator: generator,
		opts:      opts,
		recorder:  recorder,
		logger:    logger,
		now:       time.Now,
	}
}

// Process runs the pipeline for q. It returns false when no landmark is in
// range or when anything inside the pipeline fails; it never panics.
func (s *Service) Process(ctx context.Context, q Query) (res *Result, ok bool) {
	start := s.now()
	requestID := uuid.NewString()
	logger := s.logger.WithFields(logrus.Fields{
		"request_id":   requestID,
		"requester_id": q.RequesterID,
		"lat":          q.Lat,
		"lon":          q.Lon,
	})

	defer func() {
		if r := recover(); r != nil {
			logger.WithError(fmt.Errorf("%v", r)).Error("Location pipeline failed")
			monitoring.RecordLocationRequest(monitoring.OutcomeFailure, time.Since(start))
			res, ok = nil, false
		}
	}()

	logger.Info("Processing location")

	if err := ctx.Err(); err != nil {
		logger.WithError(err).Warn("Location request abandoned")
		monitoring.RecordLocationRequest(monitoring.OutcomeFailure, time.Since(start))
		return nil, false
	}

	match, found := s.matcher.FindNearest(q.Lat, q.Lon, s.opts.MaxDistanceKm)
	if !found {
		logger.Info("No landmark within range")
		monitoring.RecordLocationRequest(monitoring.OutcomeNoMatch, time.Since(start))
		return nil, false
	}
	monitoring.MatchDistanceKm.Observe(match.DistanceKm)

	query := coords.Coordinates{Lat: q.Lat, Lon: q.Lon}
	genStart := time.Now()
	fact := s.generator.Generate(ctx, match.Landmark, query)
	monitoring.RecordFact(string(fact.Source), time.Since(genStart))

	res = &Result{
		RequestID:    requestID,
		Name:         match.Landmark.Name,
		DistanceKm:   match.DistanceKm,
		Coordinates:  match.Landmark.Coordinates,
		Fact:         fact.Text,
		FactSource:   fact.Source,
		WikipediaURL: match.Landmark.WikipediaURL,
		Type:         match.Landmark.PlaceType(),
	}

	if err := s.recorder.Record(ctx, newEvent(q, res, s.now())); err != nil {
		logger.WithError(err).Warn("Failed to record result")
	}

	logger.WithFields(logrus.Fields{
		"place":       res.Name,
		"distance_km": res.DistanceKm,
		"fact_source": res.FactSource,
	}).Info("Location processed")
	monitoring.RecordLocationRequest(monitoring.OutcomeMatch, time.Since(start))
	return res, true
}
