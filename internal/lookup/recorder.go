package lookup

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"placefacts/internal/monitoring"
	coords "placefacts/models"
)

// redactedFactLength bounds the fact text carried by an Event.
const redactedFactLength = 100

// Event is the redacted record of one matched query.
type Event struct {
	RequestID        string             `json:"request_id"`
	RequesterID      int64              `json:"requester_id"`
	InputCoordinates coords.Coordinates `json:"input_coordinates"`
	Place            string             `json:"place"`
	DistanceKm       float64            `json:"distance_km"`
	PlaceCoordinates coords.Coordinates `json:"place_coordinates"`
	Fact             string             `json:"fact"`
	FactSource       string             `json:"fact_source"`
	ProcessedAt      time.Time          `json:"processed_at"`
}

func newEvent(q Query, res *Result, at time.Time) Event {
	return Event{
		RequestID:        res.RequestID,
		RequesterID:      q.RequesterID,
		InputCoordinates: coords.Coordinates{Lat: q.Lat, Lon: q.Lon},
		Place:            res.Name,
		DistanceKm:       res.DistanceKm,
		PlaceCoordinates: res.Coordinates,
		Fact:             redact(res.Fact),
		FactSource:       string(res.FactSource),
		ProcessedAt:      at.UTC(),
	}
}

func redact(s string) string {
	r := []rune(s)
	if len(r) <= redactedFactLength {
		return s
	}
	return string(r[:redactedFactLength]) + "..."
}

// Recorder stores or forwards processing records.
type Recorder interface {
	Record(ctx context.Context, e Event) error
}

// LogRecorder writes events to the structured log.
type LogRecorder struct {
	logger logrus.FieldLogger
}

func NewLogRecorder(logger logrus.FieldLogger) *LogRecorder {
	return &LogRecorder{logger: logger}
}

func (r *LogRecorder) Record(_ context.Context, e Event) error {
	r.logger.WithFields(logrus.Fields{
		"request_id":   e.RequestID,
		"requester_id": e.RequesterID,
		"input_lat":    e.InputCoordinates.Lat,
		"input_lon":    e.InputCoordinates.Lon,
		"place":        e.Place,
		"distance_km":  e.DistanceKm,
		"fact":         e.Fact,
		"fact_source":  e.FactSource,
	}).Info("Location result")
	return nil
}

// Publisher sends a keyed message to a broker.
type Publisher interface {
	Publish(ctx context.Context, key, value []byte) error
}

// KafkaRecorder publishes events as JSON keyed by request id.
type KafkaRecorder struct {
	publisher Publisher
}

func NewKafkaRecorder(p Publisher) *KafkaRecorder {
	return &KafkaRecorder{publisher: p}
}

func (r *KafkaRecorder) Record(ctx context.Context, e Event) error {
	value, err := json.Marshal(e)
	if err != nil {
		monitoring.EventsPublishedTotal.WithLabelValues("error").Inc()
		return fmt.Errorf("encode event: %w", err)
	}
	if err := r.publisher.Publish(ctx, []byte(e.RequestID), value); err != nil {
		monitoring.EventsPublishedTotal.WithLabelValues("error").Inc()
		return fmt.Errorf("publish event %s: %w", e.RequestID, err)
	}
	monitoring.EventsPublishedTotal.WithLabelValues("ok").Inc()
	return nil
}

// MultiRecorder fans an event out to every recorder and joins their errors.
type MultiRecorder []Recorder

func (m MultiRecorder) Record(ctx context.Context, e Event) error {
	var errs []error
	for _, r := range m {
		if err := r.Record(ctx, e); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
