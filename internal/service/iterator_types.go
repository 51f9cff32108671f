package service

import (
	"context"
	"encoding/json"

	"github.com/segmentio/kafka-go"
)

// MessageIterator defines the contract for consuming messages from a Kafka topic.
// It is used by the service's Iterator to abstract away the details of the
// underlying Kafka consumer.
//
// Implementations are responsible for the lifecycle of the consumer connection.
type MessageIterator interface {
	// Messages returns a receive-only channel of Kafka messages. The channel
	// is closed by the implementation when the consumer is stopped or the
	// underlying source is exhausted.
	Messages() <-chan kafka.Message

	// CommitOffset acknowledges that a message has been successfully processed.
	CommitOffset(ctx context.Context, msg kafka.Message) error
}

// DecodeFunc turns a raw message into a value of type T.
type DecodeFunc[T any] func(ctx context.Context, msg kafka.Message) (T, error)

// JSON returns a DecodeFunc that unmarshals the message value into T.
func JSON[T any]() DecodeFunc[T] {
	return func(_ context.Context, msg kafka.Message) (T, error) {
		var v T
		err := json.Unmarshal(msg.Value, &v)
		return v, err
	}
}

// Delivery pairs a decoded value with the message it came from.
type Delivery[T any] struct {
	Data    T
	Message kafka.Message
}
