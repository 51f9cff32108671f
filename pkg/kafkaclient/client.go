// Package kafkaclient wraps segmentio/kafka-go with a manually committed
// consumer loop and a JSON producer.
package kafkaclient

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"
	log "github.com/sirupsen/logrus"
)

// KafkaReader defines the interface for a Kafka message reader.
// This allows for easy mocking in unit tests.
type KafkaReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaConsumer reads messages in a background loop and hands them out on a
// channel. Offsets are committed explicitly by the caller.
type KafkaConsumer struct {
	reader KafkaReader
	// closed to signal a graceful shutdown.
	doneChan chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
	// messages read from Kafka, drained by the caller.
	messageChan chan kafka.Message
	// pause after a failed read before trying again.
	retryDelay time.Duration
}

// NewKafkaConsumer creates a consumer for topic in the given consumer group.
func NewKafkaConsumer(topic, groupID, broker string) (*KafkaConsumer, error) {
	if topic == "" || groupID == "" || broker == "" {
		return nil, errors.New("kafka consumer requires topic, group id and broker")
	}
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers: []string{broker},
		Topic:   topic,
		GroupID: groupID,
		// Disable auto-commit to manually control offset committing.
		CommitInterval: 0,
		MinBytes:       1,
		MaxBytes:       10e6,
	})
	return newConsumer(reader), nil
}

func newConsumer(reader KafkaReader) *KafkaConsumer {
	return &KafkaConsumer{
		reader:      reader,
		doneChan:    make(chan struct{}),
		messageChan: make(chan kafka.Message),
		retryDelay:  time.Second,
	}
}

func (kc *KafkaConsumer) Messages() <-chan kafka.Message {
	return kc.messageChan
}

func (kc *KafkaConsumer) CommitOffset(ctx context.Context, msg kafka.Message) error {
	log.WithFields(log.Fields{
		"topic":     msg.Topic,
		"partition": msg.Partition,
		"offset":    msg.Offset,
	}).Debug("Committing offset")
	return kc.reader.CommitMessages(ctx, msg)
}

// StartConsuming begins the consumption loop in a separate goroutine. The
// Messages channel is closed when the loop exits.
func (kc *KafkaConsumer) StartConsuming(ctx context.Context) {
	kc.wg.Add(1)
	go func() {
		defer kc.wg.Done()
		defer close(kc.messageChan)

		log.Info("Starting Kafka consumer loop...")

		for {
			select {
			case <-ctx.Done():
				log.Info("Context canceled, stopping consumer loop.")
				return
			case <-kc.doneChan:
				log.Info("Shutdown signal received, stopping consumer loop.")
				return
			default:
			}

			msg, err := kc.reader.ReadMessage(ctx)
			if err != nil {
				if errors.Is(err, io.EOF) || errors.Is(err, context.Canceled) || isReaderClosed(err) {
					return
				}
				log.WithError(err).Warn("Error reading message")
				select {
				case <-time.After(kc.retryDelay):
				case <-ctx.Done():
					return
				case <-kc.doneChan:
					return
				}
				continue
			}

			select {
			case kc.messageChan <- msg:
				log.WithFields(log.Fields{
					"topic":     msg.Topic,
					"partition": msg.Partition,
					"offset":    msg.Offset,
				}).Debug("Message received")
			case <-ctx.Done():
				return
			case <-kc.doneChan:
				return
			}
		}
	}()
}

// Stop shuts the consumer down and closes the underlying reader. It is safe
// to call more than once.
func (kc *KafkaConsumer) Stop() {
	kc.stopOnce.Do(func() {
		log.Info("Stopping Kafka consumer...")
		close(kc.doneChan)
		if err := kc.reader.Close(); err != nil {
			log.WithError(err).Warn("Failed to close Kafka reader")
		}
		kc.wg.Wait()
		log.Info("Kafka consumer stopped.")
	})
}

func isReaderClosed(err error) bool {
	return strings.Contains(err.Error(), "reader closed")
}

// KafkaWriter defines the subset of kafka.Writer used by Producer.
type KafkaWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Producer publishes keyed messages to a single topic.
type Producer struct {
	writer KafkaWriter
}

// NewProducer creates a Producer writing to topic on broker. Writes are
// synchronous and balanced by key hash.
func NewProducer(topic, broker string) *Producer {
	return &Producer{writer: &kafka.Writer{
		Addr:         kafka.TCP(broker),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		BatchTimeout: 10 * time.Millisecond,
	}}
}

// NewProducerWithWriter wraps an existing writer, mainly for tests.
func NewProducerWithWriter(w KafkaWriter) *Producer {
	return &Producer{writer: w}
}

func (p *Producer) Publish(ctx context.Context, key, value []byte) error {
	return p.writer.WriteMessages(ctx, kafka.Message{Key: key, Value: value, Time: time.Now()})
}

func (p *Producer) Close() error {
	return p.writer.Close()
}
