// Package service contains helpers used by application services.
// In particular, it provides an Iterator that consumes messages from a
// message source (e.g., Kafka via pkg/kafkaclient) and decodes them with a
// pluggable DecodeFunc.
package service

import (
	"context"

	"github.com/segmentio/kafka-go"
	log "github.com/sirupsen/logrus"
)

// Iterator consumes messages from a MessageIterator, decodes each one and
// yields the results on a channel. It is generic over the decoded type T.
//
// The Iterator does not manage the lifecycle of the underlying message source;
// callers start and stop their consumer outside of it.
type Iterator[T any] struct {
	msgIterator MessageIterator
	decode      DecodeFunc[T]
}

func NewIterator[T any](iterator MessageIterator, decode DecodeFunc[T]) *Iterator[T] {
	return &Iterator[T]{
		msgIterator: iterator,
		decode:      decode,
	}
}

// Objects starts a goroutine that:
//  1. Receives messages from the underlying MessageIterator
//  2. Decodes each message with the DecodeFunc
//  3. Emits a Delivery[T] on the returned channel
//  4. Commits the message offset once the delivery has been accepted
//
// Messages that fail to decode are logged, committed and skipped so a poison
// message cannot stall the topic. The output channel is closed when the
// underlying Messages() channel is closed or ctx is done.
func (it *Iterator[T]) Objects(ctx context.Context) <-chan *Delivery[T] {
	out := make(chan *Delivery[T])
	go func() {
		defer close(out)

		msgs := it.msgIterator.Messages()
		for {
			var msg kafka.Message
			select {
			case <-ctx.Done():
				return
			case m, ok := <-msgs:
				if !ok {
					return
				}
				msg = m
			}

			data, err := it.decode(ctx, msg)
			if err != nil {
				log.WithError(err).WithField("offset", msg.Offset).Warn("Skipping undecodable message")
				it.commit(ctx, msg)
				continue
			}

			select {
			case out <- &Delivery[T]{Data: data, Message: msg}:
			case <-ctx.Done():
				return
			}

			it.commit(ctx, msg)
		}
	}()
	return out
}

func (it *Iterator[T]) commit(ctx context.Context, msg kafka.Message) {
	if err := it.msgIterator.CommitOffset(ctx, msg); err != nil {
		log.WithError(err).WithField("offset", msg.Offset).Error("Failed to commit offset")
	}
}
