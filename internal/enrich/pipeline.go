package enrich

import (
	"context"
	"errors"
	"sync"

	log "github.com/sirupsen/logrus"
)

// Pipeline coordinates the execution of a sequence of stages for items flowing
// through a channel. For each incoming item, steps within the same stage run in
// parallel, and stages themselves run sequentially. Step errors other than
// ErrSkip are logged and do not stop processing of the current item.
//
// Pipeline is generic over the item type T.
type Pipeline[T any] struct {
	stages []Stage[T]
}

// NewPipeline constructs a Pipeline from the provided stages. Stages will be
// applied to each item in order.
func NewPipeline[T any](stages ...Stage[T]) *Pipeline[T] {
	return &Pipeline[T]{stages: stages}
}

// Process consumes items from the input channel and returns a channel that
// emits each surviving item after all stages have been applied. Items leave in
// the order they arrived. For each item:
//   - All steps in a stage are started concurrently and must complete before
//     moving to the next stage (a stage barrier).
//   - A step returning ErrSkip drops the item once its stage has finished.
//   - Other errors are logged and ignored so the pipeline can continue.
//
// The output channel is closed when the input is exhausted or ctx is done.
func (p *Pipeline[T]) Process(ctx context.Context, in <-chan *T) <-chan *T {
	out := make(chan *T)
	go func() {
		defer close(out)
		for item := range in {
			if ctx.Err() != nil {
				return
			}
			if !p.apply(ctx, item) {
				continue
			}
			select {
			case out <- item:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}

// apply runs every stage on item and reports whether it should be kept.
func (p *Pipeline[T]) apply(ctx context.Context, item *T) bool {
	for _, stage := range p.stages {
		var (
			wg      sync.WaitGroup
			mu      sync.Mutex
			skipped bool
		)
		for _, step := range stage.steps {
			wg.Add(1)
			go func(step Step[T]) {
				defer wg.Done()
				err := step(ctx, item)
				switch {
				case err == nil:
				case errors.Is(err, ErrSkip):
					mu.Lock()
					skipped = true
					mu.Unlock()
				default:
					log.WithError(err).Warn("Step failed")
				}
			}(step)
		}
		wg.Wait() // stage barrier: ensure all steps finished before the next stage
		if skipped {
			return false
		}
	}
	return true
}
