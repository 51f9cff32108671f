// Package enrich runs items through ordered stages of steps. The dataset
// builder uses it to turn a Wikipedia page title into a landmark: coordinates
// first, then extract and categories side by side, then classification.
package enrich

import (
	"context"
	"errors"
)

// ErrSkip is returned by a step to drop the current item. The remaining
// stages are not run for it and it is not emitted.
var ErrSkip = errors.New("skip item")

// Step fills in part of an item in place. Steps of one stage share the item
// concurrently, so each must write only its own fields.
type Step[T any] func(ctx context.Context, item *T) error

// Stage is a set of steps that run together for one item. The next stage
// starts once all of them have returned.
type Stage[T any] struct {
	steps []Step[T]
}

func NewStage[T any](steps ...Step[T]) Stage[T] {
	return Stage[T]{steps: steps}
}
