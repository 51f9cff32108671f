// Package facts turns a matched landmark into a short fact, using an external
// text generator and a deterministic fallback.
package facts

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"placefacts/internal/models"
	coords "placefacts/models"
)

// Completion is a single request to a text-generation service.
type Completion struct {
	System      string
	Prompt      string
	MaxTokens   int
	Temperature float32
}

// TextGenerator calls an external text-generation service.
type TextGenerator interface {
	Complete(ctx context.Context, c Completion) (string, error)
}

// ErrEmptyResponse is reported when the service returns no usable text.
var ErrEmptyResponse = errors.New("empty generation response")

// Source tells whether a fact came from the generator or the fallback.
type Source string

const (
	SourceGenerated Source = "generated"
	SourceFallback  Source = "fallback"
)

// Fact is the outcome of Generate. Err holds the generation failure that led
// to a fallback, if any.
type Fact struct {
	Text   string
	Source Source
	Err    error
}

// Options tune generation. A nil Temperature takes the default; zero is a
// valid, deterministic setting.
type Options struct {
	MaxTokens   int
	Temperature *float32
	Timeout     time.Duration
}

func DefaultOptions() Options {
	return Options{MaxTokens: 150, Temperature: Temperature(0.7), Timeout: 8 * time.Second}
}

// Temperature returns t as an Options.Temperature value.
func Temperature(t float32) *float32 {
	return &t
}

type Generator struct {
	client TextGenerator
	opts   Options
	logger logrus.FieldLogger
}

// NewGenerator returns a Generator. Unset or out-of-range option fields take
// their defaults.
func NewGenerator(client TextGenerator, opts Options, logger logrus.FieldLogger) *Generator {
	def := DefaultOptions()
	if opts.MaxTokens <= 0 {
		opts.MaxTokens = def.MaxTokens
	}
	if opts.Temperature == nil || *opts.Temperature < 0 {
		opts.Temperature = def.Temperature
	}
	if opts.Timeout <= 0 {
		opts.Timeout = def.Timeout
	}
	return &Generator{client: client, opts: opts, logger: logger}
}

// Generate asks the text generator for a fact about lm. Any failure, including
// a timeout or an empty answer, is absorbed and answered with Fallback.
// The query point is never included in the prompt.
func (g *Generator) Generate(ctx context.Context, lm models.Landmark, _ coords.Coordinates) Fact {
	text, err := g.complete(ctx, lm)
	if err != nil {
		g.logger.WithError(err).WithField("place", lm.Name).Error("Fact generation failed, using fallback")
		return Fact{Text: Fallback(lm), Source: SourceFallback, Err: err}
	}

	g.logger.WithField("place", lm.Name).Debugf("Generated fact: %s", truncate(text, 100))
	return Fact{Text: text, Source: SourceGenerated}
}

func (g *Generator) complete(ctx context.Context, lm models.Landmark) (string, error) {
	if g.client == nil {
		return "", errors.New("no text generator configured")
	}

	ctx, cancel := context.WithTimeout(ctx, g.opts.Timeout)
	defer cancel()

	req := Completion{
		System:      SystemPrompt,
		Prompt:      BuildPrompt(lm),
		MaxTokens:   g.opts.MaxTokens,
		Temperature: *g.opts.Temperature,
	}

	type reply struct {
		text string
		err  error
	}
	done := make(chan reply, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- reply{err: fmt.Errorf("text generator panicked: %v", r)}
			}
		}()
		text, err := g.client.Complete(ctx, req)
		done <- reply{text: text, err: err}
	}()

	// The call is abandoned, not awaited, once the deadline passes.
	select {
	case r := <-done:
		if r.err != nil {
			return "", r.err
		}
		text := strings.TrimSpace(r.text)
		if text == "" {
			return "", ErrEmptyResponse
		}
		return text, nil
	case <-ctx.Done():
		return "", fmt.Errorf("generation aborted: %w", ctx.Err())
	}
}
