package llm

import (
	"context"
	"fmt"
	"time"

	"github.com/vcscsvcscs/doctorai/apps/backend/pkg/model"
	"go.uber.org/zap"
)

// Outcome is the result of a fallback run: either *Success or *Exhausted
type Outcome interface {
	outcome()
}

// Success holds the text of the first model that answered
type Success struct {
	Model string
	Text  string
}

// Exhausted lists every model that was tried or skipped, in order
type Exhausted struct {
	Failures []model.AttemptFailure
}

func (*Success) outcome()   {}
func (*Exhausted) outcome() {}

// Options bound a fallback run. Zero values disable the corresponding limit.
type Options struct {
	AttemptTimeout time.Duration
	Budget         time.Duration
	Logger         *zap.Logger
}

// AttemptUntilSuccess tries models in order against gen and stops at the first
// non-empty answer. Attempts never overlap. Every per-model failure moves on to
// the next model; once the budget or ctx is done the remaining models are
// recorded as failed without being called.
func AttemptUntilSuccess(ctx context.Context, gen Generator, models []string, prompt string, opts Options) Outcome {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	if opts.Budget > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Budget)
		defer cancel()
	}

	failures := make([]model.AttemptFailure, 0, len(models))
	for i, name := range models {
		if err := ctx.Err(); err != nil {
			for _, skipped := range models[i:] {
				failures = append(failures, model.AttemptFailure{
					Model:  skipped,
					Reason: fmt.Sprintf("not attempted: %v", err),
				})
			}
			logger.Error("fallback budget exhausted",
				zap.Error(err),
				zap.Int("skipped", len(models)-i),
			)
			break
		}

		logger.Info("trying model", zap.String("model", name))

		text, err := attempt(ctx, gen, name, prompt, opts.AttemptTimeout)
		if err == nil {
			logger.Info("successfully used model", zap.String("model", name))
			return &Success{Model: name, Text: text}
		}

		notFound := IsNotFound(err)
		if notFound {
			logger.Warn("model not available", zap.String("model", name), zap.Error(err))
		} else {
			logger.Error("failed to use model", zap.String("model", name), zap.Error(err))
		}
		failures = append(failures, model.AttemptFailure{
			Model:    name,
			Reason:   err.Error(),
			NotFound: notFound,
		})
	}

	return &Exhausted{Failures: failures}
}

func attempt(ctx context.Context, gen Generator, name, prompt string, timeout time.Duration) (string, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	// A generator that ignores ctx must not hold the request past its deadline.
	done := make(chan attemptResult, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- attemptResult{err: fmt.Errorf("generator panicked: %v", r)}
			}
		}()
		text, err := gen.Generate(ctx, name, prompt)
		done <- attemptResult{text: text, err: err}
	}()

	select {
	case res := <-done:
		if res.err != nil {
			return "", res.err
		}
		if res.text == "" {
			return "", ErrEmptyResponse
		}
		return res.text, nil
	case <-ctx.Done():
		return "", fmt.Errorf("attempt abandoned: %w", ctx.Err())
	}
}

type attemptResult struct {
	text string
	err  error
}

// Sequencer runs the configured fallback sequence
type Sequencer struct {
	models []string
	opts   Options
}

// NewSequencer creates a Sequencer over a fixed, ordered model list
func NewSequencer(models []string, attemptTimeout, budget time.Duration, logger *zap.Logger) *Sequencer {
	return &Sequencer{
		models: append([]string(nil), models...),
		opts: Options{
			AttemptTimeout: attemptTimeout,
			Budget:         budget,
			Logger:         logger,
		},
	}
}

// Models returns a copy of the fallback sequence
func (s *Sequencer) Models() []string {
	return append([]string(nil), s.models...)
}

// Run tries the sequence against gen
func (s *Sequencer) Run(ctx context.Context, gen Generator, prompt string) Outcome {
	return AttemptUntilSuccess(ctx, gen, s.models, prompt, s.opts)
}
