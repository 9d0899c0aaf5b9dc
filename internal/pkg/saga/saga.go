// Package saga runs ordered steps with compensating actions.
//
// Steps execute strictly in order. When a step fails, the compensations of
// the steps that already completed run in reverse order, and the run stops.
// Steps without a compensation leave their effect in place; callers use
// that to model writes that are intentionally not rolled back.
package saga

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

// Step is a single action of a saga.
type Step struct {
	Name       string
	Action     func(ctx context.Context) error
	Compensate func(ctx context.Context) error
}

// Saga is an ordered list of steps.
type Saga struct {
	name   string
	steps  []Step
	logger *slog.Logger
}

// Result records how far a run got.
type Result struct {
	Completed   []string
	Compensated []string
}

// Error is returned when a step fails.
type Error struct {
	Saga               string
	Step               string
	Err                error
	CompensationErrors map[string]error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("saga %s failed at step %s: %v", e.Saga, e.Step, e.Err)
	if len(e.CompensationErrors) == 0 {
		return msg
	}
	parts := make([]string, 0, len(e.CompensationErrors))
	for step, err := range e.CompensationErrors {
		parts = append(parts, fmt.Sprintf("%s: %v", step, err))
	}
	return msg + " (compensation errors: " + strings.Join(parts, "; ") + ")"
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates an empty saga.
func New(name string, logger *slog.Logger) *Saga {
	if logger == nil {
		logger = slog.Default()
	}
	return &Saga{
		name:   name,
		logger: logger.With(slog.String("saga", name)),
	}
}

// Add appends a step and returns the saga for chaining.
func (s *Saga) Add(step Step) *Saga {
	s.steps = append(s.steps, step)
	return s
}

// Len returns the number of steps.
func (s *Saga) Len() int {
	return len(s.steps)
}

// Run executes the steps. Compensation runs on a context detached from
// cancellation so a cancelled request still cleans up.
func (s *Saga) Run(ctx context.Context) (*Result, error) {
	result := &Result{}
	done := make([]Step, 0, len(s.steps))

	for _, step := range s.steps {
		if err := ctx.Err(); err != nil {
			return result, s.fail(ctx, result, done, step.Name, err)
		}
		if err := step.Action(ctx); err != nil {
			return result, s.fail(ctx, result, done, step.Name, err)
		}
		done = append(done, step)
		result.Completed = append(result.Completed, step.Name)
	}

	return result, nil
}

func (s *Saga) fail(ctx context.Context, result *Result, done []Step, failed string, cause error) error {
	sagaErr := &Error{Saga: s.name, Step: failed, Err: cause}

	s.logger.WarnContext(ctx, "saga step failed, compensating",
		slog.String("step", failed),
		slog.Int("completed_steps", len(done)),
		slog.String("error", cause.Error()))

	compCtx := context.WithoutCancel(ctx)
	for i := len(done) - 1; i >= 0; i-- {
		step := done[i]
		if step.Compensate == nil {
			continue
		}
		if err := step.Compensate(compCtx); err != nil {
			if sagaErr.CompensationErrors == nil {
				sagaErr.CompensationErrors = make(map[string]error)
			}
			sagaErr.CompensationErrors[step.Name] = err
			s.logger.WarnContext(ctx, "compensation failed",
				slog.String("step", step.Name),
				slog.String("error", err.Error()))
			continue
		}
		result.Compensated = append(result.Compensated, step.Name)
	}

	return sagaErr
}

// FailedStep returns the failing step name if err came from a saga.
func FailedStep(err error) (string, bool) {
	var sagaErr *Error
	if errors.As(err, &sagaErr) {
		return sagaErr.Step, true
	}
	return "", false
}
