package saga_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ammerola/atelier-ops/internal/pkg/saga"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestSaga_Run(t *testing.T) {
	errBoom := errors.New("boom")

	tests := []struct {
		name            string
		failAt          string
		failCompensate  string
		wantCalls       []string
		wantCompleted   []string
		wantCompensated []string
		wantErrStep     string
	}{
		{
			name:          "all_steps_succeed",
			wantCalls:     []string{"a", "b", "c"},
			wantCompleted: []string{"a", "b", "c"},
		},
		{
			name:            "failure_compensates_in_reverse",
			failAt:          "c",
			wantCalls:       []string{"a", "b", "c", "undo-b", "undo-a"},
			wantCompleted:   []string{"a", "b"},
			wantCompensated: []string{"b", "a"},
			wantErrStep:     "c",
		},
		{
			name:        "first_step_failure_runs_nothing_else",
			failAt:      "a",
			wantCalls:   []string{"a"},
			wantErrStep: "a",
		},
		{
			name:            "compensation_failure_continues",
			failAt:          "c",
			failCompensate:  "b",
			wantCalls:       []string{"a", "b", "c", "undo-b", "undo-a"},
			wantCompleted:   []string{"a", "b"},
			wantCompensated: []string{"a"},
			wantErrStep:     "c",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls []string
			s := saga.New("test", quietLogger())
			for _, name := range []string{"a", "b", "c"} {
				name := name
				s.Add(saga.Step{
					Name: name,
					Action: func(ctx context.Context) error {
						calls = append(calls, name)
						if name == tt.failAt {
							return errBoom
						}
						return nil
					},
					Compensate: func(ctx context.Context) error {
						calls = append(calls, "undo-"+name)
						if name == tt.failCompensate {
							return errors.New("undo failed")
						}
						return nil
					},
				})
			}

			result, err := s.Run(context.Background())
			assert.Equal(t, tt.wantCalls, calls)
			assert.Equal(t, tt.wantCompleted, result.Completed)
			assert.Equal(t, tt.wantCompensated, result.Compensated)

			if tt.wantErrStep == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, errBoom)
			step, ok := saga.FailedStep(err)
			assert.True(t, ok)
			assert.Equal(t, tt.wantErrStep, step)

			var sagaErr *saga.Error
			require.ErrorAs(t, err, &sagaErr)
			if tt.failCompensate != "" {
				assert.Contains(t, sagaErr.CompensationErrors, tt.failCompensate)
			} else {
				assert.Empty(t, sagaErr.CompensationErrors)
			}
		})
	}
}

func TestSaga_StepsWithoutCompensationKeepEffect(t *testing.T) {
	written := map[string]bool{}
	s := saga.New("review", quietLogger())
	for _, name := range []string{"item-1", "item-2", "item-3"} {
		name := name
		s.Add(saga.Step{Name: name, Action: func(ctx context.Context) error {
			if name == "item-2" {
				return errors.New("update failed")
			}
			written[name] = true
			return nil
		}})
	}

	result, err := s.Run(context.Background())
	require.Error(t, err)
	assert.Equal(t, []string{"item-1"}, result.Completed)
	assert.Empty(t, result.Compensated)
	assert.True(t, written["item-1"])
	assert.False(t, written["item-3"])
}

func TestSaga_CancelledContextStopsBeforeNextStep(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var undone bool

	s := saga.New("cancel", quietLogger()).
		Add(saga.Step{
			Name:       "first",
			Action:     func(context.Context) error { cancel(); return nil },
			Compensate: func(ctx context.Context) error { undone = ctx.Err() == nil; return nil },
		}).
		Add(saga.Step{Name: "second", Action: func(context.Context) error { t.Fatal("must not run"); return nil }})

	_, err := s.Run(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.True(t, undone)
}
