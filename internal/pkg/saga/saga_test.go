package saga

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recorder struct {
	calls []string
}

func (r *recorder) step(name string, fail error) Step {
	return Step{
		Name: name,
		Action: func(ctx context.Context) error {
			r.calls = append(r.calls, "do:"+name)
			return fail
		},
		Compensate: func(ctx context.Context) error {
			r.calls = append(r.calls, "undo:"+name)
			return nil
		},
	}
}

func TestRunner_Run(t *testing.T) {
	runner := NewRunner(zap.NewNop())
	boom := errors.New("boom")

	t.Run("All steps succeed", func(t *testing.T) {
		rec := &recorder{}
		err := runner.Run(context.Background(), "test", []Step{rec.step("a", nil), rec.step("b", nil)})

		require.NoError(t, err)
		assert.Equal(t, []string{"do:a", "do:b"}, rec.calls)
	})

	t.Run("Mandatory failure compensates completed steps in reverse", func(t *testing.T) {
		rec := &recorder{}
		err := runner.Run(context.Background(), "test", []Step{
			rec.step("a", nil),
			rec.step("b", nil),
			rec.step("c", boom),
			rec.step("d", nil),
		})

		var stepErr *StepError
		require.ErrorAs(t, err, &stepErr)
		assert.Equal(t, "c", stepErr.Step)
		assert.ErrorIs(t, err, boom)
		assert.Equal(t, []string{"do:a", "do:b", "do:c", "undo:b", "undo:a"}, rec.calls)
	})

	t.Run("Optional failure is absorbed", func(t *testing.T) {
		rec := &recorder{}
		var absorbed error
		optional := rec.step("enrich", boom)
		optional.Optional = true
		optional.OnFailure = func(ctx context.Context, err error) { absorbed = err }

		err := runner.Run(context.Background(), "test", []Step{rec.step("a", nil), optional, rec.step("b", nil)})

		require.NoError(t, err)
		assert.ErrorIs(t, absorbed, boom)
		assert.Equal(t, []string{"do:a", "do:enrich", "do:b"}, rec.calls)
	})

	t.Run("Failure after pivot is not compensated", func(t *testing.T) {
		rec := &recorder{}
		pivot := rec.step("commit", nil)
		pivot.Pivot = true
		reported := false
		after := rec.step("capture", boom)
		after.OnFailure = func(ctx context.Context, err error) { reported = true }

		err := runner.Run(context.Background(), "test", []Step{rec.step("lock", nil), pivot, after})

		require.NoError(t, err)
		assert.True(t, reported)
		assert.Equal(t, []string{"do:lock", "do:commit", "do:capture"}, rec.calls)
	})

	t.Run("Compensation runs after caller cancellation", func(t *testing.T) {
		rec := &recorder{}
		ctx, cancel := context.WithCancel(context.Background())
		var compensationCtxErr error

		first := Step{
			Name:   "lock",
			Action: func(ctx context.Context) error { return nil },
			Compensate: func(ctx context.Context) error {
				compensationCtxErr = ctx.Err()
				return nil
			},
		}
		second := Step{
			Name: "authorize",
			Action: func(ctx context.Context) error {
				cancel()
				return ctx.Err()
			},
		}

		err := runner.Run(ctx, "test", []Step{first, second})

		require.Error(t, err)
		assert.NoError(t, compensationCtxErr)
		assert.Empty(t, rec.calls)
	})

	t.Run("Compensation errors are collected", func(t *testing.T) {
		undoErr := errors.New("undo failed")
		first := Step{
			Name:       "lock",
			Action:     func(ctx context.Context) error { return nil },
			Compensate: func(ctx context.Context) error { return undoErr },
		}
		second := Step{
			Name:   "authorize",
			Action: func(ctx context.Context) error { return boom },
		}

		err := runner.Run(context.Background(), "test", []Step{first, second})

		var stepErr *StepError
		require.ErrorAs(t, err, &stepErr)
		require.Len(t, stepErr.CompensationErrors, 1)
		assert.ErrorIs(t, stepErr.CompensationErrors[0], undoErr)
	})
}
