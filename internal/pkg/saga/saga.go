// Package saga runs an ordered list of steps and undoes the completed ones in
// reverse order when a mandatory step fails.
//
// Steps come in three kinds:
//   - mandatory: failure stops the run and triggers compensation
//   - optional: failure is handed to OnFailure and the run continues
//   - pivot: a mandatory step after which the saga can no longer be undone;
//     every later step behaves as optional
package saga

import (
	"context"
	"fmt"
	"mediconnect-service/internal/pkg/constvars"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const defaultCompensationTimeout = 30 * time.Second

type Step struct {
	Name       string
	Action     func(ctx context.Context) error
	Compensate func(ctx context.Context) error
	Optional   bool
	Pivot      bool
	OnFailure  func(ctx context.Context, err error)
}

// StepError is returned when a mandatory step fails. Err is the step's own
// error; CompensationErrors collects failures while undoing earlier steps.
type StepError struct {
	Step               string
	Err                error
	CompensationErrors []error
}

func (e *StepError) Error() string {
	if len(e.CompensationErrors) == 0 {
		return fmt.Sprintf("saga step %s failed: %v", e.Step, e.Err)
	}
	return fmt.Sprintf("saga step %s failed: %v (%d compensation errors)", e.Step, e.Err, len(e.CompensationErrors))
}

func (e *StepError) Unwrap() error {
	return e.Err
}

type Runner struct {
	Log                 *zap.Logger
	Tracer              trace.Tracer
	CompensationTimeout time.Duration
}

func NewRunner(logger *zap.Logger) *Runner {
	return &Runner{
		Log:                 logger,
		Tracer:              otel.Tracer("mediconnect-service/saga"),
		CompensationTimeout: defaultCompensationTimeout,
	}
}

func (r *Runner) Run(ctx context.Context, name string, steps []Step) error {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)

	ctx, span := r.Tracer.Start(ctx, "saga."+name)
	defer span.End()

	completed := make([]Step, 0, len(steps))
	pivoted := false

	for _, step := range steps {
		err := r.runStep(ctx, name, step)
		if err == nil {
			if step.Pivot {
				pivoted = true
			}
			completed = append(completed, step)
			continue
		}

		if step.Optional || pivoted {
			r.Log.Warn("saga optional step failed",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.String(constvars.LoggingSagaStepKey, step.Name),
				zap.Bool("after_pivot", pivoted),
				zap.Error(err),
			)
			if step.OnFailure != nil {
				step.OnFailure(ctx, err)
			}
			continue
		}

		r.Log.Error("saga step failed, compensating",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingSagaStepKey, step.Name),
			zap.Error(err),
		)
		span.SetStatus(codes.Error, step.Name)
		stepErr := &StepError{Step: step.Name, Err: err}
		stepErr.CompensationErrors = r.compensate(ctx, requestID, completed)
		return stepErr
	}

	return nil
}

func (r *Runner) runStep(ctx context.Context, name string, step Step) error {
	stepCtx, span := r.Tracer.Start(ctx, "saga."+name+"."+step.Name,
		trace.WithAttributes(
			attribute.Bool("saga.step.optional", step.Optional),
			attribute.Bool("saga.step.pivot", step.Pivot),
		),
	)
	defer span.End()

	err := step.Action(stepCtx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}

// compensate undoes completed steps newest first. It detaches from the
// caller's cancellation so a timed-out request still cleans up.
func (r *Runner) compensate(ctx context.Context, requestID string, completed []Step) []error {
	compCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), r.CompensationTimeout)
	defer cancel()

	var errs []error
	for i := len(completed) - 1; i >= 0; i-- {
		step := completed[i]
		if step.Compensate == nil {
			continue
		}

		stepCtx, span := r.Tracer.Start(compCtx, "saga.compensate."+step.Name)
		err := step.Compensate(stepCtx)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			r.Log.Error("saga compensation failed",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.String(constvars.LoggingSagaStepKey, step.Name),
				zap.Error(err),
			)
			errs = append(errs, fmt.Errorf("compensate %s: %w", step.Name, err))
		} else {
			r.Log.Info("saga step compensated",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.String(constvars.LoggingSagaStepKey, step.Name),
			)
		}
		span.End()
	}
	return errs
}
