package zne

import (
	"context"
	"fmt"

	"github.com/theapemachine/errnie"
)

type zneOptions struct {
	factory     Factory
	scaleNoise  ScaleNoise
	concurrency int
}

// Option configures a single mitigation run.
type Option func(*zneOptions)

// WithFactory selects the extrapolation factory. The factory keeps its
// recorded samples after the run, so the caller can Reduce it again to
// inspect the fit.
func WithFactory(f Factory) Option {
	return func(o *zneOptions) {
		o.factory = f
	}
}

// WithScaleNoise selects the noise-scaling transform.
func WithScaleNoise(s ScaleNoise) Option {
	return func(o *zneOptions) {
		o.scaleNoise = s
	}
}

// WithConcurrency runs the scaled circuits through a bounded worker
// pool instead of sequentially. Ignored when the executor already
// batches for itself.
func WithConcurrency(workers int) Option {
	return func(o *zneOptions) {
		o.concurrency = workers
	}
}

/*
ExecuteWithZNE estimates the zero-noise expectation value of a circuit:
it builds one noise-scaled variant per scale factor in the factory's
schedule, measures each through the executor, and extrapolates the
samples back to scale zero.

Defaults are Richardson extrapolation over the standard schedule and
random local folding. Executor failures abort the run and surface
unchanged; no value is ever substituted for a failed measurement.
*/
func ExecuteWithZNE(ctx context.Context, c *Circuit, ex Executor, opts ...Option) (float64, error) {
	if c == nil {
		return 0, fmt.Errorf("execute with zne: nil circuit")
	}
	if ex == nil {
		return 0, fmt.Errorf("execute with zne: nil executor")
	}

	o := zneOptions{
		factory:    NewRichardsonFactory(nil),
		scaleNoise: FoldGatesAtRandom,
	}
	for _, opt := range opts {
		opt(&o)
	}

	scaleFactors := o.factory.ScaleFactors()
	for _, scale := range scaleFactors {
		if err := validateScale(scale); err != nil {
			return 0, fmt.Errorf("execute with zne: %w", err)
		}
	}

	scaled := make([]*Circuit, len(scaleFactors))
	for i, scale := range scaleFactors {
		variant, err := o.scaleNoise(c, scale)
		if err != nil {
			return 0, fmt.Errorf("execute with zne: %w", err)
		}
		scaled[i] = variant
	}

	errnie.Info(
		"zne - %d qubits, %d gates, schedule %v",
		c.NumQubits(),
		c.GateCount(),
		scaleFactors,
	)

	if o.concurrency > 1 {
		if _, ok := ex.(BatchExecutor); !ok {
			ex = NewBatchPool(ex, o.concurrency, nil)
		}
	}

	values, err := runScaled(ctx, ex, scaled)
	if err != nil {
		return 0, fmt.Errorf("execute with zne: %w", err)
	}

	o.factory.Reset()
	for i, v := range values {
		o.factory.Record(scaleFactors[i], v)
	}

	fit, err := o.factory.Reduce()
	if err != nil {
		return 0, fmt.Errorf("execute with zne: %w", err)
	}
	return fit.ZeroNoise, nil
}

// runScaled measures every scaled circuit, in one call when the
// executor batches, otherwise one at a time in schedule order.
func runScaled(ctx context.Context, ex Executor, scaled []*Circuit) ([]float64, error) {
	if be, ok := ex.(BatchExecutor); ok {
		values, err := be.RunBatch(ctx, scaled)
		if err != nil {
			return nil, err
		}
		if len(values) != len(scaled) {
			return nil, fmt.Errorf("batch executor returned %d values for %d circuits", len(values), len(scaled))
		}
		return values, nil
	}

	values := make([]float64, len(scaled))
	for i, variant := range scaled {
		v, err := ex.Run(ctx, variant)
		if err != nil {
			return nil, fmt.Errorf("scaled circuit %d: %w", i, err)
		}
		values[i] = v
	}
	return values, nil
}
