package zne

import (
	"context"
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/stat"
)

/*
Executor turns a circuit into an expectation value. The pipeline treats
it as a black box: it may simulate, call out to a device, cache, or
post-process however it likes. Errors are returned as-is to the caller
of the pipeline; nothing downstream retries or substitutes a value.
*/
type Executor interface {
	Run(ctx context.Context, c *Circuit) (float64, error)
}

// ExecutorFunc adapts a plain function to the Executor interface.
type ExecutorFunc func(ctx context.Context, c *Circuit) (float64, error)

func (f ExecutorFunc) Run(ctx context.Context, c *Circuit) (float64, error) {
	return f(ctx, c)
}

// BatchExecutor is an optional capability: executors that can dispatch
// a whole batch at once (remote sessions, vectorized simulators)
// implement it and receive every scaled circuit in a single call.
// Results must be index-aligned with the input circuits.
type BatchExecutor interface {
	RunBatch(ctx context.Context, circuits []*Circuit) ([]float64, error)
}

// Observable reduces a backend result to a single expectation value.
type Observable func(Result) (float64, error)

// GroundStateProjector measures the probability of the all-zeros
// outcome, the survival probability of |0...0⟩.
func GroundStateProjector(r Result) (float64, error) {
	n := r.NumQubits
	if n == 0 {
		for outcome := range r.Probabilities {
			n = len(outcome)
			break
		}
	}
	return r.Probabilities[strings.Repeat("0", n)], nil
}

// ZParity measures ⟨Z⊗...⊗Z⟩: each outcome contributes its probability
// signed by the parity of its 1-bits.
func ZParity(r Result) (float64, error) {
	e := 0.0
	for outcome, p := range r.Probabilities {
		ones := strings.Count(outcome, "1")
		if ones+strings.Count(outcome, "0") != len(outcome) {
			return 0, fmt.Errorf("z parity: malformed outcome %q", outcome)
		}
		if ones%2 == 0 {
			e += p
		} else {
			e -= p
		}
	}
	return e, nil
}

type backendExecutor struct {
	backend    Backend
	observable Observable
	shots      int
}

// NewBackendExecutor builds an executor from a backend, an observable
// and a shot budget. The backend variant (exact simulator, noisy
// sampler, something hardware-backed) is fixed here, at construction.
func NewBackendExecutor(b Backend, obs Observable, shots int) Executor {
	return &backendExecutor{backend: b, observable: obs, shots: shots}
}

// NewBackendExecutorWithConfig is NewBackendExecutor with the shot
// budget taken from config. A nil config uses package defaults.
func NewBackendExecutorWithConfig(b Backend, obs Observable, config *Config) Executor {
	if config == nil {
		config = NewConfig()
	}
	return NewBackendExecutor(b, obs, config.Shots)
}

func (e *backendExecutor) Run(ctx context.Context, c *Circuit) (float64, error) {
	res, err := e.backend.Run(ctx, c, e.shots)
	if err != nil {
		return 0, err
	}
	return e.observable(res)
}

// EstimateWithError runs the executor repeatedly on the same circuit
// and returns the mean expectation value with its standard error.
// Useful for sizing the shot budget before a mitigation run.
func EstimateWithError(ctx context.Context, ex Executor, c *Circuit, repetitions int) (mean, stderr float64, err error) {
	if repetitions < 1 {
		repetitions = 1
	}
	values := make([]float64, 0, repetitions)
	for i := 0; i < repetitions; i++ {
		v, err := ex.Run(ctx, c)
		if err != nil {
			return 0, 0, fmt.Errorf("estimate repetition %d: %w", i, err)
		}
		values = append(values, v)
	}
	mean = stat.Mean(values, nil)
	if len(values) > 1 {
		stderr = stat.StdDev(values, nil) / math.Sqrt(float64(len(values)))
	}
	return mean, stderr, nil
}
