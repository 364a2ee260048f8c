package zne

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sync"
)

// Result is the outcome of running a circuit on a backend: measurement
// probabilities keyed by outcome bitstring. Shots is zero when the
// probabilities are exact rather than estimated.
type Result struct {
	Probabilities map[string]float64
	Shots         int
	NumQubits     int
}

/*
Backend runs circuits. The two shipped implementations are both
simulators; anything that can turn a circuit and a shot budget into a
probability table (a hardware device behind an SDK, a remote session)
plugs in the same way. Which backend to use is decided once, at
construction of the executor, never by a flag checked mid-pipeline.
*/
type Backend interface {
	Run(ctx context.Context, c *Circuit, shots int) (Result, error)
}

// StatevectorBackend computes exact noiseless measurement
// probabilities by dense statevector simulation.
type StatevectorBackend struct{}

func NewStatevectorBackend() *StatevectorBackend {
	return &StatevectorBackend{}
}

func (b *StatevectorBackend) Run(ctx context.Context, c *Circuit, shots int) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, fmt.Errorf("statevector backend: %w", err)
	}
	sv := NewStatevector(c.NumQubits())
	if err := sv.ApplyCircuit(c); err != nil {
		return Result{}, fmt.Errorf("statevector backend: %w", err)
	}
	return Result{
		Probabilities: probabilityMap(sv.Probabilities(), c.NumQubits()),
		NumQubits:     c.NumQubits(),
	}, nil
}

/*
SampledBackend emulates a device: finite shots drawn from the
measurement distribution, optionally degraded by a per-gate
depolarizing channel. A nil noise model gives an ideal but
shot-limited device; shots <= 0 skips sampling and returns the noisy
distribution exactly, which is useful for deterministic tests.
*/
type SampledBackend struct {
	noise *DepolarizingNoise

	mu  sync.Mutex
	rng *rand.Rand
}

func NewSampledBackend(noise *DepolarizingNoise, seed uint64) *SampledBackend {
	return &SampledBackend{
		noise: noise,
		rng:   rand.New(rand.NewPCG(seed, seed)),
	}
}

func (b *SampledBackend) Run(ctx context.Context, c *Circuit, shots int) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, fmt.Errorf("sampled backend: %w", err)
	}
	sv := NewStatevector(c.NumQubits())
	if err := sv.ApplyCircuit(c); err != nil {
		return Result{}, fmt.Errorf("sampled backend: %w", err)
	}

	probs := sv.Probabilities()
	if b.noise != nil {
		probs = b.noise.Mix(probs, c)
	}

	if shots <= 0 {
		return Result{
			Probabilities: probabilityMap(probs, c.NumQubits()),
			NumQubits:     c.NumQubits(),
		}, nil
	}

	counts := b.sample(probs, shots)
	est := make(map[string]float64, len(counts))
	for outcome, n := range counts {
		est[bitstring(outcome, c.NumQubits())] = float64(n) / float64(shots)
	}
	return Result{
		Probabilities: est,
		Shots:         shots,
		NumQubits:     c.NumQubits(),
	}, nil
}

func (b *SampledBackend) sample(probs []float64, shots int) map[int]int {
	b.mu.Lock()
	defer b.mu.Unlock()

	counts := make(map[int]int)
	for s := 0; s < shots; s++ {
		r := b.rng.Float64()
		cum := 0.0
		outcome := len(probs) - 1
		for i, p := range probs {
			cum += p
			if r <= cum {
				outcome = i
				break
			}
		}
		counts[outcome]++
	}
	return counts
}

func probabilityMap(probs []float64, numQubits int) map[string]float64 {
	const eps = 1e-12
	out := make(map[string]float64)
	for i, p := range probs {
		if p > eps {
			out[bitstring(i, numQubits)] = p
		}
	}
	return out
}
