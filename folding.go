package zne

import (
	"fmt"
	"math"
	"math/rand/v2"
)

// ScaleNoise rewrites a circuit so that its effective noise grows by
// the given factor while the ideal unitary is unchanged.
type ScaleNoise func(c *Circuit, scale float64) (*Circuit, error)

func validateScale(scale float64) error {
	if math.IsNaN(scale) || scale < 1 {
		return fmt.Errorf("scale %v: %w", scale, ErrInvalidScaleFactor)
	}
	return nil
}

/*
FoldGlobal scales noise by folding the whole circuit: C becomes
C(C†C)ⁿ followed by a partial fold L†L of the last s gates, where n
and s are chosen so the folded gate count approximates scale times the
original. Since C†C and L†L are identities, the ideal unitary is
preserved; under a fixed per-gate noise model the accumulated error
grows with the scale factor.

The fractional part of the scale is rounded to a whole number of
partially folded gates, half away from zero, so the achieved gate
count matches the request within one fold (two gates).
*/
func FoldGlobal(c *Circuit, scale float64) (*Circuit, error) {
	if err := validateScale(scale); err != nil {
		return nil, fmt.Errorf("fold global: %w", err)
	}
	d := c.GateCount()
	if d == 0 {
		return c.Copy(), nil
	}

	n := int((scale - 1) / 2)
	remainder := scale - float64(2*n+1)
	s := int(math.Round(remainder * float64(d) / 2))
	if s > d {
		s = d
	}

	out := c.Copy()
	gates := c.Gates()
	inverse := c.Inverse().Gates()
	for i := 0; i < n; i++ {
		if err := out.Append(inverse...); err != nil {
			return nil, err
		}
		if err := out.Append(gates...); err != nil {
			return nil, err
		}
	}

	if s > 0 {
		tail := gates[d-s:]
		for i := len(tail) - 1; i >= 0; i-- {
			if err := out.Append(tail[i].Dagger()); err != nil {
				return nil, err
			}
		}
		if err := out.Append(tail...); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// FoldGatesFromLeft folds individual gates G → GG†G starting at the
// front of the circuit until the gate count reaches the scale target.
// Gates are folded multiple times when the scale exceeds 3.
func FoldGatesFromLeft(c *Circuit, scale float64) (*Circuit, error) {
	folds, err := foldsPerGate(c, scale, nil)
	if err != nil {
		return nil, fmt.Errorf("fold from left: %w", err)
	}
	return foldLocal(c, folds)
}

// FoldGatesAtRandom folds individual gates like FoldGatesFromLeft but
// picks which gates receive the extra fold uniformly at random.
func FoldGatesAtRandom(c *Circuit, scale float64) (*Circuit, error) {
	folds, err := foldsPerGate(c, scale, rand.Perm)
	if err != nil {
		return nil, fmt.Errorf("fold at random: %w", err)
	}
	return foldLocal(c, folds)
}

// FoldGatesAtRandomSeeded returns a random local folding transform
// driven by its own deterministic source, for reproducible runs.
func FoldGatesAtRandomSeeded(seed uint64) ScaleNoise {
	rng := rand.New(rand.NewPCG(seed, seed))
	return func(c *Circuit, scale float64) (*Circuit, error) {
		folds, err := foldsPerGate(c, scale, rng.Perm)
		if err != nil {
			return nil, fmt.Errorf("fold at random: %w", err)
		}
		return foldLocal(c, folds)
	}
}

// foldsPerGate distributes the extra folds implied by the scale factor
// over the circuit's gates: every gate gets the same base number of
// folds, and the remainder goes to the first gates in order, or to a
// random subset when perm is non-nil.
func foldsPerGate(c *Circuit, scale float64, perm func(int) []int) ([]int, error) {
	if err := validateScale(scale); err != nil {
		return nil, err
	}
	d := c.GateCount()
	if d == 0 {
		return nil, nil
	}

	// Each fold adds two gates, so the target of scale*d gates needs
	// about d*(scale-1)/2 folds in total.
	extra := int(math.Round(float64(d) * (scale - 1) / 2))
	base := extra / d
	remainder := extra % d

	folds := make([]int, d)
	for i := range folds {
		folds[i] = base
	}
	if remainder > 0 {
		if perm != nil {
			for _, i := range perm(d)[:remainder] {
				folds[i]++
			}
		} else {
			for i := 0; i < remainder; i++ {
				folds[i]++
			}
		}
	}
	return folds, nil
}

func foldLocal(c *Circuit, folds []int) (*Circuit, error) {
	out := NewCircuit(c.NumQubits())
	for i, g := range c.Gates() {
		if err := out.Append(g); err != nil {
			return nil, err
		}
		for k := 0; k < folds[i]; k++ {
			if err := out.Append(g.Dagger(), g); err != nil {
				return nil, err
			}
		}
	}
	return out, nil
}
