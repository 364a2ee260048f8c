package zne

/*
DepolarizingNoise models a depolarizing channel applied after every
gate. The channel commutes with the circuit's unitaries, so its
accumulated effect factors out: the ideal distribution survives with
probability ∏(1-pᵢ) and is otherwise replaced by the fully mixed
state. That makes the model cheap to apply exactly, and makes the
expectation value decay geometrically with gate count, which is the
regime zero-noise extrapolation targets.
*/
type DepolarizingNoise struct {
	Prob           float64 // error probability per single-qubit gate
	TwoQubitFactor float64 // multiplier for two-qubit gates
}

func NewDepolarizingNoise(prob float64) *DepolarizingNoise {
	return &DepolarizingNoise{
		Prob:           prob,
		TwoQubitFactor: 2.0,
	}
}

// Survival returns the probability that no gate of the circuit
// depolarized the state.
func (d *DepolarizingNoise) Survival(c *Circuit) float64 {
	s := 1.0
	for _, g := range c.Gates() {
		p := d.Prob
		if g.Arity() == 2 {
			p *= d.TwoQubitFactor
		}
		if p > 1 {
			p = 1
		}
		if p < 0 {
			p = 0
		}
		s *= 1 - p
	}
	return s
}

// Mix blends the ideal measurement distribution with the uniform
// distribution according to the circuit's survival probability.
func (d *DepolarizingNoise) Mix(ideal []float64, c *Circuit) []float64 {
	s := d.Survival(c)
	uniform := 1.0 / float64(len(ideal))
	out := make([]float64, len(ideal))
	for i, p := range ideal {
		out[i] = s*p + (1-s)*uniform
	}
	return out
}
