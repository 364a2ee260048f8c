package zne

import (
	"fmt"
	"math/bits"
	"math/cmplx"
	"math/rand/v2"
	"strconv"
)

/*
Statevector holds the full amplitude vector of an n-qubit register.
Qubit 0 maps to the most significant bit of the basis index, so the
bitstring rendering of outcome i is the register read left to right.
*/
type Statevector struct {
	numQubits int
	amps      []complex128
}

// NewStatevector initializes the register in |0...0⟩.
func NewStatevector(numQubits int) *Statevector {
	amps := make([]complex128, 1<<numQubits)
	amps[0] = 1
	return &Statevector{numQubits: numQubits, amps: amps}
}

func (sv *Statevector) NumQubits() int {
	return sv.numQubits
}

// ApplyGate applies a single gate's unitary to the state in place.
func (sv *Statevector) ApplyGate(g Gate) error {
	if err := checkTargets(g, sv.numQubits); err != nil {
		return fmt.Errorf("apply: %w", err)
	}
	switch g.Arity() {
	case 1:
		sv.applySingle(g)
	case 2:
		sv.applyPair(g)
	default:
		return fmt.Errorf("apply %s: unsupported arity %d", g.Name, g.Arity())
	}
	return nil
}

// ApplyCircuit applies every gate of the circuit in order.
func (sv *Statevector) ApplyCircuit(c *Circuit) error {
	if c.NumQubits() != sv.numQubits {
		return fmt.Errorf("apply circuit: register size %d vs %d: %w", c.NumQubits(), sv.numQubits, ErrQubitRange)
	}
	for _, g := range c.Gates() {
		if err := sv.ApplyGate(g); err != nil {
			return err
		}
	}
	return nil
}

func (sv *Statevector) applySingle(g Gate) {
	bit := uint(sv.numQubits - 1 - g.Qubits[0])
	mask := 1 << bit
	m := g.Matrix
	for i := range sv.amps {
		if i&mask != 0 {
			continue
		}
		j := i | mask
		a0, a1 := sv.amps[i], sv.amps[j]
		sv.amps[i] = m[0][0]*a0 + m[0][1]*a1
		sv.amps[j] = m[1][0]*a0 + m[1][1]*a1
	}
}

func (sv *Statevector) applyPair(g Gate) {
	hi := uint(sv.numQubits - 1 - g.Qubits[0])
	lo := uint(sv.numQubits - 1 - g.Qubits[1])
	hiMask, loMask := 1<<hi, 1<<lo
	m := g.Matrix
	for i := range sv.amps {
		if i&hiMask != 0 || i&loMask != 0 {
			continue
		}
		// Basis order |q0 q1⟩: index bit hi is the matrix row's high bit.
		idx := [4]int{i, i | loMask, i | hiMask, i | hiMask | loMask}
		var in [4]complex128
		for k := 0; k < 4; k++ {
			in[k] = sv.amps[idx[k]]
		}
		for r := 0; r < 4; r++ {
			sv.amps[idx[r]] = m[r][0]*in[0] + m[r][1]*in[1] + m[r][2]*in[2] + m[r][3]*in[3]
		}
	}
}

// Probabilities returns the Born-rule probability of each basis state,
// normalized to guard against accumulated rounding drift.
func (sv *Statevector) Probabilities() []float64 {
	probs := make([]float64, len(sv.amps))
	total := 0.0
	for i, amp := range sv.amps {
		p := cmplx.Abs(amp)
		p *= p
		probs[i] = p
		total += p
	}
	if total > 0 {
		for i := range probs {
			probs[i] /= total
		}
	}
	return probs
}

// GroundStateProbability returns the probability of measuring |0...0⟩.
func (sv *Statevector) GroundStateProbability() float64 {
	return sv.Probabilities()[0]
}

// ExpectationZ returns ⟨Z⊗...⊗Z⟩: basis-state parity weighted by
// probability.
func (sv *Statevector) ExpectationZ() float64 {
	e := 0.0
	for i, p := range sv.Probabilities() {
		if bits.OnesCount(uint(i))%2 == 0 {
			e += p
		} else {
			e -= p
		}
	}
	return e
}

// Sample draws n outcomes from the measurement distribution, keyed by
// bitstring.
func (sv *Statevector) Sample(n int, rng *rand.Rand) map[string]int {
	probs := sv.Probabilities()
	counts := make(map[string]int)
	for s := 0; s < n; s++ {
		r := rng.Float64()
		cum := 0.0
		outcome := len(probs) - 1
		for i, p := range probs {
			cum += p
			if r <= cum {
				outcome = i
				break
			}
		}
		counts[bitstring(outcome, sv.numQubits)]++
	}
	return counts
}

func bitstring(i, numQubits int) string {
	s := strconv.FormatInt(int64(i), 2)
	for len(s) < numQubits {
		s = "0" + s
	}
	return s
}
