package zne

import "fmt"

/*
Circuit is an ordered sequence of gates over a fixed qubit register.

The mitigation pipeline never mutates a circuit it is handed: scaling
transforms return new instances, and accessors copy the gate slice.
That keeps a caller's circuit stable across an entire mitigation run
even when variants of it are being executed concurrently.
*/
type Circuit struct {
	numQubits int
	gates     []Gate
}

// NewCircuit creates an empty circuit over numQubits qubits.
func NewCircuit(numQubits int) *Circuit {
	if numQubits < 1 {
		numQubits = 1
	}
	return &Circuit{numQubits: numQubits}
}

// Build creates a circuit and appends gates in one step.
func Build(numQubits int, gates ...Gate) (*Circuit, error) {
	c := NewCircuit(numQubits)
	if err := c.Append(gates...); err != nil {
		return nil, err
	}
	return c, nil
}

// Append adds gates to the end of the circuit, validating targets.
func (c *Circuit) Append(gates ...Gate) error {
	for _, g := range gates {
		if err := checkTargets(g, c.numQubits); err != nil {
			return err
		}
	}
	c.gates = append(c.gates, gates...)
	return nil
}

// checkTargets rejects gates that reach outside the register or name
// the same qubit twice, which would collapse basis indices during
// simulation.
func checkTargets(g Gate, numQubits int) error {
	for i, q := range g.Qubits {
		if q < 0 || q >= numQubits {
			return fmt.Errorf("gate %s on qubit %d of %d: %w", g.Name, q, numQubits, ErrQubitRange)
		}
		for _, prev := range g.Qubits[:i] {
			if prev == q {
				return fmt.Errorf("gate %s targets qubit %d twice: %w", g.Name, q, ErrQubitRange)
			}
		}
	}
	return nil
}

func (c *Circuit) NumQubits() int {
	return c.numQubits
}

// Gates returns a copy of the gate sequence.
func (c *Circuit) Gates() []Gate {
	out := make([]Gate, len(c.gates))
	copy(out, c.gates)
	return out
}

func (c *Circuit) GateCount() int {
	return len(c.gates)
}

// Depth returns the number of layers when gates are packed greedily:
// a gate starts a new layer only when one of its qubits is already
// busy in the current layer.
func (c *Circuit) Depth() int {
	frontier := make([]int, c.numQubits)
	depth := 0
	for _, g := range c.gates {
		layer := 0
		for _, q := range g.Qubits {
			if frontier[q] > layer {
				layer = frontier[q]
			}
		}
		layer++
		for _, q := range g.Qubits {
			frontier[q] = layer
		}
		if layer > depth {
			depth = layer
		}
	}
	return depth
}

// Copy duplicates the gate slice; gate matrices are shared, gates are
// value types that are never mutated.
func (c *Circuit) Copy() *Circuit {
	return &Circuit{
		numQubits: c.numQubits,
		gates:     c.Gates(),
	}
}

// Inverse returns the circuit implementing the inverse unitary: every
// gate daggered, in reverse order.
func (c *Circuit) Inverse() *Circuit {
	inv := make([]Gate, len(c.gates))
	for i, g := range c.gates {
		inv[len(c.gates)-1-i] = g.Dagger()
	}
	return &Circuit{numQubits: c.numQubits, gates: inv}
}

// Compose appends other's gates after c's, returning a new circuit.
// Both circuits must share a register size.
func (c *Circuit) Compose(other *Circuit) (*Circuit, error) {
	if other.numQubits != c.numQubits {
		return nil, fmt.Errorf("compose: register size %d vs %d: %w", c.numQubits, other.numQubits, ErrQubitRange)
	}
	out := c.Copy()
	out.gates = append(out.gates, other.Gates()...)
	return out, nil
}
