package zne

import (
	"math"
	"math/cmplx"
)

/*
Gate is a single unitary operation on one or two qubits. The matrix is
stored explicitly (2x2 for single-qubit gates, 4x4 for two-qubit gates,
row-major over the computational basis) so that inverses and simulation
never need to special-case by name.

Two-qubit matrices are expressed in the |q0 q1⟩ basis where q0 is the
first entry of Qubits. For CNOT that means Qubits[0] is the control.
*/
type Gate struct {
	Name   string
	Qubits []int
	Matrix [][]complex128
	Theta  float64 // rotation angle; zero for non-parametric gates
}

// Arity returns the number of qubits the gate acts on.
func (g Gate) Arity() int {
	return len(g.Qubits)
}

// Dagger returns the inverse gate: conjugate transpose of the matrix,
// acting on the same qubits.
func (g Gate) Dagger() Gate {
	n := len(g.Matrix)
	m := make([][]complex128, n)
	for i := 0; i < n; i++ {
		m[i] = make([]complex128, n)
		for j := 0; j < n; j++ {
			m[i][j] = cmplx.Conj(g.Matrix[j][i])
		}
	}
	qubits := make([]int, len(g.Qubits))
	copy(qubits, g.Qubits)
	return Gate{
		Name:   g.Name + "†",
		Qubits: qubits,
		Matrix: m,
		Theta:  -g.Theta,
	}
}

// Equal reports whether two gates act on the same qubits with the same
// unitary, up to a small numerical tolerance on the matrix entries.
func (g Gate) Equal(other Gate) bool {
	if len(g.Qubits) != len(other.Qubits) || len(g.Matrix) != len(other.Matrix) {
		return false
	}
	for i, q := range g.Qubits {
		if other.Qubits[i] != q {
			return false
		}
	}
	const eps = 1e-12
	for i := range g.Matrix {
		for j := range g.Matrix[i] {
			if cmplx.Abs(g.Matrix[i][j]-other.Matrix[i][j]) > eps {
				return false
			}
		}
	}
	return true
}

// Single-qubit gates.

func X(q int) Gate {
	return Gate{Name: "X", Qubits: []int{q}, Matrix: [][]complex128{
		{0, 1},
		{1, 0},
	}}
}

func Y(q int) Gate {
	return Gate{Name: "Y", Qubits: []int{q}, Matrix: [][]complex128{
		{0, -1i},
		{1i, 0},
	}}
}

func Z(q int) Gate {
	return Gate{Name: "Z", Qubits: []int{q}, Matrix: [][]complex128{
		{1, 0},
		{0, -1},
	}}
}

func H(q int) Gate {
	// H = 1/√2 * [1  1]
	//            [1 -1]
	s := complex(1/math.Sqrt2, 0)
	return Gate{Name: "H", Qubits: []int{q}, Matrix: [][]complex128{
		{s, s},
		{s, -s},
	}}
}

func S(q int) Gate {
	return Gate{Name: "S", Qubits: []int{q}, Matrix: [][]complex128{
		{1, 0},
		{0, 1i},
	}}
}

func T(q int) Gate {
	return Gate{Name: "T", Qubits: []int{q}, Matrix: [][]complex128{
		{1, 0},
		{0, cmplx.Exp(1i * math.Pi / 4)},
	}}
}

func Rx(theta float64, q int) Gate {
	c := complex(math.Cos(theta/2), 0)
	s := complex(0, -math.Sin(theta/2))
	return Gate{Name: "Rx", Qubits: []int{q}, Theta: theta, Matrix: [][]complex128{
		{c, s},
		{s, c},
	}}
}

func Ry(theta float64, q int) Gate {
	c := complex(math.Cos(theta/2), 0)
	s := complex(math.Sin(theta/2), 0)
	return Gate{Name: "Ry", Qubits: []int{q}, Theta: theta, Matrix: [][]complex128{
		{c, -s},
		{s, c},
	}}
}

func Rz(theta float64, q int) Gate {
	return Gate{Name: "Rz", Qubits: []int{q}, Theta: theta, Matrix: [][]complex128{
		{cmplx.Exp(complex(0, -theta/2)), 0},
		{0, cmplx.Exp(complex(0, theta/2))},
	}}
}

// Two-qubit gates.

func CNOT(control, target int) Gate {
	return Gate{Name: "CNOT", Qubits: []int{control, target}, Matrix: [][]complex128{
		{1, 0, 0, 0},
		{0, 1, 0, 0},
		{0, 0, 0, 1},
		{0, 0, 1, 0},
	}}
}

func CZ(a, b int) Gate {
	return Gate{Name: "CZ", Qubits: []int{a, b}, Matrix: [][]complex128{
		{1, 0, 0, 0},
		{0, 1, 0, 0},
		{0, 0, 1, 0},
		{0, 0, 0, -1},
	}}
}

func SWAP(a, b int) Gate {
	return Gate{Name: "SWAP", Qubits: []int{a, b}, Matrix: [][]complex128{
		{1, 0, 0, 0},
		{0, 0, 1, 0},
		{0, 1, 0, 0},
		{0, 0, 0, 1},
	}}
}
