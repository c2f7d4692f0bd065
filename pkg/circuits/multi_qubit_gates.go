package circuits

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/aristath/entangle/pkg/calculator"
)

// checkQubitList rejects multi-qubit gates built with fewer than two
// qubits or repeated qubit indices.
func checkQubitList(gate string, qubits []int) error {
	if len(qubits) < 2 {
		return &DuplicateQubitsError{Gate: gate, Qubit: -1}
	}
	seen := make(map[int]struct{}, len(qubits))
	for _, q := range qubits {
		if _, dup := seen[q]; dup {
			return &DuplicateQubitsError{Gate: gate, Qubit: q}
		}
		seen[q] = struct{}{}
	}
	return nil
}

// MultiQubitMS is the Molmer-Sorensen interaction across an ordered list
// of qubits.
type MultiQubitMS struct {
	Qubits []int            `json:"qubits" msgpack:"qubits"`
	Theta  calculator.Value `json:"theta" msgpack:"theta"`
}

// NewMultiQubitMS builds a multi-qubit Molmer-Sorensen gate, rejecting
// repeated qubits.
func NewMultiQubitMS(qubits []int, theta calculator.Value) (*MultiQubitMS, error) {
	if err := checkQubitList("MultiQubitMS", qubits); err != nil {
		return nil, err
	}
	return &MultiQubitMS{Qubits: qubits, Theta: theta}, nil
}

func (op *MultiQubitMS) Kind() string { return "MultiQubitMS" }

func (op *MultiQubitMS) Tags() []string {
	return []string{"Operation", "GateOperation", "MultiQubitGateOperation", "MultiQubitMS"}
}

func (op *MultiQubitMS) IsParametrized() bool { return !op.Theta.IsConstant() }

func (op *MultiQubitMS) InvolvedQubits() InvolvedQubits { return QubitSet(op.Qubits...) }

func (op *MultiQubitMS) SubstituteParameters(cal *calculator.Calculator) (Operation, error) {
	theta, err := substituteValue(cal, op.Theta)
	if err != nil {
		return nil, err
	}
	return &MultiQubitMS{Qubits: op.Qubits, Theta: theta}, nil
}

func (op *MultiQubitMS) RemapQubits(mapping map[int]int) (Operation, error) {
	if err := checkMapping(mapping); err != nil {
		return nil, err
	}
	qubits := make([]int, len(op.Qubits))
	for i, q := range op.Qubits {
		qubits[i] = mapQubit(mapping, q)
	}
	return &MultiQubitMS{Qubits: qubits, Theta: op.Theta}, nil
}

func (op *MultiQubitMS) Angle() calculator.Value { return op.Theta }

func (op *MultiQubitMS) PowerCF(power calculator.Value) Rotation {
	return &MultiQubitMS{Qubits: op.Qubits, Theta: op.Theta.Mul(power)}
}

func (op *MultiQubitMS) UnitaryMatrix() (*mat.CDense, error) {
	theta, err := op.Theta.Float()
	if err != nil {
		return nil, err
	}
	dim := 1 << len(op.Qubits)
	cos := complex(math.Cos(theta/2), 0)
	sin := complex(0, -math.Sin(theta/2))
	m := mat.NewCDense(dim, dim, nil)
	for i := 0; i < dim; i++ {
		m.Set(i, i, cos)
		m.Set(i, dim-i-1, sin)
	}
	return m, nil
}

// EquivalentCircuit expresses the gate through Hadamards, a CNOT ladder
// and a single z rotation.
func (op *MultiQubitMS) EquivalentCircuit() *Circuit {
	dim := len(op.Qubits)
	circuit := NewCircuit()
	for _, q := range op.Qubits {
		circuit.Add(&Hadamard{Qubit: q})
	}
	for _, q := range op.Qubits[1:] {
		circuit.Add(&CNOT{Control: q - 1, Target: q})
	}
	circuit.Add(&RotateZ{Qubit: dim - 1, Theta: op.Theta.Mul(half)})
	for _, q := range op.Qubits[1:] {
		circuit.Add(&CNOT{Control: dim - q - 1, Target: dim - q})
	}
	for _, q := range op.Qubits {
		circuit.Add(&Hadamard{Qubit: q})
	}
	return circuit
}

// MultiCNOT flips the last qubit when all preceding qubits are in |1>.
type MultiCNOT struct {
	Qubits []int `json:"qubits" msgpack:"qubits"`
}

// NewMultiCNOT builds a multi-controlled CNOT, rejecting repeated qubits.
func NewMultiCNOT(qubits []int) (*MultiCNOT, error) {
	if err := checkQubitList("MultiCNOT", qubits); err != nil {
		return nil, err
	}
	return &MultiCNOT{Qubits: qubits}, nil
}

func (op *MultiCNOT) Kind() string { return "MultiCNOT" }

func (op *MultiCNOT) Tags() []string {
	return []string{"Operation", "GateOperation", "MultiQubitGateOperation", "MultiCNOT"}
}

func (op *MultiCNOT) IsParametrized() bool { return false }

func (op *MultiCNOT) InvolvedQubits() InvolvedQubits { return QubitSet(op.Qubits...) }

func (op *MultiCNOT) SubstituteParameters(*calculator.Calculator) (Operation, error) {
	return op, nil
}

func (op *MultiCNOT) RemapQubits(mapping map[int]int) (Operation, error) {
	if err := checkMapping(mapping); err != nil {
		return nil, err
	}
	qubits := make([]int, len(op.Qubits))
	for i, q := range op.Qubits {
		qubits[i] = mapQubit(mapping, q)
	}
	return &MultiCNOT{Qubits: qubits}, nil
}

func (op *MultiCNOT) UnitaryMatrix() (*mat.CDense, error) {
	dim := 1 << len(op.Qubits)
	m := mat.NewCDense(dim, dim, nil)
	for i := 0; i < dim-2; i++ {
		m.Set(i, i, 1)
	}
	m.Set(dim-2, dim-1, 1)
	m.Set(dim-1, dim-2, 1)
	return m, nil
}

// EquivalentCircuit expresses the gate through one- and two-qubit gates.
// Only defined for two or three qubits; larger gates return nil.
func (op *MultiCNOT) EquivalentCircuit() *Circuit {
	switch len(op.Qubits) {
	case 2:
		return newCircuitWith(&CNOT{Control: op.Qubits[0], Target: op.Qubits[1]})
	case 3:
		return newCircuitWith(
			&Hadamard{Qubit: op.Qubits[2]},
			&CNOT{Control: op.Qubits[1], Target: op.Qubits[2]},
			&PhaseShiftState1{Qubit: op.Qubits[2], Theta: quarterPi.Neg()},
			&CNOT{Control: op.Qubits[0], Target: op.Qubits[2]},
			&TGate{Qubit: op.Qubits[2]},
			&CNOT{Control: op.Qubits[1], Target: op.Qubits[2]},
			&PhaseShiftState1{Qubit: op.Qubits[2], Theta: quarterPi.Neg()},
			&CNOT{Control: op.Qubits[0], Target: op.Qubits[2]},
			&TGate{Qubit: op.Qubits[1]},
			&TGate{Qubit: op.Qubits[2]},
			&Hadamard{Qubit: op.Qubits[2]},
			&CNOT{Control: op.Qubits[0], Target: op.Qubits[1]},
			&TGate{Qubit: op.Qubits[0]},
			&PhaseShiftState1{Qubit: op.Qubits[1], Theta: quarterPi.Neg()},
			&CNOT{Control: op.Qubits[0], Target: op.Qubits[1]},
		)
	}
	return nil
}
