package circuits

import (
	"math/cmplx"

	"gonum.org/v1/gonum/mat"

	"github.com/aristath/entangle/pkg/calculator"
)

// checkThreeDistinctQubits rejects three-qubit gates built with repeated
// qubit indices.
func checkThreeDistinctQubits(gate string, control0, control1, target int) error {
	if control0 == control1 || control0 == target {
		return &DuplicateQubitsError{Gate: gate, Qubit: control0}
	}
	if control1 == target {
		return &DuplicateQubitsError{Gate: gate, Qubit: control1}
	}
	return nil
}

// ControlledControlledPauliZ applies PauliZ to the target when both
// controls are in |1>.
type ControlledControlledPauliZ struct {
	Control0 int `json:"control_0" msgpack:"control_0"`
	Control1 int `json:"control_1" msgpack:"control_1"`
	Target   int `json:"target" msgpack:"target"`
}

// NewControlledControlledPauliZ builds a double-controlled PauliZ,
// rejecting repeated qubits.
func NewControlledControlledPauliZ(control0, control1, target int) (*ControlledControlledPauliZ, error) {
	if err := checkThreeDistinctQubits("ControlledControlledPauliZ", control0, control1, target); err != nil {
		return nil, err
	}
	return &ControlledControlledPauliZ{Control0: control0, Control1: control1, Target: target}, nil
}

func (op *ControlledControlledPauliZ) Kind() string { return "ControlledControlledPauliZ" }

func (op *ControlledControlledPauliZ) Tags() []string {
	return []string{"Operation", "GateOperation", "ThreeQubitGateOperation", "ControlledControlledPauliZ"}
}

func (op *ControlledControlledPauliZ) IsParametrized() bool { return false }

func (op *ControlledControlledPauliZ) InvolvedQubits() InvolvedQubits {
	return QubitSet(op.Control0, op.Control1, op.Target)
}

func (op *ControlledControlledPauliZ) SubstituteParameters(*calculator.Calculator) (Operation, error) {
	return op, nil
}

func (op *ControlledControlledPauliZ) RemapQubits(mapping map[int]int) (Operation, error) {
	if err := checkMapping(mapping); err != nil {
		return nil, err
	}
	return &ControlledControlledPauliZ{
		Control0: mapQubit(mapping, op.Control0),
		Control1: mapQubit(mapping, op.Control1),
		Target:   mapQubit(mapping, op.Target),
	}, nil
}

func (op *ControlledControlledPauliZ) UnitaryMatrix() (*mat.CDense, error) {
	m := mat.NewCDense(8, 8, nil)
	for i := 0; i < 8; i++ {
		m.Set(i, i, 1)
	}
	m.Set(7, 7, -1)
	return m, nil
}

// EquivalentCircuit expresses the gate through controlled phase shifts and
// CNOTs.
func (op *ControlledControlledPauliZ) EquivalentCircuit() *Circuit {
	return newCircuitWith(
		&ControlledPhaseShift{Control: op.Control1, Target: op.Target, Theta: halfPi},
		&CNOT{Control: op.Control0, Target: op.Control1},
		&ControlledPhaseShift{Control: op.Control1, Target: op.Target, Theta: halfPi.Neg()},
		&CNOT{Control: op.Control0, Target: op.Control1},
		&ControlledPhaseShift{Control: op.Control0, Target: op.Target, Theta: halfPi},
	)
}

// ControlledControlledPhaseShift phases the |111> state by theta.
type ControlledControlledPhaseShift struct {
	Control0 int              `json:"control_0" msgpack:"control_0"`
	Control1 int              `json:"control_1" msgpack:"control_1"`
	Target   int              `json:"target" msgpack:"target"`
	Theta    calculator.Value `json:"theta" msgpack:"theta"`
}

// NewControlledControlledPhaseShift builds a double-controlled phase shift,
// rejecting repeated qubits.
func NewControlledControlledPhaseShift(control0, control1, target int, theta calculator.Value) (*ControlledControlledPhaseShift, error) {
	if err := checkThreeDistinctQubits("ControlledControlledPhaseShift", control0, control1, target); err != nil {
		return nil, err
	}
	return &ControlledControlledPhaseShift{Control0: control0, Control1: control1, Target: target, Theta: theta}, nil
}

func (op *ControlledControlledPhaseShift) Kind() string { return "ControlledControlledPhaseShift" }

func (op *ControlledControlledPhaseShift) Tags() []string {
	return []string{"Operation", "GateOperation", "ThreeQubitGateOperation", "Rotation", "ControlledControlledPhaseShift"}
}

func (op *ControlledControlledPhaseShift) IsParametrized() bool { return !op.Theta.IsConstant() }

func (op *ControlledControlledPhaseShift) InvolvedQubits() InvolvedQubits {
	return QubitSet(op.Control0, op.Control1, op.Target)
}

func (op *ControlledControlledPhaseShift) SubstituteParameters(cal *calculator.Calculator) (Operation, error) {
	out := *op
	if err := substituteValues(cal, &out.Theta); err != nil {
		return nil, err
	}
	return &out, nil
}

func (op *ControlledControlledPhaseShift) RemapQubits(mapping map[int]int) (Operation, error) {
	if err := checkMapping(mapping); err != nil {
		return nil, err
	}
	out := *op
	out.Control0 = mapQubit(mapping, op.Control0)
	out.Control1 = mapQubit(mapping, op.Control1)
	out.Target = mapQubit(mapping, op.Target)
	return &out, nil
}

func (op *ControlledControlledPhaseShift) Angle() calculator.Value { return op.Theta }

func (op *ControlledControlledPhaseShift) PowerCF(power calculator.Value) Rotation {
	out := *op
	out.Theta = op.Theta.Mul(power)
	return &out
}

func (op *ControlledControlledPhaseShift) UnitaryMatrix() (*mat.CDense, error) {
	theta, err := op.Theta.Float()
	if err != nil {
		return nil, err
	}
	m := mat.NewCDense(8, 8, nil)
	for i := 0; i < 8; i++ {
		m.Set(i, i, 1)
	}
	m.Set(7, 7, cmplx.Exp(complex(0, theta)))
	return m, nil
}

// EquivalentCircuit expresses the gate through controlled phase shifts and
// CNOTs.
func (op *ControlledControlledPhaseShift) EquivalentCircuit() *Circuit {
	return newCircuitWith(
		&ControlledPhaseShift{Control: op.Control1, Target: op.Target, Theta: op.Theta.Mul(half)},
		&CNOT{Control: op.Control0, Target: op.Control1},
		&ControlledPhaseShift{Control: op.Control1, Target: op.Target, Theta: op.Theta.Mul(half).Neg()},
		&CNOT{Control: op.Control0, Target: op.Control1},
		&ControlledPhaseShift{Control: op.Control0, Target: op.Target, Theta: op.Theta.Mul(half)},
	)
}
