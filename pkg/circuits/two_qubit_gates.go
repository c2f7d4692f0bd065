package circuits

import (
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/mat"

	"github.com/aristath/entangle/pkg/calculator"
)

// checkDistinctQubits rejects two-qubit gates built with control == target.
func checkDistinctQubits(gate string, control, target int) error {
	if control == target {
		return &DuplicateQubitsError{Gate: gate, Qubit: control}
	}
	return nil
}

// CNOT flips the target qubit when the control qubit is in |1>.
type CNOT struct {
	Control int `json:"control" msgpack:"control"`
	Target  int `json:"target" msgpack:"target"`
}

// NewCNOT builds a CNOT gate, rejecting equal control and target.
func NewCNOT(control, target int) (*CNOT, error) {
	if err := checkDistinctQubits("CNOT", control, target); err != nil {
		return nil, err
	}
	return &CNOT{Control: control, Target: target}, nil
}

func (op *CNOT) Kind() string { return "CNOT" }

func (op *CNOT) Tags() []string {
	return []string{"Operation", "GateOperation", "TwoQubitGateOperation", "CNOT"}
}

func (op *CNOT) IsParametrized() bool { return false }

func (op *CNOT) InvolvedQubits() InvolvedQubits { return QubitSet(op.Control, op.Target) }

func (op *CNOT) SubstituteParameters(*calculator.Calculator) (Operation, error) {
	return op, nil
}

func (op *CNOT) RemapQubits(mapping map[int]int) (Operation, error) {
	if err := checkMapping(mapping); err != nil {
		return nil, err
	}
	return &CNOT{Control: mapQubit(mapping, op.Control), Target: mapQubit(mapping, op.Target)}, nil
}

func (op *CNOT) ControlQubit() int { return op.Control }
func (op *CNOT) TargetQubit() int  { return op.Target }

func (op *CNOT) UnitaryMatrix() (*mat.CDense, error) {
	return mat.NewCDense(4, 4, []complex128{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 0, 1,
		0, 0, 1, 0,
	}), nil
}

func (op *CNOT) KakDecomposition() KakDecomposition {
	return KakDecomposition{
		GlobalPhase: quarterPi,
		KVector:     [3]calculator.Value{quarterPi, zero, zero},
		CircuitBefore: newCircuitWith(
			&RotateZ{Qubit: op.Control, Theta: halfPi},
			&RotateY{Qubit: op.Control, Theta: halfPi},
			&RotateX{Qubit: op.Target, Theta: halfPi},
		),
		CircuitAfter: newCircuitWith(
			&RotateY{Qubit: op.Control, Theta: halfPi.Neg()},
		),
	}
}

// SWAP exchanges the states of two qubits.
type SWAP struct {
	Control int `json:"control" msgpack:"control"`
	Target  int `json:"target" msgpack:"target"`
}

// NewSWAP builds a SWAP gate, rejecting equal control and target.
func NewSWAP(control, target int) (*SWAP, error) {
	if err := checkDistinctQubits("SWAP", control, target); err != nil {
		return nil, err
	}
	return &SWAP{Control: control, Target: target}, nil
}

func (op *SWAP) Kind() string { return "SWAP" }

func (op *SWAP) Tags() []string {
	return []string{"Operation", "GateOperation", "TwoQubitGateOperation", "SWAP"}
}

func (op *SWAP) IsParametrized() bool { return false }

func (op *SWAP) InvolvedQubits() InvolvedQubits { return QubitSet(op.Control, op.Target) }

func (op *SWAP) SubstituteParameters(*calculator.Calculator) (Operation, error) {
	return op, nil
}

func (op *SWAP) RemapQubits(mapping map[int]int) (Operation, error) {
	if err := checkMapping(mapping); err != nil {
		return nil, err
	}
	return &SWAP{Control: mapQubit(mapping, op.Control), Target: mapQubit(mapping, op.Target)}, nil
}

func (op *SWAP) ControlQubit() int { return op.Control }
func (op *SWAP) TargetQubit() int  { return op.Target }

func (op *SWAP) UnitaryMatrix() (*mat.CDense, error) {
	return mat.NewCDense(4, 4, []complex128{
		1, 0, 0, 0,
		0, 0, 1, 0,
		0, 1, 0, 0,
		0, 0, 0, 1,
	}), nil
}

func (op *SWAP) KakDecomposition() KakDecomposition {
	return KakDecomposition{
		GlobalPhase: quarterPi.Neg(),
		KVector:     [3]calculator.Value{quarterPi, quarterPi, quarterPi},
	}
}

// ISwap exchanges two qubit states and phases |01> and |10> by i.
type ISwap struct {
	Control int `json:"control" msgpack:"control"`
	Target  int `json:"target" msgpack:"target"`
}

// NewISwap builds an ISwap gate, rejecting equal control and target.
func NewISwap(control, target int) (*ISwap, error) {
	if err := checkDistinctQubits("ISwap", control, target); err != nil {
		return nil, err
	}
	return &ISwap{Control: control, Target: target}, nil
}

func (op *ISwap) Kind() string { return "ISwap" }

func (op *ISwap) Tags() []string {
	return []string{"Operation", "GateOperation", "TwoQubitGateOperation", "ISwap"}
}

func (op *ISwap) IsParametrized() bool { return false }

func (op *ISwap) InvolvedQubits() InvolvedQubits { return QubitSet(op.Control, op.Target) }

func (op *ISwap) SubstituteParameters(*calculator.Calculator) (Operation, error) {
	return op, nil
}

func (op *ISwap) RemapQubits(mapping map[int]int) (Operation, error) {
	if err := checkMapping(mapping); err != nil {
		return nil, err
	}
	return &ISwap{Control: mapQubit(mapping, op.Control), Target: mapQubit(mapping, op.Target)}, nil
}

func (op *ISwap) ControlQubit() int { return op.Control }
func (op *ISwap) TargetQubit() int  { return op.Target }

func (op *ISwap) UnitaryMatrix() (*mat.CDense, error) {
	return mat.NewCDense(4, 4, []complex128{
		1, 0, 0, 0,
		0, 0, 1i, 0,
		0, 1i, 0, 0,
		0, 0, 0, 1,
	}), nil
}

func (op *ISwap) KakDecomposition() KakDecomposition {
	return KakDecomposition{
		GlobalPhase: zero,
		KVector:     [3]calculator.Value{quarterPi, quarterPi, zero},
	}
}

// FSwap is the fermionic SWAP: a SWAP with a -1 sign on |11>.
type FSwap struct {
	Control int `json:"control" msgpack:"control"`
	Target  int `json:"target" msgpack:"target"`
}

// NewFSwap builds an FSwap gate, rejecting equal control and target.
func NewFSwap(control, target int) (*FSwap, error) {
	if err := checkDistinctQubits("FSwap", control, target); err != nil {
		return nil, err
	}
	return &FSwap{Control: control, Target: target}, nil
}

func (op *FSwap) Kind() string { return "FSwap" }

func (op *FSwap) Tags() []string {
	return []string{"Operation", "GateOperation", "TwoQubitGateOperation", "FSwap"}
}

func (op *FSwap) IsParametrized() bool { return false }

func (op *FSwap) InvolvedQubits() InvolvedQubits { return QubitSet(op.Control, op.Target) }

func (op *FSwap) SubstituteParameters(*calculator.Calculator) (Operation, error) {
	return op, nil
}

func (op *FSwap) RemapQubits(mapping map[int]int) (Operation, error) {
	if err := checkMapping(mapping); err != nil {
		return nil, err
	}
	return &FSwap{Control: mapQubit(mapping, op.Control), Target: mapQubit(mapping, op.Target)}, nil
}

func (op *FSwap) ControlQubit() int { return op.Control }
func (op *FSwap) TargetQubit() int  { return op.Target }

func (op *FSwap) UnitaryMatrix() (*mat.CDense, error) {
	return mat.NewCDense(4, 4, []complex128{
		1, 0, 0, 0,
		0, 0, 1, 0,
		0, 1, 0, 0,
		0, 0, 0, -1,
	}), nil
}

func (op *FSwap) KakDecomposition() KakDecomposition {
	return KakDecomposition{
		GlobalPhase: halfPi.Neg(),
		KVector:     [3]calculator.Value{quarterPi, quarterPi, zero},
		CircuitBefore: newCircuitWith(
			&RotateZ{Qubit: op.Control, Theta: halfPi.Neg()},
			&RotateZ{Qubit: op.Target, Theta: halfPi.Neg()},
		),
	}
}

// SqrtISwap is the square root of ISwap.
type SqrtISwap struct {
	Control int `json:"control" msgpack:"control"`
	Target  int `json:"target" msgpack:"target"`
}

// NewSqrtISwap builds a SqrtISwap gate, rejecting equal control and target.
func NewSqrtISwap(control, target int) (*SqrtISwap, error) {
	if err := checkDistinctQubits("SqrtISwap", control, target); err != nil {
		return nil, err
	}
	return &SqrtISwap{Control: control, Target: target}, nil
}

func (op *SqrtISwap) Kind() string { return "SqrtISwap" }

func (op *SqrtISwap) Tags() []string {
	return []string{"Operation", "GateOperation", "TwoQubitGateOperation", "SqrtISwap"}
}

func (op *SqrtISwap) IsParametrized() bool { return false }

func (op *SqrtISwap) InvolvedQubits() InvolvedQubits { return QubitSet(op.Control, op.Target) }

func (op *SqrtISwap) SubstituteParameters(*calculator.Calculator) (Operation, error) {
	return op, nil
}

func (op *SqrtISwap) RemapQubits(mapping map[int]int) (Operation, error) {
	if err := checkMapping(mapping); err != nil {
		return nil, err
	}
	return &SqrtISwap{Control: mapQubit(mapping, op.Control), Target: mapQubit(mapping, op.Target)}, nil
}

func (op *SqrtISwap) ControlQubit() int { return op.Control }
func (op *SqrtISwap) TargetQubit() int  { return op.Target }

func (op *SqrtISwap) UnitaryMatrix() (*mat.CDense, error) {
	f := complex(1/math.Sqrt2, 0)
	return mat.NewCDense(4, 4, []complex128{
		1, 0, 0, 0,
		0, f, f * 1i, 0,
		0, f * 1i, f, 0,
		0, 0, 0, 1,
	}), nil
}

func (op *SqrtISwap) KakDecomposition() KakDecomposition {
	eighth := calculator.Float(math.Pi / 8)
	return KakDecomposition{
		GlobalPhase: zero,
		KVector:     [3]calculator.Value{eighth, eighth, zero},
	}
}

// InvSqrtISwap is the inverse of SqrtISwap.
type InvSqrtISwap struct {
	Control int `json:"control" msgpack:"control"`
	Target  int `json:"target" msgpack:"target"`
}

// NewInvSqrtISwap builds an InvSqrtISwap gate, rejecting equal control and
// target.
func NewInvSqrtISwap(control, target int) (*InvSqrtISwap, error) {
	if err := checkDistinctQubits("InvSqrtISwap", control, target); err != nil {
		return nil, err
	}
	return &InvSqrtISwap{Control: control, Target: target}, nil
}

func (op *InvSqrtISwap) Kind() string { return "InvSqrtISwap" }

func (op *InvSqrtISwap) Tags() []string {
	return []string{"Operation", "GateOperation", "TwoQubitGateOperation", "InvSqrtISwap"}
}

func (op *InvSqrtISwap) IsParametrized() bool { return false }

func (op *InvSqrtISwap) InvolvedQubits() InvolvedQubits { return QubitSet(op.Control, op.Target) }

func (op *InvSqrtISwap) SubstituteParameters(*calculator.Calculator) (Operation, error) {
	return op, nil
}

func (op *InvSqrtISwap) RemapQubits(mapping map[int]int) (Operation, error) {
	if err := checkMapping(mapping); err != nil {
		return nil, err
	}
	return &InvSqrtISwap{Control: mapQubit(mapping, op.Control), Target: mapQubit(mapping, op.Target)}, nil
}

func (op *InvSqrtISwap) ControlQubit() int { return op.Control }
func (op *InvSqrtISwap) TargetQubit() int  { return op.Target }

func (op *InvSqrtISwap) UnitaryMatrix() (*mat.CDense, error) {
	f := complex(1/math.Sqrt2, 0)
	return mat.NewCDense(4, 4, []complex128{
		1, 0, 0, 0,
		0, f, f * -1i, 0,
		0, f * -1i, f, 0,
		0, 0, 0, 1,
	}), nil
}

func (op *InvSqrtISwap) KakDecomposition() KakDecomposition {
	eighth := calculator.Float(-math.Pi / 8)
	return KakDecomposition{
		GlobalPhase: zero,
		KVector:     [3]calculator.Value{eighth, eighth, zero},
	}
}

// XY applies exp(i theta/2 (XX + YY)) to control and target.
type XY struct {
	Control int              `json:"control" msgpack:"control"`
	Target  int              `json:"target" msgpack:"target"`
	Theta   calculator.Value `json:"theta" msgpack:"theta"`
}

// NewXY builds an XY gate, rejecting equal control and target.
func NewXY(control, target int, theta calculator.Value) (*XY, error) {
	if err := checkDistinctQubits("XY", control, target); err != nil {
		return nil, err
	}
	return &XY{Control: control, Target: target, Theta: theta}, nil
}

func (op *XY) Kind() string { return "XY" }

func (op *XY) Tags() []string {
	return []string{"Operation", "GateOperation", "TwoQubitGateOperation", "Rotation", "XY"}
}

func (op *XY) IsParametrized() bool { return !op.Theta.IsConstant() }

func (op *XY) InvolvedQubits() InvolvedQubits { return QubitSet(op.Control, op.Target) }

func (op *XY) SubstituteParameters(cal *calculator.Calculator) (Operation, error) {
	out := *op
	if err := substituteValues(cal, &out.Theta); err != nil {
		return nil, err
	}
	return &out, nil
}

func (op *XY) RemapQubits(mapping map[int]int) (Operation, error) {
	if err := checkMapping(mapping); err != nil {
		return nil, err
	}
	return &XY{Control: mapQubit(mapping, op.Control), Target: mapQubit(mapping, op.Target), Theta: op.Theta}, nil
}

func (op *XY) ControlQubit() int { return op.Control }
func (op *XY) TargetQubit() int  { return op.Target }

func (op *XY) Angle() calculator.Value { return op.Theta }

func (op *XY) PowerCF(power calculator.Value) Rotation {
	return &XY{Control: op.Control, Target: op.Target, Theta: op.Theta.Mul(power)}
}

func (op *XY) UnitaryMatrix() (*mat.CDense, error) {
	theta, err := op.Theta.Float()
	if err != nil {
		return nil, err
	}
	c := complex(math.Cos(theta/2), 0)
	s := complex(0, math.Sin(theta/2))
	return mat.NewCDense(4, 4, []complex128{
		1, 0, 0, 0,
		0, c, s, 0,
		0, s, c, 0,
		0, 0, 0, 1,
	}), nil
}

func (op *XY) KakDecomposition() KakDecomposition {
	quarter := op.Theta.Div(calculator.Float(4))
	return KakDecomposition{
		GlobalPhase: zero,
		KVector:     [3]calculator.Value{quarter, quarter, zero},
	}
}

// ControlledPhaseShift phases the |11> state by theta.
type ControlledPhaseShift struct {
	Control int              `json:"control" msgpack:"control"`
	Target  int              `json:"target" msgpack:"target"`
	Theta   calculator.Value `json:"theta" msgpack:"theta"`
}

// NewControlledPhaseShift builds a controlled phase shift, rejecting equal
// control and target.
func NewControlledPhaseShift(control, target int, theta calculator.Value) (*ControlledPhaseShift, error) {
	if err := checkDistinctQubits("ControlledPhaseShift", control, target); err != nil {
		return nil, err
	}
	return &ControlledPhaseShift{Control: control, Target: target, Theta: theta}, nil
}

func (op *ControlledPhaseShift) Kind() string { return "ControlledPhaseShift" }

func (op *ControlledPhaseShift) Tags() []string {
	return []string{"Operation", "GateOperation", "TwoQubitGateOperation", "Rotation", "ControlledPhaseShift"}
}

func (op *ControlledPhaseShift) IsParametrized() bool { return !op.Theta.IsConstant() }

func (op *ControlledPhaseShift) InvolvedQubits() InvolvedQubits {
	return QubitSet(op.Control, op.Target)
}

func (op *ControlledPhaseShift) SubstituteParameters(cal *calculator.Calculator) (Operation, error) {
	out := *op
	if err := substituteValues(cal, &out.Theta); err != nil {
		return nil, err
	}
	return &out, nil
}

func (op *ControlledPhaseShift) RemapQubits(mapping map[int]int) (Operation, error) {
	if err := checkMapping(mapping); err != nil {
		return nil, err
	}
	out := *op
	out.Control = mapQubit(mapping, op.Control)
	out.Target = mapQubit(mapping, op.Target)
	return &out, nil
}

func (op *ControlledPhaseShift) ControlQubit() int { return op.Control }
func (op *ControlledPhaseShift) TargetQubit() int  { return op.Target }

func (op *ControlledPhaseShift) Angle() calculator.Value { return op.Theta }

func (op *ControlledPhaseShift) PowerCF(power calculator.Value) Rotation {
	return &ControlledPhaseShift{Control: op.Control, Target: op.Target, Theta: op.Theta.Mul(power)}
}

func (op *ControlledPhaseShift) UnitaryMatrix() (*mat.CDense, error) {
	theta, err := op.Theta.Float()
	if err != nil {
		return nil, err
	}
	return mat.NewCDense(4, 4, []complex128{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, cmplx.Exp(complex(0, theta)),
	}), nil
}

func (op *ControlledPhaseShift) KakDecomposition() KakDecomposition {
	return KakDecomposition{
		GlobalPhase: op.Theta.Div(calculator.Float(4)),
		KVector:     [3]calculator.Value{zero, zero, op.Theta.Div(calculator.Float(4))},
		CircuitBefore: newCircuitWith(
			&RotateZ{Qubit: op.Control, Theta: op.Theta.Mul(half)},
			&RotateZ{Qubit: op.Target, Theta: op.Theta.Mul(half)},
		),
	}
}

// ControlledPauliY applies PauliY to the target when the control is |1>.
type ControlledPauliY struct {
	Control int `json:"control" msgpack:"control"`
	Target  int `json:"target" msgpack:"target"`
}

// NewControlledPauliY builds a controlled PauliY, rejecting equal control
// and target.
func NewControlledPauliY(control, target int) (*ControlledPauliY, error) {
	if err := checkDistinctQubits("ControlledPauliY", control, target); err != nil {
		return nil, err
	}
	return &ControlledPauliY{Control: control, Target: target}, nil
}

func (op *ControlledPauliY) Kind() string { return "ControlledPauliY" }

func (op *ControlledPauliY) Tags() []string {
	return []string{"Operation", "GateOperation", "TwoQubitGateOperation", "ControlledPauliY"}
}

func (op *ControlledPauliY) IsParametrized() bool { return false }

func (op *ControlledPauliY) InvolvedQubits() InvolvedQubits { return QubitSet(op.Control, op.Target) }

func (op *ControlledPauliY) SubstituteParameters(*calculator.Calculator) (Operation, error) {
	return op, nil
}

func (op *ControlledPauliY) RemapQubits(mapping map[int]int) (Operation, error) {
	if err := checkMapping(mapping); err != nil {
		return nil, err
	}
	return &ControlledPauliY{Control: mapQubit(mapping, op.Control), Target: mapQubit(mapping, op.Target)}, nil
}

func (op *ControlledPauliY) ControlQubit() int { return op.Control }
func (op *ControlledPauliY) TargetQubit() int  { return op.Target }

func (op *ControlledPauliY) UnitaryMatrix() (*mat.CDense, error) {
	return mat.NewCDense(4, 4, []complex128{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 0, -1i,
		0, 0, 1i, 0,
	}), nil
}

func (op *ControlledPauliY) KakDecomposition() KakDecomposition {
	return KakDecomposition{
		GlobalPhase: quarterPi,
		KVector:     [3]calculator.Value{zero, zero, quarterPi},
		CircuitBefore: newCircuitWith(
			&RotateZ{Qubit: op.Control, Theta: halfPi},
			&RotateY{Qubit: op.Target, Theta: halfPi},
			&RotateX{Qubit: op.Target, Theta: halfPi},
		),
		CircuitAfter: newCircuitWith(
			&RotateX{Qubit: op.Target, Theta: halfPi.Neg()},
		),
	}
}

// ControlledPauliZ applies PauliZ to the target when the control is |1>.
type ControlledPauliZ struct {
	Control int `json:"control" msgpack:"control"`
	Target  int `json:"target" msgpack:"target"`
}

// NewControlledPauliZ builds a controlled PauliZ, rejecting equal control
// and target.
func NewControlledPauliZ(control, target int) (*ControlledPauliZ, error) {
	if err := checkDistinctQubits("ControlledPauliZ", control, target); err != nil {
		return nil, err
	}
	return &ControlledPauliZ{Control: control, Target: target}, nil
}

func (op *ControlledPauliZ) Kind() string { return "ControlledPauliZ" }

func (op *ControlledPauliZ) Tags() []string {
	return []string{"Operation", "GateOperation", "TwoQubitGateOperation", "ControlledPauliZ"}
}

func (op *ControlledPauliZ) IsParametrized() bool { return false }

func (op *ControlledPauliZ) InvolvedQubits() InvolvedQubits { return QubitSet(op.Control, op.Target) }

func (op *ControlledPauliZ) SubstituteParameters(*calculator.Calculator) (Operation, error) {
	return op, nil
}

func (op *ControlledPauliZ) RemapQubits(mapping map[int]int) (Operation, error) {
	if err := checkMapping(mapping); err != nil {
		return nil, err
	}
	return &ControlledPauliZ{Control: mapQubit(mapping, op.Control), Target: mapQubit(mapping, op.Target)}, nil
}

func (op *ControlledPauliZ) ControlQubit() int { return op.Control }
func (op *ControlledPauliZ) TargetQubit() int  { return op.Target }

func (op *ControlledPauliZ) UnitaryMatrix() (*mat.CDense, error) {
	return mat.NewCDense(4, 4, []complex128{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, -1,
	}), nil
}

func (op *ControlledPauliZ) KakDecomposition() KakDecomposition {
	return KakDecomposition{
		GlobalPhase: quarterPi,
		KVector:     [3]calculator.Value{zero, zero, quarterPi},
		CircuitBefore: newCircuitWith(
			&RotateZ{Qubit: op.Control, Theta: halfPi},
			&RotateZ{Qubit: op.Target, Theta: halfPi},
		),
	}
}

// MolmerSorensenXX applies the fixed-angle XX interaction
// exp(-i pi/4 XX). Symmetric under qubit exchange.
type MolmerSorensenXX struct {
	Control int `json:"control" msgpack:"control"`
	Target  int `json:"target" msgpack:"target"`
}

// NewMolmerSorensenXX builds the fixed MS gate, rejecting equal control and
// target.
func NewMolmerSorensenXX(control, target int) (*MolmerSorensenXX, error) {
	if err := checkDistinctQubits("MolmerSorensenXX", control, target); err != nil {
		return nil, err
	}
	return &MolmerSorensenXX{Control: control, Target: target}, nil
}

func (op *MolmerSorensenXX) Kind() string { return "MolmerSorensenXX" }

func (op *MolmerSorensenXX) Tags() []string {
	return []string{"Operation", "GateOperation", "TwoQubitGateOperation", "MolmerSorensenXX"}
}

func (op *MolmerSorensenXX) IsParametrized() bool { return false }

func (op *MolmerSorensenXX) InvolvedQubits() InvolvedQubits { return QubitSet(op.Control, op.Target) }

func (op *MolmerSorensenXX) SubstituteParameters(*calculator.Calculator) (Operation, error) {
	return op, nil
}

func (op *MolmerSorensenXX) RemapQubits(mapping map[int]int) (Operation, error) {
	if err := checkMapping(mapping); err != nil {
		return nil, err
	}
	return &MolmerSorensenXX{Control: mapQubit(mapping, op.Control), Target: mapQubit(mapping, op.Target)}, nil
}

func (op *MolmerSorensenXX) ControlQubit() int { return op.Control }
func (op *MolmerSorensenXX) TargetQubit() int  { return op.Target }

func (op *MolmerSorensenXX) UnitaryMatrix() (*mat.CDense, error) {
	f := complex(1/math.Sqrt2, 0)
	return mat.NewCDense(4, 4, []complex128{
		f, 0, 0, f * -1i,
		0, f, f * -1i, 0,
		0, f * -1i, f, 0,
		f * -1i, 0, 0, f,
	}), nil
}

func (op *MolmerSorensenXX) KakDecomposition() KakDecomposition {
	return KakDecomposition{
		GlobalPhase: zero,
		KVector:     [3]calculator.Value{quarterPi.Neg(), zero, zero},
	}
}

// VariableMSXX applies the variable-angle XX interaction
// exp(-i theta/2 XX). Symmetric under qubit exchange.
type VariableMSXX struct {
	Control int              `json:"control" msgpack:"control"`
	Target  int              `json:"target" msgpack:"target"`
	Theta   calculator.Value `json:"theta" msgpack:"theta"`
}

// NewVariableMSXX builds the variable MS gate, rejecting equal control and
// target.
func NewVariableMSXX(control, target int, theta calculator.Value) (*VariableMSXX, error) {
	if err := checkDistinctQubits("VariableMSXX", control, target); err != nil {
		return nil, err
	}
	return &VariableMSXX{Control: control, Target: target, Theta: theta}, nil
}

func (op *VariableMSXX) Kind() string { return "VariableMSXX" }

func (op *VariableMSXX) Tags() []string {
	return []string{"Operation", "GateOperation", "TwoQubitGateOperation", "Rotation", "VariableMSXX"}
}

func (op *VariableMSXX) IsParametrized() bool { return !op.Theta.IsConstant() }

func (op *VariableMSXX) InvolvedQubits() InvolvedQubits { return QubitSet(op.Control, op.Target) }

func (op *VariableMSXX) SubstituteParameters(cal *calculator.Calculator) (Operation, error) {
	out := *op
	if err := substituteValues(cal, &out.Theta); err != nil {
		return nil, err
	}
	return &out, nil
}

func (op *VariableMSXX) RemapQubits(mapping map[int]int) (Operation, error) {
	if err := checkMapping(mapping); err != nil {
		return nil, err
	}
	out := *op
	out.Control = mapQubit(mapping, op.Control)
	out.Target = mapQubit(mapping, op.Target)
	return &out, nil
}

func (op *VariableMSXX) ControlQubit() int { return op.Control }
func (op *VariableMSXX) TargetQubit() int  { return op.Target }

func (op *VariableMSXX) Angle() calculator.Value { return op.Theta }

func (op *VariableMSXX) PowerCF(power calculator.Value) Rotation {
	return &VariableMSXX{Control: op.Control, Target: op.Target, Theta: op.Theta.Mul(power)}
}

func (op *VariableMSXX) UnitaryMatrix() (*mat.CDense, error) {
	theta, err := op.Theta.Float()
	if err != nil {
		return nil, err
	}
	c := complex(math.Cos(theta/2), 0)
	s := complex(0, -math.Sin(theta/2))
	return mat.NewCDense(4, 4, []complex128{
		c, 0, 0, s,
		0, c, s, 0,
		0, s, c, 0,
		s, 0, 0, c,
	}), nil
}

func (op *VariableMSXX) KakDecomposition() KakDecomposition {
	return KakDecomposition{
		GlobalPhase: zero,
		KVector:     [3]calculator.Value{op.Theta.Mul(half).Neg(), zero, zero},
	}
}

// GivensRotation is the Givens rotation in big endian form:
// exp(-i theta (XY - YX)) followed by a phase on the target.
type GivensRotation struct {
	Control int              `json:"control" msgpack:"control"`
	Target  int              `json:"target" msgpack:"target"`
	Theta   calculator.Value `json:"theta" msgpack:"theta"`
	Phi     calculator.Value `json:"phi" msgpack:"phi"`
}

// NewGivensRotation builds a Givens rotation, rejecting equal control and
// target.
func NewGivensRotation(control, target int, theta, phi calculator.Value) (*GivensRotation, error) {
	if err := checkDistinctQubits("GivensRotation", control, target); err != nil {
		return nil, err
	}
	return &GivensRotation{Control: control, Target: target, Theta: theta, Phi: phi}, nil
}

func (op *GivensRotation) Kind() string { return "GivensRotation" }

func (op *GivensRotation) Tags() []string {
	return []string{"Operation", "GateOperation", "TwoQubitGateOperation", "Rotation", "GivensRotation"}
}

func (op *GivensRotation) IsParametrized() bool {
	return !(op.Theta.IsConstant() && op.Phi.IsConstant())
}

func (op *GivensRotation) InvolvedQubits() InvolvedQubits { return QubitSet(op.Control, op.Target) }

func (op *GivensRotation) SubstituteParameters(cal *calculator.Calculator) (Operation, error) {
	out := *op
	if err := substituteValues(cal, &out.Theta, &out.Phi); err != nil {
		return nil, err
	}
	return &out, nil
}

func (op *GivensRotation) RemapQubits(mapping map[int]int) (Operation, error) {
	if err := checkMapping(mapping); err != nil {
		return nil, err
	}
	out := *op
	out.Control = mapQubit(mapping, op.Control)
	out.Target = mapQubit(mapping, op.Target)
	return &out, nil
}

func (op *GivensRotation) ControlQubit() int { return op.Control }
func (op *GivensRotation) TargetQubit() int  { return op.Target }

func (op *GivensRotation) Angle() calculator.Value { return op.Theta }

func (op *GivensRotation) PowerCF(power calculator.Value) Rotation {
	out := *op
	out.Theta = op.Theta.Mul(power)
	return &out
}

func (op *GivensRotation) UnitaryMatrix() (*mat.CDense, error) {
	theta, err := op.Theta.Float()
	if err != nil {
		return nil, err
	}
	phi, err := op.Phi.Float()
	if err != nil {
		return nil, err
	}
	ct, st := math.Cos(theta), math.Sin(theta)
	phase := cmplx.Exp(complex(0, phi))
	return mat.NewCDense(4, 4, []complex128{
		1, 0, 0, 0,
		0, complex(ct, 0) * phase, complex(st, 0), 0,
		0, complex(-st, 0) * phase, complex(ct, 0), 0,
		0, 0, 0, phase,
	}), nil
}

func (op *GivensRotation) KakDecomposition() KakDecomposition {
	return KakDecomposition{
		GlobalPhase: op.Phi.Mul(half),
		KVector:     [3]calculator.Value{op.Theta.Mul(half), op.Theta.Mul(half), zero},
		CircuitBefore: newCircuitWith(
			&RotateZ{Qubit: op.Target, Theta: op.Phi.Add(halfPi)},
		),
		CircuitAfter: newCircuitWith(
			&RotateZ{Qubit: op.Target, Theta: halfPi.Neg()},
		),
	}
}

// GivensRotationLittleEndian is the Givens rotation in little endian form,
// with the phase applied to the control.
type GivensRotationLittleEndian struct {
	Control int              `json:"control" msgpack:"control"`
	Target  int              `json:"target" msgpack:"target"`
	Theta   calculator.Value `json:"theta" msgpack:"theta"`
	Phi     calculator.Value `json:"phi" msgpack:"phi"`
}

// NewGivensRotationLittleEndian builds the little endian Givens rotation,
// rejecting equal control and target.
func NewGivensRotationLittleEndian(control, target int, theta, phi calculator.Value) (*GivensRotationLittleEndian, error) {
	if err := checkDistinctQubits("GivensRotationLittleEndian", control, target); err != nil {
		return nil, err
	}
	return &GivensRotationLittleEndian{Control: control, Target: target, Theta: theta, Phi: phi}, nil
}

func (op *GivensRotationLittleEndian) Kind() string { return "GivensRotationLittleEndian" }

func (op *GivensRotationLittleEndian) Tags() []string {
	return []string{"Operation", "GateOperation", "TwoQubitGateOperation", "Rotation", "GivensRotationLittleEndian"}
}

func (op *GivensRotationLittleEndian) IsParametrized() bool {
	return !(op.Theta.IsConstant() && op.Phi.IsConstant())
}

func (op *GivensRotationLittleEndian) InvolvedQubits() InvolvedQubits {
	return QubitSet(op.Control, op.Target)
}

func (op *GivensRotationLittleEndian) SubstituteParameters(cal *calculator.Calculator) (Operation, error) {
	out := *op
	if err := substituteValues(cal, &out.Theta, &out.Phi); err != nil {
		return nil, err
	}
	return &out, nil
}

func (op *GivensRotationLittleEndian) RemapQubits(mapping map[int]int) (Operation, error) {
	if err := checkMapping(mapping); err != nil {
		return nil, err
	}
	out := *op
	out.Control = mapQubit(mapping, op.Control)
	out.Target = mapQubit(mapping, op.Target)
	return &out, nil
}

func (op *GivensRotationLittleEndian) ControlQubit() int { return op.Control }
func (op *GivensRotationLittleEndian) TargetQubit() int  { return op.Target }

func (op *GivensRotationLittleEndian) Angle() calculator.Value { return op.Theta }

func (op *GivensRotationLittleEndian) PowerCF(power calculator.Value) Rotation {
	out := *op
	out.Theta = op.Theta.Mul(power)
	return &out
}

func (op *GivensRotationLittleEndian) UnitaryMatrix() (*mat.CDense, error) {
	theta, err := op.Theta.Float()
	if err != nil {
		return nil, err
	}
	phi, err := op.Phi.Float()
	if err != nil {
		return nil, err
	}
	ct, st := math.Cos(theta), math.Sin(theta)
	phase := cmplx.Exp(complex(0, phi))
	return mat.NewCDense(4, 4, []complex128{
		1, 0, 0, 0,
		0, complex(ct, 0), complex(st, 0), 0,
		0, complex(-st, 0) * phase, complex(ct, 0) * phase, 0,
		0, 0, 0, phase,
	}), nil
}

func (op *GivensRotationLittleEndian) KakDecomposition() KakDecomposition {
	return KakDecomposition{
		GlobalPhase: op.Phi.Mul(half),
		KVector:     [3]calculator.Value{op.Theta.Mul(half), op.Theta.Mul(half), zero},
		CircuitBefore: newCircuitWith(
			&RotateZ{Qubit: op.Control, Theta: halfPi.Neg()},
		),
		CircuitAfter: newCircuitWith(
			&RotateZ{Qubit: op.Control, Theta: op.Phi.Add(halfPi)},
		),
	}
}

// Qsim swaps the two qubit states while evolving under the anisotropic
// interaction exp(-i (x XX + y YY + z ZZ)).
type Qsim struct {
	Control int              `json:"control" msgpack:"control"`
	Target  int              `json:"target" msgpack:"target"`
	X       calculator.Value `json:"x" msgpack:"x"`
	Y       calculator.Value `json:"y" msgpack:"y"`
	Z       calculator.Value `json:"z" msgpack:"z"`
}

// NewQsim builds a Qsim gate, rejecting equal control and target.
func NewQsim(control, target int, x, y, z calculator.Value) (*Qsim, error) {
	if err := checkDistinctQubits("Qsim", control, target); err != nil {
		return nil, err
	}
	return &Qsim{Control: control, Target: target, X: x, Y: y, Z: z}, nil
}

func (op *Qsim) Kind() string { return "Qsim" }

func (op *Qsim) Tags() []string {
	return []string{"Operation", "GateOperation", "TwoQubitGateOperation", "Qsim"}
}

func (op *Qsim) IsParametrized() bool {
	return !(op.X.IsConstant() && op.Y.IsConstant() && op.Z.IsConstant())
}

func (op *Qsim) InvolvedQubits() InvolvedQubits { return QubitSet(op.Control, op.Target) }

func (op *Qsim) SubstituteParameters(cal *calculator.Calculator) (Operation, error) {
	out := *op
	if err := substituteValues(cal, &out.X, &out.Y, &out.Z); err != nil {
		return nil, err
	}
	return &out, nil
}

func (op *Qsim) RemapQubits(mapping map[int]int) (Operation, error) {
	if err := checkMapping(mapping); err != nil {
		return nil, err
	}
	out := *op
	out.Control = mapQubit(mapping, op.Control)
	out.Target = mapQubit(mapping, op.Target)
	return &out, nil
}

func (op *Qsim) ControlQubit() int { return op.Control }
func (op *Qsim) TargetQubit() int  { return op.Target }

func (op *Qsim) UnitaryMatrix() (*mat.CDense, error) {
	x, err := op.X.Float()
	if err != nil {
		return nil, err
	}
	y, err := op.Y.Float()
	if err != nil {
		return nil, err
	}
	z, err := op.Z.Float()
	if err != nil {
		return nil, err
	}
	cm, cp := math.Cos(x-y), math.Cos(x+y)
	sm, sp := math.Sin(x-y), math.Sin(x+y)
	cz, sz := math.Cos(z), math.Sin(z)
	return mat.NewCDense(4, 4, []complex128{
		complex(cm*cz, -cm*sz), 0, 0, complex(-sm*sz, -sm*cz),
		0, complex(sp*sz, -sp*cz), complex(cp*cz, cp*sz), 0,
		0, complex(cp*cz, cp*sz), complex(sp*sz, -sp*cz), 0,
		complex(-sm*sz, -sm*cz), 0, 0, complex(cm*cz, -cm*sz),
	}), nil
}

func (op *Qsim) KakDecomposition() KakDecomposition {
	return KakDecomposition{
		GlobalPhase: quarterPi.Neg(),
		KVector: [3]calculator.Value{
			op.X.Neg().Add(quarterPi),
			op.Y.Neg().Add(quarterPi),
			op.Z.Neg().Add(quarterPi),
		},
	}
}

// Fsim is the fermionic simulation gate with hopping t, interaction u and
// Bogoliubov strength delta. Valid only for adjacent qubits.
type Fsim struct {
	Control int              `json:"control" msgpack:"control"`
	Target  int              `json:"target" msgpack:"target"`
	T       calculator.Value `json:"t" msgpack:"t"`
	U       calculator.Value `json:"u" msgpack:"u"`
	Delta   calculator.Value `json:"delta" msgpack:"delta"`
}

// NewFsim builds an Fsim gate, rejecting equal control and target.
func NewFsim(control, target int, t, u, delta calculator.Value) (*Fsim, error) {
	if err := checkDistinctQubits("Fsim", control, target); err != nil {
		return nil, err
	}
	return &Fsim{Control: control, Target: target, T: t, U: u, Delta: delta}, nil
}

func (op *Fsim) Kind() string { return "Fsim" }

func (op *Fsim) Tags() []string {
	return []string{"Operation", "GateOperation", "TwoQubitGateOperation", "Fsim"}
}

func (op *Fsim) IsParametrized() bool {
	return !(op.T.IsConstant() && op.U.IsConstant() && op.Delta.IsConstant())
}

func (op *Fsim) InvolvedQubits() InvolvedQubits { return QubitSet(op.Control, op.Target) }

func (op *Fsim) SubstituteParameters(cal *calculator.Calculator) (Operation, error) {
	out := *op
	if err := substituteValues(cal, &out.T, &out.U, &out.Delta); err != nil {
		return nil, err
	}
	return &out, nil
}

func (op *Fsim) RemapQubits(mapping map[int]int) (Operation, error) {
	if err := checkMapping(mapping); err != nil {
		return nil, err
	}
	out := *op
	out.Control = mapQubit(mapping, op.Control)
	out.Target = mapQubit(mapping, op.Target)
	return &out, nil
}

func (op *Fsim) ControlQubit() int { return op.Control }
func (op *Fsim) TargetQubit() int  { return op.Target }

func (op *Fsim) UnitaryMatrix() (*mat.CDense, error) {
	t, err := op.T.Float()
	if err != nil {
		return nil, err
	}
	u, err := op.U.Float()
	if err != nil {
		return nil, err
	}
	d, err := op.Delta.Float()
	if err != nil {
		return nil, err
	}
	return mat.NewCDense(4, 4, []complex128{
		complex(math.Cos(d), 0), 0, 0, complex(0, math.Sin(d)),
		0, complex(0, -math.Sin(t)), complex(math.Cos(t), 0), 0,
		0, complex(math.Cos(t), 0), complex(0, -math.Sin(t)), 0,
		complex(-math.Sin(d)*math.Sin(u), -math.Sin(d)*math.Cos(u)), 0, 0,
		complex(-math.Cos(d)*math.Cos(u), math.Cos(d)*math.Sin(u)),
	}), nil
}

func (op *Fsim) KakDecomposition() KakDecomposition {
	theta := op.U.Div(calculator.Float(-2)).Sub(halfPi)
	return KakDecomposition{
		GlobalPhase: op.U.Div(calculator.Float(-4)).Sub(halfPi),
		KVector: [3]calculator.Value{
			op.T.Div(calculator.Float(-2)).Add(op.Delta.Mul(half)).Add(quarterPi),
			op.T.Div(calculator.Float(-2)).Sub(op.Delta.Mul(half)).Add(quarterPi),
			op.U.Div(calculator.Float(-4)),
		},
		CircuitAfter: newCircuitWith(
			&RotateZ{Qubit: op.Control, Theta: theta},
			&RotateZ{Qubit: op.Target, Theta: theta},
		),
	}
}

// SpinInteraction is the anisotropic XYZ Heisenberg interaction
// exp(-i (x XX + y YY + z ZZ)).
type SpinInteraction struct {
	Control int              `json:"control" msgpack:"control"`
	Target  int              `json:"target" msgpack:"target"`
	X       calculator.Value `json:"x" msgpack:"x"`
	Y       calculator.Value `json:"y" msgpack:"y"`
	Z       calculator.Value `json:"z" msgpack:"z"`
}

// NewSpinInteraction builds a spin interaction gate, rejecting equal
// control and target.
func NewSpinInteraction(control, target int, x, y, z calculator.Value) (*SpinInteraction, error) {
	if err := checkDistinctQubits("SpinInteraction", control, target); err != nil {
		return nil, err
	}
	return &SpinInteraction{Control: control, Target: target, X: x, Y: y, Z: z}, nil
}

func (op *SpinInteraction) Kind() string { return "SpinInteraction" }

func (op *SpinInteraction) Tags() []string {
	return []string{"Operation", "GateOperation", "TwoQubitGateOperation", "SpinInteraction"}
}

func (op *SpinInteraction) IsParametrized() bool {
	return !(op.X.IsConstant() && op.Y.IsConstant() && op.Z.IsConstant())
}

func (op *SpinInteraction) InvolvedQubits() InvolvedQubits { return QubitSet(op.Control, op.Target) }

func (op *SpinInteraction) SubstituteParameters(cal *calculator.Calculator) (Operation, error) {
	out := *op
	if err := substituteValues(cal, &out.X, &out.Y, &out.Z); err != nil {
		return nil, err
	}
	return &out, nil
}

func (op *SpinInteraction) RemapQubits(mapping map[int]int) (Operation, error) {
	if err := checkMapping(mapping); err != nil {
		return nil, err
	}
	out := *op
	out.Control = mapQubit(mapping, op.Control)
	out.Target = mapQubit(mapping, op.Target)
	return &out, nil
}

func (op *SpinInteraction) ControlQubit() int { return op.Control }
func (op *SpinInteraction) TargetQubit() int  { return op.Target }

func (op *SpinInteraction) UnitaryMatrix() (*mat.CDense, error) {
	x, err := op.X.Float()
	if err != nil {
		return nil, err
	}
	y, err := op.Y.Float()
	if err != nil {
		return nil, err
	}
	z, err := op.Z.Float()
	if err != nil {
		return nil, err
	}
	cm, cp := math.Cos(x-y), math.Cos(x+y)
	sm, sp := math.Sin(x-y), math.Sin(x+y)
	cz, sz := math.Cos(z), math.Sin(z)
	return mat.NewCDense(4, 4, []complex128{
		complex(cm*cz, -cm*sz), 0, 0, complex(-sm*sz, -sm*cz),
		0, complex(cp*cz, cp*sz), complex(sp*sz, -sp*cz), 0,
		0, complex(sp*sz, -sp*cz), complex(cp*cz, cp*sz), 0,
		complex(-sm*sz, -sm*cz), 0, 0, complex(cm*cz, -cm*sz),
	}), nil
}

func (op *SpinInteraction) KakDecomposition() KakDecomposition {
	return KakDecomposition{
		GlobalPhase: zero,
		KVector:     [3]calculator.Value{op.X.Neg(), op.Y.Neg(), op.Z.Neg()},
	}
}

// Bogoliubov is the Bogoliubov-DeGennes pairing interaction with complex
// strength delta.
type Bogoliubov struct {
	Control   int              `json:"control" msgpack:"control"`
	Target    int              `json:"target" msgpack:"target"`
	DeltaReal calculator.Value `json:"delta_real" msgpack:"delta_real"`
	DeltaImag calculator.Value `json:"delta_imag" msgpack:"delta_imag"`
}

// NewBogoliubov builds a Bogoliubov gate, rejecting equal control and
// target.
func NewBogoliubov(control, target int, deltaReal, deltaImag calculator.Value) (*Bogoliubov, error) {
	if err := checkDistinctQubits("Bogoliubov", control, target); err != nil {
		return nil, err
	}
	return &Bogoliubov{Control: control, Target: target, DeltaReal: deltaReal, DeltaImag: deltaImag}, nil
}

func (op *Bogoliubov) Kind() string { return "Bogoliubov" }

func (op *Bogoliubov) Tags() []string {
	return []string{"Operation", "GateOperation", "TwoQubitGateOperation", "Bogoliubov"}
}

func (op *Bogoliubov) IsParametrized() bool {
	return !(op.DeltaReal.IsConstant() && op.DeltaImag.IsConstant())
}

func (op *Bogoliubov) InvolvedQubits() InvolvedQubits { return QubitSet(op.Control, op.Target) }

func (op *Bogoliubov) SubstituteParameters(cal *calculator.Calculator) (Operation, error) {
	out := *op
	if err := substituteValues(cal, &out.DeltaReal, &out.DeltaImag); err != nil {
		return nil, err
	}
	return &out, nil
}

func (op *Bogoliubov) RemapQubits(mapping map[int]int) (Operation, error) {
	if err := checkMapping(mapping); err != nil {
		return nil, err
	}
	out := *op
	out.Control = mapQubit(mapping, op.Control)
	out.Target = mapQubit(mapping, op.Target)
	return &out, nil
}

func (op *Bogoliubov) ControlQubit() int { return op.Control }
func (op *Bogoliubov) TargetQubit() int  { return op.Target }

func (op *Bogoliubov) UnitaryMatrix() (*mat.CDense, error) {
	dr, err := op.DeltaReal.Float()
	if err != nil {
		return nil, err
	}
	di, err := op.DeltaImag.Float()
	if err != nil {
		return nil, err
	}
	delta := complex(dr, di)
	da := cmplx.Abs(delta)
	dp := cmplx.Phase(delta)
	return mat.NewCDense(4, 4, []complex128{
		complex(math.Cos(da), 0), 0, 0, complex(-math.Sin(da)*math.Sin(dp), math.Sin(da)*math.Cos(dp)),
		0, 1, 0, 0,
		0, 0, 1, 0,
		complex(math.Sin(da)*math.Sin(dp), math.Sin(da)*math.Cos(dp)), 0, 0, complex(math.Cos(da), 0),
	}), nil
}

func (op *Bogoliubov) KakDecomposition() KakDecomposition {
	norm := op.DeltaReal.Mul(op.DeltaReal).Add(op.DeltaImag.Mul(op.DeltaImag)).Sqrt()
	arg := op.DeltaImag.Atan2(op.DeltaReal)
	return KakDecomposition{
		GlobalPhase: zero,
		KVector:     [3]calculator.Value{norm.Mul(half), norm.Mul(half).Neg(), zero},
		CircuitBefore: newCircuitWith(
			&RotateZ{Qubit: op.Target, Theta: arg},
		),
		CircuitAfter: newCircuitWith(
			&RotateZ{Qubit: op.Target, Theta: arg.Neg()},
		),
	}
}

// PMInteraction is the transversal hopping interaction
// exp(-i t (XX + YY)).
type PMInteraction struct {
	Control int              `json:"control" msgpack:"control"`
	Target  int              `json:"target" msgpack:"target"`
	T       calculator.Value `json:"t" msgpack:"t"`
}

// NewPMInteraction builds a PM interaction gate, rejecting equal control
// and target.
func NewPMInteraction(control, target int, t calculator.Value) (*PMInteraction, error) {
	if err := checkDistinctQubits("PMInteraction", control, target); err != nil {
		return nil, err
	}
	return &PMInteraction{Control: control, Target: target, T: t}, nil
}

func (op *PMInteraction) Kind() string { return "PMInteraction" }

func (op *PMInteraction) Tags() []string {
	return []string{"Operation", "GateOperation", "TwoQubitGateOperation", "PMInteraction"}
}

func (op *PMInteraction) IsParametrized() bool { return !op.T.IsConstant() }

func (op *PMInteraction) InvolvedQubits() InvolvedQubits { return QubitSet(op.Control, op.Target) }

func (op *PMInteraction) SubstituteParameters(cal *calculator.Calculator) (Operation, error) {
	out := *op
	if err := substituteValues(cal, &out.T); err != nil {
		return nil, err
	}
	return &out, nil
}

func (op *PMInteraction) RemapQubits(mapping map[int]int) (Operation, error) {
	if err := checkMapping(mapping); err != nil {
		return nil, err
	}
	out := *op
	out.Control = mapQubit(mapping, op.Control)
	out.Target = mapQubit(mapping, op.Target)
	return &out, nil
}

func (op *PMInteraction) ControlQubit() int { return op.Control }
func (op *PMInteraction) TargetQubit() int  { return op.Target }

func (op *PMInteraction) UnitaryMatrix() (*mat.CDense, error) {
	t, err := op.T.Float()
	if err != nil {
		return nil, err
	}
	c := complex(math.Cos(t), 0)
	s := complex(0, -math.Sin(t))
	return mat.NewCDense(4, 4, []complex128{
		1, 0, 0, 0,
		0, c, s, 0,
		0, s, c, 0,
		0, 0, 0, 1,
	}), nil
}

func (op *PMInteraction) KakDecomposition() KakDecomposition {
	k := op.T.Div(calculator.Float(-2))
	return KakDecomposition{
		GlobalPhase: zero,
		KVector:     [3]calculator.Value{k, k, zero},
	}
}

// ComplexPMInteraction is the complex hopping interaction with strength
// t_real + i t_imag.
type ComplexPMInteraction struct {
	Control int              `json:"control" msgpack:"control"`
	Target  int              `json:"target" msgpack:"target"`
	TReal   calculator.Value `json:"t_real" msgpack:"t_real"`
	TImag   calculator.Value `json:"t_imag" msgpack:"t_imag"`
}

// NewComplexPMInteraction builds a complex PM interaction gate, rejecting
// equal control and target.
func NewComplexPMInteraction(control, target int, tReal, tImag calculator.Value) (*ComplexPMInteraction, error) {
	if err := checkDistinctQubits("ComplexPMInteraction", control, target); err != nil {
		return nil, err
	}
	return &ComplexPMInteraction{Control: control, Target: target, TReal: tReal, TImag: tImag}, nil
}

func (op *ComplexPMInteraction) Kind() string { return "ComplexPMInteraction" }

func (op *ComplexPMInteraction) Tags() []string {
	return []string{"Operation", "GateOperation", "TwoQubitGateOperation", "ComplexPMInteraction"}
}

func (op *ComplexPMInteraction) IsParametrized() bool {
	return !(op.TReal.IsConstant() && op.TImag.IsConstant())
}

func (op *ComplexPMInteraction) InvolvedQubits() InvolvedQubits {
	return QubitSet(op.Control, op.Target)
}

func (op *ComplexPMInteraction) SubstituteParameters(cal *calculator.Calculator) (Operation, error) {
	out := *op
	if err := substituteValues(cal, &out.TReal, &out.TImag); err != nil {
		return nil, err
	}
	return &out, nil
}

func (op *ComplexPMInteraction) RemapQubits(mapping map[int]int) (Operation, error) {
	if err := checkMapping(mapping); err != nil {
		return nil, err
	}
	out := *op
	out.Control = mapQubit(mapping, op.Control)
	out.Target = mapQubit(mapping, op.Target)
	return &out, nil
}

func (op *ComplexPMInteraction) ControlQubit() int { return op.Control }
func (op *ComplexPMInteraction) TargetQubit() int  { return op.Target }

func (op *ComplexPMInteraction) UnitaryMatrix() (*mat.CDense, error) {
	tr, err := op.TReal.Float()
	if err != nil {
		return nil, err
	}
	ti, err := op.TImag.Float()
	if err != nil {
		return nil, err
	}
	t := complex(tr, ti)
	tn := cmplx.Abs(t)
	ta := cmplx.Phase(t)
	return mat.NewCDense(4, 4, []complex128{
		1, 0, 0, 0,
		0, complex(math.Cos(tn), 0), complex(-math.Sin(tn)*math.Sin(ta), -math.Sin(tn)*math.Cos(ta)), 0,
		0, complex(math.Sin(tn)*math.Sin(ta), -math.Sin(tn)*math.Cos(ta)), complex(math.Cos(tn), 0), 0,
		0, 0, 0, 1,
	}), nil
}

func (op *ComplexPMInteraction) KakDecomposition() KakDecomposition {
	norm := op.TReal.Mul(op.TReal).Add(op.TImag.Mul(op.TImag)).Sqrt()
	arg := op.TImag.Atan2(op.TReal)
	k := norm.Div(calculator.Float(-2))
	return KakDecomposition{
		GlobalPhase: zero,
		KVector:     [3]calculator.Value{k, k, zero},
		CircuitBefore: newCircuitWith(
			&RotateZ{Qubit: op.Target, Theta: arg},
		),
		CircuitAfter: newCircuitWith(
			&RotateZ{Qubit: op.Target, Theta: arg.Neg()},
		),
	}
}

// PhaseShiftedControlledZ is the controlled PauliZ conjugated by single
// qubit phase shifts phi.
type PhaseShiftedControlledZ struct {
	Control int              `json:"control" msgpack:"control"`
	Target  int              `json:"target" msgpack:"target"`
	Phi     calculator.Value `json:"phi" msgpack:"phi"`
}

// NewPhaseShiftedControlledZ builds a phase-shifted controlled Z, rejecting
// equal control and target.
func NewPhaseShiftedControlledZ(control, target int, phi calculator.Value) (*PhaseShiftedControlledZ, error) {
	if err := checkDistinctQubits("PhaseShiftedControlledZ", control, target); err != nil {
		return nil, err
	}
	return &PhaseShiftedControlledZ{Control: control, Target: target, Phi: phi}, nil
}

func (op *PhaseShiftedControlledZ) Kind() string { return "PhaseShiftedControlledZ" }

func (op *PhaseShiftedControlledZ) Tags() []string {
	return []string{"Operation", "GateOperation", "TwoQubitGateOperation", "PhaseShiftedControlledZ"}
}

func (op *PhaseShiftedControlledZ) IsParametrized() bool { return !op.Phi.IsConstant() }

func (op *PhaseShiftedControlledZ) InvolvedQubits() InvolvedQubits {
	return QubitSet(op.Control, op.Target)
}

func (op *PhaseShiftedControlledZ) SubstituteParameters(cal *calculator.Calculator) (Operation, error) {
	out := *op
	if err := substituteValues(cal, &out.Phi); err != nil {
		return nil, err
	}
	return &out, nil
}

func (op *PhaseShiftedControlledZ) RemapQubits(mapping map[int]int) (Operation, error) {
	if err := checkMapping(mapping); err != nil {
		return nil, err
	}
	out := *op
	out.Control = mapQubit(mapping, op.Control)
	out.Target = mapQubit(mapping, op.Target)
	return &out, nil
}

func (op *PhaseShiftedControlledZ) ControlQubit() int { return op.Control }
func (op *PhaseShiftedControlledZ) TargetQubit() int  { return op.Target }

func (op *PhaseShiftedControlledZ) UnitaryMatrix() (*mat.CDense, error) {
	phi, err := op.Phi.Float()
	if err != nil {
		return nil, err
	}
	single := cmplx.Exp(complex(0, phi))
	double := cmplx.Exp(complex(0, 2*phi+math.Pi))
	return mat.NewCDense(4, 4, []complex128{
		1, 0, 0, 0,
		0, single, 0, 0,
		0, 0, single, 0,
		0, 0, 0, double,
	}), nil
}

func (op *PhaseShiftedControlledZ) KakDecomposition() KakDecomposition {
	return KakDecomposition{
		GlobalPhase: quarterPi.Add(op.Phi),
		KVector:     [3]calculator.Value{zero, zero, quarterPi},
		CircuitBefore: newCircuitWith(
			&RotateZ{Qubit: op.Control, Theta: halfPi},
			&RotateZ{Qubit: op.Target, Theta: halfPi},
		),
		CircuitAfter: newCircuitWith(
			&RotateZ{Qubit: op.Control, Theta: op.Phi},
			&RotateZ{Qubit: op.Target, Theta: op.Phi},
		),
	}
}

// PhaseShiftedControlledPhase is the controlled phase shift conjugated by
// single qubit phase shifts phi.
type PhaseShiftedControlledPhase struct {
	Control int              `json:"control" msgpack:"control"`
	Target  int              `json:"target" msgpack:"target"`
	Theta   calculator.Value `json:"theta" msgpack:"theta"`
	Phi     calculator.Value `json:"phi" msgpack:"phi"`
}

// NewPhaseShiftedControlledPhase builds a phase-shifted controlled phase
// shift, rejecting equal control and target.
func NewPhaseShiftedControlledPhase(control, target int, theta, phi calculator.Value) (*PhaseShiftedControlledPhase, error) {
	if err := checkDistinctQubits("PhaseShiftedControlledPhase", control, target); err != nil {
		return nil, err
	}
	return &PhaseShiftedControlledPhase{Control: control, Target: target, Theta: theta, Phi: phi}, nil
}

func (op *PhaseShiftedControlledPhase) Kind() string { return "PhaseShiftedControlledPhase" }

func (op *PhaseShiftedControlledPhase) Tags() []string {
	return []string{"Operation", "GateOperation", "TwoQubitGateOperation", "PhaseShiftedControlledPhase"}
}

func (op *PhaseShiftedControlledPhase) IsParametrized() bool {
	return !(op.Theta.IsConstant() && op.Phi.IsConstant())
}

func (op *PhaseShiftedControlledPhase) InvolvedQubits() InvolvedQubits {
	return QubitSet(op.Control, op.Target)
}

func (op *PhaseShiftedControlledPhase) SubstituteParameters(cal *calculator.Calculator) (Operation, error) {
	out := *op
	if err := substituteValues(cal, &out.Theta, &out.Phi); err != nil {
		return nil, err
	}
	return &out, nil
}

func (op *PhaseShiftedControlledPhase) RemapQubits(mapping map[int]int) (Operation, error) {
	if err := checkMapping(mapping); err != nil {
		return nil, err
	}
	out := *op
	out.Control = mapQubit(mapping, op.Control)
	out.Target = mapQubit(mapping, op.Target)
	return &out, nil
}

func (op *PhaseShiftedControlledPhase) ControlQubit() int { return op.Control }
func (op *PhaseShiftedControlledPhase) TargetQubit() int  { return op.Target }

func (op *PhaseShiftedControlledPhase) Angle() calculator.Value { return op.Theta }

func (op *PhaseShiftedControlledPhase) PowerCF(power calculator.Value) Rotation {
	out := *op
	out.Theta = op.Theta.Mul(power)
	return &out
}

func (op *PhaseShiftedControlledPhase) UnitaryMatrix() (*mat.CDense, error) {
	theta, err := op.Theta.Float()
	if err != nil {
		return nil, err
	}
	phi, err := op.Phi.Float()
	if err != nil {
		return nil, err
	}
	single := cmplx.Exp(complex(0, phi))
	double := cmplx.Exp(complex(0, 2*phi+theta))
	return mat.NewCDense(4, 4, []complex128{
		1, 0, 0, 0,
		0, single, 0, 0,
		0, 0, single, 0,
		0, 0, 0, double,
	}), nil
}

func (op *PhaseShiftedControlledPhase) KakDecomposition() KakDecomposition {
	quarter := op.Theta.Div(calculator.Float(4))
	return KakDecomposition{
		GlobalPhase: quarter.Add(op.Phi),
		KVector:     [3]calculator.Value{zero, zero, quarter},
		CircuitBefore: newCircuitWith(
			&RotateZ{Qubit: op.Control, Theta: op.Theta.Mul(half)},
			&RotateZ{Qubit: op.Target, Theta: op.Theta.Mul(half)},
		),
		CircuitAfter: newCircuitWith(
			&RotateZ{Qubit: op.Control, Theta: op.Phi},
			&RotateZ{Qubit: op.Target, Theta: op.Phi},
		),
	}
}
