package circuits

import (
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/mat"

	"github.com/aristath/entangle/pkg/calculator"
)

var (
	half      = calculator.Float(0.5)
	sqrtHalf  = calculator.Float(1.0 / math.Sqrt2)
	quarterPi = calculator.Float(math.Pi / 4)
	halfPi    = calculator.Float(math.Pi / 2)
	zero      = calculator.Float(0)
	one       = calculator.Float(1)
)

// singleQubitUnitary reconstructs the 2x2 unitary from a gate's alpha/beta
// coefficients and global phase. All parameters must be constant and the
// coefficient norm must be within UnitarityTolerance of one.
func singleQubitUnitary(op SingleQubitGateOperation) (*mat.CDense, error) {
	ar, err := op.AlphaR().Float()
	if err != nil {
		return nil, err
	}
	ai, err := op.AlphaI().Float()
	if err != nil {
		return nil, err
	}
	br, err := op.BetaR().Float()
	if err != nil {
		return nil, err
	}
	bi, err := op.BetaI().Float()
	if err != nil {
		return nil, err
	}
	gp, err := op.GlobalPhase().Float()
	if err != nil {
		return nil, err
	}
	norm := ar*ar + ai*ai + br*br + bi*bi
	if math.Abs(norm-1) > UnitarityTolerance {
		return nil, &UnitaryMatrixError{AlphaR: ar, AlphaI: ai, BetaR: br, BetaI: bi, Norm: norm}
	}
	phase := cmplx.Exp(complex(0, gp))
	alpha := complex(ar, ai)
	beta := complex(br, bi)
	return mat.NewCDense(2, 2, []complex128{
		phase * alpha, phase * -cmplx.Conj(beta),
		phase * beta, phase * cmplx.Conj(alpha),
	}), nil
}

// ToSingleQubitGate converts any single-qubit gate into the generic
// coefficient form.
func ToSingleQubitGate(op SingleQubitGateOperation) *SingleQubitGate {
	return &SingleQubitGate{
		Qubit:     op.InvolvedQubits().List()[0],
		AlphaReal: op.AlphaR(),
		AlphaImag: op.AlphaI(),
		BetaReal:  op.BetaR(),
		BetaImag:  op.BetaI(),
		Phase:     op.GlobalPhase(),
	}
}

// MultiplySingleQubitGates composes two gates on the same qubit into a
// single generic gate. The right gate is applied first. Both gates must be
// fully constant. The combined coefficients are renormalized when rounding
// pushes their norm off one.
func MultiplySingleQubitGates(left, right SingleQubitGateOperation) (*SingleQubitGate, error) {
	lq := left.InvolvedQubits().List()[0]
	rq := right.InvolvedQubits().List()[0]
	if lq != rq {
		return nil, &IncompatibleQubitsError{Left: lq, Right: rq}
	}
	lar, err := left.AlphaR().Float()
	if err != nil {
		return nil, err
	}
	lai, err := left.AlphaI().Float()
	if err != nil {
		return nil, err
	}
	lbr, err := left.BetaR().Float()
	if err != nil {
		return nil, err
	}
	lbi, err := left.BetaI().Float()
	if err != nil {
		return nil, err
	}
	lgp, err := left.GlobalPhase().Float()
	if err != nil {
		return nil, err
	}
	rar, err := right.AlphaR().Float()
	if err != nil {
		return nil, err
	}
	rai, err := right.AlphaI().Float()
	if err != nil {
		return nil, err
	}
	rbr, err := right.BetaR().Float()
	if err != nil {
		return nil, err
	}
	rbi, err := right.BetaI().Float()
	if err != nil {
		return nil, err
	}
	rgp, err := right.GlobalPhase().Float()
	if err != nil {
		return nil, err
	}
	la := complex(lar, lai)
	lb := complex(lbr, lbi)
	ra := complex(rar, rai)
	rb := complex(rbr, rbi)
	alpha := la*ra - cmplx.Conj(lb)*rb
	beta := lb*ra + rb*cmplx.Conj(la)
	norm := math.Sqrt(real(alpha)*real(alpha) + imag(alpha)*imag(alpha) +
		real(beta)*real(beta) + imag(beta)*imag(beta))
	if math.Abs(norm-1) > UnitarityTolerance {
		alpha /= complex(norm, 0)
		beta /= complex(norm, 0)
	}
	return &SingleQubitGate{
		Qubit:     lq,
		AlphaReal: calculator.Float(real(alpha)),
		AlphaImag: calculator.Float(imag(alpha)),
		BetaReal:  calculator.Float(real(beta)),
		BetaImag:  calculator.Float(imag(beta)),
		Phase:     calculator.Float(lgp + rgp),
	}, nil
}

// SingleQubitGate is the generic single-qubit unitary in explicit
// coefficient form.
type SingleQubitGate struct {
	Qubit     int              `json:"qubit" msgpack:"qubit"`
	AlphaReal calculator.Value `json:"alpha_r" msgpack:"alpha_r"`
	AlphaImag calculator.Value `json:"alpha_i" msgpack:"alpha_i"`
	BetaReal  calculator.Value `json:"beta_r" msgpack:"beta_r"`
	BetaImag  calculator.Value `json:"beta_i" msgpack:"beta_i"`
	Phase     calculator.Value `json:"global_phase" msgpack:"global_phase"`
}

func (op *SingleQubitGate) Kind() string { return "SingleQubitGate" }

func (op *SingleQubitGate) Tags() []string {
	return []string{"Operation", "GateOperation", "SingleQubitGateOperation", "SingleQubitGate"}
}

func (op *SingleQubitGate) IsParametrized() bool {
	return !(op.AlphaReal.IsConstant() && op.AlphaImag.IsConstant() &&
		op.BetaReal.IsConstant() && op.BetaImag.IsConstant() && op.Phase.IsConstant())
}

func (op *SingleQubitGate) InvolvedQubits() InvolvedQubits { return QubitSet(op.Qubit) }

func (op *SingleQubitGate) SubstituteParameters(cal *calculator.Calculator) (Operation, error) {
	out := &SingleQubitGate{Qubit: op.Qubit}
	var err error
	if out.AlphaReal, err = substituteValue(cal, op.AlphaReal); err != nil {
		return nil, err
	}
	if out.AlphaImag, err = substituteValue(cal, op.AlphaImag); err != nil {
		return nil, err
	}
	if out.BetaReal, err = substituteValue(cal, op.BetaReal); err != nil {
		return nil, err
	}
	if out.BetaImag, err = substituteValue(cal, op.BetaImag); err != nil {
		return nil, err
	}
	if out.Phase, err = substituteValue(cal, op.Phase); err != nil {
		return nil, err
	}
	return out, nil
}

func (op *SingleQubitGate) RemapQubits(mapping map[int]int) (Operation, error) {
	if err := checkMapping(mapping); err != nil {
		return nil, err
	}
	out := *op
	out.Qubit = mapQubit(mapping, op.Qubit)
	return &out, nil
}

func (op *SingleQubitGate) AlphaR() calculator.Value      { return op.AlphaReal }
func (op *SingleQubitGate) AlphaI() calculator.Value      { return op.AlphaImag }
func (op *SingleQubitGate) BetaR() calculator.Value       { return op.BetaReal }
func (op *SingleQubitGate) BetaI() calculator.Value       { return op.BetaImag }
func (op *SingleQubitGate) GlobalPhase() calculator.Value { return op.Phase }

func (op *SingleQubitGate) UnitaryMatrix() (*mat.CDense, error) { return singleQubitUnitary(op) }

// RotateZ rotates a single qubit around the z axis of the Bloch sphere.
type RotateZ struct {
	Qubit int              `json:"qubit" msgpack:"qubit"`
	Theta calculator.Value `json:"theta" msgpack:"theta"`
}

func (op *RotateZ) Kind() string { return "RotateZ" }

func (op *RotateZ) Tags() []string {
	return []string{"Operation", "GateOperation", "SingleQubitGateOperation", "Rotation", "RotateZ"}
}

func (op *RotateZ) IsParametrized() bool { return !op.Theta.IsConstant() }

func (op *RotateZ) InvolvedQubits() InvolvedQubits { return QubitSet(op.Qubit) }

func (op *RotateZ) SubstituteParameters(cal *calculator.Calculator) (Operation, error) {
	theta, err := substituteValue(cal, op.Theta)
	if err != nil {
		return nil, err
	}
	return &RotateZ{Qubit: op.Qubit, Theta: theta}, nil
}

func (op *RotateZ) RemapQubits(mapping map[int]int) (Operation, error) {
	if err := checkMapping(mapping); err != nil {
		return nil, err
	}
	return &RotateZ{Qubit: mapQubit(mapping, op.Qubit), Theta: op.Theta}, nil
}

func (op *RotateZ) AlphaR() calculator.Value      { return op.Theta.Mul(half).Cos() }
func (op *RotateZ) AlphaI() calculator.Value      { return op.Theta.Mul(half).Sin().Neg() }
func (op *RotateZ) BetaR() calculator.Value       { return zero }
func (op *RotateZ) BetaI() calculator.Value       { return zero }
func (op *RotateZ) GlobalPhase() calculator.Value { return zero }

func (op *RotateZ) Angle() calculator.Value { return op.Theta }

func (op *RotateZ) PowerCF(power calculator.Value) Rotation {
	return &RotateZ{Qubit: op.Qubit, Theta: op.Theta.Mul(power)}
}

func (op *RotateZ) UnitaryMatrix() (*mat.CDense, error) { return singleQubitUnitary(op) }

// RotateX rotates a single qubit around the x axis of the Bloch sphere.
type RotateX struct {
	Qubit int              `json:"qubit" msgpack:"qubit"`
	Theta calculator.Value `json:"theta" msgpack:"theta"`
}

func (op *RotateX) Kind() string { return "RotateX" }

func (op *RotateX) Tags() []string {
	return []string{"Operation", "GateOperation", "SingleQubitGateOperation", "Rotation", "RotateX"}
}

func (op *RotateX) IsParametrized() bool { return !op.Theta.IsConstant() }

func (op *RotateX) InvolvedQubits() InvolvedQubits { return QubitSet(op.Qubit) }

func (op *RotateX) SubstituteParameters(cal *calculator.Calculator) (Operation, error) {
	theta, err := substituteValue(cal, op.Theta)
	if err != nil {
		return nil, err
	}
	return &RotateX{Qubit: op.Qubit, Theta: theta}, nil
}

func (op *RotateX) RemapQubits(mapping map[int]int) (Operation, error) {
	if err := checkMapping(mapping); err != nil {
		return nil, err
	}
	return &RotateX{Qubit: mapQubit(mapping, op.Qubit), Theta: op.Theta}, nil
}

func (op *RotateX) AlphaR() calculator.Value      { return op.Theta.Mul(half).Cos() }
func (op *RotateX) AlphaI() calculator.Value      { return zero }
func (op *RotateX) BetaR() calculator.Value       { return zero }
func (op *RotateX) BetaI() calculator.Value       { return op.Theta.Mul(half).Sin().Neg() }
func (op *RotateX) GlobalPhase() calculator.Value { return zero }

func (op *RotateX) Angle() calculator.Value { return op.Theta }

func (op *RotateX) PowerCF(power calculator.Value) Rotation {
	return &RotateX{Qubit: op.Qubit, Theta: op.Theta.Mul(power)}
}

func (op *RotateX) UnitaryMatrix() (*mat.CDense, error) { return singleQubitUnitary(op) }

// RotateY rotates a single qubit around the y axis of the Bloch sphere.
type RotateY struct {
	Qubit int              `json:"qubit" msgpack:"qubit"`
	Theta calculator.Value `json:"theta" msgpack:"theta"`
}

func (op *RotateY) Kind() string { return "RotateY" }

func (op *RotateY) Tags() []string {
	return []string{"Operation", "GateOperation", "SingleQubitGateOperation", "Rotation", "RotateY"}
}

func (op *RotateY) IsParametrized() bool { return !op.Theta.IsConstant() }

func (op *RotateY) InvolvedQubits() InvolvedQubits { return QubitSet(op.Qubit) }

func (op *RotateY) SubstituteParameters(cal *calculator.Calculator) (Operation, error) {
	theta, err := substituteValue(cal, op.Theta)
	if err != nil {
		return nil, err
	}
	return &RotateY{Qubit: op.Qubit, Theta: theta}, nil
}

func (op *RotateY) RemapQubits(mapping map[int]int) (Operation, error) {
	if err := checkMapping(mapping); err != nil {
		return nil, err
	}
	return &RotateY{Qubit: mapQubit(mapping, op.Qubit), Theta: op.Theta}, nil
}

func (op *RotateY) AlphaR() calculator.Value      { return op.Theta.Mul(half).Cos() }
func (op *RotateY) AlphaI() calculator.Value      { return zero }
func (op *RotateY) BetaR() calculator.Value       { return op.Theta.Mul(half).Sin() }
func (op *RotateY) BetaI() calculator.Value       { return zero }
func (op *RotateY) GlobalPhase() calculator.Value { return zero }

func (op *RotateY) Angle() calculator.Value { return op.Theta }

func (op *RotateY) PowerCF(power calculator.Value) Rotation {
	return &RotateY{Qubit: op.Qubit, Theta: op.Theta.Mul(power)}
}

func (op *RotateY) UnitaryMatrix() (*mat.CDense, error) { return singleQubitUnitary(op) }

// PauliX is the bit-flip gate.
type PauliX struct {
	Qubit int `json:"qubit" msgpack:"qubit"`
}

func (op *PauliX) Kind() string { return "PauliX" }

func (op *PauliX) Tags() []string {
	return []string{"Operation", "GateOperation", "SingleQubitGateOperation", "PauliX"}
}

func (op *PauliX) IsParametrized() bool { return false }

func (op *PauliX) InvolvedQubits() InvolvedQubits { return QubitSet(op.Qubit) }

func (op *PauliX) SubstituteParameters(*calculator.Calculator) (Operation, error) {
	return op, nil
}

func (op *PauliX) RemapQubits(mapping map[int]int) (Operation, error) {
	if err := checkMapping(mapping); err != nil {
		return nil, err
	}
	return &PauliX{Qubit: mapQubit(mapping, op.Qubit)}, nil
}

func (op *PauliX) AlphaR() calculator.Value      { return zero }
func (op *PauliX) AlphaI() calculator.Value      { return zero }
func (op *PauliX) BetaR() calculator.Value       { return zero }
func (op *PauliX) BetaI() calculator.Value       { return one.Neg() }
func (op *PauliX) GlobalPhase() calculator.Value { return halfPi }

func (op *PauliX) UnitaryMatrix() (*mat.CDense, error) { return singleQubitUnitary(op) }

// PauliY is the bit- and phase-flip gate.
type PauliY struct {
	Qubit int `json:"qubit" msgpack:"qubit"`
}

func (op *PauliY) Kind() string { return "PauliY" }

func (op *PauliY) Tags() []string {
	return []string{"Operation", "GateOperation", "SingleQubitGateOperation", "PauliY"}
}

func (op *PauliY) IsParametrized() bool { return false }

func (op *PauliY) InvolvedQubits() InvolvedQubits { return QubitSet(op.Qubit) }

func (op *PauliY) SubstituteParameters(*calculator.Calculator) (Operation, error) {
	return op, nil
}

func (op *PauliY) RemapQubits(mapping map[int]int) (Operation, error) {
	if err := checkMapping(mapping); err != nil {
		return nil, err
	}
	return &PauliY{Qubit: mapQubit(mapping, op.Qubit)}, nil
}

func (op *PauliY) AlphaR() calculator.Value      { return zero }
func (op *PauliY) AlphaI() calculator.Value      { return zero }
func (op *PauliY) BetaR() calculator.Value       { return one }
func (op *PauliY) BetaI() calculator.Value       { return zero }
func (op *PauliY) GlobalPhase() calculator.Value { return halfPi }

func (op *PauliY) UnitaryMatrix() (*mat.CDense, error) { return singleQubitUnitary(op) }

// PauliZ is the phase-flip gate.
type PauliZ struct {
	Qubit int `json:"qubit" msgpack:"qubit"`
}

func (op *PauliZ) Kind() string { return "PauliZ" }

func (op *PauliZ) Tags() []string {
	return []string{"Operation", "GateOperation", "SingleQubitGateOperation", "PauliZ"}
}

func (op *PauliZ) IsParametrized() bool { return false }

func (op *PauliZ) InvolvedQubits() InvolvedQubits { return QubitSet(op.Qubit) }

func (op *PauliZ) SubstituteParameters(*calculator.Calculator) (Operation, error) {
	return op, nil
}

func (op *PauliZ) RemapQubits(mapping map[int]int) (Operation, error) {
	if err := checkMapping(mapping); err != nil {
		return nil, err
	}
	return &PauliZ{Qubit: mapQubit(mapping, op.Qubit)}, nil
}

func (op *PauliZ) AlphaR() calculator.Value      { return zero }
func (op *PauliZ) AlphaI() calculator.Value      { return one.Neg() }
func (op *PauliZ) BetaR() calculator.Value       { return zero }
func (op *PauliZ) BetaI() calculator.Value       { return zero }
func (op *PauliZ) GlobalPhase() calculator.Value { return halfPi }

func (op *PauliZ) UnitaryMatrix() (*mat.CDense, error) { return singleQubitUnitary(op) }

// SqrtPauliX is the square root of PauliX, a pi/2 rotation around x.
type SqrtPauliX struct {
	Qubit int `json:"qubit" msgpack:"qubit"`
}

func (op *SqrtPauliX) Kind() string { return "SqrtPauliX" }

func (op *SqrtPauliX) Tags() []string {
	return []string{"Operation", "GateOperation", "SingleQubitGateOperation", "SqrtPauliX"}
}

func (op *SqrtPauliX) IsParametrized() bool { return false }

func (op *SqrtPauliX) InvolvedQubits() InvolvedQubits { return QubitSet(op.Qubit) }

func (op *SqrtPauliX) SubstituteParameters(*calculator.Calculator) (Operation, error) {
	return op, nil
}

func (op *SqrtPauliX) RemapQubits(mapping map[int]int) (Operation, error) {
	if err := checkMapping(mapping); err != nil {
		return nil, err
	}
	return &SqrtPauliX{Qubit: mapQubit(mapping, op.Qubit)}, nil
}

func (op *SqrtPauliX) AlphaR() calculator.Value      { return calculator.Float(math.Cos(math.Pi / 4)) }
func (op *SqrtPauliX) AlphaI() calculator.Value      { return zero }
func (op *SqrtPauliX) BetaR() calculator.Value       { return zero }
func (op *SqrtPauliX) BetaI() calculator.Value       { return calculator.Float(-math.Sin(math.Pi / 4)) }
func (op *SqrtPauliX) GlobalPhase() calculator.Value { return zero }

func (op *SqrtPauliX) UnitaryMatrix() (*mat.CDense, error) { return singleQubitUnitary(op) }

// InvSqrtPauliX is the inverse square root of PauliX.
type InvSqrtPauliX struct {
	Qubit int `json:"qubit" msgpack:"qubit"`
}

func (op *InvSqrtPauliX) Kind() string { return "InvSqrtPauliX" }

func (op *InvSqrtPauliX) Tags() []string {
	return []string{"Operation", "GateOperation", "SingleQubitGateOperation", "InvSqrtPauliX"}
}

func (op *InvSqrtPauliX) IsParametrized() bool { return false }

func (op *InvSqrtPauliX) InvolvedQubits() InvolvedQubits { return QubitSet(op.Qubit) }

func (op *InvSqrtPauliX) SubstituteParameters(*calculator.Calculator) (Operation, error) {
	return op, nil
}

func (op *InvSqrtPauliX) RemapQubits(mapping map[int]int) (Operation, error) {
	if err := checkMapping(mapping); err != nil {
		return nil, err
	}
	return &InvSqrtPauliX{Qubit: mapQubit(mapping, op.Qubit)}, nil
}

func (op *InvSqrtPauliX) AlphaR() calculator.Value { return calculator.Float(math.Cos(math.Pi / 4)) }
func (op *InvSqrtPauliX) AlphaI() calculator.Value { return zero }
func (op *InvSqrtPauliX) BetaR() calculator.Value  { return zero }
func (op *InvSqrtPauliX) BetaI() calculator.Value {
	return calculator.Float(math.Sin(math.Pi / 4))
}
func (op *InvSqrtPauliX) GlobalPhase() calculator.Value { return zero }

func (op *InvSqrtPauliX) UnitaryMatrix() (*mat.CDense, error) { return singleQubitUnitary(op) }

// Hadamard maps the computational basis onto the x basis.
type Hadamard struct {
	Qubit int `json:"qubit" msgpack:"qubit"`
}

func (op *Hadamard) Kind() string { return "Hadamard" }

func (op *Hadamard) Tags() []string {
	return []string{"Operation", "GateOperation", "SingleQubitGateOperation", "Hadamard"}
}

func (op *Hadamard) IsParametrized() bool { return false }

func (op *Hadamard) InvolvedQubits() InvolvedQubits { return QubitSet(op.Qubit) }

func (op *Hadamard) SubstituteParameters(*calculator.Calculator) (Operation, error) {
	return op, nil
}

func (op *Hadamard) RemapQubits(mapping map[int]int) (Operation, error) {
	if err := checkMapping(mapping); err != nil {
		return nil, err
	}
	return &Hadamard{Qubit: mapQubit(mapping, op.Qubit)}, nil
}

func (op *Hadamard) AlphaR() calculator.Value      { return zero }
func (op *Hadamard) AlphaI() calculator.Value      { return sqrtHalf.Neg() }
func (op *Hadamard) BetaR() calculator.Value       { return zero }
func (op *Hadamard) BetaI() calculator.Value       { return sqrtHalf.Neg() }
func (op *Hadamard) GlobalPhase() calculator.Value { return halfPi }

func (op *Hadamard) UnitaryMatrix() (*mat.CDense, error) { return singleQubitUnitary(op) }

// SGate applies a pi/2 phase to the |1> state.
type SGate struct {
	Qubit int `json:"qubit" msgpack:"qubit"`
}

func (op *SGate) Kind() string { return "SGate" }

func (op *SGate) Tags() []string {
	return []string{"Operation", "GateOperation", "SingleQubitGateOperation", "SGate"}
}

func (op *SGate) IsParametrized() bool { return false }

func (op *SGate) InvolvedQubits() InvolvedQubits { return QubitSet(op.Qubit) }

func (op *SGate) SubstituteParameters(*calculator.Calculator) (Operation, error) {
	return op, nil
}

func (op *SGate) RemapQubits(mapping map[int]int) (Operation, error) {
	if err := checkMapping(mapping); err != nil {
		return nil, err
	}
	return &SGate{Qubit: mapQubit(mapping, op.Qubit)}, nil
}

func (op *SGate) AlphaR() calculator.Value      { return sqrtHalf }
func (op *SGate) AlphaI() calculator.Value      { return sqrtHalf.Neg() }
func (op *SGate) BetaR() calculator.Value       { return zero }
func (op *SGate) BetaI() calculator.Value       { return zero }
func (op *SGate) GlobalPhase() calculator.Value { return quarterPi }

func (op *SGate) UnitaryMatrix() (*mat.CDense, error) { return singleQubitUnitary(op) }

// TGate applies a pi/4 phase to the |1> state.
type TGate struct {
	Qubit int `json:"qubit" msgpack:"qubit"`
}

func (op *TGate) Kind() string { return "TGate" }

func (op *TGate) Tags() []string {
	return []string{"Operation", "GateOperation", "SingleQubitGateOperation", "TGate"}
}

func (op *TGate) IsParametrized() bool { return false }

func (op *TGate) InvolvedQubits() InvolvedQubits { return QubitSet(op.Qubit) }

func (op *TGate) SubstituteParameters(*calculator.Calculator) (Operation, error) {
	return op, nil
}

func (op *TGate) RemapQubits(mapping map[int]int) (Operation, error) {
	if err := checkMapping(mapping); err != nil {
		return nil, err
	}
	return &TGate{Qubit: mapQubit(mapping, op.Qubit)}, nil
}

func (op *TGate) AlphaR() calculator.Value      { return calculator.Float(math.Cos(math.Pi / 8)) }
func (op *TGate) AlphaI() calculator.Value      { return calculator.Float(-math.Sin(math.Pi / 8)) }
func (op *TGate) BetaR() calculator.Value       { return zero }
func (op *TGate) BetaI() calculator.Value       { return zero }
func (op *TGate) GlobalPhase() calculator.Value { return calculator.Float(math.Pi / 8) }

func (op *TGate) UnitaryMatrix() (*mat.CDense, error) { return singleQubitUnitary(op) }

// PhaseShiftState1 applies a phase to the |1> level.
type PhaseShiftState1 struct {
	Qubit int              `json:"qubit" msgpack:"qubit"`
	Theta calculator.Value `json:"theta" msgpack:"theta"`
}

func (op *PhaseShiftState1) Kind() string { return "PhaseShiftState1" }

func (op *PhaseShiftState1) Tags() []string {
	return []string{"Operation", "GateOperation", "SingleQubitGateOperation", "Rotation", "PhaseShiftState1"}
}

func (op *PhaseShiftState1) IsParametrized() bool { return !op.Theta.IsConstant() }

func (op *PhaseShiftState1) InvolvedQubits() InvolvedQubits { return QubitSet(op.Qubit) }

func (op *PhaseShiftState1) SubstituteParameters(cal *calculator.Calculator) (Operation, error) {
	theta, err := substituteValue(cal, op.Theta)
	if err != nil {
		return nil, err
	}
	return &PhaseShiftState1{Qubit: op.Qubit, Theta: theta}, nil
}

func (op *PhaseShiftState1) RemapQubits(mapping map[int]int) (Operation, error) {
	if err := checkMapping(mapping); err != nil {
		return nil, err
	}
	return &PhaseShiftState1{Qubit: mapQubit(mapping, op.Qubit), Theta: op.Theta}, nil
}

func (op *PhaseShiftState1) AlphaR() calculator.Value      { return op.Theta.Mul(half).Cos() }
func (op *PhaseShiftState1) AlphaI() calculator.Value      { return op.Theta.Mul(half).Sin().Neg() }
func (op *PhaseShiftState1) BetaR() calculator.Value       { return zero }
func (op *PhaseShiftState1) BetaI() calculator.Value       { return zero }
func (op *PhaseShiftState1) GlobalPhase() calculator.Value { return op.Theta.Mul(half) }

func (op *PhaseShiftState1) Angle() calculator.Value { return op.Theta }

func (op *PhaseShiftState1) PowerCF(power calculator.Value) Rotation {
	return &PhaseShiftState1{Qubit: op.Qubit, Theta: op.Theta.Mul(power)}
}

func (op *PhaseShiftState1) UnitaryMatrix() (*mat.CDense, error) { return singleQubitUnitary(op) }

// PhaseShiftState0 applies a phase to the |0> level.
type PhaseShiftState0 struct {
	Qubit int              `json:"qubit" msgpack:"qubit"`
	Theta calculator.Value `json:"theta" msgpack:"theta"`
}

func (op *PhaseShiftState0) Kind() string { return "PhaseShiftState0" }

func (op *PhaseShiftState0) Tags() []string {
	return []string{"Operation", "GateOperation", "SingleQubitGateOperation", "Rotation", "PhaseShiftState0"}
}

func (op *PhaseShiftState0) IsParametrized() bool { return !op.Theta.IsConstant() }

func (op *PhaseShiftState0) InvolvedQubits() InvolvedQubits { return QubitSet(op.Qubit) }

func (op *PhaseShiftState0) SubstituteParameters(cal *calculator.Calculator) (Operation, error) {
	theta, err := substituteValue(cal, op.Theta)
	if err != nil {
		return nil, err
	}
	return &PhaseShiftState0{Qubit: op.Qubit, Theta: theta}, nil
}

func (op *PhaseShiftState0) RemapQubits(mapping map[int]int) (Operation, error) {
	if err := checkMapping(mapping); err != nil {
		return nil, err
	}
	return &PhaseShiftState0{Qubit: mapQubit(mapping, op.Qubit), Theta: op.Theta}, nil
}

func (op *PhaseShiftState0) AlphaR() calculator.Value      { return op.Theta.Mul(half).Cos() }
func (op *PhaseShiftState0) AlphaI() calculator.Value      { return op.Theta.Mul(half).Sin() }
func (op *PhaseShiftState0) BetaR() calculator.Value       { return zero }
func (op *PhaseShiftState0) BetaI() calculator.Value       { return zero }
func (op *PhaseShiftState0) GlobalPhase() calculator.Value { return op.Theta.Mul(half) }

func (op *PhaseShiftState0) Angle() calculator.Value { return op.Theta }

func (op *PhaseShiftState0) PowerCF(power calculator.Value) Rotation {
	return &PhaseShiftState0{Qubit: op.Qubit, Theta: op.Theta.Mul(power)}
}

func (op *PhaseShiftState0) UnitaryMatrix() (*mat.CDense, error) { return singleQubitUnitary(op) }

// RotateAroundSphericalAxis rotates around an axis given in spherical
// coordinates.
type RotateAroundSphericalAxis struct {
	Qubit          int              `json:"qubit" msgpack:"qubit"`
	Theta          calculator.Value `json:"theta" msgpack:"theta"`
	SphericalTheta calculator.Value `json:"spherical_theta" msgpack:"spherical_theta"`
	SphericalPhi   calculator.Value `json:"spherical_phi" msgpack:"spherical_phi"`
}

func (op *RotateAroundSphericalAxis) Kind() string { return "RotateAroundSphericalAxis" }

func (op *RotateAroundSphericalAxis) Tags() []string {
	return []string{"Operation", "GateOperation", "SingleQubitGateOperation", "Rotation", "RotateAroundSphericalAxis"}
}

func (op *RotateAroundSphericalAxis) IsParametrized() bool {
	return !(op.Theta.IsConstant() && op.SphericalTheta.IsConstant() && op.SphericalPhi.IsConstant())
}

func (op *RotateAroundSphericalAxis) InvolvedQubits() InvolvedQubits { return QubitSet(op.Qubit) }

func (op *RotateAroundSphericalAxis) SubstituteParameters(cal *calculator.Calculator) (Operation, error) {
	theta, err := substituteValue(cal, op.Theta)
	if err != nil {
		return nil, err
	}
	sphTheta, err := substituteValue(cal, op.SphericalTheta)
	if err != nil {
		return nil, err
	}
	sphPhi, err := substituteValue(cal, op.SphericalPhi)
	if err != nil {
		return nil, err
	}
	return &RotateAroundSphericalAxis{
		Qubit:          op.Qubit,
		Theta:          theta,
		SphericalTheta: sphTheta,
		SphericalPhi:   sphPhi,
	}, nil
}

func (op *RotateAroundSphericalAxis) RemapQubits(mapping map[int]int) (Operation, error) {
	if err := checkMapping(mapping); err != nil {
		return nil, err
	}
	out := *op
	out.Qubit = mapQubit(mapping, op.Qubit)
	return &out, nil
}

func (op *RotateAroundSphericalAxis) AlphaR() calculator.Value { return op.Theta.Mul(half).Cos() }

func (op *RotateAroundSphericalAxis) AlphaI() calculator.Value {
	return op.Theta.Mul(half).Sin().Neg().Mul(op.SphericalTheta.Cos())
}

func (op *RotateAroundSphericalAxis) BetaR() calculator.Value {
	return op.Theta.Mul(half).Sin().Mul(op.SphericalPhi.Sin()).Mul(op.SphericalTheta.Sin())
}

func (op *RotateAroundSphericalAxis) BetaI() calculator.Value {
	return op.Theta.Mul(half).Sin().Neg().Mul(op.SphericalPhi.Cos()).Mul(op.SphericalTheta.Sin())
}

func (op *RotateAroundSphericalAxis) GlobalPhase() calculator.Value { return zero }

func (op *RotateAroundSphericalAxis) Angle() calculator.Value { return op.Theta }

func (op *RotateAroundSphericalAxis) PowerCF(power calculator.Value) Rotation {
	out := *op
	out.Theta = op.Theta.Mul(power)
	return &out
}

func (op *RotateAroundSphericalAxis) UnitaryMatrix() (*mat.CDense, error) {
	return singleQubitUnitary(op)
}

// RotateXY rotates around an axis in the xy plane, where phi selects the
// axis.
type RotateXY struct {
	Qubit int              `json:"qubit" msgpack:"qubit"`
	Theta calculator.Value `json:"theta" msgpack:"theta"`
	Phi   calculator.Value `json:"phi" msgpack:"phi"`
}

func (op *RotateXY) Kind() string { return "RotateXY" }

func (op *RotateXY) Tags() []string {
	return []string{"Operation", "GateOperation", "SingleQubitGateOperation", "Rotation", "RotateXY"}
}

func (op *RotateXY) IsParametrized() bool {
	return !(op.Theta.IsConstant() && op.Phi.IsConstant())
}

func (op *RotateXY) InvolvedQubits() InvolvedQubits { return QubitSet(op.Qubit) }

func (op *RotateXY) SubstituteParameters(cal *calculator.Calculator) (Operation, error) {
	theta, err := substituteValue(cal, op.Theta)
	if err != nil {
		return nil, err
	}
	phi, err := substituteValue(cal, op.Phi)
	if err != nil {
		return nil, err
	}
	return &RotateXY{Qubit: op.Qubit, Theta: theta, Phi: phi}, nil
}

func (op *RotateXY) RemapQubits(mapping map[int]int) (Operation, error) {
	if err := checkMapping(mapping); err != nil {
		return nil, err
	}
	return &RotateXY{Qubit: mapQubit(mapping, op.Qubit), Theta: op.Theta, Phi: op.Phi}, nil
}

func (op *RotateXY) AlphaR() calculator.Value { return op.Theta.Mul(half).Cos() }
func (op *RotateXY) AlphaI() calculator.Value { return zero }

func (op *RotateXY) BetaR() calculator.Value {
	return op.Theta.Mul(half).Sin().Mul(op.Phi.Sin())
}

func (op *RotateXY) BetaI() calculator.Value {
	return op.Theta.Mul(half).Sin().Neg().Mul(op.Phi.Cos())
}

func (op *RotateXY) GlobalPhase() calculator.Value { return zero }

func (op *RotateXY) Angle() calculator.Value { return op.Theta }

func (op *RotateXY) PowerCF(power calculator.Value) Rotation {
	return &RotateXY{Qubit: op.Qubit, Theta: op.Theta.Mul(power), Phi: op.Phi}
}

func (op *RotateXY) UnitaryMatrix() (*mat.CDense, error) { return singleQubitUnitary(op) }
