package circuits

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/aristath/entangle/pkg/calculator"
)

// PragmaDamping applies a damping error corresponding to zero temperature
// environments.
type PragmaDamping struct {
	Qubit    int              `json:"qubit" msgpack:"qubit"`
	GateTime calculator.Value `json:"gate_time" msgpack:"gate_time"`
	Rate     calculator.Value `json:"rate" msgpack:"rate"`
}

func (op *PragmaDamping) Kind() string { return "PragmaDamping" }

func (op *PragmaDamping) Tags() []string {
	return []string{
		"Operation", "SingleQubitOperation", "PragmaOperation",
		"PragmaNoiseOperation", "PragmaNoiseProbaOperation", "PragmaDamping",
	}
}

func (op *PragmaDamping) IsParametrized() bool {
	return !op.GateTime.IsConstant() || !op.Rate.IsConstant()
}

func (op *PragmaDamping) InvolvedQubits() InvolvedQubits { return QubitSet(op.Qubit) }

func (op *PragmaDamping) SubstituteParameters(cal *calculator.Calculator) (Operation, error) {
	out := *op
	if err := substituteValues(cal, &out.GateTime, &out.Rate); err != nil {
		return nil, err
	}
	return &out, nil
}

func (op *PragmaDamping) RemapQubits(mapping map[int]int) (Operation, error) {
	if err := checkMapping(mapping); err != nil {
		return nil, err
	}
	out := *op
	out.Qubit = mapQubit(mapping, op.Qubit)
	return &out, nil
}

func (op *PragmaDamping) Superoperator() (*mat.Dense, error) {
	gateTime, rate, err := noiseParams(op.GateTime, op.Rate)
	if err != nil {
		return nil, err
	}
	t1 := math.Exp(-gateTime * rate)
	t2 := math.Exp(-gateTime * rate * 0.5)
	return mat.NewDense(4, 4, []float64{
		1, 0, 0, 1 - t1,
		0, t2, 0, 0,
		0, 0, t2, 0,
		0, 0, 0, t1,
	}), nil
}

func (op *PragmaDamping) PowerCF(power calculator.Value) PragmaNoiseOperation {
	out := *op
	out.GateTime = power.Mul(op.GateTime)
	return &out
}

// Probability returns the chance of the damping affecting the qubit within
// one gate time.
func (op *PragmaDamping) Probability() (calculator.Value, error) {
	return one.Sub(op.GateTime.Mul(op.Rate).Neg().Call("exp")), nil
}

// PragmaDepolarising applies a depolarising error corresponding to infinite
// temperature environments.
type PragmaDepolarising struct {
	Qubit    int              `json:"qubit" msgpack:"qubit"`
	GateTime calculator.Value `json:"gate_time" msgpack:"gate_time"`
	Rate     calculator.Value `json:"rate" msgpack:"rate"`
}

func (op *PragmaDepolarising) Kind() string { return "PragmaDepolarising" }

func (op *PragmaDepolarising) Tags() []string {
	return []string{
		"Operation", "SingleQubitOperation", "PragmaOperation",
		"PragmaNoiseOperation", "PragmaNoiseProbaOperation", "PragmaDepolarising",
	}
}

func (op *PragmaDepolarising) IsParametrized() bool {
	return !op.GateTime.IsConstant() || !op.Rate.IsConstant()
}

func (op *PragmaDepolarising) InvolvedQubits() InvolvedQubits { return QubitSet(op.Qubit) }

func (op *PragmaDepolarising) SubstituteParameters(cal *calculator.Calculator) (Operation, error) {
	out := *op
	if err := substituteValues(cal, &out.GateTime, &out.Rate); err != nil {
		return nil, err
	}
	return &out, nil
}

func (op *PragmaDepolarising) RemapQubits(mapping map[int]int) (Operation, error) {
	if err := checkMapping(mapping); err != nil {
		return nil, err
	}
	out := *op
	out.Qubit = mapQubit(mapping, op.Qubit)
	return &out, nil
}

func (op *PragmaDepolarising) Superoperator() (*mat.Dense, error) {
	gateTime, rate, err := noiseParams(op.GateTime, op.Rate)
	if err != nil {
		return nil, err
	}
	decay := math.Exp(-gateTime * rate)
	return mat.NewDense(4, 4, []float64{
		0.5 + 0.5*decay, 0, 0, 0.5 - 0.5*decay,
		0, decay, 0, 0,
		0, 0, decay, 0,
		0.5 - 0.5*decay, 0, 0, 0.5 + 0.5*decay,
	}), nil
}

func (op *PragmaDepolarising) PowerCF(power calculator.Value) PragmaNoiseOperation {
	out := *op
	out.GateTime = power.Mul(op.GateTime)
	return &out
}

func (op *PragmaDepolarising) Probability() (calculator.Value, error) {
	return one.Sub(op.GateTime.Mul(op.Rate).Neg().Call("exp")).Mul(calculator.Float(0.75)), nil
}

// PragmaDephasing applies a pure dephasing error.
type PragmaDephasing struct {
	Qubit    int              `json:"qubit" msgpack:"qubit"`
	GateTime calculator.Value `json:"gate_time" msgpack:"gate_time"`
	Rate     calculator.Value `json:"rate" msgpack:"rate"`
}

func (op *PragmaDephasing) Kind() string { return "PragmaDephasing" }

func (op *PragmaDephasing) Tags() []string {
	return []string{
		"Operation", "SingleQubitOperation", "PragmaOperation",
		"PragmaNoiseOperation", "PragmaNoiseProbaOperation", "PragmaDephasing",
	}
}

func (op *PragmaDephasing) IsParametrized() bool {
	return !op.GateTime.IsConstant() || !op.Rate.IsConstant()
}

func (op *PragmaDephasing) InvolvedQubits() InvolvedQubits { return QubitSet(op.Qubit) }

func (op *PragmaDephasing) SubstituteParameters(cal *calculator.Calculator) (Operation, error) {
	out := *op
	if err := substituteValues(cal, &out.GateTime, &out.Rate); err != nil {
		return nil, err
	}
	return &out, nil
}

func (op *PragmaDephasing) RemapQubits(mapping map[int]int) (Operation, error) {
	if err := checkMapping(mapping); err != nil {
		return nil, err
	}
	out := *op
	out.Qubit = mapQubit(mapping, op.Qubit)
	return &out, nil
}

func (op *PragmaDephasing) Superoperator() (*mat.Dense, error) {
	gateTime, rate, err := noiseParams(op.GateTime, op.Rate)
	if err != nil {
		return nil, err
	}
	return dephasingSuperoperator(gateTime, rate), nil
}

func (op *PragmaDephasing) PowerCF(power calculator.Value) PragmaNoiseOperation {
	out := *op
	out.GateTime = power.Mul(op.GateTime)
	return &out
}

func (op *PragmaDephasing) Probability() (calculator.Value, error) {
	return one.Sub(op.GateTime.Mul(op.Rate).Mul(calculator.Float(-2)).Call("exp")).Mul(half), nil
}

// PragmaRandomNoise applies a stochastically unravelled combination of
// dephasing and depolarising. The superoperator is the trajectory average,
// which is the pure dephasing channel.
type PragmaRandomNoise struct {
	Qubit            int              `json:"qubit" msgpack:"qubit"`
	GateTime         calculator.Value `json:"gate_time" msgpack:"gate_time"`
	DepolarisingRate calculator.Value `json:"depolarising_rate" msgpack:"depolarising_rate"`
	DephasingRate    calculator.Value `json:"dephasing_rate" msgpack:"dephasing_rate"`
}

func (op *PragmaRandomNoise) Kind() string { return "PragmaRandomNoise" }

func (op *PragmaRandomNoise) Tags() []string {
	return []string{
		"Operation", "SingleQubitOperation", "PragmaOperation",
		"PragmaNoiseOperation", "PragmaNoiseProbaOperation", "PragmaRandomNoise",
	}
}

func (op *PragmaRandomNoise) IsParametrized() bool {
	return !op.GateTime.IsConstant() || !op.DepolarisingRate.IsConstant() || !op.DephasingRate.IsConstant()
}

func (op *PragmaRandomNoise) InvolvedQubits() InvolvedQubits { return QubitSet(op.Qubit) }

func (op *PragmaRandomNoise) SubstituteParameters(cal *calculator.Calculator) (Operation, error) {
	out := *op
	if err := substituteValues(cal, &out.GateTime, &out.DepolarisingRate, &out.DephasingRate); err != nil {
		return nil, err
	}
	return &out, nil
}

func (op *PragmaRandomNoise) RemapQubits(mapping map[int]int) (Operation, error) {
	if err := checkMapping(mapping); err != nil {
		return nil, err
	}
	out := *op
	out.Qubit = mapQubit(mapping, op.Qubit)
	return &out, nil
}

func (op *PragmaRandomNoise) Superoperator() (*mat.Dense, error) {
	gateTime, rate, err := noiseParams(op.GateTime, op.DephasingRate)
	if err != nil {
		return nil, err
	}
	return dephasingSuperoperator(gateTime, rate), nil
}

func (op *PragmaRandomNoise) PowerCF(power calculator.Value) PragmaNoiseOperation {
	out := *op
	out.GateTime = power.Mul(op.GateTime)
	return &out
}

// Probability sums the three unravelling channel rates over one gate time.
func (op *PragmaRandomNoise) Probability() (calculator.Value, error) {
	quarterDepol := op.DepolarisingRate.Mul(calculator.Float(0.25))
	total := quarterDepol.Add(quarterDepol).Add(quarterDepol.Add(op.DephasingRate))
	return total.Mul(op.GateTime), nil
}

// PragmaGeneralNoise applies the noise term of a single-qubit Lindblad
// equation with operator basis {sigma+, sigma-, sigmaz}:
//
//	d/dt rho = sum_ij M_ij (L_i rho L_j^dag - 1/2 {L_j^dag L_i, rho})
//
// for a duration of GateTime. The rate matrix M must be positive
// semidefinite.
type PragmaGeneralNoise struct {
	Qubit    int              `json:"qubit" msgpack:"qubit"`
	GateTime calculator.Value `json:"gate_time" msgpack:"gate_time"`
	Rates    [3][3]float64    `json:"rates" msgpack:"rates"`
}

func (op *PragmaGeneralNoise) Kind() string { return "PragmaGeneralNoise" }

func (op *PragmaGeneralNoise) Tags() []string {
	return []string{
		"Operation", "SingleQubitOperation", "PragmaOperation",
		"PragmaNoiseOperation", "PragmaGeneralNoise",
	}
}

func (op *PragmaGeneralNoise) IsParametrized() bool { return !op.GateTime.IsConstant() }

func (op *PragmaGeneralNoise) InvolvedQubits() InvolvedQubits { return QubitSet(op.Qubit) }

func (op *PragmaGeneralNoise) SubstituteParameters(cal *calculator.Calculator) (Operation, error) {
	out := *op
	if err := substituteValues(cal, &out.GateTime); err != nil {
		return nil, err
	}
	return &out, nil
}

func (op *PragmaGeneralNoise) RemapQubits(mapping map[int]int) (Operation, error) {
	if err := checkMapping(mapping); err != nil {
		return nil, err
	}
	out := *op
	out.Qubit = mapQubit(mapping, op.Qubit)
	return &out, nil
}

// lindbladSuperoperators are the superoperator contributions of the nine
// L_i rho L_j^dag terms over the basis 0: sigma+, 1: sigma-, 2: sigmaz,
// acting on the row-major vectorized density matrix.
var lindbladSuperoperators = [3][3][16]float64{
	{
		{ // sigma+ sigma+
			0, 0, 0, 1,
			0, -0.5, 0, 0,
			0, 0, -0.5, 0,
			0, 0, 0, -1,
		},
		{ // sigma+ sigma-
			0, 0, 0, 0,
			0, 0, 1, 0,
			0, 0, 0, 0,
			0, 0, 0, 0,
		},
		{ // sigma+ sigmaz
			0, 0, 0.5, 0,
			-0.5, 0, 0, -1.5,
			0, 0, 0, 0,
			0, 0, -0.5, 0,
		},
	},
	{
		{ // sigma- sigma+
			0, 0, 0, 0,
			0, 0, 0, 0,
			0, 1, 0, 0,
			0, 0, 0, 0,
		},
		{ // sigma- sigma-
			-1, 0, 0, 0,
			0, -0.5, 0, 0,
			0, 0, -0.5, 0,
			1, 0, 0, 0,
		},
		{ // sigma- sigmaz
			0, 0.5, 0, 0,
			0, 0, 0, 0,
			1.5, 0, 0, 0.5,
			0, -0.5, 0, 0,
		},
	},
	{
		{ // sigmaz sigma+
			0, 0.5, 0, 0,
			0, 0, 0, 0,
			-0.5, 0, 0, -1.5,
			0, -0.5, 0, 0,
		},
		{ // sigmaz sigma-
			0, 0, 0.5, 0,
			1.5, 0, 0, 0.5,
			0, 0, 0, 0,
			0, 0, -0.5, 0,
		},
		{ // sigmaz sigmaz
			0, 0, 0, 0,
			0, -2, 0, 0,
			0, 0, -2, 0,
			0, 0, 0, 0,
		},
	},
}

// Superoperator integrates the Lindblad generator for GateTime via the
// matrix exponential.
func (op *PragmaGeneralNoise) Superoperator() (*mat.Dense, error) {
	if err := checkRatesPositiveSemidefinite(op.Rates); err != nil {
		return nil, err
	}
	gateTime, err := op.GateTime.Float()
	if err != nil {
		return nil, err
	}
	generator := mat.NewDense(4, 4, nil)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			coeff := gateTime * op.Rates[i][j]
			if coeff == 0 {
				continue
			}
			for k, v := range lindbladSuperoperators[i][j] {
				generator.Set(k/4, k%4, generator.At(k/4, k%4)+coeff*v)
			}
		}
	}
	var superop mat.Dense
	superop.Exp(generator)
	return &superop, nil
}

func (op *PragmaGeneralNoise) PowerCF(power calculator.Value) PragmaNoiseOperation {
	out := *op
	out.GateTime = power.Mul(op.GateTime)
	return &out
}

func checkRatesPositiveSemidefinite(rates [3][3]float64) error {
	sym := mat.NewSymDense(3, nil)
	for i := 0; i < 3; i++ {
		for j := i; j < 3; j++ {
			sym.SetSym(i, j, 0.5*(rates[i][j]+rates[j][i]))
		}
	}
	var eig mat.EigenSym
	if !eig.Factorize(sym, false) {
		return &NotPositiveSemidefiniteError{Eigenvalue: math.NaN()}
	}
	for _, v := range eig.Values(nil) {
		if v < -PositiveSemidefiniteTolerance {
			return &NotPositiveSemidefiniteError{Eigenvalue: v}
		}
	}
	return nil
}

func noiseParams(gateTime, rate calculator.Value) (float64, float64, error) {
	t, err := gateTime.Float()
	if err != nil {
		return 0, 0, err
	}
	r, err := rate.Float()
	if err != nil {
		return 0, 0, err
	}
	return t, r, nil
}

func dephasingSuperoperator(gateTime, rate float64) *mat.Dense {
	prob := 0.5 * (1 - math.Exp(-2*gateTime*rate))
	return mat.NewDense(4, 4, []float64{
		1, 0, 0, 0,
		0, 1 - 2*prob, 0, 0,
		0, 0, 1 - 2*prob, 0,
		0, 0, 0, 1,
	})
}
