package measurements

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/entangle/pkg/calculator"
	"github.com/aristath/entangle/pkg/circuits"
	"github.com/aristath/entangle/pkg/registers"
)

func TestAddPauliZProductValidatesQubits(t *testing.T) {
	input := NewPauliZProductInput(3, false)

	_, err := input.AddPauliZProduct("ro", []int{0, 3})
	var exceeds *PauliProductExceedsQubitsError
	require.ErrorAs(t, err, &exceeds)
	assert.Equal(t, 3, exceeds.Qubit)
}

func TestAddPauliZProductDedups(t *testing.T) {
	input := NewPauliZProductInput(3, false)

	first, err := input.AddPauliZProduct("ro", []int{0, 1})
	require.NoError(t, err)
	second, err := input.AddPauliZProduct("ro", []int{2})
	require.NoError(t, err)
	again, err := input.AddPauliZProduct("ro", []int{0, 1})
	require.NoError(t, err)

	assert.Equal(t, 0, first)
	assert.Equal(t, 1, second)
	assert.Equal(t, first, again)
	assert.Equal(t, 2, input.NumberPauliProducts)
}

func TestExpValNameUsedTwice(t *testing.T) {
	input := NewPauliZProductInput(1, false)

	require.NoError(t, input.AddLinearExpVal("energy", map[int]float64{0: 1}))
	err := input.AddSymbolicExpVal("energy", calculator.Variable("pauli_product_0"))
	var used *ExpValUsedTwiceError
	require.ErrorAs(t, err, &used)
	assert.Equal(t, "energy", used.Name)
}

func newPauliZMeasurement(t *testing.T, input *PauliZProductInput) *PauliZProduct {
	t.Helper()
	circuit := circuits.NewCircuit()
	circuit.Add(&circuits.DefinitionBit{Name: "ro", Length: input.NumberQubits, IsOutput: true})
	for q := 0; q < input.NumberQubits; q++ {
		circuit.Add(&circuits.MeasureQubit{Qubit: q, Readout: "ro", ReadoutIndex: q})
	}
	return &PauliZProduct{Members: []*circuits.Circuit{circuit}, Input: input}
}

func TestPauliZProductParityAveraging(t *testing.T) {
	input := NewPauliZProductInput(2, false)
	single, err := input.AddPauliZProduct("ro", []int{0})
	require.NoError(t, err)
	pair, err := input.AddPauliZProduct("ro", []int{0, 1})
	require.NoError(t, err)
	identity, err := input.AddPauliZProduct("ro", []int{})
	require.NoError(t, err)
	require.NoError(t, input.AddLinearExpVal("z0", map[int]float64{single: 1}))
	require.NoError(t, input.AddLinearExpVal("z0z1", map[int]float64{pair: 1}))
	require.NoError(t, input.AddLinearExpVal("unit", map[int]float64{identity: 1}))

	measurement := newPauliZMeasurement(t, input)

	regs := registers.NewRegisters()
	regs.Bits["ro"] = registers.BitOutputRegister{
		{false, false},
		{true, false},
		{true, true},
		{false, true},
	}

	results, err := measurement.Evaluate(regs)
	require.NoError(t, err)

	// shots: 00, 10, 11, 01 -> z0 parities +1, -1, -1, +1
	assert.InDelta(t, 0.0, results["z0"], 1e-12)
	// z0z1 parities +1, -1, +1, -1
	assert.InDelta(t, 0.0, results["z0z1"], 1e-12)
	assert.InDelta(t, 1.0, results["unit"], 1e-12)
}

func TestPauliZProductSuperpositionAverage(t *testing.T) {
	input := NewPauliZProductInput(1, false)
	index, err := input.AddPauliZProduct("ro", []int{0})
	require.NoError(t, err)
	require.NoError(t, input.AddLinearExpVal("z", map[int]float64{index: 1}))

	measurement := newPauliZMeasurement(t, input)

	// Alternating outcomes as an equal superposition would produce over
	// 1000 shots.
	shots := make(registers.BitOutputRegister, 1000)
	for i := range shots {
		shots[i] = registers.BitRegister{i%2 == 0}
	}
	regs := registers.NewRegisters()
	regs.Bits["ro"] = shots

	results, err := measurement.Evaluate(regs)
	require.NoError(t, err)
	assert.InDelta(t, 0.0, results["z"], 1e-12)
}

func TestPauliZProductLinearAndSymbolicAgree(t *testing.T) {
	input := NewPauliZProductInput(1, false)
	index, err := input.AddPauliZProduct("ro", []int{0})
	require.NoError(t, err)
	require.NoError(t, input.AddLinearExpVal("linear", map[int]float64{index: 3.0}))
	symbolic := calculator.Variable("pauli_product_0").Mul(calculator.Float(3.0))
	require.NoError(t, input.AddSymbolicExpVal("symbolic", symbolic))

	measurement := newPauliZMeasurement(t, input)

	regs := registers.NewRegisters()
	regs.Bits["ro"] = registers.BitOutputRegister{{false}, {false}, {true}, {false}}

	results, err := measurement.Evaluate(regs)
	require.NoError(t, err)
	assert.InDelta(t, results["linear"], results["symbolic"], 1e-12)
	assert.InDelta(t, 1.5, results["linear"], 1e-12)
}

func TestPauliZProductFlippedMixing(t *testing.T) {
	input := NewPauliZProductInput(1, true)
	index, err := input.AddPauliZProduct("ro", []int{0})
	require.NoError(t, err)
	require.NoError(t, input.AddLinearExpVal("z", map[int]float64{index: 1}))

	measurement := newPauliZMeasurement(t, input)

	regs := registers.NewRegisters()
	regs.Bits["ro"] = registers.BitOutputRegister{{false}, {false}}
	// Perfectly anti-correlated flipped readout.
	regs.Bits["ro_flipped"] = registers.BitOutputRegister{{true}, {true}}

	results, err := measurement.Evaluate(regs)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, results["z"], 1e-12)
}

func TestPauliZProductMissingRegister(t *testing.T) {
	input := NewPauliZProductInput(1, false)
	_, err := input.AddPauliZProduct("ro", []int{0})
	require.NoError(t, err)

	measurement := newPauliZMeasurement(t, input)

	_, err = measurement.Evaluate(registers.NewRegisters())
	var missing *MissingRegisterError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "ro", missing.Name)
}

func TestPauliZProductShortShotRow(t *testing.T) {
	input := NewPauliZProductInput(3, false)
	index, err := input.AddPauliZProduct("ro", []int{2})
	require.NoError(t, err)
	require.NoError(t, input.AddLinearExpVal("z2", map[int]float64{index: 1}))

	measurement := newPauliZMeasurement(t, input)

	// A backend returning truncated shots must surface an error instead
	// of panicking on the out-of-range bit.
	regs := registers.NewRegisters()
	regs.Bits["ro"] = registers.BitOutputRegister{{false}}

	_, err = measurement.Evaluate(regs)
	var short *ShortBitRegisterError
	require.ErrorAs(t, err, &short)
	assert.Equal(t, "ro", short.Name)
	assert.Equal(t, 2, short.Qubit)
	assert.Equal(t, 1, short.Length)
}

func TestPauliZProductFlippedRegisterMissing(t *testing.T) {
	input := NewPauliZProductInput(1, true)
	index, err := input.AddPauliZProduct("ro", []int{0})
	require.NoError(t, err)
	require.NoError(t, input.AddLinearExpVal("z", map[int]float64{index: 1}))

	measurement := newPauliZMeasurement(t, input)

	regs := registers.NewRegisters()
	regs.Bits["ro"] = registers.BitOutputRegister{{false}}

	_, err = measurement.Evaluate(regs)
	var missing *MissingRegisterError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "ro_flipped", missing.Name)
}

func TestCheatedPauliZProduct(t *testing.T) {
	input := NewCheatedPauliZProductInput()
	first := input.AddPauliZProduct("pp0")
	second := input.AddPauliZProduct("pp1")
	require.NoError(t, input.AddLinearExpVal("combined", map[int]float64{first: 0.5, second: 2.0}))

	measurement := &CheatedPauliZProduct{Input: input}

	regs := registers.NewRegisters()
	regs.Floats["pp0"] = registers.FloatOutputRegister{{1.0}}
	regs.Floats["pp1"] = registers.FloatOutputRegister{{-0.5}}

	results, err := measurement.Evaluate(regs)
	require.NoError(t, err)
	assert.InDelta(t, 0.5-1.0, results["combined"], 1e-12)
}

func TestCheatedStateVectorExpectation(t *testing.T) {
	input := NewCheatedInput(1)
	// PauliZ on one qubit.
	pauliZ := []OperatorEntry{
		{Row: 0, Col: 0, Real: 1},
		{Row: 1, Col: 1, Real: -1},
	}
	require.NoError(t, input.AddOperatorExpVal("z", pauliZ, "state"))

	measurement := &Cheated{Input: input}

	s := complex(1/math.Sqrt2, 0)
	regs := registers.NewRegisters()
	regs.Complexes["state"] = registers.ComplexOutputRegister{{s, s}}

	results, err := measurement.Evaluate(regs)
	require.NoError(t, err)
	assert.InDelta(t, 0.0, results["z"], 1e-12)
}

func TestCheatedDensityMatrixExpectation(t *testing.T) {
	input := NewCheatedInput(1)
	pauliZ := []OperatorEntry{
		{Row: 0, Col: 0, Real: 1},
		{Row: 1, Col: 1, Real: -1},
	}
	require.NoError(t, input.AddOperatorExpVal("z", pauliZ, "density"))

	measurement := &Cheated{Input: input}

	// rho = |0><0|, flattened row-major.
	regs := registers.NewRegisters()
	regs.Complexes["density"] = registers.ComplexOutputRegister{{1, 0, 0, 0}}

	results, err := measurement.Evaluate(regs)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, results["z"], 1e-12)
}

func TestCheatedRejectsBadRegisterDimension(t *testing.T) {
	input := NewCheatedInput(1)
	require.NoError(t, input.AddOperatorExpVal("z", []OperatorEntry{{Row: 0, Col: 0, Real: 1}}, "state"))

	measurement := &Cheated{Input: input}

	regs := registers.NewRegisters()
	regs.Complexes["state"] = registers.ComplexOutputRegister{{1, 0, 0}}

	_, err := measurement.Evaluate(regs)
	var mismatch *MismatchedRegisterDimensionError
	require.ErrorAs(t, err, &mismatch)
	assert.Equal(t, 3, mismatch.Dim)
}

func TestCheatedInputRejectsOversizedOperator(t *testing.T) {
	input := NewCheatedInput(1)

	err := input.AddOperatorExpVal("z", []OperatorEntry{{Row: 2, Col: 0, Real: 1}}, "state")
	var mismatch *MismatchedOperatorDimensionError
	require.ErrorAs(t, err, &mismatch)
	assert.Equal(t, 2, mismatch.Row)
}

func TestMeasurementSubstituteParameters(t *testing.T) {
	circuit := circuits.NewCircuit()
	circuit.Add(&circuits.RotateX{Qubit: 0, Theta: calculator.Variable("theta")})
	measurement := &PauliZProduct{
		Members: []*circuits.Circuit{circuit},
		Input:   NewPauliZProductInput(1, false),
	}

	substituted, err := measurement.SubstituteParameters(map[string]float64{"theta": math.Pi})
	require.NoError(t, err)
	assert.False(t, substituted.Circuits()[0].IsParametrized())

	_, err = measurement.SubstituteParameters(map[string]float64{})
	assert.Error(t, err)
}

func TestMeasurementJSONRoundTrip(t *testing.T) {
	input := NewPauliZProductInput(2, true)
	index, err := input.AddPauliZProduct("ro", []int{0, 1})
	require.NoError(t, err)
	require.NoError(t, input.AddLinearExpVal("z0z1", map[int]float64{index: 1}))

	measurement := newPauliZMeasurement(t, input)

	data, err := MarshalMeasurementJSON(measurement)
	require.NoError(t, err)
	decoded, err := UnmarshalMeasurementJSON(data)
	require.NoError(t, err)

	restored, ok := decoded.(*PauliZProduct)
	require.True(t, ok)
	assert.Equal(t, measurement.Input.NumberPauliProducts, restored.Input.NumberPauliProducts)
	assert.True(t, restored.Input.UseFlippedMeasurement)
	require.Len(t, restored.Members, 1)
	assert.Equal(t, measurement.Members[0].Len(), restored.Members[0].Len())
}

func TestMeasurementMsgpackRoundTrip(t *testing.T) {
	input := NewCheatedInput(1)
	require.NoError(t, input.AddOperatorExpVal("z", []OperatorEntry{
		{Row: 0, Col: 0, Real: 1},
		{Row: 1, Col: 1, Real: -1},
	}, "state"))
	measurement := &Cheated{Input: input}

	data, err := MarshalMeasurementMsgpack(measurement)
	require.NoError(t, err)
	decoded, err := UnmarshalMeasurementMsgpack(data)
	require.NoError(t, err)

	restored, ok := decoded.(*Cheated)
	require.True(t, ok)
	assert.Equal(t, 1, restored.Input.NumberQubits)
	assert.Len(t, restored.Input.MeasuredOperators["z"].Operator, 2)
}

func TestMeasurementUnknownType(t *testing.T) {
	_, err := UnmarshalMeasurementJSON([]byte(`{"type":"NotAMeasurement","measurement":{}}`))
	var unknown *UnknownMeasurementError
	assert.ErrorAs(t, err, &unknown)
}

func TestSymbolicExpValSurvivesJSON(t *testing.T) {
	input := NewCheatedPauliZProductInput()
	input.AddPauliZProduct("pp0")
	symbolic := calculator.Variable("pauli_product_0").Mul(calculator.Float(2))
	require.NoError(t, input.AddSymbolicExpVal("doubled", symbolic))

	data, err := json.Marshal(input)
	require.NoError(t, err)
	var decoded CheatedPauliZProductInput
	require.NoError(t, json.Unmarshal(data, &decoded))

	measurement := &CheatedPauliZProduct{Input: &decoded}
	regs := registers.NewRegisters()
	regs.Floats["pp0"] = registers.FloatOutputRegister{{0.5}}

	results, err := measurement.Evaluate(regs)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, results["doubled"], 1e-12)
}

func TestMinimumSupportedVersionTracksCircuits(t *testing.T) {
	plain := circuits.NewCircuit()
	plain.Add(&circuits.PauliX{Qubit: 0})
	measurement := &ClassicalRegister{Members: []*circuits.Circuit{plain}}
	assert.Equal(t, circuits.Version{Major: 1, Minor: 0, Patch: 0}, measurement.MinimumSupportedVersion())

	looped := circuits.NewCircuit()
	looped.Add(&circuits.PragmaLoop{Repetitions: calculator.Float(2), Circuit: circuits.NewCircuit()})
	measurement.Members = append(measurement.Members, looped)
	assert.Equal(t, circuits.Version{Major: 1, Minor: 1, Patch: 0}, measurement.MinimumSupportedVersion())
}
