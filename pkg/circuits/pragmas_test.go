package circuits

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/entangle/pkg/calculator"
)

func TestPragmaInvolvement(t *testing.T) {
	assert.True(t, (&PragmaSetNumberOfMeasurements{NumberMeasurements: 10, Readout: "ro"}).InvolvedQubits().IsNone())
	assert.True(t, (&PragmaBoostNoise{NoiseCoefficient: calculator.Float(1.5)}).InvolvedQubits().IsNone())
	assert.True(t, (&PragmaGlobalPhase{Phase: calculator.Float(0.1)}).InvolvedQubits().IsNone())
	assert.True(t, (&PragmaRepeatGate{RepetitionCoefficient: 3}).InvolvedQubits().IsAll())
	assert.True(t, (&PragmaSetStateVector{}).InvolvedQubits().IsAll())
	assert.True(t, (&PragmaChangeDevice{}).InvolvedQubits().IsAll())

	sleep := &PragmaSleep{Qubits: []int{0, 2}, SleepTime: calculator.Float(0.01)}
	assert.Equal(t, []int{0, 2}, sleep.InvolvedQubits().List())
}

func TestPragmaSleepRemap(t *testing.T) {
	sleep := &PragmaSleep{Qubits: []int{0, 1}, SleepTime: calculator.Float(0.01)}

	remapped, err := sleep.RemapQubits(map[int]int{0: 1, 1: 0})
	require.NoError(t, err)
	assert.Equal(t, []int{1, 0}, remapped.(*PragmaSleep).Qubits)
}

func TestStartDecompositionBlockRemapNeedsFullCover(t *testing.T) {
	block := &PragmaStartDecompositionBlock{
		Qubits:               []int{0, 2},
		ReorderingDictionary: map[int]int{0: 2, 2: 0},
	}

	_, err := block.RemapQubits(map[int]int{0: 1, 1: 0})
	var mappingErr *QubitMappingError
	require.ErrorAs(t, err, &mappingErr)
	assert.Equal(t, 2, mappingErr.Qubit)

	remapped, err := block.RemapQubits(map[int]int{0: 2, 2: 0})
	require.NoError(t, err)
	rebuilt := remapped.(*PragmaStartDecompositionBlock)
	assert.Equal(t, []int{2, 0}, rebuilt.Qubits)
	assert.Equal(t, map[int]int{2: 0, 0: 2}, rebuilt.ReorderingDictionary)
}

func TestChangeDeviceOnlyIdentityRemap(t *testing.T) {
	pragma := &PragmaChangeDevice{WrappedHqslang: "pulse", WrappedOperation: []byte{0x1}}

	_, err := pragma.RemapQubits(map[int]int{0: 1, 1: 0})
	assert.Error(t, err)

	remapped, err := pragma.RemapQubits(map[int]int{0: 0, 1: 1})
	require.NoError(t, err)
	assert.Equal(t, pragma, remapped)
}

func TestPragmaGetPauliProductInvolvement(t *testing.T) {
	inner := NewCircuit()
	inner.Add(&Hadamard{Qubit: 3})
	pragma := &PragmaGetPauliProduct{
		QubitPaulis: map[int]int{0: 3, 1: 1},
		Readout:     "ro",
		Circuit:     inner,
	}

	// Mask qubits merge with the preparation circuit's qubits.
	assert.Equal(t, []int{0, 1, 3}, pragma.InvolvedQubits().List())

	saturated := NewCircuit()
	saturated.Add(&PragmaSetStateVector{StateVector: ComplexVector{1, 0}})
	pragma.Circuit = saturated
	assert.True(t, pragma.InvolvedQubits().IsAll())

	pragma.Circuit = nil
	assert.Equal(t, []int{0, 1}, pragma.InvolvedQubits().List())
}

func TestPragmaConditionalDelegatesToCircuit(t *testing.T) {
	inner := NewCircuit()
	inner.Add(&RotateX{Qubit: 4, Theta: calculator.Variable("theta")})
	pragma := &PragmaConditional{ConditionRegister: "ro", ConditionIndex: 0, Circuit: inner}

	assert.True(t, pragma.IsParametrized())
	assert.Equal(t, []int{4}, pragma.InvolvedQubits().List())

	cal := calculator.New()
	cal.Set("theta", 1.0)
	substituted, err := pragma.SubstituteParameters(cal)
	require.NoError(t, err)
	assert.False(t, substituted.IsParametrized())
}

func TestPragmaLoopSubstitution(t *testing.T) {
	inner := NewCircuit()
	inner.Add(&PauliX{Qubit: 0})
	loop := &PragmaLoop{Repetitions: calculator.Variable("reps"), Circuit: inner}

	assert.True(t, loop.IsParametrized())

	cal := calculator.New()
	cal.Set("reps", 5)
	substituted, err := loop.SubstituteParameters(cal)
	require.NoError(t, err)

	resolved := substituted.(*PragmaLoop)
	reps, err := resolved.Repetitions.Float()
	require.NoError(t, err)
	assert.Equal(t, 5.0, reps)
}

func TestPragmaDampingSuperoperator(t *testing.T) {
	pragma := &PragmaDamping{Qubit: 0, GateTime: calculator.Float(0.01), Rate: calculator.Float(2.0)}

	superop, err := pragma.Superoperator()
	require.NoError(t, err)

	t1 := math.Exp(-0.02)
	t2 := math.Exp(-0.01)
	assert.InDelta(t, 1, superop.At(0, 0), 1e-12)
	assert.InDelta(t, 1-t1, superop.At(0, 3), 1e-12)
	assert.InDelta(t, t2, superop.At(1, 1), 1e-12)
	assert.InDelta(t, t2, superop.At(2, 2), 1e-12)
	assert.InDelta(t, t1, superop.At(3, 3), 1e-12)
}

func TestPragmaDampingProbability(t *testing.T) {
	pragma := &PragmaDamping{Qubit: 0, GateTime: calculator.Float(0.01), Rate: calculator.Float(2.0)}

	prob, err := pragma.Probability()
	require.NoError(t, err)
	p, err := prob.Float()
	require.NoError(t, err)
	assert.InDelta(t, 1-math.Exp(-0.02), p, 1e-12)
}

func TestPragmaDepolarisingProbability(t *testing.T) {
	pragma := &PragmaDepolarising{Qubit: 0, GateTime: calculator.Float(0.1), Rate: calculator.Float(1.0)}

	prob, err := pragma.Probability()
	require.NoError(t, err)
	p, err := prob.Float()
	require.NoError(t, err)
	assert.InDelta(t, 0.75*(1-math.Exp(-0.1)), p, 1e-12)
}

func TestPragmaDephasingSuperoperator(t *testing.T) {
	pragma := &PragmaDephasing{Qubit: 0, GateTime: calculator.Float(0.1), Rate: calculator.Float(0.5)}

	superop, err := pragma.Superoperator()
	require.NoError(t, err)

	p := 0.5 * (1 - math.Exp(-2*0.1*0.5))
	assert.InDelta(t, 1, superop.At(0, 0), 1e-12)
	assert.InDelta(t, 1-2*p, superop.At(1, 1), 1e-12)
	assert.InDelta(t, 1-2*p, superop.At(2, 2), 1e-12)
	assert.InDelta(t, 1, superop.At(3, 3), 1e-12)
}

func TestPragmaRandomNoiseProbability(t *testing.T) {
	pragma := &PragmaRandomNoise{
		Qubit:            0,
		GateTime:         calculator.Float(0.1),
		DepolarisingRate: calculator.Float(2.0),
		DephasingRate:    calculator.Float(1.0),
	}

	prob, err := pragma.Probability()
	require.NoError(t, err)
	p, err := prob.Float()
	require.NoError(t, err)
	assert.InDelta(t, (3*2.0/4+1.0)*0.1, p, 1e-12)
}

func TestNoisePowerScalesGateTime(t *testing.T) {
	pragma := &PragmaDamping{Qubit: 0, GateTime: calculator.Float(0.4), Rate: calculator.Float(1.0)}

	scaled := pragma.PowerCF(calculator.Float(0.5))

	damping, ok := scaled.(*PragmaDamping)
	require.True(t, ok)
	gateTime, err := damping.GateTime.Float()
	require.NoError(t, err)
	assert.InDelta(t, 0.2, gateTime, 1e-12)
}

func TestGeneralNoiseZeroRatesIsIdentity(t *testing.T) {
	pragma := &PragmaGeneralNoise{Qubit: 0, GateTime: calculator.Float(1.0)}

	superop, err := pragma.Superoperator()
	require.NoError(t, err)
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			want := 0.0
			if i == j {
				want = 1.0
			}
			assert.InDelta(t, want, superop.At(i, j), 1e-12)
		}
	}
}

func TestGeneralNoiseDampingEquivalence(t *testing.T) {
	rate := 0.7
	gateTime := 0.3
	general := &PragmaGeneralNoise{
		Qubit:    0,
		GateTime: calculator.Float(gateTime),
		Rates:    [3][3]float64{{rate, 0, 0}, {0, 0, 0}, {0, 0, 0}},
	}
	damping := &PragmaDamping{Qubit: 0, GateTime: calculator.Float(gateTime), Rate: calculator.Float(rate)}

	wantOp, err := damping.Superoperator()
	require.NoError(t, err)
	gotOp, err := general.Superoperator()
	require.NoError(t, err)
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			assert.InDelta(t, wantOp.At(i, j), gotOp.At(i, j), 1e-9)
		}
	}
}

func TestGeneralNoiseRejectsNegativeRates(t *testing.T) {
	pragma := &PragmaGeneralNoise{
		Qubit:    0,
		GateTime: calculator.Float(1.0),
		Rates:    [3][3]float64{{-1, 0, 0}, {0, 0, 0}, {0, 0, 0}},
	}

	_, err := pragma.Superoperator()
	var psdErr *NotPositiveSemidefiniteError
	require.ErrorAs(t, err, &psdErr)
	assert.InDelta(t, -1, psdErr.Eigenvalue, 1e-12)
}

func TestNoiseRemap(t *testing.T) {
	pragma := &PragmaDepolarising{Qubit: 1, GateTime: calculator.Float(0.1), Rate: calculator.Float(1)}

	remapped, err := pragma.RemapQubits(map[int]int{1: 4, 4: 1})
	require.NoError(t, err)
	assert.Equal(t, []int{4}, remapped.InvolvedQubits().List())
}
