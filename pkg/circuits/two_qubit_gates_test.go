package circuits

import (
	"math"
	"math/cmplx"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/aristath/entangle/pkg/calculator"
)

func assertUnitary(t *testing.T, u *mat.CDense) {
	t.Helper()
	r, c := u.Dims()
	require.Equal(t, r, c)
	for i := 0; i < r; i++ {
		for j := 0; j < r; j++ {
			// (u u^H)_{ij}
			got := complex(0, 0)
			for k := 0; k < c; k++ {
				got += u.At(i, k) * cmplx.Conj(u.At(j, k))
			}
			want := 0.0
			if i == j {
				want = 1.0
			}
			assert.InDelta(t, want, real(got), 1e-10)
			assert.InDelta(t, 0, imag(got), 1e-10)
		}
	}
}

func TestTwoQubitGatesAreUnitary(t *testing.T) {
	theta := calculator.Float(0.8)
	phi := calculator.Float(0.3)

	constructors := []func() (GateOperation, error){
		func() (GateOperation, error) { return NewCNOT(1, 0) },
		func() (GateOperation, error) { return NewSWAP(1, 0) },
		func() (GateOperation, error) { return NewISwap(1, 0) },
		func() (GateOperation, error) { return NewFSwap(1, 0) },
		func() (GateOperation, error) { return NewSqrtISwap(1, 0) },
		func() (GateOperation, error) { return NewInvSqrtISwap(1, 0) },
		func() (GateOperation, error) { return NewXY(1, 0, theta) },
		func() (GateOperation, error) { return NewControlledPhaseShift(1, 0, theta) },
		func() (GateOperation, error) { return NewControlledPauliY(1, 0) },
		func() (GateOperation, error) { return NewControlledPauliZ(1, 0) },
		func() (GateOperation, error) { return NewMolmerSorensenXX(1, 0) },
		func() (GateOperation, error) { return NewVariableMSXX(1, 0, theta) },
		func() (GateOperation, error) { return NewGivensRotation(1, 0, theta, phi) },
		func() (GateOperation, error) { return NewGivensRotationLittleEndian(1, 0, theta, phi) },
		func() (GateOperation, error) {
			return NewQsim(1, 0, calculator.Float(0.5), calculator.Float(1.0), calculator.Float(-0.5))
		},
		func() (GateOperation, error) {
			return NewFsim(1, 0, calculator.Float(0.2), calculator.Float(0.4), calculator.Float(0.1))
		},
		func() (GateOperation, error) {
			return NewSpinInteraction(1, 0, calculator.Float(1.0), calculator.Float(2.0), calculator.Float(-1.0))
		},
		func() (GateOperation, error) {
			return NewBogoliubov(1, 0, calculator.Float(0.2), calculator.Float(0.3))
		},
		func() (GateOperation, error) { return NewPMInteraction(1, 0, theta) },
		func() (GateOperation, error) {
			return NewComplexPMInteraction(1, 0, calculator.Float(0.5), calculator.Float(-0.2))
		},
		func() (GateOperation, error) { return NewPhaseShiftedControlledZ(1, 0, phi) },
		func() (GateOperation, error) { return NewPhaseShiftedControlledPhase(1, 0, theta, phi) },
	}
	for _, build := range constructors {
		gate, err := build()
		require.NoError(t, err)
		u, err := gate.UnitaryMatrix()
		require.NoError(t, err, gate.Kind())
		assertUnitary(t, u)
	}
}

func TestDuplicateQubitsRejected(t *testing.T) {
	_, err := NewCNOT(3, 3)
	var dup *DuplicateQubitsError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "CNOT", dup.Gate)
	assert.Equal(t, 3, dup.Qubit)
}

func TestCNOTMatrix(t *testing.T) {
	gate, err := NewCNOT(1, 0)
	require.NoError(t, err)

	u, err := gate.UnitaryMatrix()
	require.NoError(t, err)

	want := []float64{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 0, 1,
		0, 0, 1, 0,
	}
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			assert.InDelta(t, want[i*4+j], real(u.At(i, j)), 1e-12)
			assert.InDelta(t, 0, imag(u.At(i, j)), 1e-12)
		}
	}
}

func TestISwapMatrix(t *testing.T) {
	gate, err := NewISwap(1, 0)
	require.NoError(t, err)

	u, err := gate.UnitaryMatrix()
	require.NoError(t, err)

	assert.InDelta(t, 1, real(u.At(0, 0)), 1e-12)
	assert.InDelta(t, 1, imag(u.At(1, 2)), 1e-12)
	assert.InDelta(t, 1, imag(u.At(2, 1)), 1e-12)
	assert.InDelta(t, 1, real(u.At(3, 3)), 1e-12)
	assert.InDelta(t, 0, real(u.At(1, 1)), 1e-12)
	assert.InDelta(t, 0, real(u.At(2, 2)), 1e-12)
}

func TestControlledPhaseShiftMatrix(t *testing.T) {
	gate, err := NewControlledPhaseShift(1, 0, calculator.Float(math.Pi/3))
	require.NoError(t, err)

	u, err := gate.UnitaryMatrix()
	require.NoError(t, err)

	assert.InDelta(t, math.Cos(math.Pi/3), real(u.At(3, 3)), 1e-12)
	assert.InDelta(t, math.Sin(math.Pi/3), imag(u.At(3, 3)), 1e-12)
	assert.InDelta(t, 1, real(u.At(0, 0)), 1e-12)
}

func TestTwoQubitRemapSwapsRoles(t *testing.T) {
	gate, err := NewCNOT(0, 1)
	require.NoError(t, err)

	remapped, err := gate.RemapQubits(map[int]int{0: 1, 1: 0})
	require.NoError(t, err)

	swapped, ok := remapped.(*CNOT)
	require.True(t, ok)
	assert.Equal(t, 1, swapped.ControlQubit())
	assert.Equal(t, 0, swapped.TargetQubit())
}

func TestVariableMSXXPower(t *testing.T) {
	gate, err := NewVariableMSXX(1, 0, calculator.Float(1.0))
	require.NoError(t, err)

	scaled := gate.PowerCF(calculator.Float(0.25))

	angle, err := scaled.Angle().Float()
	require.NoError(t, err)
	assert.InDelta(t, 0.25, angle, 1e-12)
}

func TestVariableMSXXMatchesFixedAtPiHalf(t *testing.T) {
	variable, err := NewVariableMSXX(1, 0, calculator.Float(math.Pi/2))
	require.NoError(t, err)
	fixed, err := NewMolmerSorensenXX(1, 0)
	require.NoError(t, err)

	wantU, err := fixed.UnitaryMatrix()
	require.NoError(t, err)
	gotU, err := variable.UnitaryMatrix()
	require.NoError(t, err)
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			assert.InDelta(t, real(wantU.At(i, j)), real(gotU.At(i, j)), 1e-10)
			assert.InDelta(t, imag(wantU.At(i, j)), imag(gotU.At(i, j)), 1e-10)
		}
	}
}

func TestKakDecompositionShape(t *testing.T) {
	gate, err := NewCNOT(1, 0)
	require.NoError(t, err)

	kak := gate.KakDecomposition()

	phase, err := kak.GlobalPhase.Float()
	require.NoError(t, err)
	assert.InDelta(t, math.Pi/4, phase, 1e-12)

	k0, err := kak.KVector[0].Float()
	require.NoError(t, err)
	assert.InDelta(t, math.Pi/4, k0, 1e-12)
	for _, component := range kak.KVector[1:] {
		v, err := component.Float()
		require.NoError(t, err)
		assert.InDelta(t, 0, v, 1e-12)
	}
	require.NotNil(t, kak.CircuitBefore)
	require.NotNil(t, kak.CircuitAfter)
	assert.Equal(t, 3, kak.CircuitBefore.Len())
	assert.Equal(t, 1, kak.CircuitAfter.Len())
}

func TestSymbolicTwoQubitGateSubstitution(t *testing.T) {
	gate, err := NewXY(1, 0, calculator.Variable("theta"))
	require.NoError(t, err)
	require.True(t, gate.IsParametrized())

	cal := calculator.New()
	cal.Set("theta", 0.9)
	substituted, err := gate.SubstituteParameters(cal)
	require.NoError(t, err)

	resolved, ok := substituted.(*XY)
	require.True(t, ok)
	assert.False(t, resolved.IsParametrized())
	u, err := resolved.UnitaryMatrix()
	require.NoError(t, err)
	assertUnitary(t, u)
}
