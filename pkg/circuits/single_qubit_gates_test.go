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

func assertUnitary2x2(t *testing.T, u *mat.CDense) {
	t.Helper()
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			// (u u^H)_{ij}
			got := complex(0, 0)
			for k := 0; k < 2; k++ {
				got += u.At(i, k) * cmplx.Conj(u.At(j, k))
			}
			want := complex(0, 0)
			if i == j {
				want = complex(1, 0)
			}
			assert.InDelta(t, real(want), real(got), 1e-10)
			assert.InDelta(t, imag(want), imag(got), 1e-10)
		}
	}
}

func TestFixedSingleQubitGatesAreUnitary(t *testing.T) {
	gates := []SingleQubitGateOperation{
		&PauliX{Qubit: 0},
		&PauliY{Qubit: 0},
		&PauliZ{Qubit: 0},
		&SqrtPauliX{Qubit: 0},
		&InvSqrtPauliX{Qubit: 0},
		&Hadamard{Qubit: 0},
		&SGate{Qubit: 0},
		&TGate{Qubit: 0},
	}
	for _, gate := range gates {
		u, err := gate.UnitaryMatrix()
		require.NoError(t, err, gate.Kind())
		assertUnitary2x2(t, u)
	}
}

func TestRotationGatesAreUnitary(t *testing.T) {
	angles := []float64{0, 0.3, math.Pi / 2, math.Pi, 2.5}
	for _, angle := range angles {
		theta := calculator.Float(angle)
		gates := []SingleQubitGateOperation{
			&RotateX{Qubit: 1, Theta: theta},
			&RotateY{Qubit: 1, Theta: theta},
			&RotateZ{Qubit: 1, Theta: theta},
			&PhaseShiftState0{Qubit: 1, Theta: theta},
			&PhaseShiftState1{Qubit: 1, Theta: theta},
			&RotateAroundSphericalAxis{
				Qubit: 1, Theta: theta,
				SphericalTheta: calculator.Float(0.7),
				SphericalPhi:   calculator.Float(1.2),
			},
			&RotateXY{Qubit: 1, Theta: theta, Phi: calculator.Float(0.4)},
		}
		for _, gate := range gates {
			u, err := gate.UnitaryMatrix()
			require.NoError(t, err, gate.Kind())
			assertUnitary2x2(t, u)
		}
	}
}

func TestRotateXMatrix(t *testing.T) {
	gate := &RotateX{Qubit: 0, Theta: calculator.Float(math.Pi)}

	u, err := gate.UnitaryMatrix()
	require.NoError(t, err)

	assert.InDelta(t, 0, real(u.At(0, 0)), 1e-12)
	assert.InDelta(t, -1, imag(u.At(0, 1)), 1e-12)
	assert.InDelta(t, -1, imag(u.At(1, 0)), 1e-12)
	assert.InDelta(t, 0, real(u.At(1, 1)), 1e-12)
}

func TestHadamardMatrix(t *testing.T) {
	gate := &Hadamard{Qubit: 0}

	u, err := gate.UnitaryMatrix()
	require.NoError(t, err)

	s := 1 / math.Sqrt2
	assert.InDelta(t, s, real(u.At(0, 0)), 1e-12)
	assert.InDelta(t, s, real(u.At(0, 1)), 1e-12)
	assert.InDelta(t, s, real(u.At(1, 0)), 1e-12)
	assert.InDelta(t, -s, real(u.At(1, 1)), 1e-12)
}

func TestSymbolicGateHasNoMatrix(t *testing.T) {
	gate := &RotateZ{Qubit: 0, Theta: calculator.Variable("theta")}

	assert.True(t, gate.IsParametrized())
	_, err := gate.UnitaryMatrix()
	assert.Error(t, err)
}

func TestSubstituteParametersResolvesGate(t *testing.T) {
	gate := &RotateZ{Qubit: 0, Theta: calculator.Variable("theta")}
	cal := calculator.New()
	cal.Set("theta", math.Pi/2)

	substituted, err := gate.SubstituteParameters(cal)
	require.NoError(t, err)

	resolved, ok := substituted.(*RotateZ)
	require.True(t, ok)
	assert.False(t, resolved.IsParametrized())
	angle, err := resolved.Theta.Float()
	require.NoError(t, err)
	assert.InDelta(t, math.Pi/2, angle, 1e-12)
}

func TestSubstituteParametersUnboundVariableFails(t *testing.T) {
	gate := &RotateZ{Qubit: 0, Theta: calculator.Variable("theta")}

	_, err := gate.SubstituteParameters(calculator.New())
	assert.Error(t, err)
}

func TestRotationPowerScalesAngle(t *testing.T) {
	gate := &RotateX{Qubit: 0, Theta: calculator.Float(math.Pi)}

	halved := gate.PowerCF(calculator.Float(0.5))

	angle, err := halved.Angle().Float()
	require.NoError(t, err)
	assert.InDelta(t, math.Pi/2, angle, 1e-12)
	assert.Equal(t, "RotateX", halved.Kind())
}

func TestMultiplyRotationsAddsAngles(t *testing.T) {
	left := &RotateZ{Qubit: 2, Theta: calculator.Float(0.7)}
	right := &RotateZ{Qubit: 2, Theta: calculator.Float(0.5)}

	product, err := MultiplySingleQubitGates(left, right)
	require.NoError(t, err)

	combined := &RotateZ{Qubit: 2, Theta: calculator.Float(1.2)}
	wantU, err := combined.UnitaryMatrix()
	require.NoError(t, err)
	gotU, err := product.UnitaryMatrix()
	require.NoError(t, err)
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			assert.InDelta(t, real(wantU.At(i, j)), real(gotU.At(i, j)), 1e-10)
			assert.InDelta(t, imag(wantU.At(i, j)), imag(gotU.At(i, j)), 1e-10)
		}
	}
}

func TestMultiplyDifferentQubitsFails(t *testing.T) {
	left := &PauliX{Qubit: 0}
	right := &PauliY{Qubit: 1}

	_, err := MultiplySingleQubitGates(left, right)
	var incompatible *IncompatibleQubitsError
	require.ErrorAs(t, err, &incompatible)
	assert.Equal(t, 0, incompatible.Left)
	assert.Equal(t, 1, incompatible.Right)
}

func TestInvalidCoefficientsRejected(t *testing.T) {
	gate := &SingleQubitGate{
		Qubit:     0,
		AlphaReal: calculator.Float(1),
		AlphaImag: calculator.Float(0),
		BetaReal:  calculator.Float(1),
		BetaImag:  calculator.Float(0),
		Phase:     calculator.Float(0),
	}

	_, err := gate.UnitaryMatrix()
	var unitaryErr *UnitaryMatrixError
	require.ErrorAs(t, err, &unitaryErr)
	assert.InDelta(t, 2.0, unitaryErr.Norm, 1e-12)
}

func TestRemapSingleQubitGate(t *testing.T) {
	gate := &Hadamard{Qubit: 0}

	remapped, err := gate.RemapQubits(map[int]int{0: 3, 3: 0})
	require.NoError(t, err)
	assert.Equal(t, []int{3}, remapped.InvolvedQubits().List())
}

func TestRemapRejectsNonPermutation(t *testing.T) {
	gate := &Hadamard{Qubit: 0}

	_, err := gate.RemapQubits(map[int]int{0: 3})
	var mappingErr *QubitMappingError
	assert.ErrorAs(t, err, &mappingErr)
}

func TestToSingleQubitGateKeepsUnitary(t *testing.T) {
	source := &SGate{Qubit: 1}
	generic := ToSingleQubitGate(source)

	wantU, err := source.UnitaryMatrix()
	require.NoError(t, err)
	gotU, err := generic.UnitaryMatrix()
	require.NoError(t, err)
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			assert.InDelta(t, real(wantU.At(i, j)), real(gotU.At(i, j)), 1e-12)
			assert.InDelta(t, imag(wantU.At(i, j)), imag(gotU.At(i, j)), 1e-12)
		}
	}
}
