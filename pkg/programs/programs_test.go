package programs

import (
	"context"
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/aristath/entangle/pkg/calculator"
	"github.com/aristath/entangle/pkg/circuits"
	"github.com/aristath/entangle/pkg/measurements"
	"github.com/aristath/entangle/pkg/registers"
)

// deterministicBackend reads RotateX angles out of the resolved circuit
// and fabricates shots matching the ideal outcome probabilities.
type deterministicBackend struct {
	shots       int
	ranCircuits []*circuits.Circuit
}

func (b *deterministicBackend) RunCircuit(_ context.Context, circuit *circuits.Circuit) (registers.Registers, error) {
	b.ranCircuits = append(b.ranCircuits, circuit)
	out := registers.NewRegisters()
	for _, op := range circuit.Operations() {
		measure, ok := op.(*circuits.MeasureQubit)
		if !ok {
			continue
		}
		ones := 0
		for _, inner := range circuit.Operations() {
			if rotation, ok := inner.(*circuits.RotateX); ok && rotation.Qubit == measure.Qubit {
				angle, err := rotation.Theta.Float()
				if err != nil {
					return registers.Registers{}, err
				}
				p := math.Sin(angle/2) * math.Sin(angle/2)
				ones = int(math.Round(p * float64(b.shots)))
			}
		}
		rows := make(registers.BitOutputRegister, b.shots)
		for shot := range rows {
			rows[shot] = registers.BitRegister{shot < ones}
		}
		out.Bits[measure.Readout] = rows
	}
	return out, nil
}

func newProgram(t *testing.T) *QuantumProgram {
	t.Helper()
	input := measurements.NewPauliZProductInput(1, false)
	index, err := input.AddPauliZProduct("ro", []int{0})
	require.NoError(t, err)
	require.NoError(t, input.AddLinearExpVal("z", map[int]float64{index: 1}))

	circuit := circuits.NewCircuit()
	circuit.Add(&circuits.DefinitionBit{Name: "ro", Length: 1, IsOutput: true})
	circuit.Add(&circuits.RotateX{Qubit: 0, Theta: calculator.Variable("angle")})
	circuit.Add(&circuits.MeasureQubit{Qubit: 0, Readout: "ro", ReadoutIndex: 0})

	return &QuantumProgram{
		Measurement: &measurements.PauliZProduct{
			Members: []*circuits.Circuit{circuit},
			Input:   input,
		},
		InputParameterNames: []string{"angle"},
	}
}

func TestProgramRun(t *testing.T) {
	program := newProgram(t)
	backend := &deterministicBackend{shots: 1000}

	results, err := program.Run(context.Background(), backend, []float64{math.Pi})
	require.NoError(t, err)

	// RotateX(pi) flips the qubit, so <Z> is -1.
	assert.InDelta(t, -1.0, results["z"], 1e-12)
	require.Len(t, backend.ranCircuits, 1)
}

func TestProgramRunHalfRotation(t *testing.T) {
	program := newProgram(t)
	backend := &deterministicBackend{shots: 1000}

	results, err := program.Run(context.Background(), backend, []float64{math.Pi / 2})
	require.NoError(t, err)
	assert.InDelta(t, 0.0, results["z"], 1e-2)
}

func TestProgramParameterCount(t *testing.T) {
	program := newProgram(t)
	backend := &deterministicBackend{shots: 10}

	_, err := program.Run(context.Background(), backend, []float64{1.0, 2.0})
	var count *ParameterCountError
	require.ErrorAs(t, err, &count)
	assert.Equal(t, 1, count.Expected)
	assert.Equal(t, 2, count.Given)
}

func TestProgramRunOnClassicalRegisterFails(t *testing.T) {
	program := &QuantumProgram{Measurement: &measurements.ClassicalRegister{}}

	_, err := program.Run(context.Background(), &deterministicBackend{shots: 1}, nil)
	var mismatch *OutputMismatchError
	require.ErrorAs(t, err, &mismatch)
	assert.Equal(t, "RunRegisters", mismatch.Wanted)
}

func TestProgramRunRegisters(t *testing.T) {
	circuit := circuits.NewCircuit()
	circuit.Add(&circuits.DefinitionBit{Name: "ro", Length: 1, IsOutput: true})
	circuit.Add(&circuits.RotateX{Qubit: 0, Theta: calculator.Float(math.Pi)})
	circuit.Add(&circuits.MeasureQubit{Qubit: 0, Readout: "ro", ReadoutIndex: 0})

	program := &QuantumProgram{
		Measurement: &measurements.ClassicalRegister{Members: []*circuits.Circuit{circuit}},
	}
	backend := &deterministicBackend{shots: 4}

	regs, err := program.RunRegisters(context.Background(), backend, nil)
	require.NoError(t, err)
	require.Len(t, regs.Bits["ro"], 4)
	assert.True(t, bool(regs.Bits["ro"][0][0]))
}

func TestProgramRunRegistersOnExpectationFails(t *testing.T) {
	program := newProgram(t)

	_, err := program.RunRegisters(context.Background(), &deterministicBackend{shots: 1}, []float64{1.0})
	var mismatch *OutputMismatchError
	require.ErrorAs(t, err, &mismatch)
	assert.Equal(t, "Run", mismatch.Wanted)
}

func TestConstantCircuitPrepended(t *testing.T) {
	constant := circuits.NewCircuit()
	constant.Add(&circuits.PauliX{Qubit: 0})
	member := circuits.NewCircuit()
	member.Add(&circuits.DefinitionBit{Name: "ro", Length: 1, IsOutput: true})
	member.Add(&circuits.MeasureQubit{Qubit: 0, Readout: "ro", ReadoutIndex: 0})

	measurement := &measurements.ClassicalRegister{
		Constant: constant,
		Members:  []*circuits.Circuit{member},
	}
	backend := &deterministicBackend{shots: 1}

	_, err := RunMeasurementRegisters(context.Background(), backend, measurement)
	require.NoError(t, err)

	require.Len(t, backend.ranCircuits, 1)
	ran := backend.ranCircuits[0]
	assert.Equal(t, 3, ran.Len())
	assert.Equal(t, "PauliX", ran.Operations()[0].Kind())
}

func TestProgramJSONRoundTrip(t *testing.T) {
	program := newProgram(t)

	data, err := json.Marshal(program)
	require.NoError(t, err)

	var decoded QuantumProgram
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Equal(t, []string{"angle"}, decoded.InputParameterNames)
	restored, ok := decoded.Measurement.(*measurements.PauliZProduct)
	require.True(t, ok)
	assert.Equal(t, 1, restored.Input.NumberPauliProducts)
}

func TestProgramMsgpackRoundTrip(t *testing.T) {
	program := newProgram(t)

	data, err := msgpack.Marshal(program)
	require.NoError(t, err)

	var decoded QuantumProgram
	require.NoError(t, msgpack.Unmarshal(data, &decoded))

	assert.Equal(t, program.InputParameterNames, decoded.InputParameterNames)
	assert.Equal(t, "PauliZProduct", decoded.Measurement.Kind())
}

func TestProgramMinimumSupportedVersion(t *testing.T) {
	program := newProgram(t)
	assert.Equal(t, circuits.Version{Major: 1, Minor: 0, Patch: 0}, program.MinimumSupportedVersion())
}
