package library

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/entangle/internal/database"
	"github.com/aristath/entangle/pkg/calculator"
	"github.com/aristath/entangle/pkg/circuits"
	"github.com/aristath/entangle/pkg/measurements"
	"github.com/aristath/entangle/pkg/programs"
	"github.com/aristath/entangle/pkg/registers"
)

func newTestService(t *testing.T) *Service {
	t.Helper()

	db, err := database.New(database.Config{
		Path: filepath.Join(t.TempDir(), "library.db"),
		Name: "library",
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, db.Migrate())

	repo := NewRepository(db.Conn(), zerolog.Nop())
	return NewService(repo, zerolog.Nop())
}

func newTestProgram(t *testing.T) *programs.QuantumProgram {
	t.Helper()

	input := measurements.NewPauliZProductInput(1, false)
	index, err := input.AddPauliZProduct("ro", []int{0})
	require.NoError(t, err)
	require.NoError(t, input.AddLinearExpVal("z0", map[int]float64{index: 1}))

	circuit := circuits.NewCircuit()
	circuit.Add(&circuits.DefinitionBit{Name: "ro", Length: 1, IsOutput: true})
	circuit.Add(&circuits.RotateX{Qubit: 0, Theta: calculator.Variable("angle")})
	circuit.Add(&circuits.MeasureQubit{Qubit: 0, Readout: "ro", ReadoutIndex: 0})

	return &programs.QuantumProgram{
		Measurement: &measurements.PauliZProduct{
			Members: []*circuits.Circuit{circuit},
			Input:   input,
		},
		InputParameterNames: []string{"angle"},
	}
}

func TestCreateAndGetRoundTrip(t *testing.T) {
	svc := newTestService(t)

	record, err := svc.Create("bell test", "single qubit Z", newTestProgram(t))
	require.NoError(t, err)
	assert.NotEmpty(t, record.ID)
	assert.Equal(t, "PauliZProduct", record.Measurement)
	assert.Equal(t, []string{"angle"}, record.InputParameterNames)

	fetched, err := svc.Get(record.ID)
	require.NoError(t, err)
	assert.Equal(t, record.Name, fetched.Name)

	decoded, err := svc.Decode(fetched)
	require.NoError(t, err)
	assert.Equal(t, "PauliZProduct", decoded.Measurement.Kind())
	assert.Equal(t, []string{"angle"}, decoded.InputParameterNames)
	require.Len(t, decoded.Measurement.Circuits(), 1)
	assert.Equal(t, 3, decoded.Measurement.Circuits()[0].Len())
}

func TestGet_NotFound(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Get("missing")
	var notFound *NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "missing", notFound.ID)
}

func TestList_OrderedByUpdate(t *testing.T) {
	svc := newTestService(t)

	first, err := svc.Create("first", "", newTestProgram(t))
	require.NoError(t, err)

	// Make the second program strictly newer.
	second, err := svc.Create("second", "", newTestProgram(t))
	require.NoError(t, err)
	second.UpdatedAt = first.UpdatedAt.Add(time.Minute)
	require.NoError(t, svc.repo.Save(second))

	records, err := svc.List()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "second", records[0].Name)
}

func TestDelete_RemovesProgramAndResults(t *testing.T) {
	svc := newTestService(t)

	record, err := svc.Create("doomed", "", newTestProgram(t))
	require.NoError(t, err)

	regs := registers.NewRegisters()
	regs.Bits["ro"] = registers.BitOutputRegister{{false}, {false}}
	_, err = svc.Evaluate(record.ID, []float64{0.5}, regs)
	require.NoError(t, err)

	require.NoError(t, svc.Delete(record.ID))

	_, err = svc.Get(record.ID)
	var notFound *NotFoundError
	assert.ErrorAs(t, err, &notFound)

	count, err := svc.repo.CountResults()
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}

func TestDelete_NotFound(t *testing.T) {
	svc := newTestService(t)

	var notFound *NotFoundError
	assert.ErrorAs(t, svc.Delete("missing"), &notFound)
}

func TestEvaluate_StoresResult(t *testing.T) {
	svc := newTestService(t)

	record, err := svc.Create("measured", "", newTestProgram(t))
	require.NoError(t, err)

	regs := registers.NewRegisters()
	regs.Bits["ro"] = registers.BitOutputRegister{
		{false}, {true}, {false}, {false},
	}

	result, err := svc.Evaluate(record.ID, []float64{1.57}, regs)
	require.NoError(t, err)
	// parities: +1, -1, +1, +1 -> mean 0.5
	assert.InDelta(t, 0.5, result.Expectation["z0"], 1e-12)
	assert.Equal(t, []float64{1.57}, result.Parameters)

	stored, err := svc.Results(record.ID, 10)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.InDelta(t, 0.5, stored[0].Expectation["z0"], 1e-12)
}

func TestEvaluate_ParameterCountMismatch(t *testing.T) {
	svc := newTestService(t)

	record, err := svc.Create("strict", "", newTestProgram(t))
	require.NoError(t, err)

	_, err = svc.Evaluate(record.ID, []float64{1.0, 2.0}, registers.NewRegisters())
	var countErr *programs.ParameterCountError
	require.ErrorAs(t, err, &countErr)
	assert.Equal(t, 1, countErr.Expected)
	assert.Equal(t, 2, countErr.Given)
}

func TestEvaluate_ClassicalRegisterRejected(t *testing.T) {
	svc := newTestService(t)

	circuit := circuits.NewCircuit()
	circuit.Add(&circuits.DefinitionBit{Name: "ro", Length: 1, IsOutput: true})

	program := &programs.QuantumProgram{
		Measurement: &measurements.ClassicalRegister{
			Members: []*circuits.Circuit{circuit},
		},
		InputParameterNames: []string{},
	}

	record, err := svc.Create("raw", "", program)
	require.NoError(t, err)

	_, err = svc.Evaluate(record.ID, nil, registers.NewRegisters())
	var notEvaluatable *NotEvaluatableError
	require.ErrorAs(t, err, &notEvaluatable)
	assert.Equal(t, "ClassicalRegister", notEvaluatable.Kind)
}

func TestExport_ReturnsStoredPayload(t *testing.T) {
	svc := newTestService(t)

	record, err := svc.Create("exported", "", newTestProgram(t))
	require.NoError(t, err)

	payload, err := svc.Export(record.ID)
	require.NoError(t, err)
	assert.Equal(t, record.Payload, payload)
	assert.NotEmpty(t, payload)
}

func TestRepository_DeleteResultsBefore(t *testing.T) {
	svc := newTestService(t)

	record, err := svc.Create("pruned", "", newTestProgram(t))
	require.NoError(t, err)

	old := &EvaluationResult{
		ID:          "old-result",
		ProgramID:   record.ID,
		Parameters:  []float64{0},
		Expectation: map[string]float64{"z0": 1},
		CreatedAt:   time.Now().UTC().Add(-48 * time.Hour),
	}
	require.NoError(t, svc.repo.SaveResult(old))

	fresh := &EvaluationResult{
		ID:          "fresh-result",
		ProgramID:   record.ID,
		Parameters:  []float64{0},
		Expectation: map[string]float64{"z0": 1},
		CreatedAt:   time.Now().UTC(),
	}
	require.NoError(t, svc.repo.SaveResult(fresh))

	removed, err := svc.repo.DeleteResultsBefore(time.Now().UTC().Add(-24 * time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	remaining, err := svc.Results(record.ID, 10)
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, "fresh-result", remaining[0].ID)
}
