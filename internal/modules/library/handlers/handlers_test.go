package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"nhooyr.io/websocket"

	"github.com/aristath/entangle/internal/database"
	"github.com/aristath/entangle/internal/modules/library"
	"github.com/aristath/entangle/pkg/calculator"
	"github.com/aristath/entangle/pkg/circuits"
	"github.com/aristath/entangle/pkg/measurements"
	"github.com/aristath/entangle/pkg/programs"
)

func newTestRouter(t *testing.T) (*chi.Mux, *library.Service) {
	t.Helper()

	db, err := database.New(database.Config{
		Path: filepath.Join(t.TempDir(), "library.db"),
		Name: "library",
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, db.Migrate())

	repo := library.NewRepository(db.Conn(), zerolog.Nop())
	service := library.NewService(repo, zerolog.Nop())

	handler := NewHandler(service, []string{"*"}, zerolog.Nop())
	router := chi.NewRouter()
	router.Route("/api", handler.RegisterRoutes)

	return router, service
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

func createProgram(t *testing.T, router *chi.Mux) string {
	t.Helper()

	programJSON, err := json.Marshal(newTestProgram(t))
	require.NoError(t, err)

	body, err := json.Marshal(map[string]json.RawMessage{
		"name":    json.RawMessage(`"test program"`),
		"program": programJSON,
	})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/programs", bytes.NewReader(body)))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created library.Program
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	require.NotEmpty(t, created.ID)
	return created.ID
}

func TestCreateAndList(t *testing.T) {
	router, _ := newTestRouter(t)

	id := createProgram(t, router)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/programs", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var listed []library.Program
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listed))
	require.Len(t, listed, 1)
	assert.Equal(t, id, listed[0].ID)
	assert.Equal(t, "PauliZProduct", listed[0].Measurement)
}

func TestCreate_RejectsMalformedProgram(t *testing.T) {
	router, _ := newTestRouter(t)

	body := `{"name": "broken", "program": {"measurement": {"type": "NoSuchMeasurement", "measurement": {}}, "input_parameter_names": []}}`
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/programs", strings.NewReader(body)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreate_RequiresName(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/programs", strings.NewReader(`{"program": {}}`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGet_IncludesDefinition(t *testing.T) {
	router, _ := newTestRouter(t)
	id := createProgram(t, router)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/programs/"+id, nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var response struct {
		ID      string          `json:"id"`
		Program json.RawMessage `json:"program"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.Equal(t, id, response.ID)

	var decoded programs.QuantumProgram
	require.NoError(t, json.Unmarshal(response.Program, &decoded))
	assert.Equal(t, "PauliZProduct", decoded.Measurement.Kind())
}

func TestGet_NotFound(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/programs/missing", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDelete(t *testing.T) {
	router, _ := newTestRouter(t)
	id := createProgram(t, router)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/programs/"+id, nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/programs/"+id, nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestExport_ServesMsgpack(t *testing.T) {
	router, service := newTestRouter(t)
	id := createProgram(t, router)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/programs/"+id+"/export", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/msgpack", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "attachment")

	payload, err := service.Export(id)
	require.NoError(t, err)
	assert.Equal(t, payload, rec.Body.Bytes())
}

func TestEvaluate(t *testing.T) {
	router, _ := newTestRouter(t)
	id := createProgram(t, router)

	body := `{"parameters": [1.57], "registers": {"bits": {"ro": [[false], [true], [false], [false]]}}}`
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/programs/"+id+"/evaluate", strings.NewReader(body)))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var result library.EvaluationResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.InDelta(t, 0.5, result.Expectation["z0"], 1e-12)

	// The result should now be listed.
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/programs/"+id+"/results", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var results []library.EvaluationResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &results))
	require.Len(t, results, 1)
	assert.Equal(t, result.ID, results[0].ID)
}

func TestEvaluate_WrongParameterCount(t *testing.T) {
	router, _ := newTestRouter(t)
	id := createProgram(t, router)

	body := `{"parameters": [], "registers": {"bits": {"ro": [[false]]}}}`
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/programs/"+id+"/evaluate", strings.NewReader(body)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestEvaluate_MissingRegister(t *testing.T) {
	router, _ := newTestRouter(t)
	id := createProgram(t, router)

	body := `{"parameters": [0.0], "registers": {"bits": {"wrong_name": [[false]]}}}`
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/programs/"+id+"/evaluate", strings.NewReader(body)))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestStream_RunningEstimates(t *testing.T) {
	router, _ := newTestRouter(t)
	id := createProgram(t, router)

	server := httptest.NewServer(router)
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/api/programs/" + id + "/stream"
	conn, _, err := websocket.Dial(ctx, wsURL, nil)
	require.NoError(t, err)
	defer conn.Close(websocket.StatusNormalClosure, "")

	send := func(batch string) streamUpdate {
		require.NoError(t, conn.Write(ctx, websocket.MessageText, []byte(batch)))
		_, data, err := conn.Read(ctx)
		require.NoError(t, err)
		var update streamUpdate
		require.NoError(t, json.Unmarshal(data, &update))
		return update
	}

	// Two shots, both |0>: estimate +1.
	update := send(`{"bits": {"ro": [[false], [false]]}}`)
	assert.Equal(t, 2, update.Shots)
	assert.InDelta(t, 1.0, update.Values["z0"], 1e-12)

	// Two more shots, both |1>: running estimate drops to 0.
	update = send(`{"bits": {"ro": [[true], [true]]}}`)
	assert.Equal(t, 4, update.Shots)
	assert.InDelta(t, 0.0, update.Values["z0"], 1e-12)
}

func TestStream_NotFound(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/programs/missing/stream", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestResults_InvalidLimit(t *testing.T) {
	router, _ := newTestRouter(t)
	id := createProgram(t, router)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/programs/%s/results?limit=zero", id), nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
