// Package handlers provides HTTP handlers for the program library.
package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/aristath/entangle/internal/modules/library"
	"github.com/aristath/entangle/pkg/programs"
	"github.com/aristath/entangle/pkg/registers"
)

// Handler provides HTTP handlers for program library endpoints
type Handler struct {
	service        *library.Service
	originPatterns []string
	log            zerolog.Logger
}

// NewHandler creates a new program library handler.
// originPatterns restricts which origins may open the result stream
// WebSocket; "*" allows any origin.
func NewHandler(service *library.Service, originPatterns []string, log zerolog.Logger) *Handler {
	return &Handler{
		service:        service,
		originPatterns: originPatterns,
		log:            log.With().Str("handler", "library").Logger(),
	}
}

// RegisterRoutes registers all program library routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/programs", func(r chi.Router) {
		r.Get("/", h.HandleList)
		r.Post("/", h.HandleCreate)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.HandleGet)
			r.Delete("/", h.HandleDelete)
			r.Get("/export", h.HandleExport)
			r.Post("/evaluate", h.HandleEvaluate)
			r.Get("/results", h.HandleResults)
			r.Get("/stream", h.HandleStream)
		})
	})
}

// createRequest is the body of POST /api/programs
type createRequest struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Program     json.RawMessage `json:"program"`
}

// registersPayload is the JSON form of measured output registers.
// Complex values are [real, imag] pairs.
type registersPayload struct {
	Bits      map[string][][]bool       `json:"bits,omitempty"`
	Floats    map[string][][]float64    `json:"floats,omitempty"`
	Complexes map[string][][][2]float64 `json:"complexes,omitempty"`
}

func (p *registersPayload) toRegisters() registers.Registers {
	regs := registers.NewRegisters()
	for name, rows := range p.Bits {
		out := make(registers.BitOutputRegister, len(rows))
		for i, row := range rows {
			out[i] = registers.BitRegister(row)
		}
		regs.Bits[name] = out
	}
	for name, rows := range p.Floats {
		out := make(registers.FloatOutputRegister, len(rows))
		for i, row := range rows {
			out[i] = registers.FloatRegister(row)
		}
		regs.Floats[name] = out
	}
	for name, rows := range p.Complexes {
		out := make(registers.ComplexOutputRegister, len(rows))
		for i, row := range rows {
			reg := make(registers.ComplexRegister, len(row))
			for j, pair := range row {
				reg[j] = complex(pair[0], pair[1])
			}
			out[i] = reg
		}
		regs.Complexes[name] = out
	}
	return regs
}

// evaluateRequest is the body of POST /api/programs/{id}/evaluate
type evaluateRequest struct {
	Parameters []float64        `json:"parameters"`
	Registers  registersPayload `json:"registers"`
}

// HandleCreate handles POST /api/programs
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Name == "" {
		http.Error(w, "Name is required", http.StatusBadRequest)
		return
	}
	if len(req.Program) == 0 {
		http.Error(w, "Program is required", http.StatusBadRequest)
		return
	}

	var program programs.QuantumProgram
	if err := json.Unmarshal(req.Program, &program); err != nil {
		h.log.Warn().Err(err).Msg("Rejected malformed program")
		http.Error(w, fmt.Sprintf("Invalid program: %v", err), http.StatusBadRequest)
		return
	}

	record, err := h.service.Create(req.Name, req.Description, &program)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to store program")
		http.Error(w, "Failed to store program", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusCreated)
	h.writeJSON(w, record)
}

// HandleList handles GET /api/programs
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	records, err := h.service.List()
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list programs")
		http.Error(w, "Failed to list programs", http.StatusInternalServerError)
		return
	}
	if records == nil {
		records = []*library.Program{}
	}
	h.writeJSON(w, records)
}

// HandleGet handles GET /api/programs/{id}
// The response includes the full program definition in JSON form.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	record, err := h.service.Get(chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, err)
		return
	}

	program, err := h.service.Decode(record)
	if err != nil {
		h.log.Error().Err(err).Str("id", record.ID).Msg("Failed to decode stored program")
		http.Error(w, "Failed to decode program", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, struct {
		*library.Program
		Definition *programs.QuantumProgram `json:"program"`
	}{record, program})
}

// HandleDelete handles DELETE /api/programs/{id}
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(chi.URLParam(r, "id")); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleExport handles GET /api/programs/{id}/export
// Serves the stored MessagePack encoding as a download.
func (h *Handler) HandleExport(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	payload, err := h.service.Export(id)
	if err != nil {
		h.writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/msgpack")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", id+".msgpack"))
	if _, err := w.Write(payload); err != nil {
		h.log.Error().Err(err).Str("id", id).Msg("Failed to write export response")
	}
}

// HandleEvaluate handles POST /api/programs/{id}/evaluate
func (h *Handler) HandleEvaluate(w http.ResponseWriter, r *http.Request) {
	var req evaluateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	result, err := h.service.Evaluate(chi.URLParam(r, "id"), req.Parameters, req.Registers.toRegisters())
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, result)
}

// HandleResults handles GET /api/programs/{id}/results
func (h *Handler) HandleResults(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			http.Error(w, "Invalid limit", http.StatusBadRequest)
			return
		}
		limit = parsed
	}

	results, err := h.service.Results(chi.URLParam(r, "id"), limit)
	if err != nil {
		h.writeError(w, err)
		return
	}
	if results == nil {
		results = []*library.EvaluationResult{}
	}
	h.writeJSON(w, results)
}

func (h *Handler) writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode response")
	}
}

// writeError maps service errors to HTTP status codes
func (h *Handler) writeError(w http.ResponseWriter, err error) {
	var notFound *library.NotFoundError
	if errors.As(err, &notFound) {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	var paramCount *programs.ParameterCountError
	var notEvaluatable *library.NotEvaluatableError
	if errors.As(err, &paramCount) || errors.As(err, &notEvaluatable) {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	// Measurement evaluation rejects register data that doesn't match the
	// stored program (missing registers, wrong dimensions). Those are
	// client errors too.
	if isEvaluationError(err) {
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	h.log.Error().Err(err).Msg("Request failed")
	http.Error(w, "Internal server error", http.StatusInternalServerError)
}
