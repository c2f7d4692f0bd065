package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"nhooyr.io/websocket"

	"github.com/aristath/entangle/internal/modules/library"
	"github.com/aristath/entangle/pkg/measurements"
	"github.com/aristath/entangle/pkg/registers"
)

// streamUpdate is sent to the client after every accepted register batch.
type streamUpdate struct {
	Shots  int                `json:"shots"`
	Values map[string]float64 `json:"values"`
}

// streamError is sent when a batch cannot be processed; the connection
// stays open so the client can continue with the next batch.
type streamError struct {
	Error string `json:"error"`
}

// HandleStream handles GET /api/programs/{id}/stream
//
// The client opens a WebSocket and sends register batches in the same JSON
// form the evaluate endpoint accepts. After every batch the server
// re-evaluates the stored program's measurement over all rows received so
// far and replies with the running expectation value estimates. Nothing is
// persisted; the stream exists to watch estimates converge while shots are
// still being collected.
func (h *Handler) HandleStream(w http.ResponseWriter, r *http.Request) {
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

	expectation, ok := program.Measurement.(measurements.ExpectationMeasurement)
	if !ok {
		h.writeError(w, &library.NotEvaluatableError{ID: record.ID, Kind: program.Measurement.Kind()})
		return
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: h.originPatterns,
	})
	if err != nil {
		h.log.Warn().Err(err).Msg("WebSocket accept failed")
		return
	}
	defer conn.Close(websocket.StatusInternalError, "stream aborted")

	h.log.Info().Str("id", record.ID).Msg("Result stream opened")

	accumulated := registers.NewRegisters()
	shots := 0

	for {
		batch, err := readBatch(r.Context(), conn)
		if err != nil {
			status := websocket.CloseStatus(err)
			if status == websocket.StatusNormalClosure || status == websocket.StatusGoingAway {
				h.log.Info().Str("id", record.ID).Int("shots", shots).Msg("Result stream closed")
				conn.Close(websocket.StatusNormalClosure, "")
			} else if !errors.Is(err, context.Canceled) {
				h.log.Warn().Err(err).Str("id", record.ID).Msg("Result stream read failed")
			}
			return
		}

		regs := batch.toRegisters()
		accumulated.Merge(regs)
		shots += batchShots(regs)

		values, err := expectation.Evaluate(accumulated)
		if err != nil {
			if writeErr := writeMessage(r.Context(), conn, streamError{Error: err.Error()}); writeErr != nil {
				return
			}
			continue
		}

		if err := writeMessage(r.Context(), conn, streamUpdate{Shots: shots, Values: values}); err != nil {
			h.log.Warn().Err(err).Str("id", record.ID).Msg("Result stream write failed")
			return
		}
	}
}

// readBatch reads and decodes one register batch from the connection
func readBatch(ctx context.Context, conn *websocket.Conn) (*registersPayload, error) {
	_, data, err := conn.Read(ctx)
	if err != nil {
		return nil, err
	}

	var batch registersPayload
	if err := json.Unmarshal(data, &batch); err != nil {
		return nil, err
	}
	return &batch, nil
}

// writeMessage JSON-encodes and sends a message with a write deadline
func writeMessage(ctx context.Context, conn *websocket.Conn, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}

	writeCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return conn.Write(writeCtx, websocket.MessageText, data)
}

// batchShots counts the measurement rows in a batch
func batchShots(regs registers.Registers) int {
	max := 0
	for _, rows := range regs.Bits {
		if len(rows) > max {
			max = len(rows)
		}
	}
	for _, rows := range regs.Floats {
		if len(rows) > max {
			max = len(rows)
		}
	}
	for _, rows := range regs.Complexes {
		if len(rows) > max {
			max = len(rows)
		}
	}
	return max
}

// isEvaluationError reports whether err came from measurement evaluation
// of register data that doesn't match the stored program.
func isEvaluationError(err error) bool {
	var missing *measurements.MissingRegisterError
	var regDim *measurements.MismatchedRegisterDimensionError
	var opDim *measurements.MismatchedOperatorDimensionError
	var eval *measurements.EvaluationError
	return errors.As(err, &missing) ||
		errors.As(err, &regDim) ||
		errors.As(err, &opDim) ||
		errors.As(err, &eval)
}
