// Package library stores quantum programs and their evaluation results.
// Programs are persisted as MessagePack blobs alongside searchable metadata,
// so the full measurement definition survives a round trip through the
// database unchanged.
package library

import "time"

// Program is a stored quantum program with its library metadata.
// Payload holds the MessagePack encoding of the full program; the other
// columns exist so programs can be listed and searched without decoding.
type Program struct {
	ID                  string    `json:"id"`
	Name                string    `json:"name"`
	Description         string    `json:"description"`
	Measurement         string    `json:"measurement"`
	InputParameterNames []string  `json:"input_parameter_names"`
	Payload             []byte    `json:"-"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// EvaluationResult records one evaluation of a stored program: the free
// parameter values it was evaluated with and the expectation values the
// measurement produced.
type EvaluationResult struct {
	ID          string             `json:"id"`
	ProgramID   string             `json:"program_id"`
	Parameters  []float64          `json:"parameters"`
	Expectation map[string]float64 `json:"expectation"`
	CreatedAt   time.Time          `json:"created_at"`
}
