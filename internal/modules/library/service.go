package library

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/aristath/entangle/pkg/measurements"
	"github.com/aristath/entangle/pkg/programs"
	"github.com/aristath/entangle/pkg/registers"
)

// NotFoundError reports a program ID with no stored program.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("program %s not found", e.ID)
}

// NotEvaluatableError reports an evaluation request against a program whose
// measurement only collects raw registers.
type NotEvaluatableError struct {
	ID   string
	Kind string
}

func (e *NotEvaluatableError) Error() string {
	return fmt.Sprintf("program %s stores a %s measurement and produces no expectation values", e.ID, e.Kind)
}

// Service provides program library operations on top of the repository.
// It owns the MessagePack encoding of stored programs and the expectation
// value evaluation of measured registers.
type Service struct {
	repo *Repository
	log  zerolog.Logger
}

// NewService creates a new program library service
func NewService(repo *Repository, log zerolog.Logger) *Service {
	return &Service{
		repo: repo,
		log:  log.With().Str("service", "library").Logger(),
	}
}

// Create stores a new program and returns its library record
func (s *Service) Create(name, description string, program *programs.QuantumProgram) (*Program, error) {
	payload, err := msgpack.Marshal(program)
	if err != nil {
		return nil, fmt.Errorf("failed to encode program: %w", err)
	}

	now := time.Now().UTC()
	record := &Program{
		ID:                  uuid.New().String(),
		Name:                name,
		Description:         description,
		Measurement:         program.Measurement.Kind(),
		InputParameterNames: program.InputParameterNames,
		Payload:             payload,
		CreatedAt:           now,
		UpdatedAt:           now,
	}

	if err := s.repo.Save(record); err != nil {
		return nil, err
	}

	s.log.Info().
		Str("id", record.ID).
		Str("name", name).
		Str("measurement", record.Measurement).
		Msg("Program stored")

	return record, nil
}

// Get retrieves a program record by ID
func (s *Service) Get(id string) (*Program, error) {
	record, err := s.repo.Get(id)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, &NotFoundError{ID: id}
	}
	return record, nil
}

// List retrieves all stored program records
func (s *Service) List() ([]*Program, error) {
	return s.repo.List()
}

// Delete removes a program and its evaluation results
func (s *Service) Delete(id string) error {
	deleted, err := s.repo.Delete(id)
	if err != nil {
		return err
	}
	if !deleted {
		return &NotFoundError{ID: id}
	}
	s.log.Info().Str("id", id).Msg("Program deleted")
	return nil
}

// Decode reconstructs the full quantum program from a stored record
func (s *Service) Decode(record *Program) (*programs.QuantumProgram, error) {
	var program programs.QuantumProgram
	if err := msgpack.Unmarshal(record.Payload, &program); err != nil {
		return nil, fmt.Errorf("failed to decode program %s: %w", record.ID, err)
	}
	return &program, nil
}

// Export returns the raw MessagePack encoding of a stored program
func (s *Service) Export(id string) ([]byte, error) {
	record, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	return record.Payload, nil
}

// Evaluate post-processes measured registers with a stored program's
// measurement and records the resulting expectation values. The parameter
// values are not applied to the register data (that already happened on the
// hardware or simulator that produced it); they are validated against the
// program's free parameters and kept with the result for traceability.
func (s *Service) Evaluate(id string, parameters []float64, regs registers.Registers) (*EvaluationResult, error) {
	record, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	program, err := s.Decode(record)
	if err != nil {
		return nil, err
	}

	if len(parameters) != len(program.InputParameterNames) {
		return nil, &programs.ParameterCountError{
			Expected: len(program.InputParameterNames),
			Given:    len(parameters),
		}
	}

	expectation, ok := program.Measurement.(measurements.ExpectationMeasurement)
	if !ok {
		return nil, &NotEvaluatableError{ID: id, Kind: program.Measurement.Kind()}
	}

	values, err := expectation.Evaluate(regs)
	if err != nil {
		return nil, err
	}

	result := &EvaluationResult{
		ID:          uuid.New().String(),
		ProgramID:   id,
		Parameters:  parameters,
		Expectation: values,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.repo.SaveResult(result); err != nil {
		return nil, err
	}

	s.log.Debug().
		Str("id", id).
		Int("values", len(values)).
		Msg("Program evaluated")

	return result, nil
}

// Results retrieves the most recent evaluation results for a program
func (s *Service) Results(id string, limit int) ([]*EvaluationResult, error) {
	if _, err := s.Get(id); err != nil {
		return nil, err
	}
	return s.repo.ListResults(id, limit)
}
