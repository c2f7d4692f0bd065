package library

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// Repository handles program library database operations.
// Programs and evaluation results live in library.db; parameter lists and
// expectation values are stored JSON-encoded so they remain inspectable
// with plain SQL tooling.
type Repository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewRepository creates a new program library repository
func NewRepository(db *sql.DB, log zerolog.Logger) *Repository {
	return &Repository{
		db:  db,
		log: log.With().Str("repository", "library").Logger(),
	}
}

// Save inserts or updates a program
func (r *Repository) Save(p *Program) error {
	names, err := json.Marshal(p.InputParameterNames)
	if err != nil {
		return fmt.Errorf("failed to encode parameter names: %w", err)
	}

	_, err = r.db.Exec(`
		INSERT INTO programs (id, name, description, measurement, parameters, payload, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			description = excluded.description,
			measurement = excluded.measurement,
			parameters = excluded.parameters,
			payload = excluded.payload,
			updated_at = excluded.updated_at
	`, p.ID, p.Name, p.Description, p.Measurement, string(names), p.Payload,
		p.CreatedAt.Unix(), p.UpdatedAt.Unix())
	if err != nil {
		return fmt.Errorf("failed to save program %s: %w", p.ID, err)
	}
	return nil
}

// Get retrieves a program by ID.
// Returns nil if the program doesn't exist (not an error).
func (r *Repository) Get(id string) (*Program, error) {
	row := r.db.QueryRow(`
		SELECT id, name, description, measurement, parameters, payload, created_at, updated_at
		FROM programs WHERE id = ?
	`, id)

	p, err := scanProgram(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get program %s: %w", id, err)
	}
	return p, nil
}

// List retrieves all programs ordered by most recently updated
func (r *Repository) List() ([]*Program, error) {
	rows, err := r.db.Query(`
		SELECT id, name, description, measurement, parameters, payload, created_at, updated_at
		FROM programs ORDER BY updated_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list programs: %w", err)
	}
	defer rows.Close()

	var result []*Program
	for rows.Next() {
		p, err := scanProgram(rows)
		if err != nil {
			r.log.Warn().Err(err).Msg("Failed to scan program row")
			continue
		}
		result = append(result, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating programs: %w", err)
	}
	return result, nil
}

// Delete removes a program and, via the foreign key cascade, its
// evaluation results. Returns false if no program had the given ID.
func (r *Repository) Delete(id string) (bool, error) {
	result, err := r.db.Exec("DELETE FROM programs WHERE id = ?", id)
	if err != nil {
		return false, fmt.Errorf("failed to delete program %s: %w", id, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

// SaveResult stores an evaluation result
func (r *Repository) SaveResult(res *EvaluationResult) error {
	params, err := json.Marshal(res.Parameters)
	if err != nil {
		return fmt.Errorf("failed to encode result parameters: %w", err)
	}
	values, err := json.Marshal(res.Expectation)
	if err != nil {
		return fmt.Errorf("failed to encode expectation values: %w", err)
	}

	_, err = r.db.Exec(`
		INSERT INTO evaluation_results (id, program_id, parameters, expectation, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, res.ID, res.ProgramID, string(params), string(values), res.CreatedAt.Unix())
	if err != nil {
		return fmt.Errorf("failed to save evaluation result: %w", err)
	}
	return nil
}

// ListResults retrieves the most recent evaluation results for a program
func (r *Repository) ListResults(programID string, limit int) ([]*EvaluationResult, error) {
	if limit <= 0 {
		limit = 100
	}

	rows, err := r.db.Query(`
		SELECT id, program_id, parameters, expectation, created_at
		FROM evaluation_results
		WHERE program_id = ?
		ORDER BY created_at DESC
		LIMIT ?
	`, programID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list evaluation results: %w", err)
	}
	defer rows.Close()

	var result []*EvaluationResult
	for rows.Next() {
		var (
			res       EvaluationResult
			params    string
			values    string
			createdAt int64
		)
		if err := rows.Scan(&res.ID, &res.ProgramID, &params, &values, &createdAt); err != nil {
			r.log.Warn().Err(err).Msg("Failed to scan evaluation result row")
			continue
		}
		if err := json.Unmarshal([]byte(params), &res.Parameters); err != nil {
			return nil, fmt.Errorf("corrupt result parameters for %s: %w", res.ID, err)
		}
		if err := json.Unmarshal([]byte(values), &res.Expectation); err != nil {
			return nil, fmt.Errorf("corrupt expectation values for %s: %w", res.ID, err)
		}
		res.CreatedAt = time.Unix(createdAt, 0).UTC()
		result = append(result, &res)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating evaluation results: %w", err)
	}
	return result, nil
}

// DeleteResultsBefore removes evaluation results older than the cutoff.
// Returns the number of rows removed.
func (r *Repository) DeleteResultsBefore(cutoff time.Time) (int64, error) {
	result, err := r.db.Exec(
		"DELETE FROM evaluation_results WHERE created_at < ?", cutoff.Unix(),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to prune evaluation results: %w", err)
	}
	return result.RowsAffected()
}

// CountResults returns the number of stored evaluation results
func (r *Repository) CountResults() (int64, error) {
	var count int64
	if err := r.db.QueryRow("SELECT COUNT(*) FROM evaluation_results").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count evaluation results: %w", err)
	}
	return count, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanProgram(row rowScanner) (*Program, error) {
	var (
		p         Program
		names     string
		createdAt int64
		updatedAt int64
	)
	if err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Measurement,
		&names, &p.Payload, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(names), &p.InputParameterNames); err != nil {
		return nil, fmt.Errorf("corrupt parameter names for %s: %w", p.ID, err)
	}
	p.CreatedAt = time.Unix(createdAt, 0).UTC()
	p.UpdatedAt = time.Unix(updatedAt, 0).UTC()
	return &p, nil
}
