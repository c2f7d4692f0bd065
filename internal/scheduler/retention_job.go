package scheduler

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/aristath/entangle/internal/modules/library"
)

// RetentionJob prunes evaluation results older than the retention window.
// Stored programs themselves are never touched; only their accumulated
// evaluation results expire.
type RetentionJob struct {
	repo      *library.Repository
	retention time.Duration
	db        walCheckpointer
	log       zerolog.Logger
}

// walCheckpointer lets the job compact the WAL after a large prune.
type walCheckpointer interface {
	WALCheckpoint(mode string) error
}

// NewRetentionJob creates a new evaluation result retention job
func NewRetentionJob(repo *library.Repository, retentionDays int, db walCheckpointer, log zerolog.Logger) *RetentionJob {
	return &RetentionJob{
		repo:      repo,
		retention: time.Duration(retentionDays) * 24 * time.Hour,
		db:        db,
		log:       log.With().Str("job", "result_retention").Logger(),
	}
}

// Name returns the job name for the scheduler
func (j *RetentionJob) Name() string {
	return "result_retention"
}

// Run executes the retention job
func (j *RetentionJob) Run() error {
	cutoff := time.Now().UTC().Add(-j.retention)

	removed, err := j.repo.DeleteResultsBefore(cutoff)
	if err != nil {
		return fmt.Errorf("failed to prune evaluation results: %w", err)
	}

	if removed == 0 {
		j.log.Debug().Msg("No expired evaluation results")
		return nil
	}

	j.log.Info().
		Int64("removed", removed).
		Time("cutoff", cutoff).
		Msg("Expired evaluation results pruned")

	// Compact the WAL after a prune so deleted pages are reclaimed.
	if j.db != nil {
		if err := j.db.WALCheckpoint("TRUNCATE"); err != nil {
			j.log.Warn().Err(err).Msg("WAL checkpoint after prune failed")
		}
	}

	return nil
}
