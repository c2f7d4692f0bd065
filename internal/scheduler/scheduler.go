// Package scheduler runs the library's background maintenance jobs, such
// as pruning expired evaluation results, on cron schedules.
package scheduler

import (
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// Job is a named maintenance task.
type Job interface {
	Run() error
	Name() string
}

// Scheduler runs jobs on six-field cron schedules. A prune over a large
// results table can outlast its interval, so a still-running job skips
// its next tick instead of stacking up.
type Scheduler struct {
	cron *cron.Cron
	log  zerolog.Logger
}

// New creates a scheduler with no registered jobs.
func New(log zerolog.Logger) *Scheduler {
	return &Scheduler{
		cron: cron.New(
			cron.WithSeconds(),
			cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)),
		),
		log: log.With().Str("component", "scheduler").Logger(),
	}
}

// Start begins dispatching registered jobs.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.log.Info().Msg("Scheduler started")
}

// Stop stops dispatching and waits for running jobs to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.log.Info().Msg("Scheduler stopped")
}

// AddJob registers a job under a six-field cron schedule, for example
// "0 0 3 * * *" for 3 AM daily or "@every 30s".
func (s *Scheduler) AddJob(schedule string, job Job) error {
	jobLog := s.log.With().Str("job", job.Name()).Logger()

	_, err := s.cron.AddFunc(schedule, func() {
		jobLog.Debug().Msg("Job starting")
		if err := job.Run(); err != nil {
			jobLog.Error().Err(err).Msg("Job failed")
			return
		}
		jobLog.Debug().Msg("Job completed")
	})
	if err != nil {
		return err
	}

	jobLog.Info().Str("schedule", schedule).Msg("Job registered")
	return nil
}

// RunNow executes a job immediately, outside its schedule.
func (s *Scheduler) RunNow(job Job) error {
	s.log.Info().Str("job", job.Name()).Msg("Running job immediately")
	return job.Run()
}
