// Package scheduler runs the Driver on a cron schedule, for deployments
// that want a standing process re-analyzing a campaign as new polls
// arrive rather than a one-shot CLI invocation (spec §6 ambient
// scheduling option; the CLI entrypoint itself runs a single pass).
package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// RunFunc performs one full campaign re-analysis (fetch feed, run the
// Driver, persist history). The scheduler is agnostic to what RunFunc
// actually does; it only owns the cron timing and graceful shutdown.
type RunFunc func(ctx context.Context) error

// Scheduler triggers RunFunc on a cron schedule.
type Scheduler struct {
	cron            *cron.Cron
	run             RunFunc
	logger          *log.Logger
	mu              sync.RWMutex
	isRunning       bool
	jobIDs          []cron.EntryID
	gracefulTimeout time.Duration
	runTimeout      time.Duration
}

// NewScheduler creates a new scheduler that invokes run on each trigger.
func NewScheduler(run RunFunc, logger *log.Logger) *Scheduler {
	return &Scheduler{
		cron:            cron.New(cron.WithLocation(time.UTC)),
		run:             run,
		logger:          logger,
		jobIDs:          make([]cron.EntryID, 0),
		gracefulTimeout: 30 * time.Second,
		runTimeout:      4 * time.Hour,
	}
}

// ScheduleRun schedules a full campaign re-analysis on the given cron
// expression (e.g. "0 */6 * * *" for every six hours).
func (s *Scheduler) ScheduleRun(cronExpression string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("cannot schedule job while scheduler is running")
	}

	jobFunc := func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.runTimeout)
		defer cancel()

		s.logger.Printf("starting scheduled campaign re-analysis")

		if err := s.run(ctx); err != nil {
			s.logger.Printf("scheduled campaign re-analysis failed: %v", err)
		} else {
			s.logger.Printf("scheduled campaign re-analysis completed")
		}
	}

	entryID, err := s.cron.AddFunc(cronExpression, jobFunc)
	if err != nil {
		return fmt.Errorf("failed to add job: %w", err)
	}

	s.jobIDs = append(s.jobIDs, entryID)
	s.logger.Printf("scheduled campaign re-analysis with cron expression: %s", cronExpression)

	return nil
}

// Start starts the scheduler.
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("scheduler is already running")
	}

	if len(s.jobIDs) == 0 {
		return fmt.Errorf("no jobs scheduled")
	}

	s.cron.Start()
	s.isRunning = true
	s.logger.Printf("scheduler started with %d jobs", len(s.jobIDs))

	return nil
}

// Stop gracefully stops the scheduler.
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return nil
	}

	_, cancel := context.WithTimeout(context.Background(), s.gracefulTimeout)
	defer cancel()

	<-s.cron.Stop().Done()
	s.isRunning = false
	s.logger.Printf("scheduler stopped")

	return nil
}

// IsRunning returns whether the scheduler is currently running.
func (s *Scheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// GetNextRun returns the time of the next scheduled job run.
func (s *Scheduler) GetNextRun() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning || len(s.jobIDs) == 0 {
		return time.Time{}
	}

	nextRun := time.Time{}
	for _, jobID := range s.jobIDs {
		entry := s.cron.Entry(jobID)
		if entry.Valid() {
			if nextRun.IsZero() || entry.Next.Before(nextRun) {
				nextRun = entry.Next
			}
		}
	}

	return nextRun
}

// Entries returns information about scheduled entries.
func (s *Scheduler) Entries() []cron.Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := make([]cron.Entry, 0, len(s.jobIDs))
	for _, jobID := range s.jobIDs {
		entry := s.cron.Entry(jobID)
		if entry.Valid() {
			entries = append(entries, entry)
		}
	}

	return entries
}

// RemoveJob removes a scheduled job.
func (s *Scheduler) RemoveJob(jobID cron.EntryID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("cannot remove job while scheduler is running")
	}

	s.cron.Remove(jobID)
	s.logger.Printf("removed job: %d", jobID)

	return nil
}
