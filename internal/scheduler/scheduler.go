// Daily Feed - Personalized RSS Aggregation and Scheduling
// Copyright 2026 Mozayed (mozayed007)
// SPDX-License-Identifier: MIT
// https://github.com/mozayed007/Daily-Feed

package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/mozayed007/Daily-Feed/internal/metrics"
)

// Config holds configuration for the scheduler.
type Config struct {
	// CheckInterval is how often the dispatch loop scans for due jobs
	// (default: 30 seconds).
	CheckInterval time.Duration

	// Enabled controls whether the dispatch loop runs.
	Enabled bool
}

// DefaultConfig returns the default scheduler configuration.
func DefaultConfig() Config {
	return Config{
		CheckInterval: 30 * time.Second,
		Enabled:       true,
	}
}

// Scheduler owns an in-memory table of cron and interval jobs and
// dispatches each due job as its own goroutine. Jobs do not survive a
// process restart.
type Scheduler struct {
	logger zerolog.Logger
	config Config
	now    func() time.Time

	// Runtime state
	mu      sync.Mutex
	jobs    map[string]*scheduledJob
	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

// New creates a scheduler.
func New(logger *zerolog.Logger, config Config) *Scheduler {
	if config.CheckInterval <= 0 {
		config.CheckInterval = 30 * time.Second
	}

	return &Scheduler{
		logger: logger.With().Str("component", "scheduler").Logger(),
		config: config,
		now:    time.Now,
		jobs:   make(map[string]*scheduledJob),
	}
}

// AddCronJob registers a job driven by a cron expression. The
// expression is validated here so an invalid or unsatisfiable schedule
// fails at registration, not at dispatch time. Returns the job ID.
func (s *Scheduler) AddCronJob(name, expr string, fn JobFunc) (string, error) {
	cron, err := ParseCron(expr)
	if err != nil {
		return "", fmt.Errorf("register cron job %q: %w", name, err)
	}

	next, err := cron.NextRun(s.now())
	if err != nil {
		return "", fmt.Errorf("register cron job %q: %w", name, err)
	}

	return s.addJob(name, Schedule{Kind: KindCron, Expr: expr, Cron: cron}, fn, next), nil
}

// AddIntervalJob registers a job that runs every fixed interval,
// starting one interval from now. Returns the job ID.
func (s *Scheduler) AddIntervalJob(name string, interval time.Duration, fn JobFunc) (string, error) {
	if interval <= 0 {
		return "", fmt.Errorf("register interval job %q: interval must be positive, got %s", name, interval)
	}

	next := s.now().Add(interval)
	return s.addJob(name, Schedule{Kind: KindInterval, Interval: interval}, fn, next), nil
}

func (s *Scheduler) addJob(name string, schedule Schedule, fn JobFunc, next time.Time) string {
	job := &scheduledJob{
		id:       uuid.New().String(),
		name:     name,
		schedule: schedule,
		run:      fn,
		enabled:  true,
		status:   StatusPending,
		nextRun:  next,
	}

	s.mu.Lock()
	s.jobs[job.id] = job
	s.mu.Unlock()

	metrics.JobsRegistered.Inc()

	s.logger.Info().
		Str("job_id", job.id).
		Str("job", name).
		Str("kind", string(schedule.Kind)).
		Time("next_run", next).
		Msg("Job registered")

	return job.id
}

// RemoveJob deletes a job from the table. Returns false when the ID is
// unknown. An in-flight execution of the job is not interrupted.
func (s *Scheduler) RemoveJob(id string) bool {
	s.mu.Lock()
	job, ok := s.jobs[id]
	if ok {
		delete(s.jobs, id)
	}
	s.mu.Unlock()

	if !ok {
		return false
	}

	metrics.JobsRegistered.Dec()
	s.logger.Info().Str("job_id", id).Str("job", job.name).Msg("Job removed")
	return true
}

// GetJob returns a snapshot of one job.
func (s *Scheduler) GetJob(id string) (JobSummary, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	job, ok := s.jobs[id]
	if !ok {
		return JobSummary{}, false
	}
	return job.summary(), true
}

// ListJobs returns snapshots of all registered jobs.
func (s *Scheduler) ListJobs() []JobSummary {
	s.mu.Lock()
	defer s.mu.Unlock()

	summaries := make([]JobSummary, 0, len(s.jobs))
	for _, job := range s.jobs {
		summaries = append(summaries, job.summary())
	}
	return summaries
}

// EnableJob marks a job dispatchable again. Returns false when the ID
// is unknown.
func (s *Scheduler) EnableJob(id string) bool {
	return s.setEnabled(id, true)
}

// DisableJob stops a job from being dispatched without removing it.
// Returns false when the ID is unknown.
func (s *Scheduler) DisableJob(id string) bool {
	return s.setEnabled(id, false)
}

func (s *Scheduler) setEnabled(id string, enabled bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	job, ok := s.jobs[id]
	if !ok {
		return false
	}
	job.enabled = enabled
	return true
}

// Start begins the dispatch loop.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return fmt.Errorf("scheduler already running")
	}
	s.running = true
	s.stopCh = make(chan struct{})
	s.doneCh = make(chan struct{})
	s.mu.Unlock()

	if !s.config.Enabled {
		s.logger.Info().Msg("Scheduler disabled")
		go func() {
			defer close(s.doneCh)
			<-s.stopCh
		}()
		return nil
	}

	s.logger.Info().
		Dur("check_interval", s.config.CheckInterval).
		Msg("Starting scheduler")

	go s.run(ctx)
	return nil
}

// Stop halts the dispatch loop and waits for it to exit. In-flight job
// executions are not cancelled; stopping only prevents new dispatches.
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return nil
	}
	s.mu.Unlock()

	s.logger.Info().Msg("Stopping scheduler...")
	close(s.stopCh)
	<-s.doneCh

	s.mu.Lock()
	s.running = false
	s.mu.Unlock()

	s.logger.Info().Msg("Scheduler stopped")
	return nil
}

// IsRunning returns whether the dispatch loop is active.
func (s *Scheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// run is the main dispatch loop.
func (s *Scheduler) run(ctx context.Context) {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.config.CheckInterval)
	defer ticker.Stop()

	// Check immediately on start
	s.dispatchDue(ctx)

	for {
		select {
		case <-ticker.C:
			s.dispatchDue(ctx)
		case <-s.stopCh:
			return
		case <-ctx.Done():
			return
		}
	}
}

// dispatchDue scans the job table and launches every enabled job whose
// next run has passed. A job still running from an earlier tick is
// skipped, so each job has at most one execution in flight.
func (s *Scheduler) dispatchDue(ctx context.Context) {
	now := s.now()

	s.mu.Lock()
	var due []*scheduledJob
	for _, job := range s.jobs {
		if !job.enabled || job.status == StatusRunning || job.nextRun.After(now) {
			continue
		}
		job.status = StatusRunning
		due = append(due, job)
	}
	s.mu.Unlock()

	if len(due) == 0 {
		return
	}

	s.logger.Debug().Int("count", len(due)).Msg("Dispatching due jobs")

	for _, job := range due {
		go s.execute(ctx, job)
	}
}

// execute runs one job and records the outcome. A panic in the callback
// is caught and counted as a failure so a misbehaving job can never
// take down the loop or its siblings.
func (s *Scheduler) execute(ctx context.Context, job *scheduledJob) {
	started := s.now()
	logger := s.logger.With().Str("job_id", job.id).Str("job", job.name).Logger()
	logger.Debug().Msg("Executing job")

	err := func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("job panicked: %v", r)
			}
		}()
		return job.run(ctx)
	}()

	finished := s.now()
	duration := finished.Sub(started)
	metrics.JobDuration.WithLabelValues(job.name).Observe(duration.Seconds())

	s.mu.Lock()
	defer s.mu.Unlock()

	job.lastRun = &finished
	job.runCount++

	if err != nil {
		job.status = StatusFailed
		job.errorCount++
		job.lastError = err.Error()
		metrics.JobRunsTotal.WithLabelValues(job.name, "failed").Inc()
		logger.Error().Err(err).Dur("duration", duration).Msg("Job failed")
	} else {
		job.status = StatusCompleted
		job.lastError = ""
		metrics.JobRunsTotal.WithLabelValues(job.name, "completed").Inc()
		logger.Debug().Dur("duration", duration).Msg("Job completed")
	}

	// Interval jobs measure from completion; cron jobs from the clock.
	next, nextErr := job.schedule.nextAfter(finished)
	if nextErr != nil {
		// The expression has no match within a year of now. Disable the
		// job rather than spinning on an impossible schedule.
		job.enabled = false
		logger.Error().Err(nextErr).Msg("No future run time, job disabled")
	} else {
		job.nextRun = next
	}

	job.status = StatusPending
}
