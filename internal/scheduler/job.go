// Daily Feed - Personalized RSS Aggregation and Scheduling
// Copyright 2026 Mozayed (mozayed007)
// SPDX-License-Identifier: MIT
// https://github.com/mozayed007/Daily-Feed

package scheduler

import (
	"context"
	"time"
)

// JobStatus tracks where a job is in its execution cycle. Jobs loop
// pending -> running -> completed|failed -> pending for as long as they
// stay registered.
type JobStatus string

// Job status values.
const (
	StatusPending   JobStatus = "pending"
	StatusRunning   JobStatus = "running"
	StatusCompleted JobStatus = "completed"
	StatusFailed    JobStatus = "failed"
)

// ScheduleKind discriminates the two scheduling modes.
type ScheduleKind string

// Schedule kinds.
const (
	KindCron     ScheduleKind = "cron"
	KindInterval ScheduleKind = "interval"
)

// Schedule is a tagged variant describing when a job runs: either a
// cron expression or a fixed interval, never both.
type Schedule struct {
	Kind ScheduleKind

	// Expr and Cron are set when Kind is KindCron.
	Expr string
	Cron *CronExpression

	// Interval is set when Kind is KindInterval.
	Interval time.Duration
}

// nextAfter computes the run following the given instant.
func (s Schedule) nextAfter(t time.Time) (time.Time, error) {
	if s.Kind == KindCron {
		return s.Cron.NextRun(t)
	}
	return t.Add(s.Interval), nil
}

// JobFunc is the work a scheduled job performs. The scheduler passes
// the context it was started with; a returned error marks the run
// failed without affecting other jobs.
type JobFunc func(ctx context.Context) error

// scheduledJob is the scheduler's internal record for one registered
// job. All fields are guarded by the scheduler's mutex.
type scheduledJob struct {
	id       string
	name     string
	schedule Schedule
	run      JobFunc

	enabled    bool
	status     JobStatus
	lastRun    *time.Time
	nextRun    time.Time
	runCount   int
	errorCount int
	lastError  string
}

// JobSummary is an inspectable snapshot of one registered job.
type JobSummary struct {
	ID         string       `json:"id"`
	Name       string       `json:"name"`
	Kind       ScheduleKind `json:"kind"`
	Expr       string       `json:"cron_expression,omitempty"`
	Interval   string       `json:"interval,omitempty"`
	Enabled    bool         `json:"enabled"`
	Status     JobStatus    `json:"status"`
	LastRun    *time.Time   `json:"last_run,omitempty"`
	NextRun    time.Time    `json:"next_run"`
	RunCount   int          `json:"run_count"`
	ErrorCount int          `json:"error_count"`
	LastError  string       `json:"last_error,omitempty"`
}

// summary snapshots the job for callers outside the scheduler's lock.
func (j *scheduledJob) summary() JobSummary {
	s := JobSummary{
		ID:         j.id,
		Name:       j.name,
		Kind:       j.schedule.Kind,
		Expr:       j.schedule.Expr,
		Enabled:    j.enabled,
		Status:     j.status,
		NextRun:    j.nextRun,
		RunCount:   j.runCount,
		ErrorCount: j.errorCount,
		LastError:  j.lastError,
	}
	if j.schedule.Kind == KindInterval {
		s.Interval = j.schedule.Interval.String()
	}
	if j.lastRun != nil {
		t := *j.lastRun
		s.LastRun = &t
	}
	return s
}
