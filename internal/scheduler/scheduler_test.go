// Daily Feed - Personalized RSS Aggregation and Scheduling
// Copyright 2026 Mozayed (mozayed007)
// SPDX-License-Identifier: MIT
// https://github.com/mozayed007/Daily-Feed

package scheduler

import (
	"context"
	"errors"
	"io"
	"sync/atomic"
	"testing"
	"time"

	"github.com/mozayed007/Daily-Feed/internal/logging"
)

func newTestScheduler(t *testing.T) *Scheduler {
	t.Helper()

	logger := logging.NewTestLogger(io.Discard)
	return New(&logger, Config{CheckInterval: 10 * time.Millisecond, Enabled: true})
}

// waitFor polls cond until it holds or the deadline expires.
func waitFor(t *testing.T, cond func() bool, msg string) {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal(msg)
}

func noop(ctx context.Context) error { return nil }

func TestAddCronJobValidatesAtRegistration(t *testing.T) {
	s := newTestScheduler(t)

	if _, err := s.AddCronJob("bad-syntax", "not a cron", noop); err == nil {
		t.Error("AddCronJob accepted an invalid expression")
	}
	if _, err := s.AddCronJob("unsatisfiable", "0 0 31 2 *", noop); err == nil {
		t.Error("AddCronJob accepted an unsatisfiable expression")
	}

	id, err := s.AddCronJob("daily-digest", "0 8 * * *", noop)
	if err != nil {
		t.Fatalf("AddCronJob: %v", err)
	}
	if id == "" {
		t.Error("AddCronJob returned an empty job ID")
	}
}

func TestAddIntervalJobValidation(t *testing.T) {
	s := newTestScheduler(t)

	if _, err := s.AddIntervalJob("zero", 0, noop); err == nil {
		t.Error("AddIntervalJob accepted a zero interval")
	}
	if _, err := s.AddIntervalJob("negative", -time.Second, noop); err == nil {
		t.Error("AddIntervalJob accepted a negative interval")
	}
}

func TestAddIntervalJobNextRun(t *testing.T) {
	s := newTestScheduler(t)
	now := time.Date(2026, 2, 10, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	id, err := s.AddIntervalJob("refresh", time.Hour, noop)
	if err != nil {
		t.Fatalf("AddIntervalJob: %v", err)
	}

	job, ok := s.GetJob(id)
	if !ok {
		t.Fatal("GetJob did not find the registered job")
	}
	if want := now.Add(time.Hour); !job.NextRun.Equal(want) {
		t.Errorf("NextRun = %v, want %v", job.NextRun, want)
	}
	if job.Kind != KindInterval || job.Status != StatusPending || !job.Enabled {
		t.Errorf("summary = %+v, want pending enabled interval job", job)
	}
}

func TestRemoveJob(t *testing.T) {
	s := newTestScheduler(t)

	id, err := s.AddIntervalJob("refresh", time.Hour, noop)
	if err != nil {
		t.Fatalf("AddIntervalJob: %v", err)
	}

	if !s.RemoveJob(id) {
		t.Error("RemoveJob returned false for a registered job")
	}
	if s.RemoveJob(id) {
		t.Error("RemoveJob returned true for an already-removed job")
	}
	if _, ok := s.GetJob(id); ok {
		t.Error("GetJob found a removed job")
	}
}

func TestEnableDisableJob(t *testing.T) {
	s := newTestScheduler(t)

	id, err := s.AddIntervalJob("refresh", time.Hour, noop)
	if err != nil {
		t.Fatalf("AddIntervalJob: %v", err)
	}

	if !s.DisableJob(id) {
		t.Error("DisableJob returned false for a registered job")
	}
	if job, _ := s.GetJob(id); job.Enabled {
		t.Error("job still enabled after DisableJob")
	}
	if !s.EnableJob(id) {
		t.Error("EnableJob returned false for a registered job")
	}
	if job, _ := s.GetJob(id); !job.Enabled {
		t.Error("job still disabled after EnableJob")
	}

	if s.EnableJob("unknown") || s.DisableJob("unknown") {
		t.Error("enable/disable of an unknown ID returned true")
	}
}

func TestListJobs(t *testing.T) {
	s := newTestScheduler(t)

	if _, err := s.AddCronJob("daily-digest", "0 8 * * *", noop); err != nil {
		t.Fatalf("AddCronJob: %v", err)
	}
	if _, err := s.AddIntervalJob("refresh", time.Hour, noop); err != nil {
		t.Fatalf("AddIntervalJob: %v", err)
	}

	jobs := s.ListJobs()
	if len(jobs) != 2 {
		t.Fatalf("ListJobs returned %d jobs, want 2", len(jobs))
	}

	byName := make(map[string]JobSummary)
	for _, j := range jobs {
		byName[j.Name] = j
	}
	if byName["daily-digest"].Expr != "0 8 * * *" {
		t.Errorf("cron job summary = %+v, want its expression", byName["daily-digest"])
	}
	if byName["refresh"].Interval != "1h0m0s" {
		t.Errorf("interval job summary = %+v, want its interval", byName["refresh"])
	}
}

func TestDispatchDueExecutesJob(t *testing.T) {
	s := newTestScheduler(t)
	now := time.Date(2026, 2, 10, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	var runs atomic.Int32
	id, err := s.AddIntervalJob("refresh", time.Minute, func(ctx context.Context) error {
		runs.Add(1)
		return nil
	})
	if err != nil {
		t.Fatalf("AddIntervalJob: %v", err)
	}

	// Not yet due.
	s.dispatchDue(t.Context())
	time.Sleep(10 * time.Millisecond)
	if runs.Load() != 0 {
		t.Fatal("job ran before its next run time")
	}

	now = now.Add(2 * time.Minute)
	s.dispatchDue(t.Context())

	waitFor(t, func() bool {
		job, _ := s.GetJob(id)
		return job.RunCount == 1
	}, "job did not complete after becoming due")

	job, _ := s.GetJob(id)
	if job.Status != StatusPending {
		t.Errorf("status after completion = %q, want pending", job.Status)
	}
	if job.ErrorCount != 0 || job.LastError != "" {
		t.Errorf("successful run recorded an error: %+v", job)
	}
	if want := now.Add(time.Minute); !job.NextRun.Equal(want) {
		t.Errorf("NextRun = %v, want recomputed %v", job.NextRun, want)
	}
	if job.LastRun == nil || !job.LastRun.Equal(now) {
		t.Errorf("LastRun = %v, want %v", job.LastRun, now)
	}
}

func TestRunningJobNotRedispatched(t *testing.T) {
	s := newTestScheduler(t)
	now := time.Date(2026, 2, 10, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	var starts atomic.Int32
	release := make(chan struct{})
	id, err := s.AddIntervalJob("slow", time.Minute, func(ctx context.Context) error {
		starts.Add(1)
		<-release
		return nil
	})
	if err != nil {
		t.Fatalf("AddIntervalJob: %v", err)
	}

	now = now.Add(2 * time.Minute)
	s.dispatchDue(t.Context())
	waitFor(t, func() bool { return starts.Load() == 1 }, "job never started")

	// The job is still running; further ticks must skip it.
	s.dispatchDue(t.Context())
	s.dispatchDue(t.Context())
	time.Sleep(10 * time.Millisecond)
	if got := starts.Load(); got != 1 {
		t.Fatalf("job started %d times while running, want 1", got)
	}
	if job, _ := s.GetJob(id); job.Status != StatusRunning {
		t.Errorf("status = %q, want running while the callback blocks", job.Status)
	}

	close(release)
	waitFor(t, func() bool {
		job, _ := s.GetJob(id)
		return job.RunCount == 1 && job.Status == StatusPending
	}, "job did not finish after release")
}

func TestFailedJobRecordsErrorAndReschedules(t *testing.T) {
	s := newTestScheduler(t)
	now := time.Date(2026, 2, 10, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	boom := errors.New("fetch failed")
	id, err := s.AddIntervalJob("flaky", time.Minute, func(ctx context.Context) error {
		return boom
	})
	if err != nil {
		t.Fatalf("AddIntervalJob: %v", err)
	}

	now = now.Add(2 * time.Minute)
	s.dispatchDue(t.Context())

	waitFor(t, func() bool {
		job, _ := s.GetJob(id)
		return job.RunCount == 1
	}, "failing job never ran")

	job, _ := s.GetJob(id)
	if job.ErrorCount != 1 {
		t.Errorf("ErrorCount = %d, want 1", job.ErrorCount)
	}
	if job.LastError != "fetch failed" {
		t.Errorf("LastError = %q, want the callback error", job.LastError)
	}
	if job.Status != StatusPending {
		t.Errorf("status = %q, want pending so the job is scheduled again", job.Status)
	}
	if want := now.Add(time.Minute); !job.NextRun.Equal(want) {
		t.Errorf("NextRun = %v, want recomputed %v despite the failure", job.NextRun, want)
	}
}

func TestPanickingJobIsRecordedAsFailed(t *testing.T) {
	s := newTestScheduler(t)
	now := time.Date(2026, 2, 10, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	var siblingRuns atomic.Int32
	panicID, err := s.AddIntervalJob("panicky", time.Minute, func(ctx context.Context) error {
		panic("boom")
	})
	if err != nil {
		t.Fatalf("AddIntervalJob: %v", err)
	}
	siblingID, err := s.AddIntervalJob("sibling", time.Minute, func(ctx context.Context) error {
		siblingRuns.Add(1)
		return nil
	})
	if err != nil {
		t.Fatalf("AddIntervalJob: %v", err)
	}

	now = now.Add(2 * time.Minute)
	s.dispatchDue(t.Context())

	waitFor(t, func() bool {
		p, _ := s.GetJob(panicID)
		sib, _ := s.GetJob(siblingID)
		return p.RunCount == 1 && sib.RunCount == 1
	}, "jobs did not both complete")

	p, _ := s.GetJob(panicID)
	if p.ErrorCount != 1 || p.LastError == "" {
		t.Errorf("panicking job summary = %+v, want a recorded failure", p)
	}
	if siblingRuns.Load() != 1 {
		t.Errorf("sibling ran %d times, want 1 unaffected by the panic", siblingRuns.Load())
	}
}

func TestDisabledJobNotDispatched(t *testing.T) {
	s := newTestScheduler(t)
	now := time.Date(2026, 2, 10, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	var runs atomic.Int32
	id, err := s.AddIntervalJob("refresh", time.Minute, func(ctx context.Context) error {
		runs.Add(1)
		return nil
	})
	if err != nil {
		t.Fatalf("AddIntervalJob: %v", err)
	}
	s.DisableJob(id)

	now = now.Add(2 * time.Minute)
	s.dispatchDue(t.Context())
	time.Sleep(10 * time.Millisecond)

	if runs.Load() != 0 {
		t.Error("disabled job was dispatched")
	}
}

func TestCronJobNextRunRecomputedFromClock(t *testing.T) {
	s := newTestScheduler(t)
	now := time.Date(2026, 2, 10, 7, 59, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	id, err := s.AddCronJob("daily-digest", "0 8 * * *", noop)
	if err != nil {
		t.Fatalf("AddCronJob: %v", err)
	}

	job, _ := s.GetJob(id)
	if want := time.Date(2026, 2, 10, 8, 0, 0, 0, time.UTC); !job.NextRun.Equal(want) {
		t.Fatalf("initial NextRun = %v, want %v", job.NextRun, want)
	}

	now = time.Date(2026, 2, 10, 8, 0, 30, 0, time.UTC)
	s.dispatchDue(t.Context())

	waitFor(t, func() bool {
		j, _ := s.GetJob(id)
		return j.RunCount == 1
	}, "cron job never ran")

	job, _ = s.GetJob(id)
	if want := time.Date(2026, 2, 11, 8, 0, 0, 0, time.UTC); !job.NextRun.Equal(want) {
		t.Errorf("NextRun after run = %v, want next day at 8am %v", job.NextRun, want)
	}
}

func TestStartStopLifecycle(t *testing.T) {
	s := newTestScheduler(t)

	if err := s.Start(t.Context()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if !s.IsRunning() {
		t.Error("IsRunning = false after Start")
	}
	if err := s.Start(t.Context()); err == nil {
		t.Error("second Start did not fail")
	}

	if err := s.Stop(); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if s.IsRunning() {
		t.Error("IsRunning = true after Stop")
	}

	// Stop is idempotent.
	if err := s.Stop(); err != nil {
		t.Errorf("second Stop: %v", err)
	}
}

func TestStartStopWhenDisabled(t *testing.T) {
	logger := logging.NewTestLogger(io.Discard)
	s := New(&logger, Config{CheckInterval: 10 * time.Millisecond, Enabled: false})

	var runs atomic.Int32
	if _, err := s.AddIntervalJob("refresh", time.Nanosecond, func(ctx context.Context) error {
		runs.Add(1)
		return nil
	}); err != nil {
		t.Fatalf("AddIntervalJob: %v", err)
	}

	if err := s.Start(t.Context()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	time.Sleep(30 * time.Millisecond)
	if err := s.Stop(); err != nil {
		t.Fatalf("Stop: %v", err)
	}

	if runs.Load() != 0 {
		t.Error("disabled scheduler dispatched a job")
	}
}

func TestRunLoopDispatches(t *testing.T) {
	s := newTestScheduler(t)

	var runs atomic.Int32
	if _, err := s.AddIntervalJob("refresh", time.Millisecond, func(ctx context.Context) error {
		runs.Add(1)
		return nil
	}); err != nil {
		t.Fatalf("AddIntervalJob: %v", err)
	}

	if err := s.Start(t.Context()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer s.Stop()

	waitFor(t, func() bool { return runs.Load() >= 1 }, "loop never dispatched the job")
}
