// Daily Feed - Personalized RSS Aggregation and Scheduling
// Copyright 2026 Mozayed (mozayed007)
// SPDX-License-Identifier: MIT
// https://github.com/mozayed007/Daily-Feed

package services

import (
	"context"
	"fmt"
)

// SchedulerManager matches the scheduler's Start/Stop lifecycle. It is
// satisfied by *scheduler.Scheduler.
type SchedulerManager interface {
	Start(ctx context.Context) error
	Stop() error
}

// SchedulerService wraps the job scheduler as a supervised service,
// adapting its Start/Stop lifecycle to suture's Serve pattern:
//  1. Calls Start(ctx) to begin the dispatch loop
//  2. Blocks until the context is canceled
//  3. Calls Stop() for graceful shutdown
type SchedulerService struct {
	manager SchedulerManager
	name    string
}

// NewSchedulerService creates a scheduler service wrapper.
//
// Example usage:
//
//	sched := scheduler.New(&logger, cfg)
//	svc := services.NewSchedulerService(sched)
//	tree.AddJobService(svc)
func NewSchedulerService(manager SchedulerManager) *SchedulerService {
	return &SchedulerService{
		manager: manager,
		name:    "scheduler",
	}
}

// Serve implements suture.Service.
//
// If Start() fails, the error is returned immediately, causing suture
// to restart the service according to its backoff policy.
func (s *SchedulerService) Serve(ctx context.Context) error {
	if err := s.manager.Start(ctx); err != nil {
		return fmt.Errorf("scheduler start failed: %w", err)
	}

	<-ctx.Done()

	if err := s.manager.Stop(); err != nil {
		return fmt.Errorf("scheduler stop failed: %w", err)
	}

	return ctx.Err()
}

// String implements fmt.Stringer for logging.
// Suture uses this to identify the service in log messages.
func (s *SchedulerService) String() string {
	return s.name
}
