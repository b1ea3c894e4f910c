// Daily Feed - Personalized RSS Aggregation and Scheduling
// Copyright 2026 Mozayed (mozayed007)
// SPDX-License-Identifier: MIT
// https://github.com/mozayed007/Daily-Feed

// Package main is the entry point for the Daily Feed server.
//
// Daily Feed ranks aggregated articles against per-user preference
// profiles and learns those profiles from interaction signals. This
// binary wires the pieces together:
//
//  1. Configuration: Koanf v2 layered loading (env > config file > defaults)
//  2. Logging: zerolog, configured from the loaded settings
//  3. Preference store: BadgerDB-backed user profiles
//  4. Scoring engine and trainer: personalization core
//  5. Scheduler: cron and interval jobs (digest trigger, preference decay)
//  6. Supervisor tree: suture-managed lifecycle with graceful shutdown
//
// # Configuration
//
// Configuration is loaded via Koanf v2 with layered sources (highest
// priority wins):
//   - Environment variables (LOG_LEVEL, SCHEDULER_CHECK_INTERVAL,
//     PERSONALIZE_DECAY_RATE, DIGEST_CRON, STORE_PATH, ...)
//   - Config file (config.yaml, path overridable via CONFIG_PATH)
//   - Built-in defaults
//
// # Signal Handling
//
// The server shuts down gracefully on SIGINT and SIGTERM: the scheduler
// stops dispatching, in-flight jobs finish on their own, and the
// preference store is flushed and closed.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/mozayed007/Daily-Feed/internal/config"
	"github.com/mozayed007/Daily-Feed/internal/logging"
	"github.com/mozayed007/Daily-Feed/internal/personalize"
	"github.com/mozayed007/Daily-Feed/internal/personalize/store"
	"github.com/mozayed007/Daily-Feed/internal/scheduler"
	"github.com/mozayed007/Daily-Feed/internal/supervisor"
	"github.com/mozayed007/Daily-Feed/internal/supervisor/services"
)

func main() {
	// Load configuration first to get logging settings
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("store_path", cfg.Store.Path).
		Dur("check_interval", cfg.Scheduler.CheckInterval).
		Msg("Starting Daily Feed")

	// Preference store
	prefStore, err := store.Open(cfg.Store.Path)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to open preference store")
	}
	defer func() {
		if err := prefStore.Close(); err != nil {
			logging.Error().Err(err).Msg("Failed to close preference store")
		}
	}()

	// Personalization core. The scoring engine itself is owned by the
	// digest pipeline; this binary runs the trainer's maintenance jobs.
	logger := logging.Logger()
	trainer := personalize.NewTrainer(logger)

	// Scheduler and its jobs
	sched := scheduler.New(&logger, scheduler.Config{
		CheckInterval: cfg.Scheduler.CheckInterval,
		Enabled:       cfg.Scheduler.Enabled,
	})

	decayRate := cfg.Personalize.DecayRate
	if _, err := sched.AddIntervalJob("preference-decay", cfg.Personalize.DecayInterval, func(ctx context.Context) error {
		return decayAllPreferences(ctx, prefStore, trainer, decayRate)
	}); err != nil {
		logging.Fatal().Err(err).Msg("Failed to register preference decay job")
	}

	if cfg.Digest.Enabled {
		if _, err := sched.AddCronJob("daily-digest", cfg.Digest.Cron, func(ctx context.Context) error {
			return triggerDigest(ctx, prefStore)
		}); err != nil {
			logging.Fatal().Err(err).Msg("Failed to register digest job")
		}
	}

	// Supervisor tree
	slogger := logging.NewSlogLogger(logger)
	tree, err := supervisor.NewSupervisorTree(slogger, supervisor.DefaultTreeConfig())
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}
	tree.AddJobService(services.NewSchedulerService(sched))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Setup signal handling
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	logging.Info().Msg("Starting supervisor tree...")
	errCh := tree.ServeBackground(ctx)

	// Wait for supervisor to finish (either from signal or error)
	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish...")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}

	// Wait for the error channel to close (supervisor finished)
	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	// Report any services that failed to stop within timeout
	unstopped, _ := tree.UnstoppedServiceReport()
	if len(unstopped) > 0 {
		logging.Warn().Int("count", len(unstopped)).Msg("Services failed to stop within timeout")
		for _, svc := range unstopped {
			logging.Warn().Str("service", svc.Name).Msg("Service failed to stop")
		}
	}

	logging.Info().Msg("Application stopped gracefully")
}

// decayAllPreferences relaxes every stored user profile toward neutral
// and persists the result. Runs periodically so stale interests fade
// instead of dominating rankings forever.
func decayAllPreferences(ctx context.Context, prefStore *store.PreferenceStore, trainer *personalize.Trainer, rate float64) error {
	var updated []*personalize.UserPreferences

	err := prefStore.ForEach(ctx, func(prefs *personalize.UserPreferences) error {
		trainer.DecayInterests(prefs, rate)
		updated = append(updated, prefs)
		return nil
	})
	if err != nil {
		return err
	}

	for _, prefs := range updated {
		if err := prefStore.Put(ctx, prefs); err != nil {
			return err
		}
	}

	logging.Info().Int("users", len(updated)).Msg("Preference decay pass completed")
	return nil
}

// triggerDigest kicks off digest assembly for all known users. The
// actual fetch/rank/deliver pipeline lives outside this binary; the
// scheduled job marks the trigger point and reports who is due.
func triggerDigest(ctx context.Context, prefStore *store.PreferenceStore) error {
	users := 0
	err := prefStore.ForEach(ctx, func(prefs *personalize.UserPreferences) error {
		users++
		return nil
	})
	if err != nil {
		return err
	}

	logging.Info().Int("users", users).Msg("Digest trigger fired")
	return nil
}
