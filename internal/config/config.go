// Daily Feed - Personalized RSS Aggregation and Scheduling
// Copyright 2026 Mozayed (mozayed007)
// SPDX-License-Identifier: MIT
// https://github.com/mozayed007/Daily-Feed

// Package config provides layered configuration loading for Daily Feed.
//
// Precedence: environment variables > config file > built-in defaults.
package config

import (
	"fmt"
	"time"
)

// Config is the root configuration for the Daily Feed core.
type Config struct {
	Logging     LoggingConfig     `koanf:"logging"`
	Scheduler   SchedulerConfig   `koanf:"scheduler"`
	Personalize PersonalizeConfig `koanf:"personalize"`
	Digest      DigestConfig      `koanf:"digest"`
	Store       StoreConfig       `koanf:"store"`
}

// LoggingConfig controls log output.
type LoggingConfig struct {
	// Level is the minimum log level: trace, debug, info, warn, error.
	Level string `koanf:"level"`

	// Format is the output format: json or console.
	Format string `koanf:"format"`

	// Caller includes caller file:line in log events.
	Caller bool `koanf:"caller"`
}

// SchedulerConfig controls the job dispatch loop.
type SchedulerConfig struct {
	// Enabled controls whether the scheduler loop runs.
	Enabled bool `koanf:"enabled"`

	// CheckInterval is how often the loop scans for due jobs.
	CheckInterval time.Duration `koanf:"check_interval"`
}

// PersonalizeConfig controls the preference learning maintenance jobs.
type PersonalizeConfig struct {
	// DecayRate is the multiplicative decay applied to weight deviations
	// from neutral during each decay pass. Must be in (0, 1].
	DecayRate float64 `koanf:"decay_rate"`

	// DecayInterval is how often the decay pass runs over stored users.
	DecayInterval time.Duration `koanf:"decay_interval"`
}

// DigestConfig controls the scheduled digest trigger.
type DigestConfig struct {
	// Enabled controls whether the digest job is registered.
	Enabled bool `koanf:"enabled"`

	// Cron is the 5-field cron expression for digest assembly.
	Cron string `koanf:"cron"`
}

// StoreConfig controls preference persistence.
type StoreConfig struct {
	// Path is the Badger database directory. Empty means in-memory.
	Path string `koanf:"path"`
}

// defaultConfig returns a Config with all default values. Defaults are
// applied first, then overridden by config file and environment variables.
func defaultConfig() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
		Scheduler: SchedulerConfig{
			Enabled:       true,
			CheckInterval: 30 * time.Second,
		},
		Personalize: PersonalizeConfig{
			DecayRate:     0.95,
			DecayInterval: 7 * 24 * time.Hour,
		},
		Digest: DigestConfig{
			Enabled: true,
			Cron:    "0 8 * * *",
		},
		Store: StoreConfig{
			Path: "/data/dailyfeed/preferences",
		},
	}
}

// Validate checks configuration invariants.
func (c *Config) Validate() error {
	if c.Scheduler.CheckInterval <= 0 {
		return fmt.Errorf("scheduler.check_interval must be positive, got %s", c.Scheduler.CheckInterval)
	}
	if c.Personalize.DecayRate <= 0 || c.Personalize.DecayRate > 1 {
		return fmt.Errorf("personalize.decay_rate must be in (0, 1], got %g", c.Personalize.DecayRate)
	}
	if c.Personalize.DecayInterval <= 0 {
		return fmt.Errorf("personalize.decay_interval must be positive, got %s", c.Personalize.DecayInterval)
	}
	if c.Digest.Enabled && c.Digest.Cron == "" {
		return fmt.Errorf("digest.cron must be set when digest is enabled")
	}
	return nil
}
