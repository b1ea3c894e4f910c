// Daily Feed - Personalized RSS Aggregation and Scheduling
// Copyright 2026 Mozayed (mozayed007)
// SPDX-License-Identifier: MIT
// https://github.com/mozayed007/Daily-Feed

// Package metrics provides Prometheus instrumentation for the scoring
// engine, the preference trainer, and the job scheduler.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Scoring engine metrics

	RankingDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "personalize_ranking_duration_seconds",
			Help:    "Duration of article ranking calls in seconds",
			Buckets: []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25},
		},
	)

	ArticlesRanked = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "personalize_articles_ranked_total",
			Help: "Total number of articles scored across all ranking calls",
		},
	)

	ArticlesFiltered = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "personalize_articles_filtered_total",
			Help: "Total number of articles removed by hard exclusions",
		},
		[]string{"reason"}, // "topic", "source"
	)

	// Preference learning metrics

	PreferenceUpdates = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "personalize_preference_updates_total",
			Help: "Total number of preference updates by signal direction",
		},
		[]string{"direction"}, // "positive", "negative", "neutral"
	)

	PreferenceDecayRuns = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "personalize_preference_decay_runs_total",
			Help: "Total number of preference decay passes",
		},
	)

	// Scheduler metrics

	JobsRegistered = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "scheduler_jobs_registered",
			Help: "Current number of registered scheduled jobs",
		},
	)

	JobRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scheduler_job_runs_total",
			Help: "Total number of job executions by outcome",
		},
		[]string{"job", "outcome"}, // outcome: "completed", "failed"
	)

	JobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "scheduler_job_duration_seconds",
			Help:    "Duration of job executions in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"job"},
	)
)
