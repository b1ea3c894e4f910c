// Daily Feed - Personalized RSS Aggregation and Scheduling
// Copyright 2026 Mozayed (mozayed007)
// SPDX-License-Identifier: MIT
// https://github.com/mozayed007/Daily-Feed

package personalize

import (
	"github.com/rs/zerolog"

	"github.com/mozayed007/Daily-Feed/internal/metrics"
)

// Learning rates. Penalties exceed rewards so disliked topics fade faster
// than liked topics grow.
const (
	topicReinforceRate  = 0.05
	topicPenaltyRate    = 0.08
	sourceReinforceRate = 0.03

	// pruneThreshold is the deviation from NeutralWeight below which a
	// decayed entry is removed from the mapping.
	pruneThreshold = 0.05
)

// Trainer applies online preference updates from interaction events.
//
// Trainer itself is stateless; see UserPreferences for the per-user
// serialization requirement.
type Trainer struct {
	logger zerolog.Logger
}

// NewTrainer creates a preference trainer.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewTrainer(logger zerolog.Logger) *Trainer {
	return &Trainer{
		logger: logger.With().Str("component", "trainer").Logger(),
	}
}

// UpdateFromInteraction adjusts the user's topic and source weights from one
// interaction with one article, mutating prefs in place. The caller is
// responsible for persisting the mutated record.
//
// Positive signals always win: when both directions are present, only the
// positive adjustment is applied. Unknown topics and sources are lazily
// initialized at NeutralWeight before the delta. All resulting weights are
// clamped to [MinWeight, MaxWeight] and rounded to 3 decimals.
func (t *Trainer) UpdateFromInteraction(prefs *UserPreferences, article *Article, event Interaction) Changes {
	changes := Changes{
		Topics:  make(map[string]WeightChange),
		Sources: make(map[string]WeightChange),
	}

	topic := article.Topic()
	source := article.SourceName()

	positive := event.PositiveStrength()
	negative := event.NegativeStrength()

	switch {
	case positive > 0:
		changes.Topics[topic] = t.adjustTopic(prefs, topic, topicReinforceRate*positive)
		changes.Sources[source] = t.adjustSource(prefs, source, sourceReinforceRate*positive)
		metrics.PreferenceUpdates.WithLabelValues("positive").Inc()

	case negative > 0:
		changes.Topics[topic] = t.adjustTopic(prefs, topic, -topicPenaltyRate*negative)
		// The source is only penalized on an explicit dislike, and by a
		// fixed step rather than one scaled by signal strength.
		if event.Rating < 0 {
			changes.Sources[source] = t.adjustSource(prefs, source, -sourceReinforceRate)
		}
		metrics.PreferenceUpdates.WithLabelValues("negative").Inc()

	default:
		metrics.PreferenceUpdates.WithLabelValues("neutral").Inc()
	}

	t.logger.Info().
		Str("user_id", prefs.UserID).
		Str("topic", topic).
		Str("source", source).
		Float64("positive_strength", positive).
		Float64("negative_strength", negative).
		Msg("user preferences updated")

	return changes
}

// adjustTopic moves one topic weight by delta, bounded.
func (t *Trainer) adjustTopic(prefs *UserPreferences, topic string, delta float64) WeightChange {
	if prefs.TopicInterests == nil {
		prefs.TopicInterests = make(map[string]float64)
	}
	old := prefs.TopicInterest(topic)
	updated := round3(clampWeight(old + delta))
	prefs.TopicInterests[topic] = updated
	return WeightChange{Old: old, New: updated, Delta: delta}
}

// adjustSource moves one source weight by delta, bounded.
func (t *Trainer) adjustSource(prefs *UserPreferences, source string, delta float64) WeightChange {
	if prefs.SourcePreferences == nil {
		prefs.SourcePreferences = make(map[string]float64)
	}
	old := prefs.SourcePreference(source)
	updated := round3(clampWeight(old + delta))
	prefs.SourcePreferences[source] = updated
	return WeightChange{Old: old, New: updated, Delta: delta}
}

// DecayInterests relaxes every stored weight toward NeutralWeight by
// decayRate applied to the deviation, pruning entries that land within
// pruneThreshold of neutral. Call periodically, not per interaction.
func (t *Trainer) DecayInterests(prefs *UserPreferences, decayRate float64) {
	decayWeights(prefs.TopicInterests, decayRate)
	decayWeights(prefs.SourcePreferences, decayRate)

	metrics.PreferenceDecayRuns.Inc()

	t.logger.Info().
		Str("user_id", prefs.UserID).
		Float64("decay_rate", decayRate).
		Int("remaining_topics", len(prefs.TopicInterests)).
		Int("remaining_sources", len(prefs.SourcePreferences)).
		Msg("interests decayed")
}

// decayWeights applies the decay-toward-neutral rule to one weight map.
func decayWeights(weights map[string]float64, decayRate float64) {
	for key, old := range weights {
		updated := NeutralWeight + (old-NeutralWeight)*decayRate
		if deviation := updated - NeutralWeight; -pruneThreshold < deviation && deviation < pruneThreshold {
			delete(weights, key)
			continue
		}
		weights[key] = round3(updated)
	}
}

// clampWeight bounds a weight to [MinWeight, MaxWeight].
func clampWeight(w float64) float64 {
	if w < MinWeight {
		return MinWeight
	}
	if w > MaxWeight {
		return MaxWeight
	}
	return w
}
