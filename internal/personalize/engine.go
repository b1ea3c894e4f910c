// Daily Feed - Personalized RSS Aggregation and Scheduling
// Copyright 2026 Mozayed (mozayed007)
// SPDX-License-Identifier: MIT
// https://github.com/mozayed007/Daily-Feed

package personalize

import (
	"math"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/mozayed007/Daily-Feed/internal/metrics"
)

// Fixed blend weights. Freshness and diversity weights are not listed here:
// freshness follows the user's FreshnessPreference and diversity uses the
// user's DiversityBoost.
const (
	weightTopic   = 0.35
	weightSource  = 0.20
	weightQuality = 0.15

	// freshnessHalfLife is the article age, in hours, at which the
	// freshness score reaches 0.5.
	freshnessHalfLife = 24.0
)

// Engine ranks candidate articles for one user. It holds no mutable state
// between calls and is safe for concurrent use.
type Engine struct {
	logger zerolog.Logger

	// now is injectable for deterministic freshness tests.
	now func() time.Time
}

// NewEngine creates a scoring engine.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewEngine(logger zerolog.Logger) *Engine {
	return &Engine{
		logger: logger.With().Str("component", "personalize").Logger(),
		now:    time.Now,
	}
}

// FilterArticles removes articles whose topic or source the user has hard-
// excluded. Pure over its inputs; empty input yields empty output.
func (e *Engine) FilterArticles(articles []Article, prefs *UserPreferences) []Article {
	filtered := make([]Article, 0, len(articles))
	topicExcluded, sourceExcluded := 0, 0

	for _, a := range articles {
		if prefs.IsTopicExcluded(a.Topic()) {
			topicExcluded++
			continue
		}
		if prefs.IsSourceExcluded(a.SourceName()) {
			sourceExcluded++
			continue
		}
		filtered = append(filtered, a)
	}

	if topicExcluded > 0 {
		metrics.ArticlesFiltered.WithLabelValues("topic").Add(float64(topicExcluded))
	}
	if sourceExcluded > 0 {
		metrics.ArticlesFiltered.WithLabelValues("source").Add(float64(sourceExcluded))
	}

	e.logger.Debug().
		Int("input", len(articles)).
		Int("output", len(filtered)).
		Int("excluded_topic", topicExcluded).
		Int("excluded_source", sourceExcluded).
		Msg("articles filtered")

	return filtered
}

// RankArticles scores every candidate and returns them sorted by score
// descending. Ties keep their input order. A positive limit truncates the
// result.
//
// Diversity is order-dependent: articles are scored in input order and each
// topic's prior occurrence count within this call discounts repeats. The
// counter is local to the call, so concurrent rankings never interact.
func (e *Engine) RankArticles(articles []Article, prefs *UserPreferences, limit int) []ScoredArticle {
	if len(articles) == 0 {
		return []ScoredArticle{}
	}

	start := time.Now()
	topicCounts := make(map[string]int)

	scored := make([]ScoredArticle, 0, len(articles))
	for _, a := range articles {
		score, breakdown := e.scoreArticle(&a, prefs, topicCounts)
		topicCounts[a.Topic()]++
		scored = append(scored, ScoredArticle{Article: a, Score: score, Breakdown: breakdown})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	if limit > 0 && len(scored) > limit {
		scored = scored[:limit]
	}

	metrics.RankingDuration.Observe(time.Since(start).Seconds())
	metrics.ArticlesRanked.Add(float64(len(articles)))

	e.logger.Debug().
		Str("user_id", prefs.UserID).
		Int("candidates", len(articles)).
		Int("returned", len(scored)).
		Float64("top_score", scored[0].Score).
		Msg("articles ranked")

	return scored
}

// scoreArticle blends the five component scores for one article.
// topicCounts holds prior same-topic occurrences within this ranking call.
func (e *Engine) scoreArticle(a *Article, prefs *UserPreferences, topicCounts map[string]int) (float64, map[string]float64) {
	topic := e.topicScore(a, prefs)
	source := e.sourceScore(a, prefs)
	freshness := e.freshnessScore(a)
	quality := e.qualityScore(a)
	diversity := diversityScore(topicCounts[a.Topic()])

	final := topic*weightTopic +
		source*weightSource +
		freshness*prefs.Freshness.Weight() +
		quality*weightQuality +
		diversity*prefs.DiversityBoost

	breakdown := map[string]float64{
		"topic":     round3(topic),
		"source":    round3(source),
		"freshness": round3(freshness),
		"quality":   round3(quality),
		"diversity": round3(diversity),
		"final":     round3(final),
	}

	return final, breakdown
}

// topicScore is the user's learned interest in the article's topic.
// Excluded topics score 0 even though FilterArticles should already have
// removed them.
func (e *Engine) topicScore(a *Article, prefs *UserPreferences) float64 {
	topic := a.Topic()
	if prefs.IsTopicExcluded(topic) {
		return 0
	}
	return prefs.TopicInterest(topic)
}

// sourceScore is the user's learned preference for the article's source.
func (e *Engine) sourceScore(a *Article, prefs *UserPreferences) float64 {
	source := a.SourceName()
	if prefs.IsSourceExcluded(source) {
		return 0
	}
	return prefs.SourcePreference(source)
}

// freshnessScore decays exponentially with article age:
// 1.0 at age 0, 0.5 at 24h, 0.25 at 48h. Unknown publish time is neutral.
func (e *Engine) freshnessScore(a *Article) float64 {
	if a.PublishedAt == nil {
		return 0.5
	}

	ageHours := e.now().Sub(*a.PublishedAt).Hours()
	score := math.Exp2(-ageHours / freshnessHalfLife)

	return math.Min(1.0, math.Max(0.0, score))
}

// qualityScore uses the external quality value when present, otherwise
// estimates quality from content length and structure.
func (e *Engine) qualityScore(a *Article) float64 {
	if a.QualityScore > 0 {
		return a.QualityScore / 10.0
	}

	score := 0.5
	switch {
	case a.ContentLength >= 3000 && a.ContentLength <= 12000:
		score += 0.2
	case a.ContentLength > 500:
		score += 0.1
	}
	if a.HasSummary {
		score += 0.1
	}
	if a.HasKeyPoints {
		score += 0.1
	}

	return math.Min(1.0, score)
}

// diversityScore rewards topics underrepresented in the current batch:
// 1.0 for the first occurrence, then 1/2, 1/3, ...
func diversityScore(priorCount int) float64 {
	if priorCount == 0 {
		return 1.0
	}
	return 1.0 / float64(priorCount+1)
}

// round3 rounds to 3 decimal places for breakdown reporting.
func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
