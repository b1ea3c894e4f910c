// Daily Feed - Personalized RSS Aggregation and Scheduling
// Copyright 2026 Mozayed (mozayed007)
// SPDX-License-Identifier: MIT
// https://github.com/mozayed007/Daily-Feed

package personalize

import (
	"time"
)

// Article is a read-only candidate for scoring. Instances are supplied by
// the storage layer; the engine never mutates them.
type Article struct {
	// ID is the article identifier.
	ID string `json:"id"`

	// Title is the article title.
	Title string `json:"title"`

	// Category is the free-form topic label. Empty means "General".
	Category string `json:"category,omitempty"`

	// Source is the feed or publisher name. Empty means "Unknown".
	Source string `json:"source,omitempty"`

	// PublishedAt is the publish timestamp, nil when unknown.
	PublishedAt *time.Time `json:"published_at,omitempty"`

	// ContentLength is the article body length in characters.
	ContentLength int `json:"content_length"`

	// HasSummary reports whether a summary has been generated.
	HasSummary bool `json:"has_summary"`

	// HasKeyPoints reports whether key points have been extracted.
	HasKeyPoints bool `json:"has_key_points"`

	// QualityScore is an externally computed quality value (0-10).
	// Zero means no external score is available.
	QualityScore float64 `json:"quality_score,omitempty"`
}

// Topic returns the article's topic label, defaulting to "General".
func (a *Article) Topic() string {
	if a.Category == "" {
		return "General"
	}
	return a.Category
}

// SourceName returns the article's source name, defaulting to "Unknown".
func (a *Article) SourceName() string {
	if a.Source == "" {
		return "Unknown"
	}
	return a.Source
}

// FreshnessPreference controls how strongly recency weighs into ranking.
type FreshnessPreference string

const (
	// FreshnessBreaking prioritizes very fresh content.
	FreshnessBreaking FreshnessPreference = "breaking"
	// FreshnessDaily is the balanced default.
	FreshnessDaily FreshnessPreference = "daily"
	// FreshnessWeekly de-emphasizes recency.
	FreshnessWeekly FreshnessPreference = "weekly"
)

// Weight returns the freshness blend weight for this preference.
// Unknown values fall back to the daily weight.
func (p FreshnessPreference) Weight() float64 {
	switch p {
	case FreshnessBreaking:
		return 0.40
	case FreshnessDaily:
		return 0.25
	case FreshnessWeekly:
		return 0.10
	default:
		return 0.25
	}
}

// Weight bounds for learned topic and source preferences. Every update
// clamps into this range.
const (
	MinWeight = 0.1
	MaxWeight = 1.0

	// NeutralWeight is the implicit value for topics and sources the user
	// has never interacted with.
	NeutralWeight = 0.5
)

// UserPreferences is the mutable per-user personalization record.
//
// Absent map entries mean NeutralWeight; use TopicInterest and
// SourcePreference rather than reading the maps directly.
type UserPreferences struct {
	// UserID identifies the owning user.
	UserID string `json:"user_id"`

	// TopicInterests maps topic -> learned weight in [MinWeight, MaxWeight].
	TopicInterests map[string]float64 `json:"topic_interests"`

	// SourcePreferences maps source -> learned weight in [MinWeight, MaxWeight].
	SourcePreferences map[string]float64 `json:"source_preferences"`

	// ExcludeTopics lists hard-excluded topics. Matching articles score 0
	// and are removed by FilterArticles.
	ExcludeTopics []string `json:"exclude_topics,omitempty"`

	// ExcludeSources lists hard-excluded sources.
	ExcludeSources []string `json:"exclude_sources,omitempty"`

	// Freshness selects the recency weighting.
	Freshness FreshnessPreference `json:"freshness_preference"`

	// DiversityBoost is the user-tunable weight on the diversity term (0-1).
	DiversityBoost float64 `json:"diversity_boost"`
}

// NewUserPreferences returns a neutral preference record for a user.
func NewUserPreferences(userID string) *UserPreferences {
	return &UserPreferences{
		UserID:            userID,
		TopicInterests:    make(map[string]float64),
		SourcePreferences: make(map[string]float64),
		Freshness:         FreshnessDaily,
		DiversityBoost:    0.1,
	}
}

// TopicInterest returns the learned weight for a topic, or NeutralWeight
// when the topic has never been seen.
func (p *UserPreferences) TopicInterest(topic string) float64 {
	if w, ok := p.TopicInterests[topic]; ok {
		return w
	}
	return NeutralWeight
}

// SourcePreference returns the learned weight for a source, or
// NeutralWeight when the source has never been seen.
func (p *UserPreferences) SourcePreference(source string) float64 {
	if w, ok := p.SourcePreferences[source]; ok {
		return w
	}
	return NeutralWeight
}

// IsTopicExcluded reports whether the topic is hard-excluded.
func (p *UserPreferences) IsTopicExcluded(topic string) bool {
	return containsString(p.ExcludeTopics, topic)
}

// IsSourceExcluded reports whether the source is hard-excluded.
func (p *UserPreferences) IsSourceExcluded(source string) bool {
	return containsString(p.ExcludeSources, source)
}

func containsString(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

// ScoredArticle is the per-ranking-call result: an article, its final
// score, and the rounded component breakdown. Never persisted; its
// lifecycle ends with the ranking request.
type ScoredArticle struct {
	// Article is the scored candidate.
	Article Article `json:"article"`

	// Score is the final blended score used for ordering.
	Score float64 `json:"score"`

	// Breakdown maps component name (topic, source, freshness, quality,
	// diversity, final) to its value rounded to 3 decimals.
	Breakdown map[string]float64 `json:"breakdown"`
}

// Interaction is one user-article feedback event.
type Interaction struct {
	// Rating is the explicit rating: negative = dislike, positive = like,
	// zero = no explicit rating.
	Rating int `json:"rating"`

	// ReadDuration is the time spent reading, in seconds.
	ReadDuration int `json:"read_duration"`

	// Saved reports whether the user saved the article.
	Saved bool `json:"saved"`

	// Dismissed reports whether the user dismissed the article.
	Dismissed bool `json:"dismissed"`
}

// PositiveStrength grades the positive feedback signals (0-3).
func (i Interaction) PositiveStrength() float64 {
	strength := 0.0
	if i.Rating > 0 {
		strength += 1.0
	}
	switch {
	case i.ReadDuration > 60:
		strength += 1.0
	case i.ReadDuration > 30:
		strength += 0.5
	}
	if i.Saved {
		strength += 1.0
	}
	return strength
}

// NegativeStrength grades the negative feedback signals (0-2).
func (i Interaction) NegativeStrength() float64 {
	strength := 0.0
	if i.Rating < 0 {
		strength += 1.5
	}
	if i.Dismissed || (i.ReadDuration > 0 && i.ReadDuration < 5) {
		strength += 0.5
	}
	return strength
}

// WeightChange records one weight adjustment for observability.
type WeightChange struct {
	Old   float64 `json:"old"`
	New   float64 `json:"new"`
	Delta float64 `json:"delta"`
}

// Changes summarizes the adjustments made by a single preference update.
type Changes struct {
	Topics  map[string]WeightChange `json:"topics"`
	Sources map[string]WeightChange `json:"sources"`
}
