// Daily Feed - Personalized RSS Aggregation and Scheduling
// Copyright 2026 Mozayed (mozayed007)
// SPDX-License-Identifier: MIT
// https://github.com/mozayed007/Daily-Feed

// Package personalize implements the per-user scoring/ranking engine and the
// online preference learning that adapts user weights from feedback.
//
// # Scoring
//
// Engine.RankArticles blends five component scores for every candidate
// article into one scalar:
//
//   - topic: the user's learned interest in the article's topic
//   - source: the user's learned preference for the article's source
//   - freshness: exponential decay of article age with a 24h half-life
//   - quality: external quality score, or a content heuristic
//   - diversity: inverse-frequency boost for underrepresented topics
//     within the current ranking call
//
// Topic, source, and quality use fixed engine weights. The freshness weight
// follows the user's FreshnessPreference and the diversity weight is the
// user's DiversityBoost, so recency and variety are the two user-tunable
// axes of the blend.
//
// The diversity counter is local to each RankArticles call; the engine holds
// no mutable state between calls and is safe for concurrent use.
//
// # Learning
//
// Trainer.UpdateFromInteraction turns one interaction event (rating, read
// duration, saved, dismissed) into graded signal strengths and moves the
// user's topic and source weights accordingly, clamped to [0.1, 1.0].
// Trainer.DecayInterests is the periodic counterpart that relaxes all
// weights toward neutral and prunes near-neutral entries.
//
// Callers must serialize updates to the same user's preference record;
// updates to different users are independent.
package personalize
