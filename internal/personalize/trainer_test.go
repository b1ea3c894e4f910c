// Daily Feed - Personalized RSS Aggregation and Scheduling
// Copyright 2026 Mozayed (mozayed007)
// SPDX-License-Identifier: MIT
// https://github.com/mozayed007/Daily-Feed

package personalize

import (
	"io"
	"math"
	"testing"

	"github.com/mozayed007/Daily-Feed/internal/logging"
)

func newTestTrainer() *Trainer {
	return NewTrainer(logging.NewTestLogger(io.Discard))
}

func TestInteractionPositiveStrength(t *testing.T) {
	tests := []struct {
		name  string
		event Interaction
		want  float64
	}{
		{"no signals", Interaction{}, 0},
		{"explicit like", Interaction{Rating: 1}, 1.0},
		{"long read", Interaction{ReadDuration: 90}, 1.0},
		{"medium read", Interaction{ReadDuration: 45}, 0.5},
		{"boundary 30s is not medium", Interaction{ReadDuration: 30}, 0},
		{"boundary 60s is medium", Interaction{ReadDuration: 60}, 0.5},
		{"saved", Interaction{Saved: true}, 1.0},
		{"all positive signals", Interaction{Rating: 1, ReadDuration: 120, Saved: true}, 3.0},
		{"dislike contributes nothing positive", Interaction{Rating: -1}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.event.PositiveStrength(); got != tt.want {
				t.Errorf("PositiveStrength() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestInteractionNegativeStrength(t *testing.T) {
	tests := []struct {
		name  string
		event Interaction
		want  float64
	}{
		{"no signals", Interaction{}, 0},
		{"explicit dislike", Interaction{Rating: -1}, 1.5},
		{"dismissed", Interaction{Dismissed: true}, 0.5},
		{"very quick read", Interaction{ReadDuration: 3}, 0.5},
		{"zero duration is not a quick read", Interaction{ReadDuration: 0}, 0},
		{"boundary 5s is not quick", Interaction{ReadDuration: 5}, 0},
		{"dislike plus dismissal", Interaction{Rating: -1, Dismissed: true}, 2.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.event.NegativeStrength(); got != tt.want {
				t.Errorf("NegativeStrength() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestUpdateFromInteractionPositive(t *testing.T) {
	tr := newTestTrainer()
	prefs := NewUserPreferences("u1")
	article := &Article{ID: "a", Category: "AI", Source: "TechDaily"}

	// like + long read + save = strength 3
	changes := tr.UpdateFromInteraction(prefs, article, Interaction{Rating: 1, ReadDuration: 90, Saved: true})

	if got := prefs.TopicInterests["AI"]; got != 0.65 {
		t.Errorf("topic weight = %v, want 0.5 + 0.05*3 = 0.65", got)
	}
	if got := prefs.SourcePreferences["TechDaily"]; got != 0.59 {
		t.Errorf("source weight = %v, want 0.5 + 0.03*3 = 0.59", got)
	}
	if ch, ok := changes.Topics["AI"]; !ok || ch.Old != 0.5 || ch.New != 0.65 {
		t.Errorf("topic change = %+v, want old 0.5 new 0.65", ch)
	}
}

func TestUpdateFromInteractionNegative(t *testing.T) {
	tr := newTestTrainer()
	article := &Article{ID: "a", Category: "AI", Source: "TechDaily"}

	t.Run("explicit dislike penalizes topic and source", func(t *testing.T) {
		prefs := NewUserPreferences("u1")
		tr.UpdateFromInteraction(prefs, article, Interaction{Rating: -1})

		// strength 1.5: topic 0.5 - 0.08*1.5 = 0.38; source fixed -0.03.
		if got := prefs.TopicInterests["AI"]; got != 0.38 {
			t.Errorf("topic weight = %v, want 0.38", got)
		}
		if got := prefs.SourcePreferences["TechDaily"]; got != 0.47 {
			t.Errorf("source weight = %v, want 0.47", got)
		}
	})

	t.Run("dismissal penalizes topic only", func(t *testing.T) {
		prefs := NewUserPreferences("u1")
		tr.UpdateFromInteraction(prefs, article, Interaction{Dismissed: true})

		// strength 0.5: topic 0.5 - 0.08*0.5 = 0.46; source untouched.
		if got := prefs.TopicInterests["AI"]; got != 0.46 {
			t.Errorf("topic weight = %v, want 0.46", got)
		}
		if _, ok := prefs.SourcePreferences["TechDaily"]; ok {
			t.Error("source should not be penalized without an explicit dislike")
		}
	})
}

func TestUpdateFromInteractionPositiveWinsExclusively(t *testing.T) {
	tr := newTestTrainer()
	prefs := NewUserPreferences("u1")
	article := &Article{ID: "a", Category: "AI", Source: "TechDaily"}

	// Saved (positive 1.0) and dismissed (negative 0.5) together: only the
	// positive branch applies.
	tr.UpdateFromInteraction(prefs, article, Interaction{Saved: true, Dismissed: true})

	if got := prefs.TopicInterests["AI"]; got != 0.55 {
		t.Errorf("topic weight = %v, want positive-only 0.55", got)
	}
	if got := prefs.SourcePreferences["TechDaily"]; got != 0.53 {
		t.Errorf("source weight = %v, want positive-only 0.53", got)
	}
}

func TestUpdateFromInteractionNeutral(t *testing.T) {
	tr := newTestTrainer()
	prefs := NewUserPreferences("u1")
	article := &Article{ID: "a", Category: "AI", Source: "TechDaily"}

	changes := tr.UpdateFromInteraction(prefs, article, Interaction{ReadDuration: 15})

	if len(changes.Topics) != 0 || len(changes.Sources) != 0 {
		t.Errorf("neutral interaction produced changes: %+v", changes)
	}
	if len(prefs.TopicInterests) != 0 {
		t.Errorf("neutral interaction mutated topic weights: %v", prefs.TopicInterests)
	}
}

func TestUpdateClampInvariant(t *testing.T) {
	tr := newTestTrainer()
	article := &Article{ID: "a", Category: "AI", Source: "TechDaily"}

	events := []Interaction{
		{Rating: 1, ReadDuration: 120, Saved: true}, // strongest positive
		{Rating: -1, Dismissed: true},               // strongest negative
		{Saved: true},
		{Dismissed: true},
		{Rating: -1},
		{Rating: 1},
	}

	prefs := NewUserPreferences("u1")
	// Drive weights to both extremes and verify the bound after every step.
	for i := 0; i < 40; i++ {
		event := events[i%len(events)]
		tr.UpdateFromInteraction(prefs, article, event)

		for topic, w := range prefs.TopicInterests {
			if w < MinWeight || w > MaxWeight {
				t.Fatalf("step %d: topic %q weight %v outside [%v, %v]", i, topic, w, MinWeight, MaxWeight)
			}
		}
		for source, w := range prefs.SourcePreferences {
			if w < MinWeight || w > MaxWeight {
				t.Fatalf("step %d: source %q weight %v outside [%v, %v]", i, source, w, MinWeight, MaxWeight)
			}
		}
	}
}

func TestUpdateSaturatesAtBounds(t *testing.T) {
	tr := newTestTrainer()
	article := &Article{ID: "a", Category: "AI", Source: "TechDaily"}

	prefs := NewUserPreferences("u1")
	prefs.TopicInterests["AI"] = 0.98
	tr.UpdateFromInteraction(prefs, article, Interaction{Rating: 1, ReadDuration: 120, Saved: true})
	if got := prefs.TopicInterests["AI"]; got != MaxWeight {
		t.Errorf("topic weight = %v, want clamped to %v", got, MaxWeight)
	}

	prefs = NewUserPreferences("u1")
	prefs.TopicInterests["AI"] = 0.12
	tr.UpdateFromInteraction(prefs, article, Interaction{Rating: -1, Dismissed: true})
	if got := prefs.TopicInterests["AI"]; got != MinWeight {
		t.Errorf("topic weight = %v, want clamped to %v", got, MinWeight)
	}
}

func TestUpdateLazyInitialization(t *testing.T) {
	tr := newTestTrainer()
	// Maps deliberately nil to verify lazy init at neutral.
	prefs := &UserPreferences{UserID: "u1"}
	article := &Article{ID: "a"} // General / Unknown defaults

	changes := tr.UpdateFromInteraction(prefs, article, Interaction{Saved: true})

	if ch := changes.Topics["General"]; ch.Old != NeutralWeight {
		t.Errorf("lazy-initialized topic old value = %v, want %v", ch.Old, NeutralWeight)
	}
	if got := prefs.TopicInterests["General"]; got != 0.55 {
		t.Errorf("topic weight = %v, want 0.55", got)
	}
	if got := prefs.SourcePreferences["Unknown"]; got != 0.53 {
		t.Errorf("source weight = %v, want 0.53", got)
	}
}

func TestDecayInterests(t *testing.T) {
	tr := newTestTrainer()
	prefs := NewUserPreferences("u1")
	prefs.TopicInterests = map[string]float64{
		"AI":      0.9,  // decays to 0.88, stays
		"Sports":  0.52, // deviation 0.019 after decay, pruned
		"Finance": 0.2,  // decays to 0.215, stays
	}
	prefs.SourcePreferences = map[string]float64{
		"TechDaily": 0.54, // pruned
		"Tabloid":   0.1,  // decays to 0.12, stays
	}

	tr.DecayInterests(prefs, 0.95)

	if got, ok := prefs.TopicInterests["AI"]; !ok || math.Abs(got-0.88) > 1e-9 {
		t.Errorf("AI weight = %v (present=%v), want 0.88", got, ok)
	}
	if _, ok := prefs.TopicInterests["Sports"]; ok {
		t.Error("near-neutral Sports entry should be pruned")
	}
	if got, ok := prefs.TopicInterests["Finance"]; !ok || math.Abs(got-0.215) > 1e-9 {
		t.Errorf("Finance weight = %v (present=%v), want 0.215", got, ok)
	}
	if _, ok := prefs.SourcePreferences["TechDaily"]; ok {
		t.Error("near-neutral TechDaily entry should be pruned")
	}
	if got, ok := prefs.SourcePreferences["Tabloid"]; !ok || math.Abs(got-0.12) > 1e-9 {
		t.Errorf("Tabloid weight = %v (present=%v), want 0.12", got, ok)
	}
}

func TestDecayConvergesToEmpty(t *testing.T) {
	tr := newTestTrainer()
	prefs := NewUserPreferences("u1")
	prefs.TopicInterests = map[string]float64{"AI": 1.0, "Sports": 0.1}

	for i := 0; i < 100 && len(prefs.TopicInterests) > 0; i++ {
		tr.DecayInterests(prefs, 0.95)
	}

	if len(prefs.TopicInterests) != 0 {
		t.Errorf("repeated decay should prune all entries, %d remain", len(prefs.TopicInterests))
	}
}

func TestClampWeight(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{0.5, 0.5},
		{0.05, MinWeight},
		{-1, MinWeight},
		{1.2, MaxWeight},
		{MinWeight, MinWeight},
		{MaxWeight, MaxWeight},
	}

	for _, tt := range tests {
		if got := clampWeight(tt.in); got != tt.want {
			t.Errorf("clampWeight(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
