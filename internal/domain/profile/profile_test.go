package profile_test

import (
	"testing"
	"time"

	"github.com/remaimber-it/examprep/internal/domain/profile"
)

func sameSet(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestApply_Overwrite(t *testing.T) {
	p := *profile.New("u1")
	p.WeakTopics = []string{"Optics"}
	p.StrongTopics = []string{"Algebra"}
	p.TotalAnswered = 10
	p.TotalCorrect = 6

	done := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	next := profile.Apply(p, profile.SessionResult{
		Theta:        0.7,
		Answered:     5,
		Correct:      4,
		WeakTopics:   []string{"Thermodynamics"},
		StrongTopics: []string{"Mechanics"},
		SeenTopics:   []string{"Mechanics", "Thermodynamics"},
		CompletedAt:  done,
	}, profile.DefaultMergeOptions())

	if next.Theta != 0.7 {
		t.Errorf("expected theta 0.7, got %v", next.Theta)
	}
	if next.TotalAnswered != 15 || next.TotalCorrect != 10 {
		t.Errorf("expected totals 15/10, got %d/%d", next.TotalAnswered, next.TotalCorrect)
	}
	if !sameSet(next.WeakTopics, []string{"Thermodynamics"}) {
		t.Errorf("expected weak topics replaced, got %v", next.WeakTopics)
	}
	if !sameSet(next.StrongTopics, []string{"Mechanics"}) {
		t.Errorf("expected strong topics replaced, got %v", next.StrongTopics)
	}
	if !next.LastActiveAt.Equal(done) {
		t.Errorf("expected last active %v, got %v", done, next.LastActiveAt)
	}
	if next.SessionsCompleted != 1 {
		t.Errorf("expected 1 completed session, got %d", next.SessionsCompleted)
	}

	// The input profile must be untouched.
	if !sameSet(p.WeakTopics, []string{"Optics"}) || p.TotalAnswered != 10 {
		t.Error("Apply mutated its input")
	}
}

func TestApply_DecayMerge(t *testing.T) {
	opts := profile.MergeOptions{Policy: profile.PolicyDecayMerge, Decay: 0.5, Threshold: 0.25}
	p := *profile.New("u1")

	first := profile.Apply(p, profile.SessionResult{
		WeakTopics: []string{"Optics"},
		SeenTopics: []string{"Optics"},
	}, opts)
	if !sameSet(first.WeakTopics, []string{"Optics"}) {
		t.Fatalf("expected Optics weak after first session, got %v", first.WeakTopics)
	}

	// A neutral second session halves the score: -0.25 is still weak.
	second := profile.Apply(first, profile.SessionResult{SeenTopics: []string{"Optics"}}, opts)
	if !sameSet(second.WeakTopics, []string{"Optics"}) {
		t.Errorf("expected Optics to stay weak, got %v", second.WeakTopics)
	}

	// A strong third session flips it.
	third := profile.Apply(second, profile.SessionResult{
		StrongTopics: []string{"Optics"},
		SeenTopics:   []string{"Optics"},
	}, opts)
	if len(third.WeakTopics) != 0 {
		t.Errorf("expected no weak topics, got %v", third.WeakTopics)
	}
	if !sameSet(third.StrongTopics, []string{"Optics"}) {
		t.Errorf("expected Optics strong, got %v", third.StrongTopics)
	}
}

func TestApply_DecayMergeForgetsUnseenTopics(t *testing.T) {
	opts := profile.MergeOptions{Policy: profile.PolicyDecayMerge, Decay: 0.5, Threshold: 0.25}
	p := *profile.New("u1")
	p.TopicScores = map[string]float64{"Optics": -0.3}

	next := profile.Apply(p, profile.SessionResult{}, opts)

	if len(next.WeakTopics) != 0 {
		t.Errorf("expected decayed topic to drop below threshold, got %v", next.WeakTopics)
	}
	if got := next.TopicScores["Optics"]; got != -0.15 {
		t.Errorf("expected decayed score -0.15, got %v", got)
	}
}

func TestApply_OlderResultOnlyAddsCounters(t *testing.T) {
	newest := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)
	p := *profile.New("u1")
	p.Theta = 1.3
	p.StrongTopics = []string{"Mechanics"}
	p.TopicScores = map[string]float64{"Mechanics": 1}
	p.TotalAnswered = 3
	p.TotalCorrect = 3
	p.SessionsCompleted = 1
	p.LastActiveAt = newest

	next := profile.Apply(p, profile.SessionResult{
		Theta:       -1.3,
		Answered:    3,
		WeakTopics:  []string{"Mechanics"},
		SeenTopics:  []string{"Mechanics"},
		CompletedAt: newest.Add(-time.Hour),
	}, profile.DefaultMergeOptions())

	if next.Theta != 1.3 {
		t.Errorf("expected theta of the newer session, got %v", next.Theta)
	}
	if !sameSet(next.StrongTopics, []string{"Mechanics"}) || len(next.WeakTopics) != 0 {
		t.Errorf("expected topic sets of the newer session, got weak %v strong %v", next.WeakTopics, next.StrongTopics)
	}
	if next.TotalAnswered != 6 || next.TotalCorrect != 3 || next.SessionsCompleted != 2 {
		t.Errorf("expected counters folded in, got %d/%d/%d", next.TotalAnswered, next.TotalCorrect, next.SessionsCompleted)
	}
	if !next.LastActiveAt.Equal(newest) {
		t.Errorf("expected last active to stay %v, got %v", newest, next.LastActiveAt)
	}
}

func TestApply_DecayMergeWeighsOlderResultLess(t *testing.T) {
	opts := profile.MergeOptions{Policy: profile.PolicyDecayMerge, Decay: 0.5, Threshold: 0.25}
	newest := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)
	p := *profile.New("u1")
	p.Theta = 0.8
	p.TopicScores = map[string]float64{"Mechanics": 0.5}
	p.StrongTopics = []string{"Mechanics"}
	p.LastActiveAt = newest

	next := profile.Apply(p, profile.SessionResult{
		Theta:       -0.4,
		WeakTopics:  []string{"Mechanics", "Optics"},
		SeenTopics:  []string{"Mechanics", "Optics"},
		CompletedAt: newest.Add(-time.Hour),
	}, opts)

	if next.Theta != 0.8 {
		t.Errorf("expected theta to stay 0.8, got %v", next.Theta)
	}
	// Older signals land at decay*(1-decay) = 0.25 weight, no decay of the rest.
	if got := next.TopicScores["Mechanics"]; got != 0.25 {
		t.Errorf("expected Mechanics 0.25, got %v", got)
	}
	if got := next.TopicScores["Optics"]; got != -0.25 {
		t.Errorf("expected Optics -0.25, got %v", got)
	}
	if !sameSet(next.StrongTopics, []string{"Mechanics"}) || !sameSet(next.WeakTopics, []string{"Optics"}) {
		t.Errorf("unexpected classification weak %v strong %v", next.WeakTopics, next.StrongTopics)
	}
}

func TestParsePolicy(t *testing.T) {
	p, err := profile.ParsePolicy("exponential-decay-merge")
	if err != nil || p != profile.PolicyDecayMerge {
		t.Errorf("expected decay merge, got %q (err %v)", p, err)
	}
	p, err = profile.ParsePolicy("")
	if err != nil || p != profile.PolicyOverwrite {
		t.Errorf("expected overwrite default, got %q (err %v)", p, err)
	}
	if _, err := profile.ParsePolicy("merge"); err == nil {
		t.Error("expected error for unknown policy")
	}
}
