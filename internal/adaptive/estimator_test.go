package adaptive

import (
	"math"
	"testing"
)

func TestUpdate_CorrectAtOwnLevelRaisesTheta(t *testing.T) {
	cfg := DefaultConfig()
	e := NewStepEstimator(cfg)

	got := e.Update(0, Observation{Difficulty: 0, Correct: true}, 0)

	if got <= 0 {
		t.Errorf("expected theta > 0, got %v", got)
	}
	if got > cfg.ThetaMax {
		t.Errorf("expected theta <= %v, got %v", cfg.ThetaMax, got)
	}
	if got != 0.5 {
		t.Errorf("expected k*(1-0.5) = 0.5, got %v", got)
	}
}

func TestEstimate_CorrectOnHarderQuestionsIsNonDecreasing(t *testing.T) {
	e := NewStepEstimator(DefaultConfig())
	theta := -1.0

	for i := 0; i < 40; i++ {
		next := e.Update(theta, Observation{Difficulty: theta + 0.5, Correct: true}, i)
		if next < theta {
			t.Fatalf("step %d: theta decreased from %v to %v", i, theta, next)
		}
		theta = next
	}
}

func TestEstimate_IncorrectOnEasierQuestionsIsNonIncreasing(t *testing.T) {
	e := NewStepEstimator(DefaultConfig())
	theta := 1.0

	for i := 0; i < 40; i++ {
		next := e.Update(theta, Observation{Difficulty: theta - 0.5, Correct: false}, i)
		if next > theta {
			t.Fatalf("step %d: theta increased from %v to %v", i, theta, next)
		}
		theta = next
	}
}

func TestEstimate_ClampsStreaks(t *testing.T) {
	cfg := DefaultConfig()
	e := NewStepEstimator(cfg)

	obs := make([]Observation, 200)
	for i := range obs {
		obs[i] = Observation{Difficulty: 4, Discrimination: 2.5, Correct: true}
	}
	if got := e.Estimate(3.9, obs); got > cfg.ThetaMax {
		t.Errorf("expected theta clamped to %v, got %v", cfg.ThetaMax, got)
	}

	for i := range obs {
		obs[i] = Observation{Difficulty: -4, Discrimination: 2.5, Correct: false}
	}
	if got := e.Estimate(-3.9, obs); got < cfg.ThetaMin {
		t.Errorf("expected theta clamped to %v, got %v", cfg.ThetaMin, got)
	}
}

func TestEstimate_IsDeterministic(t *testing.T) {
	e := NewStepEstimator(DefaultConfig())
	obs := []Observation{
		{Difficulty: 0, Correct: true},
		{Difficulty: 1, Correct: false},
		{Difficulty: 0.5, Discrimination: 1.4, Guessing: 0.25, Correct: true},
	}

	first := e.Estimate(0.2, obs)
	for i := 0; i < 5; i++ {
		if got := e.Estimate(0.2, obs); got != first {
			t.Fatalf("expected %v on every run, got %v", first, got)
		}
	}
}

func TestEstimate_MatchesIncrementalUpdates(t *testing.T) {
	e := NewStepEstimator(DefaultConfig())
	obs := []Observation{
		{Difficulty: -1, Correct: true},
		{Difficulty: 0, Correct: true},
		{Difficulty: 1, Correct: false},
	}

	theta := 0.0
	for i, o := range obs {
		theta = e.Update(theta, o, i)
	}

	if got := e.Estimate(0, obs); got != theta {
		t.Errorf("batch estimate %v differs from incremental %v", got, theta)
	}
}

func TestStepSize_Decays(t *testing.T) {
	e := NewStepEstimator(DefaultConfig())

	prev := e.StepSize(0)
	for n := 1; n < 10; n++ {
		k := e.StepSize(n)
		if k >= prev {
			t.Fatalf("expected step %d (%v) to be smaller than step %d (%v)", n, k, n-1, prev)
		}
		prev = k
	}
}

func TestEstimate_SeedsNonFinitePrior(t *testing.T) {
	e := NewStepEstimator(DefaultConfig())

	if got := e.Estimate(math.NaN(), nil); got != 0 {
		t.Errorf("expected NaN prior to seed at 0, got %v", got)
	}
	if got := e.Estimate(99, nil); got != 4 {
		t.Errorf("expected prior clamped to 4, got %v", got)
	}
}

func TestProbability_GuessingFloor(t *testing.T) {
	p := Probability(-10, Observation{Difficulty: 3, Guessing: 0.25})
	if p < 0.25 {
		t.Errorf("expected probability floored by guessing, got %v", p)
	}
}
