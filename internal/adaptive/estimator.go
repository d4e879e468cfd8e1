package adaptive

import (
	"math"

	"github.com/remaimber-it/examprep/internal/domain/questionbank"
)

// Observation is one scored response as seen by the estimator.
type Observation struct {
	Difficulty     float64 // b
	Discrimination float64 // a
	Guessing       float64 // c
	Correct        bool
}

// ObservationFor projects a question and its outcome onto the theta scale.
func ObservationFor(q questionbank.Question, correct bool) Observation {
	return Observation{
		Difficulty:     q.DifficultyValue(),
		Discrimination: q.Discrimination(),
		Guessing:       q.Guessing(),
		Correct:        correct,
	}
}

// Estimator maintains the ability estimate. Implementations must be
// deterministic: identical inputs yield identical outputs.
type Estimator interface {
	// Estimate folds all observations, in order, into prior.
	Estimate(prior float64, obs []Observation) float64
	// Update applies a single observation; seen is the number of
	// observations already folded into theta during this session.
	Update(theta float64, o Observation, seen int) float64
}

// StepEstimator nudges theta by k_n * a * (u - P(theta)) per observation,
// where u is 1 for a correct answer and P is the 3PL success probability.
// k_n shrinks as observations accumulate and theta stays clamped.
type StepEstimator struct {
	cfg Config
}

var _ Estimator = (*StepEstimator)(nil)

func NewStepEstimator(cfg Config) *StepEstimator {
	return &StepEstimator{cfg: cfg}
}

func (e *StepEstimator) Estimate(prior float64, obs []Observation) float64 {
	theta := e.seed(prior)
	for i, o := range obs {
		theta = e.Update(theta, o, i)
	}
	return theta
}

func (e *StepEstimator) Update(theta float64, o Observation, seen int) float64 {
	theta = e.seed(theta)
	a := o.Discrimination
	if a <= 0 {
		a = 1
	}
	u := 0.0
	if o.Correct {
		u = 1
	}
	next := theta + e.StepSize(seen)*a*(u-Probability(theta, o))
	return e.cfg.clamp(next)
}

// StepSize is k for the observation following seen earlier ones.
func (e *StepEstimator) StepSize(seen int) float64 {
	if seen < 0 {
		seen = 0
	}
	return e.cfg.InitialStep / (1 + e.cfg.StepDecay*float64(seen))
}

func (e *StepEstimator) seed(theta float64) float64 {
	if math.IsNaN(theta) || math.IsInf(theta, 0) {
		theta = 0
	}
	return e.cfg.clamp(theta)
}

// Probability is the 3PL chance that an examinee at theta answers correctly.
func Probability(theta float64, o Observation) float64 {
	a := o.Discrimination
	if a <= 0 {
		a = 1
	}
	c := o.Guessing
	if c < 0 || c >= 1 {
		c = 0
	}
	return c + (1-c)*sigmoid(a*(theta-o.Difficulty))
}

func sigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}
