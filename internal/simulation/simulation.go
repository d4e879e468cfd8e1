// simulation/simulation.go
package simulation

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"sort"
	"time"

	"github.com/remaimber-it/examprep/internal/adaptive"
	"github.com/remaimber-it/examprep/internal/domain/questionbank"
	"github.com/remaimber-it/examprep/internal/domain/session"
	"github.com/remaimber-it/examprep/internal/worker"
)

// Examinee answers like a test-taker with a known ability: each question is
// answered correctly with its 3PL probability at TrueTheta.
type Examinee struct {
	TrueTheta float64
	rng       *rand.Rand
}

func NewExaminee(trueTheta float64, seed int64) *Examinee {
	return &Examinee{TrueTheta: trueTheta, rng: rand.New(rand.NewSource(seed))}
}

// Answer returns the chosen option index for q.
func (e *Examinee) Answer(q questionbank.Question) int {
	p := adaptive.Probability(e.TrueTheta, adaptive.ObservationFor(q, true))
	if e.rng.Float64() < p {
		return q.CorrectIndex
	}
	wrong := e.rng.Intn(len(q.Options) - 1)
	if wrong >= q.CorrectIndex {
		wrong++
	}
	return wrong
}

// SyntheticBank builds n questions spread over topics with IRT parameters
// drawn from the given seed. Difficulty labels follow b.
func SyntheticBank(n int, topics []string, examType string, seed int64) []questionbank.Question {
	if len(topics) == 0 {
		topics = []string{"General"}
	}
	rng := rand.New(rand.NewSource(seed))
	bank := make([]questionbank.Question, n)
	for i := range bank {
		b := rng.Float64()*6 - 3
		bank[i] = questionbank.Question{
			ID:           fmt.Sprintf("sim-%04d", i),
			SubjectID:    "simulated",
			Stem:         fmt.Sprintf("Simulated question %d", i),
			Options:      []string{"A", "B", "C", "D"},
			CorrectIndex: rng.Intn(questionbank.OptionCount),
			Difficulty:   labelFor(b),
			IRT: &questionbank.IRTParams{
				Difficulty:     b,
				Discrimination: 0.8 + rng.Float64()*0.8,
				Guessing:       rng.Float64() * 0.2,
			},
			Topic:     topics[i%len(topics)],
			ExamTypes: []string{examType},
		}
	}
	return bank
}

func labelFor(b float64) questionbank.Difficulty {
	switch {
	case b < -0.5:
		return questionbank.DifficultyEasy
	case b > 0.5:
		return questionbank.DifficultyDifficult
	default:
		return questionbank.DifficultyModerate
	}
}

type RunConfig struct {
	ExamType        string
	Type            session.Type
	TargetQuestions int
	StartTheta      float64
	TimePerAnswer   time.Duration
}

// Result is one simulated session.
type Result struct {
	TrueTheta float64
	Estimate  float64
	Attempted int
	Correct   int
	Reason    session.CompletionReason
	Trace     []float64 // theta after each answer
	Weak      []string
	Strong    []string
	Err       error
}

// AbsError is |estimate - true theta|.
func (r Result) AbsError() float64 {
	return math.Abs(r.Estimate - r.TrueTheta)
}

// Run drives one session end-to-end through the machine.
func Run(m *adaptive.Machine, ex *Examinee, bank []questionbank.Question, cfg RunConfig) (Result, error) {
	now := time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)
	res := Result{TrueTheta: ex.TrueTheta}

	t, err := m.Start(adaptive.StartParams{
		UserID:   "simulated",
		ExamType: cfg.ExamType,
		Type:     cfg.Type,
		Config:   session.Config{TargetQuestions: cfg.TargetQuestions},
		Theta:    cfg.StartTheta,
	}, bank, now)
	if err != nil {
		return res, err
	}

	for !t.Completed() {
		if t.Next == nil {
			return res, errors.New("machine returned no question for a running session")
		}
		now = now.Add(cfg.TimePerAnswer)
		t, err = m.Submit(t.Session, adaptive.Answer{
			Question:    *t.Next,
			ChosenIndex: ex.Answer(*t.Next),
			Elapsed:     cfg.TimePerAnswer,
		}, bank, now)
		if err != nil {
			return res, err
		}
		res.Trace = append(res.Trace, t.Session.Theta)
	}

	s := t.Session
	res.Estimate = *s.ThetaEnd
	res.Attempted = s.QuestionsAttempted
	res.Correct = s.CorrectAnswers
	res.Reason = s.CompletionReason
	res.Weak = s.WeakTopics
	res.Strong = s.StrongTopics
	return res, nil
}

// Batch runs one examinee per true theta on a worker pool and returns the
// results in input order.
func Batch(m *adaptive.Machine, thetas []float64, bank []questionbank.Question, cfg RunConfig, workers int, seed int64) []Result {
	pool := worker.NewPool[Result](workers, len(thetas))

	for i, theta := range thetas {
		ex := NewExaminee(theta, seed+int64(i))
		pool.Submit(fmt.Sprintf("%06d", i), func() Result {
			res, err := Run(m, ex, bank, cfg)
			res.Err = err
			return res
		})
	}
	pool.Close()

	type indexed struct {
		id  string
		res Result
	}
	collected := make([]indexed, 0, len(thetas))
	for r := range pool.Results() {
		collected = append(collected, indexed{r.JobID, r.Output})
	}
	sort.Slice(collected, func(i, j int) bool { return collected[i].id < collected[j].id })

	out := make([]Result, len(collected))
	for i, c := range collected {
		out[i] = c.res
	}
	return out
}

// Stats summarises estimation quality over a batch.
type Stats struct {
	Runs int
	RMSE float64
	Bias float64
	Mean float64 // mean answered questions
}

func Summarize(results []Result) Stats {
	var st Stats
	var sq, bias, answered float64
	for _, r := range results {
		if r.Err != nil {
			continue
		}
		st.Runs++
		d := r.Estimate - r.TrueTheta
		sq += d * d
		bias += d
		answered += float64(r.Attempted)
	}
	if st.Runs == 0 {
		return st
	}
	n := float64(st.Runs)
	st.RMSE = math.Sqrt(sq / n)
	st.Bias = bias / n
	st.Mean = answered / n
	return st
}
