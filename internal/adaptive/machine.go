package adaptive

import (
	"errors"
	"time"

	"github.com/remaimber-it/examprep/internal/domain/questionbank"
	"github.com/remaimber-it/examprep/internal/domain/session"
	"github.com/remaimber-it/examprep/internal/id"
)

// Machine drives a session NotStarted → InProgress → Completed. Every
// transition takes the current session value and returns a new one; nothing
// is persisted here.
type Machine struct {
	cfg       Config
	estimator Estimator
	selectors map[session.Type]Selector
	analyzer  Analyzer
	newID     func() string
}

type Option func(*Machine)

func WithEstimator(e Estimator) Option {
	return func(m *Machine) { m.estimator = e }
}

func WithSelector(t session.Type, s Selector) Option {
	return func(m *Machine) { m.selectors[t] = s }
}

func WithAnalyzer(a Analyzer) Option {
	return func(m *Machine) { m.analyzer = a }
}

// WithIDGenerator replaces the session/response ID source.
func WithIDGenerator(fn func() string) Option {
	return func(m *Machine) { m.newID = fn }
}

func NewMachine(cfg Config, opts ...Option) *Machine {
	m := &Machine{
		cfg:       cfg,
		estimator: NewStepEstimator(cfg),
		selectors: map[session.Type]Selector{
			session.TypeAdaptive: NewInformationSelector(cfg),
			session.TypeMock:     FixedFormSelector{},
		},
		analyzer: NewThresholdAnalyzer(cfg.Thresholds),
		newID:    id.GenerateID,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Machine) Config() Config { return m.cfg }

// StartParams describes a session about to begin.
type StartParams struct {
	UserID     string
	ExamType   string
	Type       session.Type
	SubjectIDs []string
	Config     session.Config
	Theta      float64 // carried over from the profile
}

// Answer is one submission for the presented question.
type Answer struct {
	Question    questionbank.Question
	ChosenIndex int
	Elapsed     time.Duration
	Confidence  *session.Confidence
}

// Transition is the outcome of a state change.
type Transition struct {
	Session  *session.Session
	Next     *questionbank.Question // nil once the session is over
	Response *session.Response      // set by Submit
	Analysis *Analysis              // set when the session completed
}

// Completed reports whether this transition sealed the session.
func (t *Transition) Completed() bool {
	return t.Session != nil && t.Session.State == session.StateCompleted
}

// Start creates an InProgress session seeded with the profile's theta and
// picks its first question.
func (m *Machine) Start(p StartParams, pool []questionbank.Question, now time.Time) (*Transition, error) {
	if p.ExamType == "" {
		return nil, ErrMissingExamType
	}
	if p.Config.TargetQuestions <= 0 {
		return nil, ErrInvalidTarget
	}
	typ := p.Type
	if typ == "" {
		typ = session.TypeAdaptive
	}
	theta := m.estimator.Estimate(p.Theta, nil)

	s := &session.Session{
		ID:              m.newID(),
		UserID:          p.UserID,
		ExamType:        p.ExamType,
		Type:            typ,
		SubjectIDs:      append([]string(nil), p.SubjectIDs...),
		State:           session.StateNotStarted,
		StartedAt:       now,
		Duration:        p.Config.Duration,
		TargetQuestions: p.Config.TargetQuestions,
		ThetaStart:      theta,
		Theta:           theta,
		WeakTopics:      []string{},
		StrongTopics:    []string{},
	}

	next, err := m.pick(s, pool)
	if errors.Is(err, ErrQuestionPoolExhausted) {
		return nil, ErrNoQuestionsAvailable
	}
	if err != nil {
		return nil, err
	}

	s.State = session.StateInProgress
	s.CurrentQuestionID = next.ID
	return &Transition{Session: s, Next: next}, nil
}

// Submit records an answer to the presented question, refreshes theta, and
// either presents the next question or completes the session. On error the
// input session is returned untouched.
func (m *Machine) Submit(cur *session.Session, a Answer, pool []questionbank.Question, now time.Time) (*Transition, error) {
	if cur.State != session.StateInProgress {
		return nil, ErrSessionNotInProgress
	}
	if cur.Answered(a.Question.ID) {
		return nil, ErrDuplicateAnswer
	}
	if cur.CurrentQuestionID != "" && cur.CurrentQuestionID != a.Question.ID {
		return nil, ErrQuestionNotPresented
	}
	if !a.Question.ValidIndex(a.ChosenIndex) {
		return nil, ErrInvalidAnswerIndex
	}

	s := cur.Clone()
	correct := a.Question.IsCorrect(a.ChosenIndex)
	obs := ObservationFor(a.Question, correct)
	s.Theta = m.estimator.Update(s.Theta, obs, len(s.Responses))

	resp := session.Response{
		ID:          m.newID(),
		SessionID:   s.ID,
		QuestionID:  a.Question.ID,
		ChosenIndex: a.ChosenIndex,
		Correct:     correct,
		TimeSpent:   a.Elapsed,
		Confidence:  a.Confidence,
		Topic:       a.Question.Topic,
		Difficulty:  obs.Difficulty,
		ThetaAfter:  s.Theta,
		AnsweredAt:  now,
	}
	s.Responses = append(s.Responses, resp)
	s.QuestionsAttempted++
	if correct {
		s.CorrectAnswers++
	}
	s.CurrentQuestionID = ""

	var t *Transition
	switch {
	case s.QuestionsAttempted >= s.TargetQuestions:
		t = m.complete(s, session.ReasonTargetReached, now)
	case s.IsExpired(now):
		t = m.complete(s, session.ReasonTimeExpired, now)
	default:
		next, err := m.pick(s, pool)
		switch {
		case errors.Is(err, ErrQuestionPoolExhausted):
			t = m.complete(s, session.ReasonPoolExhausted, now)
		case err != nil:
			return nil, err
		default:
			s.CurrentQuestionID = next.ID
			t = &Transition{Session: s, Next: next}
		}
	}
	t.Response = &resp
	return t, nil
}

// Complete seals an InProgress session and runs the performance analysis.
// Drivers call it directly when a timed session expires.
func (m *Machine) Complete(cur *session.Session, reason session.CompletionReason, now time.Time) (*Transition, error) {
	if cur.State != session.StateInProgress {
		return nil, ErrSessionNotInProgress
	}
	return m.complete(cur.Clone(), reason, now), nil
}

// Abandon seals an InProgress session without analysis. The profile must
// not be updated for abandoned sessions.
func (m *Machine) Abandon(cur *session.Session, now time.Time) (*session.Session, error) {
	if cur.State != session.StateInProgress {
		return nil, ErrSessionNotInProgress
	}
	s := cur.Clone()
	s.State = session.StateAbandoned
	s.CompletionReason = session.ReasonAbandoned
	s.CurrentQuestionID = ""
	end := endTime(s, now)
	s.EndedAt = &end
	return s, nil
}

// IsExpired reports whether a timed session ran out of time at now.
func (m *Machine) IsExpired(s *session.Session, now time.Time) bool {
	return s.IsExpired(now)
}

// Analyze runs the performance analysis over a session's responses.
func (m *Machine) Analyze(s *session.Session) Analysis {
	return m.analyzer.Analyze(s.Responses)
}

func (m *Machine) complete(s *session.Session, reason session.CompletionReason, now time.Time) *Transition {
	analysis := m.analyzer.Analyze(s.Responses)

	s.State = session.StateCompleted
	s.CompletionReason = reason
	s.CurrentQuestionID = ""
	end := endTime(s, now)
	s.EndedAt = &end
	theta := s.Theta
	s.ThetaEnd = &theta
	s.WeakTopics = analysis.WeakTopics
	s.StrongTopics = analysis.StrongTopics
	s.Accuracy = analysis.OverallAccuracy

	return &Transition{Session: s, Analysis: &analysis}
}

func (m *Machine) pick(s *session.Session, pool []questionbank.Question) (*questionbank.Question, error) {
	sel, ok := m.selectors[s.Type]
	if !ok {
		sel = m.selectors[session.TypeAdaptive]
	}
	next := sel.SelectNext(s.Theta, s.AskedIDs(), pool, s.ExamType)
	if next == nil {
		return nil, ErrQuestionPoolExhausted
	}
	return next, nil
}

func endTime(s *session.Session, now time.Time) time.Time {
	if now.Before(s.StartedAt) {
		return s.StartedAt
	}
	return now
}
