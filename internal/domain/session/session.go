package session

import (
	"fmt"
	"strings"
	"time"
)

type State string

const (
	StateNotStarted State = "not_started"
	StateInProgress State = "in_progress"
	StateCompleted  State = "completed"
	StateAbandoned  State = "abandoned"
)

type Type string

const (
	TypeAdaptive Type = "adaptive"
	TypeMock     Type = "mock" // fixed-form mock test
)

func ParseType(s string) (Type, error) {
	switch t := Type(strings.ToLower(s)); t {
	case TypeAdaptive, TypeMock:
		return t, nil
	case "":
		return TypeAdaptive, nil
	default:
		return "", fmt.Errorf("unknown session type %q", s)
	}
}

// CompletionReason records why a session left InProgress.
type CompletionReason string

const (
	ReasonTargetReached CompletionReason = "target_reached"
	ReasonTimeExpired   CompletionReason = "time_expired"
	ReasonPoolExhausted CompletionReason = "pool_exhausted"
	ReasonManual        CompletionReason = "manual"
	ReasonAbandoned     CompletionReason = "abandoned"
)

type Confidence string

const (
	ConfidenceLow    Confidence = "low"
	ConfidenceMedium Confidence = "medium"
	ConfidenceHigh   Confidence = "high"
)

func ParseConfidence(s string) (*Confidence, error) {
	if s == "" {
		return nil, nil
	}
	switch c := Confidence(strings.ToLower(s)); c {
	case ConfidenceLow, ConfidenceMedium, ConfidenceHigh:
		return &c, nil
	default:
		return nil, fmt.Errorf("unknown confidence %q", s)
	}
}

// Response is one answered question within a session. Topic and Difficulty
// are snapshots of the question at answer time.
type Response struct {
	ID          string
	SessionID   string
	QuestionID  string
	ChosenIndex int
	Correct     bool
	TimeSpent   time.Duration
	Confidence  *Confidence
	Topic       string
	Difficulty  float64
	ThetaAfter  float64
	AnsweredAt  time.Time
}

// Session is a single test attempt. Values are treated as immutable by the
// adaptive engine: every transition returns a fresh copy.
type Session struct {
	ID                 string
	UserID             string
	ExamType           string
	Type               Type
	SubjectIDs         []string
	State              State
	StartedAt          time.Time
	EndedAt            *time.Time
	Duration           time.Duration // 0 = untimed
	TargetQuestions    int
	QuestionsAttempted int
	CorrectAnswers     int
	ThetaStart         float64
	Theta              float64 // running estimate
	ThetaEnd           *float64
	WeakTopics         []string
	StrongTopics       []string
	Accuracy           float64
	CompletionReason   CompletionReason
	CurrentQuestionID  string // presented and awaiting an answer
	Responses          []Response
	ProfileApplied     bool
}

// CompletionPercentage is attempted / target as a percentage.
func (s *Session) CompletionPercentage() float64 {
	if s.TargetQuestions <= 0 {
		return 0
	}
	return float64(s.QuestionsAttempted) / float64(s.TargetQuestions) * 100
}

// Answered reports whether questionID already has a response.
func (s *Session) Answered(questionID string) bool {
	for _, r := range s.Responses {
		if r.QuestionID == questionID {
			return true
		}
	}
	return false
}

// AskedIDs returns every question id answered or currently presented.
func (s *Session) AskedIDs() map[string]struct{} {
	asked := make(map[string]struct{}, len(s.Responses)+1)
	for _, r := range s.Responses {
		asked[r.QuestionID] = struct{}{}
	}
	if s.CurrentQuestionID != "" {
		asked[s.CurrentQuestionID] = struct{}{}
	}
	return asked
}

// Deadline returns the wall-clock end of a timed session.
func (s *Session) Deadline() (time.Time, bool) {
	if s.Duration <= 0 {
		return time.Time{}, false
	}
	return s.StartedAt.Add(s.Duration), true
}

// IsExpired reports whether a timed session has run out of time at now.
func (s *Session) IsExpired(now time.Time) bool {
	deadline, ok := s.Deadline()
	if !ok {
		return false
	}
	return !now.Before(deadline)
}

// Sealed reports whether the session accepts no further mutation.
func (s *Session) Sealed() bool {
	return s.State == StateCompleted || s.State == StateAbandoned
}

// Clone returns a deep copy.
func (s *Session) Clone() *Session {
	c := *s
	c.SubjectIDs = append([]string(nil), s.SubjectIDs...)
	c.WeakTopics = append([]string(nil), s.WeakTopics...)
	c.StrongTopics = append([]string(nil), s.StrongTopics...)
	c.Responses = append([]Response(nil), s.Responses...)
	if s.EndedAt != nil {
		t := *s.EndedAt
		c.EndedAt = &t
	}
	if s.ThetaEnd != nil {
		v := *s.ThetaEnd
		c.ThetaEnd = &v
	}
	return &c
}
