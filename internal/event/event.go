package event

import (
	"context"
	"time"
)

// Routing keys on the topic exchange.
const (
	TypeSessionStarted       = "exam.session.started"
	TypeAnswerRecorded       = "exam.answer.recorded"
	TypeSessionCompleted     = "exam.session.completed"
	TypeSessionAbandoned     = "exam.session.abandoned"
	TypeProfilePersistFailed = "exam.profile.persist_failed"
)

// Envelope is the JSON body of every published message.
type Envelope struct {
	Type       string    `json:"type"`
	OccurredAt time.Time `json:"occurred_at"`
	Payload    any       `json:"payload"`
}

type Publisher interface {
	Publish(ctx context.Context, eventType string, payload any) error
	Close() error
}

type SessionStarted struct {
	SessionID  string  `json:"session_id"`
	UserID     string  `json:"user_id"`
	ExamType   string  `json:"exam_type"`
	Type       string  `json:"type"`
	ThetaStart float64 `json:"theta_start"`
}

type AnswerRecorded struct {
	SessionID  string  `json:"session_id"`
	QuestionID string  `json:"question_id"`
	Correct    bool    `json:"correct"`
	Theta      float64 `json:"theta"`
	Attempted  int     `json:"attempted"`
}

type SessionCompleted struct {
	SessionID    string   `json:"session_id"`
	UserID       string   `json:"user_id"`
	Reason       string   `json:"reason"`
	ThetaEnd     float64  `json:"theta_end"`
	Accuracy     float64  `json:"accuracy"`
	WeakTopics   []string `json:"weak_topics"`
	StrongTopics []string `json:"strong_topics"`
}

type SessionAbandoned struct {
	SessionID string `json:"session_id"`
	UserID    string `json:"user_id"`
	Attempted int    `json:"attempted"`
}

type ProfilePersistFailed struct {
	SessionID string `json:"session_id"`
	UserID    string `json:"user_id"`
	Error     string `json:"error"`
}

// NopPublisher drops every event. Used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, string, any) error { return nil }
func (NopPublisher) Close() error                               { return nil }
