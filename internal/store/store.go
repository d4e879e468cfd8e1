package store

import (
	"context"
	"errors"
	"time"

	"github.com/remaimber-it/examprep/internal/domain/profile"
	"github.com/remaimber-it/examprep/internal/domain/questionbank"
	"github.com/remaimber-it/examprep/internal/domain/session"
	"github.com/remaimber-it/examprep/internal/domain/subject"
)

var (
	ErrNotFound       = errors.New("not found")
	// ErrDuplicate is returned when a (session, question) response already exists.
	ErrDuplicate      = errors.New("duplicate")
	// ErrAlreadyApplied is returned when a session's profile write already
	// happened (or the session does not exist).
	ErrAlreadyApplied = errors.New("profile already applied")
	// ErrSessionClosed is returned when a session write races a completion
	// or abandonment that already sealed the stored row.
	ErrSessionClosed  = errors.New("session is no longer in progress")
)

type StoredRecommendation struct {
	SessionID   string
	Text        string
	FocusTopics []string
	Source      string
	CreatedAt   time.Time
}

// QuestionRepository is the read side the adaptive engine consumes. Empty
// subjectIDs or examType means "no filter".
type QuestionRepository interface {
	FindQuestions(ctx context.Context, subjectIDs []string, examType string) ([]questionbank.Question, error)
	GetQuestion(ctx context.Context, id string) (*questionbank.Question, error)
}

type QuestionStore interface {
	QuestionRepository
	SaveQuestion(ctx context.Context, q *questionbank.Question) error
}

type SubjectStore interface {
	SaveSubject(ctx context.Context, s *subject.Subject) error
	GetSubject(ctx context.Context, id string) (*subject.Subject, error)
	ListSubjects(ctx context.Context) ([]*subject.Subject, error)
}

type SessionStore interface {
	CreateSession(ctx context.Context, s *session.Session) error
	GetSession(ctx context.Context, id string) (*session.Session, error)
	// RecordAnswer inserts r, bumps the question's counters and writes the
	// session's new running state in one transaction.
	RecordAnswer(ctx context.Context, s *session.Session, r session.Response) error
	// UpdateSession writes the session row (state, theta, topics, end time).
	// Only rows still in progress are written; sealed ones yield
	// ErrSessionClosed.
	UpdateSession(ctx context.Context, s *session.Session) error
	// ListPendingProfileSessions returns completed sessions whose profile
	// write has not been applied yet, oldest first.
	ListPendingProfileSessions(ctx context.Context, limit int) ([]*session.Session, error)
}

type ProfileStore interface {
	GetProfile(ctx context.Context, userID string) (*profile.Profile, error)
	// UpdateProfile reads the profile (a fresh one for new users), passes it
	// through fn and writes the result back, marking sessionID as applied,
	// all in one transaction.
	UpdateProfile(ctx context.Context, userID, sessionID string, fn func(profile.Profile) profile.Profile) error
}

type RecommendationStore interface {
	SaveRecommendation(ctx context.Context, rec StoredRecommendation) error
	GetRecommendation(ctx context.Context, sessionID string) (*StoredRecommendation, error)
}
