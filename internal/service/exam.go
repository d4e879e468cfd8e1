// internal/service/exam.go
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/remaimber-it/examprep/internal/adaptive"
	"github.com/remaimber-it/examprep/internal/advisor"
	"github.com/remaimber-it/examprep/internal/domain/profile"
	"github.com/remaimber-it/examprep/internal/domain/questionbank"
	"github.com/remaimber-it/examprep/internal/domain/session"
	"github.com/remaimber-it/examprep/internal/event"
	"github.com/remaimber-it/examprep/internal/store"
)

// ErrProfilePersistence wraps the last error of a profile write that failed
// after all retries. The session itself stays completed.
var ErrProfilePersistence = errors.New("profile persistence failed")

var tracer = otel.Tracer("github.com/remaimber-it/examprep/internal/service")

// Recommender receives completed sessions for asynchronous advice.
type Recommender interface {
	Submit(sessionID string, summary advisor.Summary)
}

// RetryPolicy bounds profile write attempts.
type RetryPolicy struct {
	Attempts int
	Backoff  time.Duration // doubled after each failed attempt
}

// ExamService drives the adaptive machine and owns every write it implies.
// The machine stays pure; this is the persistence boundary.
type ExamService struct {
	questions   store.QuestionRepository
	sessions    store.SessionStore
	profiles    store.ProfileStore
	machine     *adaptive.Machine
	merge       profile.MergeOptions
	recommender Recommender
	events      event.Publisher
	retry       RetryPolicy
	now         func() time.Time
	logger      *slog.Logger
}

type ExamOption func(*ExamService)

func WithRecommender(r Recommender) ExamOption {
	return func(s *ExamService) { s.recommender = r }
}

func WithPublisher(p event.Publisher) ExamOption {
	return func(s *ExamService) { s.events = p }
}

func WithProfileRetry(r RetryPolicy) ExamOption {
	return func(s *ExamService) { s.retry = r }
}

func WithClock(now func() time.Time) ExamOption {
	return func(s *ExamService) { s.now = now }
}

func NewExamService(
	questions store.QuestionRepository,
	sessions store.SessionStore,
	profiles store.ProfileStore,
	machine *adaptive.Machine,
	logger *slog.Logger,
	opts ...ExamOption,
) (*ExamService, error) {
	merge, err := machine.Config().MergeOptions()
	if err != nil {
		return nil, err
	}
	s := &ExamService{
		questions: questions,
		sessions:  sessions,
		profiles:  profiles,
		machine:   machine,
		merge:     merge,
		events:    event.NopPublisher{},
		retry:     RetryPolicy{Attempts: 3, Backoff: 50 * time.Millisecond},
		now:       time.Now,
		logger:    logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.retry.Attempts < 1 {
		s.retry.Attempts = 1
	}
	return s, nil
}

// ── Inputs / Outputs ────────────────────────────────────────────────────────

type StartRequest struct {
	UserID     string
	ExamType   string
	Type       session.Type
	SubjectIDs []string
	Config     session.Config
}

type AnswerRequest struct {
	QuestionID  string
	ChosenIndex int
	TimeSpent   time.Duration
	Confidence  *session.Confidence
}

// Outcome is the state after an operation. Next is set while the session is
// running; Analysis once it completed.
type Outcome struct {
	Session  *session.Session
	Next     *questionbank.Question
	Response *session.Response
	Analysis *adaptive.Analysis
	// ProfilePending is true when the profile write failed and awaits
	// reconciliation.
	ProfilePending bool
}

// ── Operations ──────────────────────────────────────────────────────────────

// StartSession seeds a new session from the user's profile and presents the
// first question.
func (es *ExamService) StartSession(ctx context.Context, req StartRequest) (_ *Outcome, err error) {
	ctx, span := tracer.Start(ctx, "ExamService.StartSession", trace.WithAttributes(
		attribute.String("user_id", req.UserID),
		attribute.String("exam_type", req.ExamType),
	))
	defer func() { endSpan(span, err) }()

	var (
		prof *profile.Profile
		pool []questionbank.Question
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		prof, err = es.loadProfile(gctx, req.UserID)
		return err
	})
	g.Go(func() error {
		var err error
		pool, err = es.questions.FindQuestions(gctx, req.SubjectIDs, req.ExamType)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	t, err := es.machine.Start(adaptive.StartParams{
		UserID:     req.UserID,
		ExamType:   req.ExamType,
		Type:       req.Type,
		SubjectIDs: req.SubjectIDs,
		Config:     req.Config,
		Theta:      prof.Theta,
	}, pool, es.now())
	if err != nil {
		return nil, err
	}

	if err := es.sessions.CreateSession(ctx, t.Session); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	es.logger.Info("session started",
		"session_id", t.Session.ID,
		"user_id", req.UserID,
		"exam_type", req.ExamType,
		"pool_size", len(pool),
		"theta_start", t.Session.ThetaStart,
	)
	es.publish(ctx, event.TypeSessionStarted, event.SessionStarted{
		SessionID:  t.Session.ID,
		UserID:     t.Session.UserID,
		ExamType:   t.Session.ExamType,
		Type:       string(t.Session.Type),
		ThetaStart: t.Session.ThetaStart,
	})

	return &Outcome{Session: t.Session, Next: t.Next}, nil
}

// SubmitAnswer records an answer to the presented question and either
// presents the next one or completes the session.
func (es *ExamService) SubmitAnswer(ctx context.Context, userID, sessionID string, req AnswerRequest) (_ *Outcome, err error) {
	ctx, span := tracer.Start(ctx, "ExamService.SubmitAnswer", trace.WithAttributes(
		attribute.String("session_id", sessionID),
		attribute.String("question_id", req.QuestionID),
	))
	defer func() { endSpan(span, err) }()

	cur, err := es.ownedSession(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}
	if cur.State != session.StateInProgress {
		return nil, adaptive.ErrSessionNotInProgress
	}
	if cur.Answered(req.QuestionID) {
		return nil, adaptive.ErrDuplicateAnswer
	}

	q, err := es.questions.GetQuestion(ctx, req.QuestionID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, adaptive.ErrQuestionNotPresented
	}
	if err != nil {
		return nil, err
	}

	pool, err := es.questions.FindQuestions(ctx, cur.SubjectIDs, cur.ExamType)
	if err != nil {
		return nil, err
	}

	t, err := es.machine.Submit(cur, adaptive.Answer{
		Question:    *q,
		ChosenIndex: req.ChosenIndex,
		Elapsed:     req.TimeSpent,
		Confidence:  req.Confidence,
	}, pool, es.now())
	if err != nil {
		return nil, err
	}

	if err := es.sessions.RecordAnswer(ctx, t.Session, *t.Response); err != nil {
		switch {
		case errors.Is(err, store.ErrDuplicate):
			return nil, adaptive.ErrDuplicateAnswer
		case errors.Is(err, store.ErrSessionClosed):
			return nil, adaptive.ErrSessionNotInProgress
		}
		return nil, fmt.Errorf("record answer: %w", err)
	}

	es.publish(ctx, event.TypeAnswerRecorded, event.AnswerRecorded{
		SessionID:  t.Session.ID,
		QuestionID: t.Response.QuestionID,
		Correct:    t.Response.Correct,
		Theta:      t.Session.Theta,
		Attempted:  t.Session.QuestionsAttempted,
	})

	out := &Outcome{Session: t.Session, Next: t.Next, Response: t.Response}
	if t.Completed() {
		out.Analysis = t.Analysis
		out.ProfilePending = es.afterCompletion(ctx, t.Session, *t.Analysis) != nil
	}
	return out, nil
}

// CompleteSession ends a running session early, e.g. when the driver's
// timer fires or the user stops.
func (es *ExamService) CompleteSession(ctx context.Context, userID, sessionID string, reason session.CompletionReason) (_ *Outcome, err error) {
	ctx, span := tracer.Start(ctx, "ExamService.CompleteSession", trace.WithAttributes(
		attribute.String("session_id", sessionID),
		attribute.String("reason", string(reason)),
	))
	defer func() { endSpan(span, err) }()

	cur, err := es.ownedSession(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}
	return es.complete(ctx, cur, reason)
}

// AbandonSession seals a running session without touching the profile.
func (es *ExamService) AbandonSession(ctx context.Context, userID, sessionID string) (_ *session.Session, err error) {
	ctx, span := tracer.Start(ctx, "ExamService.AbandonSession", trace.WithAttributes(
		attribute.String("session_id", sessionID),
	))
	defer func() { endSpan(span, err) }()

	cur, err := es.ownedSession(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}

	s, err := es.machine.Abandon(cur, es.now())
	if err != nil {
		return nil, err
	}
	if err := es.sessions.UpdateSession(ctx, s); err != nil {
		if errors.Is(err, store.ErrSessionClosed) {
			return nil, adaptive.ErrSessionNotInProgress
		}
		return nil, fmt.Errorf("abandon session: %w", err)
	}

	es.logger.Info("session abandoned", "session_id", s.ID, "attempted", s.QuestionsAttempted)
	es.publish(ctx, event.TypeSessionAbandoned, event.SessionAbandoned{
		SessionID: s.ID,
		UserID:    s.UserID,
		Attempted: s.QuestionsAttempted,
	})
	return s, nil
}

// GetSession returns the session, completing it first if its time ran out.
func (es *ExamService) GetSession(ctx context.Context, userID, sessionID string) (_ *Outcome, err error) {
	ctx, span := tracer.Start(ctx, "ExamService.GetSession", trace.WithAttributes(
		attribute.String("session_id", sessionID),
	))
	defer func() { endSpan(span, err) }()

	cur, err := es.ownedSession(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}

	if cur.State == session.StateInProgress && es.machine.IsExpired(cur, es.now()) {
		return es.complete(ctx, cur, session.ReasonTimeExpired)
	}

	out := &Outcome{Session: cur}
	switch cur.State {
	case session.StateInProgress:
		if cur.CurrentQuestionID != "" {
			if out.Next, err = es.questions.GetQuestion(ctx, cur.CurrentQuestionID); err != nil {
				return nil, err
			}
		}
	case session.StateCompleted:
		a := es.machine.Analyze(cur)
		out.Analysis = &a
		out.ProfilePending = !cur.ProfileApplied
	}
	return out, nil
}

// GetProfile returns the user's profile, or a fresh one for new users.
func (es *ExamService) GetProfile(ctx context.Context, userID string) (*profile.Profile, error) {
	return es.loadProfile(ctx, userID)
}

// ReconcileProfiles retries the profile write of completed sessions whose
// write previously failed. It returns how many were applied.
func (es *ExamService) ReconcileProfiles(ctx context.Context, limit int) (_ int, err error) {
	ctx, span := tracer.Start(ctx, "ExamService.ReconcileProfiles")
	defer func() { endSpan(span, err) }()

	pending, err := es.sessions.ListPendingProfileSessions(ctx, limit)
	if err != nil {
		return 0, err
	}

	applied := 0
	for _, s := range pending {
		if err := ctx.Err(); err != nil {
			return applied, err
		}
		if err := es.applyProfile(ctx, s, es.machine.Analyze(s)); err != nil {
			es.logger.Error("profile reconciliation failed", "session_id", s.ID, "error", err)
			continue
		}
		applied++
	}
	if applied > 0 {
		es.logger.Info("profiles reconciled", "applied", applied, "pending", len(pending))
	}
	return applied, nil
}

// ── Internals ───────────────────────────────────────────────────────────────

func (es *ExamService) complete(ctx context.Context, cur *session.Session, reason session.CompletionReason) (*Outcome, error) {
	t, err := es.machine.Complete(cur, reason, es.now())
	if err != nil {
		return nil, err
	}
	if err := es.sessions.UpdateSession(ctx, t.Session); err != nil {
		if errors.Is(err, store.ErrSessionClosed) {
			return nil, adaptive.ErrSessionNotInProgress
		}
		return nil, fmt.Errorf("complete session: %w", err)
	}

	out := &Outcome{Session: t.Session, Analysis: t.Analysis}
	out.ProfilePending = es.afterCompletion(ctx, t.Session, *t.Analysis) != nil
	return out, nil
}

// afterCompletion runs once the completed session is durable. A profile
// failure is reported but never undoes the completion.
func (es *ExamService) afterCompletion(ctx context.Context, s *session.Session, a adaptive.Analysis) error {
	es.logger.Info("session completed",
		"session_id", s.ID,
		"reason", s.CompletionReason,
		"attempted", s.QuestionsAttempted,
		"accuracy", s.Accuracy,
		"theta_end", *s.ThetaEnd,
	)
	es.publish(ctx, event.TypeSessionCompleted, event.SessionCompleted{
		SessionID:    s.ID,
		UserID:       s.UserID,
		Reason:       string(s.CompletionReason),
		ThetaEnd:     *s.ThetaEnd,
		Accuracy:     s.Accuracy,
		WeakTopics:   s.WeakTopics,
		StrongTopics: s.StrongTopics,
	})

	if es.recommender != nil {
		es.recommender.Submit(s.ID, advisor.SummaryFromAnalysis(s.ExamType, s.ThetaStart, *s.ThetaEnd, a))
	}

	err := es.applyProfile(ctx, s, a)
	if err != nil {
		es.logger.Error("profile write failed, session left for reconciliation",
			"session_id", s.ID,
			"user_id", s.UserID,
			"error", err,
		)
		es.publish(ctx, event.TypeProfilePersistFailed, event.ProfilePersistFailed{
			SessionID: s.ID,
			UserID:    s.UserID,
			Error:     err.Error(),
		})
	}
	return err
}

// applyProfile computes the whole next profile and writes it in one atomic
// replace, retrying with backoff.
func (es *ExamService) applyProfile(ctx context.Context, s *session.Session, a adaptive.Analysis) error {
	result := profile.SessionResult{
		Theta:        s.Theta,
		Answered:     s.QuestionsAttempted,
		Correct:      s.CorrectAnswers,
		WeakTopics:   a.WeakTopics,
		StrongTopics: a.StrongTopics,
		SeenTopics:   a.SeenTopics(),
	}
	if s.ThetaEnd != nil {
		result.Theta = *s.ThetaEnd
	}
	if s.EndedAt != nil {
		result.CompletedAt = *s.EndedAt
	}

	backoff := es.retry.Backoff
	var lastErr error
	for attempt := 1; attempt <= es.retry.Attempts; attempt++ {
		lastErr = es.writeProfile(ctx, s, result)
		if lastErr == nil || errors.Is(lastErr, store.ErrAlreadyApplied) {
			return nil
		}
		if attempt == es.retry.Attempts {
			break
		}
		es.logger.Warn("profile write failed, retrying",
			"session_id", s.ID,
			"attempt", attempt,
			"error", lastErr,
		)
		select {
		case <-ctx.Done():
			return fmt.Errorf("%w: %w", ErrProfilePersistence, ctx.Err())
		case <-time.After(backoff):
		}
		backoff *= 2
	}
	return fmt.Errorf("%w: %w", ErrProfilePersistence, lastErr)
}

func (es *ExamService) writeProfile(ctx context.Context, s *session.Session, result profile.SessionResult) error {
	return es.profiles.UpdateProfile(ctx, s.UserID, s.ID, func(cur profile.Profile) profile.Profile {
		return profile.Apply(cur, result, es.merge)
	})
}

func (es *ExamService) loadProfile(ctx context.Context, userID string) (*profile.Profile, error) {
	p, err := es.profiles.GetProfile(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return profile.New(userID), nil
	}
	if err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}
	return p, nil
}

// ownedSession hides other users' sessions behind ErrNotFound.
func (es *ExamService) ownedSession(ctx context.Context, userID, sessionID string) (*session.Session, error) {
	s, err := es.sessions.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if s.UserID != userID {
		return nil, store.ErrNotFound
	}
	return s, nil
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

func (es *ExamService) publish(ctx context.Context, eventType string, payload any) {
	if err := es.events.Publish(ctx, eventType, payload); err != nil {
		es.logger.Warn("event publish failed", "type", eventType, "error", err)
	}
}
