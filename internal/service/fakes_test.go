package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/remaimber-it/examprep/internal/adaptive"
	"github.com/remaimber-it/examprep/internal/advisor"
	"github.com/remaimber-it/examprep/internal/domain/profile"
	"github.com/remaimber-it/examprep/internal/domain/questionbank"
	"github.com/remaimber-it/examprep/internal/domain/session"
	"github.com/remaimber-it/examprep/internal/store"
)

var t0 = time.Date(2026, 5, 4, 9, 0, 0, 0, time.UTC)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// memStore implements every store interface the services use.
type memStore struct {
	mu              sync.Mutex
	questions       map[string]questionbank.Question
	sessions        map[string]*session.Session
	profiles        map[string]profile.Profile
	recommendations map[string]store.StoredRecommendation

	profileFailures int // UpdateProfile fails this many times before succeeding
	profileSaves    int

	// beforeRecord runs at the start of RecordAnswer, before the lock.
	beforeRecord func()
}

func newMemStore(questions ...questionbank.Question) *memStore {
	m := &memStore{
		questions:       map[string]questionbank.Question{},
		sessions:        map[string]*session.Session{},
		profiles:        map[string]profile.Profile{},
		recommendations: map[string]store.StoredRecommendation{},
	}
	for _, q := range questions {
		m.questions[q.ID] = q
	}
	return m
}

func (m *memStore) FindQuestions(_ context.Context, subjectIDs []string, examType string) ([]questionbank.Question, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	subjects := map[string]bool{}
	for _, id := range subjectIDs {
		subjects[id] = true
	}
	var out []questionbank.Question
	for _, q := range m.questions {
		if len(subjects) > 0 && !subjects[q.SubjectID] {
			continue
		}
		if examType != "" && !q.AppliesTo(examType) {
			continue
		}
		out = append(out, q)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memStore) GetQuestion(_ context.Context, id string) (*questionbank.Question, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	q, ok := m.questions[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &q, nil
}

func (m *memStore) CreateSession(_ context.Context, s *session.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ID] = s.Clone()
	return nil
}

func (m *memStore) GetSession(_ context.Context, id string) (*session.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return s.Clone(), nil
}

func (m *memStore) RecordAnswer(_ context.Context, s *session.Session, r session.Response) error {
	if m.beforeRecord != nil {
		m.beforeRecord()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.sessions[s.ID]
	if !ok {
		return store.ErrNotFound
	}
	if stored.State != session.StateInProgress {
		return store.ErrSessionClosed
	}
	if stored.Answered(r.QuestionID) {
		return store.ErrDuplicate
	}
	q := m.questions[r.QuestionID]
	q.Stats.Record(r.Correct)
	m.questions[r.QuestionID] = q
	m.sessions[s.ID] = s.Clone()
	return nil
}

func (m *memStore) UpdateSession(_ context.Context, s *session.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.sessions[s.ID]
	if !ok {
		return store.ErrNotFound
	}
	if stored.State != session.StateInProgress {
		return store.ErrSessionClosed
	}
	c := s.Clone()
	c.ProfileApplied = stored.ProfileApplied
	m.sessions[s.ID] = c
	return nil
}

func (m *memStore) ListPendingProfileSessions(_ context.Context, limit int) ([]*session.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*session.Session
	for _, s := range m.sessions {
		if s.State == session.StateCompleted && !s.ProfileApplied {
			out = append(out, s.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memStore) GetProfile(_ context.Context, userID string) (*profile.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.profiles[userID]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &p, nil
}

func (m *memStore) UpdateProfile(_ context.Context, userID, sessionID string, fn func(profile.Profile) profile.Profile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.profileFailures > 0 {
		m.profileFailures--
		return errors.New("disk full")
	}
	if sessionID != "" {
		s, ok := m.sessions[sessionID]
		if !ok || s.ProfileApplied {
			return fmt.Errorf("session %s: %w", sessionID, store.ErrAlreadyApplied)
		}
		s.ProfileApplied = true
	}
	cur, ok := m.profiles[userID]
	if !ok {
		cur = *profile.New(userID)
	}
	m.profiles[userID] = fn(cur)
	m.profileSaves++
	return nil
}

func (m *memStore) SaveRecommendation(_ context.Context, rec store.StoredRecommendation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.recommendations[rec.SessionID] = rec
	return nil
}

func (m *memStore) GetRecommendation(_ context.Context, sessionID string) (*store.StoredRecommendation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.recommendations[sessionID]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &rec, nil
}

// recordingPublisher keeps every published event type in order.
type recordingPublisher struct {
	mu    sync.Mutex
	types []string
}

func (p *recordingPublisher) Publish(_ context.Context, eventType string, _ any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.types = append(p.types, eventType)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) has(eventType string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, t := range p.types {
		if t == eventType {
			return true
		}
	}
	return false
}

// recordingRecommender captures submitted summaries.
type recordingRecommender struct {
	mu        sync.Mutex
	summaries map[string]advisor.Summary
}

func (r *recordingRecommender) Submit(sessionID string, s advisor.Summary) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.summaries == nil {
		r.summaries = map[string]advisor.Summary{}
	}
	r.summaries[sessionID] = s
}

// stubAdvisor returns a fixed recommendation or error.
type stubAdvisor struct {
	rec   advisor.Recommendation
	err   error
	delay time.Duration
}

func (a stubAdvisor) Recommend(ctx context.Context, _ advisor.Summary) (advisor.Recommendation, error) {
	if a.delay > 0 {
		select {
		case <-time.After(a.delay):
		case <-ctx.Done():
			return advisor.Recommendation{}, ctx.Err()
		}
	}
	return a.rec, a.err
}

func question(id, topic string, d questionbank.Difficulty) questionbank.Question {
	return questionbank.Question{
		ID:           id,
		SubjectID:    "physics",
		Stem:         "stem " + id,
		Options:      []string{"a", "b", "c", "d"},
		CorrectIndex: 0,
		Difficulty:   d,
		Topic:        topic,
		ExamTypes:    []string{"JEE"},
	}
}

func mechanicsBank(n int) []questionbank.Question {
	levels := []questionbank.Difficulty{
		questionbank.DifficultyEasy,
		questionbank.DifficultyModerate,
		questionbank.DifficultyDifficult,
	}
	out := make([]questionbank.Question, n)
	for i := range out {
		out[i] = question(fmt.Sprintf("q%02d", i), "Mechanics", levels[i%len(levels)])
	}
	return out
}

type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type harness struct {
	svc         *ExamService
	store       *memStore
	events      *recordingPublisher
	recommender *recordingRecommender
	clock       *clock
}

func newHarness(questions ...questionbank.Question) *harness {
	h := &harness{
		store:       newMemStore(questions...),
		events:      &recordingPublisher{},
		recommender: &recordingRecommender{},
		clock:       &clock{now: t0},
	}
	svc, err := NewExamService(h.store, h.store, h.store,
		adaptive.NewMachine(adaptive.DefaultConfig()),
		discardLogger(),
		WithPublisher(h.events),
		WithRecommender(h.recommender),
		WithClock(h.clock.Now),
		WithProfileRetry(RetryPolicy{Attempts: 3, Backoff: time.Millisecond}),
	)
	if err != nil {
		panic(err)
	}
	h.svc = svc
	return h
}
