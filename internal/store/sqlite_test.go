package store_test

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/remaimber-it/examprep/internal/domain/profile"
	"github.com/remaimber-it/examprep/internal/domain/questionbank"
	"github.com/remaimber-it/examprep/internal/domain/session"
	"github.com/remaimber-it/examprep/internal/domain/subject"
	"github.com/remaimber-it/examprep/internal/store"
)

func newTestStore(t *testing.T) *store.SQLiteStore {
	t.Helper()
	s, err := store.NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func seedSubject(t *testing.T, s *store.SQLiteStore, name string) *subject.Subject {
	t.Helper()
	sub, err := subject.New(name, []string{"JEE"})
	if err != nil {
		t.Fatal(err)
	}
	if err := s.SaveSubject(context.Background(), sub); err != nil {
		t.Fatalf("failed to save subject: %v", err)
	}
	return sub
}

func seedQuestion(t *testing.T, s *store.SQLiteStore, subjectID, topic string, examTypes ...string) *questionbank.Question {
	t.Helper()
	if len(examTypes) == 0 {
		examTypes = []string{"JEE"}
	}
	q, err := questionbank.New(subjectID, "What is "+topic+"?", []string{"a", "b", "c", "d"}, 1, questionbank.DifficultyModerate, examTypes)
	if err != nil {
		t.Fatal(err)
	}
	q.Topic = topic
	if err := s.SaveQuestion(context.Background(), q); err != nil {
		t.Fatalf("failed to save question: %v", err)
	}
	return q
}

func newSession(userID string) *session.Session {
	return &session.Session{
		ID:                "sess-1",
		UserID:            userID,
		ExamType:          "JEE",
		Type:              session.TypeAdaptive,
		SubjectIDs:        []string{"physics"},
		State:             session.StateInProgress,
		StartedAt:         time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
		Duration:          30 * time.Minute,
		TargetQuestions:   5,
		ThetaStart:        0.2,
		Theta:             0.2,
		CurrentQuestionID: "q-1",
	}
}

func TestSubjects(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	sub := seedSubject(t, s, "Physics")
	seedSubject(t, s, "Chemistry")

	got, err := s.GetSubject(ctx, sub.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Name != "Physics" || len(got.ExamTypes) != 1 || got.ExamTypes[0] != "JEE" {
		t.Errorf("unexpected subject %+v", got)
	}

	all, err := s.ListSubjects(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(all) != 2 || all[0].Name != "Chemistry" {
		t.Errorf("expected 2 subjects ordered by name, got %d", len(all))
	}

	if _, err := s.GetSubject(ctx, "missing"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestQuestions_RoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	sub := seedSubject(t, s, "Physics")

	q, _ := questionbank.New(sub.ID, "Unit of force?", []string{"N", "J", "W", "Pa"}, 0, questionbank.DifficultyEasy, []string{"JEE", "NEET"})
	q.Topic = "Mechanics"
	q.Subtopic = "Units"
	q.Tags = []string{"si"}
	q.IRT = &questionbank.IRTParams{Difficulty: -0.7, Discrimination: 1.3, Guessing: 0.2}
	if err := s.SaveQuestion(ctx, q); err != nil {
		t.Fatalf("failed to save: %v", err)
	}

	got, err := s.GetQuestion(ctx, q.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Stem != q.Stem || got.CorrectIndex != 0 || got.Difficulty != questionbank.DifficultyEasy {
		t.Errorf("unexpected question %+v", got)
	}
	if len(got.Options) != 4 || got.Options[3] != "Pa" {
		t.Errorf("expected options to round-trip, got %v", got.Options)
	}
	if got.IRT == nil || got.IRT.Discrimination != 1.3 || got.DifficultyValue() != -0.7 {
		t.Errorf("expected IRT params to round-trip, got %+v", got.IRT)
	}
	if got.Subtopic != "Units" || len(got.Tags) != 1 {
		t.Errorf("expected subtopic and tags, got %q %v", got.Subtopic, got.Tags)
	}

	if _, err := s.GetQuestion(ctx, "missing"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestFindQuestions_FiltersBySubjectAndExamType(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	physics := seedSubject(t, s, "Physics")
	chemistry := seedSubject(t, s, "Chemistry")

	seedQuestion(t, s, physics.ID, "Mechanics", "JEE")
	seedQuestion(t, s, physics.ID, "Optics", "NEET")
	seedQuestion(t, s, chemistry.ID, "Organic", "JEE", "NEET")

	got, err := s.FindQuestions(ctx, []string{physics.ID}, "JEE")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].Topic != "Mechanics" {
		t.Errorf("expected only the JEE physics question, got %d", len(got))
	}

	got, _ = s.FindQuestions(ctx, []string{physics.ID, chemistry.ID}, "NEET")
	if len(got) != 2 {
		t.Errorf("expected 2 NEET questions, got %d", len(got))
	}

	got, _ = s.FindQuestions(ctx, nil, "")
	if len(got) != 3 {
		t.Errorf("expected all 3 questions without filters, got %d", len(got))
	}
}

func TestSessions_CreateAndGet(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	sess := newSession("user-1")

	if err := s.CreateSession(ctx, sess); err != nil {
		t.Fatalf("failed to create: %v", err)
	}

	got, err := s.GetSession(ctx, sess.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.UserID != "user-1" || got.State != session.StateInProgress || got.Type != session.TypeAdaptive {
		t.Errorf("unexpected session %+v", got)
	}
	if !got.StartedAt.Equal(sess.StartedAt) || got.Duration != 30*time.Minute {
		t.Errorf("expected times to round-trip, got %v %v", got.StartedAt, got.Duration)
	}
	if got.EndedAt != nil || got.ThetaEnd != nil {
		t.Error("expected no end time or end theta on a running session")
	}
	if got.CurrentQuestionID != "q-1" || len(got.Responses) != 0 {
		t.Errorf("unexpected current question %q / responses %d", got.CurrentQuestionID, len(got.Responses))
	}

	if _, err := s.GetSession(ctx, "missing"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestRecordAnswer(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	sub := seedSubject(t, s, "Physics")
	q := seedQuestion(t, s, sub.ID, "Mechanics")

	sess := newSession("user-1")
	sess.CurrentQuestionID = q.ID
	if err := s.CreateSession(ctx, sess); err != nil {
		t.Fatal(err)
	}

	high := session.ConfidenceHigh
	r := session.Response{
		ID:          "r-1",
		SessionID:   sess.ID,
		QuestionID:  q.ID,
		ChosenIndex: 1,
		Correct:     true,
		TimeSpent:   42 * time.Second,
		Confidence:  &high,
		Topic:       "Mechanics",
		ThetaAfter:  0.6,
		AnsweredAt:  sess.StartedAt.Add(time.Minute),
	}
	sess.QuestionsAttempted = 1
	sess.CorrectAnswers = 1
	sess.Theta = 0.6
	sess.CurrentQuestionID = "q-2"

	if err := s.RecordAnswer(ctx, sess, r); err != nil {
		t.Fatalf("failed to record: %v", err)
	}

	got, _ := s.GetSession(ctx, sess.ID)
	if got.QuestionsAttempted != 1 || got.CorrectAnswers != 1 || got.Theta != 0.6 {
		t.Errorf("expected running state to be written, got %+v", got)
	}
	if len(got.Responses) != 1 {
		t.Fatalf("expected 1 response, got %d", len(got.Responses))
	}
	if resp := got.Responses[0]; resp.TimeSpent != 42*time.Second || resp.Confidence == nil || *resp.Confidence != high {
		t.Errorf("unexpected response %+v", resp)
	}

	stored, _ := s.GetQuestion(ctx, q.ID)
	if stored.Stats.TimesAttempted != 1 || stored.Stats.TimesCorrect != 1 {
		t.Errorf("expected question counters bumped, got %+v", stored.Stats)
	}

	r.ID = "r-2"
	if err := s.RecordAnswer(ctx, sess, r); !errors.Is(err, store.ErrDuplicate) {
		t.Errorf("expected ErrDuplicate, got %v", err)
	}
	stored, _ = s.GetQuestion(ctx, q.ID)
	if stored.Stats.TimesAttempted != 1 {
		t.Errorf("expected duplicate to leave counters alone, got %d", stored.Stats.TimesAttempted)
	}
}

func TestUpdateSession_Completion(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	sess := newSession("user-1")
	s.CreateSession(ctx, sess)

	end := sess.StartedAt.Add(20 * time.Minute)
	theta := 0.9
	sess.State = session.StateCompleted
	sess.EndedAt = &end
	sess.ThetaEnd = &theta
	sess.WeakTopics = []string{"Optics"}
	sess.StrongTopics = []string{"Mechanics"}
	sess.Accuracy = 0.8
	sess.CompletionReason = session.ReasonTargetReached
	sess.CurrentQuestionID = ""

	if err := s.UpdateSession(ctx, sess); err != nil {
		t.Fatalf("failed to update: %v", err)
	}

	got, _ := s.GetSession(ctx, sess.ID)
	if got.State != session.StateCompleted || got.CompletionReason != session.ReasonTargetReached {
		t.Errorf("unexpected state %q / reason %q", got.State, got.CompletionReason)
	}
	if got.EndedAt == nil || !got.EndedAt.Equal(end) || got.ThetaEnd == nil || *got.ThetaEnd != 0.9 {
		t.Errorf("expected end time and theta, got %v %v", got.EndedAt, got.ThetaEnd)
	}
	if len(got.WeakTopics) != 1 || len(got.StrongTopics) != 1 {
		t.Errorf("expected topic sets, got %v %v", got.WeakTopics, got.StrongTopics)
	}

	missing := newSession("user-1")
	missing.ID = "nope"
	if err := s.UpdateSession(ctx, missing); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestProfiles_UpdateMarksSessionApplied(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if _, err := s.GetProfile(ctx, "user-1"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for a new user, got %v", err)
	}

	sess := newSession("user-1")
	sess.State = session.StateCompleted
	s.CreateSession(ctx, sess)

	pending, err := s.ListPendingProfileSessions(ctx, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(pending) != 1 {
		t.Fatalf("expected 1 pending session, got %d", len(pending))
	}

	lastActive := time.Date(2026, 3, 1, 11, 0, 0, 0, time.UTC)
	err = s.UpdateProfile(ctx, "user-1", sess.ID, func(p profile.Profile) profile.Profile {
		if p.UserID != "user-1" || p.TotalAnswered != 0 {
			t.Errorf("expected a fresh profile, got %+v", p)
		}
		p.Theta = 1.1
		p.TotalAnswered = 5
		p.TotalCorrect = 4
		p.StrongTopics = []string{"Mechanics"}
		p.TopicScores = map[string]float64{"Mechanics": 1}
		p.LastActiveAt = lastActive
		return p
	})
	if err != nil {
		t.Fatalf("failed to update profile: %v", err)
	}

	got, err := s.GetProfile(ctx, "user-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Theta != 1.1 || got.TotalAnswered != 5 || got.TopicScores["Mechanics"] != 1 {
		t.Errorf("unexpected profile %+v", got)
	}
	if !got.LastActiveAt.Equal(lastActive) {
		t.Errorf("expected last active %v, got %v", lastActive, got.LastActiveAt)
	}

	pending, _ = s.ListPendingProfileSessions(ctx, 10)
	if len(pending) != 0 {
		t.Errorf("expected no pending sessions, got %d", len(pending))
	}

	err = s.UpdateProfile(ctx, "user-1", sess.ID, func(p profile.Profile) profile.Profile {
		p.Theta = 2
		return p
	})
	if !errors.Is(err, store.ErrAlreadyApplied) {
		t.Errorf("expected ErrAlreadyApplied, got %v", err)
	}
	got, _ = s.GetProfile(ctx, "user-1")
	if got.Theta != 1.1 {
		t.Errorf("expected rejected write to roll back, got theta %v", got.Theta)
	}
}

func TestProfiles_ConcurrentUpdatesKeepEveryCounter(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	const writers = 8
	var wg sync.WaitGroup
	errs := make(chan error, writers)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- s.UpdateProfile(ctx, "user-1", "", func(p profile.Profile) profile.Profile {
				p.TotalAnswered += 3
				p.TotalCorrect += 2
				p.SessionsCompleted++
				return p
			})
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Fatalf("update failed: %v", err)
		}
	}

	got, err := s.GetProfile(ctx, "user-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.SessionsCompleted != writers || got.TotalAnswered != 3*writers || got.TotalCorrect != 2*writers {
		t.Errorf("expected every update to land, got %+v", got)
	}
}

func TestSessionWrites_RejectSealedSession(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	sub := seedSubject(t, s, "Physics")
	q := seedQuestion(t, s, sub.ID, "Mechanics")

	sess := newSession("user-1")
	sess.CurrentQuestionID = q.ID
	s.CreateSession(ctx, sess)

	// A reader that loaded the session before it was completed.
	stale, _ := s.GetSession(ctx, sess.ID)

	end := sess.StartedAt.Add(time.Minute)
	theta := 0.2
	sess.State = session.StateCompleted
	sess.EndedAt = &end
	sess.ThetaEnd = &theta
	sess.CompletionReason = session.ReasonManual
	if err := s.UpdateSession(ctx, sess); err != nil {
		t.Fatalf("failed to complete: %v", err)
	}

	stale.QuestionsAttempted = 1
	stale.Theta = 0.7
	err := s.RecordAnswer(ctx, stale, session.Response{
		ID:         "r-1",
		SessionID:  sess.ID,
		QuestionID: q.ID,
		Correct:    true,
		Topic:      "Mechanics",
		AnsweredAt: end,
	})
	if !errors.Is(err, store.ErrSessionClosed) {
		t.Fatalf("expected ErrSessionClosed, got %v", err)
	}

	got, _ := s.GetSession(ctx, sess.ID)
	if got.State != session.StateCompleted || got.QuestionsAttempted != 0 || len(got.Responses) != 0 {
		t.Errorf("expected sealed session untouched, got %q attempted=%d responses=%d",
			got.State, got.QuestionsAttempted, len(got.Responses))
	}
	stored, _ := s.GetQuestion(ctx, q.ID)
	if stored.Stats.TimesAttempted != 0 {
		t.Errorf("expected rolled back question counters, got %d", stored.Stats.TimesAttempted)
	}

	stale.State = session.StateAbandoned
	if err := s.UpdateSession(ctx, stale); !errors.Is(err, store.ErrSessionClosed) {
		t.Errorf("expected ErrSessionClosed on second seal, got %v", err)
	}
}

func TestCorruptListColumn(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := store.NewSQLite(path)
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	ctx := context.Background()
	sub := seedSubject(t, s, "Physics")

	raw, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatal(err)
	}
	defer raw.Close()
	if _, err := raw.ExecContext(ctx, "UPDATE subjects SET exam_types = ? WHERE id = ?", "[JEE", sub.ID); err != nil {
		t.Fatal(err)
	}

	if _, err := s.GetSubject(ctx, sub.ID); err == nil {
		t.Error("expected corrupt exam_types to surface as an error")
	}
	if _, err := s.ListSubjects(ctx); err == nil {
		t.Error("expected corrupt exam_types to fail the listing")
	}
}

func TestRecommendations(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	sess := newSession("user-1")
	s.CreateSession(ctx, sess)

	if _, err := s.GetRecommendation(ctx, sess.ID); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	rec := store.StoredRecommendation{
		SessionID:   sess.ID,
		Text:        "Revise optics.",
		FocusTopics: []string{"Optics"},
		Source:      "local",
		CreatedAt:   time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	if err := s.SaveRecommendation(ctx, rec); err != nil {
		t.Fatalf("failed to save: %v", err)
	}
	rec.Text = "Revise optics and waves."
	rec.Source = "llm"
	if err := s.SaveRecommendation(ctx, rec); err != nil {
		t.Fatalf("failed to overwrite: %v", err)
	}

	got, err := s.GetRecommendation(ctx, sess.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Text != rec.Text || got.Source != "llm" || len(got.FocusTopics) != 1 {
		t.Errorf("unexpected recommendation %+v", got)
	}
}
