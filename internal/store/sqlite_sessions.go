package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/remaimber-it/examprep/internal/domain/profile"
	"github.com/remaimber-it/examprep/internal/domain/session"
)

// ============================================================================
// Sessions
// ============================================================================

const sessionColumns = `id, user_id, exam_type, type, subject_ids, state, started_at, ended_at,
    duration_ms, target_questions, questions_attempted, correct_answers,
    theta_start, theta, theta_end, weak_topics, strong_topics, accuracy,
    completion_reason, current_question_id, profile_applied`

func (s *SQLiteStore) CreateSession(ctx context.Context, sess *session.Session) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO sessions ("+sessionColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		sess.ID, sess.UserID, sess.ExamType, string(sess.Type), encodeList(sess.SubjectIDs),
		string(sess.State), encodeTime(sess.StartedAt), nullTime(sess.EndedAt),
		sess.Duration.Milliseconds(), sess.TargetQuestions, sess.QuestionsAttempted, sess.CorrectAnswers,
		sess.ThetaStart, sess.Theta, nullFloat(sess.ThetaEnd),
		encodeList(sess.WeakTopics), encodeList(sess.StrongTopics), sess.Accuracy,
		string(sess.CompletionReason), sess.CurrentQuestionID, sess.ProfileApplied,
	)
	return err
}

func (s *SQLiteStore) GetSession(ctx context.Context, id string) (*session.Session, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+sessionColumns+" FROM sessions WHERE id = ?", id)
	sess, err := scanSession(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	sess.Responses, err = s.listResponses(ctx, id)
	if err != nil {
		return nil, err
	}
	return sess, nil
}

func (s *SQLiteStore) UpdateSession(ctx context.Context, sess *session.Session) error {
	result, err := updateSession(ctx, s.db, sess)
	if err != nil {
		return err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return sessionWriteMiss(ctx, s.db, sess.ID)
	}
	return nil
}

func (s *SQLiteStore) RecordAnswer(ctx context.Context, sess *session.Session, r session.Response) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var position int
	if err := tx.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM responses WHERE session_id = ?", sess.ID,
	).Scan(&position); err != nil {
		return err
	}

	var confidence sql.NullString
	if r.Confidence != nil {
		confidence = sql.NullString{String: string(*r.Confidence), Valid: true}
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO responses (id, session_id, question_id, chosen_index, correct, time_spent_ms,
            confidence, topic, difficulty, theta_after, answered_at, position)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, sess.ID, r.QuestionID, r.ChosenIndex, r.Correct, r.TimeSpent.Milliseconds(),
		confidence, r.Topic, r.Difficulty, r.ThetaAfter, encodeTime(r.AnsweredAt), position,
	)
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	if err != nil {
		return err
	}

	correct := 0
	if r.Correct {
		correct = 1
	}
	if _, err := tx.ExecContext(ctx,
		"UPDATE questions SET times_attempted = times_attempted + 1, times_correct = times_correct + ? WHERE id = ?",
		correct, r.QuestionID,
	); err != nil {
		return err
	}

	result, err := updateSession(ctx, tx, sess)
	if err != nil {
		return err
	}
	if n, err := result.RowsAffected(); err != nil {
		return err
	} else if n == 0 {
		return sessionWriteMiss(ctx, tx, sess.ID)
	}

	return tx.Commit()
}

func (s *SQLiteStore) ListPendingProfileSessions(ctx context.Context, limit int) ([]*session.Session, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id FROM sessions WHERE state = ? AND profile_applied = FALSE ORDER BY ended_at LIMIT ?",
		string(session.StateCompleted), limit,
	)
	if err != nil {
		return nil, err
	}
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return nil, err
		}
		ids = append(ids, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	sessions := make([]*session.Session, 0, len(ids))
	for _, id := range ids {
		sess, err := s.GetSession(ctx, id)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, sess)
	}
	return sessions, nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

type queryRower interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// updateSession only touches a row that is still in progress, so a late
// answer cannot reopen a session that was completed or abandoned meanwhile.
func updateSession(ctx context.Context, db execer, sess *session.Session) (sql.Result, error) {
	return db.ExecContext(ctx,
		`UPDATE sessions SET state = ?, ended_at = ?, questions_attempted = ?, correct_answers = ?,
            theta = ?, theta_end = ?, weak_topics = ?, strong_topics = ?, accuracy = ?,
            completion_reason = ?, current_question_id = ?
        WHERE id = ? AND state = ?`,
		string(sess.State), nullTime(sess.EndedAt), sess.QuestionsAttempted, sess.CorrectAnswers,
		sess.Theta, nullFloat(sess.ThetaEnd), encodeList(sess.WeakTopics), encodeList(sess.StrongTopics), sess.Accuracy,
		string(sess.CompletionReason), sess.CurrentQuestionID,
		sess.ID, string(session.StateInProgress),
	)
}

// sessionWriteMiss tells apart a missing session from a sealed one after a
// guarded update touched no row.
func sessionWriteMiss(ctx context.Context, db queryRower, id string) error {
	var n int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM sessions WHERE id = ?", id).Scan(&n); err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return ErrSessionClosed
}

func scanSession(sc scanner) (*session.Session, error) {
	var (
		sess                     session.Session
		typ, state, reason       string
		subjectIDs, weak, strong string
		startedAt                string
		endedAt                  sql.NullString
		durationMs               int64
		thetaEnd                 sql.NullFloat64
	)
	err := sc.Scan(
		&sess.ID, &sess.UserID, &sess.ExamType, &typ, &subjectIDs, &state, &startedAt, &endedAt,
		&durationMs, &sess.TargetQuestions, &sess.QuestionsAttempted, &sess.CorrectAnswers,
		&sess.ThetaStart, &sess.Theta, &thetaEnd, &weak, &strong, &sess.Accuracy,
		&reason, &sess.CurrentQuestionID, &sess.ProfileApplied,
	)
	if err != nil {
		return nil, err
	}

	sess.Type = session.Type(typ)
	sess.State = session.State(state)
	sess.CompletionReason = session.CompletionReason(reason)
	if sess.SubjectIDs, err = decodeList(subjectIDs); err != nil {
		return nil, fmt.Errorf("session %s: subject_ids: %w", sess.ID, err)
	}
	if sess.WeakTopics, err = decodeList(weak); err != nil {
		return nil, fmt.Errorf("session %s: weak_topics: %w", sess.ID, err)
	}
	if sess.StrongTopics, err = decodeList(strong); err != nil {
		return nil, fmt.Errorf("session %s: strong_topics: %w", sess.ID, err)
	}
	sess.Duration = time.Duration(durationMs) * time.Millisecond

	if sess.StartedAt, err = decodeTime(startedAt); err != nil {
		return nil, fmt.Errorf("session %s: started_at: %w", sess.ID, err)
	}
	if endedAt.Valid {
		t, err := decodeTime(endedAt.String)
		if err != nil {
			return nil, fmt.Errorf("session %s: ended_at: %w", sess.ID, err)
		}
		sess.EndedAt = &t
	}
	if thetaEnd.Valid {
		v := thetaEnd.Float64
		sess.ThetaEnd = &v
	}
	return &sess, nil
}

// ============================================================================
// Responses
// ============================================================================

func (s *SQLiteStore) listResponses(ctx context.Context, sessionID string) ([]session.Response, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, session_id, question_id, chosen_index, correct, time_spent_ms, confidence,
            topic, difficulty, theta_after, answered_at
        FROM responses WHERE session_id = ? ORDER BY position`,
		sessionID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	responses := []session.Response{}
	for rows.Next() {
		var (
			r          session.Response
			timeSpent  int64
			confidence sql.NullString
			answeredAt string
		)
		if err := rows.Scan(&r.ID, &r.SessionID, &r.QuestionID, &r.ChosenIndex, &r.Correct, &timeSpent,
			&confidence, &r.Topic, &r.Difficulty, &r.ThetaAfter, &answeredAt); err != nil {
			return nil, err
		}
		r.TimeSpent = time.Duration(timeSpent) * time.Millisecond
		if confidence.Valid {
			c := session.Confidence(confidence.String)
			r.Confidence = &c
		}
		if r.AnsweredAt, err = decodeTime(answeredAt); err != nil {
			return nil, fmt.Errorf("response %s: answered_at: %w", r.ID, err)
		}
		responses = append(responses, r)
	}
	return responses, rows.Err()
}

// ============================================================================
// Profiles
// ============================================================================

func (s *SQLiteStore) GetProfile(ctx context.Context, userID string) (*profile.Profile, error) {
	return getProfile(ctx, s.db, userID)
}

// UpdateProfile runs read, fn and upsert in one transaction. The store holds a
// single connection, so concurrent updates for the same user are serialised
// and none of them works from a stale read. When sessionID is set, that
// session is flagged as applied in the same transaction so a crash cannot
// apply it twice.
func (s *SQLiteStore) UpdateProfile(ctx context.Context, userID, sessionID string, fn func(profile.Profile) profile.Profile) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	cur, err := getProfile(ctx, tx, userID)
	if errors.Is(err, ErrNotFound) {
		cur, err = profile.New(userID), nil
	}
	if err != nil {
		return err
	}

	if sessionID != "" {
		result, err := tx.ExecContext(ctx,
			"UPDATE sessions SET profile_applied = TRUE WHERE id = ? AND profile_applied = FALSE", sessionID,
		)
		if err != nil {
			return err
		}
		n, err := result.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return fmt.Errorf("session %s: %w", sessionID, ErrAlreadyApplied)
		}
	}

	next := fn(*cur)
	next.UserID = userID
	if err := upsertProfile(ctx, tx, &next); err != nil {
		return err
	}
	return tx.Commit()
}

func getProfile(ctx context.Context, db queryRower, userID string) (*profile.Profile, error) {
	var (
		p            profile.Profile
		weak, strong string
		scores       string
		lastActive   sql.NullString
	)
	err := db.QueryRowContext(ctx,
		`SELECT user_id, theta, total_answered, total_correct, sessions_completed,
            weak_topics, strong_topics, topic_scores, last_active_at
        FROM profiles WHERE user_id = ?`, userID,
	).Scan(&p.UserID, &p.Theta, &p.TotalAnswered, &p.TotalCorrect, &p.SessionsCompleted,
		&weak, &strong, &scores, &lastActive)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if p.WeakTopics, err = decodeList(weak); err != nil {
		return nil, fmt.Errorf("profile %s: weak_topics: %w", userID, err)
	}
	if p.StrongTopics, err = decodeList(strong); err != nil {
		return nil, fmt.Errorf("profile %s: strong_topics: %w", userID, err)
	}
	p.TopicScores = map[string]float64{}
	if err := json.Unmarshal([]byte(scores), &p.TopicScores); err != nil {
		return nil, fmt.Errorf("profile %s: topic_scores: %w", userID, err)
	}
	if lastActive.Valid {
		if p.LastActiveAt, err = decodeTime(lastActive.String); err != nil {
			return nil, fmt.Errorf("profile %s: last_active_at: %w", userID, err)
		}
	}
	return &p, nil
}

func upsertProfile(ctx context.Context, db execer, p *profile.Profile) error {
	scores, err := json.Marshal(p.TopicScores)
	if err != nil {
		return err
	}
	var lastActive sql.NullString
	if !p.LastActiveAt.IsZero() {
		lastActive = sql.NullString{String: encodeTime(p.LastActiveAt), Valid: true}
	}

	_, err = db.ExecContext(ctx,
		`INSERT INTO profiles (user_id, theta, total_answered, total_correct, sessions_completed,
            weak_topics, strong_topics, topic_scores, last_active_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
        ON CONFLICT(user_id) DO UPDATE SET
            theta = excluded.theta,
            total_answered = excluded.total_answered,
            total_correct = excluded.total_correct,
            sessions_completed = excluded.sessions_completed,
            weak_topics = excluded.weak_topics,
            strong_topics = excluded.strong_topics,
            topic_scores = excluded.topic_scores,
            last_active_at = excluded.last_active_at`,
		p.UserID, p.Theta, p.TotalAnswered, p.TotalCorrect, p.SessionsCompleted,
		encodeList(p.WeakTopics), encodeList(p.StrongTopics), string(scores), lastActive,
	)
	return err
}

// ============================================================================
// Recommendations
// ============================================================================

func (s *SQLiteStore) SaveRecommendation(ctx context.Context, rec StoredRecommendation) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO recommendations (session_id, text, focus_topics, source, created_at)
        VALUES (?, ?, ?, ?, ?)
        ON CONFLICT(session_id) DO UPDATE SET
            text = excluded.text,
            focus_topics = excluded.focus_topics,
            source = excluded.source,
            created_at = excluded.created_at`,
		rec.SessionID, rec.Text, encodeList(rec.FocusTopics), rec.Source, encodeTime(rec.CreatedAt),
	)
	return err
}

func (s *SQLiteStore) GetRecommendation(ctx context.Context, sessionID string) (*StoredRecommendation, error) {
	var (
		rec       StoredRecommendation
		focus     string
		createdAt string
	)
	err := s.db.QueryRowContext(ctx,
		"SELECT session_id, text, focus_topics, source, created_at FROM recommendations WHERE session_id = ?",
		sessionID,
	).Scan(&rec.SessionID, &rec.Text, &focus, &rec.Source, &createdAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if rec.FocusTopics, err = decodeList(focus); err != nil {
		return nil, fmt.Errorf("recommendation %s: focus_topics: %w", sessionID, err)
	}
	if rec.CreatedAt, err = decodeTime(createdAt); err != nil {
		return nil, err
	}
	return &rec, nil
}

// ============================================================================
// Nullable helpers
// ============================================================================

func nullTime(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: encodeTime(*t), Valid: true}
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}
