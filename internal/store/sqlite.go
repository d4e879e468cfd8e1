// internal/store/sqlite.go
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/remaimber-it/examprep/internal/domain/questionbank"
	"github.com/remaimber-it/examprep/internal/domain/subject"
)

const schema = `
CREATE TABLE IF NOT EXISTS subjects (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    exam_types TEXT NOT NULL DEFAULT '[]'
);

CREATE TABLE IF NOT EXISTS questions (
    id TEXT PRIMARY KEY,
    subject_id TEXT NOT NULL,
    stem TEXT NOT NULL,
    options TEXT NOT NULL,
    correct_index INTEGER NOT NULL,
    difficulty TEXT NOT NULL,
    irt_difficulty REAL,
    irt_discrimination REAL,
    irt_guessing REAL,
    topic TEXT NOT NULL DEFAULT '',
    subtopic TEXT NOT NULL DEFAULT '',
    tags TEXT NOT NULL DEFAULT '[]',
    exam_types TEXT NOT NULL,
    times_attempted INTEGER NOT NULL DEFAULT 0,
    times_correct INTEGER NOT NULL DEFAULT 0,
    FOREIGN KEY (subject_id) REFERENCES subjects(id)
);

CREATE INDEX IF NOT EXISTS idx_questions_subject ON questions(subject_id);

CREATE TABLE IF NOT EXISTS sessions (
    id TEXT PRIMARY KEY,
    user_id TEXT NOT NULL,
    exam_type TEXT NOT NULL,
    type TEXT NOT NULL,
    subject_ids TEXT NOT NULL DEFAULT '[]',
    state TEXT NOT NULL,
    started_at TEXT NOT NULL,
    ended_at TEXT,
    duration_ms INTEGER NOT NULL DEFAULT 0,
    target_questions INTEGER NOT NULL,
    questions_attempted INTEGER NOT NULL DEFAULT 0,
    correct_answers INTEGER NOT NULL DEFAULT 0,
    theta_start REAL NOT NULL,
    theta REAL NOT NULL,
    theta_end REAL,
    weak_topics TEXT NOT NULL DEFAULT '[]',
    strong_topics TEXT NOT NULL DEFAULT '[]',
    accuracy REAL NOT NULL DEFAULT 0,
    completion_reason TEXT NOT NULL DEFAULT '',
    current_question_id TEXT NOT NULL DEFAULT '',
    profile_applied BOOLEAN NOT NULL DEFAULT FALSE
);

CREATE INDEX IF NOT EXISTS idx_sessions_user ON sessions(user_id);

CREATE TABLE IF NOT EXISTS responses (
    id TEXT PRIMARY KEY,
    session_id TEXT NOT NULL,
    question_id TEXT NOT NULL,
    chosen_index INTEGER NOT NULL,
    correct BOOLEAN NOT NULL,
    time_spent_ms INTEGER NOT NULL DEFAULT 0,
    confidence TEXT,
    topic TEXT NOT NULL DEFAULT '',
    difficulty REAL NOT NULL,
    theta_after REAL NOT NULL,
    answered_at TEXT NOT NULL,
    position INTEGER NOT NULL,
    UNIQUE (session_id, question_id),
    FOREIGN KEY (session_id) REFERENCES sessions(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS profiles (
    user_id TEXT PRIMARY KEY,
    theta REAL NOT NULL DEFAULT 0,
    total_answered INTEGER NOT NULL DEFAULT 0,
    total_correct INTEGER NOT NULL DEFAULT 0,
    sessions_completed INTEGER NOT NULL DEFAULT 0,
    weak_topics TEXT NOT NULL DEFAULT '[]',
    strong_topics TEXT NOT NULL DEFAULT '[]',
    topic_scores TEXT NOT NULL DEFAULT '{}',
    last_active_at TEXT
);

CREATE TABLE IF NOT EXISTS recommendations (
    session_id TEXT PRIMARY KEY,
    text TEXT NOT NULL,
    focus_topics TEXT NOT NULL DEFAULT '[]',
    source TEXT NOT NULL,
    created_at TEXT NOT NULL,
    FOREIGN KEY (session_id) REFERENCES sessions(id) ON DELETE CASCADE
);
`

// SQLiteStore implements every repository interface in this package.
type SQLiteStore struct {
	db *sql.DB
}

var (
	_ QuestionStore       = (*SQLiteStore)(nil)
	_ SubjectStore        = (*SQLiteStore)(nil)
	_ SessionStore        = (*SQLiteStore)(nil)
	_ ProfileStore        = (*SQLiteStore)(nil)
	_ RecommendationStore = (*SQLiteStore)(nil)
)

func NewSQLite(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}
	// One writer at a time; SQLite would otherwise report SQLITE_BUSY under
	// concurrent sessions.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, err
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, err
	}
	if err := migrate(db); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Ping reports whether the database is reachable; used by /health.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// migrate brings databases created by older builds up to the current schema.
func migrate(db *sql.DB) error {
	columns := []struct{ table, column, def string }{
		{"questions", "subtopic", "TEXT NOT NULL DEFAULT ''"},
		{"sessions", "current_question_id", "TEXT NOT NULL DEFAULT ''"},
		{"sessions", "profile_applied", "BOOLEAN NOT NULL DEFAULT FALSE"},
		{"profiles", "topic_scores", "TEXT NOT NULL DEFAULT '{}'"},
	}
	for _, c := range columns {
		if err := addColumnIfNotExists(db, c.table, c.column, c.def); err != nil {
			return fmt.Errorf("migrate %s.%s: %w", c.table, c.column, err)
		}
	}
	return nil
}

func addColumnIfNotExists(db *sql.DB, table, column, def string) error {
	rows, err := db.Query(fmt.Sprintf("PRAGMA table_info(%s)", table))
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			cid       int
			name      string
			colType   string
			notNull   int
			dfltValue sql.NullString
			pk        int
		)
		if err := rows.Scan(&cid, &name, &colType, &notNull, &dfltValue, &pk); err != nil {
			return err
		}
		if name == column {
			return nil
		}
	}
	if err := rows.Err(); err != nil {
		return err
	}

	_, err = db.Exec(fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s %s", table, column, def))
	return err
}

// ============================================================================
// Subjects
// ============================================================================

func (s *SQLiteStore) SaveSubject(ctx context.Context, sub *subject.Subject) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO subjects (id, name, exam_types) VALUES (?, ?, ?)",
		sub.ID, sub.Name, encodeList(sub.ExamTypes),
	)
	return err
}

func (s *SQLiteStore) GetSubject(ctx context.Context, id string) (*subject.Subject, error) {
	var sub subject.Subject
	var examTypes string
	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, exam_types FROM subjects WHERE id = ?", id,
	).Scan(&sub.ID, &sub.Name, &examTypes)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if sub.ExamTypes, err = decodeList(examTypes); err != nil {
		return nil, fmt.Errorf("subject %s: exam_types: %w", sub.ID, err)
	}
	return &sub, nil
}

func (s *SQLiteStore) ListSubjects(ctx context.Context) ([]*subject.Subject, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id, name, exam_types FROM subjects ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	subjects := []*subject.Subject{}
	for rows.Next() {
		var sub subject.Subject
		var examTypes string
		if err := rows.Scan(&sub.ID, &sub.Name, &examTypes); err != nil {
			return nil, err
		}
		if sub.ExamTypes, err = decodeList(examTypes); err != nil {
			return nil, fmt.Errorf("subject %s: exam_types: %w", sub.ID, err)
		}
		subjects = append(subjects, &sub)
	}
	return subjects, rows.Err()
}

// ============================================================================
// Questions
// ============================================================================

const questionColumns = `id, subject_id, stem, options, correct_index, difficulty,
    irt_difficulty, irt_discrimination, irt_guessing, topic, subtopic, tags,
    exam_types, times_attempted, times_correct`

func (s *SQLiteStore) SaveQuestion(ctx context.Context, q *questionbank.Question) error {
	var b, a, c sql.NullFloat64
	if q.IRT != nil {
		b = sql.NullFloat64{Float64: q.IRT.Difficulty, Valid: true}
		a = sql.NullFloat64{Float64: q.IRT.Discrimination, Valid: true}
		c = sql.NullFloat64{Float64: q.IRT.Guessing, Valid: true}
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO questions ("+questionColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		q.ID, q.SubjectID, q.Stem, encodeList(q.Options), q.CorrectIndex, string(q.Difficulty),
		b, a, c, q.Topic, q.Subtopic, encodeList(q.Tags),
		encodeList(q.ExamTypes), q.Stats.TimesAttempted, q.Stats.TimesCorrect,
	)
	return err
}

func (s *SQLiteStore) GetQuestion(ctx context.Context, id string) (*questionbank.Question, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+questionColumns+" FROM questions WHERE id = ?", id)
	q, err := scanQuestion(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return q, nil
}

// FindQuestions returns questions in any of subjectIDs that apply to
// examType, ordered by id.
func (s *SQLiteStore) FindQuestions(ctx context.Context, subjectIDs []string, examType string) ([]questionbank.Question, error) {
	query := "SELECT " + questionColumns + " FROM questions"
	args := make([]any, 0, len(subjectIDs))
	if len(subjectIDs) > 0 {
		placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(subjectIDs)), ", ")
		query += " WHERE subject_id IN (" + placeholders + ")"
		for _, id := range subjectIDs {
			args = append(args, id)
		}
	}
	query += " ORDER BY id"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	questions := []questionbank.Question{}
	for rows.Next() {
		q, err := scanQuestion(rows)
		if err != nil {
			return nil, err
		}
		if examType != "" && !q.AppliesTo(examType) {
			continue
		}
		questions = append(questions, *q)
	}
	return questions, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanQuestion(sc scanner) (*questionbank.Question, error) {
	var (
		q                          questionbank.Question
		options, tags, examTypes   string
		difficulty                 string
		irtB, irtA, irtC           sql.NullFloat64
		timesAttempted, timesRight int
	)
	err := sc.Scan(
		&q.ID, &q.SubjectID, &q.Stem, &options, &q.CorrectIndex, &difficulty,
		&irtB, &irtA, &irtC, &q.Topic, &q.Subtopic, &tags,
		&examTypes, &timesAttempted, &timesRight,
	)
	if err != nil {
		return nil, err
	}

	if q.Options, err = decodeList(options); err != nil {
		return nil, fmt.Errorf("question %s: options: %w", q.ID, err)
	}
	if q.Tags, err = decodeList(tags); err != nil {
		return nil, fmt.Errorf("question %s: tags: %w", q.ID, err)
	}
	if q.ExamTypes, err = decodeList(examTypes); err != nil {
		return nil, fmt.Errorf("question %s: exam_types: %w", q.ID, err)
	}
	q.Difficulty = questionbank.Difficulty(difficulty)
	if irtB.Valid {
		q.IRT = &questionbank.IRTParams{
			Difficulty:     irtB.Float64,
			Discrimination: irtA.Float64,
			Guessing:       irtC.Float64,
		}
	}
	q.Stats = questionbank.QuestionStats{TimesAttempted: timesAttempted, TimesCorrect: timesRight}
	return &q, nil
}

// ============================================================================
// Encoding helpers
// ============================================================================

func encodeList(v []string) string {
	if v == nil {
		v = []string{}
	}
	b, _ := json.Marshal(v)
	return string(b)
}

func decodeList(s string) ([]string, error) {
	out := []string{}
	if s == "" {
		return out, nil
	}
	if err := json.Unmarshal([]byte(s), &out); err != nil {
		return nil, err
	}
	return out, nil
}

func encodeTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func decodeTime(s string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, s)
}

func isUniqueViolation(err error) bool {
	var se *sqlite.Error
	if errors.As(err, &se) {
		return se.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE ||
			se.Code() == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY
	}
	return false
}
