package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/remaimber-it/examprep/internal/adaptive"
	"github.com/remaimber-it/examprep/internal/advisor"
	"github.com/remaimber-it/examprep/internal/domain/questionbank"
	"github.com/remaimber-it/examprep/internal/domain/session"
	"github.com/remaimber-it/examprep/internal/service"
	"github.com/remaimber-it/examprep/internal/store"
)

// recommendationWait bounds how long a request waits for queued advice.
const recommendationWait = 5 * time.Second

// Request bounds; both keep the converted time.Duration far from overflow.
const (
	maxDurationMinutes = 24 * 60
	maxTimeSpentMs     = int64(24 * time.Hour / time.Millisecond)
)

// ── Request / Response types ────────────────────────────────────────────────

type StartSessionRequest struct {
	ExamType        string   `json:"exam_type" example:"JEE"`
	Type            string   `json:"type,omitempty" example:"adaptive"`
	SubjectIDs      []string `json:"subject_ids,omitempty"`
	TargetQuestions *int     `json:"target_questions,omitempty" example:"20"`
	DurationMinutes *int     `json:"duration_minutes,omitempty" example:"30" maximum:"1440"`
}

func (r *StartSessionRequest) Validate() error {
	if r.ExamType == "" {
		return errors.New("exam_type is required")
	}
	if r.TargetQuestions != nil && *r.TargetQuestions <= 0 {
		return errors.New("target_questions must be positive")
	}
	if r.DurationMinutes != nil && *r.DurationMinutes < 0 {
		return errors.New("duration_minutes cannot be negative")
	}
	if r.DurationMinutes != nil && *r.DurationMinutes > maxDurationMinutes {
		return fmt.Errorf("duration_minutes cannot exceed %d", maxDurationMinutes)
	}
	return nil
}

type SubmitAnswerRequest struct {
	QuestionID  string `json:"question_id" example:"3b1f0c2e-5d4a-4e8b-9c7d-1a2b3c4d5e6f"`
	ChosenIndex *int   `json:"chosen_index" example:"2"`
	TimeSpentMs int64  `json:"time_spent_ms,omitempty" example:"42000" maximum:"86400000"`
	Confidence  string `json:"confidence,omitempty" example:"medium"`
}

func (r *SubmitAnswerRequest) Validate() error {
	if r.QuestionID == "" {
		return errors.New("question_id is required")
	}
	if r.ChosenIndex == nil {
		return errors.New("chosen_index is required")
	}
	if r.TimeSpentMs < 0 {
		return errors.New("time_spent_ms cannot be negative")
	}
	if r.TimeSpentMs > maxTimeSpentMs {
		return fmt.Errorf("time_spent_ms cannot exceed %d", maxTimeSpentMs)
	}
	return nil
}

type CompleteSessionRequest struct {
	Reason string `json:"reason,omitempty" example:"time_expired"`
}

// PresentedQuestion is a question as shown to the examinee: no answer key.
type PresentedQuestion struct {
	ID         string   `json:"id"`
	SubjectID  string   `json:"subject_id"`
	Stem       string   `json:"stem"`
	Options    []string `json:"options"`
	Topic      string   `json:"topic"`
	Difficulty string   `json:"difficulty" example:"moderate"`
}

type SessionResponse struct {
	ID                   string             `json:"id"`
	UserID               string             `json:"user_id"`
	ExamType             string             `json:"exam_type" example:"JEE"`
	Type                 string             `json:"type" example:"adaptive"`
	SubjectIDs           []string           `json:"subject_ids"`
	State                string             `json:"state" example:"in_progress"`
	StartedAt            time.Time          `json:"started_at"`
	EndedAt              *time.Time         `json:"ended_at,omitempty"`
	DurationSeconds      int64              `json:"duration_seconds"`
	TargetQuestions      int                `json:"target_questions" example:"20"`
	QuestionsAttempted   int                `json:"questions_attempted"`
	CorrectAnswers       int                `json:"correct_answers"`
	CompletionPercentage float64            `json:"completion_percentage"`
	ThetaStart           float64            `json:"theta_start"`
	Theta                float64            `json:"theta"`
	ThetaEnd             *float64           `json:"theta_end,omitempty"`
	Accuracy             float64            `json:"accuracy"`
	WeakTopics           []string           `json:"weak_topics"`
	StrongTopics         []string           `json:"strong_topics"`
	CompletionReason     string             `json:"completion_reason,omitempty" example:"target_reached"`
	CurrentQuestion      *PresentedQuestion `json:"current_question,omitempty"`
	Analysis             *adaptive.Analysis `json:"analysis,omitempty"`
	ProfilePending       bool               `json:"profile_pending,omitempty"`
}

type SubmitAnswerResponse struct {
	Correct    bool            `json:"correct"`
	ThetaAfter float64         `json:"theta_after"`
	Session    SessionResponse `json:"session"`
}

type RecommendationResponse struct {
	SessionID   string    `json:"session_id"`
	Text        string    `json:"text"`
	FocusTopics []string  `json:"focus_topics"`
	Source      string    `json:"source" example:"llm"`
	CreatedAt   time.Time `json:"created_at"`
}

func presented(q *questionbank.Question) *PresentedQuestion {
	if q == nil {
		return nil
	}
	return &PresentedQuestion{
		ID:         q.ID,
		SubjectID:  q.SubjectID,
		Stem:       q.Stem,
		Options:    q.Options,
		Topic:      q.Topic,
		Difficulty: string(q.Difficulty),
	}
}

func nonNil(xs []string) []string {
	if xs == nil {
		return []string{}
	}
	return xs
}

func sessionResponse(s *session.Session) SessionResponse {
	return SessionResponse{
		ID:                   s.ID,
		UserID:               s.UserID,
		ExamType:             s.ExamType,
		Type:                 string(s.Type),
		SubjectIDs:           nonNil(s.SubjectIDs),
		State:                string(s.State),
		StartedAt:            s.StartedAt,
		EndedAt:              s.EndedAt,
		DurationSeconds:      int64(s.Duration / time.Second),
		TargetQuestions:      s.TargetQuestions,
		QuestionsAttempted:   s.QuestionsAttempted,
		CorrectAnswers:       s.CorrectAnswers,
		CompletionPercentage: s.CompletionPercentage(),
		ThetaStart:           s.ThetaStart,
		Theta:                s.Theta,
		ThetaEnd:             s.ThetaEnd,
		Accuracy:             s.Accuracy,
		WeakTopics:           nonNil(s.WeakTopics),
		StrongTopics:         nonNil(s.StrongTopics),
		CompletionReason:     string(s.CompletionReason),
	}
}

func outcomeResponse(out *service.Outcome) SessionResponse {
	resp := sessionResponse(out.Session)
	resp.CurrentQuestion = presented(out.Next)
	resp.Analysis = out.Analysis
	resp.ProfilePending = out.ProfilePending
	return resp
}

// ── Handlers ────────────────────────────────────────────────────────────────

// startSession starts an adaptive or mock session.
// @Summary      Start a session
// @Description  Start a test session for the authenticated user. The starting ability comes from the user's profile; the response carries the first question without its answer key.
// @Tags         Sessions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      StartSessionRequest  true  "Session options"
// @Success      201   {object}  SessionResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      422   {object}  map[string]string  "no questions available"
// @Failure      500   {object}  map[string]string
// @Router       /sessions [post]
func (h *Handler) startSession(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	var req StartSessionRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	typ, err := session.ParseType(req.Type)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	cfg := session.DefaultConfig()
	if req.TargetQuestions != nil {
		cfg.TargetQuestions = *req.TargetQuestions
	}
	if req.DurationMinutes != nil {
		cfg.Duration = time.Duration(*req.DurationMinutes) * time.Minute
	}

	out, err := h.exams.StartSession(r.Context(), service.StartRequest{
		UserID:     uid,
		ExamType:   req.ExamType,
		Type:       typ,
		SubjectIDs: req.SubjectIDs,
		Config:     cfg,
	})
	if h.handleExamError(w, err) {
		return
	}

	respondJSON(w, http.StatusCreated, outcomeResponse(out))
}

// getSession returns a session and its current question.
// @Summary      Get a session
// @Description  Returns the session state. A timed session whose deadline has passed is completed first.
// @Tags         Sessions
// @Produce      json
// @Security     BearerAuth
// @Param        sessionID  path      string  true  "Session ID"
// @Success      200        {object}  SessionResponse
// @Failure      401        {object}  map[string]string
// @Failure      404        {object}  map[string]string
// @Router       /sessions/{sessionID} [get]
func (h *Handler) getSession(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}

	out, err := h.exams.GetSession(r.Context(), uid, r.PathValue("sessionID"))
	if h.handleExamError(w, err) {
		return
	}
	respondJSON(w, http.StatusOK, outcomeResponse(out))
}

// submitAnswer answers the presented question.
// @Summary      Submit an answer
// @Description  Record the answer to the presented question. Returns correctness, the updated ability estimate and either the next question or the completed session with its analysis.
// @Tags         Sessions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        sessionID  path      string               true  "Session ID"
// @Param        body       body      SubmitAnswerRequest  true  "Answer"
// @Success      200        {object}  SubmitAnswerResponse
// @Failure      400        {object}  map[string]string
// @Failure      404        {object}  map[string]string
// @Failure      409        {object}  map[string]string  "duplicate answer, question not presented or session not in progress"
// @Failure      422        {object}  map[string]string  "chosen index out of range"
// @Router       /sessions/{sessionID}/answers [post]
func (h *Handler) submitAnswer(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	var req SubmitAnswerRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	confidence, err := session.ParseConfidence(req.Confidence)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	out, err := h.exams.SubmitAnswer(r.Context(), uid, r.PathValue("sessionID"), service.AnswerRequest{
		QuestionID:  req.QuestionID,
		ChosenIndex: *req.ChosenIndex,
		TimeSpent:   time.Duration(req.TimeSpentMs) * time.Millisecond,
		Confidence:  confidence,
	})
	if h.handleExamError(w, err) {
		return
	}

	respondJSON(w, http.StatusOK, SubmitAnswerResponse{
		Correct:    out.Response.Correct,
		ThetaAfter: out.Response.ThetaAfter,
		Session:    outcomeResponse(out),
	})
}

// completeSession ends a running session.
// @Summary      Complete a session
// @Description  End a running session, e.g. when the client's timer fires. Reason is "manual" (default) or "time_expired".
// @Tags         Sessions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        sessionID  path      string                  true   "Session ID"
// @Param        body       body      CompleteSessionRequest  false  "Completion reason"
// @Success      200        {object}  SessionResponse
// @Failure      400        {object}  map[string]string
// @Failure      404        {object}  map[string]string
// @Failure      409        {object}  map[string]string  "session is not in progress"
// @Router       /sessions/{sessionID}/complete [post]
func (h *Handler) completeSession(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}

	var req CompleteSessionRequest
	if r.ContentLength != 0 && !decodeJSON(w, r, &req) {
		return
	}

	var reason session.CompletionReason
	switch session.CompletionReason(req.Reason) {
	case "", session.ReasonManual:
		reason = session.ReasonManual
	case session.ReasonTimeExpired:
		reason = session.ReasonTimeExpired
	default:
		respondError(w, http.StatusBadRequest, `reason must be "manual" or "time_expired"`)
		return
	}

	out, err := h.exams.CompleteSession(r.Context(), uid, r.PathValue("sessionID"), reason)
	if h.handleExamError(w, err) {
		return
	}
	respondJSON(w, http.StatusOK, outcomeResponse(out))
}

// abandonSession seals a running session without updating the profile.
// @Summary      Abandon a session
// @Tags         Sessions
// @Produce      json
// @Security     BearerAuth
// @Param        sessionID  path      string  true  "Session ID"
// @Success      200        {object}  SessionResponse
// @Failure      404        {object}  map[string]string
// @Failure      409        {object}  map[string]string  "session is not in progress"
// @Router       /sessions/{sessionID}/abandon [post]
func (h *Handler) abandonSession(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}

	s, err := h.exams.AbandonSession(r.Context(), uid, r.PathValue("sessionID"))
	if h.handleExamError(w, err) {
		return
	}
	respondJSON(w, http.StatusOK, sessionResponse(s))
}

// getRecommendations returns study advice for a completed session.
// @Summary      Get recommendations
// @Description  Returns study advice generated after completion. Responds 202 while generation is still running.
// @Tags         Sessions
// @Produce      json
// @Security     BearerAuth
// @Param        sessionID  path      string  true  "Session ID"
// @Success      200        {object}  RecommendationResponse
// @Success      202        {object}  map[string]string  "still generating"
// @Failure      404        {object}  map[string]string
// @Failure      409        {object}  map[string]string  "session is not completed"
// @Router       /sessions/{sessionID}/recommendations [get]
func (h *Handler) getRecommendations(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	sessionID := r.PathValue("sessionID")

	out, err := h.exams.GetSession(r.Context(), uid, sessionID)
	if h.handleExamError(w, err) {
		return
	}
	if out.Session.State != session.StateCompleted {
		respondError(w, http.StatusConflict, "session is not completed")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), recommendationWait)
	defer cancel()

	rec, err := h.recommendations.Get(ctx, sessionID)
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		respondJSON(w, http.StatusAccepted, map[string]string{"status": "pending"})
		return
	case errors.Is(err, store.ErrNotFound):
		// Completed before the last restart; queue it again.
		s := out.Session
		h.recommendations.Submit(s.ID, advisor.SummaryFromAnalysis(s.ExamType, s.ThetaStart, *s.ThetaEnd, *out.Analysis))
		respondJSON(w, http.StatusAccepted, map[string]string{"status": "pending"})
		return
	case h.handleStoreError(w, err, "recommendation"):
		return
	}

	respondJSON(w, http.StatusOK, RecommendationResponse{
		SessionID:   rec.SessionID,
		Text:        rec.Text,
		FocusTopics: nonNil(rec.FocusTopics),
		Source:      rec.Source,
		CreatedAt:   rec.CreatedAt,
	})
}
