package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/remaimber-it/examprep/internal/adaptive"
	"github.com/remaimber-it/examprep/internal/domain/session"
)

// ── Request / Response types ────────────────────────────────────────────────

type ExportResponse struct {
	QuestionID  string    `json:"question_id"`
	ChosenIndex int       `json:"chosen_index"`
	Correct     bool      `json:"correct"`
	TimeSpentMs int64     `json:"time_spent_ms"`
	Confidence  string    `json:"confidence,omitempty"`
	Topic       string    `json:"topic"`
	Difficulty  float64   `json:"difficulty"`
	ThetaAfter  float64   `json:"theta_after"`
	AnsweredAt  time.Time `json:"answered_at"`
}

type ExportData struct {
	Version    string             `json:"version"`
	ExportedAt string             `json:"exported_at"`
	Session    SessionResponse    `json:"session"`
	Responses  []ExportResponse   `json:"responses"`
	Analysis   *adaptive.Analysis `json:"analysis,omitempty"`
}

// ── Handlers ────────────────────────────────────────────────────────────────

// exportSession downloads a sealed session with all of its responses.
// @Summary      Export a session
// @Description  Download a completed or abandoned session with its responses as a JSON attachment.
// @Tags         Sessions
// @Produce      json
// @Security     BearerAuth
// @Param        sessionID  path      string  true  "Session ID"
// @Success      200        {object}  ExportData
// @Failure      404        {object}  map[string]string
// @Failure      409        {object}  map[string]string  "session still in progress"
// @Router       /sessions/{sessionID}/export [get]
func (h *Handler) exportSession(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}

	out, err := h.exams.GetSession(r.Context(), uid, r.PathValue("sessionID"))
	if h.handleExamError(w, err) {
		return
	}
	s := out.Session
	if !s.Sealed() {
		respondError(w, http.StatusConflict, "session is still in progress")
		return
	}

	exportData := ExportData{
		Version:    "1.0",
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		Session:    sessionResponse(s),
		Responses:  make([]ExportResponse, len(s.Responses)),
		Analysis:   out.Analysis,
	}
	for i, resp := range s.Responses {
		exportData.Responses[i] = exportResponse(resp)
	}

	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="session-%s.json"`, s.ID))
	respondJSON(w, http.StatusOK, exportData)
}

func exportResponse(r session.Response) ExportResponse {
	out := ExportResponse{
		QuestionID:  r.QuestionID,
		ChosenIndex: r.ChosenIndex,
		Correct:     r.Correct,
		TimeSpentMs: r.TimeSpent.Milliseconds(),
		Topic:       r.Topic,
		Difficulty:  r.Difficulty,
		ThetaAfter:  r.ThetaAfter,
		AnsweredAt:  r.AnsweredAt,
	}
	if r.Confidence != nil {
		out.Confidence = string(*r.Confidence)
	}
	return out
}
