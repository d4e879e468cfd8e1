package api

import (
	"net/http"
	"time"
)

type ProfileResponse struct {
	UserID            string             `json:"user_id"`
	Theta             float64            `json:"theta" example:"0.35"`
	TotalAnswered     int                `json:"total_answered"`
	TotalCorrect      int                `json:"total_correct"`
	SessionsCompleted int                `json:"sessions_completed"`
	WeakTopics        []string           `json:"weak_topics"`
	StrongTopics      []string           `json:"strong_topics"`
	TopicScores       map[string]float64 `json:"topic_scores,omitempty"`
	LastActiveAt      *time.Time         `json:"last_active_at,omitempty"`
}

// getProfile returns the authenticated user's learner profile.
// @Summary      Get my profile
// @Description  Returns the ability estimate and topic classification carried across sessions. New users get a zero profile.
// @Tags         Profiles
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  ProfileResponse
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /profiles/me [get]
func (h *Handler) getProfile(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}

	p, err := h.exams.GetProfile(r.Context(), uid)
	if h.handleStoreError(w, err, "profile") {
		return
	}

	resp := ProfileResponse{
		UserID:            p.UserID,
		Theta:             p.Theta,
		TotalAnswered:     p.TotalAnswered,
		TotalCorrect:      p.TotalCorrect,
		SessionsCompleted: p.SessionsCompleted,
		WeakTopics:        nonNil(p.WeakTopics),
		StrongTopics:      nonNil(p.StrongTopics),
		TopicScores:       p.TopicScores,
	}
	if !p.LastActiveAt.IsZero() {
		t := p.LastActiveAt
		resp.LastActiveAt = &t
	}
	respondJSON(w, http.StatusOK, resp)
}
