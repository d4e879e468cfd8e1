// internal/api/handler.go
package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/remaimber-it/examprep/internal/adaptive"
	"github.com/remaimber-it/examprep/internal/service"
	"github.com/remaimber-it/examprep/internal/store"
)

// Handler holds all dependencies needed by HTTP handlers.
type Handler struct {
	subjects        store.SubjectStore
	questions       store.QuestionStore
	exams           *service.ExamService
	recommendations *service.RecommendationService
	logger          *slog.Logger
}

// NewHandler creates a Handler with the given dependencies. questions is
// usually the cached repository so that writes invalidate cached pools.
func NewHandler(
	subjects store.SubjectStore,
	questions store.QuestionStore,
	exams *service.ExamService,
	recommendations *service.RecommendationService,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		subjects:        subjects,
		questions:       questions,
		exams:           exams,
		recommendations: recommendations,
		logger:          logger,
	}
}

// validator is implemented by request bodies that check themselves.
type validator interface {
	Validate() error
}

// respondJSON writes a JSON response with the given status code.
func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// respondError writes {"error": msg}.
func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, map[string]string{"error": msg})
}

// decodeJSON decodes the request body into v. Returns false (after writing a
// 400) if the body is not valid JSON.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}

// decodeAndValidate decodes the body and runs its Validate method.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, v validator) bool {
	if !decodeJSON(w, r, v) {
		return false
	}
	if err := v.Validate(); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return false
	}
	return true
}

// handleStoreError checks for common store errors and writes the appropriate
// HTTP response. Returns true if an error was handled (caller should return).
func (h *Handler) handleStoreError(w http.ResponseWriter, err error, entity string) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, store.ErrNotFound) {
		respondError(w, http.StatusNotFound, entity+" not found")
		return true
	}
	h.logger.Error("store error", "error", err, "entity", entity)
	respondError(w, http.StatusInternalServerError, "internal error")
	return true
}

// handleExamError maps adaptive engine errors to client errors and falls back
// to handleStoreError for everything else.
func (h *Handler) handleExamError(w http.ResponseWriter, err error) bool {
	if err == nil {
		return false
	}
	switch {
	case errors.Is(err, adaptive.ErrDuplicateAnswer),
		errors.Is(err, adaptive.ErrSessionNotInProgress),
		errors.Is(err, adaptive.ErrQuestionNotPresented):
		respondError(w, http.StatusConflict, err.Error())
	case errors.Is(err, adaptive.ErrInvalidAnswerIndex),
		errors.Is(err, adaptive.ErrNoQuestionsAvailable):
		respondError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, adaptive.ErrInvalidTarget),
		errors.Is(err, adaptive.ErrMissingExamType):
		respondError(w, http.StatusBadRequest, err.Error())
	default:
		return h.handleStoreError(w, err, "session")
	}
	return true
}

// userID returns the authenticated user or writes a 401.
func userID(w http.ResponseWriter, r *http.Request) (string, bool) {
	uid, ok := UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
	}
	return uid, ok
}
