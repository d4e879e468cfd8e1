package api

import (
	"errors"
	"net/http"

	"github.com/remaimber-it/examprep/internal/domain/subject"
)

// ── Request / Response types ────────────────────────────────────────────────

type CreateSubjectRequest struct {
	Name      string   `json:"name" example:"Physics"`
	ExamTypes []string `json:"exam_types" example:"JEE,NEET"`
}

func (r *CreateSubjectRequest) Validate() error {
	if r.Name == "" {
		return errors.New("name is required")
	}
	return nil
}

type SubjectResponse struct {
	ID        string   `json:"id" example:"7f9c2ba4-e88f-4d1a-9b3c-0a1e5f6d2c11"`
	Name      string   `json:"name" example:"Physics"`
	ExamTypes []string `json:"exam_types" example:"JEE,NEET"`
}

func subjectResponse(s *subject.Subject) SubjectResponse {
	examTypes := s.ExamTypes
	if examTypes == nil {
		examTypes = []string{}
	}
	return SubjectResponse{ID: s.ID, Name: s.Name, ExamTypes: examTypes}
}

// ── Handlers ────────────────────────────────────────────────────────────────

// createSubject creates a new subject.
// @Summary      Create a subject
// @Description  Create a subject that groups questions, e.g. Physics.
// @Tags         Subjects
// @Accept       json
// @Produce      json
// @Param        body  body      CreateSubjectRequest  true  "Subject to create"
// @Success      201   {object}  SubjectResponse
// @Failure      400   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /subjects [post]
func (h *Handler) createSubject(w http.ResponseWriter, r *http.Request) {
	var req CreateSubjectRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	sub, err := subject.New(req.Name, req.ExamTypes)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.subjects.SaveSubject(r.Context(), sub); err != nil {
		h.logger.Error("failed to save subject", "error", err)
		respondError(w, http.StatusInternalServerError, "failed to save subject")
		return
	}

	respondJSON(w, http.StatusCreated, subjectResponse(sub))
}

// listSubjects lists all subjects.
// @Summary      List subjects
// @Tags         Subjects
// @Produce      json
// @Success      200  {array}   SubjectResponse
// @Failure      500  {object}  map[string]string
// @Router       /subjects [get]
func (h *Handler) listSubjects(w http.ResponseWriter, r *http.Request) {
	subjects, err := h.subjects.ListSubjects(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load subjects")
		return
	}

	response := make([]SubjectResponse, len(subjects))
	for i, s := range subjects {
		response[i] = subjectResponse(s)
	}
	respondJSON(w, http.StatusOK, response)
}
