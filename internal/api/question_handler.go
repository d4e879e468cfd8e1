package api

import (
	"errors"
	"net/http"

	"github.com/remaimber-it/examprep/internal/domain/questionbank"
)

// ── Request / Response types ────────────────────────────────────────────────

type IRTRequest struct {
	Difficulty     float64 `json:"difficulty" example:"0.4"`
	Discrimination float64 `json:"discrimination" example:"1.2"`
	Guessing       float64 `json:"guessing" example:"0.2"`
}

type CreateQuestionRequest struct {
	SubjectID    string      `json:"subject_id" example:"7f9c2ba4-e88f-4d1a-9b3c-0a1e5f6d2c11"`
	Stem         string      `json:"stem" example:"A body moves with constant velocity. The net force on it is"`
	Options      []string    `json:"options" example:"zero,constant,increasing,decreasing"`
	CorrectIndex *int        `json:"correct_index" example:"0"`
	Difficulty   string      `json:"difficulty" example:"moderate"`
	IRT          *IRTRequest `json:"irt,omitempty"`
	Topic        string      `json:"topic" example:"Mechanics"`
	Subtopic     string      `json:"subtopic,omitempty" example:"Newton's laws"`
	Tags         []string    `json:"tags,omitempty"`
	ExamTypes    []string    `json:"exam_types" example:"JEE"`
}

func (r *CreateQuestionRequest) Validate() error {
	if r.SubjectID == "" {
		return errors.New("subject_id is required")
	}
	if r.CorrectIndex == nil {
		return errors.New("correct_index is required")
	}
	if r.Topic == "" {
		return errors.New("topic is required")
	}
	return nil
}

// QuestionResponse is the authoring view and includes the answer key.
type QuestionResponse struct {
	ID             string      `json:"id"`
	SubjectID      string      `json:"subject_id"`
	Stem           string      `json:"stem"`
	Options        []string    `json:"options"`
	CorrectIndex   int         `json:"correct_index"`
	Difficulty     string      `json:"difficulty"`
	IRT            *IRTRequest `json:"irt,omitempty"`
	Topic          string      `json:"topic"`
	Subtopic       string      `json:"subtopic,omitempty"`
	Tags           []string    `json:"tags"`
	ExamTypes      []string    `json:"exam_types"`
	TimesAttempted int         `json:"times_attempted"`
	TimesCorrect   int         `json:"times_correct"`
}

func questionResponse(q *questionbank.Question) QuestionResponse {
	resp := QuestionResponse{
		ID:             q.ID,
		SubjectID:      q.SubjectID,
		Stem:           q.Stem,
		Options:        q.Options,
		CorrectIndex:   q.CorrectIndex,
		Difficulty:     string(q.Difficulty),
		Topic:          q.Topic,
		Subtopic:       q.Subtopic,
		Tags:           q.Tags,
		ExamTypes:      q.ExamTypes,
		TimesAttempted: q.Stats.TimesAttempted,
		TimesCorrect:   q.Stats.TimesCorrect,
	}
	if q.IRT != nil {
		resp.IRT = &IRTRequest{
			Difficulty:     q.IRT.Difficulty,
			Discrimination: q.IRT.Discrimination,
			Guessing:       q.IRT.Guessing,
		}
	}
	if resp.Tags == nil {
		resp.Tags = []string{}
	}
	return resp
}

// ── Handlers ────────────────────────────────────────────────────────────────

// createQuestion adds a question to a subject.
// @Summary      Create a question
// @Description  Add a four-option multiple-choice question. IRT parameters are optional; without them the difficulty label sets the item's location.
// @Tags         Questions
// @Accept       json
// @Produce      json
// @Param        body  body      CreateQuestionRequest  true  "Question to create"
// @Success      201   {object}  QuestionResponse
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string  "subject not found"
// @Failure      500   {object}  map[string]string
// @Router       /questions [post]
func (h *Handler) createQuestion(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req CreateQuestionRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	_, err := h.subjects.GetSubject(ctx, req.SubjectID)
	if h.handleStoreError(w, err, "subject") {
		return
	}

	difficulty, err := questionbank.ParseDifficulty(req.Difficulty)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	q, err := questionbank.New(req.SubjectID, req.Stem, req.Options, *req.CorrectIndex, difficulty, req.ExamTypes)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	q.Topic = req.Topic
	q.Subtopic = req.Subtopic
	q.Tags = req.Tags
	if req.IRT != nil {
		q.IRT = &questionbank.IRTParams{
			Difficulty:     req.IRT.Difficulty,
			Discrimination: req.IRT.Discrimination,
			Guessing:       req.IRT.Guessing,
		}
		if err := q.Validate(); err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	if err := h.questions.SaveQuestion(ctx, q); err != nil {
		h.logger.Error("failed to save question", "error", err, "subject_id", req.SubjectID)
		respondError(w, http.StatusInternalServerError, "failed to save question")
		return
	}

	respondJSON(w, http.StatusCreated, questionResponse(q))
}

// listQuestions lists questions filtered by subject and exam type.
// @Summary      List questions
// @Tags         Questions
// @Produce      json
// @Param        subject_id  query     []string  false  "Subject IDs"  collectionFormat(multi)
// @Param        exam_type   query     string    false  "Exam type"
// @Success      200         {array}   QuestionResponse
// @Failure      500         {object}  map[string]string
// @Router       /questions [get]
func (h *Handler) listQuestions(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	questions, err := h.questions.FindQuestions(r.Context(), query["subject_id"], query.Get("exam_type"))
	if err != nil {
		h.logger.Error("failed to load questions", "error", err)
		respondError(w, http.StatusInternalServerError, "failed to load questions")
		return
	}

	response := make([]QuestionResponse, len(questions))
	for i := range questions {
		response[i] = questionResponse(&questions[i])
	}
	respondJSON(w, http.StatusOK, response)
}

// getQuestion returns a single question.
// @Summary      Get a question
// @Tags         Questions
// @Produce      json
// @Param        questionID  path      string  true  "Question ID"
// @Success      200         {object}  QuestionResponse
// @Failure      404         {object}  map[string]string
// @Router       /questions/{questionID} [get]
func (h *Handler) getQuestion(w http.ResponseWriter, r *http.Request) {
	q, err := h.questions.GetQuestion(r.Context(), r.PathValue("questionID"))
	if h.handleStoreError(w, err, "question") {
		return
	}
	respondJSON(w, http.StatusOK, questionResponse(q))
}
