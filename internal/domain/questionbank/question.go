package questionbank

import (
	"errors"
	"fmt"
	"strings"

	"github.com/remaimber-it/examprep/internal/id"
)

// OptionCount is the number of answer options every question carries.
const OptionCount = 4

type Difficulty string

const (
	DifficultyEasy      Difficulty = "easy"
	DifficultyModerate  Difficulty = "moderate"
	DifficultyDifficult Difficulty = "difficult"
)

// Label difficulties projected onto the ability (theta) scale.
var difficultyScale = map[Difficulty]float64{
	DifficultyEasy:      -1.0,
	DifficultyModerate:  0.0,
	DifficultyDifficult: 1.0,
}

var (
	ErrEmptyStem          = errors.New("question stem cannot be empty")
	ErrOptionCount        = fmt.Errorf("question must have exactly %d options", OptionCount)
	ErrEmptyOption        = errors.New("answer options cannot be empty")
	ErrCorrectIndex       = errors.New("correct option index is out of range")
	ErrNoExamType         = errors.New("question must apply to at least one exam type")
	ErrUnknownDifficulty  = errors.New("unknown difficulty label")
	ErrInvalidIRTGuessing = errors.New("irt guessing parameter must be in [0, 1)")
)

// IRTParams are optional item parameters on the theta scale.
type IRTParams struct {
	Difficulty     float64 // b
	Discrimination float64 // a; values <= 0 are treated as 1
	Guessing       float64 // c
}

type Question struct {
	ID           string
	SubjectID    string
	Stem         string
	Options      []string
	CorrectIndex int
	Difficulty   Difficulty
	IRT          *IRTParams // nil = derive b from the Difficulty label
	Topic        string
	Subtopic     string
	Tags         []string
	ExamTypes    []string
	Stats        QuestionStats
}

// New builds a validated question with a generated ID.
func New(subjectID, stem string, options []string, correctIndex int, difficulty Difficulty, examTypes []string) (*Question, error) {
	q := &Question{
		ID:           id.GenerateID(),
		SubjectID:    subjectID,
		Stem:         stem,
		Options:      append([]string(nil), options...),
		CorrectIndex: correctIndex,
		Difficulty:   difficulty,
		ExamTypes:    append([]string(nil), examTypes...),
	}
	if err := q.Validate(); err != nil {
		return nil, err
	}
	return q, nil
}

func ParseDifficulty(s string) (Difficulty, error) {
	d := Difficulty(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := difficultyScale[d]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownDifficulty, s)
	}
	return d, nil
}

func (q *Question) Validate() error {
	if strings.TrimSpace(q.Stem) == "" {
		return ErrEmptyStem
	}
	if len(q.Options) != OptionCount {
		return ErrOptionCount
	}
	for _, o := range q.Options {
		if strings.TrimSpace(o) == "" {
			return ErrEmptyOption
		}
	}
	if !q.ValidIndex(q.CorrectIndex) {
		return ErrCorrectIndex
	}
	if _, ok := difficultyScale[q.Difficulty]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownDifficulty, q.Difficulty)
	}
	if len(q.ExamTypes) == 0 {
		return ErrNoExamType
	}
	if q.IRT != nil && (q.IRT.Guessing < 0 || q.IRT.Guessing >= 1) {
		return ErrInvalidIRTGuessing
	}
	return nil
}

// ValidIndex reports whether i addresses one of the question's options.
func (q Question) ValidIndex(i int) bool {
	return i >= 0 && i < len(q.Options)
}

func (q Question) IsCorrect(chosen int) bool {
	return chosen == q.CorrectIndex
}

func (q Question) AppliesTo(examType string) bool {
	for _, et := range q.ExamTypes {
		if et == examType {
			return true
		}
	}
	return false
}

// DifficultyValue returns b, the question's location on the theta scale.
func (q Question) DifficultyValue() float64 {
	if q.IRT != nil {
		return q.IRT.Difficulty
	}
	return difficultyScale[q.Difficulty]
}

func (q Question) Discrimination() float64 {
	if q.IRT == nil || q.IRT.Discrimination <= 0 {
		return 1
	}
	return q.IRT.Discrimination
}

func (q Question) Guessing() float64 {
	if q.IRT == nil {
		return 0
	}
	return q.IRT.Guessing
}
