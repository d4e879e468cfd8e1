package adaptive

import "errors"

var (
	// ErrNoQuestionsAvailable: nothing to ask when a session starts.
	ErrNoQuestionsAvailable = errors.New("no questions available for this exam type")
	// ErrQuestionPoolExhausted: nothing left to ask mid-session. The session
	// is completed early rather than failed.
	ErrQuestionPoolExhausted = errors.New("question pool exhausted")
	ErrDuplicateAnswer       = errors.New("question already answered in this session")
	ErrInvalidAnswerIndex    = errors.New("chosen option index out of range")
	ErrQuestionNotPresented  = errors.New("question was not presented in this session")
	ErrSessionNotInProgress  = errors.New("session is not in progress")
	ErrInvalidTarget         = errors.New("target question count must be positive")
	ErrMissingExamType       = errors.New("exam type is required")
)
