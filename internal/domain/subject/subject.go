package subject

import (
	"errors"
	"strings"

	"github.com/remaimber-it/examprep/internal/id"
)

// Subject groups questions (Physics, Chemistry, ...). Sessions draw their
// pool from a set of subjects.
type Subject struct {
	ID        string
	Name      string
	ExamTypes []string
}

func New(name string, examTypes []string) (*Subject, error) {
	if strings.TrimSpace(name) == "" {
		return nil, errors.New("subject name cannot be empty")
	}
	return &Subject{
		ID:        id.GenerateID(),
		Name:      name,
		ExamTypes: append([]string(nil), examTypes...),
	}, nil
}
