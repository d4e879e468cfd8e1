package advisor

import (
	"context"

	"github.com/remaimber-it/examprep/internal/adaptive"
)

const (
	SourceLLM   = "llm"
	SourceLocal = "local"
)

// Summary is the input to a recommendation: the locally computed analysis of
// a completed session.
type Summary struct {
	ExamType     string
	ThetaStart   float64
	ThetaEnd     float64
	Accuracy     float64
	Attempted    int
	Correct      int
	WeakTopics   []string
	StrongTopics []string
	Topics       []adaptive.TopicStat
}

// SummaryFromAnalysis builds a Summary for the given session outcome.
func SummaryFromAnalysis(examType string, thetaStart, thetaEnd float64, a adaptive.Analysis) Summary {
	return Summary{
		ExamType:     examType,
		ThetaStart:   thetaStart,
		ThetaEnd:     thetaEnd,
		Accuracy:     a.OverallAccuracy,
		Attempted:    a.Attempted,
		Correct:      a.Correct,
		WeakTopics:   a.WeakTopics,
		StrongTopics: a.StrongTopics,
		Topics:       a.Topics,
	}
}

// Recommendation is human-readable study advice. It never feeds back into
// theta or topic classification.
type Recommendation struct {
	Text        string   `json:"text"`
	FocusTopics []string `json:"focus_topics"`
	Source      string   `json:"source"`
}

// Advisor turns a session summary into study advice. Implementations may
// call an LLM, use templates, or return canned results (for tests).
type Advisor interface {
	Recommend(ctx context.Context, s Summary) (Recommendation, error)
}
