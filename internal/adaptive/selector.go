package adaptive

import (
	"math"

	"github.com/remaimber-it/examprep/internal/domain/questionbank"
)

// Selector picks the next question to present. Selection is a pure query:
// recording the question as asked is the caller's job.
type Selector interface {
	// SelectNext returns nil when no eligible question remains.
	SelectNext(theta float64, asked map[string]struct{}, pool []questionbank.Question, examType string) *questionbank.Question
}

// InformationSelector prefers the question whose difficulty is closest to
// theta, where a 1PL item is most informative. Ties go to a topic not yet
// covered this session, then to the less used question, then to the lower ID.
type InformationSelector struct {
	tolerance float64
}

var _ Selector = (*InformationSelector)(nil)

func NewInformationSelector(cfg Config) *InformationSelector {
	return &InformationSelector{tolerance: cfg.TieTolerance}
}

func (s *InformationSelector) SelectNext(theta float64, asked map[string]struct{}, pool []questionbank.Question, examType string) *questionbank.Question {
	covered := coveredTopics(asked, pool)

	var best *questionbank.Question
	bestDist := 0.0
	for i := range pool {
		q := &pool[i]
		if !eligible(q, asked, examType) {
			continue
		}
		dist := math.Abs(q.DifficultyValue() - theta)
		if best == nil || s.less(q, dist, best, bestDist, covered) {
			best, bestDist = q, dist
		}
	}
	if best == nil {
		return nil
	}
	picked := *best
	return &picked
}

func (s *InformationSelector) less(a *questionbank.Question, da float64, b *questionbank.Question, db float64, covered map[string]bool) bool {
	if math.Abs(da-db) > s.tolerance {
		return da < db
	}
	aFresh, bFresh := !covered[a.Topic], !covered[b.Topic]
	if aFresh != bFresh {
		return aFresh
	}
	if a.Stats.TimesAttempted != b.Stats.TimesAttempted {
		return a.Stats.TimesAttempted < b.Stats.TimesAttempted
	}
	return a.ID < b.ID
}

// FixedFormSelector serves mock tests: questions come in a stable
// subject, topic, ID order regardless of theta.
type FixedFormSelector struct{}

var _ Selector = FixedFormSelector{}

func (FixedFormSelector) SelectNext(_ float64, asked map[string]struct{}, pool []questionbank.Question, examType string) *questionbank.Question {
	var best *questionbank.Question
	for i := range pool {
		q := &pool[i]
		if !eligible(q, asked, examType) {
			continue
		}
		if best == nil || formOrder(q, best) {
			best = q
		}
	}
	if best == nil {
		return nil
	}
	picked := *best
	return &picked
}

func formOrder(a, b *questionbank.Question) bool {
	if a.SubjectID != b.SubjectID {
		return a.SubjectID < b.SubjectID
	}
	if a.Topic != b.Topic {
		return a.Topic < b.Topic
	}
	return a.ID < b.ID
}

func eligible(q *questionbank.Question, asked map[string]struct{}, examType string) bool {
	if _, seen := asked[q.ID]; seen {
		return false
	}
	return q.AppliesTo(examType)
}

func coveredTopics(asked map[string]struct{}, pool []questionbank.Question) map[string]bool {
	covered := make(map[string]bool)
	for _, q := range pool {
		if _, ok := asked[q.ID]; ok {
			covered[q.Topic] = true
		}
	}
	return covered
}
