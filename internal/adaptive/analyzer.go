package adaptive

import (
	"sort"

	"github.com/remaimber-it/examprep/internal/domain/session"
)

// TopicStat is the per-topic accuracy of one session.
type TopicStat struct {
	Topic     string  `json:"topic"`
	Attempted int     `json:"attempted"`
	Correct   int     `json:"correct"`
	Accuracy  float64 `json:"accuracy"`
}

// Analysis summarises a session's responses.
type Analysis struct {
	WeakTopics      []string    `json:"weak_topics"`
	StrongTopics    []string    `json:"strong_topics"`
	OverallAccuracy float64     `json:"overall_accuracy"`
	Attempted       int         `json:"attempted"`
	Correct         int         `json:"correct"`
	Topics          []TopicStat `json:"topics"`
}

// SeenTopics lists every topic that had at least one response.
func (a Analysis) SeenTopics() []string {
	out := make([]string, len(a.Topics))
	for i, t := range a.Topics {
		out[i] = t.Topic
	}
	return out
}

// Analyzer classifies topics from a session's responses. Classification is
// local and deterministic; no external model is consulted.
type Analyzer interface {
	Analyze(responses []session.Response) Analysis
}

// ThresholdAnalyzer marks a topic weak below WeakBelow accuracy and strong at
// or above StrongAtOrAbove, once it has MinAttempts responses. Topics with
// fewer attempts land in neither set.
type ThresholdAnalyzer struct {
	t Thresholds
}

var _ Analyzer = (*ThresholdAnalyzer)(nil)

func NewThresholdAnalyzer(t Thresholds) *ThresholdAnalyzer {
	if t.MinAttempts < 1 {
		t.MinAttempts = 1
	}
	return &ThresholdAnalyzer{t: t}
}

func (a *ThresholdAnalyzer) Analyze(responses []session.Response) Analysis {
	type tally struct{ attempted, correct int }
	byTopic := make(map[string]*tally)

	out := Analysis{
		WeakTopics:   []string{},
		StrongTopics: []string{},
		Topics:       []TopicStat{},
	}
	for _, r := range responses {
		out.Attempted++
		if r.Correct {
			out.Correct++
		}
		if r.Topic == "" {
			continue
		}
		tl, ok := byTopic[r.Topic]
		if !ok {
			tl = &tally{}
			byTopic[r.Topic] = tl
		}
		tl.attempted++
		if r.Correct {
			tl.correct++
		}
	}
	if out.Attempted > 0 {
		out.OverallAccuracy = float64(out.Correct) / float64(out.Attempted)
	}

	for topic, tl := range byTopic {
		acc := float64(tl.correct) / float64(tl.attempted)
		out.Topics = append(out.Topics, TopicStat{
			Topic:     topic,
			Attempted: tl.attempted,
			Correct:   tl.correct,
			Accuracy:  acc,
		})
		if tl.attempted < a.t.MinAttempts {
			continue
		}
		switch {
		case acc < a.t.WeakBelow:
			out.WeakTopics = append(out.WeakTopics, topic)
		case acc >= a.t.StrongAtOrAbove:
			out.StrongTopics = append(out.StrongTopics, topic)
		}
	}

	sort.Strings(out.WeakTopics)
	sort.Strings(out.StrongTopics)
	sort.Slice(out.Topics, func(i, j int) bool { return out.Topics[i].Topic < out.Topics[j].Topic })
	return out
}
