package advisor

import (
	"context"
	"fmt"
	"sort"
	"strings"
)

// LocalAdvisor writes template advice from the summary alone. It never fails
// and is the fallback whenever the LLM is unavailable.
type LocalAdvisor struct{}

var _ Advisor = LocalAdvisor{}

func (LocalAdvisor) Recommend(_ context.Context, s Summary) (Recommendation, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "You answered %d of %d questions correctly (%.0f%%).", s.Correct, s.Attempted, s.Accuracy*100)

	switch delta := s.ThetaEnd - s.ThetaStart; {
	case delta > 0.05:
		b.WriteString(" Your ability estimate went up this session.")
	case delta < -0.05:
		b.WriteString(" Your ability estimate dipped this session.")
	}

	focus := weakestFirst(s)
	if len(focus) > 0 {
		fmt.Fprintf(&b, " Focus next on: %s.", strings.Join(focus, ", "))
	}
	if len(s.StrongTopics) > 0 {
		fmt.Fprintf(&b, " Keep it up in: %s.", strings.Join(s.StrongTopics, ", "))
	}
	if len(focus) == 0 && len(s.StrongTopics) == 0 {
		b.WriteString(" Try a longer session to get topic-level feedback.")
	}

	return Recommendation{
		Text:        b.String(),
		FocusTopics: focus,
		Source:      SourceLocal,
	}, nil
}

// weakestFirst orders weak topics by ascending accuracy, then name.
func weakestFirst(s Summary) []string {
	acc := make(map[string]float64, len(s.Topics))
	for _, t := range s.Topics {
		acc[t.Topic] = t.Accuracy
	}
	out := append([]string{}, s.WeakTopics...)
	sort.SliceStable(out, func(i, j int) bool {
		if acc[out[i]] != acc[out[j]] {
			return acc[out[i]] < acc[out[j]]
		}
		return out[i] < out[j]
	})
	return out
}
