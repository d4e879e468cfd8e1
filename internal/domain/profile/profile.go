package profile

import (
	"fmt"
	"math"
	"sort"
	"time"
)

// MergePolicy decides how a completed session's topic findings combine with
// the topic sets already on the profile.
type MergePolicy string

const (
	// PolicyOverwrite replaces weak/strong topics with the newest session's.
	PolicyOverwrite MergePolicy = "overwrite"
	// PolicyDecayMerge keeps a per-topic score that decays each session.
	PolicyDecayMerge MergePolicy = "exponential-decay-merge"
)

func ParsePolicy(s string) (MergePolicy, error) {
	switch p := MergePolicy(s); p {
	case PolicyOverwrite, PolicyDecayMerge:
		return p, nil
	case "":
		return PolicyOverwrite, nil
	default:
		return "", fmt.Errorf("unknown topic merge policy %q", s)
	}
}

// minTopicScore is the magnitude under which a decayed topic score is dropped.
const minTopicScore = 0.01

// Profile is the long-lived learner state carried across sessions.
type Profile struct {
	UserID            string
	Theta             float64
	TotalAnswered     int
	TotalCorrect      int
	SessionsCompleted int
	WeakTopics        []string
	StrongTopics      []string
	TopicScores       map[string]float64 // >0 leans strong, <0 leans weak
	LastActiveAt      time.Time
}

// New returns the profile of a user who has never completed a session.
func New(userID string) *Profile {
	return &Profile{
		UserID:       userID,
		Theta:        0,
		WeakTopics:   []string{},
		StrongTopics: []string{},
		TopicScores:  map[string]float64{},
	}
}

// SessionResult is what one completed session contributes to a profile.
type SessionResult struct {
	Theta        float64
	Answered     int
	Correct      int
	WeakTopics   []string
	StrongTopics []string
	SeenTopics   []string
	CompletedAt  time.Time
}

type MergeOptions struct {
	Policy    MergePolicy
	Decay     float64 // weight kept by the previous score, in [0, 1)
	Threshold float64 // |score| at or above which a topic is classified
}

func DefaultMergeOptions() MergeOptions {
	return MergeOptions{
		Policy:    PolicyOverwrite,
		Decay:     0.5,
		Threshold: 0.25,
	}
}

// Apply computes the full next profile state. p is not modified, so the
// result can be written as a single atomic replace.
//
// A result that completed before the profile was last active (a delayed
// write landing after a newer session) only adds to the cumulative counters.
// Theta and the topic sets stay with the newer session; under decay-merge its
// topic signal is folded in as if one newer session had followed it.
func Apply(p Profile, r SessionResult, opts MergeOptions) Profile {
	next := p
	next.TotalAnswered = p.TotalAnswered + r.Answered
	next.TotalCorrect = p.TotalCorrect + r.Correct
	next.SessionsCompleted = p.SessionsCompleted + 1

	signals := topicSignals(r)

	if r.CompletedAt.Before(p.LastActiveAt) {
		if opts.Policy == PolicyDecayMerge {
			next.TopicScores = foldOlderScores(p.TopicScores, signals, opts.Decay)
			next.WeakTopics, next.StrongTopics = classifyScores(next.TopicScores, opts.Threshold)
		}
		return next
	}

	next.Theta = r.Theta
	if r.CompletedAt.After(p.LastActiveAt) {
		next.LastActiveAt = r.CompletedAt
	}

	switch opts.Policy {
	case PolicyDecayMerge:
		next.TopicScores = decayScores(p.TopicScores, signals, opts.Decay)
		next.WeakTopics, next.StrongTopics = classifyScores(next.TopicScores, opts.Threshold)
	default:
		scores := make(map[string]float64, len(signals))
		for topic, s := range signals {
			if s != 0 {
				scores[topic] = s
			}
		}
		next.TopicScores = scores
		next.WeakTopics = sortedCopy(r.WeakTopics)
		next.StrongTopics = sortedCopy(r.StrongTopics)
	}
	return next
}

func topicSignals(r SessionResult) map[string]float64 {
	signals := make(map[string]float64, len(r.SeenTopics))
	for _, t := range r.SeenTopics {
		signals[t] = 0
	}
	for _, t := range r.WeakTopics {
		signals[t] = -1
	}
	for _, t := range r.StrongTopics {
		signals[t] = 1
	}
	return signals
}

func decayScores(prev, signals map[string]float64, decay float64) map[string]float64 {
	decay = validDecay(decay)
	out := make(map[string]float64, len(prev)+len(signals))
	for topic, score := range prev {
		out[topic] = decay * score
	}
	for topic, s := range signals {
		out[topic] += (1 - decay) * s
	}
	for topic, score := range out {
		if math.Abs(score) < minTopicScore {
			delete(out, topic)
		}
	}
	return out
}

// foldOlderScores adds signals one decay step below the newest weight and
// leaves the existing scores undecayed.
func foldOlderScores(prev, signals map[string]float64, decay float64) map[string]float64 {
	decay = validDecay(decay)
	out := make(map[string]float64, len(prev)+len(signals))
	for topic, score := range prev {
		out[topic] = score
	}
	for topic, s := range signals {
		out[topic] += decay * (1 - decay) * s
	}
	for topic, score := range out {
		if math.Abs(score) < minTopicScore {
			delete(out, topic)
		}
	}
	return out
}

func validDecay(decay float64) float64 {
	if decay < 0 || decay >= 1 {
		return DefaultMergeOptions().Decay
	}
	return decay
}

func classifyScores(scores map[string]float64, threshold float64) (weak, strong []string) {
	weak, strong = []string{}, []string{}
	for topic, score := range scores {
		switch {
		case score <= -threshold:
			weak = append(weak, topic)
		case score >= threshold:
			strong = append(strong, topic)
		}
	}
	sort.Strings(weak)
	sort.Strings(strong)
	return weak, strong
}

func sortedCopy(in []string) []string {
	out := append([]string{}, in...)
	sort.Strings(out)
	return out
}
