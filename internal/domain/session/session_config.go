package session

import "time"

// Config holds the budget of a test session.
type Config struct {
	TargetQuestions int           // questions to ask before completing
	Duration        time.Duration // 0 = no time limit
}

// DefaultConfig returns a 20-question untimed session.
func DefaultConfig() Config {
	return Config{
		TargetQuestions: 20,
		Duration:        0,
	}
}
