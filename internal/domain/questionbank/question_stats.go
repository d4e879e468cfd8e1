package questionbank

// QuestionStats are the running usage counters of a question across all sessions.
type QuestionStats struct {
	TimesAttempted int
	TimesCorrect   int
}

// Record counts one more attempt.
func (qs *QuestionStats) Record(correct bool) {
	qs.TimesAttempted++
	if correct {
		qs.TimesCorrect++
	}
}

// Accuracy returns the share of correct attempts, 0 when never attempted.
func (qs QuestionStats) Accuracy() float64 {
	if qs.TimesAttempted == 0 {
		return 0
	}
	return float64(qs.TimesCorrect) / float64(qs.TimesAttempted)
}
