package trace

// Summary aggregates statistics from a RoundTrace.
type Summary struct {
	TotalDecisions    int
	KeptCount         int
	EvictedCount      int
	RejectedCount     int
	AgeWrappedCount   int
	MeanVotes         float64        // over classified (non-rejected) candidates
	VoteHistogram     map[int]int    // vote count → number of candidates
	ModelDistribution map[string]int // model key → number of candidates
}

// Summarize computes aggregate statistics from a RoundTrace.
// Safe for nil or empty traces (returns zero-value fields).
func Summarize(rt *RoundTrace) *Summary {
	summary := &Summary{
		VoteHistogram:     make(map[int]int),
		ModelDistribution: make(map[string]int),
	}
	if rt == nil {
		return summary
	}

	summary.TotalDecisions = len(rt.Records)
	totalVotes, classified := 0, 0
	for _, r := range rt.Records {
		summary.ModelDistribution[r.Model]++
		if r.AgeWrapped {
			summary.AgeWrappedCount++
		}
		switch r.Outcome {
		case OutcomeRejected:
			summary.RejectedCount++
			continue
		case OutcomeKeep:
			summary.KeptCount++
		case OutcomeEvict:
			summary.EvictedCount++
		}
		classified++
		totalVotes += r.Votes
		summary.VoteHistogram[r.Votes]++
	}
	if classified > 0 {
		summary.MeanVotes = float64(totalVotes) / float64(classified)
	}

	return summary
}
