package reduce

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// decisionsTotal counts classified candidates.
	// Labels: model (e.g. long/conf0/cluster0), outcome (keep, evict, rejected)
	decisionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "clausegc",
		Subsystem: "reduce",
		Name:      "decisions_total",
		Help:      "Learned clauses judged by reduction sweeps",
	}, []string{"model", "outcome"})

	// keepVotes tracks how many trees voted to keep each classified clause.
	// Labels: model
	keepVotes = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "clausegc",
		Subsystem: "reduce",
		Name:      "keep_votes",
		Help:      "Distribution of keep votes per classified clause",
		Buckets:   prometheus.LinearBuckets(0, 1, 11),
	}, []string{"model"})

	// sweepDuration measures the classification phase of a sweep.
	sweepDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "clausegc",
		Subsystem: "reduce",
		Name:      "sweep_duration_seconds",
		Help:      "Time spent classifying one reduction round",
		Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10),
	})

	// conflictAgeWraps counts candidates introduced after the round's conflict
	// counter, whose clause age wrapped.
	conflictAgeWraps = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "clausegc",
		Subsystem: "reduce",
		Name:      "conflict_age_wraps_total",
		Help:      "Candidates whose introduction conflict exceeded the current conflict counter",
	})
)
