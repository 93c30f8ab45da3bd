// Package trace provides decision-trace recording for clause-database
// reduction rounds. This package has no dependencies on retention/ or
// reduce/; it stores pure data types.
package trace

// Outcome strings used in DecisionRecord.Outcome.
const (
	OutcomeKeep     = "keep"
	OutcomeEvict    = "evict"
	OutcomeRejected = "rejected"
)

// DecisionRecord captures the classification of a single candidate clause.
type DecisionRecord struct {
	ClauseID   uint64
	Model      string // model key, e.g. "long/conf0/cluster0"
	Votes      int    // keep votes; 0 for rejected candidates
	Outcome    string
	Reason     string // validation failure for rejected candidates
	AgeWrapped bool   // conflict counter was behind the clause's introduction
}
