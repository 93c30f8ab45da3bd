package trace

// Level controls the verbosity of decision tracing.
type Level string

const (
	// LevelNone disables tracing (zero overhead).
	LevelNone Level = "none"
	// LevelDecisions captures every keep/evict/rejected decision of a round.
	LevelDecisions Level = "decisions"
)

// validLevels maps accepted trace level strings.
var validLevels = map[Level]bool{
	LevelNone:      true,
	LevelDecisions: true,
	"":             true, // empty defaults to none
}

// IsValidLevel returns true if the given level string is a recognized trace level.
func IsValidLevel(level string) bool {
	return validLevels[Level(level)]
}

// Enabled reports whether records should be collected at this level.
func (l Level) Enabled() bool {
	return l == LevelDecisions
}

// RoundTrace collects decision records for one reduction round.
type RoundTrace struct {
	RoundID      string
	Level        Level
	SumConflicts uint64
	Records      []DecisionRecord
}

// NewRoundTrace creates a RoundTrace ready for recording.
func NewRoundTrace(roundID string, level Level, sumConflicts uint64) *RoundTrace {
	return &RoundTrace{
		RoundID:      roundID,
		Level:        level,
		SumConflicts: sumConflicts,
		Records:      make([]DecisionRecord, 0),
	}
}

// Record appends a decision record.
func (rt *RoundTrace) Record(record DecisionRecord) {
	rt.Records = append(rt.Records, record)
}
