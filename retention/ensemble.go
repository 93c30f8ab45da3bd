package retention

import (
	"fmt"
	"math"
)

// Ensemble is a fixed set of independently trained trees plus the calibrated
// voting rule that combines them. A tree votes to keep a clause when its score
// is strictly below VoteThreshold; the clause is kept when at least Majority
// trees vote for it.
type Ensemble struct {
	Key           ModelKey
	VoteThreshold float64
	Majority      int

	trees    []*Tree
	maxDepth int
}

// NewEnsemble validates the voting constants and assembles an Ensemble.
func NewEnsemble(key ModelKey, trees []*Tree, voteThreshold float64, majority int) (*Ensemble, error) {
	if len(trees) == 0 {
		return nil, fmt.Errorf("ensemble %s: no trees", key)
	}
	for i, t := range trees {
		if t == nil {
			return nil, fmt.Errorf("ensemble %s: tree %d is nil", key, i)
		}
	}
	if math.IsNaN(voteThreshold) || math.IsInf(voteThreshold, 0) {
		return nil, fmt.Errorf("ensemble %s: vote threshold must be finite, got %v", key, voteThreshold)
	}
	if majority < 1 || majority > len(trees) {
		return nil, fmt.Errorf("ensemble %s: majority %d outside [1, %d]", key, majority, len(trees))
	}
	e := &Ensemble{
		Key:           key,
		VoteThreshold: voteThreshold,
		Majority:      majority,
		trees:         append([]*Tree(nil), trees...),
	}
	for _, t := range e.trees {
		e.maxDepth = max(e.maxDepth, t.Depth())
	}
	return e, nil
}

// Trees returns the number of trees in the ensemble.
func (e *Ensemble) Trees() int { return len(e.trees) }

// Tree returns the i'th tree.
func (e *Ensemble) Tree(i int) *Tree { return e.trees[i] }

// MaxDepth is the deepest tree's depth.
func (e *Ensemble) MaxDepth() int { return e.maxDepth }

// Decision is the outcome of classifying one clause.
type Decision struct {
	Votes int
	Keep  bool
}

// VotesFor counts the trees whose score falls below the vote threshold.
func (e *Ensemble) VotesFor(v *Values) int {
	votes := 0
	for _, t := range e.trees {
		if t.Eval(v) < e.VoteThreshold {
			votes++
		}
	}
	return votes
}

// Votes extracts features for c and counts keep votes. The result is always
// in [0, Trees()].
func (e *Ensemble) Votes(c Clause, in Inputs) int {
	v := NewValues(c, in)
	return e.VotesFor(&v)
}

// Decide classifies c and reports the vote count alongside the decision.
func (e *Ensemble) Decide(c Clause, in Inputs) Decision {
	votes := e.Votes(c, in)
	return Decision{Votes: votes, Keep: votes >= e.Majority}
}

// ShouldKeep reports whether the reduction pass should retain c. It is a pure
// function of its arguments: the same clause statistics and inputs always
// produce the same answer.
func (e *Ensemble) ShouldKeep(c Clause, in Inputs) bool {
	return e.Votes(c, in) >= e.Majority
}

// ScoresInto writes each tree's score for c into dst, which must hold at
// least Trees() entries, and returns the filled prefix.
func (e *Ensemble) ScoresInto(dst []float64, c Clause, in Inputs) []float64 {
	v := NewValues(c, in)
	dst = dst[:len(e.trees)]
	for i, t := range e.trees {
		dst[i] = t.Eval(&v)
	}
	return dst
}
