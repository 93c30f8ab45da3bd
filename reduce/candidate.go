package reduce

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/msoos/cryptominisat-sub002/retention"
)

// candidateValidate is the validator instance for reduction candidates.
// Initialized in init() with custom validators.
var candidateValidate *validator.Validate

func init() {
	candidateValidate = validator.New()
	_ = candidateValidate.RegisterValidation("finite", validateFinite)
}

// validateFinite rejects NaN and ±Inf floating-point fields.
func validateFinite(fl validator.FieldLevel) bool {
	switch fl.Field().Kind() {
	case reflect.Float32, reflect.Float64:
		f := fl.Field().Float()
		return !math.IsNaN(f) && !math.IsInf(f, 0)
	}
	return true
}

// Candidate is a learned clause offered to a reduction round together with
// the per-clause values the reducer computed for it.
type Candidate struct {
	ID      uint64                `yaml:"id" json:"id"`
	Tier    retention.LengthClass `yaml:"tier" json:"tier"`
	Cluster int                   `yaml:"cluster" json:"cluster" validate:"gte=0"`

	Clause retention.Record `yaml:",inline" json:"clause"`

	LastTouchedDiff uint32 `yaml:"last_touched_diff" json:"last_touched_diff"`
	ActRanking      uint32 `yaml:"act_ranking" json:"act_ranking"`
	ActRankingTop10 uint32 `yaml:"act_ranking_top_10" json:"act_ranking_top_10"`
}

// Inputs pairs the candidate's values with the round's conflict counter.
func (c *Candidate) Inputs(sumConflicts uint64) retention.Inputs {
	return retention.Inputs{
		SumConflicts:    sumConflicts,
		LastTouchedDiff: c.LastTouchedDiff,
		ActRanking:      c.ActRanking,
		ActRankingTop10: c.ActRankingTop10,
	}
}

// Validate checks the statistics the trees were trained on: a non-empty
// clause and finite, non-negative relative metrics.
func (c *Candidate) Validate() error {
	err := candidateValidate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("clause %d: %w", c.ID, err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s failed %s (value %v)", fe.Namespace(), fe.Tag(), fe.Value()))
	}
	return fmt.Errorf("clause %d: %s", c.ID, strings.Join(msgs, "; "))
}

// CheckConflictAge reports whether the candidate was introduced no later than
// the current conflict, the ordering the clause-age feature relies on.
func (c *Candidate) CheckConflictAge(sumConflicts uint64) bool {
	return c.Clause.Statistics.IntroducedAtConflict <= sumConflicts
}
