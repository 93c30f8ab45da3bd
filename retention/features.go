package retention

import (
	"fmt"
	"sort"
	"strings"
)

// Feature selects the value a tree node compares against its threshold.
type Feature uint8

const (
	FeatureSize Feature = iota
	FeatureGlue
	FeatureGlueRelQueue
	FeatureGlueRelLong
	FeatureSizeRel
	FeatureUsedForUIPCreation
	FeatureRdb1UsedForUIPCreation
	FeatureSumUIP1Used
	FeatureSumDeltaConflUIP1Used
	FeatureIntroducedAtConflict
	FeatureDumpNumber
	FeatureRdb1LastTouchedDiff
	FeatureNumTotalLitsAntecedents
	FeatureAntecNumTotalLitsRel
	FeatureNumAntecedentsRel
	FeatureAntecedentsGlueLongRedsVar
	FeatureNumOverlapLiterals
	FeatureNumOverlapLiteralsRel
	FeatureRdb0LastTouchedDiff
	FeatureRdb0ActRanking
	FeatureRdb0ActRankingTop10
	FeatureRdbRelUsedForUIPCreation
	FeatureRdb0AvgConfl
	FeatureRdb0UsedPerConfl

	NumFeatures
)

// featureNames are the identifiers used by model tables.
var featureNames = [NumFeatures]string{
	FeatureSize:                       "size",
	FeatureGlue:                       "glue",
	FeatureGlueRelQueue:               "glue_rel_queue",
	FeatureGlueRelLong:                "glue_rel_long",
	FeatureSizeRel:                    "size_rel",
	FeatureUsedForUIPCreation:         "used_for_uip_creation",
	FeatureRdb1UsedForUIPCreation:     "rdb1_used_for_uip_creation",
	FeatureSumUIP1Used:                "sum_uip1_used",
	FeatureSumDeltaConflUIP1Used:      "sum_delta_confl_uip1_used",
	FeatureIntroducedAtConflict:       "introduced_at_conflict",
	FeatureDumpNumber:                 "dump_number",
	FeatureRdb1LastTouchedDiff:        "rdb1_last_touched_diff",
	FeatureNumTotalLitsAntecedents:    "num_total_lits_antecedents",
	FeatureAntecNumTotalLitsRel:       "antec_num_total_lits_rel",
	FeatureNumAntecedentsRel:          "num_antecedents_rel",
	FeatureAntecedentsGlueLongRedsVar: "antecedents_glue_long_reds_var",
	FeatureNumOverlapLiterals:         "num_overlap_literals",
	FeatureNumOverlapLiteralsRel:      "num_overlap_literals_rel",
	FeatureRdb0LastTouchedDiff:        "rdb0_last_touched_diff",
	FeatureRdb0ActRanking:             "rdb0_act_ranking",
	FeatureRdb0ActRankingTop10:        "rdb0_act_ranking_top_10",
	FeatureRdbRelUsedForUIPCreation:   "rdb_rel_used_for_uip_creation",
	FeatureRdb0AvgConfl:               "rdb0_avg_confl",
	FeatureRdb0UsedPerConfl:           "rdb0_used_per_confl",
}

var featuresByName = func() map[string]Feature {
	m := make(map[string]Feature, NumFeatures)
	for f, name := range featureNames {
		m[name] = Feature(f)
	}
	return m
}()

func (f Feature) String() string {
	if f >= NumFeatures {
		return fmt.Sprintf("Feature(%d)", uint8(f))
	}
	return featureNames[f]
}

// ParseFeature maps a model-table identifier to its Feature.
func ParseFeature(name string) (Feature, error) {
	f, ok := featuresByName[name]
	if !ok {
		return 0, fmt.Errorf("unknown feature %q; valid: [%s]", name, strings.Join(FeatureNames(), ", "))
	}
	return f, nil
}

// FeatureNames returns every feature identifier, sorted.
func FeatureNames() []string {
	names := make([]string, 0, NumFeatures)
	for _, n := range featureNames {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// FeatureVector holds the features derived from a clause and the conflict
// counter. It lives for a single classification call.
type FeatureVector struct {
	// RelUsedForUIPCreation is 1 when the clause took part in more UIP
	// derivations than at the previous reduction round, 0 otherwise.
	RelUsedForUIPCreation uint32
	// AvgConfl is sum_uip1_used / sum_delta_confl_uip1_used, 0 for a zero
	// denominator.
	AvgConfl float64
	// UsedPerConfl is sum_uip1_used / (SumConflicts - introduced_at_conflict),
	// 0 for a zero denominator.
	UsedPerConfl float64
}

// Extract derives the FeatureVector for a clause.
//
// The clause age is computed in unsigned 64-bit arithmetic. If SumConflicts is
// smaller than IntroducedAtConflict the subtraction wraps and UsedPerConfl
// comes out near zero instead of failing; callers that cannot guarantee the
// ordering should check it before classifying (see reduce.CheckConflictAge).
func Extract(c Clause, sumConflicts uint64) FeatureVector {
	st := c.Stats()
	var fv FeatureVector
	if st.UsedForUIPCreation > st.Rdb1UsedForUIPCreation {
		fv.RelUsedForUIPCreation = 1
	}
	if st.SumDeltaConflUIP1Used != 0 {
		fv.AvgConfl = float64(st.SumUIP1Used) / float64(st.SumDeltaConflUIP1Used)
	}
	if age := sumConflicts - st.IntroducedAtConflict; age != 0 {
		fv.UsedPerConfl = float64(st.SumUIP1Used) / float64(age)
	}
	return fv
}

// Values is the feature row a tree is evaluated against, indexed by Feature.
//
// Trained thresholds are single-precision literals, so integer counters are
// stored after conversion to float32, single-precision stats as they are, and
// the double-precision derived ratios unchanged. Comparing a stored value
// against the widened threshold then decides every node exactly as a compiled
// `counter <= 5.5f` or `ratio <= 0.25f` would.
type Values [NumFeatures]float64

func u32(x uint32) float64 { return float64(float32(x)) }
func u64(x uint64) float64 { return float64(float32(x)) }

// Fill populates v from a clause, its solver inputs and its derived features.
func (v *Values) Fill(c Clause, in Inputs, fv FeatureVector) {
	st := c.Stats()
	v[FeatureSize] = u32(c.Size())
	v[FeatureGlue] = u32(st.Glue)
	v[FeatureGlueRelQueue] = float64(st.GlueRelQueue)
	v[FeatureGlueRelLong] = float64(st.GlueRelLong)
	v[FeatureSizeRel] = float64(st.SizeRel)
	v[FeatureUsedForUIPCreation] = u32(st.UsedForUIPCreation)
	v[FeatureRdb1UsedForUIPCreation] = u32(st.Rdb1UsedForUIPCreation)
	v[FeatureSumUIP1Used] = u32(st.SumUIP1Used)
	v[FeatureSumDeltaConflUIP1Used] = u64(st.SumDeltaConflUIP1Used)
	v[FeatureIntroducedAtConflict] = u64(st.IntroducedAtConflict)
	v[FeatureDumpNumber] = u32(st.DumpNumber)
	v[FeatureRdb1LastTouchedDiff] = u32(st.Rdb1LastTouchedDiff)
	v[FeatureNumTotalLitsAntecedents] = u32(st.NumTotalLitsAntecedents)
	v[FeatureAntecNumTotalLitsRel] = float64(st.AntecNumTotalLitsRel)
	v[FeatureNumAntecedentsRel] = float64(st.NumAntecedentsRel)
	v[FeatureAntecedentsGlueLongRedsVar] = float64(st.AntecedentsGlueLongRedsVar)
	v[FeatureNumOverlapLiterals] = u32(st.NumOverlapLiterals)
	v[FeatureNumOverlapLiteralsRel] = float64(st.NumOverlapLiteralsRel)
	v[FeatureRdb0LastTouchedDiff] = u32(in.LastTouchedDiff)
	v[FeatureRdb0ActRanking] = u32(in.ActRanking)
	v[FeatureRdb0ActRankingTop10] = u32(in.ActRankingTop10)
	v[FeatureRdbRelUsedForUIPCreation] = u32(fv.RelUsedForUIPCreation)
	v[FeatureRdb0AvgConfl] = fv.AvgConfl
	v[FeatureRdb0UsedPerConfl] = fv.UsedPerConfl
}

// NewValues extracts the derived features and fills a feature row.
func NewValues(c Clause, in Inputs) Values {
	var v Values
	v.Fill(c, in, Extract(c, in.SumConflicts))
	return v
}
