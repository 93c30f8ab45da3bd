// Package testutil provides shared test infrastructure for the retention
// classifier. It holds the golden corpus types and assertion helpers used by
// the retention, retention/models and reduce test packages.
package testutil

import (
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/msoos/cryptominisat-sub002/retention"
)

// GoldenCorpus represents the structure of testdata/golden_<model>.json.
type GoldenCorpus struct {
	Model retention.ModelKey `json:"model"`
	Cases []GoldenCase       `json:"cases"`
}

// GoldenCase is one clause with the scores, votes and decision the embedded
// ensemble produced for it when the snapshot was taken. The snapshot is a
// regression guard for this implementation, not output of another one.
type GoldenCase struct {
	Name string `json:"name"`
	retention.Record

	SumConflicts    uint64 `json:"sum_conflicts"`
	LastTouchedDiff uint32 `json:"last_touched_diff"`
	ActRanking      uint32 `json:"act_ranking"`
	ActRankingTop10 uint32 `json:"act_ranking_top_10"`

	// Expected outputs
	Scores []float64 `json:"scores"`
	Votes  int       `json:"votes"`
	Keep   bool      `json:"keep"`
}

// Inputs returns the solver scalars recorded with the case.
func (c *GoldenCase) Inputs() retention.Inputs {
	return retention.Inputs{
		SumConflicts:    c.SumConflicts,
		LastTouchedDiff: c.LastTouchedDiff,
		ActRanking:      c.ActRanking,
		ActRankingTop10: c.ActRankingTop10,
	}
}

// LoadGoldenCorpus loads testdata/golden_<name>.json.
// The path is resolved relative to this source file: internal/testutil/ → testdata/.
func LoadGoldenCorpus(t *testing.T, name string) *GoldenCorpus {
	t.Helper()

	_, thisFile, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("Failed to get current file path")
	}
	path := filepath.Join(filepath.Dir(thisFile), "..", "..", "testdata", "golden_"+name+".json")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read golden corpus: %v", err)
	}

	var corpus GoldenCorpus
	if err := json.Unmarshal(data, &corpus); err != nil {
		t.Fatalf("Failed to parse golden corpus: %v", err)
	}
	if len(corpus.Cases) == 0 {
		t.Fatalf("golden corpus %s has no cases", name)
	}
	return &corpus
}

// AssertFloat64Equal compares two float64 values with relative tolerance.
func AssertFloat64Equal(t *testing.T, name string, want, got, relTol float64) {
	t.Helper()
	if want == 0 && got == 0 {
		return
	}
	diff := math.Abs(want - got)
	maxVal := math.Max(math.Abs(want), math.Abs(got))
	if diff/maxVal > relTol {
		t.Errorf("%s: got %v, want %v (diff=%v, relDiff=%v)", name, got, want, diff, diff/maxVal)
	}
}
