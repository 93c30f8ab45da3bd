package retention

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testKey = ModelKey{Length: LengthLong, Config: 9, Cluster: 9}

// constantEnsemble builds ten single-leaf trees returning scores.
func constantEnsemble(t *testing.T, scores ...float64) *Ensemble {
	t.Helper()
	trees := make([]*Tree, len(scores))
	for i, s := range scores {
		tree, err := NewTree([]Node{LeafNode(s)})
		require.NoError(t, err)
		trees[i] = tree
	}
	e, err := NewEnsemble(testKey, trees, 1.0, 5)
	require.NoError(t, err)
	return e
}

func TestEnsemble_MajorityLaw(t *testing.T) {
	rec := &Record{Len: 4}
	tests := []struct {
		name      string
		scores    []float64
		wantVotes int
		wantKeep  bool
	}{
		{"five below, five above keeps", []float64{0.5, 0.5, 0.5, 0.5, 0.5, 1.5, 1.5, 1.5, 1.5, 1.5}, 5, true},
		{"four below, six above evicts", []float64{0.5, 0.5, 0.5, 0.5, 1.5, 1.5, 1.5, 1.5, 1.5, 1.5}, 4, false},
		{"all below", []float64{0, 0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.99}, 10, true},
		{"all above", []float64{1.1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, 0, false},
		{"exactly one is not a vote", []float64{1, 1, 1, 1, 1, 0.5, 0.5, 0.5, 0.5, 1}, 4, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// GIVEN an ensemble whose trees return fixed scores
			e := constantEnsemble(t, tt.scores...)

			// WHEN a clause is classified
			d := e.Decide(rec, Inputs{})

			// THEN the votes count scores strictly below 1.0 and keep needs five
			assert.Equal(t, tt.wantVotes, d.Votes)
			assert.Equal(t, tt.wantKeep, d.Keep)
			assert.Equal(t, tt.wantKeep, e.ShouldKeep(rec, Inputs{}))
		})
	}
}

func TestEnsemble_ScoresInto(t *testing.T) {
	e := constantEnsemble(t, 0.5, 0.5, 0.5, 0.5, 1.5, 1.5, 1.5, 1.5, 1.5, 2.5)
	buf := make([]float64, 16)

	scores := e.ScoresInto(buf, &Record{Len: 3}, Inputs{})

	assert.Equal(t, []float64{0.5, 0.5, 0.5, 0.5, 1.5, 1.5, 1.5, 1.5, 1.5, 2.5}, scores)
}

func TestNewEnsemble_Invalid(t *testing.T) {
	leaf, err := NewTree([]Node{LeafNode(1)})
	require.NoError(t, err)

	_, err = NewEnsemble(testKey, nil, 1, 1)
	assert.Error(t, err)
	_, err = NewEnsemble(testKey, []*Tree{leaf, nil}, 1, 1)
	assert.Error(t, err)
	_, err = NewEnsemble(testKey, []*Tree{leaf}, 1, 0)
	assert.Error(t, err)
	_, err = NewEnsemble(testKey, []*Tree{leaf}, 1, 2)
	assert.Error(t, err)
}

func TestEnsemble_RegressionOracle(t *testing.T) {
	// GIVEN the long/conf0/cluster0 ensemble
	e, err := Lookup(ModelKey{Length: LengthLong})
	require.NoError(t, err)
	require.Equal(t, 10, e.Trees())
	require.Equal(t, 1.0, e.VoteThreshold)
	require.Equal(t, 5, e.Majority)

	// WHEN tree 0 scores a size-5 clause never used since creation
	rec := &Record{Len: 5, Statistics: Stats{
		SumDeltaConflUIP1Used: 0,
		GlueRelQueue:          0.9,
		DumpNumber:            2,
	}}
	v := NewValues(rec, Inputs{ActRankingTop10: 0})

	// THEN it reaches the 118.0/351.9 leaf
	assert.Equal(t, 118.0/351.9, e.Tree(0).Eval(&v))
}

func TestEnsemble_Deterministic(t *testing.T) {
	e, err := Lookup(ModelKey{Length: LengthLong})
	require.NoError(t, err)

	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 500; i++ {
		rec, in := randomRecord(rng)
		first := e.Decide(rec, in)
		for j := 0; j < 3; j++ {
			assert.Equal(t, first, e.Decide(rec, in))
		}
		assert.GreaterOrEqual(t, first.Votes, 0)
		assert.LessOrEqual(t, first.Votes, e.Trees())
		assert.Equal(t, first.Votes >= e.Majority, first.Keep)
	}
}

func TestEnsemble_ShouldKeep_DoesNotAllocate(t *testing.T) {
	e, err := Lookup(ModelKey{Length: LengthLong})
	require.NoError(t, err)
	rec, in := randomRecord(rand.New(rand.NewSource(1)))

	allocs := testing.AllocsPerRun(100, func() {
		e.ShouldKeep(rec, in)
	})
	assert.Zero(t, allocs)
}

func BenchmarkEnsemble_ShouldKeep(b *testing.B) {
	e, err := Lookup(ModelKey{Length: LengthLong})
	if err != nil {
		b.Fatal(err)
	}
	rng := rand.New(rand.NewSource(3))
	recs := make([]*Record, 256)
	ins := make([]Inputs, 256)
	for i := range recs {
		recs[i], ins[i] = randomRecord(rng)
	}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		e.ShouldKeep(recs[i%256], ins[i%256])
	}
}
