package retention

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stump returns a one-split tree on glue: glue <= 4.5 scores lo, else hi.
func stump(t *testing.T, lo, hi float64) *Tree {
	t.Helper()
	tree, err := NewTree([]Node{
		Split(FeatureGlue, 4.5, 1, 2),
		LeafNode(lo),
		LeafNode(hi),
	})
	require.NoError(t, err)
	return tree
}

func TestNewTree_Valid(t *testing.T) {
	tree, err := NewTree([]Node{
		Split(FeatureSize, 10.5, 1, 4),
		Split(FeatureGlue, 3.5, 2, 3),
		LeafNode(0.2),
		LeafNode(0.9),
		LeafNode(1.7),
	})
	require.NoError(t, err)
	assert.Equal(t, 2, tree.Depth())
	assert.Equal(t, 5, tree.Len())
	assert.Equal(t, 3, tree.Leaves())
}

func TestNewTree_SingleLeaf(t *testing.T) {
	tree, err := NewTree([]Node{LeafNode(0.5)})
	require.NoError(t, err)
	assert.Equal(t, 0, tree.Depth())

	var v Values
	score, comparisons := tree.Walk(&v)
	assert.Equal(t, 0.5, score)
	assert.Equal(t, 0, comparisons)
}

func TestNewTree_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		nodes []Node
	}{
		{"empty", nil},
		{"child before parent", []Node{LeafNode(1), Split(FeatureGlue, 1, 0, 2), LeafNode(1)}},
		{"self loop", []Node{Split(FeatureGlue, 1, 0, 1), LeafNode(1)}},
		{"child out of range", []Node{Split(FeatureGlue, 1, 1, 3), LeafNode(1), LeafNode(1)}},
		{"same child twice", []Node{Split(FeatureGlue, 1, 1, 1), LeafNode(1)}},
		{"shared subtree", []Node{
			Split(FeatureGlue, 1, 1, 2),
			Split(FeatureSize, 1, 3, 4),
			Split(FeatureSize, 2, 3, 4),
			LeafNode(1), LeafNode(2),
		}},
		{"unreachable node", []Node{Split(FeatureGlue, 1, 1, 2), LeafNode(1), LeafNode(2), LeafNode(3)}},
		{"unknown feature", []Node{Split(NumFeatures, 1, 1, 2), LeafNode(1), LeafNode(2)}},
		{"NaN threshold", []Node{Split(FeatureGlue, float32(math.NaN()), 1, 2), LeafNode(1), LeafNode(2)}},
		{"negative leaf", []Node{LeafNode(-0.5)}},
		{"infinite leaf", []Node{LeafNode(math.Inf(1))}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewTree(tt.nodes)
			assert.Error(t, err)
		})
	}
}

func TestNewTree_CopiesNodes(t *testing.T) {
	nodes := []Node{LeafNode(0.5)}
	tree, err := NewTree(nodes)
	require.NoError(t, err)

	nodes[0].Leaf = 9
	assert.Equal(t, 0.5, tree.Node(0).Leaf)
}

func TestTree_Eval_TieGoesLeft(t *testing.T) {
	// GIVEN a split on a threshold a float64 feature can hit exactly
	tree, err := NewTree([]Node{
		Split(FeatureRdb0AvgConfl, 0.25, 1, 2),
		LeafNode(0.1),
		LeafNode(3.0),
	})
	require.NoError(t, err)

	// WHEN the feature equals the threshold
	var v Values
	v[FeatureRdb0AvgConfl] = 0.25

	// THEN the left child is taken
	assert.Equal(t, 0.1, tree.Eval(&v))

	v[FeatureRdb0AvgConfl] = math.Nextafter(0.25, 1)
	assert.Equal(t, 3.0, tree.Eval(&v))
}

func TestTree_Eval_SinglePrecisionThreshold(t *testing.T) {
	// 0.1 is not representable: the float32 literal 0.1f is slightly larger
	// than the float64 0.1, so a double feature equal to 0.1 goes left.
	tree, err := NewTree([]Node{
		Split(FeatureRdb0UsedPerConfl, 0.1, 1, 2),
		LeafNode(0.1),
		LeafNode(3.0),
	})
	require.NoError(t, err)

	var v Values
	v[FeatureRdb0UsedPerConfl] = 0.1
	assert.Equal(t, 0.1, tree.Eval(&v))

	v[FeatureRdb0UsedPerConfl] = float64(float32(0.1))
	assert.Equal(t, 0.1, tree.Eval(&v))

	v[FeatureRdb0UsedPerConfl] = math.Nextafter(float64(float32(0.1)), 1)
	assert.Equal(t, 3.0, tree.Eval(&v))
}

func TestTree_Path_MatchesEval(t *testing.T) {
	tree, err := NewTree([]Node{
		Split(FeatureSize, 10.5, 1, 4),
		Split(FeatureGlue, 3.5, 2, 3),
		LeafNode(0.2),
		LeafNode(0.9),
		LeafNode(1.7),
	})
	require.NoError(t, err)

	rec := &Record{Len: 8, Statistics: Stats{Glue: 5}}
	v := NewValues(rec, Inputs{})

	steps, leaf := tree.Path(&v)
	require.Len(t, steps, 2)
	assert.True(t, steps[0].WentLeft)
	assert.Equal(t, FeatureSize, steps[0].Feature)
	assert.False(t, steps[1].WentLeft)
	assert.Equal(t, 3, leaf)
	assert.Equal(t, tree.Node(leaf).Leaf, tree.Eval(&v))
}

// randomRecord draws statistics across and beyond the trained ranges.
func randomRecord(rng *rand.Rand) (*Record, Inputs) {
	f := func(hi float64) float32 { return float32(rng.Float64() * hi) }
	rec := &Record{Len: uint32(rng.Intn(500) + 1), Statistics: Stats{
		Glue:                       uint32(rng.Intn(60)),
		GlueRelQueue:               f(4),
		GlueRelLong:                f(4),
		SizeRel:                    f(5),
		UsedForUIPCreation:         uint32(rng.Intn(80)),
		Rdb1UsedForUIPCreation:     uint32(rng.Intn(80)),
		SumUIP1Used:                uint32(rng.Intn(300)),
		SumDeltaConflUIP1Used:      uint64(rng.Intn(200_000)),
		IntroducedAtConflict:       uint64(rng.Intn(2_000_000)),
		DumpNumber:                 uint32(rng.Intn(30)),
		Rdb1LastTouchedDiff:        uint32(rng.Intn(120_000)),
		NumTotalLitsAntecedents:    uint32(rng.Intn(4000)),
		AntecNumTotalLitsRel:       f(5),
		NumAntecedentsRel:          f(5),
		AntecedentsGlueLongRedsVar: f(60),
		NumOverlapLiterals:         uint32(rng.Intn(400)),
		NumOverlapLiteralsRel:      f(5),
	}}
	in := Inputs{
		SumConflicts:    uint64(rng.Intn(3_000_000)),
		LastTouchedDiff: uint32(rng.Intn(120_000)),
		ActRanking:      uint32(rng.Intn(80_000)),
		ActRankingTop10: uint32(rng.Intn(11)),
	}
	return rec, in
}

func TestTree_Walk_NeverExceedsDepth(t *testing.T) {
	// GIVEN the compiled-in ensemble and many random clauses
	e, err := Lookup(ModelKey{Length: LengthLong, Config: 0, Cluster: 0})
	require.NoError(t, err)
	const ceiling = 30
	require.LessOrEqual(t, e.MaxDepth(), ceiling)

	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 5000; i++ {
		rec, in := randomRecord(rng)
		v := NewValues(rec, in)
		for ti := 0; ti < e.Trees(); ti++ {
			// WHEN each tree is walked
			score, comparisons := e.Tree(ti).Walk(&v)

			// THEN the walk stops within the tree's recorded depth at a valid leaf
			if comparisons > e.Tree(ti).Depth() {
				t.Fatalf("tree %d: %d comparisons exceeds depth %d", ti, comparisons, e.Tree(ti).Depth())
			}
			if score < 0 || math.IsNaN(score) || math.IsInf(score, 0) {
				t.Fatalf("tree %d: invalid score %v", ti, score)
			}
		}
	}
}
