package retention

import (
	"errors"
	"fmt"
	"math"
)

// Node is one entry of a tree arena. Internal nodes send a clause to Left
// when its selected feature is <= Threshold and to Right otherwise. A node
// with Left < 0 is a leaf and carries the trained score in Leaf.
type Node struct {
	Feature   Feature
	Threshold float32
	Left      int32
	Right     int32
	Leaf      float64
}

// Split returns an internal node.
func Split(f Feature, threshold float32, left, right int32) Node {
	return Node{Feature: f, Threshold: threshold, Left: left, Right: right}
}

// LeafNode returns a leaf holding score.
func LeafNode(score float64) Node {
	return Node{Left: -1, Right: -1, Leaf: score}
}

// IsLeaf reports whether n terminates a traversal.
func (n *Node) IsLeaf() bool { return n.Left < 0 }

// Tree is an immutable decision tree stored as a node arena rooted at index 0.
type Tree struct {
	nodes  []Node
	depth  int
	leaves int
}

var errEmptyTree = errors.New("tree has no nodes")

// NewTree validates nodes and builds a Tree. Children must be listed after
// their parent and every node other than the root must be the child of
// exactly one node, which makes the arena a finite rooted tree.
func NewTree(nodes []Node) (*Tree, error) {
	if len(nodes) == 0 {
		return nil, errEmptyTree
	}
	n := int32(len(nodes))
	parents := make([]int32, n)
	leaves := 0
	for i := range nodes {
		nd := &nodes[i]
		if nd.IsLeaf() {
			if math.IsNaN(nd.Leaf) || math.IsInf(nd.Leaf, 0) || nd.Leaf < 0 {
				return nil, fmt.Errorf("node %d: leaf score must be finite and non-negative, got %v", i, nd.Leaf)
			}
			leaves++
			continue
		}
		if nd.Feature >= NumFeatures {
			return nil, fmt.Errorf("node %d: unknown feature %d", i, nd.Feature)
		}
		thr := float64(nd.Threshold)
		if math.IsNaN(thr) || math.IsInf(thr, 0) {
			return nil, fmt.Errorf("node %d: threshold must be finite, got %v", i, nd.Threshold)
		}
		for _, child := range [2]int32{nd.Left, nd.Right} {
			if child <= int32(i) || child >= n {
				return nil, fmt.Errorf("node %d: child %d must lie in (%d, %d)", i, child, i, n)
			}
			parents[child]++
		}
		if nd.Left == nd.Right {
			return nil, fmt.Errorf("node %d: left and right child are both %d", i, nd.Left)
		}
	}
	for i := int32(1); i < n; i++ {
		if parents[i] != 1 {
			return nil, fmt.Errorf("node %d: referenced by %d parents, want 1", i, parents[i])
		}
	}

	// Children come after parents, so one backwards pass sees every subtree
	// before its root.
	depths := make([]int, n)
	for i := n - 1; i >= 0; i-- {
		nd := &nodes[i]
		if nd.IsLeaf() {
			continue
		}
		depths[i] = 1 + max(depths[nd.Left], depths[nd.Right])
	}

	owned := make([]Node, n)
	copy(owned, nodes)
	return &Tree{nodes: owned, depth: depths[0], leaves: leaves}, nil
}

// Depth is the largest number of comparisons any traversal performs.
func (t *Tree) Depth() int { return t.depth }

// Len is the number of nodes in the arena.
func (t *Tree) Len() int { return len(t.nodes) }

// Leaves is the number of leaf nodes.
func (t *Tree) Leaves() int { return t.leaves }

// Node returns a copy of the i'th arena entry.
func (t *Tree) Node(i int) Node { return t.nodes[i] }

// Eval walks the tree for one feature row and returns the leaf score.
func (t *Tree) Eval(v *Values) float64 {
	score, _ := t.Walk(v)
	return score
}

// Walk is Eval that also reports how many comparisons the traversal made.
func (t *Tree) Walk(v *Values) (score float64, comparisons int) {
	nodes := t.nodes
	i := int32(0)
	for {
		nd := &nodes[i]
		if nd.IsLeaf() {
			return nd.Leaf, comparisons
		}
		comparisons++
		if v[nd.Feature] <= float64(nd.Threshold) {
			i = nd.Left
		} else {
			i = nd.Right
		}
	}
}

// Step records one comparison of a traversal.
type Step struct {
	Node      int
	Feature   Feature
	Value     float64
	Threshold float32
	WentLeft  bool
}

// Path returns the comparisons a traversal makes and the leaf it reaches.
// Unlike Eval it allocates; it exists for diagnostics.
func (t *Tree) Path(v *Values) (steps []Step, leaf int) {
	steps = make([]Step, 0, t.depth)
	i := int32(0)
	for {
		nd := &t.nodes[i]
		if nd.IsLeaf() {
			return steps, int(i)
		}
		val := v[nd.Feature]
		left := val <= float64(nd.Threshold)
		steps = append(steps, Step{Node: int(i), Feature: nd.Feature, Value: val, Threshold: nd.Threshold, WentLeft: left})
		if left {
			i = nd.Left
		} else {
			i = nd.Right
		}
	}
}
