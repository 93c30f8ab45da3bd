package retention

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Score is a leaf value in a model table. Tables may write it either as a
// plain number or as a ratio "a/b" of trained counts; the ratio is evaluated
// as one float64 division so it matches the compiled constant a/b exactly.
type Score float64

// ParseScore parses "0.25" or "118.0/351.9".
func ParseScore(s string) (Score, error) {
	s = strings.TrimSpace(s)
	num, den, isRatio := strings.Cut(s, "/")
	if !isRatio {
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid score %q: %w", s, err)
		}
		return Score(f), nil
	}
	a, err := strconv.ParseFloat(strings.TrimSpace(num), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid score numerator in %q: %w", s, err)
	}
	b, err := strconv.ParseFloat(strings.TrimSpace(den), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid score denominator in %q: %w", s, err)
	}
	if b == 0 {
		return 0, fmt.Errorf("invalid score %q: zero denominator", s)
	}
	return Score(a / b), nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (s *Score) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: leaf score must be a scalar", value.Line)
	}
	v, err := ParseScore(value.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", value.Line, err)
	}
	*s = v
	return nil
}

// Table is the on-disk form of an Ensemble.
// All fields are listed so KnownFields(true) strict parsing rejects typos.
type Table struct {
	Key           ModelKey    `yaml:"key"`
	VoteThreshold *float64    `yaml:"vote_threshold"`
	Majority      *int        `yaml:"majority"`
	Trees         []TableTree `yaml:"trees"`
}

// TableTree lists a tree's nodes parent-first.
type TableTree struct {
	Nodes []TableNode `yaml:"nodes"`
}

// TableNode is either a split (feature, threshold, left, right) or a leaf.
type TableNode struct {
	ID        int      `yaml:"id"`
	Feature   string   `yaml:"feature,omitempty"`
	Threshold *float32 `yaml:"threshold,omitempty"`
	Left      *int32   `yaml:"left,omitempty"`
	Right     *int32   `yaml:"right,omitempty"`
	Leaf      *Score   `yaml:"leaf,omitempty"`
}

func (tn *TableNode) node() (Node, error) {
	isSplit := tn.Feature != "" || tn.Threshold != nil || tn.Left != nil || tn.Right != nil
	switch {
	case tn.Leaf != nil && isSplit:
		return Node{}, errors.New("node has both leaf and split fields")
	case tn.Leaf != nil:
		return LeafNode(float64(*tn.Leaf)), nil
	case tn.Feature == "" || tn.Threshold == nil || tn.Left == nil || tn.Right == nil:
		return Node{}, errors.New("split node needs feature, threshold, left and right")
	}
	f, err := ParseFeature(tn.Feature)
	if err != nil {
		return Node{}, err
	}
	return Split(f, *tn.Threshold, *tn.Left, *tn.Right), nil
}

// Build converts the table into a validated Ensemble.
func (t *Table) Build() (*Ensemble, error) {
	if t.VoteThreshold == nil {
		return nil, fmt.Errorf("model %s: missing vote_threshold", t.Key)
	}
	if t.Majority == nil {
		return nil, fmt.Errorf("model %s: missing majority", t.Key)
	}
	trees := make([]*Tree, 0, len(t.Trees))
	for ti, tt := range t.Trees {
		nodes := make([]Node, len(tt.Nodes))
		for i := range tt.Nodes {
			tn := &tt.Nodes[i]
			if tn.ID != i {
				return nil, fmt.Errorf("model %s tree %d: node at position %d has id %d", t.Key, ti, i, tn.ID)
			}
			n, err := tn.node()
			if err != nil {
				return nil, fmt.Errorf("model %s tree %d node %d: %w", t.Key, ti, i, err)
			}
			nodes[i] = n
		}
		tree, err := NewTree(nodes)
		if err != nil {
			return nil, fmt.Errorf("model %s tree %d: %w", t.Key, ti, err)
		}
		trees = append(trees, tree)
	}
	return NewEnsemble(t.Key, trees, *t.VoteThreshold, *t.Majority)
}

// DecodeTable parses a YAML model table with strict field checking and
// builds its Ensemble.
func DecodeTable(r io.Reader) (*Ensemble, error) {
	var t Table
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&t); err != nil {
		return nil, fmt.Errorf("parse model table: %w", err)
	}
	return t.Build()
}

// EncodeTable writes e in the table format DecodeTable reads. Leaves are
// written as plain numbers in their shortest round-trip form.
func EncodeTable(w io.Writer, e *Ensemble) error {
	vt, maj := e.VoteThreshold, e.Majority
	t := Table{Key: e.Key, VoteThreshold: &vt, Majority: &maj}
	for _, tree := range e.trees {
		tt := TableTree{Nodes: make([]TableNode, tree.Len())}
		for i := range tree.nodes {
			n := tree.nodes[i]
			tn := TableNode{ID: i}
			if n.IsLeaf() {
				s := Score(n.Leaf)
				tn.Leaf = &s
			} else {
				thr, l, r := n.Threshold, n.Left, n.Right
				tn.Feature, tn.Threshold, tn.Left, tn.Right = n.Feature.String(), &thr, &l, &r
			}
			tt.Nodes[i] = tn
		}
		t.Trees = append(t.Trees, tt)
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(&t); err != nil {
		return fmt.Errorf("encode model table %s: %w", e.Key, err)
	}
	return enc.Close()
}

// MarshalYAML writes a Score as its shortest float64 form.
func (s Score) MarshalYAML() (any, error) {
	f := float64(s)
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return nil, fmt.Errorf("score %v is not finite", f)
	}
	return strconv.FormatFloat(f, 'g', -1, 64), nil
}
