package cmd

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/msoos/cryptominisat-sub002/reduce"
)

// Corpus is a recorded reduction round: the conflict counter at the time of
// the round and every candidate clause offered to it.
type Corpus struct {
	SumConflicts uint64             `yaml:"sum_conflicts"`
	Clauses      []reduce.Candidate `yaml:"clauses"`
}

// loadCorpus parses a corpus file with strict field checking.
func loadCorpus(path string) (*Corpus, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading corpus: %w", err)
	}
	var c Corpus
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil {
		return nil, fmt.Errorf("parsing corpus %s: %w", path, err)
	}
	return &c, nil
}

// find returns the candidate with the given ID.
func (c *Corpus) find(id uint64) (*reduce.Candidate, error) {
	for i := range c.Clauses {
		if c.Clauses[i].ID == id {
			return &c.Clauses[i], nil
		}
	}
	return nil, fmt.Errorf("clause %d not in corpus", id)
}
