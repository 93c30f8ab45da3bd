package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/msoos/cryptominisat-sub002/retention"
)

var (
	explainID      uint64 // Clause to explain
	explainVerbose bool   // Print every comparison
	explainConfig  int    // Solver configuration axis
)

// explainCmd shows how each tree scored one clause
var explainCmd = &cobra.Command{
	Use:   "explain",
	Short: "Show per-tree scores and votes for one clause of a recorded round",
	RunE: func(cmd *cobra.Command, args []string) error {
		corpus, err := loadCorpus(corpusPath)
		if err != nil {
			return err
		}
		cand, err := corpus.find(explainID)
		if err != nil {
			return err
		}
		if err := cand.Validate(); err != nil {
			return err
		}
		e, err := retention.Lookup(retention.ModelKey{Length: cand.Tier, Config: explainConfig, Cluster: cand.Cluster})
		if err != nil {
			return err
		}

		in := cand.Inputs(corpus.SumConflicts)
		v := retention.NewValues(&cand.Clause, in)
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "clause %d, model %s\n", cand.ID, e.Key)
		if !cand.CheckConflictAge(corpus.SumConflicts) {
			fmt.Fprintf(out, "warning: introduced at conflict %d, after current conflict %d; clause age wrapped\n",
				cand.Clause.Statistics.IntroducedAtConflict, corpus.SumConflicts)
		}
		for i := 0; i < e.Trees(); i++ {
			steps, leaf := e.Tree(i).Path(&v)
			score := e.Tree(i).Node(leaf).Leaf
			vote := "evict"
			if score < e.VoteThreshold {
				vote = "keep"
			}
			fmt.Fprintf(out, "tree %d: leaf %d score %.6f after %d comparisons -> %s\n", i, leaf, score, len(steps), vote)
			if explainVerbose {
				for _, s := range steps {
					dir := ">"
					if s.WentLeft {
						dir = "<="
					}
					fmt.Fprintf(out, "    node %d: %s = %g %s %g\n", s.Node, s.Feature, s.Value, dir, s.Threshold)
				}
			}
		}
		d := e.Decide(&cand.Clause, in)
		outcome := "evict"
		if d.Keep {
			outcome = "keep"
		}
		fmt.Fprintf(out, "votes %d/%d (majority %d) -> %s\n", d.Votes, e.Trees(), e.Majority, outcome)
		return nil
	},
}

func init() {
	explainCmd.Flags().StringVarP(&corpusPath, "corpus", "f", "", "Recorded reduction round (YAML)")
	explainCmd.Flags().Uint64Var(&explainID, "id", 0, "ID of the clause to explain")
	explainCmd.Flags().IntVar(&explainConfig, "solver-config", 0, "Solver configuration variant (conf<N>)")
	explainCmd.Flags().BoolVarP(&explainVerbose, "verbose", "v", false, "Print every comparison")
	_ = explainCmd.MarkFlagRequired("corpus")
	_ = explainCmd.MarkFlagRequired("id")
}
