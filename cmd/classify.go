package cmd

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/msoos/cryptominisat-sub002/reduce"
	"github.com/msoos/cryptominisat-sub002/reduce/trace"
)

var (
	corpusPath string // Recorded reduction round
	configPath string // Optional sweep configuration YAML
	workers    int    // Worker override
	showTrace  bool   // Print the round summary
)

// classifyCmd replays a recorded reduction round
var classifyCmd = &cobra.Command{
	Use:   "classify",
	Short: "Classify every clause of a recorded reduction round",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := reduce.DefaultConfig()
		if configPath != "" {
			var err error
			if cfg, err = reduce.LoadConfig(configPath); err != nil {
				return err
			}
		}
		if cmd.Flags().Changed("workers") {
			cfg.Workers = workers
		}
		if showTrace {
			cfg.TraceLevel = trace.LevelDecisions
		}

		corpus, err := loadCorpus(corpusPath)
		if err != nil {
			return err
		}
		sweeper, err := reduce.NewSweeper(cfg)
		if err != nil {
			return err
		}
		logrus.Infof("Classifying %d clauses at conflict %d with %d workers",
			len(corpus.Clauses), corpus.SumConflicts, cfg.Workers)

		plan, err := sweeper.Sweep(cmd.Context(), corpus.SumConflicts, corpus.Clauses)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		for _, d := range plan.Decisions {
			fmt.Fprintf(out, "%d\t%s\t%d\t%s\n", d.ID, d.Model, d.Votes, d.Outcome)
		}
		if plan.Trace != nil {
			printSummary(cmd, trace.Summarize(plan.Trace))
		}
		return nil
	},
}

func printSummary(cmd *cobra.Command, s *trace.Summary) {
	w := cmd.ErrOrStderr()
	fmt.Fprintf(w, "\n")
	fmt.Fprintf(w, "Decisions:     %d\n", s.TotalDecisions)
	fmt.Fprintf(w, "Kept:          %d\n", s.KeptCount)
	fmt.Fprintf(w, "Evicted:       %d\n", s.EvictedCount)
	fmt.Fprintf(w, "Rejected:      %d\n", s.RejectedCount)
	fmt.Fprintf(w, "Age wrapped:   %d\n", s.AgeWrappedCount)
	fmt.Fprintf(w, "Mean votes:    %.2f\n", s.MeanVotes)
	for votes := 0; votes <= 10; votes++ {
		if n := s.VoteHistogram[votes]; n > 0 {
			fmt.Fprintf(w, "  %2d votes:    %d\n", votes, n)
		}
	}
}

func init() {
	classifyCmd.Flags().StringVarP(&corpusPath, "corpus", "f", "", "Recorded reduction round (YAML)")
	classifyCmd.Flags().StringVar(&configPath, "config", "", "Sweep configuration (YAML)")
	classifyCmd.Flags().IntVar(&workers, "workers", 1, "Number of classification workers (overrides config)")
	classifyCmd.Flags().BoolVar(&showTrace, "trace", false, "Print a summary of the round's decisions")
	_ = classifyCmd.MarkFlagRequired("corpus")
}
