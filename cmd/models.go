package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/msoos/cryptominisat-sub002/retention"
)

var dumpModel string // Model key to print as a YAML table

// modelsCmd lists the compiled-in ensembles
var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List the compiled-in retention ensembles",
	RunE: func(cmd *cobra.Command, args []string) error {
		if dumpModel != "" {
			key, err := retention.ParseModelKey(dumpModel)
			if err != nil {
				return err
			}
			e, err := retention.Lookup(key)
			if err != nil {
				return err
			}
			return retention.EncodeTable(cmd.OutOrStdout(), e)
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "MODEL\tTREES\tNODES\tLEAVES\tMAX DEPTH\tVOTE THRESHOLD\tMAJORITY")
		for _, key := range retention.Keys() {
			e, err := retention.Lookup(key)
			if err != nil {
				return err
			}
			nodes, leaves := 0, 0
			for i := 0; i < e.Trees(); i++ {
				nodes += e.Tree(i).Len()
				leaves += e.Tree(i).Leaves()
			}
			fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%d\t%g\t%d\n",
				key, e.Trees(), nodes, leaves, e.MaxDepth(), e.VoteThreshold, e.Majority)
		}
		return w.Flush()
	},
}

func init() {
	modelsCmd.Flags().StringVar(&dumpModel, "dump", "", "Print the named model (e.g. long/conf0/cluster0) as a YAML table")
}
