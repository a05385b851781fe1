package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/swarmourr/pegasus-sub001/internal/keywords"
)

var keywordsCmd = &cobra.Command{
	Use:       "keywords [workflow|replica]",
	Short:     "List the reserved keywords of the workflow and replica catalog schemas",
	Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{"workflow", "replica"},
	RunE: func(cmd *cobra.Command, args []string) error {
		schema := "workflow"
		if len(args) == 1 {
			schema = args[0]
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tTOKEN")
		if schema == "replica" {
			for _, k := range keywords.ReplicaKeywords() {
				fmt.Fprintf(w, "%d\t%s\n", int(k), k.ReservedName())
			}
		} else {
			for _, k := range keywords.WorkflowKeywords() {
				fmt.Fprintf(w, "%d\t%s\n", int(k), k.ReservedName())
			}
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(keywordsCmd)
}
