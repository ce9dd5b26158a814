package cmd

import (
	"github.com/spf13/cobra"
)

var cfgFile string

func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "cbench",
		Short: "Benchmark harness for source-to-source transpilers",
	}
	root.PersistentFlags().StringVar(&cfgFile, "config", "cbench.yaml", "config file path")
	root.AddCommand(newRunCmd())
	root.AddCommand(newListCmd())
	root.AddCommand(newAnalyzeCmd())
	root.AddCommand(newAggregateCmd())
	root.AddCommand(newTableCmd())
	root.AddCommand(newFetchCmd())
	root.AddCommand(newFilterCmd())
	return root
}
