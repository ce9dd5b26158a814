package cmd

import (
	"fmt"
	"os"

	"github.com/hayroll/cbench/internal/aggregate"
	"github.com/hayroll/cbench/internal/tables"
	"github.com/spf13/cobra"
)

var (
	flagTableFormat string
	flagTableOutput string
)

func newTableCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "table",
		Short: "Render comparison tables from aggregated output",
	}
	cmd.PersistentFlags().StringVar(&flagTableFormat, "format", "table", "output format (table, markdown, csv, json)")
	cmd.PersistentFlags().StringVar(&flagTableOutput, "output", "", "output file path (default depends on table kind)")
	cmd.AddCommand(newOutcomeTableCmd())
	cmd.AddCommand(newPerformanceTableCmd())
	return cmd
}

func newOutcomeTableCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "outcomes <statistics-file>",
		Short: "Render the per-variant outcome table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			stats, err := aggregate.ReadStats(args[0])
			if err != nil {
				return err
			}
			return renderToFile("outcome_table.txt", func(w *os.File) error {
				return tables.Outcomes(stats, flagTableFormat, w)
			})
		},
	}
}

func newPerformanceTableCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "performance <performance-file>",
		Short: "Render the per-program performance table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			perf, err := aggregate.ReadPerf(args[0])
			if err != nil {
				return err
			}
			return renderToFile("performance_table.txt", func(w *os.File) error {
				return tables.Performance(perf, flagTableFormat, w)
			})
		},
	}
}

func renderToFile(defaultName string, render func(*os.File) error) error {
	path := flagTableOutput
	if path == "" {
		path = defaultName
	}
	if path == "-" {
		return render(os.Stdout)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}
	if err := render(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("writing output file: %w", err)
	}
	fmt.Printf("Wrote %s\n", path)
	return nil
}
