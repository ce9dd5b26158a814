package cmd

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/hayroll/cbench/internal/analyze"
	"github.com/hayroll/cbench/internal/config"
	"github.com/hayroll/cbench/internal/result"
	"github.com/spf13/cobra"
)

func newAnalyzeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "analyze [run-dir]",
		Short: "Summarize a stored run collection",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgFile)
			if err != nil {
				return err
			}
			runDir := filepath.Join(cfg.Results.Dir, "latest")
			if len(args) > 0 {
				runDir = args[0]
			}
			resolved, err := filepath.EvalSymlinks(runDir)
			if err != nil {
				return fmt.Errorf("resolving run dir: %w", err)
			}

			collection, err := result.ReadCollection(result.CollectionPath(resolved))
			if err != nil {
				return err
			}
			if !collection.Complete {
				log.Printf("warning: run %s is incomplete, summary covers partial results", resolved)
			}

			summary := analyze.Summarize(collection)
			if err := analyze.WriteSummary(resolved, summary); err != nil {
				return err
			}
			printSummary(summary, os.Stdout)
			return nil
		},
	}
}

func printSummary(s *analyze.Summary, w io.Writer) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "Variant: %s\tPrograms: %d\tPass rate: %.0f%%\n", s.Variant, s.Total, s.PassRate*100)
	fmt.Fprintln(tw, strings.Repeat("-", 60))
	fmt.Fprintln(tw, "OUTCOME\tCOUNT\tPROGRAMS")
	for _, cat := range result.Outcomes {
		if s.Counts[cat] == 0 {
			continue
		}
		fmt.Fprintf(tw, "%s\t%d\t%s\n", cat, s.Counts[cat], strings.Join(s.Programs[cat], " "))
	}
	tw.Flush()
}
