package cmd

import (
	"fmt"
	"log"
	"path/filepath"

	"github.com/hayroll/cbench/internal/aggregate"
	"github.com/hayroll/cbench/internal/result"
	"github.com/spf13/cobra"
)

var flagOutputDir string

func newAggregateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "aggregate <collection>...",
		Short: "Merge run collections across toolchain variants",
		Long:  "Merge two or more run collection files into corpus-level statistics and performance deltas. The first file is the baseline variant.",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var collections []*result.Collection
			for _, path := range args {
				c, err := result.ReadCollection(path)
				if err != nil {
					return err
				}
				if !c.Complete {
					log.Printf("warning: %s is an incomplete run, aggregating partial results", path)
				}
				collections = append(collections, c)
			}

			stats, err := aggregate.Statistics(collections)
			if err != nil {
				return err
			}
			statsPath := filepath.Join(flagOutputDir, aggregate.StatsFile)
			if err := aggregate.WriteStats(statsPath, stats); err != nil {
				return err
			}
			fmt.Printf("Wrote %s\n", statsPath)

			perf, err := aggregate.Performance(collections)
			if err != nil {
				return err
			}
			perfPath := filepath.Join(flagOutputDir, aggregate.PerfFile)
			if err := aggregate.WritePerf(perfPath, perf); err != nil {
				return err
			}
			fmt.Printf("Wrote %s (%d programs passed in all %d variants)\n",
				perfPath, len(perf.Programs), len(perf.Variants))
			return nil
		},
	}
	cmd.Flags().StringVar(&flagOutputDir, "output-dir", ".", "directory for aggregated output files")
	return cmd
}
