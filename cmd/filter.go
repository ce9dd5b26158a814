package cmd

import (
	"fmt"

	"github.com/hayroll/cbench/internal/config"
	"github.com/hayroll/cbench/internal/metadata"
	"github.com/hayroll/cbench/internal/result"
	"github.com/spf13/cobra"
)

var flagFilterOutput string

func newFilterCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "filter <collection>",
		Short: "Write a metadata catalog keeping only passing programs",
		Long:  "Read a run collection and write a filtered copy of the metadata catalog containing only the programs that passed, for use in follow-up runs.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgFile)
			if err != nil {
				return err
			}
			store, err := metadata.Load(cfg.Metadata)
			if err != nil {
				return err
			}
			collection, err := result.ReadCollection(args[0])
			if err != nil {
				return err
			}

			passed := map[string]bool{}
			for _, rec := range collection.Records {
				if rec.Outcome == result.OutcomePassed {
					passed[rec.Program] = true
				}
			}

			filtered := &metadata.Store{}
			for _, p := range store.Programs {
				if passed[p.Name] {
					filtered.Programs = append(filtered.Programs, p)
				}
			}
			if err := filtered.Save(flagFilterOutput); err != nil {
				return err
			}
			removed := len(store.Programs) - len(filtered.Programs)
			fmt.Printf("Removed %d failing program(s), wrote %s\n", removed, flagFilterOutput)
			return nil
		},
	}
	cmd.Flags().StringVar(&flagFilterOutput, "output", "metadata-filtered.json", "filtered metadata output path")
	return cmd
}
