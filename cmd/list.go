package cmd

import (
	"fmt"

	"github.com/hayroll/cbench/internal/config"
	"github.com/hayroll/cbench/internal/metadata"
	"github.com/spf13/cobra"
)

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List catalog programs",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgFile)
			if err != nil {
				return err
			}
			store, err := metadata.Load(cfg.Metadata)
			if err != nil {
				return err
			}
			fmt.Printf("Programs (%d):\n", len(store.Programs))
			for _, p := range store.Programs {
				marker := ""
				if p.Exclude {
					marker = " [excluded]"
				} else if p.Perf {
					marker = " [perf]"
				}
				fmt.Printf("  - %s (%s)%s\n", p.Name, p.Path, marker)
			}
			return nil
		},
	}
}
