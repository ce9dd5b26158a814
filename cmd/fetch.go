package cmd

import (
	"fmt"

	"github.com/hayroll/cbench/internal/config"
	"github.com/hayroll/cbench/internal/fetch"
	"github.com/spf13/cobra"
)

var flagCorpusURL string

func newFetchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Download and unpack the benchmark corpus",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgFile)
			if err != nil {
				return err
			}
			url := cfg.Corpus.URL
			if flagCorpusURL != "" {
				url = flagCorpusURL
			}
			fmt.Printf("Fetching corpus into %s\n", cfg.CorpusDir)
			if err := fetch.Fetch(cmd.Context(), url, cfg.CorpusDir); err != nil {
				return err
			}
			fmt.Println("Done")
			return nil
		},
	}
	cmd.Flags().StringVar(&flagCorpusURL, "url", "", "corpus archive URL (overrides config)")
	return cmd
}
