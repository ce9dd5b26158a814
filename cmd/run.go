package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hayroll/cbench/internal/analyze"
	"github.com/hayroll/cbench/internal/config"
	"github.com/hayroll/cbench/internal/metadata"
	"github.com/hayroll/cbench/internal/result"
	"github.com/hayroll/cbench/internal/runner"
	"github.com/spf13/cobra"
)

var (
	flagProgram  string
	flagVariant  string
	flagParallel int
)

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Execute a benchmark run over the corpus",
		RunE:  runBenchmark,
	}
	cmd.Flags().StringVar(&flagProgram, "program", "", "filter to a single program")
	cmd.Flags().StringVar(&flagVariant, "variant", "", "override the variant label")
	cmd.Flags().IntVar(&flagParallel, "parallel", 0, "max concurrent programs")
	return cmd
}

func runBenchmark(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}
	if flagVariant != "" {
		cfg.Variant = flagVariant
	}
	if flagParallel > 0 {
		cfg.Parallel = flagParallel
	}

	store, err := metadata.Load(cfg.Metadata)
	if err != nil {
		return err
	}
	hints, err := metadata.LoadHints(cfg.Hints)
	if err != nil {
		log.Printf("warning: ignoring hints: %v", err)
		hints = metadata.Hints{}
	}
	store.ApplyHints(hints)

	if flagProgram != "" {
		store = store.Filter(flagProgram)
		if len(store.Programs) == 0 {
			return fmt.Errorf("program %q not found in metadata", flagProgram)
		}
	}

	runDir, err := result.CreateRunDir(cfg.Results.Dir)
	if err != nil {
		return err
	}
	fmt.Printf("Run directory: %s\n", runDir)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	collection := &result.Collection{
		Variant:   cfg.Variant,
		Toolchain: cfg.Toolchain,
		StartedAt: time.Now().UTC(),
	}
	total := len(store.Programs)

	if cfg.Parallel > 1 {
		var jobs []runner.Job
		for i := range store.Programs {
			prog := &store.Programs[i]
			jobs = append(jobs, func() *result.Record {
				if ctx.Err() != nil {
					return nil
				}
				fmt.Printf("Running %s...\n", prog.Name)
				rec := runner.RunProgram(ctx, prog, runnerOpts(cfg, hints, prog))
				fmt.Printf("  %s: %s\n", prog.Name, rec.Outcome)
				return rec
			})
		}
		collection.Records = runner.RunPool(cfg.Parallel, jobs)
	} else {
		for i := range store.Programs {
			if ctx.Err() != nil {
				break
			}
			prog := &store.Programs[i]
			fmt.Printf("Running %s (%d/%d)...\n", prog.Name, i+1, total)
			rec := runner.RunProgram(ctx, prog, runnerOpts(cfg, hints, prog))
			fmt.Printf("  %s\n", rec.Outcome)
			collection.Records = append(collection.Records, *rec)
		}
	}

	collection.FinishedAt = time.Now().UTC()
	collection.Complete = ctx.Err() == nil

	if err := result.WriteCollection(runDir, collection); err != nil {
		return err
	}
	if !collection.Complete {
		return fmt.Errorf("run interrupted; partial results in %s", runDir)
	}

	summary := analyze.Summarize(collection)
	if err := analyze.WriteSummary(runDir, summary); err != nil {
		return err
	}

	fmt.Println("\n--- Results ---")
	printSummary(summary, os.Stdout)
	return nil
}

func runnerOpts(cfg *config.Config, hints metadata.Hints, prog *metadata.Program) *runner.Opts {
	opts := &runner.Opts{
		CorpusDir:        cfg.CorpusDir,
		BuildTimeout:     time.Duration(cfg.Timeouts.BuildS) * time.Second,
		TranspileTimeout: time.Duration(cfg.Timeouts.TranspileS) * time.Second,
		TestTimeout:      time.Duration(cfg.Timeouts.TestS) * time.Second,
		DiagnosticLines:  cfg.DiagnosticLines,
		PerfSamples:      cfg.Perf.Samples,
	}
	if h, ok := hints[prog.Name]; ok {
		if h.TimeoutScale > 0 {
			opts.TimeoutScale = h.TimeoutScale
		}
		if h.PerfSamples > 0 {
			opts.PerfSamples = h.PerfSamples
		}
		opts.ExpectedOutput = h.ExpectedOutput
	}
	return opts
}
