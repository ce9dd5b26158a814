package cmd

import (
	"testing"
	"time"

	"github.com/hayroll/cbench/internal/config"
	"github.com/hayroll/cbench/internal/metadata"
)

func testConfig() *config.Config {
	return &config.Config{
		CorpusDir: "CBench",
		Timeouts: config.Timeouts{
			BuildS:     30,
			TranspileS: 600,
			TestS:      30,
		},
		Perf:            config.Perf{Samples: 3},
		DiagnosticLines: 40,
	}
}

func TestRunnerOptsDefaults(t *testing.T) {
	prog := &metadata.Program{Name: "gzip"}
	opts := runnerOpts(testConfig(), metadata.Hints{}, prog)
	if opts.BuildTimeout != 30*time.Second {
		t.Errorf("expected build timeout 30s, got %s", opts.BuildTimeout)
	}
	if opts.TranspileTimeout != 600*time.Second {
		t.Errorf("expected transpile timeout 600s, got %s", opts.TranspileTimeout)
	}
	if opts.PerfSamples != 3 {
		t.Errorf("expected 3 perf samples, got %d", opts.PerfSamples)
	}
	if opts.TimeoutScale != 0 {
		t.Errorf("expected no timeout scaling, got %f", opts.TimeoutScale)
	}
}

func TestRunnerOptsAppliesHints(t *testing.T) {
	prog := &metadata.Program{Name: "bzip2"}
	hints := metadata.Hints{
		"bzip2": {TimeoutScale: 2.5, PerfSamples: 7, ExpectedOutput: "ok"},
	}
	opts := runnerOpts(testConfig(), hints, prog)
	if opts.TimeoutScale != 2.5 {
		t.Errorf("expected timeout scale 2.5, got %f", opts.TimeoutScale)
	}
	if opts.PerfSamples != 7 {
		t.Errorf("expected 7 perf samples, got %d", opts.PerfSamples)
	}
	if opts.ExpectedOutput != "ok" {
		t.Errorf("expected expected_output 'ok', got %q", opts.ExpectedOutput)
	}
}

func TestRunnerOptsIgnoresOtherPrograms(t *testing.T) {
	prog := &metadata.Program{Name: "gzip"}
	hints := metadata.Hints{
		"bzip2": {TimeoutScale: 2.5},
	}
	opts := runnerOpts(testConfig(), hints, prog)
	if opts.TimeoutScale != 0 {
		t.Errorf("hints for other programs must not leak, got scale %f", opts.TimeoutScale)
	}
}
