package runner_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/hayroll/cbench/internal/metadata"
	"github.com/hayroll/cbench/internal/result"
	"github.com/hayroll/cbench/internal/runner"
)

func corpusWithProgram(t *testing.T, name string) string {
	t.Helper()
	corpus := t.TempDir()
	dir := filepath.Join(corpus, name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "main.c"), []byte("int main(void){return 0;}\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	return corpus
}

func testOpts(corpus string) *runner.Opts {
	return &runner.Opts{
		CorpusDir:        corpus,
		BuildTimeout:     10 * time.Second,
		TranspileTimeout: 10 * time.Second,
		TestTimeout:      10 * time.Second,
		DiagnosticLines:  10,
		PerfSamples:      2,
	}
}

func demoProgram() *metadata.Program {
	return &metadata.Program{
		Name:               "demo",
		Path:               "demo",
		BuildCmd:           "true",
		TranspileCmd:       "true",
		TranspiledBuildCmd: "true",
		TestCmd:            "echo ok",
	}
}

func TestRunProgramPassed(t *testing.T) {
	corpus := corpusWithProgram(t, "demo")
	rec := runner.RunProgram(context.Background(), demoProgram(), testOpts(corpus))
	if rec.Outcome != result.OutcomePassed {
		t.Fatalf("expected passed, got %s (%s)", rec.Outcome, rec.Diagnostic)
	}
	if rec.Program != "demo" {
		t.Errorf("expected program 'demo', got %q", rec.Program)
	}
	if rec.Stages.TestS <= 0 {
		t.Errorf("expected a positive test duration, got %f", rec.Stages.TestS)
	}
}

func TestRunProgramStageFailures(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*metadata.Program)
		outcome string
	}{
		{"build", func(p *metadata.Program) { p.BuildCmd = "false" }, result.OutcomeBuildFailed},
		{"transpile", func(p *metadata.Program) { p.TranspileCmd = "echo boom >&2; false" }, result.OutcomeTranspileFailed},
		{"transpiled build", func(p *metadata.Program) { p.TranspiledBuildCmd = "false" }, result.OutcomeTranspiledBuildFailed},
		{"test", func(p *metadata.Program) { p.TestCmd = "false" }, result.OutcomeTestFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			corpus := corpusWithProgram(t, "demo")
			prog := demoProgram()
			tt.mutate(prog)
			rec := runner.RunProgram(context.Background(), prog, testOpts(corpus))
			if rec.Outcome != tt.outcome {
				t.Errorf("expected %s, got %s", tt.outcome, rec.Outcome)
			}
		})
	}
}

func TestRunProgramCapturesDiagnostic(t *testing.T) {
	corpus := corpusWithProgram(t, "demo")
	prog := demoProgram()
	prog.TranspileCmd = "echo boom >&2; false"
	rec := runner.RunProgram(context.Background(), prog, testOpts(corpus))
	if !strings.Contains(rec.Diagnostic, "boom") {
		t.Errorf("expected diagnostic to contain stderr tail, got %q", rec.Diagnostic)
	}
}

func TestRunProgramExcluded(t *testing.T) {
	corpus := corpusWithProgram(t, "demo")
	prog := demoProgram()
	prog.Exclude = true
	rec := runner.RunProgram(context.Background(), prog, testOpts(corpus))
	if rec.Outcome != result.OutcomeSkipped {
		t.Errorf("expected skipped, got %s", rec.Outcome)
	}
	if rec.Stages != (result.StageDurations{}) {
		t.Errorf("expected zero durations for a skipped program, got %+v", rec.Stages)
	}
}

func TestRunProgramTestTimeout(t *testing.T) {
	corpus := corpusWithProgram(t, "demo")
	prog := demoProgram()
	prog.TestCmd = "sleep 5"
	opts := testOpts(corpus)
	opts.TestTimeout = 100 * time.Millisecond
	rec := runner.RunProgram(context.Background(), prog, opts)
	if rec.Outcome != result.OutcomeTimeout {
		t.Errorf("expected timeout, got %s", rec.Outcome)
	}
}

func TestRunProgramBuildTimeout(t *testing.T) {
	corpus := corpusWithProgram(t, "demo")
	prog := demoProgram()
	prog.BuildCmd = "sleep 5"
	opts := testOpts(corpus)
	opts.BuildTimeout = 100 * time.Millisecond
	rec := runner.RunProgram(context.Background(), prog, opts)
	if rec.Outcome != result.OutcomeBuildFailed {
		t.Errorf("expected build_failed, got %s", rec.Outcome)
	}
	if !strings.Contains(rec.Diagnostic, "timed out") {
		t.Errorf("expected a timeout diagnostic, got %q", rec.Diagnostic)
	}
}

func TestRunProgramExpectedOutput(t *testing.T) {
	corpus := corpusWithProgram(t, "demo")
	prog := demoProgram()
	prog.TestCmd = "echo hello"

	opts := testOpts(corpus)
	opts.ExpectedOutput = "hello"
	rec := runner.RunProgram(context.Background(), prog, opts)
	if rec.Outcome != result.OutcomePassed {
		t.Errorf("expected passed on matching output, got %s", rec.Outcome)
	}

	opts.ExpectedOutput = "goodbye"
	rec = runner.RunProgram(context.Background(), prog, opts)
	if rec.Outcome != result.OutcomeTestFailed {
		t.Errorf("expected test_failed on output mismatch, got %s", rec.Outcome)
	}
}

func TestRunProgramMissingSource(t *testing.T) {
	corpus := t.TempDir()
	rec := runner.RunProgram(context.Background(), demoProgram(), testOpts(corpus))
	if rec.Outcome != result.OutcomeError {
		t.Errorf("expected error outcome for missing source dir, got %s", rec.Outcome)
	}
	if rec.Diagnostic == "" {
		t.Error("expected a diagnostic message")
	}
}

func TestRunProgramPerfSampling(t *testing.T) {
	corpus := corpusWithProgram(t, "demo")
	prog := demoProgram()
	prog.Perf = true
	prog.OrigTestCmd = "echo orig"
	rec := runner.RunProgram(context.Background(), prog, testOpts(corpus))
	if rec.Outcome != result.OutcomePassed {
		t.Fatalf("expected passed, got %s", rec.Outcome)
	}
	if rec.Perf == nil {
		t.Fatal("expected a perf measurement")
	}
	if rec.Perf.Samples != 2 {
		t.Errorf("expected 2 samples, got %d", rec.Perf.Samples)
	}
	if rec.Perf.OriginalS <= 0 || rec.Perf.TranspiledS <= 0 {
		t.Errorf("expected positive perf durations, got %+v", rec.Perf)
	}
}

func TestRunProgramIsolatesWorkDir(t *testing.T) {
	corpus := corpusWithProgram(t, "demo")
	prog := demoProgram()
	prog.BuildCmd = "touch build-artifact"
	rec := runner.RunProgram(context.Background(), prog, testOpts(corpus))
	if rec.Outcome != result.OutcomePassed {
		t.Fatalf("expected passed, got %s", rec.Outcome)
	}
	if _, err := os.Stat(filepath.Join(corpus, "demo", "build-artifact")); !os.IsNotExist(err) {
		t.Error("build ran in the corpus dir instead of an isolated copy")
	}
}
