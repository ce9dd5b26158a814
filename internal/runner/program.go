// Package runner executes one benchmark program through the
// build → transpile → build → test pipeline and classifies the outcome.
package runner

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/hayroll/cbench/internal/metadata"
	"github.com/hayroll/cbench/internal/result"
)

type Opts struct {
	CorpusDir        string
	BuildTimeout     time.Duration
	TranspileTimeout time.Duration
	TestTimeout      time.Duration

	// TimeoutScale stretches every stage budget for a single slow program.
	// Zero or negative means no scaling.
	TimeoutScale float64

	DiagnosticLines int
	PerfSamples     int

	// ExpectedOutput, when non-empty, must match the test command's trimmed
	// output for the program to count as passed.
	ExpectedOutput string
}

func (o *Opts) scaled(d time.Duration) time.Duration {
	if o.TimeoutScale > 0 {
		return time.Duration(float64(d) * o.TimeoutScale)
	}
	return d
}

// RunProgram produces exactly one Record for one program. It never returns
// an error and never panics out: every failure mode, including orchestration
// bugs, becomes an outcome category so one program can never abort the batch.
func RunProgram(ctx context.Context, prog *metadata.Program, opts *Opts) (rec *result.Record) {
	rec = &result.Record{Program: prog.Name}
	defer func() {
		if r := recover(); r != nil {
			rec.Outcome = result.OutcomeError
			rec.Diagnostic = fmt.Sprintf("runner panic: %v", r)
		}
	}()

	if prog.Exclude {
		rec.Outcome = result.OutcomeSkipped
		return rec
	}

	workDir, cleanup, err := acquireWorkDir(filepath.Join(opts.CorpusDir, prog.Path), prog.Name)
	if err != nil {
		rec.Outcome = result.OutcomeError
		rec.Diagnostic = err.Error()
		return rec
	}
	defer cleanup()

	build := runStage(ctx, workDir, prog.BuildCmd, opts.scaled(opts.BuildTimeout))
	rec.Stages.BuildS = build.Duration.Seconds()
	if !build.ok() {
		return classify(rec, result.OutcomeBuildFailed, build, opts)
	}

	transpile := runStage(ctx, workDir, prog.TranspileCmd, opts.scaled(opts.TranspileTimeout))
	rec.Stages.TranspileS = transpile.Duration.Seconds()
	if !transpile.ok() {
		return classify(rec, result.OutcomeTranspileFailed, transpile, opts)
	}

	tbuild := runStage(ctx, workDir, prog.TranspiledBuildCmd, opts.scaled(opts.BuildTimeout))
	rec.Stages.TranspiledBuildS = tbuild.Duration.Seconds()
	if !tbuild.ok() {
		return classify(rec, result.OutcomeTranspiledBuildFailed, tbuild, opts)
	}

	test := runStage(ctx, workDir, prog.TestCmd, opts.scaled(opts.TestTimeout))
	rec.Stages.TestS = test.Duration.Seconds()
	if test.TimedOut {
		rec.Outcome = result.OutcomeTimeout
		rec.Diagnostic = tail(test.Output, opts.DiagnosticLines)
		return rec
	}
	if !test.ok() {
		return classify(rec, result.OutcomeTestFailed, test, opts)
	}
	if opts.ExpectedOutput != "" && strings.TrimSpace(test.Output) != strings.TrimSpace(opts.ExpectedOutput) {
		rec.Outcome = result.OutcomeTestFailed
		rec.Diagnostic = fmt.Sprintf("output mismatch:\n%s", tail(test.Output, opts.DiagnosticLines))
		return rec
	}

	rec.Outcome = result.OutcomePassed
	if prog.Perf && prog.OrigTestCmd != "" {
		rec.Perf = measurePerf(ctx, workDir, prog, opts)
	}
	return rec
}

func classify(rec *result.Record, outcome string, st *stageResult, opts *Opts) *result.Record {
	if st.Aborted {
		rec.Outcome = result.OutcomeError
		rec.Diagnostic = "run aborted"
		return rec
	}
	rec.Outcome = outcome
	rec.Diagnostic = tail(st.Output, opts.DiagnosticLines)
	return rec
}

// measurePerf re-runs the original and transpiled test commands and records
// mean wall clock seconds. A failing sample invalidates the measurement but
// not the passed outcome; the sampled run already demonstrated correctness.
func measurePerf(ctx context.Context, workDir string, prog *metadata.Program, opts *Opts) *result.Perf {
	samples := opts.PerfSamples
	if samples < 1 {
		samples = 1
	}
	orig, ok := sampleCommand(ctx, workDir, prog.OrigTestCmd, opts.scaled(opts.TestTimeout), samples)
	if !ok {
		return nil
	}
	transpiled, ok := sampleCommand(ctx, workDir, prog.TestCmd, opts.scaled(opts.TestTimeout), samples)
	if !ok {
		return nil
	}
	return &result.Perf{
		OriginalS:   orig,
		TranspiledS: transpiled,
		Samples:     samples,
	}
}

func sampleCommand(ctx context.Context, dir, command string, timeout time.Duration, samples int) (float64, bool) {
	var total time.Duration
	for i := 0; i < samples; i++ {
		st := runStage(ctx, dir, command, timeout)
		if !st.ok() {
			return 0, false
		}
		total += st.Duration
	}
	return total.Seconds() / float64(samples), true
}
