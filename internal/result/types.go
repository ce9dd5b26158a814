package result

import "time"

// Outcome classifies one program's trip through the pipeline: either the
// first stage that failed, or passed/skipped/timeout.
const (
	OutcomeBuildFailed           = "build_failed"
	OutcomeTranspileFailed       = "transpile_failed"
	OutcomeTranspiledBuildFailed = "transpiled_build_failed"
	OutcomeTestFailed            = "test_failed"
	OutcomePassed                = "passed"
	OutcomeSkipped               = "skipped"
	OutcomeTimeout               = "timeout"
	OutcomeError                 = "error"

	// OutcomeMissing is never produced by the runner; the aggregator uses it
	// for programs absent from a variant's collection.
	OutcomeMissing = "missing"
)

// Outcomes lists every runner-producible category in reporting order.
var Outcomes = []string{
	OutcomePassed,
	OutcomeBuildFailed,
	OutcomeTranspileFailed,
	OutcomeTranspiledBuildFailed,
	OutcomeTestFailed,
	OutcomeTimeout,
	OutcomeSkipped,
	OutcomeError,
}

// Known reports whether s is a category the runner can produce.
func Known(s string) bool {
	for _, o := range Outcomes {
		if s == o {
			return true
		}
	}
	return false
}

// StageDurations holds wall-clock seconds per pipeline stage. A stage that
// never ran stays zero.
type StageDurations struct {
	BuildS           float64 `json:"build_s"`
	TranspileS       float64 `json:"transpile_s"`
	TranspiledBuildS float64 `json:"transpiled_build_s"`
	TestS            float64 `json:"test_s"`
}

// Perf compares original and transpiled test runtimes, mean over Samples runs.
type Perf struct {
	OriginalS   float64 `json:"original_s"`
	TranspiledS float64 `json:"transpiled_s"`
	Samples     int     `json:"samples"`
}

// Record is the outcome of running one program through the full pipeline once.
type Record struct {
	Program    string         `json:"program"`
	Outcome    string         `json:"outcome"`
	Diagnostic string         `json:"diagnostic,omitempty"`
	Stages     StageDurations `json:"stages"`
	Perf       *Perf          `json:"perf,omitempty"`
}

// Collection is every Record from one benchmark invocation against one
// toolchain variant. Complete is the completion marker: false means the run
// was interrupted and the records are partial.
type Collection struct {
	Variant    string    `json:"variant"`
	Toolchain  string    `json:"toolchain,omitempty"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	Complete   bool      `json:"complete"`
	Records    []Record  `json:"records"`
}
