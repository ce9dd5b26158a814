package runner

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// stageResult is the explicit outcome of one subprocess stage. Failures are
// values here, not errors; only the final record classifies them.
type stageResult struct {
	ExitCode int
	TimedOut bool
	Aborted  bool
	Output   string
	Duration time.Duration
}

func (s *stageResult) ok() bool {
	return s.ExitCode == 0 && !s.TimedOut && !s.Aborted
}

// runStage executes a shell command in dir with an enforced wall clock
// budget. On expiry the process tree is killed and TimedOut is set. A start
// failure (missing shell, bad dir) reports exit code -1 with the error text
// as output.
func runStage(ctx context.Context, dir, command string, timeout time.Duration) *stageResult {
	sctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(sctx, "sh", "-c", command)
	cmd.Dir = dir
	cmd.WaitDelay = 5 * time.Second

	start := time.Now()
	out, err := cmd.CombinedOutput()
	res := &stageResult{
		Output:   string(out),
		Duration: time.Since(start),
	}

	switch {
	case ctx.Err() != nil:
		res.Aborted = true
		res.ExitCode = -1
	case sctx.Err() == context.DeadlineExceeded:
		res.TimedOut = true
		res.ExitCode = -1
		res.Output += fmt.Sprintf("\ntimed out after %s", timeout)
	case err != nil:
		if exitErr, ok := err.(*exec.ExitError); ok {
			res.ExitCode = exitErr.ExitCode()
		} else {
			res.ExitCode = -1
			res.Output += "\n" + err.Error()
		}
	}
	return res
}

// tail returns the last n non-empty-trimmed lines of s, the fixed-size
// diagnostic kept on failing records.
func tail(s string, n int) string {
	s = strings.TrimRight(s, "\n")
	if s == "" || n < 1 {
		return ""
	}
	lines := strings.Split(s, "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.Join(lines, "\n")
}
