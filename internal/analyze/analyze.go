// Package analyze reduces one run collection to per-outcome counts and
// identifier sets.
package analyze

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/hayroll/cbench/internal/result"
)

const SummaryFile = "summary.json"

type Summary struct {
	Variant  string              `json:"variant"`
	Total    int                 `json:"total"`
	Counts   map[string]int      `json:"counts"`
	Programs map[string][]string `json:"programs"`
	PassRate float64             `json:"pass_rate"`
}

// Summarize is a pure function of its input: identical collections always
// produce identical summaries.
func Summarize(c *result.Collection) *Summary {
	s := &Summary{
		Variant:  c.Variant,
		Total:    len(c.Records),
		Counts:   map[string]int{},
		Programs: map[string][]string{},
	}
	for _, o := range result.Outcomes {
		s.Counts[o] = 0
		s.Programs[o] = []string{}
	}
	for _, rec := range c.Records {
		outcome := rec.Outcome
		if !result.Known(outcome) {
			outcome = result.OutcomeError
		}
		s.Counts[outcome]++
		s.Programs[outcome] = append(s.Programs[outcome], rec.Program)
	}
	for _, ids := range s.Programs {
		sort.Strings(ids)
	}
	if s.Total > 0 {
		s.PassRate = float64(s.Counts[result.OutcomePassed]) / float64(s.Total)
	}
	return s
}

// WriteSummary persists the summary next to the collection it came from.
func WriteSummary(runDir string, s *Summary) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling summary: %w", err)
	}
	return os.WriteFile(filepath.Join(runDir, SummaryFile), append(data, '\n'), 0o644)
}
