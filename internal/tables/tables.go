// Package tables renders aggregated statistics and performance into
// comparison tables. Pure transforms: fixed numeric precision, no I/O
// beyond the supplied writer, so output stays diffable across runs.
package tables

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"sort"

	"github.com/hayroll/cbench/internal/aggregate"
	"github.com/hayroll/cbench/internal/result"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// newTableWriter builds a writer with the shared style. Header and footer
// formatting is disabled: variant labels and speedup values are data and
// must round-trip verbatim, not get upcased by the style.
func newTableWriter(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.Style().Format.Header = text.FormatDefault
	t.Style().Format.Footer = text.FormatDefault
	return t
}

// Outcomes writes one row per outcome category, one column per variant,
// cells as "count (pct%)" relative to the program universe.
func Outcomes(stats *aggregate.Stats, format string, w io.Writer) error {
	if len(stats.Variants) == 0 {
		return fmt.Errorf("statistics have no variants")
	}
	if format == "json" {
		return renderJSON(w, stats)
	}

	t := newTableWriter(w)

	header := table.Row{"Outcome"}
	for _, v := range stats.Variants {
		header = append(header, v)
	}
	t.AppendHeader(header)

	total := len(stats.Universe)
	categories := append(append([]string{}, result.Outcomes...), result.OutcomeMissing)
	for _, cat := range categories {
		row := table.Row{cat}
		for _, v := range stats.Variants {
			row = append(row, countCell(stats.ByVariant[v].Counts[cat], total))
		}
		t.AppendRow(row)
	}

	footer := table.Row{"total"}
	for range stats.Variants {
		footer = append(footer, fmt.Sprintf("%d", total))
	}
	t.AppendFooter(footer)

	render(t, format)
	return nil
}

// Performance writes one row per shared program with per-variant test
// seconds and speedup against the baseline, plus a mean footer row.
func Performance(perf *aggregate.Perf, format string, w io.Writer) error {
	if len(perf.Variants) == 0 {
		return fmt.Errorf("performance data has no variants")
	}
	if format == "json" {
		return renderJSON(w, perf)
	}

	t := newTableWriter(w)

	header := table.Row{"Program"}
	for _, v := range perf.Variants {
		header = append(header, v+" (s)", v+" speedup")
	}
	t.AppendHeader(header)

	var names []string
	for name := range perf.Programs {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		row := table.Row{name}
		for _, v := range perf.Variants {
			pp := perf.Programs[name][v]
			row = append(row, fmt.Sprintf("%.3f", pp.TestS), fmt.Sprintf("%.2fx", pp.Speedup))
		}
		t.AppendRow(row)
	}

	footer := table.Row{"mean"}
	for _, v := range perf.Variants {
		m := perf.Means[v]
		footer = append(footer, fmt.Sprintf("%.3f", m.TestS), fmt.Sprintf("%.2fx", m.Speedup))
	}
	t.AppendFooter(footer)

	render(t, format)
	return nil
}

func countCell(count, total int) string {
	pct := 0
	if total > 0 {
		pct = int(math.Round(float64(count) / float64(total) * 100))
	}
	return fmt.Sprintf("%d (%d%%)", count, pct)
}

func render(t table.Writer, format string) {
	switch format {
	case "markdown", "md":
		t.RenderMarkdown()
	case "csv":
		t.RenderCSV()
	default:
		t.Render()
	}
}

func renderJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
