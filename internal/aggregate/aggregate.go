// Package aggregate merges run collections from multiple toolchain variants
// into corpus-level statistics and performance deltas. Collections stay the
// source of truth; everything here is recomputed on demand.
package aggregate

import (
	"fmt"
	"log"
	"sort"

	"github.com/hayroll/cbench/internal/result"
)

const (
	StatsFile = "aggregated_statistics.json"
	PerfFile  = "aggregated_performance.json"
)

// Stats classifies the union of all programs under every variant. Programs
// absent from a variant's collection are counted as missing, which is
// deliberately distinct from skipped.
type Stats struct {
	Baseline  string                  `json:"baseline"`
	Variants  []string                `json:"variants"`
	Universe  []string                `json:"universe"`
	ByVariant map[string]VariantStats `json:"by_variant"`
}

type VariantStats struct {
	Counts   map[string]int      `json:"counts"`
	Programs map[string][]string `json:"programs"`
}

// Perf covers only programs that passed in every compared variant.
type Perf struct {
	Baseline string                            `json:"baseline"`
	Variants []string                          `json:"variants"`
	Programs map[string]map[string]ProgramPerf `json:"programs"`
	Means    map[string]VariantMean            `json:"means"`
}

type ProgramPerf struct {
	Stages  result.StageDurations `json:"stages"`
	TestS   float64               `json:"test_s"`
	Speedup float64               `json:"speedup"`
}

type VariantMean struct {
	TestS   float64 `json:"test_s"`
	Speedup float64 `json:"speedup"`
}

// order fixes the variant sequence: the first collection is the baseline and
// reference for deltas, the rest sort lexicographically by label.
func order(cols []*result.Collection) ([]string, map[string]*result.Collection, error) {
	if len(cols) == 0 {
		return nil, nil, fmt.Errorf("no collections to aggregate")
	}
	byLabel := map[string]*result.Collection{}
	var rest []string
	for i, c := range cols {
		if _, dup := byLabel[c.Variant]; dup {
			return nil, nil, fmt.Errorf("duplicate variant label %q", c.Variant)
		}
		byLabel[c.Variant] = c
		if i > 0 {
			rest = append(rest, c.Variant)
		}
	}
	sort.Strings(rest)
	return append([]string{cols[0].Variant}, rest...), byLabel, nil
}

// cleanRecords drops records the aggregation cannot trust: blank ids,
// unknown outcomes, duplicates. Each is logged and excluded, never fatal.
func cleanRecords(c *result.Collection) map[string]result.Record {
	recs := map[string]result.Record{}
	for _, rec := range c.Records {
		switch {
		case rec.Program == "":
			log.Printf("warning: variant %s: record with empty program id, skipping", c.Variant)
		case !result.Known(rec.Outcome):
			log.Printf("warning: variant %s: program %s has unknown outcome %q, skipping", c.Variant, rec.Program, rec.Outcome)
		default:
			if _, dup := recs[rec.Program]; dup {
				log.Printf("warning: variant %s: duplicate record for %s, keeping first", c.Variant, rec.Program)
				continue
			}
			recs[rec.Program] = rec
		}
	}
	return recs
}

// Statistics unions the program universe across collections and classifies
// every program under every variant.
func Statistics(cols []*result.Collection) (*Stats, error) {
	variants, byLabel, err := order(cols)
	if err != nil {
		return nil, err
	}

	cleaned := map[string]map[string]result.Record{}
	universe := map[string]bool{}
	for label, c := range byLabel {
		cleaned[label] = cleanRecords(c)
		for name := range cleaned[label] {
			universe[name] = true
		}
	}
	var names []string
	for name := range universe {
		names = append(names, name)
	}
	sort.Strings(names)

	stats := &Stats{
		Baseline:  variants[0],
		Variants:  variants,
		Universe:  names,
		ByVariant: map[string]VariantStats{},
	}
	categories := append(append([]string{}, result.Outcomes...), result.OutcomeMissing)
	for _, label := range variants {
		vs := VariantStats{Counts: map[string]int{}, Programs: map[string][]string{}}
		for _, cat := range categories {
			vs.Counts[cat] = 0
			vs.Programs[cat] = []string{}
		}
		for _, name := range names {
			cat := result.OutcomeMissing
			if rec, ok := cleaned[label][name]; ok {
				cat = rec.Outcome
			}
			vs.Counts[cat]++
			vs.Programs[cat] = append(vs.Programs[cat], name)
		}
		stats.ByVariant[label] = vs
	}
	return stats, nil
}

// Performance intersects the programs that passed in every variant and
// computes per-program durations plus speedups against the baseline.
// A missing or failing program is excluded here but still counted by
// Statistics.
func Performance(cols []*result.Collection) (*Perf, error) {
	variants, byLabel, err := order(cols)
	if err != nil {
		return nil, err
	}

	cleaned := map[string]map[string]result.Record{}
	for label, c := range byLabel {
		cleaned[label] = cleanRecords(c)
	}

	// Intersection of programs passed everywhere.
	var shared []string
	for name, rec := range cleaned[variants[0]] {
		if rec.Outcome != result.OutcomePassed {
			continue
		}
		ok := true
		for _, label := range variants[1:] {
			other, present := cleaned[label][name]
			if !present || other.Outcome != result.OutcomePassed {
				ok = false
				break
			}
		}
		if ok {
			shared = append(shared, name)
		}
	}
	sort.Strings(shared)

	perf := &Perf{
		Baseline: variants[0],
		Variants: variants,
		Programs: map[string]map[string]ProgramPerf{},
		Means:    map[string]VariantMean{},
	}

	for _, name := range shared {
		base := testSeconds(cleaned[variants[0]][name])
		if base <= 0 {
			// No usable baseline duration; a 0x speedup would poison the means.
			log.Printf("warning: program %s has no baseline test duration, excluding from performance", name)
			continue
		}
		perVariant := map[string]ProgramPerf{}
		for _, label := range variants {
			rec := cleaned[label][name]
			t := testSeconds(rec)
			pp := ProgramPerf{Stages: rec.Stages, TestS: t}
			if t > 0 {
				pp.Speedup = base / t
			}
			perVariant[label] = pp
		}
		perf.Programs[name] = perVariant
	}

	for _, label := range variants {
		var totalT, totalSpeedup float64
		for name := range perf.Programs {
			pp := perf.Programs[name][label]
			totalT += pp.TestS
			totalSpeedup += pp.Speedup
		}
		mean := VariantMean{}
		if n := len(perf.Programs); n > 0 {
			mean.TestS = totalT / float64(n)
			mean.Speedup = totalSpeedup / float64(n)
		}
		perf.Means[label] = mean
	}
	return perf, nil
}

// testSeconds prefers the averaged perf sample over the single test stage
// duration when the runner recorded one.
func testSeconds(rec result.Record) float64 {
	if rec.Perf != nil && rec.Perf.TranspiledS > 0 {
		return rec.Perf.TranspiledS
	}
	return rec.Stages.TestS
}
