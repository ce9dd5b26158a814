package aggregate

import (
	"encoding/json"
	"fmt"
	"os"
)

func WriteStats(path string, s *Stats) error {
	return writeJSON(path, s)
}

func ReadStats(path string) (*Stats, error) {
	var s Stats
	if err := readJSON(path, &s); err != nil {
		return nil, err
	}
	if len(s.Variants) == 0 {
		return nil, fmt.Errorf("statistics file %s has no variants", path)
	}
	return &s, nil
}

func WritePerf(path string, p *Perf) error {
	return writeJSON(path, p)
}

func ReadPerf(path string) (*Perf, error) {
	var p Perf
	if err := readJSON(path, &p); err != nil {
		return nil, err
	}
	if len(p.Variants) == 0 {
		return nil, fmt.Errorf("performance file %s has no variants", path)
	}
	return &p, nil
}

func writeJSON(path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling %s: %w", path, err)
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}

func readJSON(path string, v interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	return nil
}
