// Package config loads harness configuration from defaults, an optional
// YAML file, and CBENCH_-prefixed environment variables, in that order.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

type Config struct {
	CorpusDir string `koanf:"corpus_dir"`
	Metadata  string `koanf:"metadata"`
	Hints     string `koanf:"hints"`
	Variant   string `koanf:"variant"`
	Toolchain string `koanf:"toolchain"`
	Parallel  int    `koanf:"parallel"`

	Corpus   Corpus   `koanf:"corpus"`
	Timeouts Timeouts `koanf:"timeouts"`
	Perf     Perf     `koanf:"perf"`
	Results  Results  `koanf:"results"`

	// DiagnosticLines is how many trailing output lines a failing stage
	// keeps on the result record.
	DiagnosticLines int `koanf:"diagnostic_lines"`
}

// Corpus points at the downloadable benchmark archive.
type Corpus struct {
	URL string `koanf:"url"`
}

// Timeouts are per-stage wall clock budgets in seconds. Transpilation gets a
// larger default because it dominates on big programs.
type Timeouts struct {
	BuildS     int `koanf:"build_s"`
	TranspileS int `koanf:"transpile_s"`
	TestS      int `koanf:"test_s"`
}

type Perf struct {
	Samples int `koanf:"samples"`
}

type Results struct {
	Dir string `koanf:"dir"`
}

func defaults() map[string]interface{} {
	return map[string]interface{}{
		"corpus_dir":           "CBench",
		"metadata":             "metadata.json",
		"hints":                "hints.yaml",
		"variant":              "baseline",
		"parallel":             1,
		"timeouts.build_s":     30,
		"timeouts.transpile_s": 600,
		"timeouts.test_s":      30,
		"perf.samples":         3,
		"results.dir":          "results",
		"diagnostic_lines":     40,
	}
}

// Load layers defaults, the config file (if present), and environment
// variables, then validates the result. A missing config file is fine; an
// unreadable or invalid one is not.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("loading defaults: %w", err)
	}

	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("parsing config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	// CBENCH_TIMEOUTS_BUILD__S -> timeouts.build_s. Single-underscore keys
	// like corpus_dir are addressed as CBENCH_CORPUS__DIR.
	if err := k.Load(env.Provider("CBENCH_", ".", func(s string) string {
		s = strings.ToLower(strings.TrimPrefix(s, "CBENCH_"))
		s = strings.ReplaceAll(s, "__", "-")
		s = strings.ReplaceAll(s, "_", ".")
		return strings.ReplaceAll(s, "-", "_")
	}), nil); err != nil {
		return nil, fmt.Errorf("loading env vars: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return &cfg, nil
}

func validate(cfg *Config) error {
	if cfg.CorpusDir == "" {
		return fmt.Errorf("corpus_dir is required")
	}
	if cfg.Metadata == "" {
		return fmt.Errorf("metadata path is required")
	}
	if cfg.Variant == "" {
		return fmt.Errorf("variant label is required")
	}
	if cfg.Parallel < 1 {
		cfg.Parallel = 1
	}
	if cfg.Timeouts.BuildS < 1 {
		return fmt.Errorf("timeouts.build_s must be positive")
	}
	if cfg.Timeouts.TranspileS < 1 {
		return fmt.Errorf("timeouts.transpile_s must be positive")
	}
	if cfg.Timeouts.TestS < 1 {
		return fmt.Errorf("timeouts.test_s must be positive")
	}
	if cfg.Perf.Samples < 1 {
		return fmt.Errorf("perf.samples must be at least 1")
	}
	if cfg.Results.Dir == "" {
		return fmt.Errorf("results.dir is required")
	}
	if cfg.DiagnosticLines < 1 {
		cfg.DiagnosticLines = 40
	}
	return nil
}
