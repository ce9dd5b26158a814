package metadata

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Hint carries per-program expectations and budget tweaks that live outside
// the generated catalog, keyed by program name.
type Hint struct {
	Exclude        bool    `yaml:"exclude"`
	TimeoutScale   float64 `yaml:"timeout_scale"`
	PerfSamples    int     `yaml:"perf_samples"`
	ExpectedOutput string  `yaml:"expected_output"`
}

type Hints map[string]Hint

// LoadHints reads the optional hints overlay. A missing file is not an
// error; the caller just gets an empty map.
func LoadHints(path string) (Hints, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Hints{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading hints file: %w", err)
	}
	var hints Hints
	if err := yaml.Unmarshal(data, &hints); err != nil {
		return nil, fmt.Errorf("parsing hints file %s: %w", path, err)
	}
	return hints, nil
}

// ApplyHints folds exclusion hints into the catalog. Budget and expectation
// hints stay on the Hints map; the runner reads them per program.
func (s *Store) ApplyHints(h Hints) {
	for i := range s.Programs {
		if hint, ok := h[s.Programs[i].Name]; ok && hint.Exclude {
			s.Programs[i].Exclude = true
		}
	}
}
