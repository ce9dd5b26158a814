// Package metadata loads the static benchmark catalog: one entry per corpus
// program describing how to build, transpile, and test it.
package metadata

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
)

// Program describes one benchmark entry. Commands are shell strings executed
// with the program's source directory as working directory.
type Program struct {
	Name               string `json:"name"`
	Path               string `json:"path"`
	BuildCmd           string `json:"build_cmd"`
	TranspileCmd       string `json:"transpile_cmd"`
	TranspiledBuildCmd string `json:"transpiled_build_cmd"`
	TestCmd            string `json:"test_cmd"`
	OrigTestCmd        string `json:"orig_test_cmd,omitempty"`
	Exclude            bool   `json:"exclude,omitempty"`
	Perf               bool   `json:"perf,omitempty"`
}

// Store is the immutable catalog, in file order.
type Store struct {
	Programs []Program `json:"programs"`
}

type rawCatalog struct {
	Programs []json.RawMessage `json:"programs"`
}

// Load reads a metadata catalog. Malformed entries are skipped with a
// warning; only an unreadable or structurally broken file is an error.
func Load(path string) (*Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading metadata %s: %w", path, err)
	}
	var raw rawCatalog
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing metadata %s: %w", path, err)
	}
	if len(raw.Programs) == 0 {
		return nil, fmt.Errorf("metadata %s: no programs defined", path)
	}

	store := &Store{}
	seen := map[string]bool{}
	for i, entry := range raw.Programs {
		var p Program
		if err := json.Unmarshal(entry, &p); err != nil {
			log.Printf("warning: metadata entry %d: %v, skipping", i, err)
			continue
		}
		if err := validateProgram(&p); err != nil {
			log.Printf("warning: metadata entry %d: %v, skipping", i, err)
			continue
		}
		if seen[p.Name] {
			log.Printf("warning: metadata entry %d: duplicate program %q, skipping", i, p.Name)
			continue
		}
		seen[p.Name] = true
		store.Programs = append(store.Programs, p)
	}
	if len(store.Programs) == 0 {
		return nil, fmt.Errorf("metadata %s: no usable programs", path)
	}
	return store, nil
}

func validateProgram(p *Program) error {
	if p.Name == "" {
		return fmt.Errorf("name is required")
	}
	if p.Path == "" {
		return fmt.Errorf("program %q: path is required", p.Name)
	}
	if p.Exclude {
		return nil
	}
	if p.BuildCmd == "" {
		p.BuildCmd = "make"
	}
	if p.TranspiledBuildCmd == "" {
		p.TranspiledBuildCmd = "cargo build"
	}
	if p.TranspileCmd == "" {
		return fmt.Errorf("program %q: transpile_cmd is required", p.Name)
	}
	if p.TestCmd == "" {
		return fmt.Errorf("program %q: test_cmd is required", p.Name)
	}
	return nil
}

// Filter returns the subset of programs whose names appear in names, in
// catalog order. An empty name list returns the store unchanged.
func (s *Store) Filter(names ...string) *Store {
	if len(names) == 0 {
		return s
	}
	want := map[string]bool{}
	for _, n := range names {
		want[n] = true
	}
	out := &Store{}
	for _, p := range s.Programs {
		if want[p.Name] {
			out.Programs = append(out.Programs, p)
		}
	}
	return out
}

// Lookup finds a program by name.
func (s *Store) Lookup(name string) (*Program, bool) {
	for i := range s.Programs {
		if s.Programs[i].Name == name {
			return &s.Programs[i], true
		}
	}
	return nil, false
}

// Save writes the catalog back out, used by the failing-program filter.
func (s *Store) Save(path string) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling metadata: %w", err)
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}
