package result

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"
)

const CollectionFile = "results.json"

// CreateRunDir makes a timestamped run directory under baseDir/runs and
// points baseDir/latest at it.
func CreateRunDir(baseDir string) (string, error) {
	runsDir := filepath.Join(baseDir, "runs")
	stamp := time.Now().UTC().Format("2006-01-02T15-04-05")
	runDir := filepath.Join(runsDir, stamp)
	runDir, err := filepath.Abs(runDir)
	if err != nil {
		return "", fmt.Errorf("resolving run dir: %w", err)
	}
	if err := os.MkdirAll(runDir, 0o755); err != nil {
		return "", fmt.Errorf("creating run dir: %w", err)
	}
	latest := filepath.Join(baseDir, "latest")
	os.Remove(latest)
	if err := os.Symlink(runDir, latest); err != nil {
		return "", fmt.Errorf("creating latest symlink: %w", err)
	}
	return runDir, nil
}

// CollectionPath is where a run directory keeps its collection file.
func CollectionPath(runDir string) string {
	return filepath.Join(runDir, CollectionFile)
}

// WriteCollection persists a collection, sorting records by program name so
// the stored order never depends on execution order.
func WriteCollection(runDir string, c *Collection) error {
	if err := os.MkdirAll(runDir, 0o755); err != nil {
		return fmt.Errorf("creating run dir: %w", err)
	}
	sort.Slice(c.Records, func(i, j int) bool {
		return c.Records[i].Program < c.Records[j].Program
	})
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling collection: %w", err)
	}
	// Write-then-rename so a crash mid-write never leaves a truncated file;
	// an interrupted run is signalled by Complete, not by unparseable JSON.
	tmp := CollectionPath(runDir) + ".tmp"
	if err := os.WriteFile(tmp, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("writing collection: %w", err)
	}
	if err := os.Rename(tmp, CollectionPath(runDir)); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("replacing collection: %w", err)
	}
	return nil
}

// ReadCollection loads a collection file. An interrupted run reads fine;
// callers check Complete before trusting it.
func ReadCollection(path string) (*Collection, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading collection: %w", err)
	}
	var c Collection
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parsing collection %s: %w", path, err)
	}
	if c.Variant == "" {
		return nil, fmt.Errorf("collection %s has no variant label", path)
	}
	return &c, nil
}
