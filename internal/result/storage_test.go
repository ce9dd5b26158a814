package result_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/hayroll/cbench/internal/result"
)

func sampleCollection() *result.Collection {
	return &result.Collection{
		Variant:    "baseline",
		Toolchain:  "hayroll-0.1",
		StartedAt:  time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		FinishedAt: time.Date(2025, 6, 1, 12, 30, 0, 0, time.UTC),
		Complete:   true,
		Records: []result.Record{
			{Program: "gzip", Outcome: result.OutcomePassed, Stages: result.StageDurations{TestS: 1.2}},
			{Program: "bzip2", Outcome: result.OutcomeTranspileFailed, Diagnostic: "exit status 1"},
		},
	}
}

func TestWriteAndReadCollection(t *testing.T) {
	runDir := t.TempDir()
	if err := result.WriteCollection(runDir, sampleCollection()); err != nil {
		t.Fatalf("WriteCollection: %v", err)
	}
	got, err := result.ReadCollection(result.CollectionPath(runDir))
	if err != nil {
		t.Fatalf("ReadCollection: %v", err)
	}
	if got.Variant != "baseline" {
		t.Errorf("variant: got %q, want %q", got.Variant, "baseline")
	}
	if !got.Complete {
		t.Error("expected a complete collection")
	}
	if len(got.Records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(got.Records))
	}
}

func TestWriteCollectionSortsByProgram(t *testing.T) {
	runDir := t.TempDir()
	if err := result.WriteCollection(runDir, sampleCollection()); err != nil {
		t.Fatalf("WriteCollection: %v", err)
	}
	got, err := result.ReadCollection(result.CollectionPath(runDir))
	if err != nil {
		t.Fatalf("ReadCollection: %v", err)
	}
	if got.Records[0].Program != "bzip2" || got.Records[1].Program != "gzip" {
		t.Errorf("records not sorted by program: %s, %s", got.Records[0].Program, got.Records[1].Program)
	}
}

func TestReadIncompleteCollection(t *testing.T) {
	runDir := t.TempDir()
	c := sampleCollection()
	c.Complete = false
	if err := result.WriteCollection(runDir, c); err != nil {
		t.Fatalf("WriteCollection: %v", err)
	}
	got, err := result.ReadCollection(result.CollectionPath(runDir))
	if err != nil {
		t.Fatalf("an interrupted run must still be readable: %v", err)
	}
	if got.Complete {
		t.Error("expected the completion marker to be false")
	}
}

func TestWriteCollectionReplacesAtomically(t *testing.T) {
	runDir := t.TempDir()
	if err := result.WriteCollection(runDir, sampleCollection()); err != nil {
		t.Fatalf("WriteCollection: %v", err)
	}

	// Overwriting an existing collection must go through the same
	// rename, leaving no intermediate file behind.
	c := sampleCollection()
	c.Complete = false
	if err := result.WriteCollection(runDir, c); err != nil {
		t.Fatalf("rewriting collection: %v", err)
	}
	got, err := result.ReadCollection(result.CollectionPath(runDir))
	if err != nil {
		t.Fatalf("ReadCollection: %v", err)
	}
	if got.Complete {
		t.Error("expected the rewritten collection")
	}

	entries, err := os.ReadDir(runDir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Name() != result.CollectionFile {
		t.Errorf("expected only %s in the run dir, got %v", result.CollectionFile, entries)
	}
}

func TestReadCollectionMissingVariant(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.json")
	if err := os.WriteFile(path, []byte(`{"records": []}`), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := result.ReadCollection(path); err == nil {
		t.Error("expected error for a collection without a variant label")
	}
}

func TestCreateRunDir(t *testing.T) {
	base := t.TempDir()
	runDir, err := result.CreateRunDir(base)
	if err != nil {
		t.Fatalf("CreateRunDir: %v", err)
	}
	if _, err := os.Stat(runDir); os.IsNotExist(err) {
		t.Errorf("run directory not created: %s", runDir)
	}
	latest := filepath.Join(base, "latest")
	target, err := os.Readlink(latest)
	if err != nil {
		t.Fatalf("reading latest symlink: %v", err)
	}
	if target != runDir {
		t.Errorf("latest symlink: got %q, want %q", target, runDir)
	}
}
