package packaging

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestAssembleBatch(t *testing.T) {
	staging := t.TempDir()
	pkg1 := filepath.Join(staging, "190295851927")
	pkg2 := filepath.Join(staging, "CAT-001")
	writeFile(t, filepath.Join(pkg1, "1_Track.wav"), "a")
	writeFile(t, filepath.Join(pkg2, "1_Track.wav"), "b")

	batcher := NewBatcher(t.TempDir(), nil)
	batchPath, err := batcher.Assemble(context.Background(), "batch-001", []string{pkg1, pkg2})
	if err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}

	for _, name := range []string{"190295851927", "CAT-001"} {
		if _, err := os.Stat(filepath.Join(batchPath, name, "1_Track.wav")); err != nil {
			t.Errorf("missing batched package %s: %v", name, err)
		}
	}
	// Source directories are moved, not copied.
	if _, err := os.Stat(pkg1); !os.IsNotExist(err) {
		t.Errorf("source package still present: %v", err)
	}

	manifest, err := os.ReadFile(filepath.Join(batchPath, BatchManifestName))
	if err != nil {
		t.Fatalf("manifest missing: %v", err)
	}
	content := string(manifest)
	if !strings.Contains(content, "Packages: 2") {
		t.Errorf("manifest = %q", content)
	}
	if !strings.Contains(content, "190295851927") || !strings.Contains(content, "CAT-001") {
		t.Errorf("manifest = %q", content)
	}
}

func TestAssembleEmptyBatch(t *testing.T) {
	batcher := NewBatcher(t.TempDir(), nil)
	if _, err := batcher.Assemble(context.Background(), "empty", nil); err == nil {
		t.Fatal("expected error for empty batch")
	}
}

func TestAssembleSanitizesBatchName(t *testing.T) {
	staging := t.TempDir()
	pkg := filepath.Join(staging, "CAT-003")
	writeFile(t, filepath.Join(pkg, "cover.jpg"), "img")

	batcher := NewBatcher(t.TempDir(), nil)
	batchPath, err := batcher.Assemble(context.Background(), "2026 Q1/Drop", []string{pkg})
	if err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}
	if got := filepath.Base(batchPath); got != "2026_q1_drop" {
		t.Errorf("batch name = %q, want %q", got, "2026_q1_drop")
	}
}

func TestAssembleGeneratesBatchName(t *testing.T) {
	staging := t.TempDir()
	pkg := filepath.Join(staging, "CAT-002")
	writeFile(t, filepath.Join(pkg, "cover.jpg"), "img")

	batcher := NewBatcher(t.TempDir(), nil)
	batchPath, err := batcher.Assemble(context.Background(), "", []string{pkg})
	if err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}
	if !strings.HasPrefix(filepath.Base(batchPath), "batch-") {
		t.Errorf("batch name = %q", filepath.Base(batchPath))
	}
}
