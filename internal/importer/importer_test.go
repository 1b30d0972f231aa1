package importer

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

const samplePlan = `Echauffement
10:00 130à140

Corps de séance
3 x (4:00-1:00) 220à230 :

Récupération
5:00 120à130
`

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// TestImportDryRun verifies the directory walk, file selection and
// local parse accounting without a database.
func TestImportDryRun(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "week12"), 0o755); err != nil {
		t.Fatal(err)
	}
	files := map[string]string{
		"S12-VELO-03.txt":        samplePlan,
		"week12/S12-VELO-04.txt": samplePlan,
		"empty.txt":              "   \n",
		"README.md":              "not a plan",
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	imp := New(nil, "cycling", 1, true, discardLogger())
	stats, err := imp.Import(context.Background(), dir)
	if err != nil {
		t.Fatal(err)
	}

	if stats.FilesProcessed != 3 {
		t.Errorf("files processed = %d, want 3 (.md excluded)", stats.FilesProcessed)
	}
	if stats.FilesSkipped != 1 {
		t.Errorf("files skipped = %d, want 1 (blank file)", stats.FilesSkipped)
	}
	if stats.PlansImported != 2 {
		t.Errorf("plans imported = %d, want 2", stats.PlansImported)
	}
	// Each plan: 1 warmup + 3x2 body + 1 recovery = 8 intervals.
	if stats.IntervalsInserted != 16 {
		t.Errorf("intervals = %d, want 16", stats.IntervalsInserted)
	}
	if stats.FindingsRecorded != 0 {
		t.Errorf("findings = %d, want 0", stats.FindingsRecorded)
	}
}

// TestImportCancelled verifies the walk stops on context cancellation.
func TestImportCancelled(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "a.txt"), []byte(samplePlan), 0o644); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	imp := New(nil, "cycling", 1, true, discardLogger())
	if _, err := imp.Import(ctx, dir); err == nil {
		t.Fatal("expected context error")
	}
}
