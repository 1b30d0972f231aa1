package upload

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
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

func writePlanFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// TestUploaderRun verifies a plan file is posted once and skipped on the
// next run via the state DB.
func TestUploaderRun(t *testing.T) {
	var posted []PlanPayload
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/plans" {
			t.Errorf("unexpected path %s", r.URL.Path)
			http.NotFound(w, r)
			return
		}
		if got := r.Header.Get("X-API-Key"); got != "test-key" {
			t.Errorf("X-API-Key=%q, want test-key", got)
		}
		var p PlanPayload
		if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
			t.Fatal(err)
		}
		posted = append(posted, p)
		json.NewEncoder(w).Encode(IngestResult{IntervalsParsed: 8, Findings: 0})
	}))
	defer ts.Close()

	plansDir := t.TempDir()
	writePlanFile(t, plansDir, "S12-VELO-03.txt", samplePlan)
	writePlanFile(t, plansDir, "notes.md", "not a plan") // ignored, wrong extension

	state, err := OpenStateDB(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer state.Close()

	u := New(NewClient(ts.URL, "test-key"), state, plansDir, "cycling", false, discardLogger())
	stats, err := u.Run()
	if err != nil {
		t.Fatal(err)
	}

	if stats.FilesTotal != 1 || stats.FilesUploaded != 1 {
		t.Errorf("stats = %+v, want 1 file uploaded", stats)
	}
	if stats.IntervalsParsed != 8 {
		t.Errorf("intervals parsed = %d, want 8", stats.IntervalsParsed)
	}
	if len(posted) != 1 {
		t.Fatalf("server received %d plans, want 1", len(posted))
	}
	if posted[0].Code != "S12-VELO-03" {
		t.Errorf("code = %q, want S12-VELO-03", posted[0].Code)
	}
	if posted[0].Discipline != "cycling" {
		t.Errorf("discipline = %q, want cycling", posted[0].Discipline)
	}
	if posted[0].Text != samplePlan {
		t.Error("plan text not sent verbatim")
	}

	// Second run: same content, nothing re-sent.
	u2 := New(NewClient(ts.URL, "test-key"), state, plansDir, "cycling", false, discardLogger())
	stats2, err := u2.Run()
	if err != nil {
		t.Fatal(err)
	}
	if stats2.FilesSkipped != 1 || stats2.FilesUploaded != 0 {
		t.Errorf("second run stats = %+v, want 1 skipped", stats2)
	}
	if len(posted) != 1 {
		t.Errorf("server received %d plans after second run, want 1", len(posted))
	}
}

// TestUploaderDryRun verifies dry-run mode parses locally and sends
// nothing.
func TestUploaderDryRun(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("dry run must not hit the server")
	}))
	defer ts.Close()

	plansDir := t.TempDir()
	writePlanFile(t, plansDir, "S12-VELO-03.txt", samplePlan)

	state, err := OpenStateDB(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer state.Close()

	u := New(NewClient(ts.URL, "test-key"), state, plansDir, "cycling", true, discardLogger())
	stats, err := u.Run()
	if err != nil {
		t.Fatal(err)
	}

	// 1 warmup + 3x2 body + 1 recovery
	if stats.IntervalsParsed != 8 {
		t.Errorf("intervals parsed = %d, want 8", stats.IntervalsParsed)
	}
	if stats.FindingsReported != 0 {
		t.Errorf("findings = %d, want 0", stats.FindingsReported)
	}
}

// TestStateDBRoundTrip verifies the uploaded-file bookkeeping.
func TestStateDBRoundTrip(t *testing.T) {
	state, err := OpenStateDB(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer state.Close()

	ok, err := state.IsUploaded("a.txt", 10, "hash1")
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Error("fresh db reports file as uploaded")
	}

	if err := state.MarkUploaded("a.txt", 10, "hash1"); err != nil {
		t.Fatal(err)
	}
	ok, err = state.IsUploaded("a.txt", 10, "hash1")
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Error("marked file not reported as uploaded")
	}

	// Same path, new content: must re-upload.
	ok, err = state.IsUploaded("a.txt", 12, "hash2")
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Error("changed file reported as uploaded")
	}
}
