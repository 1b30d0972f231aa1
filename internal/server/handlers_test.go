package server

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/meltforce/planfit/internal/models"
	"github.com/meltforce/planfit/internal/normalize"
)

func newTestServer() *Server {
	return &Server{
		profiles: normalize.NewRegistry(),
		log:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

const parseBody = `{
	"code": "S12-VELO-03",
	"discipline": "cycling",
	"text": "Echauffement\n10:00 130à140\nCorps de séance\n3 x (4:00-1:00) 220à230 :\nRécupération\n5:00 120à130\n"
}`

// TestHandleParse verifies the stateless parse endpoint returns the
// full interval sequence without touching storage.
func TestHandleParse(t *testing.T) {
	s := newTestServer()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/parse", strings.NewReader(parseBody))
	rec := httptest.NewRecorder()

	s.handleParse(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}

	var result models.WorkoutResult
	if err := json.NewDecoder(rec.Body).Decode(&result); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if result.Total != 8 {
		t.Errorf("total = %d, want 8", result.Total)
	}
	if got := result.PerPhase[models.PhaseBody]; got != 6 {
		t.Errorf("body count = %d, want 6", got)
	}
	if len(result.Findings) != 0 {
		t.Errorf("findings = %+v, want none", result.Findings)
	}
}

// TestHandleParseWithProfile verifies the profile query parameter
// normalizes the parse result before it is returned.
func TestHandleParseWithProfile(t *testing.T) {
	s := newTestServer()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/parse?profile=indoor-trainer", strings.NewReader(parseBody))
	rec := httptest.NewRecorder()

	s.handleParse(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}

	var result models.WorkoutResult
	if err := json.NewDecoder(rec.Body).Decode(&result); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	// Warmup and recovery replaced by the profile's fixed blocks.
	if got := result.PerPhase[models.PhaseWarmup]; got != 4 {
		t.Errorf("warmup count = %d, want 4", got)
	}
	if got := result.PerPhase[models.PhaseRecovery]; got != 2 {
		t.Errorf("recovery count = %d, want 2", got)
	}
	// Body targets shifted by the profile offset.
	for _, iv := range result.Intervals {
		if iv.Phase == models.PhaseBody && iv.Target != (models.TargetRange{Low: 235, High: 245}) {
			t.Errorf("body target = %+v, want 235-245", iv.Target)
		}
	}
}

// TestHandleParseUnknownProfile verifies an unknown profile name is a
// client error.
func TestHandleParseUnknownProfile(t *testing.T) {
	s := newTestServer()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/parse?profile=outdoor", strings.NewReader(parseBody))
	rec := httptest.NewRecorder()

	s.handleParse(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

// TestHandleParseInvalidJSON verifies malformed bodies are rejected.
func TestHandleParseInvalidJSON(t *testing.T) {
	s := newTestServer()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/parse", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()

	s.handleParse(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

// TestHandleParseEmptyText verifies an empty plan text is rejected.
func TestHandleParseEmptyText(t *testing.T) {
	s := newTestServer()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/parse", strings.NewReader(`{"code":"X","text":""}`))
	rec := httptest.NewRecorder()

	s.handleParse(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

// TestPlanRequestDocument verifies the request body maps onto the
// parser document including expected-count hints.
func TestPlanRequestDocument(t *testing.T) {
	req := PlanRequest{
		Code:           "S12-VELO-03",
		Discipline:     "running",
		Text:           "Echauffement\n10:00 130à140\n",
		ExpectedTotal:  34,
		ExpectedPhases: map[string]int{"body": 31},
	}

	doc := req.document()
	if doc.Discipline != "running" {
		t.Errorf("discipline = %q, want running", doc.Discipline)
	}
	if doc.Expected.Total != 34 {
		t.Errorf("expected total = %d, want 34", doc.Expected.Total)
	}
	if doc.Expected.PerPhase[models.PhaseBody] != 31 {
		t.Errorf("expected body = %d, want 31", doc.Expected.PerPhase[models.PhaseBody])
	}
}

// TestParseTimeRangeDefault verifies the 30-day default window.
func TestParseTimeRangeDefault(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/plans", nil)
	start, end, err := parseTimeRange(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d := end.Sub(start); d < 29*24*time.Hour || d > 31*24*time.Hour {
		t.Errorf("default window = %v, want ~30 days", d)
	}
}

// TestParseTimeRangeDateOnly verifies date-only bounds and the
// end-of-day bump on the end date.
func TestParseTimeRangeDateOnly(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/plans?start=2026-03-01&end=2026-03-07", nil)
	start, end, err := parseTimeRange(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if start.Format("2006-01-02") != "2026-03-01" {
		t.Errorf("start = %v", start)
	}
	if end.Format("2006-01-02") != "2026-03-08" {
		t.Errorf("end = %v, want bumped to end of day", end)
	}
}

// TestParseTimeRangeInvalid verifies garbage bounds are rejected.
func TestParseTimeRangeInvalid(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/plans?start=yesterday", nil)
	if _, _, err := parseTimeRange(req); err == nil {
		t.Fatal("expected error for invalid start")
	}
}
