package coachplan

import (
	"testing"

	"github.com/meltforce/planfit/internal/models"
)

// TestSegmentSourceOrder verifies phases are returned in the order they
// appear in the document, not spec order.
func TestSegmentSourceOrder(t *testing.T) {
	text := `Récupération
5:00 120à130
Echauffement
10:00 130à140
Corps de séance
2 x (4:00) 220à230 :
`
	spans, findings := segment(text, phaseTable("cycling"))
	if len(findings) != 0 {
		t.Fatalf("findings = %+v, want none", findings)
	}
	if len(spans) != 3 {
		t.Fatalf("spans = %d, want 3", len(spans))
	}
	wantOrder := []models.PhaseRole{models.PhaseRecovery, models.PhaseWarmup, models.PhaseBody}
	for i, want := range wantOrder {
		if spans[i].Role != want {
			t.Errorf("spans[%d].Role = %s, want %s", i, spans[i].Role, want)
		}
	}
}

// TestSegmentHeaderLineConsumed verifies the header line's own trailing
// text (colons, column titles) is not part of the phase body.
func TestSegmentHeaderLineConsumed(t *testing.T) {
	text := "Echauffement : durée / cible\n10:00 130à140\nCorps de séance\nRécupération\n"
	spans, _ := segment(text, phaseTable("cycling"))
	if len(spans) != 3 {
		t.Fatalf("spans = %d, want 3", len(spans))
	}
	if spans[0].Text != "10:00 130à140\n" {
		t.Errorf("warmup span = %q, want the interval line only", spans[0].Text)
	}
}

// TestSegmentCaseInsensitive verifies header matching ignores case.
func TestSegmentCaseInsensitive(t *testing.T) {
	text := "ECHAUFFEMENT\n10:00 130à140\ncorps de séance\nrécupération\n"
	spans, findings := segment(text, phaseTable("cycling"))
	if len(findings) != 0 {
		t.Fatalf("findings = %+v, want none", findings)
	}
	if len(spans) != 3 {
		t.Errorf("spans = %d, want 3", len(spans))
	}
}

// TestSegmentMissingRequired verifies each absent required phase yields
// its own MissingPhase finding.
func TestSegmentMissingRequired(t *testing.T) {
	spans, findings := segment("just prose, no headers", phaseTable("cycling"))
	if len(spans) != 0 {
		t.Errorf("spans = %+v, want none", spans)
	}
	if len(findings) != 3 {
		t.Fatalf("findings = %d, want 3", len(findings))
	}
	roles := map[models.PhaseRole]bool{}
	for _, f := range findings {
		if f.Code != models.FindingMissingPhase {
			t.Errorf("finding code = %s, want MissingPhase", f.Code)
		}
		roles[f.Phase] = true
	}
	if !roles[models.PhaseWarmup] || !roles[models.PhaseBody] || !roles[models.PhaseRecovery] {
		t.Errorf("findings cover roles %v, want all three", roles)
	}
}

// TestPhaseTableFallback verifies unknown disciplines use the cycling
// phase set.
func TestPhaseTableFallback(t *testing.T) {
	got := phaseTable("swimming")
	want := phaseTable("cycling")
	if len(got) != len(want) {
		t.Fatalf("fallback table size = %d, want %d", len(got), len(want))
	}
	for i := range got {
		if got[i].Role != want[i].Role {
			t.Errorf("fallback[%d].Role = %s, want %s", i, got[i].Role, want[i].Role)
		}
	}
}
