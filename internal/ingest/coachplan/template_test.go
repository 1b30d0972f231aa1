package coachplan

import (
	"testing"

	"github.com/meltforce/planfit/internal/models"
)

func target(low, high int) *models.TargetRange {
	return &models.TargetRange{Low: low, High: high}
}

// TestDecomposeBasic verifies splitting a multi-group template with the
// directive-level target applied to every group.
func TestDecomposeBasic(t *testing.T) {
	d := directive{Count: 3, Template: "04:00-01:00-04:00-01:00", Target: target(220, 230)}
	subs, err := decompose(d)
	if err != nil {
		t.Fatalf("decompose: %v", err)
	}
	if len(subs) != 4 {
		t.Fatalf("subs = %d, want 4", len(subs))
	}
	wantSec := []int{240, 60, 240, 60}
	for i, sub := range subs {
		if sub.DurationSec != wantSec[i] {
			t.Errorf("subs[%d].DurationSec = %d, want %d", i, sub.DurationSec, wantSec[i])
		}
		if sub.Target != (models.TargetRange{Low: 220, High: 230}) {
			t.Errorf("subs[%d].Target = %+v, want 220-230", i, sub.Target)
		}
	}
}

// TestDecomposeOverrides verifies per-group target and position
// overrides, and that effort markers are ignored.
func TestDecomposeOverrides(t *testing.T) {
	d := directive{Count: 2, Template: "4:00**-1:00@250à260/danseuse", Target: target(220, 230), Position: "Position haute"}
	subs, err := decompose(d)
	if err != nil {
		t.Fatalf("decompose: %v", err)
	}
	if len(subs) != 2 {
		t.Fatalf("subs = %d, want 2", len(subs))
	}

	// Group 1: directive-level target and position.
	if subs[0].Target != (models.TargetRange{Low: 220, High: 230}) || subs[0].Position != "Position haute" {
		t.Errorf("subs[0] = %+v, want 220-230 / Position haute", subs[0])
	}

	// Group 2: both overridden.
	if subs[1].Target != (models.TargetRange{Low: 250, High: 260}) {
		t.Errorf("subs[1].Target = %+v, want 250-260", subs[1].Target)
	}
	if subs[1].Position != "danseuse" {
		t.Errorf("subs[1].Position = %q, want danseuse", subs[1].Position)
	}
}

// TestDecomposeErrors enumerates the undecodable template shapes.
func TestDecomposeErrors(t *testing.T) {
	tests := []struct {
		name string
		d    directive
	}{
		{"empty template", directive{Count: 2, Template: "", Target: target(220, 230)}},
		{"trailing separator", directive{Count: 2, Template: "4:00-", Target: target(220, 230)}},
		{"doubled separator", directive{Count: 2, Template: "4:00--1:00", Target: target(220, 230)}},
		{"not a duration", directive{Count: 2, Template: "fast", Target: target(220, 230)}},
		{"zero duration", directive{Count: 2, Template: "0:00", Target: target(220, 230)}},
		{"seconds out of range", directive{Count: 2, Template: "4:75", Target: target(220, 230)}},
		{"inverted group override", directive{Count: 2, Template: "4:00@260à250", Target: target(220, 230)}},
	}
	for _, tt := range tests {
		if _, err := decompose(tt.d); err == nil {
			t.Errorf("%s: expected error", tt.name)
		} else if err == errNoTarget {
			t.Errorf("%s: got errNoTarget, want a decode error", tt.name)
		}
	}
}

// TestDecomposeNoTarget verifies the missing-target case is the
// dedicated sentinel, distinguishable from decode errors.
func TestDecomposeNoTarget(t *testing.T) {
	d := directive{Count: 3, Template: "4:00-1:00"}
	if _, err := decompose(d); err != errNoTarget {
		t.Errorf("err = %v, want errNoTarget", err)
	}

	// A group override alone satisfies the requirement for that group
	// but the bare sibling still fails.
	d = directive{Count: 3, Template: "4:00@230à240-1:00"}
	if _, err := decompose(d); err != errNoTarget {
		t.Errorf("err = %v, want errNoTarget for the bare group", err)
	}
}

// TestParseClock covers both clock shapes and their bounds.
func TestParseClock(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"04:00", 240, false},
		{"4:00", 240, false},
		{"02:30", 150, false},
		{"1:00:00", 3600, false},
		{"1:30:15", 5415, false},
		{"0:00", 0, true},
		{"4:75", 0, true},
		{"1:75:00", 0, true},
		{"240", 0, true},
	}
	for _, tt := range tests {
		got, err := parseClock(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseClock(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("parseClock(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

// TestExpandIterationMajor verifies replication order: all of iteration
// 1's groups, then iteration 2's, each tagged 1-based.
func TestExpandIterationMajor(t *testing.T) {
	d := directive{Count: 3, Template: "4:00-1:00", Target: target(220, 230)}
	subs, err := decompose(d)
	if err != nil {
		t.Fatal(err)
	}
	intervals := expand(d, subs, models.PhaseBody)
	if len(intervals) != 6 {
		t.Fatalf("intervals = %d, want 6", len(intervals))
	}
	for i, iv := range intervals {
		wantIter := i/2 + 1
		if iv.Rep.Index != wantIter || iv.Rep.Total != 3 {
			t.Errorf("intervals[%d].Rep = %+v, want %d of 3", i, iv.Rep, wantIter)
		}
		wantSec := 240
		if i%2 == 1 {
			wantSec = 60
		}
		if iv.DurationSec != wantSec {
			t.Errorf("intervals[%d].DurationSec = %d, want %d", i, iv.DurationSec, wantSec)
		}
		if iv.Phase != models.PhaseBody {
			t.Errorf("intervals[%d].Phase = %s, want body", i, iv.Phase)
		}
	}
}
