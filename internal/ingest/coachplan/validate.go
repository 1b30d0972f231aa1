package coachplan

import (
	"fmt"

	"github.com/meltforce/planfit/internal/models"
)

// validate compares declared expected interval counts against the actual
// produced counts. Mismatches are advisory findings, never errors: the
// declared count in source documents is itself sometimes wrong, so a
// mismatch is signaled data for the caller to triage, not control flow.
func validate(expected models.ExpectedCounts, result *models.WorkoutResult) []models.Finding {
	var findings []models.Finding

	for _, role := range []models.PhaseRole{models.PhaseWarmup, models.PhaseBody, models.PhaseRecovery} {
		want, ok := expected.PerPhase[role]
		if !ok {
			continue
		}
		got := result.PerPhase[role]
		if got != want {
			findings = append(findings, models.Finding{
				Code:     models.FindingCountMismatch,
				Phase:    role,
				Message:  fmt.Sprintf("phase %s: declared %d intervals, parsed %d", role, want, got),
				Expected: want,
				Actual:   got,
				Delta:    got - want,
			})
		}
	}

	// Declared roles outside the fixed set still get checked.
	for role, want := range expected.PerPhase {
		switch role {
		case models.PhaseWarmup, models.PhaseBody, models.PhaseRecovery:
			continue
		}
		if got := result.PerPhase[role]; got != want {
			findings = append(findings, models.Finding{
				Code:     models.FindingCountMismatch,
				Phase:    role,
				Message:  fmt.Sprintf("phase %s: declared %d intervals, parsed %d", role, want, got),
				Expected: want,
				Actual:   got,
				Delta:    got - want,
			})
		}
	}

	if expected.Total > 0 && result.Total != expected.Total {
		findings = append(findings, models.Finding{
			Code:     models.FindingCountMismatch,
			Message:  fmt.Sprintf("declared %d intervals overall, parsed %d", expected.Total, result.Total),
			Expected: expected.Total,
			Actual:   result.Total,
			Delta:    result.Total - expected.Total,
		})
	}

	return findings
}
