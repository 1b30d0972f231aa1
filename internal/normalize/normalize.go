// Package normalize applies named correction profiles to parsed workout
// results. A profile is a declarative value — replacement phase
// sequences and additive target offsets — so supporting a new device or
// modality is a new profile, not new parsing code.
package normalize

import (
	"fmt"

	"github.com/meltforce/planfit/internal/models"
)

// ErrUnknownProfile is returned when the named profile is not registered.
var ErrUnknownProfile = fmt.Errorf("unknown normalization profile")

// Profile describes a post-parse correction set. Replace swaps entire
// phases for a fixed canonical interval sequence, regardless of what was
// parsed; Offset shifts target ranges of designated phases by a fixed
// additive amount.
type Profile struct {
	Name        string                              `yaml:"name"`
	Description string                              `yaml:"description"`
	Replace     map[models.PhaseRole][]ProfileBlock `yaml:"replace"`
	Offset      map[models.PhaseRole]int            `yaml:"offset"`
}

// ProfileBlock is one fixed interval of a replacement sequence.
type ProfileBlock struct {
	Duration string `yaml:"duration"` // MM:SS
	Low      int    `yaml:"low"`
	High     int    `yaml:"high"`
	Position string `yaml:"position,omitempty"`
}

// Apply returns a new WorkoutResult corrected per the named profile. The
// input result is never mutated: replacement phases get freshly built
// intervals and offset phases get copies with shifted targets, keeping
// the original parse auditable. Findings carry over unchanged.
func (r *Registry) Apply(result *models.WorkoutResult, profileName string) (*models.WorkoutResult, error) {
	p, ok := r.profiles[profileName]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownProfile, profileName)
	}

	// Phase emission order: order of first appearance in the parse,
	// then any replace-only phases that parsed to zero intervals (the
	// profile defines those wholesale) in canonical role order.
	var order []models.PhaseRole
	seen := make(map[models.PhaseRole]bool)
	for _, iv := range result.Intervals {
		if !seen[iv.Phase] {
			seen[iv.Phase] = true
			order = append(order, iv.Phase)
		}
	}
	for _, role := range []models.PhaseRole{models.PhaseWarmup, models.PhaseBody, models.PhaseRecovery} {
		if _, ok := p.Replace[role]; ok && !seen[role] {
			seen[role] = true
			order = append(order, role)
		}
	}

	out := &models.WorkoutResult{
		Findings: append([]models.Finding(nil), result.Findings...),
	}

	for _, role := range order {
		if blocks, ok := p.Replace[role]; ok {
			out.Intervals = append(out.Intervals, buildReplacement(role, blocks)...)
			continue
		}
		offset := p.Offset[role]
		for _, iv := range result.Intervals {
			if iv.Phase != role {
				continue
			}
			iv.Target = iv.Target.Add(offset)
			out.Intervals = append(out.Intervals, iv)
		}
	}

	out.Counts()
	return out, nil
}

func buildReplacement(role models.PhaseRole, blocks []ProfileBlock) []models.Interval {
	intervals := make([]models.Interval, 0, len(blocks))
	for _, b := range blocks {
		intervals = append(intervals, models.Interval{
			Phase:       role,
			DurationSec: clockSeconds(b.Duration),
			Target:      models.TargetRange{Low: b.Low, High: b.High},
			Position:    b.Position,
		})
	}
	return intervals
}
