package coachplan

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/meltforce/planfit/internal/models"
)

// Standalone interval lines come in two surface shapes, because the
// source documents are inconsistent about annotating position. Each
// shape gets its own matcher, tried in a fixed order; that is easier to
// reason about than one pattern with nested optional groups.
var (
	// standaloneWithPosRe matches: 08:00* (Position aéro.) 200 à 210
	standaloneWithPosRe = regexp.MustCompile(`^(\d{1,2}:\d{2}(?::\d{2})?)\**[ \t]*\(([^)]+)\)[ \t]+(\d+)[ \t]*(?:à|to|-)[ \t]*(\d+)$`)

	// standaloneBareRe matches: 08:00 200 à 210
	standaloneBareRe = regexp.MustCompile(`^(\d{1,2}:\d{2}(?::\d{2})?)\**[ \t]+(\d+)[ \t]*(?:à|to|-)[ \t]*(\d+)$`)
)

// parseIntermediate parses the text spans of a phase not covered by any
// located directive. Every non-blank line yields either one standalone
// interval or an UnparsedSpan finding; unparseable lines are skipped so
// counts reflect only what was parseable and the validator can see the
// gap.
func parseIntermediate(span string, phase models.PhaseRole) ([]models.Interval, []models.Finding) {
	var intervals []models.Interval
	var findings []models.Finding

	for _, line := range strings.Split(span, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		iv, err := parseStandaloneLine(line, phase)
		if err != nil {
			findings = append(findings, models.Finding{
				Code:    models.FindingUnparsedSpan,
				Phase:   phase,
				Message: fmt.Sprintf("unparsed span %q", line),
			})
			continue
		}
		intervals = append(intervals, iv)
	}

	return intervals, findings
}

// parseStandaloneLine tries the with-position matcher first, then the
// bare fallback.
func parseStandaloneLine(line string, phase models.PhaseRole) (models.Interval, error) {
	if m := standaloneWithPosRe.FindStringSubmatch(line); m != nil {
		return buildStandalone(phase, m[1], m[2], m[3], m[4])
	}
	if m := standaloneBareRe.FindStringSubmatch(line); m != nil {
		return buildStandalone(phase, m[1], "", m[2], m[3])
	}
	return models.Interval{}, fmt.Errorf("line matches no standalone pattern")
}

func buildStandalone(phase models.PhaseRole, clock, position, lowStr, highStr string) (models.Interval, error) {
	sec, err := parseClock(clock)
	if err != nil {
		return models.Interval{}, err
	}
	low, _ := strconv.Atoi(lowStr)
	high, _ := strconv.Atoi(highStr)
	if low > high {
		return models.Interval{}, fmt.Errorf("inverted target range %s-%s", lowStr, highStr)
	}
	return models.Interval{
		Phase:       phase,
		DurationSec: sec,
		Target:      models.TargetRange{Low: low, High: high},
		Position:    strings.TrimSpace(position),
	}, nil
}
