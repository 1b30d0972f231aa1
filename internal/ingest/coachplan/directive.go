package coachplan

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/meltforce/planfit/internal/models"
)

var (
	// directiveRe matches a repetition directive occurrence:
	//   3 x (04:00-02:00-04:00-02:00) 220 à 230 (Position haute) :
	// The target range and the trailing position label are optional. The
	// label is captured as part of the span so later stages never
	// reparse it as intermediate text.
	directiveRe = regexp.MustCompile(`\b(\w+)\s*[x×]\s*\(([^)\n]*)\)[ \t]*((?:\d+[ \t]*(?:à|to|-)[ \t]*\d+)?)[ \t]*(\([^)\n]+\))?[ \t]*:?`)

	// rangeRe matches a target band: "220à230", "220 à 230", "220-230".
	rangeRe = regexp.MustCompile(`^(\d+)[ \t]*(?:à|to|-)[ \t]*(\d+)$`)
)

// directive is one located repetition occurrence within a phase's text.
// Target is nil when the directive line carries no range (every template
// group must then override its own).
type directive struct {
	Count    int
	Template string
	Target   *models.TargetRange
	Position string
	Start    int // span in the phase text, ordering key
	End      int
}

// scanDirectives finds ALL repetition directive occurrences in a phase's
// text, in source order, with non-overlapping spans. An occurrence with
// a non-numeric or non-positive repeat count, or an inverted target
// range, is reported as InvalidDirective and omitted from the returned
// list: its span reverts to intermediate text.
func scanDirectives(text string, phase models.PhaseRole) ([]directive, []models.Finding) {
	var dirs []directive
	var findings []models.Finding

	for _, m := range directiveRe.FindAllStringSubmatchIndex(text, -1) {
		countTok := text[m[2]:m[3]]
		count, err := strconv.Atoi(countTok)
		if err != nil || count <= 0 {
			findings = append(findings, models.Finding{
				Code:    models.FindingInvalidDirective,
				Phase:   phase,
				Message: fmt.Sprintf("repeat count %q is not a positive integer", countTok),
			})
			continue
		}

		d := directive{
			Count:    count,
			Template: text[m[4]:m[5]],
			Start:    m[0],
			End:      m[1],
		}

		if m[6] >= 0 && m[6] < m[7] {
			tr, ok := parseRange(text[m[6]:m[7]])
			if !ok {
				findings = append(findings, models.Finding{
					Code:    models.FindingInvalidDirective,
					Phase:   phase,
					Message: fmt.Sprintf("target range %q is inverted", text[m[6]:m[7]]),
				})
				continue
			}
			d.Target = &tr
		}

		if m[8] >= 0 {
			d.Position = text[m[8]+1 : m[9]-1] // strip parens
		}

		dirs = append(dirs, d)
	}

	return dirs, findings
}

// parseRange parses "LOWàHIGH" into a TargetRange. ok is false when the
// text does not match or violates low <= high.
func parseRange(s string) (models.TargetRange, bool) {
	m := rangeRe.FindStringSubmatch(s)
	if m == nil {
		return models.TargetRange{}, false
	}
	low, _ := strconv.Atoi(m[1])
	high, _ := strconv.Atoi(m[2])
	if low > high {
		return models.TargetRange{}, false
	}
	return models.TargetRange{Low: low, High: high}, true
}
