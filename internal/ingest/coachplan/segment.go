package coachplan

import (
	"fmt"
	"strings"

	"github.com/meltforce/planfit/internal/models"
)

// phaseSpec declares one phase role a discipline expects: the header
// aliases that introduce it in source text and whether its absence is
// worth a finding.
type phaseSpec struct {
	Role     models.PhaseRole
	Aliases  []string
	Required bool
}

// Coach documents come in French (the original Delalain sheets) and in
// English; both header spellings are recognized.
var disciplinePhases = map[string][]phaseSpec{
	"cycling": {
		{Role: models.PhaseWarmup, Aliases: []string{"Echauffement", "Échauffement", "Warmup", "Warm-up"}, Required: true},
		{Role: models.PhaseBody, Aliases: []string{"Corps de séance", "Main set", "Body"}, Required: true},
		{Role: models.PhaseRecovery, Aliases: []string{"Récupération", "Recovery", "Cool-down"}, Required: true},
	},
	"running": {
		{Role: models.PhaseWarmup, Aliases: []string{"Echauffement", "Échauffement", "Warmup", "Warm-up"}, Required: true},
		{Role: models.PhaseBody, Aliases: []string{"Corps de séance", "Main set", "Body"}, Required: true},
		{Role: models.PhaseRecovery, Aliases: []string{"Récupération", "Recovery", "Cool-down"}, Required: false},
	},
}

const defaultDiscipline = "cycling"

// phaseTable returns the phase specs for a discipline, falling back to
// the cycling set for unknown or empty discipline tags.
func phaseTable(discipline string) []phaseSpec {
	if specs, ok := disciplinePhases[strings.ToLower(strings.TrimSpace(discipline))]; ok {
		return specs
	}
	return disciplinePhases[defaultDiscipline]
}

// phaseSpan is one located phase: its role and the raw text between its
// header line and the next phase header.
type phaseSpan struct {
	Role models.PhaseRole
	Text string
}

// segment splits raw document text into ordered phase spans. A required
// role that cannot be located yields a MissingPhase finding; the other
// phases still parse. Pure function over the input text.
func segment(text string, specs []phaseSpec) ([]phaseSpan, []models.Finding) {
	type marker struct {
		role models.PhaseRole
		pos  int // start of the header alias
		body int // start of the phase body (after the header line)
	}

	lower := strings.ToLower(text)
	var markers []marker
	var findings []models.Finding

	for _, spec := range specs {
		best := -1
		bodyStart := -1
		for _, alias := range spec.Aliases {
			idx := strings.Index(lower, strings.ToLower(alias))
			if idx < 0 {
				continue
			}
			if best < 0 || idx < best {
				best = idx
				// The rest of the header line (colons, column titles) is
				// consumed with the header.
				if nl := strings.IndexByte(text[idx:], '\n'); nl >= 0 {
					bodyStart = idx + nl + 1
				} else {
					bodyStart = len(text)
				}
			}
		}
		if best < 0 {
			if spec.Required {
				findings = append(findings, models.Finding{
					Code:    models.FindingMissingPhase,
					Phase:   spec.Role,
					Message: fmt.Sprintf("phase %q not found in document", spec.Role),
				})
			}
			continue
		}
		markers = append(markers, marker{role: spec.Role, pos: best, body: bodyStart})
	}

	// Phases appear in source order, not spec order.
	for i := 1; i < len(markers); i++ {
		for j := i; j > 0 && markers[j].pos < markers[j-1].pos; j-- {
			markers[j], markers[j-1] = markers[j-1], markers[j]
		}
	}

	spans := make([]phaseSpan, 0, len(markers))
	for i, m := range markers {
		end := len(text)
		if i+1 < len(markers) {
			end = markers[i+1].pos
		}
		start := m.body
		if start > end {
			start = end
		}
		spans = append(spans, phaseSpan{Role: m.role, Text: text[start:end]})
	}
	return spans, findings
}
