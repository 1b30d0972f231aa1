// Package coachplan parses coach-authored training-plan text into a
// flat, ordered sequence of training intervals.
//
// A document is segmented into named phases (warmup, body, recovery).
// Within a phase, every repetition directive — "N x (template)" — is
// located, its template decomposed into sub-intervals and expanded N
// times; the text between directives parses as standalone intervals.
// Anything that cannot be decoded becomes a structured finding on the
// result instead of failing the document: the output is always the
// best-effort partial interval sequence.
package coachplan

import (
	"github.com/meltforce/planfit/internal/models"
)

// Parse converts a document into a WorkoutResult. It is a pure,
// synchronous function over the immutable input: no I/O, no shared
// state, safe to call from any number of goroutines.
func Parse(doc models.Document) *models.WorkoutResult {
	result := &models.WorkoutResult{}

	spans, findings := segment(doc.Text, phaseTable(doc.Discipline))
	result.Findings = append(result.Findings, findings...)

	for _, span := range spans {
		intervals, phaseFindings := parsePhase(span)
		result.Intervals = append(result.Intervals, intervals...)
		result.Findings = append(result.Findings, phaseFindings...)
	}

	result.Counts()
	result.Findings = append(result.Findings, validate(doc.Expected, result)...)
	return result
}

// parsePhase partitions a phase's text into directive-owned and
// intermediate regions and parses each in source order. Directive spans
// are fully consumed (position label included), so intermediate parsing
// never re-examines claimed text.
func parsePhase(span phaseSpan) ([]models.Interval, []models.Finding) {
	var intervals []models.Interval

	dirs, findings := scanDirectives(span.Text, span.Role)

	cursor := 0
	for _, d := range dirs {
		subs, err := decompose(d)
		if err == errNoTarget {
			// Malformed directive: treat the occurrence as absent so its
			// span falls through to intermediate parsing below.
			findings = append(findings, models.Finding{
				Code:    models.FindingInvalidDirective,
				Phase:   span.Role,
				Message: "directive declares no target range: " + err.Error(),
			})
			continue
		}

		// Intermediate text before this directive.
		iv, f := parseIntermediate(span.Text[cursor:d.Start], span.Role)
		intervals = append(intervals, iv...)
		findings = append(findings, f...)
		cursor = d.End

		if err != nil {
			// Recognized directive, undecodable template: span stays
			// consumed, contributes zero intervals, siblings unaffected.
			findings = append(findings, models.Finding{
				Code:    models.FindingTemplateDecodeError,
				Phase:   span.Role,
				Message: "template " + d.Template + ": " + err.Error(),
			})
			continue
		}

		intervals = append(intervals, expand(d, subs, span.Role)...)
	}

	// Trailing intermediate text after the last directive.
	iv, f := parseIntermediate(span.Text[cursor:], span.Role)
	intervals = append(intervals, iv...)
	findings = append(findings, f...)

	return intervals, findings
}
