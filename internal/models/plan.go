package models

// PhaseRole names the role an interval plays within a session. Roles are
// unique within a document; the set is extensible per discipline.
type PhaseRole string

const (
	PhaseWarmup   PhaseRole = "warmup"
	PhaseBody     PhaseRole = "body"
	PhaseRecovery PhaseRole = "recovery"
)

// TargetRange is a low/high target band (watts for cycling, sec/km for
// running). The unit is uniform within a document; Low <= High always.
type TargetRange struct {
	Low  int `json:"low"`
	High int `json:"high"`
}

// Add returns the range shifted by a fixed offset.
func (t TargetRange) Add(offset int) TargetRange {
	return TargetRange{Low: t.Low + offset, High: t.High + offset}
}

// Repetition identifies which pass of a repeated block produced an
// interval. Index is 1-based; Total is the declared repeat count.
// The zero value means "standalone" (not produced by a directive).
type Repetition struct {
	Index int `json:"index"`
	Total int `json:"total"`
}

// IsZero reports whether the interval is standalone.
func (r Repetition) IsZero() bool { return r.Total == 0 }

// Interval is the canonical output unit of the parser. Intervals are
// immutable once produced: the normalizer builds new ones rather than
// editing in place, so a parse result stays auditable.
type Interval struct {
	Phase       PhaseRole   `json:"phase"`
	DurationSec int         `json:"duration_seconds"`
	Target      TargetRange `json:"target"`
	Position    string      `json:"position,omitempty"`
	Rep         Repetition  `json:"repetition,omitzero"`
}

// FindingCode classifies a parse or validation finding.
type FindingCode string

const (
	FindingMissingPhase        FindingCode = "MissingPhase"
	FindingInvalidDirective    FindingCode = "InvalidDirective"
	FindingTemplateDecodeError FindingCode = "TemplateDecodeError"
	FindingUnparsedSpan        FindingCode = "UnparsedSpan"
	FindingCountMismatch       FindingCode = "CountMismatch"
)

// Finding is a structured, advisory parse or validation report. Findings
// are data attached to the result, never control flow: a document with
// findings still yields its parseable intervals.
type Finding struct {
	Code    FindingCode `json:"code"`
	Phase   PhaseRole   `json:"phase,omitempty"`
	Message string      `json:"message,omitempty"`

	// CountMismatch payload. Delta = Actual - Expected.
	Expected int `json:"expected,omitempty"`
	Actual   int `json:"actual,omitempty"`
	Delta    int `json:"delta,omitempty"`
}

// ExpectedCounts is the declared interval-count descriptor of a document.
// Both fields are optional; the source documents sometimes declare
// neither, and sometimes declare a count that is itself wrong.
type ExpectedCounts struct {
	Total    int               `json:"total,omitempty"`
	PerPhase map[PhaseRole]int `json:"per_phase,omitempty"`
}

// Document is an immutable parse input: raw plan text plus declared
// metadata. It is owned exclusively by the parse invocation.
type Document struct {
	Text       string
	Discipline string
	Expected   ExpectedCounts
}

// WorkoutResult is the sole artifact handed to downstream consumers:
// the flat, ordered interval sequence with counts and findings.
type WorkoutResult struct {
	Intervals []Interval        `json:"intervals"`
	PerPhase  map[PhaseRole]int `json:"per_phase_counts"`
	Total     int               `json:"total_count"`
	Findings  []Finding         `json:"findings,omitempty"`
}

// Counts recomputes PerPhase and Total from the interval list. Called by
// the producers after assembling Intervals so the two can never drift.
func (r *WorkoutResult) Counts() {
	r.PerPhase = make(map[PhaseRole]int)
	for _, iv := range r.Intervals {
		r.PerPhase[iv.Phase]++
	}
	r.Total = len(r.Intervals)
}
