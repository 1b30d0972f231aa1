package ingest

import "github.com/google/uuid"

// Result holds the outcome of a plan ingest operation.
type Result struct {
	PlanID            uuid.UUID `json:"plan_id"`
	Code              string    `json:"code"`
	Discipline        string    `json:"discipline"`
	IntervalsParsed   int       `json:"intervals_parsed"`
	IntervalsInserted int64     `json:"intervals_inserted"`
	Findings          int       `json:"findings"`
	Replaced          bool      `json:"replaced,omitempty"`

	Message string `json:"message,omitempty"`
}
