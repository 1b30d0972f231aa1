package models

import (
	"time"

	"github.com/google/uuid"
)

// PlanRow is a row ready for insertion into the plans table.
type PlanRow struct {
	ID            uuid.UUID
	UserID        int
	Code          string
	Discipline    string
	SourceText    string
	IntervalCount int
	FindingCount  int
	CreatedAt     time.Time
}

// PlanIntervalRow is a row for the plan_intervals table. Seq preserves
// the strict source order of the expanded sequence.
type PlanIntervalRow struct {
	PlanID      uuid.UUID
	UserID      int
	Seq         int
	Phase       string
	DurationSec int
	TargetLow   int
	TargetHigh  int
	Position    string
	RepIndex    *int
	RepTotal    *int
}

// PlanFindingRow is a row for the plan_findings table.
type PlanFindingRow struct {
	PlanID   uuid.UUID
	UserID   int
	Code     string
	Phase    string
	Message  string
	Expected *int
	Actual   *int
	Delta    *int
}
