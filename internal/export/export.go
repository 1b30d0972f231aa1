// Package export converts workout results to and from the flat record
// schema consumed by upload and export collaborators.
package export

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/meltforce/planfit/internal/models"
)

// Record is one interval in the export schema: a plain ordered record
// with optional position and repetition provenance fields.
type Record struct {
	Phase           string `json:"phase"`
	DurationSeconds int    `json:"duration_seconds"`
	TargetLow       int    `json:"target_low"`
	TargetHigh      int    `json:"target_high"`
	Position        string `json:"position,omitempty"`
	RepetitionIndex int    `json:"repetition_index,omitempty"`
	RepetitionTotal int    `json:"repetition_total,omitempty"`
}

// Records flattens a result's interval sequence, preserving order.
func Records(result *models.WorkoutResult) []Record {
	records := make([]Record, 0, len(result.Intervals))
	for _, iv := range result.Intervals {
		records = append(records, Record{
			Phase:           string(iv.Phase),
			DurationSeconds: iv.DurationSec,
			TargetLow:       iv.Target.Low,
			TargetHigh:      iv.Target.High,
			Position:        iv.Position,
			RepetitionIndex: iv.Rep.Index,
			RepetitionTotal: iv.Rep.Total,
		})
	}
	return records
}

// FromRecords rebuilds the ordered interval list from export records.
// Round-tripping through Records and back yields the same sequence.
func FromRecords(records []Record) ([]models.Interval, error) {
	intervals := make([]models.Interval, 0, len(records))
	for i, rec := range records {
		if rec.DurationSeconds <= 0 {
			return nil, fmt.Errorf("record %d: duration %d is not positive", i, rec.DurationSeconds)
		}
		if rec.TargetLow > rec.TargetHigh {
			return nil, fmt.Errorf("record %d: target range %d-%d is inverted", i, rec.TargetLow, rec.TargetHigh)
		}
		if (rec.RepetitionIndex == 0) != (rec.RepetitionTotal == 0) {
			return nil, fmt.Errorf("record %d: repetition index and total must be set together", i)
		}
		intervals = append(intervals, models.Interval{
			Phase:       models.PhaseRole(rec.Phase),
			DurationSec: rec.DurationSeconds,
			Target:      models.TargetRange{Low: rec.TargetLow, High: rec.TargetHigh},
			Position:    rec.Position,
			Rep:         models.Repetition{Index: rec.RepetitionIndex, Total: rec.RepetitionTotal},
		})
	}
	return intervals, nil
}

// Write encodes the export records as JSON to w.
func Write(w io.Writer, result *models.WorkoutResult) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(Records(result))
}

// Read decodes export records from JSON and rebuilds the interval list.
func Read(r io.Reader) ([]models.Interval, error) {
	var records []Record
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, fmt.Errorf("decoding export records: %w", err)
	}
	return FromRecords(records)
}

// FromIntervalRows flattens stored interval rows (already ordered by
// seq) into export records.
func FromIntervalRows(rows []models.PlanIntervalRow) []Record {
	records := make([]Record, 0, len(rows))
	for _, r := range rows {
		rec := Record{
			Phase:           r.Phase,
			DurationSeconds: r.DurationSec,
			TargetLow:       r.TargetLow,
			TargetHigh:      r.TargetHigh,
			Position:        r.Position,
		}
		if r.RepIndex != nil && r.RepTotal != nil {
			rec.RepetitionIndex = *r.RepIndex
			rec.RepetitionTotal = *r.RepTotal
		}
		records = append(records, rec)
	}
	return records
}
