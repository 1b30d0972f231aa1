package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/meltforce/planfit/internal/models"
)

// InsertPlan inserts a plan row.
func (db *DB) InsertPlan(ctx context.Context, row models.PlanRow) error {
	_, err := db.Pool.Exec(ctx,
		`INSERT INTO plans (id, user_id, code, discipline, source_text, interval_count, finding_count, created_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		row.ID, row.UserID, row.Code, row.Discipline, row.SourceText,
		row.IntervalCount, row.FindingCount, row.CreatedAt)
	if err != nil {
		return fmt.Errorf("inserting plan: %w", err)
	}
	return nil
}

// DeletePlanByCode removes a plan and its intervals/findings by workout
// code so re-ingests always reflect the latest parser output. Returns
// true when an existing plan was replaced.
func (db *DB) DeletePlanByCode(ctx context.Context, code string, userID int) (bool, error) {
	tag, err := db.Pool.Exec(ctx,
		`DELETE FROM plans WHERE code = $1 AND user_id = $2`, code, userID)
	if err != nil {
		return false, fmt.Errorf("deleting plan %s: %w", code, err)
	}
	return tag.RowsAffected() > 0, nil
}

// InsertPlanIntervals batch-inserts the ordered interval rows of a plan.
// Returns count inserted.
func (db *DB) InsertPlanIntervals(ctx context.Context, rows []models.PlanIntervalRow) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}

	query := `INSERT INTO plan_intervals (plan_id, user_id, seq, phase, duration_sec, target_low, target_high, position, rep_index, rep_total) VALUES `
	args := make([]any, 0, len(rows)*10)
	valueStrings := make([]string, 0, len(rows))

	for i, r := range rows {
		base := i * 10
		valueStrings = append(valueStrings, fmt.Sprintf(
			"($%d,$%d,$%d,$%d,$%d,$%d,$%d,$%d,$%d,$%d)",
			base+1, base+2, base+3, base+4, base+5, base+6, base+7, base+8, base+9, base+10,
		))
		args = append(args, r.PlanID, r.UserID, r.Seq, r.Phase, r.DurationSec,
			r.TargetLow, r.TargetHigh, r.Position, r.RepIndex, r.RepTotal)
	}

	query += strings.Join(valueStrings, ",")

	tag, err := db.Pool.Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("inserting plan intervals: %w", err)
	}
	return tag.RowsAffected(), nil
}

// InsertPlanFindings batch-inserts a plan's findings.
func (db *DB) InsertPlanFindings(ctx context.Context, rows []models.PlanFindingRow) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}

	query := `INSERT INTO plan_findings (plan_id, user_id, code, phase, message, expected, actual, delta) VALUES `
	args := make([]any, 0, len(rows)*8)
	valueStrings := make([]string, 0, len(rows))

	for i, r := range rows {
		base := i * 8
		valueStrings = append(valueStrings, fmt.Sprintf(
			"($%d,$%d,$%d,$%d,$%d,$%d,$%d,$%d)",
			base+1, base+2, base+3, base+4, base+5, base+6, base+7, base+8,
		))
		args = append(args, r.PlanID, r.UserID, r.Code, r.Phase, r.Message,
			r.Expected, r.Actual, r.Delta)
	}

	query += strings.Join(valueStrings, ",")

	tag, err := db.Pool.Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("inserting plan findings: %w", err)
	}
	return tag.RowsAffected(), nil
}

// PlanDetail is a plan with its ordered intervals and findings.
type PlanDetail struct {
	models.PlanRow
	Intervals []models.PlanIntervalRow
	Findings  []models.PlanFindingRow
}

// QueryPlans retrieves plans created in a time range, newest first.
func (db *DB) QueryPlans(ctx context.Context, start, end time.Time, userID int) ([]models.PlanRow, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT id, user_id, code, discipline, source_text, interval_count, finding_count, created_at
		 FROM plans
		 WHERE created_at >= $1 AND created_at < $2 AND user_id = $3
		 ORDER BY created_at DESC`,
		start, end, userID)
	if err != nil {
		return nil, fmt.Errorf("querying plans: %w", err)
	}
	defer rows.Close()

	var result []models.PlanRow
	for rows.Next() {
		var p models.PlanRow
		if err := rows.Scan(&p.ID, &p.UserID, &p.Code, &p.Discipline, &p.SourceText,
			&p.IntervalCount, &p.FindingCount, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning plan: %w", err)
		}
		result = append(result, p)
	}
	return result, rows.Err()
}

// GetPlan retrieves a single plan by ID with intervals and findings.
func (db *DB) GetPlan(ctx context.Context, planID uuid.UUID, userID int) (*PlanDetail, error) {
	row := db.Pool.QueryRow(ctx,
		`SELECT id, user_id, code, discipline, source_text, interval_count, finding_count, created_at
		 FROM plans
		 WHERE id = $1 AND user_id = $2`,
		planID, userID)

	var p models.PlanRow
	err := row.Scan(&p.ID, &p.UserID, &p.Code, &p.Discipline, &p.SourceText,
		&p.IntervalCount, &p.FindingCount, &p.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("querying plan: %w", err)
	}

	detail := &PlanDetail{PlanRow: p}

	ivRows, err := db.Pool.Query(ctx,
		`SELECT plan_id, user_id, seq, phase, duration_sec, target_low, target_high, position, rep_index, rep_total
		 FROM plan_intervals
		 WHERE plan_id = $1 AND user_id = $2
		 ORDER BY seq ASC`,
		planID, userID)
	if err != nil {
		return nil, fmt.Errorf("querying plan intervals: %w", err)
	}
	defer ivRows.Close()

	for ivRows.Next() {
		var iv models.PlanIntervalRow
		if err := ivRows.Scan(&iv.PlanID, &iv.UserID, &iv.Seq, &iv.Phase, &iv.DurationSec,
			&iv.TargetLow, &iv.TargetHigh, &iv.Position, &iv.RepIndex, &iv.RepTotal); err != nil {
			return nil, fmt.Errorf("scanning plan interval: %w", err)
		}
		detail.Intervals = append(detail.Intervals, iv)
	}
	if err := ivRows.Err(); err != nil {
		return nil, err
	}

	fRows, err := db.Pool.Query(ctx,
		`SELECT plan_id, user_id, code, phase, message, expected, actual, delta
		 FROM plan_findings
		 WHERE plan_id = $1 AND user_id = $2
		 ORDER BY id ASC`,
		planID, userID)
	if err != nil {
		return nil, fmt.Errorf("querying plan findings: %w", err)
	}
	defer fRows.Close()

	for fRows.Next() {
		var f models.PlanFindingRow
		if err := fRows.Scan(&f.PlanID, &f.UserID, &f.Code, &f.Phase, &f.Message,
			&f.Expected, &f.Actual, &f.Delta); err != nil {
			return nil, fmt.Errorf("scanning plan finding: %w", err)
		}
		detail.Findings = append(detail.Findings, f)
	}

	return detail, fRows.Err()
}
