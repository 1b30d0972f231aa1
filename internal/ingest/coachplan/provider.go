package coachplan

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/meltforce/planfit/internal/ingest"
	"github.com/meltforce/planfit/internal/models"
	"github.com/meltforce/planfit/internal/storage"
)

// Provider parses plan documents and stores the expanded intervals.
type Provider struct {
	db  *storage.DB
	log *slog.Logger
}

// NewProvider creates a new coach-plan ingest provider.
func NewProvider(db *storage.DB, log *slog.Logger) *Provider {
	return &Provider{db: db, log: log}
}

// Ingest parses a document and stores the result under the given
// workout code. An existing plan with the same code is replaced, so
// re-ingests always reflect the latest parser output.
func (p *Provider) Ingest(ctx context.Context, code string, doc models.Document, userID int) (*ingest.Result, error) {
	if code == "" {
		return nil, fmt.Errorf("workout code is required")
	}

	result := Parse(doc)

	replaced, err := p.db.DeletePlanByCode(ctx, code, userID)
	if err != nil {
		return nil, fmt.Errorf("replacing existing plan %s: %w", code, err)
	}

	planID := uuid.New()
	row := models.PlanRow{
		ID:            planID,
		UserID:        userID,
		Code:          code,
		Discipline:    doc.Discipline,
		SourceText:    doc.Text,
		IntervalCount: result.Total,
		FindingCount:  len(result.Findings),
		CreatedAt:     time.Now().UTC(),
	}
	if err := p.db.InsertPlan(ctx, row); err != nil {
		return nil, err
	}

	inserted, err := p.db.InsertPlanIntervals(ctx, IntervalRows(planID, userID, result))
	if err != nil {
		return nil, err
	}
	if _, err := p.db.InsertPlanFindings(ctx, FindingRows(planID, userID, result)); err != nil {
		return nil, err
	}

	p.log.Info("plan ingested",
		"code", code,
		"plan_id", planID,
		"intervals", result.Total,
		"findings", len(result.Findings),
		"replaced", replaced,
	)

	return &ingest.Result{
		PlanID:            planID,
		Code:              code,
		Discipline:        doc.Discipline,
		IntervalsParsed:   result.Total,
		IntervalsInserted: inserted,
		Findings:          len(result.Findings),
		Replaced:          replaced,
	}, nil
}

// IntervalRows converts a result's ordered intervals to storage rows.
func IntervalRows(planID uuid.UUID, userID int, result *models.WorkoutResult) []models.PlanIntervalRow {
	rows := make([]models.PlanIntervalRow, 0, len(result.Intervals))
	for i, iv := range result.Intervals {
		row := models.PlanIntervalRow{
			PlanID:      planID,
			UserID:      userID,
			Seq:         i,
			Phase:       string(iv.Phase),
			DurationSec: iv.DurationSec,
			TargetLow:   iv.Target.Low,
			TargetHigh:  iv.Target.High,
			Position:    iv.Position,
		}
		if !iv.Rep.IsZero() {
			idx, total := iv.Rep.Index, iv.Rep.Total
			row.RepIndex, row.RepTotal = &idx, &total
		}
		rows = append(rows, row)
	}
	return rows
}

// FindingRows converts a result's findings to storage rows.
func FindingRows(planID uuid.UUID, userID int, result *models.WorkoutResult) []models.PlanFindingRow {
	rows := make([]models.PlanFindingRow, 0, len(result.Findings))
	for _, f := range result.Findings {
		row := models.PlanFindingRow{
			PlanID:  planID,
			UserID:  userID,
			Code:    string(f.Code),
			Phase:   string(f.Phase),
			Message: f.Message,
		}
		if f.Code == models.FindingCountMismatch {
			expected, actual, delta := f.Expected, f.Actual, f.Delta
			row.Expected, row.Actual, row.Delta = &expected, &actual, &delta
		}
		rows = append(rows, row)
	}
	return rows
}
