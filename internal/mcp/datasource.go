package mcp

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/meltforce/planfit/internal/models"
	"github.com/meltforce/planfit/internal/storage"
)

// DataSource abstracts the data layer for MCP tools. Both *storage.DB (local)
// and HTTPClient (remote via REST API) satisfy this interface.
type DataSource interface {
	QueryPlans(ctx context.Context, start, end time.Time, userID int) ([]models.PlanRow, error)
	GetPlan(ctx context.Context, planID uuid.UUID, userID int) (*storage.PlanDetail, error)
}

// Compile-time check: *storage.DB satisfies DataSource.
var _ DataSource = (*storage.DB)(nil)
