package mcp

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/meltforce/planfit/internal/export"
	"github.com/meltforce/planfit/internal/ingest/coachplan"
	"github.com/meltforce/planfit/internal/models"
)

// defaultTimeRange returns start/end defaulting to the last 30 days.
func defaultTimeRange(startStr, endStr string) (time.Time, time.Time, error) {
	var start, end time.Time
	var err error

	if endStr != "" {
		end, err = parseFlexTime(endStr)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
	} else {
		end = time.Now()
	}

	if startStr != "" {
		start, err = parseFlexTime(startStr)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
	} else {
		start = end.AddDate(0, 0, -30)
	}

	return start, end, nil
}

func parseFlexTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err == nil {
		return t, nil
	}
	t, err = time.Parse("2006-01-02", s)
	if err == nil {
		return t, nil
	}
	return time.Time{}, err
}

// --- Tool definitions ---

var toolParsePlan = mcp.NewTool("parse_plan",
	mcp.WithDescription("Parse coach-authored training plan text into a flat interval sequence. Returns intervals in execution order plus per-phase counts and any parse findings (missing phases, malformed directives, count mismatches). Does not store anything."),
	mcp.WithString("text", mcp.Required(), mcp.Description("Raw plan text, including phase headers (e.g. Echauffement, Corps de séance, Récupération)")),
	mcp.WithString("discipline", mcp.Description("Discipline the plan is written for (cycling, running). Defaults to cycling."), mcp.Enum("cycling", "running")),
	mcp.WithNumber("expected_total", mcp.Description("Declared total interval count to validate the parse against")),
	mcp.WithString("profile", mcp.Description("Normalization profile to apply after parsing (e.g. 'indoor-trainer')")),
)

var toolListPlans = mcp.NewTool("list_plans",
	mcp.WithDescription("List stored training plans in a time range with their interval and finding counts."),
	mcp.WithString("start", mcp.Description("Start date (ISO 8601 or YYYY-MM-DD). Defaults to 30 days ago.")),
	mcp.WithString("end", mcp.Description("End date (ISO 8601 or YYYY-MM-DD). Defaults to now.")),
)

var toolGetPlan = mcp.NewTool("get_plan",
	mcp.WithDescription("Retrieve a stored plan by ID, including its ordered intervals and parse findings."),
	mcp.WithString("id", mcp.Required(), mcp.Description("Plan UUID")),
)

var toolNormalizePlan = mcp.NewTool("normalize_plan",
	mcp.WithDescription("Apply a device correction profile to a stored plan's intervals. Replaces or target-shifts whole phases (e.g. home-trainer warmup substitution, +15W body offset) and returns the rewritten sequence."),
	mcp.WithString("id", mcp.Required(), mcp.Description("Plan UUID")),
	mcp.WithString("profile", mcp.Required(), mcp.Description("Profile name (see the profile catalog resource)")),
)

// --- Tool handlers ---

func (h *handlers) parsePlan(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text, err := req.RequireString("text")
	if err != nil {
		return mcp.NewToolResultError("text parameter is required"), nil
	}

	doc := models.Document{
		Text:       text,
		Discipline: req.GetString("discipline", "cycling"),
		Expected:   models.ExpectedCounts{Total: req.GetInt("expected_total", 0)},
	}

	parsed := coachplan.Parse(doc)

	if profile := req.GetString("profile", ""); profile != "" {
		normalized, err := h.profiles.Apply(parsed, profile)
		if err != nil {
			return mcp.NewToolResultError("normalize failed: " + err.Error()), nil
		}
		parsed = normalized
	}

	result, err := mcp.NewToolResultJSON(parsed)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) listPlans(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	start, end, err := defaultTimeRange(req.GetString("start", ""), req.GetString("end", ""))
	if err != nil {
		return mcp.NewToolResultError("invalid date format: " + err.Error()), nil
	}

	uid := UserIDFromContext(ctx)

	plans, err := h.ds.QueryPlans(ctx, start, end, uid)
	if err != nil {
		h.log.Error("mcp list_plans", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(plans)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getPlan(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	idStr, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError("id parameter is required"), nil
	}
	id, err := uuid.Parse(idStr)
	if err != nil {
		return mcp.NewToolResultError("invalid plan id: " + err.Error()), nil
	}

	uid := UserIDFromContext(ctx)

	detail, err := h.ds.GetPlan(ctx, id, uid)
	if err != nil {
		h.log.Error("mcp get_plan", "id", idStr, "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(detail)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) normalizePlan(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	idStr, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError("id parameter is required"), nil
	}
	id, err := uuid.Parse(idStr)
	if err != nil {
		return mcp.NewToolResultError("invalid plan id: " + err.Error()), nil
	}
	profile, err := req.RequireString("profile")
	if err != nil {
		return mcp.NewToolResultError("profile parameter is required"), nil
	}

	uid := UserIDFromContext(ctx)

	detail, err := h.ds.GetPlan(ctx, id, uid)
	if err != nil {
		h.log.Error("mcp normalize_plan", "id", idStr, "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	intervals, err := export.FromRecords(export.FromIntervalRows(detail.Intervals))
	if err != nil {
		return mcp.NewToolResultError("stored intervals are inconsistent: " + err.Error()), nil
	}

	parsed := &models.WorkoutResult{Intervals: intervals}
	parsed.Counts()

	normalized, err := h.profiles.Apply(parsed, profile)
	if err != nil {
		return mcp.NewToolResultError("normalize failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(map[string]any{
		"plan_id":   detail.ID,
		"code":      detail.Code,
		"profile":   profile,
		"intervals": normalized.Intervals,
		"per_phase": normalized.PerPhase,
		"total":     normalized.Total,
	})
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}
