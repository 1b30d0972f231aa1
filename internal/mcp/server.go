package mcp

import (
	"context"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/meltforce/planfit/internal/normalize"
)

type contextKey int

const userIDKey contextKey = iota

// UserIDFromContext extracts the user ID injected by the transport layer.
func UserIDFromContext(ctx context.Context) int {
	if id, ok := ctx.Value(userIDKey).(int); ok {
		return id
	}
	return 1
}

// WithUserID returns a context with the given user ID.
func WithUserID(ctx context.Context, userID int) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// New creates an MCP server with all tools and resources registered.
func New(ds DataSource, profiles *normalize.Registry, version string, log *slog.Logger) *server.MCPServer {
	s := server.NewMCPServer("PlanFit", version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithInstructions("PlanFit training-plan server. Parse coach-authored plan text into interval sequences, inspect stored plans and their parse findings, and apply device correction profiles."),
	)

	h := &handlers{ds: ds, profiles: profiles, log: log}

	// Tools
	s.AddTools(
		server.ServerTool{Tool: toolParsePlan, Handler: h.parsePlan},
		server.ServerTool{Tool: toolListPlans, Handler: h.listPlans},
		server.ServerTool{Tool: toolGetPlan, Handler: h.getPlan},
		server.ServerTool{Tool: toolNormalizePlan, Handler: h.normalizePlan},
	)

	// Resources
	s.AddResources(
		server.ServerResource{Resource: resRecentPlans, Handler: h.recentPlans},
		server.ServerResource{Resource: resProfileCatalog, Handler: h.profileCatalog},
	)

	return s
}

// handlers holds dependencies for MCP tool/resource handlers.
type handlers struct {
	ds       DataSource
	profiles *normalize.Registry
	log      *slog.Logger
}

// --- Resource definitions ---

var resRecentPlans = mcp.NewResource(
	"planfit://recent_plans",
	"Recent Plans",
	mcp.WithResourceDescription("Training plans ingested in the last 30 days, with interval and finding counts"),
	mcp.WithMIMEType("application/json"),
)

var resProfileCatalog = mcp.NewResource(
	"planfit://profile_catalog",
	"Profile Catalog",
	mcp.WithResourceDescription("All registered normalization profiles with their replacement blocks and target offsets"),
	mcp.WithMIMEType("application/json"),
)
