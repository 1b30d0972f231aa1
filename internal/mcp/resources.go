package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
)

// --- Resource handlers ---

// recentPlans returns plans ingested in the last 30 days.
func (h *handlers) recentPlans(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	end := time.Now()
	start := end.AddDate(0, 0, -30)
	uid := UserIDFromContext(ctx)

	plans, err := h.ds.QueryPlans(ctx, start, end, uid)
	if err != nil {
		h.log.Error("mcp recent_plans resource", "error", err)
		return nil, fmt.Errorf("querying plans: %w", err)
	}

	data, err := json.MarshalIndent(plans, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding plans: %w", err)
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

// profileCatalog lists every registered normalization profile in full,
// including replacement blocks and target offsets.
func (h *handlers) profileCatalog(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	names := h.profiles.Names()
	catalog := make([]any, 0, len(names))
	for _, name := range names {
		p, ok := h.profiles.Get(name)
		if !ok {
			continue
		}
		catalog = append(catalog, p)
	}

	data, err := json.MarshalIndent(catalog, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding profile catalog: %w", err)
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
