package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/felixgeelhaar/mcp-go"

	"github.com/felixgeelhaar/pacer/internal/projects/application/queries"
)

// RegisterResources registers read-only views of the portfolio.
func RegisterResources(srv *mcp.Server, deps ToolDependencies) error {
	if srv == nil {
		return fmt.Errorf("server is required")
	}
	if deps.App == nil {
		return fmt.Errorf("app is required")
	}
	app := deps.App

	resources := []struct {
		uri         string
		name        string
		description string
		load        func(ctx context.Context) (any, error)
	}{
		{
			uri:         "pacer://projects",
			name:        "Projects",
			description: "First page of projects",
			load: func(ctx context.Context) (any, error) {
				return app.ListProjectsHandler.Handle(ctx, queries.ListProjectsQuery{})
			},
		},
		{
			uri:         "pacer://alerts",
			name:        "Alerts",
			description: "Portfolio alerts, most severe first",
			load: func(ctx context.Context) (any, error) {
				return app.ListAlertsHandler.Handle(ctx, queries.ListAlertsQuery{})
			},
		},
		{
			uri:         "pacer://kpis",
			name:        "Portfolio KPIs",
			description: "Project counts, average progress and total delay",
			load: func(ctx context.Context) (any, error) {
				return app.GetKPIsHandler.Handle(ctx)
			},
		},
		{
			uri:         "pacer://summary",
			name:        "Portfolio Summary",
			description: "Weighted progress and status counts per project",
			load: func(ctx context.Context) (any, error) {
				return app.GetPortfolioSummaryHandler.Handle(ctx)
			},
		},
		{
			uri:         "pacer://weeks/current",
			name:        "Current Week",
			description: "The current week bucket and this month's calendar for every project",
			load: func(ctx context.Context) (any, error) {
				return app.CurrentWeekHandler.Handle(ctx, nil)
			},
		},
		{
			uri:         "pacer://weeks/current/trends",
			name:        "Current Week Trends",
			description: "Per-project summaries for the current week",
			load: func(ctx context.Context) (any, error) {
				return app.WeeklyTrendsHandler.Handle(ctx, app.CurrentWeekHandler.Bucket())
			},
		},
	}

	for _, r := range resources {
		load := r.load
		srv.Resource(r.uri).
			Name(r.name).
			Description(r.description).
			MimeType("application/json").
			Handler(func(ctx context.Context, uri string, params map[string]string) (*mcp.ResourceContent, error) {
				v, err := load(ctx)
				if err != nil {
					return nil, err
				}
				return jsonResource(uri, v)
			})
	}
	return nil
}

func jsonResource(uri string, v any) (*mcp.ResourceContent, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}
	return &mcp.ResourceContent{
		URI:      uri,
		MimeType: "application/json",
		Text:     string(data),
	}, nil
}
