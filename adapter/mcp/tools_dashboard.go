package mcp

import (
	"context"

	"github.com/felixgeelhaar/mcp-go"

	"github.com/felixgeelhaar/pacer/internal/projects/application/queries"
	"github.com/felixgeelhaar/pacer/internal/projects/domain"
)

type alertsInput struct {
	ProjectID string `json:"project_id,omitempty"`
	Severity  string `json:"severity,omitempty"`
}

func registerDashboardTools(srv *mcp.Server, t *toolset) {
	srv.Tool("dashboard.alerts").
		Description("Alerts for overdue, critical and slipping tasks, most severe first").
		Handler(timed(t, "dashboard.alerts", t.alerts))

	srv.Tool("dashboard.kpis").
		Description("Portfolio KPIs across all projects").
		Handler(timed(t, "dashboard.kpis", t.kpis))

	srv.Tool("dashboard.summary").
		Description("Weighted progress and task status counts per project").
		Handler(timed(t, "dashboard.summary", t.portfolioSummary))
}

func (t *toolset) alerts(ctx context.Context, input alertsInput) ([]domain.Alert, error) {
	projectID, err := parseOptionalUUID("project_id", input.ProjectID)
	if err != nil {
		return nil, err
	}
	alerts, err := t.app.ListAlertsHandler.Handle(ctx, queries.ListAlertsQuery{ProjectID: projectID})
	if err != nil || input.Severity == "" {
		return alerts, err
	}

	kept := make([]domain.Alert, 0, len(alerts))
	for _, a := range alerts {
		if string(a.Severity) == input.Severity {
			kept = append(kept, a)
		}
	}
	return kept, nil
}

func (t *toolset) kpis(ctx context.Context, _ struct{}) (domain.PortfolioKPIs, error) {
	return t.app.GetKPIsHandler.Handle(ctx)
}

func (t *toolset) portfolioSummary(ctx context.Context, _ struct{}) ([]domain.ProjectSummary, error) {
	return t.app.GetPortfolioSummaryHandler.Handle(ctx)
}
