package cli

import (
	internalApp "github.com/felixgeelhaar/pacer/internal/app"
	"github.com/felixgeelhaar/pacer/internal/projects/application/commands"
	"github.com/felixgeelhaar/pacer/internal/projects/application/queries"
	"github.com/felixgeelhaar/pacer/pkg/observability"
)

// App holds the CLI application dependencies.
type App struct {
	// Project Command Handlers
	CreateProjectHandler *commands.CreateProjectHandler
	UpdateProjectHandler *commands.UpdateProjectHandler
	DeleteProjectHandler *commands.DeleteProjectHandler

	// Task Command Handlers
	CreateTaskHandler *commands.CreateTaskHandler
	UpdateTaskHandler *commands.UpdateTaskHandler
	DeleteTaskHandler *commands.DeleteTaskHandler

	// Snapshot Command Handlers
	UpsertSnapshotHandler *commands.UpsertSnapshotHandler
	DeleteSnapshotHandler *commands.DeleteSnapshotHandler

	// Query Handlers
	GetProjectHandler          *queries.GetProjectHandler
	ListProjectsHandler        *queries.ListProjectsHandler
	GetTaskHandler             *queries.GetTaskHandler
	ListTasksHandler           *queries.ListTasksHandler
	GetProjectMetricsHandler   *queries.GetProjectMetricsHandler
	ListAlertsHandler          *queries.ListAlertsHandler
	GetKPIsHandler             *queries.GetKPIsHandler
	GetPortfolioSummaryHandler *queries.GetPortfolioSummaryHandler
	GetCalendarHandler         *queries.GetCalendarHandler
	CurrentWeekHandler         *queries.CurrentWeekHandler
	ListSnapshotsHandler       *queries.ListSnapshotsHandler
	WeeklySummaryHandler       *queries.WeeklySummaryHandler
	WeeklyTrendsHandler        *queries.WeeklyTrendsHandler

	Health *observability.HealthRegistry

	// Container backs the long-running serve and mcp commands.
	Container *internalApp.Container
}

// NewApp creates a CLI application backed by the container's handlers.
func NewApp(c *internalApp.Container) *App {
	return &App{
		CreateProjectHandler:       c.CreateProjectHandler,
		UpdateProjectHandler:       c.UpdateProjectHandler,
		DeleteProjectHandler:       c.DeleteProjectHandler,
		CreateTaskHandler:          c.CreateTaskHandler,
		UpdateTaskHandler:          c.UpdateTaskHandler,
		DeleteTaskHandler:          c.DeleteTaskHandler,
		UpsertSnapshotHandler:      c.UpsertSnapshotHandler,
		DeleteSnapshotHandler:      c.DeleteSnapshotHandler,
		GetProjectHandler:          c.GetProjectHandler,
		ListProjectsHandler:        c.ListProjectsHandler,
		GetTaskHandler:             c.GetTaskHandler,
		ListTasksHandler:           c.ListTasksHandler,
		GetProjectMetricsHandler:   c.GetProjectMetricsHandler,
		ListAlertsHandler:          c.ListAlertsHandler,
		GetKPIsHandler:             c.GetKPIsHandler,
		GetPortfolioSummaryHandler: c.GetPortfolioSummaryHandler,
		GetCalendarHandler:         c.GetCalendarHandler,
		CurrentWeekHandler:         c.CurrentWeekHandler,
		ListSnapshotsHandler:       c.ListSnapshotsHandler,
		WeeklySummaryHandler:       c.WeeklySummaryHandler,
		WeeklyTrendsHandler:        c.WeeklyTrendsHandler,
		Health:                     c.Health,
		Container:                  c,
	}
}

var app *App

// SetApp sets the global CLI application instance.
func SetApp(a *App) {
	app = a
}

// GetApp returns the global CLI application instance.
func GetApp() *App {
	return app
}
