package queries

import (
	"context"
	"fmt"
	"time"

	"github.com/felixgeelhaar/pacer/internal/projects/domain"
	sharedApplication "github.com/felixgeelhaar/pacer/internal/shared/application"
	"github.com/felixgeelhaar/pacer/internal/shared/infrastructure/cache"
	"github.com/google/uuid"
)

// portfolioLoader reads every project with its tasks.
type portfolioLoader struct {
	projectRepo domain.ProjectRepository
	taskRepo    domain.TaskRepository
}

func (l portfolioLoader) load(ctx context.Context) ([]domain.ProjectTasks, map[uuid.UUID][]*domain.Task, error) {
	projects, err := l.projectRepo.FindAll(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load projects: %w", err)
	}
	if len(projects) == 0 {
		return []domain.ProjectTasks{}, map[uuid.UUID][]*domain.Task{}, nil
	}

	ids := make([]uuid.UUID, 0, len(projects))
	for _, p := range projects {
		ids = append(ids, p.ID())
	}
	tasks, err := l.taskRepo.FindByProjects(ctx, ids)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load tasks: %w", err)
	}

	byProject := make(map[uuid.UUID][]*domain.Task, len(projects))
	for _, t := range tasks {
		byProject[t.ProjectID()] = append(byProject[t.ProjectID()], t)
	}

	out := make([]domain.ProjectTasks, 0, len(projects))
	for _, p := range projects {
		out = append(out, domain.ProjectTasks{
			ProjectID: p.ID(),
			Name:      p.Name(),
			Category:  p.Category(),
			Tasks:     taskStates(byProject[p.ID()]),
		})
	}
	return out, byProject, nil
}

// GetProjectMetricsHandler computes the earned-value rollup of a project.
type GetProjectMetricsHandler struct {
	projectRepo domain.ProjectRepository
	taskRepo    domain.TaskRepository
	clock       sharedApplication.Clock
}

// NewGetProjectMetricsHandler creates a new GetProjectMetricsHandler.
func NewGetProjectMetricsHandler(
	projectRepo domain.ProjectRepository,
	taskRepo domain.TaskRepository,
	clock sharedApplication.Clock,
) *GetProjectMetricsHandler {
	return &GetProjectMetricsHandler{projectRepo: projectRepo, taskRepo: taskRepo, clock: clock}
}

// Handle fails with ErrProjectNotFound for unknown projects. A failed task
// read fails the whole query.
func (h *GetProjectMetricsHandler) Handle(ctx context.Context, projectID uuid.UUID) (*domain.ProjectMetrics, error) {
	if _, err := h.projectRepo.FindByID(ctx, projectID); err != nil {
		return nil, err
	}
	tasks, err := h.taskRepo.FindByProject(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to load tasks: %w", err)
	}

	m := domain.ComputeProjectMetrics(taskStates(tasks), h.clock.Now())
	return &m, nil
}

// ListAlertsQuery optionally scopes alerts to one project.
type ListAlertsQuery struct {
	ProjectID *uuid.UUID
}

// ListAlertsHandler evaluates the alert rules. Portfolio-wide results are
// cached; project-scoped results are always computed fresh.
type ListAlertsHandler struct {
	portfolio portfolioLoader
	cache     cache.Cache
	ttl       time.Duration
	clock     sharedApplication.Clock
}

// NewListAlertsHandler creates a new ListAlertsHandler. A nil cache disables caching.
func NewListAlertsHandler(
	projectRepo domain.ProjectRepository,
	taskRepo domain.TaskRepository,
	c cache.Cache,
	ttl time.Duration,
	clock sharedApplication.Clock,
) *ListAlertsHandler {
	return &ListAlertsHandler{
		portfolio: portfolioLoader{projectRepo: projectRepo, taskRepo: taskRepo},
		cache:     c,
		ttl:       ttl,
		clock:     clock,
	}
}

// Handle returns the alerts ordered by severity.
func (h *ListAlertsHandler) Handle(ctx context.Context, query ListAlertsQuery) ([]domain.Alert, error) {
	if query.ProjectID != nil {
		return h.forProject(ctx, *query.ProjectID)
	}
	return cache.GetOrLoad(ctx, h.cache, cache.KeyPortfolioAlerts, h.ttl, h.forPortfolio)
}

func (h *ListAlertsHandler) forProject(ctx context.Context, projectID uuid.UUID) ([]domain.Alert, error) {
	project, err := h.portfolio.projectRepo.FindByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	tasks, err := h.portfolio.taskRepo.FindByProject(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to load tasks: %w", err)
	}
	return domain.EvaluateAlerts(alertSubjects(project.Name(), tasks), h.clock.Now()), nil
}

func (h *ListAlertsHandler) forPortfolio(ctx context.Context) ([]domain.Alert, error) {
	projects, byProject, err := h.portfolio.load(ctx)
	if err != nil {
		return nil, err
	}

	var subjects []domain.AlertSubject
	for _, p := range projects {
		subjects = append(subjects, alertSubjects(p.Name, byProject[p.ProjectID])...)
	}
	return domain.EvaluateAlerts(subjects, h.clock.Now()), nil
}

func alertSubjects(projectName string, tasks []*domain.Task) []domain.AlertSubject {
	out := make([]domain.AlertSubject, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, domain.AlertSubject{
			TaskID:      t.ID(),
			ProjectName: projectName,
			Task:        t.State(),
		})
	}
	return out
}

// GetKPIsHandler computes portfolio KPIs through the cache.
type GetKPIsHandler struct {
	portfolio portfolioLoader
	cache     cache.Cache
	ttl       time.Duration
}

// NewGetKPIsHandler creates a new GetKPIsHandler.
func NewGetKPIsHandler(
	projectRepo domain.ProjectRepository,
	taskRepo domain.TaskRepository,
	c cache.Cache,
	ttl time.Duration,
) *GetKPIsHandler {
	return &GetKPIsHandler{
		portfolio: portfolioLoader{projectRepo: projectRepo, taskRepo: taskRepo},
		cache:     c,
		ttl:       ttl,
	}
}

// Handle executes the query.
func (h *GetKPIsHandler) Handle(ctx context.Context) (domain.PortfolioKPIs, error) {
	return cache.GetOrLoad(ctx, h.cache, cache.KeyPortfolioKPIs, h.ttl, func(ctx context.Context) (domain.PortfolioKPIs, error) {
		projects, _, err := h.portfolio.load(ctx)
		if err != nil {
			return domain.PortfolioKPIs{}, err
		}
		return domain.ComputeKPIs(projects), nil
	})
}

// GetPortfolioSummaryHandler summarizes every project through the cache.
type GetPortfolioSummaryHandler struct {
	portfolio portfolioLoader
	cache     cache.Cache
	ttl       time.Duration
}

// NewGetPortfolioSummaryHandler creates a new GetPortfolioSummaryHandler.
func NewGetPortfolioSummaryHandler(
	projectRepo domain.ProjectRepository,
	taskRepo domain.TaskRepository,
	c cache.Cache,
	ttl time.Duration,
) *GetPortfolioSummaryHandler {
	return &GetPortfolioSummaryHandler{
		portfolio: portfolioLoader{projectRepo: projectRepo, taskRepo: taskRepo},
		cache:     c,
		ttl:       ttl,
	}
}

// Handle executes the query.
func (h *GetPortfolioSummaryHandler) Handle(ctx context.Context) ([]domain.ProjectSummary, error) {
	return cache.GetOrLoad(ctx, h.cache, cache.KeyPortfolioSummary, h.ttl, func(ctx context.Context) ([]domain.ProjectSummary, error) {
		projects, _, err := h.portfolio.load(ctx)
		if err != nil {
			return nil, err
		}
		return domain.SummarizePortfolio(projects), nil
	})
}
