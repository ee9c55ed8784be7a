package mcp

import (
	"context"

	"github.com/felixgeelhaar/mcp-go"

	"github.com/felixgeelhaar/pacer/internal/projects/application/commands"
	"github.com/felixgeelhaar/pacer/internal/projects/application/queries"
	"github.com/felixgeelhaar/pacer/internal/projects/domain"
)

type projectCreateInput struct {
	Name        string `json:"name" jsonschema:"required"`
	Category    string `json:"category,omitempty"`
	Description string `json:"description,omitempty"`
}

type projectListInput struct {
	Page  int `json:"page,omitempty"`
	Limit int `json:"limit,omitempty"`
}

type projectIDInput struct {
	ProjectID string `json:"project_id" jsonschema:"required"`
}

type projectUpdateInput struct {
	ProjectID   string  `json:"project_id" jsonschema:"required"`
	Name        *string `json:"name,omitempty"`
	Category    *string `json:"category,omitempty"`
	Description *string `json:"description,omitempty"`
}

func registerProjectTools(srv *mcp.Server, t *toolset) {
	srv.Tool("project.create").
		Description("Create a project").
		Handler(timed(t, "project.create", t.createProject))

	srv.Tool("project.list").
		Description("List projects, one page at a time").
		Handler(timed(t, "project.list", t.listProjects))

	srv.Tool("project.get").
		Description("Get a project with its tasks").
		Handler(timed(t, "project.get", t.getProject))

	srv.Tool("project.update").
		Description("Update a project's name, category or description").
		Handler(timed(t, "project.update", t.updateProject))

	srv.Tool("project.delete").
		Description("Delete a project together with its tasks and snapshots").
		Handler(timed(t, "project.delete", t.deleteProject))

	srv.Tool("project.metrics").
		Description("Earned-value metrics for a project").
		Handler(timed(t, "project.metrics", t.projectMetrics))
}

func (t *toolset) createProject(ctx context.Context, input projectCreateInput) (*commands.CreateProjectResult, error) {
	if t.app.CreateProjectHandler == nil {
		return nil, errNoDatabase
	}
	return t.app.CreateProjectHandler.Handle(ctx, commands.CreateProjectCommand{
		Name:        input.Name,
		Category:    input.Category,
		Description: input.Description,
	})
}

func (t *toolset) listProjects(ctx context.Context, input projectListInput) ([]queries.ProjectDTO, error) {
	if t.app.ListProjectsHandler == nil {
		return nil, errNoDatabase
	}
	return t.app.ListProjectsHandler.Handle(ctx, queries.ListProjectsQuery{Page: input.Page, Limit: input.Limit})
}

func (t *toolset) getProject(ctx context.Context, input projectIDInput) (*queries.ProjectWithTasksDTO, error) {
	id, err := parseUUID("project_id", input.ProjectID)
	if err != nil {
		return nil, err
	}
	return t.app.GetProjectHandler.Handle(ctx, id)
}

func (t *toolset) updateProject(ctx context.Context, input projectUpdateInput) (map[string]any, error) {
	id, err := parseUUID("project_id", input.ProjectID)
	if err != nil {
		return nil, err
	}
	if err := t.app.UpdateProjectHandler.Handle(ctx, commands.UpdateProjectCommand{
		ProjectID:   id,
		Name:        input.Name,
		Category:    input.Category,
		Description: input.Description,
	}); err != nil {
		return nil, err
	}
	return map[string]any{"project_id": id, "updated": true}, nil
}

func (t *toolset) deleteProject(ctx context.Context, input projectIDInput) (*commands.DeleteProjectResult, error) {
	id, err := parseUUID("project_id", input.ProjectID)
	if err != nil {
		return nil, err
	}
	return t.app.DeleteProjectHandler.Handle(ctx, commands.DeleteProjectCommand{ProjectID: id})
}

func (t *toolset) projectMetrics(ctx context.Context, input projectIDInput) (*domain.ProjectMetrics, error) {
	id, err := parseUUID("project_id", input.ProjectID)
	if err != nil {
		return nil, err
	}
	return t.app.GetProjectMetricsHandler.Handle(ctx, id)
}
