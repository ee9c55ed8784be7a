package queries

import (
	"context"

	"github.com/felixgeelhaar/pacer/internal/projects/domain"
	"github.com/google/uuid"
)

// ProjectWithTasksDTO is a project together with its ordered tasks.
type ProjectWithTasksDTO struct {
	ProjectDTO
	Tasks []TaskDTO `json:"tasks"`
}

// GetProjectHandler loads a project with its tasks.
type GetProjectHandler struct {
	projectRepo domain.ProjectRepository
	taskRepo    domain.TaskRepository
}

// NewGetProjectHandler creates a new GetProjectHandler.
func NewGetProjectHandler(projectRepo domain.ProjectRepository, taskRepo domain.TaskRepository) *GetProjectHandler {
	return &GetProjectHandler{projectRepo: projectRepo, taskRepo: taskRepo}
}

// Handle returns ErrProjectNotFound for unknown projects.
func (h *GetProjectHandler) Handle(ctx context.Context, projectID uuid.UUID) (*ProjectWithTasksDTO, error) {
	project, err := h.projectRepo.FindByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	tasks, err := h.taskRepo.FindByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	return &ProjectWithTasksDTO{
		ProjectDTO: ToProjectDTO(project),
		Tasks:      toTaskDTOs(tasks),
	}, nil
}

// ListProjectsQuery selects a page of projects.
type ListProjectsQuery struct {
	Page  int
	Limit int
}

// ListProjectsHandler handles the ListProjectsQuery.
type ListProjectsHandler struct {
	projectRepo domain.ProjectRepository
}

// NewListProjectsHandler creates a new ListProjectsHandler.
func NewListProjectsHandler(projectRepo domain.ProjectRepository) *ListProjectsHandler {
	return &ListProjectsHandler{projectRepo: projectRepo}
}

// Handle returns projects newest first.
func (h *ListProjectsHandler) Handle(ctx context.Context, query ListProjectsQuery) ([]ProjectDTO, error) {
	page := domain.Page{Number: query.Page, Limit: query.Limit}.Normalize()
	projects, err := h.projectRepo.List(ctx, page)
	if err != nil {
		return nil, err
	}

	out := make([]ProjectDTO, 0, len(projects))
	for _, p := range projects {
		out = append(out, ToProjectDTO(p))
	}
	return out, nil
}

// GetTaskHandler loads a single task.
type GetTaskHandler struct {
	taskRepo domain.TaskRepository
}

// NewGetTaskHandler creates a new GetTaskHandler.
func NewGetTaskHandler(taskRepo domain.TaskRepository) *GetTaskHandler {
	return &GetTaskHandler{taskRepo: taskRepo}
}

// Handle returns ErrTaskNotFound for unknown tasks.
func (h *GetTaskHandler) Handle(ctx context.Context, taskID uuid.UUID) (*TaskDTO, error) {
	task, err := h.taskRepo.FindByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	dto := ToTaskDTO(task)
	return &dto, nil
}

// ListTasksHandler lists the tasks of one project.
type ListTasksHandler struct {
	projectRepo domain.ProjectRepository
	taskRepo    domain.TaskRepository
}

// NewListTasksHandler creates a new ListTasksHandler.
func NewListTasksHandler(projectRepo domain.ProjectRepository, taskRepo domain.TaskRepository) *ListTasksHandler {
	return &ListTasksHandler{projectRepo: projectRepo, taskRepo: taskRepo}
}

// Handle returns the tasks ordered by order index, then creation time.
func (h *ListTasksHandler) Handle(ctx context.Context, projectID uuid.UUID) ([]TaskDTO, error) {
	if _, err := h.projectRepo.FindByID(ctx, projectID); err != nil {
		return nil, err
	}
	tasks, err := h.taskRepo.FindByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	return toTaskDTOs(tasks), nil
}
