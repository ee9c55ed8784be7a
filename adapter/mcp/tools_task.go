package mcp

import (
	"context"

	"github.com/felixgeelhaar/mcp-go"

	"github.com/felixgeelhaar/pacer/internal/projects/application/commands"
	"github.com/felixgeelhaar/pacer/internal/projects/application/queries"
	"github.com/felixgeelhaar/pacer/internal/projects/domain"
)

type taskCreateInput struct {
	ProjectID       string  `json:"project_id" jsonschema:"required"`
	Name            string  `json:"name" jsonschema:"required"`
	Responsible     string  `json:"responsible,omitempty"`
	Weight          float64 `json:"weight,omitempty"`
	PlannedProgress float64 `json:"planned_progress,omitempty"`
	EstimatedDate   string  `json:"estimated_date,omitempty"`
	Comments        string  `json:"comments,omitempty"`
	Evidence        string  `json:"evidence,omitempty"`
	Priority        int     `json:"priority,omitempty"`
	ParentTaskID    string  `json:"parent_task_id,omitempty"`
	OrderIndex      int     `json:"order_index,omitempty"`
	IsMacroProcess  bool    `json:"is_macro_process,omitempty"`
}

// taskUpdateInput leaves absent fields unchanged. Dates use YYYY-MM-DD.
type taskUpdateInput struct {
	TaskID           string   `json:"task_id" jsonschema:"required"`
	Name             *string  `json:"name,omitempty"`
	Responsible      *string  `json:"responsible,omitempty"`
	Weight           *float64 `json:"weight,omitempty"`
	PlannedProgress  *float64 `json:"planned_progress,omitempty"`
	ActualProgress   *float64 `json:"actual_progress,omitempty"`
	EstimatedDate    string   `json:"estimated_date,omitempty"`
	RealDeliveryDate string   `json:"real_delivery_date,omitempty"`
	DelayDays        *int     `json:"delay_days,omitempty"`
	Comments         *string  `json:"comments,omitempty"`
	Evidence         *string  `json:"evidence,omitempty"`
	Priority         *int     `json:"priority,omitempty"`
	ParentTaskID     string   `json:"parent_task_id,omitempty"`
	OrderIndex       *int     `json:"order_index,omitempty"`
	IsMacroProcess   *bool    `json:"is_macro_process,omitempty"`
}

type taskListInput struct {
	ProjectID string `json:"project_id" jsonschema:"required"`
	Status    string `json:"status,omitempty"`
}

type taskIDInput struct {
	TaskID string `json:"task_id" jsonschema:"required"`
}

func registerTaskTools(srv *mcp.Server, t *toolset) {
	srv.Tool("task.create").
		Description("Create a task in a project; status is derived from progress and dates").
		Handler(timed(t, "task.create", t.createTask))

	srv.Tool("task.update").
		Description("Update task fields and recompute its status and delay").
		Handler(timed(t, "task.update", t.updateTask))

	srv.Tool("task.list").
		Description("List a project's tasks, optionally filtered by status").
		Handler(timed(t, "task.list", t.listTasks))

	srv.Tool("task.get").
		Description("Get a task").
		Handler(timed(t, "task.get", t.getTask))

	srv.Tool("task.delete").
		Description("Delete a task and its snapshots").
		Handler(timed(t, "task.delete", t.deleteTask))
}

func (t *toolset) createTask(ctx context.Context, input taskCreateInput) (*commands.CreateTaskResult, error) {
	if t.app.CreateTaskHandler == nil {
		return nil, errNoDatabase
	}
	projectID, err := parseUUID("project_id", input.ProjectID)
	if err != nil {
		return nil, err
	}
	parentID, err := parseOptionalUUID("parent_task_id", input.ParentTaskID)
	if err != nil {
		return nil, err
	}
	estimated, err := parseOptionalDate(input.EstimatedDate)
	if err != nil {
		return nil, err
	}

	weight := input.Weight
	if weight == 0 {
		weight = 1
	}
	return t.app.CreateTaskHandler.Handle(ctx, commands.CreateTaskCommand{
		ProjectID:       projectID,
		Name:            input.Name,
		Responsible:     input.Responsible,
		Weight:          weight,
		PlannedProgress: input.PlannedProgress,
		EstimatedDate:   estimated,
		Comments:        input.Comments,
		Evidence:        input.Evidence,
		Priority:        input.Priority,
		ParentTaskID:    parentID,
		OrderIndex:      input.OrderIndex,
		IsMacroProcess:  input.IsMacroProcess,
	})
}

func (t *toolset) updateTask(ctx context.Context, input taskUpdateInput) (*commands.UpdateTaskResult, error) {
	taskID, err := parseUUID("task_id", input.TaskID)
	if err != nil {
		return nil, err
	}
	cmd := commands.UpdateTaskCommand{
		TaskID:          taskID,
		Name:            input.Name,
		Responsible:     input.Responsible,
		Weight:          input.Weight,
		PlannedProgress: input.PlannedProgress,
		ActualProgress:  input.ActualProgress,
		DelayDays:       input.DelayDays,
		Comments:        input.Comments,
		Evidence:        input.Evidence,
		Priority:        input.Priority,
		OrderIndex:      input.OrderIndex,
		IsMacroProcess:  input.IsMacroProcess,
	}
	if cmd.EstimatedDate, err = parseOptionalDate(input.EstimatedDate); err != nil {
		return nil, err
	}
	if cmd.RealDeliveryDate, err = parseOptionalDate(input.RealDeliveryDate); err != nil {
		return nil, err
	}
	if cmd.ParentTaskID, err = parseOptionalUUID("parent_task_id", input.ParentTaskID); err != nil {
		return nil, err
	}
	return t.app.UpdateTaskHandler.Handle(ctx, cmd)
}

func (t *toolset) listTasks(ctx context.Context, input taskListInput) ([]queries.TaskDTO, error) {
	projectID, err := parseUUID("project_id", input.ProjectID)
	if err != nil {
		return nil, err
	}
	tasks, err := t.app.ListTasksHandler.Handle(ctx, projectID)
	if err != nil || input.Status == "" {
		return tasks, err
	}

	status, err := domain.ParseStatus(input.Status)
	if err != nil {
		return nil, err
	}
	kept := make([]queries.TaskDTO, 0, len(tasks))
	for _, task := range tasks {
		if task.Status == status {
			kept = append(kept, task)
		}
	}
	return kept, nil
}

func (t *toolset) getTask(ctx context.Context, input taskIDInput) (*queries.TaskDTO, error) {
	taskID, err := parseUUID("task_id", input.TaskID)
	if err != nil {
		return nil, err
	}
	return t.app.GetTaskHandler.Handle(ctx, taskID)
}

func (t *toolset) deleteTask(ctx context.Context, input taskIDInput) (map[string]any, error) {
	taskID, err := parseUUID("task_id", input.TaskID)
	if err != nil {
		return nil, err
	}
	if err := t.app.DeleteTaskHandler.Handle(ctx, commands.DeleteTaskCommand{TaskID: taskID}); err != nil {
		return nil, err
	}
	return map[string]any{"task_id": taskID, "deleted": true}, nil
}
