package domain

import (
	"time"

	sharedDomain "github.com/felixgeelhaar/pacer/internal/shared/domain"
	"github.com/google/uuid"
)

const (
	projectAggregateType  = "Project"
	taskAggregateType     = "Task"
	snapshotAggregateType = "WeeklySnapshot"
)

// Routing keys of tracking events.
const (
	RoutingKeyProjectCreated    = "tracking.project.created"
	RoutingKeyProjectUpdated    = "tracking.project.updated"
	RoutingKeyProjectDeleted    = "tracking.project.deleted"
	RoutingKeyTaskCreated       = "tracking.task.created"
	RoutingKeyTaskUpdated       = "tracking.task.updated"
	RoutingKeyTaskDeleted       = "tracking.task.deleted"
	RoutingKeyTaskStatusChanged = "tracking.task.status_changed"
	RoutingKeySnapshotUpserted  = "tracking.snapshot.upserted"
	RoutingKeySnapshotDeleted   = "tracking.snapshot.deleted"
)

// ProjectCreated is emitted when a project is created.
type ProjectCreated struct {
	sharedDomain.BaseEvent
	ProjectID uuid.UUID `json:"project_id"`
	Name      string    `json:"name"`
	Category  string    `json:"category"`
}

// NewProjectCreated creates a ProjectCreated event.
func NewProjectCreated(p *Project, now time.Time) *ProjectCreated {
	return &ProjectCreated{
		BaseEvent: sharedDomain.NewBaseEvent(p.ID(), projectAggregateType, RoutingKeyProjectCreated, now),
		ProjectID: p.ID(),
		Name:      p.Name(),
		Category:  p.Category(),
	}
}

// ProjectUpdated is emitted when project details change.
type ProjectUpdated struct {
	sharedDomain.BaseEvent
	ProjectID uuid.UUID `json:"project_id"`
	Name      string    `json:"name"`
	Category  string    `json:"category"`
}

// NewProjectUpdated creates a ProjectUpdated event.
func NewProjectUpdated(p *Project, now time.Time) *ProjectUpdated {
	return &ProjectUpdated{
		BaseEvent: sharedDomain.NewBaseEvent(p.ID(), projectAggregateType, RoutingKeyProjectUpdated, now),
		ProjectID: p.ID(),
		Name:      p.Name(),
		Category:  p.Category(),
	}
}

// ProjectDeleted is emitted when a project and its tasks are removed.
type ProjectDeleted struct {
	sharedDomain.BaseEvent
	ProjectID    uuid.UUID `json:"project_id"`
	DeletedTasks int       `json:"deleted_tasks"`
}

// NewProjectDeleted creates a ProjectDeleted event.
func NewProjectDeleted(p *Project, deletedTasks int, now time.Time) *ProjectDeleted {
	return &ProjectDeleted{
		BaseEvent:    sharedDomain.NewBaseEvent(p.ID(), projectAggregateType, RoutingKeyProjectDeleted, now),
		ProjectID:    p.ID(),
		DeletedTasks: deletedTasks,
	}
}

// TaskCreated is emitted when a task is created.
type TaskCreated struct {
	sharedDomain.BaseEvent
	TaskID          uuid.UUID `json:"task_id"`
	ProjectID       uuid.UUID `json:"project_id"`
	Name            string    `json:"name"`
	Weight          float64   `json:"weight"`
	PlannedProgress float64   `json:"planned_progress"`
	Status          Status    `json:"status"`
}

// NewTaskCreated creates a TaskCreated event.
func NewTaskCreated(t *Task, now time.Time) *TaskCreated {
	return &TaskCreated{
		BaseEvent:       sharedDomain.NewBaseEvent(t.ID(), taskAggregateType, RoutingKeyTaskCreated, now),
		TaskID:          t.ID(),
		ProjectID:       t.ProjectID(),
		Name:            t.Name(),
		Weight:          t.Weight(),
		PlannedProgress: t.PlannedProgress(),
		Status:          t.Status(),
	}
}

// TaskUpdated is emitted after every task update.
type TaskUpdated struct {
	sharedDomain.BaseEvent
	TaskID          uuid.UUID `json:"task_id"`
	ProjectID       uuid.UUID `json:"project_id"`
	PlannedProgress float64   `json:"planned_progress"`
	ActualProgress  float64   `json:"actual_progress"`
	DelayDays       int       `json:"delay_days"`
	Status          Status    `json:"status"`
}

// NewTaskUpdated creates a TaskUpdated event.
func NewTaskUpdated(t *Task, now time.Time) *TaskUpdated {
	return &TaskUpdated{
		BaseEvent:       sharedDomain.NewBaseEvent(t.ID(), taskAggregateType, RoutingKeyTaskUpdated, now),
		TaskID:          t.ID(),
		ProjectID:       t.ProjectID(),
		PlannedProgress: t.PlannedProgress(),
		ActualProgress:  t.ActualProgress(),
		DelayDays:       t.DelayDays(),
		Status:          t.Status(),
	}
}

// TaskStatusChanged is emitted when an update changes the derived status.
type TaskStatusChanged struct {
	sharedDomain.BaseEvent
	TaskID     uuid.UUID `json:"task_id"`
	ProjectID  uuid.UUID `json:"project_id"`
	FromStatus Status    `json:"from_status"`
	ToStatus   Status    `json:"to_status"`
}

// NewTaskStatusChanged creates a TaskStatusChanged event.
func NewTaskStatusChanged(t *Task, from Status, now time.Time) *TaskStatusChanged {
	return &TaskStatusChanged{
		BaseEvent:  sharedDomain.NewBaseEvent(t.ID(), taskAggregateType, RoutingKeyTaskStatusChanged, now),
		TaskID:     t.ID(),
		ProjectID:  t.ProjectID(),
		FromStatus: from,
		ToStatus:   t.Status(),
	}
}

// TaskDeleted is emitted when a task is removed.
type TaskDeleted struct {
	sharedDomain.BaseEvent
	TaskID    uuid.UUID `json:"task_id"`
	ProjectID uuid.UUID `json:"project_id"`
}

// NewTaskDeleted creates a TaskDeleted event.
func NewTaskDeleted(t *Task, now time.Time) *TaskDeleted {
	return &TaskDeleted{
		BaseEvent: sharedDomain.NewBaseEvent(t.ID(), taskAggregateType, RoutingKeyTaskDeleted, now),
		TaskID:    t.ID(),
		ProjectID: t.ProjectID(),
	}
}

// SnapshotUpserted is emitted when a weekly snapshot is created or patched.
type SnapshotUpserted struct {
	sharedDomain.BaseEvent
	SnapshotID     uuid.UUID  `json:"snapshot_id"`
	TaskID         uuid.UUID  `json:"task_id"`
	ProjectID      uuid.UUID  `json:"project_id"`
	Bucket         Bucket     `json:"bucket"`
	ActualStatus   WeekStatus `json:"actual_status"`
	ActualProgress float64    `json:"actual_progress"`
	Created        bool       `json:"created"`
}

// NewSnapshotUpserted creates a SnapshotUpserted event.
func NewSnapshotUpserted(s *WeeklySnapshot, created bool, now time.Time) *SnapshotUpserted {
	return &SnapshotUpserted{
		BaseEvent:      sharedDomain.NewBaseEvent(s.ID(), snapshotAggregateType, RoutingKeySnapshotUpserted, now),
		SnapshotID:     s.ID(),
		TaskID:         s.TaskID(),
		ProjectID:      s.ProjectID(),
		Bucket:         s.Bucket(),
		ActualStatus:   s.ActualStatus(),
		ActualProgress: s.ActualProgress(),
		Created:        created,
	}
}

// SnapshotDeleted is emitted when a weekly snapshot is removed.
type SnapshotDeleted struct {
	sharedDomain.BaseEvent
	SnapshotID uuid.UUID `json:"snapshot_id"`
	TaskID     uuid.UUID `json:"task_id"`
	ProjectID  uuid.UUID `json:"project_id"`
}

// NewSnapshotDeleted creates a SnapshotDeleted event.
func NewSnapshotDeleted(s *WeeklySnapshot, now time.Time) *SnapshotDeleted {
	return &SnapshotDeleted{
		BaseEvent:  sharedDomain.NewBaseEvent(s.ID(), snapshotAggregateType, RoutingKeySnapshotDeleted, now),
		SnapshotID: s.ID(),
		TaskID:     s.TaskID(),
		ProjectID:  s.ProjectID(),
	}
}
