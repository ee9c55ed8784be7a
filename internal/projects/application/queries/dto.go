package queries

import (
	"time"

	"github.com/felixgeelhaar/pacer/internal/projects/domain"
	"github.com/google/uuid"
)

// ProjectDTO is a data transfer object for projects.
type ProjectDTO struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Category    string    `json:"category"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// TaskDTO is a data transfer object for tasks. Dates are YYYY-MM-DD.
type TaskDTO struct {
	ID               uuid.UUID     `json:"id"`
	ProjectID        uuid.UUID     `json:"projectId"`
	Name             string        `json:"name"`
	Responsible      string        `json:"responsible"`
	Weight           float64       `json:"weight"`
	PlannedProgress  float64       `json:"plannedProgress"`
	ActualProgress   float64       `json:"actualProgress"`
	Status           domain.Status `json:"status"`
	EstimatedDate    *string       `json:"estimatedDate"`
	RealDeliveryDate *string       `json:"realDeliveryDate"`
	DelayDays        int           `json:"delayDays"`
	Comments         string        `json:"comments"`
	Evidence         string        `json:"evidence"`
	Priority         int           `json:"priority"`
	ParentTaskID     *uuid.UUID    `json:"parentTaskId"`
	OrderIndex       int           `json:"orderIndex"`
	IsMacroProcess   bool          `json:"isMacroProcess"`
	CreatedAt        time.Time     `json:"createdAt"`
	UpdatedAt        time.Time     `json:"updatedAt"`
}

// SnapshotDTO is a data transfer object for weekly snapshots.
type SnapshotDTO struct {
	ID              uuid.UUID         `json:"id"`
	TaskID          uuid.UUID         `json:"taskId"`
	ProjectID       uuid.UUID         `json:"projectId"`
	Year            int               `json:"year"`
	Month           int               `json:"month"`
	Week            int               `json:"weekNumber"`
	PlannedStatus   domain.WeekStatus `json:"plannedStatus"`
	ActualStatus    domain.WeekStatus `json:"actualStatus"`
	PlannedProgress float64           `json:"plannedProgress"`
	ActualProgress  float64           `json:"actualProgress"`
	Comments        string            `json:"comments"`
	CreatedAt       time.Time         `json:"createdAt"`
	UpdatedAt       time.Time         `json:"updatedAt"`
}

// ToProjectDTO converts a project aggregate.
func ToProjectDTO(p *domain.Project) ProjectDTO {
	return ProjectDTO{
		ID:          p.ID(),
		Name:        p.Name(),
		Category:    p.Category(),
		Description: p.Description(),
		CreatedAt:   p.CreatedAt(),
		UpdatedAt:   p.UpdatedAt(),
	}
}

// ToTaskDTO converts a task aggregate.
func ToTaskDTO(t *domain.Task) TaskDTO {
	return TaskDTO{
		ID:               t.ID(),
		ProjectID:        t.ProjectID(),
		Name:             t.Name(),
		Responsible:      t.Responsible(),
		Weight:           t.Weight(),
		PlannedProgress:  t.PlannedProgress(),
		ActualProgress:   t.ActualProgress(),
		Status:           t.Status(),
		EstimatedDate:    formatOptionalDate(t.EstimatedDate()),
		RealDeliveryDate: formatOptionalDate(t.RealDeliveryDate()),
		DelayDays:        t.DelayDays(),
		Comments:         t.Comments(),
		Evidence:         t.Evidence(),
		Priority:         t.Priority(),
		ParentTaskID:     t.ParentTaskID(),
		OrderIndex:       t.OrderIndex(),
		IsMacroProcess:   t.IsMacroProcess(),
		CreatedAt:        t.CreatedAt(),
		UpdatedAt:        t.UpdatedAt(),
	}
}

// ToSnapshotDTO converts a weekly snapshot aggregate.
func ToSnapshotDTO(s *domain.WeeklySnapshot) SnapshotDTO {
	b := s.Bucket()
	return SnapshotDTO{
		ID:              s.ID(),
		TaskID:          s.TaskID(),
		ProjectID:       s.ProjectID(),
		Year:            b.Year,
		Month:           b.Month,
		Week:            b.Week,
		PlannedStatus:   s.PlannedStatus(),
		ActualStatus:    s.ActualStatus(),
		PlannedProgress: s.PlannedProgress(),
		ActualProgress:  s.ActualProgress(),
		Comments:        s.Comments(),
		CreatedAt:       s.CreatedAt(),
		UpdatedAt:       s.UpdatedAt(),
	}
}

func toTaskDTOs(tasks []*domain.Task) []TaskDTO {
	out := make([]TaskDTO, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, ToTaskDTO(t))
	}
	return out
}

func toSnapshotDTOs(snapshots []*domain.WeeklySnapshot) []SnapshotDTO {
	out := make([]SnapshotDTO, 0, len(snapshots))
	for _, s := range snapshots {
		out = append(out, ToSnapshotDTO(s))
	}
	return out
}

func taskStates(tasks []*domain.Task) []domain.TaskState {
	out := make([]domain.TaskState, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, t.State())
	}
	return out
}

func snapshotStates(snapshots []*domain.WeeklySnapshot) []domain.SnapshotState {
	out := make([]domain.SnapshotState, 0, len(snapshots))
	for _, s := range snapshots {
		out = append(out, s.State())
	}
	return out
}

func formatOptionalDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := domain.FormatDate(*t)
	return &s
}
