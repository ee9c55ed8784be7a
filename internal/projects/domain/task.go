package domain

import (
	"strings"
	"time"

	sharedDomain "github.com/felixgeelhaar/pacer/internal/shared/domain"
	"github.com/google/uuid"
)

const (
	// DefaultWeight is used when a task has no weight.
	DefaultWeight = 1.0
	// DefaultPriority is the priority of tasks created without one.
	DefaultPriority = 2

	minPriority = 1
	maxPriority = 3
)

// TaskState is an immutable record of a task's tracked fields.
// Status and DelayDays are derived and only change through ApplyTaskPatch.
type TaskState struct {
	ProjectID        uuid.UUID
	Name             string
	Responsible      string
	Weight           float64
	PlannedProgress  float64
	ActualProgress   float64
	Status           Status
	EstimatedDate    *time.Time
	RealDeliveryDate *time.Time
	DelayDays        int
	Comments         string
	Evidence         string
	Priority         int
	ParentTaskID     *uuid.UUID
	OrderIndex       int
	IsMacroProcess   bool
}

// TaskPatch is a partial update of a task. A nil field leaves the stored
// value unchanged.
type TaskPatch struct {
	Name             *string
	Responsible      *string
	Weight           *float64
	PlannedProgress  *float64
	ActualProgress   *float64
	EstimatedDate    *time.Time
	RealDeliveryDate *time.Time
	DelayDays        *int
	Comments         *string
	Evidence         *string
	Priority         *int
	ParentTaskID     *uuid.UUID
	OrderIndex       *int
	IsMacroProcess   *bool
}

// IsEmpty reports whether the patch supplies no fields.
func (p TaskPatch) IsEmpty() bool {
	return p == TaskPatch{}
}

// ApplyTaskPatch merges patch onto prior and re-derives delay and status as
// of now. An explicit DelayDays in the patch takes precedence over the value
// computed from the estimated date.
func ApplyTaskPatch(prior TaskState, patch TaskPatch, now time.Time) (TaskState, error) {
	next := prior
	next.EstimatedDate = copyTime(prior.EstimatedDate)
	next.RealDeliveryDate = copyTime(prior.RealDeliveryDate)

	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return prior, ErrEmptyName
		}
		next.Name = name
	}
	if patch.Weight != nil {
		weight, err := normalizeWeight(*patch.Weight)
		if err != nil {
			return prior, err
		}
		next.Weight = weight
	}
	if patch.Priority != nil {
		if err := validatePriority(*patch.Priority); err != nil {
			return prior, err
		}
		next.Priority = *patch.Priority
	}

	next.Responsible = coalesce(patch.Responsible, prior.Responsible)
	next.PlannedProgress = ClampProgress(coalesce(patch.PlannedProgress, prior.PlannedProgress))
	next.ActualProgress = ClampProgress(coalesce(patch.ActualProgress, prior.ActualProgress))
	next.Comments = coalesce(patch.Comments, prior.Comments)
	next.Evidence = coalesce(patch.Evidence, prior.Evidence)
	next.OrderIndex = coalesce(patch.OrderIndex, prior.OrderIndex)
	next.IsMacroProcess = coalesce(patch.IsMacroProcess, prior.IsMacroProcess)

	if patch.EstimatedDate != nil {
		next.EstimatedDate = copyTime(patch.EstimatedDate)
	}
	if patch.RealDeliveryDate != nil {
		next.RealDeliveryDate = copyTime(patch.RealDeliveryDate)
	}
	if patch.ParentTaskID != nil {
		parent := *patch.ParentTaskID
		next.ParentTaskID = &parent
	}

	if patch.DelayDays != nil {
		next.DelayDays = max(*patch.DelayDays, 0)
	} else {
		next.DelayDays = DelayDays(next.EstimatedDate, now)
	}

	next.Status = ClassifyStatus(next.PlannedProgress, next.ActualProgress, next.DelayDays)
	return next, nil
}

// ClampProgress limits a percentage to [0, 100].
func ClampProgress(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 100:
		return 100
	default:
		return v
	}
}

// EffectiveWeight returns the aggregation multiplier of a stored weight.
func EffectiveWeight(w float64) float64 {
	if w == 0 {
		return DefaultWeight
	}
	return w
}

func normalizeWeight(w float64) (float64, error) {
	if w < 0 {
		return 0, ErrNegativeWeight
	}
	return EffectiveWeight(w), nil
}

func validatePriority(p int) error {
	if p < minPriority || p > maxPriority {
		return ErrInvalidRange
	}
	return nil
}

func coalesce[T any](patch *T, prior T) T {
	if patch != nil {
		return *patch
	}
	return prior
}

// NewTaskParams holds the inputs for creating a task.
type NewTaskParams struct {
	ProjectID       uuid.UUID
	Name            string
	Responsible     string
	Weight          float64
	PlannedProgress float64
	EstimatedDate   *time.Time
	Comments        string
	Evidence        string
	Priority        int
	ParentTaskID    *uuid.UUID
	OrderIndex      int
	IsMacroProcess  bool
}

// Task is a weighted unit of work inside a project.
type Task struct {
	sharedDomain.BaseAggregateRoot
	state TaskState
}

// NewTask creates a task with no actual progress and no delay; its status is
// classified from the planned progress alone.
func NewTask(params NewTaskParams, now time.Time) (*Task, error) {
	if params.ProjectID == uuid.Nil {
		return nil, ErrProjectNotFound
	}
	name := strings.TrimSpace(params.Name)
	if name == "" {
		return nil, ErrEmptyName
	}
	weight, err := normalizeWeight(params.Weight)
	if err != nil {
		return nil, err
	}
	priority := params.Priority
	if priority == 0 {
		priority = DefaultPriority
	}
	if err := validatePriority(priority); err != nil {
		return nil, err
	}

	planned := ClampProgress(params.PlannedProgress)
	t := &Task{
		BaseAggregateRoot: sharedDomain.NewBaseAggregateRoot(now),
		state: TaskState{
			ProjectID:       params.ProjectID,
			Name:            name,
			Responsible:     params.Responsible,
			Weight:          weight,
			PlannedProgress: planned,
			ActualProgress:  0,
			Status:          ClassifyStatus(planned, 0, 0),
			EstimatedDate:   copyTime(params.EstimatedDate),
			DelayDays:       0,
			Comments:        params.Comments,
			Evidence:        params.Evidence,
			Priority:        priority,
			ParentTaskID:    params.ParentTaskID,
			OrderIndex:      params.OrderIndex,
			IsMacroProcess:  params.IsMacroProcess,
		},
	}

	t.AddDomainEvent(NewTaskCreated(t, now))
	return t, nil
}

// RehydrateTask recreates a task from persisted state.
func RehydrateTask(id uuid.UUID, createdAt, updatedAt time.Time, state TaskState) *Task {
	return &Task{
		BaseAggregateRoot: sharedDomain.RehydrateBaseAggregateRoot(
			sharedDomain.RehydrateBaseEntity(id, createdAt, updatedAt),
		),
		state: state,
	}
}

// Getters
func (t *Task) State() TaskState             { return t.state }
func (t *Task) ProjectID() uuid.UUID         { return t.state.ProjectID }
func (t *Task) Name() string                 { return t.state.Name }
func (t *Task) Responsible() string          { return t.state.Responsible }
func (t *Task) Weight() float64              { return t.state.Weight }
func (t *Task) PlannedProgress() float64     { return t.state.PlannedProgress }
func (t *Task) ActualProgress() float64      { return t.state.ActualProgress }
func (t *Task) Status() Status               { return t.state.Status }
func (t *Task) EstimatedDate() *time.Time    { return copyTime(t.state.EstimatedDate) }
func (t *Task) RealDeliveryDate() *time.Time { return copyTime(t.state.RealDeliveryDate) }
func (t *Task) DelayDays() int               { return t.state.DelayDays }
func (t *Task) Comments() string             { return t.state.Comments }
func (t *Task) Evidence() string             { return t.state.Evidence }
func (t *Task) Priority() int                { return t.state.Priority }
func (t *Task) ParentTaskID() *uuid.UUID     { return t.state.ParentTaskID }
func (t *Task) OrderIndex() int              { return t.state.OrderIndex }
func (t *Task) IsMacroProcess() bool         { return t.state.IsMacroProcess }

// Deviation is actual minus planned progress.
func (t *Task) Deviation() float64 {
	return t.state.ActualProgress - t.state.PlannedProgress
}

// Update applies a patch as of now, recording an update event and, when the
// derived status changes, a status-change event.
func (t *Task) Update(patch TaskPatch, now time.Time) error {
	if patch.ParentTaskID != nil && *patch.ParentTaskID == t.ID() {
		return ErrInvalidRange
	}

	prior := t.state
	next, err := ApplyTaskPatch(prior, patch, now)
	if err != nil {
		return err
	}

	t.state = next
	t.Touch(now)

	t.AddDomainEvent(NewTaskUpdated(t, now))
	if prior.Status != next.Status {
		t.AddDomainEvent(NewTaskStatusChanged(t, prior.Status, now))
	}
	return nil
}

// MarkDeleted records the deletion event for the task.
func (t *Task) MarkDeleted(now time.Time) {
	t.AddDomainEvent(NewTaskDeleted(t, now))
}
