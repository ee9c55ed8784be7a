package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, 3, 15, 10, 0, 0, 0, time.UTC)

func ptr[T any](v T) *T { return &v }

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func newTestTask(t *testing.T, planned float64) *Task {
	t.Helper()
	task, err := NewTask(NewTaskParams{
		ProjectID:       uuid.New(),
		Name:            "Install servers",
		Responsible:     "Ops",
		Weight:          2,
		PlannedProgress: planned,
	}, testNow)
	require.NoError(t, err)
	task.ClearDomainEvents()
	return task
}

func TestNewTask(t *testing.T) {
	projectID := uuid.New()
	estimated := date(2025, 4, 1)

	task, err := NewTask(NewTaskParams{
		ProjectID:       projectID,
		Name:            "  Wire network ",
		Responsible:     "Network team",
		PlannedProgress: 20,
		EstimatedDate:   &estimated,
	}, testNow)

	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, task.ID())
	assert.Equal(t, projectID, task.ProjectID())
	assert.Equal(t, "Wire network", task.Name())
	assert.Equal(t, DefaultWeight, task.Weight())
	assert.Equal(t, DefaultPriority, task.Priority())
	assert.Equal(t, 0.0, task.ActualProgress())
	assert.Equal(t, 0, task.DelayDays())
	assert.Equal(t, StatusDelayed, task.Status(), "0 actual against 20 planned deviates by more than 10")
	assert.Equal(t, estimated, *task.EstimatedDate())

	events := task.DomainEvents()
	require.Len(t, events, 1)
	assert.Equal(t, RoutingKeyTaskCreated, events[0].RoutingKey())
}

func TestNewTask_StatusFromPlannedOnly(t *testing.T) {
	task, err := NewTask(NewTaskParams{ProjectID: uuid.New(), Name: "x", PlannedProgress: 5}, testNow)
	require.NoError(t, err)
	assert.Equal(t, StatusInProgress, task.Status())

	task, err = NewTask(NewTaskParams{ProjectID: uuid.New(), Name: "x", PlannedProgress: 40}, testNow)
	require.NoError(t, err)
	assert.Equal(t, StatusCritical, task.Status())
}

func TestNewTask_Validation(t *testing.T) {
	t.Run("empty name", func(t *testing.T) {
		_, err := NewTask(NewTaskParams{ProjectID: uuid.New(), Name: "  "}, testNow)
		assert.ErrorIs(t, err, ErrEmptyName)
	})

	t.Run("negative weight", func(t *testing.T) {
		_, err := NewTask(NewTaskParams{ProjectID: uuid.New(), Name: "x", Weight: -1}, testNow)
		assert.ErrorIs(t, err, ErrNegativeWeight)
		assert.True(t, IsValidation(err))
	})

	t.Run("priority out of range", func(t *testing.T) {
		_, err := NewTask(NewTaskParams{ProjectID: uuid.New(), Name: "x", Priority: 4}, testNow)
		assert.ErrorIs(t, err, ErrInvalidRange)
	})

	t.Run("missing project", func(t *testing.T) {
		_, err := NewTask(NewTaskParams{Name: "x"}, testNow)
		assert.True(t, IsNotFound(err))
	})

	t.Run("progress is clamped", func(t *testing.T) {
		task, err := NewTask(NewTaskParams{ProjectID: uuid.New(), Name: "x", PlannedProgress: 140}, testNow)
		require.NoError(t, err)
		assert.Equal(t, 100.0, task.PlannedProgress())
	})
}

func TestApplyTaskPatch_KeepsUnsuppliedFields(t *testing.T) {
	prior := TaskState{
		ProjectID:       uuid.New(),
		Name:            "Design",
		Responsible:     "Ana",
		Weight:          3,
		PlannedProgress: 50,
		ActualProgress:  45,
		Comments:        "on it",
		Priority:        1,
	}

	next, err := ApplyTaskPatch(prior, TaskPatch{ActualProgress: ptr(55.0)}, testNow)

	require.NoError(t, err)
	assert.Equal(t, "Design", next.Name)
	assert.Equal(t, "Ana", next.Responsible)
	assert.Equal(t, 3.0, next.Weight)
	assert.Equal(t, 50.0, next.PlannedProgress)
	assert.Equal(t, 55.0, next.ActualProgress)
	assert.Equal(t, "on it", next.Comments)
	assert.Equal(t, 1, next.Priority)
	assert.Equal(t, StatusInProgress, next.Status)
	assert.Equal(t, 45.0, prior.ActualProgress, "prior state is not modified")
}

func TestApplyTaskPatch_DelayDays(t *testing.T) {
	past := date(2025, 3, 10)
	prior := TaskState{Name: "Build", PlannedProgress: 50, ActualProgress: 50, EstimatedDate: &past}

	t.Run("derived from estimated date", func(t *testing.T) {
		next, err := ApplyTaskPatch(prior, TaskPatch{Comments: ptr("ping")}, testNow)
		require.NoError(t, err)
		assert.Equal(t, 5, next.DelayDays)
		assert.Equal(t, StatusDelayed, next.Status)
	})

	t.Run("explicit value short-circuits the calculation", func(t *testing.T) {
		next, err := ApplyTaskPatch(prior, TaskPatch{DelayDays: ptr(12)}, testNow)
		require.NoError(t, err)
		assert.Equal(t, 12, next.DelayDays)
		assert.Equal(t, StatusCritical, next.Status)
	})

	t.Run("explicit negative value is floored", func(t *testing.T) {
		next, err := ApplyTaskPatch(prior, TaskPatch{DelayDays: ptr(-3)}, testNow)
		require.NoError(t, err)
		assert.Equal(t, 0, next.DelayDays)
		assert.Equal(t, StatusInProgress, next.Status)
	})

	t.Run("moving the date recomputes", func(t *testing.T) {
		next, err := ApplyTaskPatch(prior, TaskPatch{EstimatedDate: ptr(date(2025, 4, 1))}, testNow)
		require.NoError(t, err)
		assert.Equal(t, 0, next.DelayDays)
		assert.Equal(t, StatusInProgress, next.Status)
	})
}

func TestApplyTaskPatch_Weight(t *testing.T) {
	prior := TaskState{Name: "Build", Weight: 2}

	next, err := ApplyTaskPatch(prior, TaskPatch{Weight: ptr(0.0)}, testNow)
	require.NoError(t, err)
	assert.Equal(t, 1.0, next.Weight)

	_, err = ApplyTaskPatch(prior, TaskPatch{Weight: ptr(-0.5)}, testNow)
	assert.ErrorIs(t, err, ErrNegativeWeight)
}

func TestApplyTaskPatch_ClampsProgress(t *testing.T) {
	next, err := ApplyTaskPatch(TaskState{Name: "x"}, TaskPatch{
		PlannedProgress: ptr(-5.0),
		ActualProgress:  ptr(120.0),
	}, testNow)

	require.NoError(t, err)
	assert.Equal(t, 0.0, next.PlannedProgress)
	assert.Equal(t, 100.0, next.ActualProgress)
	assert.Equal(t, StatusCompleted, next.Status)
}

func TestTask_Update(t *testing.T) {
	task := newTestTask(t, 5)
	require.Equal(t, StatusInProgress, task.Status())
	later := testNow.Add(time.Hour)

	err := task.Update(TaskPatch{ActualProgress: ptr(8.0)}, later)

	require.NoError(t, err)
	assert.Equal(t, later, task.UpdatedAt())
	events := task.DomainEvents()
	require.Len(t, events, 1)
	assert.Equal(t, RoutingKeyTaskUpdated, events[0].RoutingKey())
}

func TestTask_Update_StatusChange(t *testing.T) {
	task := newTestTask(t, 90)
	require.Equal(t, StatusCritical, task.Status())

	err := task.Update(TaskPatch{ActualProgress: ptr(100.0)}, testNow)

	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, task.Status())
	events := task.DomainEvents()
	require.Len(t, events, 2)
	assert.Equal(t, RoutingKeyTaskUpdated, events[0].RoutingKey())

	changed, ok := events[1].(*TaskStatusChanged)
	require.True(t, ok)
	assert.Equal(t, StatusCritical, changed.FromStatus)
	assert.Equal(t, StatusCompleted, changed.ToStatus)
}

func TestTask_Update_RejectsSelfParent(t *testing.T) {
	task := newTestTask(t, 0)
	id := task.ID()

	err := task.Update(TaskPatch{ParentTaskID: &id}, testNow)

	assert.ErrorIs(t, err, ErrInvalidRange)
	assert.Empty(t, task.DomainEvents())
}

func TestTask_Update_InvalidPatchLeavesState(t *testing.T) {
	task := newTestTask(t, 10)
	before := task.State()

	err := task.Update(TaskPatch{Name: ptr(""), ActualProgress: ptr(30.0)}, testNow)

	assert.ErrorIs(t, err, ErrEmptyName)
	assert.Equal(t, before, task.State())
}

func TestRehydrateTask(t *testing.T) {
	id := uuid.New()
	state := TaskState{ProjectID: uuid.New(), Name: "Loaded", Weight: 1, Status: StatusDelayed}

	task := RehydrateTask(id, testNow, testNow, state)

	assert.Equal(t, id, task.ID())
	assert.Equal(t, state, task.State())
	assert.Empty(t, task.DomainEvents())
}
