package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeKPIs(t *testing.T) {
	projects := []ProjectTasks{
		{
			ProjectID: uuid.New(),
			Name:      "done",
			Tasks: []TaskState{
				{Weight: 1, ActualProgress: 100, Status: StatusCompleted},
				{Weight: 1, ActualProgress: 100, Status: StatusCompleted},
			},
		},
		{
			ProjectID: uuid.New(),
			Name:      "late",
			Tasks: []TaskState{
				{Weight: 1, ActualProgress: 100, Status: StatusCompleted},
				{Weight: 3, ActualProgress: 0, Status: StatusCritical, DelayDays: 12},
			},
		},
		{ProjectID: uuid.New(), Name: "empty"},
	}

	k := ComputeKPIs(projects)

	assert.Equal(t, 3, k.TotalProjects)
	assert.Equal(t, 1, k.CompletedProjects)
	assert.Equal(t, 1, k.DelayedProjects)
	assert.Equal(t, 1, k.HighPriorityProjects)
	assert.Equal(t, 12, k.TotalDelayDays)
	// (100 + 25 + 0) / 3
	assert.Equal(t, 41.67, k.AverageProgress)
}

func TestComputeKPIs_Empty(t *testing.T) {
	assert.Equal(t, PortfolioKPIs{}, ComputeKPIs(nil))
}

func TestComputeKPIs_EmptyProjectIsNotCompleted(t *testing.T) {
	k := ComputeKPIs([]ProjectTasks{{ProjectID: uuid.New(), Name: "new"}})

	assert.Equal(t, 1, k.TotalProjects)
	assert.Equal(t, 0, k.CompletedProjects)
	assert.Equal(t, 0.0, k.AverageProgress)
}

func TestSummarizePortfolio(t *testing.T) {
	id := uuid.New()
	projects := []ProjectTasks{{
		ProjectID: id,
		Name:      "Alpha",
		Category:  "Ops",
		Tasks: []TaskState{
			{Weight: 1, PlannedProgress: 60, ActualProgress: 30, Status: StatusCritical},
			{Weight: 2, PlannedProgress: 30, ActualProgress: 30, Status: StatusInProgress},
		},
	}}

	summary := SummarizePortfolio(projects)

	require.Len(t, summary, 1)
	s := summary[0]
	assert.Equal(t, id, s.ID)
	assert.Equal(t, "Ops", s.Category)
	assert.Equal(t, 2, s.TotalTasks)
	assert.Equal(t, 40.0, s.PlannedProgress)
	assert.Equal(t, 30.0, s.ActualProgress)
	assert.Equal(t, 1, s.StatusCount[StatusCritical])
	assert.Equal(t, 1, s.StatusCount[StatusInProgress])
	assert.Equal(t, 0, s.StatusCount[StatusCompleted])
	assert.Len(t, s.StatusCount, 4)
}
