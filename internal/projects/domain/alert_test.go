package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func subject(projectName string, task TaskState) AlertSubject {
	if task.ProjectID == uuid.Nil {
		task.ProjectID = uuid.New()
	}
	return AlertSubject{TaskID: uuid.New(), ProjectName: projectName, Task: task}
}

func alertTypes(alerts []Alert) []AlertType {
	types := make([]AlertType, len(alerts))
	for i, a := range alerts {
		types[i] = a.Type
	}
	return types
}

func TestEvaluateAlerts_CriticalDeviation(t *testing.T) {
	s := subject("X", TaskState{Name: "Migrate", PlannedProgress: 90, ActualProgress: 40, Status: StatusDelayed})

	alerts := EvaluateAlerts([]AlertSubject{s}, testNow)

	require.Len(t, alerts, 1)
	a := alerts[0]
	assert.Equal(t, AlertCriticalDeviation, a.Type)
	assert.Equal(t, SeverityHigh, a.Severity)
	assert.Equal(t, s.TaskID, a.TaskID)
	assert.Equal(t, s.Task.ProjectID, a.ProjectID)
	assert.Equal(t, "X", a.ProjectName)
	assert.Equal(t, "Migrate", a.TaskName)
	assert.Equal(t, `Critical deviation in "Migrate" of project "X". Actual progress (40%) is well below planned (90%)`, a.Message)
	assert.Nil(t, a.DaysRemaining)
}

func TestEvaluateAlerts_CriticalDeviationWithCriticalStatus(t *testing.T) {
	s := subject("X", TaskState{Name: "Migrate", PlannedProgress: 90, ActualProgress: 40, Status: StatusCritical})

	alerts := EvaluateAlerts([]AlertSubject{s}, testNow)

	assert.Equal(t, []AlertType{AlertCriticalDeviation, AlertCriticalStatus}, alertTypes(alerts))
	for _, a := range alerts {
		assert.Equal(t, SeverityHigh, a.Severity)
	}
}

func TestEvaluateAlerts_UpcomingDeadline(t *testing.T) {
	tests := []struct {
		name     string
		due      int
		expected *Severity
	}{
		{"due today", 0, ptr(SeverityHigh)},
		{"due in three days", 3, ptr(SeverityHigh)},
		{"due in four days", 4, ptr(SeverityMedium)},
		{"due in seven days", 7, ptr(SeverityMedium)},
		{"due in eight days", 8, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			due := testNow.AddDate(0, 0, tt.due)
			s := subject("P", TaskState{Name: "T", PlannedProgress: 10, ActualProgress: 10, EstimatedDate: &due, Status: StatusInProgress})

			alerts := EvaluateAlerts([]AlertSubject{s}, testNow)

			if tt.expected == nil {
				assert.Empty(t, alerts)
				return
			}
			require.Len(t, alerts, 1)
			assert.Equal(t, AlertUpcomingDeadline, alerts[0].Type)
			assert.Equal(t, *tt.expected, alerts[0].Severity)
			require.NotNil(t, alerts[0].DaysRemaining)
			assert.Equal(t, tt.due, *alerts[0].DaysRemaining)
		})
	}
}

func TestEvaluateAlerts_OverdueAndDelay(t *testing.T) {
	due := testNow.AddDate(0, 0, -9)
	s := subject("P", TaskState{
		Name:            "Late",
		PlannedProgress: 50,
		ActualProgress:  50,
		EstimatedDate:   &due,
		DelayDays:       9,
		Status:          StatusDelayed,
	})

	alerts := EvaluateAlerts([]AlertSubject{s}, testNow)

	assert.Equal(t, []AlertType{AlertSignificantDelay, AlertOverdue}, alertTypes(alerts))
}

func TestEvaluateAlerts_CompletedIsNotOverdue(t *testing.T) {
	due := testNow.AddDate(0, 0, -2)
	s := subject("P", TaskState{Name: "Done", PlannedProgress: 100, ActualProgress: 100, EstimatedDate: &due, Status: StatusCompleted})

	assert.Empty(t, EvaluateAlerts([]AlertSubject{s}, testNow))
}

func TestEvaluateAlerts_SortedBySeverityStable(t *testing.T) {
	dueSoon := testNow.AddDate(0, 0, 5)
	medium := subject("A", TaskState{Name: "first", PlannedProgress: 10, ActualProgress: 10, EstimatedDate: &dueSoon, Status: StatusInProgress})
	highOne := subject("B", TaskState{Name: "second", PlannedProgress: 90, ActualProgress: 10, Status: StatusDelayed})
	highTwo := subject("C", TaskState{Name: "third", PlannedProgress: 10, ActualProgress: 10, Status: StatusCritical})

	alerts := EvaluateAlerts([]AlertSubject{medium, highOne, highTwo}, testNow)

	require.Len(t, alerts, 3)
	assert.Equal(t, "second", alerts[0].TaskName)
	assert.Equal(t, "third", alerts[1].TaskName)
	assert.Equal(t, "first", alerts[2].TaskName)
	assert.Equal(t, SeverityMedium, alerts[2].Severity)
}

func TestEvaluateAlerts_NoSubjects(t *testing.T) {
	alerts := EvaluateAlerts(nil, testNow)

	assert.NotNil(t, alerts)
	assert.Empty(t, alerts)
}

func TestSeverity_Rank(t *testing.T) {
	assert.Equal(t, 3, SeverityHigh.Rank())
	assert.Equal(t, 2, SeverityMedium.Rank())
	assert.Equal(t, 1, SeverityLow.Rank())
}
