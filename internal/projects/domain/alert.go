package domain

import (
	"fmt"
	"slices"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// AlertType identifies the rule that raised an alert.
type AlertType string

const (
	// AlertCriticalDeviation fires when actual progress trails plan by 30 points or more.
	AlertCriticalDeviation AlertType = "critical_deviation"
	// AlertSignificantDelay fires when a task is more than a week late.
	AlertSignificantDelay AlertType = "significant_delay"
	// AlertUpcomingDeadline fires when the estimated date is at most a week away.
	AlertUpcomingDeadline AlertType = "upcoming_deadline"
	// AlertOverdue fires when an unfinished task is past its estimated date.
	AlertOverdue AlertType = "overdue"
	// AlertCriticalStatus fires for tasks classified Critical.
	AlertCriticalStatus AlertType = "critical_status"
)

// String returns the string representation of the alert type.
func (a AlertType) String() string {
	return string(a)
}

// Severity represents the urgency of an alert.
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// String returns the string representation of the severity.
func (s Severity) String() string {
	return string(s)
}

// Rank returns the sort rank of the severity; higher is more urgent.
func (s Severity) Rank() int {
	switch s {
	case SeverityHigh:
		return 3
	case SeverityMedium:
		return 2
	case SeverityLow:
		return 1
	default:
		return 0
	}
}

const (
	alertDeviationThreshold = 30.0
	alertDelayThreshold     = 7
	upcomingWindowDays      = 7
	upcomingHighDays        = 3
)

// Alert is a derived, unpersisted warning about one task.
type Alert struct {
	Type          AlertType `json:"type"`
	Severity      Severity  `json:"severity"`
	Message       string    `json:"message"`
	ProjectID     uuid.UUID `json:"projectId"`
	TaskID        uuid.UUID `json:"taskId"`
	ProjectName   string    `json:"projectName"`
	TaskName      string    `json:"taskName"`
	DaysRemaining *int      `json:"daysRemaining,omitempty"`
}

// AlertSubject is a task together with the name of its project.
type AlertSubject struct {
	TaskID      uuid.UUID
	ProjectName string
	Task        TaskState
}

// EvaluateAlerts applies every rule to every subject and returns the alerts
// ordered by severity. Alerts of equal severity keep their discovery order.
func EvaluateAlerts(subjects []AlertSubject, today time.Time) []Alert {
	alerts := make([]Alert, 0)
	for _, s := range subjects {
		alerts = append(alerts, evaluateTask(s, today)...)
	}

	slices.SortStableFunc(alerts, func(a, b Alert) int {
		return b.Severity.Rank() - a.Severity.Rank()
	})
	return alerts
}

func evaluateTask(s AlertSubject, today time.Time) []Alert {
	var alerts []Alert
	t := s.Task

	newAlert := func(kind AlertType, severity Severity, message string) Alert {
		return Alert{
			Type:        kind,
			Severity:    severity,
			Message:     message,
			ProjectID:   t.ProjectID,
			TaskID:      s.TaskID,
			ProjectName: s.ProjectName,
			TaskName:    t.Name,
		}
	}

	if t.ActualProgress <= t.PlannedProgress-alertDeviationThreshold {
		alerts = append(alerts, newAlert(AlertCriticalDeviation, SeverityHigh, fmt.Sprintf(
			"Critical deviation in %q of project %q. Actual progress (%s%%) is well below planned (%s%%)",
			t.Name, s.ProjectName, formatPercent(t.ActualProgress), formatPercent(t.PlannedProgress),
		)))
	}

	if t.DelayDays > alertDelayThreshold {
		alerts = append(alerts, newAlert(AlertSignificantDelay, SeverityHigh, fmt.Sprintf(
			"Significant delay in %q of project %q. %d days late",
			t.Name, s.ProjectName, t.DelayDays,
		)))
	}

	if t.EstimatedDate != nil {
		remaining := DaysUntil(*t.EstimatedDate, today)
		if remaining >= 0 && remaining <= upcomingWindowDays {
			severity := SeverityMedium
			if remaining <= upcomingHighDays {
				severity = SeverityHigh
			}
			a := newAlert(AlertUpcomingDeadline, severity, fmt.Sprintf(
				"Deadline approaching: %q of project %q is due in %d day(s)",
				t.Name, s.ProjectName, remaining,
			))
			a.DaysRemaining = &remaining
			alerts = append(alerts, a)
		}

		if DateOf(*t.EstimatedDate).Before(DateOf(today)) && t.Status != StatusCompleted {
			alerts = append(alerts, newAlert(AlertOverdue, SeverityHigh, fmt.Sprintf(
				"Overdue: %q of project %q is past its estimated date",
				t.Name, s.ProjectName,
			)))
		}
	}

	if t.Status == StatusCritical {
		alerts = append(alerts, newAlert(AlertCriticalStatus, SeverityHigh, fmt.Sprintf(
			"Critical status: %q of project %q is in critical state",
			t.Name, s.ProjectName,
		)))
	}

	return alerts
}

func formatPercent(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
