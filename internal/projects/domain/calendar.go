package domain

import (
	"cmp"
	"slices"
	"time"

	"github.com/google/uuid"
)

// CalendarTask is the task header of a calendar row.
type CalendarTask struct {
	ID         uuid.UUID
	Name       string
	OrderIndex int
	CreatedAt  time.Time
}

// CalendarWeek is one snapshot cell of a calendar row.
type CalendarWeek struct {
	Year            int        `json:"year"`
	Month           int        `json:"month"`
	Week            int        `json:"week"`
	PlannedStatus   WeekStatus `json:"plannedStatus"`
	ActualStatus    WeekStatus `json:"actualStatus"`
	PlannedProgress float64    `json:"plannedProgress"`
	ActualProgress  float64    `json:"actualProgress"`
	Comments        string     `json:"comments"`
}

// CalendarRow is a task with its in-range weeks.
type CalendarRow struct {
	ID         uuid.UUID      `json:"id"`
	Name       string         `json:"name"`
	OrderIndex int            `json:"orderIndex"`
	Weeks      []CalendarWeek `json:"weeks"`
}

// BuildCalendar groups snapshots under their tasks. Every task yields a row,
// ordered by order index then creation time; weeks are chronological and
// limited to the month range.
func BuildCalendar(tasks []CalendarTask, snapshots []SnapshotState, r MonthRange) []CalendarRow {
	ordered := slices.Clone(tasks)
	slices.SortStableFunc(ordered, func(a, b CalendarTask) int {
		if c := cmp.Compare(a.OrderIndex, b.OrderIndex); c != 0 {
			return c
		}
		return a.CreatedAt.Compare(b.CreatedAt)
	})

	byTask := make(map[uuid.UUID][]SnapshotState, len(ordered))
	for _, s := range snapshots {
		if r.Contains(s.Bucket) {
			byTask[s.TaskID] = append(byTask[s.TaskID], s)
		}
	}

	rows := make([]CalendarRow, 0, len(ordered))
	for _, t := range ordered {
		cells := byTask[t.ID]
		slices.SortStableFunc(cells, func(a, b SnapshotState) int {
			switch {
			case a.Bucket.Before(b.Bucket):
				return -1
			case b.Bucket.Before(a.Bucket):
				return 1
			default:
				return 0
			}
		})

		weeks := make([]CalendarWeek, 0, len(cells))
		for _, s := range cells {
			weeks = append(weeks, CalendarWeek{
				Year:            s.Bucket.Year,
				Month:           s.Bucket.Month,
				Week:            s.Bucket.Week,
				PlannedStatus:   s.PlannedStatus,
				ActualStatus:    s.ActualStatus,
				PlannedProgress: s.PlannedProgress,
				ActualProgress:  s.ActualProgress,
				Comments:        s.Comments,
			})
		}

		rows = append(rows, CalendarRow{
			ID:         t.ID,
			Name:       t.Name,
			OrderIndex: t.OrderIndex,
			Weeks:      weeks,
		})
	}
	return rows
}

// WeekStatusCounts counts snapshots by actual status code.
type WeekStatusCounts struct {
	Planned     int `json:"P"`
	Actual      int `json:"R"`
	Rescheduled int `json:"RP"`
}

// WeeklySummary aggregates the snapshots of one bucket.
type WeeklySummary struct {
	TotalTasks             int              `json:"totalTasks"`
	CompletedTasks         int              `json:"completedTasks"`
	AveragePlannedProgress float64          `json:"averagePlannedProgress"`
	AverageActualProgress  float64          `json:"averageActualProgress"`
	Deviation              float64          `json:"deviation"`
	StatusCounts           WeekStatusCounts `json:"statusCounts"`
}

// SummarizeWeek aggregates the snapshots of a single bucket. The deviation is
// taken between the unrounded averages.
func SummarizeWeek(snapshots []SnapshotState) WeeklySummary {
	var s WeeklySummary
	s.TotalTasks = len(snapshots)
	if s.TotalTasks == 0 {
		return s
	}

	var planned, actual float64
	for _, snap := range snapshots {
		planned += snap.PlannedProgress
		actual += snap.ActualProgress
		if snap.ActualProgress >= 100 {
			s.CompletedTasks++
		}
		switch snap.ActualStatus {
		case WeekStatusPlanned:
			s.StatusCounts.Planned++
		case WeekStatusActual:
			s.StatusCounts.Actual++
		case WeekStatusRescheduled:
			s.StatusCounts.Rescheduled++
		}
	}

	n := float64(s.TotalTasks)
	avgPlanned, avgActual := planned/n, actual/n
	s.AveragePlannedProgress = Round2(avgPlanned)
	s.AverageActualProgress = Round2(avgActual)
	s.Deviation = Round2(avgActual - avgPlanned)
	return s
}
