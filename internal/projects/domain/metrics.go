package domain

import (
	"math"
	"time"
)

// ProjectMetrics is the earned-value rollup of one project.
type ProjectMetrics struct {
	TotalTasks       int     `json:"totalTasks"`
	CompletedTasks   int     `json:"completedTasks"`
	AverageProgress  float64 `json:"averageProgress"`
	PlannedValue     float64 `json:"plannedValue"`
	EarnedValue      float64 `json:"earnedValue"`
	ScheduleVariance float64 `json:"scheduleVariance"`
	TotalDelayDays   int     `json:"totalDelayDays"`
	CriticalTasks    int     `json:"criticalTasks"`
	DelayedTasks     int     `json:"delayedTasks"`
}

// PlannedValueOf is the planned contribution of one task as of today: full
// progress once the estimated date is reached, the stored plan otherwise.
func PlannedValueOf(t TaskState, today time.Time) float64 {
	if t.EstimatedDate != nil && !DateOf(*t.EstimatedDate).After(DateOf(today)) {
		return 100
	}
	return t.PlannedProgress
}

// ComputeProjectMetrics aggregates a project's tasks. An empty task set
// yields all-zero metrics.
func ComputeProjectMetrics(tasks []TaskState, today time.Time) ProjectMetrics {
	var m ProjectMetrics
	m.TotalTasks = len(tasks)

	var totalWeight, earned, planned float64
	for _, t := range tasks {
		switch t.Status {
		case StatusCompleted:
			m.CompletedTasks++
		case StatusCritical:
			m.CriticalTasks++
		}
		if t.Status.IsBehind() {
			m.DelayedTasks++
		}
		m.TotalDelayDays += t.DelayDays

		w := EffectiveWeight(t.Weight)
		totalWeight += w
		earned += t.ActualProgress * w
		planned += PlannedValueOf(t, today) * w
	}

	if totalWeight <= 0 {
		return m
	}

	ev := earned / totalWeight
	pv := planned / totalWeight
	m.EarnedValue = Round2(ev)
	m.AverageProgress = m.EarnedValue
	m.PlannedValue = Round2(pv)
	m.ScheduleVariance = Round2(ev - pv)
	return m
}

// WeightedProgress returns the weighted mean planned and actual progress.
func WeightedProgress(tasks []TaskState) (planned, actual float64) {
	var totalWeight float64
	for _, t := range tasks {
		w := EffectiveWeight(t.Weight)
		totalWeight += w
		planned += t.PlannedProgress * w
		actual += t.ActualProgress * w
	}
	if totalWeight <= 0 {
		return 0, 0
	}
	return planned / totalWeight, actual / totalWeight
}

// Round2 rounds to two decimals, halves upward.
func Round2(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return math.Floor(v*100+0.5) / 100
}
