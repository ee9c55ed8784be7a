package domain

import "github.com/google/uuid"

// ProjectTasks is a project with all of its tasks, the input of portfolio
// rollups.
type ProjectTasks struct {
	ProjectID uuid.UUID
	Name      string
	Category  string
	Tasks     []TaskState
}

// PortfolioKPIs summarizes every project.
type PortfolioKPIs struct {
	TotalProjects        int     `json:"totalProjects"`
	CompletedProjects    int     `json:"completedProjects"`
	DelayedProjects      int     `json:"delayedProjects"`
	AverageProgress      float64 `json:"averageProgress"`
	TotalDelayDays       int     `json:"totalDelayDays"`
	HighPriorityProjects int     `json:"highPriorityProjects"`
}

// ComputeKPIs rolls up the portfolio. Each project contributes its weighted
// earned value to the average; projects without tasks contribute zero.
func ComputeKPIs(projects []ProjectTasks) PortfolioKPIs {
	k := PortfolioKPIs{TotalProjects: len(projects)}
	if len(projects) == 0 {
		return k
	}

	var progressSum float64
	for _, p := range projects {
		allCompleted := len(p.Tasks) > 0
		anyBehind, anyCritical := false, false
		for _, t := range p.Tasks {
			if t.Status != StatusCompleted {
				allCompleted = false
			}
			if t.Status.IsBehind() {
				anyBehind = true
			}
			if t.Status == StatusCritical {
				anyCritical = true
			}
			k.TotalDelayDays += t.DelayDays
		}

		if allCompleted {
			k.CompletedProjects++
		}
		if anyBehind {
			k.DelayedProjects++
		}
		if anyCritical {
			k.HighPriorityProjects++
		}

		_, actual := WeightedProgress(p.Tasks)
		progressSum += actual
	}

	k.AverageProgress = Round2(progressSum / float64(len(projects)))
	return k
}

// ProjectSummary is one project's row of the portfolio summary.
type ProjectSummary struct {
	ID              uuid.UUID      `json:"id"`
	Name            string         `json:"name"`
	Category        string         `json:"category"`
	PlannedProgress float64        `json:"plannedProgress"`
	ActualProgress  float64        `json:"actualProgress"`
	StatusCount     map[Status]int `json:"statusCount"`
	TotalTasks      int            `json:"totalTasks"`
}

// SummarizePortfolio returns weighted planned and actual progress and status
// counts for every project, in input order.
func SummarizePortfolio(projects []ProjectTasks) []ProjectSummary {
	out := make([]ProjectSummary, 0, len(projects))
	for _, p := range projects {
		counts := map[Status]int{
			StatusCompleted:  0,
			StatusInProgress: 0,
			StatusDelayed:    0,
			StatusCritical:   0,
		}
		for _, t := range p.Tasks {
			counts[t.Status]++
		}

		planned, actual := WeightedProgress(p.Tasks)
		out = append(out, ProjectSummary{
			ID:              p.ProjectID,
			Name:            p.Name,
			Category:        p.Category,
			PlannedProgress: Round2(planned),
			ActualProgress:  Round2(actual),
			StatusCount:     counts,
			TotalTasks:      len(p.Tasks),
		})
	}
	return out
}
