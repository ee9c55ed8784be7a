package mcp

import (
	"context"
	"fmt"

	"github.com/felixgeelhaar/mcp-go"
)

// RegisterPrompts registers prompts for the recurring tracking workflows.
func RegisterPrompts(srv *mcp.Server, deps ToolDependencies) error {
	if srv == nil {
		return fmt.Errorf("server is required")
	}

	srv.Prompt("weekly_review").
		Description("Review this week's progress across the portfolio and record the week's snapshots.").
		Handler(func(ctx context.Context, args map[string]string) (*mcp.PromptResult, error) {
			return userPrompt("Weekly Progress Review", `Let's run the weekly progress review. Please:

1. Read the current week bucket from pacer://weeks/current
2. Check portfolio health using pacer://kpis and pacer://summary
3. Review open alerts using pacer://alerts

Then, for each project:
- Compare planned and actual progress for this week (week.summary with project_id)
- List tasks whose status is Critical or Delayed and explain the gap
- Ask me for the actual progress of tasks that have no snapshot this week

Record what I confirm with snapshot.upsert (actual_status "R" for reported weeks, "RP" for rescheduled ones) and update task progress with task.update.
Finish with the three tasks that most need attention next week.`), nil
		})

	srv.Prompt("project_status").
		Description("Explain where one project stands against plan using earned value.").
		Argument("project_id", "ID of the project to report on", true).
		Handler(func(ctx context.Context, args map[string]string) (*mcp.PromptResult, error) {
			projectID := args["project_id"]
			if projectID == "" {
				projectID = "[ask me which project]"
			}
			return userPrompt("Project Status Report", fmt.Sprintf(`Prepare a status report for project %s.

1. Load the project and its tasks with project.get
2. Load earned-value metrics with project.metrics
3. Load alerts for the project with dashboard.alerts
4. Load the calendar for the last three months with calendar.get

Report:
- Planned value, earned value and schedule variance, in plain words
- Tasks behind schedule, their delay in days and who is responsible
- Weeks that were rescheduled and whether the project recovered afterwards
- A one-line verdict: on track, at risk or off track`, projectID)), nil
		})

	srv.Prompt("alert_triage").
		Description("Walk through open alerts and decide an action for each.").
		Handler(func(ctx context.Context, args map[string]string) (*mcp.PromptResult, error) {
			return userPrompt("Alert Triage", `Help me triage alerts. Read pacer://alerts and go through them in order, high severity first.

For each alert, suggest one of:
- Update progress (task.update with actual_progress) if the task moved and was not reported
- Move the estimated date (task.update with estimated_date) if the plan changed
- Record a delivery (task.update with real_delivery_date) if the work is done
- Leave it and explain why

Apply only the actions I approve.`), nil
		})

	return nil
}

func userPrompt(description, text string) *mcp.PromptResult {
	return &mcp.PromptResult{
		Description: description,
		Messages: []mcp.PromptMessage{
			{
				Role: string(mcp.RoleUser),
				Content: mcp.TextContent{
					Type: "text",
					Text: text,
				},
			},
		},
	}
}
