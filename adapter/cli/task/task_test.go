package task

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/pacer/adapter/cli"
	internalApp "github.com/felixgeelhaar/pacer/internal/app"
	"github.com/felixgeelhaar/pacer/internal/projects/application/commands"
	"github.com/felixgeelhaar/pacer/internal/projects/application/queries"
	"github.com/felixgeelhaar/pacer/internal/projects/domain"
	"github.com/felixgeelhaar/pacer/pkg/config"
)

// setupLocalModeTestApp creates a test application with SQLite and one project.
func setupLocalModeTestApp(t *testing.T) (*cli.App, uuid.UUID) {
	t.Helper()

	cfg := config.Default()
	cfg.SQLitePath = filepath.Join(t.TempDir(), "test.db")
	cfg.LogLevel = "error"

	container, err := internalApp.NewContainer(context.Background(), cfg, nil)
	require.NoError(t, err)

	app := cli.NewApp(container)
	cli.SetApp(app)
	t.Cleanup(func() {
		cli.SetApp(nil)
		cli.SetJSONOutput(false)
		container.Close()
	})

	project, err := app.CreateProjectHandler.Handle(context.Background(), commands.CreateProjectCommand{Name: "Plant"})
	require.NoError(t, err)
	return app, project.ProjectID
}

func run(t *testing.T, cmd *cobra.Command, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetContext(context.Background())
	require.NoError(t, cmd.RunE(cmd, args))
	return out.String()
}

func resetCreateFlags() {
	createProject, createResponsible, createEstimated, createComments, createEvidence, createParent = "", "", "", "", "", ""
	createWeight, createPlanned = 1, 0
	createPriority, createOrder = 0, 0
	createMacro = false
}

func TestCreateCmd(t *testing.T) {
	app, projectID := setupLocalModeTestApp(t)
	ctx := context.Background()

	t.Run("creates with flags", func(t *testing.T) {
		resetCreateFlags()
		defer resetCreateFlags()
		createProject = projectID.String()
		createWeight = 3
		createPlanned = 40
		createEstimated = "2025-04-30"
		createPriority = 1

		out := run(t, createCmd, "Foundations")
		assert.Contains(t, out, "Task created:")

		tasks, err := app.ListTasksHandler.Handle(ctx, projectID)
		require.NoError(t, err)
		require.Len(t, tasks, 1)
		assert.Equal(t, "Foundations", tasks[0].Name)
		assert.Equal(t, 3.0, tasks[0].Weight)
		assert.Equal(t, 40.0, tasks[0].PlannedProgress)
		assert.Equal(t, 1, tasks[0].Priority)
		require.NotNil(t, tasks[0].EstimatedDate)
		assert.Equal(t, "2025-04-30", *tasks[0].EstimatedDate)
	})

	t.Run("invalid estimated date", func(t *testing.T) {
		resetCreateFlags()
		defer resetCreateFlags()
		createProject = projectID.String()
		createEstimated = "30/04/2025"

		createCmd.SetContext(ctx)
		err := createCmd.RunE(createCmd, []string{"Bad"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "YYYY-MM-DD")
	})

	t.Run("unknown project", func(t *testing.T) {
		resetCreateFlags()
		defer resetCreateFlags()
		createProject = uuid.New().String()

		createCmd.SetContext(ctx)
		err := createCmd.RunE(createCmd, []string{"Orphan"})
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrProjectNotFound)
	})
}

func TestUpdateCmd_RecomputesStatus(t *testing.T) {
	app, projectID := setupLocalModeTestApp(t)
	ctx := context.Background()

	past := time.Now().UTC().AddDate(0, 0, -5)
	created, err := app.CreateTaskHandler.Handle(ctx, commands.CreateTaskCommand{
		ProjectID:       projectID,
		Name:            "Procurement",
		Weight:          1,
		PlannedProgress: 90,
		EstimatedDate:   &past,
	})
	require.NoError(t, err)

	require.NoError(t, updateCmd.Flags().Set("actual", "40"))
	cli.SetJSONOutput(true)
	out := run(t, updateCmd, created.TaskID.String())

	var result map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, string(domain.StatusCritical), result["status"])
	assert.EqualValues(t, 5, result["delayDays"])

	got, err := app.GetTaskHandler.Handle(ctx, created.TaskID)
	require.NoError(t, err)
	assert.Equal(t, 40.0, got.ActualProgress)
	assert.Equal(t, 90.0, got.PlannedProgress, "unset flags leave fields unchanged")
}

func TestListShowDeleteCmd(t *testing.T) {
	app, projectID := setupLocalModeTestApp(t)
	ctx := context.Background()

	var ids []uuid.UUID
	for i, planned := range []float64{0, 100} {
		created, err := app.CreateTaskHandler.Handle(ctx, commands.CreateTaskCommand{
			ProjectID:       projectID,
			Name:            []string{"Design", "Build"}[i],
			Weight:          1,
			PlannedProgress: planned,
			OrderIndex:      i,
		})
		require.NoError(t, err)
		ids = append(ids, created.TaskID)
	}

	t.Run("list", func(t *testing.T) {
		out := run(t, listCmd, projectID.String())
		assert.Contains(t, out, "Tasks (2):")
		assert.Contains(t, out, "Design")
		assert.Contains(t, out, "Build")
	})

	t.Run("list filtered by status", func(t *testing.T) {
		listStatus = string(domain.StatusCritical)
		defer func() { listStatus = "" }()
		cli.SetJSONOutput(true)
		defer cli.SetJSONOutput(false)

		out := run(t, listCmd, projectID.String())
		var tasks []queries.TaskDTO
		require.NoError(t, json.Unmarshal([]byte(out), &tasks))
		require.Len(t, tasks, 1)
		assert.Equal(t, "Build", tasks[0].Name)
	})

	t.Run("show", func(t *testing.T) {
		out := run(t, showCmd, ids[0].String())
		assert.Contains(t, out, "Task: Design")
		assert.Contains(t, out, "Status: InProgress")
	})

	t.Run("delete", func(t *testing.T) {
		run(t, deleteCmd, ids[1].String())
		_, err := app.GetTaskHandler.Handle(ctx, ids[1])
		assert.ErrorIs(t, err, domain.ErrTaskNotFound)
	})
}
