package project

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/pacer/adapter/cli"
	internalApp "github.com/felixgeelhaar/pacer/internal/app"
	"github.com/felixgeelhaar/pacer/internal/projects/application/commands"
	"github.com/felixgeelhaar/pacer/internal/projects/application/queries"
	"github.com/felixgeelhaar/pacer/pkg/config"
)

// setupLocalModeTestApp creates a test application with SQLite for integration tests.
func setupLocalModeTestApp(t *testing.T) *cli.App {
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
	return app
}

func run(t *testing.T, cmd *cobra.Command, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetContext(context.Background())
	require.NoError(t, cmd.RunE(cmd, args))
	return out.String()
}

func TestCreateCmd_CreatesProject(t *testing.T) {
	app := setupLocalModeTestApp(t)
	ctx := context.Background()

	createCategory = "IT"
	createDescription = "Finance modules"
	defer func() { createCategory, createDescription = "", "" }()

	out := run(t, createCmd, "ERP Rollout")
	assert.Contains(t, out, "Project created:")
	assert.Contains(t, out, "category: IT")

	projects, err := app.ListProjectsHandler.Handle(ctx, queries.ListProjectsQuery{})
	require.NoError(t, err)
	require.Len(t, projects, 1)
	assert.Equal(t, "ERP Rollout", projects[0].Name)
	assert.Equal(t, "IT", projects[0].Category)
	assert.Equal(t, "Finance modules", projects[0].Description)
}

func TestCreateCmd_EmptyName(t *testing.T) {
	setupLocalModeTestApp(t)

	createCmd.SetContext(context.Background())
	err := createCmd.RunE(createCmd, []string{"  "})
	require.Error(t, err)
}

func TestCreateCmd_RequiresApp(t *testing.T) {
	cli.SetApp(nil)

	createCmd.SetContext(context.Background())
	err := createCmd.RunE(createCmd, []string{"Anything"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "application not initialized")
}

func TestListCmd_JSON(t *testing.T) {
	app := setupLocalModeTestApp(t)
	ctx := context.Background()

	for _, name := range []string{"Alpha", "Beta"} {
		_, err := app.CreateProjectHandler.Handle(ctx, commands.CreateProjectCommand{Name: name})
		require.NoError(t, err)
	}

	cli.SetJSONOutput(true)
	out := run(t, listCmd)

	var projects []queries.ProjectDTO
	require.NoError(t, json.Unmarshal([]byte(out), &projects))
	assert.Len(t, projects, 2)
}

func TestShowAndMetricsCmd(t *testing.T) {
	app := setupLocalModeTestApp(t)
	ctx := context.Background()

	project, err := app.CreateProjectHandler.Handle(ctx, commands.CreateProjectCommand{Name: "Plant"})
	require.NoError(t, err)
	_, err = app.CreateTaskHandler.Handle(ctx, commands.CreateTaskCommand{
		ProjectID:       project.ProjectID,
		Name:            "Foundations",
		Weight:          1,
		PlannedProgress: 50,
	})
	require.NoError(t, err)

	t.Run("show lists tasks", func(t *testing.T) {
		out := run(t, showCmd, project.ProjectID.String())
		assert.Contains(t, out, "Project: Plant")
		assert.Contains(t, out, "Tasks (1):")
		assert.Contains(t, out, "Foundations")
	})

	t.Run("metrics", func(t *testing.T) {
		out := run(t, metricsCmd, project.ProjectID.String())
		assert.Contains(t, out, "Tasks:             1 (0 completed)")
		assert.Contains(t, out, "Planned value:     50.00")
	})

	t.Run("invalid id", func(t *testing.T) {
		showCmd.SetContext(ctx)
		err := showCmd.RunE(showCmd, []string{"not-a-uuid"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid project ID")
	})
}

func TestUpdateAndDeleteCmd(t *testing.T) {
	app := setupLocalModeTestApp(t)
	ctx := context.Background()

	project, err := app.CreateProjectHandler.Handle(ctx, commands.CreateProjectCommand{Name: "Old", Category: "Ops"})
	require.NoError(t, err)
	_, err = app.CreateTaskHandler.Handle(ctx, commands.CreateTaskCommand{ProjectID: project.ProjectID, Name: "Only", Weight: 1})
	require.NoError(t, err)

	require.NoError(t, updateCmd.Flags().Set("name", "New"))
	run(t, updateCmd, project.ProjectID.String())

	got, err := app.GetProjectHandler.Handle(ctx, project.ProjectID)
	require.NoError(t, err)
	assert.Equal(t, "New", got.Name)
	assert.Equal(t, "Ops", got.Category, "unset flags leave fields unchanged")

	out := run(t, deleteCmd, project.ProjectID.String())
	assert.Contains(t, out, "(1 tasks)")

	_, err = app.GetProjectHandler.Handle(ctx, project.ProjectID)
	require.Error(t, err)
}
