package persistence_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/felixgeelhaar/pacer/internal/projects/domain"
	"github.com/felixgeelhaar/pacer/internal/projects/infrastructure/persistence"
	"github.com/felixgeelhaar/pacer/internal/shared/infrastructure/database"
	"github.com/felixgeelhaar/pacer/internal/shared/infrastructure/database/sqlite"
	"github.com/felixgeelhaar/pacer/internal/shared/infrastructure/migrations"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, 3, 15, 10, 0, 0, 0, time.UTC)

type repos struct {
	conn      database.Connection
	projects  *persistence.ProjectRepository
	tasks     *persistence.TaskRepository
	snapshots *persistence.SnapshotRepository
}

func setup(t *testing.T) repos {
	t.Helper()
	ctx := context.Background()
	conn, err := sqlite.NewConnection(ctx, database.Config{
		SQLitePath: filepath.Join(t.TempDir(), "pacer.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	require.NoError(t, migrations.Run(ctx, conn))

	return repos{
		conn:      conn,
		projects:  persistence.NewProjectRepository(conn),
		tasks:     persistence.NewTaskRepository(conn),
		snapshots: persistence.NewSnapshotRepository(conn),
	}
}

func ptr[T any](v T) *T { return &v }

func (r repos) project(t *testing.T, name string, at time.Time) *domain.Project {
	t.Helper()
	p, err := domain.NewProject(name, "Infra", "", at)
	require.NoError(t, err)
	require.NoError(t, r.projects.Save(context.Background(), p))
	return p
}

func (r repos) task(t *testing.T, projectID uuid.UUID, name string, order int) *domain.Task {
	t.Helper()
	task, err := domain.NewTask(domain.NewTaskParams{
		ProjectID:  projectID,
		Name:       name,
		Weight:     2,
		OrderIndex: order,
	}, testNow)
	require.NoError(t, err)
	require.NoError(t, r.tasks.Save(context.Background(), task))
	return task
}

func (r repos) snapshot(t *testing.T, task *domain.Task, b domain.Bucket, comment string) *domain.WeeklySnapshot {
	t.Helper()
	snap, err := domain.NewWeeklySnapshot(task.ID(), task.ProjectID(), b, domain.SnapshotPatch{
		PlannedStatus: ptr(domain.WeekStatusPlanned),
		ActualStatus:  ptr(domain.WeekStatusActual),
		Comments:      ptr(comment),
	}, testNow)
	require.NoError(t, err)
	require.NoError(t, r.snapshots.Save(context.Background(), snap))
	return snap
}

func TestProjectRepository(t *testing.T) {
	ctx := context.Background()
	r := setup(t)

	older := r.project(t, "Older", testNow.Add(-time.Hour))
	newer := r.project(t, "Newer", testNow)

	t.Run("find by id", func(t *testing.T) {
		found, err := r.projects.FindByID(ctx, older.ID())
		require.NoError(t, err)
		assert.Equal(t, "Older", found.Name())
		assert.Equal(t, "Infra", found.Category())
		assert.True(t, older.CreatedAt().Equal(found.CreatedAt()))
	})

	t.Run("missing project", func(t *testing.T) {
		_, err := r.projects.FindByID(ctx, uuid.New())
		assert.ErrorIs(t, err, domain.ErrProjectNotFound)
	})

	t.Run("list newest first with paging", func(t *testing.T) {
		page, err := r.projects.List(ctx, domain.Page{Number: 1, Limit: 1})
		require.NoError(t, err)
		require.Len(t, page, 1)
		assert.Equal(t, newer.ID(), page[0].ID())

		page, err = r.projects.List(ctx, domain.Page{Number: 2, Limit: 1})
		require.NoError(t, err)
		require.Len(t, page, 1)
		assert.Equal(t, older.ID(), page[0].ID())
	})

	t.Run("update via save", func(t *testing.T) {
		require.NoError(t, newer.Update(domain.ProjectPatch{Name: ptr("Renamed")}, testNow.Add(time.Minute)))
		require.NoError(t, r.projects.Save(ctx, newer))

		found, err := r.projects.FindByID(ctx, newer.ID())
		require.NoError(t, err)
		assert.Equal(t, "Renamed", found.Name())
	})

	t.Run("touch", func(t *testing.T) {
		later := testNow.Add(24 * time.Hour)
		require.NoError(t, r.projects.Touch(ctx, older.ID(), later))

		found, err := r.projects.FindByID(ctx, older.ID())
		require.NoError(t, err)
		assert.True(t, later.Equal(found.UpdatedAt()))

		assert.ErrorIs(t, r.projects.Touch(ctx, uuid.New(), later), domain.ErrProjectNotFound)
	})
}

func TestProjectRepository_DeleteCascades(t *testing.T) {
	ctx := context.Background()
	r := setup(t)

	p := r.project(t, "Doomed", testNow)
	task := r.task(t, p.ID(), "Only task", 0)
	snap := r.snapshot(t, task, domain.Bucket{Year: 2025, Month: 3, Week: 2}, "")

	require.NoError(t, r.projects.Delete(ctx, p.ID()))

	_, err := r.tasks.FindByID(ctx, task.ID())
	assert.ErrorIs(t, err, domain.ErrTaskNotFound)
	_, err = r.snapshots.FindByID(ctx, snap.ID())
	assert.ErrorIs(t, err, domain.ErrSnapshotNotFound)

	assert.ErrorIs(t, r.projects.Delete(ctx, p.ID()), domain.ErrProjectNotFound)
}

func TestTaskRepository(t *testing.T) {
	ctx := context.Background()
	r := setup(t)

	p := r.project(t, "Tracked", testNow)
	other := r.project(t, "Other", testNow)
	second := r.task(t, p.ID(), "Second", 2)
	first := r.task(t, p.ID(), "First", 1)
	foreign := r.task(t, other.ID(), "Foreign", 0)

	t.Run("round trips every field", func(t *testing.T) {
		estimated := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
		require.NoError(t, first.Update(domain.TaskPatch{
			Responsible:    ptr("ana"),
			ActualProgress: ptr(30.0),
			EstimatedDate:  &estimated,
			Comments:       ptr("slow start"),
			Evidence:       ptr("https://example.test/e"),
			Priority:       ptr(1),
			ParentTaskID:   ptr(second.ID()),
			IsMacroProcess: ptr(true),
		}, testNow))
		require.NoError(t, r.tasks.Save(ctx, first))

		found, err := r.tasks.FindByID(ctx, first.ID())
		require.NoError(t, err)
		assert.Equal(t, first.State(), found.State())
		assert.Equal(t, 5, found.DelayDays())
		assert.Equal(t, domain.StatusDelayed, found.Status())
	})

	t.Run("find by project in order", func(t *testing.T) {
		tasks, err := r.tasks.FindByProject(ctx, p.ID())
		require.NoError(t, err)
		require.Len(t, tasks, 2)
		assert.Equal(t, first.ID(), tasks[0].ID())
		assert.Equal(t, second.ID(), tasks[1].ID())
	})

	t.Run("find by projects", func(t *testing.T) {
		tasks, err := r.tasks.FindByProjects(ctx, []uuid.UUID{p.ID(), other.ID()})
		require.NoError(t, err)
		assert.Len(t, tasks, 3)

		none, err := r.tasks.FindByProjects(ctx, nil)
		require.NoError(t, err)
		assert.Empty(t, none)
	})

	t.Run("count and find all", func(t *testing.T) {
		count, err := r.tasks.CountByProject(ctx, p.ID())
		require.NoError(t, err)
		assert.Equal(t, 2, count)

		all, err := r.tasks.FindAll(ctx)
		require.NoError(t, err)
		assert.Len(t, all, 3)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, r.tasks.Delete(ctx, foreign.ID()))
		assert.ErrorIs(t, r.tasks.Delete(ctx, foreign.ID()), domain.ErrTaskNotFound)
	})

	t.Run("deleting a parent clears the child link", func(t *testing.T) {
		require.NoError(t, r.tasks.Delete(ctx, second.ID()))

		found, err := r.tasks.FindByID(ctx, first.ID())
		require.NoError(t, err)
		assert.Nil(t, found.ParentTaskID())
	})
}

func TestSnapshotRepository(t *testing.T) {
	ctx := context.Background()
	r := setup(t)

	p := r.project(t, "Weekly", testNow)
	other := r.project(t, "Elsewhere", testNow)
	task := r.task(t, p.ID(), "Build", 0)
	otherTask := r.task(t, other.ID(), "Run", 0)

	march2 := domain.Bucket{Year: 2025, Month: 3, Week: 2}
	feb4 := domain.Bucket{Year: 2025, Month: 2, Week: 4}
	may1 := domain.Bucket{Year: 2025, Month: 5, Week: 1}

	s1 := r.snapshot(t, task, march2, "march")
	r.snapshot(t, task, feb4, "feb")
	r.snapshot(t, task, may1, "may")
	r.snapshot(t, otherTask, march2, "other")

	t.Run("find by bucket", func(t *testing.T) {
		found, err := r.snapshots.FindByBucket(ctx, task.ID(), march2)
		require.NoError(t, err)
		assert.Equal(t, s1.ID(), found.ID())
		assert.Equal(t, s1.State(), found.State())

		_, err = r.snapshots.FindByBucket(ctx, task.ID(), domain.Bucket{Year: 2025, Month: 3, Week: 3})
		assert.ErrorIs(t, err, domain.ErrSnapshotNotFound)
	})

	t.Run("find by task newest first and filtered", func(t *testing.T) {
		all, err := r.snapshots.FindByTask(ctx, task.ID(), domain.SnapshotFilter{})
		require.NoError(t, err)
		require.Len(t, all, 3)
		assert.Equal(t, "may", all[0].Comments(), "newest week first")
		assert.Equal(t, "march", all[1].Comments())
		assert.Equal(t, "feb", all[2].Comments())

		march, err := r.snapshots.FindByTask(ctx, task.ID(), domain.SnapshotFilter{Year: ptr(2025), Month: ptr(3)})
		require.NoError(t, err)
		require.Len(t, march, 1)
		assert.Equal(t, "march", march[0].Comments())
	})

	t.Run("find by project", func(t *testing.T) {
		snaps, err := r.snapshots.FindByProject(ctx, p.ID(), domain.SnapshotFilter{Year: ptr(2025)})
		require.NoError(t, err)
		assert.Len(t, snaps, 3)
	})

	t.Run("find in range", func(t *testing.T) {
		snaps, err := r.snapshots.FindInRange(ctx, p.ID(), domain.MonthRange{StartYear: 2025, StartMonth: 2, EndYear: 2025, EndMonth: 3})
		require.NoError(t, err)
		require.Len(t, snaps, 2)
		assert.Equal(t, feb4, snaps[0].Bucket())
		assert.Equal(t, march2, snaps[1].Bucket())
	})

	t.Run("find by week", func(t *testing.T) {
		all, err := r.snapshots.FindByWeek(ctx, march2, nil)
		require.NoError(t, err)
		assert.Len(t, all, 2)

		pid := p.ID()
		scoped, err := r.snapshots.FindByWeek(ctx, march2, &pid)
		require.NoError(t, err)
		require.Len(t, scoped, 1)
		assert.Equal(t, task.ID(), scoped[0].TaskID())
	})

	t.Run("patch via save keeps one record per bucket", func(t *testing.T) {
		require.NoError(t, s1.Patch(domain.SnapshotPatch{Comments: ptr("revised")}, testNow.Add(time.Hour)))
		require.NoError(t, r.snapshots.Save(ctx, s1))

		snaps, err := r.snapshots.FindByTask(ctx, task.ID(), domain.SnapshotFilter{Month: ptr(3)})
		require.NoError(t, err)
		require.Len(t, snaps, 1)
		assert.Equal(t, "revised", snaps[0].Comments())
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, r.snapshots.Delete(ctx, s1.ID()))
		assert.ErrorIs(t, r.snapshots.Delete(ctx, s1.ID()), domain.ErrSnapshotNotFound)
	})

	t.Run("deleting the task removes its snapshots", func(t *testing.T) {
		require.NoError(t, r.tasks.Delete(ctx, task.ID()))
		snaps, err := r.snapshots.FindByProject(ctx, p.ID(), domain.SnapshotFilter{})
		require.NoError(t, err)
		assert.Empty(t, snaps)
	})
}

func TestRepositories_JoinUnitOfWork(t *testing.T) {
	ctx := context.Background()
	r := setup(t)
	uow := database.NewUnitOfWork(r.conn)

	txCtx, err := uow.Begin(ctx)
	require.NoError(t, err)
	p, err := domain.NewProject("Rolled back", "", "", testNow)
	require.NoError(t, err)
	require.NoError(t, r.projects.Save(txCtx, p))
	require.NoError(t, uow.Rollback(txCtx))

	_, err = r.projects.FindByID(ctx, p.ID())
	assert.ErrorIs(t, err, domain.ErrProjectNotFound)
}
