package queries

import (
	"context"
	"time"

	"github.com/felixgeelhaar/pacer/internal/projects/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// mockProjectRepo is a mock implementation of domain.ProjectRepository.
type mockProjectRepo struct {
	mock.Mock
}

func (m *mockProjectRepo) Save(ctx context.Context, project *domain.Project) error {
	args := m.Called(ctx, project)
	return args.Error(0)
}

func (m *mockProjectRepo) FindByID(ctx context.Context, id uuid.UUID) (*domain.Project, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Project), args.Error(1)
}

func (m *mockProjectRepo) List(ctx context.Context, page domain.Page) ([]*domain.Project, error) {
	args := m.Called(ctx, page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Project), args.Error(1)
}

func (m *mockProjectRepo) FindAll(ctx context.Context) ([]*domain.Project, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Project), args.Error(1)
}

func (m *mockProjectRepo) Touch(ctx context.Context, id uuid.UUID, now time.Time) error {
	args := m.Called(ctx, id, now)
	return args.Error(0)
}

func (m *mockProjectRepo) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// mockTaskRepo is a mock implementation of domain.TaskRepository.
type mockTaskRepo struct {
	mock.Mock
}

func (m *mockTaskRepo) Save(ctx context.Context, task *domain.Task) error {
	args := m.Called(ctx, task)
	return args.Error(0)
}

func (m *mockTaskRepo) FindByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Task), args.Error(1)
}

func (m *mockTaskRepo) FindByProject(ctx context.Context, projectID uuid.UUID) ([]*domain.Task, error) {
	args := m.Called(ctx, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Task), args.Error(1)
}

func (m *mockTaskRepo) FindByProjects(ctx context.Context, projectIDs []uuid.UUID) ([]*domain.Task, error) {
	args := m.Called(ctx, projectIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Task), args.Error(1)
}

func (m *mockTaskRepo) FindAll(ctx context.Context) ([]*domain.Task, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Task), args.Error(1)
}

func (m *mockTaskRepo) CountByProject(ctx context.Context, projectID uuid.UUID) (int, error) {
	args := m.Called(ctx, projectID)
	return args.Int(0), args.Error(1)
}

func (m *mockTaskRepo) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// mockSnapshotRepo is a mock implementation of domain.SnapshotRepository.
type mockSnapshotRepo struct {
	mock.Mock
}

func (m *mockSnapshotRepo) Save(ctx context.Context, snapshot *domain.WeeklySnapshot) error {
	args := m.Called(ctx, snapshot)
	return args.Error(0)
}

func (m *mockSnapshotRepo) FindByID(ctx context.Context, id uuid.UUID) (*domain.WeeklySnapshot, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.WeeklySnapshot), args.Error(1)
}

func (m *mockSnapshotRepo) FindByBucket(ctx context.Context, taskID uuid.UUID, bucket domain.Bucket) (*domain.WeeklySnapshot, error) {
	args := m.Called(ctx, taskID, bucket)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.WeeklySnapshot), args.Error(1)
}

func (m *mockSnapshotRepo) FindByTask(ctx context.Context, taskID uuid.UUID, filter domain.SnapshotFilter) ([]*domain.WeeklySnapshot, error) {
	args := m.Called(ctx, taskID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.WeeklySnapshot), args.Error(1)
}

func (m *mockSnapshotRepo) FindByProject(ctx context.Context, projectID uuid.UUID, filter domain.SnapshotFilter) ([]*domain.WeeklySnapshot, error) {
	args := m.Called(ctx, projectID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.WeeklySnapshot), args.Error(1)
}

func (m *mockSnapshotRepo) FindInRange(ctx context.Context, projectID uuid.UUID, r domain.MonthRange) ([]*domain.WeeklySnapshot, error) {
	args := m.Called(ctx, projectID, r)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.WeeklySnapshot), args.Error(1)
}

func (m *mockSnapshotRepo) FindByWeek(ctx context.Context, bucket domain.Bucket, projectID *uuid.UUID) ([]*domain.WeeklySnapshot, error) {
	args := m.Called(ctx, bucket, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.WeeklySnapshot), args.Error(1)
}

func (m *mockSnapshotRepo) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

