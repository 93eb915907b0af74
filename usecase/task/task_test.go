package task

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	bbolt "go.etcd.io/bbolt"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/fastygo/taskservice/domain"
	"github.com/fastygo/taskservice/repository"
	boltRepo "github.com/fastygo/taskservice/repository/bolt"
)

// fakeRepository is a func-field TaskRepository for unit tests.
type fakeRepository struct {
	GetByIDFn func(ctx context.Context, id string) (*domain.Task, error)
	ListFn    func(ctx context.Context, filter repository.TaskFilter) ([]domain.Task, error)
	CreateFn  func(ctx context.Context, task *domain.Task) (*domain.Task, error)
	UpdateFn  func(ctx context.Context, id string, patch domain.TaskPatch) (*domain.Task, error)
}

func (f *fakeRepository) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	if f.GetByIDFn != nil {
		return f.GetByIDFn(ctx, id)
	}
	return nil, domain.ErrTaskNotFound
}

func (f *fakeRepository) List(ctx context.Context, filter repository.TaskFilter) ([]domain.Task, error) {
	if f.ListFn != nil {
		return f.ListFn(ctx, filter)
	}
	return []domain.Task{}, nil
}

func (f *fakeRepository) Create(ctx context.Context, task *domain.Task) (*domain.Task, error) {
	if f.CreateFn != nil {
		return f.CreateFn(ctx, task)
	}
	created := *task
	created.ID = "generated"
	return &created, nil
}

func (f *fakeRepository) Update(ctx context.Context, id string, patch domain.TaskPatch) (*domain.Task, error) {
	if f.UpdateFn != nil {
		return f.UpdateFn(ctx, id, patch)
	}
	return nil, domain.ErrTaskNotFound
}

func (f *fakeRepository) Ping(ctx context.Context) error { return nil }

var fixedNow = time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

func newObserved(repo repository.TaskRepository) (*UseCase, *observer.ObservedLogs) {
	core, logs := observer.New(zap.DebugLevel)
	return New(repo, fixedClock, zap.New(core)), logs
}

func TestCreateTaskAppliesDefaultPriority(t *testing.T) {
	uc, logs := newObserved(&fakeRepository{})

	created, err := uc.CreateTask(context.Background(), &domain.Task{Title: "Buy milk"})
	require.NoError(t, err)
	assert.Equal(t, domain.PriorityMid, created.Priority)
	assert.False(t, created.Completed)
	assert.False(t, created.Deleted)

	entries := logs.FilterMessage("new task created").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "generated", entries[0].ContextMap()["task_id"])
	assert.Equal(t, "Buy milk", entries[0].ContextMap()["title"])
}

func TestCreateTaskRejectsEmptyTitleWithoutPersisting(t *testing.T) {
	called := false
	repo := &fakeRepository{CreateFn: func(ctx context.Context, task *domain.Task) (*domain.Task, error) {
		called = true
		return task, nil
	}}
	uc, logs := newObserved(repo)

	for _, task := range []*domain.Task{{Title: ""}, {Title: "   "}, nil, {Title: "x", Priority: "urgent"}} {
		_, err := uc.CreateTask(context.Background(), task)
		require.Error(t, err)
		assert.True(t, domain.IsDomainError(err, domain.ErrCodeInvalid))
	}
	assert.False(t, called)
	assert.Equal(t, 4, logs.FilterMessage("error creating task").Len())
}

func TestCreateTaskStoreFailureIsInternal(t *testing.T) {
	repo := &fakeRepository{CreateFn: func(ctx context.Context, task *domain.Task) (*domain.Task, error) {
		return nil, errors.New("connection refused")
	}}
	uc, _ := newObserved(repo)

	_, err := uc.CreateTask(context.Background(), &domain.Task{Title: "x"})
	require.Error(t, err)
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeInternal))
}

func TestListTasksExcludesDeletedAndSorts(t *testing.T) {
	var gotFilter repository.TaskFilter
	repo := &fakeRepository{ListFn: func(ctx context.Context, filter repository.TaskFilter) ([]domain.Task, error) {
		gotFilter = filter
		return []domain.Task{
			{ID: "1", Priority: domain.PriorityLow},
			{ID: "2", Priority: domain.PriorityHigh},
			{ID: "3", Priority: domain.PriorityMid},
		}, nil
	}}
	uc, logs := newObserved(repo)

	tasks, err := uc.ListTasks(context.Background(), domain.SortPriority)
	require.NoError(t, err)
	assert.False(t, gotFilter.IncludeDeleted)
	require.Len(t, tasks, 3)
	assert.Equal(t, domain.PriorityHigh, tasks[0].Priority)
	assert.Equal(t, domain.PriorityMid, tasks[1].Priority)
	assert.Equal(t, domain.PriorityLow, tasks[2].Priority)

	entries := logs.FilterMessage("tasks retrieved").All()
	require.Len(t, entries, 1)
	assert.Equal(t, int64(3), entries[0].ContextMap()["count"])
}

func TestListTasksStoreFailure(t *testing.T) {
	repo := &fakeRepository{ListFn: func(ctx context.Context, filter repository.TaskFilter) ([]domain.Task, error) {
		return nil, errors.New("timeout")
	}}
	uc, logs := newObserved(repo)

	_, err := uc.ListTasks(context.Background(), domain.SortNone)
	require.Error(t, err)
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeInternal))
	assert.Equal(t, 1, logs.FilterMessage("error fetching tasks").Len())
}

func TestCompleteMissingTaskIsNotFound(t *testing.T) {
	uc, logs := newObserved(&fakeRepository{})

	_, err := uc.CompleteTask(context.Background(), "nope")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrTaskNotFound)

	entries := logs.FilterMessage("task not found for completion").All()
	require.Len(t, entries, 1)
	assert.Equal(t, zap.WarnLevel, entries[0].Level)
	assert.Equal(t, "nope", entries[0].ContextMap()["task_id"])
}

func TestDeleteTaskUsesClockForDeletedAt(t *testing.T) {
	var gotPatch domain.TaskPatch
	repo := &fakeRepository{UpdateFn: func(ctx context.Context, id string, patch domain.TaskPatch) (*domain.Task, error) {
		gotPatch = patch
		task := &domain.Task{ID: id, Title: "x"}
		patch.Apply(task)
		return task, nil
	}}
	uc, _ := newObserved(repo)

	require.NoError(t, uc.DeleteTask(context.Background(), "abc"))
	require.NotNil(t, gotPatch.Deleted)
	assert.True(t, *gotPatch.Deleted)
	require.NotNil(t, gotPatch.DeletedAt)
	assert.Equal(t, fixedNow, *gotPatch.DeletedAt)
}

func TestUpdateTaskOnlyClearsDeleteFlag(t *testing.T) {
	var gotPatch domain.TaskPatch
	repo := &fakeRepository{UpdateFn: func(ctx context.Context, id string, patch domain.TaskPatch) (*domain.Task, error) {
		gotPatch = patch
		return &domain.Task{ID: id}, nil
	}}
	uc, _ := newObserved(repo)

	_, err := uc.UpdateTask(context.Background(), "abc")
	require.NoError(t, err)
	assert.Nil(t, gotPatch.Completed)
	require.NotNil(t, gotPatch.Deleted)
	assert.False(t, *gotPatch.Deleted)
}

func TestLifecycleAgainstBoltStore(t *testing.T) {
	db, err := bbolt.Open(filepath.Join(t.TempDir(), "tasks.db"), 0o600, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	repo, err := boltRepo.NewTaskRepository(db, "", nil)
	require.NoError(t, err)

	uc := New(repo, nil, zap.NewNop())
	ctx := context.Background()

	created, err := uc.CreateTask(ctx, &domain.Task{Title: "Buy milk"})
	require.NoError(t, err)
	assert.Equal(t, domain.PriorityMid, created.Priority)

	require.NoError(t, uc.DeleteTask(ctx, created.ID))

	listed, err := uc.ListTasks(ctx, domain.SortNone)
	require.NoError(t, err)
	assert.Empty(t, listed)

	hidden, err := uc.GetTask(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, hidden.Deleted)
	assert.NotNil(t, hidden.DeletedAt)
	assert.Equal(t, created.ID, hidden.ID)

	restored, err := uc.RestoreTask(ctx, created.ID)
	require.NoError(t, err)
	assert.False(t, restored.Deleted)
	assert.Nil(t, restored.DeletedAt)

	completed, err := uc.CompleteTask(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, completed.Completed)
	assert.False(t, completed.Deleted)
	assert.False(t, completed.UpdatedAt.Before(completed.CreatedAt))

	listed, err = uc.ListTasks(ctx, domain.SortNone)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, created.ID, listed[0].ID)
}
