package task

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/fastygo/taskservice/domain"
	"github.com/fastygo/taskservice/pkg/logger"
	"github.com/fastygo/taskservice/repository"
)

type UseCase struct {
	tasks  repository.TaskRepository
	now    repository.Clock
	logger *zap.Logger
}

func New(tasks repository.TaskRepository, clock repository.Clock, log *zap.Logger) *UseCase {
	if log == nil {
		log = zap.NewNop()
	}
	return &UseCase{
		tasks:  tasks,
		now:    clock.OrSystem(),
		logger: log,
	}
}

// ListTasks returns every task that is not soft-deleted, ordered by key.
func (uc *UseCase) ListTasks(ctx context.Context, key domain.SortKey) ([]domain.Task, error) {
	log := uc.log(ctx)

	tasks, err := uc.tasks.List(ctx, repository.TaskFilter{})
	if err != nil {
		log.Error("error fetching tasks", zap.Error(err))
		return nil, classify("list tasks", err)
	}
	domain.SortTasks(tasks, key)

	log.Info("tasks retrieved", zap.Int("count", len(tasks)), zap.String("sort", string(key)))
	return tasks, nil
}

// GetTask reads a single task by id, soft-deleted or not.
func (uc *UseCase) GetTask(ctx context.Context, id string) (*domain.Task, error) {
	task, err := uc.tasks.GetByID(ctx, id)
	if err != nil {
		uc.logFailure(ctx, "fetch", id, err)
		return nil, classify("get task", err)
	}
	return task, nil
}

func (uc *UseCase) CreateTask(ctx context.Context, task *domain.Task) (*domain.Task, error) {
	log := uc.log(ctx)

	if err := validate(task); err != nil {
		log.Error("error creating task", zap.Error(err))
		return nil, err
	}
	task.ApplyDefaults()

	created, err := uc.tasks.Create(ctx, task)
	if err != nil {
		log.Error("error creating task", zap.Error(err))
		return nil, classify("create task", err)
	}

	log.Info("new task created", zap.String("task_id", created.ID), zap.String("title", created.Title))
	return created, nil
}

// UpdateTask clears the delete flag of a task. The update route ignores its
// request body; this keeps the behaviour existing clients depend on.
func (uc *UseCase) UpdateTask(ctx context.Context, id string) (*domain.Task, error) {
	task, err := uc.tasks.Update(ctx, id, domain.RestorePatch())
	if err != nil {
		uc.logFailure(ctx, "update", id, err)
		return nil, classify("update task", err)
	}
	uc.log(ctx).Info("task updated successfully", zap.String("task_id", task.ID), zap.String("title", task.Title))
	return task, nil
}

func (uc *UseCase) DeleteTask(ctx context.Context, id string) error {
	task, err := uc.tasks.Update(ctx, id, domain.SoftDeletePatch(uc.now()))
	if err != nil {
		uc.logFailure(ctx, "deletion", id, err)
		return classify("delete task", err)
	}
	uc.log(ctx).Info("task deleted successfully", zap.String("task_id", task.ID), zap.String("title", task.Title))
	return nil
}

func (uc *UseCase) RestoreTask(ctx context.Context, id string) (*domain.Task, error) {
	task, err := uc.tasks.Update(ctx, id, domain.RestorePatch())
	if err != nil {
		uc.logFailure(ctx, "restore", id, err)
		return nil, classify("restore task", err)
	}
	uc.log(ctx).Info("task restored successfully", zap.String("task_id", task.ID), zap.String("title", task.Title))
	return task, nil
}

func (uc *UseCase) CompleteTask(ctx context.Context, id string) (*domain.Task, error) {
	task, err := uc.tasks.Update(ctx, id, domain.CompletePatch())
	if err != nil {
		uc.logFailure(ctx, "completion", id, err)
		return nil, classify("complete task", err)
	}
	uc.log(ctx).Info("task marked as completed", zap.String("task_id", task.ID), zap.String("title", task.Title))
	return task, nil
}

func (uc *UseCase) log(ctx context.Context) *zap.Logger {
	return logger.WithRequestID(ctx, uc.logger)
}

func (uc *UseCase) logFailure(ctx context.Context, action, id string, err error) {
	log := uc.log(ctx)
	if domain.IsDomainError(err, domain.ErrCodeNotFound) {
		log.Warn("task not found for "+action, zap.String("task_id", id))
		return
	}
	log.Error("error during task "+action, zap.String("task_id", id), zap.Error(err))
}

func validate(task *domain.Task) error {
	if task == nil {
		return domain.ValidationError("Task validation failed: task payload is required")
	}
	task.Title = strings.TrimSpace(task.Title)
	if task.Title == "" {
		return domain.ValidationError("Task validation failed: title is required")
	}
	if task.Priority != "" && !task.Priority.Valid() {
		return domain.ValidationError("Task validation failed: priority: \"" + string(task.Priority) + "\" is not a valid value")
	}
	return nil
}

// classify leaves domain errors as they are and marks everything else as a
// store failure.
func classify(op string, err error) error {
	var dErr *domain.Error
	if errors.As(err, &dErr) {
		return err
	}
	return domain.StoreError(op, err)
}
