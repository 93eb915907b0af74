package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fastygo/taskservice/domain"
	"github.com/fastygo/taskservice/repository"
)

const taskColumns = `id, title, description, priority, due_date_string, due_date, created_at, updated_at, completed, deleted, deleted_at`

type taskRepository struct {
	pool *pgxpool.Pool
	now  repository.Clock
}

// NewTaskRepository returns a Postgres-backed implementation of TaskRepository.
func NewTaskRepository(pool *pgxpool.Pool, clock repository.Clock) repository.TaskRepository {
	return &taskRepository{pool: pool, now: clock.OrSystem()}
}

func (r *taskRepository) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	if !validID(id) {
		return nil, domain.ErrTaskNotFound
	}
	const query = `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1`
	return scanTask(r.pool.QueryRow(ctx, query, id))
}

func (r *taskRepository) List(ctx context.Context, filter repository.TaskFilter) ([]domain.Task, error) {
	const query = `
	SELECT ` + taskColumns + `
	FROM tasks
	WHERE ($1 OR deleted = FALSE)
	ORDER BY created_at, id
	`
	rows, err := r.pool.Query(ctx, query, filter.IncludeDeleted)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tasks := []domain.Task{}
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *task)
	}
	return tasks, rows.Err()
}

func (r *taskRepository) Create(ctx context.Context, task *domain.Task) (*domain.Task, error) {
	if task == nil {
		return nil, domain.ValidationError("task payload is required")
	}
	id, err := uuid.NewV7()
	if err != nil {
		return nil, err
	}

	stored := *task
	stored.ID = id.String()
	stored.CreatedAt = r.now()
	stored.Touch(stored.CreatedAt)

	const query = `
	INSERT INTO tasks (` + taskColumns + `)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	RETURNING ` + taskColumns

	return scanTask(r.pool.QueryRow(ctx, query,
		stored.ID,
		stored.Title,
		stored.Description,
		string(stored.Priority),
		stored.DueDateString,
		nullTime(stored.DueDate),
		stored.CreatedAt,
		stored.UpdatedAt,
		stored.Completed,
		stored.Deleted,
		nullTime(stored.DeletedAt),
	))
}

func (r *taskRepository) Update(ctx context.Context, id string, patch domain.TaskPatch) (*domain.Task, error) {
	if !validID(id) {
		return nil, domain.ErrTaskNotFound
	}

	const query = `
	UPDATE tasks
	SET completed = COALESCE($2::boolean, completed),
		deleted = COALESCE($3::boolean, deleted),
		deleted_at = CASE
			WHEN $3::boolean IS NULL THEN deleted_at
			WHEN $3::boolean THEN $4::timestamptz
			ELSE NULL
		END,
		updated_at = $5
	WHERE id = $1
	RETURNING ` + taskColumns

	return scanTask(r.pool.QueryRow(ctx, query,
		id,
		patch.Completed,
		patch.Deleted,
		nullTime(patch.DeletedAt),
		r.now(),
	))
}

func (r *taskRepository) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

func scanTask(row interface {
	Scan(dest ...interface{}) error
}) (*domain.Task, error) {
	var task domain.Task
	var (
		priority  string
		due       *time.Time
		deletedAt *time.Time
	)

	if err := row.Scan(
		&task.ID,
		&task.Title,
		&task.Description,
		&priority,
		&task.DueDateString,
		&due,
		&task.CreatedAt,
		&task.UpdatedAt,
		&task.Completed,
		&task.Deleted,
		&deletedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, err
	}

	task.Priority = domain.Priority(priority)
	task.DueDate = due
	task.DeletedAt = deletedAt
	return &task, nil
}
