package repository

import (
	"context"

	"github.com/fastygo/taskservice/domain"
)

type TaskFilter struct {
	IncludeDeleted bool
}

// TaskRepository is implemented by every store backend. Update applies the
// patch to a single document and returns the stored result; every write
// refreshes UpdatedAt.
type TaskRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Task, error)
	List(ctx context.Context, filter TaskFilter) ([]domain.Task, error)
	Create(ctx context.Context, task *domain.Task) (*domain.Task, error)
	Update(ctx context.Context, id string, patch domain.TaskPatch) (*domain.Task, error)
	Ping(ctx context.Context) error
}
