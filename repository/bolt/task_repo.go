package bolt

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	bolt "go.etcd.io/bbolt"

	"github.com/fastygo/taskservice/domain"
	"github.com/fastygo/taskservice/repository"
)

// DefaultBucket holds task documents keyed by id.
const DefaultBucket = "tasks"

var errBucketMissing = errors.New("bolt: tasks bucket missing")

type taskRepository struct {
	db     *bolt.DB
	bucket []byte
	now    repository.Clock
}

// NewTaskRepository returns a BoltDB-backed TaskRepository and ensures the
// bucket exists. Ids are UUIDv7 so cursor order follows insertion order.
func NewTaskRepository(db *bolt.DB, bucket string, clock repository.Clock) (repository.TaskRepository, error) {
	if bucket == "" {
		bucket = DefaultBucket
	}
	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucket))
		return err
	}); err != nil {
		return nil, err
	}
	return &taskRepository{db: db, bucket: []byte(bucket), now: clock.OrSystem()}, nil
}

func (r *taskRepository) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	var task *domain.Task
	err := r.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(r.bucket)
		if b == nil {
			return errBucketMissing
		}
		v := b.Get([]byte(id))
		if v == nil {
			return domain.ErrTaskNotFound
		}
		var decoded domain.Task
		if err := json.Unmarshal(v, &decoded); err != nil {
			return err
		}
		task = &decoded
		return nil
	})
	return task, err
}

func (r *taskRepository) List(ctx context.Context, filter repository.TaskFilter) ([]domain.Task, error) {
	tasks := []domain.Task{}
	err := r.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(r.bucket)
		if b == nil {
			return errBucketMissing
		}
		return b.ForEach(func(_, v []byte) error {
			var task domain.Task
			if err := json.Unmarshal(v, &task); err != nil {
				return err
			}
			if task.Deleted && !filter.IncludeDeleted {
				return nil
			}
			tasks = append(tasks, task)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return tasks, nil
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

	payload, err := json.Marshal(stored)
	if err != nil {
		return nil, err
	}
	err = r.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(r.bucket)
		if b == nil {
			return errBucketMissing
		}
		return b.Put([]byte(stored.ID), payload)
	})
	if err != nil {
		return nil, err
	}
	return &stored, nil
}

func (r *taskRepository) Update(ctx context.Context, id string, patch domain.TaskPatch) (*domain.Task, error) {
	var task domain.Task
	err := r.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(r.bucket)
		if b == nil {
			return errBucketMissing
		}
		v := b.Get([]byte(id))
		if v == nil {
			return domain.ErrTaskNotFound
		}
		if err := json.Unmarshal(v, &task); err != nil {
			return err
		}
		patch.Apply(&task)
		task.Touch(r.now())

		payload, err := json.Marshal(task)
		if err != nil {
			return err
		}
		return b.Put([]byte(id), payload)
	})
	if err != nil {
		return nil, err
	}
	return &task, nil
}

func (r *taskRepository) Ping(ctx context.Context) error {
	return r.db.View(func(tx *bolt.Tx) error {
		if tx.Bucket(r.bucket) == nil {
			return errBucketMissing
		}
		return nil
	})
}
