package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	mongodrv "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/fastygo/taskservice/domain"
	"github.com/fastygo/taskservice/repository"
)

type taskRepository struct {
	coll *mongodrv.Collection
	now  repository.Clock
}

// NewTaskRepository returns a MongoDB-backed implementation of TaskRepository.
func NewTaskRepository(coll *mongodrv.Collection, clock repository.Clock) repository.TaskRepository {
	return &taskRepository{coll: coll, now: clock.OrSystem()}
}

func (r *taskRepository) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrTaskNotFound
	}
	var doc taskDocument
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		return nil, notFound(err)
	}
	task := doc.toDomain()
	return &task, nil
}

func (r *taskRepository) List(ctx context.Context, filter repository.TaskFilter) ([]domain.Task, error) {
	cursor, err := r.coll.Find(ctx, listFilter(filter.IncludeDeleted))
	if err != nil {
		return nil, err
	}
	var docs []taskDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	tasks := make([]domain.Task, 0, len(docs))
	for _, doc := range docs {
		tasks = append(tasks, doc.toDomain())
	}
	return tasks, nil
}

func (r *taskRepository) Create(ctx context.Context, task *domain.Task) (*domain.Task, error) {
	if task == nil {
		return nil, domain.ValidationError("task payload is required")
	}
	stored := *task
	stored.CreatedAt = r.now()
	stored.Touch(stored.CreatedAt)

	doc := fromDomain(&stored)
	doc.ID = primitive.NewObjectID()
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return nil, err
	}
	stored.ID = doc.ID.Hex()
	return &stored, nil
}

func (r *taskRepository) Update(ctx context.Context, id string, patch domain.TaskPatch) (*domain.Task, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrTaskNotFound
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc taskDocument
	if err := r.coll.FindOneAndUpdate(ctx, bson.M{"_id": oid}, updateDocument(patch, r.now()), opts).Decode(&doc); err != nil {
		return nil, notFound(err)
	}
	task := doc.toDomain()
	return &task, nil
}

func (r *taskRepository) Ping(ctx context.Context) error {
	return r.coll.Database().Client().Ping(ctx, readpref.Primary())
}

func notFound(err error) error {
	if errors.Is(err, mongodrv.ErrNoDocuments) {
		return domain.ErrTaskNotFound
	}
	return err
}
