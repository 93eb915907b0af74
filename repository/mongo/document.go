package mongo

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/fastygo/taskservice/domain"
)

// taskDocument is the stored shape. Field names are camelCase to stay
// compatible with existing task collections.
type taskDocument struct {
	ID            primitive.ObjectID `bson:"_id,omitempty"`
	Title         string             `bson:"title"`
	Description   string             `bson:"description,omitempty"`
	Priority      string             `bson:"priority"`
	DueDateString string             `bson:"dueDateString,omitempty"`
	DueDate       *time.Time         `bson:"dueDate,omitempty"`
	CreatedAt     time.Time          `bson:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt"`
	Completed     bool               `bson:"completed"`
	Deleted       bool               `bson:"deleted"`
	DeletedAt     *time.Time         `bson:"deletedAt"`
}

func fromDomain(t *domain.Task) taskDocument {
	return taskDocument{
		Title:         t.Title,
		Description:   t.Description,
		Priority:      string(t.Priority),
		DueDateString: t.DueDateString,
		DueDate:       t.DueDate,
		CreatedAt:     t.CreatedAt,
		UpdatedAt:     t.UpdatedAt,
		Completed:     t.Completed,
		Deleted:       t.Deleted,
		DeletedAt:     t.DeletedAt,
	}
}

func (d taskDocument) toDomain() domain.Task {
	return domain.Task{
		ID:            d.ID.Hex(),
		Title:         d.Title,
		Description:   d.Description,
		Priority:      domain.Priority(d.Priority),
		DueDateString: d.DueDateString,
		DueDate:       utcPtr(d.DueDate),
		CreatedAt:     d.CreatedAt.UTC(),
		UpdatedAt:     d.UpdatedAt.UTC(),
		Completed:     d.Completed,
		Deleted:       d.Deleted,
		DeletedAt:     utcPtr(d.DeletedAt),
	}
}

// updateDocument translates a patch into a $set document. updatedAt is always
// part of it.
func updateDocument(patch domain.TaskPatch, now time.Time) bson.M {
	set := bson.M{"updatedAt": now}
	if patch.Completed != nil {
		set["completed"] = *patch.Completed
	}
	if patch.Deleted != nil {
		set["deleted"] = *patch.Deleted
		if *patch.Deleted && patch.DeletedAt != nil {
			set["deletedAt"] = *patch.DeletedAt
		} else {
			set["deletedAt"] = nil
		}
	}
	return bson.M{"$set": set}
}

func listFilter(includeDeleted bool) bson.M {
	if includeDeleted {
		return bson.M{}
	}
	return bson.M{"deleted": bson.M{"$ne": true}}
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := t.UTC()
	return &v
}
