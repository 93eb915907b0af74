package domain

import "time"

// Priority is the urgency bucket of a task.
type Priority string

const (
	PriorityHigh Priority = "high"
	PriorityMid  Priority = "mid"
	PriorityLow  Priority = "low"
)

// DefaultPriority is applied when a task is created without one.
const DefaultPriority = PriorityMid

// Valid reports whether p is one of the known priorities.
func (p Priority) Valid() bool {
	switch p {
	case PriorityHigh, PriorityMid, PriorityLow:
		return true
	}
	return false
}

// Rank orders priorities high < mid < low. Unknown values sort after low.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityMid:
		return 1
	case PriorityLow:
		return 2
	default:
		return 3
	}
}

// Task is the single persisted to-do item.
type Task struct {
	ID            string     `json:"id"`
	Title         string     `json:"title"`
	Description   string     `json:"description,omitempty"`
	Priority      Priority   `json:"priority"`
	DueDateString string     `json:"dueDateString,omitempty"`
	DueDate       *time.Time `json:"dueDate,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
	Completed     bool       `json:"completed"`
	Deleted       bool       `json:"deleted"`
	DeletedAt     *time.Time `json:"deletedAt"`
}

// ApplyDefaults fills the fields a new task may omit.
func (t *Task) ApplyDefaults() {
	if t == nil {
		return
	}
	if t.Priority == "" {
		t.Priority = DefaultPriority
	}
}

// Touch refreshes UpdatedAt and seeds CreatedAt on first save. Every store
// backend calls it on each write.
func (t *Task) Touch(now time.Time) {
	if t == nil {
		return
	}
	t.UpdatedAt = now
	if t.CreatedAt.IsZero() {
		t.CreatedAt = now
	}
}

// TaskPatch is a partial update applied to a single stored task. Nil fields
// are left untouched. DeletedAt is only applied together with Deleted.
type TaskPatch struct {
	Completed *bool
	Deleted   *bool
	DeletedAt *time.Time
}

// SoftDeletePatch hides a task from the default listing.
func SoftDeletePatch(at time.Time) TaskPatch {
	deleted := true
	return TaskPatch{Deleted: &deleted, DeletedAt: &at}
}

// RestorePatch reverts a soft delete and clears DeletedAt.
func RestorePatch() TaskPatch {
	deleted := false
	return TaskPatch{Deleted: &deleted}
}

// CompletePatch marks a task as done without touching the delete flags.
func CompletePatch() TaskPatch {
	completed := true
	return TaskPatch{Completed: &completed}
}

// Apply mutates t according to the patch.
func (p TaskPatch) Apply(t *Task) {
	if t == nil {
		return
	}
	if p.Completed != nil {
		t.Completed = *p.Completed
	}
	if p.Deleted != nil {
		t.Deleted = *p.Deleted
		if t.Deleted {
			t.DeletedAt = p.DeletedAt
		} else {
			t.DeletedAt = nil
		}
	}
}
