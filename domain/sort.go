package domain

import "sort"

// SortKey selects the ordering of the task listing.
type SortKey string

const (
	SortNone      SortKey = ""
	SortDateAdded SortKey = "dateAdded"
	SortDueDate   SortKey = "dueDate"
	SortPriority  SortKey = "priority"
)

// ParseSortKey maps a query value to a SortKey. Unrecognised values fall back
// to the store order.
func ParseSortKey(raw string) SortKey {
	switch k := SortKey(raw); k {
	case SortDateAdded, SortDueDate, SortPriority:
		return k
	}
	return SortNone
}

// SortTasks orders tasks in place. SortNone keeps the order the store returned.
func SortTasks(tasks []Task, key SortKey) {
	var less func(a, b *Task) bool
	switch key {
	case SortDateAdded:
		less = func(a, b *Task) bool { return a.CreatedAt.After(b.CreatedAt) }
	case SortDueDate:
		// tasks without a due date go last
		less = func(a, b *Task) bool {
			switch {
			case a.DueDate == nil:
				return false
			case b.DueDate == nil:
				return true
			}
			return a.DueDate.Before(*b.DueDate)
		}
	case SortPriority:
		less = func(a, b *Task) bool { return a.Priority.Rank() < b.Priority.Rank() }
	default:
		return
	}
	sort.SliceStable(tasks, func(i, j int) bool { return less(&tasks[i], &tasks[j]) })
}
