package task

import "context"

// Repository owns the task collection. Lookups of missing ids are not
// errors: Get reports ok=false and Delete is a no-op. The error results
// only carry backend failures.
type Repository interface {
	// Save inserts or overwrites t by id
	Save(ctx context.Context, t *Task) error
	Get(ctx context.Context, id int) (*Task, bool, error)
	Delete(ctx context.Context, id int) error
	// ListAll returns every task ordered by ascending id
	ListAll(ctx context.Context) ([]*Task, error)
	// ListByCompleted returns tasks with the given completion flag ordered by ascending id
	ListByCompleted(ctx context.Context, completed bool) ([]*Task, error)
	Count(ctx context.Context) (int, error)
	// GenerateID returns the next id, starting at 1. Ids are never reused,
	// even after the task holding one is deleted.
	GenerateID(ctx context.Context) (int, error)
	Search(ctx context.Context, f Filter) ([]*Task, error)
	Sort(tasks []*Task, field SortField, ascending bool) []*Task
}
