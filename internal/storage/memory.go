package storage

import (
	"cmp"
	"context"
	"slices"
	"sync"

	"github.com/user/todo/internal/task"
)

// MemoryRepository keeps tasks in a map for the lifetime of the process.
// Stored tasks are shared with callers: the service mutates the instance it
// got from Get and hands it back to Save.
type MemoryRepository struct {
	mu     sync.Mutex
	tasks  map[int]*task.Task
	nextID int
}

var _ task.Repository = (*MemoryRepository)(nil)

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		tasks:  make(map[int]*task.Task),
		nextID: 1,
	}
}

func (r *MemoryRepository) Save(ctx context.Context, t *task.Task) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()

	r.tasks[t.ID] = t
	return nil
}

func (r *MemoryRepository) Get(ctx context.Context, id int) (*task.Task, bool, error) {
	_ = ctx
	r.mu.Lock()
	t, ok := r.tasks[id]
	r.mu.Unlock()

	return t, ok, nil
}

func (r *MemoryRepository) Delete(ctx context.Context, id int) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.tasks, id)
	return nil
}

func (r *MemoryRepository) ListAll(ctx context.Context) ([]*task.Task, error) {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.collectLocked(func(*task.Task) bool { return true }), nil
}

func (r *MemoryRepository) ListByCompleted(ctx context.Context, completed bool) ([]*task.Task, error) {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.collectLocked(func(t *task.Task) bool { return t.Completed == completed }), nil
}

func (r *MemoryRepository) Count(ctx context.Context) (int, error) {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.tasks), nil
}

func (r *MemoryRepository) GenerateID(ctx context.Context) (int, error) {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()

	id := r.nextID
	r.nextID++
	return id, nil
}

// Search returns matching tasks ordered by id
func (r *MemoryRepository) Search(ctx context.Context, f task.Filter) ([]*task.Task, error) {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.collectLocked(f.Matches), nil
}

func (r *MemoryRepository) Sort(tasks []*task.Task, field task.SortField, ascending bool) []*task.Task {
	return task.Sort(tasks, field, ascending)
}

func (r *MemoryRepository) collectLocked(keep func(*task.Task) bool) []*task.Task {
	out := make([]*task.Task, 0, len(r.tasks))
	for _, t := range r.tasks {
		if keep(t) {
			out = append(out, t)
		}
	}
	slices.SortFunc(out, func(a, b *task.Task) int { return cmp.Compare(a.ID, b.ID) })
	return out
}
