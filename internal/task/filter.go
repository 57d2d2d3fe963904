package task

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
	"time"
)

// Filter selects tasks. Nil or empty fields are not applied; all applied
// fields must match.
type Filter struct {
	Completed *bool
	Priority  *Priority
	// Tags matches a task that carries any of the listed tags
	Tags      []string
	Keyword   string
	DueBefore *time.Time
	DueAfter  *time.Time
}

// Matches reports whether t satisfies every applied predicate of f.
func (f Filter) Matches(t *Task) bool {
	if f.Completed != nil && t.Completed != *f.Completed {
		return false
	}
	if f.Priority != nil && t.Priority != *f.Priority {
		return false
	}
	if len(f.Tags) > 0 && !slices.ContainsFunc(f.Tags, t.HasTag) {
		return false
	}
	if f.Keyword != "" && !t.MatchesKeyword(f.Keyword) {
		return false
	}
	// due bounds are inclusive; undated tasks never satisfy a bound
	if f.DueBefore != nil && (t.DueDate == nil || t.DueDate.After(*f.DueBefore)) {
		return false
	}
	if f.DueAfter != nil && (t.DueDate == nil || t.DueDate.Before(*f.DueAfter)) {
		return false
	}
	return true
}

// Apply returns the tasks matching f, preserving input order.
func (f Filter) Apply(tasks []*Task) []*Task {
	out := make([]*Task, 0, len(tasks))
	for _, t := range tasks {
		if f.Matches(t) {
			out = append(out, t)
		}
	}
	return out
}

// SortField names a sortable task attribute
type SortField string

const (
	SortByID        SortField = "id"
	SortByTitle     SortField = "title"
	SortByCreatedAt SortField = "created_at"
	SortByUpdatedAt SortField = "updated_at"
	SortByDueDate   SortField = "due_date"
	SortByPriority  SortField = "priority"
)

// SortFields lists the recognised sort fields
var SortFields = []SortField{SortByID, SortByTitle, SortByCreatedAt, SortByUpdatedAt, SortByDueDate, SortByPriority}

// ParseSortField converts user input into a SortField.
func ParseSortField(s string) (SortField, error) {
	f := SortField(strings.ToLower(strings.TrimSpace(s)))
	if slices.Contains(SortFields, f) {
		return f, nil
	}
	return "", &ValidationError{
		Field:   "sort",
		Message: fmt.Sprintf("invalid sort field %q (want id, title, created_at, updated_at, due_date, priority)", s),
		kind:    ErrInvalidEnum,
	}
}

// maxTime stands in for a missing due date so undated tasks sort last ascending.
var maxTime = time.Unix(1<<62, 0)

// Sort returns a stably sorted copy of tasks. Unknown fields sort by id.
// Ties keep their input order in both directions.
func Sort(tasks []*Task, field SortField, ascending bool) []*Task {
	out := slices.Clone(tasks)
	compare := comparator(field)
	slices.SortStableFunc(out, func(a, b *Task) int {
		if ascending {
			return compare(a, b)
		}
		return compare(b, a)
	})
	return out
}

func comparator(field SortField) func(a, b *Task) int {
	switch field {
	case SortByTitle:
		return func(a, b *Task) int {
			return strings.Compare(strings.ToLower(a.Title), strings.ToLower(b.Title))
		}
	case SortByCreatedAt:
		return func(a, b *Task) int { return a.CreatedAt.Compare(b.CreatedAt) }
	case SortByUpdatedAt:
		return func(a, b *Task) int { return a.UpdatedAt.Compare(b.UpdatedAt) }
	case SortByDueDate:
		return func(a, b *Task) int { return dueOrMax(a).Compare(dueOrMax(b)) }
	case SortByPriority:
		return func(a, b *Task) int { return cmp.Compare(a.Priority.Rank(), b.Priority.Rank()) }
	default:
		return func(a, b *Task) int { return cmp.Compare(a.ID, b.ID) }
	}
}

func dueOrMax(t *Task) time.Time {
	if t.DueDate == nil {
		return maxTime
	}
	return *t.DueDate
}
