// Package report computes summary views over a task list.
package report

import (
	"time"

	"github.com/user/todo/internal/task"
)

// Stats summarizes completion across a set of tasks
type Stats struct {
	Total     int `json:"total" yaml:"total"`
	Completed int `json:"completed" yaml:"completed"`
	Pending   int `json:"pending" yaml:"pending"`
	Overdue   int `json:"overdue" yaml:"overdue"`
	Recurring int `json:"recurring" yaml:"recurring"`
}

// Compute tallies tasks. Overdue counts open tasks whose due date lies
// before the start of now's day.
func Compute(tasks []*task.Task, now time.Time) Stats {
	var s Stats
	for _, t := range tasks {
		s.Total++
		if t.Completed {
			s.Completed++
		} else {
			s.Pending++
		}
		if t.IsOverdue(now) {
			s.Overdue++
		}
		if t.IsRecurring() {
			s.Recurring++
		}
	}
	return s
}

// CompletionRate returns the completed percentage, or false when there are
// no tasks.
func (s Stats) CompletionRate() (float64, bool) {
	if s.Total == 0 {
		return 0, false
	}
	return float64(s.Completed) / float64(s.Total) * 100, true
}

// Recurring returns the tasks that have a repeat cadence, in input order.
func Recurring(tasks []*task.Task) []*task.Task {
	out := make([]*task.Task, 0)
	for _, t := range tasks {
		if t.IsRecurring() {
			out = append(out, t)
		}
	}
	return out
}
