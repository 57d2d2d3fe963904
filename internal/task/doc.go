// Package task defines the task entity and the rules shared by every storage
// backend.
//
// # Entity
//
// A Task carries a title, an optional description, a completion flag, a
// priority, a tag list, an optional due date and an informational
// recurrence cadence. Ids are assigned by a Repository and never reused.
//
// # Filtering
//
// Filter combines predicates with logical AND. The Tags predicate is the
// exception inside itself: a task matches when it carries ANY requested tag.
//
//	f := task.Filter{Tags: []string{"work", "urgent"}, Keyword: "report"}
//	matches := f.Apply(all)
//
// # Sorting
//
// Sort is stable in both directions. Undated tasks sort after every dated
// task when ascending, and priority ranks high < medium < low.
//
// # Errors
//
// Domain failures are typed (ValidationError, NotFoundError,
// AlreadyCompletedError) and match the package sentinels with errors.Is.
package task
