package task

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

// Priority is the urgency level of a task
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Priorities lists every priority in rank order (highest first)
var Priorities = []Priority{PriorityHigh, PriorityMedium, PriorityLow}

// Rank returns the sort rank of the priority; high sorts first.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityLow:
		return 2
	default:
		return 1
	}
}

// ParsePriority converts user input into a Priority.
func ParsePriority(s string) (Priority, error) {
	switch p := Priority(strings.ToLower(strings.TrimSpace(s))); p {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return p, nil
	}
	return "", &ValidationError{
		Field:   "priority",
		Message: fmt.Sprintf("invalid priority %q (want high, medium, low)", s),
		kind:    ErrInvalidEnum,
	}
}

// Recurrence is the informational repeat cadence of a task
type Recurrence string

const (
	RecurrenceNone    Recurrence = "none"
	RecurrenceDaily   Recurrence = "daily"
	RecurrenceWeekly  Recurrence = "weekly"
	RecurrenceMonthly Recurrence = "monthly"
)

// ParseRecurrence converts user input into a Recurrence. An empty string
// means RecurrenceNone.
func ParseRecurrence(s string) (Recurrence, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	if v == "" {
		return RecurrenceNone, nil
	}
	switch r := Recurrence(v); r {
	case RecurrenceNone, RecurrenceDaily, RecurrenceWeekly, RecurrenceMonthly:
		return r, nil
	}
	return "", &ValidationError{
		Field:   "recurrence",
		Message: fmt.Sprintf("invalid repeat %q (want none, daily, weekly, monthly)", s),
		kind:    ErrInvalidEnum,
	}
}

// Task is a single to-do item
type Task struct {
	ID          int        `json:"id" yaml:"id"`
	Title       string     `json:"title" yaml:"title"`
	Description string     `json:"description" yaml:"description"`
	Completed   bool       `json:"completed" yaml:"completed"`
	Priority    Priority   `json:"priority" yaml:"priority"`
	Tags        []string   `json:"tags" yaml:"tags"`
	DueDate     *time.Time `json:"due_date,omitempty" yaml:"due_date,omitempty"`
	Recurrence  Recurrence `json:"recurrence" yaml:"recurrence"`
	CreatedAt   time.Time  `json:"created_at" yaml:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" yaml:"updated_at"`
}

// New returns a pending medium-priority task with both timestamps set to now.
func New(id int, title string, now time.Time) *Task {
	return &Task{
		ID:         id,
		Title:      title,
		Priority:   PriorityMedium,
		Tags:       []string{},
		Recurrence: RecurrenceNone,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// Touch refreshes UpdatedAt. It never moves UpdatedAt before CreatedAt.
func (t *Task) Touch(now time.Time) {
	if now.Before(t.CreatedAt) {
		now = t.CreatedAt
	}
	t.UpdatedAt = now
}

func (t *Task) MarkComplete(now time.Time) {
	t.Completed = true
	t.Touch(now)
}

func (t *Task) MarkIncomplete(now time.Time) {
	t.Completed = false
	t.Touch(now)
}

// HasTag reports whether the task carries tag (compared after normalization)
func (t *Task) HasTag(tag string) bool {
	return slices.Contains(t.Tags, normalizeTag(tag))
}

// IsRecurring reports whether a repeat cadence is set
func (t *Task) IsRecurring() bool {
	return t.Recurrence != "" && t.Recurrence != RecurrenceNone
}

// IsOverdue reports whether an open task's due date lies before the start of now's day.
func (t *Task) IsOverdue(now time.Time) bool {
	if t.Completed || t.DueDate == nil {
		return false
	}
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return t.DueDate.Before(startOfDay)
}

// MatchesKeyword does a case-insensitive substring match on title or description.
func (t *Task) MatchesKeyword(keyword string) bool {
	k := strings.ToLower(keyword)
	return strings.Contains(strings.ToLower(t.Title), k) ||
		strings.Contains(strings.ToLower(t.Description), k)
}

// Clone returns a deep copy of the task
func (t *Task) Clone() *Task {
	c := *t
	c.Tags = append([]string{}, t.Tags...)
	if t.DueDate != nil {
		d := *t.DueDate
		c.DueDate = &d
	}
	return &c
}

// NormalizeTags lowercases and trims every tag, drops empties and removes
// duplicates while keeping first-seen order.
func NormalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = normalizeTag(tag)
		if tag == "" || slices.Contains(out, tag) {
			continue
		}
		out = append(out, tag)
	}
	return out
}

// ParseTags splits a comma-separated tag string and normalizes the result.
func ParseTags(s string) []string {
	if strings.TrimSpace(s) == "" {
		return []string{}
	}
	return NormalizeTags(strings.Split(s, ","))
}

func normalizeTag(tag string) string {
	return strings.ToLower(strings.TrimSpace(tag))
}
