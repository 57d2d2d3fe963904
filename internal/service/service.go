// Package service enforces validation rules and state transitions on tasks
// stored in a task.Repository.
package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/user/todo/internal/task"
)

// CreateInput describes a new task. Zero Priority and Recurrence values
// mean medium and none.
type CreateInput struct {
	Title       string
	Description string
	Priority    task.Priority
	Tags        []string
	DueDate     *time.Time
	Recurrence  task.Recurrence
}

// UpdateInput is a partial update.
// nil pointer => "no change"
// Tags pointing at an empty slice clears the tags.
// ClearDueDate removes the due date and takes precedence over DueDate.
type UpdateInput struct {
	Title        *string
	Description  *string
	Priority     *task.Priority
	Tags         *[]string
	DueDate      *time.Time
	ClearDueDate bool
	Recurrence   *task.Recurrence
}

// IsEmpty reports whether the input changes nothing
func (in UpdateInput) IsEmpty() bool {
	return in.Title == nil && in.Description == nil && in.Priority == nil &&
		in.Tags == nil && in.DueDate == nil && !in.ClearDueDate && in.Recurrence == nil
}

// TaskService orchestrates task operations against a repository
type TaskService struct {
	repo task.Repository
	log  logrus.FieldLogger
	now  func() time.Time
}

// Option configures a TaskService
type Option func(*TaskService)

// WithClock replaces time.Now as the source of timestamps
func WithClock(now func() time.Time) Option {
	return func(s *TaskService) {
		if now != nil {
			s.now = now
		}
	}
}

func NewTaskService(repo task.Repository, log logrus.FieldLogger, opts ...Option) *TaskService {
	s := &TaskService{
		repo: repo,
		log:  log.WithField("where", "service"),
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Repository exposes the underlying store
func (s *TaskService) Repository() task.Repository {
	return s.repo
}

// CreateTask validates in, assigns a fresh id and stores the new task.
func (s *TaskService) CreateTask(ctx context.Context, in CreateInput) (*task.Task, error) {
	var err error
	if err := ValidateTitle(in.Title); err != nil {
		return nil, err
	}
	if err := ValidateDescription(in.Description); err != nil {
		return nil, err
	}

	priority := task.PriorityMedium
	if in.Priority != "" {
		if priority, err = validatePriority(in.Priority); err != nil {
			return nil, err
		}
	}
	recurrence, err := validateRecurrence(in.Recurrence)
	if err != nil {
		return nil, err
	}

	id, err := s.repo.GenerateID(ctx)
	if err != nil {
		return nil, fmt.Errorf("service: error generating id: %w", err)
	}

	t := task.New(id, strings.TrimSpace(in.Title), s.now())
	t.Description = strings.TrimSpace(in.Description)
	t.Priority = priority
	t.Recurrence = recurrence
	t.Tags = task.NormalizeTags(in.Tags)
	if in.DueDate != nil {
		d := *in.DueDate
		t.DueDate = &d
	}

	if err := s.repo.Save(ctx, t); err != nil {
		return nil, fmt.Errorf("service: error creating task: %w", err)
	}

	s.log.WithFields(logrus.Fields{"task_id": t.ID, "title": t.Title}).Debug("task created")
	return t, nil
}

// GetTask returns the task or a NotFoundError
func (s *TaskService) GetTask(ctx context.Context, id int) (*task.Task, error) {
	t, ok, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("service: error getting task: %w", err)
	}
	if !ok {
		return nil, &task.NotFoundError{ID: id}
	}
	return t, nil
}

// ListTasks returns every task, or only those matching completed when it is
// non-nil, ordered by id.
func (s *TaskService) ListTasks(ctx context.Context, completed *bool) ([]*task.Task, error) {
	var (
		tasks []*task.Task
		err   error
	)
	if completed == nil {
		tasks, err = s.repo.ListAll(ctx)
	} else {
		tasks, err = s.repo.ListByCompleted(ctx, *completed)
	}
	if err != nil {
		return nil, fmt.Errorf("service: error listing tasks: %w", err)
	}
	return tasks, nil
}

// SearchTasks passes f through to the repository.
func (s *TaskService) SearchTasks(ctx context.Context, f task.Filter) ([]*task.Task, error) {
	tasks, err := s.repo.Search(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("service: error searching tasks: %w", err)
	}
	s.log.WithField("count", len(tasks)).Debug("tasks searched")
	return tasks, nil
}

func (s *TaskService) SortTasks(tasks []*task.Task, field task.SortField, ascending bool) []*task.Task {
	return s.repo.Sort(tasks, field, ascending)
}

// CompleteTask marks an open task completed. Completing a completed task
// returns an AlreadyCompletedError and changes nothing.
func (s *TaskService) CompleteTask(ctx context.Context, id int) (*task.Task, error) {
	t, err := s.GetTask(ctx, id)
	if err != nil {
		return nil, err
	}
	if t.Completed {
		return nil, &task.AlreadyCompletedError{ID: id}
	}

	t.MarkComplete(s.now())
	if err := s.repo.Save(ctx, t); err != nil {
		return nil, fmt.Errorf("service: error completing task: %w", err)
	}

	s.log.WithField("task_id", id).Debug("task completed")
	return t, nil
}

// ToggleTask flips the completion flag
func (s *TaskService) ToggleTask(ctx context.Context, id int) (*task.Task, error) {
	t, err := s.GetTask(ctx, id)
	if err != nil {
		return nil, err
	}

	if t.Completed {
		t.MarkIncomplete(s.now())
	} else {
		t.MarkComplete(s.now())
	}
	if err := s.repo.Save(ctx, t); err != nil {
		return nil, fmt.Errorf("service: error toggling task: %w", err)
	}

	s.log.WithFields(logrus.Fields{"task_id": id, "completed": t.Completed}).Debug("task toggled")
	return t, nil
}

func (s *TaskService) DeleteTask(ctx context.Context, id int) error {
	if _, err := s.GetTask(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("service: error deleting task: %w", err)
	}

	s.log.WithField("task_id", id).Debug("task deleted")
	return nil
}

// UpdateTask applies the fields present in in. Every present field is
// validated before anything is changed. UpdatedAt is refreshed once per
// call, and not at all when in carries no fields.
func (s *TaskService) UpdateTask(ctx context.Context, id int, in UpdateInput) (*task.Task, error) {
	t, err := s.GetTask(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Title != nil {
		if err := ValidateTitle(*in.Title); err != nil {
			return nil, err
		}
	}
	if in.Description != nil {
		if err := ValidateDescription(*in.Description); err != nil {
			return nil, err
		}
	}
	var priority task.Priority
	if in.Priority != nil {
		if priority, err = validatePriority(*in.Priority); err != nil {
			return nil, err
		}
	}
	var recurrence task.Recurrence
	if in.Recurrence != nil {
		if recurrence, err = validateRecurrence(*in.Recurrence); err != nil {
			return nil, err
		}
	}

	if in.IsEmpty() {
		return t, nil
	}

	if in.Title != nil {
		t.Title = strings.TrimSpace(*in.Title)
	}
	if in.Description != nil {
		t.Description = strings.TrimSpace(*in.Description)
	}
	if in.Priority != nil {
		t.Priority = priority
	}
	if in.Tags != nil {
		t.Tags = task.NormalizeTags(*in.Tags)
	}
	switch {
	case in.ClearDueDate:
		t.DueDate = nil
	case in.DueDate != nil:
		d := *in.DueDate
		t.DueDate = &d
	}
	if in.Recurrence != nil {
		t.Recurrence = recurrence
	}
	t.Touch(s.now())

	if err := s.repo.Save(ctx, t); err != nil {
		return nil, fmt.Errorf("service: error updating task: %w", err)
	}

	s.log.WithField("task_id", id).Debug("task updated")
	return t, nil
}
