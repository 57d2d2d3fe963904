package task

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidTitle         = errors.New("invalid title")
	ErrInvalidDescription   = errors.New("invalid description")
	ErrInvalidEnum          = errors.New("invalid enumeration value")
	ErrTaskNotFound         = errors.New("task not found")
	ErrTaskAlreadyCompleted = errors.New("task already completed")
)

// ValidationError reports rejected user input. Use errors.Is against
// ErrInvalidTitle, ErrInvalidDescription or ErrInvalidEnum to tell them apart.
type ValidationError struct {
	Field   string
	Message string
	kind    error
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Is(target error) bool {
	return target == e.kind
}

// NewTitleError builds an ErrInvalidTitle validation error
func NewTitleError(msg string) error {
	return &ValidationError{Field: "title", Message: msg, kind: ErrInvalidTitle}
}

// NewDescriptionError builds an ErrInvalidDescription validation error
func NewDescriptionError(msg string) error {
	return &ValidationError{Field: "description", Message: msg, kind: ErrInvalidDescription}
}

// NotFoundError is returned when an operation needs a task that does not exist
type NotFoundError struct {
	ID int
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("Task %d not found.", e.ID)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrTaskNotFound
}

// AlreadyCompletedError is returned when completing a task that is already done
type AlreadyCompletedError struct {
	ID int
}

func (e *AlreadyCompletedError) Error() string {
	return fmt.Sprintf("Task %d is already completed.", e.ID)
}

func (e *AlreadyCompletedError) Is(target error) bool {
	return target == ErrTaskAlreadyCompleted
}
