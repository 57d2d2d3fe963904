package service

import (
	"strings"
	"unicode/utf8"

	"github.com/user/todo/internal/task"
)

const (
	MaxTitleLength       = 200
	MaxDescriptionLength = 1000
)

// ValidateTitle checks a raw, untrimmed title. Checks run in a fixed order
// and the first failure wins: empty, then too long, then whitespace only.
// A 201-character blank title therefore reports the length error.
func ValidateTitle(title string) error {
	if title == "" {
		return task.NewTitleError("Title cannot be empty.")
	}
	if utf8.RuneCountInString(title) > MaxTitleLength {
		return task.NewTitleError("Title must be 200 characters or less.")
	}
	if strings.TrimSpace(title) == "" {
		return task.NewTitleError("Title cannot be whitespace only.")
	}
	return nil
}

// ValidateDescription only enforces the maximum length; empty is valid.
func ValidateDescription(description string) error {
	if utf8.RuneCountInString(description) > MaxDescriptionLength {
		return task.NewDescriptionError("Description must be 1000 characters or less.")
	}
	return nil
}

func validatePriority(p task.Priority) (task.Priority, error) {
	return task.ParsePriority(string(p))
}

func validateRecurrence(r task.Recurrence) (task.Recurrence, error) {
	return task.ParseRecurrence(string(r))
}
