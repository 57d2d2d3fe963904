// Package storage provides the task.Repository backends.
package storage

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/user/todo/internal/task"
)

const (
	BackendMemory = "memory"
	BackendSQLite = "sqlite"
)

// Open builds the repository named by backend. The returned closer must be
// called when the caller is done with the repository.
func Open(backend string, log logrus.FieldLogger) (task.Repository, io.Closer, error) {
	switch backend {
	case "", BackendMemory:
		return NewMemoryRepository(), nopCloser{}, nil
	case BackendSQLite:
		repo, err := NewSQLiteRepository(log)
		if err != nil {
			return nil, nil, err
		}
		return repo, repo, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage backend %q (want %s or %s)", backend, BackendMemory, BackendSQLite)
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
