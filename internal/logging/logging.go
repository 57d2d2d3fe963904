// Package logging builds the process logger from configuration.
package logging

import (
	"io"
	"os"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/user/todo/internal/config"
)

// New returns a logger writing to w (stderr when nil). An unknown level
// falls back to warn.
func New(cfg config.LogConfig, w io.Writer) *log.Logger {
	if w == nil {
		w = os.Stderr
	}

	logger := log.New()
	logger.SetOutput(w)

	level, err := log.ParseLevel(cfg.Level)
	if err != nil {
		level = log.WarnLevel
	}
	logger.SetLevel(level)

	if cfg.Format == "json" {
		logger.SetFormatter(&log.JSONFormatter{})
	} else {
		logger.SetFormatter(&log.TextFormatter{DisableTimestamp: true})
	}
	return logger
}

// Session tags every entry from one process run with a fresh id.
func Session(logger log.FieldLogger) *log.Entry {
	return logger.WithField("session", uuid.NewString())
}
