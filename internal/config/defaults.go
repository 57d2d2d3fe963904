package config

import (
	"os"
)

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Version: "1",
		Storage: StorageConfig{
			Backend: "memory",
		},
		Display: DisplayConfig{
			Color:      true,
			DateFormat: "2006-01-02",
		},
		Defaults: DefaultsConfig{
			Priority:  "medium",
			Sort:      "created_at",
			Ascending: true,
		},
		Log: LogConfig{
			Level:  "warn",
			Format: "text",
		},
	}
}

// WriteDefault writes the default global configuration to a file
func WriteDefault(path string) error {
	content := `# todo global configuration
version: "1"

# Task storage. Both backends keep tasks in memory for the life of the process.
storage:
  backend: memory  # "memory" or "sqlite"

# Terminal output
display:
  color: true
  date_format: "2006-01-02"  # Go reference layout

# Values used when add/list flags are omitted
defaults:
  priority: medium   # high, medium or low
  sort: created_at   # id, title, created_at, updated_at, due_date, priority
  ascending: true

# Diagnostic logging (stderr)
log:
  level: warn   # debug, info, warn, error
  format: text  # text or json
`
	return os.WriteFile(path, []byte(content), 0644)
}

// WriteProjectDefault writes the default project configuration to a file
func WriteProjectDefault(path string) error {
	content := `# todo project configuration
version: "1"

# Override global settings as needed
# storage:
#   backend: memory
# display:
#   color: false
# defaults:
#   sort: due_date
`
	return os.WriteFile(path, []byte(content), 0644)
}
