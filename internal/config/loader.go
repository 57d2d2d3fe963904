package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/user/todo/internal/task"
)

// EnvPrefix prefixes every environment override, e.g. TODO_STORAGE_BACKEND.
const EnvPrefix = "TODO"

// keys that may be overridden from the environment
var envKeys = []string{
	"storage.backend",
	"display.color",
	"display.date_format",
	"defaults.priority",
	"defaults.sort",
	"defaults.ascending",
	"log.level",
	"log.format",
}

// Load loads and merges configuration from global, project and environment sources
func Load() (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		home = ""
	}
	cwd, err := os.Getwd()
	if err != nil {
		cwd = ""
	}

	var global, project string
	if home != "" {
		global = filepath.Join(home, ".todo", "config.yaml")
	}
	if cwd != "" {
		project = filepath.Join(cwd, ".todo", "config.yaml")
	}
	return loadFrom(global, project)
}

func loadFrom(paths ...string) (*Config, error) {
	cfg := DefaultConfig()

	// Later files override earlier ones
	for _, path := range paths {
		if path == "" {
			continue
		}
		if err := loadFile(path, cfg); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
	}

	if err := loadEnv(cfg); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return err
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		return err
	}

	return v.Unmarshal(cfg)
}

// loadEnv overlays only the variables that are actually set.
func loadEnv(cfg *Config) error {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	for _, key := range envKeys {
		if err := v.BindEnv(key); err != nil {
			return err
		}
	}
	return v.Unmarshal(cfg)
}

// Validate checks the values that have a closed set of choices. The storage
// backend is checked when the repository is opened.
func (c *Config) Validate() error {
	if _, err := task.ParsePriority(c.Defaults.Priority); err != nil {
		return fmt.Errorf("defaults.priority: %w", err)
	}
	if _, err := task.ParseSortField(c.Defaults.Sort); err != nil {
		return fmt.Errorf("defaults.sort: %w", err)
	}
	switch c.Log.Format {
	case "", "text", "json":
	default:
		return fmt.Errorf("log.format: unknown format %q (want text or json)", c.Log.Format)
	}
	return nil
}

// GlobalConfigPath returns the path to the global config file
func GlobalConfigPath() string {
	return filepath.Join(GlobalDir(), "config.yaml")
}

// ProjectConfigPath returns the path to the project config file
func ProjectConfigPath() string {
	return filepath.Join(ProjectDir(), "config.yaml")
}

// GlobalDir returns the path to the global ~/.todo directory
func GlobalDir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".todo")
}

// ProjectDir returns the path to the project .todo directory
func ProjectDir() string {
	cwd, _ := os.Getwd()
	return filepath.Join(cwd, ".todo")
}
