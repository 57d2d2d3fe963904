package config

// Config represents the full todo configuration
type Config struct {
	Version string `yaml:"version" mapstructure:"version"`

	// Storage backend selection
	Storage StorageConfig `yaml:"storage" mapstructure:"storage"`

	// Terminal output
	Display DisplayConfig `yaml:"display" mapstructure:"display"`

	// Defaults applied by add and list
	Defaults DefaultsConfig `yaml:"defaults" mapstructure:"defaults"`

	// Diagnostic logging
	Log LogConfig `yaml:"log" mapstructure:"log"`
}

// StorageConfig selects the task repository implementation
type StorageConfig struct {
	Backend string `yaml:"backend" mapstructure:"backend"`
}

// DisplayConfig controls colors and date rendering
type DisplayConfig struct {
	Color      bool   `yaml:"color" mapstructure:"color"`
	DateFormat string `yaml:"date_format" mapstructure:"date_format"`
}

// DefaultsConfig holds the values used when a flag is not given
type DefaultsConfig struct {
	Priority  string `yaml:"priority" mapstructure:"priority"`
	Sort      string `yaml:"sort" mapstructure:"sort"`
	Ascending bool   `yaml:"ascending" mapstructure:"ascending"`
}

type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}
