// Package config loads unitgrade configuration.
//
// Values are layered, lowest first: built-in defaults, the config file
// (unitgrade.yaml), UNITGRADE_* environment variables, then flags that
// were set explicitly on the command line.
package config

import "time"

// Config holds all CLI configuration options.
type Config struct {
	Verbose      bool         `koanf:"verbose"`
	OutputFormat string       `koanf:"output" validate:"omitempty,oneof=auto text markdown json"`
	Server       ServerConfig `koanf:"server"`
	// Params are default evaluation parameters. Request and case params
	// are merged over them.
	Params map[string]any `koanf:"params"`
	// Feedback overrides feedback templates by key.
	Feedback map[string]string `koanf:"feedback"`

	// File is the config file that was read, if any.
	File string `koanf:"-"`
}

// ServerConfig configures the HTTP service.
type ServerConfig struct {
	Addr              string        `koanf:"addr" validate:"required"`
	Watch             bool          `koanf:"watch"`
	ReadHeaderTimeout time.Duration `koanf:"read_header_timeout" validate:"gte=0"`
}

// Default configuration values.
const (
	DefaultOutput            = "auto" // TTY=text, otherwise markdown
	DefaultAddr              = ":8080"
	DefaultReadHeaderTimeout = 10 * time.Second
	EnvPrefix                = "UNITGRADE_"
)

// FileNames are searched in the working directory when no config file is
// given.
var FileNames = []string{"unitgrade.yaml", "unitgrade.yml"}

// Default returns the configuration used when nothing else is set.
func Default() *Config {
	return &Config{
		OutputFormat: DefaultOutput,
		Server: ServerConfig{
			Addr:              DefaultAddr,
			ReadHeaderTimeout: DefaultReadHeaderTimeout,
		},
	}
}
