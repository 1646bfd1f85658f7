package config

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// flagKeys maps flag names to config keys where they differ from the
// snake_case form of the name.
var flagKeys = map[string]string{
	"addr":  "server.addr",
	"watch": "server.watch",
}

// Loader reads configuration. It keeps its inputs so the file can be read
// again when it changes.
type Loader struct {
	// File is an explicit config file; empty means search FileNames.
	File string
	// Flags are overlaid last; only flags marked changed are used.
	Flags *pflag.FlagSet
}

// findConfigFile finds the config file to use.
// Priority: explicit path > unitgrade.yaml > unitgrade.yml
func findConfigFile(explicit string) string {
	if explicit != "" {
		return explicit
	}
	for _, name := range FileNames {
		if _, err := os.Stat(name); err == nil {
			return name
		}
	}
	return ""
}

// Load reads and validates the configuration.
func (l Loader) Load() (*Config, error) {
	k := koanf.New(".")

	// 1. Defaults
	def := Default()
	if err := k.Load(confmap.Provider(map[string]any{
		"verbose":                    false,
		"output":                     def.OutputFormat,
		"server.addr":                def.Server.Addr,
		"server.watch":               false,
		"server.read_header_timeout": def.Server.ReadHeaderTimeout.String(),
	}, "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// 2. Config file
	used := findConfigFile(l.File)
	if used != "" {
		if err := k.Load(file.Provider(used), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", used, err)
		}
	}

	// 3. Environment: UNITGRADE_SERVER__ADDR -> server.addr
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
		return strings.ReplaceAll(key, "__", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	// 4. Flags
	if l.Flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(l.Flags, ".", k, func(f *pflag.Flag) (string, any) {
			if !f.Changed {
				return "", nil
			}
			key, ok := flagKeys[f.Name]
			if !ok {
				key = strings.ReplaceAll(f.Name, "-", "_")
			}
			return key, posflag.FlagVal(l.Flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	cfg.File = used
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// NewLogger returns the CLI logger: text on w, debug level when verbose.
func NewLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

type (
	configKey struct{}
	loggerKey struct{}
)

// NewContext stores cfg and logger in ctx.
func NewContext(ctx context.Context, cfg *Config, logger *slog.Logger) context.Context {
	ctx = context.WithValue(ctx, configKey{}, cfg)
	return context.WithValue(ctx, loggerKey{}, logger)
}

// FromContext returns the config stored by NewContext, or the defaults.
func FromContext(ctx context.Context) *Config {
	if c, ok := ctx.Value(configKey{}).(*Config); ok && c != nil {
		return c
	}
	return Default()
}

// GetLogger retrieves the logger from the command context.
func GetLogger(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
		return l
	}
	return slog.New(slog.DiscardHandler)
}
