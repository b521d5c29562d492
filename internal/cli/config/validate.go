package config

import (
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/leapstack-labs/leapurl/pkg/adapter"
)

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Engine.Type == "" {
		return fmt.Errorf("engine type is required")
	}
	if !adapter.IsRegistered(c.Engine.Type) {
		return &adapter.UnknownAdapterError{Type: c.Engine.Type, Available: adapter.ListAdapters()}
	}
	if !slices.Contains(OutputFormats, c.Output) {
		return fmt.Errorf("unknown output format %q (expected one of %s)", c.Output, strings.Join(OutputFormats, ", "))
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	if c.Check.Workers < 1 {
		return fmt.Errorf("check.workers must be at least 1, got %d", c.Check.Workers)
	}
	return nil
}

// ParseLevel converts a level name (debug, info, warn, error) to slog.Level.
func ParseLevel(name string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(name)); err != nil {
		return 0, fmt.Errorf("invalid log level %q", name)
	}
	return level, nil
}
