// Package config provides configuration management for the leapurl CLI.
//
// Values are layered with koanf: built-in defaults, then leapurl.yaml, then
// LEAPURL_* environment variables, then command-line flags.
package config

import "github.com/leapstack-labs/leapurl/pkg/adapter"

// Config holds all CLI configuration options.
type Config struct {
	Engine      adapter.Config `koanf:"engine"`
	Output      string         `koanf:"output"`
	Verbose     bool           `koanf:"verbose"`
	LogLevel    string         `koanf:"log_level"`
	HistoryFile string         `koanf:"history_file"`
	Check       CheckConfig    `koanf:"check"`
}

// CheckConfig holds settings for the check command.
type CheckConfig struct {
	// Workers bounds how many URLs are validated at once.
	Workers int `koanf:"workers"`
}

// Default configuration values.
const (
	DefaultEngine   = "sqlite"
	DefaultOutput   = "table"
	DefaultLogLevel = "warn"
	DefaultWorkers  = 4
)

// OutputFormats lists the accepted values of --output.
var OutputFormats = []string{"table", "json", "csv", "md", "markdown", "yaml"}

// Engine returns an engine configuration without params.
func Engine(typ, path string) adapter.Config {
	return adapter.Config{Type: typ, Path: path}
}
