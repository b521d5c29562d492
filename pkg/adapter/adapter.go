// Package adapter defines how URL functions are installed into a SQL engine.
//
// An Adapter opens a database for one engine and registers the catalog of
// pkg/sqlfunc on a live connection. Concrete adapters live in pkg/adapters/
// subdirectories and add themselves to the registry from init().
package adapter

import (
	"context"
	"database/sql"

	"github.com/leapstack-labs/leapurl/pkg/sqlfunc"
)

// Config selects an adapter and the database it opens.
type Config struct {
	// Type is the registered adapter name ("sqlite", "duckdb").
	Type string `koanf:"type"`

	// Path is the database path or DSN. Empty means an in-memory database.
	Path string `koanf:"path"`

	// Params holds adapter-specific settings, decoded by each adapter with
	// mapstructure.
	Params map[string]any `koanf:"params"`
}

// Adapter installs the URL functions into one SQL engine.
type Adapter interface {
	// Name returns the registry name of the adapter.
	Name() string

	// Open opens a database with the functions available to every
	// connection that Register is later called on.
	Open(ctx context.Context, cfg Config) (*sql.DB, error)

	// Register installs every scalar function and url_query_each on conn.
	// Calling it twice on the same connection is not an error.
	Register(ctx context.Context, conn *sql.Conn) error

	// Catalog returns the functions this adapter registers.
	Catalog() *sqlfunc.Catalog
}
