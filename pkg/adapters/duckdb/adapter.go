// Package duckdb installs the URL functions into DuckDB through go-duckdb.
//
// DuckDB keeps user-defined functions in the database catalog, so Register
// is a no-op on a database that already has them.
package duckdb

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/leapstack-labs/leapurl/pkg/adapter"
	"github.com/leapstack-labs/leapurl/pkg/querycursor"
	"github.com/leapstack-labs/leapurl/pkg/sqlfunc"

	_ "github.com/marcboeker/go-duckdb" // duckdb driver
)

// Module is the Go module whose version ends url_debug().
const Module = "github.com/marcboeker/go-duckdb"

// probeSQL detects an earlier registration on the same database.
const probeSQL = "SELECT count(*) FROM duckdb_functions() WHERE function_name = 'url_version'"

// Adapter implements the adapter.Adapter interface for DuckDB.
type Adapter struct {
	adapter.Base
	params *Params
}

// New creates a new DuckDB adapter instance.
func New(logger *slog.Logger) *Adapter {
	return &Adapter{
		Base:   adapter.NewBase(logger, sqlfunc.New(adapter.LibraryLine(Module))),
		params: &Params{},
	}
}

// Name returns the registry name.
func (a *Adapter) Name() string { return "duckdb" }

// Open opens a DuckDB database.
// Use ":memory:" or an empty path for an in-memory database.
func (a *Adapter) Open(ctx context.Context, cfg adapter.Config) (*sql.DB, error) {
	params, err := parseParams(cfg.Params)
	if err != nil {
		return nil, err
	}
	a.params = params

	path := cfg.Path
	if path == "" {
		path = ":memory:"
	}

	a.Logger.Debug("opening duckdb database", slog.String("path", path))
	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open duckdb connection: %w", err)
	}

	// Test the connection
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping duckdb: %w", err)
	}
	return db, nil
}

// Register applies configured extensions and settings, then registers
// every scalar function and url_query_each on conn.
func (a *Adapter) Register(ctx context.Context, conn *sql.Conn) error {
	for _, stmt := range a.params.statements() {
		if _, err := conn.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to prepare connection (%s): %w", stmt, err)
		}
	}

	var n int64
	if err := conn.QueryRowContext(ctx, probeSQL).Scan(&n); err != nil {
		return fmt.Errorf("failed to list functions: %w", err)
	}
	if n > 0 {
		a.Logger.Debug("url functions already registered")
		return nil
	}

	types, err := newTypeSet()
	if err != nil {
		return err
	}

	for _, f := range a.Cat.Scalars() {
		if err := registerScalar(conn, types, f); err != nil {
			return fmt.Errorf("failed to register %s: %w", f.Name, err)
		}
	}

	table := a.Cat.Table()
	if a.params.SkipEmpty {
		table = table.With(querycursor.WithSkipEmpty())
	}
	if err := registerTable(conn, types, table); err != nil {
		return fmt.Errorf("failed to register %s: %w", table.Name, err)
	}

	a.Logger.Debug("registered url functions", slog.Int("functions", len(a.Cat.Names())))
	return nil
}

// Ensure Adapter implements adapter.Adapter interface
var _ adapter.Adapter = (*Adapter)(nil)
