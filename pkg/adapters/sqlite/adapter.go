// Package sqlite installs the URL functions into modernc.org/sqlite.
//
// Scalar functions and the url_query_each module are registered with the
// driver process-wide, once, and apply to connections opened afterwards.
// Register then declares url_query_each in the temp schema of a connection
// so it can be called with table-valued function syntax.
package sqlite

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/leapstack-labs/leapurl/pkg/adapter"
	"github.com/leapstack-labs/leapurl/pkg/sqlfunc"
	msqlite "modernc.org/sqlite"
	"modernc.org/sqlite/vtab"
)

// Module is the Go module whose version ends url_debug().
const Module = "modernc.org/sqlite"

var (
	catalog = sqlfunc.New(adapter.LibraryLine(Module))

	installOnce sync.Once
	installErr  error
)

// Params holds SQLite-specific configuration decoded from adapter.Config.Params.
type Params struct {
	// SkipEmpty drops empty segments ("a=1&&b=2") from url_query_each.
	SkipEmpty bool `mapstructure:"skip_empty"`

	// Pragmas are applied to the session connection (e.g. busy_timeout).
	Pragmas map[string]string `mapstructure:"pragmas"`
}

// Adapter implements adapter.Adapter for modernc.org/sqlite.
type Adapter struct {
	adapter.Base
	params Params
}

// New creates a new SQLite adapter instance.
func New(logger *slog.Logger) *Adapter {
	return &Adapter{Base: adapter.NewBase(logger, catalog)}
}

// Name returns the registry name.
func (a *Adapter) Name() string { return "sqlite" }

// Open installs the functions with the driver and opens cfg.Path.
// Use ":memory:" or an empty path for an in-memory database.
func (a *Adapter) Open(ctx context.Context, cfg adapter.Config) (*sql.DB, error) {
	if err := adapter.DecodeParams(cfg.Params, &a.params); err != nil {
		return nil, err
	}
	if err := install(); err != nil {
		return nil, err
	}

	path := cfg.Path
	if path == "" {
		path = ":memory:"
	}

	a.Logger.Debug("opening sqlite database", slog.String("path", path))
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite connection: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping sqlite: %w", err)
	}
	return db, nil
}

// Register declares url_query_each on conn and applies configured pragmas.
// The scalar functions are already present on every connection opened
// after Open.
func (a *Adapter) Register(ctx context.Context, conn *sql.Conn) error {
	if err := install(); err != nil {
		return err
	}

	keys := make([]string, 0, len(a.params.Pragmas))
	for k := range a.params.Pragmas {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		stmt := fmt.Sprintf("PRAGMA %s = %s", k, a.params.Pragmas[k])
		if _, err := conn.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply pragma %s: %w", k, err)
		}
	}

	if _, err := conn.ExecContext(ctx, createTableSQL(a.params.SkipEmpty)); err != nil {
		return fmt.Errorf("failed to create %s: %w", catalog.Table().Name, err)
	}
	a.Logger.Debug("registered url functions", slog.Int("functions", len(catalog.Names())))
	return nil
}

func createTableSQL(skipEmpty bool) string {
	name := catalog.Table().Name
	stmt := fmt.Sprintf("CREATE VIRTUAL TABLE IF NOT EXISTS temp.%s USING %s", name, name)
	if skipEmpty {
		stmt += "(" + argSkipEmpty + ")"
	}
	return stmt
}

// install registers every scalar function and the url_query_each module
// with the driver. It runs once per process.
func install() error {
	installOnce.Do(func() {
		for _, f := range catalog.Scalars() {
			if err := msqlite.RegisterDeterministicScalarFunction(f.Name, int32(f.NArgs), bridge(f)); err != nil {
				installErr = fmt.Errorf("failed to register %s: %w", f.Name, err)
				return
			}
		}
		if err := vtab.RegisterModule(nil, catalog.Table().Name, &module{table: catalog.Table()}); err != nil {
			installErr = fmt.Errorf("failed to register module %s: %w", catalog.Table().Name, err)
		}
	})
	return installErr
}

// bridge adapts a catalog function to the driver's callback signature.
func bridge(f sqlfunc.ScalarFunc) func(*msqlite.FunctionContext, []driver.Value) (driver.Value, error) {
	return func(_ *msqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
		vals := make([]sqlfunc.Value, len(args))
		for i, v := range args {
			vals[i] = v
		}
		if f.Variadic() && len(vals) < f.MinArgs {
			return nil, fmt.Errorf("%s: at least %d arguments are required", f.Name, f.MinArgs)
		}
		return f.Call(vals)
	}
}

// Ensure Adapter implements adapter.Adapter interface
var _ adapter.Adapter = (*Adapter)(nil)
