package adapter

import (
	"context"
	"database/sql"
	"fmt"
)

// Session is one database connection with the URL functions registered.
// Queries run on the pinned connection, so per-connection state such as
// the temp schema stays visible.
type Session struct {
	adapter Adapter
	db      *sql.DB
	conn    *sql.Conn
}

// OpenSession opens cfg through a, pins a connection and registers the
// functions on it.
func OpenSession(ctx context.Context, a Adapter, cfg Config) (*Session, error) {
	db, err := a.Open(ctx, cfg)
	if err != nil {
		return nil, err
	}
	s, err := NewSession(ctx, a, db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// NewSession pins a connection of an already opened db and registers the
// functions on it. Closing the session closes db.
func NewSession(ctx context.Context, a Adapter, db *sql.DB) (*Session, error) {
	conn, err := db.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire connection: %w", err)
	}
	if err := a.Register(ctx, conn); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to register url functions on %s: %w", a.Name(), err)
	}
	return &Session{adapter: a, db: db, conn: conn}, nil
}

// Adapter returns the adapter the session was opened with.
func (s *Session) Adapter() Adapter { return s.adapter }

// Conn returns the pinned connection.
func (s *Session) Conn() *sql.Conn { return s.conn }

// QueryContext runs a query on the pinned connection.
func (s *Session) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	//nolint:rowserrcheck // rows.Err() must be checked by caller after iteration completes
	rows, err := s.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	return rows, nil
}

// QueryRowContext runs a query expected to return at most one row.
func (s *Session) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	return s.conn.QueryRowContext(ctx, query, args...)
}

// ExecContext runs a statement on the pinned connection.
func (s *Session) ExecContext(ctx context.Context, query string, args ...any) error {
	if _, err := s.conn.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to execute SQL: %w", err)
	}
	return nil
}

// Close releases the connection and closes the database.
func (s *Session) Close() error {
	var connErr error
	if s.conn != nil {
		connErr = s.conn.Close()
		s.conn = nil
	}
	if s.db != nil {
		if err := s.db.Close(); err != nil {
			return err
		}
		s.db = nil
	}
	return connErr
}
