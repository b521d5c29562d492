package duckdb

import (
	"context"
	"database/sql"
	"strings"
	"testing"

	"github.com/leapstack-labs/leapurl/internal/testutil"
	"github.com/leapstack-labs/leapurl/pkg/adapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openSession(t *testing.T, params map[string]any) *adapter.Session {
	t.Helper()
	a := New(testutil.NewTestLogger(t))
	s, err := adapter.OpenSession(context.Background(), a, adapter.Config{Type: "duckdb", Params: params})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSelfRegistration(t *testing.T) {
	assert.True(t, adapter.IsRegistered("duckdb"), "duckdb adapter should be auto-registered")

	a, err := adapter.NewAdapter(adapter.Config{Type: "duckdb"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "duckdb", a.Name())
}

func TestScalarFunctions(t *testing.T) {
	s := openSession(t, nil)

	tests := []struct {
		query string
		want  sql.NullString
	}{
		{"SELECT url_host('https://api.github.com/repos')", sql.NullString{String: "api.github.com", Valid: true}},
		{"SELECT url_path('https://example.com')", sql.NullString{String: "/", Valid: true}},
		{"SELECT url_query('https://example.com/?a=1')", sql.NullString{String: "a=1", Valid: true}},
		{"SELECT url_zoneid('http://[fe80::1%25eth0]/')", sql.NullString{String: "eth0", Valid: true}},
		{"SELECT url_port('https://example.com')", sql.NullString{}},
		{"SELECT url_host(NULL)", sql.NullString{}},
		{"SELECT url_escape('alex garcia')", sql.NullString{String: "alex%20garcia", Valid: true}},
		{"SELECT url_unescape('alex%20garcia')", sql.NullString{String: "alex garcia", Valid: true}},
		{"SELECT url('https://api.github.com/repos?sort=asc', 'host', 'github.com', 'path', '/users')", sql.NullString{String: "https://github.com/users?sort=asc", Valid: true}},
		{"SELECT url_querystring('name', 'alex garcia')", sql.NullString{String: "name=alex%20garcia", Valid: true}},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			var got sql.NullString
			require.NoError(t, s.QueryRowContext(context.Background(), tt.query).Scan(&got))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestURLValid(t *testing.T) {
	s := openSession(t, nil)

	var valid, invalid, null int64
	err := s.QueryRowContext(context.Background(),
		"SELECT url_valid('https://t.me'), url_valid('not'), url_valid(NULL)").Scan(&valid, &invalid, &null)
	require.NoError(t, err)
	assert.EqualValues(t, 1, valid)
	assert.EqualValues(t, 0, invalid)
	assert.EqualValues(t, 0, null)
}

func TestDebug(t *testing.T) {
	s := openSession(t, nil)

	var debug string
	require.NoError(t, s.QueryRowContext(context.Background(), "SELECT url_debug()").Scan(&debug))
	lines := strings.Split(debug, "\n")
	require.Len(t, lines, 4)
	assert.True(t, strings.HasPrefix(lines[0], "Version: v"))
	assert.True(t, strings.HasPrefix(lines[3], Module+" "))
}

func TestQueryEach(t *testing.T) {
	s := openSession(t, nil)

	rows, err := s.QueryContext(context.Background(),
		"SELECT rowid, name, value FROM url_query_each('a=1&b=hello+world&c=%2B')")
	require.NoError(t, err)
	defer func() { _ = rows.Close() }()

	type row struct {
		id          int64
		name, value string
	}
	var got []row
	for rows.Next() {
		var r row
		require.NoError(t, rows.Scan(&r.id, &r.name, &r.value))
		got = append(got, r)
	}
	require.NoError(t, rows.Err())

	assert.Equal(t, []row{
		{0, "a", "1"},
		{1, "b", "hello world"},
		{2, "c", "+"},
	}, got)
}

func TestQueryEach_SkipEmpty(t *testing.T) {
	s := openSession(t, map[string]any{"skip_empty": true})

	var n int64
	require.NoError(t, s.QueryRowContext(context.Background(),
		"SELECT count(*) FROM url_query_each('a=1&&b=2')").Scan(&n))
	assert.EqualValues(t, 2, n)
}

func TestRegister_Idempotent(t *testing.T) {
	logger, rec := testutil.NewRecordingLogger()
	s, err := adapter.OpenSession(context.Background(), New(logger), adapter.Config{Type: "duckdb"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	assert.False(t, rec.Contains("url functions already registered"))

	require.NoError(t, s.Adapter().Register(context.Background(), s.Conn()))
	assert.True(t, rec.Contains("url functions already registered"))

	var n int64
	require.NoError(t, s.QueryRowContext(context.Background(),
		"SELECT count(*) FROM duckdb_functions() WHERE function_name LIKE 'url%'").Scan(&n))
	assert.GreaterOrEqual(t, n, int64(len(s.Adapter().Catalog().Names())))
}

func TestRegister_Settings(t *testing.T) {
	s := openSession(t, map[string]any{"settings": map[string]any{"threads": 2}})

	var threads string
	require.NoError(t, s.QueryRowContext(context.Background(), "SELECT current_setting('threads')").Scan(&threads))
	assert.Equal(t, "2", threads)
}
