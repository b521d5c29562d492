package adapter

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/leapstack-labs/leapurl/pkg/sqlfunc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeAdapter opens a sqlmock database and registers by running one
// statement on the connection.
type fakeAdapter struct {
	db          *sql.DB
	registerErr error
	registered  int
}

func (f *fakeAdapter) Name() string { return "fake" }

func (f *fakeAdapter) Open(context.Context, Config) (*sql.DB, error) { return f.db, nil }

func (f *fakeAdapter) Register(ctx context.Context, conn *sql.Conn) error {
	f.registered++
	if f.registerErr != nil {
		return f.registerErr
	}
	_, err := conn.ExecContext(ctx, "CREATE VIRTUAL TABLE IF NOT EXISTS temp.url_query_each USING url_query_each")
	return err
}

func (f *fakeAdapter) Catalog() *sqlfunc.Catalog { return sqlfunc.New("fake") }

func TestOpenSession(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	mock.ExpectExec("CREATE VIRTUAL TABLE IF NOT EXISTS temp.url_query_each").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT url_host").
		WithArgs("https://example.com/").
		WillReturnRows(sqlmock.NewRows([]string{"host"}).AddRow("example.com"))
	mock.ExpectClose()

	a := &fakeAdapter{db: db}
	s, err := OpenSession(context.Background(), a, Config{Type: "fake"})
	require.NoError(t, err)
	assert.Equal(t, 1, a.registered)
	assert.Same(t, a, s.Adapter())

	var host string
	require.NoError(t, s.QueryRowContext(context.Background(), "SELECT url_host(?)", "https://example.com/").Scan(&host))
	assert.Equal(t, "example.com", host)

	require.NoError(t, s.Close())
	require.NoError(t, s.Close(), "second close is a no-op")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOpenSession_RegisterError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	mock.ExpectClose()

	a := &fakeAdapter{db: db, registerErr: assert.AnError}
	_, err = OpenSession(context.Background(), a, Config{Type: "fake"})
	require.Error(t, err)
	assert.ErrorIs(t, err, assert.AnError)
	assert.Contains(t, err.Error(), "failed to register url functions on fake")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSession_ExecContext(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	mock.ExpectExec("CREATE VIRTUAL TABLE").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("INSERT INTO links").WillReturnError(assert.AnError)

	s, err := OpenSession(context.Background(), &fakeAdapter{db: db}, Config{})
	require.NoError(t, err)

	err = s.ExecContext(context.Background(), "INSERT INTO links VALUES ('x')")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to execute SQL")
}
