package storage

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	sqlxdb := sqlx.NewDb(db, "sqlmock")
	return sqlxdb, mock, func() {
		db.Close()
	}
}

func TestPostgresStoreRead(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	store := NewPostgresStore(db)

	rows := sqlmock.NewRows([]string{"payload"}).AddRow([]byte(`[{"id":1}]`))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT payload FROM collections WHERE name = $1")).
		WithArgs("users").
		WillReturnRows(rows)

	data, err := store.Read(context.Background(), "users")
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":1}]`, string(data))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStoreReadMissing(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	store := NewPostgresStore(db)

	mock.ExpectQuery("SELECT payload FROM collections").WithArgs("leaves").WillReturnError(sql.ErrNoRows)

	_, err := store.Read(context.Background(), "leaves")
	assert.ErrorIs(t, err, ErrNotExist)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStoreWrite(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	store := NewPostgresStore(db)

	mock.ExpectExec("INSERT INTO collections").
		WithArgs("attendance", `[]`).
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, store.Write(context.Background(), "attendance", []byte(`[]`)))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStoreWriteError(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	store := NewPostgresStore(db)

	mock.ExpectExec("INSERT INTO collections").WillReturnError(errors.New("boom"))

	err := store.Write(context.Background(), "attendance", []byte(`[]`))
	assert.ErrorContains(t, err, "write collection attendance")
}

func TestPostgresStoreMigrate(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	store := NewPostgresStore(db)

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS collections").WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, store.Migrate(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}
