package kv

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

func TestPostgresStore_Get(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	store := &PostgresStore{db: db}

	rows := sqlmock.NewRows([]string{"value"}).AddRow([]byte(`{"type":"feedback"}`))
	mock.ExpectQuery(`SELECT value FROM feedback_queue WHERE key=\$1`).
		WithArgs("proj1-1690000000-abc12").
		WillReturnRows(rows)

	ctx := context.Background()
	value, err := store.Get(ctx, "proj1-1690000000-abc12")
	assert.NoError(t, err)
	assert.Equal(t, []byte(`{"type":"feedback"}`), value)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_GetNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	store := &PostgresStore{db: db}

	mock.ExpectQuery(`SELECT value FROM feedback_queue WHERE key=\$1`).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"value"}))

	ctx := context.Background()
	_, err = store.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_Set(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	store := &PostgresStore{db: db}

	mock.ExpectExec(`INSERT INTO feedback_queue \(key, value, updated_at\) VALUES \(\$1, \$2, \$3\) ON CONFLICT \(key\) DO UPDATE SET value=\$2, updated_at=\$3`).
		WithArgs("proj1-1690000000-abc12", []byte("payload"), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	ctx := context.Background()
	err = store.Set(ctx, "proj1-1690000000-abc12", []byte("payload"))
	assert.NoError(t, err)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_Remove(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	store := &PostgresStore{db: db}

	mock.ExpectExec(`DELETE FROM feedback_queue WHERE key=\$1`).
		WithArgs("proj1-1690000000-abc12").
		WillReturnResult(sqlmock.NewResult(0, 1))

	ctx := context.Background()
	err = store.Remove(ctx, "proj1-1690000000-abc12")
	assert.NoError(t, err)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_Keys(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	store := &PostgresStore{db: db}

	rows := sqlmock.NewRows([]string{"key"}).
		AddRow("proj1-1690000000-abc12").
		AddRow("proj2-1690000100-def34")
	mock.ExpectQuery(`SELECT key FROM feedback_queue`).WillReturnRows(rows)

	ctx := context.Background()
	keys, err := store.Keys(ctx)
	assert.NoError(t, err)
	assert.Equal(t, []string{"proj1-1690000000-abc12", "proj2-1690000100-def34"}, keys)

	assert.NoError(t, mock.ExpectationsWereMet())
}
