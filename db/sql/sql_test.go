package sql

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/rgmello/activerow"
)

func usersTable() *activerow.Table {
	return &activerow.Table{
		Name:     "users",
		KeyField: "user_id",
		Fields: []activerow.FieldDef{
			{Name: "name", Kind: activerow.KindText},
			{Name: "email", Kind: activerow.KindText},
		},
	}
}

func newStoreWithMock(t *testing.T) (*Store, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return NewStore(db, DefaultBuilder{}), mock, db
}

func TestSelectSingle(t *testing.T) {
	store, mock, db := newStoreWithMock(t)
	defer db.Close()

	q := `^SELECT name, email, user_id FROM users WHERE user_id = \?$`
	rows := sqlmock.NewRows([]string{"name", "email", "user_id"}).AddRow("alice", "a@example.com", "7")
	mock.ExpectQuery(q).WithArgs("7").WillReturnRows(rows)

	row, err := store.SelectSingle(context.Background(), usersTable(), "7", nil)
	require.NoError(t, err)
	require.Equal(t, "alice", row["name"])
	require.Equal(t, "7", row["user_id"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSelectSingleAddsKeyColumn(t *testing.T) {
	store, mock, db := newStoreWithMock(t)
	defer db.Close()

	q := `^SELECT name, user_id FROM users WHERE user_id = \?$`
	rows := sqlmock.NewRows([]string{"name", "user_id"}).AddRow("alice", "7")
	mock.ExpectQuery(q).WithArgs("7").WillReturnRows(rows)

	_, err := store.SelectSingle(context.Background(), usersTable(), "7", []string{"name"})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSelectSingleNotFound(t *testing.T) {
	store, mock, db := newStoreWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`^SELECT`).WillReturnRows(sqlmock.NewRows([]string{"name", "email", "user_id"}))

	_, err := store.SelectSingle(context.Background(), usersTable(), "7", nil)
	require.ErrorIs(t, err, activerow.ErrNotFound)
}

func TestSelectMultipleLazyExecution(t *testing.T) {
	store, mock, db := newStoreWithMock(t)
	defer db.Close()

	pq, err := store.SelectMultiple(context.Background(), usersTable(), []string{"name"},
		"email = ?", []any{"a@example.com"}, []string{"name"})
	require.NoError(t, err)

	// nothing hit the database yet
	require.NoError(t, mock.ExpectationsWereMet())

	q := `^SELECT name, user_id FROM users WHERE email = \? ORDER BY name$`
	rows := sqlmock.NewRows([]string{"name", "user_id"}).
		AddRow("alice", "1").
		AddRow("bob", "2")
	mock.ExpectQuery(q).WithArgs("a@example.com").WillReturnRows(rows)

	src, err := pq.Execute(context.Background())
	require.NoError(t, err)
	defer src.Close()

	var names []string
	for {
		row, ok, err := src.Next(context.Background())
		require.NoError(t, err)
		if !ok {
			break
		}
		names = append(names, row["name"].(string))
	}
	require.Equal(t, []string{"alice", "bob"}, names)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestExists(t *testing.T) {
	store, mock, db := newStoreWithMock(t)
	defer db.Close()

	q := `^SELECT user_id FROM users WHERE user_id = \?$`
	mock.ExpectQuery(q).WithArgs("7").WillReturnRows(sqlmock.NewRows([]string{"user_id"}).AddRow("7"))

	exists, err := store.Exists(context.Background(), usersTable(), "7")
	require.NoError(t, err)
	require.True(t, exists)

	mock.ExpectQuery(q).WithArgs("8").WillReturnRows(sqlmock.NewRows([]string{"user_id"}))
	exists, err = store.Exists(context.Background(), usersTable(), "8")
	require.NoError(t, err)
	require.False(t, exists)
}

func TestInsertLastInsertID(t *testing.T) {
	store, mock, db := newStoreWithMock(t)
	defer db.Close()

	q := `^INSERT INTO users \(name, email\) VALUES \(\?, \?\)$`
	mock.ExpectExec(q).WithArgs("alice", "a@example.com").WillReturnResult(sqlmock.NewResult(42, 1))

	key, err := store.Insert(context.Background(), usersTable(), []string{"name", "email"}, []any{"alice", "a@example.com"})
	require.NoError(t, err)
	require.Equal(t, activerow.Key("42"), key)
}

func TestInsertReturning(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()
	store := NewStore(db, DefaultBuilder{UseReturning: true})

	q := `^INSERT INTO users \(name\) VALUES \(\?\) RETURNING user_id$`
	mock.ExpectQuery(q).WithArgs("alice").WillReturnRows(sqlmock.NewRows([]string{"user_id"}).AddRow("9"))

	key, err := store.Insert(context.Background(), usersTable(), []string{"name"}, []any{"alice"})
	require.NoError(t, err)
	require.Equal(t, activerow.Key("9"), key)
}

func TestUpdate(t *testing.T) {
	store, mock, db := newStoreWithMock(t)
	defer db.Close()

	q := `^UPDATE users SET name = \?, email = \? WHERE user_id = \?$`
	mock.ExpectExec(q).WithArgs("bob", "b@example.com", "7").WillReturnResult(sqlmock.NewResult(0, 1))

	err := store.Update(context.Background(), usersTable(), "7", []string{"name", "email"}, []any{"bob", "b@example.com"})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDelete(t *testing.T) {
	store, mock, db := newStoreWithMock(t)
	defer db.Close()

	q := `^DELETE FROM users WHERE user_id = \?$`
	mock.ExpectExec(q).WithArgs("7").WillReturnResult(sqlmock.NewResult(0, 1))

	err := store.Delete(context.Background(), usersTable(), "7")
	require.NoError(t, err)
}

func TestQueryErrorWrapped(t *testing.T) {
	store, mock, db := newStoreWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`^SELECT`).WillReturnError(errors.New("db down"))

	_, err := store.SelectSingle(context.Background(), usersTable(), "7", nil)
	require.ErrorContains(t, err, "db down")
	require.ErrorContains(t, err, "error executing query")
}
