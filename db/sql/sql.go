// Package sql implements the activerow Storage collaborator on top of
// database/sql, with the dialect-specific SQL text generation abstracted
// behind QueryBuilder.
package sql

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/rgmello/activerow"
)

// DB abstracts the database/sql methods the store needs, so it works with
// *sql.DB, *sql.Tx or *sql.Conn alike.
type DB interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// Store is an activerow.Storage over a SQL database.
type Store struct {
	db      DB
	builder QueryBuilder
}

var _ activerow.Storage = (*Store)(nil)

// NewStore creates a Store for a database handle and a dialect builder.
func NewStore(db DB, builder QueryBuilder) *Store {
	return &Store{
		db:      db,
		builder: builder,
	}
}

// Storage returns the store itself, so a Store is also a StorageProvider.
func (s *Store) Storage() activerow.Storage {
	return s
}

func (s *Store) SelectSingle(ctx context.Context, table *activerow.Table, key activerow.Key, fields []string) (map[string]any, error) {
	if len(fields) == 0 {
		fields = table.FieldNames()
	}
	fields = withKeyField(table, fields)

	pp := s.builder.CreatePlaceholderProvider()
	where, args := bindPlaceholders(table.KeyField+" = ?", pp, []any{key.String()})
	query := s.builder.BuildSelectSQL(table.Name, fields, where, nil)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error executing query `%s`: %w", query, err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, err
		}
		return nil, activerow.ErrNotFound
	}

	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	return rowToMap(cols, rows)
}

func (s *Store) SelectMultiple(ctx context.Context, table *activerow.Table, fields []string, where string, binds []any, order []string) (activerow.PendingQuery, error) {
	if len(fields) == 0 {
		fields = table.FieldNames()
	}
	fields = withKeyField(table, fields)

	pp := s.builder.CreatePlaceholderProvider()
	where, args := bindPlaceholders(where, pp, binds)
	query := s.builder.BuildSelectSQL(table.Name, fields, where, order)

	return &pendingQuery{db: s.db, query: query, args: args}, nil
}

func (s *Store) Exists(ctx context.Context, table *activerow.Table, key activerow.Key) (bool, error) {
	pp := s.builder.CreatePlaceholderProvider()
	where, args := bindPlaceholders(table.KeyField+" = ?", pp, []any{key.String()})
	query := s.builder.BuildSelectSQL(table.Name, []string{table.KeyField}, where, nil)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("error executing query `%s`: %w", query, err)
	}
	defer rows.Close()

	if rows.Next() {
		return true, nil
	}
	return false, rows.Err()
}

func (s *Store) Delete(ctx context.Context, table *activerow.Table, key activerow.Key) error {
	pp := s.builder.CreatePlaceholderProvider()
	where, args := bindPlaceholders(table.KeyField+" = ?", pp, []any{key.String()})
	query := s.builder.BuildDeleteSQL(table.Name, where)

	_, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("error executing query `%s`: %w", query, err)
	}
	return nil
}

func (s *Store) Update(ctx context.Context, table *activerow.Table, key activerow.Key, names []string, values []any) error {
	pp := s.builder.CreatePlaceholderProvider()

	placeholders := make([]string, len(names))
	var args []any
	for i := range names {
		placeholders[i], args = nextArg(pp, args, values[i])
	}
	where, args2 := bindPlaceholders(table.KeyField+" = ?", pp, []any{key.String()})
	args = append(args, args2...)

	query := s.builder.BuildUpdateSQL(table.Name, names, placeholders, where)

	_, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("error executing query `%s`: %w", query, err)
	}
	return nil
}

func (s *Store) Insert(ctx context.Context, table *activerow.Table, names []string, values []any) (activerow.Key, error) {
	pp := s.builder.CreatePlaceholderProvider()

	placeholders := make([]string, len(names))
	var args []any
	for i := range names {
		placeholders[i], args = nextArg(pp, args, values[i])
	}

	query, useReturning := s.builder.BuildInsertSQL(table.Name, names, placeholders, table.KeyField)

	if useReturning {
		var key any
		err := s.db.QueryRowContext(ctx, query, args...).Scan(&key)
		if err != nil {
			return "", fmt.Errorf("error executing query `%s`: %w", query, err)
		}
		return activerow.Key(valueString(key)), nil
	}

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return "", fmt.Errorf("error executing query `%s`: %w", query, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return "", err
	}
	return activerow.Key(fmt.Sprintf("%d", id)), nil
}

// bindPlaceholders rewrites the `?` markers of a where clause with the
// dialect's placeholders, producing the final argument list. Named
// placeholders use sql.Named.
func bindPlaceholders(where string, pp PlaceholderProvider, binds []any) (string, []any) {
	var sb strings.Builder
	var args []any
	bi := 0
	for _, ch := range where {
		if ch != '?' {
			sb.WriteRune(ch)
			continue
		}
		var v any
		if bi < len(binds) {
			v = binds[bi]
		}
		bi++
		var placeholder string
		placeholder, args = nextArg(pp, args, v)
		sb.WriteString(placeholder)
	}
	return sb.String(), args
}

func nextArg(pp PlaceholderProvider, args []any, v any) (string, []any) {
	placeholder, argName := pp.Next()
	if argName != "" {
		return placeholder, append(args, sql.Named(argName, v))
	}
	return placeholder, append(args, v)
}

func withKeyField(table *activerow.Table, fields []string) []string {
	for _, fn := range fields {
		if strings.EqualFold(fn, table.KeyField) {
			return fields
		}
	}
	return append(append([]string{}, fields...), table.KeyField)
}
