package activerow

import (
	"context"
	"strings"
)

// QueryOption configures a bulk retrieval.
type QueryOption func(*queryOptions)

type queryOptions struct {
	fields []string
	where  []string
	binds  []any
	order  []string
}

// WithFields restricts the columns fetched per row. The key column is always
// included regardless of the list.
func WithFields(names ...string) QueryOption {
	return func(o *queryOptions) {
		o.fields = append(o.fields, names...)
	}
}

// WithWhere adds a filter condition with `?` placeholders matched
// positionally against binds. Multiple conditions are AND-combined.
func WithWhere(cond string, binds ...any) QueryOption {
	return func(o *queryOptions) {
		o.where = append(o.where, cond)
		o.binds = append(o.binds, binds...)
	}
}

// WithOrder adds result ordering by the named columns.
func WithOrder(fields ...string) QueryOption {
	return func(o *queryOptions) {
		o.order = append(o.order, fields...)
	}
}

// Query builds (without executing) a bulk retrieval over a table and wraps
// the pending query in a Cursor bound to the table.
func Query(ctx context.Context, table *Table, storage Storage, options ...QueryOption) (*Cursor, error) {
	var optns queryOptions
	for _, opt := range options {
		opt(&optns)
	}
	fields := optns.fields
	if len(fields) > 0 {
		fields = withKeyField(table, fields)
	}
	pq, err := storage.SelectMultiple(ctx, table, fields, strings.Join(optns.where, " AND "), optns.binds, optns.order)
	if err != nil {
		return nil, NewStorageError("select", table.Name, err)
	}
	return newCursor(table, storage, pq), nil
}

// Cursor is a lazy, forward-only, single-pass sequence of records over a
// pending query. The query executes at most once, on the first advance; once
// the underlying result set is exhausted the handle is discarded and every
// further advance yields no record with no side effects. It is never
// restartable.
type Cursor struct {
	table    *Table
	storage  Storage
	query    PendingQuery
	src      RowSource
	executed bool
}

func newCursor(table *Table, storage Storage, query PendingQuery) *Cursor {
	return &Cursor{
		table:   table,
		storage: storage,
		query:   query,
	}
}

// Next advances to the next row and materializes it as a Record. It returns
// (nil, nil) when the sequence is exhausted; an execution or fetch failure
// returns the error once and leaves the cursor exhausted.
func (c *Cursor) Next(ctx context.Context) (*Record, error) {
	if c.executed && c.src == nil {
		return nil, nil
	}
	if !c.executed {
		c.executed = true
		src, err := c.query.Execute(ctx)
		c.query = nil
		if err != nil {
			return nil, NewStorageError("execute", c.table.Name, err)
		}
		c.src = src
	}
	row, ok, err := c.src.Next(ctx)
	if err != nil {
		c.exhaust()
		return nil, NewStorageError("fetch", c.table.Name, err)
	}
	if !ok {
		c.exhaust()
		return nil, nil
	}
	r, err := FromRow(ctx, c.table, c.storage, row)
	if err != nil {
		c.exhaust()
		return nil, err
	}
	return r, nil
}

// Exhausted reports whether the cursor reached the end of its sequence.
func (c *Cursor) Exhausted() bool {
	return c.executed && c.src == nil
}

func (c *Cursor) exhaust() {
	if c.src != nil {
		_ = c.src.Close()
		c.src = nil
	}
	c.query = nil
}
