package activerow

import "context"

// RowSource is a forward-only sequence of rows produced by an executed query.
type RowSource interface {
	// Next returns the next row, or false when the source is exhausted.
	Next(ctx context.Context) (map[string]any, bool, error)
	Close() error
}

// PendingQuery is a built but not yet executed query. It executes at most
// once, on the first Cursor advance.
type PendingQuery interface {
	Execute(ctx context.Context) (RowSource, error)
}

// Storage is the SQL-dialect collaborator: it builds and executes queries for
// one table at a time. Implementations live outside the record engine (see
// db/sql); MemoryStorage is provided for tests.
type Storage interface {
	// SelectSingle fetches one row's named fields (all declared fields when
	// fields is nil) by key. The key column is always part of the result.
	// Returns ErrNotFound when no row matches.
	SelectSingle(ctx context.Context, table *Table, key Key, fields []string) (map[string]any, error)

	// SelectMultiple builds, without executing, a query over the table. The
	// where clause uses `?` placeholders matched positionally against binds.
	// The key column is always among the returned columns.
	SelectMultiple(ctx context.Context, table *Table, fields []string, where string, binds []any, order []string) (PendingQuery, error)

	// Exists reports whether a row with the key exists.
	Exists(ctx context.Context, table *Table, key Key) (bool, error)

	// Delete removes the row with the key.
	Delete(ctx context.Context, table *Table, key Key) error

	// Update writes the named values to the row with the key.
	Update(ctx context.Context, table *Table, key Key, names []string, values []any) error

	// Insert creates a row with the named values and returns the new key.
	Insert(ctx context.Context, table *Table, names []string, values []any) (Key, error)
}

// StorageProvider is anything that can yield a Storage, like a login or
// session object holding a live connection.
type StorageProvider interface {
	Storage() Storage
}

// ResolveStorage accepts either a Storage or a StorageProvider and returns
// the Storage. Anything else is a configuration error.
func ResolveStorage(v any) (Storage, error) {
	switch s := v.(type) {
	case Storage:
		return s, nil
	case StorageProvider:
		return s.Storage(), nil
	}
	return nil, NewConfigErrorf("value of type %T is neither a Storage nor a StorageProvider", v)
}
