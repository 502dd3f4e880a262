package activerow

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
)

// MemoryStorage is an in-memory Storage for tests and prototyping. Inserts
// generate uuid keys. The where clause support is deliberately small: empty,
// or `field = ?` conditions joined with AND.
type MemoryStorage struct {
	mu     sync.Mutex
	tables map[string]map[Key]map[string]any
	order  map[string][]Key
}

var _ Storage = (*MemoryStorage)(nil)

// NewMemoryStorage creates an empty MemoryStorage.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		tables: map[string]map[Key]map[string]any{},
		order:  map[string][]Key{},
	}
}

// Put stores a row directly, bypassing the record engine. Mostly useful to
// seed test data.
func (m *MemoryStorage) Put(table *Table, key Key, row map[string]any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.put(table.Name, key, row)
}

func (m *MemoryStorage) put(tableName string, key Key, row map[string]any) {
	tn := foldName(tableName)
	if m.tables[tn] == nil {
		m.tables[tn] = map[Key]map[string]any{}
	}
	if _, ok := m.tables[tn][key]; !ok {
		m.order[tn] = append(m.order[tn], key)
	}
	stored := m.tables[tn][key]
	if stored == nil {
		stored = map[string]any{}
		m.tables[tn][key] = stored
	}
	for k, v := range row {
		stored[k] = v
	}
}

func (m *MemoryStorage) SelectSingle(ctx context.Context, table *Table, key Key, fields []string) (map[string]any, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	row, ok := m.tables[foldName(table.Name)][key]
	if !ok {
		return nil, ErrNotFound
	}
	return m.project(table, key, row, fields), nil
}

func (m *MemoryStorage) project(table *Table, key Key, row map[string]any, fields []string) map[string]any {
	ret := map[string]any{}
	if len(fields) == 0 {
		for k, v := range row {
			ret[k] = v
		}
	} else {
		for _, fn := range fields {
			if v, ok := lookupFold(row, fn); ok {
				ret[fn] = v
			}
		}
	}
	ret[table.KeyField] = key.String()
	return ret
}

func (m *MemoryStorage) SelectMultiple(ctx context.Context, table *Table, fields []string, where string, binds []any, order []string) (PendingQuery, error) {
	conds, err := parseWhere(where, binds)
	if err != nil {
		return nil, err
	}
	return &memQuery{storage: m, table: table, fields: fields, conds: conds, order: order}, nil
}

func (m *MemoryStorage) Exists(ctx context.Context, table *Table, key Key) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.tables[foldName(table.Name)][key]
	return ok, nil
}

func (m *MemoryStorage) Delete(ctx context.Context, table *Table, key Key) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	tn := foldName(table.Name)
	if _, ok := m.tables[tn][key]; !ok {
		return ErrNotFound
	}
	delete(m.tables[tn], key)
	for i, k := range m.order[tn] {
		if k == key {
			m.order[tn] = append(m.order[tn][:i], m.order[tn][i+1:]...)
			break
		}
	}
	return nil
}

func (m *MemoryStorage) Update(ctx context.Context, table *Table, key Key, names []string, values []any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	tn := foldName(table.Name)
	if _, ok := m.tables[tn][key]; !ok {
		return ErrNotFound
	}
	row := map[string]any{}
	for i, name := range names {
		row[name] = values[i]
	}
	m.put(table.Name, key, row)
	return nil
}

func (m *MemoryStorage) Insert(ctx context.Context, table *Table, names []string, values []any) (Key, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := Key(uuid.NewString())
	row := map[string]any{}
	for i, name := range names {
		row[name] = values[i]
	}
	m.put(table.Name, key, row)
	return key, nil
}

type memCond struct {
	field string
	value any
}

func parseWhere(where string, binds []any) ([]memCond, error) {
	where = strings.TrimSpace(where)
	if where == "" {
		return nil, nil
	}
	var conds []memCond
	for _, part := range strings.Split(where, " AND ") {
		field, rest, ok := strings.Cut(strings.TrimSpace(part), "=")
		if !ok || strings.TrimSpace(rest) != "?" {
			return nil, fmt.Errorf("memory storage supports only `field = ?` conditions, got '%s'", part)
		}
		if len(conds) >= len(binds) {
			return nil, fmt.Errorf("missing bind for condition '%s'", part)
		}
		conds = append(conds, memCond{field: strings.TrimSpace(field), value: binds[len(conds)]})
	}
	return conds, nil
}

type memQuery struct {
	storage *MemoryStorage
	table   *Table
	fields  []string
	conds   []memCond
	order   []string
}

var _ PendingQuery = (*memQuery)(nil)

func (q *memQuery) Execute(ctx context.Context) (RowSource, error) {
	q.storage.mu.Lock()
	defer q.storage.mu.Unlock()
	tn := foldName(q.table.Name)

	var rows []map[string]any
	for _, key := range q.storage.order[tn] {
		row := q.storage.tables[tn][key]
		match := true
		for _, cond := range q.conds {
			var rv any
			if foldName(cond.field) == foldName(q.table.KeyField) {
				rv = key.String()
			} else {
				rv, _ = lookupFold(row, cond.field)
			}
			if !cmp.Equal(rv, cond.value) {
				match = false
				break
			}
		}
		if match {
			rows = append(rows, q.storage.project(q.table, key, row, q.fields))
		}
	}

	for i := len(q.order) - 1; i >= 0; i-- {
		fn := q.order[i]
		sort.SliceStable(rows, func(a, b int) bool {
			av, _ := lookupFold(rows[a], fn)
			bv, _ := lookupFold(rows[b], fn)
			return asString(av) < asString(bv)
		})
	}

	return &memRows{rows: rows}, nil
}

type memRows struct {
	rows []map[string]any
	pos  int
}

var _ RowSource = (*memRows)(nil)

func (r *memRows) Next(ctx context.Context) (map[string]any, bool, error) {
	if r.pos >= len(r.rows) {
		return nil, false, nil
	}
	row := r.rows[r.pos]
	r.pos++
	return row, true, nil
}

func (r *memRows) Close() error {
	r.rows = nil
	return nil
}
