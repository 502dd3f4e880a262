package activerow

import (
	"testing"

	"gotest.tools/v3/assert"
)

func TestMemoryStorageRoundTrip(t *testing.T) {
	_, departments, _ := testSchema(t)
	storage := NewMemoryStorage()

	key, err := storage.Insert(testContext(), departments, []string{"dept_name"}, []any{"Accounting"})
	assert.NilError(t, err)
	assert.Assert(t, !key.IsNew())

	row, err := storage.SelectSingle(testContext(), departments, key, nil)
	assert.NilError(t, err)
	assert.Equal(t, "Accounting", row["dept_name"])
	assert.Equal(t, key.String(), row["dept_id"])

	assert.NilError(t, storage.Update(testContext(), departments, key, []string{"dept_name"}, []any{"Finance"}))
	row, err = storage.SelectSingle(testContext(), departments, key, []string{"dept_name"})
	assert.NilError(t, err)
	assert.Equal(t, "Finance", row["dept_name"])

	exists, err := storage.Exists(testContext(), departments, key)
	assert.NilError(t, err)
	assert.Assert(t, exists)

	assert.NilError(t, storage.Delete(testContext(), departments, key))
	_, err = storage.SelectSingle(testContext(), departments, key, nil)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStorageWhere(t *testing.T) {
	_, departments, _ := testSchema(t)
	storage := NewMemoryStorage()
	storage.Put(departments, "1", map[string]any{"dept_name": "Accounting", "floor": "2"})
	storage.Put(departments, "2", map[string]any{"dept_name": "Engineering", "floor": "3"})
	storage.Put(departments, "3", map[string]any{"dept_name": "Support", "floor": "2"})

	pq, err := storage.SelectMultiple(testContext(), departments, nil, "floor = ?", []any{"2"}, []string{"dept_name"})
	assert.NilError(t, err)
	src, err := pq.Execute(testContext())
	assert.NilError(t, err)
	defer src.Close()

	var names []string
	for {
		row, ok, err := src.Next(testContext())
		assert.NilError(t, err)
		if !ok {
			break
		}
		names = append(names, asString(row["dept_name"]))
	}
	assert.DeepEqual(t, []string{"Accounting", "Support"}, names)
}

func TestMemoryStorageWhereUnsupported(t *testing.T) {
	_, departments, _ := testSchema(t)
	storage := NewMemoryStorage()
	_, err := storage.SelectMultiple(testContext(), departments, nil, "floor > ?", []any{"2"}, nil)
	assert.ErrorContains(t, err, "supports only")
}

func TestResolveStorage(t *testing.T) {
	storage := NewMemoryStorage()

	s, err := ResolveStorage(storage)
	assert.NilError(t, err)
	assert.Equal(t, Storage(storage), s)

	s, err = ResolveStorage(provider{storage})
	assert.NilError(t, err)
	assert.Equal(t, Storage(storage), s)

	_, err = ResolveStorage(42)
	AssertIsConfigError(t, err)
}

type provider struct {
	s Storage
}

func (p provider) Storage() Storage {
	return p.s
}
