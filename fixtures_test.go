package activerow

import (
	"context"
	"testing"

	"gotest.tools/v3/assert"
)

// testSchema declares a two-table schema used across tests: departments and
// employees, with one field of every variant on the employee side.
func testSchema(t *testing.T) (*Schema, *Table, *Table) {
	t.Helper()

	departments := &Table{
		Name:         "departments",
		KeyField:     "dept_id",
		DisplayField: "dept_name",
		Fields: []FieldDef{
			{Name: "dept_name", Kind: KindText, Required: true},
		},
	}
	employees := &Table{
		Name:         "employees",
		KeyField:     "emp_id",
		DisplayField: "name",
		Fields: []FieldDef{
			{Name: "name", Kind: KindText, Required: true, MaxSize: "1k", Crunch: true},
			{Name: "bio", Kind: KindLongText},
			{Name: "active", Kind: KindBool, Default: "yes"},
			{Name: "fruit", Kind: KindChoice, Options: []Option{{Value: "A", Label: "Apple"}, {Value: "B", Label: "Banana"}}},
			{Name: "dept", Kind: KindRef, RefTable: "departments"},
			{Name: "created_at", Kind: KindText, WriteOnce: true},
		},
	}

	schema := NewSchema()
	assert.NilError(t, schema.Add(departments))
	assert.NilError(t, schema.Add(employees))
	assert.NilError(t, schema.Link())
	return schema, departments, employees
}

// seedDepartment stores a department row directly and returns its key.
func seedDepartment(t *testing.T, storage *MemoryStorage, departments *Table, key Key, name string) Key {
	t.Helper()
	storage.Put(departments, key, map[string]any{"dept_name": name})
	return key
}

func newTestField(t *testing.T, def *FieldDef) Field {
	t.Helper()
	f, err := NewField(def)
	assert.NilError(t, err)
	return f
}

func testContext() context.Context {
	return context.Background()
}
