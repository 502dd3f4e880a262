package activerow

import (
	"strings"
	"testing"

	"gotest.tools/v3/assert"
)

const testSchemaYAML = `departments:
  key_field: dept_id
  display_field: dept_name
  fields:
    - name: dept_name
      type: text
      required: true
employees:
  table_name: staff
  key_field: emp_id
  display_field: name
  fields:
    - name: name
      type: text
      label: Full name
      required: true
      max_size: 1k
      case: title
      crunch: true
    - name: bio
      type: longtext
    - name: active
      type: bool
      default: "yes"
      true_label: Active
      words:
        sim: 1
        nao: 0
    - name: fruit
      type: choice
      options:
        - value: A
          label: Apple
        - value: B
          label: Banana
    - name: pick
      type: radio
      options:
        - value: "1"
          label: One
    - name: dept
      type: ref
      table: departments
    - name: created_at
      write_once: true
`

func TestLoadSchema(t *testing.T) {
	schema, err := Load(strings.NewReader(testSchemaYAML))
	assert.NilError(t, err)
	assert.DeepEqual(t, []string{"departments", "staff"}, schema.TableNames())

	staff, ok := schema.Table("staff")
	assert.Assert(t, ok)
	assert.Equal(t, "emp_id", staff.KeyField)
	assert.Equal(t, "name", staff.DisplayField)

	name, ok := staff.FieldDef("name")
	assert.Assert(t, ok)
	assert.Equal(t, KindText, name.Kind)
	assert.Equal(t, "Full name", name.Label)
	assert.Assert(t, name.Required)
	assert.Equal(t, "1k", name.MaxSize)
	assert.Equal(t, CaseTitle, name.Case)
	assert.Assert(t, name.Crunch)

	active, _ := staff.FieldDef("active")
	assert.Equal(t, KindBool, active.Kind)
	assert.Equal(t, "Active", active.TrueLabel)
	assert.Equal(t, 1, active.Words["sim"])

	fruit, _ := staff.FieldDef("fruit")
	assert.Equal(t, KindChoice, fruit.Kind)
	assert.DeepEqual(t, []Option{{Value: "A", Label: "Apple"}, {Value: "B", Label: "Banana"}}, fruit.Options)

	pick, _ := staff.FieldDef("pick")
	assert.Equal(t, KindRadio, pick.Kind)

	created, _ := staff.FieldDef("created_at")
	assert.Equal(t, KindText, created.Kind) // type defaults to text
	assert.Assert(t, created.WriteOnce)

	// ref fields are linked to their table
	dept, _ := staff.FieldDef("dept")
	assert.Equal(t, KindRef, dept.Kind)
	departments, _ := schema.Table("departments")
	assert.Equal(t, departments, dept.Ref())
}

func TestLoadSchemaUnknownType(t *testing.T) {
	_, err := LoadBytes([]byte(`t:
  key_field: id
  fields:
    - name: f
      type: blob
`))
	AssertIsConfigError(t, err)
}

func TestLoadSchemaUnknownRefTable(t *testing.T) {
	_, err := LoadBytes([]byte(`t:
  key_field: id
  fields:
    - name: f
      type: ref
      table: ghost
`))
	AssertIsConfigError(t, err)
}

func TestLoadSchemaBrokenChoice(t *testing.T) {
	_, err := LoadBytes([]byte(`t:
  key_field: id
  fields:
    - name: f
      type: choice
`))
	AssertIsConfigError(t, err)
}

func TestLoadSchemaInvalidYAML(t *testing.T) {
	_, err := LoadBytes([]byte("\t: ["))
	assert.Assert(t, err != nil)
}
