package activerow

import (
	"testing"

	"gotest.tools/v3/assert"
)

func fruitDef() *FieldDef {
	return &FieldDef{
		Name:    "fruit",
		Kind:    KindChoice,
		Options: []Option{{Value: "A", Label: "Apple"}, {Value: "B", Label: "Banana"}},
	}
}

func TestChoiceFieldInlineRendering(t *testing.T) {
	f := newTestField(t, fruitDef()).(*ChoiceField)
	assert.NilError(t, f.SetFromStorage("A"))
	assert.Equal(t, "Apple", f.Plain())
	assert.Equal(t, "Apple", f.Markup())

	// a value outside the option set renders as-is
	assert.NilError(t, f.SetFromStorage("C"))
	assert.Equal(t, "C", f.Plain())
}

func TestChoiceFieldInlineValidation(t *testing.T) {
	f := newTestField(t, fruitDef()).(*ChoiceField)

	assert.NilError(t, f.SetFromStorage("A"))
	errs := NewErrorList()
	assert.Assert(t, f.Validate(testContext(), nil, errs))

	assert.NilError(t, f.SetFromStorage("C"))
	errs.Reset()
	assert.Assert(t, !f.Validate(testContext(), nil, errs))
	assert.Equal(t, "fruit has an invalid value (C)", errs.Plain())
}

func TestChoiceFieldEmptyValue(t *testing.T) {
	f := newTestField(t, fruitDef()).(*ChoiceField)
	errs := NewErrorList()
	assert.Assert(t, f.Validate(testContext(), nil, errs))

	required := fruitDef()
	required.Required = true
	g := newTestField(t, required).(*ChoiceField)
	errs.Reset()
	assert.Assert(t, !g.Validate(testContext(), nil, errs))
	assert.Equal(t, "fruit is required", errs.Plain())
}

func TestChoiceFieldTableBacked(t *testing.T) {
	_, departments, _ := testSchema(t)
	storage := NewMemoryStorage()
	seedDepartment(t, storage, departments, "10", "Accounting")
	seedDepartment(t, storage, departments, "20", "Engineering")

	def := &FieldDef{Name: "dept", Kind: KindChoice, RefTable: "departments"}
	def.ref = departments

	f := newTestField(t, def).(*ChoiceField)

	opts, err := f.Options(testContext(), storage)
	assert.NilError(t, err)
	assert.DeepEqual(t, []Option{
		{Value: "10", Label: "Accounting"},
		{Value: "20", Label: "Engineering"},
	}, opts)

	assert.NilError(t, f.SetFromInput("20"))
	errs := NewErrorList()
	assert.Assert(t, f.Validate(testContext(), storage, errs))
	assert.Equal(t, "Engineering", f.Label(testContext(), storage))

	// option sets are live: validation fails once the row is gone
	assert.NilError(t, storage.Delete(testContext(), departments, "20"))
	errs.Reset()
	assert.Assert(t, !f.Validate(testContext(), storage, errs))
	assert.Equal(t, "dept has an invalid value (20)", errs.Plain())
}

func TestChoiceFieldTableBackedEditable(t *testing.T) {
	_, departments, _ := testSchema(t)
	storage := NewMemoryStorage()
	seedDepartment(t, storage, departments, "10", "Accounting")
	seedDepartment(t, storage, departments, "20", "Engineering")

	def := &FieldDef{Name: "dept", Kind: KindChoice, RefTable: "departments"}
	def.ref = departments
	f := newTestField(t, def).(*ChoiceField)
	assert.NilError(t, f.SetFromInput("20"))

	markup, err := f.EditableOptions(testContext(), storage)
	assert.NilError(t, err)
	assert.Equal(t,
		`<select name="dept"><option value="10">Accounting</option><option value="20" selected>Engineering</option></select>`,
		markup)
}

func TestRadioFieldTableBackedEditable(t *testing.T) {
	_, departments, _ := testSchema(t)
	storage := NewMemoryStorage()
	seedDepartment(t, storage, departments, "10", "Accounting")
	seedDepartment(t, storage, departments, "20", "Engineering")

	def := &FieldDef{Name: "dept", Kind: KindRadio, RefTable: "departments"}
	def.ref = departments
	f := newTestField(t, def).(*RadioField)
	assert.NilError(t, f.SetFromInput("20"))

	markup, err := f.EditableOptions(testContext(), storage)
	assert.NilError(t, err)
	assert.Equal(t,
		`<label><input type="radio" name="dept" value="10"> Accounting</label>`+
			`<label><input type="radio" name="dept" value="20" checked> Engineering</label>`,
		markup)
}

func TestChoiceFieldEditable(t *testing.T) {
	f := newTestField(t, fruitDef()).(*ChoiceField)
	assert.NilError(t, f.SetFromStorage("B"))
	assert.Equal(t,
		`<select name="fruit"><option value="A">Apple</option><option value="B" selected>Banana</option></select>`,
		f.Editable())
}

func TestRadioFieldEditable(t *testing.T) {
	def := fruitDef()
	def.Kind = KindRadio
	f := newTestField(t, def).(*RadioField)
	assert.NilError(t, f.SetFromStorage("A"))
	assert.Equal(t,
		`<label><input type="radio" name="fruit" value="A" checked> Apple</label>`+
			`<label><input type="radio" name="fruit" value="B"> Banana</label>`,
		f.Editable())
}

func TestChoiceFieldBrokenConfig(t *testing.T) {
	table := &Table{
		Name:     "broken",
		KeyField: "id",
		Fields: []FieldDef{
			{Name: "c", Kind: KindChoice},
		},
	}
	AssertIsConfigError(t, table.check())
}
