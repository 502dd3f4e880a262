package activerow

import (
	"context"
	"strings"
)

// FieldKind identifies one of the closed set of field variants.
type FieldKind int

const (
	KindText FieldKind = iota
	KindLongText
	KindRef
	KindBool
	KindChoice
	KindRadio
)

func (k FieldKind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindLongText:
		return "longtext"
	case KindRef:
		return "ref"
	case KindBool:
		return "bool"
	case KindChoice:
		return "choice"
	case KindRadio:
		return "radio"
	}
	return "unknown"
}

// CaseRule is the case folding applied to untrusted interface input.
type CaseRule int

const (
	CaseNone CaseRule = iota
	CaseUpper
	CaseLower
	CaseTitle
)

// Option is one selectable value/label pair of a choice field.
type Option struct {
	Value string
	Label string
}

// BoolWords maps normalized interface spellings to the stored 0/1 value.
type BoolWords map[string]int

// DefaultBoolWords returns the word table used when a bool field declares none.
func DefaultBoolWords() BoolWords {
	return BoolWords{
		"yes":   1,
		"no":    0,
		"true":  1,
		"false": 0,
		"y":     1,
		"n":     0,
		"on":    1,
		"off":   0,
		"1":     1,
		"0":     0,
	}
}

// FieldDef declares one column of a table: its variant, constraints, default
// value, and the write-once flag. The key column is not declared as a field;
// it is handled by the Record itself.
type FieldDef struct {
	Name     string
	Kind     FieldKind
	Label    string // human label for error messages and rendering; defaults to Name
	Required bool

	// text constraints
	MaxSize string // maximum length in characters, with optional "k"/"m" suffix; "" is unlimited
	Case    CaseRule
	Crunch  bool // collapse internal whitespace runs on interface input

	Default   any
	WriteOnce bool // only ever sent on insert, never on update

	// ref and table-backed choice
	RefTable string

	// inline choice options
	Options []Option

	// bool behavior
	Words      BoolWords
	TrueLabel  string // display serialization, defaults "Yes"
	FalseLabel string // display serialization, defaults "No"
	TrueImage  string // optional image markup sources
	FalseImage string

	ref *Table // resolved by Schema.Link
}

func (d *FieldDef) label() string {
	if d.Label != "" {
		return d.Label
	}
	return d.Name
}

// Ref returns the resolved foreign table, if any.
func (d *FieldDef) Ref() *Table {
	return d.ref
}

// HookFunc is called before a storage dispatch; returning false cancels the
// whole operation, leaving the record's dirty state untouched.
type HookFunc func(ctx context.Context, r *Record, errs *ErrorList) bool

// AfterFunc is called after a successful storage dispatch.
type AfterFunc func(ctx context.Context, r *Record, errs *ErrorList)

// Hooks are the per-table save/delete extension points. Table-specific side
// effects (cascading writes and the like) go here instead of overriding Save.
type Hooks struct {
	PreInsert  HookFunc
	PostInsert AfterFunc
	PreUpdate  HookFunc
	PostUpdate AfterFunc
	PreDelete  HookFunc
	PostDelete AfterFunc
}

// RecordCheck is a record-level cross-field validation hook.
type RecordCheck func(ctx context.Context, r *Record, errs *ErrorList) bool

// Table describes one database table: name, key column, field declarations
// and hooks. A Table is plain data passed to the generic record engine; there
// is no subclassing involved.
type Table struct {
	Name         string
	KeyField     string
	DisplayField string // field whose plain rendering labels a record; defaults to KeyField
	Fields       []FieldDef
	Hooks        Hooks

	// CheckRecord runs after field-level validation passed, or always when
	// AlwaysCheckRecord is set.
	CheckRecord       RecordCheck
	AlwaysCheckRecord bool
}

// FieldDef returns the declaration for a field name, case-insensitively.
func (t *Table) FieldDef(name string) (*FieldDef, bool) {
	name = foldName(name)
	for i := range t.Fields {
		if foldName(t.Fields[i].Name) == name {
			return &t.Fields[i], true
		}
	}
	return nil, false
}

// FieldNames returns the declared field names in declaration order.
func (t *Table) FieldNames() []string {
	names := make([]string, len(t.Fields))
	for i := range t.Fields {
		names[i] = t.Fields[i].Name
	}
	return names
}

func (t *Table) displayField() string {
	if t.DisplayField != "" {
		return t.DisplayField
	}
	return t.KeyField
}

// check validates the declaration itself. A failure here is a ConfigError:
// the table definition is broken, independent of any data.
func (t *Table) check() error {
	if t.Name == "" {
		return NewConfigError("table has no name")
	}
	if t.KeyField == "" {
		return NewConfigErrorf("table '%s' has no key field", t.Name)
	}
	seen := map[string]bool{}
	for i := range t.Fields {
		def := &t.Fields[i]
		if def.Name == "" {
			return NewConfigErrorf("table '%s' has a field with no name", t.Name)
		}
		fn := foldName(def.Name)
		if fn == foldName(t.KeyField) {
			return NewConfigErrorf("table '%s' declares its key column '%s' as a field", t.Name, def.Name)
		}
		if seen[fn] {
			return NewConfigErrorf("table '%s' declares field '%s' twice", t.Name, def.Name)
		}
		seen[fn] = true
		if _, err := maxSizeChars(def.MaxSize); err != nil {
			return NewConfigErrorf("field '%s.%s' has invalid max size '%s'", t.Name, def.Name, def.MaxSize)
		}
		switch def.Kind {
		case KindText, KindLongText, KindBool:
		case KindRef:
			if def.RefTable == "" {
				return NewConfigErrorf("ref field '%s.%s' has no foreign table", t.Name, def.Name)
			}
		case KindChoice, KindRadio:
			if len(def.Options) == 0 && def.RefTable == "" {
				return NewConfigErrorf("choice field '%s.%s' has neither inline options nor a foreign table", t.Name, def.Name)
			}
			if len(def.Options) > 0 && def.RefTable != "" {
				return NewConfigErrorf("choice field '%s.%s' has both inline options and a foreign table", t.Name, def.Name)
			}
		default:
			return NewConfigErrorf("field '%s.%s' has unknown kind %d", t.Name, def.Name, def.Kind)
		}
	}
	return nil
}

// Schema is a registry of tables, so ref and table-backed choice fields can
// resolve the table they point at.
type Schema struct {
	tables map[string]*Table
	order  []string
}

// NewSchema creates an empty Schema.
func NewSchema() *Schema {
	return &Schema{
		tables: map[string]*Table{},
	}
}

// Add checks and registers a table. Foreign references are resolved later by
// Link, so tables can be added in any order.
func (s *Schema) Add(t *Table) error {
	if err := t.check(); err != nil {
		return err
	}
	fn := foldName(t.Name)
	if _, ok := s.tables[fn]; ok {
		return NewConfigErrorf("table '%s' registered twice", t.Name)
	}
	s.tables[fn] = t
	s.order = append(s.order, fn)
	return nil
}

// Table returns a registered table by name, case-insensitively.
func (s *Schema) Table(name string) (*Table, bool) {
	t, ok := s.tables[foldName(name)]
	return t, ok
}

// TableNames returns the registered table names in registration order.
func (s *Schema) TableNames() []string {
	names := make([]string, 0, len(s.order))
	for _, fn := range s.order {
		names = append(names, s.tables[fn].Name)
	}
	return names
}

// Link resolves every RefTable reference to its Table. It must be called
// after all tables were added, before any record is constructed.
func (s *Schema) Link() error {
	for _, t := range s.tables {
		for i := range t.Fields {
			def := &t.Fields[i]
			if def.RefTable == "" {
				continue
			}
			ref, ok := s.Table(def.RefTable)
			if !ok {
				return NewConfigErrorf("field '%s.%s' references unknown table '%s'", t.Name, def.Name, def.RefTable)
			}
			def.ref = ref
		}
	}
	return nil
}

func foldName(name string) string {
	return strings.ToLower(name)
}
