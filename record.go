package activerow

import (
	"context"
	"slices"

	"github.com/google/uuid"
)

// WildcardFields is the FromInput field-name entry meaning "all declared fields".
const WildcardFields = "*"

// Record is the in-memory representation of one table row. It owns its key
// (or the "not yet assigned" marker), a FieldSet, and a reference to the
// Storage collaborator it loads from and saves to. Records are not safe for
// concurrent mutation.
type Record struct {
	table      *Table
	storage    Storage
	key        Key
	fields     *FieldSet
	internalID uuid.UUID
}

// New creates a new, unsaved record. Every declared field is populated with
// its default value (applied as untrusted interface input) and pre-marked
// dirty: a brand-new record is fully changed by definition.
func New(table *Table, storage Storage) (*Record, error) {
	r := &Record{
		table:      table,
		storage:    storage,
		fields:     NewFieldSet(),
		internalID: uuid.New(),
	}
	for i := range table.Fields {
		def := &table.Fields[i]
		f, err := NewField(def)
		if err != nil {
			return nil, err
		}
		if def.Default != nil {
			if err := f.SetFromInput(def.Default); err != nil {
				return nil, err
			}
		}
		r.fields.SetField(f, false)
	}
	return r, nil
}

// Open loads an existing record by key. A key in the "new" range is accepted
// and yields a new record (see New); otherwise, when fieldNames are given
// they are loaded immediately and a missing row fails construction with
// ErrNotFound.
func Open(ctx context.Context, table *Table, storage Storage, key Key, fieldNames ...string) (*Record, error) {
	if key.IsNew() {
		return New(table, storage)
	}
	r := &Record{
		table:      table,
		storage:    storage,
		key:        key,
		fields:     NewFieldSet(),
		internalID: uuid.New(),
	}
	if len(fieldNames) > 0 {
		errs := NewErrorList()
		if !r.SetFields(ctx, errs, fieldNames...) {
			return nil, ErrNotFound
		}
	}
	return r, nil
}

// FromRow builds a record from a row-shaped bundle of column values, as
// produced by a query cursor. Values are trusted storage values, except that
// write-once columns of an existing record are always re-fetched from
// storage: a partial bundle may omit or misstate them, and they must never
// come from anywhere else after creation.
func FromRow(ctx context.Context, table *Table, storage Storage, row map[string]any) (*Record, error) {
	keyValue, _ := lookupFold(row, table.KeyField)
	r := &Record{
		table:      table,
		storage:    storage,
		key:        Key(asString(keyValue)),
		fields:     NewFieldSet(),
		internalID: uuid.New(),
	}
	var writeOnce []string
	for name, value := range row {
		if foldName(name) == foldName(table.KeyField) {
			continue
		}
		def, ok := table.FieldDef(name)
		if !ok {
			// bundles may carry extra columns, e.g. from joins
			continue
		}
		if def.WriteOnce && !r.key.IsNew() {
			continue
		}
		f, err := NewField(def)
		if err != nil {
			return nil, err
		}
		if err := f.SetFromStorage(value); err != nil {
			return nil, err
		}
		r.fields.SetField(f, true)
	}
	if !r.key.IsNew() {
		for i := range table.Fields {
			if table.Fields[i].WriteOnce {
				writeOnce = append(writeOnce, table.Fields[i].Name)
			}
		}
		if len(writeOnce) > 0 {
			errs := NewErrorList()
			if !r.SetFields(ctx, errs, writeOnce...) {
				return nil, NewStorageError("select", table.Name, ErrNotFound)
			}
		}
	}
	return r, nil
}

// FromInput builds a record from an untrusted external bundle, typically a
// submitted form. The gate is open only when the form was submitted and not
// cancelled; with the gate closed, only the key is extracted. With the gate
// open, exactly the enumerated field names (or all declared fields for the
// WildcardFields entry) are read from the bundle with interface semantics;
// everything else stays unpopulated until explicitly loaded.
func FromInput(table *Table, storage Storage, input map[string]any, submitted bool, cancelled bool, fieldNames ...string) (*Record, error) {
	r := &Record{
		table:      table,
		storage:    storage,
		fields:     NewFieldSet(),
		internalID: uuid.New(),
	}
	for name, value := range input {
		if foldName(name) == foldName(table.KeyField) {
			r.key = Key(asString(value))
			break
		}
	}
	if !submitted || cancelled {
		return r, nil
	}
	if slices.Contains(fieldNames, WildcardFields) {
		fieldNames = table.FieldNames()
	}
	for _, name := range fieldNames {
		def, ok := table.FieldDef(name)
		if !ok {
			return nil, NewConfigErrorf("%v: '%s' in table '%s'", ErrUnknownField, name, table.Name)
		}
		value, ok := lookupFold(input, name)
		if !ok {
			continue
		}
		f, err := NewField(def)
		if err != nil {
			return nil, err
		}
		if err := f.SetFromInput(value); err != nil {
			return nil, err
		}
		r.fields.SetField(f, false)
	}
	return r, nil
}

// Table returns the record's table descriptor.
func (r *Record) Table() *Table {
	return r.table
}

// Storage returns the record's storage collaborator.
func (r *Record) Storage() Storage {
	return r.storage
}

// Key returns the primary key, which is blank until the first save.
func (r *Record) Key() Key {
	return r.key
}

// InternalID identifies this in-memory record instance, independent of its key.
func (r *Record) InternalID() uuid.UUID {
	return r.internalID
}

// IsNew reports whether the record was never persisted.
func (r *Record) IsNew() bool {
	return r.key.IsNew()
}

// Fields returns the record's field container.
func (r *Record) Fields() *FieldSet {
	return r.fields
}

// Field returns one cached field by name.
func (r *Record) Field(name string) (Field, bool) {
	return r.fields.Get(name)
}

// Set routes a raw interface value to the named field, marking it dirty.
func (r *Record) Set(name string, value any) error {
	return r.fields.Set(name, value)
}

// Display returns the plain rendering of the table's display field.
func (r *Record) Display() string {
	if f, ok := r.fields.Get(r.table.displayField()); ok {
		return f.Plain()
	}
	return r.key.String()
}

// SetFields loads the named fields (default: all declared) from storage by
// key, merging them into the field container as trusted values. The key
// column is always part of the request. Fails when the record has no key or
// the row is gone; asking for a name outside the table declaration is a
// programming defect and panics.
func (r *Record) SetFields(ctx context.Context, errs *ErrorList, names ...string) bool {
	if errs == nil {
		errs = NewErrorList()
	}
	errs.Reset()
	if r.key.IsNew() {
		errs.Addf("cannot load fields of a record with no key (table '%s')", r.table.Name)
		return false
	}
	if len(names) == 0 {
		names = r.table.FieldNames()
	}
	row, err := r.storage.SelectSingle(ctx, r.table, r.key, withKeyField(r.table, names))
	if err != nil {
		errs.AddError(NewStorageError("select", r.table.Name, err))
		return false
	}
	for _, name := range names {
		def, ok := r.table.FieldDef(name)
		if !ok {
			panic(NewConfigErrorf("%v: '%s' in table '%s'", ErrUnknownField, name, r.table.Name))
		}
		value, ok := lookupFold(row, name)
		if !ok {
			continue
		}
		f, err := NewField(def)
		if err != nil {
			panic(err)
		}
		if err := f.SetFromStorage(value); err != nil {
			errs.AddError(err)
			return false
		}
		r.fields.SetField(f, true)
	}
	return true
}

// Validate short-circuits to success when nothing changed since the last
// successful validation. Otherwise it validates exactly the dirty fields,
// collecting every violation rather than stopping at the first, and then
// runs the record-level check when the field phase passed or the table opts
// into always running it.
func (r *Record) Validate(ctx context.Context, errs *ErrorList) bool {
	if errs == nil {
		errs = NewErrorList()
	}
	errs.Reset()
	return r.validate(ctx, errs)
}

func (r *Record) validate(ctx context.Context, errs *ErrorList) bool {
	if r.fields.Validated() {
		return true
	}
	fieldsOK := true
	for _, name := range r.fields.Changed() {
		f, _ := r.fields.Get(name)
		if !f.Validate(ctx, r.storage, errs) {
			fieldsOK = false
		}
	}
	recordOK := true
	if fieldsOK || r.table.AlwaysCheckRecord {
		if r.table.CheckRecord != nil {
			recordOK = r.table.CheckRecord(ctx, r, errs)
		}
	}
	ok := fieldsOK && recordOK
	if ok {
		r.fields.setValidated(true)
	}
	return ok
}

// Save dispatches the dirty fields to storage, as an insert for a new record
// or an update for an existing one. An empty dirty set (after dropping
// write-once columns on update) succeeds without touching storage. A failed
// validation or a pre-hook veto aborts with the dirty state untouched, so a
// corrected retry is possible. After a successful save the dirty set is
// empty and the record counts as validated.
func (r *Record) Save(ctx context.Context, errs *ErrorList) bool {
	if errs == nil {
		errs = NewErrorList()
	}
	errs.Reset()

	names := r.fields.Changed()
	if len(names) == 0 {
		return true
	}
	if !r.IsNew() {
		names = slices.DeleteFunc(names, func(name string) bool {
			def, ok := r.table.FieldDef(name)
			return ok && def.WriteOnce
		})
		if len(names) == 0 {
			return true
		}
	}

	if !r.validate(ctx, errs) {
		return false
	}

	values := make([]any, len(names))
	for i, name := range names {
		f, _ := r.fields.Get(name)
		values[i] = f.StorageValue()
	}

	if r.IsNew() {
		if r.table.Hooks.PreInsert != nil && !r.table.Hooks.PreInsert(ctx, r, errs) {
			return false
		}
		key, err := r.storage.Insert(ctx, r.table, names, values)
		if err != nil {
			errs.AddError(NewStorageError("insert", r.table.Name, err))
			return false
		}
		if key.IsNew() {
			errs.Addf("insert into '%s' returned no key", r.table.Name)
			return false
		}
		r.key = key
		if r.table.Hooks.PostInsert != nil {
			r.table.Hooks.PostInsert(ctx, r, errs)
		}
	} else {
		if r.table.Hooks.PreUpdate != nil && !r.table.Hooks.PreUpdate(ctx, r, errs) {
			return false
		}
		if err := r.storage.Update(ctx, r.table, r.key, names, values); err != nil {
			errs.AddError(NewStorageError("update", r.table.Name, err))
			return false
		}
		if r.table.Hooks.PostUpdate != nil {
			r.table.Hooks.PostUpdate(ctx, r, errs)
		}
	}

	r.fields.Reset()
	return true
}

// Delete removes the record's row. Deleting a new record is an error:
// there is nothing to delete. Deletion is immediate and irreversible.
func (r *Record) Delete(ctx context.Context, errs *ErrorList) bool {
	if errs == nil {
		errs = NewErrorList()
	}
	errs.Reset()
	if r.IsNew() {
		errs.AddError(ErrRecordIsNew)
		return false
	}
	if r.table.Hooks.PreDelete != nil && !r.table.Hooks.PreDelete(ctx, r, errs) {
		return false
	}
	if err := r.storage.Delete(ctx, r.table, r.key); err != nil {
		errs.AddError(NewStorageError("delete", r.table.Name, err))
		return false
	}
	if r.table.Hooks.PostDelete != nil {
		r.table.Hooks.PostDelete(ctx, r, errs)
	}
	return true
}

// Exists reports whether the record's row exists in storage. A new record
// does not exist, without a round trip.
func (r *Record) Exists(ctx context.Context) (bool, error) {
	if r.IsNew() {
		return false, nil
	}
	return r.storage.Exists(ctx, r.table, r.key)
}

// Children returns a cursor over the rows of a child table whose refField
// matches this record's key, for one-to-many navigation.
func (r *Record) Children(ctx context.Context, child *Table, refField string, options ...QueryOption) (*Cursor, error) {
	if r.IsNew() {
		return nil, ErrRecordIsNew
	}
	options = append(options, WithWhere(refField+" = ?", r.key.String()))
	return Query(ctx, child, r.storage, options...)
}

func withKeyField(table *Table, names []string) []string {
	for _, name := range names {
		if foldName(name) == foldName(table.KeyField) {
			return names
		}
	}
	return append(append([]string{}, names...), table.KeyField)
}

func lookupFold(m map[string]any, name string) (any, bool) {
	if v, ok := m[name]; ok {
		return v, true
	}
	fn := foldName(name)
	for k, v := range m {
		if foldName(k) == fn {
			return v, true
		}
	}
	return nil, false
}
