package activerow

import (
	"slices"
)

// FieldSet is the dirty-tracking, case-insensitive mapping from field name to
// Field owned by one Record. Every field read and write goes through it; it
// records which names changed since construction or the last Reset, and
// whether the record was validated since the last write.
//
// Invariants: every dirty name has a cached field; a set constructed from a
// full storage row has an empty dirty set; a set constructed for a new record
// has every declared field pre-marked dirty.
type FieldSet struct {
	cache     map[string]Field
	dirty     map[string]struct{}
	validated bool
}

// NewFieldSet creates an empty FieldSet.
func NewFieldSet() *FieldSet {
	return &FieldSet{
		cache: map[string]Field{},
		dirty: map[string]struct{}{},
	}
}

// Get returns the cached field, if present. It never triggers a storage
// call; loading is the Record's job.
func (fs *FieldSet) Get(name string) (Field, bool) {
	f, ok := fs.cache[foldName(name)]
	return f, ok
}

// SetField caches a Field object. When fromStorage is set the value is
// trusted and the name is dropped from the dirty set; otherwise the name is
// marked dirty and the validated flag is cleared.
func (fs *FieldSet) SetField(f Field, fromStorage bool) {
	fn := foldName(f.Name())
	fs.cache[fn] = f
	if fromStorage {
		delete(fs.dirty, fn)
		return
	}
	fs.dirty[fn] = struct{}{}
	fs.validated = false
}

// Set routes a raw value through the cached field's untrusted-interface
// setter and marks the name dirty. The name must already be cached; an
// unknown name is a programming defect, reported as ErrUnknownField.
func (fs *FieldSet) Set(name string, value any) error {
	f, ok := fs.cache[foldName(name)]
	if !ok {
		return NewConfigErrorf("%v: '%s'", ErrUnknownField, name)
	}
	if err := f.SetFromInput(value); err != nil {
		return err
	}
	fs.dirty[foldName(name)] = struct{}{}
	fs.validated = false
	return nil
}

// Delete stops tracking a field, removing it from both cache and dirty set.
// It never touches storage.
func (fs *FieldSet) Delete(name string) {
	fn := foldName(name)
	delete(fs.cache, fn)
	delete(fs.dirty, fn)
}

// Exists reports whether the name is cached.
func (fs *FieldSet) Exists(name string) bool {
	_, ok := fs.cache[foldName(name)]
	return ok
}

// Clear drops every cached field and the whole dirty set.
func (fs *FieldSet) Clear() {
	fs.cache = map[string]Field{}
	fs.dirty = map[string]struct{}{}
}

// Len returns the number of cached fields.
func (fs *FieldSet) Len() int {
	return len(fs.cache)
}

// All iterates all cached fields in sorted name order.
func (fs *FieldSet) All(yield func(name string, f Field) bool) {
	names := make([]string, 0, len(fs.cache))
	for fn := range fs.cache {
		names = append(names, fn)
	}
	slices.Sort(names)
	for _, fn := range names {
		if !yield(fs.cache[fn].Name(), fs.cache[fn]) {
			return
		}
	}
}

// Changed returns the declared names of all dirty fields, sorted.
func (fs *FieldSet) Changed() []string {
	var ret []string
	for fn := range fs.dirty {
		ret = append(ret, fs.cache[fn].Name())
	}
	slices.Sort(ret)
	return ret
}

// Reset clears the dirty set and marks the set validated, without altering
// any field value. Called after a successful save to mark the in-memory copy
// consistent with storage.
func (fs *FieldSet) Reset() {
	fs.dirty = map[string]struct{}{}
	fs.validated = true
}

// Validated reports whether no field was written since the last successful
// full validation.
func (fs *FieldSet) Validated() bool {
	return fs.validated
}

func (fs *FieldSet) setValidated(v bool) {
	fs.validated = v
}
