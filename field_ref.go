package activerow

import (
	"context"
	"strings"
)

// RefField holds a foreign key into another table. Validation confirms that
// a row with that key exists there, not merely that the text is well-formed.
type RefField struct {
	TextField
}

var _ Field = (*RefField)(nil)

func (f *RefField) Validate(ctx context.Context, s Storage, errs *ErrorList) bool {
	ok := f.TextField.Validate(ctx, s, errs)
	if strings.TrimSpace(f.value) == "" {
		return ok
	}
	ref := f.def.ref
	if ref == nil {
		panic(NewConfigErrorf("ref field '%s' was not linked to table '%s'", f.def.Name, f.def.RefTable))
	}
	exists, err := s.Exists(ctx, ref, Key(f.value))
	if err != nil {
		errs.AddError(NewStorageError("exists", ref.Name, err))
		return false
	}
	if !exists {
		errs.Addf("%s references a missing %s row (%s)", f.def.label(), ref.Name, f.value)
		return false
	}
	return ok
}
