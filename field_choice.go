package activerow

import (
	"context"
	"fmt"
	"html"
	"strings"
)

// ChoiceField holds a value restricted to a live option set: either a fixed
// inline list of value/label pairs, or every key currently present in a
// referenced table, with labels taken from that table's display field.
// A declaration with neither (or both) is rejected by Table.check.
type ChoiceField struct {
	def   *FieldDef
	value string
}

var _ Field = (*ChoiceField)(nil)

func (f *ChoiceField) Name() string {
	return f.def.Name
}

func (f *ChoiceField) Def() *FieldDef {
	return f.def
}

func (f *ChoiceField) SetFromStorage(v any) error {
	f.value = asString(v)
	return nil
}

func (f *ChoiceField) SetFromInput(v any) error {
	f.value = strings.TrimSpace(asString(v))
	return nil
}

func (f *ChoiceField) StorageValue() any {
	return f.value
}

// Options resolves the live option set. Inline options need no storage
// access; a table-backed set queries every row of the referenced table.
func (f *ChoiceField) Options(ctx context.Context, s Storage) ([]Option, error) {
	if len(f.def.Options) > 0 {
		return f.def.Options, nil
	}
	ref := f.def.ref
	if ref == nil {
		panic(NewConfigErrorf("choice field '%s' has neither inline options nor a linked table", f.def.Name))
	}
	pq, err := s.SelectMultiple(ctx, ref, []string{ref.KeyField, ref.displayField()}, "", nil, []string{ref.displayField()})
	if err != nil {
		return nil, NewStorageError("select", ref.Name, err)
	}
	src, err := pq.Execute(ctx)
	if err != nil {
		return nil, NewStorageError("select", ref.Name, err)
	}
	defer src.Close()

	var ret []Option
	for {
		row, ok, err := src.Next(ctx)
		if err != nil {
			return nil, NewStorageError("fetch", ref.Name, err)
		}
		if !ok {
			break
		}
		ret = append(ret, Option{
			Value: asString(row[ref.KeyField]),
			Label: asString(row[ref.displayField()]),
		})
	}
	return ret, nil
}

// Label returns the label of the current value in the live option set, or
// the raw value when it is not (or cannot be) found.
func (f *ChoiceField) Label(ctx context.Context, s Storage) string {
	opts, err := f.Options(ctx, s)
	if err != nil {
		return f.value
	}
	for _, opt := range opts {
		if opt.Value == f.value {
			return opt.Label
		}
	}
	return f.value
}

// Plain renders the inline option label of the current value; table-backed
// fields render the raw value (use Label for a resolved rendering).
func (f *ChoiceField) Plain() string {
	for _, opt := range f.def.Options {
		if opt.Value == f.value {
			return opt.Label
		}
	}
	return f.value
}

func (f *ChoiceField) Markup() string {
	return html.EscapeString(f.Plain())
}

func (f *ChoiceField) Editable() string {
	return f.selectMarkup(f.def.Options)
}

// EditableOptions renders the form control against the live option set,
// resolving table-backed options from storage the same way validation does.
func (f *ChoiceField) EditableOptions(ctx context.Context, s Storage) (string, error) {
	opts, err := f.Options(ctx, s)
	if err != nil {
		return "", err
	}
	return f.selectMarkup(opts), nil
}

func (f *ChoiceField) selectMarkup(opts []Option) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<select name="%s">`, html.EscapeString(f.def.Name)))
	for _, opt := range opts {
		selected := ""
		if opt.Value == f.value {
			selected = " selected"
		}
		sb.WriteString(fmt.Sprintf(`<option value="%s"%s>%s</option>`,
			html.EscapeString(opt.Value), selected, html.EscapeString(opt.Label)))
	}
	sb.WriteString("</select>")
	return sb.String()
}

func (f *ChoiceField) Validate(ctx context.Context, s Storage, errs *ErrorList) bool {
	if f.value == "" {
		if f.def.Required {
			errs.Addf("%s is required", f.def.label())
			return false
		}
		return true
	}
	opts, err := f.Options(ctx, s)
	if err != nil {
		errs.AddError(err)
		return false
	}
	for _, opt := range opts {
		if opt.Value == f.value {
			return true
		}
	}
	errs.Addf("%s has an invalid value (%s)", f.def.label(), f.value)
	return false
}

// RadioField is a ChoiceField rendered as radio buttons. Option resolution
// and validation are shared; only the editable control differs.
type RadioField struct {
	ChoiceField
}

var _ Field = (*RadioField)(nil)

func (f *RadioField) Editable() string {
	return f.radioMarkup(f.def.Options)
}

// EditableOptions renders the radio buttons against the live option set.
func (f *RadioField) EditableOptions(ctx context.Context, s Storage) (string, error) {
	opts, err := f.Options(ctx, s)
	if err != nil {
		return "", err
	}
	return f.radioMarkup(opts), nil
}

func (f *RadioField) radioMarkup(opts []Option) string {
	var sb strings.Builder
	for _, opt := range opts {
		checked := ""
		if opt.Value == f.value {
			checked = " checked"
		}
		sb.WriteString(fmt.Sprintf(`<label><input type="radio" name="%s" value="%s"%s> %s</label>`,
			html.EscapeString(f.def.Name), html.EscapeString(opt.Value), checked, html.EscapeString(opt.Label)))
	}
	return sb.String()
}
