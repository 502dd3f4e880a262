package activerow

import (
	"context"
	"fmt"
	"html"
	"strconv"
	"strings"
)

// BoolField is a yes/no value stored as 0 or 1. Interface input goes through
// a configurable word table with a generic truthiness fallback; display uses
// a separate serialization (labels or images).
type BoolField struct {
	def   *FieldDef
	value int
}

var _ Field = (*BoolField)(nil)

func (f *BoolField) Name() string {
	return f.def.Name
}

func (f *BoolField) Def() *FieldDef {
	return f.def
}

func (f *BoolField) SetFromStorage(v any) error {
	switch b := v.(type) {
	case nil:
		f.value = 0
	case bool:
		f.value = boolInt(b)
	case int:
		f.value = boolInt(b != 0)
	case int32:
		f.value = boolInt(b != 0)
	case int64:
		f.value = boolInt(b != 0)
	case float64:
		f.value = boolInt(b != 0)
	default:
		n, err := strconv.Atoi(strings.TrimSpace(asString(v)))
		if err != nil {
			return fmt.Errorf("invalid stored bool value '%v' for field %s", v, f.def.Name)
		}
		f.value = boolInt(n != 0)
	}
	return nil
}

func (f *BoolField) SetFromInput(v any) error {
	if b, ok := v.(bool); ok {
		f.value = boolInt(b)
		return nil
	}
	s := strings.ToLower(strings.TrimSpace(asString(v)))
	s = crunchRE.ReplaceAllString(s, " ")
	words := f.def.Words
	if words == nil {
		words = DefaultBoolWords()
	}
	if val, ok := lookupBoolWord(words, s); ok {
		f.value = boolInt(val != 0)
		return nil
	}
	// generic truthiness fallback
	if s == "" {
		f.value = 0
		return nil
	}
	if n, err := strconv.ParseFloat(s, 64); err == nil {
		f.value = boolInt(n != 0)
		return nil
	}
	f.value = 1
	return nil
}

func (f *BoolField) StorageValue() any {
	return f.value
}

// Bool returns the value as a Go bool.
func (f *BoolField) Bool() bool {
	return f.value != 0
}

func (f *BoolField) Plain() string {
	if f.value != 0 {
		if f.def.TrueLabel != "" {
			return f.def.TrueLabel
		}
		return "Yes"
	}
	if f.def.FalseLabel != "" {
		return f.def.FalseLabel
	}
	return "No"
}

func (f *BoolField) Markup() string {
	img := f.def.FalseImage
	if f.value != 0 {
		img = f.def.TrueImage
	}
	if img != "" {
		return fmt.Sprintf(`<img src="%s" alt="%s">`, html.EscapeString(img), html.EscapeString(f.Plain()))
	}
	return html.EscapeString(f.Plain())
}

func (f *BoolField) Editable() string {
	checked := ""
	if f.value != 0 {
		checked = " checked"
	}
	return fmt.Sprintf(`<input type="checkbox" name="%s" value="1"%s>`,
		html.EscapeString(f.def.Name), checked)
}

func (f *BoolField) Validate(ctx context.Context, s Storage, errs *ErrorList) bool {
	if f.def.Required && f.value == 0 {
		errs.Addf("%s must be set", f.def.label())
		return false
	}
	return true
}

// lookupBoolWord matches a normalized input against the word table, folding
// declared keys the same way the input was folded.
func lookupBoolWord(words BoolWords, s string) (int, bool) {
	if v, ok := words[s]; ok {
		return v, true
	}
	for k, v := range words {
		if strings.ToLower(strings.TrimSpace(k)) == s {
			return v, true
		}
	}
	return 0, false
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
