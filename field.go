package activerow

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Field is one typed value holder of a record. The variant set is closed:
// Text, LongText, Ref, Bool, Choice and Radio, all created through NewField.
//
// A field receives its value either from trusted storage (taken as-is) or
// from an untrusted interface (normalized and coerced first). Rendering is
// always an explicit method call; fields never stringify implicitly.
type Field interface {
	Name() string
	Def() *FieldDef

	// SetFromStorage sets the value as read from storage, without normalization.
	SetFromStorage(v any) error
	// SetFromInput sets the value from untrusted interface input, applying
	// the declaration's trim/crunch/case rules and coercion.
	SetFromInput(v any) error

	// StorageValue returns the value serialized for storage.
	StorageValue() any
	// Plain returns the display rendering as plain text.
	Plain() string
	// Markup returns the display rendering as HTML.
	Markup() string
	// Editable returns an HTML form control carrying the current value.
	Editable() string

	// Validate runs the variant's business rules, adding every violation to
	// errs. It returns true when the value is valid.
	Validate(ctx context.Context, s Storage, errs *ErrorList) bool
}

// NewField creates the Field variant declared by def. An unknown kind is a
// configuration error.
func NewField(def *FieldDef) (Field, error) {
	switch def.Kind {
	case KindText:
		return &TextField{def: def}, nil
	case KindLongText:
		return &LongTextField{TextField{def: def}}, nil
	case KindRef:
		return &RefField{TextField{def: def}}, nil
	case KindBool:
		return &BoolField{def: def}, nil
	case KindChoice:
		return &ChoiceField{def: def}, nil
	case KindRadio:
		return &RadioField{ChoiceField{def: def}}, nil
	}
	return nil, NewConfigErrorf("field '%s' has unknown kind %d", def.Name, def.Kind)
}

var crunchRE = regexp.MustCompile(`\s+`)

// normalizeInput applies the declaration's interface-input rules: trim,
// optional whitespace crunching, case folding.
func normalizeInput(def *FieldDef, s string) string {
	s = strings.TrimSpace(s)
	if def.Crunch {
		s = crunchRE.ReplaceAllString(s, " ")
	}
	switch def.Case {
	case CaseUpper:
		s = strings.ToUpper(s)
	case CaseLower:
		s = strings.ToLower(s)
	case CaseTitle:
		s = cases.Title(language.Und).String(s)
	}
	return s
}

// maxSizeChars translates a max size declaration to a character count.
// Supports "k" (1024) and "m" (1024*1024) suffixes; "" means unlimited (0).
func maxSizeChars(spec string) (int, error) {
	spec = strings.TrimSpace(strings.ToLower(spec))
	if spec == "" {
		return 0, nil
	}
	mult := 1
	switch {
	case strings.HasSuffix(spec, "k"):
		mult = 1024
		spec = strings.TrimSuffix(spec, "k")
	case strings.HasSuffix(spec, "m"):
		mult = 1024 * 1024
		spec = strings.TrimSuffix(spec, "m")
	}
	n, err := strconv.Atoi(strings.TrimSpace(spec))
	if err != nil || n < 0 {
		return 0, NewConfigErrorf("invalid max size '%s'", spec)
	}
	return n * mult, nil
}

// asString renders a raw storage or interface value as a string, with nil
// becoming the empty string.
func asString(v any) string {
	if v == nil {
		return ""
	}
	switch s := v.(type) {
	case string:
		return s
	case []byte:
		return string(s)
	}
	return fmt.Sprint(v)
}
