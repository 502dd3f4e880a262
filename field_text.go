package activerow

import (
	"context"
	"fmt"
	"html"
	"strings"
	"unicode/utf8"
)

// TextField is a short text value with trim/crunch/case normalization on
// interface input and required/max-size validation.
type TextField struct {
	def   *FieldDef
	value string
}

var _ Field = (*TextField)(nil)

func (f *TextField) Name() string {
	return f.def.Name
}

func (f *TextField) Def() *FieldDef {
	return f.def
}

func (f *TextField) SetFromStorage(v any) error {
	f.value = asString(v)
	return nil
}

func (f *TextField) SetFromInput(v any) error {
	f.value = normalizeInput(f.def, asString(v))
	return nil
}

func (f *TextField) StorageValue() any {
	return f.value
}

func (f *TextField) Plain() string {
	return f.value
}

func (f *TextField) Markup() string {
	return html.EscapeString(f.value)
}

func (f *TextField) Editable() string {
	attrs := ""
	if max, err := maxSizeChars(f.def.MaxSize); err == nil && max > 0 {
		attrs = fmt.Sprintf(` maxlength="%d"`, max)
	}
	return fmt.Sprintf(`<input type="text" name="%s" value="%s"%s>`,
		html.EscapeString(f.def.Name), html.EscapeString(f.value), attrs)
}

func (f *TextField) Validate(ctx context.Context, s Storage, errs *ErrorList) bool {
	ok := true
	if f.def.Required && strings.TrimSpace(f.value) == "" {
		errs.Addf("%s is required", f.def.label())
		ok = false
	}
	max, err := maxSizeChars(f.def.MaxSize)
	if err != nil {
		// Table.check rejects bad declarations before any field is built
		panic(err)
	}
	if max > 0 && utf8.RuneCountInString(f.value) > max {
		errs.Addf("%s must be at most %d characters", f.def.label(), max)
		ok = false
	}
	return ok
}

// LongTextField is a TextField whose HTML rendering wraps blank-line
// delimited paragraphs in block markup.
type LongTextField struct {
	TextField
}

var _ Field = (*LongTextField)(nil)

func (f *LongTextField) Markup() string {
	var sb strings.Builder
	for _, para := range splitParagraphs(f.value) {
		sb.WriteString("<p>")
		sb.WriteString(html.EscapeString(para))
		sb.WriteString("</p>")
	}
	return sb.String()
}

func (f *LongTextField) Editable() string {
	return fmt.Sprintf(`<textarea name="%s">%s</textarea>`,
		html.EscapeString(f.def.Name), html.EscapeString(f.value))
}

func splitParagraphs(s string) []string {
	var ret []string
	for _, para := range strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n\n") {
		para = strings.TrimSpace(para)
		if para != "" {
			ret = append(ret, para)
		}
	}
	return ret
}
