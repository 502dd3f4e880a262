package activerow

import (
	"fmt"
	"html"
	"strings"
)

// ErrorEntry is one accumulated error message, with a plain-text and an HTML
// rendering. At least one of the two is always set; Add derives the missing
// rendering from the other.
type ErrorEntry struct {
	Plain  string
	Markup string
}

// ErrorList is an ordered accumulator of recoverable error messages.
// Unit-of-work operations (Validate, Save, Delete, SetFields, Query) reset
// the list they receive before doing any work; error-reporting calls
// themselves never clear it.
type ErrorList struct {
	entries []ErrorEntry
}

// NewErrorList creates an empty ErrorList.
func NewErrorList() *ErrorList {
	return &ErrorList{}
}

// Add appends an entry. An empty markup is derived from plain by HTML
// escaping, and vice versa by using markup verbatim. Adding an entry with
// both renderings empty is a no-op.
func (l *ErrorList) Add(plain string, markup string) {
	if plain == "" && markup == "" {
		return
	}
	if markup == "" {
		markup = html.EscapeString(plain)
	}
	if plain == "" {
		plain = markup
	}
	l.entries = append(l.entries, ErrorEntry{Plain: plain, Markup: markup})
}

// Addf appends a plain-text entry built with fmt formatting.
func (l *ErrorList) Addf(format string, args ...any) {
	l.Add(fmt.Sprintf(format, args...), "")
}

// AddError appends the error's text as a plain entry.
func (l *ErrorList) AddError(err error) {
	if err == nil {
		return
	}
	l.Add(err.Error(), "")
}

// Reset discards all accumulated entries.
func (l *ErrorList) Reset() {
	l.entries = nil
}

// Len returns the number of accumulated entries.
func (l *ErrorList) Len() int {
	return len(l.entries)
}

// HasErrors reports whether any entry was accumulated.
func (l *ErrorList) HasErrors() bool {
	return len(l.entries) > 0
}

// Entries returns the accumulated entries in insertion order.
func (l *ErrorList) Entries() []ErrorEntry {
	return l.entries
}

// Plain renders all entries as newline-separated plain text.
func (l *ErrorList) Plain() string {
	var sb strings.Builder
	for i, e := range l.entries {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(e.Plain)
	}
	return sb.String()
}

// Markup renders all entries as an HTML unordered list.
func (l *ErrorList) Markup() string {
	if len(l.entries) == 0 {
		return ""
	}
	var sb strings.Builder
	sb.WriteString("<ul>")
	for _, e := range l.entries {
		sb.WriteString("<li>")
		sb.WriteString(e.Markup)
		sb.WriteString("</li>")
	}
	sb.WriteString("</ul>")
	return sb.String()
}
