package activerow

import (
	"strconv"
	"strings"
)

// Key is a record primary key. An empty or blank key, or one that parses as
// a negative number, marks a record as new and not yet persisted; legitimate
// keys are therefore never negative. Once assigned after an insert, a
// record's key never changes.
type Key string

// IsNew reports whether the key denotes a record that was never persisted.
func (k Key) IsNew() bool {
	s := strings.TrimSpace(string(k))
	if s == "" {
		return true
	}
	if n, err := strconv.ParseFloat(s, 64); err == nil && n < 0 {
		return true
	}
	return false
}

func (k Key) String() string {
	return string(k)
}
