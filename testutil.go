package activerow

import (
	"errors"
	"testing"

	"gotest.tools/v3/assert"
)

// AssertChanged asserts the exact dirty field names of a FieldSet.
func AssertChanged(t *testing.T, fs *FieldSet, names ...string) {
	t.Helper()
	if names == nil {
		names = []string{}
	}
	changed := fs.Changed()
	if changed == nil {
		changed = []string{}
	}
	assert.DeepEqual(t, names, changed)
}

// AssertNoErrors asserts that an ErrorList is empty, reporting its plain
// rendering otherwise.
func AssertNoErrors(t *testing.T, errs *ErrorList) {
	t.Helper()
	assert.Assert(t, !errs.HasErrors(), "unexpected errors: %s", errs.Plain())
}

// AssertIsConfigError asserts that the error is a ConfigError.
func AssertIsConfigError(t *testing.T, err error) {
	t.Helper()
	var ce *ConfigError
	ok := errors.As(err, &ce)
	assert.Assert(t, ok, "expected ConfigError, got %T (%v)", err, err)
}
