package activerow

import (
	"testing"

	"gotest.tools/v3/assert"
)

func TestKeyIsNew(t *testing.T) {
	tests := []struct {
		key   Key
		isNew bool
	}{
		{"", true},
		{"   ", true},
		{"-1", true},
		{"-42.5", true},
		{" -7 ", true},
		{"0", false},
		{"1", false},
		{"42", false},
		{"a1b2c3", false},
		{"00042", false},
	}
	for _, tt := range tests {
		t.Run(string(tt.key), func(t *testing.T) {
			assert.Equal(t, tt.isNew, tt.key.IsNew())
		})
	}
}
