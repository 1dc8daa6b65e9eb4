package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/browsim/internal/shared/id"
)

func TestValidateString(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		required bool
		wantErr  bool
	}{
		{"required missing", "", true, true},
		{"optional empty", "", false, false},
		{"ok", "abc", true, false},
		{"too long", strings.Repeat("a", 11), true, true},
		{"null byte", "a\x00b", true, true},
		{"invalid utf8", "\xff\xfe", true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateString(tt.value, "field", 1, 10, tt.required)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateInput(t *testing.T) {
	assert.NoError(t, ValidateInput(""))
	assert.NoError(t, ValidateInput("   "))
	assert.NoError(t, ValidateInput("hello world"))
	assert.NoError(t, ValidateInput(strings.Repeat("é", MaxInputLength)))
	assert.Error(t, ValidateInput(strings.Repeat("a", MaxInputLength+1)))
	assert.Error(t, ValidateInput("example.com\x00"))
}

func TestValidateTabID(t *testing.T) {
	valid := id.Default().NewTabID()

	got, err := ValidateTabID(valid.String())
	require.NoError(t, err)
	assert.Equal(t, valid, got)

	for _, raw := range []string{"", "tab_", "tab_nope", id.Default().NewEntryID().String(), "../" + valid.String()} {
		_, err := ValidateTabID(raw)
		assert.Error(t, err, raw)
	}
}

func TestValidateEntryID(t *testing.T) {
	valid := id.Default().NewEntryID()

	got, err := ValidateEntryID(valid.String())
	require.NoError(t, err)
	assert.Equal(t, valid, got)

	legacy, err := ValidateEntryID("1714557600000")
	require.NoError(t, err)
	assert.Equal(t, id.EntryID("1714557600000"), legacy)

	for _, raw := range []string{"", "hist\x00", strings.Repeat("1", MaxIDLength+1)} {
		_, err := ValidateEntryID(raw)
		assert.Error(t, err, raw)
	}
}

func TestValidateMessageSize(t *testing.T) {
	assert.NoError(t, ValidateMessageSize(make([]byte, MaxMessageSize)))
	assert.Error(t, ValidateMessageSize(make([]byte, MaxMessageSize+1)))
}
