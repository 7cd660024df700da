package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"empty", "", true},
		{"one char", "J", true},
		{"two chars", "Jo", false},
		{"multibyte two runes", "太郎", false},
		{"multibyte one rune", "太", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateName(tt.input)
			if tt.wantErr {
				var ve *ValidationError
				assert.ErrorAs(t, err, &ve)
				assert.Equal(t, "name", ve.Field)
				assert.Equal(t, MsgNameTooShort, ve.Message)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		input string
		valid bool
	}{
		{"jo@x.com", true},
		{"first.last+tag@sub.example.co.jp", true},
		{"", false},
		{"bad-email", false},
		{"jo@", false},
		{"@x.com", false},
		{"jo@localhost", false},
		{"jo@x.", false},
		{"Jo <jo@x.com>", false},
		{"jo @x.com", false},
		{"jo@x.com\n", false},
		{"a@b.co", true},
		{"a@b.c", false},
		{"jo@[1.2.3.4]", false},
		{"jo@1.2.3.4", false},
		{"jo@x.c0m", false},
		{"jo@x..com", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			err := ValidateEmail(tt.input)
			if tt.valid {
				assert.NoError(t, err)
				return
			}
			var ve *ValidationError
			assert.ErrorAs(t, err, &ve)
			assert.Equal(t, MsgInvalidEmail, ve.Message)
		})
	}
}

func TestValidateMessage(t *testing.T) {
	assert.Error(t, ValidateMessage(""))
	assert.Error(t, ValidateMessage("short"))
	assert.Error(t, ValidateMessage("123456789"))
	assert.NoError(t, ValidateMessage("1234567890"))
	assert.NoError(t, ValidateMessage("Hello there, testing."))
}
