package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateUsername(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		username string
		wantErr  string
	}{
		{"Valid", "test_user123", ""},
		{"Exactly Min Length", "abc", ""},
		{"Exactly Max Length", strings.Repeat("a", 30), ""},
		{"Leading Underscore", "_alice", ""},
		{"Empty", "", "Username is required."},
		{"Too Short", "tu", "Username must be between 3 and 30 characters."},
		{"Too Long", strings.Repeat("a", 31), "Username must be between 3 and 30 characters."},
		{"Illegal At", "user@123", "Username may only contain letters, numbers, and underscores."},
		{"Hyphen", "user-name", "Username may only contain letters, numbers, and underscores."},
		{"Space", "user name", "Username may only contain letters, numbers, and underscores."},
		{"Unicode", "ålice", "Username may only contain letters, numbers, and underscores."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateUsername(tt.username)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.EqualError(t, err, tt.wantErr)
		})
	}
}

func TestValidateEmail(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		email   string
		wantErr string
	}{
		{"Valid", "alice@example.com", ""},
		{"Subdomain", "a@mail.example.org", ""},
		{"Empty", "", "Email is required."},
		{"No At", "alice.example.com", "Email is not valid."},
		{"At First", "@example.com", "Email is not valid."},
		{"No Dot After At", "alice@localhost", "Email is not valid."},
		{"Dot Only Before At", "al.ice@localhost", "Email is not valid."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateEmail(tt.email)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.EqualError(t, err, tt.wantErr)
		})
	}
}

func TestValidatePassword(t *testing.T) {
	t.Parallel()
	assert.NoError(t, ValidatePassword("secret"))
	assert.NoError(t, ValidatePassword("a much longer passphrase"))
	assert.EqualError(t, ValidatePassword(""), "Password is required.")
	assert.EqualError(t, ValidatePassword("12345"), "Password must be at least 6 characters.")
}

func TestStruct(t *testing.T) {
	t.Parallel()
	type commentRequest struct {
		Text string `json:"text" validate:"notblank,max=10"`
	}
	type profileRequest struct {
		DisplayName string `json:"displayName" validate:"omitempty,max=5"`
	}

	assert.NoError(t, Struct(commentRequest{Text: "hello"}))
	assert.EqualError(t, Struct(commentRequest{Text: "   "}), "Text is required.")
	assert.EqualError(t, Struct(commentRequest{Text: strings.Repeat("x", 11)}), "Text must be at most 10 characters.")
	assert.NoError(t, Struct(profileRequest{}))
	assert.EqualError(t, Struct(profileRequest{DisplayName: "too long"}), "DisplayName must be at most 5 characters.")

	type labelled struct {
		Text string `validate:"notblank" label:"Comment text"`
	}
	assert.EqualError(t, Struct(labelled{}), "Comment text is required.")
}
