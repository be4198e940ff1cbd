package validate

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignupValid(t *testing.T) {
	input, msgs := Signup("  alice99 ", " A@X.com ", "secret1", "secret1")
	require.Empty(t, msgs)
	assert.Equal(t, "alice99", input.Username)
	assert.Equal(t, "a@x.com", input.Email)
	assert.Equal(t, "secret1", input.Password)
}

func TestSignupRejections(t *testing.T) {
	tests := []struct {
		name     string
		username string
		email    string
		password string
		confirm  string
		wantMsg  string
	}{
		{"empty username", "", "a@x.com", "secret1", "secret1", "username is required"},
		{"short username", "ab", "a@x.com", "secret1", "secret1", "between 3 and 30"},
		{"long username", strings.Repeat("a", 31), "a@x.com", "secret1", "secret1", "between 3 and 30"},
		{"bad username chars", "alice!", "a@x.com", "secret1", "secret1", "letters, numbers and underscores"},
		{"bad email", "alice99", "not-an-email", "secret1", "secret1", "valid email"},
		{"short password", "alice99", "a@x.com", "12345", "12345", "at least 6 characters"},
		{"mismatched confirm", "alice99", "a@x.com", "secret1", "secret2", "passwords do not match"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, msgs := Signup(tt.username, tt.email, tt.password, tt.confirm)
			require.NotEmpty(t, msgs)
			assert.Contains(t, strings.Join(msgs, "; "), tt.wantMsg)
		})
	}
}

func TestSignupCollectsAllFieldErrors(t *testing.T) {
	_, msgs := Signup("", "", "", "x")
	require.Len(t, msgs, 4)
	assert.Equal(t, "username is required", msgs[0])
	assert.Equal(t, "email is required", msgs[1])
	assert.Equal(t, "password is required", msgs[2])
	assert.Equal(t, "passwords do not match", msgs[3])
}

func TestSignupShortCircuitsPerField(t *testing.T) {
	// an empty username fails once, not once per username rule
	_, msgs := Signup("", "a@x.com", "secret1", "secret1")
	require.Len(t, msgs, 1)
}

func TestLoginPresenceOnly(t *testing.T) {
	input, msgs := Login(" A@X.com ", "whatever")
	require.Empty(t, msgs)
	assert.Equal(t, "a@x.com", input.Email)
	assert.Equal(t, "whatever", input.Password)

	// no shape check beyond presence
	_, msgs = Login("not-an-email", "x")
	assert.Empty(t, msgs)

	_, msgs = Login("", "")
	require.Len(t, msgs, 2)
	assert.Equal(t, "email is required", msgs[0])
	assert.Equal(t, "password is required", msgs[1])
}
