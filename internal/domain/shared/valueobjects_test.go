package shared

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUserID(t *testing.T) {
	id, err := NewUserID("  6F1C8A52-0000-4000-8000-000000000001 ")
	require.NoError(t, err)
	assert.Equal(t, UserID("6f1c8a52-0000-4000-8000-000000000001"), id)

	for _, bad := range []string{"", "42", "not-a-uuid", "6f1c8a52-0000-4000-8000"} {
		_, err := NewUserID(bad)
		assert.ErrorIs(t, err, ErrInvalidUserID, "input %q", bad)
	}
}

func TestNewUsername(t *testing.T) {
	name, err := NewUsername("Aidos_Bekov_007")
	require.NoError(t, err)
	assert.Equal(t, Username("aidos_bekov_007"), name)

	for _, bad := range []string{"", "ab", "7starts_with_digit", "has space"} {
		_, err := NewUsername(bad)
		assert.ErrorIs(t, err, ErrInvalidUsername, "input %q", bad)
	}
}

func TestNewEmail(t *testing.T) {
	email, err := NewEmail(" Dana.1@FitCircle.Test ")
	require.NoError(t, err)
	assert.Equal(t, Email("dana.1@fitcircle.test"), email)

	for _, bad := range []string{"", "dana", "dana@", "@fitcircle.test", "dana@nodot"} {
		_, err := NewEmail(bad)
		assert.ErrorIs(t, err, ErrInvalidEmail, "input %q", bad)
	}
}
