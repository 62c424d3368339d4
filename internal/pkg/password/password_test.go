package password

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerify(t *testing.T) {
	t.Parallel()

	hash, err := Hash("SuperSecret123")
	require.NoError(t, err)
	require.NotEmpty(t, hash)

	// A bcrypt hash never echoes the plaintext
	assert.NotContains(t, hash, "SuperSecret123")

	assert.True(t, Verify("SuperSecret123", hash))
	assert.False(t, Verify("supersecret123", hash))
	assert.False(t, Verify("", hash))
}

func TestHash_DistinctSalts(t *testing.T) {
	t.Parallel()

	first, err := Hash("SuperSecret123")
	require.NoError(t, err)
	second, err := Hash("SuperSecret123")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestValidatePassword(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		password string
		want     bool
	}{
		{name: "valid", password: "longenough", want: true},
		{name: "exactly minimum", password: "12345678", want: true},
		{name: "too short", password: "1234567", want: false},
		{name: "empty", password: "", want: false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, ValidatePassword(tt.password))
		})
	}
}
