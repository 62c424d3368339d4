package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCodec(ttl time.Duration) *Codec {
	return NewCodec(Config{
		Secret: []byte("test-signing-secret"),
		TTL:    ttl,
	})
}

func TestCodec_MintVerify_RoundTrip(t *testing.T) {
	t.Parallel()

	codec := newTestCodec(15 * time.Minute)

	token, err := codec.Mint("maria")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := codec.Verify(token)
	require.NoError(t, err)

	assert.Equal(t, "maria", claims.Username())
	require.NotNil(t, claims.ExpiresAt)
	assert.WithinDuration(t, time.Now().Add(15*time.Minute), claims.ExpiresAt.Time, 5*time.Second)
}

func TestCodec_Mint_UniqueJTI(t *testing.T) {
	t.Parallel()

	codec := newTestCodec(15 * time.Minute)

	first, err := codec.Mint("maria")
	require.NoError(t, err)
	second, err := codec.Mint("maria")
	require.NoError(t, err)

	// Same subject, same minute: the JTI claim must still make the literal
	// token strings distinct, since the denylist is keyed on them.
	assert.NotEqual(t, first, second)
}

func TestCodec_Verify_Malformed(t *testing.T) {
	t.Parallel()

	codec := newTestCodec(15 * time.Minute)

	token, err := codec.Mint("maria")
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{name: "empty", token: ""},
		{name: "garbage", token: "not-a-jwt"},
		{name: "truncated", token: token[:len(token)-10]},
		{name: "tampered signature", token: token + "x"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			claims, err := codec.Verify(tt.token)
			require.Error(t, err)
			assert.Nil(t, claims)
			assert.ErrorIs(t, err, ErrTokenInvalid)
		})
	}
}

func TestCodec_Verify_WrongKey(t *testing.T) {
	t.Parallel()

	minter := newTestCodec(15 * time.Minute)
	verifier := NewCodec(Config{
		Secret: []byte("a-different-secret"),
		TTL:    15 * time.Minute,
	})

	token, err := minter.Mint("maria")
	require.NoError(t, err)

	claims, err := verifier.Verify(token)
	require.Error(t, err)
	assert.Nil(t, claims)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestCodec_Verify_Expired(t *testing.T) {
	t.Parallel()

	codec := newTestCodec(-1 * time.Minute)

	token, err := codec.Mint("maria")
	require.NoError(t, err)

	claims, err := codec.Verify(token)
	require.Error(t, err)
	assert.Nil(t, claims)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestCodec_Verify_ExpiryBoundary(t *testing.T) {
	t.Parallel()

	// A token whose expiry equals the current instant is already expired:
	// the boundary belongs to the expired side.
	codec := newTestCodec(0)

	token, err := codec.Mint("maria")
	require.NoError(t, err)

	claims, err := codec.Verify(token)
	require.Error(t, err)
	assert.Nil(t, claims)
	assert.ErrorIs(t, err, ErrTokenExpired)
}
