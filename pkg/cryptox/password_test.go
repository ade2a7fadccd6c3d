package cryptox

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPlainVerifier(t *testing.T) {
	t.Parallel()

	v := PlainVerifier{}

	require.NoError(t, v.Verify("pikapika", "pikapika"))
	require.ErrorIs(t, v.Verify("pikapika", "PIKAPIKA"), ErrPasswordMismatch)
	require.ErrorIs(t, v.Verify("pikapika", "pikapik"), ErrPasswordMismatch)
	require.ErrorIs(t, v.Verify("", "anything"), ErrPasswordMismatch)
}

func TestArgon2Verifier(t *testing.T) {
	t.Parallel()

	hash, err := HashPassword("pallet123")
	require.NoError(t, err)
	require.Contains(t, hash, "$argon2id$v=19$")

	v := Argon2Verifier{}
	require.NoError(t, v.Verify(hash, "pallet123"))
	require.ErrorIs(t, v.Verify(hash, "pallet124"), ErrPasswordMismatch)
}

func TestHashPasswordSaltsEachCall(t *testing.T) {
	t.Parallel()

	h1, err := HashPassword("same-input")
	require.NoError(t, err)
	h2, err := HashPassword("same-input")
	require.NoError(t, err)

	require.NotEqual(t, h1, h2)
	require.NoError(t, VerifyPassword("same-input", h1))
	require.NoError(t, VerifyPassword("same-input", h2))
}

func TestVerifyPasswordRejectsMalformedHashes(t *testing.T) {
	t.Parallel()

	for _, encoded := range []string{
		"",
		"not-a-phc-string",
		"$argon2i$v=19$m=65536,t=3,p=4$c2FsdA$aGFzaA",
		"$argon2id$v=18$m=65536,t=3,p=4$c2FsdA$aGFzaA",
		"$argon2id$v=19$m=65536,t=3,p=4$!!$aGFzaA",
	} {
		require.Error(t, VerifyPassword("irrelevant", encoded))
	}
}
