package cryptox

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGenerateToken(t *testing.T) {
	t.Parallel()

	t.Run("rejects non-positive sizes", func(t *testing.T) {
		_, err := GenerateToken(0)
		require.Error(t, err)

		_, err = GenerateToken(-8)
		require.Error(t, err)
	})

	t.Run("encodes to expected length", func(t *testing.T) {
		tok, err := GenerateToken(TokenSize256)
		require.NoError(t, err)
		// 32 raw bytes -> 43 base64url chars, no padding
		require.Len(t, tok, 43)
		require.NotContains(t, tok, "=")
	})

	t.Run("successive tokens differ", func(t *testing.T) {
		a := MustGenerateToken(TokenSize128)
		b := MustGenerateToken(TokenSize128)
		require.NotEqual(t, a, b)
	})
}

func TestFingerprintToken(t *testing.T) {
	t.Parallel()

	fp1 := FingerprintToken("some-opaque-token")
	fp2 := FingerprintToken("some-opaque-token")
	fp3 := FingerprintToken("another-token")

	require.Equal(t, fp1, fp2)
	require.NotEqual(t, fp1, fp3)
	require.Len(t, fp1, 43)
	require.NotEqual(t, "some-opaque-token", fp1)
}
