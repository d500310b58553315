package crypto

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	require.NoError(t, err)
	require.NotEmpty(t, hash)
	require.NotEqual(t, "correct horse battery staple", hash)

	require.True(t, VerifyPassword(hash, "correct horse battery staple"))
	require.False(t, VerifyPassword(hash, "wrong password"))
	require.False(t, VerifyPassword("", "anything"))
}

func TestGenerateToken(t *testing.T) {
	token, err := GenerateToken(32)
	require.NoError(t, err)
	// 32 bytes base64url-encoded without padding is 43 characters.
	require.Len(t, token, 43)

	other, err := GenerateToken(32)
	require.NoError(t, err)
	require.NotEqual(t, token, other)
}

func TestNumericCode(t *testing.T) {
	code, err := NumericCode(DefaultCodeLength)
	require.NoError(t, err)
	require.Len(t, code, DefaultCodeLength)
	for _, r := range code {
		require.True(t, r >= '0' && r <= '9', "unexpected character %q in code %q", r, code)
	}
}

func TestNumericCodeRejectsNonPositiveLength(t *testing.T) {
	_, err := NumericCode(0)
	require.Error(t, err)

	_, err = NumericCode(-3)
	require.Error(t, err)
}
