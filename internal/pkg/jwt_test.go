package pkg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndParsePair(t *testing.T) {
	pair, err := GeneratePair(42)
	require.NoError(t, err)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)

	claims, err := ParseAccess(pair.AccessToken)
	require.NoError(t, err)
	assert.EqualValues(t, 42, claims.UserID)
	assert.Equal(t, "access", claims.Subject)
}

func TestParseGarbage(t *testing.T) {
	_, err := ParseAccess("not-a-token")
	assert.Error(t, err)
}

func TestRefreshRoundTrip(t *testing.T) {
	pair, err := GeneratePair(7)
	require.NoError(t, err)

	// refresh 换出的新 access 还是同一个用户
	next, err := Refresh(pair.RefreshToken)
	require.NoError(t, err)
	claims, err := ParseAccess(next.AccessToken)
	require.NoError(t, err)
	assert.EqualValues(t, 7, claims.UserID)
}

func TestAccessTokenNotValidAsRefresh(t *testing.T) {
	pair, err := GeneratePair(7)
	require.NoError(t, err)

	// access 和 refresh 的签名密钥不同，不能互换
	_, err = Refresh(pair.AccessToken)
	assert.Error(t, err)
}

func TestRandDigits(t *testing.T) {
	code, err := RandDigits(6)
	require.NoError(t, err)
	assert.Len(t, code, 6)
	for _, ch := range code {
		assert.GreaterOrEqual(t, ch, '0')
		assert.LessOrEqual(t, ch, '9')
	}
}
