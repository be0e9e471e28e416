package pkg

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testIssuer() *TokenIssuer {
	return NewTokenIssuer("access-secret", "refresh-secret", time.Minute, time.Hour)
}

func TestTokenPairRoundTrip(t *testing.T) {
	issuer := testIssuer()

	pair, err := issuer.GeneratePair(42)
	require.NoError(t, err)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)

	claims, err := issuer.ParseAccess(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), claims.UserID)
}

func TestParseAccessRejectsRefreshToken(t *testing.T) {
	issuer := testIssuer()

	pair, err := issuer.GeneratePair(42)
	require.NoError(t, err)

	// refresh 用的是另一把密钥，签名校验不过
	_, err = issuer.ParseAccess(pair.RefreshToken)
	assert.Error(t, err)
}

func TestParseAccessExpired(t *testing.T) {
	issuer := NewTokenIssuer("access-secret", "refresh-secret", -time.Minute, time.Hour)

	pair, err := issuer.GeneratePair(42)
	require.NoError(t, err)

	_, err = issuer.ParseAccess(pair.AccessToken)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestRefreshIssuesNewPair(t *testing.T) {
	issuer := testIssuer()

	pair, err := issuer.GeneratePair(7)
	require.NoError(t, err)

	renewed, err := issuer.Refresh(pair.RefreshToken)
	require.NoError(t, err)

	claims, err := issuer.ParseAccess(renewed.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, uint64(7), claims.UserID)
}

func TestRefreshRejectsAccessToken(t *testing.T) {
	issuer := testIssuer()

	pair, err := issuer.GeneratePair(7)
	require.NoError(t, err)

	_, err = issuer.Refresh(pair.AccessToken)
	assert.Error(t, err)
}
