package auth

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newManager(t *testing.T) (*TokenManager, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return NewTokenManager("test-secret", 5*time.Minute, 24*time.Hour, NewRedisBlacklist(rdb)), mr
}

func TestIssuePairAndParseAccess(t *testing.T) {
	m, _ := newManager(t)

	pair, err := m.IssuePair(7, "admin")
	require.NoError(t, err)
	require.NotEmpty(t, pair.Access)
	require.NotEmpty(t, pair.Refresh)

	claims, err := m.ParseAccess(pair.Access)
	require.NoError(t, err)
	assert.Equal(t, 7, claims.UserID)
	assert.Equal(t, "admin", claims.Role)
	assert.Equal(t, TypeAccess, claims.TokenType)
	assert.NotEmpty(t, claims.ID)
}

func TestParseAccessRejectsRefreshToken(t *testing.T) {
	m, _ := newManager(t)
	pair, err := m.IssuePair(1, "member")
	require.NoError(t, err)

	_, err = m.ParseAccess(pair.Refresh)
	assert.ErrorIs(t, err, ErrWrongType)
}

func TestParseAccessRejectsForeignSignature(t *testing.T) {
	m, _ := newManager(t)
	other := NewTokenManager("other-secret", time.Minute, time.Hour, nil)
	pair, err := other.IssuePair(1, "member")
	require.NoError(t, err)

	_, err = m.ParseAccess(pair.Access)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseAccessRejectsExpired(t *testing.T) {
	m, _ := newManager(t)
	m.now = func() time.Time { return time.Now().Add(-time.Hour) }
	pair, err := m.IssuePair(1, "member")
	require.NoError(t, err)

	_, err = m.ParseAccess(pair.Access)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseAccessRejectsNoneAlgorithm(t *testing.T) {
	m, _ := newManager(t)
	token := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{UserID: 1, TokenType: TypeAccess})
	raw, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = m.ParseAccess(raw)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestRefreshAndRevoke(t *testing.T) {
	m, mr := newManager(t)
	ctx := context.Background()
	pair, err := m.IssuePair(3, "member")
	require.NoError(t, err)

	access, err := m.Refresh(ctx, pair.Refresh)
	require.NoError(t, err)
	claims, err := m.ParseAccess(access)
	require.NoError(t, err)
	assert.Equal(t, 3, claims.UserID)

	_, err = m.Refresh(ctx, pair.Access)
	assert.ErrorIs(t, err, ErrWrongType)

	require.NoError(t, m.Revoke(ctx, pair.Refresh))
	_, err = m.Refresh(ctx, pair.Refresh)
	assert.ErrorIs(t, err, ErrRevoked)

	keys := mr.Keys()
	require.Len(t, keys, 1)
	assert.Contains(t, keys[0], blacklistPrefix)
	assert.True(t, mr.TTL(keys[0]) > 23*time.Hour)
}

func TestMemoryBlacklistExpires(t *testing.T) {
	b := NewMemoryBlacklist()
	now := time.Now()
	b.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, b.Add(ctx, "abc", time.Minute))
	ok, err := b.Contains(ctx, "abc")
	require.NoError(t, err)
	assert.True(t, ok)

	now = now.Add(2 * time.Minute)
	ok, err = b.Contains(ctx, "abc")
	require.NoError(t, err)
	assert.False(t, ok)
}
