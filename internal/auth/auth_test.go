package auth

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solemate/internal/config"
	"solemate/internal/model"
)

func testIssuer(now time.Time) *Issuer {
	return NewIssuer(config.JWTConfig{
		SigningKey:           "test-secret",
		Issuer:               "solemate",
		AccessTokenLifetime:  5 * time.Minute,
		RefreshTokenLifetime: 24 * time.Hour,
	}).WithClock(func() time.Time { return now })
}

func TestPassword(t *testing.T) {
	hash, err := HashPassword("correct horse")
	require.NoError(t, err)

	assert.NotEqual(t, "correct horse", hash)
	assert.True(t, CheckPassword(hash, "correct horse"))
	assert.False(t, CheckPassword(hash, "battery staple"))
	assert.False(t, CheckPassword("not-a-hash", "correct horse"))
}

func TestIssuer_PairRoundTrip(t *testing.T) {
	now := time.Now()
	iss := testIssuer(now)
	u := &model.User{ID: "user-1", IsStaff: true}

	pair, err := iss.IssuePair(u)
	require.NoError(t, err)

	access, err := iss.Parse(pair.Access, TokenTypeAccess)
	require.NoError(t, err)
	assert.Equal(t, "user-1", access.UserID)
	assert.True(t, access.IsStaff)
	assert.Equal(t, "solemate", access.Issuer)
	assert.WithinDuration(t, now.Add(5*time.Minute), access.ExpiresAt.Time, time.Second)

	refresh, err := iss.Parse(pair.Refresh, TokenTypeRefresh)
	require.NoError(t, err)
	assert.NotEqual(t, access.ID, refresh.ID)
	assert.WithinDuration(t, now.Add(24*time.Hour), refresh.ExpiresAt.Time, time.Second)
}

func TestIssuer_ParseRejects(t *testing.T) {
	now := time.Now()
	iss := testIssuer(now)
	pair, err := iss.IssuePair(&model.User{ID: "user-1"})
	require.NoError(t, err)

	t.Run("wrong type", func(t *testing.T) {
		_, err := iss.Parse(pair.Access, TokenTypeRefresh)
		assert.ErrorIs(t, err, ErrTokenInvalid)
	})

	t.Run("expired", func(t *testing.T) {
		later := testIssuer(now.Add(10 * time.Minute))
		_, err := later.Parse(pair.Access, TokenTypeAccess)
		assert.ErrorIs(t, err, ErrTokenInvalid)
	})

	t.Run("other key", func(t *testing.T) {
		other := NewIssuer(config.JWTConfig{
			SigningKey:           "other-secret",
			Issuer:               "solemate",
			AccessTokenLifetime:  time.Minute,
			RefreshTokenLifetime: time.Hour,
		})
		_, err := other.Parse(pair.Access, TokenTypeAccess)
		assert.ErrorIs(t, err, ErrTokenInvalid)
	})

	t.Run("unsigned", func(t *testing.T) {
		tok := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
			TokenType: TokenTypeAccess,
			UserID:    "user-1",
			RegisteredClaims: jwt.RegisteredClaims{
				ID:        "jti",
				Issuer:    "solemate",
				ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
			},
		})
		s, err := tok.SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = iss.Parse(s, TokenTypeAccess)
		assert.ErrorIs(t, err, ErrTokenInvalid)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := iss.Parse("not.a.token", TokenTypeAccess)
		assert.ErrorIs(t, err, ErrTokenInvalid)
	})
}

func TestIssuer_IssueFromRefresh(t *testing.T) {
	iss := testIssuer(time.Now())
	pair, err := iss.IssuePair(&model.User{ID: "user-1"})
	require.NoError(t, err)
	refresh, err := iss.Parse(pair.Refresh, TokenTypeRefresh)
	require.NoError(t, err)

	access, err := iss.IssueAccess(refresh)
	require.NoError(t, err)
	claims, err := iss.Parse(access, TokenTypeAccess)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)

	rotated, err := iss.IssueRefresh(refresh)
	require.NoError(t, err)
	rc, err := iss.Parse(rotated, TokenTypeRefresh)
	require.NoError(t, err)
	assert.NotEqual(t, refresh.ID, rc.ID)
}

func TestRedisDenylist(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	ctx := context.Background()
	d := NewDenylist(client)
	require.IsType(t, &RedisDenylist{}, d)

	require.NoError(t, d.Add(ctx, "jti-1", time.Now().Add(time.Hour)))
	require.NoError(t, d.Add(ctx, "jti-old", time.Now().Add(-time.Minute)))

	ok, err := d.Contains(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = d.Contains(ctx, "jti-old")
	require.NoError(t, err)
	assert.False(t, ok, "expired tokens are not stored")

	assert.True(t, mr.Exists("token:denylist:jti-1"))
	mr.FastForward(2 * time.Hour)

	ok, err = d.Contains(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, ok, "entry expires with the token")
}

func TestRedisDenylist_Unavailable(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()
	mr.Close()

	d := NewRedisDenylist(client)
	_, err := d.Contains(context.Background(), "jti-1")
	assert.Error(t, err)
}

func TestMemoryDenylist(t *testing.T) {
	ctx := context.Background()
	now := time.Now()

	d := NewDenylist(nil)
	require.IsType(t, &MemoryDenylist{}, d)
	md := d.(*MemoryDenylist)
	md.now = func() time.Time { return now }

	require.NoError(t, md.Add(ctx, "jti-1", now.Add(time.Hour)))
	ok, _ := md.Contains(ctx, "jti-1")
	assert.True(t, ok)

	ok, _ = md.Contains(ctx, "unknown")
	assert.False(t, ok)

	md.now = func() time.Time { return now.Add(2 * time.Hour) }
	ok, _ = md.Contains(ctx, "jti-1")
	assert.False(t, ok)

	require.NoError(t, md.Add(ctx, "jti-2", now.Add(3*time.Hour)))
	assert.Len(t, md.entries, 1, "expired entries are pruned on add")
}
