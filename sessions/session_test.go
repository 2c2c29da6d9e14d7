package sessions_test

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jrsteele09/gym-checkin/internal/errors"
	"github.com/jrsteele09/gym-checkin/kvstore"
	kvrepofake "github.com/jrsteele09/gym-checkin/kvstore/repofake"
	"github.com/jrsteele09/gym-checkin/sessions"
	"github.com/stretchr/testify/require"
)

func TestManager_IsAuthenticated(t *testing.T) {
	ctx := context.Background()
	store := kvrepofake.NewFakeStore()
	m := sessions.NewManager(store)

	t.Run("empty store", func(t *testing.T) {
		require.False(t, m.IsAuthenticated(ctx))
	})

	t.Run("refresh token alone is not enough", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, kvstore.KeyRefreshToken, "r1"))
		require.False(t, m.IsAuthenticated(ctx))
	})

	t.Run("after SetTokens", func(t *testing.T) {
		require.NoError(t, m.SetTokens(ctx, "a1", "r1"))
		require.True(t, m.IsAuthenticated(ctx))
		require.Equal(t, "a1", m.AccessToken(ctx))
		require.Equal(t, "r1", m.RefreshToken(ctx))
	})

	t.Run("SetTokens overwrites both", func(t *testing.T) {
		require.NoError(t, m.SetTokens(ctx, "a2", "r2"))
		require.Equal(t, "a2", m.AccessToken(ctx))
		require.Equal(t, "r2", m.RefreshToken(ctx))
	})
}

func TestManager_Logout(t *testing.T) {
	ctx := context.Background()
	store := kvrepofake.NewFakeStore()
	m := sessions.NewManager(store)

	require.NoError(t, m.SetTokens(ctx, "a1", "r1"))
	require.NoError(t, m.Logout(ctx))

	require.False(t, m.IsAuthenticated(ctx))
	require.Empty(t, store.Keys())

	// Logging out twice is harmless.
	require.NoError(t, m.Logout(ctx))
}

func TestManager_Token(t *testing.T) {
	ctx := context.Background()
	m := sessions.NewManager(kvrepofake.NewFakeStore())

	_, err := m.Token()
	require.ErrorIs(t, err, errors.ErrUnauthenticated)

	require.NoError(t, m.SetTokens(ctx, "a1", "r1"))
	tok, err := m.Token()
	require.NoError(t, err)
	require.Equal(t, "a1", tok.AccessToken)
	require.Equal(t, "r1", tok.RefreshToken)
	require.Equal(t, "Bearer", tok.Type())
}

func TestManager_Claims(t *testing.T) {
	ctx := context.Background()
	m := sessions.NewManager(kvrepofake.NewFakeStore())

	exp := time.Now().Add(5 * time.Minute).Truncate(time.Second)
	access, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":    7,
		"token_type": "access",
		"exp":        exp.Unix(),
	}).SignedString([]byte("not-known-to-the-client"))
	require.NoError(t, err)
	require.NoError(t, m.SetTokens(ctx, access, "r1"))

	claims, err := m.Claims(ctx)
	require.NoError(t, err)
	require.Equal(t, "7", claims.UserID.String())
	require.Equal(t, "access", claims.TokenType)
	require.True(t, claims.ExpiresAt.Time.Equal(exp))

	require.NoError(t, m.SetTokens(ctx, "not-a-jwt", "r1"))
	_, err = m.Claims(ctx)
	require.Error(t, err)
}
