package kvstore_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/jrsteele09/gym-checkin/kvstore"
	kvrepofake "github.com/jrsteele09/gym-checkin/kvstore/repofake"
	"github.com/jrsteele09/gym-checkin/kvstore/sqlitestore"
	"github.com/stretchr/testify/require"
)

// storeFactories lists every backend that can run without external services.
func storeFactories(t *testing.T) map[string]func() kvstore.Store {
	t.Helper()
	return map[string]func() kvstore.Store{
		"fake": func() kvstore.Store { return kvrepofake.NewFakeStore() },
		"sqlite": func() kvstore.Store {
			s, err := sqlitestore.Open(context.Background(), filepath.Join(t.TempDir(), "kv.db"))
			require.NoError(t, err)
			t.Cleanup(func() { s.Close() })
			return s
		},
	}
}

func TestStoreBehaviour(t *testing.T) {
	ctx := context.Background()

	for name, newStore := range storeFactories(t) {
		t.Run(name, func(t *testing.T) {
			s := newStore()

			_, err := s.Get(ctx, kvstore.KeyAccessToken)
			require.True(t, kvstore.IsNotFound(err))

			require.NoError(t, s.Set(ctx, kvstore.KeyAccessToken, "a1"))
			require.NoError(t, s.Set(ctx, kvstore.KeyAccessToken, "a2"))
			v, err := s.Get(ctx, kvstore.KeyAccessToken)
			require.NoError(t, err)
			require.Equal(t, "a2", v)

			require.NoError(t, s.Set(ctx, kvstore.KeyRefreshToken, "r1"))
			require.NoError(t, s.Delete(ctx, kvstore.KeyAccessToken, kvstore.KeyRefreshToken, "missing"))
			_, err = s.Get(ctx, kvstore.KeyRefreshToken)
			require.True(t, kvstore.IsNotFound(err))
		})
	}
}

func TestIntHelpers(t *testing.T) {
	ctx := context.Background()
	s := kvrepofake.NewFakeStore()

	require.Equal(t, 3, kvstore.GetInt(ctx, s, kvstore.KeyStatsMonth, 3))
	require.NoError(t, kvstore.SetInt(ctx, s, kvstore.KeyStatsMonth, 11))
	require.Equal(t, 11, kvstore.GetInt(ctx, s, kvstore.KeyStatsMonth, 3))

	require.NoError(t, s.Set(ctx, kvstore.KeyStatsYear, "not-a-year"))
	require.Equal(t, 2024, kvstore.GetInt(ctx, s, kvstore.KeyStatsYear, 2024))
}

func TestAthleteCalendarKeys(t *testing.T) {
	require.Equal(t, "athleteCalendarMonth_42", kvstore.AthleteCalendarMonthKey(42))
	require.Equal(t, "athleteCalendarYear_42", kvstore.AthleteCalendarYearKey(42))
}
