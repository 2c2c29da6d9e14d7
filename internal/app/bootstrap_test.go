package app_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/jrsteele09/gym-checkin/internal/app"
	"github.com/jrsteele09/gym-checkin/internal/config"
	"github.com/jrsteele09/gym-checkin/internal/errors"
	"github.com/stretchr/testify/require"
)

func TestOpenStore(t *testing.T) {
	ctx := context.Background()

	t.Run("memory", func(t *testing.T) {
		t.Setenv("STORE_DRIVER", "memory")
		s, closer, err := app.OpenStore(ctx, config.Store{})
		require.NoError(t, err)
		defer closer.Close()
		require.NoError(t, s.Set(ctx, "k", "v"))
	})

	t.Run("sqlite creates the directory", func(t *testing.T) {
		t.Setenv("STORE_DRIVER", "sqlite")
		t.Setenv("STORE_PATH", filepath.Join(t.TempDir(), "nested", "kiosk.db"))
		s, closer, err := app.OpenStore(ctx, config.Store{})
		require.NoError(t, err)
		defer closer.Close()

		require.NoError(t, s.Set(ctx, "athlete_phone", "0712345678"))
		v, err := s.Get(ctx, "athlete_phone")
		require.NoError(t, err)
		require.Equal(t, "0712345678", v)
	})

	t.Run("unknown driver", func(t *testing.T) {
		t.Setenv("STORE_DRIVER", "dynamo")
		_, _, err := app.OpenStore(ctx, config.Store{})
		require.ErrorIs(t, err, errors.ErrUnsupported)
	})
}

func TestNewAPIClient(t *testing.T) {
	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("GYM_API_URL", "http://gym.test/api/")
	s, _, err := app.OpenStore(context.Background(), config.Store{})
	require.NoError(t, err)

	c := app.NewAPIClient(config.New(), s)
	require.Equal(t, "http://gym.test/api", c.BaseURL())
	require.False(t, c.Sessions().IsAuthenticated(context.Background()))
}
