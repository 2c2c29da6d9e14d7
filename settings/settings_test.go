package settings_test

import (
	"testing"

	"github.com/jrsteele09/gym-checkin/internal/errors"
	"github.com/jrsteele09/gym-checkin/settings"
	"github.com/stretchr/testify/require"
)

func TestNewUpdate(t *testing.T) {
	t.Run("formats two decimals", func(t *testing.T) {
		u, err := settings.NewUpdate("75", " 20.5 ")
		require.NoError(t, err)
		require.Equal(t, settings.Update{SubscriptionCost: "75.00", SessionCost: "20.50"}, u)
	})

	t.Run("zero is allowed", func(t *testing.T) {
		_, err := settings.NewUpdate("0", "0")
		require.NoError(t, err)
	})

	t.Run("required", func(t *testing.T) {
		_, err := settings.NewUpdate("", "20")
		require.ErrorIs(t, err, errors.ErrValidation)
		require.Equal(t, settings.MsgCostsRequired, err.Error())
	})

	t.Run("negative subscription", func(t *testing.T) {
		_, err := settings.NewUpdate("-1", "20")
		require.Equal(t, settings.MsgInvalidSubscription, err.Error())
	})

	t.Run("session not a number", func(t *testing.T) {
		_, err := settings.NewUpdate("75", "twenty")
		require.Equal(t, settings.MsgInvalidSession, err.Error())
	})

	t.Run("NaN", func(t *testing.T) {
		_, err := settings.NewUpdate("NaN", "20")
		require.Equal(t, settings.MsgInvalidSubscription, err.Error())
	})
}

func TestAppSettings_AmountDue(t *testing.T) {
	s := settings.AppSettings{SubscriptionCost: "150.00", SessionCost: "25.00"}

	due, err := s.AmountDue(true, 12)
	require.NoError(t, err)
	require.Equal(t, 150.0, due)

	due, err = s.AmountDue(false, 3)
	require.NoError(t, err)
	require.Equal(t, 75.0, due)

	_, err = settings.AppSettings{SubscriptionCost: "x", SessionCost: "1"}.AmountDue(false, 1)
	require.Error(t, err)
}
