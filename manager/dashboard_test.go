package manager_test

import (
	"context"
	"testing"

	"github.com/jrsteele09/gym-checkin/internal/errors"
	"github.com/jrsteele09/gym-checkin/kvstore"
	"github.com/jrsteele09/gym-checkin/manager"
	"github.com/stretchr/testify/require"
)

func TestDashboard_Login(t *testing.T) {
	ctx := context.Background()
	f := setupManagerFixture(t)
	d := manager.NewDashboard(f.client, f.store)

	t.Run("wrong password", func(t *testing.T) {
		err := d.Login(ctx, "manager", "nope")
		requireValidation(t, err, manager.MsgWrongCredentials)
		require.False(t, d.IsAuthenticated(ctx))
	})

	t.Run("blank fields are not sent", func(t *testing.T) {
		before := f.stub.Hits("POST", "/api/token/")
		requireValidation(t, d.Login(ctx, "", "secret123"), manager.MsgWrongCredentials)
		require.Equal(t, before, f.stub.Hits("POST", "/api/token/"))
	})

	t.Run("login and logout", func(t *testing.T) {
		require.NoError(t, d.Login(ctx, "manager", "secret123"))
		require.True(t, d.IsAuthenticated(ctx))
		me, err := d.Me(ctx)
		require.NoError(t, err)
		require.Equal(t, "manager", me.Username)

		require.NoError(t, d.Logout(ctx))
		require.False(t, d.IsAuthenticated(ctx))
		_, err = f.store.Get(ctx, kvstore.KeyRefreshToken)
		require.ErrorIs(t, err, errors.ErrKeyNotFound)
	})
}

func TestDashboard_Tabs(t *testing.T) {
	ctx := context.Background()

	t.Run("admin", func(t *testing.T) {
		f := setupManagerFixture(t)
		d := manager.NewDashboard(f.client, f.store)
		require.NoError(t, d.Login(ctx, "manager", "secret123"))

		require.Contains(t, d.Tabs(ctx), manager.TabUsers)
		require.Equal(t, manager.TabStats, d.ActiveTab(ctx))

		require.NoError(t, d.SetActiveTab(ctx, manager.TabUsers))
		v, err := f.store.Get(ctx, kvstore.KeyManagerActiveTab)
		require.NoError(t, err)
		require.Equal(t, "users", v)

		// a new dashboard on the same store restores the tab
		require.Equal(t, manager.TabUsers, manager.NewDashboard(f.client, f.store).ActiveTab(ctx))

		require.ErrorIs(t, d.SetActiveTab(ctx, manager.Tab("reports")), errors.ErrValidation)
	})

	t.Run("staff", func(t *testing.T) {
		f := setupManagerFixture(t)
		require.NoError(t, f.store.Set(ctx, kvstore.KeyManagerActiveTab, "users"))
		d := manager.NewDashboard(f.client, f.store)
		require.NoError(t, d.Login(ctx, "staff", "secret123"))

		require.NotContains(t, d.Tabs(ctx), manager.TabUsers)
		require.Equal(t, manager.TabStats, d.ActiveTab(ctx))
		require.ErrorIs(t, d.SetActiveTab(ctx, manager.TabUsers), errors.ErrForbidden)
		require.NoError(t, d.SetActiveTab(ctx, manager.TabSettings))
		require.Equal(t, manager.TabSettings, d.ActiveTab(ctx))
	})
}
