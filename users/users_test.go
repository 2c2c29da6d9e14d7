package users_test

import (
	"testing"

	"github.com/jrsteele09/gym-checkin/internal/errors"
	"github.com/jrsteele09/gym-checkin/users"
	fakeuserrepo "github.com/jrsteele09/gym-checkin/users/repofake"
	"github.com/stretchr/testify/require"
)

func TestNewUser_Validate(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		require.NoError(t, users.NewUser{Username: "ana", Password: "secret123", PasswordConfirm: "secret123"}.Validate())
	})

	t.Run("missing username", func(t *testing.T) {
		err := users.NewUser{Password: "secret123", PasswordConfirm: "secret123"}.Validate()
		require.ErrorIs(t, err, errors.ErrValidation)
		require.Equal(t, users.MsgUsernameRequired, err.Error())
	})

	t.Run("mismatch reported before length", func(t *testing.T) {
		err := users.NewUser{Username: "ana", Password: "short", PasswordConfirm: "other"}.Validate()
		require.Equal(t, users.MsgPasswordMismatch, err.Error())
	})

	t.Run("too short", func(t *testing.T) {
		err := users.NewUser{Username: "ana", Password: "1234567", PasswordConfirm: "1234567"}.Validate()
		require.Equal(t, users.MsgPasswordTooShort, err.Error())
	})
}

func TestCanDelete(t *testing.T) {
	admin := &users.User{ID: 1, IsAdmin: true}
	staff := &users.User{ID: 2, IsStaff: true}
	root := &users.User{ID: 3, IsSuperuser: true}

	require.True(t, users.CanDelete(admin, staff))
	require.False(t, users.CanDelete(admin, admin))
	require.False(t, users.CanDelete(admin, root))
	require.False(t, users.CanDelete(nil, staff))
}

func TestUser_Roles(t *testing.T) {
	require.True(t, (&users.User{IsAdmin: true}).CanManageUsers())
	require.True(t, (&users.User{IsSuperuser: true}).CanManageUsers())
	require.False(t, (&users.User{IsStaff: true}).CanManageUsers())

	var nobody *users.User
	require.False(t, nobody.CanManageUsers())

	require.Equal(t, "superuser", (&users.User{IsSuperuser: true, IsStaff: true}).Role())
	require.Equal(t, "staff", (&users.User{IsStaff: true}).Role())
	require.Equal(t, "user", (&users.User{}).Role())
}

func TestPasswordHash(t *testing.T) {
	hash, err := users.HashPassword("secret123")
	require.NoError(t, err)

	u := &users.User{PasswordHash: hash}
	require.True(t, u.CheckPassword("secret123"))
	require.False(t, u.CheckPassword("secret124"))
}

func TestFakeUserRepo(t *testing.T) {
	repo := fakeuserrepo.NewFakeUserRepo()

	ana := &users.User{Username: "ana"}
	require.NoError(t, repo.Upsert(ana))
	require.Equal(t, 1, ana.ID)

	dan := &users.User{Username: "dan"}
	require.NoError(t, repo.Upsert(dan))
	require.Equal(t, 2, dan.ID)

	t.Run("duplicate username", func(t *testing.T) {
		err := repo.Upsert(&users.User{Username: "ana"})
		require.ErrorIs(t, err, errors.ErrValidation)
	})

	t.Run("lookup", func(t *testing.T) {
		got, err := repo.GetByUsername("dan")
		require.NoError(t, err)
		require.Equal(t, 2, got.ID)

		_, err = repo.GetByID(42)
		require.ErrorIs(t, err, errors.ErrNotFound)
	})

	t.Run("rename frees the old username", func(t *testing.T) {
		require.NoError(t, repo.Upsert(&users.User{ID: 2, Username: "daniel"}))
		_, err := repo.GetByUsername("dan")
		require.ErrorIs(t, err, errors.ErrNotFound)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, repo.Delete(1))
		require.ErrorIs(t, repo.Delete(1), errors.ErrNotFound)

		list, err := repo.List()
		require.NoError(t, err)
		require.Len(t, list, 1)
		require.Equal(t, "daniel", list[0].Username)
	})
}
