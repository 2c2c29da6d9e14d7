package manager

import (
	"context"
	"sync"

	"github.com/jrsteele09/gym-checkin/api"
	"github.com/jrsteele09/gym-checkin/internal/errors"
	"github.com/jrsteele09/gym-checkin/users"
)

// Users is the staff account list. Only admins get past Load.
type Users struct {
	backend UsersBackend

	mu   sync.Mutex
	me   *users.User
	list []users.User
}

func NewUsers(backend UsersBackend) *Users {
	return &Users{backend: backend}
}

// Load fetches the signed in user and the account list. A refusal from the
// backend comes back as a validation error carrying MsgNoAdminRights.
func (v *Users) Load(ctx context.Context) error {
	me, err := v.backend.Me(ctx)
	if err != nil {
		return err
	}
	list, err := v.backend.Users(ctx)
	if errors.Is(err, errors.ErrForbidden) {
		return errors.Invalid("users", users.MsgNoAdminRights)
	}
	if err != nil {
		return err
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	v.me = me
	v.list = list
	return nil
}

func (v *Users) List() []users.User {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append([]users.User(nil), v.list...)
}

// CanDelete reports whether the delete action is offered for id.
func (v *Users) CanDelete(id int) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	for i := range v.list {
		if v.list[i].ID == id {
			return users.CanDelete(v.me, &v.list[i])
		}
	}
	return false
}

// Create validates n, creates the account and reloads. Backend field
// errors for the username and password come back as validation errors.
func (v *Users) Create(ctx context.Context, n users.NewUser) (*users.User, error) {
	if err := n.Validate(); err != nil {
		return nil, err
	}

	created, err := v.backend.CreateUser(ctx, n)
	if err != nil {
		if apiErr, ok := api.AsError(err); ok {
			switch {
			case apiErr.HasField("username"):
				return nil, errors.Invalid("username", users.MsgUsernameTaken)
			case len(apiErr.Field("password")) > 0:
				return nil, errors.Invalid("password", apiErr.Field("password")[0])
			}
		}
		return nil, err
	}
	return created, v.Load(ctx)
}

// Delete removes the account. Nobody deletes themselves or a superuser.
func (v *Users) Delete(ctx context.Context, id int, confirmed bool) error {
	if !confirmed {
		return errors.ErrNotConfirmed
	}
	if !v.CanDelete(id) {
		return errors.Wrapf(errors.ErrForbidden, "delete user %d", id)
	}
	if err := v.backend.DeleteUser(ctx, id); err != nil {
		return err
	}
	return v.Load(ctx)
}
