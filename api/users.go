package api

import (
	"context"

	"github.com/jrsteele09/gym-checkin/users"
)

// Me returns the logged in staff user.
func (c *Client) Me(ctx context.Context) (*users.User, error) {
	var u users.User
	if err := c.get(ctx, RouteCurrentUser, nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *Client) Users(ctx context.Context) ([]users.User, error) {
	return getList[users.User](ctx, c, RouteUsers, nil)
}

func (c *Client) CreateUser(ctx context.Context, n users.NewUser) (*users.User, error) {
	var u users.User
	if err := c.post(ctx, RouteUsers, n, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *Client) UpdateUser(ctx context.Context, id int, upd users.Update) (*users.User, error) {
	var u users.User
	if err := c.patch(ctx, userRoute(id), upd, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *Client) DeleteUser(ctx context.Context, id int) error {
	return c.delete(ctx, userRoute(id))
}
