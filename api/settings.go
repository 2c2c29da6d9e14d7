package api

import (
	"context"

	"github.com/jrsteele09/gym-checkin/settings"
)

func (c *Client) AppSettings(ctx context.Context) (*settings.AppSettings, error) {
	var s settings.AppSettings
	if err := c.get(ctx, RouteAppSettings, nil, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (c *Client) UpdateAppSettings(ctx context.Context, u settings.Update) (*settings.AppSettings, error) {
	var s settings.AppSettings
	if err := c.patch(ctx, RouteAppSettings, u, &s); err != nil {
		return nil, err
	}
	return &s, nil
}
