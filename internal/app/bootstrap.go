// Package app wires the configured store and REST client for the commands.
package app

import (
	"context"
	"io"

	"github.com/jrsteele09/gym-checkin/api"
	"github.com/jrsteele09/gym-checkin/internal/config"
	"github.com/jrsteele09/gym-checkin/internal/errors"
	"github.com/jrsteele09/gym-checkin/kvstore"
	"github.com/jrsteele09/gym-checkin/kvstore/redisstore"
	kvrepofake "github.com/jrsteele09/gym-checkin/kvstore/repofake"
	"github.com/jrsteele09/gym-checkin/kvstore/sqlitestore"
	"github.com/jrsteele09/gym-checkin/sessions"
	"github.com/rs/zerolog/log"
)

const (
	DriverSQLite = "sqlite"
	DriverRedis  = "redis"
	DriverMemory = "memory"
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// OpenStore opens the store named by the configured driver. The returned
// closer releases it.
func OpenStore(ctx context.Context, cfg config.StoreConfig) (kvstore.Store, io.Closer, error) {
	switch driver := cfg.GetStoreDriver(); driver {
	case DriverSQLite:
		path := cfg.GetStorePath()
		s, err := sqlitestore.Open(ctx, path)
		if err != nil {
			return nil, nil, err
		}
		log.Debug().Str("path", path).Msg("Using sqlite store")
		return s, s, nil
	case DriverRedis:
		s, err := redisstore.Dial(ctx, cfg.GetRedisAddr(), cfg.GetRedisPassword(), cfg.GetRedisDB(), cfg.GetRedisPrefix())
		if err != nil {
			return nil, nil, err
		}
		log.Debug().Str("addr", cfg.GetRedisAddr()).Msg("Using redis store")
		return s, s, nil
	case DriverMemory:
		return kvrepofake.NewFakeStore(), nopCloser{}, nil
	default:
		return nil, nil, errors.Wrapf(errors.ErrUnsupported, "store driver %q", driver)
	}
}

// NewAPIClient builds the REST client with its session manager on store.
func NewAPIClient(cfg config.Config, store kvstore.Store) *api.Client {
	return api.New(cfg.GetAPIURL(), sessions.NewManager(store),
		api.WithTimeout(cfg.GetHTTPTimeout()),
		api.WithColouredLogs(cfg.GetEnv() == "DEV"),
	)
}
