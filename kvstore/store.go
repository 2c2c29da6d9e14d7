// Package kvstore is the persistent string key/value store the client keeps
// its credentials and view preferences in.
package kvstore

import (
	"context"
	"fmt"
	"strconv"

	"github.com/jrsteele09/gym-checkin/internal/errors"
)

// Keys persisted by the client.
const (
	KeyAccessToken      = "access_token"
	KeyRefreshToken     = "refresh_token"
	KeyAthletePhone     = "athlete_phone"
	KeyStatsMonth       = "statsSelectedMonth"
	KeyStatsYear        = "statsSelectedYear"
	KeyManagerActiveTab = "managerActiveTab"
)

// Store is a flat string key/value store. Get returns errors.ErrKeyNotFound
// for missing keys; Delete of a missing key is not an error.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, keys ...string) error
}

func AthleteCalendarMonthKey(athleteID int) string {
	return fmt.Sprintf("athleteCalendarMonth_%d", athleteID)
}

func AthleteCalendarYearKey(athleteID int) string {
	return fmt.Sprintf("athleteCalendarYear_%d", athleteID)
}

// GetString returns the value for key, or "" when it is missing or the
// store fails.
func GetString(ctx context.Context, s Store, key string) string {
	v, err := s.Get(ctx, key)
	if err != nil {
		return ""
	}
	return v
}

// GetInt reads an integer value, falling back to def when the key is missing
// or does not hold a number.
func GetInt(ctx context.Context, s Store, key string, def int) int {
	v, err := s.Get(ctx, key)
	if err != nil {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func SetInt(ctx context.Context, s Store, key string, value int) error {
	return s.Set(ctx, key, strconv.Itoa(value))
}

// IsNotFound reports whether err means the key does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, errors.ErrKeyNotFound)
}
