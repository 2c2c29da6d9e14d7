package manager

import (
	"context"
	"sync"

	"github.com/jrsteele09/gym-checkin/settings"
)

// Settings edits the gym prices.
type Settings struct {
	backend SettingsBackend

	mu      sync.Mutex
	current *settings.AppSettings
}

func NewSettings(backend SettingsBackend) *Settings {
	return &Settings{backend: backend}
}

func (v *Settings) Load(ctx context.Context) error {
	s, err := v.backend.AppSettings(ctx)
	if err != nil {
		return err
	}
	v.set(s)
	return nil
}

// Current returns the loaded prices, nil before Load.
func (v *Settings) Current() *settings.AppSettings {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.current
}

// Save validates both prices and sends them with two decimals.
func (v *Settings) Save(ctx context.Context, subscriptionCost, sessionCost string) (*settings.AppSettings, error) {
	u, err := settings.NewUpdate(subscriptionCost, sessionCost)
	if err != nil {
		return nil, err
	}
	s, err := v.backend.UpdateAppSettings(ctx, u)
	if err != nil {
		return nil, err
	}
	v.set(s)
	return s, nil
}

func (v *Settings) set(s *settings.AppSettings) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.current = s
}
