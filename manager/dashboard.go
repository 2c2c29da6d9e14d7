package manager

import (
	"context"
	"net/http"
	"sync"

	"github.com/jrsteele09/gym-checkin/api"
	"github.com/jrsteele09/gym-checkin/internal/errors"
	"github.com/jrsteele09/gym-checkin/kvstore"
	"github.com/jrsteele09/gym-checkin/users"
	"github.com/rs/zerolog/log"
)

type Tab string

const (
	TabStats            Tab = "stats"
	TabTrainingSessions Tab = "training-sessions"
	TabPayments         Tab = "payments"
	TabSettings         Tab = "settings"
	TabUsers            Tab = "users"
)

var allTabs = []Tab{TabStats, TabTrainingSessions, TabPayments, TabSettings, TabUsers}

// Dashboard is the manager shell: login, logout, the signed in user and the
// active tab.
type Dashboard struct {
	backend AuthBackend
	store   kvstore.Store

	mu sync.Mutex
	me *users.User
}

func NewDashboard(backend AuthBackend, store kvstore.Store) *Dashboard {
	return &Dashboard{backend: backend, store: store}
}

func (d *Dashboard) IsAuthenticated(ctx context.Context) bool {
	return d.backend.Sessions().IsAuthenticated(ctx)
}

// Login stores a fresh token pair and loads the signed in user. Rejected
// credentials come back as a validation error carrying
// MsgWrongCredentials.
func (d *Dashboard) Login(ctx context.Context, username, password string) error {
	if username == "" || password == "" {
		return errors.Invalid("credentials", MsgWrongCredentials)
	}
	if _, err := d.backend.Login(ctx, username, password); err != nil {
		switch api.StatusCode(err) {
		case http.StatusBadRequest, http.StatusUnauthorized:
			return errors.Invalid("credentials", MsgWrongCredentials)
		}
		return err
	}

	if _, err := d.reloadMe(ctx); err != nil {
		log.Warn().Err(err).Msg("Failed to load the signed in user")
	}
	return nil
}

func (d *Dashboard) Logout(ctx context.Context) error {
	d.mu.Lock()
	d.me = nil
	d.mu.Unlock()
	return d.backend.Logout(ctx)
}

// Me returns the signed in user, loading it on first use.
func (d *Dashboard) Me(ctx context.Context) (*users.User, error) {
	d.mu.Lock()
	me := d.me
	d.mu.Unlock()
	if me != nil {
		return me, nil
	}
	return d.reloadMe(ctx)
}

func (d *Dashboard) reloadMe(ctx context.Context) (*users.User, error) {
	me, err := d.backend.Me(ctx)
	if err != nil {
		return nil, err
	}
	d.mu.Lock()
	d.me = me
	d.mu.Unlock()
	return me, nil
}

// Tabs lists the tabs the signed in user may open. The users tab needs
// admin rights.
func (d *Dashboard) Tabs(ctx context.Context) []Tab {
	me, err := d.Me(ctx)
	if err != nil {
		log.Debug().Err(err).Msg("Hiding admin tabs")
	}
	tabs := make([]Tab, 0, len(allTabs))
	for _, t := range allTabs {
		if t == TabUsers && !me.CanManageUsers() {
			continue
		}
		tabs = append(tabs, t)
	}
	return tabs
}

// ActiveTab is the persisted tab, or TabStats when none is stored or the
// stored one is not available to the user.
func (d *Dashboard) ActiveTab(ctx context.Context) Tab {
	stored := Tab(kvstore.GetString(ctx, d.store, kvstore.KeyManagerActiveTab))
	for _, t := range d.Tabs(ctx) {
		if t == stored {
			return t
		}
	}
	return TabStats
}

func (d *Dashboard) SetActiveTab(ctx context.Context, tab Tab) error {
	for _, t := range d.Tabs(ctx) {
		if t == tab {
			return d.store.Set(ctx, kvstore.KeyManagerActiveTab, string(tab))
		}
	}
	if tab == TabUsers {
		return errors.Wrapf(errors.ErrForbidden, "tab %s", tab)
	}
	return errors.Invalid("tab", "unknown tab "+string(tab))
}
