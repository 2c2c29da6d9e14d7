package sessions

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jrsteele09/gym-checkin/internal/errors"
	"github.com/jrsteele09/gym-checkin/kvstore"
	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"
)

// Manager owns the client's credential pair. It is the only writer of the
// access_token and refresh_token keys; every outgoing request reads them
// through it.
type Manager struct {
	store kvstore.Store
}

var _ oauth2.TokenSource = (*Manager)(nil)

func NewManager(store kvstore.Store) *Manager {
	return &Manager{store: store}
}

// IsAuthenticated reports whether an access token is stored. A lone refresh
// token does not count.
func (m *Manager) IsAuthenticated(ctx context.Context) bool {
	return m.AccessToken(ctx) != ""
}

// SetTokens overwrites both stored tokens.
func (m *Manager) SetTokens(ctx context.Context, access, refresh string) error {
	if err := m.store.Set(ctx, kvstore.KeyAccessToken, access); err != nil {
		return errors.Wrapf(err, "store access token")
	}
	if err := m.store.Set(ctx, kvstore.KeyRefreshToken, refresh); err != nil {
		return errors.Wrapf(err, "store refresh token")
	}
	return nil
}

// SetAccessToken replaces the access token only, as a refresh does.
func (m *Manager) SetAccessToken(ctx context.Context, access string) error {
	return errors.Wrapf(m.store.Set(ctx, kvstore.KeyAccessToken, access), "store access token")
}

// Logout removes both tokens.
func (m *Manager) Logout(ctx context.Context) error {
	return errors.Wrapf(m.store.Delete(ctx, kvstore.KeyAccessToken, kvstore.KeyRefreshToken), "clear tokens")
}

func (m *Manager) AccessToken(ctx context.Context) string {
	return kvstore.GetString(ctx, m.store, kvstore.KeyAccessToken)
}

func (m *Manager) RefreshToken(ctx context.Context) string {
	return kvstore.GetString(ctx, m.store, kvstore.KeyRefreshToken)
}

// Token implements oauth2.TokenSource over the stored pair.
func (m *Manager) Token() (*oauth2.Token, error) {
	ctx := context.Background()
	access := m.AccessToken(ctx)
	if access == "" {
		return nil, errors.ErrUnauthenticated
	}
	return &oauth2.Token{
		AccessToken:  access,
		TokenType:    "Bearer",
		RefreshToken: m.RefreshToken(ctx),
	}, nil
}

// Claims are the fields the backend puts in its access tokens.
type Claims struct {
	UserID    json.Number `json:"user_id,omitempty"`
	TokenType string      `json:"token_type,omitempty"`
	jwt.RegisteredClaims
}

// Claims decodes the stored access token without verifying it. The client
// never holds the signing key; the result is for display and logging only.
func (m *Manager) Claims(ctx context.Context) (*Claims, error) {
	access := m.AccessToken(ctx)
	if access == "" {
		return nil, errors.ErrUnauthenticated
	}

	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(access, claims); err != nil {
		return nil, fmt.Errorf("parse access token: %w", err)
	}
	return claims, nil
}

// clear drops both tokens after an irrecoverable auth failure. Store errors
// are logged, the caller already has a more relevant error to return.
func (m *Manager) clear(ctx context.Context, reason string) {
	if err := m.Logout(ctx); err != nil {
		log.Err(err).Str("reason", reason).Msg("Failed to clear credentials")
		return
	}
	log.Info().Str("reason", reason).Msg("Credentials cleared")
}
