package stubserver

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jrsteele09/gym-checkin/internal/errors"
	"github.com/jrsteele09/gym-checkin/users"
)

const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

// ContextKeyUser stores the authenticated *users.User
const ContextKeyUser ContextKey = "user"

type tokenClaims struct {
	UserID     int    `json:"user_id"`
	TokenType  string `json:"token_type"`
	Generation int    `json:"gen"`
	jwt.RegisteredClaims
}

func (s *Server) mint(userID int, tokenType string, ttl time.Duration) (string, error) {
	s.mu.Lock()
	gen := s.tokenGeneration
	s.mu.Unlock()

	now := s.now()
	claims := tokenClaims{
		UserID:     userID,
		TokenType:  tokenType,
		Generation: gen,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   fmt.Sprint(userID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// parse verifies a token of the wanted type. Access tokens minted before the
// last ExpireAccessTokens call are rejected; refresh tokens are rejected
// after RevokeRefreshTokens.
func (s *Server) parse(raw, wantType string) (*tokenClaims, error) {
	claims := &tokenClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now))
	if err != nil {
		return nil, err
	}
	if claims.TokenType != wantType {
		return nil, fmt.Errorf("token type %q, want %q", claims.TokenType, wantType)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if wantType == tokenTypeAccess && claims.Generation < s.tokenGeneration {
		return nil, errors.New("token expired")
	}
	if wantType == tokenTypeRefresh && s.refreshRevoked {
		return nil, errors.New("token revoked")
	}
	return claims, nil
}

func (s *Server) loginHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Username string `json:"username"`
			Password string `json:"password"`
		}
		if !readJSON(w, r, &req) {
			return
		}

		user, err := s.users.GetByUsername(req.Username)
		if err != nil || !user.CheckPassword(req.Password) {
			writeDetail(w, http.StatusUnauthorized, "No active account found with the given credentials")
			return
		}

		access, err := s.mint(user.ID, tokenTypeAccess, s.accessTTL)
		if err != nil {
			writeDetail(w, http.StatusInternalServerError, err.Error())
			return
		}
		refresh, err := s.mint(user.ID, tokenTypeRefresh, s.refreshTTL)
		if err != nil {
			writeDetail(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"access": access, "refresh": refresh})
	}
}

func (s *Server) refreshHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Refresh string `json:"refresh"`
		}
		if !readJSON(w, r, &req) {
			return
		}

		claims, err := s.parse(req.Refresh, tokenTypeRefresh)
		if err != nil {
			writeJSON(w, http.StatusUnauthorized, map[string]string{
				"detail": "Token is invalid or expired",
				"code":   "token_not_valid",
			})
			return
		}

		access, err := s.mint(claims.UserID, tokenTypeAccess, s.accessTTL)
		if err != nil {
			writeDetail(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"access": access})
	}
}

// RequireAuth is middleware that validates a Bearer access token and puts
// the user in the request context.
func (s *Server) RequireAuth() func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			raw, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok || raw == "" {
				writeDetail(w, http.StatusUnauthorized, "Authentication credentials were not provided.")
				return
			}

			claims, err := s.parse(raw, tokenTypeAccess)
			if err != nil {
				writeJSON(w, http.StatusUnauthorized, map[string]string{
					"detail": "Given token not valid for any token type",
					"code":   "token_not_valid",
				})
				return
			}

			user, err := s.users.GetByID(claims.UserID)
			if err != nil {
				writeDetail(w, http.StatusUnauthorized, "User not found")
				return
			}

			ctx := context.WithValue(r.Context(), ContextKeyUser, user)
			next(w, r.WithContext(ctx))
		}
	}
}

// RequireAdmin must run after RequireAuth.
func (s *Server) RequireAdmin() func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			if !currentUser(r).CanManageUsers() {
				writeDetail(w, http.StatusForbidden, "You do not have permission to perform this action.")
				return
			}
			next(w, r)
		}
	}
}

func currentUser(r *http.Request) *users.User {
	u, _ := r.Context().Value(ContextKeyUser).(*users.User)
	return u
}
