package client

import (
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"esenciafest-backend/internal/models"
)

// RefreshThreshold: tokens expiring within this window should be
// re-issued by logging in again.
const RefreshThreshold = 5 * time.Minute

// TokenStore holds the session's JWT. The token is opaque to the client
// beyond expiry checking; claims are decoded without verification since
// only the server holds the signing secret.
type TokenStore struct {
	mu    sync.RWMutex
	token string
}

func NewTokenStore() *TokenStore {
	return &TokenStore{}
}

func (s *TokenStore) Set(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
}

func (s *TokenStore) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *TokenStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
}

// Valid reports whether a token is present and not expired at now.
func (s *TokenStore) Valid(now time.Time) bool {
	exp, ok := s.expiry()
	return ok && now.Before(exp)
}

// NeedsRefresh reports whether the token expires within the refresh
// threshold. Expired tokens need a full re-login, not a refresh.
func (s *TokenStore) NeedsRefresh(now time.Time) bool {
	exp, ok := s.expiry()
	return ok && now.Before(exp) && exp.Sub(now) <= RefreshThreshold
}

// User decodes the profile fields the token carries. Returns nil when
// no valid token is held.
func (s *TokenStore) User() *models.User {
	claims, ok := s.claims()
	if !ok {
		return nil
	}

	email, _ := claims["email"].(string)
	if email == "" {
		return nil
	}

	user := &models.User{Email: email}
	user.Name, _ = claims["name"].(string)
	user.Lastname, _ = claims["lastname"].(string)
	user.Country, _ = claims["country"].(string)
	user.Negocio, _ = claims["negocio"].(string)
	return user
}

func (s *TokenStore) expiry() (time.Time, bool) {
	claims, ok := s.claims()
	if !ok {
		return time.Time{}, false
	}
	exp, ok := claims["exp"].(float64)
	if !ok {
		return time.Time{}, false
	}
	return time.Unix(int64(exp), 0), true
}

func (s *TokenStore) claims() (jwt.MapClaims, bool) {
	token := s.Token()
	if token == "" {
		return nil, false
	}

	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return nil, false
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	return claims, ok
}
