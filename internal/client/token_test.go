package client

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func signedToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("Failed to sign token: %v", err)
	}
	return token
}

func TestTokenStore_Validity(t *testing.T) {
	now := time.Date(2025, 8, 18, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name         string
		exp          time.Time
		valid        bool
		needsRefresh bool
	}{
		{"fresh token", now.Add(24 * time.Hour), true, false},
		{"expiring soon", now.Add(2 * time.Minute), true, true},
		{"expired", now.Add(-time.Minute), false, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			store := NewTokenStore()
			store.Set(signedToken(t, jwt.MapClaims{
				"email": "ana@example.com",
				"exp":   tc.exp.Unix(),
			}))

			if got := store.Valid(now); got != tc.valid {
				t.Errorf("Valid: expected %v, got %v", tc.valid, got)
			}
			if got := store.NeedsRefresh(now); got != tc.needsRefresh {
				t.Errorf("NeedsRefresh: expected %v, got %v", tc.needsRefresh, got)
			}
		})
	}
}

func TestTokenStore_EmptyAndCleared(t *testing.T) {
	store := NewTokenStore()
	now := time.Now()

	if store.Valid(now) {
		t.Error("Empty store should not be valid")
	}
	if store.User() != nil {
		t.Error("Empty store should have no user")
	}

	store.Set(signedToken(t, jwt.MapClaims{
		"email": "ana@example.com",
		"exp":   now.Add(time.Hour).Unix(),
	}))
	if !store.Valid(now) {
		t.Fatal("Expected valid token after Set")
	}

	store.Clear()
	if store.Valid(now) {
		t.Error("Cleared store should not be valid")
	}
}

func TestTokenStore_UserDecodesProfileClaims(t *testing.T) {
	store := NewTokenStore()
	store.Set(signedToken(t, jwt.MapClaims{
		"email":    "ana@example.com",
		"name":     "Ana",
		"lastname": "García",
		"country":  "Colombia",
		"negocio":  "Esencia",
		"exp":      time.Now().Add(time.Hour).Unix(),
	}))

	user := store.User()
	if user == nil {
		t.Fatal("Expected decoded user")
	}
	if user.Email != "ana@example.com" || user.Name != "Ana" || user.Lastname != "García" {
		t.Errorf("Profile mismatch: %+v", user)
	}
	if user.Country != "Colombia" || user.Negocio != "Esencia" {
		t.Errorf("Profile mismatch: %+v", user)
	}
}

func TestTokenStore_GarbageToken(t *testing.T) {
	store := NewTokenStore()
	store.Set("not-a-jwt")

	if store.Valid(time.Now()) {
		t.Error("Garbage token should not be valid")
	}
	if store.User() != nil {
		t.Error("Garbage token should have no user")
	}
}
