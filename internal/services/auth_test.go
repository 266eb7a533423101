package services

import (
	"context"
	"testing"
)

func TestEnsureAdmin_SkipsWhenUnconfigured(t *testing.T) {
	// No credentials configured means no bootstrap: the repo must never
	// be touched (it is nil here, so a call would panic).
	service := NewAuthService(nil, nil, nil, nil)

	tests := []struct {
		name     string
		email    string
		password string
	}{
		{"both empty", "", ""},
		{"email only", "admin@esenciafest.com", ""},
		{"password only", "", "secret"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if err := service.EnsureAdmin(context.Background(), tc.email, tc.password); err != nil {
				t.Errorf("Expected no-op, got %v", err)
			}
		})
	}
}
