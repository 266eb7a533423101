package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"esenciafest-backend/internal/models"
)

func newSessionBackend(t *testing.T, statuses models.StatusMap) (*fakeBackend, *httptest.Server) {
	t.Helper()

	backend := newFakeBackend()
	mux := http.NewServeMux()

	mux.HandleFunc("/auth", func(w http.ResponseWriter, r *http.Request) {
		var req models.AuthRequest
		json.NewDecoder(r.Body).Decode(&req)

		token := signedToken(t, jwt.MapClaims{
			"email": req.Email,
			"name":  req.Name,
			"exp":   time.Now().Add(24 * time.Hour).Unix(),
		})
		json.NewEncoder(w).Encode(models.AuthResponse{
			Token: token,
			User:  models.User{Email: req.Email, Name: req.Name},
		})
	})
	mux.HandleFunc("/rooms/status", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(statuses)
	})
	mux.Handle("/user/progress", backend.handler())
	mux.Handle("/user/progress/", backend.handler())

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return backend, server
}

func TestSession_LoginEnterComplete(t *testing.T) {
	now := time.Now()
	future := now.Add(time.Hour)
	_, server := newSessionBackend(t, models.StatusMap{
		"sala1": {},
		"sala2": {OpenAt: &future},
	})

	session, err := NewSession(server.URL, t.TempDir())
	if err != nil {
		t.Fatalf("Failed to create session: %v", err)
	}
	defer session.Close()

	ctx := context.Background()

	user, err := session.Login(ctx, models.AuthRequest{Email: "ana@example.com", Name: "Ana"})
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if user.Email != "ana@example.com" {
		t.Errorf("Expected logged-in user, got %+v", user)
	}
	if !session.Authenticated(now) {
		t.Error("Expected authenticated session after login")
	}

	if err := session.poller.Refresh(ctx); err != nil {
		t.Fatalf("Status refresh failed: %v", err)
	}

	if err := session.EnterRoom("sala1", now); err != nil {
		t.Fatalf("Expected to enter open room: %v", err)
	}
	if err := session.EnterRoom("sala2", now); err != ErrRoomLocked {
		t.Errorf("Expected ErrRoomLocked for scheduled room, got %v", err)
	}
	if err := session.EnterRoom("sala99", now); err != ErrRoomLocked {
		t.Errorf("Expected ErrRoomLocked for unknown room, got %v", err)
	}

	state, ok := session.RoomState("sala1")
	if !ok || !state.Visiting || state.StartedAt == nil {
		t.Errorf("Expected active visit record, got %+v (found=%v)", state, ok)
	}

	session.LeaveRoom("sala1", now.Add(time.Minute))
	state, _ = session.RoomState("sala1")
	if state.Visiting {
		t.Error("Expected visit to end after LeaveRoom")
	}

	if err := session.CompleteRoom(ctx, "sala1"); err != nil {
		t.Fatalf("CompleteRoom failed: %v", err)
	}
	waitFor(t, 2*time.Second, func() bool {
		progress := session.Progress()
		return len(progress.CompletedRooms) == 1 && progress.CompletedRooms[0] == "sala1"
	})
	if got := session.Progress().CurrentProgress; got != 20 {
		t.Errorf("Expected 20%% progress, got %d%%", got)
	}
}

func TestSession_LogoutClearsState(t *testing.T) {
	_, server := newSessionBackend(t, models.StatusMap{"sala1": {}})

	session, err := NewSession(server.URL, t.TempDir())
	if err != nil {
		t.Fatalf("Failed to create session: %v", err)
	}
	defer session.Close()

	logoutSeen := false
	session.OnLogout(func() { logoutSeen = true })

	ctx := context.Background()
	if _, err := session.Login(ctx, models.AuthRequest{Email: "ana@example.com"}); err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	if err := session.Logout(); err != nil {
		t.Fatalf("Logout failed: %v", err)
	}

	if session.Authenticated(time.Now()) {
		t.Error("Expected unauthenticated session after logout")
	}
	if session.User() != nil {
		t.Error("Expected no user after logout")
	}
	if !logoutSeen {
		t.Error("Expected OnLogout callback to fire")
	}

	// Completions after logout are ignored, not errors.
	if err := session.CompleteRoom(ctx, "sala1"); err != nil {
		t.Errorf("Expected silent no-op, got %v", err)
	}
}
