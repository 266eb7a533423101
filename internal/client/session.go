package client

import (
	"context"
	"errors"
	"log"
	"path/filepath"
	"sync"
	"time"

	"esenciafest-backend/internal/models"
)

// EmbedLoadTimeout bounds how long a room's embedded content (video
// player, external frame) is given to load before the client falls back
// to a retry prompt.
const EmbedLoadTimeout = 10 * time.Second

// ErrRoomLocked is returned when entering a room that is closed or
// unknown.
var ErrRoomLocked = errors.New("room is locked")

// ErrNotAuthenticated is returned by operations that need a live login.
var ErrNotAuthenticated = errors.New("not authenticated")

// RoomLocalState is the per-room visit record kept client-side only.
// The server never sees visits, just completions.
type RoomLocalState struct {
	Visiting      bool       `json:"visiting"`
	StartedAt     *time.Time `json:"startedAt,omitempty"`
	LastVisitedAt *time.Time `json:"lastVisitedAt,omitempty"`
}

// Session is the attendee-facing entry point: it owns the token store,
// API client, local mirror, status poller, progress tracker and the
// cross-instance logout signal, and wires them into one lifecycle.
type Session struct {
	tokens *TokenStore
	api    *APIClient
	mirror *Mirror
	signal *LogoutSignal
	poller *StatusPoller

	mu      sync.Mutex
	email   string
	user    *models.User
	tracker *ProgressTracker
	rooms   map[string]*RoomLocalState

	onLogout func()
	stopChan chan struct{}
	stopOnce sync.Once
}

// NewSession wires the client stack against a backend URL and a local
// state directory (mirror database plus signal directory).
func NewSession(baseURL, stateDir string) (*Session, error) {
	mirror, err := OpenMirror(filepath.Join(stateDir, "esenciafest.db"))
	if err != nil {
		return nil, err
	}

	signal, err := NewLogoutSignal(filepath.Join(stateDir, "signals"))
	if err != nil {
		mirror.Close()
		return nil, err
	}

	tokens := NewTokenStore()
	api := NewAPIClient(baseURL, tokens)

	return &Session{
		tokens: tokens,
		api:    api,
		mirror: mirror,
		signal: signal,
		poller: NewStatusPoller(api),
		rooms:  make(map[string]*RoomLocalState),
	}, nil
}

// OnLogout registers a callback fired when the session ends, locally or
// via a broadcast from another instance.
func (s *Session) OnLogout(fn func()) {
	s.mu.Lock()
	s.onLogout = fn
	s.mu.Unlock()
}

// Start begins status polling and logout-signal watching.
func (s *Session) Start(ctx context.Context) {
	s.stopChan = make(chan struct{})
	s.poller.Start(ctx)
	s.signal.Start()

	logouts := s.signal.Watch()
	go func() {
		for {
			select {
			case <-s.stopChan:
				return
			case <-ctx.Done():
				return
			case <-logouts:
				log.Println("session: logout broadcast received, ending session")
				s.endSession()
			}
		}
	}()
}

// Login runs the passwordless exchange. For a first visit the server
// answers registration_required until name, lastname, country and
// negocio are supplied; callers detect that with IsRegistrationRequired
// and re-submit the filled request.
func (s *Session) Login(ctx context.Context, req models.AuthRequest) (*models.User, error) {
	resp, err := s.api.Authenticate(ctx, req)
	if err != nil {
		return nil, err
	}

	s.tokens.Set(resp.Token)

	s.mu.Lock()
	s.email = resp.User.Email
	s.user = &resp.User
	s.tracker = NewProgressTracker(s.api, s.mirror, resp.User.Email)
	s.rooms = s.loadRoomStates(resp.User.Email)
	tracker := s.tracker
	s.mu.Unlock()

	tracker.Start(ctx)
	return &resp.User, nil
}

// Logout ends the session everywhere: broadcasts to sibling instances,
// then tears down local state.
func (s *Session) Logout() error {
	err := s.signal.Broadcast()
	s.endSession()
	return err
}

// Authenticated reports whether a non-expired token is held.
func (s *Session) Authenticated(now time.Time) bool {
	return s.tokens.Valid(now)
}

// User returns the logged-in profile, nil when logged out.
func (s *Session) User() *models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user
}

// Statuses is the poller's current snapshot.
func (s *Session) Statuses() models.StatusMap {
	return s.poller.Statuses()
}

// RoomAvailable resolves availability from the latest snapshot.
func (s *Session) RoomAvailable(roomID string, now time.Time) bool {
	return s.poller.RoomAvailable(roomID, now)
}

// Countdown renders the opening countdown for a scheduled locked room.
func (s *Session) Countdown(roomID string, now time.Time) (string, bool) {
	statuses := s.poller.Statuses()
	status, ok := statuses[roomID]
	if !ok {
		return "", false
	}
	return Countdown(status, now)
}

// EnterRoom records the start of a visit. Locked and unknown rooms are
// rejected.
func (s *Session) EnterRoom(roomID string, now time.Time) error {
	if !s.poller.RoomAvailable(roomID, now) {
		return ErrRoomLocked
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.email == "" {
		return ErrNotAuthenticated
	}

	state, ok := s.rooms[roomID]
	if !ok {
		state = &RoomLocalState{}
		s.rooms[roomID] = state
	}
	state.Visiting = true
	if state.StartedAt == nil {
		started := now
		state.StartedAt = &started
	}
	visited := now
	state.LastVisitedAt = &visited

	s.saveRoomStates()
	return nil
}

// LeaveRoom records the end of a visit.
func (s *Session) LeaveRoom(roomID string, now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, ok := s.rooms[roomID]
	if !ok {
		return
	}
	state.Visiting = false
	visited := now
	state.LastVisitedAt = &visited

	s.saveRoomStates()
}

// RoomState returns a copy of the local visit record for a room.
func (s *Session) RoomState(roomID string) (RoomLocalState, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	state, ok := s.rooms[roomID]
	if !ok {
		return RoomLocalState{}, false
	}
	return *state, true
}

// CompleteRoom marks the room done through the progress tracker.
func (s *Session) CompleteRoom(ctx context.Context, roomID string) error {
	s.mu.Lock()
	tracker := s.tracker
	s.mu.Unlock()

	if tracker == nil {
		log.Printf("session: not authenticated, ignoring completion of %s", roomID)
		return nil
	}
	return tracker.MarkRoomCompleted(ctx, roomID)
}

// Progress returns the client-side progress view, empty when logged
// out.
func (s *Session) Progress() models.UserProgress {
	s.mu.Lock()
	tracker := s.tracker
	s.mu.Unlock()

	if tracker == nil {
		return models.UserProgress{CompletedRooms: []string{}, LastUpdated: time.Now()}
	}
	return tracker.Progress()
}

// DeleteAccount removes the user server-side, then ends the session.
func (s *Session) DeleteAccount(ctx context.Context) error {
	if err := s.api.DeleteUser(ctx); err != nil {
		return err
	}

	s.mu.Lock()
	email := s.email
	s.mu.Unlock()
	if email != "" {
		s.mirror.Delete(progressKey(email))
		s.mirror.Delete(roomsStateKey(email))
	}

	return s.Logout()
}

// Close stops background work and flushes the mirror.
func (s *Session) Close() error {
	if s.stopChan != nil {
		s.stopOnce.Do(func() { close(s.stopChan) })
	}
	s.poller.Stop()
	s.signal.Stop()

	s.mu.Lock()
	if s.tracker != nil {
		s.tracker.Close()
	}
	s.mu.Unlock()

	return s.mirror.Close()
}

// endSession tears down local auth state without broadcasting.
func (s *Session) endSession() {
	s.tokens.Clear()

	s.mu.Lock()
	if s.tracker != nil {
		s.tracker.Close()
		s.tracker = nil
	}
	s.email = ""
	s.user = nil
	s.rooms = make(map[string]*RoomLocalState)
	fn := s.onLogout
	s.mu.Unlock()

	s.mirror.Flush()
	if fn != nil {
		fn()
	}
}

func (s *Session) loadRoomStates(email string) map[string]*RoomLocalState {
	states := make(map[string]*RoomLocalState)
	if _, err := s.mirror.Load(roomsStateKey(email), &states); err != nil {
		log.Printf("session: failed to load room state for %s: %v", email, err)
		return make(map[string]*RoomLocalState)
	}
	return states
}

// saveRoomStates requires s.mu held.
func (s *Session) saveRoomStates() {
	if s.email == "" {
		return
	}
	s.mirror.Save(roomsStateKey(s.email), s.rooms)
}
