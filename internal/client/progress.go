package client

import (
	"context"
	"log"
	"sync"
	"time"

	"esenciafest-backend/internal/models"
)

// DefaultMarkDebounce is the delay before a deferred completion is
// retried once authoritative progress has loaded.
const DefaultMarkDebounce = 500 * time.Millisecond

// ProgressTracker owns the user's completion set for the lifetime of an
// authenticated session. It mediates between server state, the local
// mirror and in-flight marks: duplicates are suppressed, a mark issued
// before progress has loaded is parked in a single slot and retried,
// and every authoritative change is copied into the mirror.
type ProgressTracker struct {
	api      *APIClient
	mirror   *Mirror
	email    string
	debounce time.Duration

	mu           sync.Mutex
	loaded       bool
	completed    []string
	completedSet map[string]bool
	processed    map[string]bool

	// pending is the deferred-completion slot: depth 1, overwritten by
	// newer ids (last writer wins).
	pending  chan string
	loadedCh chan struct{}
	loadOnce sync.Once
	stopChan chan struct{}
	stopOnce sync.Once
}

func NewProgressTracker(api *APIClient, mirror *Mirror, email string) *ProgressTracker {
	return &ProgressTracker{
		api:          api,
		mirror:       mirror,
		email:        email,
		debounce:     DefaultMarkDebounce,
		completedSet: make(map[string]bool),
		processed:    make(map[string]bool),
		pending:      make(chan string, 1),
		loadedCh:     make(chan struct{}),
		stopChan:     make(chan struct{}),
	}
}

// Start seeds optimistic state from the mirror, begins the deferred
// completion drain, and fetches authoritative progress.
func (t *ProgressTracker) Start(ctx context.Context) {
	t.seedFromMirror()

	go t.drainPending(ctx)
	go func() {
		if err := t.Reload(ctx); err != nil {
			log.Printf("progress: initial load failed, serving mirror state: %v", err)
		}
	}()
}

// Reload fetches authoritative progress and overwrites local state.
func (t *ProgressTracker) Reload(ctx context.Context) error {
	progress, err := t.api.Progress(ctx)
	if err != nil {
		return err
	}
	t.setAuthoritative(progress)
	return nil
}

// Close stops issuing further writes. In-flight requests complete and
// their results are discarded silently.
func (t *ProgressTracker) Close() {
	t.stopOnce.Do(func() { close(t.stopChan) })
}

// MarkRoomCompleted records a completion. No-op when unauthenticated or
// already completed; deferred when authoritative progress has not
// loaded yet. Failures roll back the in-flight marker so the caller can
// retry.
func (t *ProgressTracker) MarkRoomCompleted(ctx context.Context, roomID string) error {
	if t.email == "" {
		log.Printf("progress: not authenticated, ignoring completion of %s", roomID)
		return nil
	}

	t.mu.Lock()
	if !t.loaded {
		t.mu.Unlock()
		log.Printf("progress: data not loaded yet, deferring completion of %s", roomID)
		t.park(roomID)
		return nil
	}
	if t.processed[roomID] {
		t.mu.Unlock()
		return nil
	}
	if t.completedSet[roomID] {
		// Already completed; remember it to suppress future calls.
		t.processed[roomID] = true
		t.mu.Unlock()
		return nil
	}
	// Register before the write so concurrent calls for the same room
	// don't double-issue.
	t.processed[roomID] = true
	t.mu.Unlock()

	if _, err := t.api.MarkProgress(ctx, roomID); err != nil {
		t.mu.Lock()
		delete(t.processed, roomID)
		t.mu.Unlock()
		return err
	}

	t.mu.Lock()
	t.merge(roomID)
	snapshot := append([]string(nil), t.completed...)
	t.mu.Unlock()
	t.saveMirror(snapshot)

	// Refetch so local state converges with the server's view.
	go func() {
		if progress, err := t.api.Progress(context.Background()); err == nil {
			t.setAuthoritative(progress)
		}
	}()

	return nil
}

// IsRoomCompleted reports completion per the locally-merged state.
func (t *ProgressTracker) IsRoomCompleted(roomID string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.completedSet[roomID]
}

// Completed returns the completion set in insertion order.
func (t *ProgressTracker) Completed() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]string(nil), t.completed...)
}

// Percent is the derived 0-100 completion percentage.
func (t *ProgressTracker) Percent() int {
	return models.ProgressPercent(t.Completed())
}

// Loaded reports whether authoritative progress has arrived.
func (t *ProgressTracker) Loaded() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.loaded
}

// Progress returns the full client-side view.
func (t *ProgressTracker) Progress() models.UserProgress {
	completed := t.Completed()
	return models.UserProgress{
		CompletedRooms:  completed,
		CurrentProgress: models.ProgressPercent(completed),
		LastUpdated:     time.Now(),
	}
}

// park overwrites the pending slot: at most one deferred id, newest
// wins.
func (t *ProgressTracker) park(roomID string) {
	select {
	case t.pending <- roomID:
	default:
		select {
		case <-t.pending:
		default:
		}
		select {
		case t.pending <- roomID:
		default:
		}
	}
}

// drainPending retries the parked completion after the debounce delay,
// once authoritative data is available. Newer ids overwrite the slot at
// every wait point.
func (t *ProgressTracker) drainPending(ctx context.Context) {
	for {
		select {
		case <-t.stopChan:
			return
		case roomID := <-t.pending:
			for !t.Loaded() {
				select {
				case <-t.stopChan:
					return
				case newer := <-t.pending:
					roomID = newer
				case <-t.loadedCh:
				}
			}

			timer := time.NewTimer(t.debounce)
			for waiting := true; waiting; {
				select {
				case <-t.stopChan:
					timer.Stop()
					return
				case newer := <-t.pending:
					roomID = newer
				case <-timer.C:
					waiting = false
				}
			}

			if err := t.MarkRoomCompleted(ctx, roomID); err != nil {
				log.Printf("progress: deferred completion of %s failed: %v", roomID, err)
			}
		}
	}
}

// setAuthoritative replaces local state with the server's view,
// de-duplicated defensively since the store may append.
func (t *ProgressTracker) setAuthoritative(progress []string) {
	deduped := make([]string, 0, len(progress))
	set := make(map[string]bool, len(progress))
	for _, id := range progress {
		if set[id] {
			continue
		}
		set[id] = true
		deduped = append(deduped, id)
	}

	t.mu.Lock()
	t.completed = deduped
	t.completedSet = set
	t.loaded = true
	t.mu.Unlock()

	t.loadOnce.Do(func() { close(t.loadedCh) })
	t.saveMirror(deduped)
}

// merge is a set union: the id is appended only when absent.
func (t *ProgressTracker) merge(roomID string) {
	if t.completedSet[roomID] {
		return
	}
	t.completedSet[roomID] = true
	t.completed = append(t.completed, roomID)
}

func (t *ProgressTracker) seedFromMirror() {
	if t.mirror == nil || t.email == "" {
		return
	}

	var saved models.UserProgress
	found, err := t.mirror.Load(progressKey(t.email), &saved)
	if err != nil || !found {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.loaded {
		// Authoritative data won the race; the seed is stale.
		return
	}
	for _, id := range saved.CompletedRooms {
		if !t.completedSet[id] {
			t.completedSet[id] = true
			t.completed = append(t.completed, id)
		}
		// Mirrored rooms were already synced in a past session.
		t.processed[id] = true
	}
}

func (t *ProgressTracker) saveMirror(completed []string) {
	if t.mirror == nil || t.email == "" {
		return
	}
	t.mirror.Save(progressKey(t.email), models.UserProgress{
		CompletedRooms:  completed,
		CurrentProgress: models.ProgressPercent(completed),
		LastUpdated:     time.Now(),
	})
}
