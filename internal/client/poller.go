package client

import (
	"context"
	"log"
	"sync"
	"time"

	"esenciafest-backend/internal/models"
)

// DefaultPollInterval is how often room status is refreshed.
const DefaultPollInterval = 30 * time.Second

// StatusPoller keeps a periodically-refreshed copy of the room status
// map. A failed refresh keeps the last good snapshot so availability
// checks degrade to stale data instead of locking everything.
type StatusPoller struct {
	api      *APIClient
	interval time.Duration

	mu       sync.RWMutex
	statuses models.StatusMap
	lastSync time.Time
	lastErr  error

	stopChan chan struct{}
	stopOnce sync.Once
}

func NewStatusPoller(api *APIClient) *StatusPoller {
	return &StatusPoller{
		api:      api,
		interval: DefaultPollInterval,
		statuses: make(models.StatusMap),
		stopChan: make(chan struct{}),
	}
}

// Start refreshes immediately, then on every tick until Stop.
func (p *StatusPoller) Start(ctx context.Context) {
	go func() {
		p.refresh(ctx)

		ticker := time.NewTicker(p.interval)
		defer ticker.Stop()

		for {
			select {
			case <-p.stopChan:
				return
			case <-ctx.Done():
				return
			case <-ticker.C:
				p.refresh(ctx)
			}
		}
	}()
}

func (p *StatusPoller) Stop() {
	p.stopOnce.Do(func() { close(p.stopChan) })
}

// Refresh forces a fetch outside the regular cadence.
func (p *StatusPoller) Refresh(ctx context.Context) error {
	return p.refresh(ctx)
}

// Statuses returns a copy of the current snapshot.
func (p *StatusPoller) Statuses() models.StatusMap {
	p.mu.RLock()
	defer p.mu.RUnlock()

	out := make(models.StatusMap, len(p.statuses))
	for id, status := range p.statuses {
		out[id] = status
	}
	return out
}

// RoomAvailable resolves a room's availability against the snapshot.
// Unknown rooms are locked.
func (p *StatusPoller) RoomAvailable(roomID string, now time.Time) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return RoomAvailable(p.statuses, roomID, now)
}

// LastSync is the time of the last successful refresh, zero if none.
func (p *StatusPoller) LastSync() time.Time {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.lastSync
}

// Err is the error from the most recent refresh attempt, nil when it
// succeeded.
func (p *StatusPoller) Err() error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.lastErr
}

func (p *StatusPoller) refresh(ctx context.Context) error {
	statuses, err := p.api.RoomStatuses(ctx)

	p.mu.Lock()
	defer p.mu.Unlock()

	p.lastErr = err
	if err != nil {
		log.Printf("poller: status refresh failed, keeping snapshot from %s: %v", p.lastSync.Format(time.RFC3339), err)
		return err
	}

	p.statuses = statuses
	p.lastSync = time.Now()
	return nil
}
