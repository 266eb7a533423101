package client

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// DefaultSaveDebounce coalesces rapid Save calls before touching disk.
const DefaultSaveDebounce = 500 * time.Millisecond

// Mirror is the local persistence cache: a SQLite-backed key-value
// store holding copies of progress and room state for offline and
// optimistic startup. It is never authoritative; whatever the server
// sends later overwrites it.
type Mirror struct {
	db *sql.DB

	mu      sync.Mutex
	pending map[string][]byte
	timer   *time.Timer
	delay   time.Duration
	closed  bool
}

func OpenMirror(path string) (*Mirror, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open mirror: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS kv (
			key        TEXT PRIMARY KEY,
			value      BLOB NOT NULL,
			updated_at INTEGER NOT NULL
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize mirror: %w", err)
	}

	return &Mirror{
		db:      db,
		pending: make(map[string][]byte),
		delay:   DefaultSaveDebounce,
	}, nil
}

// Save schedules a debounced write. Values are JSON-encoded; encoding
// failures are logged and dropped, never fatal to the caller.
func (m *Mirror) Save(key string, value interface{}) {
	payload, err := json.Marshal(value)
	if err != nil {
		log.Printf("mirror: failed to encode %s: %v", key, err)
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return
	}

	m.pending[key] = payload
	if m.timer != nil {
		m.timer.Stop()
	}
	m.timer = time.AfterFunc(m.delay, m.flushPending)
}

// Load reads a key into dst. The bool reports presence.
func (m *Mirror) Load(key string, dst interface{}) (bool, error) {
	// Serve pending writes first so Save-then-Load is consistent even
	// inside the debounce window.
	m.mu.Lock()
	payload, pending := m.pending[key]
	m.mu.Unlock()

	if !pending {
		var value []byte
		err := m.db.QueryRow("SELECT value FROM kv WHERE key = ?", key).Scan(&value)
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		if err != nil {
			return false, err
		}
		payload = value
	}

	if err := json.Unmarshal(payload, dst); err != nil {
		return false, err
	}
	return true, nil
}

func (m *Mirror) Delete(key string) error {
	m.mu.Lock()
	delete(m.pending, key)
	m.mu.Unlock()

	_, err := m.db.Exec("DELETE FROM kv WHERE key = ?", key)
	return err
}

// Flush writes any pending values immediately.
func (m *Mirror) Flush() {
	m.mu.Lock()
	if m.timer != nil {
		m.timer.Stop()
		m.timer = nil
	}
	m.mu.Unlock()

	m.flushPending()
}

func (m *Mirror) Close() error {
	m.Flush()

	m.mu.Lock()
	m.closed = true
	m.mu.Unlock()

	return m.db.Close()
}

func (m *Mirror) flushPending() {
	m.mu.Lock()
	if len(m.pending) == 0 {
		m.mu.Unlock()
		return
	}
	batch := m.pending
	m.pending = make(map[string][]byte)
	m.mu.Unlock()

	now := time.Now().Unix()
	for key, value := range batch {
		_, err := m.db.Exec(`
			INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
			ON CONFLICT (key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
			key, value, now,
		)
		if err != nil {
			log.Printf("mirror: failed to persist %s: %v", key, err)
		}
	}
}

// Storage keys, namespaced by user email so stale state never leaks
// across accounts on a shared machine.

func progressKey(email string) string {
	return "user_progress_" + email
}

func roomsStateKey(email string) string {
	return "rooms_state_" + email
}
