package client

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
)

// logoutTriggerName mirrors the browser clients, which broadcast logout
// by writing and immediately removing a shared storage key.
const logoutTriggerName = "auth_logout_trigger"

// logoutSeqName is the marker holding the nonce of the last broadcast.
// Watchers compare its content, so delivery does not depend on
// filesystem timestamp granularity.
const logoutSeqName = ".logout_seq"

// signalPollInterval is how often the watcher checks for a broadcast.
const signalPollInterval = 100 * time.Millisecond

// LogoutSignal broadcasts session invalidation across concurrent client
// instances sharing a state directory. The broadcast is write-then
// -remove: the trigger file exists only for an instant; a sequence
// marker records the broadcast's nonce and is what the watchers poll.
type LogoutSignal struct {
	dir string

	mu       sync.Mutex
	watchers []chan struct{}
	lastSeq  string
	stopChan chan struct{}
	stopOnce sync.Once
}

func NewLogoutSignal(dir string) (*LogoutSignal, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create signal directory: %w", err)
	}

	s := &LogoutSignal{
		dir:      dir,
		stopChan: make(chan struct{}),
	}

	// Broadcasts that happened before this instance existed are not
	// ours to observe.
	if seq, err := os.ReadFile(s.seqPath()); err == nil {
		s.lastSeq = string(seq)
	}

	return s, nil
}

// Broadcast notifies every other instance watching the same directory.
// The local instance is expected to tear down its own session directly.
func (s *LogoutSignal) Broadcast() error {
	// Hold the lock across the whole write so our own watcher cannot
	// observe the new nonce before lastSeq is advanced.
	s.mu.Lock()
	defer s.mu.Unlock()

	nonce := uuid.NewString()

	path := filepath.Join(s.dir, logoutTriggerName)
	if err := os.WriteFile(path, []byte(nonce), 0o644); err != nil {
		return fmt.Errorf("failed to write logout trigger: %w", err)
	}
	// Remove right away; the signal is the event, not the file.
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("failed to clear logout trigger: %w", err)
	}

	if err := os.WriteFile(s.seqPath(), []byte(nonce), 0o644); err != nil {
		return fmt.Errorf("failed to record logout sequence: %w", err)
	}
	s.lastSeq = nonce
	return nil
}

// Watch returns a channel that receives once per observed broadcast.
func (s *LogoutSignal) Watch() <-chan struct{} {
	ch := make(chan struct{}, 1)
	s.mu.Lock()
	s.watchers = append(s.watchers, ch)
	s.mu.Unlock()
	return ch
}

// Start begins polling for broadcasts from other instances.
func (s *LogoutSignal) Start() {
	go func() {
		ticker := time.NewTicker(signalPollInterval)
		defer ticker.Stop()

		for {
			select {
			case <-s.stopChan:
				return
			case <-ticker.C:
				s.check()
			}
		}
	}()
}

func (s *LogoutSignal) Stop() {
	s.stopOnce.Do(func() { close(s.stopChan) })
}

func (s *LogoutSignal) seqPath() string {
	return filepath.Join(s.dir, logoutSeqName)
}

func (s *LogoutSignal) check() {
	s.mu.Lock()
	seq, err := os.ReadFile(s.seqPath())
	if err != nil || string(seq) == s.lastSeq {
		s.mu.Unlock()
		return
	}
	s.lastSeq = string(seq)
	watchers := s.watchers
	s.mu.Unlock()

	for _, ch := range watchers {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}
