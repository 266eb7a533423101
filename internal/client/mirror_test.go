package client

import (
	"path/filepath"
	"testing"
	"time"

	"esenciafest-backend/internal/models"
)

func newTestMirror(t *testing.T) *Mirror {
	t.Helper()

	mirror, err := OpenMirror(filepath.Join(t.TempDir(), "mirror.db"))
	if err != nil {
		t.Fatalf("Failed to open mirror: %v", err)
	}
	t.Cleanup(func() { mirror.Close() })
	return mirror
}

func TestMirror_SaveLoadRoundTrip(t *testing.T) {
	mirror := newTestMirror(t)

	saved := models.UserProgress{
		CompletedRooms:  []string{"sala1", "sala3"},
		CurrentProgress: 40,
		LastUpdated:     time.Date(2025, 8, 18, 12, 0, 0, 0, time.UTC),
	}
	mirror.Save(progressKey("ana@example.com"), saved)

	// Readable inside the debounce window, before anything hits disk.
	var loaded models.UserProgress
	found, err := mirror.Load(progressKey("ana@example.com"), &loaded)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !found {
		t.Fatal("Expected pending value to be found")
	}
	if len(loaded.CompletedRooms) != 2 || loaded.CurrentProgress != 40 {
		t.Errorf("Round trip mismatch: %+v", loaded)
	}

	// And after an explicit flush.
	mirror.Flush()
	loaded = models.UserProgress{}
	found, err = mirror.Load(progressKey("ana@example.com"), &loaded)
	if err != nil || !found {
		t.Fatalf("Load after flush: found=%v err=%v", found, err)
	}
	if loaded.CompletedRooms[1] != "sala3" {
		t.Errorf("Expected sala3, got %v", loaded.CompletedRooms)
	}
}

func TestMirror_MissingKey(t *testing.T) {
	mirror := newTestMirror(t)

	var dst models.UserProgress
	found, err := mirror.Load("user_progress_nobody@example.com", &dst)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if found {
		t.Error("Expected missing key to report absent")
	}
}

func TestMirror_KeysAreNamespacedByEmail(t *testing.T) {
	mirror := newTestMirror(t)

	mirror.Save(progressKey("a@example.com"), models.UserProgress{CompletedRooms: []string{"sala1"}})
	mirror.Save(progressKey("b@example.com"), models.UserProgress{CompletedRooms: []string{"sala5"}})
	mirror.Flush()

	var a, b models.UserProgress
	if found, _ := mirror.Load(progressKey("a@example.com"), &a); !found {
		t.Fatal("Expected a's progress")
	}
	if found, _ := mirror.Load(progressKey("b@example.com"), &b); !found {
		t.Fatal("Expected b's progress")
	}
	if a.CompletedRooms[0] != "sala1" || b.CompletedRooms[0] != "sala5" {
		t.Errorf("State leaked across accounts: a=%v b=%v", a.CompletedRooms, b.CompletedRooms)
	}
}

func TestMirror_DebounceCoalescesWrites(t *testing.T) {
	mirror := newTestMirror(t)
	mirror.delay = 20 * time.Millisecond

	for i := 0; i < 5; i++ {
		mirror.Save("rooms_state_a@example.com", map[string]int{"version": i})
	}

	time.Sleep(60 * time.Millisecond)

	var state map[string]int
	found, err := mirror.Load("rooms_state_a@example.com", &state)
	if err != nil || !found {
		t.Fatalf("Load: found=%v err=%v", found, err)
	}
	if state["version"] != 4 {
		t.Errorf("Expected last write to win, got version %d", state["version"])
	}
}

func TestMirror_Delete(t *testing.T) {
	mirror := newTestMirror(t)

	mirror.Save(progressKey("a@example.com"), models.UserProgress{CompletedRooms: []string{"sala1"}})
	mirror.Flush()

	if err := mirror.Delete(progressKey("a@example.com")); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	var dst models.UserProgress
	found, _ := mirror.Load(progressKey("a@example.com"), &dst)
	if found {
		t.Error("Expected key to be gone after delete")
	}
}
