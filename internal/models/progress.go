package models

import (
	"math"
	"time"

	"github.com/google/uuid"
)

// UserProgress is the client-side view of a user's completions:
// room ids in completion order (unique), the derived percentage, and
// when the set last changed.
type UserProgress struct {
	CompletedRooms  []string  `json:"completedRooms"`
	CurrentProgress int       `json:"currentProgress"`
	LastUpdated     time.Time `json:"lastUpdated"`
}

// ProgressPercent computes the 0-100 completion percentage over the
// interactive rooms. The input is de-duplicated defensively and ids
// outside the registry's interactive set are ignored.
func ProgressPercent(completed []string) int {
	total := InteractiveRoomCount()
	if total == 0 {
		return 0
	}

	seen := make(map[string]bool, len(completed))
	count := 0
	for _, id := range completed {
		if seen[id] {
			continue
		}
		seen[id] = true
		if room, ok := RoomByID(id); ok && room.Type == RoomTypeInteractive {
			count++
		}
	}

	return int(math.Round(float64(count) / float64(total) * 100))
}

// ProgressResponse is the GET /user/progress body: completed room ids in
// completion order.
type ProgressResponse struct {
	Progress []string `json:"progress"`
}

// MarkProgressResponse is the PUT /user/progress/{roomId} body.
type MarkProgressResponse struct {
	Message string `json:"message"`
	RoomID  string `json:"roomId"`
}

// ActivityEntry is one row of the activity log. Entries are written
// asynchronously by the worker pool and retained for 90 days.
type ActivityEntry struct {
	ID        uuid.UUID `json:"id"`
	UserEmail string    `json:"user_email"`
	Action    string    `json:"action"`
	RoomID    string    `json:"room_id"`
	Timestamp time.Time `json:"timestamp"`
}

const ActivityRoomCompleted = "room_completed"

// ActivityRetention bounds how long activity rows are kept.
const ActivityRetention = 90 * 24 * time.Hour
