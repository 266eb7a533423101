package models

import (
	"time"

	"github.com/google/uuid"
)

// Job is a unit of background work pushed onto the Redis queues and
// consumed by the worker pool.
type Job struct {
	ID        uuid.UUID `json:"id"`
	Type      string    `json:"type"`
	UserEmail string    `json:"user_email"`
	UserName  string    `json:"user_name,omitempty"`
	RoomID    string    `json:"room_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

const (
	JobTypeActivityLog  = "activity_log"
	JobTypeWelcomeEmail = "welcome_email"
)

// Queue names, one per job type so workers can BLPOP across all of them.
const (
	QueueActivityLog  = "queue:activity-log"
	QueueWelcomeEmail = "queue:welcome-email"
)
