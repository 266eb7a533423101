package client

import (
	"fmt"
	"time"

	"esenciafest-backend/internal/models"
)

// Available resolves whether a room is open at now. Strict precedence,
// first match wins: manual override, then schedule, then open by
// default. Pure and total over well-formed input.
func Available(status models.RoomStatus, now time.Time) bool {
	if status.ManualOverride != nil {
		switch *status.ManualOverride {
		case models.OverrideOpen:
			return true
		case models.OverrideClosed:
			return false
		}
	}

	if status.OpenAt != nil {
		return !now.Before(*status.OpenAt)
	}

	return true
}

// RoomAvailable resolves availability by id against a status map.
// Unknown rooms are locked: fail closed for navigation.
func RoomAvailable(statuses models.StatusMap, roomID string, now time.Time) bool {
	status, ok := statuses[roomID]
	if !ok {
		return false
	}
	return Available(status, now)
}

// Countdown renders the time remaining until a scheduled opening.
// Coarse day-based text beyond 24 hours, fine h/m/s text under it.
// The second return is false when no countdown applies (room already
// open, overridden, or unscheduled).
func Countdown(status models.RoomStatus, now time.Time) (string, bool) {
	if Available(status, now) || status.OpenAt == nil {
		return "", false
	}
	if status.ManualOverride != nil && *status.ManualOverride == models.OverrideClosed {
		return "", false
	}

	remaining := status.OpenAt.Sub(now)
	if remaining <= 0 {
		return "", false
	}

	if remaining > 24*time.Hour {
		days := int(remaining / (24 * time.Hour))
		hours := int(remaining % (24 * time.Hour) / time.Hour)
		return fmt.Sprintf("%dd %dh", days, hours), true
	}

	hours := int(remaining / time.Hour)
	minutes := int(remaining % time.Hour / time.Minute)
	seconds := int(remaining % time.Minute / time.Second)
	return fmt.Sprintf("%02dh %02dm %02ds", hours, minutes, seconds), true
}
