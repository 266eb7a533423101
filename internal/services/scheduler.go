package services

import (
	"context"
	"log"
	"time"

	"esenciafest-backend/internal/models"
	"esenciafest-backend/internal/repository"
)

const (
	openingPollInterval = 30 * time.Second
	purgePollInterval   = 24 * time.Hour
)

// Scheduler announces rooms whose opening time has elapsed and purges
// expired activity-log rows.
type Scheduler struct {
	rooms        *RoomsService
	progressRepo *repository.ProgressRepo
	announced    map[string]bool
	stopChan     chan struct{}
}

func NewScheduler(rooms *RoomsService, progressRepo *repository.ProgressRepo) *Scheduler {
	return &Scheduler{
		rooms:        rooms,
		progressRepo: progressRepo,
		announced:    make(map[string]bool),
		stopChan:     make(chan struct{}),
	}
}

func (s *Scheduler) Start() {
	go s.loop(openingPollInterval, s.announceOpenings)
	go s.loop(purgePollInterval, s.purgeActivity)

	log.Printf("Scheduler started")
}

func (s *Scheduler) Stop() {
	select {
	case <-s.stopChan:
		return
	default:
		close(s.stopChan)
	}
}

func (s *Scheduler) loop(interval time.Duration, runFn func(ctx context.Context, now time.Time)) {
	// Run on startup as well as by interval.
	runFn(context.Background(), time.Now().UTC())

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopChan:
			return
		case <-ticker.C:
			runFn(context.Background(), time.Now().UTC())
		}
	}
}

// announceOpenings publishes room_opened once per room when its schedule
// elapses with no closing override in place.
func (s *Scheduler) announceOpenings(ctx context.Context, now time.Time) {
	statuses, err := s.rooms.Status(ctx, false)
	if err != nil {
		log.Printf("scheduler: failed to load room statuses: %v", err)
		return
	}

	for roomID, status := range statuses {
		if s.announced[roomID] {
			continue
		}
		if status.OpenAt == nil || now.Before(*status.OpenAt) {
			continue
		}
		if status.ManualOverride != nil && *status.ManualOverride == models.OverrideClosed {
			continue
		}
		s.announced[roomID] = true
		s.rooms.AnnounceOpened(ctx, roomID)
		log.Printf("scheduler: room %s opened", roomID)
	}
}

func (s *Scheduler) purgeActivity(ctx context.Context, now time.Time) {
	cutoff := now.Add(-models.ActivityRetention)
	purged, err := s.progressRepo.PurgeActivityBefore(ctx, cutoff)
	if err != nil {
		log.Printf("scheduler: activity purge failed: %v", err)
		return
	}
	if purged > 0 {
		log.Printf("scheduler: purged %d expired activity entries", purged)
	}
}
