package services

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"esenciafest-backend/internal/models"
	"esenciafest-backend/internal/repository"
)

const (
	statusCacheKey = "rooms:status"
	statusCacheTTL = 30 * time.Second

	// UpdatesChannel carries room-status change events to the WebSocket
	// hub via Redis pub/sub.
	UpdatesChannel = "rooms:updates"
)

// RoomUpdate is the pub/sub event published when an admin mutates a room
// or a schedule elapses.
type RoomUpdate struct {
	Type   string `json:"type"`
	RoomID string `json:"roomId"`
}

const (
	UpdateOverrideChanged = "override_changed"
	UpdateScheduleChanged = "schedule_changed"
	UpdateRoomOpened      = "room_opened"
)

type RoomsService struct {
	roomRepo *repository.RoomRepo
	cache    *redis.Client
	pubsub   *redis.Client
}

func NewRoomsService(roomRepo *repository.RoomRepo, cache, pubsub *redis.Client) *RoomsService {
	return &RoomsService{roomRepo: roomRepo, cache: cache, pubsub: pubsub}
}

// Status returns the batched status of all rooms. Results are cached for
// 30 seconds, matching the clients' polling interval. When the table is
// empty the registry defaults are returned, and persisted when seed is
// set (?seed=true).
func (s *RoomsService) Status(ctx context.Context, seed bool) (models.StatusMap, error) {
	if cached, err := s.cache.Get(ctx, statusCacheKey).Result(); err == nil {
		var statuses models.StatusMap
		if err := json.Unmarshal([]byte(cached), &statuses); err == nil {
			return statuses, nil
		}
	}

	statuses, err := s.roomRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	if len(statuses) == 0 {
		if seed {
			if err := s.roomRepo.Seed(ctx); err != nil {
				return nil, err
			}
			statuses, err = s.roomRepo.GetAll(ctx)
			if err != nil {
				return nil, err
			}
		} else {
			statuses = defaultStatuses()
		}
	}

	if payload, err := json.Marshal(statuses); err == nil {
		s.cache.Set(ctx, statusCacheKey, payload, statusCacheTTL)
	}

	return statuses, nil
}

// SetOverride forces a room open or closed, or clears the override when
// nil. Override validation happens at the handler; this enforces room
// existence.
func (s *RoomsService) SetOverride(ctx context.Context, roomID string, override *string) error {
	if err := s.requireRoom(ctx, roomID); err != nil {
		return err
	}
	if err := s.roomRepo.SetOverride(ctx, roomID, override); err != nil {
		return err
	}
	s.invalidate(ctx)
	s.publish(ctx, RoomUpdate{Type: UpdateOverrideChanged, RoomID: roomID})
	return nil
}

func (s *RoomsService) SetSchedule(ctx context.Context, roomID string, openAt time.Time) error {
	if err := s.requireRoom(ctx, roomID); err != nil {
		return err
	}
	if err := s.roomRepo.SetSchedule(ctx, roomID, openAt); err != nil {
		return err
	}
	s.invalidate(ctx)
	s.publish(ctx, RoomUpdate{Type: UpdateScheduleChanged, RoomID: roomID})
	return nil
}

// AnnounceOpened publishes the one-shot room_opened event used by the
// scheduler when a schedule elapses.
func (s *RoomsService) AnnounceOpened(ctx context.Context, roomID string) {
	s.publish(ctx, RoomUpdate{Type: UpdateRoomOpened, RoomID: roomID})
}

func (s *RoomsService) requireRoom(ctx context.Context, roomID string) error {
	exists, err := s.roomRepo.Exists(ctx, roomID)
	if err != nil {
		return err
	}
	if !exists {
		return &NotFoundError{Code: models.ErrCodeRoomNotFound, Message: "Room not found"}
	}
	return nil
}

func (s *RoomsService) invalidate(ctx context.Context) {
	s.cache.Del(ctx, statusCacheKey)
}

func (s *RoomsService) publish(ctx context.Context, update RoomUpdate) {
	payload, err := json.Marshal(update)
	if err != nil {
		return
	}
	if err := s.pubsub.Publish(ctx, UpdatesChannel, payload).Err(); err != nil {
		log.Printf("rooms: failed to publish %s for %s: %v", update.Type, update.RoomID, err)
	}
}

// defaultStatuses covers every registry room so clients that fail
// closed on absent ids never see transversal rooms as locked. Only the
// interactive rooms carry a schedule.
func defaultStatuses() models.StatusMap {
	schedule := models.DefaultSchedule()
	statuses := make(models.StatusMap, len(models.InteractiveRooms)+len(models.TransversalRooms))
	for _, room := range models.InteractiveRooms {
		openAt := schedule[room.ID]
		statuses[room.ID] = models.RoomStatus{OpenAt: &openAt}
	}
	for _, room := range models.TransversalRooms {
		statuses[room.ID] = models.RoomStatus{}
	}
	return statuses
}
