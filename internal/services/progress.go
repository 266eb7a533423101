package services

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"

	"esenciafest-backend/internal/models"
	"esenciafest-backend/internal/repository"
)

type ProgressService struct {
	progressRepo *repository.ProgressRepo
	userRepo     *repository.UserRepo
	queue        *redis.Client
}

func NewProgressService(progressRepo *repository.ProgressRepo, userRepo *repository.UserRepo, queue *redis.Client) *ProgressService {
	return &ProgressService{
		progressRepo: progressRepo,
		userRepo:     userRepo,
		queue:        queue,
	}
}

// Get returns the completed room ids for the user, in completion order.
func (s *ProgressService) Get(ctx context.Context, email string) ([]string, error) {
	if _, err := s.userRepo.GetByEmail(ctx, email); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &NotFoundError{Code: models.ErrCodeUserNotFound, Message: "User not found"}
		}
		return nil, err
	}
	return s.progressRepo.GetByEmail(ctx, email)
}

// Mark records a room completion. Storage enforces uniqueness, so
// repeated marks are harmless. An activity-log job is queued only for
// first-time completions.
func (s *ProgressService) Mark(ctx context.Context, email, roomID string) error {
	if _, ok := models.RoomByID(roomID); !ok {
		return &NotFoundError{Code: models.ErrCodeRoomNotFound, Message: "Room not found"}
	}

	inserted, err := s.progressRepo.Mark(ctx, email, roomID)
	if err != nil {
		return err
	}

	if inserted {
		s.enqueueActivity(ctx, email, roomID)
	}
	return nil
}

func (s *ProgressService) enqueueActivity(ctx context.Context, email, roomID string) {
	job := models.Job{
		ID:        uuid.New(),
		Type:      models.JobTypeActivityLog,
		UserEmail: email,
		RoomID:    roomID,
		CreatedAt: time.Now(),
	}
	payload, err := json.Marshal(job)
	if err != nil {
		return
	}
	s.queue.RPush(ctx, models.QueueActivityLog, payload)
}
