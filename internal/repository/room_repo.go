package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"esenciafest-backend/internal/models"
)

type RoomRepo struct {
	pool *pgxpool.Pool
}

func NewRoomRepo(pool *pgxpool.Pool) *RoomRepo {
	return &RoomRepo{pool: pool}
}

// GetAll returns the status of every room, keyed by room id.
func (r *RoomRepo) GetAll(ctx context.Context) (models.StatusMap, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, open_at, manual_override, vimeo_url, content FROM rooms`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	statuses := make(models.StatusMap)
	for rows.Next() {
		var id string
		var status models.RoomStatus
		if err := rows.Scan(&id, &status.OpenAt, &status.ManualOverride, &status.VimeoURL, &status.Content); err != nil {
			return nil, err
		}
		statuses[id] = status
	}

	return statuses, rows.Err()
}

func (r *RoomRepo) Count(ctx context.Context) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM rooms").Scan(&count)
	return count, err
}

func (r *RoomRepo) Exists(ctx context.Context, roomID string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, "SELECT EXISTS(SELECT 1 FROM rooms WHERE id = $1)", roomID).Scan(&exists)
	return exists, err
}

// Seed inserts every registry room that is not already present.
// Interactive rooms get the default opening schedule; transversal rooms
// carry no schedule and are open by default.
func (r *RoomRepo) Seed(ctx context.Context) error {
	schedule := models.DefaultSchedule()
	for _, room := range models.AllRooms() {
		var openAt *time.Time
		if t, ok := schedule[room.ID]; ok {
			openAt = &t
		}
		_, err := r.pool.Exec(ctx, `
			INSERT INTO rooms (id, open_at, manual_override)
			VALUES ($1, $2, NULL)
			ON CONFLICT (id) DO NOTHING`,
			room.ID, openAt,
		)
		if err != nil {
			return err
		}
	}
	return nil
}

// SetOverride updates the manual override. A nil override clears it and
// hands availability back to the schedule.
func (r *RoomRepo) SetOverride(ctx context.Context, roomID string, override *string) error {
	_, err := r.pool.Exec(ctx,
		"UPDATE rooms SET manual_override = $1, updated_at = NOW() WHERE id = $2",
		override, roomID,
	)
	return err
}

func (r *RoomRepo) SetSchedule(ctx context.Context, roomID string, openAt time.Time) error {
	_, err := r.pool.Exec(ctx,
		"UPDATE rooms SET open_at = $1, updated_at = NOW() WHERE id = $2",
		openAt, roomID,
	)
	return err
}
