package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"esenciafest-backend/internal/models"
)

type ProgressRepo struct {
	pool *pgxpool.Pool
}

func NewProgressRepo(pool *pgxpool.Pool) *ProgressRepo {
	return &ProgressRepo{pool: pool}
}

// GetByEmail returns completed room ids in completion order.
func (r *ProgressRepo) GetByEmail(ctx context.Context, email string) ([]string, error) {
	rows, err := r.pool.Query(ctx,
		"SELECT room_id FROM user_progress WHERE user_email = $1 ORDER BY completed_at",
		email,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	progress := make([]string, 0)
	for rows.Next() {
		var roomID string
		if err := rows.Scan(&roomID); err != nil {
			return nil, err
		}
		progress = append(progress, roomID)
	}

	return progress, rows.Err()
}

// Mark records a completion. The (user_email, room_id) primary key makes
// repeated marks a no-op; the return reports whether a row was inserted.
func (r *ProgressRepo) Mark(ctx context.Context, email, roomID string) (bool, error) {
	tag, err := r.pool.Exec(ctx, `
		INSERT INTO user_progress (user_email, room_id)
		VALUES ($1, $2)
		ON CONFLICT (user_email, room_id) DO NOTHING`,
		email, roomID,
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *ProgressRepo) LogActivity(ctx context.Context, entry *models.ActivityEntry) error {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	_, err := r.pool.Exec(ctx, `
		INSERT INTO activity_log (id, user_email, action, room_id, ts)
		VALUES ($1, $2, $3, $4, $5)`,
		entry.ID, entry.UserEmail, entry.Action, entry.RoomID, entry.Timestamp,
	)
	return err
}

// PurgeActivityBefore drops expired activity rows and reports how many
// went away.
func (r *ProgressRepo) PurgeActivityBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := r.pool.Exec(ctx, "DELETE FROM activity_log WHERE ts < $1", cutoff)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
