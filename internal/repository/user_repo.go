package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"esenciafest-backend/internal/models"
)

type UserRepo struct {
	pool *pgxpool.Pool
}

func NewUserRepo(pool *pgxpool.Pool) *UserRepo {
	return &UserRepo{pool: pool}
}

func (r *UserRepo) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (email, name, lastname, country, negocio, role, position)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at`

	return r.pool.QueryRow(ctx, query,
		user.Email, user.Name, user.Lastname, user.Country, user.Negocio, user.Role, user.Position,
	).Scan(&user.CreatedAt)
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	user := &models.User{}
	query := `SELECT email, name, lastname, country, negocio, role, position, created_at, last_login_at
		FROM users WHERE email = $1`

	err := r.pool.QueryRow(ctx, query, email).Scan(
		&user.Email, &user.Name, &user.Lastname, &user.Country, &user.Negocio,
		&user.Role, &user.Position, &user.CreatedAt, &user.LastLoginAt,
	)
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (r *UserRepo) UpdateLastLogin(ctx context.Context, email string) error {
	_, err := r.pool.Exec(ctx, "UPDATE users SET last_login_at = $1 WHERE email = $2", time.Now(), email)
	return err
}

// Delete removes the profile. Progress and activity rows go with it via
// ON DELETE CASCADE.
func (r *UserRepo) Delete(ctx context.Context, email string) error {
	_, err := r.pool.Exec(ctx, "DELETE FROM users WHERE email = $1", email)
	return err
}

func (r *UserRepo) GetAdminByEmail(ctx context.Context, email string) (*models.AdminUser, error) {
	admin := &models.AdminUser{}
	query := `SELECT id, email, password_hash, created_at FROM admin_users WHERE email = $1`

	err := r.pool.QueryRow(ctx, query, email).Scan(
		&admin.ID, &admin.Email, &admin.PasswordHash, &admin.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return admin, nil
}

func (r *UserRepo) CreateAdmin(ctx context.Context, admin *models.AdminUser) error {
	admin.ID = uuid.New()
	query := `
		INSERT INTO admin_users (id, email, password_hash)
		VALUES ($1, $2, $3)
		RETURNING created_at`

	return r.pool.QueryRow(ctx, query, admin.ID, admin.Email, admin.PasswordHash).Scan(&admin.CreatedAt)
}
