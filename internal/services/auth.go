package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"

	"esenciafest-backend/internal/middleware"
	"esenciafest-backend/internal/models"
	"esenciafest-backend/internal/repository"
)

type AuthService struct {
	userRepo     *repository.UserRepo
	progressRepo *repository.ProgressRepo
	queue        *redis.Client
	jwt          *middleware.JWTAuth
}

func NewAuthService(userRepo *repository.UserRepo, progressRepo *repository.ProgressRepo, queue *redis.Client, jwt *middleware.JWTAuth) *AuthService {
	return &AuthService{
		userRepo:     userRepo,
		progressRepo: progressRepo,
		queue:        queue,
		jwt:          jwt,
	}
}

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// Authenticate implements the passwordless flow: a known email logs in,
// an unknown email registers when the profile fields are present and
// fails with registration_required when they are not.
func (s *AuthService) Authenticate(ctx context.Context, req models.AuthRequest) (*models.AuthResponse, error) {
	if req.Email == "" || !emailRegex.MatchString(req.Email) {
		return nil, &ValidationError{Code: models.ErrCodeEmailRequired, Message: "Email is required"}
	}

	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}

		// Unknown email: registration path
		if req.Name == "" || req.Lastname == "" || req.Country == "" || req.Negocio == "" {
			return nil, &RegistrationRequiredError{}
		}

		user = &models.User{
			Email:    req.Email,
			Name:     req.Name,
			Lastname: req.Lastname,
			Country:  req.Country,
			Negocio:  req.Negocio,
		}
		if err := s.userRepo.Create(ctx, user); err != nil {
			return nil, err
		}

		s.enqueueWelcomeEmail(ctx, user)
	}

	s.userRepo.UpdateLastLogin(ctx, user.Email)

	progress, err := s.progressRepo.GetByEmail(ctx, user.Email)
	if err != nil {
		return nil, err
	}
	user.Progress = progress

	token, err := s.jwt.GenerateToken(user)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	return &models.AuthResponse{Token: token, User: *user}, nil
}

// AdminLogin verifies control-panel credentials and issues a role=admin
// token.
func (s *AuthService) AdminLogin(ctx context.Context, req models.AdminLoginRequest) (*models.AdminLoginResponse, error) {
	admin, err := s.userRepo.GetAdminByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &UnauthorizedError{Code: models.ErrCodeInvalidCredentials, Message: "Invalid email or password"}
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(req.Password)); err != nil {
		return nil, &UnauthorizedError{Code: models.ErrCodeInvalidCredentials, Message: "Invalid email or password"}
	}

	token, err := s.jwt.GenerateAdminToken(admin.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	return &models.AdminLoginResponse{Token: token, Email: admin.Email}, nil
}

// bcryptCost for the admin password hash.
const bcryptCost = 12

// EnsureAdmin bootstraps the control-panel account from configuration.
// A no-op when unconfigured or when the account already exists, so
// restarts never clobber a rotated password.
func (s *AuthService) EnsureAdmin(ctx context.Context, email, password string) error {
	if email == "" || password == "" {
		return nil
	}

	_, err := s.userRepo.GetAdminByEmail(ctx, email)
	if err == nil {
		return nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	admin := &models.AdminUser{Email: email, PasswordHash: string(hash)}
	if err := s.userRepo.CreateAdmin(ctx, admin); err != nil {
		return fmt.Errorf("failed to create admin account: %w", err)
	}
	return nil
}

// DeleteUser removes the authenticated attendee's profile, progress and
// activity.
func (s *AuthService) DeleteUser(ctx context.Context, email string) error {
	if _, err := s.userRepo.GetByEmail(ctx, email); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &NotFoundError{Code: models.ErrCodeUserNotFound, Message: "User not found"}
		}
		return err
	}
	return s.userRepo.Delete(ctx, email)
}

func (s *AuthService) enqueueWelcomeEmail(ctx context.Context, user *models.User) {
	job := models.Job{
		ID:        uuid.New(),
		Type:      models.JobTypeWelcomeEmail,
		UserEmail: user.Email,
		UserName:  user.Name,
		CreatedAt: time.Now(),
	}
	payload, err := json.Marshal(job)
	if err != nil {
		return
	}
	s.queue.RPush(ctx, models.QueueWelcomeEmail, payload)
}
