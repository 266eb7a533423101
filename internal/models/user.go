package models

import (
	"time"

	"github.com/google/uuid"
)

// User is an attendee profile, keyed by email. Attendee auth is
// passwordless: knowing a registered email is enough to receive a token.
type User struct {
	Email       string     `json:"email"`
	Name        string     `json:"name"`
	Lastname    string     `json:"lastname"`
	Country     string     `json:"country"`
	Negocio     string     `json:"negocio"`
	Role        string     `json:"role"`
	Position    string     `json:"position"`
	Progress    []string   `json:"progress"`
	CreatedAt   time.Time  `json:"-"`
	LastLoginAt *time.Time `json:"-"`
}

// AdminUser authenticates with a password and receives a role=admin token.
type AdminUser struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// AuthRequest is the POST /auth body. Email alone logs in an existing
// user; the remaining fields are required to register a new one.
type AuthRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Lastname string `json:"lastname"`
	Country  string `json:"country"`
	Negocio  string `json:"negocio"`
}

// AuthResponse carries the issued token plus the user payload the client
// seeds its session from.
type AuthResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

type AdminLoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AdminLoginResponse struct {
	Token string `json:"token"`
	Email string `json:"email"`
}
