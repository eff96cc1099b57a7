// Package auth handles credential checks and bearer tokens carrying the
// user's role, which the credit rules depend on.
package auth

import (
	"time"

	"github.com/medina-negoce/medina-erp/internal/shared"
)

// User is an account that can sign in.
type User struct {
	ID           int64       `json:"id"`
	Email        string      `json:"email"`
	Nom          string      `json:"nom"`
	Role         shared.Role `json:"role"`
	PasswordHash string      `json:"-"`
	IsActive     bool        `json:"is_active"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	User      *User     `json:"user"`
}
