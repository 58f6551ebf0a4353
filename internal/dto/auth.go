package dto

import (
	"regexp"
	"strings"
	"time"

	"github.com/ahmad-hanafi1/product-store-pern/internal/domain"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// RegisterRequest represents registration request
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Normalize trims the email
func (r *RegisterRequest) Normalize() {
	r.Email = strings.TrimSpace(r.Email)
}

// Validate checks required fields and returns a caller-facing message
func (r *RegisterRequest) Validate() (bool, string) {
	return validateCredentials(r.Email, r.Password)
}

// LoginRequest represents login request
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Normalize trims the email
func (r *LoginRequest) Normalize() {
	r.Email = strings.TrimSpace(r.Email)
}

// Validate checks required fields and returns a caller-facing message
func (r *LoginRequest) Validate() (bool, string) {
	return validateCredentials(r.Email, r.Password)
}

func validateCredentials(email, password string) (bool, string) {
	if email == "" || password == "" {
		return false, "Please provide email and password"
	}
	if !emailRegex.MatchString(email) {
		return false, "Invalid email format"
	}
	return true, ""
}

// TokenResponse is returned by register and login
type TokenResponse struct {
	Token string `json:"token"`
}

// UserResponse represents user data in response
type UserResponse struct {
	ID               string `json:"id"`
	Email            string `json:"email"`
	SubscriptionTier string `json:"subscription_tier"`
	CreatedAt        string `json:"created_at"`
}

// NewUserResponse converts a user entity for output
func NewUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		ID:               u.ID,
		Email:            u.Email,
		SubscriptionTier: string(u.SubscriptionTier),
		CreatedAt:        u.CreatedAt.UTC().Format(time.RFC3339),
	}
}
