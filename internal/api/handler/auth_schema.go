package handler

import (
	"time"

	"github.com/discoteque/discoteque-api/internal/core/domain"
)

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Request / Response types ---

type registerRequest struct {
	// ID is optional; only used to reject a candidate whose id is taken.
	ID       int64  `json:"id"       validate:"gte=0"`
	Username string `json:"username" validate:"required,max=100"`
	Email    string `json:"email"    validate:"required,email,max=100"`
	Password string `json:"password" validate:"required"`
	Role     string `json:"role"     validate:"omitempty,oneof=User Admin"`
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type authResponse struct {
	Token        string    `json:"token"`
	RefreshToken string    `json:"refresh_token"`
	Username     string    `json:"username"`
	ExpiresAt    time.Time `json:"expires_at"`
}

func toAuthResponse(r *domain.AuthResponse) authResponse {
	return authResponse{
		Token:        r.Token,
		RefreshToken: r.RefreshToken,
		Username:     r.Username,
		ExpiresAt:    r.ExpiresAt,
	}
}

type userResponse struct {
	ID          int64      `json:"id"`
	Username    string     `json:"username"`
	Email       string     `json:"email"`
	Role        string     `json:"role"`
	CreatedAt   time.Time  `json:"created_at"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
}

func toUserResponse(u *domain.User) userResponse {
	return userResponse{
		ID:          u.ID,
		Username:    u.Username,
		Email:       u.Email,
		Role:        string(u.Role),
		CreatedAt:   u.CreatedAt,
		LastLoginAt: u.LastLoginAt,
	}
}

type meResponse struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// roleOrDefault maps an omitted role to User.
func roleOrDefault(role string) domain.Role {
	if role == "" {
		return domain.RoleUser
	}
	return domain.Role(role)
}
