package domain

import (
	"fmt"
	"time"
)

// Role is the authorization level carried by a user and its signed tokens.
type Role string

const (
	RoleUser  Role = "User"
	RoleAdmin Role = "Admin"
)

const (
	MaxUsernameLength = 100
	MaxEmailLength    = 100
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// User models a credential-bearing identity.
type User struct {
	ID                 int64      `json:"id"`
	Username           string     `json:"username"`
	Email              string     `json:"email"`
	PasswordHash       string     `json:"-"`
	RefreshToken       *string    `json:"-"`
	RefreshTokenExpiry *time.Time `json:"-"`
	CreatedAt          time.Time  `json:"created_at"`
	LastLoginAt        *time.Time `json:"last_login_at,omitempty"`
	Role               Role       `json:"role"`
}

// Validate checks the field invariants a user must hold before it is persisted.
func (u *User) Validate() error {
	switch {
	case u.Username == "" || len(u.Username) > MaxUsernameLength:
		return fmt.Errorf("%w: username must be 1-%d characters", ErrInvalidUser, MaxUsernameLength)
	case u.Email == "" || len(u.Email) > MaxEmailLength:
		return fmt.Errorf("%w: email must be 1-%d characters", ErrInvalidUser, MaxEmailLength)
	case u.PasswordHash == "":
		return fmt.Errorf("%w: password hash is required", ErrInvalidUser)
	case !u.Role.Valid():
		return fmt.Errorf("%w: role must be %s or %s", ErrInvalidUser, RoleUser, RoleAdmin)
	case (u.RefreshToken == nil) != (u.RefreshTokenExpiry == nil):
		return fmt.Errorf("%w: refresh token and expiry must be set together", ErrInvalidUser)
	}
	return nil
}

// SetRefreshToken replaces the refresh token pair.
func (u *User) SetRefreshToken(token string, expiresAt time.Time) {
	u.RefreshToken = &token
	u.RefreshTokenExpiry = &expiresAt
}

// ClearRefreshToken drops the refresh token pair.
func (u *User) ClearRefreshToken() {
	u.RefreshToken = nil
	u.RefreshTokenExpiry = nil
}

// RefreshTokenExpired reports whether the stored refresh token can no longer be
// exchanged at now. A token without a recorded expiry counts as expired.
func (u *User) RefreshTokenExpired(now time.Time) bool {
	return u.RefreshTokenExpiry == nil || !u.RefreshTokenExpiry.After(now)
}

// AuthResponse is the result of a successful register, login or refresh.
type AuthResponse struct {
	Token        string    `json:"token"`
	RefreshToken string    `json:"refresh_token"`
	Username     string    `json:"username"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// LoginRequest carries the credentials presented at login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}
