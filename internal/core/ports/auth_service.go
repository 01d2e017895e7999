package ports

import (
	"context"

	"github.com/discoteque/discoteque-api/internal/core/domain"
)

// RegisterInput is the candidate user presented at registration. ID is only
// consulted for the duplicate check; storage assigns the persisted id.
type RegisterInput struct {
	ID       int64
	Username string
	Email    string
	Password string
	Role     domain.Role
}

type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*domain.AuthResponse, error)
	Login(ctx context.Context, req domain.LoginRequest) (*domain.AuthResponse, error)
	RefreshToken(ctx context.Context, refreshToken string) (*domain.AuthResponse, error)
	GetUserByUsername(ctx context.Context, username string) (*domain.User, bool, error)
	GetUserByID(ctx context.Context, id int64) (*domain.User, bool, error)
}

// LoginGuard throttles repeated failed logins per username.
type LoginGuard interface {
	// Locked reports whether username is currently locked out.
	Locked(ctx context.Context, username string) (bool, error)
	// Failed records a failed attempt.
	Failed(ctx context.Context, username string) error
	// Reset clears the failure count after a successful login.
	Reset(ctx context.Context, username string) error
}

// AuditSink receives authentication outcomes. Implementations must not block
// the caller for long.
type AuditSink interface {
	Record(ctx context.Context, event domain.AuthEvent)
}

// AuditRepository persists audit events.
type AuditRepository interface {
	Insert(ctx context.Context, event *domain.AuthEvent) error
}
