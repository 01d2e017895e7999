package ports

import (
	"context"

	"github.com/discoteque/discoteque-api/internal/core/domain"
)

// UserInput is an administrative create or update. An empty Password on
// update keeps the stored hash.
type UserInput struct {
	ID       int64
	Username string
	Email    string
	Password string
	Role     domain.Role
}

type UserService interface {
	CreateUser(ctx context.Context, input UserInput) (*domain.User, error)
	GetUserByID(ctx context.Context, id int64) (*domain.User, bool, error)
	GetUserByUsername(ctx context.Context, username string) (*domain.User, bool, error)
	GetAllUsers(ctx context.Context) ([]*domain.User, error)
	UpdateUser(ctx context.Context, input UserInput) (*domain.User, error)
	DeleteUser(ctx context.Context, id int64) error
	ValidateUser(ctx context.Context, username, password string) (bool, error)
}
