package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/discoteque/discoteque-api/internal/core/domain"
	"github.com/discoteque/discoteque-api/internal/core/ports"
	"github.com/discoteque/discoteque-api/pkg/hash"
)

// UserService is administrative CRUD over users.
//
// Passwords are stored as unsalted SHA-256 digests, which AuthService.Login
// cannot verify. Users created here must be re-registered to log in.
type UserService struct {
	uow    ports.UnitOfWorkFactory
	logger zerolog.Logger

	nowFunc func() time.Time
}

func NewUserService(uow ports.UnitOfWorkFactory, logger zerolog.Logger) *UserService {
	return &UserService{uow: uow, logger: logger, nowFunc: time.Now}
}

func (s *UserService) CreateUser(ctx context.Context, input ports.UserInput) (*domain.User, error) {
	if input.Password == "" {
		return nil, fmt.Errorf("%w: password is required", domain.ErrInvalidUser)
	}

	user := &domain.User{
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: hash.SHA256(input.Password),
		CreatedAt:    s.nowFunc().UTC(),
		Role:         input.Role,
	}
	if err := user.Validate(); err != nil {
		return nil, err
	}

	uow := s.uow.NewUnitOfWork()
	defer closeUnitOfWork(ctx, uow, s.logger)

	if err := uow.Users().Add(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	if err := uow.Save(ctx); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.logger.Info().Str("username", user.Username).Int64("user_id", user.ID).Msg("user created")
	return user, nil
}

func (s *UserService) GetUserByID(ctx context.Context, id int64) (*domain.User, bool, error) {
	uow := s.uow.NewUnitOfWork()
	defer closeUnitOfWork(ctx, uow, s.logger)

	return uow.Users().Find(ctx, id)
}

func (s *UserService) GetUserByUsername(ctx context.Context, username string) (*domain.User, bool, error) {
	uow := s.uow.NewUnitOfWork()
	defer closeUnitOfWork(ctx, uow, s.logger)

	user, err := findOne(ctx, uow.Users(), ports.Where(ports.Eq("username", username)))
	if err != nil {
		return nil, false, err
	}
	return user, user != nil, nil
}

func (s *UserService) GetAllUsers(ctx context.Context) ([]*domain.User, error) {
	uow := s.uow.NewUnitOfWork()
	defer closeUnitOfWork(ctx, uow, s.logger)

	return uow.Users().GetAll(ctx, ports.Query{OrderBy: []ports.Order{ports.Asc("id")}})
}

// UpdateUser overwrites username, email and role. The password hash is only
// replaced when a password is supplied; creation time is never changed.
func (s *UserService) UpdateUser(ctx context.Context, input ports.UserInput) (*domain.User, error) {
	uow := s.uow.NewUnitOfWork()
	defer closeUnitOfWork(ctx, uow, s.logger)

	user, found, err := uow.Users().Find(ctx, input.ID)
	if err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	if !found {
		return nil, domain.ErrUserNotFound
	}

	user.Username = input.Username
	user.Email = input.Email
	user.Role = input.Role
	if input.Password != "" {
		user.PasswordHash = hash.SHA256(input.Password)
	}
	if err := user.Validate(); err != nil {
		return nil, err
	}

	if err := uow.Users().Update(ctx, user); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	if err := uow.Save(ctx); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}

	s.logger.Info().Int64("user_id", user.ID).Msg("user updated")
	return user, nil
}

// DeleteUser removes the user; a missing id is not an error.
func (s *UserService) DeleteUser(ctx context.Context, id int64) error {
	uow := s.uow.NewUnitOfWork()
	defer closeUnitOfWork(ctx, uow, s.logger)

	if err := uow.Users().DeleteByID(ctx, id); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if err := uow.Save(ctx); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return nil
}

// ValidateUser reports whether password matches the stored digest. Unknown
// usernames yield false; only storage faults return an error.
func (s *UserService) ValidateUser(ctx context.Context, username, password string) (bool, error) {
	user, found, err := s.GetUserByUsername(ctx, username)
	if err != nil {
		return false, err
	}
	if !found {
		return false, nil
	}
	return hash.CompareSHA256(user.PasswordHash, password), nil
}
