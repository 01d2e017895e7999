package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/discoteque/discoteque-api/internal/core/domain"
	"github.com/discoteque/discoteque-api/internal/core/ports"
	"github.com/discoteque/discoteque-api/pkg/hash"
)

// AuthService implements registration, login and refresh-token rotation.
// Every call opens and closes its own unit of work.
type AuthService struct {
	uow    ports.UnitOfWorkFactory
	tokens TokenConfig
	guard  ports.LoginGuard
	audit  ports.AuditSink
	logger zerolog.Logger

	nowFunc func() time.Time
}

type AuthOption func(*AuthService)

// WithLoginGuard enables lockout after repeated failed logins.
func WithLoginGuard(g ports.LoginGuard) AuthOption {
	return func(s *AuthService) { s.guard = g }
}

// WithAuditSink forwards every credential outcome to sink.
func WithAuditSink(sink ports.AuditSink) AuthOption {
	return func(s *AuthService) { s.audit = sink }
}

// NewAuthService fails with a ConfigurationError when no signing key is set.
func NewAuthService(uow ports.UnitOfWorkFactory, tokens TokenConfig, logger zerolog.Logger, opts ...AuthOption) (*AuthService, error) {
	if tokens.SigningKey == "" {
		return nil, &domain.ConfigurationError{Key: "JWT_KEY"}
	}
	s := &AuthService{
		uow:     uow,
		tokens:  tokens.withDefaults(),
		logger:  logger,
		nowFunc: time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Register creates a user and signs it in. The duplicate check looks the
// candidate up by id; username uniqueness is left to storage.
func (s *AuthService) Register(ctx context.Context, input ports.RegisterInput) (*domain.AuthResponse, error) {
	uow := s.uow.NewUnitOfWork()
	defer closeUnitOfWork(ctx, uow, s.logger)

	_, exists, err := uow.Users().Find(ctx, input.ID)
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}
	if exists {
		s.record(ctx, domain.ActionRegister, input.Username, 0, domain.ErrDuplicateUser)
		return nil, domain.ErrDuplicateUser
	}

	if input.Password == "" {
		return nil, fmt.Errorf("%w: password is required", domain.ErrInvalidUser)
	}
	passwordHash, err := hash.Hash(input.Password)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidUser, err)
	}

	now := s.nowFunc().UTC()
	user := &domain.User{
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		LastLoginAt:  &now,
		Role:         input.Role,
	}
	refreshToken, err := generateRefreshToken()
	if err != nil {
		return nil, err
	}
	user.SetRefreshToken(refreshToken, now.Add(s.tokens.RefreshTokenTTL))

	if err := user.Validate(); err != nil {
		s.record(ctx, domain.ActionRegister, input.Username, 0, err)
		return nil, err
	}

	if err := uow.Users().Add(ctx, user); err != nil {
		s.record(ctx, domain.ActionRegister, input.Username, 0, err)
		return nil, fmt.Errorf("register: %w", err)
	}
	if err := uow.Save(ctx); err != nil {
		s.record(ctx, domain.ActionRegister, input.Username, 0, err)
		return nil, fmt.Errorf("register: %w", err)
	}

	resp, err := s.respond(user, refreshToken, now)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("username", user.Username).Int64("user_id", user.ID).Str("role", string(user.Role)).Msg("user registered")
	s.record(ctx, domain.ActionRegister, user.Username, user.ID, nil)
	return resp, nil
}

// Login verifies the password, stamps the login time and rotates the
// refresh token.
func (s *AuthService) Login(ctx context.Context, req domain.LoginRequest) (*domain.AuthResponse, error) {
	if s.isLocked(ctx, req.Username) {
		s.record(ctx, domain.ActionLogin, req.Username, 0, domain.ErrTooManyAttempts)
		return nil, domain.ErrTooManyAttempts
	}

	uow := s.uow.NewUnitOfWork()
	defer closeUnitOfWork(ctx, uow, s.logger)

	user, err := findOne(ctx, uow.Users(), ports.Where(ports.Eq("username", req.Username)))
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	if user == nil {
		s.logger.Warn().Str("username", req.Username).Msg("login failed: unknown user")
		s.record(ctx, domain.ActionLogin, req.Username, 0, domain.ErrUserNotFound)
		return nil, domain.ErrUserNotFound
	}

	if hash.Compare(user.PasswordHash, req.Password) != nil {
		s.logger.Warn().Str("username", req.Username).Int64("user_id", user.ID).Msg("login failed: invalid password")
		s.loginFailed(ctx, req.Username)
		s.record(ctx, domain.ActionLogin, req.Username, user.ID, domain.ErrInvalidCredentials)
		return nil, domain.ErrInvalidCredentials
	}

	now := s.nowFunc().UTC()
	user.LastLoginAt = &now

	resp, err := s.rotate(ctx, uow, user, now)
	if err != nil {
		s.record(ctx, domain.ActionLogin, user.Username, user.ID, err)
		return nil, fmt.Errorf("login: %w", err)
	}

	s.loginSucceeded(ctx, user.Username)
	s.logger.Info().Str("username", user.Username).Int64("user_id", user.ID).Msg("user logged in")
	s.record(ctx, domain.ActionLogin, user.Username, user.ID, nil)
	return resp, nil
}

// RefreshToken exchanges a live refresh token for a new token pair. The old
// refresh token stops working. Last-login time is left untouched.
func (s *AuthService) RefreshToken(ctx context.Context, refreshToken string) (*domain.AuthResponse, error) {
	if refreshToken == "" {
		return nil, domain.ErrUserNotFound
	}

	uow := s.uow.NewUnitOfWork()
	defer closeUnitOfWork(ctx, uow, s.logger)

	user, err := findOne(ctx, uow.Users(), ports.Where(ports.Eq("refresh_token", refreshToken)))
	if err != nil {
		return nil, fmt.Errorf("refresh: %w", err)
	}
	if user == nil {
		s.record(ctx, domain.ActionRefresh, "", 0, domain.ErrUserNotFound)
		return nil, domain.ErrUserNotFound
	}

	now := s.nowFunc().UTC()
	if user.RefreshTokenExpired(now) {
		s.record(ctx, domain.ActionRefresh, user.Username, user.ID, domain.ErrExpiredToken)
		return nil, domain.ErrExpiredToken
	}

	resp, err := s.rotate(ctx, uow, user, now)
	if err != nil {
		s.record(ctx, domain.ActionRefresh, user.Username, user.ID, err)
		return nil, fmt.Errorf("refresh: %w", err)
	}

	s.logger.Debug().Str("username", user.Username).Int64("user_id", user.ID).Msg("refresh token rotated")
	s.record(ctx, domain.ActionRefresh, user.Username, user.ID, nil)
	return resp, nil
}

func (s *AuthService) GetUserByUsername(ctx context.Context, username string) (*domain.User, bool, error) {
	uow := s.uow.NewUnitOfWork()
	defer closeUnitOfWork(ctx, uow, s.logger)

	user, err := findOne(ctx, uow.Users(), ports.Where(ports.Eq("username", username)))
	if err != nil {
		return nil, false, err
	}
	return user, user != nil, nil
}

func (s *AuthService) GetUserByID(ctx context.Context, id int64) (*domain.User, bool, error) {
	uow := s.uow.NewUnitOfWork()
	defer closeUnitOfWork(ctx, uow, s.logger)

	return uow.Users().Find(ctx, id)
}

// rotate issues a new refresh token for user, persists it and signs a fresh
// access token.
func (s *AuthService) rotate(ctx context.Context, uow ports.UnitOfWork, user *domain.User, now time.Time) (*domain.AuthResponse, error) {
	refreshToken, err := generateRefreshToken()
	if err != nil {
		return nil, err
	}
	user.SetRefreshToken(refreshToken, now.Add(s.tokens.RefreshTokenTTL))

	if err := uow.Users().Update(ctx, user); err != nil {
		return nil, err
	}
	if err := uow.Save(ctx); err != nil {
		return nil, err
	}
	return s.respond(user, refreshToken, now)
}

func (s *AuthService) respond(user *domain.User, refreshToken string, now time.Time) (*domain.AuthResponse, error) {
	token, expiresAt, err := generateToken(user, s.tokens, now)
	if err != nil {
		return nil, err
	}
	return &domain.AuthResponse{
		Token:        token,
		RefreshToken: refreshToken,
		Username:     user.Username,
		ExpiresAt:    expiresAt,
	}, nil
}

func (s *AuthService) isLocked(ctx context.Context, username string) bool {
	if s.guard == nil {
		return false
	}
	locked, err := s.guard.Locked(ctx, username)
	if err != nil {
		s.logger.Warn().Err(err).Str("username", username).Msg("login guard unavailable")
		return false
	}
	return locked
}

func (s *AuthService) loginFailed(ctx context.Context, username string) {
	if s.guard == nil {
		return
	}
	if err := s.guard.Failed(ctx, username); err != nil {
		s.logger.Warn().Err(err).Str("username", username).Msg("login guard: record failure")
	}
}

func (s *AuthService) loginSucceeded(ctx context.Context, username string) {
	if s.guard == nil {
		return
	}
	if err := s.guard.Reset(ctx, username); err != nil {
		s.logger.Warn().Err(err).Str("username", username).Msg("login guard: reset")
	}
}

func (s *AuthService) record(ctx context.Context, action domain.AuthAction, username string, userID int64, err error) {
	if s.audit == nil {
		return
	}
	event := domain.AuthEvent{
		Action:     action,
		Username:   username,
		UserID:     userID,
		Success:    err == nil,
		OccurredAt: s.nowFunc().UTC(),
	}
	if err != nil {
		event.Reason = auditReason(err)
	}
	s.audit.Record(ctx, event)
}

func auditReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrDuplicateUser):
		return "duplicate_user"
	case errors.Is(err, domain.ErrUserNotFound):
		return "user_not_found"
	case errors.Is(err, domain.ErrInvalidCredentials):
		return "invalid_credentials"
	case errors.Is(err, domain.ErrExpiredToken):
		return "expired_token"
	case errors.Is(err, domain.ErrTooManyAttempts):
		return "too_many_attempts"
	case errors.Is(err, domain.ErrInvalidUser):
		return "invalid_user"
	case errors.Is(err, domain.ErrPersistence):
		return "persistence"
	case errors.Is(err, domain.ErrConcurrency):
		return "concurrency"
	default:
		return "internal"
	}
}
