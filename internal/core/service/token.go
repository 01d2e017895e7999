package service

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/discoteque/discoteque-api/internal/core/domain"
)

const (
	DefaultExpirationMinutes = 30
	DefaultRefreshTokenTTL   = 7 * 24 * time.Hour

	refreshTokenBytes = 16
)

// TokenConfig holds the signing settings for access tokens.
type TokenConfig struct {
	SigningKey        string
	Issuer            string
	Audience          string
	ExpirationMinutes int
	RefreshTokenTTL   time.Duration
}

func (c TokenConfig) withDefaults() TokenConfig {
	if c.ExpirationMinutes <= 0 {
		c.ExpirationMinutes = DefaultExpirationMinutes
	}
	if c.RefreshTokenTTL <= 0 {
		c.RefreshTokenTTL = DefaultRefreshTokenTTL
	}
	return c
}

// Claims is the payload of an access token.
type Claims struct {
	Name   string      `json:"name"`
	UserID string      `json:"id"`
	Role   domain.Role `json:"role"`
	jwt.RegisteredClaims
}

// generateToken signs an HS256 access token for user that expires
// ExpirationMinutes after now. It performs no I/O.
func generateToken(user *domain.User, cfg TokenConfig, now time.Time) (string, time.Time, error) {
	if cfg.SigningKey == "" {
		return "", time.Time{}, &domain.ConfigurationError{Key: "JWT_KEY"}
	}

	expiresAt := now.Add(time.Duration(cfg.ExpirationMinutes) * time.Minute)
	claims := Claims{
		Name:   user.Username,
		UserID: strconv.FormatInt(user.ID, 10),
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   user.Username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	if cfg.Issuer != "" {
		claims.Issuer = cfg.Issuer
	}
	if cfg.Audience != "" {
		claims.Audience = jwt.ClaimStrings{cfg.Audience}
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(cfg.SigningKey))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, expiresAt, nil
}

// generateRefreshToken returns 128 random bits, base64url encoded.
func generateRefreshToken() (string, error) {
	b := make([]byte, refreshTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("refresh token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
