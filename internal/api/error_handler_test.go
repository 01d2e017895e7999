package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/discoteque/discoteque-api/internal/core/domain"
)

func TestHTTPErrorHandler(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantMsg  string
	}{
		{"duplicate user", domain.ErrDuplicateUser, http.StatusBadRequest, "user already exists"},
		{"user not found", domain.ErrUserNotFound, http.StatusBadRequest, "user not found"},
		{"invalid password", domain.ErrInvalidCredentials, http.StatusBadRequest, "invalid password"},
		{"expired refresh", domain.ErrExpiredToken, http.StatusBadRequest, "refresh token expired"},
		{"wrapped invalid user", fmt.Errorf("%w: username is required", domain.ErrInvalidUser), http.StatusBadRequest, "invalid user: username is required"},
		{"persistence", &domain.PersistenceError{Table: "users", Constraint: "users_username_key", Err: errors.New("dup")}, http.StatusBadRequest, "the change violates a data constraint"},
		{"concurrency", fmt.Errorf("update user: %w", &domain.ConcurrencyError{Table: "users", ID: 1}), http.StatusConflict, "the record was modified or removed by another request"},
		{"locked out", domain.ErrTooManyAttempts, http.StatusTooManyRequests, "too many failed login attempts"},
		{"echo error", echo.NewHTTPError(http.StatusNotFound, "user not found"), http.StatusNotFound, "user not found"},
		{"unexpected", errors.New("connection refused"), http.StatusInternalServerError, "internal server error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			NewHTTPErrorHandler(zerolog.Nop())(tt.err, c)

			if rec.Code != tt.wantCode {
				t.Fatalf("expected %d, got %d", tt.wantCode, rec.Code)
			}
			var body errorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("invalid json: %v", err)
			}
			if body.Error != tt.wantMsg {
				t.Errorf("expected %q, got %q", tt.wantMsg, body.Error)
			}
		})
	}
}

func TestHTTPErrorHandler_CommittedResponse(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	_ = c.NoContent(http.StatusAccepted)

	NewHTTPErrorHandler(zerolog.Nop())(errors.New("late"), c)
	if rec.Code != http.StatusAccepted {
		t.Fatalf("committed response must be left alone, got %d", rec.Code)
	}
}
