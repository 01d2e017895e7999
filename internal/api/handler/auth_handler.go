package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/discoteque/discoteque-api/internal/api/metrics"
	"github.com/discoteque/discoteque-api/internal/core/domain"
	"github.com/discoteque/discoteque-api/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// observe records the outcome and latency of one credential operation.
func observe(operation string, start time.Time, err error) {
	metrics.AuthOperationsTotal.WithLabelValues(operation, metrics.Result(err)).Inc()
	metrics.AuthOperationDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}

// Register creates a user and signs it in.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "User registration details"
// @Success      200   {object}  authResponse
// @Failure      400   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /api/auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	start := time.Now()
	resp, err := h.authService.Register(c.Request().Context(), ports.RegisterInput{
		ID:       req.ID,
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		Role:     roleOrDefault(req.Role),
	})
	observe("register", start, err)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toAuthResponse(resp))
}

// Login exchanges a username and password for a token pair.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  authResponse
// @Failure      400   {object}  errorResponse
// @Failure      429   {object}  errorResponse
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	start := time.Now()
	resp, err := h.authService.Login(c.Request().Context(), domain.LoginRequest{
		Username: req.Username,
		Password: req.Password,
	})
	observe("login", start, err)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toAuthResponse(resp))
}

// Refresh rotates a refresh token.
//
// @Summary      Refresh the token pair
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      refreshRequest  true  "Current refresh token"
// @Success      200   {object}  authResponse
// @Failure      400   {object}  errorResponse
// @Router       /api/auth/refresh [post]
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req refreshRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	start := time.Now()
	resp, err := h.authService.RefreshToken(c.Request().Context(), req.RefreshToken)
	observe("refresh", start, err)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toAuthResponse(resp))
}

// Me returns the identity carried by the bearer token.
//
// @Summary      Current identity
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  meResponse
// @Failure      401  {object}  errorResponse
// @Router       /api/auth/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, meResponse{UserID: p.UserID, Username: p.Username, Role: p.Role})
}

// GetUser looks a user up by username.
//
// @Summary      Get a user by username
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Param        username  path      string  true  "Username"
// @Success      200       {object}  userResponse
// @Failure      403       {object}  errorResponse
// @Failure      404       {object}  errorResponse
// @Router       /api/auth/users/{username} [get]
func (h *AuthHandler) GetUser(c echo.Context) error {
	user, found, err := h.authService.GetUserByUsername(c.Request().Context(), c.Param("username"))
	if err != nil {
		return err
	}
	if !found {
		return echo.NewHTTPError(http.StatusNotFound, "user not found")
	}
	return c.JSON(http.StatusOK, toUserResponse(user))
}
