package api

import (
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/discoteque/discoteque-api/docs"
	"github.com/discoteque/discoteque-api/internal/api/handler"
	"github.com/discoteque/discoteque-api/internal/api/metrics"
	"github.com/discoteque/discoteque-api/internal/api/middleware"
	"github.com/discoteque/discoteque-api/internal/core/domain"
	"github.com/discoteque/discoteque-api/internal/core/ports"
)

// Dependencies are the collaborators the HTTP layer is built from.
type Dependencies struct {
	AuthService ports.AuthService
	UserService ports.UserService
	Token       middleware.TokenValidation
	// Readiness lists the dependencies probed by /health/ready, by name.
	Readiness map[string]handler.Pinger
	Logger    zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	// Metrics wraps the logger: the logger renders handler errors, so the
	// recorded status is the one the client received.
	e.Use(metrics.HTTPMiddleware())
	e.Use(middleware.RequestLogger(deps.Logger))

	authHandler := handler.NewAuthHandler(deps.AuthService)
	userHandler := handler.NewUserHandler(deps.UserService)
	requireAuth := middleware.Auth(deps.Token)
	adminOnly := middleware.RBAC(domain.RoleAdmin)

	// --- Auth routes ---
	auth := e.Group("/api/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/refresh", authHandler.Refresh)
	auth.GET("/me", authHandler.Me, requireAuth)
	auth.GET("/users/:username", authHandler.GetUser, requireAuth, adminOnly)

	// --- User administration ---
	users := e.Group("/api/user")
	users.POST("", userHandler.Create)
	users.GET("", userHandler.List, requireAuth, adminOnly)
	users.GET("/:id", userHandler.Get, requireAuth, adminOnly)
	users.PUT("/:id", userHandler.Update, requireAuth, adminOnly)
	users.DELETE("/:id", userHandler.Delete, requireAuth, adminOnly)

	// --- Health probes (no auth required) ---
	e.GET("/health", handler.NewHealthHandler().Liveness)
	e.GET("/health/ready", handler.NewReadinessHandler(deps.Readiness).Readiness)

	// --- Operations ---
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}
