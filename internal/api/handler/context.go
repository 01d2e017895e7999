package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Context keys set by middleware.Auth.
const (
	ctxUsername = "username"
	ctxUserID   = "user_id"
	ctxRole     = "role"
)

type principal struct {
	Username string
	UserID   string
	Role     string
}

// ctxPrincipal reads the identity injected by the Auth middleware. A missing
// username means the route was registered without it.
func ctxPrincipal(c echo.Context) (principal, error) {
	p := principal{}
	p.Username, _ = c.Get(ctxUsername).(string)
	p.UserID, _ = c.Get(ctxUserID).(string)
	p.Role, _ = c.Get(ctxRole).(string)
	if p.Username == "" {
		return principal{}, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return p, nil
}

// bindAndValidate decodes the body into req and runs the struct validator.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}
