package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

var testValidation = TokenValidation{Key: "secret", Issuer: "discoteque", Audience: "discoteque-clients"}

func signedToken(t *testing.T, key string, claims jwt.MapClaims) string {
	t.Helper()
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(key))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func validClaims() jwt.MapClaims {
	return jwt.MapClaims{
		"name": "alice",
		"id":   "1",
		"role": "Admin",
		"sub":  "alice",
		"iss":  "discoteque",
		"aud":  "discoteque-clients",
		"exp":  time.Now().Add(time.Hour).Unix(),
	}
}

// runAuth sends a request with the given Authorization header through Auth
// and returns the recorder and whether next was reached.
func runAuth(t *testing.T, header string, next echo.HandlerFunc) (*httptest.ResponseRecorder, bool) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	handler := Auth(testValidation)(func(c echo.Context) error {
		called = true
		if next != nil {
			return next(c)
		}
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec, called
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	token := signedToken(t, "secret", validClaims())

	rec, called := runAuth(t, "Bearer "+token, func(c echo.Context) error {
		if c.Get("username") != "alice" {
			t.Fatalf("username not set")
		}
		if c.Get("user_id") != "1" {
			t.Fatalf("user_id not set")
		}
		if c.Get("role") != "Admin" {
			t.Fatalf("role not set")
		}
		return c.NoContent(http.StatusOK)
	})

	if !called {
		t.Fatalf("next not called")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAuthMiddleware_Rejects(t *testing.T) {
	expired := validClaims()
	expired["exp"] = time.Now().Add(-time.Minute).Unix()

	wrongIssuer := validClaims()
	wrongIssuer["iss"] = "someone-else"

	wrongAudience := validClaims()
	wrongAudience["aud"] = "other-clients"

	noExpiry := validClaims()
	delete(noExpiry, "exp")

	noName := validClaims()
	delete(noName, "name")

	tests := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"invalid header format", "Token abc"},
		{"not a jwt", "Bearer not-a-token"},
		{"wrong key", "Bearer " + signedToken(t, "other", validClaims())},
		{"expired", "Bearer " + signedToken(t, "secret", expired)},
		{"wrong issuer", "Bearer " + signedToken(t, "secret", wrongIssuer)},
		{"wrong audience", "Bearer " + signedToken(t, "secret", wrongAudience)},
		{"no expiry", "Bearer " + signedToken(t, "secret", noExpiry)},
		{"no name", "Bearer " + signedToken(t, "secret", noName)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, called := runAuth(t, tt.header, nil)
			if called {
				t.Fatalf("should not reach next")
			}
			if rec.Code != http.StatusUnauthorized {
				t.Fatalf("expected 401, got %d", rec.Code)
			}
		})
	}
}

func TestAuthMiddleware_RejectsNoneAlgorithm(t *testing.T) {
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, validClaims()).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	rec, called := runAuth(t, "Bearer "+token, nil)
	if called || rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without reaching next, got %d", rec.Code)
	}
}
