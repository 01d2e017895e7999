package middleware

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

var errRejected = errors.New("rejected")

func newLoggedEcho(buf *bytes.Buffer) *echo.Echo {
	e := echo.New()
	e.HTTPErrorHandler = func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		if errors.Is(err, errRejected) {
			_ = c.NoContent(http.StatusBadRequest)
			return
		}
		_ = c.NoContent(http.StatusInternalServerError)
	}
	e.Use(RequestLogger(zerolog.New(buf)))
	e.GET("/boom", func(c echo.Context) error { return errors.New("db down") })
	e.GET("/rejected", func(c echo.Context) error { return errRejected })
	e.GET("/ok", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	return e
}

func lastLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	var entry map[string]any
	if err := json.Unmarshal(lines[len(lines)-1], &entry); err != nil {
		t.Fatalf("decode log line %q: %v", lines[len(lines)-1], err)
	}
	return entry
}

func TestRequestLogger_Levels(t *testing.T) {
	tests := []struct {
		path      string
		wantCode  int
		wantLevel string
		wantErr   string
	}{
		{"/boom", http.StatusInternalServerError, "error", "db down"},
		{"/rejected", http.StatusBadRequest, "warn", ""},
		{"/ok", http.StatusOK, "info", ""},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			var buf bytes.Buffer
			e := newLoggedEcho(&buf)

			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))
			if rec.Code != tt.wantCode {
				t.Fatalf("expected status %d, got %d", tt.wantCode, rec.Code)
			}

			entry := lastLine(t, &buf)
			if entry["level"] != tt.wantLevel {
				t.Errorf("expected level %q, got %v", tt.wantLevel, entry["level"])
			}
			if tt.wantErr != "" && entry["error"] != tt.wantErr {
				t.Errorf("expected the server error cause %q in the log line, got %v", tt.wantErr, entry["error"])
			}
			if entry["status"] != float64(tt.wantCode) {
				t.Errorf("expected logged status %d, got %v", tt.wantCode, entry["status"])
			}
		})
	}
}
