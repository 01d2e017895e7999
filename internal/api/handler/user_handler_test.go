package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/discoteque/discoteque-api/internal/core/domain"
	"github.com/discoteque/discoteque-api/internal/core/ports"
)

type stubUserService struct {
	users     map[int64]*domain.User
	lastInput ports.UserInput
	deleted   []int64
}

func newStubUserService(users ...*domain.User) *stubUserService {
	s := &stubUserService{users: make(map[int64]*domain.User)}
	for _, u := range users {
		s.users[u.ID] = u
	}
	return s
}

func (s *stubUserService) CreateUser(_ context.Context, in ports.UserInput) (*domain.User, error) {
	s.lastInput = in
	u := &domain.User{ID: int64(len(s.users) + 1), Username: in.Username, Email: in.Email, Role: in.Role}
	s.users[u.ID] = u
	return u, nil
}

func (s *stubUserService) GetUserByID(_ context.Context, id int64) (*domain.User, bool, error) {
	u, ok := s.users[id]
	return u, ok, nil
}

func (s *stubUserService) GetUserByUsername(context.Context, string) (*domain.User, bool, error) {
	return nil, false, nil
}

func (s *stubUserService) GetAllUsers(context.Context) ([]*domain.User, error) {
	out := make([]*domain.User, 0, len(s.users))
	for id := int64(1); id <= int64(len(s.users)); id++ {
		if u, ok := s.users[id]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

func (s *stubUserService) UpdateUser(_ context.Context, in ports.UserInput) (*domain.User, error) {
	s.lastInput = in
	if _, ok := s.users[in.ID]; !ok {
		return nil, domain.ErrUserNotFound
	}
	u := &domain.User{ID: in.ID, Username: in.Username, Email: in.Email, Role: in.Role}
	s.users[in.ID] = u
	return u, nil
}

func (s *stubUserService) DeleteUser(_ context.Context, id int64) error {
	s.deleted = append(s.deleted, id)
	delete(s.users, id)
	return nil
}

func (s *stubUserService) ValidateUser(context.Context, string, string) (bool, error) {
	return false, nil
}

func withID(c echo.Context, id string) echo.Context {
	c.SetParamNames("id")
	c.SetParamValues(id)
	return c
}

func TestUserHandler_Create(t *testing.T) {
	e := newTestEcho()
	svc := newStubUserService()
	h := NewUserHandler(svc)

	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(http.MethodPost, "/api/user", `{"username":"carol","email":"c@example.com","password":"pw","role":"Admin"}`), rec)
	if err := h.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	if loc := rec.Header().Get(echo.HeaderLocation); loc != "/api/user/1" {
		t.Errorf("expected Location /api/user/1, got %q", loc)
	}
	if svc.lastInput.Password != "pw" || svc.lastInput.Role != domain.RoleAdmin {
		t.Errorf("unexpected input: %+v", svc.lastInput)
	}
}

func TestUserHandler_List(t *testing.T) {
	e := newTestEcho()
	h := NewUserHandler(newStubUserService(
		&domain.User{ID: 1, Username: "a", Role: domain.RoleUser},
		&domain.User{ID: 2, Username: "b", Role: domain.RoleAdmin},
	))

	rec := httptest.NewRecorder()
	if err := h.List(e.NewContext(httptest.NewRequest(http.MethodGet, "/api/user", nil), rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var users []userResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &users); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(users) != 2 || users[0].Username != "a" || users[1].Role != "Admin" {
		t.Fatalf("unexpected payload: %+v", users)
	}
}

func TestUserHandler_Get(t *testing.T) {
	e := newTestEcho()
	h := NewUserHandler(newStubUserService(&domain.User{ID: 1, Username: "a", Role: domain.RoleUser}))

	tests := []struct {
		id   string
		want int
	}{
		{"1", http.StatusOK},
		{"2", http.StatusNotFound},
		{"abc", http.StatusBadRequest},
		{"0", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			rec := httptest.NewRecorder()
			c := withID(e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec), tt.id)
			serve(e, c, h.Get)
			if rec.Code != tt.want {
				t.Fatalf("expected %d, got %d", tt.want, rec.Code)
			}
		})
	}
}

func TestUserHandler_Update(t *testing.T) {
	e := newTestEcho()
	svc := newStubUserService(&domain.User{ID: 1, Username: "a", Role: domain.RoleUser})
	h := NewUserHandler(svc)

	body := `{"id":1,"username":"a2","email":"a2@example.com","role":"Admin"}`
	rec := httptest.NewRecorder()
	c := withID(e.NewContext(jsonRequest(http.MethodPut, "/", body), rec), "1")
	if err := h.Update(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if svc.lastInput.Password != "" {
		t.Errorf("expected empty password to pass through, got %q", svc.lastInput.Password)
	}

	rec = httptest.NewRecorder()
	c = withID(e.NewContext(jsonRequest(http.MethodPut, "/", body), rec), "2")
	serve(e, c, h.Update)
	if rec.Code != http.StatusBadRequest || !strings.Contains(rec.Body.String(), "id mismatch") {
		t.Fatalf("expected 400 id mismatch, got %d %s", rec.Code, rec.Body.String())
	}
}

func TestUserHandler_Delete(t *testing.T) {
	e := newTestEcho()
	svc := newStubUserService()
	h := NewUserHandler(svc)

	rec := httptest.NewRecorder()
	c := withID(e.NewContext(httptest.NewRequest(http.MethodDelete, "/", nil), rec), "42")
	if err := h.Delete(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if len(svc.deleted) != 1 || svc.deleted[0] != 42 {
		t.Fatalf("expected delete of 42, got %v", svc.deleted)
	}
}
