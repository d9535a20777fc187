package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/commonroom/community-platform/internal/core/domain"
)

type stubAuthService struct {
	registerFn      func(ctx context.Context, username, email, password string) (*domain.User, error)
	loginFn         func(ctx context.Context, username, password string) (string, *domain.User, error)
	profileFn       func(ctx context.Context, username string) (*domain.User, error)
	updateProfileFn func(ctx context.Context, userID, bio, avatarURL string) (*domain.User, error)
}

func (s *stubAuthService) Register(ctx context.Context, username, email, password string) (*domain.User, error) {
	return s.registerFn(ctx, username, email, password)
}

func (s *stubAuthService) Login(ctx context.Context, username, password string) (string, *domain.User, error) {
	return s.loginFn(ctx, username, password)
}

func (s *stubAuthService) Profile(ctx context.Context, username string) (*domain.User, error) {
	return s.profileFn(ctx, username)
}

func (s *stubAuthService) UpdateProfile(ctx context.Context, userID, bio, avatarURL string) (*domain.User, error) {
	return s.updateProfileFn(ctx, userID, bio, avatarURL)
}

func newTestContext(t *testing.T, method, path, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	e.Validator = NewValidator()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func httpCode(t *testing.T, err error) int {
	t.Helper()
	var he *echo.HTTPError
	if !errors.As(err, &he) {
		t.Fatalf("expected *echo.HTTPError, got %v", err)
	}
	return he.Code
}

func TestAuthHandler_Register_Success(t *testing.T) {
	stub := &stubAuthService{
		registerFn: func(ctx context.Context, username, email, password string) (*domain.User, error) {
			if username != "alice" || email != "alice@example.com" {
				t.Fatalf("unexpected args: %s %s", username, email)
			}
			return &domain.User{ID: "user-1", Username: username, Email: email}, nil
		},
	}
	h := NewAuthHandler(stub)

	c, rec := newTestContext(t, http.MethodPost, "/auth/register",
		`{"username":"alice","email":"alice@example.com","password":"s3cret-pw"}`)

	if err := h.Register(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	user, ok := resp["user"].(map[string]any)
	if !ok || user["username"] != "alice" {
		t.Fatalf("unexpected user payload: %+v", resp)
	}
	if _, leaked := user["password_hash"]; leaked {
		t.Fatal("password hash must never be serialized")
	}
}

func TestAuthHandler_Register_InvalidPayload(t *testing.T) {
	stub := &stubAuthService{
		registerFn: func(ctx context.Context, username, email, password string) (*domain.User, error) {
			t.Fatal("service should not be called")
			return nil, nil
		},
	}
	h := NewAuthHandler(stub)

	c, _ := newTestContext(t, http.MethodPost, "/auth/register", "not-json")

	if code := httpCode(t, h.Register(c)); code != http.StatusBadRequest {
		t.Errorf("code = %d, want 400", code)
	}
}

func TestAuthHandler_Register_ValidationFailure(t *testing.T) {
	stub := &stubAuthService{
		registerFn: func(ctx context.Context, username, email, password string) (*domain.User, error) {
			t.Fatal("service should not be called")
			return nil, nil
		},
	}
	h := NewAuthHandler(stub)

	// Password below the 8 character minimum.
	c, _ := newTestContext(t, http.MethodPost, "/auth/register",
		`{"username":"alice","email":"alice@example.com","password":"short"}`)

	if code := httpCode(t, h.Register(c)); code != http.StatusUnprocessableEntity {
		t.Errorf("code = %d, want 422", code)
	}
}

func TestAuthHandler_Register_UserExists(t *testing.T) {
	stub := &stubAuthService{
		registerFn: func(ctx context.Context, username, email, password string) (*domain.User, error) {
			return nil, domain.ErrUserExists
		},
	}
	h := NewAuthHandler(stub)

	c, _ := newTestContext(t, http.MethodPost, "/auth/register",
		`{"username":"alice","email":"alice@example.com","password":"s3cret-pw"}`)

	// Domain errors pass through untouched; the central error handler maps them.
	if err := h.Register(c); !errors.Is(err, domain.ErrUserExists) {
		t.Errorf("err = %v, want ErrUserExists", err)
	}
}

func TestAuthHandler_Login_Success(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, username, password string) (string, *domain.User, error) {
			return "token123", &domain.User{ID: "user-1", Username: "alice"}, nil
		},
	}
	h := NewAuthHandler(stub)

	c, rec := newTestContext(t, http.MethodPost, "/auth/login",
		`{"username":"alice","password":"s3cret-pw"}`)

	if err := h.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["token"] != "token123" {
		t.Errorf("token = %v, want token123", resp["token"])
	}
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, username, password string) (string, *domain.User, error) {
			return "", nil, domain.ErrInvalidCredentials
		},
	}
	h := NewAuthHandler(stub)

	c, _ := newTestContext(t, http.MethodPost, "/auth/login",
		`{"username":"alice","password":"bad"}`)

	if err := h.Login(c); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Errorf("err = %v, want ErrInvalidCredentials", err)
	}
}

func TestAuthHandler_UpdateProfile(t *testing.T) {
	stub := &stubAuthService{
		updateProfileFn: func(ctx context.Context, userID, bio, avatarURL string) (*domain.User, error) {
			if userID != "user-1" {
				t.Fatalf("userID = %s, want user-1", userID)
			}
			return &domain.User{ID: userID, Username: "alice", Bio: bio}, nil
		},
	}
	h := NewAuthHandler(stub)

	c, rec := newTestContext(t, http.MethodPut, "/me", `{"bio":"gopher at large"}`)
	c.Set("user_id", "user-1")

	if err := h.UpdateProfile(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}

func TestAuthHandler_UpdateProfile_MissingIdentity(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{})

	c, _ := newTestContext(t, http.MethodPut, "/me", `{"bio":"x"}`)

	if code := httpCode(t, h.UpdateProfile(c)); code != http.StatusUnauthorized {
		t.Errorf("code = %d, want 401", code)
	}
}
