package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/commonroom/community-platform/internal/core/domain"
)

type stubUserRepo struct {
	users map[string]*domain.User
	seq   int
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	for _, existing := range r.users {
		if existing.Username == user.Username || existing.Email == user.Email {
			return nil, domain.ErrUserExists
		}
	}
	r.seq++
	user.ID = fmt.Sprintf("user-%d", r.seq)
	clone := *user
	r.users[user.ID] = &clone
	return user, nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	clone := *u
	return &clone, nil
}

func (r *stubUserRepo) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Username == username {
			clone := *u
			return &clone, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) UpdateProfile(_ context.Context, id, bio, avatarURL string) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	if bio != "" {
		u.Bio = bio
	}
	if avatarURL != "" {
		u.AvatarURL = avatarURL
	}
	u.UpdatedAt = time.Now().UTC()
	clone := *u
	return &clone, nil
}

const testSecret = "test-secret"

func TestAuthService_Register(t *testing.T) {
	svc := NewAuthService(newStubUserRepo(), testSecret, time.Hour)

	user, err := svc.Register(context.Background(), "alice", "alice@example.com", "s3cret-pw")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if user.ID == "" {
		t.Error("registered user should have an id")
	}
	if user.PasswordHash == "s3cret-pw" || user.PasswordHash == "" {
		t.Error("password must be stored hashed")
	}
}

func TestAuthService_Register_MissingFields(t *testing.T) {
	svc := NewAuthService(newStubUserRepo(), testSecret, time.Hour)

	if _, err := svc.Register(context.Background(), "", "a@b.c", "pw"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Errorf("err = %v, want ErrInvalidCredentials", err)
	}
}

func TestAuthService_Register_DuplicateUsername(t *testing.T) {
	svc := NewAuthService(newStubUserRepo(), testSecret, time.Hour)
	if _, err := svc.Register(context.Background(), "alice", "alice@example.com", "pw-one"); err != nil {
		t.Fatalf("register: %v", err)
	}

	_, err := svc.Register(context.Background(), "alice", "other@example.com", "pw-two")
	if !errors.Is(err, domain.ErrUserExists) {
		t.Errorf("err = %v, want ErrUserExists", err)
	}
}

func TestAuthService_Login(t *testing.T) {
	svc := NewAuthService(newStubUserRepo(), testSecret, time.Hour)
	registered, err := svc.Register(context.Background(), "alice", "alice@example.com", "s3cret-pw")
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	token, user, err := svc.Login(context.Background(), "alice", "s3cret-pw")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if user.ID != registered.ID {
		t.Errorf("user id = %s, want %s", user.ID, registered.ID)
	}

	parsed, err := jwt.Parse(token, func(*jwt.Token) (interface{}, error) {
		return []byte(testSecret), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("token should verify against the signing secret: %v", err)
	}
	claims := parsed.Claims.(jwt.MapClaims)
	if claims["sub"] != registered.ID || claims["username"] != "alice" {
		t.Errorf("unexpected claims: %v", claims)
	}
}

func TestAuthService_Login_ByEmail(t *testing.T) {
	svc := NewAuthService(newStubUserRepo(), testSecret, time.Hour)
	registered, err := svc.Register(context.Background(), "alice", "alice@example.com", "s3cret-pw")
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	token, user, err := svc.Login(context.Background(), "alice@example.com", "s3cret-pw")
	if err != nil {
		t.Fatalf("login by email: %v", err)
	}
	if token == "" || user.ID != registered.ID {
		t.Errorf("unexpected login result: token=%q user=%+v", token, user)
	}

	if _, _, err := svc.Login(context.Background(), "other@example.com", "s3cret-pw"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Errorf("unknown email: err = %v, want ErrUserNotFound", err)
	}
}

func TestAuthService_Login_Failures(t *testing.T) {
	svc := NewAuthService(newStubUserRepo(), testSecret, time.Hour)
	if _, err := svc.Register(context.Background(), "alice", "alice@example.com", "s3cret-pw"); err != nil {
		t.Fatalf("register: %v", err)
	}

	tests := []struct {
		name     string
		username string
		password string
		wantErr  error
	}{
		{"wrong password", "alice", "wrong", domain.ErrInvalidCredentials},
		{"unknown user", "nobody", "pw", domain.ErrUserNotFound},
		{"empty password", "alice", "", domain.ErrInvalidCredentials},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := svc.Login(context.Background(), tt.username, tt.password)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestAuthService_UpdateProfile(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewAuthService(repo, testSecret, time.Hour)
	user, err := svc.Register(context.Background(), "alice", "alice@example.com", "pw")
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	updated, err := svc.UpdateProfile(context.Background(), user.ID, "gopher at large", "")
	if err != nil {
		t.Fatalf("update profile: %v", err)
	}
	if updated.Bio != "gopher at large" {
		t.Errorf("bio = %q", updated.Bio)
	}
}
