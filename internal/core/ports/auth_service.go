package ports

import (
	"context"

	"github.com/commonroom/community-platform/internal/core/domain"
)

// AuthService implements registration, login, and profile management.
type AuthService interface {
	Register(ctx context.Context, username, email, password string) (*domain.User, error)
	// Login returns a signed bearer token and the authenticated user. The
	// identifier is a username, or an email when it contains an "@".
	Login(ctx context.Context, identifier, password string) (string, *domain.User, error)
	Profile(ctx context.Context, username string) (*domain.User, error)
	UpdateProfile(ctx context.Context, userID, bio, avatarURL string) (*domain.User, error)
}
