package ports

import (
	"context"

	"github.com/commonroom/community-platform/internal/core/domain"
)

// UserRepository defines persistence operations for user accounts.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	// UpdateProfile patches bio and avatar. Empty fields keep their current value.
	UpdateProfile(ctx context.Context, id, bio, avatarURL string) (*domain.User, error)
}
