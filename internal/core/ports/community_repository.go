package ports

import (
	"context"

	"github.com/commonroom/community-platform/internal/core/domain"
)

// CommunityRepository defines persistence operations for communities.
// Name uniqueness is enforced by the store (unique index); violations surface
// as domain.ErrDuplicateCommunity.
type CommunityRepository interface {
	Create(ctx context.Context, c *domain.Community) (*domain.Community, error)
	FindByID(ctx context.Context, id string) (*domain.Community, error)
	List(ctx context.Context) ([]domain.Community, error)
	// Update persists name, description and the membership set in a single
	// document write.
	Update(ctx context.Context, c *domain.Community) error
	Delete(ctx context.Context, id string) error
}
