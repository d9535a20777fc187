package ports

import (
	"context"

	"github.com/commonroom/community-platform/internal/core/domain"
)

// CreateCommunityInput carries the data needed to create a community.
type CreateCommunityInput struct {
	Name        string
	Description string
	CreatorID   string
}

// UpdateCommunityInput is the creator-only patch. Empty fields keep the
// current value; a field is never nulled.
type UpdateCommunityInput struct {
	CommunityID string
	RequesterID string
	Name        string
	Description string
}

// CommunityService defines use-case operations for communities and their
// membership state machine.
type CommunityService interface {
	Create(ctx context.Context, input CreateCommunityInput) (*domain.Community, error)
	Get(ctx context.Context, id string) (*domain.Community, error)
	List(ctx context.Context) ([]domain.Community, error)
	Update(ctx context.Context, input UpdateCommunityInput) (*domain.Community, error)
	// Delete removes the community record. Posts referencing it are left in
	// place and resolve their community as null on read.
	Delete(ctx context.Context, communityID, requesterID string) error
	Join(ctx context.Context, communityID, userID string) (*domain.Community, error)
	Leave(ctx context.Context, communityID, userID string) (*domain.Community, error)
}
