package ports

import (
	"context"

	"github.com/commonroom/community-platform/internal/core/domain"
)

// PostRepository defines persistence operations for posts and their vote
// ledgers.
type PostRepository interface {
	Create(ctx context.Context, p *domain.Post) (*domain.Post, error)
	FindByID(ctx context.Context, id string) (*domain.Post, error)
	// ListAll returns the global post snapshot; ranking and filtering happen
	// in the service over this snapshot.
	ListAll(ctx context.Context) ([]domain.Post, error)
	ListByCommunity(ctx context.Context, communityID string) ([]domain.Post, error)
	// ApplyVote persists one user's vote transition as a targeted single-document
	// update: the user is pulled from the opposite ledger, then added to the
	// ledger for dir, or pulled from it when removed is true (toggle-off).
	// Concurrent votes by different users commute instead of overwriting each
	// other's ledger entries.
	ApplyVote(ctx context.Context, id, userID string, dir domain.VoteDirection, removed bool) error
	Delete(ctx context.Context, id string) error
}
