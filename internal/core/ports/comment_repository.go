package ports

import (
	"context"

	"github.com/commonroom/community-platform/internal/core/domain"
)

// CommentRepository defines persistence operations for comments.
type CommentRepository interface {
	Create(ctx context.Context, c *domain.Comment) (*domain.Comment, error)
	FindByID(ctx context.Context, id string) (*domain.Comment, error)
	// ListByPost returns the post's comments in chronological order.
	ListByPost(ctx context.Context, postID string) ([]domain.Comment, error)
	Delete(ctx context.Context, id string) error
}
