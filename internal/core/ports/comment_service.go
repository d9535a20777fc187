package ports

import (
	"context"

	"github.com/commonroom/community-platform/internal/core/domain"
)

// CommentService defines use-case operations for comments.
type CommentService interface {
	Add(ctx context.Context, postID, authorID, content string) (*domain.Comment, error)
	ListByPost(ctx context.Context, postID string) ([]domain.Comment, error)
	// Delete removes a comment; only the author may delete it.
	Delete(ctx context.Context, commentID, requesterID string) error
}
