package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/commonroom/community-platform/internal/core/domain"
	"github.com/commonroom/community-platform/internal/core/ports"
)

// CommentService implements comment operations.
type CommentService struct {
	comments ports.CommentRepository
	posts    ports.PostRepository
	logger   zerolog.Logger
}

func NewCommentService(comments ports.CommentRepository, posts ports.PostRepository, logger zerolog.Logger) *CommentService {
	return &CommentService{comments: comments, posts: posts, logger: logger}
}

// Add creates a comment under an existing post.
func (s *CommentService) Add(ctx context.Context, postID, authorID, content string) (*domain.Comment, error) {
	if _, err := s.posts.FindByID(ctx, postID); err != nil {
		return nil, err
	}

	comment := &domain.Comment{
		PostID:    postID,
		AuthorID:  authorID,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}

	created, err := s.comments.Create(ctx, comment)
	if err != nil {
		s.logger.Error().Err(err).Str("post_id", postID).Msg("failed to create comment")
		return nil, err
	}
	return created, nil
}

func (s *CommentService) ListByPost(ctx context.Context, postID string) ([]domain.Comment, error) {
	if _, err := s.posts.FindByID(ctx, postID); err != nil {
		return nil, err
	}
	return s.comments.ListByPost(ctx, postID)
}

// Delete removes a comment; only its author may delete it.
func (s *CommentService) Delete(ctx context.Context, commentID, requesterID string) error {
	comment, err := s.comments.FindByID(ctx, commentID)
	if err != nil {
		return err
	}
	if comment.AuthorID != requesterID {
		return domain.ErrForbidden
	}
	return s.comments.Delete(ctx, commentID)
}
