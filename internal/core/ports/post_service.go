package ports

import (
	"context"
	"time"
)

// CreatePostInput carries the data needed to create a post. CommunityID is
// optional: empty means a profile-scoped post.
type CreatePostInput struct {
	Title       string
	Content     string
	CommunityID string
	AuthorID    string
}

// CommunityRef is the resolved community on a post view. Nil when the post is
// profile-scoped or the community has been deleted (orphaned reference).
type CommunityRef struct {
	ID   string
	Name string
}

// PostView is the view model produced for feeds and single-post reads.
type PostView struct {
	ID          string
	Title       string
	Content     string
	ContentHTML string
	AuthorID    string
	Community   *CommunityRef
	Upvotes     int
	Downvotes   int
	Score       int
	CreatedAt   time.Time
}

// VoteResult describes the ledger state after a vote transition.
type VoteResult struct {
	PostID    string
	Score     int
	Upvotes   int
	Downvotes int
	// Removed is true when the call toggled an existing vote off.
	Removed bool
}

// PostService defines use-case operations for posts, votes, and feeds.
type PostService interface {
	Create(ctx context.Context, input CreatePostInput) (*PostView, error)
	Get(ctx context.Context, id string) (*PostView, error)
	// Delete removes a post; only the author may delete it.
	Delete(ctx context.Context, postID, requesterID string) error

	// HomeFeed returns all posts in reverse-chronological order, optionally
	// filtered by a case-insensitive substring query over title and content.
	HomeFeed(ctx context.Context, query string) ([]PostView, error)
	// PopularFeed returns all posts ordered by score descending (stable).
	PopularFeed(ctx context.Context) ([]PostView, error)
	CommunityFeed(ctx context.Context, communityID string) ([]PostView, error)
	// Trending returns up to limit posts from the cached score leaderboard.
	Trending(ctx context.Context, limit int) ([]PostView, error)

	Upvote(ctx context.Context, postID, userID string) (*VoteResult, error)
	Downvote(ctx context.Context, postID, userID string) (*VoteResult, error)
}
