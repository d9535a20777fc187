package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/commonroom/community-platform/internal/core/domain"
	"github.com/commonroom/community-platform/internal/core/ports"
)

// ScoreBoard abstracts the cached post-score leaderboard (Redis). It is a
// write-through mirror only; the authoritative popular feed never depends on it.
type ScoreBoard interface {
	SetScore(ctx context.Context, postID string, score int) error
	Remove(ctx context.Context, postID string) error
	TopPosts(ctx context.Context, limit int) ([]string, error)
}

// PostService implements posts, the vote ledger, and feed ranking.
type PostService struct {
	posts       ports.PostRepository
	communities ports.CommunityRepository
	board       ScoreBoard
	logger      zerolog.Logger
}

func NewPostService(posts ports.PostRepository, communities ports.CommunityRepository, board ScoreBoard, logger zerolog.Logger) *PostService {
	return &PostService{posts: posts, communities: communities, board: board, logger: logger}
}

// Create creates a post. Community-scoped posts require the author to be a
// member of the community.
func (s *PostService) Create(ctx context.Context, input ports.CreatePostInput) (*ports.PostView, error) {
	var community *domain.Community
	if input.CommunityID != "" {
		c, err := s.communities.FindByID(ctx, input.CommunityID)
		if err != nil {
			return nil, err
		}
		if !c.IsMember(input.AuthorID) {
			return nil, domain.ErrNotCommunityMember
		}
		community = c
	}

	post := &domain.Post{
		Title:       input.Title,
		Content:     input.Content,
		AuthorID:    input.AuthorID,
		CommunityID: input.CommunityID,
		Upvotes:     []string{},
		Downvotes:   []string{},
		CreatedAt:   time.Now().UTC(),
	}

	created, err := s.posts.Create(ctx, post)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to create post")
		return nil, err
	}

	s.logger.Info().Str("post_id", created.ID).Str("author_id", created.AuthorID).Msg("post created")

	view := s.toView(*created, communityRefMap(community))
	return &view, nil
}

func (s *PostService) Get(ctx context.Context, id string) (*ports.PostView, error) {
	post, err := s.posts.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	refs := s.resolveCommunities(ctx, []domain.Post{*post})
	view := s.toView(*post, refs)
	return &view, nil
}

// Delete removes a post; only its author may delete it.
func (s *PostService) Delete(ctx context.Context, postID, requesterID string) error {
	post, err := s.posts.FindByID(ctx, postID)
	if err != nil {
		return err
	}
	if post.AuthorID != requesterID {
		return domain.ErrForbidden
	}

	if err := s.posts.Delete(ctx, postID); err != nil {
		return err
	}
	if err := s.board.Remove(ctx, postID); err != nil {
		s.logger.Warn().Err(err).Str("post_id", postID).Msg("failed to drop post from leaderboard")
	}
	return nil
}

// HomeFeed returns the global feed, newest first, optionally filtered by a
// case-insensitive substring query over title and content.
func (s *PostService) HomeFeed(ctx context.Context, query string) ([]ports.PostView, error) {
	posts, err := s.posts.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	ranked := domain.FilterQuery(domain.RankNewest(posts), query)
	return s.toViews(ctx, ranked), nil
}

// PopularFeed returns the global feed ordered by score descending.
func (s *PostService) PopularFeed(ctx context.Context) ([]ports.PostView, error) {
	posts, err := s.posts.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	// Ranking is score-descending with chronological tie-break, so order the
	// snapshot newest-first before the stable score sort.
	ranked := domain.RankPopular(domain.RankNewest(posts))
	return s.toViews(ctx, ranked), nil
}

func (s *PostService) CommunityFeed(ctx context.Context, communityID string) ([]ports.PostView, error) {
	posts, err := s.posts.ListByCommunity(ctx, communityID)
	if err != nil {
		return nil, err
	}
	return s.toViews(ctx, domain.RankNewest(posts)), nil
}

// Trending serves the cached leaderboard. On cache failure it degrades to the
// authoritative popular feed instead of erroring.
func (s *PostService) Trending(ctx context.Context, limit int) ([]ports.PostView, error) {
	if limit <= 0 || limit > 100 {
		limit = 25
	}

	ids, err := s.board.TopPosts(ctx, limit)
	if err != nil {
		s.logger.Warn().Err(err).Msg("leaderboard unavailable, falling back to popular feed")
		views, err := s.PopularFeed(ctx)
		if err != nil {
			return nil, err
		}
		if len(views) > limit {
			views = views[:limit]
		}
		return views, nil
	}

	snapshot := make([]domain.Post, 0, len(ids))
	for _, id := range ids {
		post, err := s.posts.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, domain.ErrPostNotFound) {
				continue // deleted since last cache write
			}
			return nil, err
		}
		snapshot = append(snapshot, *post)
	}
	return s.toViews(ctx, snapshot), nil
}

func (s *PostService) Upvote(ctx context.Context, postID, userID string) (*ports.VoteResult, error) {
	return s.vote(ctx, postID, userID, domain.VoteUp)
}

func (s *PostService) Downvote(ctx context.Context, postID, userID string) (*ports.VoteResult, error) {
	return s.vote(ctx, postID, userID, domain.VoteDown)
}

// vote applies one vote transition: the opposite vote is withdrawn, a repeated
// vote toggles off. The transition is computed on a read snapshot but persisted
// as a targeted per-user update, so votes by different users commute.
func (s *PostService) vote(ctx context.Context, postID, userID string, dir domain.VoteDirection) (*ports.VoteResult, error) {
	post, err := s.posts.FindByID(ctx, postID)
	if err != nil {
		return nil, err
	}

	removed := post.CastVote(userID, dir)

	if err := s.posts.ApplyVote(ctx, postID, userID, dir, removed); err != nil {
		s.logger.Error().Err(err).Str("post_id", postID).Msg("failed to persist vote")
		return nil, err
	}

	if err := s.board.SetScore(ctx, postID, post.Score()); err != nil {
		s.logger.Warn().Err(err).Str("post_id", postID).Msg("failed to update leaderboard")
	}

	s.logger.Debug().
		Str("post_id", postID).
		Str("user_id", userID).
		Str("direction", string(dir)).
		Bool("removed", removed).
		Int("score", post.Score()).
		Msg("vote applied")

	return &ports.VoteResult{
		PostID:    postID,
		Score:     post.Score(),
		Upvotes:   len(post.Upvotes),
		Downvotes: len(post.Downvotes),
		Removed:   removed,
	}, nil
}

// resolveCommunities maps each distinct community id in posts to a ref.
// Deleted communities resolve to no entry, so the view serializes null
// (orphaned references are expected after community deletion).
func (s *PostService) resolveCommunities(ctx context.Context, posts []domain.Post) map[string]*ports.CommunityRef {
	refs := make(map[string]*ports.CommunityRef)
	for _, p := range posts {
		if p.CommunityID == "" {
			continue
		}
		if _, seen := refs[p.CommunityID]; seen {
			continue
		}
		c, err := s.communities.FindByID(ctx, p.CommunityID)
		if err != nil {
			if !errors.Is(err, domain.ErrCommunityNotFound) {
				s.logger.Warn().Err(err).Str("community_id", p.CommunityID).Msg("failed to resolve community")
			}
			refs[p.CommunityID] = nil
			continue
		}
		refs[p.CommunityID] = &ports.CommunityRef{ID: c.ID, Name: c.Name}
	}
	return refs
}

func (s *PostService) toViews(ctx context.Context, posts []domain.Post) []ports.PostView {
	refs := s.resolveCommunities(ctx, posts)
	views := make([]ports.PostView, len(posts))
	for i, p := range posts {
		views[i] = s.toView(p, refs)
	}
	return views
}

func (s *PostService) toView(p domain.Post, refs map[string]*ports.CommunityRef) ports.PostView {
	view := ports.PostView{
		ID:          p.ID,
		Title:       p.Title,
		Content:     p.Content,
		ContentHTML: renderContent(p.Content),
		AuthorID:    p.AuthorID,
		Upvotes:     len(p.Upvotes),
		Downvotes:   len(p.Downvotes),
		Score:       p.Score(),
		CreatedAt:   p.CreatedAt,
	}
	if p.CommunityID != "" {
		view.Community = refs[p.CommunityID]
	}
	return view
}

func communityRefMap(c *domain.Community) map[string]*ports.CommunityRef {
	if c == nil {
		return nil
	}
	return map[string]*ports.CommunityRef{c.ID: {ID: c.ID, Name: c.Name}}
}
