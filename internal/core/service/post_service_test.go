package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/commonroom/community-platform/internal/core/domain"
	"github.com/commonroom/community-platform/internal/core/ports"
)

type stubPostRepo struct {
	posts map[string]*domain.Post
	order []string
	seq   int
}

func newStubPostRepo() *stubPostRepo {
	return &stubPostRepo{posts: make(map[string]*domain.Post)}
}

func (r *stubPostRepo) Create(_ context.Context, p *domain.Post) (*domain.Post, error) {
	r.seq++
	p.ID = fmt.Sprintf("post-%d", r.seq)
	clone := *p
	r.posts[p.ID] = &clone
	r.order = append(r.order, p.ID)
	return p, nil
}

func (r *stubPostRepo) FindByID(_ context.Context, id string) (*domain.Post, error) {
	p, ok := r.posts[id]
	if !ok {
		return nil, domain.ErrPostNotFound
	}
	clone := *p
	clone.Upvotes = append([]string(nil), p.Upvotes...)
	clone.Downvotes = append([]string(nil), p.Downvotes...)
	return &clone, nil
}

func (r *stubPostRepo) ListAll(_ context.Context) ([]domain.Post, error) {
	out := make([]domain.Post, 0, len(r.order))
	for _, id := range r.order {
		if p, ok := r.posts[id]; ok {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *stubPostRepo) ListByCommunity(_ context.Context, communityID string) ([]domain.Post, error) {
	var out []domain.Post
	for _, id := range r.order {
		if p, ok := r.posts[id]; ok && p.CommunityID == communityID {
			out = append(out, *p)
		}
	}
	return out, nil
}

// ApplyVote mirrors the store's targeted update: only the voter's own ledger
// membership changes, never the full arrays.
func (r *stubPostRepo) ApplyVote(_ context.Context, id, userID string, dir domain.VoteDirection, removed bool) error {
	p, ok := r.posts[id]
	if !ok {
		return domain.ErrPostNotFound
	}

	same, opposite := &p.Upvotes, &p.Downvotes
	if dir == domain.VoteDown {
		same, opposite = &p.Downvotes, &p.Upvotes
	}

	*opposite = dropID(*opposite, userID)
	if removed {
		*same = dropID(*same, userID)
	} else {
		*same = addID(*same, userID)
	}
	return nil
}

func dropID(ids []string, id string) []string {
	out := make([]string, 0, len(ids))
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

func addID(ids []string, id string) []string {
	for _, v := range ids {
		if v == id {
			return ids
		}
	}
	return append(ids, id)
}

func (r *stubPostRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.posts[id]; !ok {
		return domain.ErrPostNotFound
	}
	delete(r.posts, id)
	return nil
}

type stubBoard struct {
	scores  map[string]int
	top     []string
	topErr  error
	removed []string
}

func newStubBoard() *stubBoard {
	return &stubBoard{scores: make(map[string]int)}
}

func (b *stubBoard) SetScore(_ context.Context, postID string, score int) error {
	b.scores[postID] = score
	return nil
}

func (b *stubBoard) Remove(_ context.Context, postID string) error {
	b.removed = append(b.removed, postID)
	delete(b.scores, postID)
	return nil
}

func (b *stubBoard) TopPosts(_ context.Context, limit int) ([]string, error) {
	if b.topErr != nil {
		return nil, b.topErr
	}
	if len(b.top) > limit {
		return b.top[:limit], nil
	}
	return b.top, nil
}

type postFixture struct {
	posts       *stubPostRepo
	communities *stubCommunityRepo
	board       *stubBoard
	svc         *PostService
}

func newPostFixture() *postFixture {
	f := &postFixture{
		posts:       newStubPostRepo(),
		communities: newStubCommunityRepo(),
		board:       newStubBoard(),
	}
	f.svc = NewPostService(f.posts, f.communities, f.board, nopLogger)
	return f
}

func (f *postFixture) seedPost(t *testing.T, title, authorID, communityID string) *ports.PostView {
	t.Helper()
	view, err := f.svc.Create(context.Background(), ports.CreatePostInput{
		Title:       title,
		Content:     "content of " + title,
		AuthorID:    authorID,
		CommunityID: communityID,
	})
	if err != nil {
		t.Fatalf("seed post %q: %v", title, err)
	}
	return view
}

func TestPostService_Create_ProfilePost(t *testing.T) {
	f := newPostFixture()

	view := f.seedPost(t, "hello", "alice", "")

	if view.Community != nil {
		t.Error("profile post should have no community ref")
	}
	if view.Score != 0 || view.Upvotes != 0 || view.Downvotes != 0 {
		t.Errorf("new post should start unvoted, got score=%d up=%d down=%d", view.Score, view.Upvotes, view.Downvotes)
	}
}

func TestPostService_Create_RequiresMembership(t *testing.T) {
	f := newPostFixture()
	communitySvc := NewCommunityService(f.communities, nopLogger)
	c := seedCommunity(t, communitySvc, "alice")

	_, err := f.svc.Create(context.Background(), ports.CreatePostInput{
		Title:       "intruder",
		Content:     "x",
		AuthorID:    "bob",
		CommunityID: c.ID,
	})
	if !errors.Is(err, domain.ErrNotCommunityMember) {
		t.Fatalf("err = %v, want ErrNotCommunityMember", err)
	}

	view := f.seedPost(t, "welcome", "alice", c.ID)
	if view.Community == nil || view.Community.ID != c.ID {
		t.Errorf("member post should resolve community ref, got %+v", view.Community)
	}
}

func TestPostService_Vote_Transitions(t *testing.T) {
	f := newPostFixture()
	post := f.seedPost(t, "hello", "alice", "")
	ctx := context.Background()

	res, err := f.svc.Upvote(ctx, post.ID, "bob")
	if err != nil {
		t.Fatalf("upvote: %v", err)
	}
	if res.Score != 1 || res.Removed {
		t.Errorf("first upvote: score=%d removed=%v, want 1/false", res.Score, res.Removed)
	}

	// Switching direction withdraws the upvote.
	res, err = f.svc.Downvote(ctx, post.ID, "bob")
	if err != nil {
		t.Fatalf("downvote: %v", err)
	}
	if res.Score != -1 || res.Upvotes != 0 || res.Downvotes != 1 || res.Removed {
		t.Errorf("switch: got %+v", res)
	}

	// Repeating toggles off.
	res, err = f.svc.Downvote(ctx, post.ID, "bob")
	if err != nil {
		t.Fatalf("downvote: %v", err)
	}
	if res.Score != 0 || !res.Removed {
		t.Errorf("toggle: got %+v", res)
	}

	if f.board.scores[post.ID] != 0 {
		t.Errorf("leaderboard score = %d, want 0", f.board.scores[post.ID])
	}
}

// staleSnapshotPostRepo serves reads from a snapshot frozen before any vote,
// the interleaving two concurrent requests see when both read before either
// writes. Writes go through to the live store.
type staleSnapshotPostRepo struct {
	*stubPostRepo
	snapshot domain.Post
}

func (r *staleSnapshotPostRepo) FindByID(_ context.Context, id string) (*domain.Post, error) {
	if id != r.snapshot.ID {
		return nil, domain.ErrPostNotFound
	}
	clone := r.snapshot
	clone.Upvotes = append([]string(nil), r.snapshot.Upvotes...)
	clone.Downvotes = append([]string(nil), r.snapshot.Downvotes...)
	return &clone, nil
}

func TestPostService_Vote_ConcurrentVotersBothRecorded(t *testing.T) {
	f := newPostFixture()
	post := f.seedPost(t, "contested", "alice", "")
	ctx := context.Background()

	stored, err := f.posts.FindByID(ctx, post.ID)
	if err != nil {
		t.Fatalf("find post: %v", err)
	}
	stale := &staleSnapshotPostRepo{stubPostRepo: f.posts, snapshot: *stored}
	svc := NewPostService(stale, f.communities, f.board, nopLogger)

	// Both requests read the pre-vote document; neither write may erase the
	// other's ledger entry.
	if _, err := svc.Upvote(ctx, post.ID, "alice"); err != nil {
		t.Fatalf("upvote: %v", err)
	}
	if _, err := svc.Downvote(ctx, post.ID, "bob"); err != nil {
		t.Fatalf("downvote: %v", err)
	}

	final, err := f.posts.FindByID(ctx, post.ID)
	if err != nil {
		t.Fatalf("find post: %v", err)
	}
	if !final.HasVoted("alice", domain.VoteUp) {
		t.Errorf("alice's upvote was lost: upvotes=%v downvotes=%v", final.Upvotes, final.Downvotes)
	}
	if !final.HasVoted("bob", domain.VoteDown) {
		t.Errorf("bob's downvote was lost: upvotes=%v downvotes=%v", final.Upvotes, final.Downvotes)
	}
	if final.Score() != 0 {
		t.Errorf("score = %d, want 0", final.Score())
	}
}

func TestPostService_Vote_UnknownPost(t *testing.T) {
	f := newPostFixture()
	if _, err := f.svc.Upvote(context.Background(), "missing", "bob"); !errors.Is(err, domain.ErrPostNotFound) {
		t.Errorf("err = %v, want ErrPostNotFound", err)
	}
}

func TestPostService_HomeFeed_NewestFirstAndSearch(t *testing.T) {
	f := newPostFixture()
	first := f.seedPost(t, "hello world", "alice", "")
	time.Sleep(2 * time.Millisecond)
	second := f.seedPost(t, "other topic", "alice", "")
	time.Sleep(2 * time.Millisecond)
	third := f.seedPost(t, "HELLO again", "bob", "")

	feed, err := f.svc.HomeFeed(context.Background(), "")
	if err != nil {
		t.Fatalf("home feed: %v", err)
	}
	if len(feed) != 3 || feed[0].ID != third.ID || feed[1].ID != second.ID || feed[2].ID != first.ID {
		t.Fatalf("unexpected order: %v", feedIDs(feed))
	}

	matches, err := f.svc.HomeFeed(context.Background(), "hello")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(matches) != 2 || matches[0].ID != third.ID || matches[1].ID != first.ID {
		t.Errorf("unexpected matches: %v", feedIDs(matches))
	}
}

func TestPostService_PopularFeed(t *testing.T) {
	f := newPostFixture()
	ctx := context.Background()
	low := f.seedPost(t, "low", "alice", "")
	high := f.seedPost(t, "high", "alice", "")

	for _, voter := range []string{"u1", "u2", "u3"} {
		if _, err := f.svc.Upvote(ctx, high.ID, voter); err != nil {
			t.Fatalf("upvote: %v", err)
		}
	}
	if _, err := f.svc.Downvote(ctx, low.ID, "u1"); err != nil {
		t.Fatalf("downvote: %v", err)
	}

	feed, err := f.svc.PopularFeed(ctx)
	if err != nil {
		t.Fatalf("popular feed: %v", err)
	}
	if feed[0].ID != high.ID || feed[1].ID != low.ID {
		t.Errorf("unexpected order: %v", feedIDs(feed))
	}
}

func TestPostService_Trending_FallsBackWhenBoardFails(t *testing.T) {
	f := newPostFixture()
	f.board.topErr = errors.New("redis down")
	post := f.seedPost(t, "only one", "alice", "")

	feed, err := f.svc.Trending(context.Background(), 10)
	if err != nil {
		t.Fatalf("trending should degrade, got %v", err)
	}
	if len(feed) != 1 || feed[0].ID != post.ID {
		t.Errorf("unexpected fallback feed: %v", feedIDs(feed))
	}
}

func TestPostService_Trending_SkipsDeletedPosts(t *testing.T) {
	f := newPostFixture()
	post := f.seedPost(t, "survivor", "alice", "")
	f.board.top = []string{"deleted-post", post.ID}

	feed, err := f.svc.Trending(context.Background(), 10)
	if err != nil {
		t.Fatalf("trending: %v", err)
	}
	if len(feed) != 1 || feed[0].ID != post.ID {
		t.Errorf("stale leaderboard entries should be skipped, got %v", feedIDs(feed))
	}
}

func TestPostService_Get_OrphanedCommunity(t *testing.T) {
	f := newPostFixture()
	communitySvc := NewCommunityService(f.communities, nopLogger)
	c := seedCommunity(t, communitySvc, "alice")
	post := f.seedPost(t, "soon orphaned", "alice", c.ID)

	if err := communitySvc.Delete(context.Background(), c.ID, "alice"); err != nil {
		t.Fatalf("delete community: %v", err)
	}

	view, err := f.svc.Get(context.Background(), post.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if view.Community != nil {
		t.Errorf("deleted community should resolve to nil ref, got %+v", view.Community)
	}
}

func TestPostService_Delete(t *testing.T) {
	f := newPostFixture()
	post := f.seedPost(t, "temp", "alice", "")
	ctx := context.Background()

	if err := f.svc.Delete(ctx, post.ID, "bob"); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("non-author delete: err = %v, want ErrForbidden", err)
	}

	if err := f.svc.Delete(ctx, post.ID, "alice"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(f.board.removed) != 1 || f.board.removed[0] != post.ID {
		t.Errorf("post should be dropped from leaderboard, got %v", f.board.removed)
	}
	if _, err := f.svc.Get(ctx, post.ID); !errors.Is(err, domain.ErrPostNotFound) {
		t.Errorf("err = %v, want ErrPostNotFound", err)
	}
}

func feedIDs(views []ports.PostView) []string {
	ids := make([]string, len(views))
	for i, v := range views {
		ids[i] = v.ID
	}
	return ids
}
