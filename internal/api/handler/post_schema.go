package handler

import "time"

type createPostRequest struct {
	Title       string `json:"title"        validate:"required,max=300"`
	Content     string `json:"content"      validate:"required"`
	CommunityID string `json:"community_id,omitempty"`
}

// communityRefResponse is the resolved community on a post. The field is
// serialized as null for profile-scoped posts and for orphaned references
// (community deleted after the post was created).
type communityRefResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type postResponse struct {
	ID          string                `json:"id"`
	Title       string                `json:"title"`
	Content     string                `json:"content"`
	ContentHTML string                `json:"content_html"`
	AuthorID    string                `json:"author_id"`
	Community   *communityRefResponse `json:"community"`
	Upvotes     int                   `json:"upvotes"`
	Downvotes   int                   `json:"downvotes"`
	Score       int                   `json:"score"`
	CreatedAt   time.Time             `json:"created_at"`
}

type feedResponse struct {
	Data []postResponse `json:"data"`
}

type voteResponse struct {
	PostID    string `json:"post_id"`
	Score     int    `json:"score"`
	Upvotes   int    `json:"upvotes"`
	Downvotes int    `json:"downvotes"`
	Removed   bool   `json:"removed"`
}
