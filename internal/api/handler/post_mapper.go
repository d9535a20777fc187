package handler

import (
	"github.com/commonroom/community-platform/internal/core/ports"
)

func toPostResponse(v *ports.PostView) postResponse {
	resp := postResponse{
		ID:          v.ID,
		Title:       v.Title,
		Content:     v.Content,
		ContentHTML: v.ContentHTML,
		AuthorID:    v.AuthorID,
		Upvotes:     v.Upvotes,
		Downvotes:   v.Downvotes,
		Score:       v.Score,
		CreatedAt:   v.CreatedAt.UTC(),
	}
	if v.Community != nil {
		resp.Community = &communityRefResponse{ID: v.Community.ID, Name: v.Community.Name}
	}
	return resp
}

func toFeedResponse(views []ports.PostView) feedResponse {
	data := make([]postResponse, len(views))
	for i := range views {
		data[i] = toPostResponse(&views[i])
	}
	return feedResponse{Data: data}
}

func toVoteResponse(r *ports.VoteResult) voteResponse {
	return voteResponse{
		PostID:    r.PostID,
		Score:     r.Score,
		Upvotes:   r.Upvotes,
		Downvotes: r.Downvotes,
		Removed:   r.Removed,
	}
}
