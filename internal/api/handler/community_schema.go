package handler

import (
	"time"

	"github.com/commonroom/community-platform/internal/core/domain"
)

type createCommunityRequest struct {
	Name        string `json:"name"        validate:"required,min=3,max=50"`
	Description string `json:"description" validate:"max=500"`
}

// updateCommunityRequest is the creator-only patch. Absent fields keep the
// current value.
type updateCommunityRequest struct {
	Name        string `json:"name,omitempty"        validate:"omitempty,min=3,max=50"`
	Description string `json:"description,omitempty" validate:"omitempty,max=500"`
}

type communityResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatorID   string    `json:"creator_id"`
	Members     []string  `json:"members"`
	MemberCount int       `json:"member_count"`
	CreatedAt   time.Time `json:"created_at"`
}

type listCommunitiesResponse struct {
	Data []communityResponse `json:"data"`
}

func toCommunityResponse(c *domain.Community) communityResponse {
	return communityResponse{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		CreatorID:   c.CreatorID,
		Members:     c.Members,
		MemberCount: len(c.Members),
		CreatedAt:   c.CreatedAt.UTC(),
	}
}
