package domain

import (
	"errors"
	"time"
)

var ErrCommunityNotFound = errors.New("community not found")
var ErrDuplicateCommunity = errors.New("community name already taken")
var ErrAlreadyMember = errors.New("already a member")
var ErrNotMember = errors.New("not a member")
var ErrForbidden = errors.New("access forbidden")

// Community is the aggregate owning its membership set. The creator is
// implicitly a member at creation and keeps administrative authority even
// after leaving.
type Community struct {
	ID          string    `json:"id" bson:"_id,omitempty"`
	Name        string    `json:"name" bson:"name"`
	Description string    `json:"description" bson:"description"`
	CreatorID   string    `json:"creator_id" bson:"creator_id"`
	Members     []string  `json:"members" bson:"members"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" bson:"updated_at"`
}

// IsMember reports whether userID belongs to the membership set.
func (c *Community) IsMember(userID string) bool {
	for _, m := range c.Members {
		if m == userID {
			return true
		}
	}
	return false
}

// IsCreator reports whether userID may administer the community.
func (c *Community) IsCreator(userID string) bool {
	return c.CreatorID == userID
}

// Join transitions (community, user) from NonMember to Member.
// Joining twice is an error, not a silent no-op.
func (c *Community) Join(userID string) error {
	if c.IsMember(userID) {
		return ErrAlreadyMember
	}
	c.Members = append(c.Members, userID)
	return nil
}

// Leave transitions (community, user) from Member to NonMember. The creator
// leaving is permitted; ownership is not reassigned.
func (c *Community) Leave(userID string) error {
	for i, m := range c.Members {
		if m == userID {
			c.Members = append(c.Members[:i], c.Members[i+1:]...)
			return nil
		}
	}
	return ErrNotMember
}
