package domain

import (
	"errors"
	"time"
)

var ErrPostNotFound = errors.New("post not found")
var ErrNotCommunityMember = errors.New("not a member of the community")

// VoteDirection distinguishes the two vote ledgers on a post.
type VoteDirection string

const (
	VoteUp   VoteDirection = "up"
	VoteDown VoteDirection = "down"
)

// Post carries its own vote ledger: the sets of user ids that upvoted and
// downvoted. A user id appears in at most one of the two sets.
type Post struct {
	ID          string    `json:"id" bson:"_id,omitempty"`
	Title       string    `json:"title" bson:"title"`
	Content     string    `json:"content" bson:"content"`
	AuthorID    string    `json:"author_id" bson:"author_id"`
	CommunityID string    `json:"community_id,omitempty" bson:"community_id,omitempty"`
	Upvotes     []string  `json:"upvotes" bson:"upvotes"`
	Downvotes   []string  `json:"downvotes" bson:"downvotes"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at"`
}

// Score is the number of upvotes minus the number of downvotes.
// Nil ledgers count as empty sets.
func (p *Post) Score() int {
	return len(p.Upvotes) - len(p.Downvotes)
}

// HasVoted reports whether userID is present in the ledger for dir.
func (p *Post) HasVoted(userID string, dir VoteDirection) bool {
	return contains(p.ledger(dir), userID)
}

// CastVote applies one vote transition for userID:
//   - a vote in the opposite direction is withdrawn first,
//   - a repeated vote in the same direction toggles the vote off,
//   - otherwise userID is added to the ledger for dir.
//
// Removed reports whether the call was a toggle-off.
func (p *Post) CastVote(userID string, dir VoteDirection) (removed bool) {
	opposite := VoteDown
	if dir == VoteDown {
		opposite = VoteUp
	}
	p.setLedger(opposite, without(p.ledger(opposite), userID))

	same := p.ledger(dir)
	if contains(same, userID) {
		p.setLedger(dir, without(same, userID))
		return true
	}
	p.setLedger(dir, append(same, userID))
	return false
}

func (p *Post) ledger(dir VoteDirection) []string {
	if dir == VoteDown {
		return p.Downvotes
	}
	return p.Upvotes
}

func (p *Post) setLedger(dir VoteDirection, ids []string) {
	if dir == VoteDown {
		p.Downvotes = ids
		return
	}
	p.Upvotes = ids
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func without(ids []string, id string) []string {
	out := ids[:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
