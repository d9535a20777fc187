package domain

import (
	"errors"
	"time"
)

var ErrCommentNotFound = errors.New("comment not found")

// Comment is owned by its post and ordered by creation time.
type Comment struct {
	ID        string    `json:"id" bson:"_id,omitempty"`
	PostID    string    `json:"post_id" bson:"post_id"`
	AuthorID  string    `json:"author_id" bson:"author_id"`
	Content   string    `json:"content" bson:"content"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}
