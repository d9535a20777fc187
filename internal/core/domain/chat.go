package domain

import (
	"errors"
	"time"
)

var ErrChatNotFound = errors.New("chat not found")
var ErrNotParticipant = errors.New("not a chat participant")
var ErrSelfChat = errors.New("cannot open a chat with yourself")

// Chat is an unordered pair of participants. Participants are stored in
// canonical order so the pair maps to exactly one document.
type Chat struct {
	ID           string    `json:"id" bson:"_id,omitempty"`
	Participants [2]string `json:"participants" bson:"participants"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at"`
}

// CanonicalPair orders two user ids deterministically.
func CanonicalPair(a, b string) [2]string {
	if b < a {
		a, b = b, a
	}
	return [2]string{a, b}
}

// HasParticipant reports whether userID is one of the two participants.
func (c *Chat) HasParticipant(userID string) bool {
	return c.Participants[0] == userID || c.Participants[1] == userID
}

// Peer returns the other participant. Callers must check HasParticipant first.
func (c *Chat) Peer(userID string) string {
	if c.Participants[0] == userID {
		return c.Participants[1]
	}
	return c.Participants[0]
}

// Message belongs to a chat. IDs are generated by the service (uuid), not by
// the store, so delivery notifications can reference the message before the
// insert is acknowledged.
type Message struct {
	ID        string    `json:"id" bson:"_id"`
	ChatID    string    `json:"chat_id" bson:"chat_id"`
	SenderID  string    `json:"sender_id" bson:"sender_id"`
	Content   string    `json:"content" bson:"content"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}
