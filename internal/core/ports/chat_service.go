package ports

import (
	"context"

	"github.com/commonroom/community-platform/internal/core/domain"
)

// ChatSummary is one entry in a user's chat list.
type ChatSummary struct {
	Chat   domain.Chat
	PeerID string
	Unread int64
}

// DeliveryInput is the DTO handed to the delivery dispatcher after a message
// has been persisted. Ordering is guaranteed per chat, not globally.
type DeliveryInput struct {
	ChatID      string
	MessageID   string
	SenderID    string
	RecipientID string
}

// ChatService defines use-case operations for direct messages.
type ChatService interface {
	// Open returns the chat between userID and peerID, creating it if absent.
	// Opening an existing pair is idempotent.
	Open(ctx context.Context, userID, peerID string) (*domain.Chat, error)
	List(ctx context.Context, userID string) ([]ChatSummary, error)
	// Messages returns the chat history and resets the requester's unread
	// counter. Non-participants are rejected.
	Messages(ctx context.Context, chatID, requesterID string) ([]domain.Message, error)
	Send(ctx context.Context, chatID, senderID, content string) (*domain.Message, error)
}

// DeliveryService processes queued delivery notifications.
type DeliveryService interface {
	Process(ctx context.Context, delivery DeliveryInput) error
}
