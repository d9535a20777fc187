package ports

import (
	"context"

	"github.com/commonroom/community-platform/internal/core/domain"
)

// ChatRepository defines persistence operations for chats and messages.
type ChatRepository interface {
	Create(ctx context.Context, c *domain.Chat) (*domain.Chat, error)
	FindByID(ctx context.Context, id string) (*domain.Chat, error)
	// FindByParticipants looks up the chat for a canonical participant pair.
	FindByParticipants(ctx context.Context, pair [2]string) (*domain.Chat, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Chat, error)
	InsertMessage(ctx context.Context, m *domain.Message) error
	// ListMessages returns the chat's messages in chronological order.
	ListMessages(ctx context.Context, chatID string) ([]domain.Message, error)
}
