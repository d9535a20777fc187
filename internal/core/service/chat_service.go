package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/commonroom/community-platform/internal/core/domain"
	"github.com/commonroom/community-platform/internal/core/ports"
)

// UnreadCounter abstracts the per-recipient unread markers (Redis).
type UnreadCounter interface {
	Incr(ctx context.Context, chatID, userID string) error
	Get(ctx context.Context, chatID, userID string) (int64, error)
	Reset(ctx context.Context, chatID, userID string) error
}

// Deliverer enqueues delivery notifications for persisted messages.
type Deliverer interface {
	Enqueue(delivery ports.DeliveryInput)
}

// ChatService implements direct-message chats. Messages are persisted
// synchronously; delivery notifications (unread markers) are handed to the
// dispatcher after the write is acknowledged.
type ChatService struct {
	chats     ports.ChatRepository
	users     ports.UserRepository
	unread    UnreadCounter
	deliverer Deliverer
	logger    zerolog.Logger
}

func NewChatService(chats ports.ChatRepository, users ports.UserRepository, unread UnreadCounter, deliverer Deliverer, logger zerolog.Logger) *ChatService {
	return &ChatService{chats: chats, users: users, unread: unread, deliverer: deliverer, logger: logger}
}

// Open returns the chat between userID and peerID, creating it if absent.
// The participant pair is canonicalized so repeated opens are idempotent.
func (s *ChatService) Open(ctx context.Context, userID, peerID string) (*domain.Chat, error) {
	if userID == peerID {
		return nil, domain.ErrSelfChat
	}
	if _, err := s.users.FindByID(ctx, peerID); err != nil {
		return nil, err
	}

	pair := domain.CanonicalPair(userID, peerID)
	existing, err := s.chats.FindByParticipants(ctx, pair)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, domain.ErrChatNotFound) {
		return nil, err
	}

	chat := &domain.Chat{
		Participants: pair,
		CreatedAt:    time.Now().UTC(),
	}
	created, err := s.chats.Create(ctx, chat)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("chat_id", created.ID).Msg("chat opened")
	return created, nil
}

// List returns the user's chats with their unread counts.
func (s *ChatService) List(ctx context.Context, userID string) ([]ports.ChatSummary, error) {
	chats, err := s.chats.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	summaries := make([]ports.ChatSummary, len(chats))
	for i, chat := range chats {
		unread, err := s.unread.Get(ctx, chat.ID, userID)
		if err != nil {
			s.logger.Warn().Err(err).Str("chat_id", chat.ID).Msg("unread counter unavailable")
			unread = 0
		}
		summaries[i] = ports.ChatSummary{
			Chat:   chat,
			PeerID: chat.Peer(userID),
			Unread: unread,
		}
	}
	return summaries, nil
}

// Messages returns the chat history for a participant and resets their unread
// counter.
func (s *ChatService) Messages(ctx context.Context, chatID, requesterID string) ([]domain.Message, error) {
	chat, err := s.chats.FindByID(ctx, chatID)
	if err != nil {
		return nil, err
	}
	if !chat.HasParticipant(requesterID) {
		return nil, domain.ErrNotParticipant
	}

	messages, err := s.chats.ListMessages(ctx, chatID)
	if err != nil {
		return nil, err
	}

	if err := s.unread.Reset(ctx, chatID, requesterID); err != nil {
		s.logger.Warn().Err(err).Str("chat_id", chatID).Msg("failed to reset unread counter")
	}
	return messages, nil
}

// Send persists a message and enqueues a delivery notification for the peer.
func (s *ChatService) Send(ctx context.Context, chatID, senderID, content string) (*domain.Message, error) {
	chat, err := s.chats.FindByID(ctx, chatID)
	if err != nil {
		return nil, err
	}
	if !chat.HasParticipant(senderID) {
		return nil, domain.ErrNotParticipant
	}

	message := &domain.Message{
		ID:        uuid.NewString(),
		ChatID:    chatID,
		SenderID:  senderID,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.chats.InsertMessage(ctx, message); err != nil {
		s.logger.Error().Err(err).Str("chat_id", chatID).Msg("failed to persist message")
		return nil, err
	}

	s.deliverer.Enqueue(ports.DeliveryInput{
		ChatID:      chatID,
		MessageID:   message.ID,
		SenderID:    senderID,
		RecipientID: chat.Peer(senderID),
	})

	return message, nil
}
