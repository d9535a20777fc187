package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/commonroom/community-platform/internal/core/ports"
)

type deliveryService struct {
	unread UnreadCounter
	log    zerolog.Logger
}

// NewDeliveryService returns a DeliveryService that marks queued messages as
// unread for their recipient.
func NewDeliveryService(unread UnreadCounter, log zerolog.Logger) ports.DeliveryService {
	return &deliveryService{unread: unread, log: log}
}

// Process bumps the recipient's unread counter for the delivered message.
func (s *deliveryService) Process(ctx context.Context, delivery ports.DeliveryInput) error {
	if err := s.unread.Incr(ctx, delivery.ChatID, delivery.RecipientID); err != nil {
		return err
	}

	s.log.Debug().
		Str("chat_id", delivery.ChatID).
		Str("message_id", delivery.MessageID).
		Str("recipient_id", delivery.RecipientID).
		Msg("delivery recorded")

	return nil
}
