package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// UnreadCounter tracks per-recipient unread message counts.
// Key format: unread:<chat_id>:<user_id>
type UnreadCounter struct {
	client *redis.Client
}

// NewUnreadCounter creates an UnreadCounter wrapping the given Redis client.
func NewUnreadCounter(client *redis.Client) *UnreadCounter {
	return &UnreadCounter{client: client}
}

// Incr bumps the unread count for userID in chatID.
func (u *UnreadCounter) Incr(ctx context.Context, chatID, userID string) error {
	return u.client.Incr(ctx, u.key(chatID, userID)).Err()
}

// Get returns the current unread count; a missing key counts as zero.
func (u *UnreadCounter) Get(ctx context.Context, chatID, userID string) (int64, error) {
	n, err := u.client.Get(ctx, u.key(chatID, userID)).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, fmt.Errorf("unread get: %w", err)
	}
	return n, nil
}

// Reset clears the unread count after the recipient has read the chat.
func (u *UnreadCounter) Reset(ctx context.Context, chatID, userID string) error {
	err := u.client.Del(ctx, u.key(chatID, userID)).Err()
	if err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("unread reset: %w", err)
	}
	return nil
}

func (u *UnreadCounter) key(chatID, userID string) string {
	return fmt.Sprintf("unread:%s:%s", chatID, userID)
}
