package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const leaderboardKey = "scores:posts"

// Leaderboard mirrors post scores in a sorted set. It is write-through only:
// the authoritative score always lives on the post document, the sorted set
// just serves the trending read path.
type Leaderboard struct {
	client *redis.Client
}

// NewLeaderboard creates a Leaderboard wrapping the given Redis client.
func NewLeaderboard(client *redis.Client) *Leaderboard {
	return &Leaderboard{client: client}
}

// SetScore records the current score for a post.
func (l *Leaderboard) SetScore(ctx context.Context, postID string, score int) error {
	err := l.client.ZAdd(ctx, leaderboardKey, redis.Z{Score: float64(score), Member: postID}).Err()
	if err != nil {
		return fmt.Errorf("leaderboard set: %w", err)
	}
	return nil
}

// Remove drops a deleted post from the leaderboard.
func (l *Leaderboard) Remove(ctx context.Context, postID string) error {
	if err := l.client.ZRem(ctx, leaderboardKey, postID).Err(); err != nil {
		return fmt.Errorf("leaderboard remove: %w", err)
	}
	return nil
}

// TopPosts returns up to limit post ids ordered by score descending.
func (l *Leaderboard) TopPosts(ctx context.Context, limit int) ([]string, error) {
	ids, err := l.client.ZRevRange(ctx, leaderboardKey, 0, int64(limit)-1).Result()
	if err != nil {
		return nil, fmt.Errorf("leaderboard top: %w", err)
	}
	return ids, nil
}
