package service

import (
	"context"
	"fmt"
	"time"

	"github.com/prperemyshlev/oauth-broker/pkg/database"
)

// StateReplayGuard remembers consumed state ids in Redis
type StateReplayGuard struct {
	redis *database.Redis
}

// NewStateReplayGuard creates a new replay guard
func NewStateReplayGuard(redis *database.Redis) *StateReplayGuard {
	return &StateReplayGuard{redis: redis}
}

// Consume marks the id as used. It returns false when the id was already used.
func (g *StateReplayGuard) Consume(ctx context.Context, id string, ttl time.Duration) (bool, error) {
	key := fmt.Sprintf("oauth:state:%s", id)
	ok, err := g.redis.Client.SetNX(ctx, key, "1", ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to record state use: %w", err)
	}
	return ok, nil
}
