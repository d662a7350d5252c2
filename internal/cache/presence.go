package cache

import (
	"context"
	"time"

	"incontro/internal/observability"

	"github.com/redis/go-redis/v9"
)

// PresenceTracker records heartbeats in Redis with a sliding TTL and answers
// online checks from them. With no Redis client it degrades to a nil tracker,
// which callers treat as "use the persisted flag".
type PresenceTracker struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewPresenceTracker returns a tracker over the given client, or nil when the
// client is nil.
func NewPresenceTracker(rdb *redis.Client) *PresenceTracker {
	if rdb == nil {
		return nil
	}
	return &PresenceTracker{rdb: rdb, ttl: PresenceTTL}
}

// MarkOnline records a heartbeat for the user, refreshing the TTL.
func (p *PresenceTracker) MarkOnline(ctx context.Context, userID uint) error {
	observability.PresenceHeartbeats.Inc()
	return p.rdb.Set(ctx, PresenceKey(userID), "1", p.ttl).Err()
}

// MarkOffline removes the user's presence key, used on explicit logout.
func (p *PresenceTracker) MarkOffline(ctx context.Context, userID uint) error {
	return p.rdb.Del(ctx, PresenceKey(userID)).Err()
}

// IsOnline reports whether the user has a live heartbeat.
func (p *PresenceTracker) IsOnline(ctx context.Context, userID uint) (bool, error) {
	n, err := p.rdb.Exists(ctx, PresenceKey(userID)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
