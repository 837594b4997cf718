package redisclient

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/AnusaraSen/clinic-appointment-scheduling/internal/schedule"
)

// BookedCache keeps each provider's booked (date, time) set in Redis under a
// short TTL. Cache trouble is never fatal: a miss or a Redis error just sends
// the read back to Postgres.
type BookedCache struct {
	client *redis.Client
	ttl    time.Duration
	log    *zap.Logger
}

func NewBookedCache(client *redis.Client, ttl time.Duration, log *zap.Logger) *BookedCache {
	return &BookedCache{
		client: client,
		ttl:    ttl,
		log:    log,
	}
}

func bookedSetKey(providerID uuid.UUID) string {
	return fmt.Sprintf("booked:%s", providerID.String())
}

func (c *BookedCache) Get(ctx context.Context, providerID uuid.UUID) ([]schedule.BookedEntry, bool) {
	raw, err := c.client.Get(ctx, bookedSetKey(providerID)).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.log.Warn("booked cache read failed", zap.Error(err))
		}
		return nil, false
	}

	var entries []schedule.BookedEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		c.log.Warn("booked cache entry corrupt, dropping", zap.Error(err))
		_ = c.client.Del(ctx, bookedSetKey(providerID)).Err()
		return nil, false
	}

	return entries, true
}

func (c *BookedCache) Set(ctx context.Context, providerID uuid.UUID, entries []schedule.BookedEntry) {
	raw, err := json.Marshal(entries)
	if err != nil {
		c.log.Warn("booked cache marshal failed", zap.Error(err))
		return
	}

	if err := c.client.Set(ctx, bookedSetKey(providerID), raw, c.ttl).Err(); err != nil {
		c.log.Warn("booked cache write failed", zap.Error(err))
	}
}

// Invalidate drops a provider's cached set, typically right after a booking
// wins its slot so other sessions see the claim on their next refresh.
func (c *BookedCache) Invalidate(ctx context.Context, providerID uuid.UUID) {
	if err := c.client.Del(ctx, bookedSetKey(providerID)).Err(); err != nil {
		c.log.Warn("booked cache invalidation failed", zap.Error(err))
	}
}
