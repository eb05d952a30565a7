package redis

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
)

// Availability caches ticket remaining counts for catalog views. It
// is a read-side cache only: the database row stays the source of
// truth and every successful reservation invalidates the key.
type Availability struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewAvailability(client *redis.Client, ttl time.Duration) *Availability {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &Availability{Client: client, TTL: ttl}
}

func availabilityKey(ticketTypeID string) string {
	return "ticket_avail:" + ticketTypeID
}

// GetRemaining returns the cached remaining count. The second return
// value reports whether the key was present.
func (a *Availability) GetRemaining(ctx context.Context, ticketTypeID string) (int, bool, error) {
	val, err := a.Client.Get(ctx, availabilityKey(ticketTypeID)).Result()
	if err == redis.Nil {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	remaining, err := strconv.Atoi(val)
	if err != nil {
		return 0, false, fmt.Errorf("corrupt availability value %q: %w", val, err)
	}
	return remaining, true, nil
}

func (a *Availability) SetRemaining(ctx context.Context, ticketTypeID string, remaining int) error {
	return a.Client.Set(ctx, availabilityKey(ticketTypeID), strconv.Itoa(remaining), a.TTL).Err()
}

// Invalidate drops the cached count after a successful reservation so
// the next read comes from the database.
func (a *Availability) Invalidate(ctx context.Context, ticketTypeID string) error {
	return a.Client.Del(ctx, availabilityKey(ticketTypeID)).Err()
}
