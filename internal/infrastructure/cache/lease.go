package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// releaseScript deletes a lease only when the caller still owns it, so a
// lease that expired and was re-acquired by another process is never
// released by the original holder.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// Lease is a best-effort distributed lock backed by SET NX with a TTL.
// Settlement runs use one lease per vendor so that the scheduled sweep and
// an on-demand run never aggregate the same vendor concurrently.
type Lease struct {
	client *redis.Client
	key    string
	token  string
	ttl    time.Duration
}

// AcquireLease attempts to take the named lease. Returns (nil, false, nil)
// when another holder owns it.
func (r *RedisClient) AcquireLease(ctx context.Context, key string, ttl time.Duration) (*Lease, bool, error) {
	token := uuid.NewString()

	ok, err := r.Client.SetNX(ctx, key, token, ttl).Result()
	if err != nil {
		return nil, false, fmt.Errorf("acquire lease %s: %w", key, err)
	}
	if !ok {
		return nil, false, nil
	}

	return &Lease{client: r.Client, key: key, token: token, ttl: ttl}, true, nil
}

// Release gives the lease back. Safe to call after expiry.
func (l *Lease) Release(ctx context.Context) error {
	if err := releaseScript.Run(ctx, l.client, []string{l.key}, l.token).Err(); err != nil && err != redis.Nil {
		return fmt.Errorf("release lease %s: %w", l.key, err)
	}
	return nil
}
