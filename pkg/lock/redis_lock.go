// Package lock provides a Redis lease lock for cluster-wide mutual
// exclusion of scheduled jobs. A job acquires the lock before running;
// other instances (and overlapping runs on the same instance) are
// skipped while the lease is held. The lease expires on its own, so a
// crashed holder cannot deadlock future runs.
package lock

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "scheduler-lock:"

// releaseScript deletes the key only if this holder still owns it.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// holdScript shortens or extends the expiry only if this holder owns the key.
var holdScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("PEXPIRE", KEYS[1], ARGV[2])
end
return 0
`)

type Locker interface {
	// Acquire tries to take the named lock for at most atMost.
	// Returns (nil, false, nil) when another holder has it.
	Acquire(ctx context.Context, name string, atMost time.Duration) (*Lease, bool, error)
}

type RedisLocker struct {
	client *redis.Client
}

func NewRedisLocker(client *redis.Client) *RedisLocker {
	return &RedisLocker{client: client}
}

type Lease struct {
	client     *redis.Client
	key        string
	token      string
	acquiredAt time.Time
}

func (l *RedisLocker) Acquire(ctx context.Context, name string, atMost time.Duration) (*Lease, bool, error) {
	key := keyPrefix + name
	token := uuid.New().String()

	ok, err := l.client.SetNX(ctx, key, token, atMost).Result()
	if err != nil {
		return nil, false, err
	}
	if !ok {
		return nil, false, nil
	}

	return &Lease{
		client:     l.client,
		key:        key,
		token:      token,
		acquiredAt: time.Now(),
	}, true, nil
}

// Release ends the lease, but never before atLeast has elapsed since
// acquisition: a fast job keeps the key alive for the remainder so a
// daily job cannot run twice across instances within its period.
func (le *Lease) Release(ctx context.Context, atLeast time.Duration) error {
	elapsed := time.Since(le.acquiredAt)
	if elapsed >= atLeast {
		return releaseScript.Run(ctx, le.client, []string{le.key}, le.token).Err()
	}

	remaining := atLeast - elapsed
	return holdScript.Run(ctx, le.client, []string{le.key}, le.token, remaining.Milliseconds()).Err()
}
