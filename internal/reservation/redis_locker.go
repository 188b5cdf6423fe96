package reservation

import (
	"context"
	"fmt"
	"sync"
	"time"

	"bus-booking/internal/domain"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// only the holder's token may delete the key
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisLocker shares the per-bus section between service instances. The key
// expires after ttl so a crashed holder cannot block a bus forever; database row
// locks still protect the seats if a section outlives its key.
type RedisLocker struct {
	client *redis.Client
	ttl    time.Duration
	poll   time.Duration
	prefix string
	log    *zap.Logger
}

func NewRedisLocker(client *redis.Client, ttl time.Duration, log *zap.Logger) *RedisLocker {
	if ttl <= 0 {
		ttl = 15 * time.Second
	}
	return &RedisLocker{
		client: client,
		ttl:    ttl,
		poll:   25 * time.Millisecond,
		prefix: "bus-booking:seat-lock:",
		log:    log.With(zap.String("locker", "redis")),
	}
}

func (l *RedisLocker) Acquire(ctx context.Context, busID uuid.UUID, wait time.Duration) (func(), error) {
	key := l.prefix + busID.String()
	token := uuid.NewString()
	deadline := time.Now().Add(wait)

	for {
		ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
		if err != nil {
			return nil, fmt.Errorf("acquire lock for bus %s: %w", busID, err)
		}
		if ok {
			return l.releaser(key, token), nil
		}

		remaining := time.Until(deadline)
		if remaining <= 0 {
			return nil, &domain.BusyError{BusID: busID, Waited: wait}
		}

		timer := time.NewTimer(min(l.poll, remaining))
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		}
	}
}

func (l *RedisLocker) releaser(key, token string) func() {
	var once sync.Once
	return func() {
		once.Do(func() {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()

			if err := releaseScript.Run(ctx, l.client, []string{key}, token).Err(); err != nil {
				l.log.Warn("Failed to release lock", zap.String("key", key), zap.Error(err))
			}
		})
	}
}
