package lock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var ErrNotHeld = errors.New("lease not held")

// releaseScript deletes the key only while it still carries our token, so
// an expired holder never frees a lease that another instance took over.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// NewClient connects to Redis and verifies it answers.
func NewClient(ctx context.Context, addr, password string, db int, logger *zap.Logger) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	logger.Info("redis client connected", zap.String("addr", addr))
	return rdb, nil
}

type Locker struct {
	client *redis.Client
}

func NewLocker(client *redis.Client) *Locker {
	return &Locker{client: client}
}

type Lease struct {
	client *redis.Client
	key    string
	token  string
}

// TryAcquire takes key for ttl. It returns (nil, false, nil) when another
// holder owns it.
func (l *Locker) TryAcquire(ctx context.Context, key string, ttl time.Duration) (*Lease, bool, error) {
	token := uuid.NewString()

	ok, err := l.client.SetNX(ctx, key, token, ttl).Result()
	if err != nil {
		return nil, false, fmt.Errorf("acquire %s: %w", key, err)
	}
	if !ok {
		return nil, false, nil
	}

	return &Lease{client: l.client, key: key, token: token}, true, nil
}

func (l *Lease) Release(ctx context.Context) error {
	n, err := releaseScript.Run(ctx, l.client, []string{l.key}, l.token).Int()
	if err != nil {
		return fmt.Errorf("release %s: %w", l.key, err)
	}
	if n == 0 {
		return ErrNotHeld
	}
	return nil
}
