package slotlock

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// releaseScript удаляет ключ, только если он все еще принадлежит владельцу токена
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

const (
	defaultRedisTTL   = 10 * time.Second
	redisRetryBackoff = 25 * time.Millisecond
)

// Redis распределенная блокировка на SET NX PX для нескольких инстансов сервиса
type Redis struct {
	client  redis.UniversalClient
	ttl     time.Duration
	timeout time.Duration
}

// NewRedis создает блокировку поверх redis.
// ttl ограничивает время жизни ключа, если владелец упал, не освободив его.
func NewRedis(client redis.UniversalClient, ttl, timeout time.Duration) *Redis {
	if ttl <= 0 {
		ttl = defaultRedisTTL
	}
	return &Redis{client: client, ttl: ttl, timeout: timeout}
}

// Acquire пытается захватить ключ, повторяя попытки до истечения timeout
func (r *Redis) Acquire(ctx context.Context, key string) (Release, error) {
	token := uuid.NewString()

	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	ticker := time.NewTicker(redisRetryBackoff)
	defer ticker.Stop()

	for {
		ok, err := r.client.SetNX(ctx, key, token, r.ttl).Result()
		if err != nil {
			if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
				return nil, fmt.Errorf("%w: %s", ErrLockTimeout, key)
			}
			return nil, fmt.Errorf("%w: SETNX %s: %v", ErrBackend, key, err)
		}
		if ok {
			break
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: %s", ErrLockTimeout, key)
		case <-ticker.C:
		}
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			releaseCtx, cancel := context.WithTimeout(context.Background(), r.ttl)
			defer cancel()
			_ = releaseScript.Run(releaseCtx, r.client, []string{key}, token).Err()
		})
	}, nil
}
