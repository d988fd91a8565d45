package redisstate

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/acsiqueiraGit/FloodFillBackend/internal/repository"
)

// releaseScript 只删除仍由自己持有的锁（token 一致）
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisGridLocker 是 GridLocker 接口的 Redis 实现，多实例部署时串行化同一画布的修改。
type RedisGridLocker struct {
	client     *redis.Client
	keyPrefix  string
	ttl        time.Duration // 锁的过期时间，防止持有者崩溃后死锁
	maxWait    time.Duration
	retryDelay time.Duration
}

// NewRedisGridLocker 创建 RedisGridLocker 实例
func NewRedisGridLocker(client *redis.Client, keyPrefix string, ttl, maxWait time.Duration) *RedisGridLocker {
	if client == nil {
		panic("redis client cannot be nil for RedisGridLocker")
	}
	if keyPrefix == "" {
		keyPrefix = "ff:"
	}
	if ttl <= 0 {
		ttl = 10 * time.Second
	}
	if maxWait <= 0 {
		maxWait = 5 * time.Second
	}
	return &RedisGridLocker{
		client:     client,
		keyPrefix:  keyPrefix,
		ttl:        ttl,
		maxWait:    maxWait,
		retryDelay: 25 * time.Millisecond,
	}
}

func (l *RedisGridLocker) lockKey(key string) string {
	return fmt.Sprintf("%slock:%s", l.keyPrefix, key)
}

// Acquire 实现 repository.GridLocker
func (l *RedisGridLocker) Acquire(ctx context.Context, key string) (func(), error) {
	redisKey := l.lockKey(key)
	token := uuid.NewString()
	deadline := time.Now().Add(l.maxWait)

	for {
		if ctx.Err() != nil {
			return nil, repository.ErrLockNotAcquired
		}
		ok, err := l.client.SetNX(ctx, redisKey, token, l.ttl).Result()
		if err != nil {
			if ctx.Err() != nil {
				return nil, repository.ErrLockNotAcquired
			}
			return nil, fmt.Errorf("redis: failed to acquire lock %s: %w", redisKey, err)
		}
		if ok {
			return func() { l.release(redisKey, token) }, nil
		}
		if time.Now().After(deadline) {
			return nil, repository.ErrLockNotAcquired
		}

		select {
		case <-ctx.Done():
			return nil, repository.ErrLockNotAcquired
		case <-time.After(l.retryDelay):
		}
	}
}

func (l *RedisGridLocker) release(redisKey, token string) {
	// 请求的 ctx 可能已经结束，释放时使用独立的 context
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := releaseScript.Run(ctx, l.client, []string{redisKey}, token).Err(); err != nil && !errors.Is(err, redis.Nil) {
		logrus.WithError(err).WithField("key", redisKey).Warn("redis: failed to release lock")
	}
}
