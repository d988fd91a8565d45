package memory

import (
	"context"
	"sync"
	"time"

	"github.com/acsiqueiraGit/FloodFillBackend/internal/repository"
)

// GridLocker 是进程内的按 key 互斥锁，单实例部署时替代 Redis 锁。
type GridLocker struct {
	mu      sync.Mutex
	held    map[string]chan struct{}
	maxWait time.Duration
}

// NewGridLocker 创建 GridLocker。maxWait 是等待锁的最长时间。
func NewGridLocker(maxWait time.Duration) *GridLocker {
	if maxWait <= 0 {
		maxWait = 5 * time.Second
	}
	return &GridLocker{held: make(map[string]chan struct{}), maxWait: maxWait}
}

// Acquire 实现 repository.GridLocker
func (l *GridLocker) Acquire(ctx context.Context, key string) (func(), error) {
	timer := time.NewTimer(l.maxWait)
	defer timer.Stop()

	for {
		l.mu.Lock()
		done, busy := l.held[key]
		if !busy {
			done = make(chan struct{})
			l.held[key] = done
			l.mu.Unlock()
			var once sync.Once
			return func() {
				once.Do(func() {
					l.mu.Lock()
					delete(l.held, key)
					l.mu.Unlock()
					close(done)
				})
			}, nil
		}
		l.mu.Unlock()

		select {
		case <-done:
		case <-ctx.Done():
			return nil, repository.ErrLockNotAcquired
		case <-timer.C:
			return nil, repository.ErrLockNotAcquired
		}
	}
}
