package repository

import "context"

// GridLocker 串行化对同一个画布的修改。
type GridLocker interface {
	// Acquire 获取 key 对应的锁，返回释放函数。
	// 在 ctx 结束或等待超时前仍未拿到锁时返回 ErrLockNotAcquired。
	Acquire(ctx context.Context, key string) (release func(), err error)
}
