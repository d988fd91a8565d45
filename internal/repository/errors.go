package repository

import "errors"

// 通用的存储库错误
var (
	// ErrNotFound 表示请求的记录未找到
	ErrNotFound = errors.New("repository: record not found")
	// ErrLockNotAcquired 表示在等待时间内没能拿到画布锁
	ErrLockNotAcquired = errors.New("repository: lock not acquired")
)

// 特定资源的错误
var (
	ErrFloodFillNotFound = ErrNotFound
)
