package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
)

// windowScript 计数加一，只在窗口开始时 (或 key 没有过期时间时) 设置过期时间，
// 返回当前计数和窗口剩余毫秒数
var windowScript = redis.NewScript(`
local count = redis.call("INCR", KEYS[1])
local ttl = redis.call("PTTL", KEYS[1])
if ttl < 0 then
	redis.call("PEXPIRE", KEYS[1], ARGV[1])
	ttl = tonumber(ARGV[1])
end
return {count, ttl}
`)

// RateLimit 返回一个基于 Redis 固定窗口计数的限流中间件。
// 有 userid 请求头时按用户限流，否则按客户端 IP。
func RateLimit(client redis.Cmdable, keyPrefix string, maxRequests int, window time.Duration) gin.HandlerFunc {
	if client == nil {
		panic("Redis client cannot be nil for RateLimit middleware")
	}
	if maxRequests <= 0 {
		panic("maxRequests must be positive for RateLimit middleware")
	}
	if window < time.Millisecond {
		panic("window duration must be at least 1ms for RateLimit middleware")
	}
	windowMs := window.Milliseconds()

	return func(c *gin.Context) {
		subject := "ip:" + c.ClientIP()
		if userID := strings.TrimSpace(c.GetHeader(UserIDHeader)); userID != "" {
			subject = "user:" + userID
		}
		key := keyPrefix + "ratelimit:" + subject

		vals, err := windowScript.Run(c.Request.Context(), client, []string{key}, windowMs).Int64Slice()
		if err != nil || len(vals) != 2 {
			logrus.WithError(err).WithField("key", key).Error("RateLimit: Redis script failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Rate limiting error"})
			c.Abort()
			return
		}
		count, ttlMs := vals[0], vals[1]

		remaining := int64(maxRequests) - count
		if remaining < 0 {
			remaining = 0
		}
		c.Header("X-RateLimit-Limit", strconv.Itoa(maxRequests))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))

		if count > int64(maxRequests) {
			retryAfter := (ttlMs + 999) / 1000
			if retryAfter < 1 {
				retryAfter = 1
			}
			c.Header("Retry-After", strconv.FormatInt(retryAfter, 10))
			logrus.WithField("subject", subject).Debug("RateLimit: Too many requests")
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "Too many requests"})
			c.Abort()
			return
		}
		c.Next()
	}
}
