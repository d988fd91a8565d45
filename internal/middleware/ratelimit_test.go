package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRateLimitRouter(t *testing.T, max int, window time.Duration) (*gin.Engine, *miniredis.Miniredis) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	r := gin.New()
	r.Use(RateLimit(rdb, "ff:", max, window))
	r.GET("/floodfills", func(c *gin.Context) { c.Status(http.StatusOK) })
	return r, mr
}

func hit(r *gin.Engine, userID string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/floodfills", nil)
	if userID != "" {
		req.Header.Set("userid", userID)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRateLimit_BlocksAfterMaxAndSetsHeaders(t *testing.T) {
	r, _ := newRateLimitRouter(t, 3, time.Second)

	for i := 1; i <= 3; i++ {
		w := hit(r, "alice")
		require.Equal(t, http.StatusOK, w.Code, "request %d", i)
		assert.Equal(t, "3", w.Header().Get("X-RateLimit-Limit"))
		assert.Equal(t, []string{"2", "1", "0"}[i-1], w.Header().Get("X-RateLimit-Remaining"))
	}

	w := hit(r, "alice")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))
	assert.Equal(t, "1", w.Header().Get("Retry-After"))

	// 其他用户有自己的计数
	assert.Equal(t, http.StatusOK, hit(r, "bob").Code)
}

func TestRateLimit_WindowResets(t *testing.T) {
	r, mr := newRateLimitRouter(t, 3, time.Second)

	for i := 0; i < 4; i++ {
		hit(r, "alice")
	}
	require.Equal(t, http.StatusTooManyRequests, hit(r, "alice").Code)

	mr.FastForward(time.Second)
	assert.Equal(t, http.StatusOK, hit(r, "alice").Code)
}

// 稳定的低频请求不能让过期时间一直往后推
func TestRateLimit_SteadyTrafficBelowLimit(t *testing.T) {
	r, mr := newRateLimitRouter(t, 3, time.Second)

	for i := 0; i < 10; i++ {
		w := hit(r, "alice")
		require.Equal(t, http.StatusOK, w.Code, "request %d at %dms", i+1, i*600)
		mr.FastForward(600 * time.Millisecond)
	}
}

func TestRateLimit_ExpiryOnlySetWhenWindowOpens(t *testing.T) {
	r, mr := newRateLimitRouter(t, 10, time.Second)

	hit(r, "alice")
	mr.FastForward(700 * time.Millisecond)
	hit(r, "alice")

	assert.Equal(t, 300*time.Millisecond, mr.TTL("ff:ratelimit:user:alice"))
}

func TestRateLimit_FallsBackToClientIP(t *testing.T) {
	r, mr := newRateLimitRouter(t, 1, time.Second)

	assert.Equal(t, http.StatusOK, hit(r, "").Code)
	assert.Equal(t, http.StatusTooManyRequests, hit(r, "").Code)
	assert.True(t, mr.Exists("ff:ratelimit:ip:192.0.2.1"))
}

func TestRateLimit_RedisDown(t *testing.T) {
	r, mr := newRateLimitRouter(t, 3, time.Second)
	mr.Close()

	assert.Equal(t, http.StatusInternalServerError, hit(r, "alice").Code)
}
