package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// UserIDHeader 是标识调用者的请求头
const UserIDHeader = "userid"

const userIDKey = "user_id"

// UserID 返回一个 Gin 中间件，从请求头读取调用者 ID 并存入 Context。
// 缺少请求头时返回 400。
func UserID() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := strings.TrimSpace(c.GetHeader(UserIDHeader))
		if userID == "" {
			logrus.WithField("path", c.Request.URL.Path).Warn("UserID middleware: Missing userid header")
			c.JSON(http.StatusBadRequest, gin.H{"error": "userid header is required"})
			c.Abort()
			return
		}
		c.Set(userIDKey, userID)
		c.Next()
	}
}

// UserIDFrom 返回 UserID 中间件存入的用户 ID
func UserIDFrom(c *gin.Context) string {
	return c.GetString(userIDKey)
}
