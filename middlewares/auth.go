package middlewares

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"clubapi/models"
	"clubapi/utils"
)

// session cookie 名稱；Authorization header 也收（工具/測試方便）
const SessionCookie = "session"

func tokenFromRequest(c *gin.Context) string {
	if cookie, err := c.Cookie(SessionCookie); err == nil && cookie != "" {
		return cookie
	}
	return c.GetHeader("Authorization")
}

// 驗 session token，把 claims 塞進 request context
func Authenticate(c *gin.Context) {
	token := tokenFromRequest(c)
	if token == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
		return
	}

	claims, err := utils.VerifySessionToken(token)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
		return
	}

	c.Set("userId", claims.UserID)
	c.Set("claims", claims)
	c.Next()
}

// admin 每次重查 DB，不信 token 裡的快取：撤權下一個 request 就生效
func RequireAdmin(users models.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		uid := c.GetInt64("userId")
		if uid == 0 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
			return
		}
		u, err := users.GetByID(uid)
		if err != nil || !u.IsAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "Forbidden: Admin access required"})
			return
		}
		c.Next()
	}
}
