package middlewares

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// 限制 request body 大小；超過的話後續讀 body 會吐 *http.MaxBytesError，
// handler 端統一轉成 413（見 routes 的 bind helper）
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}
