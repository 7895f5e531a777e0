package middlewares

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// 長期用量控管（跟瞬時限速互補）
type QuotaRule struct {
	Limit  int                       // 視窗內允許的請求數
	Window time.Duration             // 視窗大小，例如 24h
	KeyFn  func(*gin.Context) string // 以什麼 key 區分配額（通常是 userId）
}

func Quota(rdb *redis.Client, rule QuotaRule) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := rule.KeyFn(c)
		if key == "" {
			c.Next()
			return
		}
		ctx := context.Background()

		n, err := rdb.Incr(ctx, key).Result()
		if err != nil {
			// Redis 掛了就降級放行
			c.Next()
			return
		}
		// 第一次建 key 才設視窗到期
		if n == 1 {
			_ = rdb.Expire(ctx, key, rule.Window).Err()
		}
		if int(n) > rule.Limit {
			c.AbortWithStatusJSON(429, gin.H{
				"message": "Usage quota exceeded. Please try again later.",
			})
			return
		}
		c.Header("X-Quota-Used", fmt.Sprintf("%d/%d", n, rule.Limit))
		c.Next()
	}
}
