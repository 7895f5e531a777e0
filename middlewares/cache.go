package middlewares

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/gob"
	"encoding/hex"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

type cachedBody struct {
	Status int
	Header map[string][]string
	Body   []byte
}

// 路徑+參數 先 sha1，避免 Redis key 過長
func sha1Hex(s string) string {
	sum := sha1.Sum([]byte(s))
	return hex.EncodeToString(sum[:])
}

// 只快取公開內容的 GET。key 依 namespace 分 list / item，
// 方便異動後由 CacheInvalidator 整批清掉
// 回傳：完整 Redis key + namespace
func CacheKeyFrom(c *gin.Context) (string, string) {
	method := c.Request.Method
	path := c.FullPath() // 路由模板，例如 /api/events/:id
	rawq := c.Request.URL.RawQuery

	if method != "GET" || path == "" {
		return "", ""
	}

	// /api/<namespace>[/...]
	trimmed := strings.TrimPrefix(path, "/api/")
	if trimmed == path {
		return "", ""
	}
	ns, rest, _ := strings.Cut(trimmed, "/")
	switch ns {
	case "events", "blog", "gallery", "discussions":
	default:
		return "", "" // auth 相關不快取
	}

	if rest == "" {
		return "cache:" + ns + ":list:" + sha1Hex("GET|"+path+"|"+rawq), ns
	}
	// 只收純單筆模板；:id 之後還有 segment 的（像 registration-status）
	// 是個人化內容，進了共用快取會把 A 的回應端給 B
	switch rest {
	case ":id", "slug/:slug":
	default:
		return "", ""
	}
	// 單筆用實際 URL（含 :id / :slug 的真值）
	return "cache:" + ns + ":item:" + sha1Hex("GET|"+c.Request.URL.Path), ns
}

func ResponseCache(rdb *redis.Client, ttl time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		key, _ := CacheKeyFrom(c)
		if key == "" {
			c.Next()
			return
		}

		// 先查 Redis，有 hit 直接還原回應
		if b, err := rdb.Get(context.Background(), key).Bytes(); err == nil && len(b) > 0 {
			var hit cachedBody
			if err := gob.NewDecoder(bytes.NewReader(b)).Decode(&hit); err == nil {
				for k, vals := range hit.Header {
					for _, v := range vals {
						c.Writer.Header().Add(k, v)
					}
				}
				c.Writer.Header().Set("X-Cache", "HIT")
				c.Status(hit.Status)
				_, _ = c.Writer.Write(hit.Body)
				c.Abort()
				return
			}
		}

		// MISS：攔截回應，一份寫給 client、一份留著存 Redis。
		// header 要在 handler 寫 body 前就定好，事後補設送不出去
		c.Writer.Header().Set("X-Cache", "MISS")

		buf := &bytes.Buffer{}
		bw := &bufferedWriter{ResponseWriter: c.Writer, buf: buf}
		c.Writer = bw

		c.Next()

		// 只快取 2xx
		if bw.Status() >= 200 && bw.Status() < 300 {
			item := cachedBody{
				Status: bw.Status(),
				Header: c.Writer.Header(),
				Body:   buf.Bytes(),
			}
			var o bytes.Buffer
			if err := gob.NewEncoder(&o).Encode(item); err == nil {
				_ = rdb.Set(context.Background(), key, o.Bytes(), ttl).Err()
			}
		}
	}
}

type bufferedWriter struct {
	gin.ResponseWriter
	buf *bytes.Buffer
}

func (w *bufferedWriter) Write(b []byte) (int, error) {
	w.buf.Write(b)
	return w.ResponseWriter.Write(b)
}
