package routes

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"clubapi/middlewares"
	"clubapi/models"
	"clubapi/utils"
)

// 依賴注入容器
type Repos struct {
	Users       models.UserRepository
	Regs        models.RegistrationRepository
	Events      models.EventRepository
	Blog        models.BlogRepository
	Gallery     models.GalleryRepository
	Discussions models.DiscussionRepository
}

type deps struct {
	Repos
	inv     *utils.CacheInvalidator
	devMode bool // 非 production：forgot-password 回應帶 token（沒接 mailer 的替代）
}

// 由 main 傳入各 Repository + Redis + Invalidator
func RegisterRoutes(server *gin.Engine, repos Repos, rdb *redis.Client, inv *utils.CacheInvalidator, devMode bool) {
	d := &deps{Repos: repos, inv: inv, devMode: devMode}

	// ===== ① 全域 IP 限速（20 rps / 40 burst）=====
	globalLimiter := middlewares.NewRateLimiter(middlewares.LimiterConfig{
		RPS:     20,
		Burst:   40,
		IdleTTL: 3 * time.Minute,
	})
	server.Use(globalLimiter.Middleware(func(c *gin.Context) string {
		return "ip:" + c.ClientIP()
	}))

	api := server.Group("/api")

	// ===== ② 敏感端點限速（更嚴）：register / login / forgot-password 以 IP 做 0.5 rps =====
	authLimiter := middlewares.NewRateLimiter(middlewares.LimiterConfig{
		RPS:     0.5,
		Burst:   2,
		IdleTTL: 10 * time.Minute,
	})
	strict := func(label string) gin.HandlerFunc {
		return authLimiter.Middleware(func(c *gin.Context) string { return label + ":" + c.ClientIP() })
	}
	api.POST("/auth/register", strict("register"), d.register)
	api.POST("/auth/login", strict("login"), d.login)
	api.POST("/auth/forgot-password", strict("forgot"), d.forgotPassword)
	api.POST("/auth/reset-password", d.resetPassword)

	// 公開 endpoints（未登入）→ 只有全域 IP 限速與回應快取
	api.GET("/blog", d.listBlogPosts)
	api.GET("/blog/:id", d.getBlogPost)
	api.GET("/blog/slug/:slug", d.getBlogPostBySlug)
	api.GET("/events", d.listEvents)
	api.GET("/events/:id", d.getEvent)
	api.GET("/gallery", d.listGalleryImages)
	api.GET("/gallery/:id", d.getGalleryImage)
	api.GET("/discussions", d.listDiscussions)
	api.GET("/discussions/:id", d.getDiscussion)

	// ===== ③ 受保護群組：先驗證，再以 userId 限速 + 每日配額 =====
	auth := api.Group("/")
	auth.Use(middlewares.Authenticate) // 會把 userId / claims 放入 context

	userLimiter := middlewares.NewRateLimiter(middlewares.LimiterConfig{
		RPS:     5,
		Burst:   10,
		IdleTTL: 10 * time.Minute,
	})
	auth.Use(userLimiter.Middleware(func(c *gin.Context) string {
		return "u:" + strconv.FormatInt(c.GetInt64("userId"), 10)
	}))

	// 每日配額（長期用量控管）
	auth.Use(middlewares.Quota(rdb, middlewares.QuotaRule{
		Limit:  2000,
		Window: 24 * time.Hour,
		KeyFn: func(c *gin.Context) string {
			uid := c.GetInt64("userId")
			if uid == 0 {
				return ""
			}
			return fmt.Sprintf("quota:user:%d:day", uid)
		},
	}))

	auth.GET("/auth/user", d.currentUser)
	auth.POST("/auth/logout", d.logout)
	auth.PUT("/auth/profile", d.updateProfile)
	auth.POST("/auth/upload-avatar", d.uploadAvatar)

	auth.POST("/events/:id/register", d.registerForEvent)
	auth.DELETE("/events/:id/register", d.unregisterFromEvent)
	auth.GET("/events/:id/registration-status", d.registrationStatus)

	auth.POST("/discussions", d.createDiscussion)
	auth.POST("/discussions/:id/replies", d.createReply)

	// ===== ④ admin 限定：每個 request 都重查 is_admin =====
	admin := auth.Group("/")
	admin.Use(middlewares.RequireAdmin(repos.Users))

	admin.POST("/blog", d.createBlogPost)
	admin.PUT("/blog/:id", d.updateBlogPost)
	admin.DELETE("/blog/:id", d.deleteBlogPost)

	admin.POST("/events", d.createEvent)
	admin.PUT("/events/:id", d.updateEvent)
	admin.DELETE("/events/:id", d.deleteEvent)

	admin.POST("/gallery", d.createGalleryImage)
	admin.PUT("/gallery/:id", d.updateGalleryImage)
	admin.DELETE("/gallery/:id", d.deleteGalleryImage)

	admin.DELETE("/discussions/:id", d.deleteDiscussion)
	admin.DELETE("/discussions/:id/replies/:replyId", d.deleteReply)
}

/* ---------------- shared helpers ---------------- */

// bind JSON；body 超過上限（MaxBytesReader）→ 413，其餘 → 400
func bindJSON(c *gin.Context, obj any) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"message": "Request payload too large."})
			return false
		}
		c.JSON(http.StatusBadRequest, gin.H{"message": "Could not parse request data."})
		return false
	}
	return true
}

func idParam(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid id."})
		return 0, false
	}
	return id, true
}

// 非預期的 store error：細節只進 log，client 拿 generic message
func internalError(c *gin.Context, err error, msg string) {
	log.Printf("store error: %v", err)
	c.JSON(http.StatusInternalServerError, gin.H{"message": msg})
}
