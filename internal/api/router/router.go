package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/EnchantedPupu/atlas-backend-sub001/config"
	"github.com/EnchantedPupu/atlas-backend-sub001/internal/api/handler"
	"github.com/EnchantedPupu/atlas-backend-sub001/internal/api/middleware"
	"github.com/EnchantedPupu/atlas-backend-sub001/internal/workflow"
	"github.com/EnchantedPupu/atlas-backend-sub001/pkg/jwt"
	"github.com/EnchantedPupu/atlas-backend-sub001/pkg/metrics"
	"github.com/EnchantedPupu/atlas-backend-sub001/pkg/redis"
	"github.com/EnchantedPupu/atlas-backend-sub001/pkg/response"
)

// Setup 初始化并返回 Gin 路由引擎
// rdb 为 nil 时 Token 黑名单与限流降级关闭
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, rdb *redis.Client, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	var (
		checker middleware.TokenChecker
		limiter middleware.RateLimiter
	)
	if rdb != nil {
		checker, limiter = rdb, rdb
	}

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.CustomRecovery(func(c *gin.Context, recovered any) {
		logger.Error("请求处理 panic", zap.Any("panic", recovered), zap.String("path", c.Request.URL.Path))
		response.InternalError(c)
		c.Abort()
	}))
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(cfg.Server.MaxBodyBytes))

	// ── 健康检查 ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok", "redis": rdb != nil})
	})

	// ── 指标 ──
	if cfg.Metrics.Enabled {
		r.GET(cfg.Metrics.Path, gin.WrapH(metrics.Handler()))
	}

	rateLimit := middleware.RateLimit(limiter, cfg.RateLimit.Limit, cfg.RateLimit.Window)

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		// 认证模块（无需认证）
		v1.POST("/auth/login", rateLimit, h.Auth.Login)

		// 需要认证的路由
		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(jwtMgr, checker), rateLimit)
		{
			authorized.POST("/auth/logout", h.Auth.Logout)

			// 用户目录（选择交接对象）
			users := authorized.Group("/users")
			{
				users.GET("", h.User.List)
				users.GET("/:id", h.User.Get)
			}

			// 测量任务模块：交接权限由工作流规则判定，此处仅限制新建
			jobs := authorized.Group("/jobs")
			{
				jobs.POST("", middleware.RoleAuth(string(workflow.RoleOIC)), h.Job.Create)
				jobs.GET("", h.Job.List)
				jobs.GET("/:id", h.Job.Get)
				jobs.POST("/:id/assign", h.Job.Assign)
				jobs.PUT("/:id/pbt-status", h.Job.UpdatePbtStatus)
				jobs.GET("/:id/history", h.Job.History)
				jobs.GET("/:id/history/export", h.Job.ExportHistory)
				jobs.GET("/:id/query", h.Job.ActiveQuery)
			}
		}
	}

	return r
}
