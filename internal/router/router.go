package router

import (
	"fmt"
	"strings"

	"github.com/inkwell-blog/internal/cache"
	"github.com/inkwell-blog/internal/config"
	"github.com/inkwell-blog/internal/http/handlers"
	"github.com/inkwell-blog/internal/logger"
	"github.com/inkwell-blog/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	h := handlers.New(c)

	redisPrefix := strings.TrimSpace(cfg.Redis.Prefix)
	if redisPrefix == "" {
		redisPrefix = "ink"
	}
	redisClient := cache.Client()
	loginRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:login", redisPrefix),
		WindowSeconds: cfg.Security.LoginRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.LoginRateLimit.MaxAttempts,
	}

	// 中间件
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))

	api := r.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/login",
				GuestOnlyMiddleware(cfg.JWT.SecretKey),
				RateLimitMiddleware(redisClient, loginRule, KeyByIPAndJSONField("email")),
				h.Login,
			)
			auth.POST("/logout", AuthMiddleware(cfg.JWT.SecretKey, c.UserRepo), h.Logout)
		}

		authorized := api.Group("")
		authorized.Use(AuthMiddleware(cfg.JWT.SecretKey, c.UserRepo))
		{
			users := authorized.Group("/users")
			{
				users.GET("/self", h.Self)
				users.GET("/logins", h.ListLogins)
				users.POST("/update", h.UpdateProfile)
				users.POST("/create", AdminOnlyMiddleware(c.AuthzService), h.CreateUser)
			}

			posts := authorized.Group("/posts")
			{
				posts.GET("", h.ListPosts)
				posts.GET("/search", h.SearchPosts)
				posts.GET("/all", AdminOnlyMiddleware(c.AuthzService), h.ListAllPosts)
				posts.POST("/create", h.CreatePost)
				posts.POST("/:id/update", h.UpdatePost)
				posts.POST("/:id/archive", h.ArchivePost)
				posts.POST("/:id/restore", h.RestorePost)
				posts.GET("/:id/find", h.FindPost)
			}
		}
	}

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	return r
}
