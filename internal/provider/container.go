package provider

import (
	"github.com/inkwell-blog/internal/authz"
	"github.com/inkwell-blog/internal/cache"
	"github.com/inkwell-blog/internal/config"
	"github.com/inkwell-blog/internal/logger"
	"github.com/inkwell-blog/internal/models"
	"github.com/inkwell-blog/internal/repository"
	"github.com/inkwell-blog/internal/service"
)

// Container 依赖注入容器
type Container struct {
	Config *config.Config

	// Repositories
	UserRepo     repository.UserRepository
	PostRepo     repository.PostRepository
	LoginLogRepo repository.LoginLogRepository

	// Services
	AuthzService    *authz.Service
	AuthService     *service.AuthService
	UserService     *service.UserService
	PostService     *service.PostService
	LoginLogService *service.LoginLogService
}

// NewContainer 初始化容器
func NewContainer(cfg *config.Config) *Container {
	// 初始化缓存
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	c := &Container{Config: cfg}

	// 1. 初始化 Repositories
	c.initRepositories()

	// 2. 初始化 Services
	c.initServices()

	return c
}

func (c *Container) initRepositories() {
	db := models.DB
	c.UserRepo = repository.NewUserRepository(db)
	c.PostRepo = repository.NewPostRepository(db)
	c.LoginLogRepo = repository.NewLoginLogRepository(db)
}

func (c *Container) initServices() {
	authzService, err := authz.NewService(models.DB)
	if err != nil {
		logger.Errorw("provider_init_authz_failed", "error", err)
		panic(err)
	}
	c.AuthzService = authzService

	c.AuthService = service.NewAuthService(c.Config, c.UserRepo)
	c.UserService = service.NewUserService(c.Config, c.UserRepo)
	c.PostService = service.NewPostService(c.PostRepo, c.AuthzService)
	c.LoginLogService = service.NewLoginLogService(c.LoginLogRepo)
}
