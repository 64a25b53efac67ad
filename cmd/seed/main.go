package main

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/inkwell-blog/internal/config"
	"github.com/inkwell-blog/internal/constants"
	"github.com/inkwell-blog/internal/logger"
	"github.com/inkwell-blog/internal/models"

	"golang.org/x/crypto/bcrypt"
)

var sampleTitles = []string{
	"Getting Started with Structured Logging",
	"A Field Guide to Database Migrations",
	"Notes on Graceful Shutdown",
	"Why Soft Deletes Are Not Deletes",
	"Pagination Patterns That Scale",
	"Designing Token Revocation",
	"The Case for Partial Indexes",
	"Request IDs End to End",
	"Rate Limiting Login Endpoints",
	"Writing Middleware You Can Test",
	"Draft First, Publish Later",
	"Search Queries Without Surprises",
}

func main() {
	// 连接数据库
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}

	// 自动迁移
	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}

	// 默认管理员
	if err := models.InitDefaultAdmin("", ""); err != nil {
		stdLog.Printf("Failed to init default admin: %v", err)
	}

	// 示例用户
	users := seedUsers(stdLog)

	// 示例文章：草稿、已发布、已归档混合
	seedPosts(stdLog, users)

	stdLog.Printf("Seed finished")
}

type stdLogger interface {
	Printf(format string, args ...interface{})
	Fatalf(format string, args ...interface{})
}

func seedUsers(stdLog stdLogger) []models.User {
	seeds := []struct {
		Email       string
		DisplayName string
	}{
		{Email: "alice@example.com", DisplayName: "Alice"},
		{Email: "bob@example.com", DisplayName: "Bob"},
		{Email: "carol@example.com", DisplayName: "Carol"},
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	if err != nil {
		stdLog.Fatalf("Failed to hash seed password: %v", err)
	}

	var users []models.User
	for _, seed := range seeds {
		var existing models.User
		err := models.DB.Where("email = ?", seed.Email).First(&existing).Error
		if err == nil {
			stdLog.Printf("User already exists: %s", seed.Email)
			users = append(users, existing)
			continue
		}

		user := models.User{
			Email:        seed.Email,
			PasswordHash: string(hashed),
			DisplayName:  seed.DisplayName,
			Role:         constants.RoleUser,
		}
		if err := models.DB.Create(&user).Error; err != nil {
			stdLog.Printf("Failed to create user %s: %v", seed.Email, err)
			continue
		}
		stdLog.Printf("Created user: %s", seed.Email)
		users = append(users, user)
	}
	return users
}

func seedPosts(stdLog stdLogger, users []models.User) {
	if len(users) == 0 {
		stdLog.Printf("No users to attach posts to, skipping posts")
		return
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	now := time.Now()

	for i, title := range sampleTitles {
		var existing models.Post
		err := models.DB.Unscoped().Where("title = ?", title).First(&existing).Error
		if err == nil {
			stdLog.Printf("Post already exists: %s", title)
			continue
		}

		owner := users[i%len(users)]
		post := models.Post{
			UserID: owner.ID,
			Title:  title,
			Body:   fmt.Sprintf("Sample body for %q, seeded for local development.", title),
			Status: constants.PostStatusDraft,
		}

		// 约三分之二发布，发布时间落在过去 90 天内
		if rng.Intn(3) != 0 {
			publishedAt := now.Add(-time.Duration(rng.Intn(90*24)) * time.Hour)
			post.Status = constants.PostStatusPublished
			post.PublishedAt = &publishedAt
		}

		if err := models.DB.Create(&post).Error; err != nil {
			stdLog.Printf("Failed to create post %q: %v", title, err)
			continue
		}

		// 少量文章演示归档状态
		if rng.Intn(6) == 0 {
			if err := models.DB.Delete(&post).Error; err != nil {
				stdLog.Printf("Failed to archive post %q: %v", title, err)
			} else {
				stdLog.Printf("Created archived post: %s", title)
				continue
			}
		}
		stdLog.Printf("Created post: %s (%s)", title, post.Status)
	}
}
