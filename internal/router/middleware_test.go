package router

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/inkwell-blog/internal/authz"
	"github.com/inkwell-blog/internal/config"
	"github.com/inkwell-blog/internal/constants"
	"github.com/inkwell-blog/internal/models"
	"github.com/inkwell-blog/internal/repository"
	"github.com/inkwell-blog/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testJWTSecret = "middleware-test-secret"

func TestResolveAllowedOrigin(t *testing.T) {
	got := resolveAllowedOrigin("https://example.com", []string{"*"}, false)
	if got != "*" {
		t.Fatalf("wildcard without credentials should return *, got %s", got)
	}

	got = resolveAllowedOrigin("https://example.com", []string{"*"}, true)
	if got != "https://example.com" {
		t.Fatalf("wildcard with credentials should echo origin, got %s", got)
	}

	got = resolveAllowedOrigin("https://a.example.com", []string{"https://a.example.com", "https://b.example.com"}, false)
	if got != "https://a.example.com" {
		t.Fatalf("allow-list should return matched origin, got %s", got)
	}

	got = resolveAllowedOrigin("https://x.example.com", []string{"https://a.example.com"}, false)
	if got != "" {
		t.Fatalf("unmatched origin should be empty, got %s", got)
	}
}

func TestRequestIDMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"request_id": getRequestID(c)})
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(requestIDHeader, "req-123")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status want 200 got %d", w.Code)
	}
	if w.Header().Get(requestIDHeader) != "req-123" {
		t.Fatalf("response request id want req-123 got %s", w.Header().Get(requestIDHeader))
	}
	var resp map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response failed: %v", err)
	}
	if resp["request_id"] != "req-123" {
		t.Fatalf("context request id want req-123 got %s", resp["request_id"])
	}

	w2 := httptest.NewRecorder()
	req2 := httptest.NewRequest(http.MethodGet, "/ping", nil)
	r.ServeHTTP(w2, req2)
	if strings.TrimSpace(w2.Header().Get(requestIDHeader)) == "" {
		t.Fatalf("generated request id should not be blank")
	}
}

func setupAuthMiddlewareTest(t *testing.T) (repository.UserRepository, *service.AuthService, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}

	cfg := &config.Config{}
	cfg.JWT.SecretKey = testJWTSecret
	cfg.JWT.ExpireHours = 1

	userRepo := repository.NewUserRepository(db)
	return userRepo, service.NewAuthService(cfg, userRepo), db
}

func seedMiddlewareUser(t *testing.T, userRepo repository.UserRepository, role string) *models.User {
	t.Helper()

	hashed, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.DefaultCost)
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}
	user := &models.User{
		Email:        fmt.Sprintf("%s@example.com", role),
		PasswordHash: string(hashed),
		DisplayName:  "tester",
		Role:         role,
	}
	if err := userRepo.Create(user); err != nil {
		t.Fatalf("create user failed: %v", err)
	}
	return user
}

func newAuthTestRouter(userRepo repository.UserRepository) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(AuthMiddleware(testJWTSecret, userRepo))
	r.GET("/me", func(c *gin.Context) {
		value, _ := c.Get("user")
		user := value.(*models.User)
		c.JSON(http.StatusOK, gin.H{"user_id": user.ID, "role": user.Role})
	})
	return r
}

func TestAuthMiddlewareRejectsMissingHeader(t *testing.T) {
	userRepo, _, _ := setupAuthMiddlewareTest(t)
	r := newAuthTestRouter(userRepo)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/me", nil))

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status want 401 got %d", w.Code)
	}
}

func TestAuthMiddlewareRejectsGarbageToken(t *testing.T) {
	userRepo, _, _ := setupAuthMiddlewareTest(t)
	r := newAuthTestRouter(userRepo)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status want 401 got %d", w.Code)
	}
}

func TestAuthMiddlewareAcceptsValidToken(t *testing.T) {
	userRepo, authService, _ := setupAuthMiddlewareTest(t)
	user := seedMiddlewareUser(t, userRepo, constants.RoleUser)

	token, _, err := authService.GenerateJWT(user)
	if err != nil {
		t.Fatalf("generate token failed: %v", err)
	}

	r := newAuthTestRouter(userRepo)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status want 200 got %d: %s", w.Code, w.Body.String())
	}
}

func TestAuthMiddlewareRejectsRevokedToken(t *testing.T) {
	userRepo, authService, _ := setupAuthMiddlewareTest(t)
	user := seedMiddlewareUser(t, userRepo, constants.RoleUser)

	token, _, err := authService.GenerateJWT(user)
	if err != nil {
		t.Fatalf("generate token failed: %v", err)
	}
	claims, err := authService.ParseJWT(token)
	if err != nil {
		t.Fatalf("parse token failed: %v", err)
	}
	if err := authService.Logout(claims); err != nil {
		t.Fatalf("logout failed: %v", err)
	}

	r := newAuthTestRouter(userRepo)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("revoked token: status want 401 got %d", w.Code)
	}
}

func TestAuthMiddlewareRejectsStaleTokenVersion(t *testing.T) {
	userRepo, authService, _ := setupAuthMiddlewareTest(t)
	user := seedMiddlewareUser(t, userRepo, constants.RoleUser)

	token, _, err := authService.GenerateJWT(user)
	if err != nil {
		t.Fatalf("generate token failed: %v", err)
	}

	user.TokenVersion++
	if err := userRepo.Update(user); err != nil {
		t.Fatalf("bump token version failed: %v", err)
	}

	r := newAuthTestRouter(userRepo)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("stale token version: status want 401 got %d", w.Code)
	}
}

func TestAdminOnlyMiddleware(t *testing.T) {
	userRepo, authService, db := setupAuthMiddlewareTest(t)
	authzService, err := authz.NewService(db)
	if err != nil {
		t.Fatalf("new authz service failed: %v", err)
	}

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(AuthMiddleware(testJWTSecret, userRepo), AdminOnlyMiddleware(authzService))
	r.GET("/all", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	// 未认证
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/all", nil))
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous: status want 401 got %d", w.Code)
	}

	// 普通用户
	regular := seedMiddlewareUser(t, userRepo, constants.RoleUser)
	token, _, err := authService.GenerateJWT(regular)
	if err != nil {
		t.Fatalf("generate token failed: %v", err)
	}
	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/all", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusForbidden {
		t.Fatalf("regular user: status want 403 got %d", w.Code)
	}

	// 管理员
	admin := seedMiddlewareUser(t, userRepo, constants.RoleAdmin)
	token, _, err = authService.GenerateJWT(admin)
	if err != nil {
		t.Fatalf("generate token failed: %v", err)
	}
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/all", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("admin: status want 200 got %d: %s", w.Code, w.Body.String())
	}
}

func TestGuestOnlyMiddlewareRejectsAuthenticated(t *testing.T) {
	userRepo, authService, _ := setupAuthMiddlewareTest(t)
	user := seedMiddlewareUser(t, userRepo, constants.RoleUser)

	token, _, err := authService.GenerateJWT(user)
	if err != nil {
		t.Fatalf("generate token failed: %v", err)
	}

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(GuestOnlyMiddleware(testJWTSecret))
	r.POST("/login", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusForbidden {
		t.Fatalf("authenticated login: status want 403 got %d", w.Code)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/login", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("guest login: status want 200 got %d", w.Code)
	}
}
