package service

import (
	"errors"
	"fmt"
	"testing"

	"github.com/inkwell-blog/internal/config"
	"github.com/inkwell-blog/internal/constants"
	"github.com/inkwell-blog/internal/models"
	"github.com/inkwell-blog/internal/repository"

	"github.com/glebarez/sqlite"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupUserServiceTest(t *testing.T) (*UserService, repository.UserRepository) {
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
	cfg.Security.PasswordPolicy.MinLength = 8

	userRepo := repository.NewUserRepository(db)
	return NewUserService(cfg, userRepo), userRepo
}

func strPtr(s string) *string { return &s }

func TestUserServiceCreateUser(t *testing.T) {
	svc, _ := setupUserServiceTest(t)

	user, err := svc.CreateUser(CreateUserInput{
		Email:       "Writer@Example.com",
		Password:    "longenough",
		DisplayName: "Writer",
	})
	if err != nil {
		t.Fatalf("create user failed: %v", err)
	}
	if user.Email != "writer@example.com" {
		t.Fatalf("email must be normalized, got %q", user.Email)
	}
	if user.Role != constants.RoleUser {
		t.Fatalf("default role want user, got %q", user.Role)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("longenough")); err != nil {
		t.Fatalf("password hash mismatch: %v", err)
	}
}

func TestUserServiceCreateUserDuplicateEmail(t *testing.T) {
	svc, _ := setupUserServiceTest(t)

	if _, err := svc.CreateUser(CreateUserInput{Email: "dup@example.com", Password: "longenough"}); err != nil {
		t.Fatalf("create user failed: %v", err)
	}
	_, err := svc.CreateUser(CreateUserInput{Email: "dup@example.com", Password: "longenough"})
	if !errors.Is(err, ErrEmailExists) {
		t.Fatalf("want ErrEmailExists, got %v", err)
	}
}

func TestUserServiceCreateUserValidation(t *testing.T) {
	svc, _ := setupUserServiceTest(t)

	if _, err := svc.CreateUser(CreateUserInput{Email: "not-an-email", Password: "longenough"}); !errors.Is(err, ErrInvalidEmail) {
		t.Fatalf("want ErrInvalidEmail, got %v", err)
	}
	if _, err := svc.CreateUser(CreateUserInput{Email: "ok@example.com", Password: "short"}); !errors.Is(err, ErrWeakPassword) {
		t.Fatalf("want ErrWeakPassword, got %v", err)
	}
	if _, err := svc.CreateUser(CreateUserInput{Email: "ok@example.com", Password: "longenough", Role: "superuser"}); !errors.Is(err, ErrInvalidRole) {
		t.Fatalf("want ErrInvalidRole, got %v", err)
	}
}

func TestUserServiceUpdateProfile(t *testing.T) {
	svc, repo := setupUserServiceTest(t)

	user, err := svc.CreateUser(CreateUserInput{Email: "edit@example.com", Password: "longenough", DisplayName: "Before"})
	if err != nil {
		t.Fatalf("create user failed: %v", err)
	}

	updated, err := svc.UpdateProfile(user.ID, UpdateProfileInput{DisplayName: strPtr("After")})
	if err != nil {
		t.Fatalf("update profile failed: %v", err)
	}
	if updated.DisplayName != "After" {
		t.Fatalf("display name not updated: %q", updated.DisplayName)
	}

	stored, err := repo.GetByID(user.ID)
	if err != nil || stored == nil {
		t.Fatalf("reload user failed: %v", err)
	}
	if stored.DisplayName != "After" {
		t.Fatalf("display name not persisted")
	}
}

func TestUserServiceUpdateProfilePasswordBumpsTokenVersion(t *testing.T) {
	svc, _ := setupUserServiceTest(t)

	user, err := svc.CreateUser(CreateUserInput{Email: "rotate@example.com", Password: "longenough"})
	if err != nil {
		t.Fatalf("create user failed: %v", err)
	}
	before := user.TokenVersion

	updated, err := svc.UpdateProfile(user.ID, UpdateProfileInput{Password: strPtr("evenlonger1")})
	if err != nil {
		t.Fatalf("update password failed: %v", err)
	}
	if updated.TokenVersion != before+1 {
		t.Fatalf("token version must bump on password change")
	}
	if updated.TokenInvalidBefore == nil {
		t.Fatalf("token_invalid_before must be set on password change")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(updated.PasswordHash), []byte("evenlonger1")); err != nil {
		t.Fatalf("new password not applied: %v", err)
	}
}

func TestUserServiceUpdateProfileEmptyInput(t *testing.T) {
	svc, _ := setupUserServiceTest(t)

	user, err := svc.CreateUser(CreateUserInput{Email: "noop@example.com", Password: "longenough"})
	if err != nil {
		t.Fatalf("create user failed: %v", err)
	}
	if _, err := svc.UpdateProfile(user.ID, UpdateProfileInput{}); !errors.Is(err, ErrProfileEmpty) {
		t.Fatalf("want ErrProfileEmpty, got %v", err)
	}
}

func TestUserServiceUpdateProfileEmailConflict(t *testing.T) {
	svc, _ := setupUserServiceTest(t)

	if _, err := svc.CreateUser(CreateUserInput{Email: "taken@example.com", Password: "longenough"}); err != nil {
		t.Fatalf("create user failed: %v", err)
	}
	user, err := svc.CreateUser(CreateUserInput{Email: "mover@example.com", Password: "longenough"})
	if err != nil {
		t.Fatalf("create user failed: %v", err)
	}

	_, err = svc.UpdateProfile(user.ID, UpdateProfileInput{Email: strPtr("taken@example.com")})
	if !errors.Is(err, ErrEmailExists) {
		t.Fatalf("want ErrEmailExists, got %v", err)
	}
}

func TestUserServiceGetByIDNotFound(t *testing.T) {
	svc, _ := setupUserServiceTest(t)

	if _, err := svc.GetByID(999); !errors.Is(err, ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}
