package authz

import (
	"fmt"
	"strings"
	"testing"

	"github.com/inkwell-blog/internal/constants"
	"github.com/inkwell-blog/internal/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupAuthzServiceTest(t *testing.T) *Service {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	svc, err := NewService(db)
	if err != nil {
		t.Fatalf("new authz service failed: %v", err)
	}
	return svc
}

func TestCanManagePost(t *testing.T) {
	svc := setupAuthzServiceTest(t)

	owner := &models.User{ID: 7, Role: constants.RoleUser}
	other := &models.User{ID: 8, Role: constants.RoleUser}
	admin := &models.User{ID: 1, Role: constants.RoleAdmin}
	post := &models.Post{ID: 3, UserID: 7}

	cases := []struct {
		name   string
		user   *models.User
		action string
		want   bool
	}{
		{"owner_update", owner, constants.PostActionUpdate, true},
		{"owner_archive", owner, constants.PostActionArchive, true},
		{"owner_restore", owner, constants.PostActionRestore, true},
		{"other_update", other, constants.PostActionUpdate, false},
		{"other_archive", other, constants.PostActionArchive, false},
		{"admin_update", admin, constants.PostActionUpdate, true},
		{"admin_archive", admin, constants.PostActionArchive, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			allow, err := svc.CanManagePost(tc.user, post, tc.action)
			if err != nil {
				t.Fatalf("enforce failed: %v", err)
			}
			if allow != tc.want {
				t.Fatalf("want allow=%v got %v", tc.want, allow)
			}
		})
	}
}

func TestCanListAll(t *testing.T) {
	svc := setupAuthzServiceTest(t)

	admin := &models.User{ID: 1, Role: constants.RoleAdmin}
	user := &models.User{ID: 2, Role: constants.RoleUser}

	allow, err := svc.CanListAll(admin)
	if err != nil {
		t.Fatalf("enforce admin failed: %v", err)
	}
	if !allow {
		t.Fatalf("admin should access all posts")
	}

	allow, err = svc.CanListAll(user)
	if err != nil {
		t.Fatalf("enforce user failed: %v", err)
	}
	if allow {
		t.Fatalf("regular user should not access all posts")
	}

	allow, err = svc.CanListAll(nil)
	if err != nil {
		t.Fatalf("enforce nil failed: %v", err)
	}
	if allow {
		t.Fatalf("nil user should be denied")
	}
}

func TestBootstrapIsIdempotent(t *testing.T) {
	svc := setupAuthzServiceTest(t)
	if err := svc.bootstrapBuiltinPolicies(); err != nil {
		t.Fatalf("re-bootstrap failed: %v", err)
	}
	if err := svc.ReloadPolicy(); err != nil {
		t.Fatalf("reload policy failed: %v", err)
	}

	owner := &models.User{ID: 7, Role: constants.RoleUser}
	post := &models.Post{ID: 3, UserID: 7}
	allow, err := svc.CanManagePost(owner, post, constants.PostActionUpdate)
	if err != nil {
		t.Fatalf("enforce after reload failed: %v", err)
	}
	if !allow {
		t.Fatalf("owner should still be allowed after reload")
	}
}
