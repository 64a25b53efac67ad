package authz

import (
	"fmt"

	"github.com/inkwell-blog/internal/constants"
	"github.com/inkwell-blog/internal/models"

	"github.com/casbin/casbin/v3"
	"github.com/casbin/casbin/v3/model"
	gormadapter "github.com/casbin/gorm-adapter/v3"
	"gorm.io/gorm"
)

const casbinTableName = "casbin_rule"

// 属性模型：请求携带操作者与资源对象，策略行是对属性的布尔表达式。
// 所有权与角色判断集中在这一处，路由守卫与服务层都调用同一个策略。
const defaultPolicyModel = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub_rule, obj_rule, act

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = eval(p.sub_rule) && eval(p.obj_rule) && (r.act == p.act || p.act == "*")
`

// Actor 授权请求中的操作者属性
type Actor struct {
	ID   uint
	Role string
}

// Resource 授权请求中的资源属性
type Resource struct {
	OwnerID uint
}

// Service 授权策略服务
// 统一封装策略加载与判定，(actor, resource, action) -> allow/deny。
type Service struct {
	enforcer *casbin.SyncedEnforcer
}

// NewService 创建授权服务
func NewService(db *gorm.DB) (*Service, error) {
	if db == nil {
		return nil, fmt.Errorf("authz db is nil")
	}

	adapter, err := gormadapter.NewAdapterByDBUseTableName(db, "", casbinTableName)
	if err != nil {
		return nil, fmt.Errorf("create authz adapter failed: %w", err)
	}

	m, err := model.NewModelFromString(defaultPolicyModel)
	if err != nil {
		return nil, fmt.Errorf("load authz model failed: %w", err)
	}

	enforcer, err := casbin.NewSyncedEnforcer(m, adapter)
	if err != nil {
		return nil, fmt.Errorf("init authz enforcer failed: %w", err)
	}
	enforcer.EnableAutoSave(true)

	if err := enforcer.LoadPolicy(); err != nil {
		return nil, fmt.Errorf("load authz policy failed: %w", err)
	}

	svc := &Service{enforcer: enforcer}
	if err := svc.bootstrapBuiltinPolicies(); err != nil {
		return nil, err
	}
	return svc, nil
}

// Enforce 执行授权判断
func (s *Service) Enforce(actor Actor, res Resource, action string) (bool, error) {
	if s == nil || s.enforcer == nil {
		return false, fmt.Errorf("authz service unavailable")
	}
	return s.enforcer.Enforce(actor, res, action)
}

// ActorFor 从用户模型构建操作者属性
func ActorFor(user *models.User) Actor {
	if user == nil {
		return Actor{}
	}
	return Actor{ID: user.ID, Role: user.Role}
}

// CanManagePost 判断用户是否可对文章执行变更动作（update/archive/restore）
func (s *Service) CanManagePost(user *models.User, post *models.Post, action string) (bool, error) {
	if user == nil || post == nil {
		return false, nil
	}
	return s.Enforce(ActorFor(user), Resource{OwnerID: post.UserID}, action)
}

// CanListAll 判断用户是否可访问全量文章
func (s *Service) CanListAll(user *models.User) (bool, error) {
	if user == nil {
		return false, nil
	}
	return s.Enforce(ActorFor(user), Resource{}, constants.PostActionListAll)
}

// ReloadPolicy 重新加载策略
func (s *Service) ReloadPolicy() error {
	if s == nil || s.enforcer == nil {
		return fmt.Errorf("authz service unavailable")
	}
	return s.enforcer.LoadPolicy()
}
