package authz

import (
	"fmt"

	"github.com/inkwell-blog/internal/constants"
)

// builtinPolicies 系统预置策略矩阵。
// 管理员放行全部动作；普通用户仅能变更自己名下的文章。
func builtinPolicies() [][]string {
	adminRule := fmt.Sprintf("r.sub.Role == %q", constants.RoleAdmin)
	ownerRule := "r.obj.OwnerID == r.sub.ID && r.sub.ID != 0"

	rules := [][]string{
		{adminRule, "true", "*"},
	}
	for _, action := range []string{
		constants.PostActionUpdate,
		constants.PostActionArchive,
		constants.PostActionRestore,
	} {
		rules = append(rules, []string{"r.sub.ID != 0", ownerRule, action})
	}
	return rules
}

// bootstrapBuiltinPolicies 确保预置策略存在（幂等）
func (s *Service) bootstrapBuiltinPolicies() error {
	if s == nil || s.enforcer == nil {
		return fmt.Errorf("authz service unavailable")
	}
	for _, rule := range builtinPolicies() {
		// AddPolicy 对已存在的规则返回 added=false，可安全重复执行
		if _, err := s.enforcer.AddPolicy(rule[0], rule[1], rule[2]); err != nil {
			return fmt.Errorf("add builtin policy failed: %w", err)
		}
	}
	return nil
}
