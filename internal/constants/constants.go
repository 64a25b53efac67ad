package constants

// 文章状态常量
const (
	PostStatusDraft     = "DRAFT"
	PostStatusPublished = "PUBLISHED"
)

// PostStatuses 文章状态全集（校验与服务层共用）
var PostStatuses = []string{PostStatusDraft, PostStatusPublished}

// 用户角色常量
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// 文章动作常量（授权策略使用）
const (
	PostActionUpdate  = "update"
	PostActionArchive = "archive"
	PostActionRestore = "restore"
	PostActionListAll = "list_all"
)

// 列表排序常量
const (
	SortByID          = "id"
	SortByCreatedAt   = "created_at"
	SortByPublishedAt = "published_at"
	SortDirectionAsc  = "asc"
	SortDirectionDesc = "desc"
)

// DefaultRowsPerPage 列表与搜索的默认每页行数
const DefaultRowsPerPage = 10

// 登录日志状态常量
const (
	LoginLogStatusSuccess = "success"
	LoginLogStatusFailed  = "failed"
)

// 登录日志失败原因枚举
const (
	LoginLogFailReasonBadCredentials = "bad_credentials"
	LoginLogFailReasonInternalError  = "internal_error"
)

// IsValidPostStatus 判断是否为合法文章状态
func IsValidPostStatus(status string) bool {
	for _, s := range PostStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// IsValidSortBy 判断是否为允许的排序字段
func IsValidSortBy(field string) bool {
	switch field {
	case SortByID, SortByCreatedAt, SortByPublishedAt:
		return true
	}
	return false
}
