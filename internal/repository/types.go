package repository

import "time"

// PostListFilter 查询文章列表的过滤条件
type PostListFilter struct {
	UserID        uint // 0 表示不限定用户
	Page          int
	PageSize      int // <= 0 表示不分页
	SortBy        string
	SortDirection string
}

// PostSearchFilter 搜索文章的过滤条件
type PostSearchFilter struct {
	Term          string
	UserID        uint // 0 表示全量（管理员）
	Status        string
	PublishedFrom *time.Time
	PublishedTo   *time.Time
	Page          int
	PageSize      int
	SortBy        string
	SortDirection string
	Limit         int // 预览模式：仅限定行数，不分页
}
