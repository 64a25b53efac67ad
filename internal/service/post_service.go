package service

import (
	"strings"
	"time"

	"github.com/inkwell-blog/internal/authz"
	"github.com/inkwell-blog/internal/constants"
	"github.com/inkwell-blog/internal/models"
	"github.com/inkwell-blog/internal/repository"
)

// PostService 文章业务服务
type PostService struct {
	repo  repository.PostRepository
	authz *authz.Service
}

// NewPostService 创建文章服务
func NewPostService(repo repository.PostRepository, authzService *authz.Service) *PostService {
	return &PostService{repo: repo, authz: authzService}
}

// PostInput 创建/更新文章输入
type PostInput struct {
	Title          string
	Body           string
	Status         string
	BannerImageURL *string
}

// ListOptions 列表选项
type ListOptions struct {
	Page          int
	RowsPerPage   int
	SortBy        string
	SortDirection string
	Paginate      bool
}

// SearchOptions 搜索选项
type SearchOptions struct {
	Term          string
	Status        string
	PublishedFrom *time.Time
	PublishedTo   *time.Time
	Page          int
	RowsPerPage   int
	SortBy        string
	SortDirection string
	Paginate      bool
}

func resolveRowsPerPage(rows int) int {
	if rows <= 0 {
		return constants.DefaultRowsPerPage
	}
	return rows
}

// ListOwn 获取当前用户的文章列表
func (s *PostService) ListOwn(user *models.User, opts ListOptions) ([]models.Post, int64, error) {
	if user == nil {
		return nil, 0, ErrUnauthorized
	}
	filter := repository.PostListFilter{
		UserID:        user.ID,
		SortBy:        opts.SortBy,
		SortDirection: opts.SortDirection,
	}
	if opts.Paginate {
		filter.Page = opts.Page
		filter.PageSize = resolveRowsPerPage(opts.RowsPerPage)
	}
	return s.repo.List(filter)
}

// ListAll 获取全部文章列表（仅管理员）
func (s *PostService) ListAll(user *models.User, opts ListOptions) ([]models.Post, int64, error) {
	allowed, err := s.authz.CanListAll(user)
	if err != nil {
		return nil, 0, err
	}
	if !allowed {
		return nil, 0, ErrForbidden
	}
	filter := repository.PostListFilter{
		SortBy:        opts.SortBy,
		SortDirection: opts.SortDirection,
	}
	if opts.Paginate {
		filter.Page = opts.Page
		filter.PageSize = resolveRowsPerPage(opts.RowsPerPage)
	}
	return s.repo.List(filter)
}

// Search 搜索文章，普通用户只能搜索自己的文章
func (s *PostService) Search(user *models.User, opts SearchOptions) ([]models.Post, int64, error) {
	if user == nil {
		return nil, 0, ErrUnauthorized
	}
	if opts.Status != "" && !constants.IsValidPostStatus(opts.Status) {
		return nil, 0, ErrInvalidPostStatus
	}

	filter := repository.PostSearchFilter{
		Term:          strings.TrimSpace(opts.Term),
		Status:        opts.Status,
		PublishedFrom: opts.PublishedFrom,
		PublishedTo:   opts.PublishedTo,
		SortBy:        opts.SortBy,
		SortDirection: opts.SortDirection,
	}

	admin, err := s.authz.CanListAll(user)
	if err != nil {
		return nil, 0, err
	}
	if !admin {
		filter.UserID = user.ID
	}

	if opts.Paginate {
		filter.Page = opts.Page
		filter.PageSize = resolveRowsPerPage(opts.RowsPerPage)
	} else {
		// 非分页模式只返回前 N 条预览
		filter.Limit = resolveRowsPerPage(opts.RowsPerPage)
	}
	return s.repo.Search(filter)
}

// Create 创建文章，作者始终取自认证用户
func (s *PostService) Create(user *models.User, input PostInput) (*models.Post, error) {
	if user == nil {
		return nil, ErrUnauthorized
	}
	if !constants.IsValidPostStatus(input.Status) {
		return nil, ErrInvalidPostStatus
	}

	count, err := s.repo.CountByTitle(input.Title, 0)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrTitleExists
	}

	post := models.Post{
		UserID: user.ID,
		Title:  input.Title,
		Body:   input.Body,
		Status: input.Status,
	}
	if input.BannerImageURL != nil {
		post.BannerImageURL = strings.TrimSpace(*input.BannerImageURL)
	}
	applyStatusTransition(&post, input.Status)

	if err := s.repo.Create(&post); err != nil {
		return nil, err
	}
	return &post, nil
}

// Update 更新文章，仅作者或管理员可操作
func (s *PostService) Update(user *models.User, id uint, input PostInput) (*models.Post, error) {
	post, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, ErrNotFound
	}

	allowed, err := s.authz.CanManagePost(user, post, constants.PostActionUpdate)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, ErrForbidden
	}

	if !constants.IsValidPostStatus(input.Status) {
		return nil, ErrInvalidPostStatus
	}

	count, err := s.repo.CountByTitle(input.Title, post.ID)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrTitleExists
	}

	post.Title = input.Title
	post.Body = input.Body
	if input.BannerImageURL != nil {
		post.BannerImageURL = strings.TrimSpace(*input.BannerImageURL)
	}
	applyStatusTransition(post, input.Status)

	if err := s.repo.Update(post); err != nil {
		return nil, err
	}

	// 响应需要携带作者关联
	updated, err := s.repo.GetByIDWithUser(post.ID)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return post, nil
	}
	return updated, nil
}

// Archive 归档文章，已归档时为幂等空操作
func (s *PostService) Archive(user *models.User, id uint) (*models.Post, error) {
	post, err := s.repo.GetByIDUnscoped(id)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, ErrNotFound
	}

	allowed, err := s.authz.CanManagePost(user, post, constants.PostActionArchive)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, ErrForbidden
	}

	if post.IsArchived() {
		return post, nil
	}
	if err := s.repo.Archive(post); err != nil {
		return nil, err
	}
	return post, nil
}

// Restore 恢复文章，未归档时为幂等空操作
func (s *PostService) Restore(user *models.User, id uint) (*models.Post, error) {
	post, err := s.repo.GetByIDUnscoped(id)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, ErrNotFound
	}

	allowed, err := s.authz.CanManagePost(user, post, constants.PostActionRestore)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, ErrForbidden
	}

	if !post.IsArchived() {
		return post, nil
	}
	if err := s.repo.Restore(post); err != nil {
		return nil, err
	}
	return post, nil
}

// Find 获取文章详情，已归档视为不存在
func (s *PostService) Find(id uint) (*models.Post, error) {
	post, err := s.repo.GetByIDWithUser(id)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, ErrNotFound
	}
	return post, nil
}

// applyStatusTransition 维持状态与发布时间的一致性：
// PUBLISHED 总是刷新 published_at 为当前时间，DRAFT 必须清空。
func applyStatusTransition(post *models.Post, status string) {
	post.Status = status
	switch status {
	case constants.PostStatusPublished:
		now := time.Now()
		post.PublishedAt = &now
	case constants.PostStatusDraft:
		post.PublishedAt = nil
	}
}
