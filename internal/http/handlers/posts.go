package handlers

import (
	"errors"
	"strconv"
	"time"

	"github.com/inkwell-blog/internal/constants"
	"github.com/inkwell-blog/internal/http/response"
	"github.com/inkwell-blog/internal/service"

	"github.com/gin-gonic/gin"
)

// ListPostsRequest 列表查询参数
type ListPostsRequest struct {
	Page          int    `form:"page" binding:"omitempty,min=1"`
	RowsPerPage   int    `form:"rowsPerPage" binding:"omitempty,min=1,max=100"`
	Limit         int    `form:"limit" binding:"omitempty,min=1,max=100"` // rowsPerPage 的别名
	SortBy        string `form:"sortBy" binding:"omitempty,oneof=id created_at published_at"`
	SortDirection string `form:"sortDirection" binding:"omitempty,oneof=asc desc"`
	Paginate      *bool  `form:"paginate"`
}

// SearchPostsRequest 搜索查询参数
type SearchPostsRequest struct {
	Query         string `form:"query" binding:"required"`
	Status        string `form:"status" binding:"omitempty,oneof=DRAFT PUBLISHED"`
	StartDate     string `form:"published_at[start_date]" binding:"omitempty,datetime=2006-01-02"`
	EndDate       string `form:"published_at[end_date]" binding:"omitempty,datetime=2006-01-02"`
	Page          int    `form:"page" binding:"omitempty,min=1"`
	RowsPerPage   int    `form:"rowsPerPage" binding:"omitempty,min=1,max=100"`
	Limit         int    `form:"limit" binding:"omitempty,min=1,max=100"` // rowsPerPage 的别名
	SortBy        string `form:"sortBy" binding:"omitempty,oneof=id created_at published_at"`
	SortDirection string `form:"sortDirection" binding:"omitempty,oneof=asc desc"`
	Paginate      *bool  `form:"paginate"`
}

// PostRequest 创建/更新文章请求
type PostRequest struct {
	Title          string  `json:"title" binding:"required,min=6,max=255"`
	Body           string  `json:"body" binding:"required"`
	Status         string  `json:"status" binding:"required,oneof=DRAFT PUBLISHED"`
	BannerImageURL *string `json:"banner_image_url" binding:"omitempty,url"`
}

// 未显式请求分页时返回完整结果集
func resolvePaginate(flag *bool) bool {
	if flag == nil {
		return false
	}
	return *flag
}

// coalesceRows rowsPerPage 优先，其次 limit 别名
func coalesceRows(rowsPerPage, limit int) int {
	if rowsPerPage > 0 {
		return rowsPerPage
	}
	return limit
}

func (req *ListPostsRequest) toListOptions() service.ListOptions {
	return service.ListOptions{
		Page:          req.Page,
		RowsPerPage:   coalesceRows(req.RowsPerPage, req.Limit),
		SortBy:        req.SortBy,
		SortDirection: req.SortDirection,
		Paginate:      resolvePaginate(req.Paginate),
	}
}

func (req *SearchPostsRequest) toSearchOptions() (service.SearchOptions, error) {
	opts := service.SearchOptions{
		Term:          req.Query,
		Status:        req.Status,
		Page:          req.Page,
		RowsPerPage:   coalesceRows(req.RowsPerPage, req.Limit),
		SortBy:        req.SortBy,
		SortDirection: req.SortDirection,
		Paginate:      resolvePaginate(req.Paginate),
	}
	if req.StartDate != "" {
		from, err := time.Parse("2006-01-02", req.StartDate)
		if err != nil {
			return opts, err
		}
		opts.PublishedFrom = &from
	}
	if req.EndDate != "" {
		parsed, err := time.Parse("2006-01-02", req.EndDate)
		if err != nil {
			return opts, err
		}
		// 上界按整天计算
		to := parsed.Add(24*time.Hour - time.Second)
		opts.PublishedTo = &to
	}
	return opts, nil
}

func parsePostID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		response.NotFound(c, "post not found")
		return 0, false
	}
	return uint(id), true
}

// ListPosts 当前用户文章列表
func (h *Handler) ListPosts(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		response.Unauthorized(c, "unauthorized")
		return
	}

	var req ListPostsRequest
	if !bindQuery(c, &req) {
		return
	}

	opts := req.toListOptions()
	posts, total, err := h.PostService.ListOwn(user, opts)
	if err != nil {
		respondWithMappedError(c, err, postCommonErrorRules, "list posts failed")
		return
	}
	respondPostList(c, posts, total, opts)
}

// ListAllPosts 全部文章列表（仅管理员）
func (h *Handler) ListAllPosts(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		response.Unauthorized(c, "unauthorized")
		return
	}

	var req ListPostsRequest
	if !bindQuery(c, &req) {
		return
	}

	opts := req.toListOptions()
	posts, total, err := h.PostService.ListAll(user, opts)
	if err != nil {
		respondWithMappedError(c, err, postCommonErrorRules, "list posts failed")
		return
	}
	respondPostList(c, posts, total, opts)
}

// SearchPosts 搜索文章
func (h *Handler) SearchPosts(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		response.Unauthorized(c, "unauthorized")
		return
	}

	var req SearchPostsRequest
	if !bindQuery(c, &req) {
		return
	}

	opts, err := req.toSearchOptions()
	if err != nil {
		response.ValidationFailed(c, map[string]string{"published_at": "the published_at range must use 2006-01-02 dates"})
		return
	}

	posts, total, err := h.PostService.Search(user, opts)
	if err != nil {
		if errors.Is(err, service.ErrInvalidPostStatus) {
			response.ValidationFailed(c, map[string]string{"status": "the status field must be one of: DRAFT PUBLISHED"})
			return
		}
		respondWithMappedError(c, err, postCommonErrorRules, "search posts failed")
		return
	}

	if !opts.Paginate {
		response.Success(c, posts)
		return
	}
	page := opts.Page
	if page < 1 {
		page = 1
	}
	response.SuccessWithPage(c, posts, response.NewPagination(page, resolveRows(opts.RowsPerPage), total))
}

// CreatePost 创建文章
func (h *Handler) CreatePost(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		response.Unauthorized(c, "unauthorized")
		return
	}

	var req PostRequest
	if !bindJSON(c, &req) {
		return
	}

	post, err := h.PostService.Create(user, service.PostInput{
		Title:          req.Title,
		Body:           req.Body,
		Status:         req.Status,
		BannerImageURL: req.BannerImageURL,
	})
	if err != nil {
		respondPostWriteError(c, err, "create post failed")
		return
	}

	requestLog(c).Infow("post_created", "post_id", post.ID, "user_id", user.ID, "status", post.Status)
	response.Created(c, post)
}

// UpdatePost 更新文章
func (h *Handler) UpdatePost(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		response.Unauthorized(c, "unauthorized")
		return
	}

	id, ok := parsePostID(c)
	if !ok {
		return
	}

	var req PostRequest
	if !bindJSON(c, &req) {
		return
	}

	post, err := h.PostService.Update(user, id, service.PostInput{
		Title:          req.Title,
		Body:           req.Body,
		Status:         req.Status,
		BannerImageURL: req.BannerImageURL,
	})
	if err != nil {
		respondPostWriteError(c, err, "update post failed")
		return
	}

	requestLog(c).Infow("post_updated", "post_id", post.ID, "user_id", user.ID, "status", post.Status)
	response.Success(c, post)
}

// ArchivePost 归档文章
func (h *Handler) ArchivePost(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		response.Unauthorized(c, "unauthorized")
		return
	}

	id, ok := parsePostID(c)
	if !ok {
		return
	}

	post, err := h.PostService.Archive(user, id)
	if err != nil {
		respondWithMappedError(c, err, postCommonErrorRules, "archive post failed")
		return
	}

	requestLog(c).Infow("post_archived", "post_id", post.ID, "user_id", user.ID)
	response.Success(c, post)
}

// RestorePost 恢复文章
func (h *Handler) RestorePost(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		response.Unauthorized(c, "unauthorized")
		return
	}

	id, ok := parsePostID(c)
	if !ok {
		return
	}

	post, err := h.PostService.Restore(user, id)
	if err != nil {
		respondWithMappedError(c, err, postCommonErrorRules, "restore post failed")
		return
	}

	requestLog(c).Infow("post_restored", "post_id", post.ID, "user_id", user.ID)
	response.Success(c, post)
}

// FindPost 文章详情
func (h *Handler) FindPost(c *gin.Context) {
	if _, ok := currentUser(c); !ok {
		response.Unauthorized(c, "unauthorized")
		return
	}

	id, ok := parsePostID(c)
	if !ok {
		return
	}

	post, err := h.PostService.Find(id)
	if err != nil {
		respondWithMappedError(c, err, postCommonErrorRules, "find post failed")
		return
	}
	response.Success(c, post)
}

func respondPostWriteError(c *gin.Context, err error, fallbackMsg string) {
	switch {
	case errors.Is(err, service.ErrTitleExists):
		response.ValidationFailed(c, map[string]string{"title": "the title has already been taken"})
	case errors.Is(err, service.ErrInvalidPostStatus):
		response.ValidationFailed(c, map[string]string{"status": "the status field must be one of: DRAFT PUBLISHED"})
	default:
		respondWithMappedError(c, err, postCommonErrorRules, fallbackMsg)
	}
}

func respondPostList(c *gin.Context, posts interface{}, total int64, opts service.ListOptions) {
	if !opts.Paginate {
		response.Success(c, posts)
		return
	}
	page := opts.Page
	if page < 1 {
		page = 1
	}
	response.SuccessWithPage(c, posts, response.NewPagination(page, resolveRows(opts.RowsPerPage), total))
}

func resolveRows(rows int) int {
	if rows <= 0 {
		return constants.DefaultRowsPerPage
	}
	return rows
}
