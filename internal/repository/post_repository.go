package repository

import (
	"errors"
	"fmt"
	"strings"

	"github.com/inkwell-blog/internal/constants"
	"github.com/inkwell-blog/internal/models"

	"gorm.io/gorm"
)

// PostRepository 文章数据访问接口
type PostRepository interface {
	List(filter PostListFilter) ([]models.Post, int64, error)
	Search(filter PostSearchFilter) ([]models.Post, int64, error)
	GetByID(id uint) (*models.Post, error)
	GetByIDUnscoped(id uint) (*models.Post, error)
	GetByIDWithUser(id uint) (*models.Post, error)
	Create(post *models.Post) error
	Update(post *models.Post) error
	Archive(post *models.Post) error
	Restore(post *models.Post) error
	CountByTitle(title string, excludeID uint) (int64, error)
}

// GormPostRepository GORM 实现
type GormPostRepository struct {
	db *gorm.DB
}

// NewPostRepository 创建文章仓库
func NewPostRepository(db *gorm.DB) *GormPostRepository {
	return &GormPostRepository{db: db}
}

// List 文章列表，默认排除已归档记录
func (r *GormPostRepository) List(filter PostListFilter) ([]models.Post, int64, error) {
	var posts []models.Post
	query := r.db.Model(&models.Post{})

	if filter.UserID > 0 {
		query = query.Where("user_id = ?", filter.UserID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)
	query = query.Order(buildOrderClause(filter.SortBy, filter.SortDirection))

	if err := query.Find(&posts).Error; err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

// Search 按标题/正文子串搜索文章
func (r *GormPostRepository) Search(filter PostSearchFilter) ([]models.Post, int64, error) {
	var posts []models.Post
	query := r.db.Model(&models.Post{})

	if filter.UserID > 0 {
		query = query.Where("user_id = ?", filter.UserID)
	}
	if term := strings.TrimSpace(filter.Term); term != "" {
		like := "%" + term + "%"
		condition, argCount := buildLikeCondition(r.db, []string{"title", "body"})
		query = query.Where(condition, repeatLikeArgs(like, argCount)...)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.PublishedFrom != nil {
		query = query.Where("published_at >= ?", *filter.PublishedFrom)
	}
	if filter.PublishedTo != nil {
		query = query.Where("published_at <= ?", *filter.PublishedTo)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.Limit > 0 {
		// 预览模式：只截断行数，不做分页
		query = query.Limit(filter.Limit)
	} else {
		query = applyPagination(query, filter.Page, filter.PageSize)
	}
	query = query.Order(buildOrderClause(filter.SortBy, filter.SortDirection))

	if err := query.Find(&posts).Error; err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

// GetByID 根据 ID 获取文章（默认排除已归档）
func (r *GormPostRepository) GetByID(id uint) (*models.Post, error) {
	var post models.Post
	if err := r.db.First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &post, nil
}

// GetByIDUnscoped 根据 ID 获取文章（包含已归档）
func (r *GormPostRepository) GetByIDUnscoped(id uint) (*models.Post, error) {
	var post models.Post
	if err := r.db.Unscoped().First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &post, nil
}

// GetByIDWithUser 根据 ID 获取文章并加载所属用户
func (r *GormPostRepository) GetByIDWithUser(id uint) (*models.Post, error) {
	var post models.Post
	if err := r.db.Preload("User").First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &post, nil
}

// Create 创建文章
func (r *GormPostRepository) Create(post *models.Post) error {
	return r.db.Create(post).Error
}

// Update 更新文章
func (r *GormPostRepository) Update(post *models.Post) error {
	return r.db.Save(post).Error
}

// Archive 软删除文章
func (r *GormPostRepository) Archive(post *models.Post) error {
	if err := r.db.Delete(post).Error; err != nil {
		return err
	}
	// Delete 只回写 DeletedAt，重新加载保证内存对象与行一致
	return r.db.Unscoped().First(post, post.ID).Error
}

// Restore 恢复已归档文章
func (r *GormPostRepository) Restore(post *models.Post) error {
	if err := r.db.Unscoped().Model(post).Update("deleted_at", nil).Error; err != nil {
		return err
	}
	post.DeletedAt = gorm.DeletedAt{}
	return nil
}

// CountByTitle 统计未归档范围内同名标题数量
func (r *GormPostRepository) CountByTitle(title string, excludeID uint) (int64, error) {
	var count int64
	query := r.db.Model(&models.Post{}).Where("title = ?", title)
	if excludeID > 0 {
		query = query.Where("id != ?", excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// buildOrderClause 构建排序子句，非法字段回退默认 id desc。
func buildOrderClause(sortBy, direction string) string {
	if !constants.IsValidSortBy(sortBy) {
		sortBy = constants.SortByID
	}
	if direction != constants.SortDirectionAsc && direction != constants.SortDirectionDesc {
		direction = constants.SortDirectionDesc
	}
	return fmt.Sprintf("%s %s", sortBy, strings.ToUpper(direction))
}
