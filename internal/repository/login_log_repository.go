package repository

import (
	"github.com/inkwell-blog/internal/models"

	"gorm.io/gorm"
)

// LoginLogRepository 登录日志数据访问接口
type LoginLogRepository interface {
	Create(entry *models.LoginLog) error
	ListByUser(userID uint, page, pageSize int) ([]models.LoginLog, int64, error)
}

// GormLoginLogRepository GORM 实现
type GormLoginLogRepository struct {
	db *gorm.DB
}

// NewLoginLogRepository 创建登录日志仓库
func NewLoginLogRepository(db *gorm.DB) *GormLoginLogRepository {
	return &GormLoginLogRepository{db: db}
}

// Create 写入一条登录记录
func (r *GormLoginLogRepository) Create(entry *models.LoginLog) error {
	return r.db.Create(entry).Error
}

// ListByUser 按用户分页查询登录记录，按时间倒序
func (r *GormLoginLogRepository) ListByUser(userID uint, page, pageSize int) ([]models.LoginLog, int64, error) {
	query := r.db.Model(&models.LoginLog{}).Where("user_id = ?", userID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	logs := make([]models.LoginLog, 0)
	if err := applyPagination(query, page, pageSize).
		Order("id DESC").
		Find(&logs).Error; err != nil {
		return nil, 0, err
	}
	return logs, total, nil
}
