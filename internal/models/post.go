package models

import (
	"time"

	"gorm.io/gorm"
)

// Post 文章表
type Post struct {
	ID             uint           `gorm:"primarykey" json:"id"`                    // 主键
	UserID         uint           `gorm:"not null;index" json:"user_id"`           // 所属用户
	User           *User          `gorm:"foreignKey:UserID" json:"user,omitempty"` // 所属用户关联
	Title          string         `gorm:"size:255;not null;index" json:"title"`    // 标题（未删除范围内唯一）
	Body           string         `gorm:"type:text;not null" json:"body"`          // 正文
	Status         string         `gorm:"not null;index" json:"status"`            // 状态（DRAFT/PUBLISHED）
	BannerImageURL string         `json:"banner_image_url"`                        // 头图 URL
	PublishedAt    *time.Time     `gorm:"index" json:"published_at"`               // 发布时间（PUBLISHED 时非空）
	CreatedAt      time.Time      `gorm:"index" json:"created_at"`                 // 创建时间
	UpdatedAt      time.Time      `json:"updated_at"`                              // 更新时间
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"deleted_at"`                 // 软删除时间（归档标记）
}

// TableName 指定表名
func (Post) TableName() string {
	return "posts"
}

// IsArchived 判断文章是否已归档
func (p *Post) IsArchived() bool {
	return p != nil && p.DeletedAt.Valid
}
