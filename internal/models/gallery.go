package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	GalleryStatusNormal   = 1 // 正常
	GalleryStatusArchived = 2 // 已归档，只读
	GalleryStatusDisabled = 0 // 被禁用
)

// Gallery 对应 galleries 表，一个摄影师名下的一次活动图库
type Gallery struct {
	ID            uint64         `gorm:"primaryKey;autoIncrement" json:"id"`
	UUID          string         `gorm:"type:varchar(36);unique;not null" json:"uuid"`
	UserID        uint64         `gorm:"not null;index" json:"user_id"` // 所属摄影师
	Title         string         `gorm:"type:varchar(255);not null" json:"title"`
	EventDate     *time.Time     `gorm:"default:null" json:"event_date"`
	ThemeKey      string         `gorm:"type:varchar(32);not null;default:'classic'" json:"theme_key"` // 主题枚举键，见 themes 包
	GuestUpload   bool           `gorm:"not null;default:true" json:"guest_upload"`                    // 是否允许访客通过链接上传
	Premium       bool           `gorm:"not null;default:false" json:"premium"`                        // premium 图库不受 lite 批次上限约束
	Status        uint8          `gorm:"type:tinyint unsigned;not null;default:1" json:"status"`
	CreatedAt     time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	// 定义 GORM 关联，方便预加载
	User     *User            `gorm:"foreignKey:UserID" json:"-"`
	Sections []GallerySection `gorm:"foreignKey:GalleryID" json:"sections,omitempty"`
}

// TableName 指定 GORM 使用的表名
func (Gallery) TableName() string {
	return "galleries"
}

// GallerySection 对应 gallery_sections 表，图库内的分区（仪式、晚宴等）
type GallerySection struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	GalleryID uint64    `gorm:"not null;index" json:"gallery_id"`
	Name      string    `gorm:"type:varchar(128);not null" json:"name"`
	SortOrder int       `gorm:"not null;default:0" json:"sort_order"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName 指定 GORM 使用的表名
func (GallerySection) TableName() string {
	return "gallery_sections"
}
