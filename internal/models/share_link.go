package models

import (
	"time"
)

const (
	ShareLinkStatusActive  = 1 // 可用
	ShareLinkStatusRevoked = 0 // 被撤销
)

// 上传链接的角色，决定可用的上传接口
const (
	ShareRoleGuest       = "guest"       // 普通访客，照片
	ShareRoleContributor = "contributor" // 供应商/协作摄影师，照片+视频
	ShareRoleBooth       = "booth"       // 360 拍照亭，fotoshare 外链
)

// ShareLink 对应 share_links 表，指向某个图库的可分享上传链接
type ShareLink struct {
	ID          uint64     `gorm:"primaryKey;autoIncrement" json:"id"`
	GalleryID   uint64     `gorm:"not null;index" json:"gallery_id"`
	ShareCode   string     `gorm:"type:varchar(32);unique;not null" json:"share_code"` // URL 中的 :share_link 段
	Role        string     `gorm:"type:varchar(16);not null;default:'guest'" json:"role"`
	Label       *string    `gorm:"type:varchar(128);default:null" json:"label"` // 给摄影师看的备注，如"婚礼跟拍二号机"
	ExpireTime  *time.Time `gorm:"default:null" json:"expire_time"`
	UploadCount uint32     `gorm:"type:int unsigned;not null;default:0" json:"upload_count"`
	Status      int        `gorm:"type:tinyint;default:1" json:"status"`
	CreatedAt   time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"autoUpdateTime" json:"updated_at"`

	// 定义 GORM 关联，方便预加载
	Gallery *Gallery `gorm:"foreignKey:GalleryID"`
}

// TableName 指定 GORM 使用的表名
func (ShareLink) TableName() string {
	return "share_links"
}

// IsExpired 判断链接此刻是否已过期
func (s *ShareLink) IsExpired(now time.Time) bool {
	return s.ExpireTime != nil && now.After(*s.ExpireTime)
}
