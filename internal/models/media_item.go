package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	MediaStatusNormal   = 1 // 正常
	MediaStatusDeleted  = 0 // 已删除 (软删除)
	MediaStatusDeleting = 3 // 待删除 (进入异步删除队列)
)

const (
	MediaKindPhoto     = "photo"
	MediaKindVideo     = "video"
	MediaKindFotoshare = "fotoshare" // 360 拍照亭外链资源，文件不落在我们的对象存储
)

// MediaItem 对应 media_items 表，一条已入库的照片/视频记录
type MediaItem struct {
	ID          uint64         `gorm:"primaryKey;autoIncrement" json:"id"`
	UUID        string         `gorm:"type:varchar(36);unique;not null" json:"uuid"` // 对象存储中的唯一标识
	GalleryID   uint64         `gorm:"not null;index" json:"gallery_id"`
	SectionID   *uint64        `gorm:"default:null" json:"section_id"`
	Kind        string         `gorm:"type:varchar(16);not null;default:'photo'" json:"kind"`
	FileName    string         `gorm:"type:varchar(255);not null;index" json:"filename"` // 原始文件名，图库内查重用
	Size        uint64         `gorm:"type:bigint unsigned;not null;default:0" json:"size"`
	MimeType    *string        `gorm:"type:varchar(128);default:null" json:"mime_type"`
	OssBucket   *string        `gorm:"type:varchar(64);default:null" json:"oss_bucket"`
	OssKey      *string        `gorm:"type:varchar(255);default:null" json:"oss_key"`
	ExternalURL *string        `gorm:"type:varchar(1024);default:null" json:"external_url"` // fotoshare 资源地址
	MD5Hash     *string        `gorm:"type:varchar(32);default:null;index" json:"md5_hash"`
	GuestName   *string        `gorm:"type:varchar(128);default:null" json:"guest_name"` // 上传访客的署名
	Status      uint8          `gorm:"type:tinyint unsigned;not null;default:1" json:"status"`
	CreatedAt   time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	// 定义 GORM 关联，方便预加载
	Gallery *Gallery        `gorm:"foreignKey:GalleryID" json:"-"`
	Section *GallerySection `gorm:"foreignKey:SectionID" json:"-"`
}

// TableName 指定 GORM 使用的表名
func (MediaItem) TableName() string {
	return "media_items"
}
