package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	RoleAdmin        = "admin"
	RolePhotographer = "photographer"
)

// User 对应 users 表，摄影师与平台管理员共用
type User struct {
	ID           uint64         `gorm:"primaryKey;autoIncrement" json:"id"`
	Username     string         `gorm:"type:varchar(64);unique;not null" json:"username"`
	Email        string         `gorm:"type:varchar(128);unique;not null" json:"email"`
	PasswordHash string         `gorm:"type:varchar(255);not null" json:"-"`
	Role         string         `gorm:"type:varchar(16);not null;default:'photographer'" json:"role"`
	StudioName   *string        `gorm:"type:varchar(128);default:null" json:"studio_name"`
	CreatedAt    time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

// TableName 指定 GORM 使用的表名
func (User) TableName() string {
	return "users"
}
