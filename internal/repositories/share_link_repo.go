package repositories

import (
	"errors"
	"fmt"

	"github.com/3Eeeecho/go-gallerycloud/internal/models"
	"gorm.io/gorm"
)

type ShareLinkRepository interface {
	Create(link *models.ShareLink) error
	FindByShareCode(code string) (*models.ShareLink, error)
	FindByID(id uint64) (*models.ShareLink, error)
	FindAllByGalleryID(galleryID uint64) ([]models.ShareLink, error)
	Update(link *models.ShareLink) error
	IncrementUploadCount(id uint64, delta uint32) error
	Revoke(id uint64) error // 撤销上传链接
}

type shareLinkRepository struct {
	db *gorm.DB
}

var _ ShareLinkRepository = (*shareLinkRepository)(nil)

// NewShareLinkRepository 创建新的 shareLinkRepository 实例
func NewShareLinkRepository(db *gorm.DB) ShareLinkRepository {
	return &shareLinkRepository{db: db}
}

func (r *shareLinkRepository) Create(link *models.ShareLink) error {
	return r.db.Create(link).Error
}

// FindByShareCode 根据链接码查找记录，预加载所属图库
// 未找到时返回 (nil, nil)，由服务层决定业务语义
func (r *shareLinkRepository) FindByShareCode(code string) (*models.ShareLink, error) {
	var link models.ShareLink
	err := r.db.Preload("Gallery").Where("share_code = ?", code).First(&link).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("查询上传链接失败: %w", err)
	}
	return &link, nil
}

func (r *shareLinkRepository) FindByID(id uint64) (*models.ShareLink, error) {
	var link models.ShareLink
	err := r.db.Preload("Gallery").First(&link, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("查询上传链接失败: %w", err)
	}
	return &link, nil
}

func (r *shareLinkRepository) FindAllByGalleryID(galleryID uint64) ([]models.ShareLink, error) {
	var links []models.ShareLink
	err := r.db.Where("gallery_id = ?", galleryID).Order("created_at DESC").Find(&links).Error
	if err != nil {
		return nil, fmt.Errorf("查询上传链接列表失败: %w", err)
	}
	return links, nil
}

func (r *shareLinkRepository) Update(link *models.ShareLink) error {
	return r.db.Save(link).Error
}

func (r *shareLinkRepository) IncrementUploadCount(id uint64, delta uint32) error {
	return r.db.Model(&models.ShareLink{}).Where("id = ?", id).
		UpdateColumn("upload_count", gorm.Expr("upload_count + ?", delta)).Error
}

func (r *shareLinkRepository) Revoke(id uint64) error {
	return r.db.Model(&models.ShareLink{}).Where("id = ?", id).
		Update("status", models.ShareLinkStatusRevoked).Error
}
