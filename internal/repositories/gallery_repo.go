package repositories

import (
	"errors"
	"fmt"

	"github.com/3Eeeecho/go-gallerycloud/internal/models"
	"github.com/3Eeeecho/go-gallerycloud/internal/pkg/xerr"
	"gorm.io/gorm"
)

// GalleryRepository 定义图库数据访问层接口
type GalleryRepository interface {
	Create(gallery *models.Gallery) error
	FindByID(id uint64) (*models.Gallery, error)
	FindByUUID(uuid string) (*models.Gallery, error)
	FindAllByUserID(userID uint64, page, pageSize int) ([]models.Gallery, int64, error)
	Update(gallery *models.Gallery) error
	Delete(id uint64) error // 逻辑删除图库

	CreateSection(section *models.GallerySection) error
	FindSectionByID(id uint64) (*models.GallerySection, error)
	FindSectionsByGalleryID(galleryID uint64) ([]models.GallerySection, error)
	DeleteSection(id uint64) error
}

type galleryRepository struct {
	db *gorm.DB
}

var _ GalleryRepository = (*galleryRepository)(nil)

// NewGalleryRepository 创建新的 galleryRepository 实例
func NewGalleryRepository(db *gorm.DB) GalleryRepository {
	return &galleryRepository{db: db}
}

func (r *galleryRepository) Create(gallery *models.Gallery) error {
	return r.db.Create(gallery).Error
}

func (r *galleryRepository) FindByID(id uint64) (*models.Gallery, error) {
	var gallery models.Gallery
	err := r.db.Preload("Sections").First(&gallery, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, xerr.ErrGalleryNotFound
		}
		return nil, fmt.Errorf("查询图库失败: %w", err)
	}
	return &gallery, nil
}

func (r *galleryRepository) FindByUUID(uuid string) (*models.Gallery, error) {
	var gallery models.Gallery
	err := r.db.Preload("Sections").Where("uuid = ?", uuid).First(&gallery).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, xerr.ErrGalleryNotFound
		}
		return nil, fmt.Errorf("查询图库失败: %w", err)
	}
	return &gallery, nil
}

func (r *galleryRepository) FindAllByUserID(userID uint64, page, pageSize int) ([]models.Gallery, int64, error) {
	var galleries []models.Gallery
	var total int64

	query := r.db.Model(&models.Gallery{}).Where("user_id = ?", userID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("统计图库数量失败: %w", err)
	}

	err := query.Order("created_at DESC").Offset((page - 1) * pageSize).Limit(pageSize).Find(&galleries).Error
	if err != nil {
		return nil, 0, fmt.Errorf("查询图库列表失败: %w", err)
	}
	return galleries, total, nil
}

func (r *galleryRepository) Update(gallery *models.Gallery) error {
	return r.db.Save(gallery).Error
}

func (r *galleryRepository) Delete(id uint64) error {
	return r.db.Delete(&models.Gallery{}, id).Error
}

func (r *galleryRepository) CreateSection(section *models.GallerySection) error {
	return r.db.Create(section).Error
}

func (r *galleryRepository) FindSectionByID(id uint64) (*models.GallerySection, error) {
	var section models.GallerySection
	err := r.db.First(&section, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, xerr.ErrSectionNotFound
		}
		return nil, fmt.Errorf("查询图库分区失败: %w", err)
	}
	return &section, nil
}

func (r *galleryRepository) FindSectionsByGalleryID(galleryID uint64) ([]models.GallerySection, error) {
	var sections []models.GallerySection
	err := r.db.Where("gallery_id = ?", galleryID).Order("sort_order ASC, id ASC").Find(&sections).Error
	if err != nil {
		return nil, fmt.Errorf("查询图库分区失败: %w", err)
	}
	return sections, nil
}

func (r *galleryRepository) DeleteSection(id uint64) error {
	return r.db.Delete(&models.GallerySection{}, id).Error
}
