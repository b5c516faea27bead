package repositories

import (
	"errors"
	"fmt"
	"strings"

	"github.com/3Eeeecho/go-gallerycloud/internal/models"
	"github.com/3Eeeecho/go-gallerycloud/internal/pkg/logger"
	"github.com/3Eeeecho/go-gallerycloud/internal/pkg/xerr"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// MediaRepository 定义媒体数据访问层接口
type MediaRepository interface {
	Create(item *models.MediaItem) error

	FindByID(id uint64) (*models.MediaItem, error)
	FindByUUID(uuid string) (*models.MediaItem, error)
	FindByGalleryID(galleryID uint64, sectionID *uint64, page, pageSize int) ([]models.MediaItem, int64, error)
	// FindByGalleryAndFileName 按文件名在图库内查找，匹配不区分大小写
	FindByGalleryAndFileName(galleryID uint64, fileName string) (*models.MediaItem, error)
	FindByGalleryAndHash(galleryID uint64, md5Hash string) (*models.MediaItem, error)
	// ListNamesAndHashes 返回图库内全部正常状态媒体的 (小写文件名 -> 哈希) 映射，批量查重用
	ListNamesAndHashes(galleryID uint64) (map[string]string, error)

	Update(item *models.MediaItem) error
	SoftDelete(id uint64) error
	MarkDeleting(id uint64) error // 进入异步删除队列时置状态
}

type mediaRepository struct {
	db *gorm.DB
}

var _ MediaRepository = (*mediaRepository)(nil)

// NewMediaRepository 创建一个新的 MediaRepository 实例
func NewMediaRepository(db *gorm.DB) MediaRepository {
	return &mediaRepository{db: db}
}

func (r *mediaRepository) Create(item *models.MediaItem) error {
	err := r.db.Create(item).Error
	if err != nil {
		logger.Error("Create: Failed to create media item in DB",
			zap.Error(err), zap.Uint64("galleryID", item.GalleryID), zap.String("fileName", item.FileName))
		return fmt.Errorf("failed to create media item: %w", err)
	}
	return nil
}

func (r *mediaRepository) FindByID(id uint64) (*models.MediaItem, error) {
	var item models.MediaItem
	err := r.db.First(&item, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, xerr.ErrMediaNotFound
		}
		return nil, fmt.Errorf("查询媒体记录失败: %w", err)
	}
	return &item, nil
}

func (r *mediaRepository) FindByUUID(uuid string) (*models.MediaItem, error) {
	var item models.MediaItem
	err := r.db.Where("uuid = ?", uuid).First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, xerr.ErrMediaNotFound
		}
		return nil, fmt.Errorf("查询媒体记录失败: %w", err)
	}
	return &item, nil
}

func (r *mediaRepository) FindByGalleryID(galleryID uint64, sectionID *uint64, page, pageSize int) ([]models.MediaItem, int64, error) {
	var items []models.MediaItem
	var total int64

	query := r.db.Model(&models.MediaItem{}).
		Where("gallery_id = ? AND status = ?", galleryID, models.MediaStatusNormal)
	if sectionID != nil {
		query = query.Where("section_id = ?", *sectionID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("统计媒体数量失败: %w", err)
	}

	err := query.Order("created_at ASC, id ASC").Offset((page - 1) * pageSize).Limit(pageSize).Find(&items).Error
	if err != nil {
		return nil, 0, fmt.Errorf("查询媒体列表失败: %w", err)
	}
	return items, total, nil
}

func (r *mediaRepository) FindByGalleryAndFileName(galleryID uint64, fileName string) (*models.MediaItem, error) {
	var item models.MediaItem
	// 文件名查重不区分大小写，与前端 lite 上传的约定一致
	err := r.db.Where("gallery_id = ? AND status = ? AND LOWER(file_name) = ?",
		galleryID, models.MediaStatusNormal, strings.ToLower(fileName)).First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, xerr.ErrMediaNotFound
		}
		return nil, fmt.Errorf("按文件名查询媒体失败: %w", err)
	}
	return &item, nil
}

func (r *mediaRepository) FindByGalleryAndHash(galleryID uint64, md5Hash string) (*models.MediaItem, error) {
	var item models.MediaItem
	err := r.db.Where("gallery_id = ? AND status = ? AND md5_hash = ?",
		galleryID, models.MediaStatusNormal, md5Hash).First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, xerr.ErrMediaNotFound
		}
		return nil, fmt.Errorf("按哈希查询媒体失败: %w", err)
	}
	return &item, nil
}

func (r *mediaRepository) ListNamesAndHashes(galleryID uint64) (map[string]string, error) {
	var rows []struct {
		FileName string
		MD5Hash  *string
	}
	err := r.db.Model(&models.MediaItem{}).
		Select("file_name", "md5_hash").
		Where("gallery_id = ? AND status = ?", galleryID, models.MediaStatusNormal).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("查询图库媒体清单失败: %w", err)
	}

	result := make(map[string]string, len(rows))
	for _, row := range rows {
		hash := ""
		if row.MD5Hash != nil {
			hash = *row.MD5Hash
		}
		result[strings.ToLower(row.FileName)] = hash
	}
	return result, nil
}

func (r *mediaRepository) Update(item *models.MediaItem) error {
	return r.db.Save(item).Error
}

func (r *mediaRepository) SoftDelete(id uint64) error {
	return r.db.Model(&models.MediaItem{}).Where("id = ?", id).
		Update("status", models.MediaStatusDeleted).Error
}

func (r *mediaRepository) MarkDeleting(id uint64) error {
	return r.db.Model(&models.MediaItem{}).Where("id = ?", id).
		Update("status", models.MediaStatusDeleting).Error
}
