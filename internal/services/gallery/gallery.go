package gallery

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/3Eeeecho/go-gallerycloud/internal/config"
	"github.com/3Eeeecho/go-gallerycloud/internal/models"
	"github.com/3Eeeecho/go-gallerycloud/internal/pkg/logger"
	"github.com/3Eeeecho/go-gallerycloud/internal/pkg/mq"
	"github.com/3Eeeecho/go-gallerycloud/internal/pkg/storage"
	"github.com/3Eeeecho/go-gallerycloud/internal/pkg/xerr"
	"github.com/3Eeeecho/go-gallerycloud/internal/repositories"
	"github.com/3Eeeecho/go-gallerycloud/internal/themes"
	"github.com/google/uuid"
	"github.com/klauspost/compress/zip"
	"go.uber.org/zap"
)

// GalleryService 摄影师侧的图库管理
type GalleryService interface {
	CreateGallery(ctx context.Context, userID uint64, title, themeKey string, eventDate *time.Time) (*models.Gallery, error)
	GetGallery(ctx context.Context, userID, galleryID uint64) (*models.Gallery, error)
	ListGalleries(ctx context.Context, userID uint64, page, pageSize int) ([]models.Gallery, int64, error)
	UpdateTheme(ctx context.Context, userID, galleryID uint64, themeKey string) (*models.Gallery, error)
	DeleteGallery(ctx context.Context, userID, galleryID uint64) error

	CreateSection(ctx context.Context, userID, galleryID uint64, name string, sortOrder int) (*models.GallerySection, error)
	DeleteSection(ctx context.Context, userID, galleryID, sectionID uint64) error

	ListMedia(ctx context.Context, userID, galleryID uint64, sectionID *uint64, page, pageSize int) ([]models.MediaItem, int64, error)
	DeleteMedia(ctx context.Context, userID, galleryID, mediaID uint64) error
	SearchMedia(ctx context.Context, userID, galleryID uint64, keyword string, limit int) ([]MediaSearchHit, error)
	// MediaDownloadURL 为单个媒体生成限时下载地址
	MediaDownloadURL(ctx context.Context, userID, galleryID, mediaID uint64) (string, error)

	// ExportArchive 把图库内全部正常媒体打包成 ZIP 流式写入 w
	ExportArchive(ctx context.Context, userID, galleryID uint64, w io.Writer) error
}

type galleryService struct {
	galleryRepo repositories.GalleryRepository
	mediaRepo   repositories.MediaRepository
	storage     storage.StorageService
	search      MediaSearchService
	mqClient    *mq.RabbitMQClient
	cfg         *config.Config
}

var _ GalleryService = (*galleryService)(nil)

func NewGalleryService(
	galleryRepo repositories.GalleryRepository,
	mediaRepo repositories.MediaRepository,
	ss storage.StorageService,
	search MediaSearchService,
	mqClient *mq.RabbitMQClient,
	cfg *config.Config,
) GalleryService {
	return &galleryService{
		galleryRepo: galleryRepo,
		mediaRepo:   mediaRepo,
		storage:     ss,
		search:      search,
		mqClient:    mqClient,
		cfg:         cfg,
	}
}

func (s *galleryService) CreateGallery(ctx context.Context, userID uint64, title, themeKey string, eventDate *time.Time) (*models.Gallery, error) {
	if themeKey == "" {
		themeKey = string(themes.DefaultKey())
	}
	// 主题键必须在封闭枚举内，不信任任意字符串
	if !themes.IsValidKey(themeKey) {
		return nil, xerr.NewCodeError(xerr.InvalidParamsCode, fmt.Errorf("未知主题: %s", themeKey))
	}

	gallery := &models.Gallery{
		UUID:        uuid.NewString(),
		UserID:      userID,
		Title:       title,
		EventDate:   eventDate,
		ThemeKey:    themeKey,
		GuestUpload: true,
		Status:      models.GalleryStatusNormal,
	}
	if err := s.galleryRepo.Create(gallery); err != nil {
		return nil, xerr.NewCodeError(xerr.DatabaseErrorCode, fmt.Errorf("创建图库失败: %w", err))
	}
	logger.Info("Gallery created", zap.Uint64("galleryID", gallery.ID), zap.Uint64("userID", userID))
	return gallery, nil
}

// getOwnedGallery 取图库并校验归属
func (s *galleryService) getOwnedGallery(userID, galleryID uint64) (*models.Gallery, error) {
	gallery, err := s.galleryRepo.FindByID(galleryID)
	if err != nil {
		if xerr.Is(err, xerr.ErrGalleryNotFound) {
			return nil, xerr.NewCodeError(xerr.GalleryNotFoundCode, err)
		}
		return nil, xerr.NewCodeError(xerr.DatabaseErrorCode, err)
	}
	if gallery.UserID != userID {
		return nil, xerr.NewCodeError(xerr.PermissionDeniedCode, xerr.ErrPermissionDenied)
	}
	return gallery, nil
}

func (s *galleryService) GetGallery(ctx context.Context, userID, galleryID uint64) (*models.Gallery, error) {
	return s.getOwnedGallery(userID, galleryID)
}

func (s *galleryService) ListGalleries(ctx context.Context, userID uint64, page, pageSize int) ([]models.Gallery, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return s.galleryRepo.FindAllByUserID(userID, page, pageSize)
}

func (s *galleryService) UpdateTheme(ctx context.Context, userID, galleryID uint64, themeKey string) (*models.Gallery, error) {
	if !themes.IsValidKey(themeKey) {
		return nil, xerr.NewCodeError(xerr.InvalidParamsCode, fmt.Errorf("未知主题: %s", themeKey))
	}
	gallery, err := s.getOwnedGallery(userID, galleryID)
	if err != nil {
		return nil, err
	}
	gallery.ThemeKey = themeKey
	if err := s.galleryRepo.Update(gallery); err != nil {
		return nil, xerr.NewCodeError(xerr.DatabaseErrorCode, fmt.Errorf("更新主题失败: %w", err))
	}
	return gallery, nil
}

func (s *galleryService) DeleteGallery(ctx context.Context, userID, galleryID uint64) error {
	gallery, err := s.getOwnedGallery(userID, galleryID)
	if err != nil {
		return err
	}
	if err := s.galleryRepo.Delete(gallery.ID); err != nil {
		return xerr.NewCodeError(xerr.DatabaseErrorCode, fmt.Errorf("删除图库失败: %w", err))
	}
	logger.Info("Gallery deleted", zap.Uint64("galleryID", galleryID))
	return nil
}

func (s *galleryService) CreateSection(ctx context.Context, userID, galleryID uint64, name string, sortOrder int) (*models.GallerySection, error) {
	gallery, err := s.getOwnedGallery(userID, galleryID)
	if err != nil {
		return nil, err
	}
	section := &models.GallerySection{
		GalleryID: gallery.ID,
		Name:      name,
		SortOrder: sortOrder,
	}
	if err := s.galleryRepo.CreateSection(section); err != nil {
		return nil, xerr.NewCodeError(xerr.DatabaseErrorCode, fmt.Errorf("创建分区失败: %w", err))
	}
	return section, nil
}

func (s *galleryService) DeleteSection(ctx context.Context, userID, galleryID, sectionID uint64) error {
	if _, err := s.getOwnedGallery(userID, galleryID); err != nil {
		return err
	}
	section, err := s.galleryRepo.FindSectionByID(sectionID)
	if err != nil {
		if xerr.Is(err, xerr.ErrSectionNotFound) {
			return xerr.NewCodeError(xerr.SectionNotFoundCode, err)
		}
		return xerr.NewCodeError(xerr.DatabaseErrorCode, err)
	}
	if section.GalleryID != galleryID {
		return xerr.NewCodeError(xerr.PermissionDeniedCode, xerr.ErrPermissionDenied)
	}
	if err := s.galleryRepo.DeleteSection(sectionID); err != nil {
		return xerr.NewCodeError(xerr.DatabaseErrorCode, fmt.Errorf("删除分区失败: %w", err))
	}
	return nil
}

func (s *galleryService) ListMedia(ctx context.Context, userID, galleryID uint64, sectionID *uint64, page, pageSize int) ([]models.MediaItem, int64, error) {
	if _, err := s.getOwnedGallery(userID, galleryID); err != nil {
		return nil, 0, err
	}
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 200 {
		pageSize = 50
	}
	return s.mediaRepo.FindByGalleryID(galleryID, sectionID, page, pageSize)
}

func (s *galleryService) DeleteMedia(ctx context.Context, userID, galleryID, mediaID uint64) error {
	if _, err := s.getOwnedGallery(userID, galleryID); err != nil {
		return err
	}
	item, err := s.mediaRepo.FindByID(mediaID)
	if err != nil {
		if xerr.Is(err, xerr.ErrMediaNotFound) {
			return xerr.NewCodeError(xerr.MediaNotFoundCode, err)
		}
		return xerr.NewCodeError(xerr.DatabaseErrorCode, err)
	}
	if item.GalleryID != galleryID {
		return xerr.NewCodeError(xerr.PermissionDeniedCode, xerr.ErrPermissionDenied)
	}

	// 先置状态再投递异步任务，由 DeleteWorker 清理对象与索引
	if err := s.mediaRepo.MarkDeleting(mediaID); err != nil {
		return xerr.NewCodeError(xerr.DatabaseErrorCode, fmt.Errorf("标记删除失败: %w", err))
	}

	task := models.DeleteMediaTask{MediaID: mediaID}
	if item.OssBucket != nil {
		task.OssBucket = *item.OssBucket
	}
	if item.OssKey != nil {
		task.OssKey = *item.OssKey
	}
	body, err := json.Marshal(task)
	if err != nil {
		return xerr.NewCodeError(xerr.InternalServerErrorCode, fmt.Errorf("序列化删除任务失败: %w", err))
	}
	if err := s.mqClient.Publish(mq.DeleteQueue, body); err != nil {
		logger.Error("DeleteMedia: failed to publish delete task",
			zap.Uint64("mediaID", mediaID), zap.Error(err))
		return xerr.NewCodeError(xerr.MQErrorCode, xerr.ErrMQError)
	}
	return nil
}

func (s *galleryService) SearchMedia(ctx context.Context, userID, galleryID uint64, keyword string, limit int) ([]MediaSearchHit, error) {
	if _, err := s.getOwnedGallery(userID, galleryID); err != nil {
		return nil, err
	}
	hits, err := s.search.SearchByFileName(ctx, galleryID, keyword, limit)
	if err != nil {
		return nil, xerr.NewCodeError(xerr.SearchErrorCode, err)
	}
	return hits, nil
}

func (s *galleryService) MediaDownloadURL(ctx context.Context, userID, galleryID, mediaID uint64) (string, error) {
	if _, err := s.getOwnedGallery(userID, galleryID); err != nil {
		return "", err
	}
	item, err := s.mediaRepo.FindByID(mediaID)
	if err != nil {
		if xerr.Is(err, xerr.ErrMediaNotFound) {
			return "", xerr.NewCodeError(xerr.MediaNotFoundCode, err)
		}
		return "", xerr.NewCodeError(xerr.DatabaseErrorCode, err)
	}
	if item.GalleryID != galleryID {
		return "", xerr.NewCodeError(xerr.PermissionDeniedCode, xerr.ErrPermissionDenied)
	}

	// fotoshare 外链资源直接返回原始地址
	if item.ExternalURL != nil {
		return *item.ExternalURL, nil
	}
	if item.OssBucket == nil || item.OssKey == nil {
		return "", xerr.NewCodeError(xerr.MediaNotFoundCode, xerr.ErrMediaNotFound)
	}

	expiry := time.Duration(s.cfg.Storage.PresignedURLExpiry) * time.Minute
	if expiry <= 0 {
		expiry = time.Hour
	}
	url, err := s.storage.PreSignGetObjectURL(ctx, *item.OssBucket, *item.OssKey, expiry)
	if err != nil {
		return "", xerr.NewCodeError(xerr.StorageErrorCode, fmt.Errorf("生成下载地址失败: %w", err))
	}
	return url, nil
}

func (s *galleryService) ExportArchive(ctx context.Context, userID, galleryID uint64, w io.Writer) error {
	gallery, err := s.getOwnedGallery(userID, galleryID)
	if err != nil {
		return err
	}

	zipWriter := zip.NewWriter(w)
	defer zipWriter.Close()

	// 分页遍历，避免一次性把大图库拉进内存
	const pageSize = 200
	for page := 1; ; page++ {
		items, _, err := s.mediaRepo.FindByGalleryID(galleryID, nil, page, pageSize)
		if err != nil {
			return xerr.NewCodeError(xerr.DatabaseErrorCode, fmt.Errorf("读取媒体列表失败: %w", err))
		}
		if len(items) == 0 {
			break
		}

		for i := range items {
			item := &items[i]
			// fotoshare 外链没有对象可下载，跳过
			if item.OssKey == nil || item.OssBucket == nil {
				continue
			}
			if err := s.appendToArchive(ctx, zipWriter, item); err != nil {
				return err
			}
		}
		if len(items) < pageSize {
			break
		}
	}

	logger.Info("Gallery archive exported", zap.Uint64("galleryID", gallery.ID))
	return nil
}

func (s *galleryService) appendToArchive(ctx context.Context, zw *zip.Writer, item *models.MediaItem) error {
	obj, err := s.storage.GetObject(ctx, *item.OssBucket, *item.OssKey)
	if err != nil {
		return xerr.NewCodeError(xerr.StorageErrorCode, fmt.Errorf("读取对象 %s 失败: %w", *item.OssKey, err))
	}
	defer obj.Reader.Close()

	header := &zip.FileHeader{
		Name:   item.FileName,
		Method: zip.Deflate,
	}
	header.Modified = item.CreatedAt
	if item.Size > 0 {
		header.UncompressedSize64 = item.Size
	}
	entry, err := zw.CreateHeader(header)
	if err != nil {
		return xerr.NewCodeError(xerr.InternalServerErrorCode, fmt.Errorf("创建压缩条目失败: %w", err))
	}
	if _, err := io.Copy(entry, obj.Reader); err != nil {
		return xerr.NewCodeError(xerr.StorageErrorCode, fmt.Errorf("写入压缩条目失败: %w", err))
	}
	return nil
}
