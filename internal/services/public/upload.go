package public

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/3Eeeecho/go-gallerycloud/internal/config"
	"github.com/3Eeeecho/go-gallerycloud/internal/models"
	"github.com/3Eeeecho/go-gallerycloud/internal/pkg/logger"
	"github.com/3Eeeecho/go-gallerycloud/internal/pkg/mq"
	"github.com/3Eeeecho/go-gallerycloud/internal/pkg/storage"
	"github.com/3Eeeecho/go-gallerycloud/internal/pkg/xerr"
	"github.com/3Eeeecho/go-gallerycloud/internal/repositories"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// UploadService 处理通过分享链接进入的访客/供应商上传
type UploadService interface {
	// CheckDuplicates 批量预检：把请求文件名划分为已存在与新文件两个子集
	// 文件名匹配不区分大小写，哈希命中同样视为重复
	CheckDuplicates(ctx context.Context, link *models.ShareLink, req *models.CheckDuplicatesRequest) (*models.CheckDuplicatesResponse, error)
	// UploadMedia 落库单个文件。服务端在此做权威查重，命中时返回带 DuplicateMediaCode 的错误
	UploadMedia(ctx context.Context, link *models.ShareLink, params *UploadMediaParams) (*models.UploadMediaResult, error)
	// RegisterFotoshare 登记 360 拍照亭推送的外链资源，不经过对象存储
	RegisterFotoshare(ctx context.Context, link *models.ShareLink, req *models.FotoshareRequest) ([]models.UploadMediaResult, error)
}

// UploadMediaParams 单文件上传的入参
type UploadMediaParams struct {
	FileName    string
	Size        int64
	MimeType    string
	Kind        string // photo 或 video
	ContentHash string // 客户端算好的 MD5，可为空
	GuestName   string // 访客署名，可为空
	Reader      io.Reader
}

type UploadServiceDeps struct {
	MQClient *mq.RabbitMQClient
	Config   *config.Config
}

type uploadService struct {
	mediaRepo repositories.MediaRepository
	shareRepo repositories.ShareLinkRepository
	storage   storage.StorageService
	deps      UploadServiceDeps
}

var _ UploadService = (*uploadService)(nil)

func NewUploadService(
	mediaRepo repositories.MediaRepository,
	shareRepo repositories.ShareLinkRepository,
	ss storage.StorageService,
	deps UploadServiceDeps,
) UploadService {
	return &uploadService{
		mediaRepo: mediaRepo,
		shareRepo: shareRepo,
		storage:   ss,
		deps:      deps,
	}
}

func (s *uploadService) CheckDuplicates(ctx context.Context, link *models.ShareLink, req *models.CheckDuplicatesRequest) (*models.CheckDuplicatesResponse, error) {
	index, err := s.mediaRepo.ListNamesAndHashes(link.GalleryID)
	if err != nil {
		logger.Error("CheckDuplicates: failed to load gallery dup index",
			zap.Uint64("galleryID", link.GalleryID), zap.Error(err))
		return nil, xerr.NewCodeError(xerr.DatabaseErrorCode, fmt.Errorf("load dup index: %w", err))
	}

	// 已有哈希集合，供内容级查重
	knownHashes := make(map[string]struct{}, len(index))
	for _, h := range index {
		if h != "" {
			knownHashes[h] = struct{}{}
		}
	}

	resp := &models.CheckDuplicatesResponse{
		Duplicates: make([]string, 0, len(req.Filenames)),
		NewFiles:   make([]string, 0, len(req.Filenames)),
	}
	for i, name := range req.Filenames {
		_, nameHit := index[strings.ToLower(name)]
		hashHit := false
		if i < len(req.Hashes) && req.Hashes[i] != nil && *req.Hashes[i] != "" {
			_, hashHit = knownHashes[*req.Hashes[i]]
		}
		if nameHit || hashHit {
			resp.Duplicates = append(resp.Duplicates, name)
		} else {
			resp.NewFiles = append(resp.NewFiles, name)
		}
	}

	logger.Info("CheckDuplicates: batch partitioned",
		zap.Uint64("galleryID", link.GalleryID),
		zap.Int("total", len(req.Filenames)),
		zap.Int("duplicates", len(resp.Duplicates)))
	return resp, nil
}

func (s *uploadService) UploadMedia(ctx context.Context, link *models.ShareLink, params *UploadMediaParams) (*models.UploadMediaResult, error) {
	// 权威查重。预检只是 UX 辅助，这里才是最终裁决
	if err := s.rejectIfDuplicate(link.GalleryID, params.FileName, params.ContentHash); err != nil {
		return nil, err
	}

	gallery := link.Gallery
	if gallery == nil {
		return nil, xerr.NewCodeError(xerr.GalleryNotFoundCode, xerr.ErrGalleryNotFound)
	}

	mediaUUID := uuid.NewString()
	objectName := s.storage.GetMediaObjectName(gallery.UUID, mediaUUID, params.FileName)
	bucketName := s.bucketName()

	putResult, err := s.storage.PutObject(ctx, bucketName, objectName, params.Reader, params.Size, params.MimeType)
	if err != nil {
		logger.Error("UploadMedia: failed to put object",
			zap.String("object", objectName), zap.Error(err))
		return nil, xerr.NewCodeError(xerr.StorageErrorCode, fmt.Errorf("put object: %w", err))
	}

	item := &models.MediaItem{
		UUID:      mediaUUID,
		GalleryID: gallery.ID,
		Kind:      params.Kind,
		FileName:  params.FileName,
		Size:      uint64(putResult.Size),
		MimeType:  &params.MimeType,
		OssBucket: &bucketName,
		OssKey:    &putResult.Key,
		Status:    models.MediaStatusNormal,
	}
	if params.ContentHash != "" {
		item.MD5Hash = &params.ContentHash
	}
	if params.GuestName != "" {
		item.GuestName = &params.GuestName
	}

	if err := s.mediaRepo.Create(item); err != nil {
		// 数据库写入失败时回收已上传的对象，避免孤儿文件
		if rmErr := s.storage.RemoveObject(ctx, bucketName, putResult.Key); rmErr != nil {
			logger.Error("UploadMedia: failed to clean orphan object after DB error",
				zap.String("object", putResult.Key), zap.Error(rmErr))
		}
		return nil, xerr.NewCodeError(xerr.DatabaseErrorCode, fmt.Errorf("create media row: %w", err))
	}

	if err := s.shareRepo.IncrementUploadCount(link.ID, 1); err != nil {
		logger.Warn("UploadMedia: failed to bump share link upload count",
			zap.Uint64("linkID", link.ID), zap.Error(err))
	}

	s.publishIndexTask(item.ID)

	logger.Info("UploadMedia: media stored",
		zap.Uint64("mediaID", item.ID),
		zap.Uint64("galleryID", gallery.ID),
		zap.String("fileName", item.FileName),
		zap.String("kind", item.Kind))

	return &models.UploadMediaResult{
		ID:       item.ID,
		UUID:     item.UUID,
		FileName: item.FileName,
		URL:      s.storage.GetObjectURL(bucketName, putResult.Key),
		Kind:     item.Kind,
		Size:     item.Size,
	}, nil
}

func (s *uploadService) RegisterFotoshare(ctx context.Context, link *models.ShareLink, req *models.FotoshareRequest) ([]models.UploadMediaResult, error) {
	gallery := link.Gallery
	if gallery == nil {
		return nil, xerr.NewCodeError(xerr.GalleryNotFoundCode, xerr.ErrGalleryNotFound)
	}

	results := make([]models.UploadMediaResult, 0, len(req.Assets))
	for _, asset := range req.Assets {
		fileName := asset.Title
		if fileName == "" {
			fileName = asset.URL
		}

		externalURL := asset.URL
		item := &models.MediaItem{
			UUID:        uuid.NewString(),
			GalleryID:   gallery.ID,
			Kind:        models.MediaKindFotoshare,
			FileName:    fileName,
			ExternalURL: &externalURL,
			Status:      models.MediaStatusNormal,
		}
		if err := s.mediaRepo.Create(item); err != nil {
			// 单条失败不中断批次，与逐文件上传的语义一致
			logger.Error("RegisterFotoshare: failed to create item",
				zap.String("url", asset.URL), zap.Error(err))
			continue
		}
		s.publishIndexTask(item.ID)
		results = append(results, models.UploadMediaResult{
			ID:       item.ID,
			UUID:     item.UUID,
			FileName: item.FileName,
			URL:      externalURL,
			Kind:     item.Kind,
		})
	}

	if err := s.shareRepo.IncrementUploadCount(link.ID, uint32(len(results))); err != nil {
		logger.Warn("RegisterFotoshare: failed to bump share link upload count",
			zap.Uint64("linkID", link.ID), zap.Error(err))
	}
	return results, nil
}

// rejectIfDuplicate 按文件名（不区分大小写）与内容哈希做服务端权威查重
func (s *uploadService) rejectIfDuplicate(galleryID uint64, fileName, contentHash string) error {
	existing, err := s.mediaRepo.FindByGalleryAndFileName(galleryID, fileName)
	if err != nil && !xerr.Is(err, xerr.ErrMediaNotFound) {
		return xerr.NewCodeError(xerr.DatabaseErrorCode, fmt.Errorf("check duplicate by name: %w", err))
	}
	if existing != nil {
		return xerr.NewCodeError(xerr.DuplicateMediaCode, xerr.ErrDuplicateMedia)
	}

	if contentHash != "" {
		existing, err = s.mediaRepo.FindByGalleryAndHash(galleryID, contentHash)
		if err != nil && !xerr.Is(err, xerr.ErrMediaNotFound) {
			return xerr.NewCodeError(xerr.DatabaseErrorCode, fmt.Errorf("check duplicate by hash: %w", err))
		}
		if existing != nil {
			return xerr.NewCodeError(xerr.DuplicateMediaCode, xerr.ErrDuplicateMedia)
		}
	}
	return nil
}

// publishIndexTask 投递异步索引任务，失败只记日志，不影响上传结果
func (s *uploadService) publishIndexTask(mediaID uint64) {
	if s.deps.MQClient == nil {
		return
	}
	body, err := json.Marshal(models.IndexMediaTask{MediaID: mediaID})
	if err != nil {
		logger.Error("publishIndexTask: marshal failed", zap.Uint64("mediaID", mediaID), zap.Error(err))
		return
	}
	if err := s.deps.MQClient.Publish(mq.IndexQueue, body); err != nil {
		logger.Error("publishIndexTask: publish failed", zap.Uint64("mediaID", mediaID), zap.Error(err))
	}
}

func (s *uploadService) bucketName() string {
	switch s.deps.Config.Storage.Type {
	case "aliyun_oss":
		return s.deps.Config.AliyunOSS.BucketName
	default:
		return s.deps.Config.MinIO.BucketName
	}
}
