package setup

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/3Eeeecho/go-gallerycloud/internal/config"
	"github.com/3Eeeecho/go-gallerycloud/internal/pkg/logger"
	"github.com/3Eeeecho/go-gallerycloud/internal/pkg/storage"
)

// ensureBucket 检查并创建存储桶
func ensureBucket(svc storage.StorageService, bucketName string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	exists, err := svc.IsBucketExist(ctx, bucketName)
	if err != nil {
		return fmt.Errorf("检查存储桶存在性失败: %w", err)
	}
	if !exists {
		logger.Info("存储桶不存在，尝试创建...", zap.String("bucketName", bucketName))
		if err := svc.MakeBucket(ctx, bucketName); err != nil {
			return fmt.Errorf("创建存储桶失败: %w", err)
		}
		logger.Info("存储桶创建成功", zap.String("bucketName", bucketName))
	} else {
		logger.Info("存储桶已存在", zap.String("bucketName", bucketName))
	}
	return nil
}

func InitStorage(cfg *config.Config) storage.StorageService {
	mediaStorageService, err := storage.NewStorageService(cfg)
	if err != nil {
		logger.Fatal("初始化存储服务失败", zap.Error(err))
	}
	logger.Info("存储服务已初始化", zap.String("type", cfg.Storage.Type))

	bucketName := cfg.MinIO.BucketName
	if cfg.Storage.Type == "aliyun_oss" {
		bucketName = cfg.AliyunOSS.BucketName
	}
	if err := ensureBucket(mediaStorageService, bucketName); err != nil {
		logger.Fatal("初始化存储桶失败", zap.Error(err))
	}
	return mediaStorageService
}
