package worker

import (
	"context"
	"encoding/json"

	"github.com/3Eeeecho/go-gallerycloud/internal/config"
	"github.com/3Eeeecho/go-gallerycloud/internal/models"
	"github.com/3Eeeecho/go-gallerycloud/internal/pkg/logger"
	"github.com/3Eeeecho/go-gallerycloud/internal/pkg/mq"
	"github.com/3Eeeecho/go-gallerycloud/internal/pkg/storage"
	"github.com/3Eeeecho/go-gallerycloud/internal/repositories"
	"github.com/3Eeeecho/go-gallerycloud/internal/services/gallery"
	"github.com/streadway/amqp"
	"go.uber.org/zap"
)

// DeleteWorker 消费异步删除任务，清理对象存储与搜索索引
type DeleteWorker struct {
	mqClient       *mq.RabbitMQClient
	mediaRepo      repositories.MediaRepository
	storageService storage.StorageService
	search         gallery.MediaSearchService
	cfg            *config.Config
}

func NewDeleteWorker(
	mqClient *mq.RabbitMQClient,
	mediaRepo repositories.MediaRepository,
	storageService storage.StorageService,
	search gallery.MediaSearchService,
	cfg *config.Config,
) *DeleteWorker {
	return &DeleteWorker{
		mqClient:       mqClient,
		mediaRepo:      mediaRepo,
		storageService: storageService,
		search:         search,
		cfg:            cfg,
	}
}

func (w *DeleteWorker) Start() {
	// 队列在建连时已声明，这里只挂消费者
	if err := w.mqClient.Consume(mq.DeleteQueue, w.HandleDeleteTask); err != nil {
		logger.Fatal("启动删除消费者失败", zap.Error(err))
	}
}

func (w *DeleteWorker) HandleDeleteTask(msg amqp.Delivery) {
	var task models.DeleteMediaTask
	if err := json.Unmarshal(msg.Body, &task); err != nil {
		logger.Error("Failed to unmarshal delete task", zap.Error(err))
		_ = msg.Nack(false, false) // 解析失败,直接抛弃
		return
	}

	logger.Info("Received media deletion task", zap.Uint64("mediaID", task.MediaID))

	ctx := context.Background()

	// 1. 删对象存储。fotoshare 外链记录没有对象，OssKey 为空
	if task.OssKey != "" {
		if err := w.storageService.RemoveObject(ctx, task.OssBucket, task.OssKey); err != nil {
			logger.Error("Failed to remove object from storage",
				zap.Uint64("mediaID", task.MediaID), zap.String("ossKey", task.OssKey), zap.Error(err))
			_ = msg.Nack(false, true) // 存储暂时不可用,重回队列
			return
		}
	}

	// 2. 清理搜索索引，找不到文档不算失败
	item, err := w.mediaRepo.FindByID(task.MediaID)
	if err == nil {
		if esErr := w.search.RemoveMedia(ctx, item.UUID); esErr != nil {
			logger.Warn("Failed to remove media from search index",
				zap.Uint64("mediaID", task.MediaID), zap.Error(esErr))
		}
	}

	// 3. 数据库软删除收尾
	if err := w.mediaRepo.SoftDelete(task.MediaID); err != nil {
		logger.Error("Failed to soft-delete media row", zap.Uint64("mediaID", task.MediaID), zap.Error(err))
		_ = msg.Nack(false, true)
		return
	}

	_ = msg.Ack(false)
}
