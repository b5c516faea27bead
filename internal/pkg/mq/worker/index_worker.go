package worker

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/3Eeeecho/go-gallerycloud/internal/models"
	"github.com/3Eeeecho/go-gallerycloud/internal/pkg/logger"
	"github.com/3Eeeecho/go-gallerycloud/internal/pkg/mq"
	"github.com/3Eeeecho/go-gallerycloud/internal/pkg/xerr"
	"github.com/3Eeeecho/go-gallerycloud/internal/repositories"
	"github.com/3Eeeecho/go-gallerycloud/internal/services/gallery"
	"github.com/streadway/amqp"
	"go.uber.org/zap"
)

// IndexWorker 消费上传服务投递的索引任务，把媒体元数据写入 Elasticsearch
// 索引失败不影响已完成的上传，消息重回队列重试
type IndexWorker struct {
	mqClient  *mq.RabbitMQClient
	mediaRepo repositories.MediaRepository
	search    gallery.MediaSearchService
}

func NewIndexWorker(
	mqClient *mq.RabbitMQClient,
	mediaRepo repositories.MediaRepository,
	search gallery.MediaSearchService,
) *IndexWorker {
	return &IndexWorker{
		mqClient:  mqClient,
		mediaRepo: mediaRepo,
		search:    search,
	}
}

func (w *IndexWorker) Start() {
	// 队列在建连时已声明，这里只挂消费者
	if err := w.mqClient.Consume(mq.IndexQueue, w.HandleIndexTask); err != nil {
		logger.Fatal("启动索引消费者失败", zap.Error(err))
	}
}

func (w *IndexWorker) HandleIndexTask(msg amqp.Delivery) {
	var task models.IndexMediaTask
	if err := json.Unmarshal(msg.Body, &task); err != nil {
		logger.Error("Failed to unmarshal index task", zap.Error(err))
		_ = msg.Nack(false, false) // 解析失败,直接抛弃
		return
	}

	logger.Info("Received media index task", zap.Uint64("mediaID", task.MediaID))

	ctx := context.Background()
	item, err := w.mediaRepo.FindByID(task.MediaID)
	if err != nil {
		if errors.Is(err, xerr.ErrMediaNotFound) {
			// 媒体在索引前已被删除，任务作废
			logger.Warn("Media gone before indexing, dropping task", zap.Uint64("mediaID", task.MediaID))
			_ = msg.Ack(false)
			return
		}
		logger.Error("Failed to load media for indexing", zap.Uint64("mediaID", task.MediaID), zap.Error(err))
		_ = msg.Nack(false, true) // 数据库暂时不可用,重回队列
		return
	}

	if err := w.search.IndexMedia(ctx, item); err != nil {
		logger.Error("Failed to index media", zap.Uint64("mediaID", task.MediaID), zap.Error(err))
		_ = msg.Nack(false, true)
		return
	}

	_ = msg.Ack(false)
}
