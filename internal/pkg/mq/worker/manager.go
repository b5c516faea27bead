package worker

import (
	"github.com/3Eeeecho/go-gallerycloud/internal/config"
	"github.com/3Eeeecho/go-gallerycloud/internal/pkg/logger"
	"github.com/3Eeeecho/go-gallerycloud/internal/pkg/mq"
	"github.com/3Eeeecho/go-gallerycloud/internal/pkg/storage"
	"github.com/3Eeeecho/go-gallerycloud/internal/repositories"
	"github.com/3Eeeecho/go-gallerycloud/internal/services/gallery"
)

// StartAllWorkers 启动应用中所有定义的后台 Worker
func StartAllWorkers(
	cfg *config.Config,
	mqClient *mq.RabbitMQClient,
	mediaRepo repositories.MediaRepository,
	storageService storage.StorageService,
	search gallery.MediaSearchService,
) {
	// --- 启动媒体索引 Worker ---
	indexWorker := NewIndexWorker(mqClient, mediaRepo, search)
	go indexWorker.Start()

	// --- 启动媒体删除 Worker ---
	deleteWorker := NewDeleteWorker(mqClient, mediaRepo, storageService, search, cfg)
	go deleteWorker.Start()

	logger.Info("所有后台工作进程已启动。")
}
