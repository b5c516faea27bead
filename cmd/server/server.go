package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/3Eeeecho/go-gallerycloud/internal/config"
	"github.com/3Eeeecho/go-gallerycloud/internal/pkg/logger"
	"github.com/3Eeeecho/go-gallerycloud/internal/pkg/mq"
	"github.com/3Eeeecho/go-gallerycloud/internal/pkg/mq/worker"
	"github.com/3Eeeecho/go-gallerycloud/internal/repositories"
	"github.com/3Eeeecho/go-gallerycloud/internal/router"
	"github.com/3Eeeecho/go-gallerycloud/internal/services/gallery"
	"github.com/3Eeeecho/go-gallerycloud/internal/setup"
	"github.com/3Eeeecho/go-gallerycloud/internal/themes"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Server struct {
	router         *gin.Engine
	httpServer     *http.Server
	db             *gorm.DB
	redisClient    *redis.Client
	rabbitMQClient *mq.RabbitMQClient
}

// NewServer 负责构建所有依赖
func NewServer(cfg *config.Config) (*Server, error) {
	// 主题表是封闭枚举，残缺直接拒绝启动
	if err := themes.ValidateRegistry(); err != nil {
		return nil, fmt.Errorf("主题表校验失败: %w", err)
	}

	// 初始化数据库连接
	setup.InitMySQL(&cfg.MySQL)

	// 初始化 Redis 连接
	setup.InitRedis(context.Background(), cfg)

	// 初始化 Elasticsearch
	setup.InitElasticsearchClient(&cfg.Elasticsearch)

	// 初始化 RabbitMQ
	rabbitMQClient, err := mq.NewRabbitMQClient(cfg.RabbitMQ.URL)
	if err != nil {
		logger.Fatal("Failed to connect to RabbitMQ", zap.Error(err))
	}

	// 初始化对象存储并确保桶存在
	ss := setup.InitStorage(cfg)

	// 后台 Worker 用的依赖
	mediaRepo := repositories.NewMediaRepository(setup.DB)
	searchService := gallery.NewMediaSearchService(setup.EsClient, cfg.Elasticsearch.Index)

	// 启动所有后台 Worker
	worker.StartAllWorkers(cfg, rabbitMQClient, mediaRepo, ss, searchService)

	// 初始化 Gin 引擎和注册路由
	// 将所有依赖传入 RouterConfig
	routerCfg := router.NewRouterConfig(setup.DB, setup.RedisClientGlobal, setup.EsClient, ss, rabbitMQClient, cfg)
	engine := router.InitRouter(routerCfg)

	addr := ":" + cfg.Server.Port
	logger.Info(fmt.Sprintf("Server is running on %s", addr))
	httpServer := &http.Server{
		Addr:    addr,
		Handler: engine,
	}

	return &Server{
		router:         engine,
		httpServer:     httpServer,
		db:             setup.DB,
		redisClient:    setup.RedisClientGlobal,
		rabbitMQClient: rabbitMQClient,
	}, nil
}

// Run 启动服务器和 Worker，并处理优雅关机
func (s *Server) Run(ctx context.Context, stopChan chan os.Signal) {
	// GORM v2 依赖连接池，通常不需要手动关闭。Redis和MQ需要
	defer s.rabbitMQClient.Close()
	defer s.redisClient.Close()

	// 启动 HTTP 服务器
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	// 等待停止信号
	<-stopChan
	logger.Info("Shutting down server...")

	// 优雅关机
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}
	logger.Info("Server exited gracefully")
}
