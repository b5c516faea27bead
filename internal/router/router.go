package router

import (
	"net/http"

	_ "github.com/3Eeeecho/go-gallerycloud/docs"
	"github.com/3Eeeecho/go-gallerycloud/internal/config"
	"github.com/3Eeeecho/go-gallerycloud/internal/handlers"
	"github.com/3Eeeecho/go-gallerycloud/internal/middlewares"
	"github.com/3Eeeecho/go-gallerycloud/internal/models"
	"github.com/3Eeeecho/go-gallerycloud/internal/pkg/cache"
	"github.com/3Eeeecho/go-gallerycloud/internal/pkg/mq"
	"github.com/3Eeeecho/go-gallerycloud/internal/pkg/storage"
	"github.com/3Eeeecho/go-gallerycloud/internal/pkg/xerr"
	"github.com/3Eeeecho/go-gallerycloud/internal/repositories"
	"github.com/3Eeeecho/go-gallerycloud/internal/services/admin"
	"github.com/3Eeeecho/go-gallerycloud/internal/services/gallery"
	"github.com/3Eeeecho/go-gallerycloud/internal/services/public"
	"github.com/3Eeeecho/go-gallerycloud/internal/services/share"
	"github.com/gin-gonic/gin"
	elasticsearch "github.com/elastic/go-elasticsearch/v8"
	"github.com/go-redis/redis/v8"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"
)

// RouterConfig 包含初始化路由所需的所有依赖
type RouterConfig struct {
	db             *gorm.DB
	redisClient    *redis.Client
	esClient       *elasticsearch.Client
	storageService storage.StorageService
	mqClient       *mq.RabbitMQClient
	cfg            *config.Config
}

func NewRouterConfig(
	db *gorm.DB,
	redisClient *redis.Client,
	esClient *elasticsearch.Client,
	storageService storage.StorageService,
	mqClient *mq.RabbitMQClient,
	cfg *config.Config,
) *RouterConfig {
	return &RouterConfig{
		db:             db,
		redisClient:    redisClient,
		esClient:       esClient,
		storageService: storageService,
		mqClient:       mqClient,
		cfg:            cfg,
	}
}

func InitRouter(routerCfg *RouterConfig) *gin.Engine {
	gin.SetMode(gin.DebugMode)

	router := gin.Default() // 使用默认的 Gin 引擎，包含 Logger 和 Recovery 中间件

	// Health Check 路由
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// 共享依赖
	cacheService := cache.NewRedisCache(routerCfg.redisClient)
	userRepo := repositories.NewUserRepository(routerCfg.db)
	galleryRepo := repositories.NewGalleryRepository(routerCfg.db)
	mediaRepo := repositories.NewCachedMediaRepository(repositories.NewMediaRepository(routerCfg.db), cacheService)
	shareLinkRepo := repositories.NewShareLinkRepository(routerCfg.db)

	searchService := gallery.NewMediaSearchService(routerCfg.esClient, routerCfg.cfg.Elasticsearch.Index)
	authService := admin.NewAuthService(userRepo, &routerCfg.cfg.JWT)
	userService := admin.NewUserService(userRepo, galleryRepo)
	galleryService := gallery.NewGalleryService(galleryRepo, mediaRepo, routerCfg.storageService, searchService, routerCfg.mqClient, routerCfg.cfg)
	shareService := share.NewShareService(shareLinkRepo, galleryRepo)
	uploadService := public.NewUploadService(mediaRepo, shareLinkRepo, routerCfg.storageService, public.UploadServiceDeps{
		MQClient: routerCfg.mqClient,
		Config:   routerCfg.cfg,
	})

	// 公开上传路由，通过分享链接码鉴权，无需登录
	publicGroup := router.Group("/api/public")
	{
		guestGroup := publicGroup.Group("/gallery/:share_link")
		guestGroup.Use(middlewares.ShareLinkMiddleware(shareService, models.ShareRoleGuest, models.ShareRoleContributor))
		{
			guestGroup.POST("/check-duplicates", handlers.CheckDuplicatesHandler(uploadService))
			guestGroup.POST("/upload", handlers.UploadPhotoHandler(uploadService, routerCfg.cfg))
		}

		contributorGroup := publicGroup.Group("/contributor/:share_link")
		{
			videoGroup := contributorGroup.Group("/")
			videoGroup.Use(middlewares.ShareLinkMiddleware(shareService, models.ShareRoleContributor))
			videoGroup.POST("/upload", handlers.UploadPhotoHandler(uploadService, routerCfg.cfg))
			videoGroup.POST("/video", handlers.UploadVideoHandler(uploadService, routerCfg.cfg))

			boothGroup := contributorGroup.Group("/")
			boothGroup.Use(middlewares.ShareLinkMiddleware(shareService, models.ShareRoleBooth))
			boothGroup.POST("/fotoshare", handlers.RegisterFotoshareHandler(uploadService))
		}
	}

	v1 := router.Group("/api/v1")
	{
		// 认证相关路由 (无需认证)
		authGroup := v1.Group("/auth")
		{
			authGroup.POST("/register", handlers.Register(authService))
			authGroup.POST("/login", handlers.Login(authService))
		}

		// 主题列表是公开的，前端选主题时用
		v1.GET("/themes", handlers.ListThemesHandler())

		// 需要认证的路由组
		authenticated := v1.Group("/")
		authenticated.Use(middlewares.AuthMiddleware(routerCfg.cfg))

		authenticated.POST("/auth/refresh", handlers.RefreshToken(authService))

		userGroup := authenticated.Group("/users")
		{
			userGroup.GET("/me", handlers.GetProfileHandler(userService))
		}

		// 图库相关路由
		galleryGroup := authenticated.Group("/galleries")
		{
			galleryGroup.POST("/", handlers.CreateGalleryHandler(galleryService))
			galleryGroup.GET("/", handlers.ListGalleriesHandler(galleryService))
			galleryGroup.GET("/:gallery_id", handlers.GetGalleryHandler(galleryService))
			galleryGroup.PUT("/:gallery_id/theme", handlers.UpdateThemeHandler(galleryService))
			galleryGroup.DELETE("/:gallery_id", handlers.DeleteGalleryHandler(galleryService))

			galleryGroup.POST("/:gallery_id/sections", handlers.CreateSectionHandler(galleryService))
			galleryGroup.DELETE("/:gallery_id/sections/:section_id", handlers.DeleteSectionHandler(galleryService))

			galleryGroup.GET("/:gallery_id/media", handlers.ListMediaHandler(galleryService))
			galleryGroup.GET("/:gallery_id/media/search", handlers.SearchMediaHandler(galleryService))
			galleryGroup.DELETE("/:gallery_id/media/:media_id", handlers.DeleteMediaHandler(galleryService))
			galleryGroup.GET("/:gallery_id/media/:media_id/download", handlers.MediaDownloadURLHandler(galleryService))
			galleryGroup.GET("/:gallery_id/export", handlers.ExportGalleryHandler(galleryService))

			galleryGroup.POST("/:gallery_id/share-links", handlers.CreateShareLinkHandler(shareService))
			galleryGroup.GET("/:gallery_id/share-links", handlers.ListShareLinksHandler(shareService))
			galleryGroup.DELETE("/:gallery_id/share-links/:link_id", handlers.RevokeShareLinkHandler(shareService))
		}

		// 平台管理路由，仅管理员
		adminGroup := authenticated.Group("/admin")
		adminGroup.Use(middlewares.AdminOnly())
		{
			adminGroup.GET("/users", handlers.ListUsersHandler(userService))
			adminGroup.PUT("/galleries/:gallery_id/premium", handlers.SetGalleryPremiumHandler(userService))
			adminGroup.PUT("/galleries/:gallery_id/guest-upload", handlers.SetGuestUploadHandler(userService))
		}
	}

	router.NoRoute(func(c *gin.Context) {
		xerr.Error(c, http.StatusNotFound, http.StatusNotFound, "Route not found")
	})

	return router
}
