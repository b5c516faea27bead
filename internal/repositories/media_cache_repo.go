package repositories

import (
	"context"
	"errors"
	"math/rand"
	"time"

	"github.com/3Eeeecho/go-gallerycloud/internal/models"
	"github.com/3Eeeecho/go-gallerycloud/internal/pkg/cache"
	"github.com/3Eeeecho/go-gallerycloud/internal/pkg/logger"
	"go.uber.org/zap"
)

// cachedMediaRepository 在 MediaRepository 之上做 cache-aside 装饰
// 查重索引（文件名->哈希 映射）是热点：每个批次的 check-duplicates 都要读一次
type cachedMediaRepository struct {
	next  MediaRepository // 链上的下一层（数据库实现）
	cache *cache.RedisCache
}

// NewCachedMediaRepository 创建带 Redis 缓存的 MediaRepository
func NewCachedMediaRepository(next MediaRepository, c *cache.RedisCache) MediaRepository {
	return &cachedMediaRepository{next: next, cache: c}
}

// 过期时间上叠加随机抖动，避免同图库缓存同时失效
func jitteredTTL() time.Duration {
	return cache.CacheTTL + time.Duration(rand.Intn(300))*time.Second
}

func (r *cachedMediaRepository) Create(item *models.MediaItem) error {
	if err := r.next.Create(item); err != nil {
		return err
	}

	// 写入成功后删除查重索引，下次读取时重建
	ctx := context.Background()
	if err := r.cache.Del(ctx, cache.GenerateDupIndexKey(item.GalleryID)); err != nil {
		logger.Error("Create: Failed to invalidate dup index cache",
			zap.Uint64("galleryID", item.GalleryID), zap.Error(err))
	}
	return nil
}

func (r *cachedMediaRepository) FindByID(id uint64) (*models.MediaItem, error) {
	ctx := context.Background()
	key := cache.GenerateMediaMetadataKey(id)

	var cached models.MediaItem
	err := r.cache.Get(ctx, key, &cached)
	if err == nil {
		return &cached, nil
	}
	if !errors.Is(err, cache.ErrCacheMiss) {
		logger.Warn("FindByID: cache read failed, falling back to DB", zap.Uint64("id", id), zap.Error(err))
	}

	item, err := r.next.FindByID(id)
	if err != nil {
		return nil, err
	}
	if cacheErr := r.cache.Set(ctx, key, item, jitteredTTL()); cacheErr != nil {
		logger.Warn("FindByID: failed to populate cache", zap.Uint64("id", id), zap.Error(cacheErr))
	}
	return item, nil
}

func (r *cachedMediaRepository) FindByUUID(uuid string) (*models.MediaItem, error) {
	return r.next.FindByUUID(uuid)
}

func (r *cachedMediaRepository) FindByGalleryID(galleryID uint64, sectionID *uint64, page, pageSize int) ([]models.MediaItem, int64, error) {
	return r.next.FindByGalleryID(galleryID, sectionID, page, pageSize)
}

func (r *cachedMediaRepository) FindByGalleryAndFileName(galleryID uint64, fileName string) (*models.MediaItem, error) {
	return r.next.FindByGalleryAndFileName(galleryID, fileName)
}

func (r *cachedMediaRepository) FindByGalleryAndHash(galleryID uint64, md5Hash string) (*models.MediaItem, error) {
	return r.next.FindByGalleryAndHash(galleryID, md5Hash)
}

func (r *cachedMediaRepository) ListNamesAndHashes(galleryID uint64) (map[string]string, error) {
	ctx := context.Background()
	key := cache.GenerateDupIndexKey(galleryID)

	var cached map[string]string
	err := r.cache.Get(ctx, key, &cached)
	if err == nil {
		return cached, nil
	}
	if !errors.Is(err, cache.ErrCacheMiss) {
		logger.Warn("ListNamesAndHashes: cache read failed, falling back to DB",
			zap.Uint64("galleryID", galleryID), zap.Error(err))
	}

	index, err := r.next.ListNamesAndHashes(galleryID)
	if err != nil {
		return nil, err
	}
	if cacheErr := r.cache.Set(ctx, key, index, jitteredTTL()); cacheErr != nil {
		logger.Warn("ListNamesAndHashes: failed to populate cache",
			zap.Uint64("galleryID", galleryID), zap.Error(cacheErr))
	}
	return index, nil
}

func (r *cachedMediaRepository) Update(item *models.MediaItem) error {
	if err := r.next.Update(item); err != nil {
		return err
	}
	ctx := context.Background()
	if err := r.cache.Del(ctx,
		cache.GenerateMediaMetadataKey(item.ID),
		cache.GenerateDupIndexKey(item.GalleryID)); err != nil {
		logger.Error("Update: Failed to invalidate media caches", zap.Uint64("id", item.ID), zap.Error(err))
	}
	return nil
}

func (r *cachedMediaRepository) SoftDelete(id uint64) error {
	return r.invalidateAfter(id, r.next.SoftDelete)
}

func (r *cachedMediaRepository) MarkDeleting(id uint64) error {
	return r.invalidateAfter(id, r.next.MarkDeleting)
}

func (r *cachedMediaRepository) invalidateAfter(id uint64, op func(uint64) error) error {
	// 失效查重索引前需要知道 galleryID，先读一次记录
	item, err := r.next.FindByID(id)
	if err != nil {
		return err
	}
	if err := op(id); err != nil {
		return err
	}
	ctx := context.Background()
	if cacheErr := r.cache.Del(ctx,
		cache.GenerateMediaMetadataKey(id),
		cache.GenerateDupIndexKey(item.GalleryID)); cacheErr != nil {
		logger.Error("Failed to invalidate media caches after delete", zap.Uint64("id", id), zap.Error(cacheErr))
	}
	return nil
}
