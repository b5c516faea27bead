package gallery

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/3Eeeecho/go-gallerycloud/internal/models"
	"github.com/3Eeeecho/go-gallerycloud/internal/pkg/logger"
	"github.com/elastic/go-elasticsearch/v8"
	"go.uber.org/zap"
)

// MediaSearchService 封装媒体元数据在 Elasticsearch 中的索引与检索
type MediaSearchService interface {
	IndexMedia(ctx context.Context, item *models.MediaItem) error
	RemoveMedia(ctx context.Context, mediaUUID string) error
	SearchByFileName(ctx context.Context, galleryID uint64, keyword string, limit int) ([]MediaSearchHit, error)
}

// MediaSearchHit 一条检索命中
type MediaSearchHit struct {
	MediaUUID string `json:"media_uuid"`
	FileName  string `json:"filename"`
	Kind      string `json:"kind"`
	GuestName string `json:"guest_name,omitempty"`
}

// mediaDocument 写入 ES 的文档结构
type mediaDocument struct {
	MediaUUID string `json:"media_uuid"`
	GalleryID uint64 `json:"gallery_id"`
	FileName  string `json:"filename"`
	Kind      string `json:"kind"`
	GuestName string `json:"guest_name,omitempty"`
	CreatedAt string `json:"created_at"`
}

type mediaSearchService struct {
	es    *elasticsearch.Client
	index string
}

var _ MediaSearchService = (*mediaSearchService)(nil)

// NewMediaSearchService 创建媒体搜索服务
func NewMediaSearchService(es *elasticsearch.Client, index string) MediaSearchService {
	return &mediaSearchService{es: es, index: index}
}

func (s *mediaSearchService) IndexMedia(ctx context.Context, item *models.MediaItem) error {
	doc := mediaDocument{
		MediaUUID: item.UUID,
		GalleryID: item.GalleryID,
		FileName:  item.FileName,
		Kind:      item.Kind,
		CreatedAt: item.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
	if item.GuestName != nil {
		doc.GuestName = *item.GuestName
	}

	body, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("序列化媒体文档失败: %w", err)
	}

	res, err := s.es.Index(
		s.index,
		bytes.NewReader(body),
		s.es.Index.WithContext(ctx),
		s.es.Index.WithDocumentID(item.UUID),
		s.es.Index.WithRefresh("false"),
	)
	if err != nil {
		return fmt.Errorf("写入 Elasticsearch 失败: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("elasticsearch 索引请求返回错误: %s", res.Status())
	}
	logger.Debug("Media indexed", zap.String("uuid", item.UUID), zap.String("filename", item.FileName))
	return nil
}

func (s *mediaSearchService) RemoveMedia(ctx context.Context, mediaUUID string) error {
	res, err := s.es.Delete(s.index, mediaUUID, s.es.Delete.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("从 Elasticsearch 删除文档失败: %w", err)
	}
	defer res.Body.Close()

	// 404 说明该媒体从未成功入索引，不视为错误
	if res.IsError() && res.StatusCode != 404 {
		return fmt.Errorf("elasticsearch 删除请求返回错误: %s", res.Status())
	}
	return nil
}

func (s *mediaSearchService) SearchByFileName(ctx context.Context, galleryID uint64, keyword string, limit int) ([]MediaSearchHit, error) {
	if limit <= 0 {
		limit = 20
	}

	query := map[string]any{
		"size": limit,
		"query": map[string]any{
			"bool": map[string]any{
				"filter": []map[string]any{
					{"term": map[string]any{"gallery_id": galleryID}},
				},
				"must": []map[string]any{
					{"match": map[string]any{"filename": map[string]any{
						"query":     keyword,
						"fuzziness": "AUTO",
					}}},
				},
			},
		},
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(query); err != nil {
		return nil, fmt.Errorf("构造查询体失败: %w", err)
	}

	res, err := s.es.Search(
		s.es.Search.WithContext(ctx),
		s.es.Search.WithIndex(s.index),
		s.es.Search.WithBody(&buf),
	)
	if err != nil {
		return nil, fmt.Errorf("elasticsearch 查询失败: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("elasticsearch 查询返回错误: %s", res.Status())
	}

	var parsed struct {
		Hits struct {
			Hits []struct {
				Source MediaSearchHit `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("解析查询结果失败: %w", err)
	}

	hits := make([]MediaSearchHit, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		hits = append(hits, h.Source)
	}
	logger.Debug("Media search completed",
		zap.Uint64("galleryID", galleryID),
		zap.String("keyword", keyword),
		zap.Int("hits", len(hits)))
	return hits, nil
}
