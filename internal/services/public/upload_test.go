package public

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/3Eeeecho/go-gallerycloud/internal/config"
	"github.com/3Eeeecho/go-gallerycloud/internal/models"
	"github.com/3Eeeecho/go-gallerycloud/internal/pkg/storage"
	"github.com/3Eeeecho/go-gallerycloud/internal/pkg/xerr"
	"github.com/3Eeeecho/go-gallerycloud/internal/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeMediaRepo 只实现测试用到的方法，其余走嵌入接口的 panic
type fakeMediaRepo struct {
	repositories.MediaRepository

	index   map[string]string // 小写文件名 -> 哈希
	byName  map[string]*models.MediaItem
	byHash  map[string]*models.MediaItem
	created []*models.MediaItem
}

func (f *fakeMediaRepo) ListNamesAndHashes(galleryID uint64) (map[string]string, error) {
	return f.index, nil
}

func (f *fakeMediaRepo) FindByGalleryAndFileName(galleryID uint64, fileName string) (*models.MediaItem, error) {
	if item, ok := f.byName[fileName]; ok {
		return item, nil
	}
	return nil, xerr.ErrMediaNotFound
}

func (f *fakeMediaRepo) FindByGalleryAndHash(galleryID uint64, hash string) (*models.MediaItem, error) {
	if item, ok := f.byHash[hash]; ok {
		return item, nil
	}
	return nil, xerr.ErrMediaNotFound
}

func (f *fakeMediaRepo) Create(item *models.MediaItem) error {
	item.ID = uint64(len(f.created) + 1)
	f.created = append(f.created, item)
	return nil
}

type fakeShareRepo struct {
	repositories.ShareLinkRepository

	bumped uint32
}

func (f *fakeShareRepo) IncrementUploadCount(id uint64, delta uint32) error {
	f.bumped += delta
	return nil
}

type fakeStorage struct {
	storage.StorageService

	putCalls int
	removed  []string
}

func (f *fakeStorage) GetMediaObjectName(galleryUUID, mediaUUID, fileName string) string {
	return "galleries/" + galleryUUID + "/" + mediaUUID + "/" + fileName
}

func (f *fakeStorage) PutObject(ctx context.Context, bucket, object string, r io.Reader, size int64, contentType string) (storage.PutObjectResult, error) {
	f.putCalls++
	n, _ := io.Copy(io.Discard, r)
	return storage.PutObjectResult{Bucket: bucket, Key: object, Size: n}, nil
}

func (f *fakeStorage) RemoveObject(ctx context.Context, bucket, object string) error {
	f.removed = append(f.removed, object)
	return nil
}

func (f *fakeStorage) GetObjectURL(bucket, object string) string {
	return "https://cdn.example.com/" + bucket + "/" + object
}

func testLink() *models.ShareLink {
	return &models.ShareLink{
		ID:        1,
		GalleryID: 42,
		ShareCode: "code123",
		Role:      models.ShareRoleGuest,
		Status:    models.ShareLinkStatusActive,
		Gallery: &models.Gallery{
			ID:     42,
			UUID:   "gallery-uuid",
			Status: models.GalleryStatusNormal,
		},
	}
}

func testConfig() *config.Config {
	return &config.Config{
		Storage: config.StorageConfig{Type: "minio"},
		MinIO:   config.MinIOConfig{BucketName: "gallery-media"},
	}
}

func newTestService(media *fakeMediaRepo, shareRepo *fakeShareRepo, st *fakeStorage) UploadService {
	return NewUploadService(media, shareRepo, st, UploadServiceDeps{Config: testConfig()})
}

func strPtr(s string) *string { return &s }

func TestCheckDuplicatesPartitions(t *testing.T) {
	media := &fakeMediaRepo{index: map[string]string{
		"wedding-01.jpg": "aaa111",
		"wedding-02.jpg": "bbb222",
	}}
	svc := newTestService(media, &fakeShareRepo{}, &fakeStorage{})

	req := &models.CheckDuplicatesRequest{
		// 大小写不同也要命中
		Filenames: []string{"WEDDING-01.JPG", "reception-01.jpg", "other.jpg"},
		Hashes:    []*string{nil, strPtr("bbb222"), nil},
	}
	resp, err := svc.CheckDuplicates(context.Background(), testLink(), req)
	require.NoError(t, err)

	// 文件名命中 + 哈希命中都算重复
	assert.Equal(t, []string{"WEDDING-01.JPG", "reception-01.jpg"}, resp.Duplicates)
	assert.Equal(t, []string{"other.jpg"}, resp.NewFiles)
}

func TestCheckDuplicatesEmptyGallery(t *testing.T) {
	media := &fakeMediaRepo{index: map[string]string{}}
	svc := newTestService(media, &fakeShareRepo{}, &fakeStorage{})

	resp, err := svc.CheckDuplicates(context.Background(), testLink(), &models.CheckDuplicatesRequest{
		Filenames: []string{"a.jpg", "b.jpg"},
	})
	require.NoError(t, err)
	assert.Empty(t, resp.Duplicates)
	assert.Equal(t, []string{"a.jpg", "b.jpg"}, resp.NewFiles)
}

func TestUploadMediaStoresAndBumpsCount(t *testing.T) {
	media := &fakeMediaRepo{}
	shareRepo := &fakeShareRepo{}
	st := &fakeStorage{}
	svc := newTestService(media, shareRepo, st)

	content := []byte("jpeg data")
	result, err := svc.UploadMedia(context.Background(), testLink(), &UploadMediaParams{
		FileName:    "photo.jpg",
		Size:        int64(len(content)),
		MimeType:    "image/jpeg",
		Kind:        models.MediaKindPhoto,
		ContentHash: "cafe01",
		GuestName:   "小王",
		Reader:      bytes.NewReader(content),
	})
	require.NoError(t, err)

	assert.Equal(t, 1, st.putCalls)
	assert.Equal(t, uint32(1), shareRepo.bumped)
	require.Len(t, media.created, 1)

	item := media.created[0]
	assert.Equal(t, "photo.jpg", item.FileName)
	assert.Equal(t, models.MediaKindPhoto, item.Kind)
	require.NotNil(t, item.MD5Hash)
	assert.Equal(t, "cafe01", *item.MD5Hash)
	require.NotNil(t, item.GuestName)
	assert.Equal(t, "小王", *item.GuestName)

	assert.Equal(t, "photo.jpg", result.FileName)
	assert.Contains(t, result.URL, "gallery-media")
}

func TestUploadMediaRejectsDuplicateName(t *testing.T) {
	media := &fakeMediaRepo{
		byName: map[string]*models.MediaItem{"photo.jpg": {ID: 9}},
	}
	st := &fakeStorage{}
	svc := newTestService(media, &fakeShareRepo{}, st)

	_, err := svc.UploadMedia(context.Background(), testLink(), &UploadMediaParams{
		FileName: "photo.jpg",
		Size:     4,
		MimeType: "image/jpeg",
		Kind:     models.MediaKindPhoto,
		Reader:   bytes.NewReader([]byte("data")),
	})
	require.Error(t, err)
	assert.Equal(t, xerr.DuplicateMediaCode, xerr.CodeOf(err))
	// 权威查重命中时任何对象都不应写入存储
	assert.Equal(t, 0, st.putCalls)
}

func TestUploadMediaRejectsDuplicateHash(t *testing.T) {
	media := &fakeMediaRepo{
		byHash: map[string]*models.MediaItem{"cafe01": {ID: 9}},
	}
	svc := newTestService(media, &fakeShareRepo{}, &fakeStorage{})

	_, err := svc.UploadMedia(context.Background(), testLink(), &UploadMediaParams{
		FileName:    "renamed.jpg",
		Size:        4,
		MimeType:    "image/jpeg",
		Kind:        models.MediaKindPhoto,
		ContentHash: "cafe01",
		Reader:      bytes.NewReader([]byte("data")),
	})
	require.Error(t, err)
	assert.Equal(t, xerr.DuplicateMediaCode, xerr.CodeOf(err))
}

func TestRegisterFotoshareCreatesExternalItems(t *testing.T) {
	media := &fakeMediaRepo{}
	shareRepo := &fakeShareRepo{}
	svc := newTestService(media, shareRepo, &fakeStorage{})

	results, err := svc.RegisterFotoshare(context.Background(), testLink(), &models.FotoshareRequest{
		Assets: []models.FotoshareAsset{
			{URL: "https://booth.example.com/a.mp4", Title: "spin-1"},
			{URL: "https://booth.example.com/b.mp4"},
		},
	})
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, models.MediaKindFotoshare, media.created[0].Kind)
	require.NotNil(t, media.created[0].ExternalURL)
	assert.Equal(t, "https://booth.example.com/a.mp4", *media.created[0].ExternalURL)
	// 没有标题时回退到 URL 作为文件名
	assert.Equal(t, "https://booth.example.com/b.mp4", media.created[1].FileName)
	assert.Equal(t, uint32(2), shareRepo.bumped)
}
