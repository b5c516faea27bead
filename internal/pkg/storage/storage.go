package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/3Eeeecho/go-gallerycloud/internal/config"
)

// StorageService 定义了通用的媒体对象存储操作接口
// 访客上传是单请求单文件，不走分块上传
type StorageService interface {
	// 上传文件到指定存储桶，返回存储对象的信息或错误
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, contentType string) (PutObjectResult, error)
	// 从指定存储桶下载文件，返回一个读取器和对象信息
	GetObject(ctx context.Context, bucketName, objectName string) (GetObjectResult, error)
	// 从指定存储桶删除文件
	RemoveObject(ctx context.Context, bucketName, objectName string) error
	// 检查存储桶是否存在
	IsBucketExist(ctx context.Context, bucketName string) (bool, error)
	// 创建存储桶
	MakeBucket(ctx context.Context, bucketName string) error
	// 获取对象的公开访问URL（如果支持）
	GetObjectURL(bucketName, objectName string) string
	// 为下载生成预签名URL
	PreSignGetObjectURL(ctx context.Context, bucketName, objectName string, expiry time.Duration) (string, error)

	// GetMediaObjectName 生成媒体对象在存储中的路径
	GetMediaObjectName(galleryUUID, mediaUUID, fileName string) string
}

type PutObjectResult struct {
	Bucket string
	Key    string
	Size   int64
	ETag   string // 对象哈希值
}

type GetObjectResult struct {
	Reader   io.ReadCloser // 文件内容读取器，需要在使用后关闭
	Size     int64
	MimeType string
}

func NewStorageService(cfg *config.Config) (StorageService, error) {
	switch cfg.Storage.Type {
	case "minio":
		return NewMinIOStorageService(&cfg.MinIO)
	case "aliyun_oss":
		return NewAliyunOSSStorageService(&cfg.AliyunOSS)
	default:
		return nil, errors.New("invalid storageType")
	}
}

// mediaObjectName 统一的对象命名规则
// 路径含媒体 UUID，同名文件不会在存储层互相覆盖
func mediaObjectName(galleryUUID, mediaUUID, fileName string) string {
	return fmt.Sprintf("galleries/%s/%s/%s", galleryUUID, mediaUUID, fileName)
}
