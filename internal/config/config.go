package config

import (
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config 结构体包含所有应用的配置
type Config struct {
	Server        ServerConfig        `mapstructure:"server"` // `mapstructure` 标签用于Viper绑定结构体
	MySQL         MySQLConfig         `mapstructure:"mysql"`
	Redis         RedisConfig         `mapstructure:"redis"`
	MinIO         MinIOConfig         `mapstructure:"minio"`
	AliyunOSS     AliyunOSSConfig     `mapstructure:"aliyun_oss"`
	RabbitMQ      RabbitMQConfig      `mapstructure:"rabbitmq"`
	JWT           JWTConfig           `mapstructure:"jwt"`
	Storage       StorageConfig       `mapstructure:"storageconfig"`
	Upload        UploadConfig        `mapstructure:"upload"`
	Log           LogConfig           `mapstructure:"log"`
	Elasticsearch ElasticsearchConfig `mapstructure:"elasticsearch"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Port string `mapstructure:"port"`
}

// MySQLConfig 数据库配置
type MySQLConfig struct {
	DSN string `mapstructure:"dsn"`
}

// RedisConfig Redis配置
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// MinIOConfig MinIO配置
type MinIOConfig struct {
	Endpoint        string `mapstructure:"endpoint"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	UseSSL          bool   `mapstructure:"use_ssl"`
	BucketName      string `mapstructure:"bucket_name"`
}

type AliyunOSSConfig struct {
	Endpoint        string `mapstructure:"endpoint"` // 例如: oss-cn-hangzhou.aliyuncs.com
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	BucketName      string `mapstructure:"bucket_name"`
	UseSSL          bool   `mapstructure:"use_ssl"`
}

// RabbitMQConfig RabbitMQ配置
type RabbitMQConfig struct {
	URL string `mapstructure:"url"`
}

// JWTConfig JWT配置
type JWTConfig struct {
	SecretKey          string        `mapstructure:"secret_key"`
	ExpiresIn          time.Duration `mapstructure:"expires_in"`
	RefreshExpireHours time.Duration `mapstructure:"refresh_expire_hours"`
	Issuer             string        `mapstructure:"issuer"`
}

type StorageConfig struct {
	Type               string `mapstructure:"type"`                 // minio 或 aliyun_oss
	PresignedURLExpiry int    `mapstructure:"presigned_url_expiry"` // 预签名URL有效期（分钟）
}

// UploadConfig 上传管线相关的限制
// 照片走 MaxFileSize，视频接口走 MaxVideoSize，lite 模式批次上限为 LiteBatchCap
type UploadConfig struct {
	MaxFileSize  int64 `mapstructure:"max_file_size"`  // 单个照片大小上限（字节）
	MaxVideoSize int64 `mapstructure:"max_video_size"` // 单个视频大小上限（字节）
	LiteBatchCap int   `mapstructure:"lite_batch_cap"` // lite 模式单批文件数上限
}

// zap日志配置
type LogConfig struct {
	OutputPath string `mapstructure:"output_path"`
	ErrorPath  string `mapstructure:"error_path"`
	Level      string `mapstructure:"level"`
}

// ElasticsearchConfig 定义 Elasticsearch 连接配置
type ElasticsearchConfig struct {
	Addresses []string `mapstructure:"addresses"`
	Username  string   `mapstructure:"username"`
	Password  string   `mapstructure:"password"`
	Index     string   `mapstructure:"index"` // 媒体索引名
}

const (
	DefaultMaxFileSize  = 50 << 20  // 50MB
	DefaultMaxVideoSize = 500 << 20 // 500MB
	DefaultLiteBatchCap = 10
)

var AppConfig *Config // 全局应用配置实例

// LoadConfig 加载配置
func LoadConfig() (*Config, error) {
	viper.SetConfigName("config")                // 配置文件名 (不带扩展名)
	viper.SetConfigType("yaml")                  // 配置文件类型
	viper.AddConfigPath(".")                     // 在当前目录查找配置文件
	viper.AddConfigPath("./configs")             // 也可以添加其他路径
	viper.AddConfigPath("/etc/go-gallerycloud/") // 生产环境常见路径

	// 读取环境变量，例如 GO_GALLERY_CLOUD_SERVER_PORT 对应 server.port
	viper.SetEnvPrefix("GO_GALLERY_CLOUD")
	viper.AutomaticEnv()

	// 替换环境变量中的点为下划线，确保 MYSQL_DSN 能映射到 mysql.dsn
	replacer := strings.NewReplacer(".", "_")
	viper.SetEnvKeyReplacer(replacer)

	// 上传限制默认值，配置文件缺省时生效
	viper.SetDefault("upload.max_file_size", DefaultMaxFileSize)
	viper.SetDefault("upload.max_video_size", DefaultMaxVideoSize)
	viper.SetDefault("upload.lite_batch_cap", DefaultLiteBatchCap)
	viper.SetDefault("elasticsearch.index", "gallery-media")

	// 读取配置文件
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// 配置文件未找到，但这不是致命错误，因为我们可以依赖环境变量或默认值
			log.Println("Warning: config file not found, using environment variables or default values.")
			return nil, err
		} else {
			log.Fatalf("Fatal error reading config file: %s \n", err)
			return nil, err
		}
	}

	// 将读取到的配置绑定到结构体
	AppConfig = &Config{}
	if err := viper.Unmarshal(AppConfig); err != nil {
		log.Fatalf("Fatal error unmarshaling config: %s \n", err)
		return nil, err
	}

	log.Println("Configuration loaded successfully with Viper.")
	return AppConfig, nil
}
