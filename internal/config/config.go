package config

import (
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Env      Env
	Server   ServerConfig
	Storage  StorageConfig
	Upload   FileUploadConfig
	Media    MediaConfig
	Cache    CacheConfig
	NATS     NATSConfig
	Database DatabaseConfig
}

type Env struct {
	Env string `envconfig:"ENV" default:"DEV"`
}

// IsProd reports whether ENV is prod, case insensitive
func (e Env) IsProd() bool {
	return strings.EqualFold(e.Env, "prod")
}

type ServerConfig struct {
	Host        string `envconfig:"SERVER_HOST" default:"localhost"`
	Port        string `envconfig:"SERVER_PORT" default:"8080"`
	MaxBodySize int64  `envconfig:"SERVER_MAX_BODY_SIZE" default:"536870912"` // 512MB

	RequestTimeout time.Duration `envconfig:"SERVER_REQUEST_TIMEOUT" default:"5m"`
}

// StorageConfig configures the object storage driver (minio or s3)
type StorageConfig struct {
	Driver                    string        `envconfig:"STORAGE_DRIVER" default:"minio"`
	Endpoint                  string        `envconfig:"STORAGE_ENDPOINT" required:"true"`
	Region                    string        `envconfig:"STORAGE_REGION" default:"us-east-1"`
	BucketName                string        `envconfig:"STORAGE_BUCKET_NAME" required:"true"`
	AccessKey                 string        `envconfig:"STORAGE_ACCESS_KEY" required:"true"`
	SecretKey                 string        `envconfig:"STORAGE_SECRET_KEY" required:"true"`
	UseSSL                    bool          `envconfig:"STORAGE_USE_SSL" default:"false"`
	SimplePresignedDuration   time.Duration `envconfig:"STORAGE_SIMPLE_PRESIGNED_DURATION" default:"24h"`
	PartPresignedDuration     time.Duration `envconfig:"STORAGE_PART_PRESIGNED_DURATION" default:"24h"`
	DownloadSignedURLDuration time.Duration `envconfig:"STORAGE_DOWNLOAD_SIGNED_URL_DURATION" default:"15m"`
}

type FileUploadConfig struct {
	PartSize               int64         `envconfig:"UPLOAD_PART_SIZE" default:"10485760"`                    // 10MB
	SimpleUploadMaxSize    int64         `envconfig:"UPLOAD_SIMPLE_MAX_SIZE" default:"52428800"`              // 50MB
	MultipartUploadMaxSize int64         `envconfig:"UPLOAD_MULTIPART_MAX_SIZE" default:"5368709120"`         // 5GB
	SessionTTL             time.Duration `envconfig:"UPLOAD_SESSION_TTL" default:"24h"`
	CleanupEvery           time.Duration `envconfig:"UPLOAD_CLEANUP_EVERY" default:"15m"`
	KeyPrefix              string        `envconfig:"UPLOAD_KEY_PREFIX" default:"uploads"`
}

type MediaConfig struct {
	RulesPath        string `envconfig:"MEDIA_RULES_PATH"`
	TranscodeWorkers int64  `envconfig:"MEDIA_TRANSCODE_WORKERS" default:"2"`
	TempDir          string `envconfig:"MEDIA_TEMP_DIR"`
	FFmpegPath       string `envconfig:"MEDIA_FFMPEG_PATH" default:"ffmpeg"`
	WebPQuality      int    `envconfig:"MEDIA_WEBP_QUALITY" default:"80"`
	VideoMaxWidth    int    `envconfig:"MEDIA_VIDEO_MAX_WIDTH" default:"1280"`
}

// CacheConfig configures redis, an empty address disables caching
type CacheConfig struct {
	RedisAddr     string        `envconfig:"CACHE_REDIS_ADDR"`
	RedisPassword string        `envconfig:"CACHE_REDIS_PASSWORD"`
	RedisDB       int           `envconfig:"CACHE_REDIS_DB" default:"0"`
	TTL           time.Duration `envconfig:"CACHE_TTL" default:"5m"`
}

// NATSConfig configures jetstream, an empty URL disables compensating jobs in the api
type NATSConfig struct {
	URL          string `envconfig:"NATS_URL"`
	StreamName   string `envconfig:"NATS_STREAM_NAME" default:"STORAGE_CLEANUP"`
	ConsumerName string `envconfig:"NATS_CONSUMER_NAME" default:"sweeper"`
	Subject      string `envconfig:"NATS_SUBJECT" default:"storage.cleanup"`
}

type DatabaseConfig struct {
	Host           string        `envconfig:"DB_HOST" required:"true"`
	Port           int           `envconfig:"DB_PORT" default:"5432"`
	User           string        `envconfig:"DB_USER" required:"true"`
	Password       string        `envconfig:"DB_PASSWORD" required:"true"`
	Name           string        `envconfig:"DB_NAME" required:"true"`
	SSLMode        string        `envconfig:"DB_SSLMODE" default:"disable"`
	MaxOpenCons    int           `envconfig:"DB_MAX_OPEN_CONS" default:"25"`
	MaxIdleCons    int           `envconfig:"DB_MAX_IDLE_CONS" default:"5"`
	ConMaxLifeTime time.Duration `envconfig:"DB_CONMAX_LIFE_TIME" default:"5m"`
}

func Load() (*Config, error) {
	var cfg Config

	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
