package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	// DriverMongo selects MongoDB as the document store.
	DriverMongo = "mongo"
	// DriverPostgres stores documents as JSONB rows in PostgreSQL.
	DriverPostgres = "postgres"

	// StagingDisk stages uploaded bytes in a local temp directory.
	StagingDisk = "disk"
	// StagingMinIO stages uploaded bytes in an S3-compatible bucket.
	StagingMinIO = "minio"
)

// MongoConfig holds MongoDB connection settings.
type MongoConfig struct {
	URI            string        `envconfig:"MONGO_URI"`
	Database       string        `envconfig:"MONGO_DATABASE" default:"file_metadata"`
	Collection     string        `envconfig:"MONGO_COLLECTION" default:"files"`
	ConnectTimeout time.Duration `envconfig:"MONGO_CONNECT_TIMEOUT" default:"10s"`
	MaxPoolSize    uint64        `envconfig:"MONGO_MAX_POOL_SIZE" default:"0"`
}

// DatabaseConfig holds PostgreSQL database connection settings.
type DatabaseConfig struct {
	Host               string `envconfig:"DB_HOST"`
	Port               string `envconfig:"DB_PORT" default:"5432"`
	User               string `envconfig:"DB_USER"`
	Password           string `envconfig:"DB_PASSWORD"`
	Name               string `envconfig:"DB_NAME"`
	SSLMode            string `envconfig:"DB_SSLMODE" default:"disable"`
	MaxOpenConns       int    `envconfig:"DB_MAX_OPEN_CONNS" default:"10"`
	MaxIdleConns       int    `envconfig:"DB_MAX_IDLE_CONNS" default:"5"`
	ConnMaxLifetimeSec int    `envconfig:"DB_CONN_MAX_LIFETIME_SEC" default:"300"`
}

// MinIOConfig holds object storage settings for MinIO.
type MinIOConfig struct {
	Endpoint  string `envconfig:"MINIO_ENDPOINT"`
	AccessKey string `envconfig:"MINIO_ACCESS_KEY"`
	SecretKey string `envconfig:"MINIO_SECRET_KEY"`
	Bucket    string `envconfig:"MINIO_BUCKET"`
	UseSSL    bool   `envconfig:"MINIO_USE_SSL" default:"false"`
}

// UploadConfig controls how uploaded files are received and staged.
type UploadConfig struct {
	MaxBytes int64  `envconfig:"UPLOAD_MAX_BYTES" default:"10485760"` // 10MB
	Staging  string `envconfig:"UPLOAD_STAGING" default:"disk"`
	TempDir  string `envconfig:"UPLOAD_TEMP_DIR"`
}

// AppConfig is the centralized configuration struct for the application.
// It is populated from environment variables. Sensitive values are not hardcoded.
type AppConfig struct {
	Port            string        `envconfig:"PORT" default:"3000"`
	OpsPort         string        `envconfig:"OPS_PORT"`
	Timezone        string        `envconfig:"APP_TIMEZONE" default:"UTC"`
	LogLevel        string        `envconfig:"LOG_LEVEL" default:"info"`
	StoreDriver     string        `envconfig:"STORE_DRIVER" default:"mongo"`
	StaticDir       string        `envconfig:"STATIC_DIR"`
	CORSOrigins     string        `envconfig:"CORS_ALLOW_ORIGINS" default:"*"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`

	Mongo    MongoConfig
	Database DatabaseConfig
	MinIO    MinIOConfig
	Upload   UploadConfig
}

// Load reads configuration from environment variables.
// A .env file can be auto-loaded by importing: _ "github.com/joho/godotenv/autoload"
// Real environment variables take precedence over the .env file.
func Load() (*AppConfig, error) {
	var cfg AppConfig
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks cross-field requirements that struct tags cannot express.
func (c *AppConfig) Validate() error {
	switch c.StoreDriver {
	case DriverMongo:
		if c.Mongo.URI == "" {
			return fmt.Errorf("invalid config: MONGO_URI is required for the %s driver", DriverMongo)
		}
	case DriverPostgres:
	default:
		return fmt.Errorf("invalid config: unsupported STORE_DRIVER %q", c.StoreDriver)
	}

	switch c.Upload.Staging {
	case StagingDisk, StagingMinIO:
	default:
		return fmt.Errorf("invalid config: unsupported UPLOAD_STAGING %q", c.Upload.Staging)
	}

	if c.Upload.MaxBytes <= 0 {
		return fmt.Errorf("invalid config: UPLOAD_MAX_BYTES must be positive")
	}
	return nil
}

// Location resolves the configured timezone, falling back to UTC.
func (c *AppConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
