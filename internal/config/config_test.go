package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Setenv("MONGO_URI", "mongodb://localhost:27017")
	t.Setenv("DB_MAX_OPEN_CONNS", "20")
	t.Setenv("MINIO_USE_SSL", "true")
	t.Setenv("UPLOAD_MAX_BYTES", "2048")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, DriverMongo, cfg.StoreDriver)
	assert.Equal(t, "mongodb://localhost:27017", cfg.Mongo.URI)
	assert.Equal(t, "file_metadata", cfg.Mongo.Database)
	assert.Equal(t, "files", cfg.Mongo.Collection)
	assert.Equal(t, 10*time.Second, cfg.Mongo.ConnectTimeout)
	assert.Equal(t, 20, cfg.Database.MaxOpenConns)
	assert.True(t, cfg.MinIO.UseSSL)
	assert.Equal(t, int64(2048), cfg.Upload.MaxBytes)
	assert.Equal(t, StagingDisk, cfg.Upload.Staging)
}

func TestLoad_PortOverride(t *testing.T) {
	t.Setenv("MONGO_URI", "mongodb://localhost:27017")
	t.Setenv("PORT", "8080")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
}

func TestLoad_InvalidValue(t *testing.T) {
	t.Setenv("MONGO_URI", "mongodb://localhost:27017")
	t.Setenv("SHUTDOWN_TIMEOUT", "soon")

	_, err := Load()
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() AppConfig {
		return AppConfig{
			StoreDriver: DriverMongo,
			Mongo:       MongoConfig{URI: "mongodb://localhost"},
			Upload:      UploadConfig{MaxBytes: 1, Staging: StagingDisk},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *AppConfig)
		wantErr string
	}{
		{name: "valid", mutate: func(c *AppConfig) {}},
		{name: "postgres needs no mongo uri", mutate: func(c *AppConfig) {
			c.StoreDriver = DriverPostgres
			c.Mongo.URI = ""
		}},
		{name: "missing mongo uri", mutate: func(c *AppConfig) { c.Mongo.URI = "" }, wantErr: "MONGO_URI"},
		{name: "unknown driver", mutate: func(c *AppConfig) { c.StoreDriver = "redis" }, wantErr: "STORE_DRIVER"},
		{name: "unknown staging", mutate: func(c *AppConfig) { c.Upload.Staging = "tape" }, wantErr: "UPLOAD_STAGING"},
		{name: "zero max bytes", mutate: func(c *AppConfig) { c.Upload.MaxBytes = 0 }, wantErr: "UPLOAD_MAX_BYTES"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLocation(t *testing.T) {
	cfg := AppConfig{Timezone: "Local"}
	assert.Equal(t, time.Local, cfg.Location())

	cfg.Timezone = "Not/AZone"
	assert.Equal(t, time.UTC, cfg.Location())
}
