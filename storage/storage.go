package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrNotFound is returned by Get when no record exists under the key
var ErrNotFound = errors.New("record not found")

// Storage interface for small keyed records that must survive restarts
type Storage interface {
	// Put stores data under key, replacing any previous record
	Put(ctx context.Context, key string, data []byte) error

	// Get retrieves the record under key, or ErrNotFound
	Get(ctx context.Context, key string) ([]byte, error)

	// Delete removes the record under key; deleting a missing key is not an error
	Delete(ctx context.Context, key string) error

	// Close releases connections held by the backend
	Close() error
}

// StorageType represents the storage backend type
type StorageType string

const (
	StorageTypeLocal    StorageType = "local"
	StorageTypeS3       StorageType = "s3"
	StorageTypeRedis    StorageType = "redis"
	StorageTypePostgres StorageType = "postgres"
)

// StorageConfig holds configuration for storage
type StorageConfig struct {
	Type         StorageType
	LocalPath    string // For local storage
	S3Bucket     string // For S3 storage
	S3Region     string // For S3 storage
	S3Prefix     string // For S3 storage
	AWSAccessKey string
	AWSSecretKey string
	RedisAddr    string
	RedisPass    string
	RedisDB      int
	RedisTTL     time.Duration
	DatabaseURL  string
	Secret       string // Seals records when set
}

// NewStorage creates a new storage instance based on configuration
func NewStorage(ctx context.Context, cfg StorageConfig) (Storage, error) {
	var (
		s   Storage
		err error
	)

	switch cfg.Type {
	case StorageTypeLocal, "":
		s, err = NewLocalStorage(cfg.LocalPath)
	case StorageTypeS3:
		if cfg.S3Bucket == "" {
			return nil, errors.New("AWS_S3_BUCKET is required for S3 storage")
		}
		s, err = NewS3Storage(ctx, cfg)
	case StorageTypeRedis:
		s, err = NewRedisStorage(ctx, cfg)
	case StorageTypePostgres:
		s, err = NewPostgresStorage(ctx, cfg.DatabaseURL)
	default:
		return nil, fmt.Errorf("unknown storage type: %s", cfg.Type)
	}
	if err != nil {
		return nil, err
	}

	if cfg.Secret != "" {
		return NewSealedStorage(s, cfg.Secret)
	}
	return s, nil
}

// sanitizeKey turns a record key into a safe path component
func sanitizeKey(key string) string {
	key = strings.ReplaceAll(key, " ", "_")
	key = strings.ReplaceAll(key, "/", "_")
	key = strings.ReplaceAll(key, "\\", "_")
	key = strings.ReplaceAll(key, "..", "_")
	return key
}
