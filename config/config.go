// Package config reads the client configuration from the environment
package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"selecionei-client/api"
	"selecionei-client/storage"

	"github.com/joho/godotenv"
)

// Config holds everything cmd/server needs to wire the client
type Config struct {
	APIURL     string
	BaseURL    string
	Port       string
	APITimeout time.Duration
	Storage    storage.StorageConfig
}

// LoadDotEnv loads .env from the working directory or the project root
// (relative to cmd/server/). A missing file is not an error.
func LoadDotEnv() {
	if err := godotenv.Load(); err != nil {
		if err := godotenv.Load("../../.env"); err != nil {
			log.Printf("Warning: No .env file found, using environment variables")
		}
	}
}

// Load builds the configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		APIURL:  getEnv("SELECIONEI_API_URL", api.DefaultBaseURL),
		BaseURL: getEnv("SELECIONEI_BASE_URL", "http://localhost:3000"),
		Port:    getEnv("PORT", "8080"),
	}

	timeout, err := strconv.Atoi(getEnv("API_TIMEOUT_SECONDS", "60"))
	if err != nil || timeout <= 0 {
		return nil, fmt.Errorf("invalid API_TIMEOUT_SECONDS: %q", os.Getenv("API_TIMEOUT_SECONDS"))
	}
	cfg.APITimeout = time.Duration(timeout) * time.Second

	storageCfg, err := storageFromEnv()
	if err != nil {
		return nil, err
	}
	cfg.Storage = storageCfg

	return cfg, nil
}

func storageFromEnv() (storage.StorageConfig, error) {
	cfg := storage.StorageConfig{
		Type:   storage.StorageType(getEnv("STORAGE_TYPE", "local")), // Default to local for development
		Secret: os.Getenv("SESSION_SECRET"),
	}

	switch cfg.Type {
	case storage.StorageTypeLocal:
		cfg.LocalPath = getEnv("STORAGE_LOCAL_PATH", "./storage/records")

	case storage.StorageTypeS3:
		cfg.S3Bucket = os.Getenv("AWS_S3_BUCKET")
		cfg.S3Region = getEnv("AWS_REGION", "us-east-1")
		cfg.S3Prefix = os.Getenv("AWS_S3_PREFIX")
		cfg.AWSAccessKey = os.Getenv("AWS_ACCESS_KEY_ID")
		cfg.AWSSecretKey = os.Getenv("AWS_SECRET_ACCESS_KEY")
		if cfg.S3Bucket == "" {
			return cfg, errors.New("AWS_S3_BUCKET environment variable is required for S3 storage")
		}

	case storage.StorageTypeRedis:
		cfg.RedisAddr = getEnv("REDIS_ADDR", "localhost:6379")
		cfg.RedisPass = os.Getenv("REDIS_PASSWORD")
		db, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
		if err != nil {
			return cfg, fmt.Errorf("invalid REDIS_DB: %w", err)
		}
		cfg.RedisDB = db
		if ttl := os.Getenv("REDIS_TTL"); ttl != "" {
			d, err := time.ParseDuration(ttl)
			if err != nil {
				return cfg, fmt.Errorf("invalid REDIS_TTL: %w", err)
			}
			cfg.RedisTTL = d
		}

	case storage.StorageTypePostgres:
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
		if cfg.DatabaseURL == "" {
			return cfg, errors.New("DATABASE_URL environment variable is required for postgres storage")
		}

	default:
		return cfg, fmt.Errorf("unknown storage type: %s", cfg.Type)
	}

	if cfg.Secret == "" {
		log.Printf("Warning: SESSION_SECRET not set, session records are stored unencrypted")
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
