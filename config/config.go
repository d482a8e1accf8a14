package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	ApiURL     string
	AccessKey  string
	SecretKey  string
	BucketName string
	Region     string

	ServerAddr string

	// ResolveConcurrency bounds concurrent source lookups; 0 means one goroutine per key.
	ResolveConcurrency int
	UploadPartSizeMB   int
	UploadConcurrency  int
	CompressionLevel   int

	// StrictTagging fails the request when the post-upload tag cannot be applied.
	StrictTagging bool

	LogLevel  string
	LogFormat string
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Warn(".env file not found, using environment variables only")
	}

	config := &Config{
		ApiURL:     getEnv("API_URL", ""),
		AccessKey:  getEnv("ACCESS_KEY", ""),
		SecretKey:  getEnv("SECRET_KEY", ""),
		BucketName: getEnv("BUCKET_NAME", ""),
		Region:     getEnv("REGION", ""),

		ServerAddr: getEnv("SERVER_ADDR", ":8080"),

		ResolveConcurrency: getEnvInt("RESOLVE_CONCURRENCY", 0),
		UploadPartSizeMB:   getEnvInt("UPLOAD_PART_SIZE_MB", 5),
		UploadConcurrency:  getEnvInt("UPLOAD_CONCURRENCY", 5),
		CompressionLevel:   getEnvInt("COMPRESSION_LEVEL", -1),

		StrictTagging: getEnvBool("STRICT_TAGGING", true),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "text"),
	}

	return config, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		slog.Warn("invalid integer in environment, using default", "key", key, "value", value, "default", defaultValue)
		return defaultValue
	}
	return parsed
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseBool(strings.TrimSpace(value))
	if err != nil {
		slog.Warn("invalid boolean in environment, using default", "key", key, "value", value, "default", defaultValue)
		return defaultValue
	}
	return parsed
}
