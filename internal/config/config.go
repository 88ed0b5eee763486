// Package config loads slategallery settings from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const envPrefix = "SLATEGALLERY_"

// Config holds every tunable of the engine and its front-ends.
type Config struct {
	// DataDir holds the bolt database. Empty means the user config dir.
	DataDir string
	// NoStorage runs without persistence.
	NoStorage bool
	// StorageQuota caps persisted bytes; 0 is unlimited.
	StorageQuota int64

	Logging LoggingConfig
	Timing  TimingConfig
	Filter  FilterConfig
}

type LoggingConfig struct {
	Level  string
	Format string
}

type TimingConfig struct {
	SaveDelay     time.Duration
	ResizeDelay   time.Duration
	NoticeTimeout time.Duration
}

type FilterConfig struct {
	ChunkThreshold int
	ChunkSize      int
}

// Load reads an optional .env file from the working directory and then the
// environment. Values already set in the environment win over .env.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read .env: %w", err)
	}
	return FromEnv()
}

// FromEnv builds a configuration from environment variables only.
func FromEnv() (*Config, error) {
	var errs ValidationErrors
	cfg := &Config{
		DataDir:      getEnv("DATA_DIR", ""),
		NoStorage:    parseBool(getEnv("NO_STORAGE", "false"), "NO_STORAGE", &errs),
		StorageQuota: parseSize(getEnv("STORAGE_QUOTA", "0"), "STORAGE_QUOTA", &errs),
		Logging: LoggingConfig{
			Level:  strings.ToLower(getEnv("LOG_LEVEL", "info")),
			Format: strings.ToLower(getEnv("LOG_FORMAT", "console")),
		},
		Timing: TimingConfig{
			SaveDelay:     parseDuration(getEnv("SAVE_DELAY", "300ms"), "SAVE_DELAY", &errs),
			ResizeDelay:   parseDuration(getEnv("RESIZE_DELAY", "150ms"), "RESIZE_DELAY", &errs),
			NoticeTimeout: parseDuration(getEnv("NOTICE_TIMEOUT", "5s"), "NOTICE_TIMEOUT", &errs),
		},
		Filter: FilterConfig{
			ChunkThreshold: parseInt(getEnv("CHUNK_THRESHOLD", "200"), "CHUNK_THRESHOLD", &errs),
			ChunkSize:      parseInt(getEnv("CHUNK_SIZE", "100"), "CHUNK_SIZE", &errs),
		},
	}
	if errs.Has() {
		return nil, errs
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(envPrefix + key); value != "" {
		return value
	}
	return defaultValue
}

func parseBool(s, field string, errs *ValidationErrors) bool {
	v, err := strconv.ParseBool(s)
	if err != nil {
		errs.add(field, s, "must be a boolean")
	}
	return v
}

func parseInt(s, field string, errs *ValidationErrors) int {
	v, err := strconv.Atoi(s)
	if err != nil {
		errs.add(field, s, "must be an integer")
	}
	return v
}

func parseDuration(s, field string, errs *ValidationErrors) time.Duration {
	v, err := time.ParseDuration(s)
	if err != nil {
		errs.add(field, s, "must be a duration such as 300ms")
	}
	return v
}

// parseSize parses sizes like "5MB", "512KB" or a plain byte count.
func parseSize(s, field string, errs *ValidationErrors) int64 {
	s = strings.ToUpper(strings.TrimSpace(s))
	mult := int64(1)
	switch {
	case strings.HasSuffix(s, "MB"):
		mult, s = 1024*1024, strings.TrimSuffix(s, "MB")
	case strings.HasSuffix(s, "KB"):
		mult, s = 1024, strings.TrimSuffix(s, "KB")
	case strings.HasSuffix(s, "B"):
		s = strings.TrimSuffix(s, "B")
	}
	v, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		errs.add(field, s, "must be a size such as 5MB")
		return 0
	}
	return v * mult
}
