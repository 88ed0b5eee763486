package config

import (
	"fmt"
	"strings"
)

// ValidationError describes one invalid setting.
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config validation failed for %s%s: %s (value: %v)", envPrefix, e.Field, e.Message, e.Value)
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []ValidationError

func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return "no validation errors"
	}
	messages := make([]string, 0, len(ve))
	for _, err := range ve {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("configuration validation failed: %s", strings.Join(messages, "; "))
}

// Has checks if ValidationErrors contains any errors.
func (ve ValidationErrors) Has() bool {
	return len(ve) > 0
}

func (ve *ValidationErrors) add(field string, value interface{}, msg string) {
	*ve = append(*ve, ValidationError{Field: field, Value: value, Message: msg})
}

var (
	validLevels  = []string{"debug", "info", "warn", "warning", "error"}
	validFormats = []string{"json", "console"}
)

// Validate checks ranges and enumerations.
func (c *Config) Validate() error {
	var errs ValidationErrors
	if !contains(validLevels, c.Logging.Level) {
		errs.add("LOG_LEVEL", c.Logging.Level, "must be one of "+strings.Join(validLevels, ", "))
	}
	if !contains(validFormats, c.Logging.Format) {
		errs.add("LOG_FORMAT", c.Logging.Format, "must be json or console")
	}
	if c.StorageQuota < 0 {
		errs.add("STORAGE_QUOTA", c.StorageQuota, "must not be negative")
	}
	if c.Timing.SaveDelay < 0 {
		errs.add("SAVE_DELAY", c.Timing.SaveDelay, "must not be negative")
	}
	if c.Timing.ResizeDelay < 0 {
		errs.add("RESIZE_DELAY", c.Timing.ResizeDelay, "must not be negative")
	}
	if c.Timing.NoticeTimeout < 0 {
		errs.add("NOTICE_TIMEOUT", c.Timing.NoticeTimeout, "must not be negative")
	}
	if c.Filter.ChunkThreshold < 1 {
		errs.add("CHUNK_THRESHOLD", c.Filter.ChunkThreshold, "must be at least 1")
	}
	if c.Filter.ChunkSize < 1 {
		errs.add("CHUNK_SIZE", c.Filter.ChunkSize, "must be at least 1")
	}
	if errs.Has() {
		return errs
	}
	return nil
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
