package config

import (
	"os"
	"strconv"
)

// FromEnv overlays DQP_* environment variables onto cfg.
func FromEnv(cfg *Config) {
	if v := os.Getenv("DQP_DATA_DIR"); v != "" {
		cfg.DataDir = v
	}
	if v := os.Getenv("DQP_CACHE_DIR"); v != "" {
		cfg.CacheDir = v
	}
	if v := os.Getenv("DQP_ROTATE_EVERY_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.RotateEverySeconds = n
		}
	}
	if v := os.Getenv("DQP_SYNC_EVERY_WRITE"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.SyncEveryWrite = b
		}
	}
	if v := os.Getenv("DQP_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("DQP_LOG_FORMAT"); v != "" {
		cfg.LogFormat = v
	}
}
