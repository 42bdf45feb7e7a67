package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the top-level CLI configuration loaded from file/env.
type Config struct {
	DataDir            string `json:"dataDir" yaml:"dataDir"`
	CacheDir           string `json:"cacheDir" yaml:"cacheDir"`
	RotateEverySeconds int    `json:"rotateEverySeconds" yaml:"rotateEverySeconds"`
	SyncEveryWrite     bool   `json:"syncEveryWrite" yaml:"syncEveryWrite"`
	LogLevel           string `json:"logLevel" yaml:"logLevel"`
	LogFormat          string `json:"logFormat" yaml:"logFormat"`
}

// Default returns built-in defaults.
func Default() Config {
	return Config{
		DataDir:            DefaultDataDir(),
		CacheDir:           os.TempDir(),
		RotateEverySeconds: 600,
		LogLevel:           "info",
		LogFormat:          "text",
	}
}

// RotateEvery returns the rotation interval as a duration.
func (c Config) RotateEvery() time.Duration {
	return time.Duration(c.RotateEverySeconds) * time.Second
}

// Load reads configuration from a JSON or YAML file (by extension),
// starting from defaults. If path is empty, returns defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse %s: %w", path, err)
		}
	default:
		if err := json.Unmarshal(b, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse %s: %w", path, err)
		}
	}
	return cfg, nil
}
