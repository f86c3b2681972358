package config

import (
	"os"
	"path/filepath"
	"time"
)

// Default values
const (
	// Mode default
	DefaultMode = ModeStandard

	// Strategy defaults
	DefaultMultipartThreshold = 0.7
	DefaultNestedDepth        = 2

	// Tool defaults
	DefaultToolTimeout    = 300 * time.Second
	DefaultMaxOutputBytes = 64 * 1024

	// Cache defaults
	DefaultCacheEnabled = true
	DefaultCacheTTL     = 24 * time.Hour

	// Logging defaults
	DefaultLogLevel  = "info"
	DefaultLogFormat = "pretty"
)

// ConfigDir returns the config directory path
func ConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".extractall"
	}
	return filepath.Join(home, ".extractall")
}

// CacheDir returns the cache directory path
func CacheDir() string {
	return filepath.Join(ConfigDir(), "cache")
}

// ConfigFilePath returns the config file path
func ConfigFilePath() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

// Default returns the default configuration
func Default() *Config {
	return &Config{
		Mode: DefaultMode,
		Strategies: StrategiesConfig{
			Multipart:          true,
			MultipartThreshold: DefaultMultipartThreshold,
			Partial:            true,
			NestedDepth:        DefaultNestedDepth,
		},
		Tools: ToolsConfig{
			Timeout:        DefaultToolTimeout,
			OutputCharset:  "",
			MaxOutputBytes: DefaultMaxOutputBytes,
		},
		Cache: CacheConfig{
			Enabled:   DefaultCacheEnabled,
			TTL:       DefaultCacheTTL,
			Directory: CacheDir(),
		},
		Logging: LoggingConfig{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}
