package config

import (
	"time"

	"github.com/archivekit/extractall-go/internal/domain"
)

// Mode selects the behavior profile for a run
type Mode string

const (
	// ModeStandard runs the multi-tool and multipart strategies
	ModeStandard Mode = "standard"
	// ModeAggressive adds partial recovery and nested archive recursion
	ModeAggressive Mode = "aggressive"
	// ModeConservative runs the multi-tool strategy only
	ModeConservative Mode = "conservative"
)

// Valid reports whether the mode is one of the known profiles
func (m Mode) Valid() bool {
	switch m {
	case ModeStandard, ModeAggressive, ModeConservative:
		return true
	}
	return false
}

// Config represents the application configuration
type Config struct {
	Mode       Mode             `mapstructure:"mode" yaml:"mode"`
	Strategies StrategiesConfig `mapstructure:"strategies" yaml:"strategies"`
	Tools      ToolsConfig      `mapstructure:"tools" yaml:"tools"`
	Cache      CacheConfig      `mapstructure:"cache" yaml:"cache"`
	Logging    LoggingConfig    `mapstructure:"logging" yaml:"logging"`
}

// StrategiesConfig contains strategy chain settings
type StrategiesConfig struct {
	Multipart          bool    `mapstructure:"multipart" yaml:"multipart"`
	MultipartThreshold float64 `mapstructure:"multipart_threshold" yaml:"multipart_threshold"`
	Partial            bool    `mapstructure:"partial" yaml:"partial"`
	NestedDepth        int     `mapstructure:"nested_depth" yaml:"nested_depth"`
}

// ToolsConfig contains external tool invocation settings
type ToolsConfig struct {
	Timeout        time.Duration `mapstructure:"timeout" yaml:"timeout"`
	OutputCharset  string        `mapstructure:"output_charset" yaml:"output_charset"`
	MaxOutputBytes int           `mapstructure:"max_output_bytes" yaml:"max_output_bytes"`
}

// CacheConfig contains probe cache settings
type CacheConfig struct {
	Enabled   bool          `mapstructure:"enabled" yaml:"enabled"`
	TTL       time.Duration `mapstructure:"ttl" yaml:"ttl"`
	Directory string        `mapstructure:"directory" yaml:"directory"`
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// Validate validates the configuration, clamping out-of-range values back
// to their defaults.
func (c *Config) Validate() error {
	if !c.Mode.Valid() {
		if c.Mode != "" {
			return domain.NewValidationError("mode", "must be standard, aggressive, or conservative")
		}
		c.Mode = DefaultMode
	}
	if c.Strategies.MultipartThreshold <= 0 || c.Strategies.MultipartThreshold > 1 {
		c.Strategies.MultipartThreshold = DefaultMultipartThreshold
	}
	if c.Strategies.NestedDepth < 1 {
		c.Strategies.NestedDepth = DefaultNestedDepth
	}
	if c.Tools.Timeout < time.Second {
		c.Tools.Timeout = DefaultToolTimeout
	}
	if c.Tools.MaxOutputBytes < 1024 {
		c.Tools.MaxOutputBytes = DefaultMaxOutputBytes
	}
	if c.Cache.TTL < time.Minute {
		c.Cache.TTL = DefaultCacheTTL
	}
	return nil
}

// MultipartEnabled reports whether the multipart strategy participates in
// the chain under the current mode.
func (c *Config) MultipartEnabled() bool {
	return c.Mode != ModeConservative && c.Strategies.Multipart
}

// PartialEnabled reports whether best-effort partial recovery participates
// in the chain. Only the aggressive profile enables it.
func (c *Config) PartialEnabled() bool {
	return c.Mode == ModeAggressive && c.Strategies.Partial
}

// NestedEnabled reports whether archives found inside extracted output are
// processed recursively.
func (c *Config) NestedEnabled() bool {
	return c.Mode == ModeAggressive
}
