package core

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// DefaultMaxBoundSets mirrors the minimum maxBoundDescriptorSets limit
// guaranteed by Vulkan implementations.
const DefaultMaxBoundSets = 4

// Config holds the knobs of the binding layer. It is usually read from a
// TOML file next to the assets.
type Config struct {
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `toml:"log_level"`
	// AssetRoot is the directory scanned for .wgsl and .layout.toml files.
	AssetRoot string `toml:"asset_root"`
	// EntryPoint is the vertex entry point reflected from WGSL shaders.
	EntryPoint string `toml:"entry_point"`
	// MaxBoundSets caps the number of descriptor sets accepted per submission.
	MaxBoundSets int `toml:"max_bound_sets"`
	// WarnShadowedAttributes logs a warning when a later vertex buffer declares
	// an attribute that an earlier buffer already provides.
	WarnShadowedAttributes bool `toml:"warn_shadowed_attributes"`
}

func DefaultConfig() *Config {
	return &Config{
		LogLevel:               "info",
		AssetRoot:              "assets",
		EntryPoint:             "vs_main",
		MaxBoundSets:           DefaultMaxBoundSets,
		WarnShadowedAttributes: true,
	}
}

// LoadConfig reads the TOML file at path on top of DefaultConfig.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	return ParseConfig(data)
}

func ParseConfig(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.MaxBoundSets <= 0 {
		return fmt.Errorf("%w: max_bound_sets must be positive, got %d", ErrInvalidConfig, c.MaxBoundSets)
	}
	if c.EntryPoint == "" {
		return fmt.Errorf("%w: entry_point cannot be empty", ErrInvalidConfig)
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: unknown log_level %q", ErrInvalidConfig, c.LogLevel)
	}
	return nil
}
