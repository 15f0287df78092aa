package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	yaml "gopkg.in/yaml.v3"
)

// Config holds the settings of the hwpxcat command.
// Precedence is flags, then environment, then the config file.
type Config struct {
	// OutputDir is where extract and tokenize write their artifacts.
	// Empty means next to the input file, named after it.
	OutputDir string `yaml:"outputDir"`

	// CacheFile is the extraction cache index path (HWPXG_CACHE_FILE).
	CacheFile string `yaml:"cacheFile"`

	// LogLevel is a zerolog level name: debug, info, warn, error.
	LogLevel string `yaml:"logLevel"`

	// Strict makes markup inside text spans an error instead of being skipped.
	Strict bool `yaml:"strict"`

	// ImageQuality is the JPEG quality used when saving extracted images.
	ImageQuality int `yaml:"imageQuality"`
}

const (
	defaultLogLevel     = "info"
	defaultImageQuality = 90
)

// Load reads a YAML config file.
func Load(path string) (Config, error) {
	var cfg Config
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("parse yaml: %w", err)
	}
	return cfg, nil
}

// ApplyEnv overrides cfg with any of the recognized environment variables that are set.
func ApplyEnv(cfg *Config) error {
	if v, ok := os.LookupEnv("HWPX_OUTPUT_DIR"); ok {
		cfg.OutputDir = v
	}
	if v, ok := os.LookupEnv("HWPXG_CACHE_FILE"); ok {
		cfg.CacheFile = v
	}
	if v, ok := os.LookupEnv("HWPX_LOG_LEVEL"); ok {
		cfg.LogLevel = strings.ToLower(strings.TrimSpace(v))
	}
	if v, ok := os.LookupEnv("HWPX_STRICT"); ok {
		strict, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("HWPX_STRICT: %w", err)
		}
		cfg.Strict = strict
	}
	return nil
}

// Defaults fills zero values.
func (c *Config) Defaults() {
	if c.LogLevel == "" {
		c.LogLevel = defaultLogLevel
	}
	if c.ImageQuality <= 0 || c.ImageQuality > 100 {
		c.ImageQuality = defaultImageQuality
	}
}
