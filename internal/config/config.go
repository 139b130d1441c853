package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration.
// Supports environment variables with sensible defaults.
//
// Environment Variables:
// Gemini Configuration:
// - GEMINI_API_KEYS: comma-separated API keys; placeholder entries are ignored (required)
// - GEMINI_MODEL: model name (default: gemini-1.5-flash)
// - GEMINI_TIMEOUT: per-call timeout in seconds (default: 180)
//
// Translation Configuration:
// - BATCH_SIZE: caption records per remote call (default: 15)
// - CAPTION_PREFIX: branding line prepended to each caption block (optional)
// - CAPTION_SUFFIX: branding line appended to each caption block (optional)
//
// Download Configuration:
// - DOWNLOAD_DIR: default save directory (default: ~/Downloads/dlp)
//
// Server Configuration:
// - PORT: HTTP listen port (default: 8000)
// - JOB_RETENTION: how long finished jobs stay queryable (default: 24h)
// - SWEEP_SCHEDULE: cron spec for the registry sweep (default: @every 10m)

// placeholderKeyMarker flags keys copied verbatim from sample env files.
const placeholderKeyMarker = "YOUR_API_KEY"

type Config struct {
	Gemini    GeminiConfig    `json:"gemini"`
	Translate TranslateConfig `json:"translate"`
	Download  DownloadConfig  `json:"download"`
	Server    ServerConfig    `json:"server"`
}

// GeminiConfig holds the generative-language client configuration.
type GeminiConfig struct {
	APIKeys []string      `json:"-"`
	Model   string        `json:"model"`
	Timeout time.Duration `json:"timeout"`
}

type TranslateConfig struct {
	BatchSize     int    `json:"batch_size"`
	CaptionPrefix string `json:"caption_prefix"`
	CaptionSuffix string `json:"caption_suffix"`
}

type DownloadConfig struct {
	Dir string `json:"dir"`
}

type ServerConfig struct {
	Port          int           `json:"port"`
	JobRetention  time.Duration `json:"job_retention"`
	SweepSchedule string        `json:"sweep_schedule"`
}

// Option is a function type for configuring Config
type Option func(*Config)

// NewFromEnv creates a new Config instance with values from environment variables and options
func NewFromEnv(opts ...Option) (*Config, error) {
	config := &Config{
		Gemini: GeminiConfig{
			APIKeys: parseAPIKeys(getEnvString("GEMINI_API_KEYS", "")),
			Model:   getEnvString("GEMINI_MODEL", "gemini-1.5-flash"),
			Timeout: time.Duration(getEnvInt("GEMINI_TIMEOUT", 180)) * time.Second,
		},
		Translate: TranslateConfig{
			BatchSize:     getEnvInt("BATCH_SIZE", 15),
			CaptionPrefix: getEnvString("CAPTION_PREFIX", ""),
			CaptionSuffix: getEnvString("CAPTION_SUFFIX", ""),
		},
		Download: DownloadConfig{
			Dir: getEnvString("DOWNLOAD_DIR", defaultDownloadDir()),
		},
		Server: ServerConfig{
			Port:          getEnvInt("PORT", 8000),
			JobRetention:  getEnvDuration("JOB_RETENTION", 24*time.Hour),
			SweepSchedule: getEnvString("SWEEP_SCHEDULE", "@every 10m"),
		},
	}

	for _, opt := range opts {
		opt(config)
	}

	if err := config.validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// validate checks if all required configuration is properly set
func (c *Config) validate() error {
	if len(c.Gemini.APIKeys) == 0 {
		return fmt.Errorf("GEMINI_API_KEYS is required: set at least one real key")
	}
	if c.Translate.BatchSize <= 0 {
		return fmt.Errorf("BATCH_SIZE must be positive, got %d", c.Translate.BatchSize)
	}
	return nil
}

// parseAPIKeys splits the comma-separated key list, dropping empty entries
// and sample-file placeholders.
func parseAPIKeys(raw string) []string {
	keys := make([]string, 0)
	for _, part := range strings.Split(raw, ",") {
		key := strings.TrimSpace(part)
		if key == "" || strings.Contains(key, placeholderKeyMarker) {
			continue
		}
		keys = append(keys, key)
	}
	return keys
}

func defaultDownloadDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "downloads"
	}
	return filepath.Join(home, "Downloads", "dlp")
}

// getEnvString gets a string value from environment variables with default
func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt gets an integer value from environment variables with default
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvDuration gets a duration value from environment variables with default
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
