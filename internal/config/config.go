package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config captures everything vitrine needs to reach the folio API.
type Config struct {
	APIBase    string
	Token      string
	Timeout    time.Duration
	Retries    int
	RetryDelay time.Duration
	CacheTTL   time.Duration
	RateLimit  float64 // requests per second; 0 disables client-side limiting
	LogPath    string
}

const (
	defaultConfigPath = "~/.config/vitrine/config.toml"
	defaultAPIBase    = "127.0.0.1:8642"
	defaultTimeout    = 10 * time.Second
	defaultRetries    = 3
	defaultRetryDelay = time.Second
	defaultCacheTTL   = 5 * time.Minute
)

// tokenEnv overrides the config file token so credentials can stay out of
// dotfiles.
const tokenEnv = "VITRINE_TOKEN"

// Load locates and parses the vitrine config, falling back to defaults when
// missing.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := defaults()

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			applyEnv(&cfg)
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer func() { _ = file.Close() }()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		APIBase        string  `toml:"api_base"`
		Token          string  `toml:"token"`
		TimeoutSeconds *int    `toml:"timeout_seconds"`
		Retries        *int    `toml:"retries"`
		RetryDelayMS   *int    `toml:"retry_delay_ms"`
		CacheTTLSecs   *int    `toml:"cache_ttl_seconds"`
		RateLimitRPS   float64 `toml:"rate_limit_rps"`
		LogPath        string  `toml:"log_path"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if base := strings.TrimSpace(raw.APIBase); base != "" {
		cfg.APIBase = base
	}
	cfg.Token = strings.TrimSpace(raw.Token)
	if raw.TimeoutSeconds != nil && *raw.TimeoutSeconds > 0 {
		cfg.Timeout = time.Duration(*raw.TimeoutSeconds) * time.Second
	}
	if raw.Retries != nil && *raw.Retries >= 0 {
		cfg.Retries = *raw.Retries
	}
	if raw.RetryDelayMS != nil && *raw.RetryDelayMS > 0 {
		cfg.RetryDelay = time.Duration(*raw.RetryDelayMS) * time.Millisecond
	}
	if raw.CacheTTLSecs != nil && *raw.CacheTTLSecs > 0 {
		cfg.CacheTTL = time.Duration(*raw.CacheTTLSecs) * time.Second
	}
	if raw.RateLimitRPS > 0 {
		cfg.RateLimit = raw.RateLimitRPS
	}
	if logPath := strings.TrimSpace(raw.LogPath); logPath != "" {
		cfg.LogPath = mustExpand(logPath)
	}

	applyEnv(&cfg)
	return cfg, nil
}

func defaults() Config {
	return Config{
		APIBase:    defaultAPIBase,
		Timeout:    defaultTimeout,
		Retries:    defaultRetries,
		RetryDelay: defaultRetryDelay,
		CacheTTL:   defaultCacheTTL,
	}
}

func applyEnv(cfg *Config) {
	if token := strings.TrimSpace(os.Getenv(tokenEnv)); token != "" {
		cfg.Token = token
	}
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
