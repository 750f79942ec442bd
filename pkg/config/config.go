package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
)

// DefaultPath is used when neither --config nor UNITYCTL_CONFIG is set.
const DefaultPath = "unityctl.toml"

// UnityConfig locates the editor's McpUnity websocket server.
type UnityConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// RequestConfig bounds how long a single call may wait.
type RequestConfig struct {
	TimeoutMs     int `toml:"timeoutMs"`
	LongTimeoutMs int `toml:"longTimeoutMs"`
}

// LoggingConfig defines basic logging knobs.
type LoggingConfig struct {
	Level       string `toml:"level"`
	Format      string `toml:"format"`
	FilePath    string `toml:"filePath"`
	FileMaxSize int    `toml:"fileMaxSizeMB"`
}

// Config aggregates CLI settings.
type Config struct {
	Unity   UnityConfig   `toml:"unity"`
	Request RequestConfig `toml:"request"`
	Logging LoggingConfig `toml:"logging"`
}

// envOverrides holds environment values; zero values mean unset.
type envOverrides struct {
	ConfigPath string `env:"UNITYCTL_CONFIG"`
	Host       string `env:"UNITY_HOST"`
	Port       int    `env:"UNITY_PORT"`
	TimeoutMs  int    `env:"UNITY_REQUEST_TIMEOUT"`
	LogLevel   string `env:"UNITYCTL_LOG_LEVEL"`
}

// Default returns the settings used when no config file exists.
func Default() Config {
	return Config{
		Unity: UnityConfig{
			Host: "localhost",
			Port: 8090,
		},
		Request: RequestConfig{
			TimeoutMs:     10000,
			LongTimeoutMs: 60000,
		},
		Logging: LoggingConfig{
			Level:       "warn",
			FileMaxSize: 10,
		},
	}
}

// ResolvePath picks the config file location: override, then
// UNITYCTL_CONFIG, then DefaultPath.
func ResolvePath(override string) string {
	if strings.TrimSpace(override) != "" {
		return override
	}
	overrides, err := env.ParseAs[envOverrides]()
	if err == nil && strings.TrimSpace(overrides.ConfigPath) != "" {
		return overrides.ConfigPath
	}
	return DefaultPath
}

// Load reads the TOML file at path on top of Default and applies environment
// overrides. A missing file is not an error. The result is not validated;
// callers layer flag overrides first and then call Validate.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ApplyEnv overlays UNITY_HOST, UNITY_PORT, UNITY_REQUEST_TIMEOUT and
// UNITYCTL_LOG_LEVEL.
func (cfg *Config) ApplyEnv() error {
	overrides, err := env.ParseAs[envOverrides]()
	if err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	if h := strings.TrimSpace(overrides.Host); h != "" {
		cfg.Unity.Host = h
	}
	if overrides.Port != 0 {
		cfg.Unity.Port = overrides.Port
	}
	if overrides.TimeoutMs != 0 {
		cfg.Request.TimeoutMs = overrides.TimeoutMs
	}
	if l := strings.TrimSpace(overrides.LogLevel); l != "" {
		cfg.Logging.Level = l
	}
	return nil
}

// Validate checks required fields and fills derived defaults.
func (cfg *Config) Validate() error {
	if strings.TrimSpace(cfg.Unity.Host) == "" {
		return fmt.Errorf("unity.host required")
	}
	if cfg.Unity.Port < 1 || cfg.Unity.Port > 65535 {
		return fmt.Errorf("unity.port must be between 1 and 65535, got %d", cfg.Unity.Port)
	}
	if cfg.Request.TimeoutMs <= 0 {
		return fmt.Errorf("request.timeoutMs must be positive, got %d", cfg.Request.TimeoutMs)
	}
	if cfg.Request.LongTimeoutMs == 0 {
		cfg.Request.LongTimeoutMs = cfg.Request.TimeoutMs
	}
	if cfg.Request.LongTimeoutMs < 0 {
		return fmt.Errorf("request.longTimeoutMs must be positive, got %d", cfg.Request.LongTimeoutMs)
	}
	return nil
}

// Timeout returns the request deadline for normal or long running commands.
func (cfg *Config) Timeout(longRunning bool) time.Duration {
	if longRunning && cfg.Request.LongTimeoutMs > cfg.Request.TimeoutMs {
		return time.Duration(cfg.Request.LongTimeoutMs) * time.Millisecond
	}
	return time.Duration(cfg.Request.TimeoutMs) * time.Millisecond
}

// Save writes cfg to path as TOML, creating parent directories.
func Save(path string, cfg *Config) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}
