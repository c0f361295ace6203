package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"time"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	"cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	defaultConfigPath        = "config.yaml"
	defaultPort              = 5000
	defaultGeminiModel       = "gemini-1.5-pro"
	defaultGeminiAPIVersion  = "v1beta"
	defaultVideoMIMEType     = "video/mp4"
	defaultReadHeaderTimeout = 10 * time.Second
	defaultShutdownTimeout   = 10 * time.Second
)

type Config struct {
	GeminiAPIKey       string `yaml:"-" env:"GEMINI_API_KEY"`
	GeminiAPIKeySecret string `yaml:"-" env:"GEMINI_API_KEY_SECRET"`
	Port               int    `yaml:"port" env:"PORT"`

	Gemini GeminiConfig `yaml:"gemini"`
	Server ServerConfig `yaml:"server"`
}

type GeminiConfig struct {
	Model         string        `yaml:"model" env:"GEMINI_MODEL"`
	BaseURL       string        `yaml:"base_url" env:"GEMINI_BASE_URL"`
	APIVersion    string        `yaml:"api_version"`
	VideoMIMEType string        `yaml:"video_mime_type"`
	Timeout       time.Duration `yaml:"timeout"` // zero leaves the HTTP client default
}

type ServerConfig struct {
	ReadHeaderTimeout time.Duration `yaml:"read_header_timeout"`
	ShutdownTimeout   time.Duration `yaml:"shutdown_timeout"`
}

type secretAccessor func(ctx context.Context, name string) (string, error)

// Load builds the process configuration from .env, config.yaml and the
// environment, in that order of increasing precedence. The returned value is
// not modified afterwards.
func Load(ctx context.Context) (*Config, error) {
	return load(ctx, defaultConfigPath, accessSecret)
}

func load(ctx context.Context, path string, access secretAccessor) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Warn("No .env file found, relying on environment variables")
	}

	cfg := &Config{}
	if err := loadYAMLConfig(path, cfg); err != nil {
		return nil, err
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}

	applyDefaults(cfg)

	if cfg.GeminiAPIKey == "" && cfg.GeminiAPIKeySecret != "" {
		key, err := access(ctx, cfg.GeminiAPIKeySecret)
		if err != nil {
			return nil, fmt.Errorf("resolve GEMINI_API_KEY_SECRET: %w", err)
		}
		cfg.GeminiAPIKey = key
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	if cfg.GeminiAPIKey == "" {
		slog.Warn("GEMINI_API_KEY is not set, requests to Gemini will be rejected")
	}

	return cfg, nil
}

func loadYAMLConfig(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		slog.Debug("No config.yaml found, using defaults")
		return nil
	}
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

func applyDefaults(cfg *Config) {
	if cfg.Port == 0 {
		cfg.Port = defaultPort
	}
	applyGeminiDefaults(cfg)
	applyServerDefaults(cfg)
}

func applyGeminiDefaults(cfg *Config) {
	if cfg.Gemini.Model == "" {
		cfg.Gemini.Model = defaultGeminiModel
	}
	if cfg.Gemini.APIVersion == "" {
		cfg.Gemini.APIVersion = defaultGeminiAPIVersion
	}
	if cfg.Gemini.VideoMIMEType == "" {
		cfg.Gemini.VideoMIMEType = defaultVideoMIMEType
	}
}

func applyServerDefaults(cfg *Config) {
	if cfg.Server.ReadHeaderTimeout == 0 {
		cfg.Server.ReadHeaderTimeout = defaultReadHeaderTimeout
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = defaultShutdownTimeout
	}
}

func (c *Config) validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	if c.Gemini.Timeout < 0 {
		return fmt.Errorf("invalid gemini timeout %s", c.Gemini.Timeout)
	}
	return nil
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

func accessSecret(ctx context.Context, name string) (string, error) {
	client, err := secretmanager.NewClient(ctx)
	if err != nil {
		return "", fmt.Errorf("create secret manager client: %w", err)
	}
	defer func() { _ = client.Close() }()

	resp, err := client.AccessSecretVersion(ctx, &secretmanagerpb.AccessSecretVersionRequest{
		Name: secretVersionName(name),
	})
	if err != nil {
		return "", fmt.Errorf("access secret: %w", err)
	}

	return strings.TrimSpace(string(resp.GetPayload().GetData())), nil
}

func secretVersionName(name string) string {
	if strings.Contains(name, "/versions/") {
		return name
	}
	return strings.TrimSuffix(name, "/") + "/versions/latest"
}
