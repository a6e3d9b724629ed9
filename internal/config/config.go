package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the full server configuration, loaded from yaml with
// environment-variable overrides.
type Config struct {
	Port     int    `yaml:"port"`
	LogLevel string `yaml:"log_level"`

	DatabaseURL string `yaml:"database_url"`

	JWTSecret  string        `yaml:"jwt_secret"`
	SessionTTL time.Duration `yaml:"session_ttl"`

	RedisAddr     string `yaml:"redis_addr"`
	RedisPassword string `yaml:"redis_password"`

	// AuthRateLimit requests per AuthRateWindow per client IP on the
	// credential endpoints. Zero disables throttling.
	AuthRateLimit  int           `yaml:"auth_rate_limit"`
	AuthRateWindow time.Duration `yaml:"auth_rate_window"`

	Minio MinioConfig `yaml:"minio"`
	SMTP  SMTPConfig  `yaml:"smtp"`

	// FrontendURL is the base of reset-password links in mails.
	FrontendURL string `yaml:"frontend_url"`

	MaxUploadBytes    int64         `yaml:"max_upload_bytes"`
	AllowedExtensions []string      `yaml:"allowed_extensions"`
	RequestTimeout    time.Duration `yaml:"request_timeout"`
}

type MinioConfig struct {
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	Bucket    string `yaml:"bucket"`
	UseSSL    bool   `yaml:"use_ssl"`
}

type SMTPConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	From     string `yaml:"from"`
}

// Default returns the baseline configuration before file and env overrides.
func Default() Config {
	return Config{
		Port:           8080,
		LogLevel:       "info",
		SessionTTL:     7 * 24 * time.Hour,
		AuthRateLimit:  20,
		AuthRateWindow: time.Minute,
		MaxUploadBytes: 8 << 20,
		AllowedExtensions: []string{
			".jpg", ".jpeg", ".png", ".gif", ".webp",
		},
		RequestTimeout: 10 * time.Second,
	}
}

// Load reads the yaml file (if path is non-empty), applies env overrides and
// validates the result.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	applyEnv(&cfg)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	setString := func(key string, dst *string) {
		if v, ok := os.LookupEnv(key); ok {
			*dst = v
		}
	}
	setInt := func(key string, dst *int) {
		if v, ok := os.LookupEnv(key); ok {
			if n, err := strconv.Atoi(v); err == nil {
				*dst = n
			}
		}
	}
	setString("BOOKSHOP_LOG_LEVEL", &cfg.LogLevel)
	setInt("BOOKSHOP_PORT", &cfg.Port)
	setString("BOOKSHOP_DATABASE_URL", &cfg.DatabaseURL)
	setString("BOOKSHOP_JWT_SECRET", &cfg.JWTSecret)
	setString("BOOKSHOP_REDIS_ADDR", &cfg.RedisAddr)
	setString("BOOKSHOP_REDIS_PASSWORD", &cfg.RedisPassword)
	setString("BOOKSHOP_FRONTEND_URL", &cfg.FrontendURL)
	setString("BOOKSHOP_MINIO_ENDPOINT", &cfg.Minio.Endpoint)
	setString("BOOKSHOP_MINIO_ACCESS_KEY", &cfg.Minio.AccessKey)
	setString("BOOKSHOP_MINIO_SECRET_KEY", &cfg.Minio.SecretKey)
	setString("BOOKSHOP_MINIO_BUCKET", &cfg.Minio.Bucket)
	setString("BOOKSHOP_SMTP_HOST", &cfg.SMTP.Host)
	setInt("BOOKSHOP_SMTP_PORT", &cfg.SMTP.Port)
	setString("BOOKSHOP_SMTP_USERNAME", &cfg.SMTP.Username)
	setString("BOOKSHOP_SMTP_PASSWORD", &cfg.SMTP.Password)
	setString("BOOKSHOP_SMTP_FROM", &cfg.SMTP.From)
}

// Validate rejects configurations the server cannot start with.
func (c Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("port %d is out of range", c.Port)
	}
	if strings.TrimSpace(c.DatabaseURL) == "" {
		return errors.New("database_url is required")
	}
	if strings.TrimSpace(c.JWTSecret) == "" {
		return errors.New("jwt_secret is required")
	}
	if c.SessionTTL <= 0 {
		return errors.New("session_ttl must be positive")
	}
	if c.AuthRateLimit < 0 {
		return errors.New("auth_rate_limit must not be negative")
	}
	if c.AuthRateLimit > 0 && c.AuthRateWindow <= 0 {
		return errors.New("auth_rate_window must be positive when throttling is on")
	}
	if c.AuthRateLimit > 0 && strings.TrimSpace(c.RedisAddr) == "" {
		return errors.New("redis_addr is required when throttling is on")
	}
	if c.MaxUploadBytes <= 0 {
		return errors.New("max_upload_bytes must be positive")
	}
	if c.RequestTimeout <= 0 {
		return errors.New("request_timeout must be positive")
	}
	return nil
}

// SMTPConfigured reports whether outgoing mail is wired.
func (c Config) SMTPConfigured() bool {
	return strings.TrimSpace(c.SMTP.Host) != "" && c.SMTP.Port > 0 && strings.TrimSpace(c.SMTP.From) != ""
}

// MinioConfigured reports whether image uploads are wired.
func (c Config) MinioConfigured() bool {
	return strings.TrimSpace(c.Minio.Endpoint) != "" && strings.TrimSpace(c.Minio.Bucket) != ""
}
