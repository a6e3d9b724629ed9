package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadAppliesFileAndDefaults(t *testing.T) {
	path := writeConfigFile(t, `
port: 9090
database_url: postgres://localhost/bookshop
jwt_secret: super-secret
redis_addr: localhost:6379
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Port != 9090 {
		t.Errorf("port = %d, want 9090", cfg.Port)
	}
	if cfg.SessionTTL != 7*24*time.Hour {
		t.Errorf("session ttl default = %v", cfg.SessionTTL)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("log level default = %q", cfg.LogLevel)
	}
	if cfg.MaxUploadBytes != 8<<20 {
		t.Errorf("max upload default = %d", cfg.MaxUploadBytes)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	path := writeConfigFile(t, `
database_url: postgres://localhost/bookshop
jwt_secret: from-file
redis_addr: localhost:6379
`)
	t.Setenv("BOOKSHOP_JWT_SECRET", "from-env")
	t.Setenv("BOOKSHOP_PORT", "7070")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.JWTSecret != "from-env" {
		t.Errorf("jwt secret = %q, want env override", cfg.JWTSecret)
	}
	if cfg.Port != 7070 {
		t.Errorf("port = %d, want env override 7070", cfg.Port)
	}
}

func TestValidate(t *testing.T) {
	base := Default()
	base.DatabaseURL = "postgres://localhost/bookshop"
	base.JWTSecret = "secret"
	base.RedisAddr = "localhost:6379"
	if err := base.Validate(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}

	noDB := base
	noDB.DatabaseURL = ""
	if err := noDB.Validate(); err == nil {
		t.Error("missing database_url must be rejected")
	}

	noSecret := base
	noSecret.JWTSecret = "  "
	if err := noSecret.Validate(); err == nil {
		t.Error("blank jwt_secret must be rejected")
	}

	badPort := base
	badPort.Port = 0
	if err := badPort.Validate(); err == nil {
		t.Error("port 0 must be rejected")
	}

	throttleNoRedis := base
	throttleNoRedis.RedisAddr = ""
	if err := throttleNoRedis.Validate(); err == nil {
		t.Error("throttling without redis must be rejected")
	}

	noThrottle := base
	noThrottle.AuthRateLimit = 0
	noThrottle.RedisAddr = ""
	if err := noThrottle.Validate(); err != nil {
		t.Errorf("throttling off should not require redis: %v", err)
	}
}
