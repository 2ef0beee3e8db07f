package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func envLookup(values map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		value, ok := values[key]
		return value, ok
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Server.Port != "8080" {
		t.Errorf("Server.Port = %q, want %q", cfg.Server.Port, "8080")
	}
	if cfg.Database.Path != filepath.Join("data", "askesis.db") {
		t.Errorf("Database.Path = %q", cfg.Database.Path)
	}
	if cfg.Auth.TokenTTL.Duration != 7*24*time.Hour {
		t.Errorf("Auth.TokenTTL = %s, want 168h", cfg.Auth.TokenTTL.Duration)
	}
	if !cfg.Log.Redaction || !cfg.Metrics.Enabled {
		t.Error("redaction and metrics should be on by default")
	}
}

func TestLoadReadsTOMLThenEnvironment(t *testing.T) {
	path := filepath.Join(t.TempDir(), "askesis.toml")
	contents := `
[server]
port = "9090"
cors_allow_origins = ["https://app.example.com"]
shutdown_timeout = "3s"

[database]
url = "postgres://askesis@localhost/askesis"

[auth]
secret = "` + testSecret + `"
token_ttl = "1h"

[log]
mode = "prod"
`
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("PORT", "7070")
	t.Setenv("AUTH_SECRET", "")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}
	if cfg.Server.Port != "7070" {
		t.Errorf("Server.Port = %q, want env override 7070", cfg.Server.Port)
	}
	if cfg.Server.ShutdownTimeout.Duration != 3*time.Second {
		t.Errorf("ShutdownTimeout = %s, want 3s", cfg.Server.ShutdownTimeout.Duration)
	}
	if len(cfg.Server.CORSAllowOrigins) != 1 || cfg.Server.CORSAllowOrigins[0] != "https://app.example.com" {
		t.Errorf("CORSAllowOrigins = %v", cfg.Server.CORSAllowOrigins)
	}
	if cfg.DatabaseTarget() != "postgres://askesis@localhost/askesis" {
		t.Errorf("DatabaseTarget() = %q", cfg.DatabaseTarget())
	}
	if cfg.Auth.Secret != testSecret || cfg.Auth.TokenTTL.Duration != time.Hour {
		t.Errorf("Auth = %+v", cfg.Auth)
	}
	if cfg.Log.Mode != "prod" {
		t.Errorf("Log.Mode = %q, want prod", cfg.Log.Mode)
	}
}

func TestApplyEnvPrefersAuthSecretOverNextAuthSecret(t *testing.T) {
	cfg := Default()
	err := applyEnv(&cfg, envLookup(map[string]string{
		"NEXTAUTH_SECRET":       "legacy-secret",
		"AUTH_SECRET":           testSecret,
		"CORS_ALLOW_ORIGINS":    "https://a.example, ,https://b.example",
		"METRICS_ENABLED":       "off",
		"LOG_REDACTION_ENABLED": "0",
		"AUTH_TOKEN_TTL":        "30m",
	}))
	if err != nil {
		t.Fatalf("applyEnv() unexpected error: %v", err)
	}
	if cfg.Auth.Secret != testSecret {
		t.Errorf("Auth.Secret = %q, want AUTH_SECRET value", cfg.Auth.Secret)
	}
	if strings.Join(cfg.Server.CORSAllowOrigins, "|") != "https://a.example|https://b.example" {
		t.Errorf("CORSAllowOrigins = %v", cfg.Server.CORSAllowOrigins)
	}
	if cfg.Metrics.Enabled || cfg.Log.Redaction {
		t.Error("expected metrics and redaction disabled by env")
	}
	if cfg.Auth.TokenTTL.Duration != 30*time.Minute {
		t.Errorf("TokenTTL = %s, want 30m", cfg.Auth.TokenTTL.Duration)
	}

	if err := applyEnv(&cfg, envLookup(map[string]string{"AUTH_TOKEN_TTL": "soon"})); err == nil {
		t.Error("expected invalid AUTH_TOKEN_TTL to fail")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "valid", mutate: func(cfg *Config) {}},
		{name: "missing secret", mutate: func(cfg *Config) { cfg.Auth.Secret = "" }, wantErr: true},
		{name: "placeholder secret", mutate: func(cfg *Config) { cfg.Auth.Secret = "change_me_in_production" }, wantErr: true},
		{name: "short secret", mutate: func(cfg *Config) { cfg.Auth.Secret = "short" }, wantErr: true},
		{name: "bad port", mutate: func(cfg *Config) { cfg.Server.Port = "http" }, wantErr: true},
		{name: "no database", mutate: func(cfg *Config) { cfg.Database.Path = "" }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			cfg.Auth.Secret = testSecret
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr && err == nil {
				t.Fatal("expected validation error")
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("unexpected validation error: %v", err)
			}
		})
	}
}
