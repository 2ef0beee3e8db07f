package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

const minSecretLength = 32

var placeholderSecrets = map[string]struct{}{
	"change_me_in_production": {},
	"changeme":                {},
	"secret":                  {},
}

type Config struct {
	Server   ServerConfig   `toml:"server"`
	Database DatabaseConfig `toml:"database"`
	Auth     AuthConfig     `toml:"auth"`
	Log      LogConfig      `toml:"log"`
	Metrics  MetricsConfig  `toml:"metrics"`
}

type ServerConfig struct {
	Port             string   `toml:"port"`
	CORSAllowOrigins []string `toml:"cors_allow_origins"`
	ShutdownTimeout  Duration `toml:"shutdown_timeout"`
}

// DatabaseConfig selects the store. URL wins over Path when both are set.
type DatabaseConfig struct {
	URL  string `toml:"url"`
	Path string `toml:"path"`
}

type AuthConfig struct {
	Secret   string   `toml:"secret"`
	TokenTTL Duration `toml:"token_ttl"`
}

type LogConfig struct {
	Mode      string `toml:"mode"`
	Redaction bool   `toml:"redaction"`
	HashSalt  string `toml:"hash_salt"`
}

type MetricsConfig struct {
	Enabled bool `toml:"enabled"`
}

// Duration decodes TOML strings such as "10s" or "168h".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(strings.TrimSpace(string(text)))
	if err != nil {
		return err
	}
	d.Duration = parsed
	return nil
}

func Default() Config {
	return Config{
		Server: ServerConfig{
			Port:            "8080",
			ShutdownTimeout: Duration{10 * time.Second},
		},
		Database: DatabaseConfig{
			Path: filepath.Join("data", "askesis.db"),
		},
		Auth: AuthConfig{
			TokenTTL: Duration{7 * 24 * time.Hour},
		},
		Log: LogConfig{
			Mode:      "dev",
			Redaction: true,
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
	}
}

// Load applies defaults, then the TOML file at path (when non-empty), then
// environment overrides.
func Load(path string) (Config, error) {
	cfg := Default()

	path = strings.TrimSpace(path)
	if path == "" {
		path = strings.TrimSpace(os.Getenv("ASKESIS_CONFIG"))
	}
	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return Config{}, fmt.Errorf("decode config %s: %w", path, err)
		}
	}

	if err := applyEnv(&cfg, os.LookupEnv); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	if value, ok := lookupTrimmed(lookup, "PORT"); ok {
		cfg.Server.Port = value
	}
	if value, ok := lookupTrimmed(lookup, "CORS_ALLOW_ORIGINS"); ok {
		cfg.Server.CORSAllowOrigins = splitList(value)
	}
	if value, ok := lookupTrimmed(lookup, "DATABASE_URL"); ok {
		cfg.Database.URL = value
	}
	if value, ok := lookupTrimmed(lookup, "DB_PATH"); ok {
		cfg.Database.Path = value
	}
	if value, ok := lookupTrimmed(lookup, "NEXTAUTH_SECRET"); ok {
		cfg.Auth.Secret = value
	}
	if value, ok := lookupTrimmed(lookup, "AUTH_SECRET"); ok {
		cfg.Auth.Secret = value
	}
	if value, ok := lookupTrimmed(lookup, "AUTH_TOKEN_TTL"); ok {
		parsed, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("parse AUTH_TOKEN_TTL: %w", err)
		}
		cfg.Auth.TokenTTL = Duration{parsed}
	}
	if value, ok := lookupTrimmed(lookup, "LOG_MODE"); ok {
		cfg.Log.Mode = value
	}
	if value, ok := lookupTrimmed(lookup, "LOG_REDACTION_ENABLED"); ok {
		cfg.Log.Redaction = parseFlag(value)
	}
	if value, ok := lookupTrimmed(lookup, "LOG_HASH_SALT"); ok {
		cfg.Log.HashSalt = value
	}
	if value, ok := lookupTrimmed(lookup, "METRICS_ENABLED"); ok {
		cfg.Metrics.Enabled = parseFlag(value)
	}
	return nil
}

func (cfg Config) Validate() error {
	secret := strings.TrimSpace(cfg.Auth.Secret)
	if secret == "" {
		return errors.New("auth secret is required (AUTH_SECRET or NEXTAUTH_SECRET)")
	}
	if _, placeholder := placeholderSecrets[strings.ToLower(secret)]; placeholder {
		return errors.New("auth secret must not be a placeholder value")
	}
	if len(secret) < minSecretLength {
		return fmt.Errorf("auth secret must be at least %d characters", minSecretLength)
	}
	if _, err := strconv.Atoi(cfg.Server.Port); err != nil {
		return fmt.Errorf("invalid port %q", cfg.Server.Port)
	}
	if cfg.Database.URL == "" && strings.TrimSpace(cfg.Database.Path) == "" {
		return errors.New("database url or path is required")
	}
	if cfg.Auth.TokenTTL.Duration <= 0 {
		return errors.New("auth token ttl must be positive")
	}
	return nil
}

// DatabaseTarget returns the value handed to db.Open.
func (cfg Config) DatabaseTarget() string {
	if cfg.Database.URL != "" {
		return cfg.Database.URL
	}
	return cfg.Database.Path
}

func lookupTrimmed(lookup func(string) (string, bool), key string) (string, bool) {
	value, ok := lookup(key)
	if !ok {
		return "", false
	}
	value = strings.TrimSpace(value)
	return value, value != ""
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	values := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			values = append(values, trimmed)
		}
	}
	return values
}

func parseFlag(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "0", "false", "no", "off":
		return false
	default:
		return true
	}
}
