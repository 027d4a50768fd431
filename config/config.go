package config

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config хранит все конфигурационные параметры приложения.
type Config struct {
	ServerPort  int    `koanf:"server_port"`
	DatabaseURL string `koanf:"database_url"`
	LogLevel    string `koanf:"log_level"`

	// RedisURL is optional; without it dashboard stats are not cached.
	RedisURL          string        `koanf:"redis_url"`
	DashboardCacheTTL time.Duration `koanf:"dashboard_cache_ttl"`

	S3Endpoint        string `koanf:"s3_endpoint"`
	S3Region          string `koanf:"s3_region"`
	S3AccessKeyID     string `koanf:"s3_access_key_id"`
	S3SecretAccessKey string `koanf:"s3_secret_access_key"`
	S3Bucket          string `koanf:"s3_bucket"`
	S3PublicBaseURL   string `koanf:"s3_public_base_url"`

	CORSAllowedOrigins []string `koanf:"cors_allowed_origins"`
	StatusSchedule     string   `koanf:"status_schedule"`
	MigrateOnStart     bool     `koanf:"migrate_on_start"`
}

// Default returns the configuration used when nothing overrides it.
func Default() Config {
	return Config{
		ServerPort:         8080,
		LogLevel:           "info",
		DashboardCacheTTL:  time.Minute,
		S3Region:           "auto",
		CORSAllowedOrigins: []string{"*"},
		StatusSchedule:     "@every 1m",
		MigrateOnStart:     true,
	}
}

// StorageEnabled reports whether all object storage settings are present.
func (c *Config) StorageEnabled() bool {
	return c.S3AccessKeyID != "" && c.S3SecretAccessKey != "" && c.S3Bucket != "" && c.S3PublicBaseURL != ""
}

// Load загружает конфигурацию: значения по умолчанию, затем YAML файл из
// CONFIG_FILE (если задан), затем переменные окружения.
// Опционально подгружает .env файл (полезно для локальной разработки).
func Load() (*Config, error) {
	_ = godotenv.Load()

	k := koanf.New(".")

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	// DATABASE_URL -> database_url; остальные переменные окружения игнорируются
	if err := k.Load(env.ProviderWithValue("", ".", envValue), nil); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}

	cfg := Default()
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("failed to decode configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// listKeys are comma separated in the environment.
var listKeys = map[string]bool{"cors_allowed_origins": true}

// envValue maps an environment variable onto a config key. Variables that do
// not name a Config field are skipped.
func envValue(name, value string) (string, interface{}) {
	key := strings.ToLower(name)
	if !knownKeys[key] {
		return "", nil
	}
	if listKeys[key] {
		return key, splitList(value)
	}
	return key, value
}

func splitList(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

var knownKeys = func() map[string]bool {
	keys := make(map[string]bool)
	t := reflect.TypeOf(Config{})
	for i := 0; i < t.NumField(); i++ {
		if tag := t.Field(i).Tag.Get("koanf"); tag != "" {
			keys[tag] = true
		}
	}
	return keys
}()

func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return errors.New("DATABASE_URL environment variable is not set")
	}
	if c.ServerPort <= 0 || c.ServerPort > 65535 {
		return fmt.Errorf("SERVER_PORT must be between 1 and 65535, got %d", c.ServerPort)
	}
	if c.DashboardCacheTTL < 0 {
		return fmt.Errorf("DASHBOARD_CACHE_TTL must not be negative, got %s", c.DashboardCacheTTL)
	}
	if c.StatusSchedule == "" {
		return errors.New("STATUS_SCHEDULE must not be empty")
	}
	return nil
}
