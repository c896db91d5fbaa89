package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
	StoreRedis    = "redis"
)

type HTTPConfig struct {
	Host           string
	Port           int
	AllowedOrigins []string
}

type DBConfig struct {
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

type AuthConfig struct {
	AccessSecret string
}

type CatalogConfig struct {
	Dir string
}

type SessionConfig struct {
	Store           string
	Retention       time.Duration
	CleanupSchedule string
}

type Config struct {
	Environment string
	HTTP        HTTPConfig
	DB          DBConfig
	Redis       RedisConfig
	Auth        AuthConfig
	Catalog     CatalogConfig
	Session     SessionConfig
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("app")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("./deploy")
	v.AddConfigPath("./internal/config")
	v.AutomaticEnv()

	_ = v.ReadInConfig()

	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Environment: v.GetString("APP_ENV"),
		HTTP: HTTPConfig{
			Host:           v.GetString("HTTP_HOST"),
			Port:           v.GetInt("HTTP_PORT"),
			AllowedOrigins: parseList(v.GetString("CORS_ALLOWED_ORIGINS")),
		},
		DB: DBConfig{
			DSN:             v.GetString("DB_DSN"),
			MaxOpenConns:    v.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns:    v.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: v.GetString("DB_CONN_MAX_LIFETIME"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("REDIS_ADDR"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
			TTL:      v.GetDuration("REDIS_TTL"),
		},
		Auth: AuthConfig{
			AccessSecret: v.GetString("JWT_ACCESS_SECRET"),
		},
		Catalog: CatalogConfig{
			Dir: v.GetString("CATALOG_DIR"),
		},
		Session: SessionConfig{
			Store:           strings.ToLower(strings.TrimSpace(v.GetString("STORE_DRIVER"))),
			Retention:       v.GetDuration("SESSION_RETENTION"),
			CleanupSchedule: v.GetString("CLEANUP_SCHEDULE"),
		},
	}

	if cfg.Environment == "" {
		cfg.Environment = "development"
	}
	if cfg.HTTP.Host == "" {
		cfg.HTTP.Host = "0.0.0.0"
	}
	if cfg.HTTP.Port == 0 {
		cfg.HTTP.Port = 7090
	}
	if len(cfg.HTTP.AllowedOrigins) == 0 {
		cfg.HTTP.AllowedOrigins = []string{"*"}
	}
	if cfg.Session.Store == "" {
		cfg.Session.Store = StoreMemory
	}
	if cfg.Session.Retention == 0 {
		cfg.Session.Retention = 7 * 24 * time.Hour
	}
	if cfg.Session.CleanupSchedule == "" {
		cfg.Session.CleanupSchedule = "@hourly"
	}
	if cfg.Redis.TTL == 0 {
		cfg.Redis.TTL = cfg.Session.Retention
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func validate(cfg *Config) error {
	switch cfg.Session.Store {
	case StoreMemory:
	case StorePostgres:
		if cfg.DB.DSN == "" {
			return fmt.Errorf("DB_DSN is required for STORE_DRIVER=%s", StorePostgres)
		}
	case StoreRedis:
		if cfg.Redis.Addr == "" {
			return fmt.Errorf("REDIS_ADDR is required for STORE_DRIVER=%s", StoreRedis)
		}
	default:
		return fmt.Errorf("unsupported STORE_DRIVER %q", cfg.Session.Store)
	}
	if cfg.Auth.AccessSecret == "" {
		return fmt.Errorf("JWT_ACCESS_SECRET is required")
	}
	return nil
}

func parseList(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	items := strings.Split(raw, ",")
	result := make([]string, 0, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item != "" {
			result = append(result, item)
		}
	}
	return result
}
