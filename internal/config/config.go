package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	JWT      JWTConfig
	Redis    RedisConfig
	Matching MatchingConfig
	Log      LogConfig
}

type AppConfig struct {
	AppName     string
	Environment string
	HTTPPort    string
}

type DatabaseConfig struct {
	DBHost     string
	DBPort     string
	DBName     string
	DBUser     string
	DBPassword string
	DBSSLMode  string

	ConnectTimeout        time.Duration
	PoolMaxConns          int32
	PoolMinConns          int32
	PoolMaxConnLifetime   time.Duration
	PoolMaxConnIdleTime   time.Duration
	PoolHealthCheckPeriod time.Duration

	AutoMigrate bool
	SeedCatalog bool
}

type JWTConfig struct {
	AccessSecret     string
	RefreshSecret    string
	AccessExpiresIn  time.Duration
	RefreshExpiresIn time.Duration
}

type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     string
	Password string
	DB       int
	TTL      time.Duration
}

// MatchingConfig controls the common-interests feed.
type MatchingConfig struct {
	PageSize int
}

type LogConfig struct {
	Mode string
}

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

var (
	errMissingRequiredEnv = errors.New("missing required environment variables")
	errInvalidEnv         = errors.New("invalid environment variables")
)

// Load reads the process environment. Keys are matched case-insensitively,
// so HTTP_PORT and http_port are the same setting.
func Load() (Config, error) {
	k := koanf.New(".")
	if err := k.Load(env.Provider("", ".", strings.ToLower), nil); err != nil {
		return Config{}, fmt.Errorf("load env: %w", err)
	}
	return fromKoanf(k)
}

func fromKoanf(k *koanf.Koanf) (Config, error) {
	cfg := Config{}

	var missing []string
	var invalid []string
	req := func(key string) string {
		v := strings.TrimSpace(k.String(key))
		if v == "" {
			missing = append(missing, strings.ToUpper(key))
		}
		return v
	}
	opt := func(key, def string) string {
		v := strings.TrimSpace(k.String(key))
		if v == "" {
			return def
		}
		return v
	}
	optInt := func(key string, def int) int {
		raw := strings.TrimSpace(k.String(key))
		if raw == "" {
			return def
		}
		v, err := strconv.Atoi(raw)
		if err != nil {
			invalid = append(invalid, strings.ToUpper(key))
			return def
		}
		return v
	}
	optBool := func(key string, def bool) bool {
		raw := strings.TrimSpace(k.String(key))
		if raw == "" {
			return def
		}
		v, err := strconv.ParseBool(raw)
		if err != nil {
			invalid = append(invalid, strings.ToUpper(key))
			return def
		}
		return v
	}
	optDur := func(key string, def time.Duration) time.Duration {
		raw := strings.TrimSpace(k.String(key))
		if raw == "" {
			return def
		}
		v, err := time.ParseDuration(raw)
		if err != nil || v < 0 {
			invalid = append(invalid, strings.ToUpper(key))
			return def
		}
		return v
	}

	cfg.App = AppConfig{
		AppName:     req("app_name"),
		Environment: req("app_env"),
		HTTPPort:    req("http_port"),
	}

	cfg.Database = DatabaseConfig{
		DBHost:                opt("db_host", "localhost"),
		DBPort:                opt("db_port", "5432"),
		DBName:                opt("db_name", ""),
		DBUser:                opt("db_user", ""),
		DBPassword:            opt("db_password", ""),
		DBSSLMode:             opt("db_ssl_mode", "disable"),
		ConnectTimeout:        optDur("db_connect_timeout", 5*time.Second),
		PoolMaxConns:          int32(optInt("db_pool_max_conns", 0)),
		PoolMinConns:          int32(optInt("db_pool_min_conns", 0)),
		PoolMaxConnLifetime:   optDur("db_pool_max_conn_lifetime", 0),
		PoolMaxConnIdleTime:   optDur("db_pool_max_conn_idle_time", 0),
		PoolHealthCheckPeriod: optDur("db_pool_health_check_period", 0),
		AutoMigrate:           optBool("migrations_auto", true),
		SeedCatalog:           optBool("seed_catalog", false),
	}

	cfg.JWT = JWTConfig{
		AccessSecret:     opt("jwt_access_secret", ""),
		RefreshSecret:    opt("jwt_refresh_secret", ""),
		AccessExpiresIn:  optDur("jwt_access_expires_in", 15*time.Minute),
		RefreshExpiresIn: optDur("jwt_refresh_expires_in", 7*24*time.Hour),
	}

	cfg.Redis = RedisConfig{
		Enabled:  optBool("redis_enabled", false),
		Host:     opt("redis_host", "localhost"),
		Port:     opt("redis_port", "6379"),
		Password: opt("redis_password", ""),
		DB:       optInt("redis_db", 0),
		TTL:      optDur("redis_ttl", 10*time.Minute),
	}

	cfg.Matching = MatchingConfig{
		PageSize: optInt("matching_page_size", DefaultPageSize),
	}
	if cfg.Matching.PageSize < 1 || cfg.Matching.PageSize > MaxPageSize {
		invalid = append(invalid, "MATCHING_PAGE_SIZE")
	}

	cfg.Log = LogConfig{Mode: opt("log_mode", cfg.App.Environment)}

	if !strings.EqualFold(cfg.App.Environment, "test") {
		if cfg.JWT.AccessSecret == "" {
			missing = append(missing, "JWT_ACCESS_SECRET")
		}
		if cfg.JWT.RefreshSecret == "" {
			missing = append(missing, "JWT_REFRESH_SECRET")
		}
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("%w: %s", errMissingRequiredEnv, strings.Join(missing, ", "))
	}
	if len(invalid) > 0 {
		return Config{}, fmt.Errorf("%w: %s", errInvalidEnv, strings.Join(invalid, ", "))
	}

	return cfg, nil
}
