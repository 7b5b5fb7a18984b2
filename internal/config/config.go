package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/Kilat-Pet-Delivery/service-guesthouse/pkg/config"
)

// Booking store drivers.
const (
	StoreGorm = "gorm"
	StoreCSV  = "csv"
)

// ServiceConfig holds all configuration for the guesthouse service.
type ServiceConfig struct {
	Port        string
	AppEnv      string
	DBConfig    config.DatabaseConfig
	KafkaConfig config.KafkaConfig
	RedisConfig config.RedisConfig

	RecommendCacheTTL time.Duration
	RecommendLimit    int

	StoreDriver   string
	CSVDir        string
	MigrationsDir string
	Seed          bool

	RateLimitPerMinute int
	RateLimitBurst     int
}

// Load reads configuration from environment variables.
func Load() (*ServiceConfig, error) {
	v, err := config.Load("GUESTHOUSE")
	if err != nil {
		return nil, err
	}

	v.SetDefault("DB_NAME", "guesthouse")
	v.SetDefault("RECOMMEND_CACHE_TTL", "5m")
	v.SetDefault("RECOMMEND_LIMIT", 5)
	v.SetDefault("STORE_DRIVER", StoreGorm)
	v.SetDefault("CSV_DIR", "data")
	v.SetDefault("MIGRATIONS_DIR", "migrations")
	v.SetDefault("SEED", true)
	v.SetDefault("RATE_LIMIT_PER_MINUTE", 120)
	v.SetDefault("RATE_LIMIT_BURST", 20)

	cfg := &ServiceConfig{
		Port:               config.GetServicePort(v, "SERVICE_PORT"),
		AppEnv:             config.GetAppEnv(v),
		DBConfig:           config.LoadDatabaseConfig(v, "DB_NAME"),
		KafkaConfig:        config.LoadKafkaConfig(v),
		RedisConfig:        config.LoadRedisConfig(v),
		RecommendCacheTTL:  v.GetDuration("RECOMMEND_CACHE_TTL"),
		RecommendLimit:     v.GetInt("RECOMMEND_LIMIT"),
		StoreDriver:        strings.ToLower(v.GetString("STORE_DRIVER")),
		CSVDir:             v.GetString("CSV_DIR"),
		MigrationsDir:      v.GetString("MIGRATIONS_DIR"),
		Seed:               v.GetBool("SEED"),
		RateLimitPerMinute: v.GetInt("RATE_LIMIT_PER_MINUTE"),
		RateLimitBurst:     v.GetInt("RATE_LIMIT_BURST"),
	}

	if cfg.StoreDriver != StoreGorm && cfg.StoreDriver != StoreCSV {
		return nil, fmt.Errorf("GUESTHOUSE_STORE_DRIVER must be %q or %q, got %q", StoreGorm, StoreCSV, cfg.StoreDriver)
	}
	if cfg.RecommendLimit < 0 {
		return nil, fmt.Errorf("GUESTHOUSE_RECOMMEND_LIMIT cannot be negative")
	}
	return cfg, nil
}
