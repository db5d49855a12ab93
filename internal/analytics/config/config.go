// Package config loads the analytics module configuration from the
// environment.
package config

import (
	"errors"
	"net"

	"github.com/caarlos0/env/v6"
)

// RedisConfig holds the connection settings of the install audit trail.
type RedisConfig struct {
	Host            string `env:"REDIS_HOST" envDefault:"localhost"`
	Port            string `env:"REDIS_PORT" envDefault:"6379"`
	Password        string `env:"REDIS_PASSWORD" envDefault:""`
	Database        int    `env:"REDIS_DATABASE" envDefault:"0"`
	MaxRetries      int    `env:"REDIS_MAX_RETRIES" envDefault:"3"`
	PoolSize        int    `env:"REDIS_POOL_SIZE" envDefault:"10"`
	MinIdleConns    int    `env:"REDIS_MIN_IDLE_CONNS" envDefault:"2"`
	EnableTLS       bool   `env:"REDIS_ENABLE_TLS" envDefault:"false"`
	ConnMaxIdleTime string `env:"REDIS_CONN_MAX_IDLE_TIME" envDefault:"30m"`
	ConnMaxLifetime string `env:"REDIS_CONN_MAX_LIFETIME" envDefault:"1h"`
}

// GetAddr returns the host:port address of the Redis server.
func (c *RedisConfig) GetAddr() string {
	return net.JoinHostPort(c.Host, c.Port)
}

// AnalyticsConfig holds all configuration for the analytics module.
type AnalyticsConfig struct {
	MongoDBURI     string `env:"MONGODB_URI"`
	DatabasePrefix string `env:"DB_PREFIX" envDefault:"analytics_project_"`

	// CustomPagesEnabled toggles the custom page feature. Installing a
	// recipe that carries pages fails on a deployment with it off.
	CustomPagesEnabled bool `env:"CUSTOM_PAGES_ENABLED" envDefault:"true"`

	// AuditTrailEnabled toggles the Redis-backed install history.
	AuditTrailEnabled bool `env:"AUDIT_TRAIL_ENABLED" envDefault:"false"`

	Redis RedisConfig
}

// LoadConfig loads configuration from environment variables and applies
// defaults.
func LoadConfig() (*AnalyticsConfig, error) {
	cfg := &AnalyticsConfig{}

	if err := env.Parse(cfg); err != nil {
		return nil, errors.New("failed to load analytics configuration from environment: " + err.Error())
	}
	if err := env.Parse(&cfg.Redis); err != nil {
		return nil, errors.New("failed to load redis configuration from environment: " + err.Error())
	}

	if cfg.MongoDBURI == "" {
		return nil, errors.New("MONGODB_URI environment variable is not set")
	}
	return cfg, nil
}

// DefaultAnalyticsConfig returns a configuration suitable for local
// development.
func DefaultAnalyticsConfig() *AnalyticsConfig {
	return &AnalyticsConfig{
		MongoDBURI:         "mongodb://localhost:27017",
		DatabasePrefix:     "analytics_project_",
		CustomPagesEnabled: true,
		Redis: RedisConfig{
			Host:            "localhost",
			Port:            "6379",
			MaxRetries:      3,
			PoolSize:        10,
			MinIdleConns:    2,
			ConnMaxIdleTime: "30m",
			ConnMaxLifetime: "1h",
		},
	}
}
