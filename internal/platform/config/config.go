package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config captures everything the server needs from the environment. Optional
// backends (Postgres, Redis, Kafka) fall back to in-memory implementations
// when their settings are empty, so a bare `go run` works for development.
type Config struct {
	Addr string `env:"EMANIFEST_ADDR" envDefault:":8080"`

	PostgresDSN string `env:"EMANIFEST_POSTGRES_DSN"`
	RedisURL    string `env:"EMANIFEST_REDIS_URL"`

	KafkaBrokers []string `env:"EMANIFEST_KAFKA_BROKERS" envSeparator:","`
	AuditTopic   string   `env:"EMANIFEST_AUDIT_TOPIC" envDefault:"emanifest.audit"`
	AuditBuffer  int      `env:"EMANIFEST_AUDIT_BUFFER" envDefault:"256"`

	WasteCodeCacheTTL time.Duration `env:"EMANIFEST_WASTE_CODE_TTL" envDefault:"5m"`
	RequestTimeout    time.Duration `env:"EMANIFEST_REQUEST_TIMEOUT" envDefault:"30s"`
	ShutdownTimeout   time.Duration `env:"EMANIFEST_SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

// FromEnv parses the configuration so main stays lean.
func FromEnv() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
