// Package config loads process configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"

	"idlink/internal/ratelimit/models"
	pstrings "idlink/pkg/platform/strings"
)

// Server captures everything cmd/server needs to wire the process.
type Server struct {
	Addr     string `env:"IDLINK_ADDR" envDefault:":8080"`
	LogLevel string `env:"IDLINK_LOG_LEVEL" envDefault:"info"`
	// LogFormat is "json" or "text".
	LogFormat       string        `env:"IDLINK_LOG_FORMAT" envDefault:"json"`
	ShutdownTimeout time.Duration `env:"IDLINK_SHUTDOWN_TIMEOUT" envDefault:"10s"`

	Database  DatabaseConfig
	Redis     RedisConfig
	Kafka     KafkaConfig
	Auth      AuthConfig
	Signal    SignalConfig
	RateLimit RateLimitConfig
}

// DatabaseConfig selects the identity store. An empty URL runs the in-memory store.
type DatabaseConfig struct {
	URL             string        `env:"IDLINK_DATABASE_URL"`
	MaxOpenConns    int           `env:"IDLINK_DATABASE_MAX_OPEN_CONNS" envDefault:"20"`
	MaxIdleConns    int           `env:"IDLINK_DATABASE_MAX_IDLE_CONNS" envDefault:"5"`
	ConnMaxLifetime time.Duration `env:"IDLINK_DATABASE_CONN_MAX_LIFETIME" envDefault:"30m"`
	TxTimeout       time.Duration `env:"IDLINK_DATABASE_TX_TIMEOUT" envDefault:"5s"`
	AutoMigrate     bool          `env:"IDLINK_DATABASE_AUTO_MIGRATE" envDefault:"true"`
}

// RedisConfig backs the link-code store. An empty URL keeps codes in memory.
type RedisConfig struct {
	URL          string        `env:"IDLINK_REDIS_URL"`
	PoolSize     int           `env:"IDLINK_REDIS_POOL_SIZE" envDefault:"10"`
	MinIdleConns int           `env:"IDLINK_REDIS_MIN_IDLE_CONNS" envDefault:"2"`
	DialTimeout  time.Duration `env:"IDLINK_REDIS_DIAL_TIMEOUT" envDefault:"5s"`
	ReadTimeout  time.Duration `env:"IDLINK_REDIS_READ_TIMEOUT" envDefault:"3s"`
	WriteTimeout time.Duration `env:"IDLINK_REDIS_WRITE_TIMEOUT" envDefault:"3s"`
}

// KafkaConfig drives the audit outbox relay. No brokers disables the relay.
type KafkaConfig struct {
	Brokers           []string      `env:"IDLINK_KAFKA_BROKERS" envSeparator:","`
	Topic             string        `env:"IDLINK_KAFKA_TOPIC" envDefault:"idlink.audit"`
	Partitions        int32         `env:"IDLINK_KAFKA_PARTITIONS" envDefault:"6"`
	ReplicationFactor int16         `env:"IDLINK_KAFKA_REPLICATION_FACTOR" envDefault:"1"`
	RelayInterval     time.Duration `env:"IDLINK_OUTBOX_INTERVAL" envDefault:"1s"`
	RelayBatchSize    int           `env:"IDLINK_OUTBOX_BATCH_SIZE" envDefault:"100"`
}

// AuthConfig holds credentials for the two caller classes: trusted
// collaborators (service token) and signed-in people (session JWT).
type AuthConfig struct {
	// ServiceTokenHash is a bcrypt hash of the collaborator bearer token.
	ServiceTokenHash string `env:"IDLINK_SERVICE_TOKEN_HASH"`
	JWTSigningKey    string `env:"IDLINK_JWT_SIGNING_KEY"`
	JWTIssuer        string `env:"IDLINK_JWT_ISSUER" envDefault:"idlink"`
}

// SignalConfig holds the salts for one-way device and phone hashes.
type SignalConfig struct {
	DeviceSalt string `env:"IDLINK_DEVICE_SALT"`
	PhoneSalt  string `env:"IDLINK_PHONE_SALT"`
}

// RateLimitConfig bounds the self-service link routes per person. Issue and
// claim share one budget so codes cannot be brute-forced from either side.
type RateLimitConfig struct {
	LinkRequests int           `env:"IDLINK_RATELIMIT_LINK_REQUESTS" envDefault:"10"`
	LinkWindow   time.Duration `env:"IDLINK_RATELIMIT_LINK_WINDOW" envDefault:"15m"`
}

// Link returns the link-route budget.
func (c RateLimitConfig) Link() models.Limit {
	return models.Limit{Requests: c.LinkRequests, Window: c.LinkWindow}
}

// FromEnv parses and validates the Server configuration.
func FromEnv() (Server, error) {
	var cfg Server
	if err := env.Parse(&cfg); err != nil {
		return Server{}, fmt.Errorf("parse env: %w", err)
	}
	cfg.Kafka.Brokers = pstrings.DedupeHosts(cfg.Kafka.Brokers)
	if err := cfg.Validate(); err != nil {
		return Server{}, err
	}
	return cfg, nil
}

// Validate rejects configurations that would start an insecure or unusable process.
func (c Server) Validate() error {
	var errs []error
	if c.Auth.ServiceTokenHash == "" {
		errs = append(errs, errors.New("IDLINK_SERVICE_TOKEN_HASH is required"))
	}
	if len(c.Auth.JWTSigningKey) < 32 {
		errs = append(errs, errors.New("IDLINK_JWT_SIGNING_KEY must be at least 32 bytes"))
	}
	if c.Signal.DeviceSalt == "" || c.Signal.PhoneSalt == "" {
		errs = append(errs, errors.New("IDLINK_DEVICE_SALT and IDLINK_PHONE_SALT are required"))
	}
	if c.LogFormat != "json" && c.LogFormat != "text" {
		errs = append(errs, fmt.Errorf("IDLINK_LOG_FORMAT must be json or text, got %q", c.LogFormat))
	}
	if c.Kafka.RelayBatchSize <= 0 {
		errs = append(errs, errors.New("IDLINK_OUTBOX_BATCH_SIZE must be positive"))
	}
	if c.RateLimit.LinkRequests <= 0 || c.RateLimit.LinkWindow <= 0 {
		errs = append(errs, errors.New("IDLINK_RATELIMIT_LINK_REQUESTS and IDLINK_RATELIMIT_LINK_WINDOW must be positive"))
	}
	return errors.Join(errs...)
}

// OutboxEnabled reports whether audit events are relayed to Kafka.
func (c Server) OutboxEnabled() bool {
	return len(c.Kafka.Brokers) > 0
}
