package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	id "coinscious/pkg/domain"
	dErrors "coinscious/pkg/domain-errors"
)

// Config is the full service configuration, built from environment
// variables so main stays lean.
type Config struct {
	Server   ServerConfig
	Postgres PostgresConfig
	Redis    RedisConfig
	Kafka    KafkaConfig
	Auth     AuthConfig
	Genesis  GenesisConfig
}

// ServerConfig captures HTTP server level configuration.
type ServerConfig struct {
	Addr            string
	ShutdownTimeout time.Duration
}

// PostgresConfig selects the persistence backend. An empty DSN runs the
// service on in-memory stores.
type PostgresConfig struct {
	DSN string
}

// RedisConfig configures the optional snapshot cache. An empty URL
// disables Redis.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// KafkaConfig configures the optional audit stream mirror. No brokers
// disables the mirror.
type KafkaConfig struct {
	Brokers []string
	Topic   string
}

// AuthConfig carries the JWT signing key for caller identity and the
// bcrypt hash of the export token for the audit endpoint.
type AuthConfig struct {
	JWTSigningKey   string
	ExportTokenHash string
}

// GenesisConfig seeds the initial role assignments. All three are required:
// a ledger with no admin, oracle, or controller can never mutate anything.
type GenesisConfig struct {
	Admin      id.WalletAddress
	Oracle     id.WalletAddress
	Controller id.WalletAddress
}

// Load builds a Config from environment variables.
func Load() (Config, error) {
	cfg := Config{
		Server: ServerConfig{
			Addr:            envOr("COINSCIOUS_ADDR", ":8080"),
			ShutdownTimeout: envDurationOr("COINSCIOUS_SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		Postgres: PostgresConfig{
			DSN: os.Getenv("COINSCIOUS_POSTGRES_DSN"),
		},
		Redis: RedisConfig{
			URL:          os.Getenv("COINSCIOUS_REDIS_URL"),
			PoolSize:     envIntOr("COINSCIOUS_REDIS_POOL_SIZE", 10),
			MinIdleConns: envIntOr("COINSCIOUS_REDIS_MIN_IDLE", 2),
			DialTimeout:  envDurationOr("COINSCIOUS_REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  envDurationOr("COINSCIOUS_REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: envDurationOr("COINSCIOUS_REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		Kafka: KafkaConfig{
			Brokers: splitList(os.Getenv("COINSCIOUS_KAFKA_BROKERS")),
			Topic:   envOr("COINSCIOUS_KAFKA_AUDIT_TOPIC", "coinscious.audit.events"),
		},
		Auth: AuthConfig{
			JWTSigningKey:   os.Getenv("COINSCIOUS_JWT_SIGNING_KEY"),
			ExportTokenHash: os.Getenv("COINSCIOUS_EXPORT_TOKEN_HASH"),
		},
	}

	if cfg.Auth.JWTSigningKey == "" {
		return Config{}, dErrors.New(dErrors.CodeInvalidInput, "COINSCIOUS_JWT_SIGNING_KEY is required")
	}

	var err error
	if cfg.Genesis.Admin, err = envWallet("COINSCIOUS_GENESIS_ADMIN"); err != nil {
		return Config{}, err
	}
	if cfg.Genesis.Oracle, err = envWallet("COINSCIOUS_GENESIS_ORACLE"); err != nil {
		return Config{}, err
	}
	if cfg.Genesis.Controller, err = envWallet("COINSCIOUS_GENESIS_CONTROLLER"); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envDurationOr(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func envWallet(key string) (id.WalletAddress, error) {
	v := os.Getenv(key)
	if v == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, key+" is required")
	}
	wallet, err := id.ParseWalletAddress(v)
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInvalidInput, key+" is not a valid wallet address")
	}
	return wallet, nil
}

func splitList(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
