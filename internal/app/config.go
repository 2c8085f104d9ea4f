package app

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	StorageDriverMemory   = "memory"
	StorageDriverPostgres = "postgres"

	CounterBackendAuto     = "auto"
	CounterBackendMemory   = "memory"
	CounterBackendPostgres = "postgres"
	CounterBackendRedis    = "redis"
)

// Config описывает настройки запуска сервиса.
type Config struct {
	HTTPAddr    string
	GRPCAddr    string
	MetricsAddr string

	StorageDriver       string
	PostgresDSN         string
	PostgresAutoMigrate bool
	SeedFile            string

	CounterBackend string
	RedisURL       string

	TxTimeout     time.Duration
	TxMaxAttempts int

	KafkaBrokers  string
	KafkaClientID string
	OrderTopic    string
	DLQTopic      string

	OutboxPollInterval time.Duration
	OutboxBatchSize    int
	OutboxMaxAttempts  int
	OutboxRetryDelay   time.Duration
	OutboxMaxPending   int

	IdempotencyTTL              time.Duration
	IdempotencyCleanupInterval  time.Duration
	IdempotencyCleanupBatchSize int

	OTLPEndpoint string
	OTLPInsecure bool
}

// DefaultConfig возвращает настройки для локального запуска на in-memory хранилище.
func DefaultConfig() Config {
	return Config{
		HTTPAddr:    ":8080",
		GRPCAddr:    ":50051",
		MetricsAddr: ":9090",

		StorageDriver:       StorageDriverMemory,
		PostgresAutoMigrate: true,

		CounterBackend: CounterBackendAuto,

		TxTimeout:     5 * time.Second,
		TxMaxAttempts: 5,

		KafkaClientID: "fulfillment-service",
		OrderTopic:    "fulfillment.order.events",
		DLQTopic:      "fulfillment.dlq",

		OutboxPollInterval: time.Second,
		OutboxBatchSize:    100,
		OutboxMaxAttempts:  3,
		OutboxRetryDelay:   100 * time.Millisecond,
		OutboxMaxPending:   1000,

		IdempotencyTTL:              24 * time.Hour,
		IdempotencyCleanupInterval:  time.Minute,
		IdempotencyCleanupBatchSize: 500,

		OTLPInsecure: true,
	}
}

// LoadConfig читает переменные окружения FULFILLMENT_* поверх DefaultConfig.
func LoadConfig() (Config, error) {
	return loadConfig(os.LookupEnv)
}

func loadConfig(lookup func(string) (string, bool)) (Config, error) {
	cfg := DefaultConfig()
	var errs []string

	str := func(name string, dst *string) {
		if v, ok := lookup(name); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}
	integer := func(name string, dst *int) {
		v, ok := lookup(name)
		if !ok || strings.TrimSpace(v) == "" {
			return
		}
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil || n < 0 {
			errs = append(errs, fmt.Sprintf("%s: expected non-negative integer, got %q", name, v))
			return
		}
		*dst = n
	}
	duration := func(name string, dst *time.Duration) {
		v, ok := lookup(name)
		if !ok || strings.TrimSpace(v) == "" {
			return
		}
		d, err := time.ParseDuration(strings.TrimSpace(v))
		if err != nil || d < 0 {
			errs = append(errs, fmt.Sprintf("%s: expected duration, got %q", name, v))
			return
		}
		*dst = d
	}
	boolean := func(name string, dst *bool) {
		v, ok := lookup(name)
		if !ok || strings.TrimSpace(v) == "" {
			return
		}
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			errs = append(errs, fmt.Sprintf("%s: expected bool, got %q", name, v))
			return
		}
		*dst = b
	}

	str("FULFILLMENT_HTTP_ADDR", &cfg.HTTPAddr)
	str("FULFILLMENT_GRPC_ADDR", &cfg.GRPCAddr)
	str("FULFILLMENT_METRICS_ADDR", &cfg.MetricsAddr)
	str("FULFILLMENT_STORAGE_DRIVER", &cfg.StorageDriver)
	str("FULFILLMENT_POSTGRES_DSN", &cfg.PostgresDSN)
	boolean("FULFILLMENT_POSTGRES_AUTO_MIGRATE", &cfg.PostgresAutoMigrate)
	str("FULFILLMENT_SEED_FILE", &cfg.SeedFile)
	str("FULFILLMENT_COUNTER_BACKEND", &cfg.CounterBackend)
	str("FULFILLMENT_REDIS_URL", &cfg.RedisURL)
	duration("FULFILLMENT_TX_TIMEOUT", &cfg.TxTimeout)
	integer("FULFILLMENT_TX_MAX_ATTEMPTS", &cfg.TxMaxAttempts)
	str("KAFKA_BROKERS", &cfg.KafkaBrokers)
	str("FULFILLMENT_KAFKA_CLIENT_ID", &cfg.KafkaClientID)
	str("FULFILLMENT_ORDER_TOPIC", &cfg.OrderTopic)
	str("FULFILLMENT_DLQ_TOPIC", &cfg.DLQTopic)
	duration("FULFILLMENT_OUTBOX_POLL_INTERVAL", &cfg.OutboxPollInterval)
	integer("FULFILLMENT_OUTBOX_BATCH_SIZE", &cfg.OutboxBatchSize)
	integer("FULFILLMENT_OUTBOX_MAX_ATTEMPTS", &cfg.OutboxMaxAttempts)
	duration("FULFILLMENT_OUTBOX_RETRY_DELAY", &cfg.OutboxRetryDelay)
	integer("FULFILLMENT_OUTBOX_MAX_PENDING", &cfg.OutboxMaxPending)
	duration("FULFILLMENT_IDEMPOTENCY_TTL", &cfg.IdempotencyTTL)
	duration("FULFILLMENT_IDEMPOTENCY_CLEANUP_INTERVAL", &cfg.IdempotencyCleanupInterval)
	integer("FULFILLMENT_IDEMPOTENCY_CLEANUP_BATCH_SIZE", &cfg.IdempotencyCleanupBatchSize)
	str("FULFILLMENT_OTLP_ENDPOINT", &cfg.OTLPEndpoint)
	boolean("FULFILLMENT_OTLP_INSECURE", &cfg.OTLPInsecure)

	cfg.StorageDriver = strings.ToLower(cfg.StorageDriver)
	cfg.CounterBackend = strings.ToLower(cfg.CounterBackend)

	if len(errs) > 0 {
		return Config{}, fmt.Errorf("invalid configuration: %s", strings.Join(errs, "; "))
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate проверяет согласованность настроек.
func (c Config) Validate() error {
	switch c.StorageDriver {
	case StorageDriverMemory:
	case StorageDriverPostgres:
		if c.PostgresDSN == "" {
			return fmt.Errorf("FULFILLMENT_POSTGRES_DSN is required for storage driver %q", c.StorageDriver)
		}
	default:
		return fmt.Errorf("unsupported storage driver %q", c.StorageDriver)
	}

	switch c.CounterBackend {
	case CounterBackendAuto, CounterBackendMemory:
	case CounterBackendPostgres:
		if c.StorageDriver != StorageDriverPostgres {
			return fmt.Errorf("counter backend %q requires postgres storage", c.CounterBackend)
		}
	case CounterBackendRedis:
		if c.RedisURL == "" {
			return fmt.Errorf("FULFILLMENT_REDIS_URL is required for counter backend %q", c.CounterBackend)
		}
	default:
		return fmt.Errorf("unsupported counter backend %q", c.CounterBackend)
	}

	if c.TxTimeout <= 0 {
		return fmt.Errorf("transaction timeout must be > 0")
	}
	if c.TxMaxAttempts <= 0 {
		return fmt.Errorf("transaction max attempts must be > 0")
	}
	return nil
}

// KafkaBrokerList разбирает KAFKA_BROKERS через запятую.
func (c Config) KafkaBrokerList() []string {
	var brokers []string
	for _, b := range strings.Split(c.KafkaBrokers, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}
