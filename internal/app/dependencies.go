package app

import (
	"context"
	"fmt"

	goredis "github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/fulfillment/internal/domain"
	healthcheck "github.com/vladislavdragonenkov/fulfillment/internal/health"
	"github.com/vladislavdragonenkov/fulfillment/internal/storage/memory"
	"github.com/vladislavdragonenkov/fulfillment/internal/storage/postgres"
	redisstore "github.com/vladislavdragonenkov/fulfillment/internal/storage/redis"
	"github.com/vladislavdragonenkov/fulfillment/internal/storage/txretry"
)

// runtimeDependencies — хранилища, выбранные по конфигурации.
type runtimeDependencies struct {
	users           domain.UserDirectory
	inventory       domain.InventoryStore
	carts           domain.CartStore
	orders          domain.OrderStore
	transactor      domain.Transactor
	counter         domain.OrderNumberCounter
	outboxRepo      domain.OutboxRepository
	idempotencyRepo domain.IdempotencyRepository

	storageChecker healthcheck.Checker
	counterChecker healthcheck.Checker
	closers        []func() error
}

func (d *runtimeDependencies) close(logger *log.Entry) {
	for i := len(d.closers) - 1; i >= 0; i-- {
		if err := d.closers[i](); err != nil {
			logger.WithError(err).Warn("failed to close dependency")
		}
	}
	d.closers = nil
}

func retryConfig(cfg Config) txretry.Config {
	retry := txretry.DefaultConfig()
	if cfg.TxMaxAttempts > 0 {
		retry.MaxAttempts = cfg.TxMaxAttempts
	}
	return retry
}

// initRuntimeDependencies поднимает хранилище и счётчик номеров заказов.
func initRuntimeDependencies(ctx context.Context, cfg Config, logger *log.Entry, onRetry func(attempt int, err error)) (*runtimeDependencies, error) {
	var (
		deps *runtimeDependencies
		pg   *postgres.Store
		err  error
	)

	switch cfg.StorageDriver {
	case StorageDriverMemory, "":
		deps, err = initMemoryStorage(cfg, logger, onRetry)
	case StorageDriverPostgres:
		deps, pg, err = initPostgresStorage(ctx, cfg, logger, onRetry)
	default:
		return nil, fmt.Errorf("unsupported storage driver %q", cfg.StorageDriver)
	}
	if err != nil {
		return nil, err
	}

	if err := initOrderCounter(ctx, cfg, deps, pg, logger); err != nil {
		deps.close(logger)
		return nil, err
	}
	return deps, nil
}

func initMemoryStorage(cfg Config, logger *log.Entry, onRetry func(int, error)) (*runtimeDependencies, error) {
	store := memory.NewStore(
		memory.WithRetryConfig(retryConfig(cfg)),
		memory.WithOnRetry(onRetry),
		memory.WithLogger(logger.WithField("component", "memory-store")),
	)

	if cfg.SeedFile != "" {
		seed, err := memory.LoadSeedFile(cfg.SeedFile)
		if err != nil {
			return nil, fmt.Errorf("load seed: %w", err)
		}
		store.Apply(seed)
		logger.WithFields(log.Fields{
			"seed_file": cfg.SeedFile,
			"products":  len(seed.Products),
			"users":     len(seed.Users),
		}).Info("memory store seeded")
	}

	return &runtimeDependencies{
		users:           store.Users(),
		inventory:       store.Inventory(),
		carts:           store.Carts(),
		orders:          store.Orders(),
		transactor:      store,
		outboxRepo:      store.Outbox(),
		idempotencyRepo: memory.NewIdempotencyRepository(),
		storageChecker: healthcheck.NewSimpleChecker("storage", func(context.Context) error {
			return nil
		}),
	}, nil
}

func initPostgresStorage(ctx context.Context, cfg Config, logger *log.Entry, onRetry func(int, error)) (*runtimeDependencies, *postgres.Store, error) {
	if cfg.PostgresDSN == "" {
		return nil, nil, fmt.Errorf("postgres dsn is required for storage driver %q", StorageDriverPostgres)
	}

	store, err := postgres.Open(ctx, cfg.PostgresDSN,
		postgres.WithRetryConfig(retryConfig(cfg)),
		postgres.WithOnRetry(onRetry),
		postgres.WithLogger(logger.WithField("component", "postgres-store")),
	)
	if err != nil {
		return nil, nil, err
	}

	if cfg.PostgresAutoMigrate {
		if err := store.EnsureSchema(ctx); err != nil {
			store.Close()
			return nil, nil, fmt.Errorf("apply migrations: %w", err)
		}
		logger.Info("postgres migrations applied")
	}

	return &runtimeDependencies{
		users:           store.Users(),
		inventory:       store.Inventory(),
		carts:           store.Carts(),
		orders:          store.Orders(),
		transactor:      store,
		outboxRepo:      store.Outbox(),
		idempotencyRepo: store.Idempotency(),
		storageChecker:  healthcheck.NewSimpleChecker("postgres", store.Ping),
		closers: []func() error{func() error {
			store.Close()
			return nil
		}},
	}, store, nil
}

// resolveCounterBackend раскрывает режим auto: redis при заданном URL, иначе счётчик хранилища.
func resolveCounterBackend(cfg Config, hasPostgres bool) string {
	backend := cfg.CounterBackend
	if backend != "" && backend != CounterBackendAuto {
		return backend
	}
	switch {
	case cfg.RedisURL != "":
		return CounterBackendRedis
	case hasPostgres:
		return CounterBackendPostgres
	default:
		return CounterBackendMemory
	}
}

// initOrderCounter поднимает счётчик номеров заказов.
func initOrderCounter(ctx context.Context, cfg Config, deps *runtimeDependencies, pg *postgres.Store, logger *log.Entry) error {
	backend := resolveCounterBackend(cfg, pg != nil)

	switch backend {
	case CounterBackendMemory:
		deps.counter = memory.NewOrderCounter()
	case CounterBackendPostgres:
		if pg == nil {
			return fmt.Errorf("counter backend %q requires postgres storage", backend)
		}
		deps.counter = pg.Counter()
		// Строка order_counters года блокируется до конца транзакции заказа.
		logger.Warn("postgres order counter serializes concurrent orders; set FULFILLMENT_REDIS_URL to use the redis counter")
	case CounterBackendRedis:
		client, err := redisstore.Connect(ctx, cfg.RedisURL)
		if err != nil {
			return err
		}
		deps.counter = redisstore.NewOrderCounter(client, "")
		deps.counterChecker = newRedisChecker(client)
		deps.closers = append(deps.closers, client.Close)
	default:
		return fmt.Errorf("unsupported counter backend %q", backend)
	}

	logger.WithField("counter_backend", backend).Info("order number counter initialized")
	return nil
}

func newRedisChecker(client *goredis.Client) healthcheck.Checker {
	return healthcheck.NewSimpleChecker("redis", func(ctx context.Context) error {
		return client.Ping(ctx).Err()
	})
}
