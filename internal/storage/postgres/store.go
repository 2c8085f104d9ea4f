// Package postgres реализует хранилища заказов, остатков и корзин поверх PostgreSQL (pgx/v5).
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/fulfillment/internal/storage/txretry"
)

const (
	defaultConnTimeout     = 5 * time.Second
	defaultMaxConns        = 25
	defaultMinConns        = 2
	defaultConnMaxLifetime = 30 * time.Minute
	defaultConnMaxIdleTime = 5 * time.Minute
	opTimeout              = 5 * time.Second
)

// querier реализуют и пул, и транзакция.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Pool — подмножество *pgxpool.Pool, которым пользуется Store.
type Pool interface {
	querier
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
	Ping(ctx context.Context) error
	Close()
}

// Store оборачивает пул подключений к PostgreSQL.
type Store struct {
	pool   Pool
	retry  *txretry.Runner
	logger *log.Entry
}

// Option настраивает Store.
type Option func(*storeOptions)

type storeOptions struct {
	retry   txretry.Config
	onRetry func(attempt int, err error)
	logger  *log.Entry
}

// WithRetryConfig задаёт политику повторов при serialization failure.
func WithRetryConfig(cfg txretry.Config) Option {
	return func(o *storeOptions) {
		o.retry = cfg
	}
}

// WithOnRetry задаёт хук, вызываемый при каждом повторе транзакции.
func WithOnRetry(fn func(attempt int, err error)) Option {
	return func(o *storeOptions) {
		o.onRetry = fn
	}
}

// WithLogger задаёт logger.
func WithLogger(logger *log.Entry) Option {
	return func(o *storeOptions) {
		o.logger = logger
	}
}

// Open открывает пул подключений к PostgreSQL и проверяет доступность базы.
func Open(ctx context.Context, dsn string, options ...Option) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse postgres dsn: %w", err)
	}
	cfg.MaxConns = defaultMaxConns
	cfg.MinConns = defaultMinConns
	cfg.MaxConnLifetime = defaultConnMaxLifetime
	cfg.MaxConnIdleTime = defaultConnMaxIdleTime

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("open postgres pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, defaultConnTimeout)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	return New(pool, options...), nil
}

// New создаёт Store поверх готового пула.
func New(pool Pool, options ...Option) *Store {
	opts := storeOptions{retry: txretry.DefaultConfig()}
	for _, option := range options {
		option(&opts)
	}
	if opts.logger == nil {
		opts.logger = log.WithField("component", "postgres-store")
	}

	return &Store{
		pool:   pool,
		logger: opts.logger,
		retry: txretry.New(opts.retry,
			txretry.WithLogger(opts.logger),
			txretry.WithOnRetry(opts.onRetry),
		),
	}
}

// Ping проверяет доступность подключения.
func (s *Store) Ping(ctx context.Context) error {
	if s == nil || s.pool == nil {
		return fmt.Errorf("postgres store is not initialized")
	}

	pingCtx, cancel := context.WithTimeout(ctx, defaultConnTimeout)
	defer cancel()
	return s.pool.Ping(pingCtx)
}

// EnsureSchema применяет все up-миграции.
func (s *Store) EnsureSchema(ctx context.Context) error {
	return s.MigrateUp(ctx, 0)
}

// Close закрывает пул.
func (s *Store) Close() {
	if s == nil || s.pool == nil {
		return
	}
	s.pool.Close()
}

// Users возвращает справочник пользователей.
func (s *Store) Users() *Users { return &Users{s: s} }

// Inventory возвращает хранилище остатков.
func (s *Store) Inventory() *Inventory { return &Inventory{s: s} }

// Carts возвращает хранилище корзин.
func (s *Store) Carts() *Carts { return &Carts{s: s} }

// Orders возвращает хранилище заказов.
func (s *Store) Orders() *Orders { return &Orders{s: s} }

// Counter возвращает счётчик номеров заказов в таблице order_counters.
func (s *Store) Counter() *OrderCounter { return &OrderCounter{s: s} }

// Outbox возвращает transactional outbox.
func (s *Store) Outbox() *OutboxRepository { return &OutboxRepository{s: s} }

// Idempotency возвращает хранилище ключей идемпотентности.
func (s *Store) Idempotency() *IdempotencyRepository { return &IdempotencyRepository{s: s} }

// q возвращает транзакцию из ctx, если она открыта, иначе пул.
func (s *Store) q(ctx context.Context) querier {
	if tx := txFromContext(ctx); tx != nil {
		return tx
	}
	return s.pool
}
