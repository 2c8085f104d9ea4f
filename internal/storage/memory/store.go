package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/fulfillment/internal/domain"
	"github.com/vladislavdragonenkov/fulfillment/internal/storage/txretry"
)

type txKey struct{}

type productRecord struct {
	product domain.Product
	version uint64
}

type cartRecord struct {
	items   []domain.CartItem
	version uint64
}

// Store — in-memory хранилище пользователей, остатков, корзин и заказов
// с оптимистичными транзакциями.
//
// Каждая запись версионируется. Транзакция запоминает версии прочитанных
// записей и копит изменения у себя; при коммите под общим мьютексом версии
// сверяются, и изменения применяются целиком либо не применяются вовсе.
// Устаревшее чтение даёт domain.ErrWriteConflict, и тело транзакции
// перезапускается полностью.
type Store struct {
	mu       sync.Mutex
	users    map[string]struct{}
	products map[string]*productRecord
	carts    map[string]*cartRecord
	orders   map[string]domain.Order
	byNumber map[string]string
	byUser   map[string][]string

	outbox *OutboxRepository
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

// WithRetryConfig задаёт политику повторов при конфликтах.
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

// NewStore создаёт пустое хранилище.
func NewStore(options ...Option) *Store {
	opts := storeOptions{retry: txretry.DefaultConfig()}
	for _, option := range options {
		option(&opts)
	}
	if opts.logger == nil {
		opts.logger = log.WithField("component", "memory-store")
	}

	s := &Store{
		users:    make(map[string]struct{}),
		products: make(map[string]*productRecord),
		carts:    make(map[string]*cartRecord),
		orders:   make(map[string]domain.Order),
		byNumber: make(map[string]string),
		byUser:   make(map[string][]string),
		logger:   opts.logger,
		retry: txretry.New(opts.retry,
			txretry.WithLogger(opts.logger),
			txretry.WithOnRetry(opts.onRetry),
		),
	}
	s.outbox = newOutboxRepository(s)
	return s
}

// PutUser регистрирует пользователя.
func (s *Store) PutUser(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[userID] = struct{}{}
}

// PutProduct создаёт или заменяет товар.
func (s *Store) PutProduct(product domain.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.products[product.ID]
	if !ok {
		s.products[product.ID] = &productRecord{product: product.Clone(), version: 1}
		return
	}
	rec.product = product.Clone()
	rec.version++
}

// PutCart заменяет содержимое корзины пользователя.
func (s *Store) PutCart(userID string, items []domain.CartItem) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.carts[userID]
	if !ok {
		rec = &cartRecord{}
		s.carts[userID] = rec
	}
	rec.items = append([]domain.CartItem(nil), items...)
	rec.version++
}

// Users возвращает справочник пользователей.
func (s *Store) Users() *Users { return &Users{s: s} }

// Inventory возвращает хранилище остатков.
func (s *Store) Inventory() *Inventory { return &Inventory{s: s} }

// Carts возвращает хранилище корзин.
func (s *Store) Carts() *Carts { return &Carts{s: s} }

// Orders возвращает хранилище заказов.
func (s *Store) Orders() *Orders { return &Orders{s: s} }

// Outbox возвращает transactional outbox, разделяющий транзакции со Store.
func (s *Store) Outbox() *OutboxRepository { return s.outbox }

// WithinTx выполняет fn в оптимистичной транзакции.
// Вложенный вызов присоединяется к уже открытой транзакции.
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if s.txFrom(ctx) != nil {
		return fn(ctx)
	}

	return s.retry.Run(ctx, isConflict, func(ctx context.Context) error {
		t := newTx(s)
		txCtx := context.WithValue(ctx, txKey{}, t)

		if err := fn(txCtx); err != nil {
			// Бизнес-отказ, принятый по устаревшему чтению, тоже повторяем.
			if domain.IsBusinessError(err) && !s.readSetValid(t) {
				return fmt.Errorf("%w: stale read behind %v", domain.ErrWriteConflict, err)
			}
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		return s.commit(t)
	})
}

func isConflict(err error) bool {
	return errors.Is(err, domain.ErrWriteConflict)
}

func (s *Store) txFrom(ctx context.Context) *tx {
	t, _ := ctx.Value(txKey{}).(*tx)
	if t == nil || t.store != s {
		return nil
	}
	return t
}

var _ domain.Transactor = (*Store)(nil)
