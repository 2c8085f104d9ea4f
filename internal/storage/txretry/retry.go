// Package txretry перезапускает тело атомарной единицы при конфликтах записи.
package txretry

import (
	"context"
	"errors"
	"math/rand/v2"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/fulfillment/internal/domain"
)

// Config конфигурация повторов транзакции.
type Config struct {
	MaxAttempts   int
	InitialDelay  time.Duration
	MaxDelay      time.Duration
	BackoffFactor float64
}

// DefaultConfig возвращает конфигурацию по умолчанию.
func DefaultConfig() Config {
	return Config{
		MaxAttempts:   8,
		InitialDelay:  2 * time.Millisecond,
		MaxDelay:      100 * time.Millisecond,
		BackoffFactor: 2.0,
	}
}

func (c Config) normalized() Config {
	def := DefaultConfig()
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = def.MaxAttempts
	}
	if c.InitialDelay < 0 {
		c.InitialDelay = 0
	}
	if c.MaxDelay < c.InitialDelay {
		c.MaxDelay = c.InitialDelay
	}
	if c.BackoffFactor < 1 {
		c.BackoffFactor = 1
	}
	return c
}

// Option настраивает Runner.
type Option func(*Runner)

// WithLogger задаёт logger.
func WithLogger(logger *log.Entry) Option {
	return func(r *Runner) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithOnRetry задаёт хук, вызываемый перед каждым повтором (для метрик).
func WithOnRetry(fn func(attempt int, err error)) Option {
	return func(r *Runner) {
		r.onRetry = fn
	}
}

// Runner выполняет функцию с повторами при конфликтах.
type Runner struct {
	cfg     Config
	logger  *log.Entry
	onRetry func(attempt int, err error)
}

// New создаёт Runner.
func New(cfg Config, options ...Option) *Runner {
	r := &Runner{
		cfg:    cfg.normalized(),
		logger: log.WithField("component", "tx-retry"),
	}
	for _, option := range options {
		option(r)
	}
	return r
}

// Config возвращает действующую конфигурацию.
func (r *Runner) Config() Config {
	return r.cfg
}

// Run вызывает fn, пока она завершается конфликтом (isConflict) и есть попытки.
//
// Каждая попытка выполняет fn целиком. Бизнес-ошибки возвращаются как есть.
// Исчерпание попыток, отмена или дедлайн ctx превращаются в *domain.TransactionAbortError.
func (r *Runner) Run(ctx context.Context, isConflict func(error) bool, fn func(ctx context.Context) error) error {
	delay := r.cfg.InitialDelay

	for attempt := 1; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return &domain.TransactionAbortError{Attempts: attempt - 1, Err: err}
		}

		err := fn(ctx)
		if err == nil {
			if attempt > 1 {
				r.logger.WithField("attempt", attempt).Debug("transaction committed after retry")
			}
			return nil
		}

		if isContextError(err) {
			return &domain.TransactionAbortError{Attempts: attempt, Err: err}
		}
		if !isConflict(err) {
			return err
		}

		if attempt >= r.cfg.MaxAttempts {
			r.logger.WithError(err).WithField("max_attempts", r.cfg.MaxAttempts).Warn("transaction retries exhausted")
			return &domain.TransactionAbortError{Attempts: attempt, Err: err}
		}

		if r.onRetry != nil {
			r.onRetry(attempt, err)
		}
		r.logger.WithError(err).WithFields(log.Fields{
			"attempt": attempt,
			"delay":   delay,
		}).Debug("transaction conflict, retrying")

		if wait := jitter(delay); wait > 0 {
			timer := time.NewTimer(wait)
			select {
			case <-ctx.Done():
				timer.Stop()
				return &domain.TransactionAbortError{Attempts: attempt, Err: ctx.Err()}
			case <-timer.C:
			}
		}

		delay = time.Duration(float64(delay) * r.cfg.BackoffFactor)
		if delay > r.cfg.MaxDelay {
			delay = r.cfg.MaxDelay
		}
	}
}

// jitter разносит повторы конкурирующих транзакций во времени: [d/2, d].
func jitter(d time.Duration) time.Duration {
	if d <= 1 {
		return d
	}
	half := d / 2
	return half + rand.N(d-half+1)
}

func isContextError(err error) bool {
	return errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled)
}
