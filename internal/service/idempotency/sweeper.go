package idempotency

import (
	"context"
	"errors"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/fulfillment/internal/clock"
	"github.com/vladislavdragonenkov/fulfillment/internal/domain"
	"github.com/vladislavdragonenkov/fulfillment/internal/metrics"
)

const (
	defaultSweepInterval = time.Minute
	defaultSweepBatch    = 500
)

// Sweeper удаляет ключи, у которых истёк TTL. Граница берётся из clock на каждом проходе.
type Sweeper struct {
	repo     domain.IdempotencyRepository
	clock    clock.Clock
	metrics  *metrics.IdempotencyMetrics
	logger   *log.Entry
	interval time.Duration
	batch    int
}

// SweeperOption настраивает Sweeper.
type SweeperOption func(*Sweeper)

// WithSweepInterval задаёт паузу между проходами.
func WithSweepInterval(interval time.Duration) SweeperOption {
	return func(s *Sweeper) {
		if interval > 0 {
			s.interval = interval
		}
	}
}

// WithSweepBatch ограничивает число ключей, удаляемых одним запросом к хранилищу.
func WithSweepBatch(batch int) SweeperOption {
	return func(s *Sweeper) {
		if batch > 0 {
			s.batch = batch
		}
	}
}

func WithSweepClock(c clock.Clock) SweeperOption {
	return func(s *Sweeper) {
		if c != nil {
			s.clock = c
		}
	}
}

func WithSweepMetrics(m *metrics.IdempotencyMetrics) SweeperOption {
	return func(s *Sweeper) {
		if m != nil {
			s.metrics = m
		}
	}
}

func WithSweepLogger(logger *log.Entry) SweeperOption {
	return func(s *Sweeper) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewSweeper создаёт Sweeper. Без WithSweepMetrics метрики пишутся в prometheus.DefaultRegisterer.
func NewSweeper(repo domain.IdempotencyRepository, options ...SweeperOption) *Sweeper {
	s := &Sweeper{
		repo:     repo,
		clock:    clock.NewSystem(),
		logger:   log.WithField("component", "idempotency-sweeper"),
		interval: defaultSweepInterval,
		batch:    defaultSweepBatch,
	}
	for _, option := range options {
		option(s)
	}
	if s.metrics == nil {
		s.metrics = metrics.NewIdempotencyMetrics()
	}
	return s
}

// Run выполняет проход сразу и затем раз в interval, пока не отменён ctx.
func (s *Sweeper) Run(ctx context.Context) {
	if s.repo == nil {
		s.logger.Warn("idempotency sweeper disabled: no repository")
		return
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		s.sweepOnce(ctx)

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (s *Sweeper) sweepOnce(ctx context.Context) {
	started := time.Now()
	cutoff := s.clock.Now()

	deleted, err := s.Sweep(ctx, cutoff)
	if errors.Is(err, context.Canceled) {
		return
	}
	s.metrics.RecordSweep(deleted, time.Since(started), err)

	entry := s.logger.WithFields(log.Fields{"deleted": deleted, "cutoff": cutoff})
	switch {
	case err != nil:
		entry.WithError(err).Warn("idempotency sweep failed")
	case deleted > 0:
		entry.Info("expired idempotency keys removed")
	default:
		entry.Debug("no expired idempotency keys")
	}
}

// Sweep удаляет все ключи с ttl <= cutoff пачками и возвращает их число.
// Пачка меньше batch означает, что просроченных ключей не осталось.
func (s *Sweeper) Sweep(ctx context.Context, cutoff time.Time) (int, error) {
	total := 0
	for {
		if err := ctx.Err(); err != nil {
			return total, err
		}

		n, err := s.repo.DeleteExpired(ctx, cutoff, s.batch)
		total += n
		if err != nil {
			return total, err
		}
		if n < s.batch {
			return total, nil
		}
	}
}
