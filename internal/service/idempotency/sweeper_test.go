package idempotency_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/vladislavdragonenkov/fulfillment/internal/clock"
	"github.com/vladislavdragonenkov/fulfillment/internal/domain"
	"github.com/vladislavdragonenkov/fulfillment/internal/metrics"
	"github.com/vladislavdragonenkov/fulfillment/internal/service/idempotency"
	"github.com/vladislavdragonenkov/fulfillment/internal/storage/memory"
)

var sweepNow = time.Date(2025, time.June, 1, 12, 0, 0, 0, time.UTC)

// scriptedRepo отдаёт заранее заданные результаты DeleteExpired и запоминает cutoff.
type scriptedRepo struct {
	domain.IdempotencyRepository

	mu      sync.Mutex
	results []int
	errs    []error
	cutoffs []time.Time
	called  chan struct{}
}

func newScriptedRepo(results []int, errs []error) *scriptedRepo {
	return &scriptedRepo{results: results, errs: errs, called: make(chan struct{}, 16)}
}

func (r *scriptedRepo) DeleteExpired(_ context.Context, before time.Time, _ int) (int, error) {
	r.mu.Lock()
	defer func() {
		r.mu.Unlock()
		select {
		case r.called <- struct{}{}:
		default:
		}
	}()

	r.cutoffs = append(r.cutoffs, before)
	var (
		n   int
		err error
	)
	if len(r.results) > 0 {
		n, r.results = r.results[0], r.results[1:]
	}
	if len(r.errs) > 0 {
		err, r.errs = r.errs[0], r.errs[1:]
	}
	return n, err
}

func (r *scriptedRepo) firstCutoff() time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cutoffs[0]
}

func sweepCount(t *testing.T, reg *prometheus.Registry, result string) float64 {
	t.Helper()

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	for _, family := range families {
		if family.GetName() != "fulfillment_idempotency_sweeps_total" {
			continue
		}
		for _, metric := range family.GetMetric() {
			for _, label := range metric.GetLabel() {
				if label.GetName() == "result" && label.GetValue() == result {
					return metric.GetCounter().GetValue()
				}
			}
		}
	}
	return 0
}

func waitForSweep(t *testing.T, reg *prometheus.Registry, result string) {
	t.Helper()

	deadline := time.After(time.Second)
	for sweepCount(t, reg, result) == 0 {
		select {
		case <-deadline:
			t.Fatalf("no %s sweep recorded", result)
		case <-time.After(5 * time.Millisecond):
		}
	}
}

func TestSweeper_SweepRemovesKeysUpToCutoff(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewIdempotencyRepository()

	ttls := map[string]time.Time{
		"old-1": sweepNow.Add(-3 * time.Hour),
		"old-2": sweepNow.Add(-2 * time.Hour),
		"old-3": sweepNow.Add(-time.Hour),
		"edge":  sweepNow,
		"fresh": sweepNow.Add(time.Hour),
	}
	for key, ttl := range ttls {
		if _, err := repo.CreateProcessing(ctx, key, "hash-"+key, ttl); err != nil {
			t.Fatalf("create %s: %v", key, err)
		}
	}

	sweeper := idempotency.NewSweeper(repo,
		idempotency.WithSweepBatch(2),
		idempotency.WithSweepMetrics(metrics.NewIdempotencyMetricsWithRegisterer(prometheus.NewRegistry())),
	)

	deleted, err := sweeper.Sweep(ctx, sweepNow)
	if err != nil {
		t.Fatalf("Sweep failed: %v", err)
	}
	if deleted != 4 {
		t.Fatalf("expected 4 deleted keys, got %d", deleted)
	}

	if _, err := repo.Get(ctx, "fresh"); err != nil {
		t.Fatalf("fresh key must survive: %v", err)
	}
	for _, key := range []string{"old-1", "old-2", "old-3", "edge"} {
		if _, err := repo.Get(ctx, key); !errors.Is(err, domain.ErrIdempotencyKeyNotFound) {
			t.Fatalf("key %s must be removed, got %v", key, err)
		}
	}
}

func TestSweeper_SweepReturnsPartialCountOnError(t *testing.T) {
	boom := errors.New("connection reset")
	repo := newScriptedRepo([]int{2, 1}, []error{nil, boom})

	sweeper := idempotency.NewSweeper(repo,
		idempotency.WithSweepBatch(2),
		idempotency.WithSweepMetrics(metrics.NewIdempotencyMetricsWithRegisterer(prometheus.NewRegistry())),
	)

	deleted, err := sweeper.Sweep(context.Background(), sweepNow)
	if !errors.Is(err, boom) {
		t.Fatalf("expected repository error, got %v", err)
	}
	if deleted != 3 {
		t.Fatalf("expected 3 keys counted before the error, got %d", deleted)
	}
}

func TestSweeper_SweepHonoursCanceledContext(t *testing.T) {
	repo := newScriptedRepo(nil, nil)
	sweeper := idempotency.NewSweeper(repo,
		idempotency.WithSweepMetrics(metrics.NewIdempotencyMetricsWithRegisterer(prometheus.NewRegistry())),
	)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := sweeper.Sweep(ctx, sweepNow); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if len(repo.cutoffs) != 0 {
		t.Fatal("repository must not be called after cancel")
	}
}

func TestSweeper_RunTakesCutoffFromClock(t *testing.T) {
	reg := prometheus.NewRegistry()
	repo := newScriptedRepo([]int{0}, nil)

	sweeper := idempotency.NewSweeper(repo,
		idempotency.WithSweepClock(clock.NewFixed(sweepNow)),
		idempotency.WithSweepInterval(time.Hour),
		idempotency.WithSweepMetrics(metrics.NewIdempotencyMetricsWithRegisterer(reg)),
	)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		sweeper.Run(ctx)
	}()

	select {
	case <-repo.called:
	case <-time.After(time.Second):
		t.Fatal("sweeper did not run the first pass immediately")
	}
	waitForSweep(t, reg, "ok")
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop on context cancel")
	}

	if got := repo.firstCutoff(); !got.Equal(sweepNow) {
		t.Fatalf("expected cutoff %v, got %v", sweepNow, got)
	}
}

func TestSweeper_RunRecordsFailedSweep(t *testing.T) {
	reg := prometheus.NewRegistry()
	repo := newScriptedRepo(nil, []error{errors.New("db down")})

	sweeper := idempotency.NewSweeper(repo,
		idempotency.WithSweepInterval(time.Hour),
		idempotency.WithSweepMetrics(metrics.NewIdempotencyMetricsWithRegisterer(reg)),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go sweeper.Run(ctx)

	waitForSweep(t, reg, "error")
	if got := sweepCount(t, reg, "ok"); got != 0 {
		t.Fatalf("expected no ok sweeps, got %v", got)
	}
}

func TestSweeper_RunWithoutRepositoryReturns(t *testing.T) {
	sweeper := idempotency.NewSweeper(nil,
		idempotency.WithSweepMetrics(metrics.NewIdempotencyMetricsWithRegisterer(prometheus.NewRegistry())),
	)

	done := make(chan struct{})
	go func() {
		defer close(done)
		sweeper.Run(context.Background())
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run must return immediately without repository")
	}
}
