package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/vladislavdragonenkov/fulfillment/internal/domain"
)

func TestOutboxRepository_EnqueueAndPull(t *testing.T) {
	ctx := context.Background()
	repo := NewStore().Outbox()

	first, err := repo.Enqueue(ctx, domain.OutboxMessage{
		AggregateType: domain.AggregateTypeOrder,
		AggregateID:   "order-1",
		EventType:     domain.EventTypeOrderCreated,
		Payload:       []byte(`{"order_number":"ORD-2025-000001"}`),
	})
	if err != nil {
		t.Fatalf("enqueue failed: %v", err)
	}
	if first.ID == "" {
		t.Fatal("expected generated id")
	}
	second, err := repo.Enqueue(ctx, domain.OutboxMessage{AggregateType: domain.AggregateTypeOrder, AggregateID: "order-2"})
	if err != nil {
		t.Fatalf("enqueue failed: %v", err)
	}

	pending, err := repo.PullPending(ctx, 10)
	if err != nil {
		t.Fatalf("pull failed: %v", err)
	}
	if len(pending) != 2 || pending[0].ID != first.ID || pending[1].ID != second.ID {
		t.Fatalf("expected messages in enqueue order, got %+v", pending)
	}

	stats, err := repo.Stats(ctx)
	if err != nil {
		t.Fatalf("stats failed: %v", err)
	}
	if stats.PendingCount != 2 || !stats.OldestPendingAt.Equal(first.CreatedAt) {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}

func TestOutboxRepository_MarkSentAndFailed(t *testing.T) {
	ctx := context.Background()
	repo := NewStore().Outbox()

	saved, err := repo.Enqueue(ctx, domain.OutboxMessage{AggregateType: domain.AggregateTypeOrder})
	if err != nil {
		t.Fatalf("enqueue failed: %v", err)
	}

	if err := repo.MarkSent(ctx, saved.ID); err != nil {
		t.Fatalf("mark sent failed: %v", err)
	}
	if got := len(repo.AllPending()); got != 0 {
		t.Fatalf("expected no pending messages, got %d", got)
	}

	if err := repo.MarkFailed(ctx, "missing"); !errors.Is(err, domain.ErrOutboxPublish) {
		t.Fatalf("expected error for missing record, got %v", err)
	}
}

func TestOutboxRepository_EnqueueInsideTxVisibleAfterCommit(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	repo := store.Outbox()

	err := store.WithinTx(ctx, func(txCtx context.Context) error {
		if _, err := repo.Enqueue(txCtx, domain.OutboxMessage{AggregateID: "order-1"}); err != nil {
			return err
		}
		if got := len(repo.AllPending()); got != 0 {
			t.Errorf("message visible before commit: %d", got)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("tx failed: %v", err)
	}
	if got := len(repo.AllPending()); got != 1 {
		t.Fatalf("expected 1 pending message after commit, got %d", got)
	}
}

func TestOutboxRepository_EnqueueInsideTxDroppedOnRollback(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	repo := store.Outbox()

	boom := errors.New("boom")
	err := store.WithinTx(ctx, func(txCtx context.Context) error {
		if _, err := repo.Enqueue(txCtx, domain.OutboxMessage{AggregateID: "order-1"}); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if got := len(repo.AllPending()); got != 0 {
		t.Fatalf("rolled back message must not be visible, got %d", got)
	}
}
