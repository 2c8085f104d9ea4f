package memory

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vladislavdragonenkov/fulfillment/internal/domain"
	"github.com/vladislavdragonenkov/fulfillment/internal/storage/txretry"
)

func newSeededStore(t *testing.T, options ...Option) *Store {
	t.Helper()

	s := NewStore(options...)
	s.PutUser("u-1")
	s.PutProduct(domain.Product{ID: "p-simple", Name: "Mug", Price: decimal.RequireFromString("9.90"), Active: true, Stock: 5})
	s.PutProduct(domain.Product{
		ID: "p-tee", Name: "Tee", Price: decimal.RequireFromString("19.00"), Active: true,
		Variants: []domain.VariantStock{{Variant: "M", Stock: 2}, {Variant: "L", Stock: 0}},
	})
	s.PutCart("u-1", []domain.CartItem{{ProductID: "p-simple", Quantity: 1}})
	return s
}

func stockOf(t *testing.T, s *Store, productID, variant string) int {
	t.Helper()
	n, err := s.Inventory().PeekStock(context.Background(), productID, variant)
	require.NoError(t, err)
	return n
}

func TestStore_CommitAppliesAllWrites(t *testing.T) {
	ctx := context.Background()
	s := newSeededStore(t)

	var inserted domain.Order
	err := s.WithinTx(ctx, func(txCtx context.Context) error {
		var err error
		inserted, err = s.Orders().Insert(txCtx, domain.Order{OrderNumber: "ORD-2025-000001", UserID: "u-1"})
		if err != nil {
			return err
		}
		if err := s.Inventory().ConditionalDecrement(txCtx, "p-simple", "", 2); err != nil {
			return err
		}
		if err := s.Inventory().ConditionalDecrement(txCtx, "p-tee", "M", 1); err != nil {
			return err
		}
		return s.Carts().Clear(txCtx, "u-1")
	})
	require.NoError(t, err)

	assert.Equal(t, 3, stockOf(t, s, "p-simple", ""))
	assert.Equal(t, 1, stockOf(t, s, "p-tee", "M"))

	cart, err := s.Carts().Get(ctx, "u-1")
	require.NoError(t, err)
	assert.Empty(t, cart)

	got, err := s.Orders().GetByNumber(ctx, "ORD-2025-000001")
	require.NoError(t, err)
	assert.Equal(t, inserted.ID, got.ID)
}

func TestStore_RollbackDiscardsAllWrites(t *testing.T) {
	ctx := context.Background()
	s := newSeededStore(t)

	err := s.WithinTx(ctx, func(txCtx context.Context) error {
		if _, err := s.Orders().Insert(txCtx, domain.Order{OrderNumber: "ORD-2025-000001", UserID: "u-1"}); err != nil {
			return err
		}
		if err := s.Inventory().ConditionalDecrement(txCtx, "p-simple", "", 2); err != nil {
			return err
		}
		if err := s.Carts().Clear(txCtx, "u-1"); err != nil {
			return err
		}
		return s.Inventory().ConditionalDecrement(txCtx, "p-tee", "L", 1)
	})

	var stockErr *domain.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, "L", stockErr.Variant)
	assert.Equal(t, 0, stockErr.Available)

	assert.Equal(t, 5, stockOf(t, s, "p-simple", ""))
	cart, err := s.Carts().Get(ctx, "u-1")
	require.NoError(t, err)
	assert.Len(t, cart, 1)
	_, err = s.Orders().GetByNumber(ctx, "ORD-2025-000001")
	assert.ErrorIs(t, err, domain.ErrOrderNotFound)
}

func TestStore_TxObservesOwnDecrements(t *testing.T) {
	ctx := context.Background()
	s := newSeededStore(t)

	err := s.WithinTx(ctx, func(txCtx context.Context) error {
		if err := s.Inventory().ConditionalDecrement(txCtx, "p-simple", "", 3); err != nil {
			return err
		}
		left, err := s.Inventory().PeekStock(txCtx, "p-simple", "")
		require.NoError(t, err)
		assert.Equal(t, 2, left)
		return s.Inventory().ConditionalDecrement(txCtx, "p-simple", "", 3)
	})

	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, 5, stockOf(t, s, "p-simple", ""), "outside readers never see staged writes")
}

func TestStore_StagedOrderInvisibleOutsideTx(t *testing.T) {
	ctx := context.Background()
	s := newSeededStore(t)

	err := s.WithinTx(ctx, func(txCtx context.Context) error {
		order, err := s.Orders().Insert(txCtx, domain.Order{OrderNumber: "ORD-2025-000009", UserID: "u-1"})
		if err != nil {
			return err
		}
		if _, err := s.Orders().Get(txCtx, order.ID); err != nil {
			t.Errorf("tx must see its own order: %v", err)
		}
		if _, err := s.Orders().Get(ctx, order.ID); !errors.Is(err, domain.ErrOrderNotFound) {
			t.Errorf("order visible outside tx before commit: %v", err)
		}
		return nil
	})
	require.NoError(t, err)
}

func TestStore_ConflictRerunsWholeBody(t *testing.T) {
	ctx := context.Background()
	var retries atomic.Int32
	s := newSeededStore(t, WithOnRetry(func(int, error) { retries.Add(1) }))

	var runs int
	err := s.WithinTx(ctx, func(txCtx context.Context) error {
		runs++
		if err := s.Inventory().ConditionalDecrement(txCtx, "p-simple", "", 1); err != nil {
			return err
		}
		if runs == 1 {
			// Конкурентный коммит между чтением и коммитом первой попытки.
			require.NoError(t, s.Inventory().ConditionalDecrement(ctx, "p-simple", "", 1))
		}
		return nil
	})
	require.NoError(t, err)

	assert.Equal(t, 2, runs)
	assert.EqualValues(t, 1, retries.Load())
	assert.Equal(t, 3, stockOf(t, s, "p-simple", ""))
}

func TestStore_ExhaustedRetriesAbort(t *testing.T) {
	ctx := context.Background()
	s := newSeededStore(t, WithRetryConfig(txretry.Config{
		MaxAttempts:   2,
		InitialDelay:  time.Microsecond,
		MaxDelay:      time.Microsecond,
		BackoffFactor: 1,
	}))

	err := s.WithinTx(ctx, func(txCtx context.Context) error {
		if _, err := s.Inventory().Product(txCtx, "p-simple"); err != nil {
			return err
		}
		s.PutProduct(domain.Product{ID: "p-simple", Name: "Mug", Active: true, Stock: 5})
		return nil
	})

	var abortErr *domain.TransactionAbortError
	require.ErrorAs(t, err, &abortErr)
	assert.Equal(t, 2, abortErr.Attempts)
	assert.True(t, domain.IsRetryable(err))
}

func TestStore_ConcurrentDecrementsNeverOversell(t *testing.T) {
	ctx := context.Background()
	s := newSeededStore(t)

	const workers = 32
	var (
		wg        sync.WaitGroup
		succeeded atomic.Int32
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := s.WithinTx(ctx, func(txCtx context.Context) error {
				return s.Inventory().ConditionalDecrement(txCtx, "p-simple", "", 1)
			})
			if err == nil {
				succeeded.Add(1)
				return
			}
			if !errors.Is(err, domain.ErrInsufficientStock) && !errors.Is(err, domain.ErrTransactionAborted) {
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.EqualValues(t, 5, succeeded.Load())
	assert.Equal(t, 0, stockOf(t, s, "p-simple", ""))
}

func TestStore_NestedWithinTxJoinsOuter(t *testing.T) {
	ctx := context.Background()
	s := newSeededStore(t)

	err := s.WithinTx(ctx, func(txCtx context.Context) error {
		if err := s.WithinTx(txCtx, func(inner context.Context) error {
			return s.Inventory().ConditionalDecrement(inner, "p-simple", "", 1)
		}); err != nil {
			return err
		}
		return errors.New("outer fails")
	})
	require.Error(t, err)
	assert.Equal(t, 5, stockOf(t, s, "p-simple", ""))
}

func TestInventory_AutocommitDecrement(t *testing.T) {
	ctx := context.Background()
	s := newSeededStore(t)
	inv := s.Inventory()

	require.NoError(t, inv.ConditionalDecrement(ctx, "p-tee", "M", 2))
	assert.Equal(t, 0, stockOf(t, s, "p-tee", "M"))

	err := inv.ConditionalDecrement(ctx, "p-tee", "M", 1)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	err = inv.ConditionalDecrement(ctx, "p-tee", "XL", 1)
	assert.ErrorIs(t, err, domain.ErrVariantNotFound)

	err = inv.ConditionalDecrement(ctx, "missing", "", 1)
	assert.ErrorIs(t, err, domain.ErrProductNotFound)

	err = inv.ConditionalDecrement(ctx, "p-simple", "", 0)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestOrders_ListByUserNewestFirst(t *testing.T) {
	ctx := context.Background()
	s := newSeededStore(t)
	orders := s.Orders()

	for _, number := range []string{"ORD-2025-000001", "ORD-2025-000002", "ORD-2025-000003"} {
		_, err := orders.Insert(ctx, domain.Order{OrderNumber: number, UserID: "u-1"})
		require.NoError(t, err)
	}
	_, err := orders.Insert(ctx, domain.Order{OrderNumber: "ORD-2025-000003", UserID: "u-1"})
	require.ErrorIs(t, err, domain.ErrOrderNumberConflict)

	list, err := orders.ListByUser(ctx, "u-1", 2)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "ORD-2025-000003", list[0].OrderNumber)
	assert.Equal(t, "ORD-2025-000002", list[1].OrderNumber)

	exists, err := s.Users().Exists(ctx, "u-1")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestOrderCounter_Next(t *testing.T) {
	ctx := context.Background()
	c := NewOrderCounter()

	var wg sync.WaitGroup
	seen := make(chan int64, 100)
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			n, err := c.Next(ctx, 2025)
			assert.NoError(t, err)
			seen <- n
		}()
	}
	wg.Wait()
	close(seen)

	unique := make(map[int64]bool)
	for n := range seen {
		unique[n] = true
	}
	assert.Len(t, unique, 100)

	n, err := c.Next(ctx, 2026)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}
