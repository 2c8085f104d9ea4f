package memory

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/vladislavdragonenkov/fulfillment/internal/domain"
)

// Orders — append-only хранилище заказов поверх Store.
type Orders struct {
	s *Store
}

// Insert сохраняет заказ. Внутри транзакции заказ становится видимым другим читателям только после коммита.
func (o *Orders) Insert(ctx context.Context, order domain.Order) (domain.Order, error) {
	if order.ID == "" {
		order.ID = uuid.NewString()
	}
	order = order.Clone()

	if t := o.s.txFrom(ctx); t != nil {
		if _, staged := t.stagedOrder(func(existing domain.Order) bool {
			return existing.OrderNumber == order.OrderNumber
		}); staged {
			return domain.Order{}, fmt.Errorf("insert order %s: %w", order.OrderNumber, domain.ErrOrderNumberConflict)
		}
		t.orders = append(t.orders, order)
		return order.Clone(), nil
	}

	o.s.mu.Lock()
	defer o.s.mu.Unlock()

	if _, exists := o.s.byNumber[order.OrderNumber]; exists {
		return domain.Order{}, fmt.Errorf("insert order %s: %w", order.OrderNumber, domain.ErrOrderNumberConflict)
	}
	o.s.orders[order.ID] = order
	o.s.byNumber[order.OrderNumber] = order.ID
	o.s.byUser[order.UserID] = append(o.s.byUser[order.UserID], order.ID)
	return order.Clone(), nil
}

// Get возвращает заказ по идентификатору.
func (o *Orders) Get(ctx context.Context, id string) (domain.Order, error) {
	if t := o.s.txFrom(ctx); t != nil {
		if order, ok := t.stagedOrder(func(existing domain.Order) bool { return existing.ID == id }); ok {
			return order, nil
		}
	}

	o.s.mu.Lock()
	defer o.s.mu.Unlock()

	order, ok := o.s.orders[id]
	if !ok {
		return domain.Order{}, domain.NewOrderNotFoundError(id)
	}
	return order.Clone(), nil
}

// GetByNumber возвращает заказ по человекочитаемому номеру.
func (o *Orders) GetByNumber(ctx context.Context, orderNumber string) (domain.Order, error) {
	if t := o.s.txFrom(ctx); t != nil {
		if order, ok := t.stagedOrder(func(existing domain.Order) bool { return existing.OrderNumber == orderNumber }); ok {
			return order, nil
		}
	}

	o.s.mu.Lock()
	defer o.s.mu.Unlock()

	id, ok := o.s.byNumber[orderNumber]
	if !ok {
		return domain.Order{}, domain.NewOrderNotFoundError(orderNumber)
	}
	return o.s.orders[id].Clone(), nil
}

// ListByUser возвращает закоммиченные заказы пользователя, новые первыми.
func (o *Orders) ListByUser(_ context.Context, userID string, limit int) ([]domain.Order, error) {
	o.s.mu.Lock()
	defer o.s.mu.Unlock()

	ids := o.s.byUser[userID]
	result := make([]domain.Order, 0, len(ids))
	for i := len(ids) - 1; i >= 0; i-- {
		result = append(result, o.s.orders[ids[i]].Clone())
		if limit > 0 && len(result) >= limit {
			break
		}
	}
	return result, nil
}

var _ domain.OrderStore = (*Orders)(nil)
