package memory

import (
	"context"

	"github.com/vladislavdragonenkov/fulfillment/internal/domain"
)

// Carts — корзины пользователей поверх Store; очистка видна только после commit.
type Carts struct {
	s *Store
}

// Get возвращает копию корзины; внутри транзакции учитывает её очистку.
func (c *Carts) Get(ctx context.Context, userID string) ([]domain.CartItem, error) {
	if t := c.s.txFrom(ctx); t != nil && t.clearedCarts[userID] {
		return nil, nil
	}

	c.s.mu.Lock()
	defer c.s.mu.Unlock()

	rec, ok := c.s.carts[userID]
	if !ok || len(rec.items) == 0 {
		return nil, nil
	}
	return append([]domain.CartItem(nil), rec.items...), nil
}

// Clear очищает корзину. Внутри транзакции очистка применяется при коммите.
func (c *Carts) Clear(ctx context.Context, userID string) error {
	if t := c.s.txFrom(ctx); t != nil {
		t.clearCart(userID)
		return nil
	}

	c.s.mu.Lock()
	defer c.s.mu.Unlock()

	if rec, ok := c.s.carts[userID]; ok {
		rec.items = nil
		rec.version++
	}
	return nil
}

var _ domain.CartStore = (*Carts)(nil)
