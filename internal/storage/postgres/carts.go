package postgres

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/vladislavdragonenkov/fulfillment/internal/domain"
)

// Carts — корзины пользователей в таблице cart_items.
type Carts struct {
	s *Store
}

// Get возвращает позиции корзины в порядке добавления.
func (c *Carts) Get(ctx context.Context, userID string) ([]domain.CartItem, error) {
	rows, err := c.s.q(ctx).Query(ctx, `
		SELECT product_id, name, price::text, quantity, variant
		FROM cart_items
		WHERE user_id = $1
		ORDER BY position
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("query cart of %s: %w", userID, err)
	}
	defer rows.Close()

	var items []domain.CartItem
	for rows.Next() {
		var (
			item     domain.CartItem
			priceRaw string
		)
		if err := rows.Scan(&item.ProductID, &item.Name, &priceRaw, &item.Quantity, &item.Variant); err != nil {
			return nil, fmt.Errorf("scan cart item: %w", err)
		}
		if item.Price, err = decimal.NewFromString(priceRaw); err != nil {
			return nil, fmt.Errorf("parse cart item price: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate cart items: %w", err)
	}
	return items, nil
}

// Clear удаляет все позиции корзины пользователя.
func (c *Carts) Clear(ctx context.Context, userID string) error {
	if _, err := c.s.q(ctx).Exec(ctx, `DELETE FROM cart_items WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("clear cart of %s: %w", userID, err)
	}
	return nil
}

var _ domain.CartStore = (*Carts)(nil)
