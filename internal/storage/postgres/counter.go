package postgres

import (
	"context"
	"fmt"

	"github.com/vladislavdragonenkov/fulfillment/internal/domain"
)

// OrderCounter — счётчик номеров заказов по годам в таблице order_counters.
//
// Увеличение выполняется в транзакции из ctx, поэтому откат заказа
// откатывает и выданный номер. Строка года остаётся заблокированной до
// commit: параллельные заказы ждут друг друга, а под RepeatableRead
// проигравший получает ошибку сериализации и уходит в повтор txretry.
// При заметной нагрузке используйте redis.OrderCounter.
type OrderCounter struct {
	s *Store
}

// Next атомарно увеличивает счётчик года и возвращает новое значение.
func (c *OrderCounter) Next(ctx context.Context, year int) (int64, error) {
	var value int64
	err := c.s.q(ctx).QueryRow(ctx, `
		INSERT INTO order_counters (year, value)
		VALUES ($1, 1)
		ON CONFLICT (year) DO UPDATE SET value = order_counters.value + 1
		RETURNING value
	`, year).Scan(&value)
	if err != nil {
		return 0, fmt.Errorf("increment order counter for %d: %w", year, err)
	}
	return value, nil
}

var _ domain.OrderNumberCounter = (*OrderCounter)(nil)
