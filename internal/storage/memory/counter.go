package memory

import (
	"context"
	"sync"

	"github.com/vladislavdragonenkov/fulfillment/internal/domain"
)

// OrderCounter — счётчик номеров заказов по годам в памяти процесса.
//
// Работает как sequence: значение, выданное транзакции, которая потом
// откатилась, не возвращается, и в нумерации остаётся пропуск.
type OrderCounter struct {
	mu     sync.Mutex
	values map[int]int64
}

// NewOrderCounter создаёт изолированный счётчик.
func NewOrderCounter() *OrderCounter {
	return &OrderCounter{values: make(map[int]int64)}
}

// Next увеличивает счётчик года и возвращает новое значение.
func (c *OrderCounter) Next(_ context.Context, year int) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values[year]++
	return c.values[year], nil
}

var _ domain.OrderNumberCounter = (*OrderCounter)(nil)
