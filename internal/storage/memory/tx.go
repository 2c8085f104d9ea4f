package memory

import (
	"fmt"

	"github.com/vladislavdragonenkov/fulfillment/internal/domain"
)

type readKey struct {
	kind string
	id   string
}

// tx — незакоммиченное состояние одной попытки транзакции.
type tx struct {
	store *Store

	reads        map[readKey]uint64
	products     map[string]domain.Product
	dirty        map[string]bool
	missing      map[string]bool
	clearedCarts map[string]bool
	orders       []domain.Order
	outbox       []domain.OutboxMessage
}

func newTx(s *Store) *tx {
	return &tx{
		store:        s,
		reads:        make(map[readKey]uint64),
		products:     make(map[string]domain.Product),
		dirty:        make(map[string]bool),
		missing:      make(map[string]bool),
		clearedCarts: make(map[string]bool),
	}
}

// product возвращает товар в том виде, в каком его видит транзакция.
func (t *tx) product(productID string) (domain.Product, error) {
	if p, ok := t.products[productID]; ok {
		return p, nil
	}
	if t.missing[productID] {
		return domain.Product{}, domain.NewProductNotFoundError(productID)
	}

	t.store.mu.Lock()
	rec, ok := t.store.products[productID]
	var (
		product domain.Product
		version uint64
	)
	if ok {
		product = rec.product.Clone()
		version = rec.version
	}
	t.store.mu.Unlock()

	t.recordRead(readKey{kind: "product", id: productID}, version)
	if !ok {
		t.missing[productID] = true
		return domain.Product{}, domain.NewProductNotFoundError(productID)
	}
	t.products[productID] = product
	return product, nil
}

func (t *tx) putProduct(product domain.Product) {
	t.products[product.ID] = product
	t.dirty[product.ID] = true
}

func (t *tx) clearCart(userID string) {
	if !t.clearedCarts[userID] {
		t.store.mu.Lock()
		var version uint64
		if rec, ok := t.store.carts[userID]; ok {
			version = rec.version
		}
		t.store.mu.Unlock()
		t.recordRead(readKey{kind: "cart", id: userID}, version)
	}
	t.clearedCarts[userID] = true
}

func (t *tx) recordRead(key readKey, version uint64) {
	if _, seen := t.reads[key]; !seen {
		t.reads[key] = version
	}
}

func (t *tx) stagedOrder(match func(domain.Order) bool) (domain.Order, bool) {
	for _, order := range t.orders {
		if match(order) {
			return order.Clone(), true
		}
	}
	return domain.Order{}, false
}

// readSetValid проверяет, что ни одна прочитанная запись не изменилась.
func (s *Store) readSetValid(t *tx) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.validateLocked(t) == nil
}

func (s *Store) validateLocked(t *tx) error {
	for key, seen := range t.reads {
		var current uint64
		switch key.kind {
		case "product":
			if rec, ok := s.products[key.id]; ok {
				current = rec.version
			}
		case "cart":
			if rec, ok := s.carts[key.id]; ok {
				current = rec.version
			}
		}
		if current != seen {
			return fmt.Errorf("%w: %s %s changed", domain.ErrWriteConflict, key.kind, key.id)
		}
	}
	return nil
}

// commit атомарно применяет изменения транзакции.
func (s *Store) commit(t *tx) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.validateLocked(t); err != nil {
		return err
	}
	for _, order := range t.orders {
		if _, exists := s.byNumber[order.OrderNumber]; exists {
			return fmt.Errorf("commit order %s: %w", order.OrderNumber, domain.ErrOrderNumberConflict)
		}
	}

	for id := range t.dirty {
		rec := s.products[id]
		rec.product = t.products[id]
		rec.version++
	}
	for userID := range t.clearedCarts {
		rec, ok := s.carts[userID]
		if !ok {
			continue
		}
		rec.items = nil
		rec.version++
	}
	for _, order := range t.orders {
		s.orders[order.ID] = order
		s.byNumber[order.OrderNumber] = order.ID
		s.byUser[order.UserID] = append(s.byUser[order.UserID], order.ID)
	}
	s.outbox.appendCommitted(t.outbox)

	return nil
}
