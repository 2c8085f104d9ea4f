package memory

import (
	"context"

	"github.com/vladislavdragonenkov/fulfillment/internal/domain"
)

// Users отвечает на вопрос, существует ли пользователь.
type Users struct {
	s *Store
}

// Exists сообщает, зарегистрирован ли пользователь.
func (u *Users) Exists(_ context.Context, userID string) (bool, error) {
	u.s.mu.Lock()
	defer u.s.mu.Unlock()
	_, ok := u.s.users[userID]
	return ok, nil
}

// Inventory — остатки товаров поверх Store.
type Inventory struct {
	s *Store
}

// Product возвращает товар. Внутри транзакции учитываются её незакоммиченные списания.
func (i *Inventory) Product(ctx context.Context, productID string) (domain.Product, error) {
	if t := i.s.txFrom(ctx); t != nil {
		p, err := t.product(productID)
		if err != nil {
			return domain.Product{}, err
		}
		return p.Clone(), nil
	}

	i.s.mu.Lock()
	defer i.s.mu.Unlock()

	rec, ok := i.s.products[productID]
	if !ok {
		return domain.Product{}, domain.NewProductNotFoundError(productID)
	}
	return rec.product.Clone(), nil
}

// PeekStock возвращает остаток варианта без блокировок и гарантий.
func (i *Inventory) PeekStock(ctx context.Context, productID, variant string) (int, error) {
	p, err := i.Product(ctx, productID)
	if err != nil {
		return 0, err
	}
	return p.Available(variant)
}

// ConditionalDecrement списывает qty, только если остаток не станет отрицательным.
//
// Внутри транзакции списание видно последующим операциям той же транзакции,
// поэтому повторяющиеся позиции списываются накопительно. Вне транзакции
// проверка и запись выполняются под мьютексом хранилища.
func (i *Inventory) ConditionalDecrement(ctx context.Context, productID, variant string, qty int) error {
	if qty <= 0 {
		return domain.NewValidationError("quantity", domain.ErrItemQtyInvalid)
	}

	if t := i.s.txFrom(ctx); t != nil {
		p, err := t.product(productID)
		if err != nil {
			return err
		}
		next, err := p.Decremented(variant, qty)
		if err != nil {
			return err
		}
		t.putProduct(next)
		return nil
	}

	i.s.mu.Lock()
	defer i.s.mu.Unlock()

	rec, ok := i.s.products[productID]
	if !ok {
		return domain.NewProductNotFoundError(productID)
	}
	next, err := rec.product.Decremented(variant, qty)
	if err != nil {
		return err
	}
	rec.product = next
	rec.version++
	return nil
}

var (
	_ domain.UserDirectory  = (*Users)(nil)
	_ domain.InventoryStore = (*Inventory)(nil)
)
