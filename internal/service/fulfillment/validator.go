package fulfillment

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/vladislavdragonenkov/fulfillment/internal/domain"
)

// Line — позиция запроса, прошедшая предварительную проверку, со снимком карточки товара.
type Line struct {
	Item  domain.RequestedItem
	Name  string
	Price decimal.Decimal
}

// OrderItem превращает строку в позицию заказа.
func (l Line) OrderItem() domain.OrderItem {
	return domain.OrderItem{
		ProductID: l.Item.ProductID,
		Name:      l.Name,
		Price:     l.Price,
		Quantity:  l.Item.Quantity,
		Variant:   l.Item.Variant,
	}
}

// StockValidator выполняет рекомендательную проверку остатков до открытия транзакции.
//
// Успешная проверка ничего не гарантирует: между ней и списанием остаток может
// измениться. Окончательное решение принимает ConditionalDecrement.
type StockValidator struct {
	inventory domain.InventoryStore
}

// NewStockValidator создаёт валидатор поверх хранилища остатков.
func NewStockValidator(inventory domain.InventoryStore) *StockValidator {
	return &StockValidator{inventory: inventory}
}

// Validate проверяет позиции в порядке запроса.
//
// Повторяющиеся позиции одного товара и варианта суммируются: каждая следующая
// проверяется против накопленного спроса.
func (v *StockValidator) Validate(ctx context.Context, items []domain.RequestedItem) ([]Line, error) {
	products := make(map[string]domain.Product, len(items))
	demand := make(map[domain.StockKey]int, len(items))
	lines := make([]Line, 0, len(items))

	for idx, item := range items {
		product, ok := products[item.ProductID]
		if !ok {
			var err error
			product, err = v.inventory.Product(ctx, item.ProductID)
			if err != nil {
				return nil, err
			}
			products[item.ProductID] = product
		}
		if !product.Active {
			return nil, domain.NewValidationError(fmt.Sprintf("items[%d].product_id", idx), domain.ErrProductInactive)
		}

		available, err := v.inventory.PeekStock(ctx, item.ProductID, item.Variant)
		if err != nil {
			return nil, err
		}

		key := item.StockKey()
		demand[key] += item.Quantity
		if demand[key] > available {
			return nil, &domain.InsufficientStockError{
				ProductID: item.ProductID,
				Name:      product.Name,
				Variant:   item.Variant,
				Requested: demand[key],
				Available: available,
			}
		}

		lines = append(lines, Line{Item: item, Name: product.Name, Price: product.Price})
	}

	return lines, nil
}
