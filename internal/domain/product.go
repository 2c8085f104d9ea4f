package domain

import "github.com/shopspring/decimal"

// StockKey адресует один счётчик остатка: товар целиком или его вариант.
type StockKey struct {
	ProductID string
	Variant   string
}

// VariantStock — остаток конкретного варианта товара (например, размера).
type VariantStock struct {
	Variant string
	Stock   int
}

// Product — карточка товара в объёме, нужном для оформления заказа.
//
// Остаток хранится либо скаляром Stock (простой товар), либо списком Variants;
// одновременно оба представления не используются.
type Product struct {
	ID       string
	Name     string
	Price    decimal.Decimal
	Active   bool
	Stock    int
	Variants []VariantStock
}

// HasVariants сообщает, ведётся ли остаток по вариантам.
func (p Product) HasVariants() bool {
	return len(p.Variants) > 0
}

// Clone возвращает копию товара с независимым списком вариантов.
func (p Product) Clone() Product {
	p.Variants = append([]VariantStock(nil), p.Variants...)
	return p
}

// Available возвращает текущий остаток для варианта.
// Для простого товара вариант должен быть пустым, для вариативного обязателен.
func (p Product) Available(variant string) (int, error) {
	if !p.HasVariants() {
		if variant != "" {
			return 0, NewVariantNotFoundError(p.ID, variant)
		}
		return p.Stock, nil
	}
	if variant == "" {
		return 0, NewValidationError("variant", ErrVariantRequired)
	}
	for _, v := range p.Variants {
		if v.Variant == variant {
			return v.Stock, nil
		}
	}
	return 0, NewVariantNotFoundError(p.ID, variant)
}

// Decremented возвращает копию товара с остатком, уменьшенным на qty.
// Если остатка не хватает, возвращается *InsufficientStockError, а товар не меняется.
func (p Product) Decremented(variant string, qty int) (Product, error) {
	available, err := p.Available(variant)
	if err != nil {
		return p, err
	}
	if available < qty {
		return p, &InsufficientStockError{
			ProductID: p.ID,
			Name:      p.Name,
			Variant:   variant,
			Requested: qty,
			Available: available,
		}
	}

	next := p.Clone()
	if !next.HasVariants() {
		next.Stock -= qty
		return next, nil
	}
	for i := range next.Variants {
		if next.Variants[i].Variant == variant {
			next.Variants[i].Stock -= qty
			break
		}
	}
	return next, nil
}

type CartItem struct {
	ProductID string
	Name      string
	Price     decimal.Decimal
	Quantity  int
	Variant   string
}
