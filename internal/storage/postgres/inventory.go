package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/vladislavdragonenkov/fulfillment/internal/domain"
)

// Users проверяет покупателей по таблице users.
type Users struct {
	s *Store
}

// Exists сообщает, есть ли пользователь в таблице users.
func (u *Users) Exists(ctx context.Context, userID string) (bool, error) {
	var exists bool
	if err := u.s.q(ctx).QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE id = $1)`, userID).Scan(&exists); err != nil {
		return false, fmt.Errorf("check user exists: %w", err)
	}
	return exists, nil
}

// Inventory читает товары и списывает остатки в транзакции из ctx.
type Inventory struct {
	s *Store
}

// Product возвращает карточку товара вместе с остатками вариантов.
func (i *Inventory) Product(ctx context.Context, productID string) (domain.Product, error) {
	q := i.s.q(ctx)

	var (
		product  domain.Product
		priceRaw string
		stock    *int
	)
	err := q.QueryRow(ctx, `
		SELECT id, name, price::text, active, stock
		FROM products
		WHERE id = $1
	`, productID).Scan(&product.ID, &product.Name, &priceRaw, &product.Active, &stock)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Product{}, domain.NewProductNotFoundError(productID)
		}
		return domain.Product{}, fmt.Errorf("get product %s: %w", productID, err)
	}

	product.Price, err = decimal.NewFromString(priceRaw)
	if err != nil {
		return domain.Product{}, fmt.Errorf("parse price of product %s: %w", productID, err)
	}
	if stock != nil {
		product.Stock = *stock
		return product, nil
	}

	rows, err := q.Query(ctx, `
		SELECT variant, stock
		FROM product_variants
		WHERE product_id = $1
		ORDER BY position
	`, productID)
	if err != nil {
		return domain.Product{}, fmt.Errorf("query variants of product %s: %w", productID, err)
	}
	defer rows.Close()

	for rows.Next() {
		var v domain.VariantStock
		if err := rows.Scan(&v.Variant, &v.Stock); err != nil {
			return domain.Product{}, fmt.Errorf("scan variant: %w", err)
		}
		product.Variants = append(product.Variants, v)
	}
	if err := rows.Err(); err != nil {
		return domain.Product{}, fmt.Errorf("iterate variants: %w", err)
	}

	return product, nil
}

// PeekStock возвращает текущий остаток варианта без блокировок.
func (i *Inventory) PeekStock(ctx context.Context, productID, variant string) (int, error) {
	p, err := i.Product(ctx, productID)
	if err != nil {
		return 0, err
	}
	return p.Available(variant)
}

// ConditionalDecrement списывает qty одним UPDATE с условием stock >= qty.
//
// Если UPDATE не затронул ни одной строки, причина (нет товара, нет варианта,
// не хватает остатка) определяется повторным чтением в той же транзакции.
func (i *Inventory) ConditionalDecrement(ctx context.Context, productID, variant string, qty int) error {
	if qty <= 0 {
		return domain.NewValidationError("quantity", domain.ErrItemQtyInvalid)
	}

	q := i.s.q(ctx)

	var (
		left int
		err  error
	)
	if variant == "" {
		err = q.QueryRow(ctx, `
			UPDATE products
			SET stock = stock - $2
			WHERE id = $1 AND stock IS NOT NULL AND stock >= $2
			RETURNING stock
		`, productID, qty).Scan(&left)
	} else {
		err = q.QueryRow(ctx, `
			UPDATE product_variants
			SET stock = stock - $3
			WHERE product_id = $1 AND variant = $2 AND stock >= $3
			RETURNING stock
		`, productID, variant, qty).Scan(&left)
	}
	if err == nil {
		return nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("decrement stock of %s: %w", productID, err)
	}

	product, err := i.Product(ctx, productID)
	if err != nil {
		return err
	}
	if _, err := product.Decremented(variant, qty); err != nil {
		return err
	}
	// Остаток успел вырасти между UPDATE и чтением.
	return fmt.Errorf("%w: stock of %s changed during decrement", domain.ErrWriteConflict, productID)
}

var (
	_ domain.UserDirectory  = (*Users)(nil)
	_ domain.InventoryStore = (*Inventory)(nil)
)
