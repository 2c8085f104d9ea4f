package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/vladislavdragonenkov/fulfillment/internal/domain"
)

const selectOrderColumns = `
	SELECT id::text, order_number, user_id, total::text, payment_method,
	       ship_street, ship_city, ship_postal_code, ship_phone, created_at
	FROM orders
`

// Orders — append-only хранилище заказов.
type Orders struct {
	s *Store
}

// Insert сохраняет заказ и его позиции. Без транзакции в ctx открывает собственную.
func (o *Orders) Insert(ctx context.Context, order domain.Order) (domain.Order, error) {
	if order.ID == "" {
		order.ID = uuid.NewString()
	}
	order = order.Clone()

	err := o.s.WithinTx(ctx, func(ctx context.Context) error {
		q := o.s.q(ctx)

		_, err := q.Exec(ctx, `
			INSERT INTO orders (
				id, order_number, user_id, total, payment_method,
				ship_street, ship_city, ship_postal_code, ship_phone, created_at
			) VALUES ($1,$2,$3,$4::text::numeric,$5,$6,$7,$8,$9,$10)
		`,
			order.ID, order.OrderNumber, order.UserID, order.Total.String(), string(order.PaymentMethod),
			order.ShippingAddress.Street, order.ShippingAddress.City,
			order.ShippingAddress.PostalCode, order.ShippingAddress.Phone, order.CreatedAt,
		)
		if err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("insert order %s: %w", order.OrderNumber, domain.ErrOrderNumberConflict)
			}
			return fmt.Errorf("insert order: %w", err)
		}

		for idx, item := range order.Items {
			if _, err := q.Exec(ctx, `
				INSERT INTO order_items (
					order_id, position, product_id, name, price, quantity, variant
				) VALUES ($1,$2,$3,$4,$5::text::numeric,$6,$7)
			`,
				order.ID, idx, item.ProductID, item.Name, item.Price.String(), item.Quantity, item.Variant,
			); err != nil {
				return fmt.Errorf("insert order item: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return domain.Order{}, err
	}
	return order.Clone(), nil
}

// Get возвращает заказ по идентификатору.
func (o *Orders) Get(ctx context.Context, id string) (domain.Order, error) {
	if _, err := uuid.Parse(id); err != nil {
		return domain.Order{}, domain.NewOrderNotFoundError(id)
	}
	return o.getOne(ctx, selectOrderColumns+` WHERE id = $1`, id)
}

// GetByNumber возвращает заказ по номеру ORD-YYYY-NNNNNN.
func (o *Orders) GetByNumber(ctx context.Context, orderNumber string) (domain.Order, error) {
	return o.getOne(ctx, selectOrderColumns+` WHERE order_number = $1`, orderNumber)
}

func (o *Orders) getOne(ctx context.Context, query, ref string) (domain.Order, error) {
	q := o.s.q(ctx)

	order, err := scanOrder(q.QueryRow(ctx, query, ref))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Order{}, domain.NewOrderNotFoundError(ref)
		}
		return domain.Order{}, fmt.Errorf("select order %s: %w", ref, err)
	}

	if order.Items, err = loadItems(ctx, q, order.ID); err != nil {
		return domain.Order{}, err
	}
	return order, nil
}

// ListByUser возвращает заказы пользователя, новые первыми.
func (o *Orders) ListByUser(ctx context.Context, userID string, limit int) ([]domain.Order, error) {
	q := o.s.q(ctx)

	query := selectOrderColumns + `
		WHERE user_id = $1
		ORDER BY created_at DESC, order_number DESC
	`
	var (
		rows pgx.Rows
		err  error
	)
	if limit > 0 {
		rows, err = q.Query(ctx, query+" LIMIT $2", userID, limit)
	} else {
		rows, err = q.Query(ctx, query, userID)
	}
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}

	orders := make([]domain.Order, 0)
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, order)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate orders: %w", err)
	}

	for i := range orders {
		if orders[i].Items, err = loadItems(ctx, q, orders[i].ID); err != nil {
			return nil, err
		}
	}
	return orders, nil
}

func scanOrder(row pgx.Row) (domain.Order, error) {
	var (
		order    domain.Order
		totalRaw string
		method   string
	)
	if err := row.Scan(
		&order.ID, &order.OrderNumber, &order.UserID, &totalRaw, &method,
		&order.ShippingAddress.Street, &order.ShippingAddress.City,
		&order.ShippingAddress.PostalCode, &order.ShippingAddress.Phone, &order.CreatedAt,
	); err != nil {
		return domain.Order{}, err
	}

	total, err := decimal.NewFromString(totalRaw)
	if err != nil {
		return domain.Order{}, fmt.Errorf("parse order total %q: %w", totalRaw, err)
	}
	order.Total = total
	order.PaymentMethod = domain.PaymentMethod(strings.TrimSpace(method))
	order.CreatedAt = order.CreatedAt.UTC()
	return order, nil
}

func loadItems(ctx context.Context, q querier, orderID string) ([]domain.OrderItem, error) {
	rows, err := q.Query(ctx, `
		SELECT product_id, name, price::text, quantity, variant
		FROM order_items
		WHERE order_id = $1
		ORDER BY position
	`, orderID)
	if err != nil {
		return nil, fmt.Errorf("select order items: %w", err)
	}
	defer rows.Close()

	items := make([]domain.OrderItem, 0)
	for rows.Next() {
		var (
			item     domain.OrderItem
			priceRaw string
		)
		if err := rows.Scan(&item.ProductID, &item.Name, &priceRaw, &item.Quantity, &item.Variant); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		if item.Price, err = decimal.NewFromString(priceRaw); err != nil {
			return nil, fmt.Errorf("parse order item price: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate order items: %w", err)
	}
	return items, nil
}

var _ domain.OrderStore = (*Orders)(nil)
