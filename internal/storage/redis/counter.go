// Package redis хранит счётчик номеров заказов в Redis.
package redis

import (
	"context"
	"fmt"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/vladislavdragonenkov/fulfillment/internal/domain"
)

const (
	defaultKeyPrefix = "fulfillment:order_counter"
	pingTimeout      = 5 * time.Second
)

// Incrementer — часть клиента go-redis, нужная счётчику.
type Incrementer interface {
	Incr(ctx context.Context, key string) *goredis.IntCmd
}

// OrderCounter выдаёт номера через INCR <prefix>:<year>.
//
// INCR атомарен на стороне Redis, поэтому номера уникальны между инстансами
// сервиса. Счётчик живёт вне транзакции заказа: откат оставляет пропуск.
type OrderCounter struct {
	client Incrementer
	prefix string
}

// NewOrderCounter создаёт счётчик поверх клиента go-redis.
func NewOrderCounter(client Incrementer, prefix string) *OrderCounter {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		prefix = defaultKeyPrefix
	}
	return &OrderCounter{client: client, prefix: prefix}
}

// Next увеличивает счётчик года и возвращает новое значение.
func (c *OrderCounter) Next(ctx context.Context, year int) (int64, error) {
	value, err := c.client.Incr(ctx, c.key(year)).Result()
	if err != nil {
		return 0, fmt.Errorf("redis incr order counter for %d: %w", year, err)
	}
	return value, nil
}

func (c *OrderCounter) key(year int) string {
	return fmt.Sprintf("%s:%d", c.prefix, year)
}

// Connect разбирает URL вида redis://host:port/db и проверяет доступность сервера.
func Connect(ctx context.Context, redisURL string) (*goredis.Client, error) {
	opts, err := goredis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := goredis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return client, nil
}

var _ domain.OrderNumberCounter = (*OrderCounter)(nil)
