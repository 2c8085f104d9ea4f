package domain

import (
	"context"
	"time"
)

// UserDirectory отвечает на вопрос, существует ли пользователь. Аутентификацией сервис не занимается.
type UserDirectory interface {
	Exists(ctx context.Context, userID string) (bool, error)
}

// InventoryStore хранит остатки товаров.
//
// ConditionalDecrement — единственная мутирующая операция над остатком: проверка
// и списание выполняются одним неделимым шагом внутри атомарной единицы.
type InventoryStore interface {
	// Product возвращает карточку товара или *NotFoundError.
	Product(ctx context.Context, productID string) (Product, error)
	// PeekStock читает остаток для предварительной проверки, без гарантий.
	PeekStock(ctx context.Context, productID, variant string) (int, error)
	// ConditionalDecrement уменьшает остаток на qty, только если он не станет отрицательным.
	// При нехватке возвращает *InsufficientStockError с текущим остатком.
	ConditionalDecrement(ctx context.Context, productID, variant string, qty int) error
}

// CartStore хранит корзины пользователей.
type CartStore interface {
	Get(ctx context.Context, userID string) ([]CartItem, error)
	// Clear очищает корзину; вызывается внутри той же атомарной единицы, что и вставка заказа.
	Clear(ctx context.Context, userID string) error
}

// OrderStore — append-only хранилище заказов.
type OrderStore interface {
	// Insert сохраняет заказ и возвращает его с присвоенным идентификатором.
	Insert(ctx context.Context, order Order) (Order, error)
	Get(ctx context.Context, id string) (Order, error)
	GetByNumber(ctx context.Context, orderNumber string) (Order, error)
	// ListByUser возвращает заказы пользователя, новые первыми; limit <= 0 снимает ограничение.
	ListByUser(ctx context.Context, userID string, limit int) ([]Order, error)
}

// OrderNumberCounter — атомарный счётчик заказов в пределах календарного года.
type OrderNumberCounter interface {
	// Next увеличивает счётчик года и возвращает новое значение.
	Next(ctx context.Context, year int) (int64, error)
}

// Transactor открывает атомарную единицу.
//
// fn получает контекст, через который хранилища видят текущую транзакцию.
// Ошибка из fn откатывает все изменения. Реализация может перезапустить fn
// целиком при конфликте записи; после исчерпания попыток возвращается
// *TransactionAbortError.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// OutboxPublisher публикует события из transactional outbox.
type OutboxPublisher interface {
	// Publish передаёт событие наружу; должен быть идемпотентным.
	Publish(ctx context.Context, event OutboxMessage) error
}

// OutboxRepository позволяет сохранять события для последующей публикации.
// Enqueue, вызванный внутри WithinTx, становится видимым только после коммита.
type OutboxRepository interface {
	Enqueue(ctx context.Context, msg OutboxMessage) (OutboxMessage, error)
	PullPending(ctx context.Context, limit int) ([]OutboxMessage, error)
	Stats(ctx context.Context) (OutboxStats, error)
	MarkSent(ctx context.Context, id string) error
	MarkFailed(ctx context.Context, id string) error
}

// IdempotencyRepository хранит состояние обработки запросов по idempotency-key.
type IdempotencyRepository interface {
	CreateProcessing(ctx context.Context, key, requestHash string, ttlAt time.Time) (IdempotencyRecord, error)
	Get(ctx context.Context, key string) (IdempotencyRecord, error)
	MarkDone(ctx context.Context, key string, responseBody []byte, httpStatus int) error
	MarkFailed(ctx context.Context, key string, responseBody []byte, httpStatus int) error
	// Release удаляет ключ в статусе processing, чтобы запрос можно было повторить.
	Release(ctx context.Context, key string) error
	DeleteExpired(ctx context.Context, before time.Time, limit int) (int, error)
}
