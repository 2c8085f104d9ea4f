package domain

import (
	"errors"
	"fmt"
)

// Виды ошибок. Конкретные типы ниже сопоставляются с ними через errors.Is.
var (
	// ErrValidation возвращается при некорректных входных данных, транзакция не открывалась.
	ErrValidation = errors.New("validation failed")
	// ErrNotFound возвращается, если пользователь, товар или вариант товара не существует.
	ErrNotFound = errors.New("not found")
	// ErrInsufficientStock сигнализирует, что запрошенное количество превышает доступный остаток.
	ErrInsufficientStock = errors.New("insufficient stock")
	// ErrTransactionAborted сигнализирует, что атомарная единица не смогла закоммититься. Запрос можно повторить.
	ErrTransactionAborted = errors.New("transaction aborted")
	// Невосстановимая ошибка хранилища.
	ErrPersistence = errors.New("persistence failure")
)

var (
	// Ошибка отсутствующего идентификатора пользователя.
	ErrUserIDRequired = errors.New("user_id is required")
	// Ошибка отсутствия хотя бы одного товара в заказе.
	ErrItemsRequired = errors.New("order must contain at least one item")
	// Ошибка отсутствующего идентификатора товара в позиции.
	ErrProductIDRequired = errors.New("product_id is required")
	// Ошибка при некорректном количестве товара (<= 0).
	ErrItemQtyInvalid = errors.New("item quantity must be greater than zero")
	// Ошибка неположительной суммы заказа.
	ErrTotalInvalid = errors.New("total must be greater than zero")
	// Ошибка суммы с более чем двумя знаками после запятой.
	ErrTotalPrecision = errors.New("total must have at most 2 decimal places")
	// Ошибка суммы, не помещающейся в NUMERIC(12,2).
	ErrTotalTooLarge = errors.New("total must be less than 10000000000")
	// Ошибка неизвестного способа оплаты.
	ErrPaymentMethodInvalid = errors.New("payment_method must be one of card, paypal, transfer")
	// Ошибка отсутствующего варианта у вариативного товара.
	ErrVariantRequired = errors.New("variant is required for this product")
	// Ошибка пустого идентификатора или номера заказа.
	ErrOrderRefRequired = errors.New("order id or number is required")
	// Ошибка заказа товара, снятого с продажи.
	ErrProductInactive = errors.New("product is no longer available")

	// ErrUserNotFound возвращается, если пользователя нет в справочнике.
	ErrUserNotFound = errors.New("user not found")
	// ErrProductNotFound возвращается, если товара нет в каталоге.
	ErrProductNotFound = errors.New("product not found")
	// ErrVariantNotFound возвращается, если у товара нет запрошенного варианта.
	ErrVariantNotFound = errors.New("variant not defined for product")
	// ErrOrderNotFound возвращается, если заказ не найден в репозитории.
	ErrOrderNotFound = errors.New("order not found")

	// ErrWriteConflict сигнализирует, что конкурентная транзакция изменила прочитанные данные; тело единицы нужно перезапустить.
	ErrWriteConflict = errors.New("write conflict")
	// Ошибка повторного использования номера заказа.
	ErrOrderNumberConflict = errors.New("order number already exists")
	// Ошибка при публикации сообщения из outbox.
	ErrOutboxPublish = errors.New("outbox publish failed")
)

// ValidationError описывает некорректное поле запроса.
type ValidationError struct {
	Field string
	Err   error
}

// NewValidationError создаёт ошибку валидации для поля.
func NewValidationError(field string, err error) *ValidationError {
	return &ValidationError{Field: field, Err: err}
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s: %v", e.Field, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// NotFoundError описывает отсутствующую сущность.
type NotFoundError struct {
	Entity  string
	ID      string
	Variant string
	Err     error
}

// NewUserNotFoundError создаёт ошибку для неизвестного пользователя.
func NewUserNotFoundError(userID string) *NotFoundError {
	return &NotFoundError{Entity: "user", ID: userID, Err: ErrUserNotFound}
}

// NewProductNotFoundError создаёт ошибку для неизвестного товара.
func NewProductNotFoundError(productID string) *NotFoundError {
	return &NotFoundError{Entity: "product", ID: productID, Err: ErrProductNotFound}
}

// NewVariantNotFoundError создаёт ошибку для варианта, не определённого у товара.
func NewVariantNotFoundError(productID, variant string) *NotFoundError {
	return &NotFoundError{Entity: "variant", ID: productID, Variant: variant, Err: ErrVariantNotFound}
}

// NewOrderNotFoundError создаёт ошибку для неизвестного заказа.
func NewOrderNotFoundError(ref string) *NotFoundError {
	return &NotFoundError{Entity: "order", ID: ref, Err: ErrOrderNotFound}
}

func (e *NotFoundError) Error() string {
	if e.Variant != "" {
		return fmt.Sprintf("%v: product %s, variant %s", e.Err, e.ID, e.Variant)
	}
	return fmt.Sprintf("%v: %s", e.Err, e.ID)
}

func (e *NotFoundError) Unwrap() error { return e.Err }

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// InsufficientStockError сообщает, какой позиции не хватило остатка и сколько доступно.
type InsufficientStockError struct {
	ProductID string
	Name      string
	Variant   string
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	label := e.ProductID
	if e.Name != "" {
		label = fmt.Sprintf("%s (%s)", e.Name, e.ProductID)
	}
	if e.Variant != "" {
		return fmt.Sprintf("insufficient stock for %s, variant %s: requested %d, available %d",
			label, e.Variant, e.Requested, e.Available)
	}
	return fmt.Sprintf("insufficient stock for %s: requested %d, available %d", label, e.Requested, e.Available)
}

func (e *InsufficientStockError) Is(target error) bool { return target == ErrInsufficientStock }

// TransactionAbortError — единица не закоммитилась из-за конкуренции или таймаута.
// В отличие от бизнес-ошибок, запрос можно безопасно повторить.
type TransactionAbortError struct {
	Attempts int
	Err      error
}

func (e *TransactionAbortError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("transaction aborted after %d attempt(s)", e.Attempts)
	}
	return fmt.Sprintf("transaction aborted after %d attempt(s): %v", e.Attempts, e.Err)
}

func (e *TransactionAbortError) Unwrap() error { return e.Err }

func (e *TransactionAbortError) Is(target error) bool { return target == ErrTransactionAborted }

// Retryable всегда true: отказ вызван инфраструктурой, а не содержимым заказа.
func (e *TransactionAbortError) Retryable() bool { return true }

// PersistenceError — ошибка хранилища, которую не имеет смысла повторять автоматически.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

func (e *PersistenceError) Is(target error) bool { return target == ErrPersistence }

// IsRetryable сообщает, можно ли повторить запрос с теми же данными.
func IsRetryable(err error) bool {
	var abortErr *TransactionAbortError
	return errors.As(err, &abortErr) && abortErr.Retryable()
}

// IsBusinessError сообщает, что ошибка вызвана содержимым запроса, а не инфраструктурой.
func IsBusinessError(err error) bool {
	return errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrInsufficientStock)
}

// IsIdempotencyConflict проверяет, относится ли ошибка к конфликту idempotency-key.
func IsIdempotencyConflict(err error) bool {
	return errors.Is(err, ErrIdempotencyKeyAlreadyExists) || errors.Is(err, ErrIdempotencyHashMismatch)
}
