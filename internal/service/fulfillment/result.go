package fulfillment

import "github.com/vladislavdragonenkov/fulfillment/internal/domain"

// Result — исход тела атомарной единицы: заказ либо причина отказа.
// Единица коммитится только для Ok.
type Result struct {
	order domain.Order
	err   error
}

// Ok фиксирует успешно собранный заказ.
func Ok(order domain.Order) Result {
	return Result{order: order}
}

// Fail фиксирует отказ; err не должен быть nil.
func Fail(err error) Result {
	return Result{err: err}
}

// IsOk сообщает, можно ли коммитить единицу.
func (r Result) IsOk() bool { return r.err == nil }

// Order возвращает заказ успешного результата.
func (r Result) Order() domain.Order { return r.order }

// Err возвращает причину отказа или nil.
func (r Result) Err() error { return r.err }
