package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Денежные суммы хранятся как NUMERIC(12,2): два знака после запятой и до десяти целых.
const (
	MoneyScale         = 2
	moneyIntegerDigits = 10
)

var maxMoneyExclusive = decimal.New(1, moneyIntegerDigits)

// PaymentMethod фиксирует выбранный клиентом способ оплаты. Оплата не исполняется, только сохраняется.
type PaymentMethod string

const (
	PaymentMethodCard     PaymentMethod = "card"
	PaymentMethodPayPal   PaymentMethod = "paypal"
	PaymentMethodTransfer PaymentMethod = "transfer"
)

// Valid проверяет, что способ оплаты относится к поддерживаемым значениям.
func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentMethodCard, PaymentMethodPayPal, PaymentMethodTransfer:
		return true
	default:
		return false
	}
}

// ShippingAddress описывает адрес доставки. Все поля необязательны.
type ShippingAddress struct {
	Street     string `json:"street,omitempty"`
	City       string `json:"city,omitempty"`
	PostalCode string `json:"postal_code,omitempty"`
	Phone      string `json:"phone,omitempty"`
}

// OrderItem представляет одну позицию заказа.
type OrderItem struct {
	ProductID string
	// Name и Price копируются из каталога в момент оформления и дальше не меняются.
	Name     string
	Price    decimal.Decimal
	Quantity int
	// Размер или другое измерение товара, пусто для простых товаров.
	Variant string
}

// Subtotal возвращает Price * Quantity.
func (i OrderItem) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Order — зафиксированный заказ. Создаётся один раз при коммите и больше не изменяется.
type Order struct {
	ID              string
	OrderNumber     string
	UserID          string
	Items           []OrderItem
	Total           decimal.Decimal
	ShippingAddress ShippingAddress
	PaymentMethod   PaymentMethod
	CreatedAt       time.Time
}

// ItemsTotal суммирует позиции заказа по снимку цен.
func (o Order) ItemsTotal() decimal.Decimal {
	sum := decimal.Zero
	for _, item := range o.Items {
		sum = sum.Add(item.Subtotal())
	}
	return sum
}

// Clone возвращает копию заказа, не разделяющую срез позиций с оригиналом.
func (o Order) Clone() Order {
	o.Items = append([]OrderItem(nil), o.Items...)
	return o
}

// RequestedItem описывает позицию во входящем запросе.
type RequestedItem struct {
	ProductID string
	Quantity  int
	Variant   string
}

// StockKey идентифицирует счётчик остатка, с которого списывается позиция.
func (i RequestedItem) StockKey() StockKey {
	return StockKey{ProductID: i.ProductID, Variant: i.Variant}
}

// CreateOrderRequest — входные данные операции CreateOrder.
type CreateOrderRequest struct {
	UserID          string
	Items           []RequestedItem
	Total           decimal.Decimal
	ShippingAddress ShippingAddress
	PaymentMethod   PaymentMethod
}

// Validate проверяет форму запроса без обращения к хранилищам.
func (r CreateOrderRequest) Validate() error {
	if strings.TrimSpace(r.UserID) == "" {
		return NewValidationError("user_id", ErrUserIDRequired)
	}
	if len(r.Items) == 0 {
		return NewValidationError("items", ErrItemsRequired)
	}
	for idx, item := range r.Items {
		if strings.TrimSpace(item.ProductID) == "" {
			return NewValidationError(fmt.Sprintf("items[%d].product_id", idx), ErrProductIDRequired)
		}
		if item.Quantity <= 0 {
			return NewValidationError(fmt.Sprintf("items[%d].quantity", idx), ErrItemQtyInvalid)
		}
	}
	if !r.Total.IsPositive() {
		return NewValidationError("total", ErrTotalInvalid)
	}
	if !r.Total.Equal(r.Total.Truncate(MoneyScale)) {
		return NewValidationError("total", ErrTotalPrecision)
	}
	if r.Total.GreaterThanOrEqual(maxMoneyExclusive) {
		return NewValidationError("total", ErrTotalTooLarge)
	}
	if !r.PaymentMethod.Valid() {
		return NewValidationError("payment_method", ErrPaymentMethodInvalid)
	}
	return nil
}
