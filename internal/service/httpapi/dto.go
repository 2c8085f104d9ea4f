package httpapi

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/vladislavdragonenkov/fulfillment/internal/domain"
)

type createOrderItemRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
	Variant   string `json:"variant,omitempty"`
}

type createOrderRequest struct {
	UserID          string                   `json:"user_id"`
	Items           []createOrderItemRequest `json:"items"`
	Total           decimal.Decimal          `json:"total"`
	ShippingAddress domain.ShippingAddress   `json:"shipping_address"`
	PaymentMethod   string                   `json:"payment_method"`
}

func (r createOrderRequest) toDomain() domain.CreateOrderRequest {
	items := make([]domain.RequestedItem, 0, len(r.Items))
	for _, item := range r.Items {
		items = append(items, domain.RequestedItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Variant:   item.Variant,
		})
	}
	return domain.CreateOrderRequest{
		UserID:          r.UserID,
		Items:           items,
		Total:           r.Total,
		ShippingAddress: r.ShippingAddress,
		PaymentMethod:   domain.PaymentMethod(r.PaymentMethod),
	}
}

type orderItemResponse struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
	Variant   string          `json:"variant,omitempty"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

type orderResponse struct {
	ID              string                 `json:"id"`
	OrderNumber     string                 `json:"order_number"`
	UserID          string                 `json:"user_id"`
	Items           []orderItemResponse    `json:"items"`
	Total           decimal.Decimal        `json:"total"`
	ShippingAddress domain.ShippingAddress `json:"shipping_address"`
	PaymentMethod   string                 `json:"payment_method"`
	CreatedAt       time.Time              `json:"created_at"`
}

type createOrderResponse struct {
	Message string        `json:"message"`
	Order   orderResponse `json:"order"`
}

type listOrdersResponse struct {
	Orders []orderResponse `json:"orders"`
	Count  int             `json:"count"`
}

type errorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code"`
	Field     string `json:"field,omitempty"`
	ProductID string `json:"product_id,omitempty"`
	Variant   string `json:"variant,omitempty"`
	Requested *int   `json:"requested,omitempty"`
	Available *int   `json:"available,omitempty"`
}

func toOrderResponse(order domain.Order) orderResponse {
	items := make([]orderItemResponse, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, orderItemResponse{
			ProductID: item.ProductID,
			Name:      item.Name,
			Price:     item.Price,
			Quantity:  item.Quantity,
			Variant:   item.Variant,
			Subtotal:  item.Subtotal(),
		})
	}
	return orderResponse{
		ID:              order.ID,
		OrderNumber:     order.OrderNumber,
		UserID:          order.UserID,
		Items:           items,
		Total:           order.Total,
		ShippingAddress: order.ShippingAddress,
		PaymentMethod:   string(order.PaymentMethod),
		CreatedAt:       order.CreatedAt,
	}
}
