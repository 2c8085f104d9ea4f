// Package grpcsvc реализует gRPC интерфейс сервиса оформления заказов.
package grpcsvc

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"

	"github.com/vladislavdragonenkov/fulfillment/internal/domain"
	"github.com/vladislavdragonenkov/fulfillment/internal/service/idempotency"
	fulfillmentv1 "github.com/vladislavdragonenkov/fulfillment/proto/fulfillment/v1"
)

const (
	idempotencyKeyHeader   = "idempotency-key"
	defaultListOrdersLimit = 100
)

// OrderService — операции координатора, которые обслуживает gRPC API.
type OrderService interface {
	CreateOrder(ctx context.Context, req domain.CreateOrderRequest) (domain.Order, error)
	GetOrder(ctx context.Context, id string) (domain.Order, error)
	GetOrderByNumber(ctx context.Context, number string) (domain.Order, error)
	ListUserOrders(ctx context.Context, userID string, limit int) ([]domain.Order, error)
}

// FulfillmentService реализует FulfillmentServiceServer поверх координатора.
type FulfillmentService struct {
	fulfillmentv1.UnimplementedFulfillmentServiceServer

	orders OrderService
	guard  *idempotency.Guard
	logger *log.Entry
}

// NewFulfillmentService конструирует сервис. guard может быть nil.
func NewFulfillmentService(orders OrderService, guard *idempotency.Guard, logger *log.Entry) *FulfillmentService {
	if logger == nil {
		logger = log.New().WithField("component", "grpc-fulfillment")
	}
	return &FulfillmentService{
		orders: orders,
		guard:  guard,
		logger: logger,
	}
}

// cachedFailure — бизнес-отказ в кэше идемпотентности.
type cachedFailure struct {
	Code     codes.Code        `json:"code"`
	Message  string            `json:"message"`
	Reason   string            `json:"reason"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// CreateOrder оформляет заказ. Метаданные idempotency-key включают кэширование ответа.
func (s *FulfillmentService) CreateOrder(ctx context.Context, req *fulfillmentv1.CreateOrderRequest) (*fulfillmentv1.CreateOrderResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	domainReq, err := toDomainRequest(req)
	if err != nil {
		return nil, toStatus(err)
	}

	hash, err := requestHash(fulfillmentv1.FulfillmentService_CreateOrder_FullMethodName, req)
	if err != nil {
		s.logger.WithError(err).Warn("failed to build idempotency request hash")
		return nil, status.Error(codes.Internal, "failed to initialize idempotency request")
	}

	resp, _, err := s.guard.Do(ctx, readIdempotencyKey(ctx), hash, func(ctx context.Context) (idempotency.Response, error) {
		order, err := s.orders.CreateOrder(ctx, domainReq)
		if err != nil {
			if !domain.IsBusinessError(err) {
				return idempotency.Response{}, err
			}
			return encode(failureHTTPStatus(err), failureFromError(err))
		}
		body, err := protojson.Marshal(&fulfillmentv1.CreateOrderResponse{Order: toProtoOrder(order)})
		if err != nil {
			return idempotency.Response{}, err
		}
		return idempotency.Response{Status: http.StatusOK, Body: body}, nil
	})
	if err != nil {
		return nil, s.statusFor(err)
	}

	if resp.Status >= http.StatusBadRequest {
		var failure cachedFailure
		if err := json.Unmarshal(resp.Body, &failure); err != nil {
			return nil, status.Error(codes.Internal, "failed to decode cached idempotency response")
		}
		return nil, failure.status()
	}

	out := new(fulfillmentv1.CreateOrderResponse)
	if err := protojson.Unmarshal(resp.Body, out); err != nil {
		return nil, status.Error(codes.Internal, "failed to decode cached idempotency response")
	}
	return out, nil
}

// GetOrder возвращает заказ по идентификатору или номеру.
func (s *FulfillmentService) GetOrder(ctx context.Context, req *fulfillmentv1.GetOrderRequest) (*fulfillmentv1.GetOrderResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	var (
		order domain.Order
		err   error
	)
	switch {
	case req.GetOrderId() != "":
		order, err = s.orders.GetOrder(ctx, req.GetOrderId())
	case req.GetOrderNumber() != "":
		order, err = s.orders.GetOrderByNumber(ctx, req.GetOrderNumber())
	default:
		err = domain.NewValidationError("order_id", domain.ErrOrderRefRequired)
	}
	if err != nil {
		return nil, s.statusFor(err)
	}
	return &fulfillmentv1.GetOrderResponse{Order: toProtoOrder(order)}, nil
}

// ListUserOrders возвращает последние заказы пользователя.
func (s *FulfillmentService) ListUserOrders(ctx context.Context, req *fulfillmentv1.ListUserOrdersRequest) (*fulfillmentv1.ListUserOrdersResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}
	if req.GetLimit() < 0 {
		return nil, status.Error(codes.InvalidArgument, "limit must be >= 0")
	}

	limit := int(req.GetLimit())
	if limit == 0 || limit > defaultListOrdersLimit {
		limit = defaultListOrdersLimit
	}

	orders, err := s.orders.ListUserOrders(ctx, req.GetUserId(), limit)
	if err != nil {
		return nil, s.statusFor(err)
	}

	result := make([]*fulfillmentv1.Order, 0, len(orders))
	for _, order := range orders {
		result = append(result, toProtoOrder(order))
	}
	return &fulfillmentv1.ListUserOrdersResponse{Orders: result}, nil
}

func (s *FulfillmentService) statusFor(err error) error {
	switch {
	case domain.IsBusinessError(err), domain.IsRetryable(err):
	case errors.Is(err, idempotency.ErrInProgress), errors.Is(err, idempotency.ErrKeyReused):
	default:
		s.logger.WithError(err).Error("request failed")
	}
	return toStatus(err)
}

func toDomainRequest(req *fulfillmentv1.CreateOrderRequest) (domain.CreateOrderRequest, error) {
	total := decimal.Zero
	if strings.TrimSpace(req.GetTotal()) != "" {
		parsed, err := decimal.NewFromString(req.GetTotal())
		if err != nil {
			return domain.CreateOrderRequest{}, domain.NewValidationError("total", domain.ErrTotalInvalid)
		}
		total = parsed
	}

	items := make([]domain.RequestedItem, 0, len(req.GetItems()))
	for _, item := range req.GetItems() {
		if item == nil {
			continue
		}
		items = append(items, domain.RequestedItem{
			ProductID: item.GetProductId(),
			Quantity:  int(item.GetQuantity()),
			Variant:   item.GetVariant(),
		})
	}

	address := req.GetShippingAddress()
	return domain.CreateOrderRequest{
		UserID: req.GetUserId(),
		Items:  items,
		Total:  total,
		ShippingAddress: domain.ShippingAddress{
			Street:     address.GetStreet(),
			City:       address.GetCity(),
			PostalCode: address.GetPostalCode(),
			Phone:      address.GetPhone(),
		},
		PaymentMethod: domain.PaymentMethod(req.GetPaymentMethod()),
	}, nil
}

func toProtoOrder(order domain.Order) *fulfillmentv1.Order {
	items := make([]*fulfillmentv1.OrderItem, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, &fulfillmentv1.OrderItem{
			ProductId: item.ProductID,
			Name:      item.Name,
			Price:     item.Price.StringFixed(2),
			Quantity:  int32(item.Quantity), //nolint:gosec // количество ограничено остатком склада
			Variant:   item.Variant,
		})
	}

	return &fulfillmentv1.Order{
		Id:          order.ID,
		OrderNumber: order.OrderNumber,
		UserId:      order.UserID,
		Items:       items,
		Total:       order.Total.StringFixed(2),
		ShippingAddress: &fulfillmentv1.ShippingAddress{
			Street:     order.ShippingAddress.Street,
			City:       order.ShippingAddress.City,
			PostalCode: order.ShippingAddress.PostalCode,
			Phone:      order.ShippingAddress.Phone,
		},
		PaymentMethod: string(order.PaymentMethod),
		CreatedAtUnix: order.CreatedAt.Unix(),
	}
}

func readIdempotencyKey(ctx context.Context) string {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return ""
	}
	values := md.Get(idempotencyKeyHeader)
	if len(values) == 0 {
		return ""
	}
	return strings.TrimSpace(values[0])
}

// requestHash считает хэш по детерминированной protobuf сериализации запроса.
func requestHash(method string, req proto.Message) (string, error) {
	data, err := proto.MarshalOptions{Deterministic: true}.Marshal(req)
	if err != nil {
		return "", err
	}
	return idempotency.HashPayload(method, data), nil
}

func encode(httpStatus int, payload any) (idempotency.Response, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return idempotency.Response{}, err
	}
	return idempotency.Response{Status: httpStatus, Body: body}, nil
}
