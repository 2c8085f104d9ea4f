package grpcsvc

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/proto"

	"github.com/vladislavdragonenkov/fulfillment/internal/domain"
	"github.com/vladislavdragonenkov/fulfillment/internal/service/idempotency"
	fulfillmentv1 "github.com/vladislavdragonenkov/fulfillment/proto/fulfillment/v1"
)

func TestToStatus(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		code   codes.Code
		reason string
	}{
		{"validation", domain.NewValidationError("items", domain.ErrItemsRequired), codes.InvalidArgument, ReasonValidation},
		{"user not found", domain.NewUserNotFoundError("u-x"), codes.NotFound, ReasonNotFound},
		{"variant not found", domain.NewVariantNotFoundError("p-1", "XL"), codes.NotFound, ReasonNotFound},
		{"stock", &domain.InsufficientStockError{ProductID: "p-1", Requested: 2, Available: 1}, codes.FailedPrecondition, ReasonInsufficientStock},
		{"aborted", &domain.TransactionAbortError{Attempts: 3, Err: domain.ErrWriteConflict}, codes.Aborted, ReasonTransactionAborted},
		{"persistence", &domain.PersistenceError{Op: "insert", Err: errors.New("io")}, codes.Internal, ReasonInternal},
		{"key reused", idempotency.ErrKeyReused, codes.AlreadyExists, ReasonIdempotency},
		{"in progress", idempotency.ErrInProgress, codes.Aborted, ReasonIdempotency},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := toStatus(tt.err)
			st := status.Convert(err)
			assert.Equal(t, tt.code, st.Code())

			details := st.Details()
			if assert.Len(t, details, 1) {
				info, ok := details[0].(*errdetails.ErrorInfo)
				if assert.True(t, ok) {
					assert.Equal(t, tt.reason, info.GetReason())
				}
			}
		})
	}
}

func TestToStatus_KeepsStatusErrors(t *testing.T) {
	original := status.Error(codes.Unavailable, "down")
	assert.Equal(t, original, toStatus(original))
	assert.NoError(t, toStatus(nil))
}

func TestToStatus_HidesInternalMessage(t *testing.T) {
	err := toStatus(&domain.PersistenceError{Op: "insert", Err: errors.New("password=secret")})
	assert.NotContains(t, status.Convert(err).Message(), "secret")
}

func TestRequestHash(t *testing.T) {
	req := &fulfillmentv1.CreateOrderRequest{
		UserId: "u-1",
		Items:  []*fulfillmentv1.OrderItem{{ProductId: "p-1", Quantity: 2}},
		Total:  "20.00",
	}

	a, err := requestHash(fulfillmentv1.FulfillmentService_CreateOrder_FullMethodName, req)
	assert.NoError(t, err)
	b, err := requestHash(fulfillmentv1.FulfillmentService_CreateOrder_FullMethodName, proto.Clone(req))
	assert.NoError(t, err)
	assert.Equal(t, a, b)

	changed := proto.Clone(req).(*fulfillmentv1.CreateOrderRequest)
	changed.Items[0].Quantity = 3
	c, err := requestHash(fulfillmentv1.FulfillmentService_CreateOrder_FullMethodName, changed)
	assert.NoError(t, err)
	assert.NotEqual(t, a, c)

	d, err := requestHash(fulfillmentv1.FulfillmentService_GetOrder_FullMethodName, req)
	assert.NoError(t, err)
	assert.NotEqual(t, a, d)
}

func TestToDomainRequest(t *testing.T) {
	got, err := toDomainRequest(&fulfillmentv1.CreateOrderRequest{
		UserId:        "u-1",
		Items:         []*fulfillmentv1.OrderItem{nil, {ProductId: "p-1", Quantity: 2, Variant: "M"}},
		Total:         "20.50",
		PaymentMethod: "card",
	})
	assert.NoError(t, err)
	assert.Equal(t, "u-1", got.UserID)
	assert.Equal(t, []domain.RequestedItem{{ProductID: "p-1", Quantity: 2, Variant: "M"}}, got.Items)
	assert.Equal(t, "20.5", got.Total.String())
	assert.Equal(t, domain.ShippingAddress{}, got.ShippingAddress)

	_, err = toDomainRequest(&fulfillmentv1.CreateOrderRequest{Total: "ten"})
	assert.ErrorIs(t, err, domain.ErrTotalInvalid)
}
