package grpcsvc

import (
	"errors"
	"net/http"
	"strconv"

	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/vladislavdragonenkov/fulfillment/internal/domain"
	"github.com/vladislavdragonenkov/fulfillment/internal/service/idempotency"
)

// ErrorDomain — домен в errdetails.ErrorInfo.
const ErrorDomain = "fulfillment.v1"

// Причины отказа в errdetails.ErrorInfo.Reason.
const (
	ReasonValidation         = "VALIDATION_FAILED"
	ReasonNotFound           = "NOT_FOUND"
	ReasonInsufficientStock  = "INSUFFICIENT_STOCK"
	ReasonTransactionAborted = "TRANSACTION_ABORTED"
	ReasonIdempotency        = "IDEMPOTENCY_CONFLICT"
	ReasonInternal           = "INTERNAL"
)

// toStatus переводит ошибку сервиса в gRPC status с ErrorInfo.
func toStatus(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}

	switch {
	case domain.IsBusinessError(err):
		return failureFromError(err).status()
	case errors.Is(err, domain.ErrTransactionAborted):
		return cachedFailure{
			Code:     codes.Aborted,
			Message:  "order could not be committed, retry the request",
			Reason:   ReasonTransactionAborted,
			Metadata: map[string]string{"retryable": "true"},
		}.status()
	case errors.Is(err, idempotency.ErrKeyReused):
		return cachedFailure{Code: codes.AlreadyExists, Message: err.Error(), Reason: ReasonIdempotency}.status()
	case errors.Is(err, idempotency.ErrInProgress):
		return cachedFailure{Code: codes.Aborted, Message: err.Error(), Reason: ReasonIdempotency}.status()
	default:
		return cachedFailure{Code: codes.Internal, Message: "internal error", Reason: ReasonInternal}.status()
	}
}

// failureFromError описывает бизнес-отказ кодом, причиной и полями.
func failureFromError(err error) cachedFailure {
	var (
		validationErr *domain.ValidationError
		notFoundErr   *domain.NotFoundError
		stockErr      *domain.InsufficientStockError
	)

	switch {
	case errors.As(err, &validationErr):
		return cachedFailure{
			Code:     codes.InvalidArgument,
			Message:  validationErr.Error(),
			Reason:   ReasonValidation,
			Metadata: map[string]string{"field": validationErr.Field},
		}
	case errors.As(err, &notFoundErr):
		md := map[string]string{"entity": notFoundErr.Entity, "id": notFoundErr.ID}
		if notFoundErr.Variant != "" {
			md["variant"] = notFoundErr.Variant
		}
		return cachedFailure{Code: codes.NotFound, Message: notFoundErr.Error(), Reason: ReasonNotFound, Metadata: md}
	case errors.As(err, &stockErr):
		md := map[string]string{
			"product_id": stockErr.ProductID,
			"requested":  strconv.Itoa(stockErr.Requested),
			"available":  strconv.Itoa(stockErr.Available),
		}
		if stockErr.Variant != "" {
			md["variant"] = stockErr.Variant
		}
		return cachedFailure{Code: codes.FailedPrecondition, Message: stockErr.Error(), Reason: ReasonInsufficientStock, Metadata: md}
	default:
		return cachedFailure{Code: codes.Internal, Message: "internal error", Reason: ReasonInternal}
	}
}

func failureHTTPStatus(err error) int {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusConflict
	}
}

func (f cachedFailure) status() error {
	st := status.New(f.Code, f.Message)
	withDetails, err := st.WithDetails(&errdetails.ErrorInfo{
		Reason:   f.Reason,
		Domain:   ErrorDomain,
		Metadata: f.Metadata,
	})
	if err != nil {
		return st.Err()
	}
	return withDetails.Err()
}
