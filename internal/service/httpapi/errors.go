package httpapi

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/vladislavdragonenkov/fulfillment/internal/domain"
	"github.com/vladislavdragonenkov/fulfillment/internal/service/idempotency"
)

// Коды ошибок в теле ответа.
const (
	CodeValidation         = "validation_error"
	CodeNotFound           = "not_found"
	CodeInsufficientStock  = "insufficient_stock"
	CodeTransactionAborted = "transaction_aborted"
	CodeIdempotency        = "idempotency_conflict"
	CodeInternal           = "internal_error"
)

// RetryAfterSeconds — подсказка клиенту для повтора после TransactionAbort.
const RetryAfterSeconds = 1

var retryAfter = strconv.Itoa(RetryAfterSeconds)

// mapError переводит ошибку сервиса в HTTP статус и тело ответа.
func mapError(err error) (int, errorResponse) {
	var (
		validationErr *domain.ValidationError
		notFoundErr   *domain.NotFoundError
		stockErr      *domain.InsufficientStockError
	)

	switch {
	case errors.As(err, &validationErr):
		return http.StatusBadRequest, errorResponse{
			Error: validationErr.Error(),
			Code:  CodeValidation,
			Field: validationErr.Field,
		}
	case errors.As(err, &notFoundErr):
		resp := errorResponse{Error: notFoundErr.Error(), Code: CodeNotFound}
		if notFoundErr.Entity == "product" || notFoundErr.Entity == "variant" {
			resp.ProductID = notFoundErr.ID
			resp.Variant = notFoundErr.Variant
		}
		return http.StatusNotFound, resp
	case errors.As(err, &stockErr):
		requested, available := stockErr.Requested, stockErr.Available
		return http.StatusConflict, errorResponse{
			Error:     stockErr.Error(),
			Code:      CodeInsufficientStock,
			ProductID: stockErr.ProductID,
			Variant:   stockErr.Variant,
			Requested: &requested,
			Available: &available,
		}
	case errors.Is(err, domain.ErrTransactionAborted):
		return http.StatusServiceUnavailable, errorResponse{
			Error: "order could not be committed, retry the request",
			Code:  CodeTransactionAborted,
		}
	case errors.Is(err, idempotency.ErrInProgress), errors.Is(err, idempotency.ErrKeyReused):
		return http.StatusConflict, errorResponse{Error: err.Error(), Code: CodeIdempotency}
	default:
		return http.StatusInternalServerError, errorResponse{Error: "internal error", Code: CodeInternal}
	}
}
