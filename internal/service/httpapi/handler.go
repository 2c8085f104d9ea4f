// Package httpapi реализует REST интерфейс сервиса оформления заказов.
package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/fulfillment/internal/domain"
	"github.com/vladislavdragonenkov/fulfillment/internal/service/idempotency"
)

const (
	// IdempotencyKeyHeader — заголовок с ключом идемпотентности.
	IdempotencyKeyHeader = "Idempotency-Key"
	// ReplayedHeader выставляется, если ответ взят из кэша идемпотентности.
	ReplayedHeader = "Idempotent-Replayed"

	createOrderScope = "POST /api/orders"
	maxListLimit     = 100
)

// OrderService — операции, которые обслуживает API.
type OrderService interface {
	CreateOrder(ctx context.Context, req domain.CreateOrderRequest) (domain.Order, error)
	GetOrder(ctx context.Context, id string) (domain.Order, error)
	GetOrderByNumber(ctx context.Context, number string) (domain.Order, error)
	ListUserOrders(ctx context.Context, userID string, limit int) ([]domain.Order, error)
}

// Handler обрабатывает запросы /api.
type Handler struct {
	orders OrderService
	guard  *idempotency.Guard
	logger *log.Entry
}

// NewHandler создаёт Handler. guard может быть nil.
func NewHandler(orders OrderService, guard *idempotency.Guard, logger *log.Entry) *Handler {
	if logger == nil {
		logger = log.NewEntry(log.StandardLogger())
	}
	return &Handler{
		orders: orders,
		guard:  guard,
		logger: logger.WithField("component", "http-api"),
	}
}

// Router собирает gin engine со всеми маршрутами.
func (h *Handler) Router() *gin.Engine {
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(RequestLogger(h.logger))
	engine.Use(gzip.Gzip(gzip.DefaultCompression))

	api := engine.Group("/api")
	api.POST("/orders", h.CreateOrder)
	api.GET("/orders/:id", h.GetOrder)
	api.GET("/orders/number/:number", h.GetOrderByNumber)
	api.GET("/users/:user_id/orders", h.ListUserOrders)

	return engine
}

// CreateOrder handles POST /api/orders.
func (h *Handler) CreateOrder(c *gin.Context) {
	var req createOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body", Code: CodeValidation})
		return
	}

	key := c.GetHeader(IdempotencyKeyHeader)
	hash, err := idempotency.HashRequest(createOrderScope, req)
	if err != nil {
		h.writeError(c, err)
		return
	}

	resp, replayed, err := h.guard.Do(c.Request.Context(), key, hash, func(ctx context.Context) (idempotency.Response, error) {
		return h.createOrder(ctx, req)
	})
	if err != nil {
		h.writeError(c, err)
		return
	}

	if replayed {
		c.Header(ReplayedHeader, "true")
	}
	if resp.Status == http.StatusServiceUnavailable {
		c.Header("Retry-After", retryAfter)
	}
	c.Data(resp.Status, "application/json; charset=utf-8", resp.Body)
}

func (h *Handler) createOrder(ctx context.Context, req createOrderRequest) (idempotency.Response, error) {
	order, err := h.orders.CreateOrder(ctx, req.toDomain())
	if err != nil {
		status, body := mapError(err)
		if status >= http.StatusInternalServerError && status != http.StatusServiceUnavailable {
			h.logger.WithError(err).Error("create order failed")
		}
		return encodeResponse(status, body)
	}

	return encodeResponse(http.StatusCreated, createOrderResponse{
		Message: "Order created successfully",
		Order:   toOrderResponse(order),
	})
}

// GetOrder handles GET /api/orders/:id.
func (h *Handler) GetOrder(c *gin.Context) {
	order, err := h.orders.GetOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderResponse(order))
}

// GetOrderByNumber handles GET /api/orders/number/:number.
func (h *Handler) GetOrderByNumber(c *gin.Context) {
	order, err := h.orders.GetOrderByNumber(c.Request.Context(), c.Param("number"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderResponse(order))
}

// ListUserOrders handles GET /api/users/:user_id/orders.
func (h *Handler) ListUserOrders(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			c.JSON(http.StatusBadRequest, errorResponse{Error: "limit must be a non-negative integer", Code: CodeValidation, Field: "limit"})
			return
		}
		limit = parsed
	}
	if limit == 0 || limit > maxListLimit {
		limit = maxListLimit
	}

	orders, err := h.orders.ListUserOrders(c.Request.Context(), c.Param("user_id"), limit)
	if err != nil {
		h.writeError(c, err)
		return
	}

	resp := listOrdersResponse{Orders: make([]orderResponse, 0, len(orders)), Count: len(orders)}
	for _, order := range orders {
		resp.Orders = append(resp.Orders, toOrderResponse(order))
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) writeError(c *gin.Context, err error) {
	status, body := mapError(err)
	if status == http.StatusServiceUnavailable {
		c.Header("Retry-After", retryAfter)
	}
	if status == http.StatusInternalServerError {
		h.logger.WithError(err).WithField("path", c.FullPath()).Error("request failed")
	}
	_ = c.Error(err)
	c.JSON(status, body)
}

func encodeResponse(status int, payload any) (idempotency.Response, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return idempotency.Response{}, err
	}
	return idempotency.Response{Status: status, Body: body}, nil
}
