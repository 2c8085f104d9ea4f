package fulfillment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/vladislavdragonenkov/fulfillment/internal/clock"
	"github.com/vladislavdragonenkov/fulfillment/internal/domain"
	"github.com/vladislavdragonenkov/fulfillment/internal/metrics"
)

const (
	tracerName = "github.com/vladislavdragonenkov/fulfillment/internal/service/fulfillment"

	// DefaultTxTimeout ограничивает атомарную единицу вместе со всеми её перезапусками.
	DefaultTxTimeout = 5 * time.Second
)

// NumberGenerator выдаёт номера заказов.
type NumberGenerator interface {
	Next(ctx context.Context, year int) (string, error)
}

// Dependencies — хранилища и сервисы, с которыми работает координатор.
type Dependencies struct {
	Users      domain.UserDirectory
	Inventory  domain.InventoryStore
	Carts      domain.CartStore
	Orders     domain.OrderStore
	Transactor domain.Transactor
	Numbers    NumberGenerator
	// Outbox необязателен: без него событие order.created не пишется.
	Outbox domain.OutboxRepository
}

func (d Dependencies) validate() error {
	switch {
	case d.Users == nil:
		return errors.New("fulfillment: user directory is required")
	case d.Inventory == nil:
		return errors.New("fulfillment: inventory store is required")
	case d.Carts == nil:
		return errors.New("fulfillment: cart store is required")
	case d.Orders == nil:
		return errors.New("fulfillment: order store is required")
	case d.Transactor == nil:
		return errors.New("fulfillment: transactor is required")
	case d.Numbers == nil:
		return errors.New("fulfillment: order number generator is required")
	}
	return nil
}

// Option настраивает Coordinator.
type Option func(*Coordinator)

// WithLogger задаёт logger.
func WithLogger(logger *log.Entry) Option {
	return func(c *Coordinator) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithMetrics включает метрики.
func WithMetrics(m *metrics.FulfillmentMetrics) Option {
	return func(c *Coordinator) {
		c.metrics = m
	}
}

// WithTracerProvider задаёт провайдер трассировки вместо глобального.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(c *Coordinator) {
		if tp != nil {
			c.tracer = tp.Tracer(tracerName)
		}
	}
}

// WithClock подменяет часы (год номера заказа и CreatedAt).
func WithClock(clk clock.Clock) Option {
	return func(c *Coordinator) {
		if clk != nil {
			c.clock = clk
		}
	}
}

// WithTxTimeout задаёт предельное время атомарной единицы.
func WithTxTimeout(timeout time.Duration) Option {
	return func(c *Coordinator) {
		if timeout > 0 {
			c.txTimeout = timeout
		}
	}
}

// Coordinator оформляет заказы: превращает запрос в заказ, списывая остатки
// и очищая корзину в одной атомарной единице.
//
// Координатор не сериализует запросы сам: конкурирующие оформления разводит
// хранилище. Бизнес-отказы координатор не повторяет.
type Coordinator struct {
	users      domain.UserDirectory
	inventory  domain.InventoryStore
	carts      domain.CartStore
	orders     domain.OrderStore
	transactor domain.Transactor
	numbers    NumberGenerator
	outbox     domain.OutboxRepository
	validator  *StockValidator

	clock     clock.Clock
	txTimeout time.Duration
	logger    *log.Entry
	metrics   *metrics.FulfillmentMetrics
	tracer    trace.Tracer
}

// NewCoordinator создаёт координатор.
func NewCoordinator(deps Dependencies, options ...Option) (*Coordinator, error) {
	if err := deps.validate(); err != nil {
		return nil, err
	}

	c := &Coordinator{
		users:      deps.Users,
		inventory:  deps.Inventory,
		carts:      deps.Carts,
		orders:     deps.Orders,
		transactor: deps.Transactor,
		numbers:    deps.Numbers,
		outbox:     deps.Outbox,
		validator:  NewStockValidator(deps.Inventory),
		clock:      clock.NewSystem(),
		txTimeout:  DefaultTxTimeout,
		logger:     log.WithField("component", "fulfillment"),
		tracer:     otel.GetTracerProvider().Tracer(tracerName),
	}
	for _, option := range options {
		option(c)
	}
	return c, nil
}

// CreateOrder оформляет заказ.
//
// Возвращает *ValidationError, *NotFoundError, *InsufficientStockError,
// *TransactionAbortError (запрос можно повторить) или *PersistenceError.
// При любой ошибке ни заказ, ни списания, ни очистка корзины не сохраняются.
func (c *Coordinator) CreateOrder(ctx context.Context, req domain.CreateOrderRequest) (domain.Order, error) {
	start := time.Now()
	if c.metrics != nil {
		c.metrics.InFlightStarted()
		defer c.metrics.InFlightFinished()
	}

	ctx, span := c.tracer.Start(ctx, "fulfillment.CreateOrder", trace.WithAttributes(
		attribute.String("user.id", req.UserID),
		attribute.Int("order.items", len(req.Items)),
		attribute.String("order.payment_method", string(req.PaymentMethod)),
	))
	defer span.End()

	order, err := c.createOrder(ctx, req)

	if c.metrics != nil {
		c.metrics.RecordCreateDuration(time.Since(start))
	}
	logger := c.logger.WithField("user_id", req.UserID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, failureReason(err))
		if c.metrics != nil {
			c.metrics.RecordOrderFailed(failureReason(err))
		}
		if domain.IsBusinessError(err) {
			logger.WithError(err).Info("order rejected")
		} else {
			logger.WithError(err).Warn("order creation failed")
		}
		return domain.Order{}, err
	}

	span.SetAttributes(
		attribute.String("order.id", order.ID),
		attribute.String("order.number", order.OrderNumber),
	)
	span.SetStatus(codes.Ok, "")
	if c.metrics != nil {
		c.metrics.RecordOrderCreated()
	}
	logger.WithFields(log.Fields{
		"order_id":     order.ID,
		"order_number": order.OrderNumber,
		"items":        len(order.Items),
		"total":        order.Total.String(),
	}).Info("order created")

	return order, nil
}

func (c *Coordinator) createOrder(ctx context.Context, req domain.CreateOrderRequest) (domain.Order, error) {
	if err := req.Validate(); err != nil {
		return domain.Order{}, err
	}

	exists, err := c.users.Exists(ctx, req.UserID)
	if err != nil {
		return domain.Order{}, storeError("check user", err)
	}
	if !exists {
		return domain.Order{}, domain.NewUserNotFoundError(req.UserID)
	}

	lines, err := c.validateStock(ctx, req.Items)
	if err != nil {
		return domain.Order{}, storeError("validate stock", err)
	}
	c.warnOnTotalMismatch(req, lines)

	committed, err := c.runUnit(ctx, req, lines)
	if err != nil {
		return domain.Order{}, err
	}

	phaseStart := time.Now()
	order, err := c.orders.Get(ctx, committed.ID)
	c.observePhase("reload", phaseStart)
	if err != nil {
		return domain.Order{}, storeError("reload order", err)
	}
	return order, nil
}

func (c *Coordinator) validateStock(ctx context.Context, items []domain.RequestedItem) ([]Line, error) {
	ctx, span := c.tracer.Start(ctx, "fulfillment.ValidateStock")
	defer span.End()

	phaseStart := time.Now()
	lines, err := c.validator.Validate(ctx, items)
	c.observePhase("validate", phaseStart)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, failureReason(err))
	}
	return lines, err
}

// runUnit выполняет атомарную единицу. Тело может быть запущено несколько раз:
// каждая попытка начинается с чистого состояния.
func (c *Coordinator) runUnit(ctx context.Context, req domain.CreateOrderRequest, lines []Line) (domain.Order, error) {
	ctx, span := c.tracer.Start(ctx, "fulfillment.AtomicUnit")
	defer span.End()

	unitCtx, cancel := context.WithTimeout(ctx, c.txTimeout)
	defer cancel()

	phaseStart := time.Now()
	attempts := 0
	var result Result
	err := c.transactor.WithinTx(unitCtx, func(txCtx context.Context) error {
		attempts++
		result = c.placeOrder(txCtx, req, lines)
		return result.Err()
	})
	c.observePhase("unit", phaseStart)
	span.SetAttributes(attribute.Int("tx.attempts", attempts))

	if err != nil {
		err = unitError(ctx, err)
		span.RecordError(err)
		span.SetStatus(codes.Error, failureReason(err))
		return domain.Order{}, err
	}
	return result.Order(), nil
}

// placeOrder — тело атомарной единицы: номер, вставка, списания, очистка корзины, событие.
func (c *Coordinator) placeOrder(ctx context.Context, req domain.CreateOrderRequest, lines []Line) Result {
	now := c.clock.Now()

	number, err := c.numbers.Next(ctx, now.Year())
	if err != nil {
		return Fail(fmt.Errorf("next order number: %w", err))
	}

	items := make([]domain.OrderItem, 0, len(lines))
	for _, line := range lines {
		items = append(items, line.OrderItem())
	}

	order, err := c.orders.Insert(ctx, domain.Order{
		ID:              uuid.NewString(),
		OrderNumber:     number,
		UserID:          req.UserID,
		Items:           items,
		Total:           req.Total,
		ShippingAddress: req.ShippingAddress,
		PaymentMethod:   req.PaymentMethod,
		CreatedAt:       now,
	})
	if err != nil {
		return Fail(fmt.Errorf("insert order: %w", err))
	}

	for _, item := range req.Items {
		if err := c.inventory.ConditionalDecrement(ctx, item.ProductID, item.Variant, item.Quantity); err != nil {
			if domain.IsBusinessError(err) {
				return Fail(err)
			}
			return Fail(fmt.Errorf("decrement stock %s: %w", item.ProductID, err))
		}
	}

	if err := c.carts.Clear(ctx, req.UserID); err != nil {
		return Fail(fmt.Errorf("clear cart: %w", err))
	}

	if c.outbox != nil {
		if err := c.enqueueOrderCreated(ctx, order); err != nil {
			return Fail(err)
		}
	}

	return Ok(order)
}

func (c *Coordinator) enqueueOrderCreated(ctx context.Context, order domain.Order) error {
	payload, err := json.Marshal(domain.NewOrderCreatedEvent(order))
	if err != nil {
		return fmt.Errorf("marshal order.created: %w", err)
	}
	if _, err := c.outbox.Enqueue(ctx, domain.OutboxMessage{
		AggregateType: domain.AggregateTypeOrder,
		AggregateID:   order.ID,
		EventType:     domain.EventTypeOrderCreated,
		Payload:       payload,
		CreatedAt:     order.CreatedAt,
	}); err != nil {
		return fmt.Errorf("enqueue order.created: %w", err)
	}
	return nil
}

// warnOnTotalMismatch сверяет присланную клиентом сумму со снимком цен.
// Сумма клиента сохраняется как есть.
func (c *Coordinator) warnOnTotalMismatch(req domain.CreateOrderRequest, lines []Line) {
	computed := decimal.Zero
	for _, line := range lines {
		computed = computed.Add(line.OrderItem().Subtotal())
	}
	if !computed.Equal(req.Total) {
		c.logger.WithFields(log.Fields{
			"user_id":        req.UserID,
			"client_total":   req.Total.String(),
			"computed_total": computed.String(),
		}).Warn("client total differs from catalog prices")
	}
}

// GetOrder возвращает заказ по идентификатору.
func (c *Coordinator) GetOrder(ctx context.Context, id string) (domain.Order, error) {
	if strings.TrimSpace(id) == "" {
		return domain.Order{}, domain.NewValidationError("order_id", domain.ErrOrderRefRequired)
	}
	order, err := c.orders.Get(ctx, id)
	if err != nil {
		return domain.Order{}, storeError("get order", err)
	}
	return order, nil
}

// GetOrderByNumber возвращает заказ по номеру вида ORD-2025-000001.
func (c *Coordinator) GetOrderByNumber(ctx context.Context, number string) (domain.Order, error) {
	if strings.TrimSpace(number) == "" {
		return domain.Order{}, domain.NewValidationError("order_number", domain.ErrOrderRefRequired)
	}
	order, err := c.orders.GetByNumber(ctx, number)
	if err != nil {
		return domain.Order{}, storeError("get order by number", err)
	}
	return order, nil
}

// ListUserOrders возвращает заказы пользователя, новые первыми. При limit <= 0 возвращаются все.
func (c *Coordinator) ListUserOrders(ctx context.Context, userID string, limit int) ([]domain.Order, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, domain.NewValidationError("user_id", domain.ErrUserIDRequired)
	}
	exists, err := c.users.Exists(ctx, userID)
	if err != nil {
		return nil, storeError("check user", err)
	}
	if !exists {
		return nil, domain.NewUserNotFoundError(userID)
	}
	orders, err := c.orders.ListByUser(ctx, userID, limit)
	if err != nil {
		return nil, storeError("list orders", err)
	}
	return orders, nil
}

func (c *Coordinator) observePhase(phase string, start time.Time) {
	if c.metrics != nil {
		c.metrics.RecordPhaseDuration(phase, time.Since(start))
	}
}

// unitError приводит ошибку атомарной единицы к одному из видов domain.
func unitError(parent context.Context, err error) error {
	switch {
	case domain.IsBusinessError(err),
		errors.Is(err, domain.ErrTransactionAborted),
		errors.Is(err, domain.ErrPersistence):
		return err
	case errors.Is(err, context.DeadlineExceeded) && parent.Err() == nil:
		return &domain.TransactionAbortError{Attempts: 1, Err: err}
	default:
		return &domain.PersistenceError{Op: "create order", Err: err}
	}
}

// storeError оставляет типизированные ошибки как есть, прочие считает ошибками хранилища.
func storeError(op string, err error) error {
	switch {
	case domain.IsBusinessError(err),
		errors.Is(err, domain.ErrTransactionAborted),
		errors.Is(err, domain.ErrPersistence),
		errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded):
		return err
	default:
		return &domain.PersistenceError{Op: op, Err: err}
	}
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return metrics.ReasonValidation
	case errors.Is(err, domain.ErrNotFound):
		return metrics.ReasonNotFound
	case errors.Is(err, domain.ErrInsufficientStock):
		return metrics.ReasonInsufficientStock
	case errors.Is(err, domain.ErrTransactionAborted):
		return metrics.ReasonAborted
	default:
		return metrics.ReasonPersistence
	}
}
