package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Причины отказа CreateOrder для метки reason.
const (
	ReasonValidation        = "validation"
	ReasonNotFound          = "not_found"
	ReasonInsufficientStock = "insufficient_stock"
	ReasonAborted           = "aborted"
	ReasonPersistence       = "persistence"
)

// FulfillmentMetrics содержит метрики оформления заказов.
type FulfillmentMetrics struct {
	ordersCreated prometheus.Counter
	orderFailures *prometheus.CounterVec

	createDuration prometheus.Histogram
	phaseDuration  *prometheus.HistogramVec

	txRetries prometheus.Counter
	inFlight  prometheus.Gauge
}

// NewFulfillmentMetrics регистрирует метрики в prometheus.DefaultRegisterer.
func NewFulfillmentMetrics() *FulfillmentMetrics {
	return NewFulfillmentMetricsWithRegisterer(prometheus.DefaultRegisterer)
}

// NewFulfillmentMetricsWithRegisterer регистрирует метрики в переданном registerer.
func NewFulfillmentMetricsWithRegisterer(registerer prometheus.Registerer) *FulfillmentMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	return &FulfillmentMetrics{
		ordersCreated: registerCounter(registerer, prometheus.CounterOpts{
			Name: "fulfillment_orders_created_total",
			Help: "Total number of committed orders",
		}),
		orderFailures: registerCounterVec(registerer, prometheus.CounterOpts{
			Name: "fulfillment_order_failures_total",
			Help: "Total number of rejected CreateOrder calls by reason",
		}, []string{"reason"}),
		createDuration: registerHistogram(registerer, prometheus.HistogramOpts{
			Name:    "fulfillment_create_order_duration_seconds",
			Help:    "End-to-end duration of CreateOrder in seconds",
			Buckets: prometheus.DefBuckets,
		}),
		phaseDuration: registerHistogramVec(registerer, prometheus.HistogramOpts{
			Name:    "fulfillment_phase_duration_seconds",
			Help:    "Duration of CreateOrder phases in seconds",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5},
		}, []string{"phase"}),
		txRetries: registerCounter(registerer, prometheus.CounterOpts{
			Name: "fulfillment_tx_retries_total",
			Help: "Total number of atomic unit re-runs caused by write conflicts",
		}),
		inFlight: registerGauge(registerer, prometheus.GaugeOpts{
			Name: "fulfillment_orders_in_flight",
			Help: "Number of CreateOrder calls currently in progress",
		}),
	}
}

// RecordOrderCreated увеличивает счётчик созданных заказов.
func (m *FulfillmentMetrics) RecordOrderCreated() {
	m.ordersCreated.Inc()
}

// RecordOrderFailed увеличивает счётчик отказов по причине.
func (m *FulfillmentMetrics) RecordOrderFailed(reason string) {
	m.orderFailures.WithLabelValues(reason).Inc()
}

// RecordCreateDuration записывает полное время CreateOrder.
func (m *FulfillmentMetrics) RecordCreateDuration(duration time.Duration) {
	m.createDuration.Observe(duration.Seconds())
}

// RecordPhaseDuration записывает время фазы (validate, unit, reload).
func (m *FulfillmentMetrics) RecordPhaseDuration(phase string, duration time.Duration) {
	m.phaseDuration.WithLabelValues(phase).Observe(duration.Seconds())
}

// RecordTxRetry увеличивает счётчик перезапусков атомарной единицы.
func (m *FulfillmentMetrics) RecordTxRetry() {
	m.txRetries.Inc()
}

// InFlightStarted увеличивает количество выполняющихся CreateOrder.
func (m *FulfillmentMetrics) InFlightStarted() {
	m.inFlight.Inc()
}

// InFlightFinished уменьшает количество выполняющихся CreateOrder.
func (m *FulfillmentMetrics) InFlightFinished() {
	m.inFlight.Dec()
}
