package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// IdempotencyMetrics описывает очистку просроченных ключей идемпотентности.
type IdempotencyMetrics struct {
	sweeps        *prometheus.CounterVec
	sweptKeys     prometheus.Counter
	lastSwept     prometheus.Gauge
	sweepDuration prometheus.Histogram
}

// NewIdempotencyMetrics регистрирует метрики в prometheus.DefaultRegisterer.
func NewIdempotencyMetrics() *IdempotencyMetrics {
	return NewIdempotencyMetricsWithRegisterer(prometheus.DefaultRegisterer)
}

// NewIdempotencyMetricsWithRegisterer регистрирует метрики в переданном registerer.
func NewIdempotencyMetricsWithRegisterer(registerer prometheus.Registerer) *IdempotencyMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	return &IdempotencyMetrics{
		sweeps: registerCounterVec(registerer, prometheus.CounterOpts{
			Name: "fulfillment_idempotency_sweeps_total",
			Help: "Total number of expired idempotency key sweeps by result",
		}, []string{"result"}),
		sweptKeys: registerCounter(registerer, prometheus.CounterOpts{
			Name: "fulfillment_idempotency_swept_keys_total",
			Help: "Total number of expired idempotency keys deleted",
		}),
		lastSwept: registerGauge(registerer, prometheus.GaugeOpts{
			Name: "fulfillment_idempotency_last_swept_keys",
			Help: "Number of idempotency keys deleted by the last successful sweep",
		}),
		sweepDuration: registerHistogram(registerer, prometheus.HistogramOpts{
			Name:    "fulfillment_idempotency_sweep_duration_seconds",
			Help:    "Duration of one idempotency sweep in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		}),
	}
}

// RecordSweep фиксирует итог одного прохода. Удалённые до ошибки ключи тоже учитываются.
func (m *IdempotencyMetrics) RecordSweep(deleted int, duration time.Duration, err error) {
	if deleted > 0 {
		m.sweptKeys.Add(float64(deleted))
	}
	m.sweepDuration.Observe(duration.Seconds())
	if err != nil {
		m.sweeps.WithLabelValues("error").Inc()
		return
	}
	m.sweeps.WithLabelValues("ok").Inc()
	m.lastSwept.Set(float64(deleted))
}
