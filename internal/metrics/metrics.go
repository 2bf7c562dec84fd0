// Package metrics exposes the engine's Prometheus instrumentation.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the engine's collectors. A nil *Metrics is a valid no-op
// receiver so instrumentation never needs guarding at call sites.
type Metrics struct {
	cyclesTotal     *prometheus.CounterVec
	cycleDuration   prometheus.Histogram
	signalsTotal    *prometheus.CounterVec
	rejectionsTotal *prometheus.CounterVec
	ordersTotal     *prometheus.CounterVec
	engineEnabled   *prometheus.GaugeVec
	accountBalance  prometheus.Gauge
}

// New registers the collectors with the given registerer.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		cyclesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tradebot",
			Name:      "cycles_total",
			Help:      "Evaluation cycles run, by outcome.",
		}, []string{"outcome"}),
		cycleDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "tradebot",
			Name:      "cycle_duration_seconds",
			Help:      "Evaluation cycle duration.",
			Buckets:   prometheus.DefBuckets,
		}),
		signalsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tradebot",
			Name:      "signals_total",
			Help:      "Signals produced, by strategy and action.",
		}, []string{"strategy", "action"}),
		rejectionsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tradebot",
			Name:      "rejections_total",
			Help:      "Risk gate rejections, by reason.",
		}, []string{"reason"}),
		ordersTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tradebot",
			Name:      "orders_total",
			Help:      "Orders submitted, by final status.",
		}, []string{"status"}),
		engineEnabled: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "tradebot",
			Name:      "engine_enabled",
			Help:      "1 when auto-trading is enabled for the pair.",
		}, []string{"symbol"}),
		accountBalance: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "tradebot",
			Name:      "account_available_balance",
			Help:      "Available quote balance from the latest snapshot.",
		}),
	}
}

// ObserveCycle records one finished cycle.
func (m *Metrics) ObserveCycle(outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}

	m.cyclesTotal.WithLabelValues(outcome).Inc()
	m.cycleDuration.Observe(elapsed.Seconds())
}

// RecordSignal counts one produced signal.
func (m *Metrics) RecordSignal(strategy, action string) {
	if m == nil {
		return
	}

	m.signalsTotal.WithLabelValues(strategy, action).Inc()
}

// RecordRejection counts one risk gate rejection.
func (m *Metrics) RecordRejection(reason string) {
	if m == nil {
		return
	}

	m.rejectionsTotal.WithLabelValues(reason).Inc()
}

// RecordOrder counts one submitted order by its final status.
func (m *Metrics) RecordOrder(status string) {
	if m == nil {
		return
	}

	m.ordersTotal.WithLabelValues(status).Inc()
}

// SetEnabled reflects the controller state for a symbol.
func (m *Metrics) SetEnabled(symbol string, enabled bool) {
	if m == nil {
		return
	}

	value := 0.0
	if enabled {
		value = 1
	}

	m.engineEnabled.WithLabelValues(symbol).Set(value)
}

// SetAvailableBalance reflects the latest snapshot.
func (m *Metrics) SetAvailableBalance(balance float64) {
	if m == nil {
		return
	}

	m.accountBalance.Set(balance)
}
