// Package obsmetrics mirrors engine and latency-histogram counters onto
// Prometheus collectors for the /metrics endpoint (SPEC_FULL.md §11's
// prometheus/client_golang wiring). None of this runs on the hot path:
// the engine and histogram stay lock-free and allocation-free; this
// package only reads their already-published snapshots on a timer.
package obsmetrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// EngineStats is the subset of engine.Stats this package needs, kept as
// a local struct so obsmetrics does not import the generic engine
// package (which would force it to be instantiated per Strategy type).
type EngineStats struct {
	SignalsConsidered uint64
	OrdersSent        uint64
	RiskRejects       uint64
}

// Collector holds the Prometheus gauges/counters this process exposes,
// grounded on the teacher's BaselineMetrics
// (internal/hft/metrics/baseline_metrics.go), generalized from HTTP/DB
// latency to the engine's own OnTrade latency histogram and order
// counters.
type Collector struct {
	onTradeLatencyNs prometheus.Histogram
	signalsTotal     prometheus.Counter
	ordersSentTotal  prometheus.Counter
	riskRejectsTotal prometheus.Counter
	auditDropped     prometheus.Gauge
	killSwitchArmed  prometheus.Gauge

	lastSignals uint64
	lastOrders  uint64
	lastRejects uint64
}

// NewCollector registers all collectors against the default Prometheus
// registry via promauto, matching the teacher's pattern of registering
// at construction time rather than deferring to an explicit Register call.
func NewCollector() *Collector {
	return &Collector{
		onTradeLatencyNs: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "hftcore_on_trade_latency_nanoseconds",
			Help:    "OnTrade processing latency in nanoseconds",
			Buckets: []float64{100, 500, 1_000, 10_000, 100_000, 1_000_000},
		}),
		signalsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "hftcore_signals_considered_total",
			Help: "Total number of trades passed to the strategy",
		}),
		ordersSentTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "hftcore_orders_sent_total",
			Help: "Total number of orders accepted by the risk gate and sent",
		}),
		riskRejectsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "hftcore_risk_rejects_total",
			Help: "Total number of orders rejected by the pre-trade risk gate or failed at the gateway",
		}),
		auditDropped: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "hftcore_audit_log_dropped",
			Help: "Number of audit records dropped due to a full queue",
		}),
		killSwitchArmed: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "hftcore_kill_switch_armed",
			Help: "1 if the kill-switch is currently armed, 0 otherwise",
		}),
	}
}

// ObserveLatencySample feeds one OnTrade latency sample, in nanoseconds,
// directly into the histogram. ObserveSnapshot carries no latency data;
// cmd/server calls this from its periodic poller, off the engine's hot
// path.
func (c *Collector) ObserveLatencySample(ns float64) {
	c.onTradeLatencyNs.Observe(ns)
}

// ObserveSnapshot updates the monotonic counters from a point-in-time
// engine stats snapshot. Counters only ever increase, so this converts
// the engine's cumulative counts into Prometheus counter deltas.
func (c *Collector) ObserveSnapshot(s EngineStats, auditDropped uint64, killSwitchArmed bool) {
	if d := s.SignalsConsidered - c.lastSignals; d > 0 {
		c.signalsTotal.Add(float64(d))
		c.lastSignals = s.SignalsConsidered
	}
	if d := s.OrdersSent - c.lastOrders; d > 0 {
		c.ordersSentTotal.Add(float64(d))
		c.lastOrders = s.OrdersSent
	}
	if d := s.RiskRejects - c.lastRejects; d > 0 {
		c.riskRejectsTotal.Add(float64(d))
		c.lastRejects = s.RiskRejects
	}
	c.auditDropped.Set(float64(auditDropped))
	if killSwitchArmed {
		c.killSwitchArmed.Set(1)
	} else {
		c.killSwitchArmed.Set(0)
	}
}

// StartPeriodicPoll runs f every interval until stop is closed. Grounded
// on the teacher's InitMetrics ticker goroutine
// (internal/hft/metrics/baseline_metrics.go's UpdateThroughputMetrics
// loop), generalized to take an arbitrary poll function instead of a
// fixed global.
func StartPeriodicPoll(interval time.Duration, stop <-chan struct{}, f func()) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				f()
			}
		}
	}()
}
