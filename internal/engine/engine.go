// Package engine implements the execution core of spec.md §4.9: it
// composes a Strategy, a risk Gate, and a Gateway, assigns order ids, and
// posts audit records. It is not itself thread-safe — a single consumer
// thread is expected to own it (spec.md §4.9, §5).
package engine

import (
	"time"

	"github.com/abdoElHodaky/hftcore/internal/auditlog"
	"github.com/abdoElHodaky/hftcore/internal/clock"
	"github.com/abdoElHodaky/hftcore/internal/contracts"
	"github.com/abdoElHodaky/hftcore/internal/fixedpoint"
	"github.com/abdoElHodaky/hftcore/internal/killswitch"
	"github.com/abdoElHodaky/hftcore/internal/latency"
	"github.com/abdoElHodaky/hftcore/internal/risk"
	"github.com/abdoElHodaky/hftcore/internal/strategy"
	"github.com/sony/gobreaker"
)

// Signal aliases strategy.Signal so any Strategy implementation sharing
// that record type satisfies the generic bound below without the engine
// depending on MeanReversion specifically (spec.md §9's note on keeping
// strategy pluggable at compile time).
type Signal = strategy.Signal

// Strategy is the compile-time capability bound spec.md §9 calls for:
// "Strategy: fn on_trade(Trade) -> Signal". Engine[S].OnTrade calls the
// strategy through the type parameter S rather than through a Strategy
// interface value; the gateway call goes through the Gateway interface
// (see below).
type Strategy interface {
	OnTrade(t contracts.TradeUpdate) Signal
}

// Gateway is the egress capability bound. Unlike Strategy, SendOrder
// returning an error is observed by the engine's circuit breaker below,
// so Gateway is still a plain interface rather than a second generic
// parameter constrained to a concrete non-blocking method set — spec.md
// §4.11 already requires it to be non-blocking regardless of how it is
// invoked.
type Gateway = contracts.Gateway

// Stats is a lock-free snapshot of engine counters, read from any thread
// (spec.md §1's "fine-grained latency telemetry", supplemented per
// SPEC_FULL.md §12).
type Stats struct {
	SignalsConsidered uint64
	OrdersSent        uint64
	RiskRejects       uint64
	NextOrderId       fixedpoint.OrderId
}

// Config bundles the engine's tunables beyond its Strategy/Gateway/risk
// dependencies.
type Config struct {
	RiskConfig risk.Config
	// LatencyBudget triggers a WARN audit record (not a rejection) when
	// OnTrade's own measured latency exceeds it. Zero disables the check.
	LatencyBudget time.Duration
	// HistogramReservoirSize sizes the engine's own OnTrade latency
	// histogram (spec.md §2: "the engine samples now_nanos() at entry and
	// egress of on_trade and records the delta"). Zero uses
	// latency.DefaultReservoirSize.
	HistogramReservoirSize int
}

// Engine composes Strategy S and a Gateway over the hot path described in
// spec.md §2's data-flow diagram.
type Engine[S Strategy] struct {
	strategy  S
	gateway   Gateway
	risk      *risk.Gate
	ks        *killswitch.Switch
	audit     *auditlog.Logger
	cfg       Config
	histogram *latency.Histogram

	nextOrderId fixedpoint.OrderId

	breaker *gobreaker.CircuitBreaker

	signalsConsidered uint64
	ordersSent        uint64
	riskRejects       uint64
}

// breakerSettings supplements spec.md's kill-switch with an automatic
// halt: after 5 consecutive SendOrder failures the breaker opens, and
// OnTrade arms the kill-switch itself (SPEC_FULL.md §11). This mirrors
// the teacher's gobreaker wiring in
// internal/architecture/fx/resilience/circuit_breaker.go.
func breakerSettings(name string) gobreaker.Settings {
	return gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	}
}

// New constructs an Engine. Construction-time risk config validation
// errors propagate to the caller (spec.md §7).
func New[S Strategy](strategy S, gateway Gateway, ks *killswitch.Switch, audit *auditlog.Logger, cfg Config) (*Engine[S], error) {
	riskGate, err := risk.New(cfg.RiskConfig, ks)
	if err != nil {
		return nil, err
	}
	reservoir := cfg.HistogramReservoirSize
	if reservoir <= 0 {
		reservoir = latency.DefaultReservoirSize
	}
	return &Engine[S]{
		strategy:    strategy,
		gateway:     gateway,
		risk:        riskGate,
		ks:          ks,
		audit:       audit,
		cfg:         cfg,
		histogram:   latency.New(reservoir),
		nextOrderId: 1,
		breaker:     gobreaker.NewCircuitBreaker(breakerSettings("gateway")),
	}, nil
}

// OnTrade is the hot path: strategy -> signal? -> risk -> gateway, with
// audit records posted to the logger's SPSC queue (spec.md §4.9). Entry
// and egress are timed and recorded into the engine's own latency
// histogram on every call, including the no-signal path, per spec.md §2.
func (e *Engine[S]) OnTrade(t contracts.TradeUpdate) {
	start := clock.NowNanos()
	defer e.recordLatency(start)

	signal := e.strategy.OnTrade(t)
	e.signalsConsidered++

	if !signal.ShouldTrade {
		return
	}

	cmd := contracts.OrderCommand{
		SymbolId: signal.SymbolId,
		OrderId:  e.nextOrderId,
		Price:    signal.Price,
		Qty:      signal.Qty,
		Side:     signal.Side,
	}
	e.nextOrderId++ // monotonic, gap-free only in the sense that every
	// signal considered consumes exactly one id, per spec.md §4.9 item 6

	if e.ks.Armed() || !e.risk.CheckNewOrder(cmd, signal.RefPrice) {
		e.riskRejects++
		e.audit.Logf(auditlog.WARN, "RISK_REJECT id=%d sym=%d", cmd.OrderId, cmd.SymbolId)
		return
	}

	if _, err := e.breaker.Execute(func() (interface{}, error) {
		return nil, e.gateway.SendOrder(cmd)
	}); err != nil {
		if e.breaker.State() == gobreaker.StateOpen {
			e.ks.Trigger()
			e.audit.Log(auditlog.WARN, "GATEWAY_CIRCUIT_OPEN killswitch armed")
		}
		e.riskRejects++
		e.audit.Logf(auditlog.WARN, "GATEWAY_SEND_FAILED id=%d sym=%d", cmd.OrderId, cmd.SymbolId)
		return
	}

	e.ordersSent++
	e.audit.Logf(auditlog.INFO, "ORDER_SENT id=%d sym=%d px=%d qty=%d",
		cmd.OrderId, cmd.SymbolId, cmd.Price.Ticks(), cmd.Qty.Ticks())
}

// recordLatency samples egress, records the entry-to-egress delta into
// the histogram, and WARNs if it exceeds the configured budget. Run via
// defer so every OnTrade call is timed regardless of which path it took.
func (e *Engine[S]) recordLatency(start fixedpoint.Timestamp) {
	elapsedNs := int64(clock.NowNanos() - start)
	e.histogram.Record(elapsedNs)

	if e.cfg.LatencyBudget <= 0 {
		return
	}
	elapsed := time.Duration(elapsedNs) * time.Nanosecond
	if elapsed > e.cfg.LatencyBudget {
		e.audit.Logf(auditlog.WARN, "ON_TRADE_LATENCY_BUDGET_EXCEEDED elapsed_ns=%d budget_ns=%d",
			elapsedNs, e.cfg.LatencyBudget.Nanoseconds())
	}
}

// Histogram exposes the engine's own OnTrade latency histogram, populated
// on every call (spec.md §2), for the admin/metrics surface to poll.
func (e *Engine[S]) Histogram() *latency.Histogram {
	return e.histogram
}

// GetStats returns a point-in-time snapshot. Not itself atomic across the
// three counters (the engine is single-threaded by contract, spec.md
// §4.9), but safe to read from another thread as a best-effort
// diagnostic, matching the teacher's GetStats() pattern
// (pkg/matching/hft_engine.go).
func (e *Engine[S]) GetStats() Stats {
	return Stats{
		SignalsConsidered: e.signalsConsidered,
		OrdersSent:        e.ordersSent,
		RiskRejects:       e.riskRejects,
		NextOrderId:       e.nextOrderId,
	}
}
