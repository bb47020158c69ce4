// Package contracts defines the capability boundaries between the core and
// its external collaborators (spec.md §4.11, §9): the feeder that produces
// TradeUpdates and the gateway that accepts OrderCommands. Neither has a
// concrete implementation in this repository — wire protocols and network
// threads are explicitly out of scope (spec.md §1).
package contracts

import "github.com/abdoElHodaky/hftcore/internal/fixedpoint"

// TradeUpdate mirrors spec.md §3's TradeUpdate record.
type TradeUpdate struct {
	ExchangeTs fixedpoint.Timestamp
	LocalTs    fixedpoint.Timestamp
	SymbolId   fixedpoint.SymbolId
	Price      fixedpoint.Price
	Qty        fixedpoint.Quantity
	Aggressor  fixedpoint.Side
}

// OrderCommand mirrors spec.md §3's OrderCommand record. OrderId is never
// reused within a process lifetime.
type OrderCommand struct {
	SymbolId fixedpoint.SymbolId
	OrderId  fixedpoint.OrderId
	Price    fixedpoint.Price
	Qty      fixedpoint.Quantity
	Side     fixedpoint.Side
}

// TradeSink is the single-method capability the engine exposes to a
// feeder. Parameterizing over this interface (rather than a function
// pointer/callback field, spec.md §9) keeps the feeder decoupled from the
// concrete engine type without imposing a vtable dispatch requirement on
// the engine's own internals — only the feeder boundary crosses an
// interface.
type TradeSink interface {
	OnTrade(t TradeUpdate)
}

// Feeder owns the upstream data source and drives a TradeSink. No
// concrete Feeder ships in this repository; production deployments
// implement one per exchange wire protocol.
type Feeder interface {
	Start() error
	Stop()
	SetSink(sink TradeSink)
}

// Gateway accepts order commands and cancels. SendOrder and CancelOrder
// must not block (spec.md §4.11, §5) — implementations are expected to
// enqueue into their own outbound SPSC ring and drain it on a dedicated
// network thread.
type Gateway interface {
	SendOrder(cmd OrderCommand) error
	CancelOrder(orderId fixedpoint.OrderId, symbol fixedpoint.SymbolId) error
}
