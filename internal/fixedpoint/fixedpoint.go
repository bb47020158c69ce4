// Package fixedpoint implements the scaled-integer price, quantity, and
// timestamp representation used everywhere on the hot path. No type here
// allocates; every operation is a handful of integer instructions.
package fixedpoint

import "math"

// PriceScale and QtyScale fix the number of fractional digits carried by
// Price and Quantity: 10^8, giving 8 fractional digits of precision.
const (
	PriceScale = 100_000_000
	QtyScale   = 100_000_000
)

// Price is a signed count of price ticks (1 tick = 1/PriceScale units).
type Price int64

// Quantity is a signed count of base-unit ticks (1 tick = 1/QtyScale units).
type Quantity int64

// Timestamp is nanoseconds since an unspecified monotonic epoch.
type Timestamp int64

// SymbolId opaquely identifies a tradable instrument.
type SymbolId uint32

// OrderId is assigned by the engine; it is never reused within a process.
type OrderId uint64

// Side identifies the direction of an order or trade aggressor.
type Side uint8

const (
	SideNone Side = iota
	SideBuy
	SideSell
)

func (s Side) String() string {
	switch s {
	case SideBuy:
		return "BUY"
	case SideSell:
		return "SELL"
	default:
		return "NONE"
	}
}

// PriceFromTicks constructs a Price from a raw tick count.
func PriceFromTicks(ticks int64) Price { return Price(ticks) }

// PriceFromFloat rounds half-away-from-zero to the nearest tick.
func PriceFromFloat(x float64) Price {
	return Price(roundHalfAwayFromZero(x * PriceScale))
}

// ToFloat reconstitutes a lossy floating-point value from ticks.
func (p Price) ToFloat() float64 {
	return float64(p) / PriceScale
}

// Ticks returns the raw integer tick count.
func (p Price) Ticks() int64 { return int64(p) }

func (p Price) Add(o Price) Price { return p + o }
func (p Price) Sub(o Price) Price { return p - o }

// Abs returns the absolute value of a Price, used by the risk gate's
// price-deviation check.
func (p Price) Abs() Price {
	if p < 0 {
		return -p
	}
	return p
}

// QuantityFromTicks constructs a Quantity from a raw tick count.
func QuantityFromTicks(ticks int64) Quantity { return Quantity(ticks) }

// QuantityFromFloat rounds half-away-from-zero to the nearest tick.
func QuantityFromFloat(x float64) Quantity {
	return Quantity(roundHalfAwayFromZero(x * QtyScale))
}

// ToFloat reconstitutes a lossy floating-point value from ticks.
func (q Quantity) ToFloat() float64 {
	return float64(q) / QtyScale
}

func (q Quantity) Ticks() int64 { return int64(q) }

func (q Quantity) Add(o Quantity) Quantity { return q + o }
func (q Quantity) Sub(o Quantity) Quantity { return q - o }

func roundHalfAwayFromZero(x float64) int64 {
	if x >= 0 {
		return int64(math.Floor(x + 0.5))
	}
	return int64(math.Ceil(x - 0.5))
}
