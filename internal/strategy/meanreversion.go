// Package strategy implements the mean-reversion signal model of
// spec.md §4.7: a single target symbol, an EWMA of trade prices, and a
// threshold rule that fires at most one Signal per trade.
package strategy

import (
	"github.com/abdoElHodaky/hftcore/internal/contracts"
	"github.com/abdoElHodaky/hftcore/internal/feature"
	"github.com/abdoElHodaky/hftcore/internal/fixedpoint"
)

// ewmaAlpha is fixed by spec.md §4.7.
const ewmaAlpha = 0.1

// signalQty is the fixed order size mean-reversion signals request.
const signalQty = 0.01

// Signal mirrors spec.md §3's Signal record. The invariant
// ShouldTrade ⇒ Side∈{Buy,Sell} ∧ Qty>0 is maintained by construction —
// every non-trading return uses the zero value.
type Signal struct {
	ShouldTrade bool
	SymbolId    fixedpoint.SymbolId
	Side        fixedpoint.Side
	Price       fixedpoint.Price
	Qty         fixedpoint.Quantity
	RefPrice    fixedpoint.Price
}

// MeanReversion consumes trades for exactly one target symbol. It is not
// safe for concurrent use — the engine owns it on its single thread.
type MeanReversion struct {
	targetSymbol fixedpoint.SymbolId
	threshold    float64
	ewma         *feature.EWMA
}

// New constructs a mean-reversion strategy watching targetSymbol, firing
// when the deviation from the EWMA exceeds threshold (in price units).
func New(targetSymbol fixedpoint.SymbolId, threshold float64) (*MeanReversion, error) {
	e, err := feature.NewEWMA(ewmaAlpha)
	if err != nil {
		return nil, err
	}
	return &MeanReversion{
		targetSymbol: targetSymbol,
		threshold:    threshold,
		ewma:         e,
	}, nil
}

// OnTrade produces at most one Signal per trade. The first trade observed
// for the target symbol can never fire, since dev == 0 at that point
// (spec.md §4.7).
func (m *MeanReversion) OnTrade(t contracts.TradeUpdate) Signal {
	if t.SymbolId != m.targetSymbol {
		return Signal{}
	}

	px := t.Price.ToFloat()
	ewma := m.ewma.Update(px)
	dev := px - ewma

	refPrice := fixedpoint.PriceFromFloat(ewma)

	switch {
	case dev > m.threshold:
		return Signal{
			ShouldTrade: true,
			SymbolId:    t.SymbolId,
			Side:        fixedpoint.SideSell,
			Price:       t.Price,
			Qty:         fixedpoint.QuantityFromFloat(signalQty),
			RefPrice:    refPrice,
		}
	case dev < -m.threshold:
		return Signal{
			ShouldTrade: true,
			SymbolId:    t.SymbolId,
			Side:        fixedpoint.SideBuy,
			Price:       t.Price,
			Qty:         fixedpoint.QuantityFromFloat(signalQty),
			RefPrice:    refPrice,
		}
	default:
		return Signal{}
	}
}
