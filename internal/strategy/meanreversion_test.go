package strategy

import (
	"testing"

	"github.com/abdoElHodaky/hftcore/internal/contracts"
	"github.com/abdoElHodaky/hftcore/internal/fixedpoint"
	"github.com/stretchr/testify/require"
)

func trade(symbol fixedpoint.SymbolId, price float64) contracts.TradeUpdate {
	return contracts.TradeUpdate{
		SymbolId: symbol,
		Price:    fixedpoint.PriceFromFloat(price),
		Qty:      fixedpoint.QuantityFromFloat(1),
	}
}

// TestStrategyFiresLong implements scenario S3 from spec.md §8.
func TestStrategyFiresLong(t *testing.T) {
	s, err := New(1, 0.5)
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		sig := s.OnTrade(trade(1, 100))
		require.False(t, sig.ShouldTrade)
	}

	sig := s.OnTrade(trade(1, 99.0))
	require.True(t, sig.ShouldTrade)
	require.Equal(t, fixedpoint.SideBuy, sig.Side)
	require.InDelta(t, 99.0, sig.Price.ToFloat(), 1e-6)
	// RefPrice is the EWMA after folding in 99.0: 0.1*99 + 0.9*100 = 99.9.
	require.InDelta(t, 99.9, sig.RefPrice.ToFloat(), 1e-6)
	require.InDelta(t, 0.01, sig.Qty.ToFloat(), 1e-9)
}

func TestStrategyFiresShort(t *testing.T) {
	s, err := New(1, 0.5)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		s.OnTrade(trade(1, 100))
	}
	sig := s.OnTrade(trade(1, 101.0))
	require.True(t, sig.ShouldTrade)
	require.Equal(t, fixedpoint.SideSell, sig.Side)
}

// TestStrategyIgnoresWrongSymbol implements scenario S4 from spec.md §8.
func TestStrategyIgnoresWrongSymbol(t *testing.T) {
	s, err := New(1, 0.5)
	require.NoError(t, err)

	for _, px := range []float64{100, 100, 100, 100, 100, 99.0} {
		sig := s.OnTrade(trade(2, px))
		require.False(t, sig.ShouldTrade)
	}
}

func TestStrategyFirstTradeNeverFires(t *testing.T) {
	s, err := New(1, 0.0001)
	require.NoError(t, err)
	sig := s.OnTrade(trade(1, 12345))
	require.False(t, sig.ShouldTrade, "dev is always 0 on the seeding trade")
}

func TestStrategyNoSignalWithinThreshold(t *testing.T) {
	s, err := New(1, 10)
	require.NoError(t, err)
	s.OnTrade(trade(1, 100))
	sig := s.OnTrade(trade(1, 105))
	require.False(t, sig.ShouldTrade)
}
