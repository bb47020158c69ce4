// Package book implements the per-symbol L2 order book of spec.md §4.5:
// two price->quantity maps (unordered Go maps; BBO scans them and Snapshot
// sorts their keys), maintained from level updates, with BBO and top-N
// snapshot views. The book is owned by a single thread (the
// engine thread) and uses no locking.
package book

import (
	"sort"

	"github.com/abdoElHodaky/hftcore/internal/fixedpoint"
)

// LevelUpdate carries a price-level change for one side of the book.
// Qty == 0 deletes the level.
type LevelUpdate struct {
	ExchangeTs fixedpoint.Timestamp
	LocalTs    fixedpoint.Timestamp
	SymbolId   fixedpoint.SymbolId
	Price      fixedpoint.Price
	Qty        fixedpoint.Quantity
	Side       fixedpoint.Side
}

// Level is one (price, quantity) pair in a snapshot.
type Level struct {
	Price fixedpoint.Price
	Qty   fixedpoint.Quantity
}

// Book is a single symbol's L2 order book. Zero value is not usable; use
// New.
type Book struct {
	symbol        fixedpoint.SymbolId
	bids          map[fixedpoint.Price]fixedpoint.Quantity
	asks          map[fixedpoint.Price]fixedpoint.Quantity
	lastUpdateTs  fixedpoint.Timestamp
}

// New constructs an empty book for symbol.
func New(symbol fixedpoint.SymbolId) *Book {
	return &Book{
		symbol: symbol,
		bids:   make(map[fixedpoint.Price]fixedpoint.Quantity),
		asks:   make(map[fixedpoint.Price]fixedpoint.Quantity),
	}
}

// Symbol returns the symbol this book tracks.
func (b *Book) Symbol() fixedpoint.SymbolId { return b.symbol }

// LastUpdateTs returns the local timestamp of the most recently applied
// update.
func (b *Book) LastUpdateTs() fixedpoint.Timestamp { return b.lastUpdateTs }

// ApplyUpdate applies one level update. Qty == 0 deletes the price level;
// any other qty inserts or overwrites it. O(log L) via Go's map, L the
// number of resting levels on that side.
func (b *Book) ApplyUpdate(u LevelUpdate) {
	side := b.sideMap(u.Side)
	if side == nil {
		return // Side == None is not a valid book-affecting update
	}
	if u.Qty == 0 {
		delete(side, u.Price)
	} else {
		side[u.Price] = u.Qty
	}
	b.lastUpdateTs = u.LocalTs
}

func (b *Book) sideMap(s fixedpoint.Side) map[fixedpoint.Price]fixedpoint.Quantity {
	switch s {
	case fixedpoint.SideBuy:
		return b.bids
	case fixedpoint.SideSell:
		return b.asks
	default:
		return nil
	}
}

// BBO returns the best bid (max key of bids) and best ask (min key of
// asks). ok is false unless both sides are non-empty.
func (b *Book) BBO() (bid, ask fixedpoint.Price, ok bool) {
	if len(b.bids) == 0 || len(b.asks) == 0 {
		return 0, 0, false
	}
	bid = maxKey(b.bids)
	ask = minKey(b.asks)
	return bid, ask, true
}

// Snapshot fills bids (descending price) and asks (ascending price) with
// up to n levels each, clearing any prior contents. It returns the number
// of ask levels filled — spec.md §9 leaves "total of both sides or asks
// only" ambiguous; this implementation picks "ask levels filled" per the
// spec's stated resolution. The bid count is not returned; it is
// len(*bids) after the call.
func (b *Book) Snapshot(bids, asks *[]Level, n int) (nAsksFilled int) {
	*bids = (*bids)[:0]
	*asks = (*asks)[:0]

	bidPrices := make([]fixedpoint.Price, 0, len(b.bids))
	for p := range b.bids {
		bidPrices = append(bidPrices, p)
	}
	sort.Slice(bidPrices, func(i, j int) bool { return bidPrices[i] > bidPrices[j] })
	for i, p := range bidPrices {
		if i >= n {
			break
		}
		*bids = append(*bids, Level{Price: p, Qty: b.bids[p]})
	}

	askPrices := make([]fixedpoint.Price, 0, len(b.asks))
	for p := range b.asks {
		askPrices = append(askPrices, p)
	}
	sort.Slice(askPrices, func(i, j int) bool { return askPrices[i] < askPrices[j] })
	for i, p := range askPrices {
		if i >= n {
			break
		}
		*asks = append(*asks, Level{Price: p, Qty: b.asks[p]})
		nAsksFilled++
	}

	return nAsksFilled
}

func maxKey(m map[fixedpoint.Price]fixedpoint.Quantity) fixedpoint.Price {
	first := true
	var best fixedpoint.Price
	for p := range m {
		if first || p > best {
			best = p
			first = false
		}
	}
	return best
}

func minKey(m map[fixedpoint.Price]fixedpoint.Quantity) fixedpoint.Price {
	first := true
	var best fixedpoint.Price
	for p := range m {
		if first || p < best {
			best = p
			first = false
		}
	}
	return best
}
