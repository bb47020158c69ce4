// Package risk implements the stateful pre-trade checks of spec.md §4.8:
// a quantity cap, a price-deviation band, a kill-switch read, and a
// continuous-refill rate limit. All four checks are silent booleans — no
// error is raised for a rejection (spec.md §7).
package risk

import (
	"errors"

	"github.com/abdoElHodaky/hftcore/internal/contracts"
	"github.com/abdoElHodaky/hftcore/internal/fixedpoint"
	"github.com/abdoElHodaky/hftcore/internal/killswitch"
	"golang.org/x/time/rate"
)

// ErrInvalidConfig is returned by New for any non-positive limit.
var ErrInvalidConfig = errors.New("risk: limits must be positive")

// Config holds the fat-finger and throughput limits for one Gate.
type Config struct {
	MaxOrderQty       fixedpoint.Quantity
	MaxPriceDeviation fixedpoint.Price
	MaxOrdersPerSec   float64
}

// Gate is the engine-thread-only pre-trade risk check. The rate limiter
// wraps golang.org/x/time/rate.Limiter, whose continuous-refill token
// bucket semantics (burst = capacity, refill = r/sec) are exactly the
// "token bucket with capacity = max_orders_per_sec refilled continuously
// at max_orders_per_sec tokens/sec" spec.md §4.8 calls for, and it is the
// same library the teacher uses for its own rate limiter
// (internal/trading/mitigation/rate_limiter.go).
type Gate struct {
	cfg     Config
	ks      *killswitch.Switch
	limiter *rate.Limiter
}

// New constructs a Gate. Non-positive limits are a construction-time
// InvalidConfig failure (spec.md §7).
func New(cfg Config, ks *killswitch.Switch) (*Gate, error) {
	if cfg.MaxOrderQty <= 0 || cfg.MaxPriceDeviation <= 0 || cfg.MaxOrdersPerSec <= 0 {
		return nil, ErrInvalidConfig
	}
	return &Gate{
		cfg:     cfg,
		ks:      ks,
		limiter: rate.NewLimiter(rate.Limit(cfg.MaxOrdersPerSec), int(cfg.MaxOrdersPerSec)),
	}, nil
}

// CheckNewOrder returns true iff all four checks of spec.md §4.8 pass:
// qty cap, price-deviation band (compared on raw ticks), kill-switch not
// armed, and the rate limiter has a token available. Must only be called
// from the single engine thread (the rate limiter's bucket is per-Gate,
// not per-call-site, so concurrent callers would corrupt its accounting).
func (g *Gate) CheckNewOrder(cmd contracts.OrderCommand, refPrice fixedpoint.Price) bool {
	if cmd.Qty > g.cfg.MaxOrderQty {
		return false
	}
	if (cmd.Price - refPrice).Abs() > g.cfg.MaxPriceDeviation {
		return false
	}
	if g.ks.Armed() {
		return false
	}
	if !g.limiter.Allow() {
		return false
	}
	return true
}
