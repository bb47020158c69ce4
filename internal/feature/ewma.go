// Package feature holds single-stream signal-processing primitives used by
// strategies. Today that is just the EWMA of spec.md §4.6.
package feature

import "errors"

// ErrInvalidConfig is returned by NewEWMA when alpha is outside (0,1].
var ErrInvalidConfig = errors.New("feature: alpha must be in (0,1]")

// EWMA computes value <- alpha*x + (1-alpha)*value, seeded by the first
// observed sample (no decay applied to the seed).
type EWMA struct {
	alpha       float64
	value       float64
	initialized bool
}

// NewEWMA constructs an EWMA with smoothing factor alpha in (0,1].
// Non-positive-validation is a construction-time failure, per spec.md §7.
func NewEWMA(alpha float64) (*EWMA, error) {
	if alpha <= 0 || alpha > 1 {
		return nil, ErrInvalidConfig
	}
	return &EWMA{alpha: alpha}, nil
}

// Update feeds one sample and returns the updated value.
func (e *EWMA) Update(x float64) float64 {
	if !e.initialized {
		e.value = x
		e.initialized = true
		return e.value
	}
	e.value = e.alpha*x + (1-e.alpha)*e.value
	return e.value
}

// Value returns the current estimate (0 before the first Update).
func (e *EWMA) Value() float64 { return e.value }

// Initialized reports whether at least one sample has been observed.
func (e *EWMA) Initialized() bool { return e.initialized }
