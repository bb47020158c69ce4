// Package killswitch implements the single process-wide trading halt flag
// of spec.md §4.10: any thread may Trigger or Reset it, and the risk gate
// reads it on every hot-path check with an acquire load.
package killswitch

import "sync/atomic"

// Switch is a shared, explicitly-constructed handle (spec.md §9: "avoid a
// language-level global; wrap it in a lazily initialised shared value") —
// callers thread a *Switch through dependency injection rather than
// reaching for a package-level variable.
type Switch struct {
	armed atomic.Bool
}

// New returns a disarmed Switch.
func New() *Switch {
	return &Switch{}
}

// Trigger arms the switch. It takes no reason argument and stores none;
// callers log their own reason (spec.md §4.10).
func (s *Switch) Trigger() {
	s.armed.Store(true)
}

// Reset disarms the switch.
func (s *Switch) Reset() {
	s.armed.Store(false)
}

// Armed reports the current state with acquire semantics, safe to call
// from the hot path.
func (s *Switch) Armed() bool {
	return s.armed.Load()
}
