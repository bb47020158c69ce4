// Package clock supplies the monotonic nanosecond timestamp source used for
// latency sampling and order-book/audit timestamps.
package clock

import (
	"time"

	"github.com/abdoElHodaky/hftcore/internal/fixedpoint"
)

// NowNanos returns a monotonic nanosecond timestamp. Go's time.Now()
// carries a monotonic reading on every supported platform, and
// time.Since/Sub use it automatically, so this is not guaranteed to
// agree with wall-clock nanoseconds since the epoch — only that
// successive calls within a process are non-decreasing with
// sub-microsecond resolution.
func NowNanos() fixedpoint.Timestamp {
	return fixedpoint.Timestamp(monotonicEpoch.add(time.Now()))
}

// epoch anchors the monotonic reading so NowNanos returns small, readable
// numbers instead of a raw wall-clock offset; it has no bearing on
// correctness since only deltas between NowNanos calls are meaningful.
type epoch struct {
	start time.Time
}

func (e epoch) add(t time.Time) int64 {
	return t.Sub(e.start).Nanoseconds()
}

var monotonicEpoch = epoch{start: time.Now()}
