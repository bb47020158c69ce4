// Package latency implements the lock-free latency histogram and capped
// circular sample reservoir described in spec.md §4.3, plus the
// (non-hot-path) percentile and JSON export used by the benchmark harness.
package latency

import (
	"sort"
	"sync/atomic"

	"gonum.org/v1/gonum/stat"
)

// DefaultReservoirSize is the default sample-store capacity N.
const DefaultReservoirSize = 100_000

// bucketBounds are the upper (exclusive) bounds of the 7 fixed buckets, in
// nanoseconds. The last bucket has no finite bound.
var bucketBounds = [7]int64{100, 500, 1_000, 10_000, 100_000, 1_000_000, 0}

const numBuckets = 7

// Histogram is safe for concurrent Record calls from any thread and
// concurrent Snapshot/Percentile queries from any thread; it uses atomics
// exclusively, per spec.md §5.
type Histogram struct {
	count atomic.Int64
	sum   atomic.Int64
	min   atomic.Int64
	max   atomic.Int64

	buckets [numBuckets]atomic.Int64

	writeIdx atomic.Uint64
	samples  []atomic.Int64
}

// New creates a Histogram with the given sample reservoir capacity.
func New(reservoirSize int) *Histogram {
	if reservoirSize <= 0 {
		reservoirSize = DefaultReservoirSize
	}
	h := &Histogram{
		samples: make([]atomic.Int64, reservoirSize),
	}
	h.min.Store(int64(^uint64(0) >> 1)) // max int64, so the first sample always wins the CAS-min
	h.max.Store(-int64(^uint64(0)>>1) - 1)
	return h
}

// Record ingests one latency sample. It is lock-free (the min/max updates
// are CAS retry loops) and allocation-free.
func (h *Histogram) Record(latencyNs int64) {
	h.count.Add(1)
	h.sum.Add(latencyNs)

	for {
		cur := h.min.Load()
		if latencyNs >= cur {
			break
		}
		if h.min.CompareAndSwap(cur, latencyNs) {
			break
		}
	}
	for {
		cur := h.max.Load()
		if latencyNs <= cur {
			break
		}
		if h.max.CompareAndSwap(cur, latencyNs) {
			break
		}
	}

	clamped := latencyNs
	if clamped < 0 {
		clamped = 0 // now_nanos is not guaranteed monotonic on every platform
	}
	bucket := numBuckets - 1
	for i, bound := range bucketBounds[:numBuckets-1] {
		if clamped < bound {
			bucket = i
			break
		}
	}
	h.buckets[bucket].Add(1)

	idx := h.writeIdx.Add(1) - 1
	h.samples[idx%uint64(len(h.samples))].Store(latencyNs)
}

// Count, Min, Max, Mean are cheap atomic readbacks safe for the hot path's
// diagnostics consumers (e.g. the admin/metrics surface), unlike
// Percentile/Snapshot below which copy and sort the sample window.
func (h *Histogram) Count() int64 { return h.count.Load() }
func (h *Histogram) Min() int64   { return h.min.Load() }
func (h *Histogram) Max() int64   { return h.max.Load() }

// Mean returns the running mean, or 0 if no samples have been recorded.
func (h *Histogram) Mean() float64 {
	n := h.count.Load()
	if n == 0 {
		return 0
	}
	return float64(h.sum.Load()) / float64(n)
}

// snapshotSamples copies min(count, N) raw samples in write-index order
// (not chronological order once the reservoir has wrapped, per spec.md §9
// "Open questions" — this implementation preserves that ambiguity rather
// than resolving it).
func (h *Histogram) snapshotSamples() []int64 {
	n := h.count.Load()
	cap64 := int64(len(h.samples))
	if n > cap64 {
		n = cap64
	}
	out := make([]int64, n)
	for i := int64(0); i < n; i++ {
		out[i] = h.samples[i].Load()
	}
	return out
}

// Percentile returns the linearly-interpolated p-th percentile (p in
// [0,100]) over the current sample window, or 0 if no samples exist. Not
// on the hot path: it copies and sorts.
func (h *Histogram) Percentile(p float64) float64 {
	samples := h.snapshotSamples()
	return percentileOf(samples, p)
}

func percentileOf(samplesCopy []int64, p float64) float64 {
	n := len(samplesCopy)
	if n == 0 {
		return 0
	}
	sorted := make([]int64, n)
	copy(sorted, samplesCopy)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	if n == 1 {
		return float64(sorted[0])
	}

	pos := (p / 100.0) * float64(n-1)
	lo := int(pos)
	if lo < 0 {
		lo = 0
	}
	if lo >= n-1 {
		return float64(sorted[n-1])
	}
	frac := pos - float64(lo)
	return float64(sorted[lo])*(1-frac) + float64(sorted[lo+1])*frac
}

// Stats is the full non-hot-path snapshot used for JSON export.
type Stats struct {
	Count     int64
	Min       int64
	Max       int64
	Mean      float64
	P50       float64
	P95       float64
	P99       float64
	P999      float64
	Buckets   [numBuckets]int64
	Samples   []int64 // up to 1000, in reservoir write-index order
}

// Snapshot computes the full Stats, including percentiles over a single
// consistent copy of the sample window (so p50/p95/p99/p99.9 are computed
// against the same data, rather than racing four separate Percentile
// calls against a live reservoir).
func (h *Histogram) Snapshot() Stats {
	samples := h.snapshotSamples()
	n := h.count.Load()

	var mean float64
	if len(samples) > 0 {
		asFloat := make([]float64, len(samples))
		for i, v := range samples {
			asFloat[i] = float64(v)
		}
		mean = stat.Mean(asFloat, nil)
	}

	minV, maxV := h.Min(), h.Max()
	if n == 0 {
		minV, maxV = 0, 0
	}
	s := Stats{
		Count: n,
		Min:   minV,
		Max:   maxV,
		Mean:  mean,
		P50:   percentileOf(samples, 50),
		P95:   percentileOf(samples, 95),
		P99:   percentileOf(samples, 99),
		P999:  percentileOf(samples, 99.9),
	}
	for i := range h.buckets {
		s.Buckets[i] = h.buckets[i].Load()
	}

	limit := len(samples)
	if limit > 1000 {
		limit = 1000
	}
	s.Samples = append([]int64(nil), samples[:limit]...)

	return s
}
