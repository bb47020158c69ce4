package latency

import (
	"encoding/json"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHistogramBucketBoundaries(t *testing.T) {
	h := New(100)
	h.Record(99)               // <100ns
	h.Record(100)               // <500ns (100 is not < 100, goes to next bucket)
	h.Record(-5)                // clamped to 0, <100ns
	h.Record(1_000_000_000_000_000_000) // >=1ms

	s := h.Snapshot()
	require.EqualValues(t, 2, s.Buckets[0]) // 99 and -5
	require.EqualValues(t, 1, s.Buckets[1]) // 100
	require.EqualValues(t, 1, s.Buckets[6]) // huge
	require.EqualValues(t, 4, s.Count)
}

func TestHistogramMinMax(t *testing.T) {
	h := New(100)
	h.Record(500)
	h.Record(10)
	h.Record(9999)
	require.EqualValues(t, 10, h.Min())
	require.EqualValues(t, 9999, h.Max())
}

func TestHistogramEmptyPercentileIsZero(t *testing.T) {
	h := New(100)
	require.Equal(t, float64(0), h.Percentile(50))
	s := h.Snapshot()
	require.EqualValues(t, 0, s.Count)
	require.EqualValues(t, 0, s.Min)
	require.EqualValues(t, 0, s.Max)
}

func TestHistogramReservoirWraps(t *testing.T) {
	h := New(4)
	for i := int64(1); i <= 10; i++ {
		h.Record(i)
	}
	s := h.Snapshot()
	require.EqualValues(t, 10, s.Count)
	require.Len(t, s.Samples, 4) // capped at reservoir size
}

func TestPercentileLinearInterpolation(t *testing.T) {
	// Direct property test against spec.md §8: percentile(p) equals linear
	// interpolation at index p/100*(n-1).
	samples := []int64{10, 20, 30, 40, 50}
	sorted := append([]int64(nil), samples...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	for _, p := range []float64{0, 25, 50, 75, 100} {
		got := percentileOf(samples, p)
		pos := (p / 100.0) * float64(len(sorted)-1)
		lo := int(pos)
		if lo >= len(sorted)-1 {
			require.InDelta(t, float64(sorted[len(sorted)-1]), got, 1e-9)
			continue
		}
		frac := pos - float64(lo)
		want := float64(sorted[lo])*(1-frac) + float64(sorted[lo+1])*frac
		require.InDelta(t, want, got, 1e-9)
	}
}

func TestExportJSONFieldOrder(t *testing.T) {
	h := New(10)
	h.Record(50)
	h.Record(150)

	raw, err := h.ExportJSON()
	require.NoError(t, err)

	var m map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(raw, &m))
	for _, key := range []string{"count", "min_ns", "max_ns", "mean_ns", "p50_ns", "p95_ns", "p99_ns", "p999_ns", "histogram", "samples"} {
		_, ok := m[key]
		require.True(t, ok, "missing key %s", key)
	}

	var hist map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(m["histogram"], &hist))
	for _, key := range []string{"<100ns", "<500ns", "<1us", "<10us", "<100us", "<1ms", ">=1ms"} {
		_, ok := hist[key]
		require.True(t, ok, "missing histogram key %s", key)
	}
}
