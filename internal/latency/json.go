package latency

import "encoding/json"

// jsonHistogram mirrors the fixed bucket names of spec.md §6. Using a
// struct (not a map) guarantees the field order survives encoding/json,
// which sorts map keys alphabetically but preserves struct field order.
type jsonHistogram struct {
	Lt100ns  int64 `json:"<100ns"`
	Lt500ns  int64 `json:"<500ns"`
	Lt1us    int64 `json:"<1us"`
	Lt10us   int64 `json:"<10us"`
	Lt100us  int64 `json:"<100us"`
	Lt1ms    int64 `json:"<1ms"`
	Ge1ms    int64 `json:">=1ms"`
}

// jsonExport mirrors the exact top-level field order of spec.md §6.
type jsonExport struct {
	Count     int64         `json:"count"`
	MinNs     int64         `json:"min_ns"`
	MaxNs     int64         `json:"max_ns"`
	MeanNs    float64       `json:"mean_ns"`
	P50Ns     float64       `json:"p50_ns"`
	P95Ns     float64       `json:"p95_ns"`
	P99Ns     float64       `json:"p99_ns"`
	P999Ns    float64       `json:"p999_ns"`
	Histogram jsonHistogram `json:"histogram"`
	Samples   []int64       `json:"samples"`
}

// ExportJSON renders the histogram snapshot as the spec.md §6 latency.json
// document. Field order is preserved exactly for diffability.
func (h *Histogram) ExportJSON() ([]byte, error) {
	s := h.Snapshot()
	doc := jsonExport{
		Count:  s.Count,
		MinNs:  s.Min,
		MaxNs:  s.Max,
		MeanNs: s.Mean,
		P50Ns:  s.P50,
		P95Ns:  s.P95,
		P99Ns:  s.P99,
		P999Ns: s.P999,
		Histogram: jsonHistogram{
			Lt100ns: s.Buckets[0],
			Lt500ns: s.Buckets[1],
			Lt1us:   s.Buckets[2],
			Lt10us:  s.Buckets[3],
			Lt100us: s.Buckets[4],
			Lt1ms:   s.Buckets[5],
			Ge1ms:   s.Buckets[6],
		},
		Samples: s.Samples,
	}
	if doc.Samples == nil {
		doc.Samples = []int64{}
	}
	return json.MarshalIndent(doc, "", "  ")
}
