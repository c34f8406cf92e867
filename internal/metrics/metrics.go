// Package metrics tracks in-process operation latencies and summarizes
// them as percentiles for the metrics endpoint.
package metrics

import (
	"math"
	"sort"
	"sync"
	"time"
)

// maxSamples bounds memory: only the most recent samples per operation are
// kept.
const maxSamples = 1000

// Summary is the aggregate view of one operation's recorded latencies.
type Summary struct {
	Count  int     `json:"count"`
	MeanMS float64 `json:"mean_ms"`
	P50MS  float64 `json:"p50_ms"`
	P95MS  float64 `json:"p95_ms"`
	P99MS  float64 `json:"p99_ms"`
}

// Tracker records latency samples keyed by operation name. The zero value
// is not usable; construct with New.
type Tracker struct {
	mu      sync.Mutex
	samples map[string][]float64
}

func New() *Tracker {
	return &Tracker{
		samples: make(map[string][]float64),
	}
}

// Record adds one latency observation for the named operation.
func (t *Tracker) Record(op string, d time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()

	s := append(t.samples[op], float64(d)/float64(time.Millisecond))
	if len(s) > maxSamples {
		s = s[len(s)-maxSamples:]
	}

	t.samples[op] = s
}

// Time runs fn and records its duration under op.
func (t *Tracker) Time(op string, fn func()) {
	start := time.Now()
	fn()
	t.Record(op, time.Since(start))
}

// Summarize reports percentiles for every operation seen so far.
func (t *Tracker) Summarize() map[string]Summary {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make(map[string]Summary, len(t.samples))

	for op, samples := range t.samples {
		sorted := append([]float64(nil), samples...)
		sort.Float64s(sorted)

		var sum float64
		for _, v := range sorted {
			sum += v
		}

		out[op] = Summary{
			Count:  len(sorted),
			MeanMS: round2(sum / float64(len(sorted))),
			P50MS:  round2(percentile(sorted, 50)),
			P95MS:  round2(percentile(sorted, 95)),
			P99MS:  round2(percentile(sorted, 99)),
		}
	}

	return out
}

// percentile computes the p-th percentile of a sorted sample set using
// linear interpolation between the two nearest ranks.
func percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}

	if len(sorted) == 1 {
		return sorted[0]
	}

	rank := p / 100 * float64(len(sorted)-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))

	if lo == hi {
		return sorted[lo]
	}

	frac := rank - float64(lo)

	return sorted[lo] + (sorted[hi]-sorted[lo])*frac
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
