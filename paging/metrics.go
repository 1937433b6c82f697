package paging

import (
	"log/slog"
	"math"
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

// Histogram keeps the most recent run latencies in a ring and answers
// percentile queries over them.
type Histogram struct {
	mu   sync.Mutex
	ring []float64 // microseconds, arrival order from next
	next int
	full bool
}

// NewHistogram creates a histogram retaining at most window samples
func NewHistogram(window int) *Histogram {
	if window <= 0 {
		window = 10000
	}
	return &Histogram{ring: make([]float64, window)}
}

// Record adds a latency sample in microseconds, overwriting the oldest
// once the window is full
func (h *Histogram) Record(latencyUs float64) {
	h.mu.Lock()
	h.ring[h.next] = latencyUs
	h.next++
	if h.next == len(h.ring) {
		h.next = 0
		h.full = true
	}
	h.mu.Unlock()
}

// sortedLocked returns a sorted copy of the retained samples
func (h *Histogram) sortedLocked() []float64 {
	n := h.next
	if h.full {
		n = len(h.ring)
	}
	out := make([]float64, n)
	copy(out, h.ring[:n])
	sort.Float64s(out)
	return out
}

// Percentile interpolates the p-th percentile (0-100) of the window
func (h *Histogram) Percentile(p float64) float64 {
	h.mu.Lock()
	samples := h.sortedLocked()
	h.mu.Unlock()
	return percentileOf(samples, p)
}

func percentileOf(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	pos := p / 100 * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	frac := pos - float64(lo)
	return sorted[lo] + (sorted[hi]-sorted[lo])*frac
}

// HistogramSnapshot holds percentile statistics at one point in time
type HistogramSnapshot struct {
	Count int
	Mean  float64
	P50   float64
	P95   float64
	P99   float64
}

func (h *Histogram) Snapshot() HistogramSnapshot {
	h.mu.Lock()
	samples := h.sortedLocked()
	h.mu.Unlock()

	snap := HistogramSnapshot{Count: len(samples)}
	if snap.Count == 0 {
		return snap
	}
	var total float64
	for _, v := range samples {
		total += v
	}
	snap.Mean = total / float64(snap.Count)
	snap.P50 = percentileOf(samples, 50)
	snap.P95 = percentileOf(samples, 95)
	snap.P99 = percentileOf(samples, 99)
	return snap
}

// Reset drops every sample
func (h *Histogram) Reset() {
	h.mu.Lock()
	h.next = 0
	h.full = false
	h.mu.Unlock()
}

type algorithmCounters struct {
	runs      atomic.Uint64
	accesses  atomic.Uint64
	faults    atomic.Uint64
	hits      atomic.Uint64
	evictions atomic.Uint64
}

// AlgorithmStats is a point-in-time copy of one algorithm's counters
type AlgorithmStats struct {
	Runs      uint64
	Accesses  uint64
	Faults    uint64
	Hits      uint64
	Evictions uint64
}

// FaultRate returns faults / accesses over all recorded runs
func (s AlgorithmStats) FaultRate() float64 {
	if s.Accesses == 0 {
		return 0.0
	}
	return float64(s.Faults) / float64(s.Accesses)
}

// Metrics aggregates simulation counters across runs. It is safe for
// concurrent use and is the only state shared between simulations.
type Metrics struct {
	counters map[string]*algorithmCounters // fixed at construction

	runLatency *Histogram

	startTime time.Time
	mu        sync.RWMutex
}

// NewMetrics creates a new metrics tracker
func NewMetrics() *Metrics {
	return &Metrics{
		counters: map[string]*algorithmCounters{
			AlgorithmFIFO:       {},
			AlgorithmLRU:        {},
			AlgorithmPredictive: {},
			AlgorithmARC:        {},
			AlgorithmTwoQ:       {},
		},
		runLatency: NewHistogram(10000),
		startTime:  time.Now(),
	}
}

// Algorithms lists the tracked algorithms, the compared three first
func (m *Metrics) Algorithms() []string {
	return []string{AlgorithmFIFO, AlgorithmLRU, AlgorithmPredictive, AlgorithmARC, AlgorithmTwoQ}
}

// RecordRun adds a finished run to the counters
func (m *Metrics) RecordRun(r *Result, frames int, elapsed time.Duration) {
	c, ok := m.counters[r.Algorithm]
	if !ok {
		return
	}
	c.runs.Add(1)
	c.accesses.Add(uint64(len(r.Steps)))
	c.faults.Add(uint64(r.Faults))
	c.hits.Add(uint64(r.Hits))
	c.evictions.Add(uint64(r.Evictions(frames)))
	m.runLatency.Record(float64(elapsed.Microseconds()))
}

// Stats returns the counters for one algorithm
func (m *Metrics) Stats(algorithm string) AlgorithmStats {
	c, ok := m.counters[algorithm]
	if !ok {
		return AlgorithmStats{}
	}
	return AlgorithmStats{
		Runs:      c.runs.Load(),
		Accesses:  c.accesses.Load(),
		Faults:    c.faults.Load(),
		Hits:      c.hits.Load(),
		Evictions: c.evictions.Load(),
	}
}

// GetRunLatency returns snapshot of the run latency distribution
func (m *Metrics) GetRunLatency() HistogramSnapshot {
	return m.runLatency.Snapshot()
}

func (m *Metrics) GetUptime() time.Duration {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return time.Since(m.startTime)
}

// LogMetrics logs all metrics using structured logging
func (m *Metrics) LogMetrics(logger *slog.Logger) {
	attrs := make([]any, 0, len(m.counters)+2)
	for _, name := range m.Algorithms() {
		s := m.Stats(name)
		attrs = append(attrs, slog.Group(name,
			slog.Uint64("runs", s.Runs),
			slog.Uint64("accesses", s.Accesses),
			slog.Uint64("faults", s.Faults),
			slog.Uint64("hits", s.Hits),
			slog.Uint64("evictions", s.Evictions),
			slog.Float64("fault_rate", s.FaultRate()),
		))
	}

	lat := m.GetRunLatency()
	attrs = append(attrs,
		slog.Group("run_latency_us",
			slog.Int("count", lat.Count),
			slog.Float64("mean", lat.Mean),
			slog.Float64("p50", lat.P50),
			slog.Float64("p95", lat.P95),
			slog.Float64("p99", lat.P99),
		),
		slog.Duration("uptime", m.GetUptime()),
	)

	logger.Info("Simulator Metrics", attrs...)
}

// Reset resets all metrics (useful for testing)
func (m *Metrics) Reset() {
	for _, c := range m.counters {
		c.runs.Store(0)
		c.accesses.Store(0)
		c.faults.Store(0)
		c.hits.Store(0)
		c.evictions.Store(0)
	}
	m.runLatency.Reset()

	m.mu.Lock()
	m.startTime = time.Now()
	m.mu.Unlock()
}
