package pipeline

import (
	"slices"
	"sync"
	"time"
)

// Phase names a timed step of a render.
type Phase string

const (
	PhaseImport Phase = "import"
	PhaseParse  Phase = "parse"
	PhaseRender Phase = "render"
)

const defaultStatsWindow = 1024

// PhaseStats summarises one phase. Total counts every observation,
// Window only the samples still retained.
type PhaseStats struct {
	Total  int64   `json:"total"`
	Window int     `json:"window"`
	MeanMs float64 `json:"mean_ms"`
	P50Ms  float64 `json:"p50_ms"`
	P90Ms  float64 `json:"p90_ms"`
	P99Ms  float64 `json:"p99_ms"`
	MaxMs  float64 `json:"max_ms"`
}

// StatsReport is a copy of the tracker state.
type StatsReport struct {
	Phases  map[Phase]PhaseStats `json:"phases"`
	Formats map[Format]int64     `json:"formats"`
}

// Renders returns the number of completed renders.
func (r StatsReport) Renders() int64 {
	return r.Phases[PhaseRender].Total
}

// RenderStats keeps the latest durations of each phase in a fixed-size
// ring and counts completed renders per output format.
type RenderStats struct {
	mu      sync.Mutex
	window  int
	rings   map[Phase]*latencyRing
	formats map[Format]int64
}

// NewRenderStats retains up to window samples per phase.
func NewRenderStats(window int) *RenderStats {
	if window <= 0 {
		window = defaultStatsWindow
	}
	return &RenderStats{
		window:  window,
		rings:   make(map[Phase]*latencyRing),
		formats: make(map[Format]int64),
	}
}

// Observe records how long one phase took. Negative durations count as zero.
func (s *RenderStats) Observe(p Phase, d time.Duration) {
	if d < 0 {
		d = 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.rings[p]
	if !ok {
		r = &latencyRing{}
		s.rings[p] = r
	}
	r.add(d, s.window)
}

// Rendered counts one completed render in format f.
func (s *RenderStats) Rendered(f Format) {
	s.mu.Lock()
	s.formats[f]++
	s.mu.Unlock()
}

func (s *RenderStats) Snapshot() StatsReport {
	s.mu.Lock()
	defer s.mu.Unlock()

	rep := StatsReport{
		Phases:  make(map[Phase]PhaseStats, len(s.rings)),
		Formats: make(map[Format]int64, len(s.formats)),
	}
	for p, r := range s.rings {
		rep.Phases[p] = r.summary()
	}
	for f, n := range s.formats {
		rep.Formats[f] = n
	}
	return rep
}

type latencyRing struct {
	samples []time.Duration
	next    int // slot overwritten once the ring is full
	total   int64
}

func (r *latencyRing) add(d time.Duration, size int) {
	r.total++
	if len(r.samples) < size {
		r.samples = append(r.samples, d)
		return
	}
	r.samples[r.next] = d
	r.next = (r.next + 1) % size
}

func (r *latencyRing) summary() PhaseStats {
	st := PhaseStats{Total: r.total, Window: len(r.samples)}
	if len(r.samples) == 0 {
		return st
	}
	sorted := slices.Clone(r.samples)
	slices.Sort(sorted)

	var sum time.Duration
	for _, d := range sorted {
		sum += d
	}
	st.MeanMs = millis(sum / time.Duration(len(sorted)))
	st.P50Ms = millis(nearestRank(sorted, 50))
	st.P90Ms = millis(nearestRank(sorted, 90))
	st.P99Ms = millis(nearestRank(sorted, 99))
	st.MaxMs = millis(sorted[len(sorted)-1])
	return st
}

// nearestRank returns the smallest sample that at least pct percent of
// the samples do not exceed.
func nearestRank(sorted []time.Duration, pct int) time.Duration {
	rank := (pct*len(sorted) + 99) / 100
	if rank < 1 {
		rank = 1
	}
	return sorted[rank-1]
}

func millis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
