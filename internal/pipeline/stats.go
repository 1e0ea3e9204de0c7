package pipeline

import (
	"slices"
	"sync"
	"time"

	"github.com/dgallion1/docshuffle/internal/shuffle"
)

type sample struct {
	timestamp time.Time
	duration  time.Duration
	nodes     int
	steps     int
}

// LatencySnapshot is a point-in-time aggregate of recent shuffle passes.
// Durations are in microseconds. NodesShuffled and StepsStaged are totals
// over the window, and UsPerNode divides total apply time by the nodes it
// reordered.
type LatencySnapshot struct {
	Count         int     `json:"count"`
	NodesShuffled int     `json:"nodes_shuffled"`
	StepsStaged   int     `json:"steps_staged"`
	UsPerNode     float64 `json:"us_per_node"`
	MinUs int64   `json:"min_us"`
	MaxUs int64   `json:"max_us"`
	AvgUs float64 `json:"avg_us"`
	P50Us float64 `json:"p50_us"`
	P95Us float64 `json:"p95_us"`
	P99Us float64 `json:"p99_us"`
}

// LatencyStats tracks recent shuffle passes within a rolling window.
type LatencyStats struct {
	mu      sync.Mutex
	samples []sample
	maxAge  time.Duration
}

func NewLatencyStats(maxAge time.Duration) *LatencyStats {
	if maxAge <= 0 {
		maxAge = time.Hour
	}
	return &LatencyStats{
		samples: make([]sample, 0, 256),
		maxAge:  maxAge,
	}
}

// Record adds one pass. Negative durations and counts are clamped to zero.
func (s *LatencyStats) Record(st shuffle.Stats) {
	now := time.Now()
	sm := sample{
		timestamp: now,
		duration:  max(st.ApplyDuration, 0),
		nodes:     max(st.NodesShuffled, 0),
		steps:     max(st.StepsStaged, 0),
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.pruneLocked(now)
	s.samples = append(s.samples, sm)
}

func (s *LatencyStats) Snapshot() LatencySnapshot {
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.pruneLocked(now)
	if len(s.samples) == 0 {
		return LatencySnapshot{}
	}

	values := make([]int64, 0, len(s.samples))
	var sum int64
	var nodes, steps int
	for _, sm := range s.samples {
		us := sm.duration.Microseconds()
		values = append(values, us)
		sum += us
		nodes += sm.nodes
		steps += sm.steps
	}
	slices.Sort(values)

	var perNode float64
	if nodes > 0 {
		perNode = float64(sum) / float64(nodes)
	}

	return LatencySnapshot{
		Count:         len(values),
		NodesShuffled: nodes,
		StepsStaged:   steps,
		UsPerNode:     perNode,
		MinUs: values[0],
		MaxUs: values[len(values)-1],
		AvgUs: float64(sum) / float64(len(values)),
		P50Us: percentile(values, 50),
		P95Us: percentile(values, 95),
		P99Us: percentile(values, 99),
	}
}

func (s *LatencyStats) pruneLocked(now time.Time) {
	cutoff := now.Add(-s.maxAge)
	s.samples = slices.DeleteFunc(s.samples, func(sm sample) bool {
		return sm.timestamp.Before(cutoff)
	})
}

// percentile interpolates linearly between the two nearest ranks.
func percentile(sortedValues []int64, pct float64) float64 {
	if len(sortedValues) == 0 {
		return 0
	}
	if pct <= 0 {
		return float64(sortedValues[0])
	}
	if pct >= 100 {
		return float64(sortedValues[len(sortedValues)-1])
	}

	index := (float64(len(sortedValues)-1) * pct) / 100.0
	lower := int(index)
	upper := lower + 1
	if upper >= len(sortedValues) {
		return float64(sortedValues[lower])
	}
	weight := index - float64(lower)
	lo := float64(sortedValues[lower])
	hi := float64(sortedValues[upper])
	return lo + ((hi - lo) * weight)
}
