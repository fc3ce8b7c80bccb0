package service

import (
	"sync"
	"time"
)

// ScoreRun is one recorded scoring pass over a file
type ScoreRun struct {
	PainScore  int
	AgroScore  int
	Successful bool
	Timestamp  time.Time
}

// Trend direction labels derived from recent history
const (
	TrendImproving = "improving"
	TrendDeclining = "declining"
	TrendStable    = "stable"
	TrendUnknown   = "unknown"
)

// ScoreHistory retains recent runs per file in a capped ring. The
// newest run at capacity evicts the oldest. Safe for concurrent use.
type ScoreHistory struct {
	mu   sync.Mutex
	size int
	runs map[string][]ScoreRun
}

// NewScoreHistory creates a history retaining up to size runs per file
func NewScoreHistory(size int) *ScoreHistory {
	if size <= 0 {
		size = 100
	}
	return &ScoreHistory{
		size: size,
		runs: make(map[string][]ScoreRun),
	}
}

// Record appends a run for the file, evicting the oldest at capacity
func (h *ScoreHistory) Record(path string, run ScoreRun) {
	h.mu.Lock()
	defer h.mu.Unlock()

	runs := append(h.runs[path], run)
	if len(runs) > h.size {
		runs = runs[len(runs)-h.size:]
	}
	h.runs[path] = runs
}

// Last returns the most recent run for the file
func (h *ScoreHistory) Last(path string) (ScoreRun, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	runs := h.runs[path]
	if len(runs) == 0 {
		return ScoreRun{}, false
	}
	return runs[len(runs)-1], true
}

// Len returns the number of retained runs for the file
func (h *ScoreHistory) Len(path string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.runs[path])
}

// Trend compares the latest successful run against the previous one
func (h *ScoreHistory) Trend(path string) string {
	h.mu.Lock()
	defer h.mu.Unlock()

	var successful []ScoreRun
	for _, run := range h.runs[path] {
		if run.Successful {
			successful = append(successful, run)
		}
	}
	if len(successful) < 2 {
		return TrendUnknown
	}

	latest := successful[len(successful)-1]
	previous := successful[len(successful)-2]
	switch {
	case latest.AgroScore > previous.AgroScore:
		return TrendImproving
	case latest.AgroScore < previous.AgroScore:
		return TrendDeclining
	default:
		return TrendStable
	}
}
