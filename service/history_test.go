package service

import (
	"testing"
	"time"
)

func TestHistoryRecordAndLast(t *testing.T) {
	h := NewScoreHistory(10)

	if _, ok := h.Last("a.js"); ok {
		t.Error("Expected no history for unseen file")
	}

	h.Record("a.js", ScoreRun{PainScore: 80, AgroScore: 75, Successful: true, Timestamp: time.Now()})
	run, ok := h.Last("a.js")
	if !ok {
		t.Fatal("Expected history after recording")
	}
	if run.AgroScore != 75 {
		t.Errorf("Expected agro 75, got %d", run.AgroScore)
	}
}

func TestHistoryCapEvictsOldest(t *testing.T) {
	h := NewScoreHistory(3)

	for i := 1; i <= 5; i++ {
		h.Record("a.js", ScoreRun{AgroScore: i * 10, Successful: true})
	}

	if h.Len("a.js") != 3 {
		t.Errorf("Expected 3 retained runs, got %d", h.Len("a.js"))
	}
	run, _ := h.Last("a.js")
	if run.AgroScore != 50 {
		t.Errorf("Expected the newest run (50) retained, got %d", run.AgroScore)
	}
}

func TestHistoryPerFileIsolation(t *testing.T) {
	h := NewScoreHistory(10)

	h.Record("a.js", ScoreRun{AgroScore: 90, Successful: true})
	h.Record("b.js", ScoreRun{AgroScore: 40, Successful: true})

	runA, _ := h.Last("a.js")
	runB, _ := h.Last("b.js")
	if runA.AgroScore != 90 || runB.AgroScore != 40 {
		t.Errorf("Histories bled across files: a=%d b=%d", runA.AgroScore, runB.AgroScore)
	}
}

func TestHistoryTrend(t *testing.T) {
	tests := []struct {
		name string
		runs []ScoreRun
		want string
	}{
		{"no runs", nil, TrendUnknown},
		{"single run", []ScoreRun{{AgroScore: 50, Successful: true}}, TrendUnknown},
		{"improving", []ScoreRun{{AgroScore: 50, Successful: true}, {AgroScore: 70, Successful: true}}, TrendImproving},
		{"declining", []ScoreRun{{AgroScore: 70, Successful: true}, {AgroScore: 50, Successful: true}}, TrendDeclining},
		{"stable", []ScoreRun{{AgroScore: 60, Successful: true}, {AgroScore: 60, Successful: true}}, TrendStable},
		{"failed runs ignored", []ScoreRun{
			{AgroScore: 50, Successful: true},
			{Successful: false},
			{AgroScore: 80, Successful: true},
		}, TrendImproving},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewScoreHistory(10)
			for _, run := range tt.runs {
				h.Record("a.js", run)
			}
			if got := h.Trend("a.js"); got != tt.want {
				t.Errorf("Expected trend %q, got %q", tt.want, got)
			}
		})
	}
}
