package session

import (
	"math"
	"testing"
)

func TestLatencyWindowMean(t *testing.T) {
	var w latencyWindow

	if w.mean() != 0 {
		t.Errorf("empty window mean = %v, want 0", w.mean())
	}

	w.push(10)
	w.push(20)
	w.push(30)
	if got := w.mean(); math.Abs(got-20) > 1e-9 {
		t.Errorf("mean = %v, want 20", got)
	}
}

func TestLatencyWindowEviction(t *testing.T) {
	var w latencyWindow

	// one outlier followed by 30 identical samples: after the 31st
	// push the outlier is gone and the mean collapses to the steady
	// value
	w.push(1000)
	for i := 0; i < latencyWindowSize; i++ {
		w.push(5)
	}

	if w.count != latencyWindowSize {
		t.Fatalf("count = %d, want %d", w.count, latencyWindowSize)
	}
	if got := w.mean(); math.Abs(got-5) > 1e-9 {
		t.Errorf("mean after eviction = %v, want 5", got)
	}
}

func TestLatencyWindowPartialFill(t *testing.T) {
	var w latencyWindow
	w.push(2)
	w.push(4)

	if w.count != 2 {
		t.Fatalf("count = %d, want 2", w.count)
	}
	if got := w.mean(); math.Abs(got-3) > 1e-9 {
		t.Errorf("mean = %v, want 3", got)
	}
}
