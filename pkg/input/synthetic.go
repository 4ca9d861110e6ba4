package input

import (
	"math"
	"sync"
	"time"

	"github.com/poselink/poselink/pkg/pose"
)

// Synthetic is a Source that generates smooth sinusoidal motion on all
// six axes. It stands in for a physical controller in demos and tests.
type Synthetic struct {
	mu     sync.Mutex
	latest Sample
	stop   chan struct{}
	once   sync.Once
}

// NewSynthetic starts a generator producing samples at the given rate.
// Call Stop to release it.
func NewSynthetic(rate time.Duration) *Synthetic {
	s := &Synthetic{stop: make(chan struct{})}
	go s.run(rate)
	return s
}

func (s *Synthetic) run(rate time.Duration) {
	ticker := time.NewTicker(rate)
	defer ticker.Stop()

	start := time.Now()
	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			t := time.Since(start).Seconds()
			sample := Sample{
				Connected: true,
				Axes: pose.Pose{
					TX: math.Sin(t),
					TY: math.Sin(t * 0.7),
					TZ: math.Cos(t * 1.3),
					RX: math.Sin(t * 0.5),
					RY: math.Cos(t * 0.9),
					RZ: math.Sin(t * 1.1),
				},
				Timestamp: pose.Now(),
			}
			s.mu.Lock()
			s.latest = sample
			s.mu.Unlock()
		}
	}
}

// Latest returns the newest generated sample.
func (s *Synthetic) Latest() (Sample, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.latest.Timestamp == 0 {
		return Sample{}, false
	}
	return s.latest, true
}

// Stop halts the generator. Safe to call more than once.
func (s *Synthetic) Stop() {
	s.once.Do(func() { close(s.stop) })
}
