package session

import "github.com/poselink/poselink/pkg/pose"

// latencyWindowSize bounds the trailing latency window. Oldest samples
// are evicted first.
const latencyWindowSize = 30

// latencyWindow is a fixed-capacity ring of latency samples in
// milliseconds.
type latencyWindow struct {
	samples [latencyWindowSize]float64
	next    int
	count   int
}

func (w *latencyWindow) push(ms float64) {
	w.samples[w.next] = ms
	w.next = (w.next + 1) % latencyWindowSize
	if w.count < latencyWindowSize {
		w.count++
	}
}

// mean returns the arithmetic mean over the current window contents.
func (w *latencyWindow) mean() float64 {
	if w.count == 0 {
		return 0
	}
	var sum float64
	for i := 0; i < w.count; i++ {
		sum += w.samples[i]
	}
	return sum / float64(w.count)
}

// Stats are the session counters. Latency fields are meaningless until
// HasLatency is true. Discarded counts inbound buffers that failed to
// decode; they are counted as neither sent nor received.
type Stats struct {
	PacketsSent     uint64
	PacketsReceived uint64
	Discarded       uint64
	LastLatencyMS   float64
	AvgLatencyMS    float64
	HasLatency      bool
}

// Snapshot is a tear-free copy of everything a consumer may observe.
// LastPose is nil until the first packet has been decoded.
type Snapshot struct {
	State    State
	Stats    Stats
	LastPose *pose.Pose
}
