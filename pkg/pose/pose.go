// Package pose defines the 6-DoF pose sample types shared across poselink.
package pose

import "time"

// Pose is a six-axis pose sample: three translation axes and three
// rotation axes. Filtered values conventionally sit in [-1, 1], but
// nothing here enforces that; the wire codec round-trips whatever is
// given.
type Pose struct {
	TX, TY, TZ float64 // translation
	RX, RY, RZ float64 // rotation
}

// Timestamped pairs a Pose with a monotonic send-time in milliseconds.
// The timestamp may be supplied explicitly (for determinism in tests)
// or taken from Now at serialization time.
type Timestamped struct {
	Pose
	Timestamp float64
}

// Stamp returns p paired with the given monotonic timestamp.
func (p Pose) Stamp(ts float64) Timestamped {
	return Timestamped{Pose: p, Timestamp: ts}
}

var epoch = time.Now()

// Now returns a monotonic clock reading in milliseconds since process
// start, with sub-microsecond resolution. Readings from different
// processes are not comparable; latency computed across hosts can go
// negative under clock skew.
func Now() float64 {
	return float64(time.Since(epoch)) / float64(time.Millisecond)
}
