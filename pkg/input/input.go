// Package input normalizes raw controller samples before they enter
// the telemetry plane: deadzone filtering, change detection, and the
// latest-value Source contract the session polls at frame rate.
package input

import "github.com/poselink/poselink/pkg/pose"

// Sample is one reading from an input device: connectivity, the six
// filtered axes, asserted button flags keyed by button index, and the
// monotonic time the device produced it.
type Sample struct {
	Connected bool
	Axes      pose.Pose
	Flags     map[int]bool
	Timestamp float64
}

// Source produces the latest input sample on demand. Implementations
// own their own polling; callers only ever read the newest value.
// ok is false until the source has produced at least one sample.
type Source interface {
	Latest() (s Sample, ok bool)
}

// Normalize returns a copy of s with every axis passed through the
// deadzone filter.
func Normalize(s Sample, threshold float64) Sample {
	a := s.Axes
	s.Axes = pose.Pose{
		TX: ApplyDeadzone(a.TX, threshold),
		TY: ApplyDeadzone(a.TY, threshold),
		TZ: ApplyDeadzone(a.TZ, threshold),
		RX: ApplyDeadzone(a.RX, threshold),
		RY: ApplyDeadzone(a.RY, threshold),
		RZ: ApplyDeadzone(a.RZ, threshold),
	}
	return s
}

// Changed reports whether b differs significantly from a: the
// connectivity flag flipped, any one axis moved by more than epsilon,
// or the asserted flag set differs in membership or value.
func Changed(a, b Sample, epsilon float64) bool {
	if a.Connected != b.Connected {
		return true
	}
	pa, pb := a.Axes, b.Axes
	if SignificantChange(pa.TX, pb.TX, epsilon) ||
		SignificantChange(pa.TY, pb.TY, epsilon) ||
		SignificantChange(pa.TZ, pb.TZ, epsilon) ||
		SignificantChange(pa.RX, pb.RX, epsilon) ||
		SignificantChange(pa.RY, pb.RY, epsilon) ||
		SignificantChange(pa.RZ, pb.RZ, epsilon) {
		return true
	}
	return !sameFlags(a.Flags, b.Flags)
}

func sameFlags(a, b map[int]bool) bool {
	if len(a) != len(b) {
		return false
	}
	for k, v := range a {
		w, ok := b[k]
		if !ok || v != w {
			return false
		}
	}
	return true
}
