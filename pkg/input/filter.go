package input

import "math"

// Default tuning for analog sticks. Matches the thresholds the wire
// consumers were calibrated against.
const (
	DefaultDeadzone = 0.1
	DefaultEpsilon  = 0.001
)

// ApplyDeadzone maps a raw analog axis value to a noise-suppressed,
// rescaled value in [-1, 1]. Values inside the threshold collapse to
// exactly 0; outside it the remaining range is rescaled so the output
// ramps from 0 just past the threshold up to ±1 at |value| = 1.
// Inputs beyond ±1 clamp to ±1.
//
// threshold must not equal 1 (caller precondition, not checked).
func ApplyDeadzone(value, threshold float64) float64 {
	abs := math.Abs(value)
	if abs < threshold {
		return 0
	}
	scaled := (abs - threshold) / (1 - threshold)
	if scaled > 1 {
		scaled = 1
	}
	return math.Copysign(scaled, value)
}

// SignificantChange reports whether a and b differ by strictly more
// than epsilon. It gates downstream publication only; it never affects
// the values that get transmitted.
func SignificantChange(a, b, epsilon float64) bool {
	return math.Abs(a-b) > epsilon
}
