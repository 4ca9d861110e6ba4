package input

import (
	"testing"

	"github.com/poselink/poselink/pkg/pose"
)

func TestChanged(t *testing.T) {
	base := Sample{
		Connected: true,
		Axes:      pose.Pose{TX: 0.5, TY: -0.25, RZ: 0.1},
		Flags:     map[int]bool{0: true, 3: false},
	}

	tests := []struct {
		name string
		b    Sample
		want bool
	}{
		{
			name: "identical",
			b:    Sample{Connected: true, Axes: pose.Pose{TX: 0.5, TY: -0.25, RZ: 0.1}, Flags: map[int]bool{0: true, 3: false}},
			want: false,
		},
		{
			name: "connectivity flipped",
			b:    Sample{Connected: false, Axes: pose.Pose{TX: 0.5, TY: -0.25, RZ: 0.1}, Flags: map[int]bool{0: true, 3: false}},
			want: true,
		},
		{
			name: "one axis moved",
			b:    Sample{Connected: true, Axes: pose.Pose{TX: 0.502, TY: -0.25, RZ: 0.1}, Flags: map[int]bool{0: true, 3: false}},
			want: true,
		},
		{
			name: "axis jitter below epsilon",
			b:    Sample{Connected: true, Axes: pose.Pose{TX: 0.5005, TY: -0.25, RZ: 0.1}, Flags: map[int]bool{0: true, 3: false}},
			want: false,
		},
		{
			name: "flag value changed",
			b:    Sample{Connected: true, Axes: pose.Pose{TX: 0.5, TY: -0.25, RZ: 0.1}, Flags: map[int]bool{0: true, 3: true}},
			want: true,
		},
		{
			name: "flag membership changed",
			b:    Sample{Connected: true, Axes: pose.Pose{TX: 0.5, TY: -0.25, RZ: 0.1}, Flags: map[int]bool{0: true}},
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Changed(base, tt.b, DefaultEpsilon); got != tt.want {
				t.Errorf("Changed() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNormalize(t *testing.T) {
	s := Sample{
		Connected: true,
		Axes:      pose.Pose{TX: 0.05, TY: 0.55, TZ: -0.55, RX: 1.5, RY: -1.5, RZ: 0},
		Timestamp: 42,
	}

	got := Normalize(s, DefaultDeadzone)

	want := pose.Pose{TX: 0, TY: 0.5, TZ: -0.5, RX: 1, RY: -1, RZ: 0}
	if !approxPose(got.Axes, want) {
		t.Errorf("Normalize() axes = %+v, want %+v", got.Axes, want)
	}
	if !got.Connected || got.Timestamp != 42 {
		t.Errorf("Normalize() should only touch axes, got %+v", got)
	}
}

func approxPose(a, b pose.Pose) bool {
	const eps = 1e-9
	return abs(a.TX-b.TX) < eps && abs(a.TY-b.TY) < eps && abs(a.TZ-b.TZ) < eps &&
		abs(a.RX-b.RX) < eps && abs(a.RY-b.RY) < eps && abs(a.RZ-b.RZ) < eps
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
