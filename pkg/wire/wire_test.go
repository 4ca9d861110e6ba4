package wire

import (
	"bytes"
	"errors"
	"math"
	"testing"

	"github.com/poselink/poselink/pkg/pose"
)

// float32Tol is the precision the codec guarantees for axis fields
// after the 64→32-bit narrowing.
const float32Tol = 1e-4

func TestPoseRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		p    pose.Pose
	}{
		{name: "zero", p: pose.Pose{}},
		{name: "extremes", p: pose.Pose{TX: 1, TY: -1, TZ: 1, RX: -1, RY: 1, RZ: -1}},
		{name: "mixed", p: pose.Pose{TX: 0.5, TY: -0.25, TZ: 0.75, RX: -0.1, RY: 0.33, RZ: -0.9}},
		{name: "tiny", p: pose.Pose{TX: 1e-6, RZ: -1e-6}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := EncodePose(tt.p)
			if len(buf) != PoseSize {
				t.Fatalf("EncodePose() len = %d, want %d", len(buf), PoseSize)
			}
			got, err := DecodePose(buf)
			if err != nil {
				t.Fatalf("DecodePose() error = %v", err)
			}
			assertPoseNear(t, got, tt.p)
		})
	}
}

func TestTimestampedRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		tp   pose.Timestamped
	}{
		{name: "zero timestamp", tp: pose.Pose{TX: 0.5}.Stamp(0)},
		{name: "microsecond precision", tp: pose.Pose{RY: -0.75}.Stamp(123456.789012)},
		{name: "large timestamp", tp: pose.Pose{TZ: 1}.Stamp(9.007199254740992e15)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := EncodeTimestamped(tt.tp)
			if len(buf) != TimestampedSize {
				t.Fatalf("EncodeTimestamped() len = %d, want %d", len(buf), TimestampedSize)
			}
			got, err := DecodeTimestamped(buf)
			if err != nil {
				t.Fatalf("DecodeTimestamped() error = %v", err)
			}
			if got.Timestamp != tt.tp.Timestamp {
				t.Errorf("timestamp = %v, want exactly %v", got.Timestamp, tt.tp.Timestamp)
			}
			assertPoseNear(t, got.Pose, tt.tp.Pose)
		})
	}
}

func TestDecodeInvalidLength(t *testing.T) {
	short := make([]byte, 10)

	_, err := DecodePose(short)
	var lenErr *InvalidLengthError
	if !errors.As(err, &lenErr) {
		t.Fatalf("DecodePose() error = %v, want InvalidLengthError", err)
	}
	if lenErr.Expected != PoseSize || lenErr.Actual != 10 {
		t.Errorf("InvalidLengthError = %+v, want expected=%d actual=10", lenErr, PoseSize)
	}

	_, err = DecodeTimestamped(short)
	if !errors.As(err, &lenErr) {
		t.Fatalf("DecodeTimestamped() error = %v, want InvalidLengthError", err)
	}
	if lenErr.Expected != TimestampedSize || lenErr.Actual != 10 {
		t.Errorf("InvalidLengthError = %+v, want expected=%d actual=10", lenErr, TimestampedSize)
	}

	// oversized buffers are rejected too; the layouts are exact-size
	if _, err := DecodePose(make([]byte, PoseSize+1)); err == nil {
		t.Error("DecodePose() accepted an oversized buffer")
	}
}

func TestLayoutByteExact(t *testing.T) {
	// 1.0 as LE float32 is 00 00 80 3f
	buf := EncodePose(pose.Pose{TX: 1})
	want := []byte{0x00, 0x00, 0x80, 0x3f}
	if !bytes.Equal(buf[0:4], want) {
		t.Errorf("tx bytes = %x, want %x", buf[0:4], want)
	}
	for i := 4; i < PoseSize; i++ {
		if buf[i] != 0 {
			t.Fatalf("byte %d = %x, want 0", i, buf[i])
		}
	}

	// timestamped layout puts the f64 first, axes from offset 8
	tbuf := EncodeTimestamped(pose.Pose{TX: 1}.Stamp(1))
	// 1.0 as LE float64 is 00 00 00 00 00 00 f0 3f
	wantTS := []byte{0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0xf0, 0x3f}
	if !bytes.Equal(tbuf[0:8], wantTS) {
		t.Errorf("timestamp bytes = %x, want %x", tbuf[0:8], wantTS)
	}
	if !bytes.Equal(tbuf[8:12], want) {
		t.Errorf("tx bytes = %x, want %x", tbuf[8:12], want)
	}
}

func TestPutAtOffset(t *testing.T) {
	// batching region holding two timestamped records back to back,
	// with guard bytes around them
	region := make([]byte, 2+2*TimestampedSize+2)
	for i := range region {
		region[i] = 0xAA
	}

	first := pose.Pose{TX: 0.5}.Stamp(10)
	second := pose.Pose{TY: -0.5}.Stamp(20)
	if err := PutTimestamped(region, 2, first); err != nil {
		t.Fatalf("PutTimestamped() error = %v", err)
	}
	if err := PutTimestamped(region, 2+TimestampedSize, second); err != nil {
		t.Fatalf("PutTimestamped() error = %v", err)
	}

	for _, i := range []int{0, 1, len(region) - 2, len(region) - 1} {
		if region[i] != 0xAA {
			t.Errorf("guard byte %d overwritten: %x", i, region[i])
		}
	}

	got, err := DecodeTimestamped(region[2 : 2+TimestampedSize])
	if err != nil {
		t.Fatalf("DecodeTimestamped() error = %v", err)
	}
	if got.Timestamp != 10 {
		t.Errorf("first timestamp = %v, want 10", got.Timestamp)
	}

	if err := PutTimestamped(region, len(region)-8, pose.Timestamped{}); err == nil {
		t.Error("PutTimestamped() accepted an offset past the end")
	}
	if err := PutPose(make([]byte, 4), 0, pose.Pose{}); err == nil {
		t.Error("PutPose() accepted a short buffer")
	}
}

func TestDecodeDoesNotMutate(t *testing.T) {
	buf := EncodeTimestamped(pose.Pose{TX: 0.25, RZ: -0.5}.Stamp(99))
	orig := append([]byte(nil), buf...)

	if _, err := DecodeTimestamped(buf); err != nil {
		t.Fatalf("DecodeTimestamped() error = %v", err)
	}
	if !bytes.Equal(buf, orig) {
		t.Error("DecodeTimestamped() mutated its input")
	}
}

func assertPoseNear(t *testing.T, got, want pose.Pose) {
	t.Helper()
	axes := [][2]float64{
		{got.TX, want.TX}, {got.TY, want.TY}, {got.TZ, want.TZ},
		{got.RX, want.RX}, {got.RY, want.RY}, {got.RZ, want.RZ},
	}
	names := []string{"tx", "ty", "tz", "rx", "ry", "rz"}
	for i, ax := range axes {
		if math.Abs(ax[0]-ax[1]) > float32Tol {
			t.Errorf("%s = %v, want %v within %v", names[i], ax[0], ax[1], float32Tol)
		}
	}
}
