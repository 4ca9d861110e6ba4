// Package wire implements the fixed-size binary pose codec.
//
// Two layouts share one format family. The plain layout is 24 bytes:
// six little-endian IEEE-754 float32 axes ordered tx, ty, tz, rx, ry,
// rz at offsets 0, 4, 8, 12, 16, 20. The timestamped layout is 32
// bytes: a little-endian float64 send timestamp at offset 0 followed
// by the same six float32 axes at offsets 8..28.
//
// Axes are narrowed from float64 to float32 on encode, so round-trips
// are exact only to float32 precision. The timestamp is carried at
// full float64 width and round-trips losslessly.
package wire

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/poselink/poselink/pkg/pose"
)

// Encoded sizes in bytes.
const (
	PoseSize        = 24
	TimestampedSize = 32
)

// InvalidLengthError is returned when a decode buffer is not exactly
// the layout's fixed size. Truncated buffers are never partially
// decoded.
type InvalidLengthError struct {
	Expected int
	Actual   int
}

func (e *InvalidLengthError) Error() string {
	return fmt.Sprintf("wire: invalid buffer length: expected %d bytes, got %d", e.Expected, e.Actual)
}

// PutPose encodes p into buf at byte offset off using the 24-byte
// layout. It writes nothing outside [off, off+PoseSize) and returns
// an InvalidLengthError when the buffer cannot hold the record.
func PutPose(buf []byte, off int, p pose.Pose) error {
	if off < 0 || len(buf)-off < PoseSize {
		return &InvalidLengthError{Expected: PoseSize, Actual: len(buf) - off}
	}
	putAxes(buf[off:], p)
	return nil
}

// EncodePose returns a freshly allocated 24-byte encoding of p.
func EncodePose(p pose.Pose) []byte {
	buf := make([]byte, PoseSize)
	putAxes(buf, p)
	return buf
}

// DecodePose decodes a 24-byte buffer. The input is never mutated.
func DecodePose(buf []byte) (pose.Pose, error) {
	if len(buf) != PoseSize {
		return pose.Pose{}, &InvalidLengthError{Expected: PoseSize, Actual: len(buf)}
	}
	return getAxes(buf), nil
}

// PutTimestamped encodes tp into buf at byte offset off using the
// 32-byte layout, timestamp first.
func PutTimestamped(buf []byte, off int, tp pose.Timestamped) error {
	if off < 0 || len(buf)-off < TimestampedSize {
		return &InvalidLengthError{Expected: TimestampedSize, Actual: len(buf) - off}
	}
	binary.LittleEndian.PutUint64(buf[off:], math.Float64bits(tp.Timestamp))
	putAxes(buf[off+8:], tp.Pose)
	return nil
}

// EncodeTimestamped returns a freshly allocated 32-byte encoding of tp.
func EncodeTimestamped(tp pose.Timestamped) []byte {
	buf := make([]byte, TimestampedSize)
	binary.LittleEndian.PutUint64(buf, math.Float64bits(tp.Timestamp))
	putAxes(buf[8:], tp.Pose)
	return buf
}

// DecodeTimestamped decodes a 32-byte buffer. The input is never
// mutated.
func DecodeTimestamped(buf []byte) (pose.Timestamped, error) {
	if len(buf) != TimestampedSize {
		return pose.Timestamped{}, &InvalidLengthError{Expected: TimestampedSize, Actual: len(buf)}
	}
	ts := math.Float64frombits(binary.LittleEndian.Uint64(buf))
	return pose.Timestamped{Pose: getAxes(buf[8:]), Timestamp: ts}, nil
}

func putAxes(buf []byte, p pose.Pose) {
	axes := [6]float64{p.TX, p.TY, p.TZ, p.RX, p.RY, p.RZ}
	for i, v := range axes {
		binary.LittleEndian.PutUint32(buf[4*i:], math.Float32bits(float32(v)))
	}
}

func getAxes(buf []byte) pose.Pose {
	var axes [6]float64
	for i := range axes {
		axes[i] = float64(math.Float32frombits(binary.LittleEndian.Uint32(buf[4*i:])))
	}
	return pose.Pose{TX: axes[0], TY: axes[1], TZ: axes[2], RX: axes[3], RY: axes[4], RZ: axes[5]}
}
