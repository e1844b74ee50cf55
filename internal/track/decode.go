// Package track receives head-pose samples from an opentrack-compatible UDP
// sensor stream and hands validated samples to the classification pipeline.
package track

import (
	"encoding/binary"
	"errors"
	"math"

	"github.com/ayusman/headtilt/internal/gesture"
)

// PacketSize is the fixed opentrack UDP datagram size: six consecutive
// little-endian IEEE-754 64-bit floats in order x, y, z, yaw, pitch, roll.
const PacketSize = 48

// ErrBadLength is returned for datagrams that are not exactly PacketSize bytes.
var ErrBadLength = errors.New("track: datagram is not 48 bytes")

// ErrNaN is returned when a decoded field is NaN or infinite.
var ErrNaN = errors.New("track: datagram contains a non-finite value")

// Decode parses one datagram into a Pose. Malformed input never reaches the
// classifier: length and NaN validation happen here.
func Decode(buf []byte) (gesture.Pose, error) {
	if len(buf) != PacketSize {
		return gesture.Pose{}, ErrBadLength
	}

	var fields [6]float64
	for i := range fields {
		bits := binary.LittleEndian.Uint64(buf[i*8 : i*8+8])
		fields[i] = math.Float64frombits(bits)
	}

	pose := gesture.Pose{
		X:     fields[0],
		Y:     fields[1],
		Z:     fields[2],
		Yaw:   fields[3],
		Pitch: fields[4],
		Roll:  fields[5],
	}
	if !pose.Valid() {
		return gesture.Pose{}, ErrNaN
	}
	return pose, nil
}

// Encode serialises a pose into the opentrack wire format. Used by tests;
// the daemon itself only decodes.
func Encode(p gesture.Pose) []byte {
	buf := make([]byte, PacketSize)
	for i, f := range [6]float64{p.X, p.Y, p.Z, p.Yaw, p.Pitch, p.Roll} {
		binary.LittleEndian.PutUint64(buf[i*8:i*8+8], math.Float64bits(f))
	}
	return buf
}
