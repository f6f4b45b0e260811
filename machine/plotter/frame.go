package plotter

import (
	"encoding/binary"
	"errors"
	"math"

	"github.com/mastercactapus/polargraph/kinematics"
)

// BurstSize is the most points a single burst frame may carry.
// 15 points * 4 bytes + 4 byte checksum fills the 64 byte serial
// buffer of the controller.
const BurstSize = 15

var (
	// ErrAngleRange is returned when an angle cannot be encoded in a frame.
	ErrAngleRange = errors.New("angle outside frame range [0, 256)")

	// ErrChecksum is returned by DecodeFrame when the trailing checksum does not match.
	ErrChecksum = errors.New("frame checksum mismatch")

	ErrFrameSize = errors.New("invalid frame size")
)

// encodeAngle splits deg into whole degrees and 1/255ths of a degree.
func encodeAngle(deg float64) (uint16, error) {
	if math.IsNaN(deg) || deg < 0 || deg >= 256 {
		return 0, ErrAngleRange
	}
	whole, frac := math.Modf(deg)
	return uint16(whole)<<8 | uint16(int(frac*255+.5)), nil
}

func decodeAngle(v uint16) float64 {
	return float64(v>>8) + float64(v&0xff)/255.0
}

// FrameLen returns the byte length of a frame carrying n points.
func FrameLen(n int) int { return n*4 + 4 }

// EncodeFrame serializes angle pairs for a burst. Each pair is followed
// by the next; a big-endian 32-bit checksum closes the frame.
//
// The checksum is the sum of every pair read as a big-endian uint32,
// i.e. alpha1*0x10000 + alpha2, modulo 2^32.
func EncodeFrame(angles []kinematics.Angles) ([]byte, error) {
	buf := make([]byte, FrameLen(len(angles)))
	for i, a := range angles {
		a1, err := encodeAngle(a.Alpha1)
		if err != nil {
			return nil, err
		}
		a2, err := encodeAngle(a.Alpha2)
		if err != nil {
			return nil, err
		}
		binary.BigEndian.PutUint16(buf[i*4:], a1)
		binary.BigEndian.PutUint16(buf[i*4+2:], a2)
	}
	n := len(angles) * 4
	binary.BigEndian.PutUint32(buf[n:], Checksum(buf[:n]))

	return buf, nil
}

// Checksum computes the checksum over the point bytes of a frame
// (everything except the trailing 4 bytes).
func Checksum(points []byte) uint32 {
	var sum uint32
	for i := 0; i+4 <= len(points); i += 4 {
		sum += binary.BigEndian.Uint32(points[i:])
	}
	return sum
}

// DecodeFrame verifies the checksum of a frame and returns its angles.
func DecodeFrame(frame []byte) ([]kinematics.Angles, error) {
	if len(frame) < 4 || len(frame)%4 != 0 {
		return nil, ErrFrameSize
	}
	n := len(frame)/4 - 1
	if Checksum(frame[:n*4]) != binary.BigEndian.Uint32(frame[n*4:]) {
		return nil, ErrChecksum
	}

	res := make([]kinematics.Angles, n)
	for i := range res {
		res[i].Alpha1 = decodeAngle(binary.BigEndian.Uint16(frame[i*4:]))
		res[i].Alpha2 = decodeAngle(binary.BigEndian.Uint16(frame[i*4+2:]))
	}
	return res, nil
}
