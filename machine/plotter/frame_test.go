package plotter

import (
	"math"
	"testing"

	"github.com/mastercactapus/polargraph/kinematics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeFrame(t *testing.T) {
	frame, err := EncodeFrame([]kinematics.Angles{
		{Alpha1: 10.5, Alpha2: 20.25},
		{Alpha1: 10.5, Alpha2: 20.25},
	})
	require.NoError(t, err)

	assert.Equal(t, []byte{
		0x0A, 0x80, 0x14, 0x40,
		0x0A, 0x80, 0x14, 0x40,
		0x15, 0x00, 0x28, 0x80,
	}, frame)
}

func TestEncodeFrame_Range(t *testing.T) {
	for _, deg := range []float64{-1, 256, math.NaN()} {
		_, err := EncodeFrame([]kinematics.Angles{{Alpha1: 10, Alpha2: deg}})
		assert.Equal(t, ErrAngleRange, err, "%g", deg)
	}

	_, err := EncodeFrame([]kinematics.Angles{{Alpha1: 255.99, Alpha2: 0}})
	assert.NoError(t, err)
}

func TestDecodeFrame(t *testing.T) {
	in := make([]kinematics.Angles, BurstSize)
	for i := range in {
		in[i] = kinematics.Angles{Alpha1: 255.99 - float64(i)*3.3, Alpha2: float64(i) * 7.7}
	}
	frame, err := EncodeFrame(in)
	require.NoError(t, err)
	require.Len(t, frame, 64)

	out, err := DecodeFrame(frame)
	require.NoError(t, err)
	require.Len(t, out, len(in))
	for i := range in {
		assert.InDelta(t, in[i].Alpha1, out[i].Alpha1, 0.5/255+1e-9)
		assert.InDelta(t, in[i].Alpha2, out[i].Alpha2, 0.5/255+1e-9)
	}
}

func TestDecodeFrame_Corrupt(t *testing.T) {
	frame, err := EncodeFrame([]kinematics.Angles{
		{Alpha1: 12.5, Alpha2: 100.1},
		{Alpha1: 13, Alpha2: 99.9},
		{Alpha1: 179.3, Alpha2: 0.2},
	})
	require.NoError(t, err)

	for i := range frame {
		bad := append([]byte(nil), frame...)
		bad[i] ^= 0x10
		_, err := DecodeFrame(bad)
		assert.Equal(t, ErrChecksum, err, "byte %d", i)
	}

	_, err = DecodeFrame(frame[:7])
	assert.Equal(t, ErrFrameSize, err)
}
