package gcode

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParse(t *testing.T) {
	text := "(Header)\n" +
		"M3\n" +
		"(Header end.)\n" +
		"G21 (All units in mm)\n" +
		"\n" +
		"g00 Z5.000000\n" +
		"G00 X32.758016 Y69.299180\r\n" +
		"  G01 X1 Y1\n" +
		"G01 Z-0.125000 F100.0(Penetrate)\n" +
		"g03 X29.636206 y68.702469 Z-0.125000 I4.877502 J-33.982124 F400.000000\n" +
		"G1X10Y-5 ; compact\n" +
		"G03 X25.484210 y67.556340 Z-0.125000 I14.691402 J-61.315086"

	blocks, err := Parse(text)
	assert.NoError(t, err)
	assert.Equal(t, []Block{
		{{W: 'G', Arg: 21}},
		{{W: 'G', Arg: 0}, {W: 'Z', Arg: 5}},
		{{W: 'G', Arg: 0}, {W: 'X', Arg: 32.758016}, {W: 'Y', Arg: 69.299180}},
		{{W: 'G', Arg: 1}, {W: 'Z', Arg: -0.125}, {W: 'F', Arg: 100}},
		{{W: 'G', Arg: 3}, {W: 'X', Arg: 29.636206}, {W: 'Y', Arg: 68.702469}, {W: 'Z', Arg: -0.125}, {W: 'I', Arg: 4.877502}, {W: 'J', Arg: -33.982124}, {W: 'F', Arg: 400}},
		{{W: 'G', Arg: 1}, {W: 'X', Arg: 10}, {W: 'Y', Arg: -5}},
		{{W: 'G', Arg: 3}, {W: 'X', Arg: 25.48421}, {W: 'Y', Arg: 67.55634}, {W: 'Z', Arg: -0.125}, {W: 'I', Arg: 14.691402}, {W: 'J', Arg: -61.315086}},
	}, blocks)
}

func TestParse_MalformedWord(t *testing.T) {
	blocks, err := Parse("G01 X1.0.2 Y3\nG01 X4 Y5\n")
	assert.NoError(t, err)
	assert.Equal(t, []Block{
		{{W: 'G', Arg: 1}},
		{{W: 'G', Arg: 1}, {W: 'X', Arg: 4}, {W: 'Y', Arg: 5}},
	}, blocks)

	cmd, ok := blocks[0].Command()
	assert.True(t, ok)
	assert.True(t, cmd.Axes.Empty())
}

func TestParse_BadCommandWord(t *testing.T) {
	blocks, err := Parse("GX1\nG0 X1 Y1\n")
	assert.NoError(t, err)
	assert.Len(t, blocks, 1)
	assert.Equal(t, "G0X1Y1", blocks[0].String())
}

func TestParse_Exponent(t *testing.T) {
	blocks, err := Parse("G1 X1.5E1 Y2\ng1 x2.5e-1y1E+2\nG1X1E1Y3\n")
	assert.NoError(t, err)
	assert.Equal(t, []Block{
		{{W: 'G', Arg: 1}, {W: 'X', Arg: 15}, {W: 'Y', Arg: 2}},
		{{W: 'G', Arg: 1}, {W: 'X', Arg: 0.25}, {W: 'Y', Arg: 100}},
		{{W: 'G', Arg: 1}, {W: 'X', Arg: 10}, {W: 'Y', Arg: 3}},
	}, blocks)

	// a separate E word is still its own word
	blocks, err = Parse("G1 X10 E5\n")
	assert.NoError(t, err)
	assert.Equal(t, []Block{{{W: 'G', Arg: 1}, {W: 'X', Arg: 10}, {W: 'E', Arg: 5}}}, blocks)
}

func TestMustParse(t *testing.T) {
	assert.NotPanics(t, func() { MustParse("G0 X1") })
	assert.Len(t, MustParse("G0 X1\nG0 Y1"), 2)
}
