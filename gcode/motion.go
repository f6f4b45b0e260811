package gcode

// Motion identifies the supported motion commands.
type Motion byte

const (
	Rapid  Motion = iota // G00
	Linear               // G01
	ArcCW                // G02
	ArcCCW               // G03
)

func motionFor(g float64) (Motion, bool) {
	switch g {
	case 0:
		return Rapid, true
	case 1:
		return Linear, true
	case 2:
		return ArcCW, true
	case 3:
		return ArcCCW, true
	}
	return 0, false
}

func (m Motion) IsArc() bool     { return m == ArcCW || m == ArcCCW }
func (m Motion) Clockwise() bool { return m == ArcCW }

func (m Motion) String() string {
	switch m {
	case Rapid:
		return "G0"
	case Linear:
		return "G1"
	case ArcCW:
		return "G2"
	case ArcCCW:
		return "G3"
	}
	return "G?"
}

// Command is a single motion with the axes it specifies.
// Axes that are absent inherit their modal value.
type Command struct {
	Motion Motion
	Axes   Axes
}

// Block renders the command back into G-code words.
func (c Command) Block() Block {
	b := Block{{W: 'G', Arg: float64(c.Motion)}}
	for i := 0; i < len(axisLetters); i++ {
		if ok, v := c.Axes.Arg(axisLetters[i]); ok {
			b = append(b, Word{W: axisLetters[i], Arg: v})
		}
	}
	return b
}
