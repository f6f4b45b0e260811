package gcode

import (
	"strings"
)

type Block []Word

func (b Block) Arg(w byte) (bool, float64) {
	for _, g := range b {
		if g.W == w {
			return true, g.Arg
		}
	}
	return false, 0
}
// Axes collects the recognized axis words of the block.
func (b Block) Axes() Axes {
	var a Axes
	for _, g := range b {
		if g.IsAxis() {
			a = a.With(g.W, g.Arg)
		}
	}
	return a
}

// Command returns the motion command carried by the block.
//
// Blocks that are not G00-G03 report false.
func (b Block) Command() (Command, bool) {
	if len(b) == 0 || b[0].W != 'G' {
		return Command{}, false
	}
	m, ok := motionFor(b[0].Arg)
	if !ok {
		return Command{}, false
	}

	return Command{Motion: m, Axes: b.Axes()}, true
}

func (b Block) String() string {
	var sb strings.Builder
	for _, g := range b {
		sb.WriteString(g.String())
	}
	return sb.String()
}
