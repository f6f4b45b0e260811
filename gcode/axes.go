package gcode

import "math/bits"

// axisLetters are the axis words tracked by the interpreter, in storage order.
const axisLetters = "XYZIJ"

func axisIndex(w byte) int {
	switch w {
	case 'X':
		return 0
	case 'Y':
		return 1
	case 'Z':
		return 2
	case 'I':
		return 3
	case 'J':
		return 4
	}
	return -1
}

// Axes is a partial set of axis values. The zero value has no axes set.
type Axes struct {
	val [len(axisLetters)]float64
	set uint8
}

// Arg returns the value for axis w, if set.
func (a Axes) Arg(w byte) (bool, float64) {
	i := axisIndex(w)
	if i < 0 || a.set&(1<<i) == 0 {
		return false, 0
	}
	return true, a.val[i]
}

func (a Axes) Has(w byte) bool {
	ok, _ := a.Arg(w)
	return ok
}

// With returns a copy of a with axis w set to val. Unknown letters are ignored.
func (a Axes) With(w byte, val float64) Axes {
	i := axisIndex(w)
	if i < 0 {
		return a
	}
	a.val[i] = val
	a.set |= 1 << i
	return a
}

// Merge overlays every axis set in o on top of a.
func (a Axes) Merge(o Axes) Axes {
	for i := range o.val {
		if o.set&(1<<i) != 0 {
			a.val[i] = o.val[i]
			a.set |= 1 << i
		}
	}
	return a
}

func (a Axes) Empty() bool { return a.set == 0 }
func (a Axes) Len() int    { return bits.OnesCount8(a.set) }

func (a Axes) String() string {
	var b Block
	for i := 0; i < len(axisLetters); i++ {
		if ok, v := a.Arg(axisLetters[i]); ok {
			b = append(b, Word{W: axisLetters[i], Arg: v})
		}
	}
	return b.String()
}
