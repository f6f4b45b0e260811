package gcode

import (
	"github.com/mastercactapus/polargraph/coord"
)

// ModalState holds the last-known value of every axis.
//
// It is a value type: Merge returns a new snapshot and leaves
// the receiver untouched.
type ModalState struct {
	axes Axes
}

// Merge applies the axes of a command on top of the current state.
func (s ModalState) Merge(a Axes) ModalState {
	s.axes = s.axes.Merge(a)
	return s
}

// Positioned reports whether both X and Y have been seen.
func (s ModalState) Positioned() bool {
	return s.axes.Has('X') && s.axes.Has('Y')
}

func (s ModalState) Axes() Axes { return s.axes }

// Point returns the current position. Axes never seen read as 0.
func (s ModalState) Point() coord.Point {
	_, x := s.axes.Arg('X')
	_, y := s.axes.Arg('Y')
	_, z := s.axes.Arg('Z')
	return coord.Point{X: x, Y: y, Z: z}
}
