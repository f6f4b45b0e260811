package machine

import (
	"github.com/mastercactapus/polargraph/coord"
	"github.com/mastercactapus/polargraph/kinematics"
	"github.com/mastercactapus/polargraph/machine/plotter"
)

// An Adapter represents the minimal plotter interface.
type Adapter interface {
	Geometry() kinematics.Geometry
	Angles() kinematics.Angles

	MoveToXY(x, y float64) (kinematics.Angles, error)
	Burst([]coord.Point) error

	SetSpeed(rpm int) error
	PenUp() error
	PenDown() error
}

var _ Adapter = &plotter.Conn{}
