package machine

import (
	"github.com/mastercactapus/polargraph/coord"
)

// drawnBuffer bounds the number of drawn points held for a slow consumer.
const drawnBuffer = 1024

type Machine struct {
	Adapter

	drawn chan coord.Point
}

func NewMachine(a Adapter) *Machine {
	return &Machine{
		Adapter: a,
		drawn:   make(chan coord.Point, drawnBuffer),
	}
}

// Drawn returns a channel receiving every point after the plotter
// reached it. Points are dropped when nobody keeps up.
func (m *Machine) Drawn() <-chan coord.Point {
	return m.drawn
}

func (m *Machine) report(points ...coord.Point) {
	for _, p := range points {
		select {
		case m.drawn <- p:
		default:
		}
	}
}
