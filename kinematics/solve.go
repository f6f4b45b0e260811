package kinematics

import (
	"errors"
	"fmt"
	"math"
)

// ErrUnreachable is returned when a point has no real solution for
// the configured geometry.
var ErrUnreachable = errors.New("point outside reachable region")

func sq(v float64) float64 { return v * v }

func invalid(v ...float64) bool {
	for _, f := range v {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return true
		}
	}
	return false
}

// Solve returns the arm angles that place the pen at workspace
// coordinate (x,y). Both angles are in [0, 180].
//
// The point is not clamped: anything outside the reachable region
// returns ErrUnreachable.
func (g Geometry) Solve(x, y float64) (Angles, error) {
	x += g.XMin
	y += g.YMin

	r2 := sq(x) + sq(y)
	ca1 := (x*(sq(g.R1)-sq(g.L1)+r2) +
		y*math.Sqrt((r2-sq(g.R1-g.L1))*(sq(g.R1+g.L1)-r2))) /
		(2 * g.R1 * r2)
	sa1 := math.Sqrt(1 - sq(ca1))

	u := g.D - x
	q2 := sq(u) + sq(y)
	ca2 := (y*math.Sqrt((sq(g.R2+g.L2)-q2)*(q2-sq(g.R2-g.L2))) +
		u*(q2+sq(g.R2)-sq(g.L2))) /
		(2 * g.R2 * q2)
	sa2 := math.Sqrt(1 - sq(ca2))

	if invalid(ca1, sa1, ca2, sa2) {
		return Angles{}, fmt.Errorf("solve (%g, %g): %w", x-g.XMin, y-g.YMin, ErrUnreachable)
	}

	return Angles{
		Alpha1: math.Atan2(sa1, ca1) / math.Pi * 180,
		Alpha2: math.Atan2(sa2, ca2) / math.Pi * 180,
	}, nil
}

// Forward returns the workspace coordinate of the pen for the given arm
// angles. Of the two string intersections the lower one (larger y) is used,
// as the pen hangs below the arms.
func (g Geometry) Forward(a Angles) (x, y float64, err error) {
	a1 := a.Alpha1 * math.Pi / 180
	a2 := a.Alpha2 * math.Pi / 180

	x1, y1 := g.R1*math.Cos(a1), -g.R1*math.Sin(a1)
	x2, y2 := g.D-g.R2*math.Cos(a2), -g.R2*math.Sin(a2)

	d := math.Hypot(x2-x1, y2-y1)
	along := (sq(g.L1) - sq(g.L2) + sq(d)) / (2 * d)
	h := math.Sqrt(sq(g.L1) - sq(along))
	if invalid(along, h) {
		return 0, 0, fmt.Errorf("forward %s: %w", a, ErrUnreachable)
	}

	mx := x1 + along*(x2-x1)/d
	my := y1 + along*(y2-y1)/d
	ox, oy := -h*(y2-y1)/d, h*(x2-x1)/d
	if oy < 0 {
		ox, oy = -ox, -oy
	}

	return mx + ox - g.XMin, my + oy - g.YMin, nil
}
