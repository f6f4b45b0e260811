package toolpath

import (
	"math"

	"github.com/mastercactapus/polargraph/coord"
)

// LinearizeArc approximates the arc from start to end around the center
// start+(i,j) with chords of at most step. Intermediate points come first
// and the exact end point is always last.
//
// The sweep always follows the commanded direction: clockwise arcs have a
// negative sweep, counter-clockwise a positive one.
func LinearizeArc(start, end coord.Point, i, j float64, clockwise bool, step float64) []coord.Point {
	r := math.Hypot(i, j)
	if r == 0 || step <= 0 {
		return []coord.Point{end}
	}

	dx, dy := end.X-start.X, end.Y-start.Y
	cosPhi := (-i*(dx-i) - j*(dy-j)) / (i*i + j*j)
	cosPhi = math.Max(-1, math.Min(1, cosPhi)) // round-off can push it past 1

	sgn := 1.0
	if i*dy-j*dx > 0 {
		sgn = -1
	}
	phi := sgn * math.Acos(cosPhi)

	switch {
	case phi == 0 && dx == 0 && dy == 0:
		// full circle
		phi = 2 * math.Pi
		if clockwise {
			phi = -phi
		}
	case clockwise && phi > 0:
		phi -= 2 * math.Pi
	case !clockwise && phi < 0:
		phi += 2 * math.Pi
	}

	gamma := math.Atan2(-j, -i)
	delta := step / r
	if clockwise {
		delta = -delta
	}
	stop := gamma + phi
	cx, cy := start.X+i, start.Y+j

	var res []coord.Point
	for k := 1; ; k++ {
		a := gamma + float64(k)*delta
		if clockwise && a <= stop || !clockwise && a >= stop {
			break
		}
		res = append(res, coord.Point{
			X: cx + math.Cos(a)*r,
			Y: cy + math.Sin(a)*r,
			Z: start.Z + (end.Z-start.Z)*(a-gamma)/phi,
		})
	}

	return append(res, end)
}
