package toolpath

import (
	"github.com/mastercactapus/polargraph/coord"
)

// LinearizeLine splits the move from start to end into points no
// farther than step apart. The last point is always end.
func LinearizeLine(start, end coord.Point, step float64) []coord.Point {
	dist := start.DistanceXY(end.X, end.Y)
	if step <= 0 || dist <= step {
		return []coord.Point{end}
	}

	res := make([]coord.Point, 0, int(dist/step)+1)
	for k := 1; float64(k)*step < dist; k++ {
		res = append(res, start.Lerp(end, float64(k)*step/dist))
	}

	return append(res, end)
}
