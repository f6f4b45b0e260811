package toolpath

import (
	"math"
	"testing"

	"github.com/mastercactapus/polargraph/coord"
	"github.com/stretchr/testify/assert"
)

func TestLinearizeArc_EndsExactly(t *testing.T) {
	tests := []struct {
		name      string
		start     coord.Point
		end       coord.Point
		i, j      float64
		clockwise bool
	}{
		{"cw quarter", coord.Point{X: 1, Y: 1}, coord.Point{X: 3, Y: 3}, 2, 0, true},
		{"ccw three quarters", coord.Point{X: 1, Y: 1}, coord.Point{X: 3, Y: 3}, 2, 0, false},
		{"cw large", coord.Point{X: 41.929227, Y: 40.753557}, coord.Point{X: 41.875004, Y: 39.429730}, -5.329085, -0.444750, true},
		{"ccw small", coord.Point{X: 41.959031, Y: 44.330170}, coord.Point{X: 41.714921, Y: 44.596500}, -0.924568, -0.602392, false},
		{"tiny radius", coord.Point{X: 0, Y: 0}, coord.Point{X: 0.002, Y: 0}, 0.001, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pts := LinearizeArc(tt.start, tt.end, tt.i, tt.j, tt.clockwise, 0.5)
			assert.NotEmpty(t, pts)
			assert.Equal(t, tt.end, pts[len(pts)-1])

			cx, cy := tt.start.X+tt.i, tt.start.Y+tt.j
			r := math.Hypot(tt.i, tt.j)
			for _, p := range pts[:len(pts)-1] {
				assert.InDelta(t, r, p.DistanceXY(cx, cy), 1e-9)
			}
		})
	}
}

func TestLinearizeArc_Direction(t *testing.T) {
	start := coord.Point{X: 1, Y: 1}
	end := coord.Point{X: 3, Y: 3}

	cw := LinearizeArc(start, end, 2, 0, true, 0.1)
	ccw := LinearizeArc(start, end, 2, 0, false, 0.1)

	// the ccw sweep covers three quarters of the circle, the cw one a quarter
	assert.InDelta(t, 3, float64(len(ccw))/float64(len(cw)), 0.2)
	for _, p := range cw[:len(cw)-1] {
		assert.True(t, p.Y >= 1 && p.X <= 3, "cw arc stays in the upper left quadrant: %v", p)
	}
	for _, p := range ccw[:len(ccw)-1] {
		assert.False(t, p.Y > 1 && p.X < 3, "ccw arc avoids the upper left quadrant: %v", p)
	}
}

func TestLinearizeArc_FullCircle(t *testing.T) {
	start := coord.Point{X: 0, Y: 0}
	pts := LinearizeArc(start, start, 1, 0, false, 0.1)

	assert.Greater(t, len(pts), 60)
	assert.Equal(t, start, pts[len(pts)-1])
}

func TestLinearizeArc_Degenerate(t *testing.T) {
	end := coord.Point{X: 1, Y: 1}
	assert.Equal(t, []coord.Point{end}, LinearizeArc(coord.Point{}, end, 0, 0, true, 1))
}

func TestLinearizeArc_Helical(t *testing.T) {
	pts := LinearizeArc(coord.Point{X: 1, Y: 1, Z: 0}, coord.Point{X: 3, Y: 3, Z: 1}, 2, 0, true, 0.5)
	for i := 1; i < len(pts); i++ {
		assert.Greater(t, pts[i].Z, pts[i-1].Z)
	}
}

func TestLinearizeLine(t *testing.T) {
	start := coord.Point{}
	tests := []struct {
		end   coord.Point
		step  float64
		count int
	}{
		{coord.Point{X: 10}, 3, 3},
		{coord.Point{X: 3, Y: 4}, 2, 2},
		{coord.Point{X: 1}, 2, 0},
		{coord.Point{X: -7, Y: 0.5}, 0.7, int(math.Floor(math.Hypot(7, 0.5) / 0.7))},
	}

	for _, tt := range tests {
		pts := LinearizeLine(start, tt.end, tt.step)
		assert.Len(t, pts, tt.count+1)
		assert.Equal(t, tt.end, pts[len(pts)-1])
		for i, p := range pts[:len(pts)-1] {
			assert.InDelta(t, float64(i+1)*tt.step, p.DistanceXY(0, 0), 1e-9)
		}
	}
}
