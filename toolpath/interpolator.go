package toolpath

import (
	"io"

	"github.com/mastercactapus/polargraph/coord"
	"github.com/mastercactapus/polargraph/gcode"
)

// Config controls how densely motion is sampled.
type Config struct {
	// MaxPointDistance is the largest step between consecutive
	// interpolated points (the chord length for arcs).
	MaxPointDistance float64 `toml:"max_point_distance"`

	// LinearThreshold is the length below which a G01 move is emitted
	// as a single point. Zero means MaxPointDistance.
	LinearThreshold float64 `toml:"linear_threshold"`

	// IncludeZ keeps the Z axis in emitted points. When false every
	// point has Z == 0.
	IncludeZ bool `toml:"include_z"`
}

func (cfg Config) threshold() float64 {
	if cfg.LinearThreshold > 0 {
		return cfg.LinearThreshold
	}
	return cfg.MaxPointDistance
}

func (cfg Config) project(p coord.Point) coord.Point {
	if cfg.IncludeZ {
		return p
	}
	return p.XY()
}

// Step advances the interpreter by one command. It returns the new
// state and the points the command produced, in order.
func Step(s gcode.ModalState, cmd gcode.Command, cfg Config) (gcode.ModalState, []coord.Point) {
	next := s.Merge(cmd.Axes)
	if !s.Positioned() {
		if !next.Positioned() {
			// z-only or partial moves before the first X/Y are dropped
			return next, nil
		}
		return next, []coord.Point{cfg.project(next.Point())}
	}

	cur, target := s.Point(), next.Point()
	if !cmd.Axes.Has('X') && !cmd.Axes.Has('Y') {
		if cfg.IncludeZ && cur.Z != target.Z {
			return next, []coord.Point{target}
		}
		return next, nil
	}

	var pts []coord.Point
	switch {
	case cmd.Motion == gcode.Rapid:
		pts = []coord.Point{target}
	case cmd.Motion == gcode.Linear:
		if cur.DistanceXY(target.X, target.Y) <= cfg.threshold() {
			pts = []coord.Point{target}
		} else {
			pts = LinearizeLine(cur, target, cfg.MaxPointDistance)
		}
	case cmd.Motion.IsArc():
		_, i := cmd.Axes.Arg('I')
		_, j := cmd.Axes.Arg('J')
		pts = LinearizeArc(cur, target, i, j, cmd.Motion.Clockwise(), cfg.MaxPointDistance)
	}

	if !cfg.IncludeZ {
		for n := range pts {
			pts[n].Z = 0
		}
	}
	return next, pts
}

// Interpolator turns a stream of G-code blocks into a stream of
// toolpath points with consecutive duplicates removed.
type Interpolator struct {
	cfg Config

	state gcode.ModalState

	buf  []coord.Point
	bufN int

	last    coord.Point
	hasLast bool

	gr gcode.Reader
}

func New(r gcode.Reader, cfg Config) *Interpolator {
	return &Interpolator{
		cfg: cfg,
		gr:  r,
	}
}

// State returns the modal state after the last consumed block.
func (ip *Interpolator) State() gcode.ModalState { return ip.state }

// Read returns the next toolpath point, or io.EOF at the end of the program.
func (ip *Interpolator) Read() (coord.Point, error) {
	for {
		p, err := ip.next()
		if err != nil {
			return coord.Point{}, err
		}
		if ip.hasLast && ip.last.Equal(p) {
			continue
		}
		ip.last = p
		ip.hasLast = true
		return p, nil
	}
}

func (ip *Interpolator) next() (coord.Point, error) {
	for len(ip.buf)-ip.bufN == 0 {
		b, err := ip.gr.Read()
		if err != nil {
			return coord.Point{}, err
		}
		cmd, ok := b.Command()
		if !ok {
			continue
		}

		ip.state, ip.buf = Step(ip.state, cmd, ip.cfg)
		ip.bufN = 0
	}

	ip.bufN++
	return ip.buf[ip.bufN-1], nil
}

// Generate runs the whole program and returns the toolpath.
func Generate(r gcode.Reader, cfg Config) ([]coord.Point, error) {
	ip := New(r, cfg)
	var res []coord.Point
	for {
		p, err := ip.Read()
		if err == io.EOF {
			return res, nil
		}
		if err != nil {
			return nil, err
		}
		res = append(res, p)
	}
}

// Dedupe collapses runs of identical consecutive points.
func Dedupe(points []coord.Point) []coord.Point {
	if len(points) == 0 {
		return points
	}
	res := make([]coord.Point, 1, len(points))
	res[0] = points[0]
	for _, p := range points[1:] {
		if p.Equal(res[len(res)-1]) {
			continue
		}
		res = append(res, p)
	}
	return res
}
