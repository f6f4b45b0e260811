package machine

import (
	"context"
	"io"
	"log"

	"github.com/mastercactapus/polargraph/coord"
	"github.com/mastercactapus/polargraph/gcode"
	"github.com/mastercactapus/polargraph/machine/plotter"
	"github.com/mastercactapus/polargraph/toolpath"
)

// DrawOptions configure a drawing run.
type DrawOptions struct {
	// Speed in rpm, set before the first point. Zero keeps the current speed.
	Speed int

	// Burst sends points in frames of plotter.BurstSize instead of one
	// move command per point.
	Burst bool

	// PenFromZ lowers the pen for points with Z < 0 and raises it
	// otherwise. Requires a toolpath generated with IncludeZ.
	PenFromZ bool
}

func penDown(p coord.Point) bool { return p.Z < 0 }

// Draw moves the pen through path in order. The context is checked
// between points, or between bursts; a move already sent always completes.
func (m *Machine) Draw(ctx context.Context, path []coord.Point, opt DrawOptions) (err error) {
	if opt.Speed > 0 {
		err = m.SetSpeed(opt.Speed)
		if err != nil {
			return err
		}
	}

	if !opt.PenFromZ {
		return m.drawSegment(ctx, path, opt.Burst)
	}

	defer func() {
		e := m.PenUp()
		if e != nil {
			log.Println("ERROR: pen up:", e)
			if err == nil {
				err = e
			}
		}
	}()
	for len(path) > 0 {
		n := 1
		for n < len(path) && penDown(path[n]) == penDown(path[0]) {
			n++
		}

		if penDown(path[0]) {
			err = m.PenDown()
		} else {
			err = m.PenUp()
		}
		if err != nil {
			return err
		}

		err = m.drawSegment(ctx, path[:n], opt.Burst)
		if err != nil {
			return err
		}
		path = path[n:]
	}

	return nil
}

func (m *Machine) drawSegment(ctx context.Context, path []coord.Point, burst bool) error {
	size := 1
	if burst {
		size = plotter.BurstSize
	}

	for len(path) > 0 {
		if err := ctx.Err(); err != nil {
			return err
		}

		n := size
		if n > len(path) {
			n = len(path)
		}

		var err error
		if burst {
			err = m.Burst(path[:n])
		} else {
			_, err = m.MoveToXY(path[0].X, path[0].Y)
		}
		if err != nil {
			return err
		}

		m.report(path[:n]...)
		path = path[n:]
	}

	return nil
}

// DrawGCode interpolates the program read from r and draws it. Z is kept
// in the toolpath whenever the pen follows it.
func (m *Machine) DrawGCode(ctx context.Context, r io.Reader, cfg toolpath.Config, opt DrawOptions) error {
	if opt.PenFromZ {
		cfg.IncludeZ = true
	}
	path, err := toolpath.Generate(gcode.NewParser(r), cfg)
	if err != nil {
		return err
	}

	log.Printf("drawing %d points", len(path))
	return m.Draw(ctx, path, opt)
}
