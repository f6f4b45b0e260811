// Package kinematics maps workspace coordinates of a two-arm string
// plotter to the angles of its drive arms.
//
// Arm 1 pivots at the origin, arm 2 at (D, 0). A string of length L1/L2
// runs from the tip of each arm to the pen. Workspace coordinates are
// offset by (XMin, YMin) from the left pivot, with Y growing downward
// (away from the arms).
package kinematics

import (
	"errors"
	"fmt"
)

// Geometry is the physical layout of the plotter in millimeters.
type Geometry struct {
	R1 float64 `toml:"r1"` // left arm length
	R2 float64 `toml:"r2"` // right arm length
	L1 float64 `toml:"l1"` // left string length
	L2 float64 `toml:"l2"` // right string length
	D  float64 `toml:"d"`  // distance between the arm axles

	XMin float64 `toml:"x_min"`
	YMin float64 `toml:"y_min"`

	Width  float64 `toml:"width"`
	Height float64 `toml:"height"`
}

// Angles are the arm angles in degrees.
type Angles struct {
	Alpha1 float64 `json:"alpha1"`
	Alpha2 float64 `json:"alpha2"`
}

func (a Angles) String() string {
	return fmt.Sprintf("l%g r%g", a.Alpha1, a.Alpha2)
}

// DefaultGeometry returns the dimensions of the reference machine:
// lego arms on metal wheels, 80x80mm drawing area centered between the axles.
func DefaultGeometry() Geometry {
	const (
		armLength = 99.625 - 3*7.97 // last hole minus three hole spacings
		axles     = 258.7
		width     = 80
	)
	return Geometry{
		R1: armLength,
		R2: armLength,
		L1: 159,
		L2: 159,
		D:  axles,

		XMin: (axles - width) / 2.0,
		YMin: 15,

		Width:  width,
		Height: 80,
	}
}

func (g Geometry) Validate() error {
	switch {
	case g.R1 <= 0 || g.R2 <= 0:
		return errors.New("arm lengths must be positive")
	case g.L1 <= 0 || g.L2 <= 0:
		return errors.New("string lengths must be positive")
	case g.D <= 0:
		return errors.New("axle distance must be positive")
	case g.Width <= 0 || g.Height <= 0:
		return errors.New("workspace size must be positive")
	}
	return nil
}

// Contains reports whether (x,y) lies inside the configured drawing area.
func (g Geometry) Contains(x, y float64) bool {
	return x >= 0 && x <= g.Width && y >= 0 && y <= g.Height
}
