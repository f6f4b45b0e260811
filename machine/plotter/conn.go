package plotter

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log"
	"strconv"
	"strings"
	"sync"

	"github.com/mastercactapus/polargraph/coord"
	"github.com/mastercactapus/polargraph/kinematics"
)

var (
	// ErrBurstCapacity is returned when more than BurstSize points are
	// passed to Burst. Nothing is written to the link.
	ErrBurstCapacity = errors.New("burst exceeds frame capacity")

	// ErrBurstNotAcknowledged is returned when the controller rejected
	// every attempt at sending a burst frame.
	ErrBurstNotAcknowledged = errors.New("burst not acknowledged")
)

// Config holds the fixed parameters of a Conn.
type Config struct {
	Geometry kinematics.Geometry

	// BurstAttempts bounds how many times a burst frame is sent before
	// giving up. Zero or less retries forever.
	BurstAttempts int
}

// Conn is a half-duplex connection to the plotter firmware. Every
// request waits for its reply before the next one is sent.
type Conn struct {
	rw io.ReadWriter
	br *bufio.Reader

	geom     kinematics.Geometry
	attempts int

	mx sync.Mutex

	aMx    sync.RWMutex
	angles kinematics.Angles
}

// NewConn creates a new Conn using the provided ReadWriter for data.
func NewConn(rw io.ReadWriter, cfg Config) *Conn {
	return &Conn{
		rw:       rw,
		br:       bufio.NewReader(rw),
		geom:     cfg.Geometry,
		attempts: cfg.BurstAttempts,
	}
}

// Close will close the underlying ReadWriter, if it implements io.Closer.
func (c *Conn) Close() error {
	if closer, ok := c.rw.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

// Geometry returns the machine geometry used to solve targets.
func (c *Conn) Geometry() kinematics.Geometry { return c.geom }

// Angles returns the last joint angles reported by the controller.
func (c *Conn) Angles() kinematics.Angles {
	c.aMx.RLock()
	defer c.aMx.RUnlock()
	return c.angles
}

func (c *Conn) setAngles(a kinematics.Angles) {
	c.aMx.Lock()
	c.angles = a
	c.aMx.Unlock()
}

func (c *Conn) readLine() (string, error) {
	line, err := c.br.ReadString('\n')
	if err != nil {
		return "", &LinkError{Op: "read", Err: err}
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func (c *Conn) write(p []byte) error {
	_, err := c.rw.Write(p)
	if err != nil {
		return &LinkError{Op: "write", Err: err}
	}
	return nil
}

// exchange sends a single command line and returns the reply line.
// The caller must hold mx.
func (c *Conn) exchange(cmd string) (string, error) {
	err := c.write([]byte(cmd + "\n"))
	if err != nil {
		return "", err
	}
	return c.readLine()
}

// Init waits for the startup banner and then loads the current angles.
func (c *Conn) Init() error {
	c.mx.Lock()
	banner, err := c.readLine()
	c.mx.Unlock()
	if err != nil {
		return err
	}
	log.Println("plotter:", banner)

	_, err = c.CurrentAngles()
	return err
}

// Command sends a raw command line and returns the reply unmodified.
func (c *Conn) Command(cmd string) (string, error) {
	c.mx.Lock()
	defer c.mx.Unlock()
	return c.exchange(cmd)
}

func (c *Conn) anglesCommand(cmd string) (kinematics.Angles, error) {
	resp, err := c.Command(cmd)
	if err != nil {
		return kinematics.Angles{}, err
	}
	a, err := parseAngles(resp)
	if err != nil {
		return a, err
	}
	c.setAngles(a)
	return a, nil
}

// MoveTo moves both arms to the absolute angles and returns the angles
// the controller actually reached.
func (c *Conn) MoveTo(a kinematics.Angles) (kinematics.Angles, error) {
	return c.anglesCommand("moveto l" + formatFloat(a.Alpha1) + " r" + formatFloat(a.Alpha2))
}

// MoveBy moves both arms relative to their current angles.
func (c *Conn) MoveBy(d kinematics.Angles) (kinematics.Angles, error) {
	return c.anglesCommand("moveby l" + formatFloat(d.Alpha1) + " r" + formatFloat(d.Alpha2))
}

// MoveToXY solves (x, y) and moves there. Nothing is sent if the point
// is unreachable.
func (c *Conn) MoveToXY(x, y float64) (kinematics.Angles, error) {
	a, err := c.geom.Solve(x, y)
	if err != nil {
		return kinematics.Angles{}, err
	}
	return c.MoveTo(a)
}

// ResetHead moves both arms back to 0 degrees.
func (c *Conn) ResetHead() (kinematics.Angles, error) {
	return c.MoveTo(kinematics.Angles{})
}

// AutoCalibrate runs the limit switch calibration routine.
func (c *Conn) AutoCalibrate() (kinematics.Angles, error) {
	return c.anglesCommand("autocal")
}

// SaveAngles persists the current angles on the controller.
func (c *Conn) SaveAngles() (kinematics.Angles, error) {
	return c.anglesCommand("saveangles")
}

func (c *Conn) CurrentAngles() (kinematics.Angles, error) {
	return c.anglesCommand("getcurrangles")
}

// SetSpeed sets the stepper speed in rpm.
func (c *Conn) SetSpeed(rpm int) error {
	_, err := c.Command("setspeed " + strconv.Itoa(rpm))
	return err
}

func (c *Conn) PenUp() error {
	_, err := c.Command("penup")
	return err
}

func (c *Conn) PenDown() error {
	_, err := c.Command("pendown")
	return err
}

// PenSet moves the pen servo to an explicit angle.
func (c *Conn) PenSet(deg int) error {
	_, err := c.Command("penset a" + strconv.Itoa(deg))
	return err
}

// ZeroAngles declares the current arm position as 0/0 and reloads the
// angles from the controller.
func (c *Conn) ZeroAngles() (kinematics.Angles, error) {
	_, err := c.Command("zeroangles")
	if err != nil {
		return kinematics.Angles{}, err
	}
	return c.CurrentAngles()
}

// Calibrate tells the controller where the arms currently are.
//
// Unlike every other command, the local angles are taken from the argument instead
// of the reply.
func (c *Conn) Calibrate(a kinematics.Angles) error {
	_, err := c.Command("calibrate l" + formatFloat(a.Alpha1) + " r" + formatFloat(a.Alpha2))
	if err != nil {
		return err
	}
	c.setAngles(a)
	return nil
}

// Burst sends up to BurstSize points as a single binary frame. All
// points are solved before anything is written, so an unreachable point
// leaves the link untouched.
//
// A frame the controller rejects is sent again, without repeating the
// burst command, up to the configured number of attempts.
func (c *Conn) Burst(points []coord.Point) error {
	if len(points) > BurstSize {
		return ErrBurstCapacity
	}
	if len(points) == 0 {
		return nil
	}

	angles := make([]kinematics.Angles, len(points))
	for i, p := range points {
		a, err := c.geom.Solve(p.X, p.Y)
		if err != nil {
			return err
		}
		angles[i] = a
	}
	frame, err := EncodeFrame(angles)
	if err != nil {
		return err
	}

	c.mx.Lock()
	defer c.mx.Unlock()

	_, err = c.exchange("burst s" + strconv.Itoa(len(points)))
	if err != nil {
		return err
	}

	for attempt := 1; ; attempt++ {
		err = c.write(frame)
		if err != nil {
			return err
		}
		resp, err := c.readLine()
		if err != nil {
			return err
		}
		if strings.HasPrefix(resp, "ok ") {
			a, err := parseAngles(resp)
			if err != nil {
				return err
			}
			c.setAngles(a)
			return nil
		}

		log.Printf("WARN: burst attempt %d rejected: %s", attempt, resp)
		if c.attempts > 0 && attempt >= c.attempts {
			return fmt.Errorf("%w after %d attempts", ErrBurstNotAcknowledged, attempt)
		}
	}
}
