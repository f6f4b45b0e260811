package plotter

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"sync"

	"github.com/mastercactapus/polargraph/kinematics"
)

// StepsPerRevolution is the number of motor steps for one revolution of
// an arm (32 step motor behind a 63.68395:1 gearbox).
const StepsPerRevolution = 32 * 63.68395

const simBanner = "Plotter ready"

// Simulator is an in-process stand-in for the plotter firmware. The
// host side reads and writes it like a serial port.
type Simulator struct {
	inR *io.PipeReader
	inW *io.PipeWriter

	out     chan []byte
	pending []byte
	done    chan struct{}
	once    sync.Once

	mx            sync.Mutex
	steps         [2]int
	saved         [2]int
	calOffsets    [2]float64
	speed         int
	penDown       bool
	penAngle      int
	failChecksums int
	bursts        int
	moves         []kinematics.Angles
}

var _ io.ReadWriteCloser = &Simulator{}

// NewSimulator starts a simulated controller. It prints the startup
// banner immediately, as the real firmware does on reset.
func NewSimulator() *Simulator {
	inR, inW := io.Pipe()
	s := &Simulator{
		inR:        inR,
		inW:        inW,
		out:        make(chan []byte, 64),
		done:       make(chan struct{}),
		calOffsets: [2]float64{9, 14.49},
		speed:      200,
	}
	s.reply(simBanner)
	go s.loop()
	return s
}

func (s *Simulator) Write(p []byte) (int, error) { return s.inW.Write(p) }

func (s *Simulator) Read(p []byte) (int, error) {
	if len(s.pending) == 0 {
		select {
		case b := <-s.out:
			s.pending = b
		case <-s.done:
			return 0, io.EOF
		}
	}
	n := copy(p, s.pending)
	s.pending = s.pending[n:]
	return n, nil
}

func (s *Simulator) Close() error {
	s.once.Do(func() {
		close(s.done)
		s.inW.Close()
	})
	return nil
}

// FailChecksums makes the next n burst frames fail their checksum
// regardless of content.
func (s *Simulator) FailChecksums(n int) {
	s.mx.Lock()
	s.failChecksums = n
	s.mx.Unlock()
}

// Angles returns the simulated arm angles.
func (s *Simulator) Angles() kinematics.Angles {
	s.mx.Lock()
	defer s.mx.Unlock()
	return s.anglesLocked()
}

// Moves returns every target the arms were driven to, in order.
func (s *Simulator) Moves() []kinematics.Angles {
	s.mx.Lock()
	defer s.mx.Unlock()
	return append([]kinematics.Angles(nil), s.moves...)
}

// Bursts returns the number of burst frames accepted.
func (s *Simulator) Bursts() int {
	s.mx.Lock()
	defer s.mx.Unlock()
	return s.bursts
}

func (s *Simulator) PenDown() bool {
	s.mx.Lock()
	defer s.mx.Unlock()
	return s.penDown
}

func (s *Simulator) Speed() int {
	s.mx.Lock()
	defer s.mx.Unlock()
	return s.speed
}

func degreesToSteps(deg float64) int {
	return int(math.Round(deg * StepsPerRevolution / 360))
}

func stepsToDegrees(steps int) float64 {
	return float64(steps) * 360 / StepsPerRevolution
}

func (s *Simulator) anglesLocked() kinematics.Angles {
	return kinematics.Angles{Alpha1: stepsToDegrees(s.steps[0]), Alpha2: stepsToDegrees(s.steps[1])}
}

func (s *Simulator) moveLocked(a1, a2 float64) {
	s.steps[0] = degreesToSteps(a1)
	s.steps[1] = degreesToSteps(a2)
	s.moves = append(s.moves, s.anglesLocked())
}

func (s *Simulator) reply(format string, args ...interface{}) {
	select {
	case s.out <- []byte(fmt.Sprintf(format, args...) + "\n"):
	case <-s.done:
	}
}

func (s *Simulator) replyAngles() {
	a := s.anglesLocked()
	s.reply("ok %s %s", strconv.FormatFloat(a.Alpha1, 'f', 8, 64), strconv.FormatFloat(a.Alpha2, 'f', 8, 64))
}

// param returns the numeric value following letter in a command like
// "moveto l10 r20", or def when absent.
func param(cmd string, letter byte, def float64) float64 {
	for _, f := range strings.Fields(cmd)[1:] {
		if f[0] != letter {
			continue
		}
		v, err := strconv.ParseFloat(f[1:], 64)
		if err != nil {
			return def
		}
		return v
	}
	return def
}

func (s *Simulator) loop() {
	br := bufio.NewReader(s.inR)
	for {
		line, err := br.ReadString('\n')
		if err != nil {
			return
		}
		line = strings.TrimRight(line, "\r\n")
		if line == "" {
			continue
		}
		if !s.handle(br, line) {
			return
		}
	}
}

func (s *Simulator) handle(br *bufio.Reader, cmd string) bool {
	s.mx.Lock()
	defer s.mx.Unlock()

	cur := s.anglesLocked()
	switch {
	case strings.HasPrefix(cmd, "setspeed"):
		if f := strings.Fields(cmd); len(f) > 1 {
			v, err := strconv.ParseFloat(f[1], 64)
			if err == nil {
				s.speed = int(v)
			}
		}
		s.reply("s%s", strconv.FormatFloat(float64(s.speed), 'f', 8, 64))
	case strings.HasPrefix(cmd, "zeroangles"):
		s.steps = [2]int{}
		s.reply("Position zeroed")
	case strings.HasPrefix(cmd, "autocal"):
		s.calOffsets[0] = param(cmd, 'l', s.calOffsets[0])
		s.calOffsets[1] = param(cmd, 'r', s.calOffsets[1])
		s.moveLocked(s.calOffsets[0], s.calOffsets[1])
		s.replyAngles()
	case strings.HasPrefix(cmd, "calibrate"):
		s.steps[0] = degreesToSteps(param(cmd, 'l', cur.Alpha1))
		s.steps[1] = degreesToSteps(param(cmd, 'r', cur.Alpha2))
		s.reply("Calibration done")
	case strings.HasPrefix(cmd, "getcurrangles"):
		s.replyAngles()
	case strings.HasPrefix(cmd, "saveangles"):
		s.saved = s.steps
		s.replyAngles()
	case strings.HasPrefix(cmd, "burst"):
		return s.burst(br, int(param(cmd, 's', BurstSize)))
	case strings.HasPrefix(cmd, "moveto"), strings.HasPrefix(cmd, "move "):
		s.moveLocked(param(cmd, 'l', cur.Alpha1), param(cmd, 'r', cur.Alpha2))
		s.replyAngles()
	case strings.HasPrefix(cmd, "moveby"):
		s.moveLocked(cur.Alpha1+param(cmd, 'l', 0), cur.Alpha2+param(cmd, 'r', 0))
		s.replyAngles()
	case strings.HasPrefix(cmd, "penup"):
		s.penDown = false
		s.reply("pen is up")
	case strings.HasPrefix(cmd, "pendown"):
		s.penDown = true
		s.reply("pen is down")
	case strings.HasPrefix(cmd, "penset"):
		a := int(param(cmd, 'a', -1))
		if a == -1 {
			s.reply("invalid angle")
			break
		}
		s.penAngle = a
		s.reply("servo angle is %d", a)
	default:
		s.reply("Invalid command: %s", cmd)
	}
	return true
}

// burst reads frames of n points until one passes its checksum. The
// caller holds mx; it is released while waiting for frame bytes.
func (s *Simulator) burst(br *bufio.Reader, n int) bool {
	s.reply("entered burst mode")
	frame := make([]byte, FrameLen(n))
	for {
		s.mx.Unlock()
		_, err := io.ReadFull(br, frame)
		s.mx.Lock()
		if err != nil {
			return false
		}
		angles, err := DecodeFrame(frame)
		if err == nil && s.failChecksums > 0 {
			s.failChecksums--
			err = ErrChecksum
		}
		if err != nil {
			s.reply("checksum error")
			continue
		}

		for _, a := range angles {
			s.moveLocked(a.Alpha1, a.Alpha2)
		}
		s.bursts++
		s.replyAngles()
		return true
	}
}
