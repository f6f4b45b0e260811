package plotter

import (
	"strconv"
	"strings"

	"github.com/mastercactapus/polargraph/kinematics"
)

// ResponseParseError is returned when a controller reply does not have
// the expected shape.
type ResponseParseError struct {
	Response string
	Reason   string
}

func (e *ResponseParseError) Error() string {
	return "parse response '" + strings.TrimSpace(e.Response) + "': " + e.Reason
}

// LinkError wraps an I/O failure on the serial link.
type LinkError struct {
	Op  string
	Err error
}

func (e *LinkError) Error() string { return "link " + e.Op + ": " + e.Err.Error() }
func (e *LinkError) Unwrap() error { return e.Err }

// parseAngles reads the two trailing angles of a reply like "ok 12.5 40.25".
func parseAngles(data string) (a kinematics.Angles, err error) {
	parts := strings.Fields(data)
	if len(parts) != 3 {
		return a, &ResponseParseError{Response: data, Reason: "expected 3 fields, got " + strconv.Itoa(len(parts))}
	}
	a.Alpha1, err = strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return a, &ResponseParseError{Response: data, Reason: err.Error()}
	}
	a.Alpha2, err = strconv.ParseFloat(parts[2], 64)
	if err != nil {
		return a, &ResponseParseError{Response: data, Reason: err.Error()}
	}
	return a, nil
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
