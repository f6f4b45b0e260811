// Package link opens the byte stream to the plotter controller.
package link

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/mastercactapus/polargraph/machine/plotter"
	"github.com/tarm/serial"
)

// Simulated is the device name of the built-in firmware simulator.
const Simulated = "sim"

// Config holds link configuration.
type Config struct {
	// Device path (e.g. "/dev/ttyUSB0", "COM3"), a ws:// or wss:// URL
	// of a serial bridge, or "sim".
	Device string `toml:"device"`

	Baud int `toml:"baud"`

	// Read timeout in milliseconds (0 = blocking)
	ReadTimeout int `toml:"read_timeout_ms"`
}

func isWebsocket(dev string) bool {
	return strings.HasPrefix(dev, "ws://") || strings.HasPrefix(dev, "wss://")
}

// Open connects to the configured device.
func Open(cfg Config) (io.ReadWriteCloser, error) {
	switch {
	case cfg.Device == Simulated:
		return plotter.NewSimulator(), nil
	case isWebsocket(cfg.Device):
		ws, err := DialWebsocket(cfg.Device)
		if err != nil {
			return nil, err
		}
		return ws, nil
	}

	port, err := serial.OpenPort(&serial.Config{
		Name:        cfg.Device,
		Baud:        cfg.Baud,
		ReadTimeout: time.Duration(cfg.ReadTimeout) * time.Millisecond,
	})
	if err != nil {
		return nil, fmt.Errorf("open serial port %s: %w", cfg.Device, err)
	}
	return port, nil
}
