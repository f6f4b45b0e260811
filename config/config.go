// Package config loads plotter settings from a TOML file.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/mastercactapus/polargraph/kinematics"
	"github.com/mastercactapus/polargraph/link"
	"github.com/mastercactapus/polargraph/machine"
	"github.com/mastercactapus/polargraph/machine/plotter"
	"github.com/mastercactapus/polargraph/toolpath"
	"github.com/pelletier/go-toml/v2"
)

type Config struct {
	Link     link.Config         `toml:"link"`
	Geometry kinematics.Geometry `toml:"geometry"`
	Toolpath toolpath.Config     `toml:"toolpath"`
	Draw     Draw                `toml:"draw"`
	Server   Server              `toml:"server"`
}

type Draw struct {
	Speed         int  `toml:"speed"`
	Burst         bool `toml:"burst"`
	PenFromZ      bool `toml:"pen_from_z"`
	BurstAttempts int  `toml:"burst_attempts"`
}

type Server struct {
	Addr    string `toml:"addr"`
	DataDir string `toml:"data_dir"`
}

// Default returns the configuration of the reference machine.
func Default() Config {
	return Config{
		Link: link.Config{
			Device: "/dev/ttyUSB0",
			Baud:   115200,
		},
		Geometry: kinematics.DefaultGeometry(),
		Toolpath: toolpath.Config{MaxPointDistance: 1},
		Draw: Draw{
			Speed:         60,
			Burst:         true,
			BurstAttempts: 8,
		},
		Server: Server{
			Addr:    ":9091",
			DataDir: "./data",
		},
	}
}

// Load reads the file at path on top of Default. Unknown keys are an error.
func Load(path string) (Config, error) {
	cfg := Default()

	f, err := os.Open(path)
	if err != nil {
		return cfg, err
	}
	defer f.Close()

	err = toml.NewDecoder(f).DisallowUnknownFields().Decode(&cfg)
	if err != nil {
		return cfg, fmt.Errorf("decode %s: %w", path, err)
	}

	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	err := c.Geometry.Validate()
	if err != nil {
		return fmt.Errorf("geometry: %w", err)
	}
	switch {
	case c.Toolpath.MaxPointDistance <= 0:
		return errors.New("toolpath: max_point_distance must be positive")
	case c.Toolpath.LinearThreshold < 0:
		return errors.New("toolpath: linear_threshold must not be negative")
	case c.Link.Device == "":
		return errors.New("link: device is required")
	case c.Link.Baud <= 0:
		return errors.New("link: baud must be positive")
	case c.Draw.Speed < 0:
		return errors.New("draw: speed must not be negative")
	}
	return nil
}

func (c Config) Plotter() plotter.Config {
	return plotter.Config{
		Geometry:      c.Geometry,
		BurstAttempts: c.Draw.BurstAttempts,
	}
}

func (c Config) DrawOptions() machine.DrawOptions {
	return machine.DrawOptions{
		Speed:    c.Draw.Speed,
		Burst:    c.Draw.Burst,
		PenFromZ: c.Draw.PenFromZ,
	}
}
