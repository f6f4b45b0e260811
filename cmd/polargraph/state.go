package main

import (
	"encoding/json"
	"log"
	"os"
	"path/filepath"

	"github.com/mastercactapus/polargraph/kinematics"
	"github.com/mastercactapus/polargraph/machine/plotter"
)

// anglesFile holds the last known arm angles between runs.
const anglesFile = "angles.json"

func saveAngles(dir string, a kinematics.Angles) error {
	err := os.MkdirAll(dir, 0755)
	if err != nil {
		return err
	}
	data, err := json.Marshal(a)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, anglesFile), data, 0644)
}

func loadAngles(dir string) (a kinematics.Angles, err error) {
	data, err := os.ReadFile(filepath.Join(dir, anglesFile))
	if err != nil {
		return a, err
	}
	err = json.Unmarshal(data, &a)
	return a, err
}

// restoreAngles tells the controller where the arms were left at the end
// of the previous run, if that is known.
func restoreAngles(conn *plotter.Conn, dir string) {
	a, err := loadAngles(dir)
	if os.IsNotExist(err) {
		return
	}
	if err != nil {
		log.Println("ERROR: load angles:", err)
		return
	}
	err = conn.Calibrate(a)
	if err != nil {
		log.Println("ERROR: calibrate:", err)
		return
	}
	log.Println("restored angles", a)
}
