package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"io/ioutil"
	"log"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"

	sse "github.com/alexandrevicenzi/go-sse"
	"github.com/gorilla/mux"
	"github.com/mastercactapus/polargraph/config"
	"github.com/mastercactapus/polargraph/machine"
	"github.com/mastercactapus/polargraph/machine/plotter"
)

type api struct {
	http.Handler
	m       *machine.Machine
	conn    *plotter.Conn
	cfg     config.Config
	dataDir string
	sse     *sse.Server

	job job
}

func newAPI(m *machine.Machine, conn *plotter.Conn, cfg config.Config) *api {
	r := mux.NewRouter()

	a := &api{
		Handler: r,
		m:       m,
		conn:    conn,
		cfg:     cfg,
		dataDir: cfg.Server.DataDir,
		sse: sse.NewServer(&sse.Options{
			Logger: log.New(ioutil.Discard, "", 0),
		}),
	}

	fs := http.FileServer(http.Dir(a.dataDir))
	r.PathPrefix("/data/").Handler(http.StripPrefix("/data", http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		switch req.Method {
		case "GET":
			fs.ServeHTTP(w, req)
		case "PUT":
			a.putFile(w, req)
		case "DELETE":
			a.deleteFile(w, req)
		default:
			http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		}
	})))

	r.HandleFunc("/api/draw", a.draw).Methods("POST")
	r.HandleFunc("/api/stop", a.stop).Methods("POST")
	r.HandleFunc("/api/command", a.command).Methods("POST")
	r.HandleFunc("/api/move", a.move).Methods("POST")
	r.HandleFunc("/api/pen/{pos:up|down}", a.pen).Methods("POST")
	r.HandleFunc("/api/reset", a.reset).Methods("POST")
	r.HandleFunc("/api/angles", a.angles).Methods("GET")

	r.PathPrefix("/events/").Handler(a.sse)
	go func() {
		for p := range m.Drawn() {
			data, err := json.Marshal(p)
			if err != nil {
				log.Printf("ERROR: marshal json: %+v", err)
				continue
			}
			a.sse.SendMessage("/events/points", sse.SimpleMessage(string(data)))
		}
	}()

	return a
}

func safePath(base, name string) (bool, string) {
	if filepath.Separator != '/' && strings.ContainsRune(name, filepath.Separator) {
		log.Println("invalid path '" + name + "'")
		return false, ""
	}
	dir := string(base)
	if dir == "" {
		dir = "."
	}
	fullName := filepath.Join(dir, filepath.FromSlash(path.Clean("/"+name)))
	return true, fullName
}

// idle rejects the request while a drawing owns the plotter.
func (a *api) idle(w http.ResponseWriter) bool {
	if a.job.running() {
		http.Error(w, errBusy.Error(), http.StatusConflict)
		return false
	}
	return true
}

func (a *api) writeAngles(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	err := json.NewEncoder(w).Encode(a.conn.Angles())
	if err != nil {
		log.Println("ERROR: encode:", err)
	}
}

func (a *api) draw(w http.ResponseWriter, req *http.Request) {
	var data []byte
	var err error
	if file := req.FormValue("file"); file != "" {
		ok, name := safePath(a.dataDir, file)
		if !ok {
			http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
			return
		}
		data, err = ioutil.ReadFile(name)
		if os.IsNotExist(err) {
			http.NotFound(w, req)
			return
		}
	} else {
		data, err = ioutil.ReadAll(req.Body)
	}
	if err != nil {
		log.Printf("ERROR: read program: %+v", err)
		http.Error(w, err.Error(), 500)
		return
	}

	err = a.job.start(func(ctx context.Context) {
		log.Println("drawing started")
		err := a.m.DrawGCode(ctx, bytes.NewReader(data), a.cfg.Toolpath, a.cfg.DrawOptions())
		if err != nil && err != context.Canceled {
			log.Printf("ERROR: draw: %+v", err)
		}
		log.Println("drawing stopped")

		err = saveAngles(a.dataDir, a.conn.Angles())
		if err != nil {
			log.Println("ERROR: save angles:", err)
		}
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

func (a *api) stop(w http.ResponseWriter, req *http.Request) {
	if !a.job.stop() {
		http.Error(w, "no drawing in progress", http.StatusConflict)
	}
}

func (a *api) command(w http.ResponseWriter, req *http.Request) {
	if !a.idle(w) {
		return
	}
	data, err := ioutil.ReadAll(req.Body)
	if err != nil {
		log.Printf("ERROR: read command: %+v", err)
		http.Error(w, err.Error(), 500)
		return
	}
	cmd := strings.TrimSpace(string(data))
	if cmd == "" {
		http.Error(w, "empty command", http.StatusBadRequest)
		return
	}

	resp, err := a.conn.Command(cmd)
	if err != nil {
		log.Printf("ERROR: command '%s': %+v", cmd, err)
		http.Error(w, err.Error(), 500)
		return
	}
	io.WriteString(w, resp+"\n")
}

func (a *api) move(w http.ResponseWriter, req *http.Request) {
	if !a.idle(w) {
		return
	}

	var err error
	parse := func(param string) (val float64) {
		if err != nil {
			return 0
		}
		val, err = strconv.ParseFloat(req.FormValue(param), 64)
		return val
	}
	x, y := parse("x"), parse("y")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	_, err = a.conn.MoveToXY(x, y)
	if err != nil {
		log.Printf("ERROR: move (%g, %g): %+v", x, y, err)
		http.Error(w, err.Error(), 500)
		return
	}
	a.writeAngles(w)
}

func (a *api) pen(w http.ResponseWriter, req *http.Request) {
	if !a.idle(w) {
		return
	}

	var err error
	if mux.Vars(req)["pos"] == "down" {
		err = a.conn.PenDown()
	} else {
		err = a.conn.PenUp()
	}
	if err != nil {
		log.Printf("ERROR: pen: %+v", err)
		http.Error(w, err.Error(), 500)
	}
}

// reset moves both arms back to 0 degrees.
func (a *api) reset(w http.ResponseWriter, req *http.Request) {
	if !a.idle(w) {
		return
	}

	_, err := a.conn.ResetHead()
	if err != nil {
		log.Printf("ERROR: reset head: %+v", err)
		http.Error(w, err.Error(), 500)
		return
	}
	a.writeAngles(w)
}

func (a *api) angles(w http.ResponseWriter, req *http.Request) {
	a.writeAngles(w)
}

func (a *api) putFile(w http.ResponseWriter, req *http.Request) {
	ok, name := safePath(a.dataDir, req.URL.Path)
	if !ok {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	os.MkdirAll(filepath.Dir(name), 0755)
	f, err := os.Create(name)
	if err != nil {
		log.Printf("ERROR: create '%s': %+v", name, err)
		http.Error(w, err.Error(), 500)
		return
	}
	defer f.Close()
	_, err = io.Copy(f, req.Body)
	if err != nil {
		log.Printf("ERROR: write '%s': %+v", name, err)
		http.Error(w, err.Error(), 500)
		return
	}
}
func (a *api) deleteFile(w http.ResponseWriter, req *http.Request) {
	ok, name := safePath(a.dataDir, req.URL.Path)
	if !ok {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	err := os.Remove(name)
	if err != nil {
		log.Printf("ERROR: delete '%s': %+v", name, err)
		http.Error(w, err.Error(), 500)
		return
	}
}
