package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"

	"github.com/mastercactapus/polargraph/config"
	"github.com/mastercactapus/polargraph/gcode"
	"github.com/mastercactapus/polargraph/link"
	"github.com/mastercactapus/polargraph/machine"
	"github.com/mastercactapus/polargraph/machine/plotter"
	"github.com/mastercactapus/polargraph/toolpath"
)

func main() {
	log.SetFlags(log.Lshortfile)

	cfgFile := flag.String("config", "", "Path to a TOML config file.")
	port := flag.String("port", "", "Serial device, ws:// bridge URL or 'sim' (overrides config).")
	addr := flag.String("addr", "", "Address to bind the server to (overrides config).")
	dir := flag.String("dir", "", "Data directory to use (overrides config).")
	drawName := flag.String("draw", "", "Draw a G-code file and exit.")
	dryName := flag.String("dry", "", "Print the toolpath and arm angles of a G-code file and exit.")
	normName := flag.String("normalize", "", "Print the normalized G-code of a file and exit.")
	flag.Parse()

	cfg := config.Default()
	if *cfgFile != "" {
		var err error
		cfg, err = config.Load(*cfgFile)
		if err != nil {
			log.Fatal(err)
		}
	}
	if *port != "" {
		cfg.Link.Device = *port
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}
	if *dir != "" {
		cfg.Server.DataDir = *dir
	}

	var err error
	switch {
	case *normName != "":
		err = normalize(os.Stdout, *normName)
	case *dryName != "":
		err = dryRun(os.Stdout, *dryName, cfg)
	case *drawName != "":
		err = draw(*drawName, cfg)
	default:
		err = serve(cfg)
	}
	if err != nil {
		log.Fatal(err)
	}
}

func normalize(w io.Writer, name string) error {
	f, err := os.Open(name)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = io.Copy(w, gcode.NewBuffer(gcode.NewParser(f)))
	return err
}

func dryRun(w io.Writer, name string, cfg config.Config) error {
	f, err := os.Open(name)
	if err != nil {
		return err
	}
	defer f.Close()

	path, err := toolpath.Generate(gcode.NewParser(f), cfg.Toolpath)
	if err != nil {
		return err
	}
	for _, p := range path {
		a, err := cfg.Geometry.Solve(p.X, p.Y)
		if err != nil {
			fmt.Fprintf(w, "%g\t%g\t%g\tunreachable\n", p.X, p.Y, p.Z)
			continue
		}
		fmt.Fprintf(w, "%g\t%g\t%g\t%.4f\t%.4f\n", p.X, p.Y, p.Z, a.Alpha1, a.Alpha2)
	}
	return nil
}

// connect opens the link and waits for the controller to be ready.
func connect(cfg config.Config) (*plotter.Conn, error) {
	rw, err := link.Open(cfg.Link)
	if err != nil {
		return nil, err
	}
	conn := plotter.NewConn(rw, cfg.Plotter())
	err = conn.Init()
	if err != nil {
		conn.Close()
		return nil, err
	}
	log.Println("connected, angles", conn.Angles())
	return conn, nil
}

func draw(name string, cfg config.Config) error {
	f, err := os.Open(name)
	if err != nil {
		return err
	}
	defer f.Close()

	conn, err := connect(cfg)
	if err != nil {
		return err
	}
	defer conn.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	m := machine.NewMachine(conn)
	err = m.DrawGCode(ctx, f, cfg.Toolpath, cfg.DrawOptions())
	if serr := saveAngles(cfg.Server.DataDir, conn.Angles()); serr != nil {
		log.Println("ERROR: save angles:", serr)
	}
	return err
}

func serve(cfg config.Config) error {
	conn, err := connect(cfg)
	if err != nil {
		return err
	}
	defer conn.Close()

	restoreAngles(conn, cfg.Server.DataDir)

	api := newAPI(machine.NewMachine(conn), conn, cfg)

	log.Println("listening on", cfg.Server.Addr)
	return http.ListenAndServe(cfg.Server.Addr, http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "*")
		log.Printf("%s %s - %s", req.Method, req.URL.Path, req.RemoteAddr)
		api.ServeHTTP(w, req)
	}))
}
