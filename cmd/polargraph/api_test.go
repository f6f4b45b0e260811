package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/mastercactapus/polargraph/config"
	"github.com/mastercactapus/polargraph/kinematics"
	"github.com/mastercactapus/polargraph/machine"
	"github.com/mastercactapus/polargraph/machine/plotter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testAPI(t *testing.T) (*api, *plotter.Simulator) {
	sim := plotter.NewSimulator()
	t.Cleanup(func() { sim.Close() })

	cfg := config.Default()
	cfg.Server.DataDir = t.TempDir()

	conn := plotter.NewConn(sim, cfg.Plotter())
	require.NoError(t, conn.Init())
	return newAPI(machine.NewMachine(conn), conn, cfg), sim
}

func do(a *api, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if method == "POST" && strings.Contains(body, "=") {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	rec := httptest.NewRecorder()
	a.ServeHTTP(rec, req)
	return rec
}

func TestAPI_Move(t *testing.T) {
	a, sim := testAPI(t)

	rec := do(a, "POST", "/api/move", url.Values{"x": {"40"}, "y": {"40"}}.Encode())
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var angles kinematics.Angles
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&angles))
	assert.InDelta(t, sim.Angles().Alpha1, angles.Alpha1, 1e-7)

	rec = do(a, "GET", "/api/angles", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "alpha1")

	rec = do(a, "POST", "/api/reset", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, kinematics.Angles{}, sim.Angles())
	assert.Equal(t, kinematics.Angles{}, a.conn.Angles())

	rec = do(a, "POST", "/api/move", "x=foo&y=1")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(a, "POST", "/api/move", "x=0&y=500")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestAPI_PenCommand(t *testing.T) {
	a, sim := testAPI(t)

	rec := do(a, "POST", "/api/pen/down", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, sim.PenDown())

	rec = do(a, "POST", "/api/pen/up", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, sim.PenDown())

	rec = do(a, "POST", "/api/pen/sideways", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(a, "POST", "/api/command", "getcurrangles\n")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Body.String(), "ok "), rec.Body.String())
}

func TestAPI_CommandReadError(t *testing.T) {
	a, _ := testAPI(t)

	req := httptest.NewRequest("POST", "/api/command", iotest.ErrReader(errors.New("connection reset")))
	rec := httptest.NewRecorder()
	a.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "connection reset")
}

func TestAPI_Draw(t *testing.T) {
	a, sim := testAPI(t)

	rec := do(a, "PUT", "/data/square.gcode", "G0 X10 Y10\nG1 X20\nG1 Y20\nG1 X10\nG1 Y10\n")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(a, "GET", "/data/square.gcode", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "G1 X20")

	rec = do(a, "POST", "/api/draw?file=square.gcode", "")
	require.Equal(t, http.StatusAccepted, rec.Code, rec.Body.String())
	a.job.wait()

	// 1 start point + 10 points per side
	assert.Len(t, sim.Moves(), 41)
	assert.Equal(t, 3, sim.Bursts())

	saved, err := loadAngles(a.dataDir)
	require.NoError(t, err)
	assert.Equal(t, a.conn.Angles(), saved)

	rec = do(a, "POST", "/api/draw?file=missing.gcode", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(a, "POST", "/api/stop", "")
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = do(a, "DELETE", "/data/square.gcode", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	rec = do(a, "GET", "/data/square.gcode", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestJob(t *testing.T) {
	var j job
	assert.False(t, j.running())
	assert.False(t, j.stop())

	started := make(chan struct{})
	require.NoError(t, j.start(func(ctx context.Context) {
		close(started)
		<-ctx.Done()
	}))
	<-started
	assert.True(t, j.running())
	assert.Equal(t, errBusy, j.start(func(context.Context) {}))

	assert.True(t, j.stop())
	assert.False(t, j.running())
}
