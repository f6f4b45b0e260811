package main

import (
	"context"
	"errors"
	"sync"
)

var errBusy = errors.New("a drawing is in progress")

// job runs at most one drawing at a time.
type job struct {
	mx     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

func (j *job) runningLocked() bool {
	if j.done == nil {
		return false
	}
	select {
	case <-j.done:
		return false
	default:
		return true
	}
}

func (j *job) running() bool {
	j.mx.Lock()
	defer j.mx.Unlock()
	return j.runningLocked()
}

// start runs fn on a new goroutine unless a previous run is still going.
func (j *job) start(fn func(ctx context.Context)) error {
	j.mx.Lock()
	defer j.mx.Unlock()
	if j.runningLocked() {
		return errBusy
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	j.cancel, j.done = cancel, done
	go func() {
		defer close(done)
		defer cancel()
		fn(ctx)
	}()
	return nil
}

// stop cancels the current run and waits for it to return. It reports
// false if nothing was running.
func (j *job) stop() bool {
	j.mx.Lock()
	if !j.runningLocked() {
		j.mx.Unlock()
		return false
	}
	cancel, done := j.cancel, j.done
	j.mx.Unlock()

	cancel()
	<-done
	return true
}

func (j *job) wait() {
	j.mx.Lock()
	done := j.done
	j.mx.Unlock()
	if done != nil {
		<-done
	}
}
