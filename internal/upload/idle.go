package upload

import (
	"context"
	"errors"
	"io"
	"time"
)

var errIdleTimeout = errors.New("connection idle for too long")

// idleWatchdog cancels a request once no bytes have moved through its
// readers for the idle duration. A zero duration disables it.
type idleWatchdog struct {
	idle  time.Duration
	timer *time.Timer
}

func newIdleWatchdog(idle time.Duration, cancel context.CancelCauseFunc) *idleWatchdog {
	w := &idleWatchdog{idle: idle}
	if idle > 0 {
		w.timer = time.AfterFunc(idle, func() { cancel(errIdleTimeout) })
	}
	return w
}

func (w *idleWatchdog) touch() {
	if w.timer != nil {
		w.timer.Reset(w.idle)
	}
}

func (w *idleWatchdog) stop() {
	if w.timer != nil {
		w.timer.Stop()
	}
}

// reader re-arms the watchdog whenever r yields data.
func (w *idleWatchdog) reader(r io.Reader) io.Reader {
	if w.timer == nil {
		return r
	}
	return &progressReader{r: r, touch: w.touch}
}

type progressReader struct {
	r     io.Reader
	touch func()
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	if n > 0 {
		p.touch()
	}
	return n, err
}
