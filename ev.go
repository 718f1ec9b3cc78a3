// ev.go
//
// The host event loop. One poll(2)-driven loop on the interpreter thread:
// read/write watchers map to pollfds, timers to the poll timeout, signals
// latch through os/signal and drain between polls. Callbacks always
// dispatch between evaluator steps, never during one, and a watcher
// stopped before dispatch never fires.
//
// Watcher records retain their environment and callback across GC cycles;
// the collector forwards them as roots (see gc.go).
package shi

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sys/unix"
)

// Watcher kinds, libev-compatible constants exposed to user code.
const (
	EvRead   = 0x01
	EvWrite  = 0x02
	EvTimer  = 0x0100
	EvSignal = 0x0400
	EvStat   = 0x1000
)

type watcher struct {
	id   int
	kind int

	fd       int           // EvRead / EvWrite
	interval time.Duration // EvTimer
	deadline time.Time
	signum   int // EvSignal

	env      Value // GC root
	callback Value // GC root
	stopped  bool
}

type evLoop struct {
	rt       *Runtime
	watchers []*watcher
	nextID   int

	sigCh   chan os.Signal
	pending map[int]int // signum -> queued count
}

func newEvLoop(rt *Runtime) *evLoop {
	return &evLoop{
		rt:      rt,
		sigCh:   make(chan os.Signal, 64),
		pending: make(map[int]int),
	}
}

func (l *evLoop) addWatcher(w *watcher) int {
	l.nextID++
	w.id = l.nextID
	l.watchers = append(l.watchers, w)
	if w.kind == EvSignal {
		signal.Notify(l.sigCh, syscall.Signal(w.signum))
	}
	return w.id
}

// stop removes a watcher by id. Returns false when the id is unknown.
func (l *evLoop) stop(id int) bool {
	for i, w := range l.watchers {
		if w.id == id {
			w.stopped = true
			l.watchers = append(l.watchers[:i], l.watchers[i+1:]...)
			return true
		}
	}
	return false
}

// run drives the loop until no watchers remain. init runs first, in loop
// context, so code evaluated there can register watchers.
func (l *evLoop) run(init func() error) error {
	if err := init(); err != nil {
		return err
	}
	for len(l.watchers) > 0 {
		if err := l.turn(); err != nil {
			return err
		}
	}
	return nil
}

// turn polls once and dispatches every ready watcher.
func (l *evLoop) turn() error {
	now := time.Now()

	var fds []unix.PollFd
	fdw := make(map[int]*watcher)
	timeout := -1
	for _, w := range l.watchers {
		switch w.kind {
		case EvRead, EvWrite:
			ev := int16(unix.POLLIN)
			if w.kind == EvWrite {
				ev = unix.POLLOUT
			}
			fds = append(fds, unix.PollFd{Fd: int32(w.fd), Events: ev})
			fdw[w.fd] = w
		case EvTimer:
			d := int(w.deadline.Sub(now) / time.Millisecond)
			if d < 0 {
				d = 0
			}
			if timeout < 0 || d < timeout {
				timeout = d
			}
		case EvSignal:
			// Signals interrupt poll; cap the wait so latches drain even
			// on hosts that restart syscalls.
			if timeout < 0 || timeout > 500 {
				timeout = 500
			}
		}
	}

	n, err := unix.Poll(fds, timeout)
	if err != nil && err != unix.EINTR {
		return l.rt.errorf(ErrHost, "ev: poll failed")
	}

	// Latch delivered signals.
	for {
		select {
		case sig := <-l.sigCh:
			if s, ok := sig.(syscall.Signal); ok {
				l.pending[int(s)]++
			}
			continue
		default:
		}
		break
	}

	// Collect ready watchers first, dispatch after: a callback may stop a
	// queued sibling, and stopped watchers must not fire.
	var ready []*watcher
	if n > 0 {
		for _, p := range fds {
			if p.Revents != 0 {
				if w, ok := fdw[int(p.Fd)]; ok {
					ready = append(ready, w)
				}
			}
		}
	}
	now = time.Now()
	for _, w := range l.watchers {
		switch w.kind {
		case EvTimer:
			if !w.deadline.After(now) {
				w.deadline = now.Add(w.interval)
				ready = append(ready, w)
			}
		case EvSignal:
			if l.pending[w.signum] > 0 {
				ready = append(ready, w)
			}
		}
	}
	for k := range l.pending {
		delete(l.pending, k)
	}

	for _, w := range ready {
		if w.stopped {
			continue
		}
		if _, err := l.rt.applyFunc(w.callback, Nil, true); err != nil {
			return err
		}
	}
	return nil
}
