// Package compositor runs the server loop that services the connection
// table at a fixed tick rate, and the default PacketHandler that turns
// wire packets into DisplayServer mutations.
package compositor

import (
	"net"
	"os"
	"sync/atomic"
	"time"

	"github.com/pheonixfirewingz/crystal-desktop/internal/conntable"
	"github.com/pheonixfirewingz/crystal-desktop/internal/logging"
)

var log = logging.L("compositor")

// TickInterval targets a ~60 Hz service rate, matching the graphics thread's
// frame budget.
const TickInterval = 16 * time.Millisecond

type controlMessage int

const (
	msgStop controlMessage = iota
	msgPause
	msgResume
)

// NetHandle is the owner-facing control object for a running server loop.
type NetHandle struct {
	control chan controlMessage
	running atomic.Bool
	done    chan struct{}
}

// SetupListener removes a stale socket at path if present, binds a new Unix
// listener there, and opens its permissions to 0666 so any local user can
// connect.
func SetupListener(path string) (*net.UnixListener, error) {
	if _, err := os.Stat(path); err == nil {
		if err := os.Remove(path); err != nil {
			return nil, err
		}
	}

	listener, err := net.Listen("unix", path)
	if err != nil {
		return nil, err
	}
	if err := os.Chmod(path, 0o666); err != nil {
		listener.Close()
		return nil, err
	}
	return listener.(*net.UnixListener), nil
}

// Start launches the compositor-server goroutine servicing table once per
// TickInterval: try-receive a control message, then (unless paused) accept,
// process, and health-check the connection table.
func Start(table *conntable.Table) *NetHandle {
	h := &NetHandle{
		control: make(chan controlMessage, 4),
		done:    make(chan struct{}),
	}
	h.running.Store(true)
	go h.loop(table)
	return h
}

func (h *NetHandle) loop(table *conntable.Table) {
	defer close(h.done)

	paused := false
	for h.running.Load() {
		select {
		case msg := <-h.control:
			switch msg {
			case msgStop:
				h.running.Store(false)
			case msgPause:
				paused = true
			case msgResume:
				paused = false
			}
		default:
		}

		if !h.running.Load() {
			break
		}

		if !paused {
			if err := table.AcceptConnections(); err != nil {
				log.Warn("accept connections failed", "error", err)
			}
			table.ProcessPackets()
			table.CheckConnectionHealth()
		}

		time.Sleep(TickInterval)
	}

	if err := table.Cleanup(); err != nil {
		log.Warn("cleanup failed", "error", err)
	}
}

// Stop signals the loop to exit, then blocks until it has finished cleanup.
func (h *NetHandle) Stop() {
	log.Info("stopping compositor server")
	h.running.Store(false)
	select {
	case h.control <- msgStop:
	default:
	}
	<-h.done
}

// Pause suspends accept/process/health-check without tearing down the loop.
func (h *NetHandle) Pause() {
	log.Info("pausing compositor server")
	select {
	case h.control <- msgPause:
	default:
	}
}

// Resume undoes Pause.
func (h *NetHandle) Resume() {
	log.Info("resuming compositor server")
	select {
	case h.control <- msgResume:
	default:
	}
}

// IsRunning reports whether the loop is still active.
func (h *NetHandle) IsRunning() bool {
	return h.running.Load()
}
