// Package conntable owns the compositor's listener and the live table of
// client connections, indexed by window id. It drains new connections each
// tick, services pending packets, and recovers or evicts unhealthy peers.
package conntable

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"net"
	"os"
	"sync"
	"time"

	"github.com/pheonixfirewingz/crystal-desktop/internal/logging"
	"github.com/pheonixfirewingz/crystal-desktop/pkg/protocol"
)

var log = logging.L("conntable")

// PacketHandler mutates the DisplayServer in response to a packet from
// windowID, optionally returning a reply to send back on the same stream.
// RequestAPIVersion never reaches the handler — it is answered directly by
// the connection table during handshake.
type PacketHandler interface {
	HandlePacket(windowID uint64, p *protocol.Packet) (*protocol.Packet, error)
}

// deadlineListener is the subset of net.Listener the table needs to poll
// non-blockingly: Accept plus a deadline so a pending-but-empty listener
// returns promptly instead of parking the tick goroutine.
type deadlineListener interface {
	net.Listener
	SetDeadline(t time.Time) error
}

// ErrConnectionNotFound is returned when an operation names an unknown
// window id.
var ErrConnectionNotFound = errors.New("conntable: connection not found")

// Config tunes accept/read/write/recovery behavior.
type Config struct {
	PollTimeout         time.Duration // how long Accept/Receive block before reporting "nothing yet"
	ReadTimeout         time.Duration // steady-state read deadline (30s)
	WriteTimeout        time.Duration // steady-state write deadline (5s)
	StaleThreshold      time.Duration // last-activity age before a connection is considered stale (60s)
	ErrorThreshold      int           // errors since the last successful recovery before recovery is attempted (3)
	MaxRecoveryAttempts int           // attempts before giving up and evicting (3)
}

// DefaultConfig matches the values named in the compositor specification.
func DefaultConfig() Config {
	return Config{
		PollTimeout:         time.Millisecond,
		ReadTimeout:         30 * time.Second,
		WriteTimeout:        5 * time.Second,
		StaleThreshold:      60 * time.Second,
		ErrorThreshold:      3,
		MaxRecoveryAttempts: 3,
	}
}

// Stats tracks a single connection's health.
type Stats struct {
	ConnectedAt      time.Time
	LastActivity     time.Time
	ErrorCount       int
	RecoveryAttempts int

	// PeerPID/PeerUID come from SO_PEERCRED on Linux Unix-domain sockets.
	// HasPeerCred is false on other platforms or for non-Unix listeners.
	PeerPID     int32
	PeerUID     uint32
	HasPeerCred bool
}

type connection struct {
	conn  net.Conn
	stats Stats
}

// Table is the live set of client connections plus the listener that feeds it.
type Table struct {
	mu sync.Mutex

	listener   deadlineListener
	socketPath string
	cfg        Config
	handler    PacketHandler

	connections map[uint64]*connection
}

// New wraps listener (which must support SetDeadline — *net.UnixListener and
// *net.TCPListener both do) into a connection table bound to handler.
// socketPath is removed on Cleanup.
func New(listener deadlineListener, socketPath string, handler PacketHandler, cfg Config) *Table {
	return &Table{
		listener:    listener,
		socketPath:  socketPath,
		cfg:         cfg,
		handler:     handler,
		connections: make(map[uint64]*connection),
	}
}

func (t *Table) freshID() uint64 {
	for {
		id := rand.Uint64()
		if id == 0 {
			continue
		}
		if _, exists := t.connections[id]; !exists {
			return id
		}
	}
}

// AcceptConnections drains the listener until it reports no pending
// connection. Each accepted stream gets a fresh random window id and the
// steady-state read/write deadlines.
func (t *Table) AcceptConnections() error {
	for {
		if err := t.listener.SetDeadline(time.Now().Add(t.cfg.PollTimeout)); err != nil {
			return fmt.Errorf("conntable: set accept deadline: %w", err)
		}
		conn, err := t.listener.Accept()
		if err != nil {
			if isTimeout(err) {
				return nil
			}
			log.Warn("accept error", "error", err)
			continue
		}

		now := time.Now()
		conn.SetReadDeadline(now.Add(t.cfg.ReadTimeout))
		conn.SetWriteDeadline(now.Add(t.cfg.WriteTimeout))
		stats := Stats{ConnectedAt: now, LastActivity: now}
		if pid, uid, ok := peerCredentials(conn); ok {
			stats.PeerPID, stats.PeerUID, stats.HasPeerCred = pid, uid, true
		}

		t.mu.Lock()
		id := t.freshID()
		t.connections[id] = &connection{
			conn:  conn,
			stats: stats,
		}
		t.mu.Unlock()

		if stats.HasPeerCred {
			log.Info("new connection established", "window_id", id, "peer_pid", stats.PeerPID, "peer_uid", stats.PeerUID)
		} else {
			log.Info("new connection established", "window_id", id)
		}
	}
}

// ProcessPackets services every live connection once: polls for a pending
// frame, dispatches it, and counts errors toward recovery. The count is not
// reset by a later successful packet, only by a successful recovery.
func (t *Table) ProcessPackets() {
	t.mu.Lock()
	ids := make([]uint64, 0, len(t.connections))
	for id := range t.connections {
		ids = append(ids, id)
	}
	t.mu.Unlock()

	for _, id := range ids {
		if err := t.handleConnection(id); err != nil {
			log.Warn("error handling connection", "window_id", id, "error", err)

			t.mu.Lock()
			c, ok := t.connections[id]
			if !ok {
				t.mu.Unlock()
				continue
			}
			c.stats.ErrorCount++
			needsRecovery := c.stats.ErrorCount >= t.cfg.ErrorThreshold
			t.mu.Unlock()

			if needsRecovery {
				if !t.attemptRecovery(id) {
					t.handleConnectionFailure(id)
				}
			}
		}
	}
}

func (t *Table) handleConnection(id uint64) error {
	t.mu.Lock()
	c, ok := t.connections[id]
	t.mu.Unlock()
	if !ok {
		return nil
	}

	c.conn.SetReadDeadline(time.Now().Add(t.cfg.PollTimeout))
	packet, err := protocol.Receive(c.conn)
	if err != nil {
		if errors.Is(err, protocol.ErrNoPacket) {
			return nil
		}
		return err
	}

	t.mu.Lock()
	c.stats.LastActivity = time.Now()
	t.mu.Unlock()

	if packet.Kind == protocol.KindRequestAPIVersion {
		return t.writePacket(c, id, func() protocol.Packet {
			return protocol.NewAPIVersion(protocol.ProtocolVersion)
		}())
	}

	reply, err := t.handler.HandlePacket(id, packet)
	if err != nil {
		return fmt.Errorf("handle packet %s: %w", packet.Kind, err)
	}
	if reply == nil {
		return nil
	}
	return t.writePacket(c, id, *reply)
}

// writePacket sends p to c's connection. Callers must not hold t.mu: this
// does a blocking socket write, and no I/O may happen under the table lock.
func (t *Table) writePacket(c *connection, id uint64, p protocol.Packet) error {
	c.conn.SetWriteDeadline(time.Now().Add(t.cfg.WriteTimeout))
	if err := protocol.Send(c.conn, &p); err != nil {
		return fmt.Errorf("send to window %d: %w", id, err)
	}
	return nil
}

// ConnectionStats returns a snapshot of windowID's health tracking, or
// ErrConnectionNotFound if no such connection is live.
func (t *Table) ConnectionStats(windowID uint64) (Stats, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	c, ok := t.connections[windowID]
	if !ok {
		return Stats{}, ErrConnectionNotFound
	}
	return c.stats, nil
}

// SendPacket delivers p to windowID directly, outside the poll cycle — used
// by the compositor to push unsolicited notifications (Resize, Suspend, …).
func (t *Table) SendPacket(windowID uint64, p protocol.Packet) error {
	t.mu.Lock()
	c, ok := t.connections[windowID]
	t.mu.Unlock()
	if !ok {
		return ErrConnectionNotFound
	}
	return t.writePacket(c, windowID, p)
}

// CheckConnectionHealth scans for connections idle longer than
// cfg.StaleThreshold and recovers or evicts them.
func (t *Table) CheckConnectionHealth() {
	now := time.Now()

	t.mu.Lock()
	var stale []uint64
	for id, c := range t.connections {
		if now.Sub(c.stats.LastActivity) > t.cfg.StaleThreshold {
			stale = append(stale, id)
		}
	}
	t.mu.Unlock()

	for _, id := range stale {
		log.Warn("stale connection detected", "window_id", id)
		if !t.attemptRecovery(id) {
			t.handleConnectionFailure(id)
		}
	}
}

// attemptRecovery flips the connection to a blocking, full-timeout probe
// and sends RequestAPIVersion as a liveness check. Returns false once
// cfg.MaxRecoveryAttempts is exhausted or the probe write itself fails.
func (t *Table) attemptRecovery(id uint64) bool {
	t.mu.Lock()
	c, ok := t.connections[id]
	if !ok {
		t.mu.Unlock()
		return false
	}
	if c.stats.RecoveryAttempts >= t.cfg.MaxRecoveryAttempts {
		t.mu.Unlock()
		log.Warn("max recovery attempts reached", "window_id", id)
		return false
	}
	c.stats.RecoveryAttempts++
	t.mu.Unlock()

	log.Info("attempting recovery", "window_id", id)

	c.conn.SetReadDeadline(time.Now().Add(t.cfg.ReadTimeout))
	c.conn.SetWriteDeadline(time.Now().Add(t.cfg.WriteTimeout))

	probe := protocol.NewRequestAPIVersion()
	if err := protocol.Send(c.conn, &probe); err != nil {
		log.Warn("recovery attempt failed", "window_id", id, "error", err)
		return false
	}

	t.mu.Lock()
	c.stats.ErrorCount = 0
	t.mu.Unlock()

	log.Info("recovery successful", "window_id", id)
	return true
}

// handleConnectionFailure broadcasts Close to every other connection first
// (so peers can drop cached references before the map entry disappears),
// then removes the failed connection.
func (t *Table) handleConnectionFailure(id uint64) {
	log.Warn("handling connection failure", "window_id", id)

	closePacket := protocol.NewClose(id)
	t.broadcastToOthers(id, closePacket)

	t.mu.Lock()
	if c, ok := t.connections[id]; ok {
		c.conn.Close()
		delete(t.connections, id)
	}
	t.mu.Unlock()

	log.Info("connection failure handled", "window_id", id)
}

func (t *Table) broadcastToOthers(senderID uint64, p protocol.Packet) {
	t.mu.Lock()
	ids := make([]uint64, 0, len(t.connections))
	for id := range t.connections {
		if id != senderID {
			ids = append(ids, id)
		}
	}
	t.mu.Unlock()

	for _, id := range ids {
		if err := t.SendPacket(id, p); err != nil {
			log.Warn("failed to broadcast", "window_id", id, "error", err)
		}
	}
}

// Cleanup closes every live connection and removes the socket file.
func (t *Table) Cleanup() error {
	log.Info("starting connection table cleanup")

	t.mu.Lock()
	for id, c := range t.connections {
		c.conn.Close()
		log.Info("closing connection", "window_id", id)
	}
	t.connections = make(map[uint64]*connection)
	t.mu.Unlock()

	if err := os.Remove(t.socketPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("conntable: remove socket file: %w", err)
	}

	log.Info("connection table cleanup complete")
	return nil
}

func isTimeout(err error) bool {
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
