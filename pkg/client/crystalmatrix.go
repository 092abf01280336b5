// Package client is CrystalMatrix: the client library windowed applications
// link against to open a window on a Prism compositor and exchange input
// and paint events with it over a local stream socket.
package client

import (
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/pheonixfirewingz/crystal-desktop/pkg/geometry"
	"github.com/pheonixfirewingz/crystal-desktop/pkg/protocol"
)

// DefaultSocketPath is the canonical path a Prism compositor listens on.
const DefaultSocketPath = "/tmp/prism_comp"

// pumpPollTimeout bounds how long PumpWindow's non-blocking receive waits
// before reporting "nothing this tick".
const pumpPollTimeout = time.Millisecond

// ErrVersionMismatch is returned by OpenWindow when the compositor speaks a
// different protocol revision than this library was built against.
var ErrVersionMismatch = errors.New("client: compositor protocol version mismatch")

// ErrUnexpectedPacket is returned by OpenWindow when the compositor's reply
// during handshake is not the packet kind the protocol requires.
var ErrUnexpectedPacket = errors.New("client: compositor sent an unexpected packet")

// Callback receives every packet PumpWindow doesn't handle internally
// (Closed, Resize, Position are intercepted). A non-nil return is sent back
// to the compositor on the same connection.
type Callback func(p *protocol.Packet) *protocol.Packet

// Client is one open window's connection state.
type Client struct {
	mu            sync.Mutex
	conn          net.Conn
	callback      Callback
	alreadyClosed bool
	size          geometry.Size
	position      geometry.Position
	windowID      uint64
}

var registry struct {
	mu      sync.Mutex
	clients map[*Client]struct{}
}

func init() {
	registry.clients = make(map[*Client]struct{})
}

func registerClient(c *Client) {
	registry.mu.Lock()
	defer registry.mu.Unlock()
	registry.clients[c] = struct{}{}
}

func unregisterClient(c *Client) {
	registry.mu.Lock()
	defer registry.mu.Unlock()
	delete(registry.clients, c)
}

// OpenWindow connects to the canonical compositor socket, creates a window
// of (width, height) with an optional title, and performs the version
// handshake. title == nil means the window gets no title bar.
func OpenWindow(title *string, width, height geometry.ScreenSize, callback Callback) (*Client, error) {
	return openWindowAt(DefaultSocketPath, title, width, height, callback)
}

// openWindowAt is OpenWindow parameterized over the socket path, for tests.
func openWindowAt(socketPath string, title *string, width, height geometry.ScreenSize, callback Callback) (*Client, error) {
	conn, err := net.Dial("unix", socketPath)
	if err != nil {
		return nil, fmt.Errorf("client: connect: %w", err)
	}

	c := &Client{
		conn:     conn,
		callback: callback,
		size:     geometry.Size{Width: width, Height: height},
		position: geometry.Position{X: -1, Y: -1},
	}

	create := protocol.NewCreate(width, height, title)
	if err := protocol.Send(conn, &create); err != nil {
		conn.Close()
		return nil, fmt.Errorf("client: send create: %w", err)
	}

	reply, err := protocol.Receive(conn)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("client: receive create reply: %w", err)
	}
	if reply.Kind != protocol.KindCreateSuccess {
		conn.Close()
		return nil, fmt.Errorf("%w: expected create_success, got %s", ErrUnexpectedPacket, reply.Kind)
	}
	c.windowID = reply.WindowID

	versionReq := protocol.NewRequestAPIVersion()
	if err := protocol.Send(conn, &versionReq); err != nil {
		conn.Close()
		return nil, fmt.Errorf("client: send request_api_version: %w", err)
	}

	versionReply, err := protocol.Receive(conn)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("client: receive version reply: %w", err)
	}
	if versionReply.Kind != protocol.KindAPIVersion {
		conn.Close()
		return nil, fmt.Errorf("%w: expected api_version, got %s", ErrUnexpectedPacket, versionReply.Kind)
	}
	if !versionReply.Version.Equal(protocol.ProtocolVersion) {
		failClose := protocol.NewClose(0)
		protocol.Send(conn, &failClose)
		conn.Close()
		return nil, fmt.Errorf("%w: compositor speaks %+v, library wants %+v",
			ErrVersionMismatch, versionReply.Version, protocol.ProtocolVersion)
	}

	registerClient(c)
	return c, nil
}

// PumpWindow attempts one non-blocking receive. Closed, Resize, and
// Position are intercepted and update cached state without reaching the
// callback; every other packet is passed to the callback, and a non-nil
// return value is sent back to the compositor.
func (c *Client) PumpWindow() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn == nil {
		return nil
	}

	c.conn.SetReadDeadline(time.Now().Add(pumpPollTimeout))
	packet, err := protocol.Receive(c.conn)
	if err != nil {
		if errors.Is(err, protocol.ErrNoPacket) {
			return nil
		}
		return fmt.Errorf("client: pump: %w", err)
	}

	switch packet.Kind {
	case protocol.KindClosed:
		c.alreadyClosed = true
		return nil
	case protocol.KindResize:
		c.size = geometry.Size{Width: packet.SizeWidth, Height: packet.SizeHeight}
		return nil
	case protocol.KindPosition:
		c.position = geometry.Position{X: packet.PosX, Y: packet.PosY}
		return nil
	}

	if c.callback == nil {
		return nil
	}
	if reply := c.callback(packet); reply != nil {
		if err := protocol.Send(c.conn, reply); err != nil {
			return fmt.Errorf("client: send callback reply: %w", err)
		}
	}
	return nil
}

// GetWindowSize returns the last known size (from construction or a cached
// Resize notification).
func (c *Client) GetWindowSize() geometry.Size {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.size
}

// GetWindowPosition returns the last known position (-1,-1 until the
// compositor has sent one).
func (c *Client) GetWindowPosition() geometry.Position {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.position
}

// IsClosed reports whether PumpWindow has observed a Closed packet from the
// compositor. The callback is never invoked for Closed, so callers that need
// to know when to stop pumping poll this instead.
func (c *Client) IsClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.alreadyClosed
}

// CloseWindow sends Close unless the compositor already told us the window
// is gone, then unregisters the client. Safe to call more than once.
func (c *Client) CloseWindow() {
	c.mu.Lock()
	if !c.alreadyClosed && c.conn != nil {
		closePkt := protocol.NewClose(c.windowID)
		protocol.Send(c.conn, &closePkt)
	}
	if c.conn != nil {
		c.conn.Close()
		c.conn = nil
	}
	c.mu.Unlock()

	unregisterClient(c)
}
