package protocol

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
)

// MaxFrameSize is the largest payload this codec will accept. Frames whose
// length prefix exceeds this are rejected as malformed without reading the
// body.
const MaxFrameSize = 10 * 1024 * 1024

// ErrFrameTooLarge is returned by Receive when the length prefix exceeds
// MaxFrameSize.
var ErrFrameTooLarge = errors.New("protocol: frame exceeds max size")

// ErrNoPacket is returned by Receive when the underlying connection reported
// WouldBlock/timeout while reading the 4-byte length prefix — not an error
// condition, just "nothing to read this tick".
var ErrNoPacket = errors.New("protocol: no packet available")

// Send encodes p and writes it to conn as a length-prefixed frame: a 4-byte
// little-endian length followed by the JSON-encoded payload.
func Send(conn net.Conn, p *Packet) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("protocol: marshal packet: %w", err)
	}
	if len(data) > MaxFrameSize {
		return fmt.Errorf("protocol: encoded packet too large: %d > %d", len(data), MaxFrameSize)
	}

	header := make([]byte, 4)
	binary.LittleEndian.PutUint32(header, uint32(len(data)))

	if n, err := conn.Write(header); err != nil {
		return fmt.Errorf("protocol: write length prefix: %w", err)
	} else if n != len(header) {
		return fmt.Errorf("protocol: short write of length prefix: %d/%d", n, len(header))
	}
	if n, err := conn.Write(data); err != nil {
		return fmt.Errorf("protocol: write payload: %w", err)
	} else if n != len(data) {
		return fmt.Errorf("protocol: short write of payload: %d/%d", n, len(data))
	}
	return nil
}

// Receive reads one length-prefixed frame from conn and decodes it into a
// Packet. A WouldBlock/timeout while reading the 4-byte prefix is reported
// as ErrNoPacket, not a hard error — callers poll non-blocking connections
// once per tick and treat "nothing yet" as a no-op.
func Receive(conn net.Conn) (*Packet, error) {
	header := make([]byte, 4)
	if _, err := io.ReadFull(conn, header); err != nil {
		if isWouldBlock(err) {
			return nil, ErrNoPacket
		}
		return nil, fmt.Errorf("protocol: read length prefix: %w", err)
	}

	length := binary.LittleEndian.Uint32(header)
	if length > MaxFrameSize {
		return nil, ErrFrameTooLarge
	}

	body := make([]byte, length)
	if _, err := io.ReadFull(conn, body); err != nil {
		return nil, fmt.Errorf("protocol: read payload: %w", err)
	}

	var p Packet
	if err := json.Unmarshal(body, &p); err != nil {
		return nil, fmt.Errorf("protocol: unmarshal packet: %w", err)
	}
	return &p, nil
}

// isWouldBlock reports whether err signals "no data available right now" on
// a non-blocking or deadline-bearing connection (timeout or EAGAIN-style
// errors), as opposed to a genuine connection failure.
func isWouldBlock(err error) bool {
	var netErr net.Error
	if errors.As(err, &netErr) {
		return netErr.Timeout()
	}
	return false
}
