// Package protocol defines the wire format exchanged between the Prism
// compositor and CrystalMatrix clients: a length-prefixed frame carrying a
// tagged-variant Packet, plus the length-prefixed send/receive codec.
package protocol

import "github.com/pheonixfirewingz/crystal-desktop/pkg/geometry"

// ProtocolVersion is the exact version this build speaks. Any mismatch on
// handshake is a hard reject — there is no backward compatibility within 0.x.
var ProtocolVersion = Version{Major: 0, Minor: 0, Patch: 1}

// Version is the three-part protocol version exchanged during handshake.
type Version struct {
	Major uint8 `json:"major"`
	Minor uint8 `json:"minor"`
	Patch uint8 `json:"patch"`
}

// Equal compares two versions for exact equality, the only comparison this
// revision of the protocol defines.
func (v Version) Equal(o Version) bool {
	return v.Major == o.Major && v.Minor == o.Minor && v.Patch == o.Patch
}

// Kind discriminates the Packet union on the wire.
type Kind string

const (
	// Client -> Server
	KindCreate                Kind = "create"
	KindClose                 Kind = "close"
	KindPaint                 Kind = "paint"
	KindRequestAPIVersion     Kind = "request_api_version"
	KindRequestWindowPosition Kind = "request_window_position"
	KindRequestWindowSize     Kind = "request_window_size"

	// Server -> Client
	KindCreateSuccess Kind = "create_success"
	KindClosed        Kind = "closed"
	KindMouseEnter    Kind = "mouse_enter"
	KindMouseLeave    Kind = "mouse_leave"
	KindMousePosition Kind = "mouse_position"
	KindMouseDown     Kind = "mouse_down"
	KindMouseUp       Kind = "mouse_up"
	KindKeyDown       Kind = "key_down"
	KindKeyUp         Kind = "key_up"
	KindPosition      Kind = "position"
	KindSize          Kind = "size"
	KindResize        Kind = "resize"
	KindSuspend       Kind = "suspend"
	KindResume        Kind = "resume"
	KindDemandPaint   Kind = "demand_paint"
	KindAPIVersion    Kind = "api_version"
)

// Packet is the tagged union of every message exchanged on the wire. Only
// the fields relevant to Kind are populated; the rest stay zero-valued. This
// mirrors a Rust enum's per-variant payload as one flattened struct, the
// shape that round-trips cleanly through encoding/json.
type Packet struct {
	Kind Kind `json:"kind"`

	// Create
	Width  geometry.ScreenSize `json:"width,omitempty"`
	Height geometry.ScreenSize `json:"height,omitempty"`
	Title  *string             `json:"title,omitempty"`

	// Close / CreateSuccess / Paint / RequestWindowPosition / RequestWindowSize
	WindowID uint64 `json:"window_id,omitempty"`

	// Paint
	Buffer []byte `json:"buffer,omitempty"`

	// MousePosition / MouseDown / MouseUp
	MouseX geometry.ScreenSize `json:"mouse_x,omitempty"`
	MouseY geometry.ScreenSize `json:"mouse_y,omitempty"`

	// MouseDown / MouseUp
	Button geometry.MouseButton `json:"button,omitempty"`

	// KeyDown / KeyUp
	Key       geometry.KeyCode   `json:"key,omitzero"`
	Modifiers geometry.Modifiers `json:"modifiers,omitzero"`

	// Position
	PosX geometry.ScreenSize `json:"pos_x,omitempty"`
	PosY geometry.ScreenSize `json:"pos_y,omitempty"`

	// Size / Resize
	SizeWidth  geometry.ScreenSize `json:"size_width,omitempty"`
	SizeHeight geometry.ScreenSize `json:"size_height,omitempty"`

	// APIVersion
	Version Version `json:"version,omitzero"`
}

// NewCreate builds a client->server Create packet.
func NewCreate(width, height geometry.ScreenSize, title *string) Packet {
	return Packet{Kind: KindCreate, Width: width, Height: height, Title: title}
}

// NewClose builds a Close packet naming the window to close.
func NewClose(windowID uint64) Packet {
	return Packet{Kind: KindClose, WindowID: windowID}
}

// NewPaint builds a client->server Paint packet carrying a frame buffer.
func NewPaint(windowID uint64, buffer []byte) Packet {
	return Packet{Kind: KindPaint, WindowID: windowID, Buffer: buffer}
}

// NewRequestAPIVersion builds the version-handshake request.
func NewRequestAPIVersion() Packet {
	return Packet{Kind: KindRequestAPIVersion}
}

// NewRequestWindowPosition builds a position query for windowID.
func NewRequestWindowPosition(windowID uint64) Packet {
	return Packet{Kind: KindRequestWindowPosition, WindowID: windowID}
}

// NewRequestWindowSize builds a size query for windowID.
func NewRequestWindowSize(windowID uint64) Packet {
	return Packet{Kind: KindRequestWindowSize, WindowID: windowID}
}

// NewCreateSuccess builds the server's reply to a successful Create.
func NewCreateSuccess(windowID uint64) Packet {
	return Packet{Kind: KindCreateSuccess, WindowID: windowID}
}

// NewClosed builds the server->client notice that a window was closed.
func NewClosed() Packet {
	return Packet{Kind: KindClosed}
}

// NewMouseEnter builds a cursor-entered-window notice.
func NewMouseEnter() Packet { return Packet{Kind: KindMouseEnter} }

// NewMouseLeave builds a cursor-left-window notice.
func NewMouseLeave() Packet { return Packet{Kind: KindMouseLeave} }

// NewMousePosition builds a cursor-position update.
func NewMousePosition(x, y geometry.ScreenSize) Packet {
	return Packet{Kind: KindMousePosition, MouseX: x, MouseY: y}
}

// NewMouseDown builds a button-press event at (x, y).
func NewMouseDown(button geometry.MouseButton, x, y geometry.ScreenSize) Packet {
	return Packet{Kind: KindMouseDown, Button: button, MouseX: x, MouseY: y}
}

// NewMouseUp builds a button-release event at (x, y).
func NewMouseUp(button geometry.MouseButton, x, y geometry.ScreenSize) Packet {
	return Packet{Kind: KindMouseUp, Button: button, MouseX: x, MouseY: y}
}

// NewKeyDown builds a key-press event.
func NewKeyDown(key geometry.KeyCode, mods geometry.Modifiers) Packet {
	return Packet{Kind: KindKeyDown, Key: key, Modifiers: mods}
}

// NewKeyUp builds a key-release event.
func NewKeyUp(key geometry.KeyCode, mods geometry.Modifiers) Packet {
	return Packet{Kind: KindKeyUp, Key: key, Modifiers: mods}
}

// NewPosition builds a window-position notification.
func NewPosition(x, y geometry.ScreenSize) Packet {
	return Packet{Kind: KindPosition, PosX: x, PosY: y}
}

// NewSize builds a window-size notification (answer to RequestWindowSize).
func NewSize(width, height geometry.ScreenSize) Packet {
	return Packet{Kind: KindSize, SizeWidth: width, SizeHeight: height}
}

// NewResize builds an unsolicited resize notification.
func NewResize(width, height geometry.ScreenSize) Packet {
	return Packet{Kind: KindResize, SizeWidth: width, SizeHeight: height}
}

// NewSuspend builds a render-suspend notice (low state mode entered).
func NewSuspend() Packet { return Packet{Kind: KindSuspend} }

// NewResume builds a render-resume notice.
func NewResume() Packet { return Packet{Kind: KindResume} }

// NewDemandPaint asks the client to repaint and send a fresh frame buffer.
func NewDemandPaint() Packet { return Packet{Kind: KindDemandPaint} }

// NewAPIVersion builds the server's reply to RequestAPIVersion.
func NewAPIVersion(v Version) Packet {
	return Packet{Kind: KindAPIVersion, Version: v}
}
