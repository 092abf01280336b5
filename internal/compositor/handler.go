package compositor

import (
	"sync"

	"github.com/pheonixfirewingz/crystal-desktop/internal/display"
	"github.com/pheonixfirewingz/crystal-desktop/internal/window"
	"github.com/pheonixfirewingz/crystal-desktop/pkg/protocol"
)

// DisplayHandler is the default PacketHandler ("Prism" glue): the only call
// site that mutates a DisplayServer from the network thread. It keeps an
// auxiliary mapping from a connection's wire id to the window id the
// DisplayServer assigned it, since the two id spaces are independent.
type DisplayHandler struct {
	display *display.DisplayServer

	mu           sync.Mutex
	wireToWindow map[uint64]uint64
}

// NewDisplayHandler binds a handler to d.
func NewDisplayHandler(d *display.DisplayServer) *DisplayHandler {
	return &DisplayHandler{
		display:      d,
		wireToWindow: make(map[uint64]uint64),
	}
}

// HandlePacket dispatches one packet received on connection wireID.
func (h *DisplayHandler) HandlePacket(wireID uint64, p *protocol.Packet) (*protocol.Packet, error) {
	switch p.Kind {
	case protocol.KindCreate:
		return h.handleCreate(wireID, p), nil

	case protocol.KindClose:
		return h.handleClose(wireID), nil

	case protocol.KindPaint:
		h.handlePaint(wireID, p)
		return nil, nil

	case protocol.KindRequestWindowPosition:
		return h.handleRequestPosition(wireID), nil

	case protocol.KindRequestWindowSize:
		return h.handleRequestSize(wireID), nil

	default:
		log.Warn("unhandled packet kind", "kind", p.Kind, "wire_id", wireID)
		return nil, nil
	}
}

func (h *DisplayHandler) handleCreate(wireID uint64, p *protocol.Packet) *protocol.Packet {
	rect := h.display.GetCenter(p.Width, p.Height)
	w := window.New(titleOf(p.Title), p.Title != nil, rect)

	windowID := h.display.AddWindow(w)
	h.display.SetActiveWindow(windowID)

	h.mu.Lock()
	h.wireToWindow[wireID] = windowID
	h.mu.Unlock()

	log.Info("window created", "wire_id", wireID, "window_id", windowID)
	reply := protocol.NewCreateSuccess(windowID)
	return &reply
}

func (h *DisplayHandler) handleClose(wireID uint64) *protocol.Packet {
	h.mu.Lock()
	windowID, ok := h.wireToWindow[wireID]
	delete(h.wireToWindow, wireID)
	h.mu.Unlock()

	if ok {
		h.display.RemoveWindow(windowID)
	}
	reply := protocol.NewClosed()
	return &reply
}

func (h *DisplayHandler) handlePaint(wireID uint64, p *protocol.Packet) {
	windowID, ok := h.windowFor(wireID)
	if !ok {
		return
	}
	h.display.UpdateWindowFrameBuffer(windowID, p.Buffer)
}

func (h *DisplayHandler) handleRequestPosition(wireID uint64) *protocol.Packet {
	windowID, ok := h.windowFor(wireID)
	if !ok {
		return nil
	}
	pos, err := h.display.GetWindowPos(windowID)
	if err != nil {
		log.Warn("position request for missing window", "window_id", windowID, "error", err)
		return nil
	}
	reply := protocol.NewPosition(pos.X, pos.Y)
	return &reply
}

func (h *DisplayHandler) handleRequestSize(wireID uint64) *protocol.Packet {
	windowID, ok := h.windowFor(wireID)
	if !ok {
		return nil
	}
	size, err := h.display.GetWindowSize(windowID)
	if err != nil {
		log.Warn("size request for missing window", "window_id", windowID, "error", err)
		return nil
	}
	reply := protocol.NewSize(size.Width, size.Height)
	return &reply
}

func (h *DisplayHandler) windowFor(wireID uint64) (uint64, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	windowID, ok := h.wireToWindow[wireID]
	return windowID, ok
}

func titleOf(title *string) string {
	if title == nil {
		return ""
	}
	return *title
}
