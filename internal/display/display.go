// Package display implements the DisplayServer: the sole authoritative
// model of the compositor's windows, cursor, and dirty-layer state. All
// mutation is gated behind a single writer lock; reads may be concurrent.
package display

import (
	"fmt"
	"math/rand/v2"
	"sync"

	"github.com/pheonixfirewingz/crystal-desktop/internal/renderer"
	"github.com/pheonixfirewingz/crystal-desktop/internal/window"
	"github.com/pheonixfirewingz/crystal-desktop/pkg/geometry"
)

const (
	resizeCornerThreshold geometry.ScreenSize = 7
	resizeEdgeThreshold   geometry.ScreenSize = 7
	titleBarThreshold     geometry.ScreenSize = 30 + window.Padding
	minWindowExtent       geometry.ScreenSize = 200
)

// DisplayServer is the compositor's authoritative model. Zero value is not
// usable; construct with New.
type DisplayServer struct {
	mu sync.RWMutex

	windows map[uint64]*window.Window
	mouse   geometry.Mouse

	width, height geometry.ScreenSize

	mouseDirty      bool
	windowDirty     bool
	backgroundDirty bool

	lowStateMode bool

	renderer renderer.Renderer
}

// New constructs an empty DisplayServer for the given screen extent.
func New(width, height geometry.ScreenSize) *DisplayServer {
	return &DisplayServer{
		windows:         make(map[uint64]*window.Window),
		width:           width,
		height:          height,
		backgroundDirty: true,
	}
}

// AddWindow inserts w under a fresh random 64-bit id, retrying on the rare
// collision against the live table, and marks the window layer dirty.
func (d *DisplayServer) AddWindow(w *window.Window) uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()

	var id uint64
	for {
		id = rand.Uint64()
		if id == 0 {
			continue
		}
		if _, exists := d.windows[id]; !exists {
			break
		}
	}
	d.windows[id] = w
	d.windowDirty = true
	return id
}

// RemoveWindow deletes the window, if present, and marks the window layer
// dirty. Idempotent: removing an absent id is not an error.
func (d *DisplayServer) RemoveWindow(id uint64) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, exists := d.windows[id]; !exists {
		return
	}
	delete(d.windows, id)
	d.windowDirty = true
}

// Window returns the window for id, if present.
func (d *DisplayServer) Window(id uint64) (*window.Window, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	w, ok := d.windows[id]
	return w, ok
}

// SetActiveWindow clears Active on every other window and sets it on id.
// A DisplayServer has at most one Active window at a time.
func (d *DisplayServer) SetActiveWindow(id uint64) {
	d.mu.Lock()
	defer d.mu.Unlock()

	for wid, w := range d.windows {
		w.SetActive(wid == id)
	}
	d.windowDirty = true
}

// GetCenter returns a Rect of the given extent centered on the current
// screen, for initial window placement.
func (d *DisplayServer) GetCenter(width, height geometry.ScreenSize) geometry.Rect {
	d.mu.RLock()
	defer d.mu.RUnlock()

	x := (d.width - width) / 2
	y := (d.height - height) / 2
	return geometry.NewRect(x, y, width, height)
}

// GetWindowPos returns windowID's current position.
func (d *DisplayServer) GetWindowPos(id uint64) (geometry.Position, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	w, ok := d.windows[id]
	if !ok {
		return geometry.Position{}, fmt.Errorf("display: unknown window %d", id)
	}
	x, y := w.GetPosition()
	return geometry.Position{X: x, Y: y}, nil
}

// GetWindowSize returns windowID's current extent.
func (d *DisplayServer) GetWindowSize(id uint64) (geometry.Size, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	w, ok := d.windows[id]
	if !ok {
		return geometry.Size{}, fmt.Errorf("display: unknown window %d", id)
	}
	width, height := w.GetSize()
	return geometry.Size{Width: width, Height: height}, nil
}

// UpdateWindowFrameBuffer stores a fresh frame buffer for windowID. Actual
// GPU upload is deferred to the renderer on the next Tick.
func (d *DisplayServer) UpdateWindowFrameBuffer(id uint64, buf []byte) {
	d.mu.Lock()
	defer d.mu.Unlock()

	w, ok := d.windows[id]
	if !ok {
		return
	}
	w.UpdateFrameBuffer(buf)
	d.windowDirty = true
}

// UpdateMousePos applies a relative motion delta to the cursor and marks
// the mouse layer dirty.
func (d *DisplayServer) UpdateMousePos(dx, dy geometry.ScreenSize) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.mouse.AddPosition(dx, dy)
	d.mouseDirty = true
}

// UpdateMouseWheelDelta accumulates wheel motion. Does not mark anything
// dirty — the wheel itself is never rendered.
func (d *DisplayServer) UpdateMouseWheelDelta(dx, dy float32) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.mouse.AddWheelDelta(dx, dy)
}

// UpdateButtonState sets the pressed state of button code 0 (left), 1
// (right), or 2 (middle). Other codes are ignored.
func (d *DisplayServer) UpdateButtonState(code uint8, pressed bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.mouse.SetButton(geometry.MouseButton(code), pressed)
}

// SetupRenderer installs the renderer. Called exactly once by the graphics
// thread after it creates the graphics context.
func (d *DisplayServer) SetupRenderer(r renderer.Renderer) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.renderer = r
}

// SetLowStateMode suspends (true) or resumes (false) rendering.
func (d *DisplayServer) SetLowStateMode(low bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.lowStateMode = low
}

// LowStateMode reports whether rendering is currently suspended.
func (d *DisplayServer) LowStateMode() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()

	return d.lowStateMode
}

// Tick is the compositor heartbeat: it applies any drag/resize interaction,
// rebuilds only dirty layers, and composites. Panics if no renderer has
// been installed — SetupRenderer must run before the first Tick.
func (d *DisplayServer) Tick() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.lowStateMode {
		return
	}

	d.update()

	if d.renderer == nil {
		panic("display: Tick called before SetupRenderer")
	}

	if d.mouseDirty {
		d.renderer.RerenderMouse(d.mouse.X, d.mouse.Y)
		d.mouseDirty = false
	}
	if d.windowDirty {
		d.renderer.RerenderWindows(d.windows)
		d.windowDirty = false
	}
	if d.backgroundDirty {
		d.renderer.RerenderBackground(nil)
		d.backgroundDirty = false
	}
	d.renderer.Render()
}

// update applies drag/resize interaction to the first Active window found,
// and only while the left mouse button is held. Must be called with d.mu
// already held for writing.
func (d *DisplayServer) update() {
	if !d.mouse.ButtonLeft {
		return
	}

	for _, w := range d.windows {
		if !w.IsActive() {
			continue
		}
		d.applyDragResize(w)
		return
	}
}

func (d *DisplayServer) applyDragResize(w *window.Window) {
	rect := w.GetRenderRect()
	mx, my := d.mouse.X, d.mouse.Y
	relX, relY := d.mouse.RelX, d.mouse.RelY

	switch {
	case rect.IsNearBottomRight(mx, my, resizeCornerThreshold):
		width, height := w.GetSize()
		width = clampMin(width+relX, minWindowExtent)
		height = clampMin(height+relY, minWindowExtent)
		w.ResizeWindow(width, height)

	case rect.IsNearRight(mx, my, resizeEdgeThreshold):
		width, height := w.GetSize()
		width = clampMin(width+relX, minWindowExtent)
		w.ResizeWindow(width, height)

	case rect.IsNearBottom(mx, my, resizeEdgeThreshold):
		width, height := w.GetSize()
		height = clampMin(height+relY, minWindowExtent)
		w.ResizeWindow(width, height)

	case rect.IsNearTop(mx, my, titleBarThreshold):
		x, y := w.GetPosition()
		width, height := w.GetSize()
		x = clampRange(x+relX, 0, d.width-width)
		y = clampRange(y+relY, 0, d.height-height)
		w.SetRect(geometry.NewRect(x, y, width, height))

	default:
		return
	}
	d.windowDirty = true
}

func clampMin(v, min geometry.ScreenSize) geometry.ScreenSize {
	if v < min {
		return min
	}
	return v
}

func clampRange(v, lo, hi geometry.ScreenSize) geometry.ScreenSize {
	if hi < lo {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Cleanup releases the renderer and clears the window table.
func (d *DisplayServer) Cleanup() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.renderer != nil {
		d.renderer.Cleanup()
		d.renderer = nil
	}
	d.windows = make(map[uint64]*window.Window)
}
