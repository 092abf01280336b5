// Package window models a single compositor window: its geometry, flags,
// and restore state. Pure value operations — no I/O, no locking. The
// DisplayServer owns concurrency; this package is the thing it protects.
package window

import "github.com/pheonixfirewingz/crystal-desktop/pkg/geometry"

// Flags bit-packs the boolean state of a window.
type Flags uint8

const (
	TitleBar  Flags = 1 << 0
	Maximized Flags = 1 << 1
	Minimized Flags = 1 << 2
	Active    Flags = 1 << 3
	HasIcon   Flags = 1 << 4
)

// Padding is added to the title-bar drag zone's threshold, matching the
// original compositor's spacing around the title bar.
const Padding geometry.ScreenSize = 2

// Window is one client's on-screen surface.
type Window struct {
	rect        geometry.Rect
	flags       Flags
	restoreRect geometry.Rect
	hasRestore  bool
	icon        []byte
	frameBuffer []byte
	title       string
}

// New builds a window at rect with the given title and title-bar visibility.
func New(title string, hasTitleBar bool, rect geometry.Rect) *Window {
	w := &Window{title: title, rect: rect}
	if hasTitleBar {
		w.flags |= TitleBar
	}
	return w
}

// MoveWindow translates the window's position. No-op while maximized.
func (w *Window) MoveWindow(dx, dy geometry.ScreenSize) {
	if w.flags&Maximized != 0 {
		return
	}
	w.rect.SetPos(w.rect.Position.X+dx, w.rect.Position.Y+dy)
}

// ResizeWindow changes the window's extent. No-op while maximized or minimized.
func (w *Window) ResizeWindow(width, height geometry.ScreenSize) {
	if w.flags&(Maximized|Minimized) != 0 {
		return
	}
	w.rect.SetSize(width, height)
}

// Maximize stashes the current rect in restoreRect (unless one is already
// held by Minimize), sets Maximized, and clears Minimized. The rect itself
// is left unchanged; the renderer fills the full screen for a Maximized
// window without the model needing to know the viewport size.
func (w *Window) Maximize() {
	if !w.hasRestore {
		w.restoreRect = w.rect
		w.hasRestore = true
	}
	w.flags |= Maximized
	w.flags &^= Minimized
}

// Minimize is Maximize's symmetrical counterpart: it stashes the current
// rect, sets Minimized, and clears Maximized. The window keeps its rect
// value (renderer omits minimized windows from the window layer).
func (w *Window) Minimize() {
	if !w.hasRestore {
		w.restoreRect = w.rect
		w.hasRestore = true
	}
	w.flags |= Minimized
	w.flags &^= Maximized
}

// Restore reinstates the pre-maximize/minimize rect and clears both flags.
// No-op if neither flag is set.
func (w *Window) Restore() {
	if !w.hasRestore {
		return
	}
	w.rect = w.restoreRect
	w.hasRestore = false
	w.flags &^= Maximized | Minimized
}

// SetActive sets or clears the Active flag. The DisplayServer is responsible
// for ensuring at most one window is Active at a time.
func (w *Window) SetActive(active bool) {
	if active {
		w.flags |= Active
	} else {
		w.flags &^= Active
	}
}

// IsActive reports whether the Active flag is set.
func (w *Window) IsActive() bool { return w.flags&Active != 0 }

// IsMaximized reports whether the Maximized flag is set.
func (w *Window) IsMaximized() bool { return w.flags&Maximized != 0 }

// IsMinimized reports whether the Minimized flag is set.
func (w *Window) IsMinimized() bool { return w.flags&Minimized != 0 }

// ToggleTitleBar flips the TitleBar flag.
func (w *Window) ToggleTitleBar() { w.flags ^= TitleBar }

// DrawTitleBar reports whether the title bar should be rendered.
func (w *Window) DrawTitleBar() bool { return w.flags&TitleBar != 0 }

// SetIcon installs icon bytes and sets HasIcon. A nil/empty icon is a no-op.
func (w *Window) SetIcon(icon []byte) {
	if len(icon) == 0 {
		return
	}
	w.icon = icon
	w.flags |= HasIcon
}

// RemoveIcon clears the icon and HasIcon. No-op if there was no icon.
func (w *Window) RemoveIcon() {
	if w.flags&HasIcon == 0 {
		return
	}
	w.icon = nil
	w.flags &^= HasIcon
}

// Icon returns the current icon bytes, or nil if none is set.
func (w *Window) Icon() []byte { return w.icon }

// UpdateFrameBuffer replaces the window's pixel buffer.
func (w *Window) UpdateFrameBuffer(buf []byte) { w.frameBuffer = buf }

// FrameBuffer returns the window's current pixel buffer.
func (w *Window) FrameBuffer() []byte { return w.frameBuffer }

// UpdateTitle replaces the window's title. Empty titles are accepted; the
// caller decides what an empty title means.
func (w *Window) UpdateTitle(title string) { w.title = title }

// Title returns the window's current title.
func (w *Window) Title() string { return w.title }

// GetSize returns the window's current width and height.
func (w *Window) GetSize() (geometry.ScreenSize, geometry.ScreenSize) {
	return w.rect.Size.Width, w.rect.Size.Height
}

// GetPosition returns the window's current top-left position.
func (w *Window) GetPosition() (geometry.ScreenSize, geometry.ScreenSize) {
	return w.rect.Position.X, w.rect.Position.Y
}

// GetRenderRect returns the window's current geometry for the compositor.
func (w *Window) GetRenderRect() geometry.Rect { return w.rect }

// SetRect replaces the window's geometry directly (used by DisplayServer's
// drag/resize interaction, which already has clamping applied).
func (w *Window) SetRect(r geometry.Rect) { w.rect = r }
