// Package renderer defines the contract the display server uses to
// composite its layers. Implementation of a real GPU backend is out of
// scope; this package provides the interface plus a headless mock for
// tests that exercise DisplayServer.Tick without a graphics context.
package renderer

import "github.com/pheonixfirewingz/crystal-desktop/internal/window"

// Renderer composites the three layers a DisplayServer maintains: mouse,
// window, and background. It is only ever called from the thread that owns
// the graphics context, never from the network thread.
type Renderer interface {
	// RerenderMouse repaints the cursor layer at (x, y).
	RerenderMouse(x, y int32)
	// RerenderWindows repaints all non-minimized windows into the window
	// layer, including title bar and icon slot where applicable.
	RerenderWindows(windows map[uint64]*window.Window)
	// RerenderBackground replaces the background layer.
	RerenderBackground(texture []byte)
	// Render composites background -> window -> mouse and presents.
	Render()
	// Cleanup releases any GPU resources held by the renderer.
	Cleanup()
}
