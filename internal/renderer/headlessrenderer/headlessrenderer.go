// Package headlessrenderer is the Renderer the compositor binary runs with
// in the absence of a GPU backend (font rasterization and GPU presentation
// are out of scope for this module). It satisfies the dirty-flag contract
// DisplayServer.Tick relies on without drawing anything, and logs at debug
// level so a running compositor is still observable.
package headlessrenderer

import (
	"github.com/pheonixfirewingz/crystal-desktop/internal/logging"
	"github.com/pheonixfirewingz/crystal-desktop/internal/window"
)

var log = logging.L("renderer")

// Renderer is a no-op Renderer with debug logging in place of a draw call.
type Renderer struct{}

// New returns a ready-to-use headless Renderer.
func New() *Renderer { return &Renderer{} }

func (r *Renderer) RerenderMouse(x, y int32) {
	log.Debug("rerender mouse layer", "x", x, "y", y)
}

func (r *Renderer) RerenderWindows(windows map[uint64]*window.Window) {
	log.Debug("rerender window layer", "window_count", len(windows))
}

func (r *Renderer) RerenderBackground(texture []byte) {
	log.Debug("rerender background layer", "bytes", len(texture))
}

func (r *Renderer) Render() {
	log.Debug("present frame")
}

func (r *Renderer) Cleanup() {
	log.Debug("renderer cleanup")
}
