// Package mockrenderer is a headless Renderer implementation used by tests
// to assert on dirty-flag handling without a graphics context: each layer
// method just counts how many times it was invoked.
package mockrenderer

import (
	"sync"

	"github.com/pheonixfirewingz/crystal-desktop/internal/window"
)

// Mock counts calls to each Renderer method. Safe for concurrent use.
type Mock struct {
	mu sync.Mutex

	MouseCalls      int
	WindowCalls     int
	BackgroundCalls int
	RenderCalls     int
	CleanupCalls    int

	LastMouseX, LastMouseY int32
	LastWindowCount        int
}

// New returns a ready-to-use Mock.
func New() *Mock { return &Mock{} }

func (m *Mock) RerenderMouse(x, y int32) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.MouseCalls++
	m.LastMouseX, m.LastMouseY = x, y
}

func (m *Mock) RerenderWindows(windows map[uint64]*window.Window) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.WindowCalls++
	m.LastWindowCount = len(windows)
}

func (m *Mock) RerenderBackground(texture []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.BackgroundCalls++
}

func (m *Mock) Render() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RenderCalls++
}

func (m *Mock) Cleanup() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CleanupCalls++
}
