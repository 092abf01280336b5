package window

import (
	"testing"

	"github.com/pheonixfirewingz/crystal-desktop/pkg/geometry"
)

func TestMaximizeThenRestore(t *testing.T) {
	w := New("T", true, geometry.NewRect(10, 10, 200, 150))

	w.Maximize()
	if !w.IsMaximized() || w.IsMinimized() {
		t.Fatalf("expected maximized only, flags state wrong")
	}

	w.Restore()
	if w.IsMaximized() || w.IsMinimized() {
		t.Fatalf("expected both flags clear after restore")
	}
	got := w.GetRenderRect()
	want := geometry.NewRect(10, 10, 200, 150)
	if got != want {
		t.Fatalf("GetRenderRect after restore = %+v, want %+v", got, want)
	}
}

func TestMinimizeThenRestore(t *testing.T) {
	w := New("T", true, geometry.NewRect(5, 5, 300, 200))

	w.Minimize()
	if !w.IsMinimized() || w.IsMaximized() {
		t.Fatalf("expected minimized only, flags state wrong")
	}

	w.Restore()
	if w.IsMaximized() || w.IsMinimized() {
		t.Fatalf("expected both flags clear after restore")
	}
	got := w.GetRenderRect()
	want := geometry.NewRect(5, 5, 300, 200)
	if got != want {
		t.Fatalf("GetRenderRect after restore = %+v, want %+v", got, want)
	}
}

func TestMaximizedAndMinimizedMutuallyExclusive(t *testing.T) {
	w := New("T", true, geometry.NewRect(0, 0, 100, 100))

	w.Maximize()
	w.Minimize()
	if w.IsMaximized() {
		t.Fatal("Minimize should clear Maximized")
	}
	if !w.IsMinimized() {
		t.Fatal("expected Minimized set")
	}

	w.Maximize()
	if w.IsMinimized() {
		t.Fatal("Maximize should clear Minimized")
	}
	if !w.IsMaximized() {
		t.Fatal("expected Maximized set")
	}
}

func TestMoveWindowNoOpWhileMaximized(t *testing.T) {
	w := New("T", true, geometry.NewRect(0, 0, 100, 100))
	w.Maximize()
	w.MoveWindow(10, 10)

	x, y := w.GetPosition()
	if x != 0 || y != 0 {
		t.Fatalf("MoveWindow should be a no-op while maximized, got (%d, %d)", x, y)
	}
}

func TestResizeWindowNoOpWhileMaximizedOrMinimized(t *testing.T) {
	w := New("T", true, geometry.NewRect(0, 0, 100, 100))

	w.Maximize()
	w.ResizeWindow(500, 500)
	width, height := w.GetSize()
	if width != 100 || height != 100 {
		t.Fatalf("ResizeWindow should be a no-op while maximized, got (%d, %d)", width, height)
	}

	w.Restore()
	w.Minimize()
	w.ResizeWindow(500, 500)
	width, height = w.GetSize()
	if width != 100 || height != 100 {
		t.Fatalf("ResizeWindow should be a no-op while minimized, got (%d, %d)", width, height)
	}
}

func TestRestoreNoOpWithoutPriorMaximizeOrMinimize(t *testing.T) {
	w := New("T", true, geometry.NewRect(1, 2, 3, 4))
	w.Restore()

	got := w.GetRenderRect()
	want := geometry.NewRect(1, 2, 3, 4)
	if got != want {
		t.Fatalf("Restore without prior state should be a no-op, got %+v", got)
	}
}

func TestSetIconAndRemoveIconNoOps(t *testing.T) {
	w := New("T", true, geometry.NewRect(0, 0, 10, 10))

	w.RemoveIcon()
	if w.flags&HasIcon != 0 {
		t.Fatal("RemoveIcon on an iconless window should be a no-op")
	}

	w.SetIcon(nil)
	if w.flags&HasIcon != 0 {
		t.Fatal("SetIcon with an empty icon should be a no-op")
	}

	w.SetIcon([]byte{1, 2, 3})
	if w.flags&HasIcon == 0 || w.Icon() == nil {
		t.Fatal("expected HasIcon set and icon bytes stored")
	}

	w.RemoveIcon()
	if w.flags&HasIcon != 0 || w.Icon() != nil {
		t.Fatal("expected icon cleared after RemoveIcon")
	}
}

func TestToggleTitleBar(t *testing.T) {
	w := New("T", true, geometry.NewRect(0, 0, 10, 10))
	if !w.DrawTitleBar() {
		t.Fatal("expected title bar on by construction")
	}
	w.ToggleTitleBar()
	if w.DrawTitleBar() {
		t.Fatal("expected title bar off after toggle")
	}
}

func TestSetActive(t *testing.T) {
	w := New("T", true, geometry.NewRect(0, 0, 10, 10))
	if w.IsActive() {
		t.Fatal("expected not active by construction")
	}
	w.SetActive(true)
	if !w.IsActive() {
		t.Fatal("expected active after SetActive(true)")
	}
	w.SetActive(false)
	if w.IsActive() {
		t.Fatal("expected inactive after SetActive(false)")
	}
}
