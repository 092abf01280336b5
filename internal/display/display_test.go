package display

import (
	"testing"

	"github.com/pheonixfirewingz/crystal-desktop/internal/renderer/mockrenderer"
	"github.com/pheonixfirewingz/crystal-desktop/internal/window"
	"github.com/pheonixfirewingz/crystal-desktop/pkg/geometry"
)

func TestAddWindowAssignsUniqueID(t *testing.T) {
	d := New(1920, 1080)
	w1 := window.New("a", true, d.GetCenter(640, 480))
	w2 := window.New("b", true, d.GetCenter(320, 240))

	id1 := d.AddWindow(w1)
	id2 := d.AddWindow(w2)
	if id1 == id2 {
		t.Fatalf("expected distinct ids, got %d and %d", id1, id2)
	}
	if got, ok := d.Window(id1); !ok || got != w1 {
		t.Fatal("Window(id1) did not return the inserted window")
	}
}

func TestRemoveWindowIdempotent(t *testing.T) {
	d := New(800, 600)
	w := window.New("a", true, d.GetCenter(100, 100))
	id := d.AddWindow(w)

	d.RemoveWindow(id)
	if _, ok := d.Window(id); ok {
		t.Fatal("expected window removed")
	}
	d.RemoveWindow(id) // must not panic or error
}

func TestGetCenter(t *testing.T) {
	d := New(1000, 800)
	r := d.GetCenter(200, 100)
	want := geometry.NewRect(400, 350, 200, 100)
	if r != want {
		t.Fatalf("GetCenter = %+v, want %+v", r, want)
	}
}

func TestTickClearsDirtyFlagsAndCallsRenderer(t *testing.T) {
	d := New(1920, 1080)
	mock := mockrenderer.New()
	d.SetupRenderer(mock)

	w := window.New("a", true, d.GetCenter(640, 480))
	d.AddWindow(w) // marks windowDirty
	d.UpdateMousePos(5, 5) // marks mouseDirty

	d.Tick()

	if mock.RenderCalls != 1 {
		t.Fatalf("expected 1 Render call, got %d", mock.RenderCalls)
	}
	if mock.MouseCalls != 1 {
		t.Fatalf("expected 1 mouse rebuild, got %d", mock.MouseCalls)
	}
	if mock.WindowCalls != 1 {
		t.Fatalf("expected 1 window rebuild, got %d", mock.WindowCalls)
	}
	if mock.BackgroundCalls != 1 {
		t.Fatalf("expected 1 background rebuild on first tick, got %d", mock.BackgroundCalls)
	}

	// Second tick with nothing dirty should rebuild nothing but still render.
	d.Tick()
	if mock.RenderCalls != 2 {
		t.Fatalf("expected 2 Render calls total, got %d", mock.RenderCalls)
	}
	if mock.MouseCalls != 1 || mock.WindowCalls != 1 || mock.BackgroundCalls != 1 {
		t.Fatalf("expected no further rebuilds on a clean tick: mouse=%d window=%d bg=%d",
			mock.MouseCalls, mock.WindowCalls, mock.BackgroundCalls)
	}
}

func TestTickSkippedInLowStateMode(t *testing.T) {
	d := New(1920, 1080)
	mock := mockrenderer.New()
	d.SetupRenderer(mock)
	d.SetLowStateMode(true)

	d.Tick()
	if mock.RenderCalls != 0 {
		t.Fatalf("expected no Render call while in low state mode, got %d", mock.RenderCalls)
	}
}

func TestUpdateMouseWheelDeltaDoesNotMarkDirty(t *testing.T) {
	d := New(1920, 1080)
	mock := mockrenderer.New()
	d.SetupRenderer(mock)
	d.Tick() // consume the initial background-dirty tick

	d.UpdateMouseWheelDelta(1, 1)
	d.Tick()

	if mock.MouseCalls != 0 {
		t.Fatalf("wheel motion should not mark the mouse layer dirty, got %d calls", mock.MouseCalls)
	}
}

func TestDragResizeBottomRightCornerClampsToMinimum(t *testing.T) {
	d := New(1920, 1080)
	mock := mockrenderer.New()
	d.SetupRenderer(mock)

	w := window.New("a", true, geometry.NewRect(100, 100, 200, 200))
	id := d.AddWindow(w)
	d.SetActiveWindow(id)

	d.UpdateButtonState(0, true) // left button down
	d.UpdateMousePos(700, 700)   // start the cursor well below-right of the window
	d.UpdateMousePos(-400, -400) // drag up-left onto the corner (100+200=300,300), shrinking below min

	d.Tick()

	width, height := w.GetSize()
	if width < minWindowExtent || height < minWindowExtent {
		t.Fatalf("expected size clamped to >= %d, got (%d, %d)", minWindowExtent, width, height)
	}
}

func TestDragTopEdgeMovesAndClampsToScreen(t *testing.T) {
	d := New(800, 600)
	mock := mockrenderer.New()
	d.SetupRenderer(mock)

	w := window.New("a", true, geometry.NewRect(10, 10, 200, 150))
	id := d.AddWindow(w)
	d.SetActiveWindow(id)

	d.UpdateButtonState(0, true)
	d.UpdateMousePos(1020, 1015)   // start the cursor well below-right of the window
	d.UpdateMousePos(-1000, -1000) // drag up-left into the title-bar zone (20,15): y=15 is 5 below the top at y=10

	d.Tick()

	x, y := w.GetPosition()
	if x < 0 || y < 0 {
		t.Fatalf("expected position clamped to >= 0, got (%d, %d)", x, y)
	}
}

func TestOnlyFirstActiveWindowIsDragged(t *testing.T) {
	d := New(1920, 1080)
	mock := mockrenderer.New()
	d.SetupRenderer(mock)

	w1 := window.New("a", true, geometry.NewRect(10, 10, 300, 300))
	w2 := window.New("b", true, geometry.NewRect(10, 10, 300, 300))
	id1 := d.AddWindow(w1)
	d.AddWindow(w2)
	d.SetActiveWindow(id1) // only w1 is active; w2 untouched regardless of proximity

	origX, origY := w2.GetPosition()

	d.UpdateButtonState(0, true)
	d.UpdateMousePos(10, 5)
	d.Tick()

	x2, y2 := w2.GetPosition()
	if x2 != origX || y2 != origY {
		t.Fatal("inactive window should never be moved by drag interaction")
	}
}
